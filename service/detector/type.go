package detector

import (
	"context"

	"github.com/khaledhikmat/ballspot/model"
)

// IService runs a local detection model over a video.
type IService interface {
	// Predict loads the model once and streams one result per frame, in frame
	// order. The result channel closes when the video ends or on the first
	// failure; the error channel then yields at most one error and closes.
	// Both channels are single-use.
	Predict(canx context.Context, video string) (<-chan model.FrameResult, <-chan error)
}
