package inference

import (
	"context"
	"encoding/json"
	"time"

	"github.com/khaledhikmat/ballspot/model"
)

type Result struct {
	Raw      json.RawMessage         `json:"raw"`
	Response model.InferenceResponse `json:"response"`
	Status   int                     `json:"status"`
	Elapsed  time.Duration           `json:"elapsed"`
}

// IService submits one image to a detection model and returns its answer.
// image is a local file path or an http(s) URL.
type IService interface {
	Infer(ctx context.Context, image string, modelID string) (Result, error)
}
