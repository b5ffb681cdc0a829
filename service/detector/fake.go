package detector

import (
	"context"

	"golang.org/x/xerrors"

	"github.com/khaledhikmat/ballspot/model"
)

// Fake produces synthetic results for a fixed number of frames. Even frames carry one basketball,
// odd frames none. With failAt >= 0 the sequence fails at that frame.
type Fake struct {
	frames int
	failAt int
	calls  int
}

func NewFake(frames int, failAt int) *Fake {
	return &Fake{
		frames: frames,
		failAt: failAt,
	}
}

func (svc *Fake) Predict(canx context.Context, _ string) (<-chan model.FrameResult, <-chan error) {
	svc.calls++
	results := make(chan model.FrameResult)
	errs := make(chan error, 1)

	go func() {
		defer close(errs)
		defer close(results)

		for i := 0; i < svc.frames; i++ {
			if err := canx.Err(); err != nil {
				errs <- err
				return
			}
			if i == svc.failAt {
				errs <- xerrors.Errorf("fake detector failed at frame %d", i)
				return
			}

			result := model.FrameResult{
				Index:      i,
				Width:      640,
				Height:     480,
				Detections: []model.Detection{},
			}
			if i%2 == 0 {
				result.Detections = append(result.Detections, model.Detection{
					Name:       "basketball",
					Class:      0,
					Confidence: 0.9,
					Box:        model.Box{X1: 10, Y1: 20, X2: 50, Y2: 60},
				})
			}

			select {
			case <-canx.Done():
				errs <- canx.Err()
				return
			case results <- result:
			}
		}
	}()

	return results, errs
}

func (svc *Fake) Calls() int {
	return svc.calls
}
