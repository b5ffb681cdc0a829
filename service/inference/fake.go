package inference

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/khaledhikmat/ballspot/model"
)

type Call struct {
	Image   string
	ModelID string
}

type Fake struct {
	mu       sync.Mutex
	calls    []Call
	response model.InferenceResponse
	err      error
}

// NewFake answers every call with response (or err) and records the calls.
func NewFake(response model.InferenceResponse, err error) *Fake {
	return &Fake{
		response: response,
		err:      err,
	}
}

func (svc *Fake) Infer(_ context.Context, image string, modelID string) (Result, error) {
	svc.mu.Lock()
	svc.calls = append(svc.calls, Call{Image: image, ModelID: modelID})
	svc.mu.Unlock()

	if svc.err != nil {
		return Result{}, svc.err
	}

	raw, err := json.Marshal(svc.response)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Raw:      raw,
		Response: svc.response,
		Status:   200,
	}, nil
}

func (svc *Fake) Calls() []Call {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	return append([]Call{}, svc.calls...)
}
