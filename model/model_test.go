package model

import (
	"encoding/json"
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenError(t *testing.T) {
	err := GenError("detector_batch", fs.ErrNotExist, map[string]interface{}{"frame": 2}, "error storing frame %d", 2)

	assert.Equal(t, "detector_batch", err.Processor)
	assert.Equal(t, "error storing frame 2", err.Message)
	assert.NotEmpty(t, err.StackTrace)
	assert.Equal(t, "detector_batch: error storing frame 2: file does not exist", err.Error())
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var target CustomError
	assert.True(t, errors.As(error(err), &target))
}

func TestGenErrorWithoutCause(t *testing.T) {
	err := GenError("remote_infer", nil, nil, "no image")

	assert.Equal(t, "remote_infer: no image", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestDetectionJSONShape(t *testing.T) {
	b, err := json.Marshal(Detection{
		Name:       "basketball",
		Class:      0,
		Confidence: 0.5,
		Box:        Box{X1: 1, Y1: 2, X2: 3, Y2: 4},
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{"name":"basketball","class":0,"confidence":0.5,"box":{"x1":1,"y1":2,"x2":3,"y2":4}}`, string(b))
}

func TestInferenceResponseDecodes(t *testing.T) {
	body := `{"time":0.05,"image":{"width":416,"height":416},"predictions":[{"x":1,"y":2,"width":3,"height":4,"confidence":0.7,"class":"basketball","class_id":0,"detection_id":"x"}],"inference_id":"i"}`

	var resp InferenceResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))

	assert.Equal(t, 416, resp.Image.Width)
	require.Len(t, resp.Predictions, 1)
	assert.Equal(t, "basketball", resp.Predictions[0].Class)
	assert.Equal(t, "i", resp.InferenceID)
}

func TestCustomErrorJSONOmitsInner(t *testing.T) {
	b, err := json.Marshal(GenError("remote_infer", errors.New("refused"), nil, "error inferring"))
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &fields))
	assert.NotContains(t, fields, "innerError")
	assert.Equal(t, "error inferring", fields["message"])
}
