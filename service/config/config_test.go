package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHardCodedDefaults(t *testing.T) {
	svc := NewHardCoded()

	assert.Equal(t, "https://detect.roboflow.com", svc.GetInferenceAPIURL())
	assert.Equal(t, "basketball-1zhpe-ylcag/1", svc.GetInferenceModelID())
	assert.Equal(t, "your_image.jpg", svc.GetInferenceImagePath())
	assert.Empty(t, svc.GetInferenceAPIKey())
	assert.Equal(t, "best.onnx", svc.GetDetectorModelPath())
	assert.Equal(t, "final_ball.mov", svc.GetDetectorVideoPath())
	assert.Equal(t, "yolo_results", svc.GetDetectorOutputFolder())
	assert.Equal(t, 5, svc.GetModeMaxShutdownTime())

	params := svc.GetDetectorParameters()
	assert.Equal(t, []string{"basketball"}, params.Classes)
	assert.Equal(t, 640, params.InputSize)
	assert.InDelta(t, 0.25, params.ConfidenceThreshold, 1e-6)
	assert.InDelta(t, 0.7, params.NMSThreshold, 1e-6)
	assert.True(t, params.SaveAnnotated)
	assert.False(t, params.Logging)
}

func TestHardCodedIgnoresEnvironment(t *testing.T) {
	t.Setenv("BALLSPOT_INFERENCE_MODEL_ID", "other/2")

	assert.Equal(t, "basketball-1zhpe-ylcag/1", NewHardCoded().GetInferenceModelID())
}

func TestLayeredEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("BALLSPOT_INFERENCE_API_KEY", "secret")
	t.Setenv("BALLSPOT_INFERENCE_API_URL", "http://localhost:9001/")
	t.Setenv("BALLSPOT_DETECTOR_INPUT_SIZE", "320")
	t.Setenv("BALLSPOT_DETECTOR_CONFIDENCE", "0.5")
	t.Setenv("BALLSPOT_DETECTOR_SAVE_ANNOTATED", "false")
	t.Setenv("BALLSPOT_DETECTOR_CLASSES", "ball, hoop ,")

	svc, err := NewLayered(nil)
	require.NoError(t, err)

	assert.Equal(t, "secret", svc.GetInferenceAPIKey())
	assert.Equal(t, "http://localhost:9001", svc.GetInferenceAPIURL())

	params := svc.GetDetectorParameters()
	assert.Equal(t, 320, params.InputSize)
	assert.InDelta(t, 0.5, params.ConfidenceThreshold, 1e-6)
	assert.False(t, params.SaveAnnotated)
	assert.Equal(t, []string{"ball", "hoop"}, params.Classes)
}

func TestLayeredOverridesWin(t *testing.T) {
	t.Setenv("BALLSPOT_DETECTOR_VIDEO_PATH", "from-env.mov")

	svc, err := NewLayered(map[string]interface{}{
		DetectorVideoPathKey:    "from-flag.mov",
		DetectorOutputFolderKey: "out",
	})
	require.NoError(t, err)

	assert.Equal(t, "from-flag.mov", svc.GetDetectorVideoPath())
	assert.Equal(t, "out", svc.GetDetectorOutputFolder())
	assert.Equal(t, "best.onnx", svc.GetDetectorModelPath())
}

func TestTraceStdoutDefaultsOff(t *testing.T) {
	assert.False(t, NewHardCoded().GetTraceStdout())

	t.Setenv("BALLSPOT_TRACE_STDOUT", "true")
	svc, err := NewLayered(nil)
	require.NoError(t, err)
	assert.True(t, svc.GetTraceStdout())
}
