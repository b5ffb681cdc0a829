package config

// Keys shared by the hardcoded defaults and the layered service.
const (
	ModeMaxShutdownTimeKey     = "mode_max_shutdown_time"
	LogLevelKey                = "log_level"
	StatsFolderKey             = "stats_folder"
	TraceStdoutKey             = "trace_stdout"
	InferenceAPIURLKey         = "inference_api_url"
	InferenceAPIKeyKey         = "inference_api_key"
	InferenceModelIDKey        = "inference_model_id"
	InferenceImagePathKey      = "inference_image_path"
	DetectorModelPathKey       = "detector_model_path"
	DetectorVideoPathKey       = "detector_video_path"
	DetectorOutputFolderKey    = "detector_output_folder"
	DetectorClassesKey         = "detector_classes"
	DetectorLabelsPathKey      = "detector_labels_path"
	DetectorInputSizeKey       = "detector_input_size"
	DetectorConfidenceKey      = "detector_confidence"
	DetectorNMSKey             = "detector_nms"
	DetectorSaveAnnotatedKey   = "detector_save_annotated"
	DetectorAnnotatedFolderKey = "detector_annotated_folder"
	DetectorLoggingKey         = "detector_logging"
	DetectorLogPathKey         = "detector_log_path"
)

// Defaults returns the values the tool runs with when nothing is configured.
// The API key is left empty.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		ModeMaxShutdownTimeKey:     5,
		LogLevelKey:                "info",
		StatsFolderKey:             "stats",
		TraceStdoutKey:             false,
		InferenceAPIURLKey:         "https://detect.roboflow.com",
		InferenceAPIKeyKey:         "",
		InferenceModelIDKey:        "basketball-1zhpe-ylcag/1",
		InferenceImagePathKey:      "your_image.jpg",
		DetectorModelPathKey:       "best.onnx",
		DetectorVideoPathKey:       "final_ball.mov",
		DetectorOutputFolderKey:    "yolo_results",
		DetectorClassesKey:         "basketball",
		DetectorLabelsPathKey:      "",
		DetectorInputSizeKey:       640,
		DetectorConfidenceKey:      0.25,
		DetectorNMSKey:             0.7,
		DetectorSaveAnnotatedKey:   true,
		DetectorAnnotatedFolderKey: "runs/detect/predict",
		DetectorLoggingKey:         false,
		DetectorLogPathKey:         "detections.log",
	}
}

// NewHardCoded returns a service that only knows the built-in defaults.
func NewHardCoded() IService {
	svc, err := load(false, nil)
	if err != nil {
		// Defaults are static maps; loading them cannot fail.
		panic(err)
	}
	return svc
}
