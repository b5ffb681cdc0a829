package config

type DetectorParameters struct {
	Classes             []string
	LabelsPath          string
	InputSize           int
	ConfidenceThreshold float32
	NMSThreshold        float32
	SaveAnnotated       bool
	AnnotatedFolder     string
	Logging             bool
	LogPath             string
}

type IService interface {
	GetModeMaxShutdownTime() int
	GetLogLevel() string
	GetStatsFolder() string
	GetTraceStdout() bool

	GetInferenceAPIURL() string
	GetInferenceAPIKey() string
	GetInferenceModelID() string
	GetInferenceImagePath() string

	GetDetectorModelPath() string
	GetDetectorVideoPath() string
	GetDetectorOutputFolder() string
	GetDetectorParameters() DetectorParameters
}
