package config

import (
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"golang.org/x/xerrors"
)

// EnvPrefix marks the environment variables the layered service reads,
// e.g. BALLSPOT_INFERENCE_API_KEY -> inference_api_key.
const EnvPrefix = "BALLSPOT_"

type layeredService struct {
	k *koanf.Koanf
}

// NewLayered stacks the defaults, the BALLSPOT_ environment and the given
// overrides (usually CLI flags), later layers winning.
func NewLayered(overrides map[string]interface{}) (IService, error) {
	return load(true, overrides)
}

func load(withEnv bool, overrides map[string]interface{}) (*layeredService, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), "."), nil); err != nil {
		return nil, xerrors.Errorf("loading config defaults: %w", err)
	}

	if withEnv {
		err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
			return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		}), nil)
		if err != nil {
			return nil, xerrors.Errorf("loading config environment: %w", err)
		}
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, xerrors.Errorf("loading config overrides: %w", err)
		}
	}

	return &layeredService{k: k}, nil
}

func (svc *layeredService) GetModeMaxShutdownTime() int {
	return svc.k.Int(ModeMaxShutdownTimeKey)
}

func (svc *layeredService) GetLogLevel() string {
	return svc.k.String(LogLevelKey)
}

func (svc *layeredService) GetStatsFolder() string {
	return svc.k.String(StatsFolderKey)
}

func (svc *layeredService) GetTraceStdout() bool {
	return svc.k.Bool(TraceStdoutKey)
}

func (svc *layeredService) GetInferenceAPIURL() string {
	return strings.TrimRight(svc.k.String(InferenceAPIURLKey), "/")
}

func (svc *layeredService) GetInferenceAPIKey() string {
	return svc.k.String(InferenceAPIKeyKey)
}

func (svc *layeredService) GetInferenceModelID() string {
	return svc.k.String(InferenceModelIDKey)
}

func (svc *layeredService) GetInferenceImagePath() string {
	return svc.k.String(InferenceImagePathKey)
}

func (svc *layeredService) GetDetectorModelPath() string {
	return svc.k.String(DetectorModelPathKey)
}

func (svc *layeredService) GetDetectorVideoPath() string {
	return svc.k.String(DetectorVideoPathKey)
}

func (svc *layeredService) GetDetectorOutputFolder() string {
	return svc.k.String(DetectorOutputFolderKey)
}

func (svc *layeredService) GetDetectorParameters() DetectorParameters {
	classes := []string{}
	for _, c := range strings.Split(svc.k.String(DetectorClassesKey), ",") {
		if c = strings.TrimSpace(c); c != "" {
			classes = append(classes, c)
		}
	}

	return DetectorParameters{
		Classes:             classes,
		LabelsPath:          svc.k.String(DetectorLabelsPathKey),
		InputSize:           svc.k.Int(DetectorInputSizeKey),
		ConfidenceThreshold: float32(svc.k.Float64(DetectorConfidenceKey)),
		NMSThreshold:        float32(svc.k.Float64(DetectorNMSKey)),
		SaveAnnotated:       svc.k.Bool(DetectorSaveAnnotatedKey),
		AnnotatedFolder:     svc.k.String(DetectorAnnotatedFolderKey),
		Logging:             svc.k.Bool(DetectorLoggingKey),
		LogPath:             svc.k.String(DetectorLogPathKey),
	}
}
