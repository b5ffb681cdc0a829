package data

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/xerrors"

	"github.com/khaledhikmat/ballspot/model"
	"github.com/khaledhikmat/ballspot/service/config"
)

const (
	errorsFile         = "errors"
	detectorStatsFile  = "detector-stats"
	inferenceStatsFile = "inference-stats"
)

type filesDBService struct {
	CfgSvc config.IService
}

func NewFilesDB(cfgsvc config.IService) IService {
	return &filesDBService{
		CfgSvc: cfgsvc,
	}
}

func (svc *filesDBService) NewError(err interface{}) error {
	// Determine if the error is custom
	var customErr model.CustomError
	switch e := err.(type) {
	case model.CustomError:
		customErr = e
	case error:
		customErr.Processor = "N/A"
		customErr.Inner = e
		customErr.Message = e.Error()
		customErr.StackTrace = "N/A"
	default:
		customErr.Processor = "N/A"
		customErr.Message = fmt.Sprintf("%v", err)
		customErr.StackTrace = "N/A"
	}

	inner := ""
	if customErr.Inner != nil {
		inner = customErr.Inner.Error()
	}

	// Create an error object to persist
	errorData := struct {
		Timestamp  int64                  `json:"timestamp"`
		Processor  string                 `json:"processor"`
		Inner      string                 `json:"innerError"`
		Message    string                 `json:"message"`
		StackTrace string                 `json:"stackTrace"`
		Misc       map[string]interface{} `json:"misc"`
	}{
		Timestamp:  time.Now().Unix(),
		Processor:  customErr.Processor,
		Inner:      inner,
		Message:    customErr.Message,
		StackTrace: customErr.StackTrace,
		Misc:       customErr.Misc,
	}
	return newEntity(errorData, errorsFile, svc.CfgSvc)
}

func (svc *filesDBService) NewDetectorStats(stats model.DetectorStats) error {
	stats.Timestamp = time.Now().Unix()
	return newEntity(stats, detectorStatsFile, svc.CfgSvc)
}

func (svc *filesDBService) NewInferenceStats(stats model.InferenceStats) error {
	stats.Timestamp = time.Now().Unix()
	return newEntity(stats, inferenceStatsFile, svc.CfgSvc)
}

func (svc *filesDBService) RetrieveDetectorStats() ([]model.DetectorStats, error) {
	return retrieveEntities[model.DetectorStats](detectorStatsFile, svc.CfgSvc)
}

func (svc *filesDBService) RetrieveInferenceStats() ([]model.InferenceStats, error) {
	return retrieveEntities[model.InferenceStats](inferenceStatsFile, svc.CfgSvc)
}

func entityPath(filename string, cfgsvc config.IService) string {
	return filepath.Join(cfgsvc.GetStatsFolder(), filename+".json")
}

func newEntity[T any](entity T, filename string, cfgsvc config.IService) error {
	entities, err := retrieveEntities[T](filename, cfgsvc)
	if err != nil {
		return err
	}

	entities = append(entities, entity)

	data, err := json.MarshalIndent(entities, "", "  ")
	if err != nil {
		return xerrors.Errorf("marshalling %s: %w", filename, err)
	}

	if err := os.MkdirAll(cfgsvc.GetStatsFolder(), 0755); err != nil {
		return xerrors.Errorf("creating stats folder: %w", err)
	}

	// Write the whole list back (with truncation)
	if err := os.WriteFile(entityPath(filename, cfgsvc), data, 0644); err != nil {
		return xerrors.Errorf("writing %s: %w", filename, err)
	}

	return nil
}

func retrieveEntities[T any](filename string, cfgsvc config.IService) ([]T, error) {
	entities := []T{}

	data, err := os.ReadFile(entityPath(filename, cfgsvc))
	if errors.Is(err, fs.ErrNotExist) {
		return entities, nil
	}
	if err != nil {
		return nil, xerrors.Errorf("reading %s: %w", filename, err)
	}

	if err := json.Unmarshal(data, &entities); err != nil {
		return nil, xerrors.Errorf("decoding %s: %w", filename, err)
	}

	return entities, nil
}
