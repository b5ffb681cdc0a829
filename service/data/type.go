package data

import "github.com/khaledhikmat/ballspot/model"

type IService interface {
	NewError(err interface{}) error
	NewDetectorStats(stats model.DetectorStats) error
	NewInferenceStats(stats model.InferenceStats) error

	RetrieveDetectorStats() ([]model.DetectorStats, error)
	RetrieveInferenceStats() ([]model.InferenceStats, error)
}
