package mode

import (
	"context"
	"io"
	"log/slog"

	"github.com/khaledhikmat/ballspot/model"
	"github.com/khaledhikmat/ballspot/service/config"
	"github.com/khaledhikmat/ballspot/service/data"
	"github.com/khaledhikmat/ballspot/service/detector"
	"github.com/khaledhikmat/ballspot/service/inference"
	"github.com/khaledhikmat/ballspot/service/lgr"
	"github.com/khaledhikmat/ballspot/service/storage"
)

const tracerName = "github.com/khaledhikmat/ballspot/mode"

// ServicesFactory carries the services a mode processor may use. A mode only
// touches the ones it needs, so the others may be nil.
type ServicesFactory struct {
	CfgSvc       config.IService
	DataSvc      data.IService
	StorageSvc   storage.IService
	InferenceSvc inference.IService
	DetectorSvc  detector.IService
	Out          io.Writer
}

type Processor func(canxCtx context.Context, svcs ServicesFactory) error

func procStats(datasvc data.IService, stats interface{}) {
	var err error
	switch stats := stats.(type) {
	case model.DetectorStats:
		err = datasvc.NewDetectorStats(stats)
	case model.InferenceStats:
		err = datasvc.NewInferenceStats(stats)
	default:
		lgr.Logger.Error(
			"unknown stats type",
			slog.Any("stats", stats),
		)
		return
	}

	if err != nil {
		lgr.Logger.Error(
			"failed to store stats",
			slog.Any("stats", stats),
			slog.Any("error", err),
		)
	}
}

func procError(datasvc data.IService, err interface{}) {
	errTemp := datasvc.NewError(err)
	if errTemp != nil {
		lgr.Logger.Error(
			"failed to store error",
			slog.Any("error", errTemp),
		)
	}
}

// fail records a run-ending error and hands it back for the caller to return.
func fail(datasvc data.IService, proc string, err error, misc map[string]interface{}, messagef string, args ...interface{}) error {
	customErr := model.GenError(proc, err, misc, messagef, args...)
	procError(datasvc, customErr)
	return customErr
}
