package mode

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/khaledhikmat/ballspot/model"
	"github.com/khaledhikmat/ballspot/service/lgr"
)

const detectProc = "detector_batch"

// Detect runs the local model over every frame of the configured video and
// stores one JSON file per frame. The first failure ends the run, so no file
// is written for any frame after it.
func Detect(canxCtx context.Context, svcs ServicesFactory) error {
	runID := uuid.NewString()
	video := svcs.CfgSvc.GetDetectorVideoPath()
	modelPath := svcs.CfgSvc.GetDetectorModelPath()

	ctx, span := otel.Tracer(tracerName).Start(canxCtx, "detect", trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.String("video", video),
		attribute.String("model", modelPath),
	))
	defer span.End()

	// Cancelling tells the detector to stop producing if we bail out early
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lgr.Logger.InfoContext(ctx, "batch detector starting....",
		slog.String("runID", runID),
		slog.String("video", video),
		slog.String("model", modelPath),
		slog.String("output", svcs.CfgSvc.GetDetectorOutputFolder()),
	)

	stats := model.DetectorStats{
		RunID: runID,
		Video: video,
		Model: modelPath,
	}
	beginTime := time.Now()
	var totalProcTime time.Duration

	defer func() {
		stats.Uptime = int64(time.Since(beginTime).Seconds())
		if stats.Frames > 0 {
			stats.AvgProcTime = totalProcTime.Seconds() / float64(stats.Frames)
		}
		procStats(svcs.DataSvc, stats)
	}()

	abort := func(err error, misc map[string]interface{}, messagef string, args ...interface{}) error {
		stats.Errors++
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fail(svcs.DataSvc, detectProc, err, misc, messagef, args...)
	}

	if err := svcs.StorageSvc.Prepare(); err != nil {
		return abort(err, nil, "error preparing output folder")
	}

	results, errs := svcs.DetectorSvc.Predict(ctx, video)

	frameStart := time.Now()
	for result := range results {
		totalProcTime += time.Since(frameStart)

		detections := result.Detections
		if detections == nil {
			detections = []model.Detection{}
		}

		payload, err := json.MarshalIndent(detections, "", "  ")
		if err != nil {
			return abort(err, map[string]interface{}{"frame": result.Index}, "error serializing frame %d", result.Index)
		}

		fn, err := svcs.StorageSvc.StoreFrame(result.Index, payload)
		if err != nil {
			return abort(err, map[string]interface{}{"frame": result.Index}, "error storing frame %d", result.Index)
		}

		stats.Frames++
		stats.Detections += len(detections)

		lgr.Logger.DebugContext(ctx, "frame stored",
			slog.Int("frame", result.Index),
			slog.Int("detections", len(detections)),
			slog.String("file", fn),
		)

		frameStart = time.Now()
	}

	if err := <-errs; err != nil {
		return abort(err, map[string]interface{}{"frames": stats.Frames}, "error running detector on %s", video)
	}

	lgr.Logger.InfoContext(ctx, "batch detector finished",
		slog.String("runID", runID),
		slog.Int("frames", stats.Frames),
		slog.Int("detections", stats.Detections),
		slog.Duration("elapsed", time.Since(beginTime)),
	)

	return nil
}
