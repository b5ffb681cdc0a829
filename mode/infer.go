package mode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/khaledhikmat/ballspot/model"
	"github.com/khaledhikmat/ballspot/service/lgr"
)

const inferProc = "remote_infer"

// Infer submits the configured image to the hosted model once and prints
// the response body.
func Infer(canxCtx context.Context, svcs ServicesFactory) error {
	runID := uuid.NewString()
	image := svcs.CfgSvc.GetInferenceImagePath()
	modelID := svcs.CfgSvc.GetInferenceModelID()

	ctx, span := otel.Tracer(tracerName).Start(canxCtx, "infer", trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.String("image", image),
		attribute.String("model.id", modelID),
	))
	defer span.End()

	lgr.Logger.InfoContext(ctx, "remote inference starting....",
		slog.String("runID", runID),
		slog.String("image", image),
		slog.String("modelID", modelID),
		slog.String("api", svcs.CfgSvc.GetInferenceAPIURL()),
	)

	stats := model.InferenceStats{
		RunID:   runID,
		Image:   image,
		ModelID: modelID,
	}
	defer func() {
		procStats(svcs.DataSvc, stats)
	}()

	result, err := svcs.InferenceSvc.Infer(ctx, image, modelID)
	stats.Status = result.Status
	stats.Elapsed = result.Elapsed.Seconds()
	if err != nil {
		stats.Errors++
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fail(svcs.DataSvc, inferProc, err, map[string]interface{}{"status": result.Status}, "error inferring %s with %s", image, modelID)
	}

	stats.Predictions = len(result.Response.Predictions)

	// Indent when the body is JSON, otherwise print it untouched
	var out bytes.Buffer
	if err := json.Indent(&out, result.Raw, "", "  "); err != nil {
		out.Reset()
		out.Write(result.Raw)
	}
	if _, err := fmt.Fprintln(svcs.Out, out.String()); err != nil {
		return fail(svcs.DataSvc, inferProc, err, nil, "error printing inference response")
	}

	lgr.Logger.InfoContext(ctx, "remote inference finished",
		slog.String("runID", runID),
		slog.Int("status", result.Status),
		slog.Int("predictions", stats.Predictions),
		slog.Duration("elapsed", result.Elapsed),
	)

	return nil
}
