package tracer

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/khaledhikmat/ballspot/service/config"
	"github.com/khaledhikmat/ballspot/service/lgr"
)

func setupQuiet(t *testing.T) *bytes.Buffer {
	t.Helper()

	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	cfg, err := config.NewLayered(map[string]interface{}{
		config.TraceStdoutKey: false,
	})
	require.NoError(t, err)

	var out bytes.Buffer
	shutdown, err := Setup(cfg, &out)
	require.NoError(t, err)
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	return &out
}

func TestSetupGivesLogsTraceIDs(t *testing.T) {
	out := setupQuiet(t)

	ctx, span := otel.Tracer("ballspot-test").Start(context.Background(), "detect")
	require.True(t, span.SpanContext().IsValid())

	var logs bytes.Buffer
	logger := slog.New(lgr.NewPrettyHandler(&logs, nil))
	logger.InfoContext(ctx, "batch detector starting....")
	span.End()

	assert.Contains(t, logs.String(), span.SpanContext().TraceID().String())
	assert.Contains(t, logs.String(), span.SpanContext().SpanID().String())
	assert.Empty(t, out.String())
}

func TestSetupExportsToStdoutWhenEnabled(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	cfg, err := config.NewLayered(map[string]interface{}{
		config.TraceStdoutKey: true,
	})
	require.NoError(t, err)

	var out bytes.Buffer
	shutdown, err := Setup(cfg, &out)
	require.NoError(t, err)

	_, span := otel.Tracer("ballspot-test").Start(context.Background(), "infer")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, out.String(), `"infer"`)
	assert.Contains(t, out.String(), serviceName)
}
