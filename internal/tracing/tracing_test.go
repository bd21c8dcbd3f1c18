package tracing

import (
	"context"
	"testing"

	"shareit/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), config.TracingConfig{}, config.AppConfig{Name: "shareit"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestNewProvider(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	app := config.AppConfig{Name: "shareit", Version: "1.2.3", Environment: "test"}
	tp := NewProvider(exporter, config.TracingConfig{Enabled: true, SampleRatio: 1}, app)

	ctx := context.Background()
	_, span := tp.Tracer("test").Start(ctx, "BookingService.Create")
	span.End()
	require.NoError(t, tp.ForceFlush(ctx))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "BookingService.Create", spans[0].Name)

	attrs := map[string]string{}
	for _, kv := range spans[0].Resource.Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsString()
	}
	assert.Equal(t, "shareit", attrs["service.name"])
	assert.Equal(t, "1.2.3", attrs["service.version"])

	require.NoError(t, tp.Shutdown(ctx))
}

func TestNewProvider_ZeroRatioDropsSpans(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := NewProvider(exporter, config.TracingConfig{Enabled: true, SampleRatio: 0}, config.AppConfig{Name: "shareit"})

	ctx := context.Background()
	_, span := tp.Tracer("test").Start(ctx, "dropped")
	span.End()
	require.NoError(t, tp.ForceFlush(ctx))
	assert.Empty(t, exporter.GetSpans())
	require.NoError(t, tp.Shutdown(ctx))
}
