package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/donaldgifford/marketplace/internal/config"
)

func TestSampler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		ratio float64
		want  string
	}{
		{name: "always", ratio: 1, want: "AlwaysOnSampler"},
		{name: "never", ratio: 0, want: "AlwaysOffSampler"},
		{name: "ratio", ratio: 0.25, want: "TraceIDRatioBased{0.25}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			desc := Sampler(tt.ratio).Description()
			assert.Contains(t, desc, "ParentBased")
			assert.Contains(t, desc, tt.want)
		})
	}
}

func TestSetup_Disabled(t *testing.T) {
	before := otel.GetTracerProvider()

	shutdown, err := Setup(context.Background(), config.TelemetryConfig{}, "test")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))

	assert.Equal(t, before, otel.GetTracerProvider(), "disabled telemetry installs no provider")
	assert.NotNil(t, otel.GetTextMapPropagator())
}

func TestSetup_Enabled(t *testing.T) {
	// Exporters dial lazily, so setup succeeds without a collector.
	shutdown, err := Setup(context.Background(), config.TelemetryConfig{
		Enabled:        true,
		Endpoint:       "127.0.0.1:1",
		Insecure:       true,
		ServiceName:    "items-server-test",
		SampleRatio:    1,
		MetricInterval: time.Hour,
	}, "test")
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	// Flushing to an absent collector may fail; shutdown must still return.
	_ = shutdown(ctx)
}

func TestNewResource(t *testing.T) {
	t.Parallel()

	res, err := newResource(context.Background(), "items-server", "v1.2.3")
	require.NoError(t, err)

	attrs := map[string]string{}
	for _, kv := range res.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "items-server", attrs["service.name"])
	assert.Equal(t, "v1.2.3", attrs["service.version"])
}
