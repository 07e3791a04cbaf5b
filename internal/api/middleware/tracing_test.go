package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/marketplace/internal/api/middleware"
)

func newTracedEcho(t *testing.T) (*echo.Echo, *tracetest.SpanRecorder, *sdkmetric.ManualReader) {
	t.Helper()

	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	e := echo.New()
	e.Use(middleware.Tracing(
		middleware.WithTracerProvider(tp),
		middleware.WithMeterProvider(mp),
	))
	e.GET("/api/items", func(c echo.Context) error {
		return c.JSON(http.StatusOK, []string{})
	})
	e.DELETE("/api/items/remove/:id", func(_ echo.Context) error {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "db down")
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	return e, rec, reader
}

func TestTracing_ServerSpan(t *testing.T) {
	t.Parallel()

	e, rec, _ := newTracedEcho(t)

	req := httptest.NewRequest(http.MethodGet, "/api/items", http.NoBody)
	e.ServeHTTP(httptest.NewRecorder(), req)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /api/items", spans[0].Name())
	assert.Equal(t, trace.SpanKindServer, spans[0].SpanKind())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
}

func TestTracing_RoutePatternAndError(t *testing.T) {
	t.Parallel()

	e, rec, _ := newTracedEcho(t)

	req := httptest.NewRequest(http.MethodDelete, "/api/items/remove/abc", http.NoBody)
	rr := httptest.NewRecorder()
	e.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "DELETE /api/items/remove/:id", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}

func TestTracing_ContinuesIncomingTrace(t *testing.T) {
	t.Parallel()

	rec := tracetest.NewSpanRecorder()
	e := echo.New()
	e.Use(middleware.Tracing(
		middleware.WithTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))),
		middleware.WithPropagator(propagation.TraceContext{}),
	))
	e.GET("/api/items", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	parent := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x01, 0x02, 0x03},
		SpanID:     trace.SpanID{0x0a},
		TraceFlags: trace.FlagsSampled,
		Remote:     true,
	})
	req := httptest.NewRequest(http.MethodGet, "/api/items", http.NoBody)
	propagation.TraceContext{}.Inject(
		trace.ContextWithRemoteSpanContext(context.Background(), parent),
		propagation.HeaderCarrier(req.Header),
	)

	e.ServeHTTP(httptest.NewRecorder(), req)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, parent.TraceID(), spans[0].SpanContext().TraceID())
	assert.Equal(t, parent.SpanID(), spans[0].Parent().SpanID())
}

func TestTracing_SkipsOperationalPaths(t *testing.T) {
	t.Parallel()

	e, rec, _ := newTracedEcho(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	e.ServeHTTP(httptest.NewRecorder(), req)

	assert.Empty(t, rec.Ended())
}

func TestTracing_RecordsDuration(t *testing.T) {
	t.Parallel()

	e, _, reader := newTracedEcho(t)

	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/api/items", http.NoBody)
		e.ServeHTTP(httptest.NewRecorder(), req)
	}

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	require.Len(t, rm.ScopeMetrics[0].Metrics, 1)

	m := rm.ScopeMetrics[0].Metrics[0]
	assert.Equal(t, "http.server.request.duration", m.Name)

	hist, ok := m.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 1)
	assert.Equal(t, uint64(3), hist.DataPoints[0].Count)
}
