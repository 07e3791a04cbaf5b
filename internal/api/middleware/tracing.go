package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/donaldgifford/marketplace/internal/api/middleware"

type tracingConfig struct {
	tp         trace.TracerProvider
	mp         metric.MeterProvider
	propagator propagation.TextMapPropagator
}

// TracingOption configures Tracing.
type TracingOption func(*tracingConfig)

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) TracingOption {
	return func(c *tracingConfig) { c.tp = tp }
}

// WithMeterProvider overrides the global meter provider.
func WithMeterProvider(mp metric.MeterProvider) TracingOption {
	return func(c *tracingConfig) { c.mp = mp }
}

// WithPropagator overrides the global text map propagator.
func WithPropagator(p propagation.TextMapPropagator) TracingOption {
	return func(c *tracingConfig) { c.propagator = p }
}

// Tracing returns Echo middleware that continues the caller's trace, opens a
// server span per request and records http.server.request.duration through
// the OpenTelemetry meter. Operational paths are not traced.
func Tracing(opts ...TracingOption) echo.MiddlewareFunc {
	cfg := tracingConfig{
		tp:         otel.GetTracerProvider(),
		mp:         otel.GetMeterProvider(),
		propagator: otel.GetTextMapPropagator(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	tracer := cfg.tp.Tracer(instrumentationName)
	meter := cfg.mp.Meter(instrumentationName)

	// A failed instrument registration leaves a no-op histogram.
	duration, _ := meter.Float64Histogram("http.server.request.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of HTTP server requests."),
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := routePath(c)
			if isOperational(path) {
				return next(c)
			}

			req := c.Request()
			ctx := cfg.propagator.Extract(req.Context(), propagation.HeaderCarrier(req.Header))

			attrs := []attribute.KeyValue{
				attribute.String("http.request.method", req.Method),
				attribute.String("http.route", path),
			}
			ctx, span := tracer.Start(ctx, req.Method+" "+path,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(attrs...),
			)
			defer span.End()

			if id, ok := c.Get(requestIDKey).(string); ok {
				span.SetAttributes(attribute.String("request.id", id))
			}

			c.SetRequest(req.WithContext(ctx))

			start := time.Now()
			err := next(c)
			status := responseStatus(c, err)

			span.SetAttributes(attribute.Int("http.response.status_code", status))
			if status >= http.StatusInternalServerError {
				if err != nil {
					span.RecordError(err)
				}
				span.SetStatus(codes.Error, http.StatusText(status))
			}

			attrs = append(attrs, attribute.Int("http.response.status_code", status))
			duration.Record(ctx, time.Since(start).Seconds(), metric.WithAttributes(attrs...))

			return err
		}
	}
}
