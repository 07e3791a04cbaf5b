// Package client is the HTTP client for the remote listing service. It owns
// request construction, response decoding and error classification. The
// client is stateless: no caching, no retries, one request per call.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/donaldgifford/marketplace/internal/metrics"
	"github.com/donaldgifford/marketplace/pkg/logger"
)

// DefaultBaseURL is the listing service root used when none is configured.
const DefaultBaseURL = "http://localhost:3000/api"

const tracerName = "github.com/donaldgifford/marketplace/internal/api/client"

// Client talks to the listing service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
	metrics    bool
	tracer     trace.Tracer
}

// New creates a new API client targeting the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		log:        logger.Discard(),
		metrics:    true,
		tracer:     otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for per-call debug records.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = logger.OrDiscard(l)
	}
}

// WithoutMetrics disables Prometheus instrumentation.
func WithoutMetrics() Option {
	return func(c *Client) {
		c.metrics = false
	}
}

// WithTracerProvider records client spans on tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		c.tracer = tp.Tracer(tracerName)
	}
}

// BaseURL returns the service root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// call performs one request and returns the body of a 2xx response.
// op names the operation for logs and metrics.
func (c *Client) call(ctx context.Context, op, method, path string, body any) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "items."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer span.End()

	start := time.Now()
	respBody, status, err := c.do(ctx, method, path, body)

	if status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome(err))
	}

	elapsed := time.Since(start)
	if c.metrics {
		metrics.ClientRequestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
		metrics.ClientRequestsTotal.WithLabelValues(op, outcome(err)).Inc()
	}
	c.log.DebugContext(ctx, "listing service call",
		"op", op,
		"method", method,
		"path", path,
		"status", status,
		"duration_ms", elapsed.Milliseconds(),
		"error", err,
	)

	return respBody, err
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, int, error) {
	target, err := c.resolve(path)
	if err != nil {
		return nil, 0, err
	}

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", ErrEncoding, err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: creating request: %w", ErrInvalidURL, err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return nil, 0, fmt.Errorf("%w at %s: %w", ErrUnreachable, c.baseURL, err)
		}
		return nil, 0, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if readErr != nil {
			respBody = nil
		}
		return nil, resp.StatusCode, newServerError(resp.StatusCode, respBody)
	}

	if readErr != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response body: %w", readErr)
	}

	return respBody, resp.StatusCode, nil
}

func (c *Client) resolve(path string) (string, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, c.baseURL)
	}
	return u.String(), nil
}

func isConnectionRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED) ||
		strings.Contains(err.Error(), "connection refused")
}
