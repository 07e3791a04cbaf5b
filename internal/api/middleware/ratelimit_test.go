package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	ptestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	mw "github.com/donaldgifford/marketplace/internal/api/middleware"
	"github.com/donaldgifford/marketplace/internal/metrics"
)

func newLimitedServer(cfg mw.RateLimitConfig) *echo.Echo {
	e := echo.New()
	e.Use(mw.RateLimit(cfg))
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	e.GET("/api/items", ok)
	e.GET("/healthz", ok)
	return e
}

func hit(e *echo.Echo, path, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
	req.RemoteAddr = ip + ":1234"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_RejectsOverBurst(t *testing.T) {
	e := newLimitedServer(mw.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2})

	before := ptestutil.ToFloat64(metrics.HTTPRateLimitedTotal)

	assert.Equal(t, http.StatusOK, hit(e, "/api/items", "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, hit(e, "/api/items", "10.0.0.1").Code)

	rec := hit(e, "/api/items", "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate limit exceeded")
	assert.InDelta(t, before+1, ptestutil.ToFloat64(metrics.HTTPRateLimitedTotal), 0)

	assert.Equal(t, http.StatusOK, hit(e, "/api/items", "10.0.0.2").Code, "limits are per client")
}

func TestRateLimit_SkipsOperationalPaths(t *testing.T) {
	t.Parallel()

	e := newLimitedServer(mw.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1})
	for range 5 {
		assert.Equal(t, http.StatusOK, hit(e, "/healthz", "10.0.0.3").Code)
	}
}

func TestRateLimit_DisabledWhenZero(t *testing.T) {
	t.Parallel()

	e := newLimitedServer(mw.RateLimitConfig{})
	for range 20 {
		assert.Equal(t, http.StatusOK, hit(e, "/api/items", "10.0.0.4").Code)
	}
}
