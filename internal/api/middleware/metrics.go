// Package middleware provides Echo middleware for the listing service.
package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/donaldgifford/marketplace/internal/metrics"
)

// Operational paths. They are excluded from request metrics and their
// successful requests are logged only once.
const (
	pathMetrics = "/metrics"
	pathHealthz = "/healthz"
	pathReadyz  = "/readyz"
)

var healthGauges = map[string]prometheus.Gauge{
	pathHealthz: metrics.HealthzUp,
	pathReadyz:  metrics.ReadyzUp,
}

func isOperational(path string) bool {
	switch path {
	case pathMetrics, pathHealthz, pathReadyz:
		return true
	}
	return false
}

// routePath returns the registered route pattern (so /api/items/remove/:id
// stays one label value) or the raw path for unmatched requests.
func routePath(c echo.Context) string {
	if p := c.Path(); p != "" {
		return p
	}
	return c.Request().URL.Path
}

// Metrics returns Echo middleware that records request duration and status.
// Health paths only update their up/down gauges.
func Metrics() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := routePath(c)

			if isOperational(path) {
				err := next(c)
				if gauge, ok := healthGauges[path]; ok {
					gauge.Set(boolGauge(isSuccess(responseStatus(c, err))))
				}
				return err
			}

			start := time.Now()
			err := next(c)

			status := strconv.Itoa(responseStatus(c, err))
			method := c.Request().Method

			metrics.HTTPRequestDuration.
				WithLabelValues(method, path, status).
				Observe(time.Since(start).Seconds())
			metrics.HTTPRequestsTotal.
				WithLabelValues(method, path, status).
				Inc()

			return err
		}
	}
}

// responseStatus reports the status that will be written for err. Echo only
// commits the response for a returned error after the middleware chain.
func responseStatus(c echo.Context, err error) int {
	if err != nil && !c.Response().Committed {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he.Code
		}
		return http.StatusInternalServerError
	}
	return c.Response().Status
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func boolGauge(ok bool) float64 {
	if ok {
		return 1
	}
	return 0
}
