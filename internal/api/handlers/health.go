// Package handlers implements the HTTP handlers of the listing service.
package handlers

import (
	"context"
	"net/http"
	"slices"

	"github.com/labstack/echo/v4"
)

// Pinger is a dependency whose reachability gates readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides health and readiness endpoints.
type HealthHandler struct {
	deps map[string]Pinger
}

// NewHealthHandler creates a HealthHandler that checks deps, keyed by name,
// on every readiness probe.
func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// Healthz returns 200 if the process is running.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 if every dependency answers, 503 naming the failed ones
// otherwise.
func (h *HealthHandler) Readyz(c echo.Context) error {
	ctx := c.Request().Context()

	var failed []string
	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			failed = append(failed, name)
		}
	}
	if len(failed) > 0 {
		slices.Sort(failed)
		return c.JSON(http.StatusServiceUnavailable, ReadinessResponse{
			Status: "unavailable",
			Failed: failed,
		})
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}

// Register mounts /healthz and /readyz on e.
func (h *HealthHandler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	e.GET("/readyz", h.Readyz)
}
