package middleware

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	requestIDHeader = echo.HeaderXRequestID
	requestIDKey    = "request_id"
)

// RequestLog returns Echo middleware that logs every request with structured
// fields. It reuses an incoming X-Request-ID or generates one, echoes it on
// the response and stores it in the echo context under "request_id".
//
// Successful probes of /healthz and /readyz are logged once per path so
// kubelet polling does not flood the log; failures are always logged at warn.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var seen sync.Map // operational path -> struct{}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}
			c.Set(requestIDKey, reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)

			status := responseStatus(c, err)
			path := c.Request().URL.Path

			level := slog.LevelInfo
			if status >= 500 {
				level = slog.LevelWarn
			}

			if isOperational(path) && isSuccess(status) {
				if _, loaded := seen.LoadOrStore(path, struct{}{}); loaded {
					return err
				}
			}

			log.Log(context.Background(), level, "request",
				"method", c.Request().Method,
				"path", path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			)

			return err
		}
	}
}
