package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"
)

const stackSize = 4 << 10

// Recovery returns Echo middleware that turns a panic into a 500 response.
// The panic value and stack are logged; the client only sees a generic
// problem body.
func Recovery(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}

				buf := make([]byte, stackSize)
				buf = buf[:runtime.Stack(buf, false)]

				log.Error("panic recovered",
					"error", fmt.Sprint(r),
					"method", c.Request().Method,
					"path", c.Request().URL.Path,
					"request_id", c.Get(requestIDKey),
					"stack", string(buf),
				)

				if c.Response().Committed {
					return
				}
				c.Response().Header().Set(echo.HeaderContentType, "application/problem+json")
				err = c.JSON(http.StatusInternalServerError, map[string]any{
					"title":  http.StatusText(http.StatusInternalServerError),
					"status": http.StatusInternalServerError,
					"detail": "internal server error",
				})
			}()
			return next(c)
		}
	}
}
