package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/donaldgifford/marketplace/internal/metrics"
)

// RateLimitConfig configures RateLimit.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate allowed per client IP.
	RequestsPerSecond float64
	// Burst is the number of requests allowed above the sustained rate.
	Burst int
	// IdleTTL is how long an idle client's limiter is kept.
	IdleTTL time.Duration
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit returns Echo middleware that limits requests per client IP with a
// token bucket. Operational paths are never limited. Rejected requests get a
// 429 with a Retry-After header.
func RateLimit(cfg RateLimitConfig) echo.MiddlewareFunc {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 5 * time.Minute
	}

	var (
		mu        sync.Mutex
		clients   = map[string]*clientLimiter{}
		lastSweep = time.Now()
	)

	get := func(ip string, now time.Time) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()

		if now.Sub(lastSweep) > cfg.IdleTTL {
			for k, cl := range clients {
				if now.Sub(cl.lastSeen) > cfg.IdleTTL {
					delete(clients, k)
				}
			}
			lastSweep = now
		}

		cl, ok := clients[ip]
		if !ok {
			cl = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)}
			clients[ip] = cl
		}
		cl.lastSeen = now
		return cl.limiter
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.RequestsPerSecond <= 0 || isOperational(routePath(c)) {
				return next(c)
			}

			now := time.Now()
			if get(c.RealIP(), now).AllowN(now, 1) {
				return next(c)
			}

			metrics.HTTPRateLimitedTotal.Inc()
			retry := max(1, int(1/cfg.RequestsPerSecond))
			c.Response().Header().Set("Retry-After", strconv.Itoa(retry))
			return c.JSON(http.StatusTooManyRequests, map[string]any{
				"title":  http.StatusText(http.StatusTooManyRequests),
				"status": http.StatusTooManyRequests,
				"detail": "rate limit exceeded",
			})
		}
	}
}
