// Package api assembles the HTTP surface of the listing service: the Echo
// router, its middleware chain, the Huma item operations and the
// operational endpoints.
package api

import (
	"log/slog"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/donaldgifford/marketplace/internal/api/handlers"
	"github.com/donaldgifford/marketplace/internal/api/middleware"
	"github.com/donaldgifford/marketplace/internal/events"
	"github.com/donaldgifford/marketplace/internal/store"
	"github.com/donaldgifford/marketplace/pkg/logger"
)

// RouterConfig holds what NewRouter wires together.
type RouterConfig struct {
	Store     store.Store
	Publisher events.Publisher
	Logger    *slog.Logger
	Version   string
	RateLimit middleware.RateLimitConfig
	// Ready lists the dependencies checked by /readyz. The store is always
	// checked under "store".
	Ready   map[string]handlers.Pinger
	Tracing []middleware.TracingOption
}

// NewRouter returns an Echo instance serving the item API, /healthz,
// /readyz and /metrics. The OpenAPI document is served at /openapi.json.
func NewRouter(cfg RouterConfig) *echo.Echo {
	log := logger.OrDiscard(cfg.Logger)
	pub := cfg.Publisher
	if pub == nil {
		pub = events.Noop{}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(
		middleware.Recovery(log),
		middleware.RequestLog(log),
		middleware.Tracing(cfg.Tracing...),
		middleware.Metrics(),
		middleware.RateLimit(cfg.RateLimit),
	)

	ready := map[string]handlers.Pinger{"store": cfg.Store}
	for name, dep := range cfg.Ready {
		ready[name] = dep
	}
	handlers.NewHealthHandler(ready).Register(e)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	humaCfg := huma.DefaultConfig("Items API", cfg.Version)
	humaCfg.Info.Description = "Classified listings: browse, publish, edit and remove items."
	humaAPI := humaecho.New(e, humaCfg)

	handlers.RegisterItemRoutes(humaAPI, handlers.NewItemsHandler(cfg.Store, pub, log))

	return e
}
