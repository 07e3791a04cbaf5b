package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/marketplace/internal/api"
	"github.com/donaldgifford/marketplace/internal/api/handlers"
	"github.com/donaldgifford/marketplace/internal/api/middleware"
	"github.com/donaldgifford/marketplace/internal/config"
	"github.com/donaldgifford/marketplace/internal/events"
	"github.com/donaldgifford/marketplace/internal/store"
	"github.com/donaldgifford/marketplace/internal/telemetry"
	"github.com/donaldgifford/marketplace/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

// closers run in reverse order on shutdown.
type closers []func()

func (c *closers) add(fn func()) { *c = append(*c, fn) }

func (c closers) run() {
	for i := len(c) - 1; i >= 0; i-- {
		c[i]()
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cleanup closers
	defer cleanup.run()

	shutdownTelemetry, err := telemetry.Setup(ctx, cfg.Telemetry, Version)
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}
	cleanup.add(func() {
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(sctx); err != nil {
			log.Warn("flushing telemetry", "err", err)
		}
	})

	ready := map[string]handlers.Pinger{}

	st, err := openStore(ctx, cfg, log, ready, &cleanup)
	if err != nil {
		return err
	}

	pub, err := openPublisher(cfg, log, &cleanup)
	if err != nil {
		return err
	}

	e := api.NewRouter(api.RouterConfig{
		Store:     st,
		Publisher: pub,
		Logger:    log,
		Version:   Version,
		Ready:     ready,
		RateLimit: middleware.RateLimitConfig{
			RequestsPerSecond: cfg.Server.RateLimit.PerSecond,
			Burst:             cfg.Server.RateLimit.Burst,
		},
	})
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	addr := cfg.Server.Addr()
	log.Info("starting server", "addr", addr, "version", Version)

	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serving http: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server")

	sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// openStore returns the configured store: PostgreSQL when a database host is
// set (migrated on startup), memory otherwise, optionally behind a Redis
// list cache.
func openStore(
	ctx context.Context,
	cfg *config.Config,
	log *slog.Logger,
	ready map[string]handlers.Pinger,
	cleanup *closers,
) (store.Store, error) {
	var st store.Store

	if cfg.Database.Enabled() {
		pg, err := store.NewPostgresStore(ctx, cfg.Database.DSN(), int32(cfg.Database.PoolSize)) //nolint:gosec // bounded by config validation
		if err != nil {
			return nil, fmt.Errorf("opening database: %w", err)
		}
		cleanup.add(pg.Close)

		mctx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if err := pg.Migrate(mctx); err != nil {
			return nil, fmt.Errorf("migrating database: %w", err)
		}
		log.Info("using postgres store", "host", cfg.Database.Host, "database", cfg.Database.Name)
		st = pg
	} else {
		log.Info("using in-memory store")
		st = store.NewMemoryStore()
	}

	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		cleanup.add(func() {
			if err := client.Close(); err != nil {
				log.Warn("closing redis client", "err", err)
			}
		})

		cache := store.NewRedisCache(client)
		ready["redis"] = cache
		st = store.NewCachedStore(st, cache,
			store.WithCacheKey(cfg.Redis.Key),
			store.WithCacheTTL(cfg.Redis.TTL),
			store.WithCacheLogger(log),
		)
		log.Info("caching item list in redis", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)
	}

	return st, nil
}

func openPublisher(cfg *config.Config, log *slog.Logger, cleanup *closers) (events.Publisher, error) {
	if !cfg.NATS.Enabled() {
		return events.Noop{}, nil
	}

	pub, err := events.Connect(cfg.NATS.URL, cfg.NATS.ClientName, cfg.NATS.SubjectPrefix)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}
	cleanup.add(func() {
		if err := pub.Close(); err != nil {
			log.Warn("draining nats connection", "err", err)
		}
	})

	log.Info("publishing item events", "url", cfg.NATS.URL, "prefix", cfg.NATS.SubjectPrefix)
	return pub, nil
}
