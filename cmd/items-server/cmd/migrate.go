package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/donaldgifford/marketplace/internal/store"
	"github.com/donaldgifford/marketplace/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Database.Enabled() {
		return errors.New("no database configured: set database.host")
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer pool.Close()

	log.Info("running migrations", "host", cfg.Database.Host, "database", cfg.Database.Name)

	applied, err := store.RunMigrations(ctx, pool)
	for _, v := range applied {
		log.Info("applied migration", "version", v)
	}
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	log.Info("migrations complete", "applied", len(applied))
	return nil
}
