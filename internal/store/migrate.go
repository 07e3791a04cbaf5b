package store

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// migrationLock keys the session advisory lock held while migrating, so
// replicas starting together apply each file once.
const migrationLock int64 = 0x6d6b745f6d6967

// Migration is one embedded schema file. Files are applied in version
// (filename) order and never rolled back; fix forward only.
type Migration struct {
	Version string
	SQL     string
}

// Migrations returns the embedded migrations in version order.
func Migrations() ([]Migration, error) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("listing migrations: %w", err)
	}
	slices.Sort(names)

	out := make([]Migration, 0, len(names))
	for _, name := range names {
		data, err := migrationsFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading migration %s: %w", name, err)
		}
		out = append(out, Migration{Version: path.Base(name), SQL: string(data)})
	}
	return out, nil
}

// RunMigrations applies pending migrations and returns the versions it
// applied. Each migration and its schema_migrations row commit in one
// transaction.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	migrations, err := Migrations()
	if err != nil {
		return nil, err
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring migration connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", migrationLock); err != nil {
		return nil, fmt.Errorf("locking migrations: %w", err)
	}
	defer func() {
		// The lock is released with the session if this fails.
		_, _ = conn.Exec(context.WithoutCancel(ctx), "SELECT pg_advisory_unlock($1)", migrationLock)
	}()

	if _, err := conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`); err != nil {
		return nil, fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var applied []string
	for _, m := range migrations {
		var done bool
		if err := conn.QueryRow(ctx,
			"SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)",
			m.Version,
		).Scan(&done); err != nil {
			return applied, fmt.Errorf("checking migration %s: %w", m.Version, err)
		}
		if done {
			continue
		}

		err := pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
			if _, err := tx.Exec(ctx, m.SQL); err != nil {
				return err
			}
			_, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", m.Version)
			return err
		})
		if err != nil {
			return applied, fmt.Errorf("applying migration %s: %w", m.Version, err)
		}
		applied = append(applied, m.Version)
	}

	return applied, nil
}
