package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/donaldgifford/marketplace/pkg/types"
)

const (
	defaultPoolSize = 10

	pgUniqueViolation = "23505"
)

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string, maxConns int32) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := RunMigrations(ctx, s.pool)
	return err
}

// ListItems returns listings matching q, most recent first.
func (s *PostgresStore) ListItems(ctx context.Context, q *ItemQuery) ([]domain.Listing, error) {
	if q == nil {
		q = &ItemQuery{}
	}
	sql, args := q.ToSQL()

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	items, err := pgx.CollectRows(rows, scanItem)
	if err != nil {
		return nil, fmt.Errorf("scanning items: %w", err)
	}
	if items == nil {
		items = []domain.Listing{}
	}
	return items, nil
}

// GetItem returns the listing with the given id.
func (s *PostgresStore) GetItem(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	rows, err := s.pool.Query(ctx, queryGetItem, id)
	if err != nil {
		return nil, fmt.Errorf("getting item %s: %w", id, err)
	}
	l, err := pgx.CollectExactlyOneRow(rows, scanItem)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting item %s: %w", id, err)
	}
	return &l, nil
}

// CreateItem inserts l.
func (s *PostgresStore) CreateItem(ctx context.Context, l *domain.Listing) error {
	_, err := s.pool.Exec(ctx, queryInsertItem, itemArgs(l.ID, l))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return ErrDuplicateID
	}
	if err != nil {
		return fmt.Errorf("inserting item %s: %w", l.ID, err)
	}
	return nil
}

// UpdateItem replaces the editable fields of the listing with the given id.
func (s *PostgresStore) UpdateItem(ctx context.Context, id uuid.UUID, l *domain.Listing) error {
	tag, err := s.pool.Exec(ctx, queryUpdateItem, itemArgs(id, l))
	if err != nil {
		return fmt.Errorf("updating item %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteItem removes the listing with the given id.
func (s *PostgresStore) DeleteItem(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, queryDeleteItem, id)
	if err != nil {
		return fmt.Errorf("deleting item %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func itemArgs(id uuid.UUID, l *domain.Listing) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id":           id,
		"date":         l.Date,
		"title":        l.Title,
		"description":  l.Description,
		"location":     l.Location,
		"city":         l.City,
		"phone_number": l.PhoneNumber,
		"user_name":    l.UserName,
		"user_id":      l.UserID,
	}
}

func scanItem(row pgx.CollectableRow) (domain.Listing, error) {
	var l domain.Listing
	err := row.Scan(
		&l.ID, &l.Date, &l.Title, &l.Description, &l.Location, &l.City,
		&l.PhoneNumber, &l.UserName, &l.UserID,
	)
	return l, err
}
