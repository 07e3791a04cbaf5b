//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/donaldgifford/marketplace/internal/store"
)

func setupPostgres(t *testing.T) *store.PostgresStore {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("items_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := store.NewPostgresStore(ctx, connStr, 4)
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	require.NoError(t, s.Migrate(ctx))

	return s
}

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, c.Terminate(ctx))
	})

	endpoint, err := c.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestPostgresStore_CRUD(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	a := testItem("Bike", "Tel Aviv", "2024-01-01T00:00:00.000Z", "dana@example.com")
	b := testItem("Sofa", "Haifa", "2024-03-01T00:00:00.000Z", "eli@example.com")

	require.NoError(t, s.CreateItem(ctx, &a))
	require.NoError(t, s.CreateItem(ctx, &b))
	require.ErrorIs(t, s.CreateItem(ctx, &a), store.ErrDuplicateID)

	all, err := s.ListItems(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sofa", "Bike"}, titlesOf(all))

	haifa, err := s.ListItems(ctx, &store.ItemQuery{City: ptr("HAIFA")})
	require.NoError(t, err)
	assert.Equal(t, []string{"Sofa"}, titlesOf(haifa))

	edit := a
	edit.Date = "2030-01-01T00:00:00.000Z"
	edit.Title = "Bike XL"
	require.NoError(t, s.UpdateItem(ctx, a.ID, &edit))

	got, err := s.GetItem(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bike XL", got.Title)
	assert.Equal(t, a.Date, got.Date)

	require.ErrorIs(t, s.UpdateItem(ctx, uuid.New(), &edit), store.ErrNotFound)

	require.NoError(t, s.DeleteItem(ctx, a.ID))
	require.ErrorIs(t, s.DeleteItem(ctx, a.ID), store.ErrNotFound)

	_, err = s.GetItem(ctx, a.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestPostgresStore_MigrateIdempotent(t *testing.T) {
	s := setupPostgres(t)
	require.NoError(t, s.Migrate(context.Background()))
}

func TestCachedStore_Redis(t *testing.T) {
	pg := setupPostgres(t)
	rc := setupRedis(t)
	ctx := context.Background()

	cache := store.NewRedisCache(rc)
	require.NoError(t, cache.Ping(ctx))

	s := store.NewCachedStore(pg, cache)

	l := testItem("Bike", "Tel Aviv", "2024-01-01T00:00:00.000Z", "dana@example.com")
	require.NoError(t, s.CreateItem(ctx, &l))

	got, err := s.ListItems(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	raw, err := cache.Get(ctx, store.DefaultCacheKey)
	require.NoError(t, err)
	assert.Contains(t, string(raw), l.ID.String())

	require.NoError(t, s.DeleteItem(ctx, l.ID))
	_, err = cache.Get(ctx, store.DefaultCacheKey)
	require.ErrorIs(t, err, store.ErrCacheMiss)
}
