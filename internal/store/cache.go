package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/donaldgifford/marketplace/internal/metrics"
	"github.com/donaldgifford/marketplace/pkg/logger"
	domain "github.com/donaldgifford/marketplace/pkg/types"
)

const (
	// DefaultCacheKey holds the JSON-encoded full item list.
	DefaultCacheKey = "items:all"
	// DefaultCacheTTL bounds staleness when another instance mutates the store.
	DefaultCacheTTL = 30 * time.Second
)

// ErrCacheMiss is returned by a Cache when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the byte-level cache used by CachedStore.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// RedisCache adapts a go-redis client to Cache.
type RedisCache struct {
	client redis.UniversalClient
}

// NewRedisCache wraps client.
func NewRedisCache(client redis.UniversalClient) *RedisCache {
	return &RedisCache{client: client}
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	return b, err
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Del implements Cache.
func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Ping checks the Redis connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// CachedStore decorates a Store, caching the unfiltered item list. Every
// successful mutation invalidates the cached list. Cache failures are logged
// and fall through to the underlying store.
type CachedStore struct {
	Store

	cache Cache
	key   string
	ttl   time.Duration
	log   *slog.Logger
}

// CacheOption configures a CachedStore.
type CacheOption func(*CachedStore)

// WithCacheKey overrides DefaultCacheKey.
func WithCacheKey(key string) CacheOption {
	return func(s *CachedStore) { s.key = key }
}

// WithCacheTTL overrides DefaultCacheTTL.
func WithCacheTTL(ttl time.Duration) CacheOption {
	return func(s *CachedStore) { s.ttl = ttl }
}

// WithCacheLogger sets the logger used for cache failures.
func WithCacheLogger(l *slog.Logger) CacheOption {
	return func(s *CachedStore) { s.log = l }
}

// NewCachedStore wraps next with cache.
func NewCachedStore(next Store, cache Cache, opts ...CacheOption) *CachedStore {
	s := &CachedStore{
		Store: next,
		cache: cache,
		key:   DefaultCacheKey,
		ttl:   DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logger.OrDiscard(s.log)
	return s
}

// ListItems serves unfiltered listings from the cache when possible.
// Filtered queries always go to the underlying store.
func (s *CachedStore) ListItems(ctx context.Context, q *ItemQuery) ([]domain.Listing, error) {
	if q != nil && *q != (ItemQuery{}) {
		return s.Store.ListItems(ctx, q)
	}

	if items, ok := s.lookup(ctx); ok {
		return items, nil
	}

	items, err := s.Store.ListItems(ctx, nil)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encoding item list: %w", err)
	}
	if err := s.cache.Set(ctx, s.key, data, s.ttl); err != nil {
		s.log.Warn("caching item list", "error", err)
	}
	return items, nil
}

// CreateItem implements Store.
func (s *CachedStore) CreateItem(ctx context.Context, l *domain.Listing) error {
	if err := s.Store.CreateItem(ctx, l); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// UpdateItem implements Store.
func (s *CachedStore) UpdateItem(ctx context.Context, id uuid.UUID, l *domain.Listing) error {
	if err := s.Store.UpdateItem(ctx, id, l); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// DeleteItem implements Store.
func (s *CachedStore) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if err := s.Store.DeleteItem(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CachedStore) lookup(ctx context.Context) ([]domain.Listing, bool) {
	data, err := s.cache.Get(ctx, s.key)
	switch {
	case errors.Is(err, ErrCacheMiss):
		metrics.ItemCacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	case err != nil:
		metrics.ItemCacheLookupsTotal.WithLabelValues("error").Inc()
		s.log.Warn("reading cached item list", "error", err)
		return nil, false
	}

	var items []domain.Listing
	if err := json.Unmarshal(data, &items); err != nil || items == nil {
		metrics.ItemCacheLookupsTotal.WithLabelValues("error").Inc()
		s.log.Warn("decoding cached item list", "error", err)
		return nil, false
	}
	metrics.ItemCacheLookupsTotal.WithLabelValues("hit").Inc()
	return items, true
}

func (s *CachedStore) invalidate(ctx context.Context) {
	if err := s.cache.Del(ctx, s.key); err != nil {
		s.log.Warn("invalidating cached item list", "error", err)
	}
}
