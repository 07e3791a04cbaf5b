package store

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/donaldgifford/marketplace/pkg/filter"
	domain "github.com/donaldgifford/marketplace/pkg/types"
)

// MemoryStore is an in-process Store. It backs the service when no database
// is configured and is used throughout the tests.
type MemoryStore struct {
	mu    sync.RWMutex
	items []domain.Listing // insertion order
}

// NewMemoryStore creates a MemoryStore seeded with items.
func NewMemoryStore(items ...domain.Listing) *MemoryStore {
	return &MemoryStore{items: slices.Clone(items)}
}

// ListItems implements Store.
func (s *MemoryStore) ListItems(_ context.Context, q *ItemQuery) ([]domain.Listing, error) {
	s.mu.RLock()
	out := filter.SortByDateDesc(s.items)
	s.mu.RUnlock()

	if out == nil {
		out = []domain.Listing{}
	}
	if q == nil {
		return out, nil
	}

	if q.City != nil {
		out = filter.ByLocation(out, true, q.City)
	}
	if q.Search != nil {
		out = filter.BySearch(out, *q.Search)
	}
	if q.UserID != nil {
		out = slices.DeleteFunc(out, func(l domain.Listing) bool { return l.UserID != *q.UserID })
	}

	out = out[min(max(q.Offset, 0), len(out)):]
	if limit := q.limit(); limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetItem implements Store.
func (s *MemoryStore) GetItem(_ context.Context, id uuid.UUID) (*domain.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.index(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	l := s.items[i]
	return &l, nil
}

// CreateItem implements Store.
func (s *MemoryStore) CreateItem(_ context.Context, l *domain.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index(l.ID) >= 0 {
		return ErrDuplicateID
	}
	s.items = append(s.items, *l)
	return nil
}

// UpdateItem implements Store.
func (s *MemoryStore) UpdateItem(_ context.Context, id uuid.UUID, l *domain.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	updated := *l
	updated.ID = s.items[i].ID
	updated.Date = s.items[i].Date
	s.items[i] = updated
	return nil
}

// DeleteItem implements Store.
func (s *MemoryStore) DeleteItem(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return ErrNotFound
	}
	s.items = slices.Delete(s.items, i, i+1)
	return nil
}

// Ping implements Store.
func (*MemoryStore) Ping(context.Context) error { return nil }

// Migrate implements Store. There is no schema to migrate.
func (*MemoryStore) Migrate(context.Context) error { return nil }

func (s *MemoryStore) index(id uuid.UUID) int {
	return slices.IndexFunc(s.items, func(l domain.Listing) bool { return l.ID == id })
}
