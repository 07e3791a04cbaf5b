// Package store defines the datastore abstraction behind the listing service.
// Handlers depend on the Store interface, never on concrete implementations,
// so they can be tested against MemoryStore or a mock.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	domain "github.com/donaldgifford/marketplace/pkg/types"
)

// Store errors.
var (
	ErrNotFound    = errors.New("item not found")
	ErrDuplicateID = errors.New("item already exists")
)

// Store defines all data access operations for listings.
type Store interface {
	// ListItems returns listings ordered most recent first. A nil query
	// returns every listing.
	ListItems(ctx context.Context, q *ItemQuery) ([]domain.Listing, error)
	GetItem(ctx context.Context, id uuid.UUID) (*domain.Listing, error)
	// CreateItem stores l as given. It fails with ErrDuplicateID when the id
	// is already taken.
	CreateItem(ctx context.Context, l *domain.Listing) error
	// UpdateItem replaces the editable fields of the listing with the given
	// id. The stored id and date are kept. It fails with ErrNotFound when the
	// id is unknown.
	UpdateItem(ctx context.Context, id uuid.UUID, l *domain.Listing) error
	// DeleteItem fails with ErrNotFound when the id is unknown.
	DeleteItem(ctx context.Context, id uuid.UUID) error

	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
}
