// Package market holds the controllers that sit between a user interface and
// the listing service: the Board that owns the fetched listings and their
// filtered views, the Editor that performs validated mutations, and the
// Refresher that keeps the Board current.
package market

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/donaldgifford/marketplace/pkg/types"
)

// Repository is the listing service as seen by the controllers.
// *client.Client satisfies it.
type Repository interface {
	FetchAll(ctx context.Context) ([]domain.Listing, error)
	Create(ctx context.Context, l *domain.Listing) error
	Update(ctx context.Context, id uuid.UUID, l *domain.Listing) error
	Remove(ctx context.Context, id uuid.UUID) error
}
