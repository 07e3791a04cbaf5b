// Package events announces listing changes to other services.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	domain "github.com/donaldgifford/marketplace/pkg/types"
)

// Kind names a listing change.
type Kind string

// Listing change kinds.
const (
	Created Kind = "created"
	Updated Kind = "updated"
	Removed Kind = "removed"
)

// DefaultSubjectPrefix is prepended to the kind to form the subject,
// for example "items.created".
const DefaultSubjectPrefix = "items"

// Event is the payload published for a listing change. Item is omitted for
// removals.
type Event struct {
	Kind       Kind            `json:"kind"`
	ID         uuid.UUID       `json:"id"`
	Item       *domain.Listing `json:"item,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// New builds an event stamped with the current time.
func New(kind Kind, id uuid.UUID, item *domain.Listing) Event {
	return Event{Kind: kind, ID: id, Item: item, OccurredAt: time.Now().UTC()}
}

// Publisher delivers listing events. Delivery is best effort: callers log
// failures and carry on.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Noop discards every event.
type Noop struct{}

// Publish implements Publisher.
func (Noop) Publish(context.Context, Event) error { return nil }
