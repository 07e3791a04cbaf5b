package market

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/donaldgifford/marketplace/internal/geo"
	"github.com/donaldgifford/marketplace/internal/metrics"
	"github.com/donaldgifford/marketplace/pkg/filter"
	"github.com/donaldgifford/marketplace/pkg/logger"
	domain "github.com/donaldgifford/marketplace/pkg/types"
)

// Board owns the full fetched set of listings and the views derived from it.
// Every change of input recomputes both views from scratch. A Board is safe
// for concurrent use.
type Board struct {
	repo     Repository
	locator  geo.Locator
	pipeline *filter.Pipeline
	log      *slog.Logger

	mu              sync.RWMutex
	all             []domain.Listing
	searchText      string
	locationEnabled bool
	city            *string
	view            filter.Result
}

// BoardOption configures a Board.
type BoardOption func(*Board)

// WithLocator sets the source of the current city used by the location filter.
func WithLocator(l geo.Locator) BoardOption {
	return func(b *Board) { b.locator = l }
}

// WithPipeline replaces the default filter pipeline.
func WithPipeline(p *filter.Pipeline) BoardOption {
	return func(b *Board) { b.pipeline = p }
}

// WithBoardLogger sets the Board's logger.
func WithBoardLogger(l *slog.Logger) BoardOption {
	return func(b *Board) { b.log = l }
}

// NewBoard creates an empty Board backed by repo.
func NewBoard(repo Repository, opts ...BoardOption) *Board {
	b := &Board{
		repo:     repo,
		pipeline: filter.New(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.log = logger.OrDiscard(b.log)
	b.recompute()
	return b
}

// Refresh fetches every listing, sorts them most recent first and replaces
// the held set. On failure the previous set and views are kept.
func (b *Board) Refresh(ctx context.Context) error {
	listings, err := b.repo.FetchAll(ctx)
	if err != nil {
		metrics.BoardRefreshFailuresTotal.Inc()
		b.log.Warn("refreshing listings", "error", err)
		return fmt.Errorf("refreshing listings: %w", err)
	}
	sorted := filter.SortByDateDesc(listings)
	city := geo.CityHint(ctx, b.locator)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.all = sorted
	b.city = city
	b.recompute()

	b.log.Debug("listings refreshed", "count", len(sorted), "visible", len(b.view.Search))
	return nil
}

// SetSearchText changes the search text and recomputes the views.
func (b *Board) SetSearchText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.searchText = text
	b.recompute()
}

// SearchText returns the current search text.
func (b *Board) SearchText() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.searchText
}

// SetLocationFilter enables or disables the location filter. Enabling it
// looks up the current city; when that fails the filter keeps everything.
func (b *Board) SetLocationFilter(ctx context.Context, enabled bool) {
	var city *string
	if enabled {
		city = geo.CityHint(ctx, b.locator)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.locationEnabled = enabled
	if enabled {
		b.city = city
	}
	b.recompute()
}

// ToggleLocationFilter flips the location filter and returns the new state.
func (b *Board) ToggleLocationFilter(ctx context.Context) bool {
	b.mu.RLock()
	next := !b.locationEnabled
	b.mu.RUnlock()

	b.SetLocationFilter(ctx, next)
	return next
}

// LocationFilterEnabled reports whether the location filter is on.
func (b *Board) LocationFilterEnabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.locationEnabled
}

// CurrentCity returns the city last resolved for the location filter.
func (b *Board) CurrentCity() (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.city == nil {
		return "", false
	}
	return *b.city, true
}

// Visible returns the listings to display.
func (b *Board) Visible() []domain.Listing {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.view.Search)
}

// LocationView returns the listings that passed the location stage.
func (b *Board) LocationView() []domain.Listing {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.view.Location)
}

// All returns the full fetched set, most recent first.
func (b *Board) All() []domain.Listing {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.all)
}

// Find returns the held listing with the given id.
func (b *Board) Find(id string) (domain.Listing, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, l := range b.all {
		if l.ID.String() == id {
			return l, true
		}
	}
	return domain.Listing{}, false
}

// recompute must be called with mu held for writing.
func (b *Board) recompute() {
	b.view = b.pipeline.Apply(filter.Input{
		All:                   b.all,
		LocationFilterEnabled: b.locationEnabled,
		CurrentCity:           b.city,
		SearchText:            b.searchText,
	})
}
