package market_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	ptestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/marketplace/internal/geo"
	"github.com/donaldgifford/marketplace/internal/market"
	"github.com/donaldgifford/marketplace/internal/market/mocks"
	"github.com/donaldgifford/marketplace/internal/metrics"
	domain "github.com/donaldgifford/marketplace/pkg/types"
)

func item(title, city, date string) domain.Listing {
	return domain.Listing{
		ID:          uuid.New(),
		Date:        date,
		Title:       title,
		Description: "d",
		Location:    city + " center",
		City:        city,
		PhoneNumber: "050",
		UserName:    "Dana",
		UserID:      "dana@example.com",
	}
}

var (
	bike  = item("Bike", "Tel Aviv", "2024-01-01T10:00:00.000Z")
	sofa  = item("Sofa", "Haifa", "2024-03-01T10:00:00.000Z")
	chair = item("Chair", "haifa", "2024-02-01T10:00:00.000Z")
)

func refreshedBoard(t *testing.T, opts ...market.BoardOption) *market.Board {
	t.Helper()

	repo := mocks.NewMockRepository(t)
	repo.EXPECT().FetchAll(mock.Anything).Return([]domain.Listing{bike, sofa, chair}, nil).Once()

	b := market.NewBoard(repo, opts...)
	require.NoError(t, b.Refresh(context.Background()))
	return b
}

func titles(ls []domain.Listing) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.Title)
	}
	return out
}

func TestBoard_EmptyBeforeRefresh(t *testing.T) {
	t.Parallel()

	b := market.NewBoard(mocks.NewMockRepository(t))
	assert.Empty(t, b.All())
	assert.Empty(t, b.Visible())
	assert.Empty(t, b.LocationView())
}

func TestBoard_RefreshSortsMostRecentFirst(t *testing.T) {
	t.Parallel()

	b := refreshedBoard(t)

	assert.Equal(t, []string{"Sofa", "Chair", "Bike"}, titles(b.All()))
	assert.Equal(t, []string{"Sofa", "Chair", "Bike"}, titles(b.Visible()))
	assert.Equal(t, b.All(), b.LocationView())
}

func TestBoard_RefreshFailureKeepsPreviousSet(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockRepository(t)
	repo.EXPECT().FetchAll(mock.Anything).Return([]domain.Listing{bike}, nil).Once()
	repo.EXPECT().FetchAll(mock.Anything).Return(nil, errors.New("boom")).Once()

	b := market.NewBoard(repo)
	require.NoError(t, b.Refresh(context.Background()))

	before := ptestutil.ToFloat64(metrics.BoardRefreshFailuresTotal)
	err := b.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.GreaterOrEqual(t, ptestutil.ToFloat64(metrics.BoardRefreshFailuresTotal), before+1)

	assert.Equal(t, []string{"Bike"}, titles(b.Visible()))
}

func TestBoard_SearchText(t *testing.T) {
	t.Parallel()

	b := refreshedBoard(t)

	b.SetSearchText("CHA")
	assert.Equal(t, "CHA", b.SearchText())
	assert.Equal(t, []string{"Chair"}, titles(b.Visible()))
	assert.Len(t, b.LocationView(), 3, "search does not narrow the location view")

	b.SetSearchText("car")
	assert.Empty(t, b.Visible())

	b.SetSearchText("")
	assert.Len(t, b.Visible(), 3)
}

func TestBoard_LocationFilter(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	b := refreshedBoard(t, market.WithLocator(geo.StaticLocator{City: "HAIFA"}))

	b.SetLocationFilter(ctx, true)
	assert.True(t, b.LocationFilterEnabled())
	assert.Equal(t, []string{"Sofa", "Chair"}, titles(b.LocationView()))
	assert.Equal(t, []string{"Sofa", "Chair"}, titles(b.Visible()))

	city, ok := b.CurrentCity()
	require.True(t, ok)
	assert.Equal(t, "HAIFA", city)

	b.SetSearchText("bike")
	assert.Empty(t, b.Visible(), "search runs on the location view")

	assert.False(t, b.ToggleLocationFilter(ctx))
	assert.Equal(t, []string{"Bike"}, titles(b.Visible()))
}

func TestBoard_LocationFilterWithoutCity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		locator geo.Locator
	}{
		{name: "no locator", locator: nil},
		{name: "permission denied", locator: geo.StaticLocator{City: "Haifa", Denied: true}},
		{name: "city unknown", locator: geo.StaticLocator{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b := refreshedBoard(t, market.WithLocator(tt.locator))
			assert.True(t, b.ToggleLocationFilter(context.Background()))
			assert.Len(t, b.Visible(), 3)

			_, ok := b.CurrentCity()
			assert.False(t, ok)
		})
	}
}

func TestBoard_ViewsAreCopies(t *testing.T) {
	t.Parallel()

	b := refreshedBoard(t)
	v := b.Visible()
	v[0].Title = "changed"
	assert.NotEqual(t, "changed", b.Visible()[0].Title)
}

func TestBoard_Find(t *testing.T) {
	t.Parallel()

	b := refreshedBoard(t)

	got, ok := b.Find(sofa.ID.String())
	require.True(t, ok)
	assert.Equal(t, sofa, got)

	_, ok = b.Find(uuid.NewString())
	assert.False(t, ok)
}

func TestBoard_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockRepository(t)
	repo.EXPECT().FetchAll(mock.Anything).Return([]domain.Listing{bike, sofa, chair}, nil)

	b := market.NewBoard(repo, market.WithLocator(geo.StaticLocator{City: "Haifa"}))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch i % 4 {
			case 0:
				assert.NoError(t, b.Refresh(ctx))
			case 1:
				b.SetSearchText("a")
			case 2:
				b.ToggleLocationFilter(ctx)
			default:
				_ = b.Visible()
			}
		}()
	}
	wg.Wait()

	for _, l := range b.Visible() {
		assert.Contains(t, l.Title, "a")
	}
}
