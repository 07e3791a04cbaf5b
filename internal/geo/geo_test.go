package geo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/marketplace/internal/geo"
)

var places = []geo.Candidate{
	{LocationTitle: "Dizengoff St 50, Tel Aviv", City: "Tel Aviv"},
	{LocationTitle: "HaNassi Blvd 10, Haifa", City: "Haifa"},
	{LocationTitle: "Jaffa Rd 1, Jerusalem", City: "Jerusalem"},
}

func TestGazetteer_Resolve(t *testing.T) {
	t.Parallel()

	g := geo.NewGazetteer(places)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "by city", query: "haifa", want: []string{"Haifa"}},
		{name: "by street", query: "DIZENGOFF", want: []string{"Tel Aviv"}},
		{name: "substring across entries", query: "ja", want: []string{"Jerusalem"}},
		{name: "empty query", query: "  ", want: nil},
		{name: "no match", query: "eilat", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := g.Resolve(context.Background(), tt.query)
			require.NoError(t, err)

			var cities []string
			for _, c := range got {
				cities = append(cities, c.City)
			}
			assert.Equal(t, tt.want, cities)
		})
	}
}

func TestGazetteer_ResolveCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := geo.NewGazetteer(places).Resolve(ctx, "haifa")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCandidate_Select(t *testing.T) {
	t.Parallel()

	sel := places[1].Select()
	assert.Equal(t, geo.Selection{Location: "HaNassi Blvd 10, Haifa", City: "Haifa"}, sel)
}

func TestStaticLocator(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	city, err := geo.StaticLocator{City: "Haifa"}.CurrentCity(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Haifa", city)

	_, err = geo.StaticLocator{City: "Haifa", Denied: true}.CurrentCity(ctx)
	assert.ErrorIs(t, err, geo.ErrPermissionDenied)

	_, err = geo.StaticLocator{}.CurrentCity(ctx)
	assert.ErrorIs(t, err, geo.ErrCityUnknown)
}

func TestCityHint(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	hint := geo.CityHint(ctx, geo.StaticLocator{City: "Haifa"})
	require.NotNil(t, hint)
	assert.Equal(t, "Haifa", *hint)

	assert.Nil(t, geo.CityHint(ctx, geo.StaticLocator{Denied: true, City: "Haifa"}))
	assert.Nil(t, geo.CityHint(ctx, nil))
}

type locatorFunc func(context.Context) (string, error)

func (f locatorFunc) CurrentCity(ctx context.Context) (string, error) { return f(ctx) }

func TestCityHint_BlankCityIsUnknown(t *testing.T) {
	t.Parallel()

	for _, city := range []string{"", "   ", "\t"} {
		l := locatorFunc(func(context.Context) (string, error) { return city, nil })
		assert.Nil(t, geo.CityHint(context.Background(), l), "city %q", city)
	}
}
