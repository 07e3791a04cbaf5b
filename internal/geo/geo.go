// Package geo defines the narrow interfaces through which the items client
// consumes address resolution and device location. Ranking of candidates and
// reverse geocoding belong to the external provider; the implementations here
// are static, configuration-backed stand-ins.
package geo

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/text/cases"
)

// Device location errors.
var (
	ErrPermissionDenied = errors.New("location permission denied")
	ErrCityUnknown      = errors.New("current city unknown")
)

// Candidate is one address suggestion from a resolver.
type Candidate struct {
	LocationTitle string `json:"locationTitle" yaml:"location"`
	City          string `json:"city"          yaml:"city"`
}

// Selection is the address the user picked for a listing.
type Selection struct {
	Location string `json:"location"`
	City     string `json:"city"`
}

// Select turns a candidate into the selection stored on a listing.
func (c Candidate) Select() Selection {
	return Selection{Location: c.LocationTitle, City: c.City}
}

// Resolver turns free text into address candidates.
type Resolver interface {
	Resolve(ctx context.Context, query string) ([]Candidate, error)
}

// Locator supplies the device's current city.
type Locator interface {
	// CurrentCity returns ErrPermissionDenied when location access is refused
	// and ErrCityUnknown when no fix has been resolved yet.
	CurrentCity(ctx context.Context) (string, error)
}

// Gazetteer is an in-memory Resolver over a fixed list of places.
type Gazetteer struct {
	places []Candidate
}

// NewGazetteer creates a Gazetteer over places.
func NewGazetteer(places []Candidate) *Gazetteer {
	return &Gazetteer{places: places}
}

// Resolve returns the places whose title or city contains query, ignoring
// case, in configuration order. An empty query returns nothing.
func (g *Gazetteer) Resolve(ctx context.Context, query string) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	fold := cases.Fold()
	q := fold.String(query)

	var out []Candidate
	for _, p := range g.places {
		if strings.Contains(fold.String(p.LocationTitle), q) || strings.Contains(fold.String(p.City), q) {
			out = append(out, p)
		}
	}
	return out, nil
}

// StaticLocator reports a configured city.
type StaticLocator struct {
	City   string
	Denied bool
}

// CurrentCity implements Locator.
func (s StaticLocator) CurrentCity(_ context.Context) (string, error) {
	if s.Denied {
		return "", ErrPermissionDenied
	}
	if strings.TrimSpace(s.City) == "" {
		return "", ErrCityUnknown
	}
	return s.City, nil
}

// CityHint resolves the current city for filtering. Any failure, and a blank
// city, yields nil, which the filter pipeline treats as "city unknown".
func CityHint(ctx context.Context, l Locator) *string {
	if l == nil {
		return nil
	}
	city, err := l.CurrentCity(ctx)
	if err != nil || strings.TrimSpace(city) == "" {
		return nil
	}
	return &city
}
