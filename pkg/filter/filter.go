// Package filter derives the displayed subset of listings from the full
// fetched set. Filtering runs in two stages, location first and then free-text
// search on the title. Both stages are pure and stable: they never reorder
// their input and always return a fresh slice.
package filter

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	domain "github.com/donaldgifford/marketplace/pkg/types"
)

// Input is everything the pipeline depends on.
type Input struct {
	All                   []domain.Listing
	LocationFilterEnabled bool
	// CurrentCity is the device's resolved city; nil when unknown.
	CurrentCity *string
	SearchText  string
}

// Result holds the two derived views.
type Result struct {
	// Location is All narrowed by the location stage.
	Location []domain.Listing
	// Search is Location narrowed by the search stage; this is what gets displayed.
	Search []domain.Listing
}

// Pipeline applies the location and search stages with a fixed casing rule.
// The zero value is not usable; construct with New.
type Pipeline struct {
	tag    language.Tag
	folded bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLanguage makes matching use the lowercase mapping of tag (for example
// Turkish dotted and dotless i) instead of language-neutral case folding.
func WithLanguage(tag language.Tag) Option {
	return func(p *Pipeline) {
		p.tag = tag
		p.folded = false
	}
}

// New creates a Pipeline. By default matching uses Unicode case folding.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{tag: language.Und, folded: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Apply runs the location stage and then the search stage.
func (p *Pipeline) Apply(in Input) Result {
	loc := p.ByLocation(in.All, in.LocationFilterEnabled, in.CurrentCity)
	return Result{
		Location: loc,
		Search:   p.BySearch(loc, in.SearchText),
	}
}

// ByLocation keeps the listings whose city contains city, ignoring case.
// When the filter is disabled or the city is unknown the input is returned
// unchanged (as a copy).
func (p *Pipeline) ByLocation(listings []domain.Listing, enabled bool, city *string) []domain.Listing {
	if !enabled || city == nil {
		return slices.Clone(listings)
	}
	return p.keep(listings, *city, func(l *domain.Listing) string { return l.City })
}

// BySearch keeps the listings whose title contains text, ignoring case.
// An empty text keeps everything.
func (p *Pipeline) BySearch(listings []domain.Listing, text string) []domain.Listing {
	if text == "" {
		return slices.Clone(listings)
	}
	return p.keep(listings, text, func(l *domain.Listing) string { return l.Title })
}

func (p *Pipeline) keep(
	listings []domain.Listing,
	needle string,
	field func(*domain.Listing) string,
) []domain.Listing {
	// A Caser carries state, so each call gets its own.
	c := p.caser()
	needle = c.String(needle)

	out := make([]domain.Listing, 0, len(listings))
	for i := range listings {
		if strings.Contains(c.String(field(&listings[i])), needle) {
			out = append(out, listings[i])
		}
	}
	return out
}

func (p *Pipeline) caser() cases.Caser {
	if p.folded {
		return cases.Fold()
	}
	return cases.Lower(p.tag)
}

var defaultPipeline = New()

// Apply runs the default pipeline.
func Apply(in Input) Result {
	return defaultPipeline.Apply(in)
}

// ByLocation runs the location stage of the default pipeline.
func ByLocation(listings []domain.Listing, enabled bool, city *string) []domain.Listing {
	return defaultPipeline.ByLocation(listings, enabled, city)
}

// BySearch runs the search stage of the default pipeline.
func BySearch(listings []domain.Listing, text string) []domain.Listing {
	return defaultPipeline.BySearch(listings, text)
}

// SortByDateDesc returns a copy of listings ordered most recent first.
// Dates compare as strings, which is chronological for domain.DateLayout.
// Listings with equal dates keep their relative order.
func SortByDateDesc(listings []domain.Listing) []domain.Listing {
	out := slices.Clone(listings)
	slices.SortStableFunc(out, func(a, b domain.Listing) int {
		return cmp.Compare(b.Date, a.Date)
	})
	return out
}
