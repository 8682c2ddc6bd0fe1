package store

import (
	"strings"

	"tuneshelf/model"
)

// Year range bounds of the library view's year slider.
const (
	DefaultYearMin = 1950
	DefaultYearMax = 2024
)

// Filter narrows an owner's visible songs. All four predicates are
// conjunctive; an empty text value satisfies its predicate vacuously.
type Filter struct {
	Search  string // matched against title or singer, case-insensitive
	Singer  string // substring of singer, case-insensitive
	Letter  string // leading letter(s) of title, case-insensitive
	YearMin int
	YearMax int
}

// DefaultFilter returns the filter with no text constraints and the
// full year range.
func DefaultFilter() Filter {
	return Filter{YearMin: DefaultYearMin, YearMax: DefaultYearMax}
}

// Matches reports whether song passes every predicate of the filter.
func (f Filter) Matches(song model.Song) bool {
	title := strings.ToLower(song.Title)
	singer := strings.ToLower(song.Singer)

	search := strings.ToLower(f.Search)
	if !strings.Contains(title, search) && !strings.Contains(singer, search) {
		return false
	}
	if f.Singer != "" && !strings.Contains(singer, strings.ToLower(f.Singer)) {
		return false
	}
	if f.Letter != "" && !strings.HasPrefix(title, strings.ToLower(f.Letter)) {
		return false
	}
	return song.Year >= f.YearMin && song.Year <= f.YearMax
}

// Apply returns the songs that pass the filter, preserving order.
func (f Filter) Apply(songs []model.Song) []model.Song {
	out := make([]model.Song, 0, len(songs))
	for _, song := range songs {
		if f.Matches(song) {
			out = append(out, song)
		}
	}
	return out
}
