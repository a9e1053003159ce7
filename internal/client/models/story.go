// Package models defines the typed records the client works with: stories,
// user accounts, and the auth session. The remote API and the original data
// sources are loose about optional fields, so every boundary (network read,
// cache write) funnels records through Normalize to apply defaults in exactly
// one place.
package models

import (
	"strconv"
	"time"
)

// PlaceholderName is used when a story arrives without an author name.
const PlaceholderName = "Anonymous"

// Story is a user-contributed record.
//
// PhotoURL is either a remote URL or a data: URL for photos captured while
// offline. Lat/Lon are optional; a location is only considered valid when
// both are present and within range. Offline marks a record that originated
// locally and has not been confirmed by the server yet.
type Story struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PhotoURL    string    `json:"photoUrl,omitempty"`
	Lat         *float64  `json:"lat,omitempty"`
	Lon         *float64  `json:"lon,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	Offline     bool      `json:"isOffline,omitempty"`
}

// Normalize applies defaults and drops invalid optional fields, returning the
// cleaned copy. It is invoked on every record crossing a boundary.
func (s Story) Normalize() Story {
	if s.Name == "" {
		s.Name = PlaceholderName
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	if !validLocation(s.Lat, s.Lon) {
		s.Lat, s.Lon = nil, nil
	}
	return s
}

// HasLocation reports whether the story carries a usable coordinate pair.
func (s Story) HasLocation() bool {
	return validLocation(s.Lat, s.Lon)
}

func validLocation(lat, lon *float64) bool {
	if lat == nil || lon == nil {
		return false
	}
	return *lat >= -90 && *lat <= 90 && *lon >= -180 && *lon <= 180
}

// ParseCoordinate converts a form-style coordinate string into a float
// pointer. Empty strings and unparseable values yield nil.
func ParseCoordinate(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

// StoryView is a Story joined with bookmark state for presentation. The
// bookmarked flag is derived from the bookmarks collection at read time and
// never stored on the canonical record.
type StoryView struct {
	Story
	Bookmarked bool `json:"isBookmarked"`
}
