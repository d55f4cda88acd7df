package model

import (
	"errors"
	"fmt"
)

// Track is a read-only row of the catalog join: one track with its album and artist names.
type Track struct {
	ID              int64  `json:"id"`
	Artist          string `json:"artist"`
	Album           string `json:"album"`
	Title           string `json:"title"`
	DurationSeconds int64  `json:"durationSeconds"`
}

// SortKey selects the display field the track list is ordered by.
// The zero value keeps the store's natural order.
type SortKey string

const (
	SortNone   SortKey = ""
	SortArtist SortKey = "artist"
	SortAlbum  SortKey = "album"
	SortTitle  SortKey = "title"
)

// ErrInvalidSortKey is returned for any sort key outside artist, album and title.
var ErrInvalidSortKey = errors.New("invalid sort key")

// SortKeys lists the accepted keys in header order.
var SortKeys = []SortKey{SortArtist, SortAlbum, SortTitle}

// Valid reports whether k is SortNone or one of SortKeys.
func (k SortKey) Valid() bool {
	switch k {
	case SortNone, SortArtist, SortAlbum, SortTitle:
		return true
	}
	return false
}

// ParseSortKey converts untrusted input into a SortKey. The raw input is not
// included in the returned error.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(s)
	if k == SortNone || !k.Valid() {
		return SortNone, fmt.Errorf("parse sort key: %w", ErrInvalidSortKey)
	}
	return k, nil
}
