// Package view holds the sort and filter selection shared by every client.
package view

import (
	"strings"
	"sync"

	"tracklist/model"
)

// Snapshot is the pair of values a single render works from.
type Snapshot struct {
	Sort   model.SortKey
	Filter string // lower-cased, empty means no filtering
}

// State is the process-wide view. All mutation goes through SetSort and SetFilter.
type State struct {
	mu     sync.RWMutex
	sort   model.SortKey
	filter string
}

func NewState() *State {
	return &State{}
}

// SetSort replaces the sort key. Keys outside the enum are rejected and leave
// the state untouched.
func (s *State) SetSort(key model.SortKey) error {
	if !key.Valid() {
		return model.ErrInvalidSortKey
	}
	s.mu.Lock()
	s.sort = key
	s.mu.Unlock()
	return nil
}

// SetFilter stores text lower-cased. An empty string clears filtering.
func (s *State) SetFilter(text string) {
	lowered := strings.ToLower(text)
	s.mu.Lock()
	s.filter = lowered
	s.mu.Unlock()
}

// Snapshot reads both fields under one lock.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{Sort: s.sort, Filter: s.filter}
}
