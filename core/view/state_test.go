package view

import (
	"errors"
	"sync"
	"testing"

	"tracklist/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateDefaults(t *testing.T) {
	s := NewState()
	assert.Equal(t, Snapshot{}, s.Snapshot())
}

func TestSetSortLastWriterWins(t *testing.T) {
	s := NewState()
	require.NoError(t, s.SetSort(model.SortArtist))
	require.NoError(t, s.SetSort(model.SortTitle))
	assert.Equal(t, model.SortTitle, s.Snapshot().Sort)

	require.NoError(t, s.SetSort(model.SortNone))
	assert.Equal(t, model.SortNone, s.Snapshot().Sort)
}

func TestSetSortRejectsUnknownKey(t *testing.T) {
	s := NewState()
	require.NoError(t, s.SetSort(model.SortAlbum))

	err := s.SetSort(model.SortKey("id; drop"))
	assert.True(t, errors.Is(err, model.ErrInvalidSortKey))
	assert.Equal(t, model.SortAlbum, s.Snapshot().Sort)
}

func TestSetFilterLowerCases(t *testing.T) {
	s := NewState()
	s.SetFilter("AC/DC Back In Black")
	assert.Equal(t, "ac/dc back in black", s.Snapshot().Filter)

	s.SetFilter("")
	assert.Equal(t, "", s.Snapshot().Filter)
}

func TestConcurrentWritersAndReaders(t *testing.T) {
	s := NewState()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(3)
		go func(i int) {
			defer wg.Done()
			_ = s.SetSort(model.SortKeys[i%len(model.SortKeys)])
		}(i)
		go func() {
			defer wg.Done()
			s.SetFilter("Queen")
		}()
		go func() {
			defer wg.Done()
			snap := s.Snapshot()
			assert.True(t, snap.Sort.Valid())
			assert.Contains(t, []string{"", "queen"}, snap.Filter)
		}()
	}
	wg.Wait()
	assert.Equal(t, "queen", s.Snapshot().Filter)
}
