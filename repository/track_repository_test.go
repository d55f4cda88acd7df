package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"tracklist/db"
	"tracklist/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.OpenDialector(sqlite.Open(filepath.Join(t.TempDir(), "chinook.db")))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(gdb) })

	require.NoError(t, db.Migrate(gdb))
	_, err = db.Seed(gdb, db.SampleCatalog)
	require.NoError(t, err)
	return gdb
}

func TestListTracksJoinsCatalog(t *testing.T) {
	repo := NewGormTrackRepository(setupTestDB(t))

	tracks, err := repo.ListTracks(context.Background(), model.SortNone)
	require.NoError(t, err)
	require.Len(t, tracks, 13)

	var found *model.Track
	for _, tr := range tracks {
		if tr.Title == "Bohemian Rhapsody" {
			found = tr
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, "Queen", found.Artist)
	assert.Equal(t, "Greatest Hits I", found.Album)
	assert.Equal(t, int64(358), found.DurationSeconds)
	assert.NotZero(t, found.ID)
}

func TestListTracksSortedByEachKey(t *testing.T) {
	repo := NewGormTrackRepository(setupTestDB(t))

	field := map[model.SortKey]func(*model.Track) string{
		model.SortArtist: func(t *model.Track) string { return t.Artist },
		model.SortAlbum:  func(t *model.Track) string { return t.Album },
		model.SortTitle:  func(t *model.Track) string { return t.Title },
	}
	for key, get := range field {
		t.Run(string(key), func(t *testing.T) {
			tracks, err := repo.ListTracks(context.Background(), key)
			require.NoError(t, err)
			require.NotEmpty(t, tracks)
			for i := 1; i < len(tracks); i++ {
				assert.LessOrEqual(t, get(tracks[i-1]), get(tracks[i]))
			}
		})
	}
}

func TestListTracksRejectsInvalidSortBeforeQuerying(t *testing.T) {
	gdb := setupTestDB(t)
	repo := NewGormTrackRepository(gdb)

	// closing the pool would turn any query into an error; the key check must come first
	require.NoError(t, db.Close(gdb))

	_, err := repo.ListTracks(context.Background(), model.SortKey("id; drop table tracks"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidSortKey))
	assert.NotContains(t, err.Error(), "drop")
}

func TestListTracksSurfacesStoreErrors(t *testing.T) {
	gdb := setupTestDB(t)
	require.NoError(t, gdb.Migrator().DropTable("tracks"))

	_, err := NewGormTrackRepository(gdb).ListTracks(context.Background(), model.SortTitle)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to query tracks")
}

func TestListTracksHonoursCancelledContext(t *testing.T) {
	repo := NewGormTrackRepository(setupTestDB(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.ListTracks(ctx, model.SortNone)
	assert.Error(t, err)
}
