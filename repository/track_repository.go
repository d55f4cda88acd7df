package repository

import (
	"context"
	"fmt"

	"tracklist/model"

	"gorm.io/gorm"
)

// TrackRepository is the catalog's read side.
type TrackRepository interface {
	// ListTracks returns every track joined with its album and artist,
	// ordered by sort (store order for model.SortNone).
	ListTracks(ctx context.Context, sort model.SortKey) ([]*model.Track, error)
}

// orderClauses is the only source of ORDER BY text; sort keys never reach SQL directly.
var orderClauses = map[model.SortKey]string{
	model.SortArtist: "artist ASC, id ASC",
	model.SortAlbum:  "album ASC, id ASC",
	model.SortTitle:  "title ASC, id ASC",
}

// gormTrackRepository implements TrackRepository over any gorm dialect
// holding the Chinook schema.
type gormTrackRepository struct {
	db *gorm.DB
}

// NewGormTrackRepository creates a new instance of gormTrackRepository.
func NewGormTrackRepository(db *gorm.DB) TrackRepository {
	return &gormTrackRepository{db: db}
}

type trackRow struct {
	ID           int64
	Artist       string
	Album        string
	Title        string
	Milliseconds int64
}

func (r *gormTrackRepository) ListTracks(ctx context.Context, sort model.SortKey) ([]*model.Track, error) {
	if !sort.Valid() {
		return nil, fmt.Errorf("list tracks: %w", model.ErrInvalidSortKey)
	}

	q := r.db.WithContext(ctx).
		Table("tracks AS t").
		Select("t.TrackId AS id, ar.Name AS artist, al.Title AS album, t.Name AS title, t.Milliseconds AS milliseconds").
		Joins("JOIN albums AS al ON al.AlbumId = t.AlbumId").
		Joins("JOIN artists AS ar ON ar.ArtistId = al.ArtistId")
	if clause, ok := orderClauses[sort]; ok {
		q = q.Order(clause)
	}

	var rows []trackRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query tracks: %w", err)
	}

	tracks := make([]*model.Track, 0, len(rows))
	for _, row := range rows {
		tracks = append(tracks, &model.Track{
			ID:              row.ID,
			Artist:          row.Artist,
			Album:           row.Album,
			Title:           row.Title,
			DurationSeconds: row.Milliseconds / 1000,
		})
	}
	return tracks, nil
}
