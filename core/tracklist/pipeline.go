// Package tracklist turns the current view into a rendered track table.
package tracklist

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"tracklist/core/view"
	"tracklist/logger"
	"tracklist/model"
	"tracklist/repository"
)

// Fragment is a rendered partial page returned to one client.
type Fragment struct {
	HTML  template.HTML
	Count int
}

// Pipeline queries the catalog for a view snapshot and renders the result.
// It keeps no state between calls and is safe for concurrent use.
type Pipeline struct {
	repo repository.TrackRepository
}

func NewPipeline(repo repository.TrackRepository) *Pipeline {
	return &Pipeline{repo: repo}
}

// Render fetches all tracks in snap.Sort order, keeps those matching
// snap.Filter and renders them. Nothing is cached: each call re-queries.
func (p *Pipeline) Render(ctx context.Context, snap view.Snapshot) (*Fragment, error) {
	start := time.Now()

	tracks, err := p.repo.ListTracks(ctx, snap.Sort)
	if err != nil {
		return nil, fmt.Errorf("render track list: %w", err)
	}
	tracks = Filter(tracks, snap.Filter)

	var buf bytes.Buffer
	if err := tableTemplate.Execute(&buf, tableData{Tracks: tracks, Count: len(tracks)}); err != nil {
		return nil, fmt.Errorf("render track list: %w", err)
	}

	logger.Debug("read+rendered tracks",
		logger.String("sort", string(snap.Sort)),
		logger.String("filter", snap.Filter),
		logger.Int("rows", len(tracks)),
		logger.Duration("elapsed", time.Since(start)))

	return &Fragment{HTML: template.HTML(buf.String()), Count: len(tracks)}, nil
}

// Filter keeps tracks whose artist, album or title contains filter,
// compared case-insensitively. filter is expected lower-cased; empty keeps all.
func Filter(tracks []*model.Track, filter string) []*model.Track {
	if filter == "" {
		return tracks
	}
	filter = strings.ToLower(filter)

	kept := make([]*model.Track, 0, len(tracks))
	for _, t := range tracks {
		if Matches(t, filter) {
			kept = append(kept, t)
		}
	}
	return kept
}

// Matches reports whether any display field of t contains the lower-cased filter.
func Matches(t *model.Track, filter string) bool {
	return strings.Contains(strings.ToLower(t.Artist), filter) ||
		strings.Contains(strings.ToLower(t.Album), filter) ||
		strings.Contains(strings.ToLower(t.Title), filter)
}

// FormatDuration renders seconds as m:ss.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
