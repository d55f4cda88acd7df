// Package catalog watches the SQLite catalog file and announces changes.
package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"tracklist/logger"
	"tracklist/model"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups the burst of writes a single SQLite transaction produces.
const DefaultDebounce = 500 * time.Millisecond

// Publisher receives catalog_changed events.
type Publisher interface {
	Publish(ev model.Event)
}

// ChangeData is the payload of a catalog_changed event.
type ChangeData struct {
	File string `json:"file"`
}

// Watcher publishes a catalog_changed event after the database file (or its
// -wal/-journal companions) is written.
type Watcher struct {
	path     string
	base     string
	debounce time.Duration
	pub      Publisher
	fsw      *fsnotify.Watcher
}

// NewWatcher starts watching the directory holding dbPath.
func NewWatcher(dbPath string, pub Publisher, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("resolve catalog path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create catalog watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch catalog dir: %w", err)
	}

	return &Watcher{
		path:     abs,
		base:     filepath.Base(abs),
		debounce: debounce,
		pub:      pub,
		fsw:      fsw,
	}, nil
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	name := filepath.Base(ev.Name)
	return name == w.base || strings.HasPrefix(name, w.base+"-")
}

// Run delivers events until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fsw.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			logger.Info("catalog changed", logger.String("file", w.path))
			w.pub.Publish(model.NewEvent(model.EventCatalogChanged, ChangeData{File: w.base}))

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("catalog watcher error", logger.ErrorField(err))
		}
	}
}
