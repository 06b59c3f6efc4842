// Package watcher monitors the data directory and reports new or
// changed documents so they can be re-ingested.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Event reports one changed document.
type Event struct {
	// Path is the changed file's path.
	Path string

	// Op describes the change: "created" or "modified".
	Op string
}

// Watcher emits events for documents matching the configured
// extensions.
type Watcher struct {
	fs         *fsnotify.Watcher
	extensions []string
	logger     *zap.Logger
}

// New creates a Watcher for the given extensions (without leading
// dot).
func New(extensions []string, logger *zap.Logger) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(extensions) == 0 {
		extensions = []string{"txt"}
	}
	return &Watcher{fs: fs, extensions: extensions, logger: logger}, nil
}

// Watch monitors dir until ctx is cancelled, emitting one Event per
// create or write of a matching file. The channel is closed when
// watching stops.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan Event, error) {
	if err := w.fs.Add(dir); err != nil {
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	events := make(chan Event, 100)
	go func() {
		defer close(events)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.fs.Events:
				if !ok {
					return
				}
				if !w.watched(ev.Name) {
					continue
				}

				var op string
				switch {
				case ev.Op.Has(fsnotify.Create):
					op = "created"
				case ev.Op.Has(fsnotify.Write):
					op = "modified"
				default:
					continue
				}

				select {
				case events <- Event{Path: ev.Name, Op: op}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.fs.Errors:
				if !ok {
					return
				}
				w.logger.Warn("watch error", zap.Error(err))
			}
		}
	}()

	return events, nil
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) watched(path string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	for _, e := range w.extensions {
		if ext == strings.TrimPrefix(e, ".") {
			return true
		}
	}
	return false
}
