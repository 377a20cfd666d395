package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce is how long the reloader waits after the last write.
const reloadDebounce = 500 * time.Millisecond

// Reloadable is anything that can re-read its configuration from disk.
type Reloadable interface {
	Reload() error
}

// Reloader watches configuration files for changes and triggers hot-reload.
type Reloader struct {
	watcher *fsnotify.Watcher
	target  Reloadable
	paths   []string
	logger  *slog.Logger
}

// NewReloader creates a file watcher for the given paths.
// Empty and missing paths are skipped.
func NewReloader(target Reloadable, paths []string) (*Reloader, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	var watched []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := watcher.Add(p); err != nil {
			watcher.Close()
			return nil, fmt.Errorf("failed to watch %q: %w", p, err)
		}
		watched = append(watched, p)
	}

	return &Reloader{
		watcher: watcher,
		target:  target,
		paths:   watched,
		logger:  slog.Default().With("component", "reloader"),
	}, nil
}

// Paths returns the files actually being watched.
func (r *Reloader) Paths() []string { return r.paths }

// Run watches for file changes and reloads. Blocks until ctx is cancelled.
func (r *Reloader) Run(ctx context.Context) error {
	defer r.watcher.Close()

	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(reloadDebounce, func() {
					if err := r.target.Reload(); err != nil {
						r.logger.Error("hot-reload failed", "error", err)
					}
				})
			}

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Warn("file watcher error", "error", err)
		}
	}
}
