package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the locations file for changes and triggers reloads.
// Changes are debounced to absorb editor write storms, and the reload
// callback runs serialized on the watcher goroutine, so it is the single
// writer feeding fresh descriptor tables into the registry.
type Watcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	path     string
	debounce time.Duration

	mu      sync.Mutex
	running bool
}

// NewWatcher creates a watcher for the given locations file. A
// non-positive debounce falls back to the default interval.
func NewWatcher(path string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("watcher: path must not be empty")
	}
	if debounce <= 0 {
		debounce = DefaultDebounceInterval
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		watcher:  fsw,
		logger:   logger.With("component", "config.watcher"),
		path:     path,
		debounce: debounce,
	}, nil
}

// Watch blocks until the context is cancelled, invoking onReload after
// each debounced change to the locations file. Reload errors are logged
// and watching continues; a broken table on disk must not take down a
// running resolver.
func (w *Watcher) Watch(ctx context.Context, onReload func(*LocationsFile) error) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	w.running = true
	w.mu.Unlock()

	// Watch the directory, not the file: many editors replace files by
	// rename, which drops a direct file watch.
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	w.logger.Info("locations watcher started",
		"path", w.path,
		"debounce_ms", w.debounce.Milliseconds(),
	)

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("locations watcher stopped")
			return w.watcher.Close()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			w.reload(onReload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// relevant reports whether the event concerns the watched file and a
// content-changing operation.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != filepath.Clean(w.path) {
		return false
	}
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename)
}

// reload re-reads the locations file and hands it to the callback.
func (w *Watcher) reload(onReload func(*LocationsFile) error) {
	lf, err := LoadLocations(w.path)
	if err != nil {
		w.logger.Error("locations reload failed, keeping previous table",
			"path", w.path,
			"error", err,
		)
		return
	}

	if err := onReload(lf); err != nil {
		w.logger.Error("locations reload callback failed",
			"path", w.path,
			"error", err,
		)
		return
	}

	w.logger.Info("locations reloaded",
		"path", w.path,
		"descriptors", len(lf.Locations),
	)
}
