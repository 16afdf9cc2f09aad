package fswatcher

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event exposes filesystem watcher events without leaking external dependency across the codebase.
type Event = fsnotify.Event

// Watcher is an alias to fsnotify.Watcher so call sites can rely on a thin wrapper.
type Watcher = fsnotify.Watcher

// New creates a new filesystem watcher. Callers are responsible for closing it.
func New() (*fsnotify.Watcher, error) {
	return fsnotify.NewWatcher()
}

// DefaultDebounce collapses the burst of events editors emit for one save.
const DefaultDebounce = 200 * time.Millisecond

// WatchFile blocks until ctx is done, calling onChange once per settled burst
// of changes to path. The parent directory is watched so atomic
// rename-into-place saves are seen as well. Watcher errors go to onError when
// it is non-nil.
func WatchFile(ctx context.Context, path string, debounce time.Duration, onChange func(), onError func(error)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := New()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !IsRelevant(event, abs) {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if onError != nil {
				onError(err)
			}

		case <-timer.C:
			onChange()
		}
	}
}

// IsRelevant reports whether event changes the content at path
func IsRelevant(event Event, path string) bool {
	if filepath.Clean(event.Name) != filepath.Clean(path) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}
