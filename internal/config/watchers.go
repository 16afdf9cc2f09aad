package config

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/platformbuilds/evitalab-core/internal/utils/fswatcher"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

// ConnectionsWatcher reloads the preconfigured connections file when it
// changes and hands the merged list to registered callbacks.
type ConnectionsWatcher struct {
	config   *Config
	path     string
	debounce time.Duration
	logger   logger.Logger
	mu       sync.RWMutex
	current  []PreconfiguredConnection
	watchers []func([]PreconfiguredConnection)
}

func NewConnectionsWatcher(config *Config, logger logger.Logger) *ConnectionsWatcher {
	return &ConnectionsWatcher{
		config:   config,
		path:     config.Connections.PreconfiguredFile,
		debounce: fswatcher.DefaultDebounce,
		logger:   logger,
		watchers: make([]func([]PreconfiguredConnection), 0),
	}
}

// Start begins watching for file changes and blocks until ctx is done
func (w *ConnectionsWatcher) Start(ctx context.Context) error {
	if w.path == "" {
		return fmt.Errorf("no preconfigured connections file configured")
	}

	w.logger.Info("Connections watcher started", "path", w.path)
	err := fswatcher.WatchFile(ctx, w.path, w.debounce, func() {
		w.logger.Info("Preconfigured connections file changed, reloading...", "file", w.path)
		if err := w.Reload(); err != nil {
			w.logger.Error("Failed to reload preconfigured connections", "error", err)
			return
		}
		w.notifyWatchers()
	}, func(err error) {
		w.logger.Error("Connections watcher error", "error", err)
	})
	w.logger.Info("Connections watcher stopped")
	return err
}

// RegisterWatcher adds a callback for connection list changes
func (w *ConnectionsWatcher) RegisterWatcher(callback func([]PreconfiguredConnection)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.watchers = append(w.watchers, callback)
}

// Current returns the last successfully loaded list
func (w *ConnectionsWatcher) Current() []PreconfiguredConnection {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Reload re-reads the file. A broken file keeps the previous list.
func (w *ConnectionsWatcher) Reload() error {
	conns, err := w.config.PreconfiguredConnections()
	if err != nil {
		RecordConfigReload(false)
		return err
	}

	w.mu.Lock()
	w.current = conns
	w.mu.Unlock()

	RecordConfigReload(true)
	PreconfiguredConnections.Set(float64(len(conns)))
	w.logger.Info("Preconfigured connections reloaded", "count", len(conns))
	return nil
}

func (w *ConnectionsWatcher) notifyWatchers() {
	w.mu.RLock()
	conns := w.current
	watchers := make([]func([]PreconfiguredConnection), len(w.watchers))
	copy(watchers, w.watchers)
	w.mu.RUnlock()

	for _, watcher := range watchers {
		func(cb func([]PreconfiguredConnection)) {
			defer func() {
				if r := recover(); r != nil {
					w.logger.Error("Connections watcher callback panic", "panic", r)
				}
			}()
			cb(conns)
		}(watcher)
	}
}
