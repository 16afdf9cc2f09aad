package cache

import (
	"context"
	"sync"
	"time"

	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

// autoSwapCache wraps a Valkey implementation and can swap from a fallback
// (e.g., in-memory noop) to a real Valkey client once it becomes available.
// Data written to the fallback before the swap is not migrated.
type autoSwapCache struct {
	mu      sync.RWMutex
	current Valkey
	logger  logger.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
}

// newAutoSwapCache starts with fallback and keeps trying dialReal every interval
// until it succeeds, then atomically swaps.
func newAutoSwapCache(fallback Valkey, log logger.Logger, interval time.Duration, dialReal func() (Valkey, error)) *autoSwapCache {
	a := &autoSwapCache{
		current: fallback,
		logger:  log,
		stopCh:  make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-a.stopCh:
				return
			case <-ticker.C:
				real, err := dialReal()
				if err != nil {
					a.logger.Warn("Valkey connection attempt failed; will retry", "error", err)
					continue
				}
				a.mu.Lock()
				a.current = real
				a.mu.Unlock()
				a.logger.Info("Valkey connection established; switched from in-memory to real cache")
				return
			}
		}
	}()

	return a
}

// Stop stops the background connector.
func (a *autoSwapCache) Stop() {
	a.stopOnce.Do(func() { close(a.stopCh) })
}

func (a *autoSwapCache) active() Valkey {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

func (a *autoSwapCache) Get(ctx context.Context, key string) ([]byte, error) {
	return a.active().Get(ctx, key)
}

func (a *autoSwapCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return a.active().Set(ctx, key, value, ttl)
}

func (a *autoSwapCache) Delete(ctx context.Context, key string) error {
	return a.active().Delete(ctx, key)
}

func (a *autoSwapCache) HSet(ctx context.Context, key, field string, value []byte) error {
	return a.active().HSet(ctx, key, field, value)
}

func (a *autoSwapCache) HGetAll(ctx context.Context, key string) (map[string][]byte, error) {
	return a.active().HGetAll(ctx, key)
}

func (a *autoSwapCache) HDel(ctx context.Context, key, field string) error {
	return a.active().HDel(ctx, key, field)
}

func (a *autoSwapCache) HealthCheck(ctx context.Context) error {
	return a.active().HealthCheck(ctx)
}

// NewAutoSwapForSingle creates an auto-swapping cache that upgrades from
// in-memory to a single-node Valkey client when reachable.
func NewAutoSwapForSingle(addr string, db int, password string, ttl time.Duration, log logger.Logger, fallback Valkey) Valkey {
	return newAutoSwapCache(fallback, log, 5*time.Second, func() (Valkey, error) {
		return NewValkeySingle(addr, db, password, ttl)
	})
}

// NewAutoSwapForCluster creates an auto-swapping cache that upgrades from
// in-memory to a Valkey cluster client when reachable.
func NewAutoSwapForCluster(nodes []string, password string, ttl time.Duration, log logger.Logger, fallback Valkey) Valkey {
	return newAutoSwapCache(fallback, log, 5*time.Second, func() (Valkey, error) {
		return NewValkeyCluster(nodes, password, ttl)
	})
}
