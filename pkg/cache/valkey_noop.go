package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

// noopValkeyCache provides an in-memory, process-local fallback that satisfies
// Valkey when the external cache is unavailable. Data is not shared across
// replicas and is lost on restart. TTLs are ignored.
type noopValkeyCache struct {
	mu     sync.RWMutex
	m      map[string][]byte
	hashes map[string]map[string][]byte
	logger logger.Logger
}

func NewNoopValkeyCache(log logger.Logger) Valkey {
	log.Warn("Valkey cache unavailable; using in-memory fallback (noop)")
	return &noopValkeyCache{
		m:      make(map[string][]byte),
		hashes: make(map[string]map[string][]byte),
		logger: log,
	}
}

func (n *noopValkeyCache) Get(_ context.Context, key string) ([]byte, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	b, ok := n.m[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return b, nil
}

func (n *noopValkeyCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	b, err := encode(value)
	if err != nil {
		return err
	}
	n.mu.Lock()
	n.m[key] = b
	n.mu.Unlock()
	return nil
}

func (n *noopValkeyCache) Delete(_ context.Context, key string) error {
	n.mu.Lock()
	delete(n.m, key)
	delete(n.hashes, key)
	n.mu.Unlock()
	return nil
}

func (n *noopValkeyCache) HSet(_ context.Context, key, field string, value []byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	h, ok := n.hashes[key]
	if !ok {
		h = make(map[string][]byte)
		n.hashes[key] = h
	}
	h[field] = append([]byte(nil), value...)
	return nil
}

func (n *noopValkeyCache) HGetAll(_ context.Context, key string) (map[string][]byte, error) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make(map[string][]byte, len(n.hashes[key]))
	for field, value := range n.hashes[key] {
		out[field] = append([]byte(nil), value...)
	}
	return out, nil
}

func (n *noopValkeyCache) HDel(_ context.Context, key, field string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if h, ok := n.hashes[key]; ok {
		delete(h, field)
	}
	return nil
}

// HealthCheck returns an error to indicate no external Valkey connectivity.
func (n *noopValkeyCache) HealthCheck(context.Context) error {
	return errors.New("valkey unavailable: using in-memory cache")
}
