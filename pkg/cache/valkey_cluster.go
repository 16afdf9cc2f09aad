package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("key not found")

// Valkey is the subset of Valkey/Redis operations the console backend relies on.
type Valkey interface {
	// General caching
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error

	// Hashes hold one record per field, e.g. stored connections by id.
	HSet(ctx context.Context, key, field string, value []byte) error
	HGetAll(ctx context.Context, key string) (map[string][]byte, error)
	HDel(ctx context.Context, key, field string) error

	HealthCheck(ctx context.Context) error
}

func NewValkeyCluster(nodes []string, password string, defaultTTL time.Duration) (Valkey, error) {
	client := redis.NewClusterClient(&redis.ClusterOptions{
		Addrs:        nodes,
		Password:     password,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	// Test connection to Valkey cluster
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Valkey cluster: %w", err)
	}

	return &valkeyImpl{client: client, ttl: defaultTTL, mode: "cluster"}, nil
}
