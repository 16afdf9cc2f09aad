package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/platformbuilds/evitalab-core/internal/metrics"
)

// valkeyImpl implements Valkey against a single node or a cluster; both clients
// satisfy redis.UniversalClient.
type valkeyImpl struct {
	client redis.UniversalClient
	ttl    time.Duration
	mode   string
}

func NewValkeySingle(addr string, db int, password string, defaultTTL time.Duration) (Valkey, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Valkey single-node: %w", err)
	}

	return &valkeyImpl{client: client, ttl: defaultTTL, mode: "single"}, nil
}

func observe(operation string, start time.Time) {
	metrics.CacheRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

func (v *valkeyImpl) Get(ctx context.Context, key string) ([]byte, error) {
	defer observe("get", time.Now())
	b, err := v.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		metrics.CacheRequestsTotal.WithLabelValues("valkey", "miss").Inc()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		metrics.CacheRequestsTotal.WithLabelValues("valkey", "error").Inc()
		return nil, err
	}
	metrics.CacheRequestsTotal.WithLabelValues("valkey", "hit").Inc()
	return b, nil
}

func (v *valkeyImpl) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	defer observe("set", time.Now())
	data, err := encode(value)
	if err != nil {
		return fmt.Errorf("marshal value for key %s: %w", key, err)
	}
	if ttl <= 0 {
		ttl = v.ttl
	}
	if err := v.client.Set(ctx, key, data, ttl).Err(); err != nil {
		metrics.CacheRequestsTotal.WithLabelValues("valkey", "error").Inc()
		return err
	}
	return nil
}

func (v *valkeyImpl) Delete(ctx context.Context, key string) error {
	defer observe("delete", time.Now())
	return v.client.Del(ctx, key).Err()
}

func (v *valkeyImpl) HSet(ctx context.Context, key, field string, value []byte) error {
	defer observe("hset", time.Now())
	if err := v.client.HSet(ctx, key, field, value).Err(); err != nil {
		metrics.CacheRequestsTotal.WithLabelValues("valkey", "error").Inc()
		return err
	}
	return nil
}

func (v *valkeyImpl) HGetAll(ctx context.Context, key string) (map[string][]byte, error) {
	defer observe("hgetall", time.Now())
	raw, err := v.client.HGetAll(ctx, key).Result()
	if err != nil {
		metrics.CacheRequestsTotal.WithLabelValues("valkey", "error").Inc()
		return nil, err
	}
	out := make(map[string][]byte, len(raw))
	for field, value := range raw {
		out[field] = []byte(value)
	}
	return out, nil
}

func (v *valkeyImpl) HDel(ctx context.Context, key, field string) error {
	defer observe("hdel", time.Now())
	return v.client.HDel(ctx, key, field).Err()
}

// HealthCheck pings the Valkey instance.
func (v *valkeyImpl) HealthCheck(ctx context.Context) error {
	if err := v.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("valkey %s ping failed: %w", v.mode, err)
	}
	return nil
}

func encode(value interface{}) ([]byte, error) {
	switch x := value.(type) {
	case []byte:
		return x, nil
	case string:
		return []byte(x), nil
	default:
		return json.Marshal(x)
	}
}
