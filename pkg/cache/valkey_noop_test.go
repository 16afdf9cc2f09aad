package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

func TestNoopValkey_BasicOps(t *testing.T) {
	cch := NewNoopValkeyCache(logger.NewNop())
	ctx := context.Background()

	if err := cch.Set(ctx, "k1", "v1", time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	b, err := cch.Get(ctx, "k1")
	if err != nil || string(b) != "v1" {
		t.Fatalf("get: %v %q", err, string(b))
	}
	if err := cch.Delete(ctx, "k1"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if _, err := cch.Get(ctx, "k1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := cch.Set(ctx, "json", map[string]int{"a": 1}, 0); err != nil {
		t.Fatalf("set json: %v", err)
	}
	b, _ = cch.Get(ctx, "json")
	if string(b) != `{"a":1}` {
		t.Fatalf("unexpected json value: %s", string(b))
	}

	if err := cch.HealthCheck(ctx); err == nil {
		t.Fatalf("expected health error for noop cache")
	}
}

func TestNoopValkey_Hashes(t *testing.T) {
	cch := NewNoopValkeyCache(logger.NewNop())
	ctx := context.Background()

	value := []byte("one")
	if err := cch.HSet(ctx, "h", "1", value); err != nil {
		t.Fatalf("hset: %v", err)
	}
	value[0] = 'X'
	_ = cch.HSet(ctx, "h", "2", []byte("two"))

	all, err := cch.HGetAll(ctx, "h")
	if err != nil {
		t.Fatalf("hgetall: %v", err)
	}
	if len(all) != 2 || string(all["1"]) != "one" {
		t.Fatalf("unexpected hash content: %v", all)
	}

	_ = cch.HDel(ctx, "h", "1")
	all, _ = cch.HGetAll(ctx, "h")
	if len(all) != 1 {
		t.Fatalf("expected one field after delete, got %d", len(all))
	}

	empty, err := cch.HGetAll(ctx, "missing")
	if err != nil || len(empty) != 0 {
		t.Fatalf("missing hash: %v %v", err, empty)
	}
}
