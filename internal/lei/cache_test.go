package lei

import (
	"context"
	"testing"
	"time"
)

func TestCacheKeyNormalization(t *testing.T) {
	a := CacheKey("  Deutsche Bank ")
	b := CacheKey("deutsche bank")
	if a != b {
		t.Errorf("keys differ: %q vs %q", a, b)
	}
	if CacheKey("x") == CacheKey("y") {
		t.Error("distinct queries share a key")
	}
}

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if _, ok, _ := c.Get(ctx, "missing"); ok {
		t.Error("miss reported as hit")
	}

	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	v, ok, err := c.Get(ctx, "k")
	if err != nil || !ok || v != "v" {
		t.Errorf("Get() = %q, %v, %v", v, ok, err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	c.Set(ctx, "k", "v", time.Minute)

	now = now.Add(59 * time.Second)
	if _, ok, _ := c.Get(ctx, "k"); !ok {
		t.Error("entry expired early")
	}

	now = now.Add(2 * time.Second)
	if _, ok, _ := c.Get(ctx, "k"); ok {
		t.Error("entry survived past its TTL")
	}

	// Expired entries are dropped on read
	c.mu.Lock()
	_, present := c.entries["k"]
	c.mu.Unlock()
	if present {
		t.Error("expired entry not evicted")
	}
}
