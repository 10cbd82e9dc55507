// Package lei resolves Legal Entity Identifiers against the GLEIF
// public API, with a pluggable cache in front of the upstream calls.
package lei

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Cache stores serialized search results keyed by normalized query.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CacheKey normalizes a search query into a cache key. Lookups differ
// only by case and surrounding whitespace more often than not.
func CacheKey(query string) string {
	return "lei:search:" + strings.ToLower(strings.TrimSpace(query))
}

// MemoryCache is an in-process Cache with per-entry expiry. It is the
// default when no Redis URL is configured.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return "", false, nil
	}
	if c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return "", false, nil
	}
	return e.value, true, nil
}

func (c *MemoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memoryEntry{value: value, expiresAt: c.now().Add(ttl)}
	return nil
}
