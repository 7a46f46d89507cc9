package cache

import (
	"context"
	"sync"

	"leettrack/internal/tracker"
)

// MemoryCache is an in-memory cache for tests and ephemeral sessions.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string][]byte)}
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = v
	return nil
}

// Compile-time check that MemoryCache implements tracker.SettingsCache interface
var _ tracker.SettingsCache = (*MemoryCache)(nil)
