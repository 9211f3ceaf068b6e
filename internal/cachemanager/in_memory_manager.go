package cachemanager

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/regdash/internal/log"
)

const DefaultExpiration = 30 * time.Second
const DefaultCleanupInterval = 5 * time.Minute

// InMemoryCacheManager is a CacheManager over go-cache keyed by strings.
type InMemoryCacheManager[V any] struct {
	useCase string
	cache   *gocache.Cache
}

var _ CacheManager[string, int] = (*InMemoryCacheManager[int])(nil)

// NewInMemoryCacheManager creates a cache. useCase only labels log lines.
func NewInMemoryCacheManager[V any](useCase string, defaultExpiration, cleanupInterval time.Duration) *InMemoryCacheManager[V] {
	return &InMemoryCacheManager[V]{
		useCase: useCase,
		cache:   gocache.New(defaultExpiration, cleanupInterval),
	}
}

// Get returns the cached value for key.
func (c *InMemoryCacheManager[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V

	raw, found := c.cache.Get(key)
	if !found {
		log.Debug(log.CatCache, "cache miss", "cache", c.useCase, "key", key)
		return zero, false
	}

	v, ok := raw.(V)
	if !ok {
		log.Error(log.CatCache, "wrong type assertion when getting value", "cache", c.useCase, "key", key)
		return zero, false
	}

	log.Debug(log.CatCache, "cache hit", "cache", c.useCase, "key", key)
	return v, true
}

// Set stores value under key. A zero ttl uses the cache default.
func (c *InMemoryCacheManager[V]) Set(_ context.Context, key string, value V, ttl time.Duration) {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	c.cache.Set(key, value, ttl)
}

// Delete removes keys.
func (c *InMemoryCacheManager[V]) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		c.cache.Delete(key)
	}
	if len(keys) > 0 {
		log.Debug(log.CatCache, "cache delete", "cache", c.useCase, "keys", keys)
	}
	return nil
}

// Flush drops every entry.
func (c *InMemoryCacheManager[V]) Flush(context.Context) error {
	c.cache.Flush()
	return nil
}

// Len returns the number of entries, including expired ones not yet cleaned up.
func (c *InMemoryCacheManager[V]) Len() int {
	return c.cache.ItemCount()
}
