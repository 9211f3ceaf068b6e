package cachemanager

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/zjrosen/regdash/internal/log"
)

// ReadThroughCache loads values with fn on a miss and stores successful
// results. Errors are never cached. Concurrent misses for one key share a
// single load, and a load that overlaps an Invalidate is returned to its
// callers but not stored.
type ReadThroughCache[K comparable, V any, I any] struct {
	cache           CacheManager[K, V]
	fn              func(ctx context.Context, input I) (V, error)
	shouldSkipCache bool

	loads      singleflight.Group
	generation atomic.Uint64
}

func NewReadThroughCache[K comparable, V any, I any](
	cache CacheManager[K, V],
	fn func(ctx context.Context, input I) (V, error),
	shouldSkipCache bool,
) *ReadThroughCache[K, V, I] {
	return &ReadThroughCache[K, V, I]{
		cache:           cache,
		fn:              fn,
		shouldSkipCache: shouldSkipCache,
	}
}

// Get returns the cached value for key or loads it with input.
// hit reports whether the value came from the cache.
func (r *ReadThroughCache[K, V, I]) Get(ctx context.Context, key K, input I, ttl time.Duration) (value V, hit bool, err error) {
	if r.shouldSkipCache {
		value, err = r.fn(ctx, input)
		return value, false, err
	}

	if value, ok := r.cache.Get(ctx, key); ok {
		return value, true, nil
	}

	gen := r.generation.Load()
	flight := fmt.Sprintf("%v#%d", key, gen)
	result, err, shared := r.loads.Do(flight, func() (any, error) {
		loaded, err := r.fn(ctx, input)
		if err != nil {
			return loaded, err
		}
		if r.generation.Load() == gen {
			r.cache.Set(ctx, key, loaded, ttl)
		} else {
			log.Debug(log.CatCache, "discarding load that raced an invalidation", "key", key)
		}
		return loaded, nil
	})
	if shared {
		log.Debug(log.CatCache, "shared in-flight load", "key", key)
	}

	value, _ = result.(V)
	return value, false, err
}

// Invalidate drops key so the next Get reloads it.
func (r *ReadThroughCache[K, V, I]) Invalidate(ctx context.Context, key K) error {
	if r.shouldSkipCache {
		return nil
	}
	r.generation.Add(1)
	return r.cache.Delete(ctx, key)
}
