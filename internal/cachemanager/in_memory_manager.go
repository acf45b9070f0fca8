package cachemanager

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/windrow/internal/log"
)

// Defaults for block caches. Expiration is generous because an invalidation
// event flushes the whole cache long before entries age out.
const (
	DefaultExpiration      = 10 * time.Minute
	DefaultCleanupInterval = 30 * time.Minute
)

// InMemoryCacheManager implements CacheManager on an expiring in-process map.
type InMemoryCacheManager[V any] struct {
	useCase string
	cache   *gocache.Cache
}

// NewInMemoryCacheManager initializes the in-memory cache. The useCase label
// identifies this cache in log output when several caches coexist.
func NewInMemoryCacheManager[V any](useCase string, defaultExpiration, cleanupInterval time.Duration) *InMemoryCacheManager[V] {
	return &InMemoryCacheManager[V]{
		useCase: useCase,
		cache:   gocache.New(defaultExpiration, cleanupInterval),
	}
}

// Get retrieves the value stored under key, if any.
func (c *InMemoryCacheManager[V]) Get(ctx context.Context, key string) (V, bool) {
	var zero V
	raw, found := c.cache.Get(key)
	if !found {
		return zero, false
	}
	// go-cache stores interface{}, so a key collision across caches of
	// different element types would surface here.
	value, ok := raw.(V)
	if !ok {
		log.Error(log.CatCache, "cached value has wrong type", "useCase", c.useCase, "key", key)
		return zero, false
	}
	log.Debug(log.CatCache, "cache hit", "useCase", c.useCase, "key", key)
	return value, true
}

// GetWithRefresh retrieves an item and, when found, re-stores it so its ttl
// restarts from now.
func (c *InMemoryCacheManager[V]) GetWithRefresh(ctx context.Context, key string, ttl time.Duration) (V, bool) {
	value, found := c.Get(ctx, key)
	if found {
		c.Set(ctx, key, value, ttl)
	}
	return value, found
}

// Set stores value under key for ttl.
func (c *InMemoryCacheManager[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) {
	c.cache.Set(key, value, ttl)
}

// Delete removes the given keys. Missing keys are not an error.
func (c *InMemoryCacheManager[V]) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		c.cache.Delete(key)
	}
	return nil
}

// Flush drops every entry. Sources call this when their backing data changed
// and all cached blocks are stale at once.
func (c *InMemoryCacheManager[V]) Flush(ctx context.Context) error {
	c.cache.Flush()
	return nil
}
