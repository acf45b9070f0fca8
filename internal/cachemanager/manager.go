// Package cachemanager provides TTL caching for fetched row blocks. Sources
// that are expensive to query sit behind a ReadThroughCache so that scrolling
// back into a recently visited window does not hit the backend again.
package cachemanager

import (
	"context"
	"time"
)

// CacheManager stores values of one type under string keys with per-entry
// TTLs. Block caches key entries by window geometry ("block:240:30").
type CacheManager[V any] interface {
	Get(ctx context.Context, key string) (V, bool)
	GetWithRefresh(ctx context.Context, key string, ttl time.Duration) (V, bool)
	Set(ctx context.Context, key string, value V, ttl time.Duration)
	Delete(ctx context.Context, keys ...string) error
	Flush(ctx context.Context) error
}
