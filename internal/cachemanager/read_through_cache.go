package cachemanager

import (
	"context"
	"time"
)

// Keyed is an input that knows the cache key of the value built from it.
type Keyed interface {
	CacheKey() string
}

// ReadThroughCache builds values from their inputs on a miss and keeps
// successful results for ttl. Errors are never cached.
type ReadThroughCache[I Keyed, V any] struct {
	cache  CacheManager[string, V]
	build  func(ctx context.Context, input I) (V, error)
	ttl    time.Duration
}

func NewReadThroughCache[I Keyed, V any](
	cache CacheManager[string, V],
	build func(ctx context.Context, input I) (V, error),
	ttl time.Duration,
) *ReadThroughCache[I, V] {
	return &ReadThroughCache[I, V]{cache: cache, build: build, ttl: ttl}
}

// Get returns the cached value for input, building it on a miss. A hit
// refreshes the entry's ttl.
func (r *ReadThroughCache[I, V]) Get(ctx context.Context, input I) (V, error) {
	key := input.CacheKey()
	if value, ok := r.cache.GetWithRefresh(ctx, key, r.ttl); ok {
		return value, nil
	}

	value, err := r.build(ctx, input)
	if err != nil {
		return value, err
	}
	r.cache.Set(ctx, key, value, r.ttl)
	return value, nil
}
