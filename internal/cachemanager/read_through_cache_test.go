package cachemanager

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type pattern string

func (p pattern) CacheKey() string { return "p:" + string(p) }

func countingBuilder(calls *int) func(ctx context.Context, input pattern) (string, error) {
	return func(_ context.Context, input pattern) (string, error) {
		*calls++
		if input == "" {
			return "", errors.New("empty pattern")
		}
		return "compiled:" + string(input), nil
	}
}

func TestReadThroughCache_Get_CachesResult(t *testing.T) {
	calls := 0
	rt := NewReadThroughCache[pattern, string](
		NewInMemoryCacheManager[string]("masks", DefaultExpiration, DefaultCleanupInterval),
		countingBuilder(&calls),
		NoExpiration,
	)

	for i := 0; i < 3; i++ {
		got, err := rt.Get(context.Background(), pattern("*.sh"))
		require.NoError(t, err)
		require.Equal(t, "compiled:*.sh", got)
	}
	require.Equal(t, 1, calls)
}

func TestReadThroughCache_ErrorsAreNotCached(t *testing.T) {
	calls := 0
	cache := NewInMemoryCacheManager[string]("masks", DefaultExpiration, DefaultCleanupInterval)
	rt := NewReadThroughCache[pattern, string](cache, countingBuilder(&calls), NoExpiration)

	_, err := rt.Get(context.Background(), pattern(""))
	require.Error(t, err)
	_, err = rt.Get(context.Background(), pattern(""))
	require.Error(t, err)

	require.Equal(t, 2, calls)
	require.Equal(t, 0, cache.Len())
}
