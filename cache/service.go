package cache

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-catalog-cache/internal/cacheinfra"
)

// Tier selects the TTL class an entry is stored under.
type Tier = cacheinfra.Tier

const (
	// TierList holds list views. Entries expire quickly and are cheap to rebuild.
	TierList = cacheinfra.TierList
	// TierDetail holds single entity views and lives longer.
	TierDetail = cacheinfra.TierDetail
)

// KeySerializer builds a cache key from a namespace + arbitrary args.
// It is responsible for producing stable keys across calls.
type KeySerializer interface {
	SerializeKey(namespace string, args ...any) string
	// SerializePrefix returns the key prefix shared by every key whose leading
	// args match, terminated by KeySeparator so "a::1" never matches "a::10".
	SerializePrefix(namespace string, args ...any) string
}

// FetchFn is the function signature GetOrFetch expects when loading from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// CacheService is a keyed byte store with TTL tiers. Absent and expired keys
// are both reported as a miss. Delete of an absent key is not an error.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, tier Tier) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	InvalidateKeys(ctx context.Context, keys []string) error
}

// Fetcher bundles what GetOrFetch needs besides the key.
type Fetcher struct {
	Service CacheService
	Codec   Codec
	Logger  zerolog.Logger
}

// GetOrFetch is a type-safe read-through helper. Cache and codec failures are
// logged and handled as a miss so the source of truth is always consulted when
// the cache cannot answer. Concurrent misses on one key may all fetch and set.
func GetOrFetch[T any](ctx context.Context, f Fetcher, key string, tier Tier, fetchFn FetchFn[T]) (T, error) {
	raw, ok, err := f.Service.Get(ctx, key)
	switch {
	case err != nil:
		f.Logger.Warn().Err(err).Str("key", key).Msg("cache get failed, falling through")
	case ok:
		var cached T
		decodeErr := f.Codec.Unmarshal(raw, &cached)
		if decodeErr == nil {
			return cached, nil
		}
		f.Logger.Warn().Err(decodeErr).Str("key", key).Msg("cache entry undecodable, refetching")
	}

	result, err := fetchFn(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	raw, err = f.Codec.Marshal(result)
	if err != nil {
		f.Logger.Warn().Err(err).Str("key", key).Msg("cache encode failed, skipping set")
		return result, nil
	}
	if err := f.Service.Set(ctx, key, raw, tier); err != nil {
		f.Logger.Warn().Err(err).Str("key", key).Stringer("tier", tier).Msg("cache set failed")
	}

	return result, nil
}
