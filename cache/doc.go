// Package cache provides the cache abstraction used by the catalog read layer.
//
// # Overview
//
// This package exports two main interfaces and their default implementations:
//
//   - CacheService: a keyed byte store with two TTL tiers (list and detail)
//   - KeySerializer: builds stable cache keys from a namespace and arguments
//
// Values are opaque to the cache. Read results are encoded with a Codec
// (msgpack by default) before they are stored, which keeps the cache free to
// drop, expire or lose any entry without affecting correctness.
//
// # Basic Usage
//
//	svc, err := cache.NewCacheService(cache.DefaultConfig())
//	f := cache.Fetcher{Service: svc, Codec: cache.NewMsgpackCodec(), Logger: logger}
//
//	key := cache.NewDefaultKeySerializer().SerializeKey("product_detail", id)
//	detail, err := cache.GetOrFetch(ctx, f, key, cache.TierDetail, func(ctx context.Context) (Detail, error) {
//		return loadDetail(ctx, id)
//	})
//
// # Tiers
//
// TierList entries back paginated views and expire after Config.ListTTL.
// TierDetail entries back single entity views and expire after Config.DetailTTL.
// Get consults both tiers, so callers only name a tier when writing.
//
// # Failure Handling
//
// GetOrFetch never returns a cache error. A failed Get, an undecodable entry or
// a failed Set is logged and the call behaves like a miss. There is no
// single-flight: two concurrent misses on the same key both fetch and both set.
//
// # Key Serialization Strategy
//
// The default key serializer uses reflection to handle various Go types:
//
//   - Basic types: direct string representation
//   - fmt.Stringer values: their String() form
//   - Pointers: dereferenced, nil renders as "nil"
//   - Slices/arrays: recursive serialization of elements
//   - Maps: sorted key-value pairs for deterministic output
//   - Structs: exported fields with name:value pairs
//
// SerializePrefix returns the separator-terminated prefix shared by all keys
// that start with the same arguments, which is what prefix eviction needs.
package cache
