// Package catalogcache serves cached, paginated views of the catalog and
// keeps them coherent with the Entity Store.
//
// A Service answers list and detail queries read-through: results are looked
// up in a cache.CacheService, rebuilt from a store.Reader on a miss and
// stored under a key derived from the full query. List views go to the short
// TTL tier and single entity views to the long one.
//
// An Invalidator subscribes to the store's mutation events and evicts every
// key a write may have made stale. Which keys an entity kind touches is
// declared in a Dependencies table, so fan-out across entity kinds (a product
// write touching category scoped lists, a category write touching product
// lists) lives in one place:
//
//	svc := catalogcache.NewService(st, cacheSvc, serializer)
//	inv := catalogcache.NewInvalidator(cacheSvc, serializer)
//	unsubscribe := st.Subscribe(inv)
//	defer unsubscribe()
//
// Eviction is broad on purpose: deleting a live key only costs a refetch.
//
// The product detail key does not include the coupon code. The first price
// resolved for a product is served to later requests until the entry expires
// or a write evicts it, even when they carry a different coupon. The coupon
// itself is still checked on every request.
package catalogcache
