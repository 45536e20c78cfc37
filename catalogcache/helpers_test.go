package catalogcache

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/pkg/testsupport"
	"github.com/goliatone/go-catalog-cache/store"
	"github.com/goliatone/go-catalog-cache/store/memory"
)

// countingReader counts the store queries the service falls through to.
type countingReader struct {
	store.Reader

	mu           sync.Mutex
	listProducts int
	getProduct   int
	listCoupons  int
	productLinks int
}

func (r *countingReader) ListProducts(ctx context.Context, filter store.ProductFilter, sort store.Sort, offset, limit int) ([]catalog.Product, int, error) {
	r.mu.Lock()
	r.listProducts++
	r.mu.Unlock()
	return r.Reader.ListProducts(ctx, filter, sort, offset, limit)
}

func (r *countingReader) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	r.mu.Lock()
	r.getProduct++
	r.mu.Unlock()
	return r.Reader.GetProduct(ctx, id)
}

func (r *countingReader) ListCoupons(ctx context.Context, filter store.CouponFilter, sort store.Sort, offset, limit int) ([]catalog.Coupon, int, error) {
	r.mu.Lock()
	r.listCoupons++
	r.mu.Unlock()
	return r.Reader.ListCoupons(ctx, filter, sort, offset, limit)
}

func (r *countingReader) ListProductCoupons(ctx context.Context, productID string, activeOnly bool) ([]catalog.Coupon, error) {
	r.mu.Lock()
	r.productLinks++
	r.mu.Unlock()
	return r.Reader.ListProductCoupons(ctx, productID, activeOnly)
}

func (r *countingReader) counts() (listProducts, getProduct, listCoupons, productLinks int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listProducts, r.getProduct, r.listCoupons, r.productLinks
}

var errCacheDown = errors.New("cache unreachable")

// downCache fails every operation.
type downCache struct{}

func (downCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, errCacheDown
}

func (downCache) Set(ctx context.Context, key string, value []byte, tier cache.Tier) error {
	return errCacheDown
}

func (downCache) Delete(ctx context.Context, key string) error { return errCacheDown }

func (downCache) DeleteByPrefix(ctx context.Context, prefix string) error { return errCacheDown }

func (downCache) InvalidateKeys(ctx context.Context, keys []string) error { return errCacheDown }

type env struct {
	ctx    context.Context
	store  *memory.Store
	reader *countingReader
	cache  cache.CacheService
	svc    *Service
	seed   *testsupport.Catalog
}

func newEnv(t *testing.T, opts ...Option) *env {
	t.Helper()

	st := testsupport.NewMemoryStore()
	seed := testsupport.MustSeed(t, st)

	cacheSvc, err := cache.NewCacheService(cache.DefaultConfig())
	require.NoError(t, err)

	serializer := cache.NewDefaultKeySerializer()
	reader := &countingReader{Reader: st}
	unsubscribe := st.Subscribe(NewInvalidator(cacheSvc, serializer))
	t.Cleanup(unsubscribe)

	return &env{
		ctx:    context.Background(),
		store:  st,
		reader: reader,
		cache:  cacheSvc,
		svc:    NewService(reader, cacheSvc, serializer, opts...),
		seed:   seed,
	}
}

func (e *env) cached(t *testing.T, key string) bool {
	t.Helper()
	_, ok, err := e.cache.Get(e.ctx, key)
	require.NoError(t, err)
	return ok
}

func (e *env) product(name string) catalog.Product {
	return e.seed.Products[name]
}

func (e *env) coupon(code string) catalog.Coupon {
	return e.seed.Coupons[code]
}

func names(items []ProductView) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.Name
	}
	return out
}

func codes(items []CouponView) []string {
	out := make([]string, len(items))
	for i, c := range items {
		out[i] = c.Code
	}
	return out
}
