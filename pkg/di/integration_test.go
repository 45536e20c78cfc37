package di

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/catalogcache"
	"github.com/goliatone/go-catalog-cache/pkg/testsupport"
	"github.com/goliatone/go-catalog-cache/store"
	"github.com/goliatone/go-catalog-cache/store/bunstore"
)

func categoryEvent(id string) store.Event {
	c := catalog.Category{ID: id, Name: "Renamed"}
	return store.Event{Kind: catalog.KindCategory, ID: id, Change: store.ChangeUpdate, Prior: c, Current: c}
}

func newSQLCatalog(t *testing.T) (*bunstore.Store, *testsupport.Catalog, *catalogcache.Service, func()) {
	t.Helper()
	ctx := context.Background()

	st, err := bunstore.Open(ctx, bunstore.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	seed := testsupport.MustSeed(t, st)

	container, err := NewContainerWithDefaults()
	require.NoError(t, err)
	svc, detach := container.Catalog(st)
	t.Cleanup(detach)

	return st, seed, svc, detach
}

func TestCatalogOverSQLStore(t *testing.T) {
	ctx := context.Background()
	st, seed, svc, _ := newSQLCatalog(t)
	phone := seed.Products["Smartphone"]

	detail, err := svc.GetProductDetail(ctx, phone.ID, "DISCOUNT10")
	require.NoError(t, err)
	assert.Equal(t, int64(400000), detail.FinalPrice)
	require.NotNil(t, detail.Category)
	assert.Equal(t, "Electronics", detail.Category.Name)

	page, err := svc.ListProducts(ctx, catalogcache.ProductListParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 4, page.TotalCount)

	phone.Price = 600000
	_, err = st.UpdateProduct(ctx, phone)
	require.NoError(t, err)

	detail, err = svc.GetProductDetail(ctx, phone.ID, "")
	require.NoError(t, err)
	assert.Equal(t, int64(600000), detail.Price)
	assert.Equal(t, int64(540000), detail.FinalPrice)

	_, err = st.CreateProduct(ctx, catalog.Product{
		Name:       "Tablet",
		Price:      300000,
		CategoryID: seed.Categories["Electronics"].ID,
	})
	require.NoError(t, err)

	page, err = svc.ListProducts(ctx, catalogcache.ProductListParams{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 5, page.TotalCount)
}

func TestCatalogDetachStopsInvalidation(t *testing.T) {
	ctx := context.Background()
	st, seed, svc, detach := newSQLCatalog(t)
	misc := seed.Categories["Misc"]

	view, err := svc.GetCategory(ctx, misc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Misc", view.Name)

	detach()

	misc.Name = "Odds and ends"
	_, err = st.UpdateCategory(ctx, misc)
	require.NoError(t, err)

	view, err = svc.GetCategory(ctx, misc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Misc", view.Name, "a detached invalidator leaves the entry in place")
}

func TestCatalogConcurrentReads(t *testing.T) {
	ctx := context.Background()
	st := testsupport.NewMemoryStore()
	seed := testsupport.MustSeed(t, st)

	container, err := NewContainerWithDefaults()
	require.NoError(t, err)
	svc, detach := container.Catalog(st)
	defer detach()

	ids := make([]string, 0, len(seed.Products))
	for _, p := range seed.Products {
		ids = append(ids, p.ID)
	}

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers*len(ids))

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i, id := range ids {
				if _, err := svc.GetProductDetail(ctx, id, ""); err != nil {
					errs <- fmt.Errorf("worker %d detail %s: %w", worker, id, err)
				}
				if _, err := svc.ListProducts(ctx, catalogcache.ProductListParams{Page: 1 + i%2, PageSize: 2}); err != nil {
					errs <- fmt.Errorf("worker %d list: %w", worker, err)
				}
			}
		}(w)
	}

	// a concurrent writer keeps the invalidator busy
	computer := seed.Products["Computer"]
	for i := 0; i < 10; i++ {
		computer.Price += 1000
		_, err := st.UpdateProduct(ctx, computer)
		require.NoError(t, err)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	computer.Price += 1000
	_, err = st.UpdateProduct(ctx, computer)
	require.NoError(t, err)

	detail, err := svc.GetProductDetail(ctx, computer.ID, "")
	require.NoError(t, err)
	assert.Equal(t, computer.Price, detail.Price)
}
