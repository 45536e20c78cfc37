// Package memory is an in-process Entity Store backed by concurrent maps.
// Reads are lock free; writes are serialized so events leave in write order.
package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/internal/clock"
	"github.com/goliatone/go-catalog-cache/store"
)

var _ store.Store = (*Store)(nil)

// Store keeps every entity in memory.
type Store struct {
	mu     sync.Mutex
	clock  clock.Clock
	newID  func() string
	events store.Dispatcher

	categories *xsync.MapOf[string, catalog.Category]
	products   *xsync.MapOf[string, catalog.Product]
	coupons    *xsync.MapOf[string, catalog.Coupon]
	links      *xsync.MapOf[catalog.ProductCoupon, struct{}]
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for CreatedAt and UploadedAt stamps.
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithIDGenerator replaces the uuid based id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		clock:      clock.RealClock{},
		newID:      uuid.NewString,
		categories: xsync.NewMapOf[string, catalog.Category](),
		products:   xsync.NewMapOf[string, catalog.Product](),
		coupons:    xsync.NewMapOf[string, catalog.Coupon](),
		links:      xsync.NewMapOf[catalog.ProductCoupon, struct{}](),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers a listener for mutation events.
func (s *Store) Subscribe(l store.Listener) func() {
	return s.events.Subscribe(l)
}

func (s *Store) GetCategory(ctx context.Context, id string) (catalog.Category, error) {
	c, ok := s.categories.Load(id)
	if !ok {
		return catalog.Category{}, catalog.NotFound(catalog.KindCategory, id)
	}
	return c, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	out := make([]catalog.Category, 0, s.categories.Size())
	s.categories.Range(func(_ string, c catalog.Category) bool {
		out = append(out, c)
		return true
	})
	slices.SortFunc(out, func(a, b catalog.Category) int {
		return cmp.Or(strings.Compare(a.Name, b.Name), strings.Compare(a.ID, b.ID))
	})
	return out, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	p, ok := s.products.Load(id)
	if !ok {
		return catalog.Product{}, catalog.NotFound(catalog.KindProduct, id)
	}
	return p, nil
}

func (s *Store) ListProducts(ctx context.Context, filter store.ProductFilter, sort store.Sort, offset, limit int) ([]catalog.Product, int, error) {
	if err := store.CheckSort(sort.Field, store.ProductSortFields); err != nil {
		return nil, 0, err
	}

	var items []catalog.Product
	s.products.Range(func(_ string, p catalog.Product) bool {
		if filter.CategoryID == nil || p.CategoryID == *filter.CategoryID {
			items = append(items, p)
		}
		return true
	})

	slices.SortFunc(items, directed(sort.Ascending, func(a, b catalog.Product) int {
		var c int
		switch sort.Field {
		case store.SortName:
			c = strings.Compare(a.Name, b.Name)
		case store.SortCategory:
			c = strings.Compare(a.CategoryID, b.CategoryID)
		case store.SortPrice:
			c = cmp.Compare(a.Price, b.Price)
		case store.SortCreatedAt:
			c = a.CreatedAt.Compare(b.CreatedAt)
		}
		return cmp.Or(c, strings.Compare(a.ID, b.ID))
	}))

	return paginate(items, offset, limit), len(items), nil
}

func (s *Store) FindCoupon(ctx context.Context, code string, activeOnly bool) (catalog.Coupon, error) {
	var found *catalog.Coupon
	s.coupons.Range(func(_ string, c catalog.Coupon) bool {
		if c.Code == code {
			found = &c
			return false
		}
		return true
	})
	if found == nil || (activeOnly && !found.Active) {
		return catalog.Coupon{}, catalog.NotFound(catalog.KindCoupon, code)
	}
	return *found, nil
}

func (s *Store) ListCoupons(ctx context.Context, filter store.CouponFilter, sort store.Sort, offset, limit int) ([]catalog.Coupon, int, error) {
	if err := store.CheckSort(sort.Field, store.CouponSortFields); err != nil {
		return nil, 0, err
	}

	var items []catalog.Coupon
	s.coupons.Range(func(_ string, c catalog.Coupon) bool {
		if !filter.ActiveOnly || c.Active {
			items = append(items, c)
		}
		return true
	})

	slices.SortFunc(items, directed(sort.Ascending, couponOrder(sort.Field)))

	return paginate(items, offset, limit), len(items), nil
}

func (s *Store) ListProductCoupons(ctx context.Context, productID string, activeOnly bool) ([]catalog.Coupon, error) {
	var items []catalog.Coupon
	s.links.Range(func(l catalog.ProductCoupon, _ struct{}) bool {
		if l.ProductID != productID {
			return true
		}
		if c, ok := s.coupons.Load(l.CouponID); ok && (!activeOnly || c.Active) {
			items = append(items, c)
		}
		return true
	})
	slices.SortFunc(items, directed(false, couponOrder(store.SortUploadedAt)))
	return items, nil
}

func (s *Store) HasProductCoupon(ctx context.Context, productID, couponID string) (bool, error) {
	_, ok := s.links.Load(catalog.ProductCoupon{ProductID: productID, CouponID: couponID})
	return ok, nil
}

func couponOrder(field string) func(a, b catalog.Coupon) int {
	return func(a, b catalog.Coupon) int {
		var c int
		switch field {
		case store.SortCode:
			c = strings.Compare(a.Code, b.Code)
		case store.SortDiscountRate:
			c = cmp.Compare(a.DiscountRate, b.DiscountRate)
		case store.SortUploadedAt:
			c = a.UploadedAt.Compare(b.UploadedAt)
		}
		return cmp.Or(c, strings.Compare(a.ID, b.ID))
	}
}

func directed[T any](ascending bool, less func(a, b T) int) func(a, b T) int {
	if ascending {
		return less
	}
	return func(a, b T) int { return less(b, a) }
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[max(offset, 0):]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
