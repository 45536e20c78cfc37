package catalogcache

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/store"
)

// Defaults for list queries.
const (
	DefaultMaxPageSize = 100
)

// ProductListParams selects one page of products. A nil CategoryID lists every
// category. An empty SortField sorts by creation time.
type ProductListParams struct {
	CategoryID *string
	Page       int
	PageSize   int
	SortField  string
	Ascending  bool
}

// CouponListParams selects one page of coupons. An empty SortField sorts by
// upload time.
type CouponListParams struct {
	IncludeInactive bool
	Page            int
	PageSize        int
	SortField       string
	Ascending       bool
}

// Service is the cache-backed read side of the catalog.
type Service struct {
	store           store.Reader
	fetcher         cache.Fetcher
	keys            Keys
	logger          zerolog.Logger
	maxPageSize     int
	restrictCoupons bool
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for cache degradation warnings.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithCodec replaces the msgpack codec used for cached values.
func WithCodec(codec cache.Codec) Option {
	return func(s *Service) { s.fetcher.Codec = codec }
}

// WithMaxPageSize sets the page size ceiling. Larger requests are clamped.
func WithMaxPageSize(n int) Option {
	return func(s *Service) { s.maxPageSize = n }
}

// WithCouponRestriction controls whether a coupon must be linked to a product
// to be applied to it. When off any active coupon code is accepted.
func WithCouponRestriction(restrict bool) Option {
	return func(s *Service) { s.restrictCoupons = restrict }
}

// NewService returns a Service reading from reader through cacheSvc.
func NewService(reader store.Reader, cacheSvc cache.CacheService, serializer cache.KeySerializer, opts ...Option) *Service {
	s := &Service{
		store:           reader,
		keys:            NewKeys(serializer),
		logger:          zerolog.Nop(),
		maxPageSize:     DefaultMaxPageSize,
		restrictCoupons: true,
		fetcher: cache.Fetcher{
			Service: cacheSvc,
			Codec:   cache.NewMsgpackCodec(),
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.fetcher.Logger = s.logger
	return s
}

// Keys returns the key builder the service caches under.
func (s *Service) Keys() Keys {
	return s.keys
}

// ListProducts returns one page of products, sorted and optionally filtered
// by category.
func (s *Service) ListProducts(ctx context.Context, params ProductListParams) (Page[ProductView], error) {
	sort, err := resolveSort(params.SortField, params.Ascending, store.SortCreatedAt, store.ProductSortFields)
	if err != nil {
		return Page[ProductView]{}, err
	}
	req, err := newPageRequest(params.Page, params.PageSize, s.maxPageSize)
	if err != nil {
		return Page[ProductView]{}, err
	}

	key := s.keys.ProductList(params.CategoryID, req, sort)
	page, err := cache.GetOrFetch(ctx, s.fetcher, key, cache.TierList, func(ctx context.Context) (Page[ProductView], error) {
		filter := store.ProductFilter{CategoryID: params.CategoryID}
		products, total, err := s.store.ListProducts(ctx, filter, sort, req.offset(), req.size)
		if err != nil {
			return Page[ProductView]{}, err
		}

		categories := s.categoryResolver()
		items := make([]ProductView, len(products))
		for i, p := range products {
			category, err := categories(ctx, p.CategoryID)
			if err != nil {
				return Page[ProductView]{}, err
			}
			items[i] = newProductView(p, category)
		}
		return newPage(items, total, req), nil
	})
	if err != nil {
		return Page[ProductView]{}, err
	}
	return withItems(page), nil
}

// GetProductDetail returns a product with its final price. When couponCode is
// set and the product accepts coupons the code must name a usable coupon, or
// a NotFound error for the coupon is returned. Codes on products that do not
// accept coupons are ignored.
func (s *Service) GetProductDetail(ctx context.Context, productID, couponCode string) (ProductDetail, error) {
	fetched := false
	detail, err := cache.GetOrFetch(ctx, s.fetcher, s.keys.ProductDetail(productID), cache.TierDetail, func(ctx context.Context) (ProductDetail, error) {
		fetched = true

		p, err := s.store.GetProduct(ctx, productID)
		if err != nil {
			return ProductDetail{}, err
		}
		coupon, err := s.resolveCoupon(ctx, p.ID, p.CouponApplicable, couponCode)
		if err != nil {
			return ProductDetail{}, err
		}
		category, err := s.categoryResolver()(ctx, p.CategoryID)
		if err != nil {
			return ProductDetail{}, err
		}

		return ProductDetail{
			ProductView:         newProductView(p, category),
			FinalPrice:          catalog.ResolvePrice(p, coupon),
			AppliedDiscountRate: catalog.EffectiveDiscount(p, coupon),
		}, nil
	})
	if err != nil {
		return ProductDetail{}, err
	}

	// A cached detail keeps the price it was first resolved with, but an
	// unusable code is still an error.
	if !fetched {
		if _, err := s.resolveCoupon(ctx, detail.ID, detail.CouponApplicable, couponCode); err != nil {
			return ProductDetail{}, err
		}
	}
	return detail, nil
}

// ListAvailableCoupons returns the active coupons linked to a product, or an
// empty list when the product does not accept coupons.
func (s *Service) ListAvailableCoupons(ctx context.Context, productID string) ([]CouponView, error) {
	coupons, err := cache.GetOrFetch(ctx, s.fetcher, s.keys.AvailableCoupons(productID), cache.TierList, func(ctx context.Context) ([]CouponView, error) {
		p, err := s.store.GetProduct(ctx, productID)
		if err != nil {
			return nil, err
		}
		if !p.CouponApplicable {
			return []CouponView{}, nil
		}
		linked, err := s.store.ListProductCoupons(ctx, p.ID, true)
		if err != nil {
			return nil, err
		}
		return couponViews(linked), nil
	})
	if err != nil {
		return nil, err
	}
	if coupons == nil {
		coupons = []CouponView{}
	}
	return coupons, nil
}

// ListCoupons returns one page of coupons. Inactive coupons are skipped
// unless IncludeInactive is set.
func (s *Service) ListCoupons(ctx context.Context, params CouponListParams) (Page[CouponView], error) {
	sort, err := resolveSort(params.SortField, params.Ascending, store.SortUploadedAt, store.CouponSortFields)
	if err != nil {
		return Page[CouponView]{}, err
	}
	req, err := newPageRequest(params.Page, params.PageSize, s.maxPageSize)
	if err != nil {
		return Page[CouponView]{}, err
	}

	key := s.keys.CouponList(params.IncludeInactive, req, sort)
	page, err := cache.GetOrFetch(ctx, s.fetcher, key, cache.TierList, func(ctx context.Context) (Page[CouponView], error) {
		filter := store.CouponFilter{ActiveOnly: !params.IncludeInactive}
		coupons, total, err := s.store.ListCoupons(ctx, filter, sort, req.offset(), req.size)
		if err != nil {
			return Page[CouponView]{}, err
		}
		return newPage(couponViews(coupons), total, req), nil
	})
	if err != nil {
		return Page[CouponView]{}, err
	}
	return withItems(page), nil
}

// GetCategory returns a single category.
func (s *Service) GetCategory(ctx context.Context, id string) (CategoryView, error) {
	return cache.GetOrFetch(ctx, s.fetcher, s.keys.Category(id), cache.TierDetail, func(ctx context.Context) (CategoryView, error) {
		c, err := s.store.GetCategory(ctx, id)
		if err != nil {
			return CategoryView{}, err
		}
		return newCategoryView(c), nil
	})
}

// ListCategories returns every category ordered by name.
func (s *Service) ListCategories(ctx context.Context) ([]CategoryView, error) {
	views, err := cache.GetOrFetch(ctx, s.fetcher, s.keys.CategoryList(), cache.TierList, func(ctx context.Context) ([]CategoryView, error) {
		categories, err := s.store.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]CategoryView, len(categories))
		for i, c := range categories {
			out[i] = newCategoryView(c)
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	if views == nil {
		views = []CategoryView{}
	}
	return views, nil
}

// resolveCoupon returns the coupon to price a product with, or nil when no
// coupon applies.
func (s *Service) resolveCoupon(ctx context.Context, productID string, applicable bool, code string) (*catalog.Coupon, error) {
	if code == "" || !applicable {
		return nil, nil
	}

	coupon, err := s.store.FindCoupon(ctx, code, true)
	if err != nil {
		return nil, err
	}
	if s.restrictCoupons {
		linked, err := s.store.HasProductCoupon(ctx, productID, coupon.ID)
		if err != nil {
			return nil, err
		}
		if !linked {
			return nil, catalog.NotFound(catalog.KindCoupon, code)
		}
	}
	return &coupon, nil
}

// categoryResolver returns a lookup that reads each category from the store
// once. Categories that no longer resolve render as nil.
func (s *Service) categoryResolver() func(ctx context.Context, id string) (*CategoryView, error) {
	seen := make(map[string]*CategoryView)
	return func(ctx context.Context, id string) (*CategoryView, error) {
		if v, ok := seen[id]; ok {
			return v, nil
		}
		c, err := s.store.GetCategory(ctx, id)
		switch {
		case catalog.IsNotFound(err):
			seen[id] = nil
			return nil, nil
		case err != nil:
			return nil, err
		}
		v := newCategoryView(c)
		seen[id] = &v
		return &v, nil
	}
}

// withItems restores an empty item list dropped by the codec.
func withItems[T any](p Page[T]) Page[T] {
	if p.Items == nil {
		p.Items = []T{}
	}
	return p
}
