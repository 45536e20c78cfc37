package catalogcache

import (
	"context"
	"slices"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/store"
)

// KeyTemplate renders the cache keys, or key prefixes when Prefix is set, that
// an event makes stale.
type KeyTemplate struct {
	Name   string
	Prefix bool
	Render func(k Keys, ev store.Event) []string
}

// Dependencies maps an entity kind to the templates evicted when an entity of
// that kind changes.
type Dependencies map[catalog.EntityKind][]KeyTemplate

// DefaultDependencies is the table used by NewInvalidator.
//
// Product writes evict the product's detail and available coupons, the
// unfiltered lists and the lists of both the category it is in and the one it
// was in before the write. Category writes evict the category, the category
// list, the unfiltered lists and the lists scoped to it. Product payloads embed
// their category name, so category writes also evict every product detail.
// Coupon writes evict coupon lists and every available coupons aggregate. Link
// changes evict the linked product's available coupons.
func DefaultDependencies() Dependencies {
	return Dependencies{
		catalog.KindProduct: {
			{Name: "product_detail", Render: func(k Keys, ev store.Event) []string {
				return []string{k.ProductDetail(ev.ID)}
			}},
			{Name: "available_coupons", Render: func(k Keys, ev store.Event) []string {
				return []string{k.AvailableCoupons(ev.ID)}
			}},
			{Name: "product_list", Prefix: true, Render: func(k Keys, ev store.Event) []string {
				return []string{k.ProductListPrefix(nil)}
			}},
			{Name: "category_product_list", Prefix: true, Render: func(k Keys, ev store.Event) []string {
				var out []string
				for _, id := range productCategories(ev) {
					out = append(out, k.ProductListPrefix(&id))
				}
				return out
			}},
		},
		catalog.KindCategory: {
			{Name: "category", Render: func(k Keys, ev store.Event) []string {
				return []string{k.Category(ev.ID)}
			}},
			{Name: "category_list", Render: func(k Keys, ev store.Event) []string {
				return []string{k.CategoryList()}
			}},
			{Name: "product_list", Prefix: true, Render: func(k Keys, ev store.Event) []string {
				return []string{k.ProductListPrefix(nil)}
			}},
			{Name: "category_product_list", Prefix: true, Render: func(k Keys, ev store.Event) []string {
				id := ev.ID
				return []string{k.ProductListPrefix(&id)}
			}},
			{Name: "product_detail", Prefix: true, Render: func(k Keys, ev store.Event) []string {
				return []string{k.ProductDetailPrefix()}
			}},
		},
		catalog.KindCoupon: {
			{Name: "coupon_list", Prefix: true, Render: func(k Keys, ev store.Event) []string {
				return []string{k.CouponListPrefix()}
			}},
			{Name: "available_coupons", Prefix: true, Render: func(k Keys, ev store.Event) []string {
				return []string{k.AvailableCouponsPrefix()}
			}},
		},
		catalog.KindProductCoupon: {
			{Name: "available_coupons", Render: func(k Keys, ev store.Event) []string {
				if link, ok := ev.Link(); ok {
					return []string{k.AvailableCoupons(link.ProductID)}
				}
				return []string{k.AvailableCoupons(ev.ID)}
			}},
		},
	}
}

// productCategories returns the categories a product event touches: the one
// the product is in now and, on reassignment, the one it left.
func productCategories(ev store.Event) []string {
	prior, current := ev.Products()
	var ids []string
	if current != nil {
		ids = append(ids, current.CategoryID)
	}
	if prior != nil && !slices.Contains(ids, prior.CategoryID) {
		ids = append(ids, prior.CategoryID)
	}
	return ids
}

// Invalidator evicts cached views when the store reports a write. It is a
// store.Listener. Eviction failures are logged and never reach the writer.
type Invalidator struct {
	cache  cache.CacheService
	keys   Keys
	deps   Dependencies
	logger zerolog.Logger
}

var _ store.Listener = (*Invalidator)(nil)

// InvalidatorOption configures an Invalidator.
type InvalidatorOption func(*Invalidator)

// WithInvalidatorLogger sets the logger for eviction failures.
func WithInvalidatorLogger(logger zerolog.Logger) InvalidatorOption {
	return func(i *Invalidator) { i.logger = logger }
}

// WithDependencies replaces the default dependency table.
func WithDependencies(deps Dependencies) InvalidatorOption {
	return func(i *Invalidator) { i.deps = deps }
}

// NewInvalidator returns an Invalidator evicting from cacheSvc. serializer
// must be the one the Service builds its keys with.
func NewInvalidator(cacheSvc cache.CacheService, serializer cache.KeySerializer, opts ...InvalidatorOption) *Invalidator {
	i := &Invalidator{
		cache:  cacheSvc,
		keys:   NewKeys(serializer),
		deps:   DefaultDependencies(),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Targets returns the exact keys and the key prefixes ev makes stale.
func (i *Invalidator) Targets(ev store.Event) (keys, prefixes []string) {
	for _, tmpl := range i.deps[ev.Kind] {
		for _, key := range tmpl.Render(i.keys, ev) {
			if tmpl.Prefix {
				prefixes = appendUnique(prefixes, key)
			} else {
				keys = appendUnique(keys, key)
			}
		}
	}
	return keys, prefixes
}

// HandleEvent evicts everything ev makes stale.
func (i *Invalidator) HandleEvent(ctx context.Context, ev store.Event) {
	keys, prefixes := i.Targets(ev)
	if len(keys) == 0 && len(prefixes) == 0 {
		return
	}

	if len(keys) > 0 {
		if err := i.cache.InvalidateKeys(ctx, keys); err != nil {
			i.logger.Warn().Err(err).Strs("keys", keys).Str("kind", string(ev.Kind)).Msg("cache eviction failed")
		}
	}
	for _, prefix := range prefixes {
		if err := i.cache.DeleteByPrefix(ctx, prefix); err != nil {
			i.logger.Warn().Err(err).Str("prefix", prefix).Str("kind", string(ev.Kind)).Msg("cache prefix eviction failed")
		}
	}

	i.logger.Debug().
		Str("kind", string(ev.Kind)).
		Str("id", ev.ID).
		Str("change", string(ev.Change)).
		Int("keys", len(keys)).
		Int("prefixes", len(prefixes)).
		Msg("cache invalidated")
}

func appendUnique(list []string, s string) []string {
	if slices.Contains(list, s) {
		return list
	}
	return append(list, s)
}
