// Package httptransport exposes the catalog over HTTP with chi. It parses and
// validates query parameters, maps domain errors to status codes and forwards
// admin writes to the Entity Store.
package httptransport

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-catalog-cache/catalogcache"
	"github.com/goliatone/go-catalog-cache/store"
)

// Reads is the read side served under the public routes.
type Reads interface {
	ListProducts(ctx context.Context, params catalogcache.ProductListParams) (catalogcache.Page[catalogcache.ProductView], error)
	GetProductDetail(ctx context.Context, productID, couponCode string) (catalogcache.ProductDetail, error)
	ListAvailableCoupons(ctx context.Context, productID string) ([]catalogcache.CouponView, error)
	ListCoupons(ctx context.Context, params catalogcache.CouponListParams) (catalogcache.Page[catalogcache.CouponView], error)
	GetCategory(ctx context.Context, id string) (catalogcache.CategoryView, error)
	ListCategories(ctx context.Context) ([]catalogcache.CategoryView, error)
}

var _ Reads = (*catalogcache.Service)(nil)

// DefaultPageSize is used when a list request has no page_size.
const DefaultPageSize = 10

// Handler serves the catalog routes.
type Handler struct {
	reads           Reads
	writes          store.Writer
	logger          zerolog.Logger
	defaultPageSize int
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the access and error logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(h *Handler) { h.logger = logger }
}

// WithDefaultPageSize sets the page size used when a request omits it.
func WithDefaultPageSize(n int) Option {
	return func(h *Handler) { h.defaultPageSize = n }
}

// NewHandler returns a Handler. writes may be nil, in which case the admin
// routes are not mounted.
func NewHandler(reads Reads, writes store.Writer, opts ...Option) *Handler {
	h := &Handler{
		reads:           reads,
		writes:          writes,
		logger:          zerolog.Nop(),
		defaultPageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes builds the router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(AccessLog(h.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Get("/{id}", h.getProduct)
		r.Get("/{id}/coupons", h.listAvailableCoupons)
	})
	r.Get("/coupons", h.listCoupons)
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.listCategories)
		r.Get("/{id}", h.getCategory)
	})

	if h.writes != nil {
		r.Route("/admin", func(r chi.Router) {
			r.Post("/categories", h.createCategory)
			r.Put("/categories/{id}", h.updateCategory)
			r.Delete("/categories/{id}", h.deleteCategory)

			r.Post("/products", h.createProduct)
			r.Put("/products/{id}", h.updateProduct)
			r.Delete("/products/{id}", h.deleteProduct)
			r.Post("/products/{id}/coupons/{couponID}", h.linkCoupon)
			r.Delete("/products/{id}/coupons/{couponID}", h.unlinkCoupon)

			r.Post("/coupons", h.createCoupon)
			r.Put("/coupons/{id}", h.updateCoupon)
			r.Delete("/coupons/{id}", h.deleteCoupon)
		})
	}

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
