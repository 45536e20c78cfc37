// Package store defines the Entity Store contract consumed by the catalog read
// layer: lookups, filtered and paginated listings, admin writes, and the
// ordered mutation events emitted after every successful write.
package store

import (
	"context"

	"github.com/goliatone/go-catalog-cache/catalog"
)

// Sortable fields per entity kind.
const (
	SortName      = "name"
	SortCategory  = "category"
	SortPrice     = "price"
	SortCreatedAt = "created_at"

	SortCode         = "code"
	SortDiscountRate = "discount_rate"
	SortUploadedAt   = "uploaded_at"
)

// ProductSortFields lists the fields products may be ordered by.
var ProductSortFields = []string{SortName, SortCategory, SortPrice, SortCreatedAt}

// CouponSortFields lists the fields coupons may be ordered by.
var CouponSortFields = []string{SortCode, SortDiscountRate, SortUploadedAt}

// Sort orders a listing. Ties are broken by id in the same direction.
type Sort struct {
	Field     string
	Ascending bool
}

// ProductFilter narrows a product listing. A nil CategoryID lists every product.
type ProductFilter struct {
	CategoryID *string
}

// CouponFilter narrows a coupon listing.
type CouponFilter struct {
	ActiveOnly bool
}

// CheckSort returns an InvalidArgument error when field is not in allowed.
func CheckSort(field string, allowed []string) error {
	for _, f := range allowed {
		if f == field {
			return nil
		}
	}
	return catalog.InvalidArgument("sort", "unsupported sort field "+field)
}

// Reader is the read side of the Entity Store.
// Listings return the page of items plus the total count before pagination.
// A limit of zero or less returns every item from offset on.
type Reader interface {
	GetCategory(ctx context.Context, id string) (catalog.Category, error)
	ListCategories(ctx context.Context) ([]catalog.Category, error)
	GetProduct(ctx context.Context, id string) (catalog.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter, sort Sort, offset, limit int) ([]catalog.Product, int, error)
	// FindCoupon returns a NotFound error when no coupon (or no active coupon
	// when activeOnly is set) carries code.
	FindCoupon(ctx context.Context, code string, activeOnly bool) (catalog.Coupon, error)
	ListCoupons(ctx context.Context, filter CouponFilter, sort Sort, offset, limit int) ([]catalog.Coupon, int, error)
	ListProductCoupons(ctx context.Context, productID string, activeOnly bool) ([]catalog.Coupon, error)
	HasProductCoupon(ctx context.Context, productID, couponID string) (bool, error)
}

// Writer is the admin write side of the Entity Store. Every write validates
// the entity and rejects it with a ValidationFailed error before anything is
// persisted. Successful writes publish events before returning.
type Writer interface {
	CreateCategory(ctx context.Context, c catalog.Category) (catalog.Category, error)
	UpdateCategory(ctx context.Context, c catalog.Category) (catalog.Category, error)
	// DeleteCategory deletes the category and every product in it.
	DeleteCategory(ctx context.Context, id string) error

	CreateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error)
	// UpdateProduct replaces the mutable fields. CreatedAt is never changed.
	UpdateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	CreateCoupon(ctx context.Context, c catalog.Coupon) (catalog.Coupon, error)
	// UpdateCoupon replaces the mutable fields. UploadedAt is never changed.
	UpdateCoupon(ctx context.Context, c catalog.Coupon) (catalog.Coupon, error)
	DeleteCoupon(ctx context.Context, id string) error

	LinkCoupon(ctx context.Context, productID, couponID string) error
	UnlinkCoupon(ctx context.Context, productID, couponID string) error
}

// Store is a complete Entity Store.
type Store interface {
	Reader
	Writer
	Subscribe(l Listener) (unsubscribe func())
}
