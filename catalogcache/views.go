package catalogcache

import (
	"time"

	"github.com/goliatone/go-catalog-cache/catalog"
)

// Page is one page of a sorted listing.
type Page[T any] struct {
	TotalCount  int `json:"total_count" msgpack:"total_count"`
	TotalPages  int `json:"total_pages" msgpack:"total_pages"`
	CurrentPage int `json:"current_page" msgpack:"current_page"`
	PageSize    int `json:"page_size" msgpack:"page_size"`
	Items       []T `json:"items" msgpack:"items"`
}

// CategoryView is the public projection of a category.
type CategoryView struct {
	ID   string `json:"id" msgpack:"id"`
	Name string `json:"name" msgpack:"name"`
}

// ProductView is a product as it appears in listings.
type ProductView struct {
	ID               string        `json:"id" msgpack:"id"`
	Category         *CategoryView `json:"category" msgpack:"category"`
	Name             string        `json:"name" msgpack:"name"`
	Description      string        `json:"description" msgpack:"description"`
	Price            int64         `json:"price" msgpack:"price"`
	DiscountRate     float64       `json:"discount_rate" msgpack:"discount_rate"`
	CouponApplicable bool          `json:"coupon_applicable" msgpack:"coupon_applicable"`
	CreatedAt        time.Time     `json:"created_at" msgpack:"created_at"`
}

// ProductDetail is a product with its resolved price.
type ProductDetail struct {
	ProductView
	FinalPrice          int64   `json:"final_price" msgpack:"final_price"`
	AppliedDiscountRate float64 `json:"applied_discount_rate" msgpack:"applied_discount_rate"`
}

// CouponView is the public projection of a coupon.
type CouponView struct {
	ID           string    `json:"id" msgpack:"id"`
	Code         string    `json:"code" msgpack:"code"`
	DiscountRate float64   `json:"discount_rate" msgpack:"discount_rate"`
	Active       bool      `json:"active" msgpack:"active"`
	UploadedAt   time.Time `json:"uploaded_at" msgpack:"uploaded_at"`
}

func newCategoryView(c catalog.Category) CategoryView {
	return CategoryView{ID: c.ID, Name: c.Name}
}

// newProductView renders p. category may be nil when it no longer resolves.
func newProductView(p catalog.Product, category *CategoryView) ProductView {
	return ProductView{
		ID:               p.ID,
		Category:         category,
		Name:             p.Name,
		Description:      p.Description,
		Price:            p.Price,
		DiscountRate:     p.DiscountRate,
		CouponApplicable: p.CouponApplicable,
		CreatedAt:        p.CreatedAt,
	}
}

func newCouponView(c catalog.Coupon) CouponView {
	return CouponView{
		ID:           c.ID,
		Code:         c.Code,
		DiscountRate: c.DiscountRate,
		Active:       c.Active,
		UploadedAt:   c.UploadedAt,
	}
}

func couponViews(coupons []catalog.Coupon) []CouponView {
	out := make([]CouponView, len(coupons))
	for i, c := range coupons {
		out[i] = newCouponView(c)
	}
	return out
}
