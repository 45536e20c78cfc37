package catalog

import "time"

// EntityKind names a kind of catalog entity. It is used in errors, store
// events and the invalidation dependency table.
type EntityKind string

const (
	KindCategory      EntityKind = "category"
	KindProduct       EntityKind = "product"
	KindCoupon        EntityKind = "coupon"
	KindProductCoupon EntityKind = "product_coupon"
)

// Category groups products. Deleting a category deletes its products.
type Category struct {
	ID   string `json:"id" msgpack:"id"`
	Name string `json:"name" msgpack:"name"`
}

// Product is a sellable item. Price is expressed in minor currency units.
type Product struct {
	ID               string    `json:"id" msgpack:"id"`
	Name             string    `json:"name" msgpack:"name"`
	Description      string    `json:"description" msgpack:"description"`
	Price            int64     `json:"price" msgpack:"price"`
	CategoryID       string    `json:"category_id" msgpack:"category_id"`
	DiscountRate     float64   `json:"discount_rate" msgpack:"discount_rate"`
	CouponApplicable bool      `json:"coupon_applicable" msgpack:"coupon_applicable"`
	CreatedAt        time.Time `json:"created_at" msgpack:"created_at"`
}

// Coupon is a discount code that stacks on top of a product discount.
type Coupon struct {
	ID           string    `json:"id" msgpack:"id"`
	Code         string    `json:"code" msgpack:"code"`
	DiscountRate float64   `json:"discount_rate" msgpack:"discount_rate"`
	Active       bool      `json:"active" msgpack:"active"`
	UploadedAt   time.Time `json:"uploaded_at" msgpack:"uploaded_at"`
}

// NewCoupon returns an active coupon, which is the default state for new codes.
func NewCoupon(code string, discountRate float64) Coupon {
	return Coupon{Code: code, DiscountRate: discountRate, Active: true}
}

// ProductCoupon links a coupon to a product it may be used with.
type ProductCoupon struct {
	ProductID string `json:"product_id"`
	CouponID  string `json:"coupon_id"`
}
