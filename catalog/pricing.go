package catalog

import "math"

// MaxDiscountRate caps the combined product and coupon discount.
const MaxDiscountRate = 1.0

// EffectiveDiscount returns the discount rate applied to p when c is offered.
// The coupon only counts when the product accepts coupons, and stacking is
// additive up to MaxDiscountRate.
func EffectiveDiscount(p Product, c *Coupon) float64 {
	total := p.DiscountRate
	if c != nil && p.CouponApplicable {
		total = math.Min(total+c.DiscountRate, MaxDiscountRate)
	}
	return total
}

// ResolvePrice returns the final price of p with an optional coupon.
// The result is truncated toward zero, so a fully discounted product costs 0.
func ResolvePrice(p Product, c *Coupon) int64 {
	total := EffectiveDiscount(p, c)
	final := float64(p.Price) * (1 - total)
	if final <= 0 {
		return 0
	}
	return int64(math.Floor(final))
}
