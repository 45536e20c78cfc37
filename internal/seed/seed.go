// Package seed loads a reference catalog into a store. The server uses it
// for its -seed flag and tests use it through pkg/testsupport.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/store"
)

//go:embed catalog.json
var defaultJSON []byte

// Data describes a catalog to load into a store.
type Data struct {
	Categories []string  `json:"categories"`
	Coupons    []Coupon  `json:"coupons"`
	Products   []Product `json:"products"`
}

type Coupon struct {
	Code         string  `json:"code"`
	DiscountRate float64 `json:"discount_rate"`
	Active       bool    `json:"active"`
}

// Product references its category by name and its coupons by code.
type Product struct {
	Name             string   `json:"name"`
	Category         string   `json:"category"`
	Description      string   `json:"description"`
	Price            int64    `json:"price"`
	DiscountRate     float64  `json:"discount_rate"`
	CouponApplicable bool     `json:"coupon_applicable"`
	Coupons          []string `json:"coupons"`
}

// Catalog holds the seeded entities keyed by name or code.
type Catalog struct {
	Categories map[string]catalog.Category
	Products   map[string]catalog.Product
	Coupons    map[string]catalog.Coupon
}

// CategoryID returns a pointer to the id of the named category.
func (c *Catalog) CategoryID(name string) *string {
	id := c.Categories[name].ID
	return &id
}

// Default returns the reference catalog: three categories, four products
// and three coupons, one of them inactive.
func Default() Data {
	data, err := Parse(defaultJSON)
	if err != nil {
		panic(fmt.Sprintf("seed: invalid embedded catalog: %v", err))
	}
	return data
}

// Parse decodes a catalog in the format of the embedded catalog.json.
func Parse(raw []byte) (Data, error) {
	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return Data{}, fmt.Errorf("seed: decode catalog: %w", err)
	}
	return data, nil
}

// Load writes data through w in dependency order and links coupons.
func Load(ctx context.Context, w store.Writer, data Data) (*Catalog, error) {
	out := &Catalog{
		Categories: make(map[string]catalog.Category),
		Products:   make(map[string]catalog.Product),
		Coupons:    make(map[string]catalog.Coupon),
	}

	for _, name := range data.Categories {
		c, err := w.CreateCategory(ctx, catalog.Category{Name: name})
		if err != nil {
			return nil, fmt.Errorf("seed category %s: %w", name, err)
		}
		out.Categories[name] = c
	}

	for _, sc := range data.Coupons {
		coupon := catalog.NewCoupon(sc.Code, sc.DiscountRate)
		coupon.Active = sc.Active
		c, err := w.CreateCoupon(ctx, coupon)
		if err != nil {
			return nil, fmt.Errorf("seed coupon %s: %w", sc.Code, err)
		}
		out.Coupons[sc.Code] = c
	}

	for _, sp := range data.Products {
		category, ok := out.Categories[sp.Category]
		if !ok {
			return nil, fmt.Errorf("seed product %s: unknown category %s", sp.Name, sp.Category)
		}
		p, err := w.CreateProduct(ctx, catalog.Product{
			Name:             sp.Name,
			Description:      sp.Description,
			Price:            sp.Price,
			CategoryID:       category.ID,
			DiscountRate:     sp.DiscountRate,
			CouponApplicable: sp.CouponApplicable,
		})
		if err != nil {
			return nil, fmt.Errorf("seed product %s: %w", sp.Name, err)
		}
		out.Products[sp.Name] = p

		for _, code := range sp.Coupons {
			coupon, ok := out.Coupons[code]
			if !ok {
				return nil, fmt.Errorf("seed product %s: unknown coupon %s", sp.Name, code)
			}
			if err := w.LinkCoupon(ctx, p.ID, coupon.ID); err != nil {
				return nil, fmt.Errorf("seed link %s/%s: %w", sp.Name, code, err)
			}
		}
	}

	return out, nil
}
