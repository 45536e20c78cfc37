package bunstore

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-catalog-cache/catalog"
)

type categoryRow struct {
	bun.BaseModel `bun:"table:categories,alias:cat"`

	ID   string `bun:"id,pk"`
	Name string `bun:"name,notnull"`
}

type productRow struct {
	bun.BaseModel `bun:"table:products,alias:p"`

	ID               string    `bun:"id,pk"`
	Name             string    `bun:"name,notnull"`
	Description      string    `bun:"description,notnull"`
	Price            int64     `bun:"price,notnull"`
	CategoryID       string    `bun:"category_id,notnull"`
	DiscountRate     float64   `bun:"discount_rate,notnull"`
	CouponApplicable bool      `bun:"coupon_applicable,notnull"`
	CreatedAt        time.Time `bun:"created_at,notnull"`
}

type couponRow struct {
	bun.BaseModel `bun:"table:coupons,alias:c"`

	ID           string    `bun:"id,pk"`
	Code         string    `bun:"code,notnull"`
	DiscountRate float64   `bun:"discount_rate,notnull"`
	Active       bool      `bun:"active,notnull"`
	UploadedAt   time.Time `bun:"uploaded_at,notnull"`
}

type productCouponRow struct {
	bun.BaseModel `bun:"table:product_coupons,alias:pc"`

	ProductID string `bun:"product_id,pk"`
	CouponID  string `bun:"coupon_id,pk"`
}

// schema is portable between sqlite and postgres. The CHECK constraints back
// up the validation done before every write.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE CHECK (length(name) > 0)
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL CHECK (length(name) > 0),
		description TEXT NOT NULL DEFAULT '',
		price BIGINT NOT NULL CHECK (price >= 0),
		category_id TEXT NOT NULL REFERENCES categories (id),
		discount_rate DOUBLE PRECISION NOT NULL CHECK (discount_rate >= 0 AND discount_rate <= 1),
		coupon_applicable BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS products_category_id_idx ON products (category_id)`,
	`CREATE TABLE IF NOT EXISTS coupons (
		id TEXT PRIMARY KEY,
		code TEXT NOT NULL UNIQUE CHECK (length(code) > 0),
		discount_rate DOUBLE PRECISION NOT NULL CHECK (discount_rate >= 0 AND discount_rate <= 1),
		active BOOLEAN NOT NULL DEFAULT TRUE,
		uploaded_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS product_coupons (
		product_id TEXT NOT NULL REFERENCES products (id),
		coupon_id TEXT NOT NULL REFERENCES coupons (id),
		PRIMARY KEY (product_id, coupon_id)
	)`,
}

// Migrate creates the catalog tables when they do not exist yet.
func Migrate(ctx context.Context, db bun.IDB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bunstore: migrate: %w", err)
		}
	}
	return nil
}

func toCategoryRow(c catalog.Category) *categoryRow {
	return &categoryRow{ID: c.ID, Name: c.Name}
}

func (r *categoryRow) columns() map[string]any {
	return map[string]any{"name": r.Name}
}

func (r categoryRow) model() catalog.Category {
	return catalog.Category{ID: r.ID, Name: r.Name}
}

func toProductRow(p catalog.Product) *productRow {
	return &productRow{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		Price:            p.Price,
		CategoryID:       p.CategoryID,
		DiscountRate:     p.DiscountRate,
		CouponApplicable: p.CouponApplicable,
		CreatedAt:        p.CreatedAt,
	}
}

func (r *productRow) columns() map[string]any {
	return map[string]any{
		"name":              r.Name,
		"description":       r.Description,
		"price":             r.Price,
		"category_id":       r.CategoryID,
		"discount_rate":     r.DiscountRate,
		"coupon_applicable": r.CouponApplicable,
	}
}

func (r productRow) model() catalog.Product {
	return catalog.Product{
		ID:               r.ID,
		Name:             r.Name,
		Description:      r.Description,
		Price:            r.Price,
		CategoryID:       r.CategoryID,
		DiscountRate:     r.DiscountRate,
		CouponApplicable: r.CouponApplicable,
		CreatedAt:        r.CreatedAt.UTC(),
	}
}

func toCouponRow(c catalog.Coupon) *couponRow {
	return &couponRow{
		ID:           c.ID,
		Code:         c.Code,
		DiscountRate: c.DiscountRate,
		Active:       c.Active,
		UploadedAt:   c.UploadedAt,
	}
}

func (r *couponRow) columns() map[string]any {
	return map[string]any{
		"code":          r.Code,
		"discount_rate": r.DiscountRate,
		"active":        r.Active,
	}
}

func (r couponRow) model() catalog.Coupon {
	return catalog.Coupon{
		ID:           r.ID,
		Code:         r.Code,
		DiscountRate: r.DiscountRate,
		Active:       r.Active,
		UploadedAt:   r.UploadedAt.UTC(),
	}
}

func productModels(rows []*productRow) []catalog.Product {
	out := make([]catalog.Product, len(rows))
	for i, r := range rows {
		out[i] = r.model()
	}
	return out
}

func couponModels(rows []*couponRow) []catalog.Coupon {
	out := make([]catalog.Coupon, len(rows))
	for i, r := range rows {
		out[i] = r.model()
	}
	return out
}
