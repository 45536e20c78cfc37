package bunstore

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-catalog-cache/store"
)

var productColumns = map[string]string{
	store.SortName:      "name",
	store.SortCategory:  "category_id",
	store.SortPrice:     "price",
	store.SortCreatedAt: "created_at",
}

var couponColumns = map[string]string{
	store.SortCode:         "code",
	store.SortDiscountRate: "discount_rate",
	store.SortUploadedAt:   "uploaded_at",
}

func whereEq(column string, value any) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("? = ?", bun.Ident(column), value)
	}
}

// orderBy sorts by column and breaks ties by id in the same direction.
func orderBy(column string, ascending bool) repository.SelectCriteria {
	dir := "DESC"
	if ascending {
		dir = "ASC"
	}
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("? "+dir, bun.Ident(column)).OrderExpr("? "+dir, bun.Ident("id"))
	}
}

func whereNot(column string, value any) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("? <> ?", bun.Ident(column), value)
	}
}

// paged applies offset and limit over the repository defaults. A limit of
// zero or less leaves the query unbounded.
func paged(offset, limit int) repository.SelectCriteria {
	offset, limit = max(offset, 0), max(limit, 0)
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Offset(offset).Limit(limit)
	}
}

// linkedTo restricts coupons to those linked to productID.
func linkedTo(productID string) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Join("JOIN product_coupons AS pc ON pc.coupon_id = c.id").
			Where("pc.product_id = ?", productID)
	}
}

func productCriteria(filter store.ProductFilter, sort store.Sort, offset, limit int) []repository.SelectCriteria {
	var criteria []repository.SelectCriteria
	if filter.CategoryID != nil {
		criteria = append(criteria, whereEq("category_id", *filter.CategoryID))
	}
	return append(criteria, orderBy(productColumns[sort.Field], sort.Ascending), paged(offset, limit))
}

func couponCriteria(filter store.CouponFilter, sort store.Sort, offset, limit int) []repository.SelectCriteria {
	var criteria []repository.SelectCriteria
	if filter.ActiveOnly {
		criteria = append(criteria, whereEq("active", true))
	}
	return append(criteria, orderBy(couponColumns[sort.Field], sort.Ascending), paged(offset, limit))
}
