package catalogcache

import (
	"strconv"

	"github.com/goliatone/go-catalog-cache/cache"
	"github.com/goliatone/go-catalog-cache/store"
)

// Cache key namespaces.
const (
	NamespaceProductList      = "product_list"
	NamespaceProductDetail    = "product_detail"
	NamespaceCouponList       = "coupon_list"
	NamespaceAvailableCoupons = "available_coupons"
	NamespaceCategory         = "category"
	NamespaceCategoryList     = "category_list"
)

// allCategories scopes unfiltered product lists. Ids never contain '*'.
const allCategories = "*"

// Keys renders every cache key used by the read layer. Reads and evictions
// share it, so a key template cannot drift between the two.
type Keys struct {
	serializer cache.KeySerializer
}

// NewKeys wraps serializer.
func NewKeys(serializer cache.KeySerializer) Keys {
	if serializer == nil {
		serializer = cache.NewDefaultKeySerializer()
	}
	return Keys{serializer: serializer}
}

// ProductList is the key of one page of products. Every parameter is part of
// the key so distinct queries never share an entry.
func (k Keys) ProductList(categoryID *string, p pageRequest, sort store.Sort) string {
	return k.serializer.SerializeKey(NamespaceProductList,
		categorySegment(categoryID),
		"page="+strconv.Itoa(p.page),
		"size="+strconv.Itoa(p.size),
		"sort="+sort.Field,
		"order="+order(sort.Ascending),
	)
}

// ProductListPrefix matches every page of the product list scoped to
// categoryID, or of the unfiltered list when categoryID is nil.
func (k Keys) ProductListPrefix(categoryID *string) string {
	return k.serializer.SerializePrefix(NamespaceProductList, categorySegment(categoryID))
}

func (k Keys) ProductDetail(productID string) string {
	return k.serializer.SerializeKey(NamespaceProductDetail, productID)
}

// ProductDetailPrefix matches every product detail.
func (k Keys) ProductDetailPrefix() string {
	return k.serializer.SerializePrefix(NamespaceProductDetail)
}

func (k Keys) CouponList(includeInactive bool, p pageRequest, sort store.Sort) string {
	return k.serializer.SerializeKey(NamespaceCouponList,
		"inactive="+strconv.FormatBool(includeInactive),
		"page="+strconv.Itoa(p.page),
		"size="+strconv.Itoa(p.size),
		"sort="+sort.Field,
		"order="+order(sort.Ascending),
	)
}

func (k Keys) CouponListPrefix() string {
	return k.serializer.SerializePrefix(NamespaceCouponList)
}

func (k Keys) AvailableCoupons(productID string) string {
	return k.serializer.SerializeKey(NamespaceAvailableCoupons, productID)
}

// AvailableCouponsPrefix matches the available coupons of every product.
func (k Keys) AvailableCouponsPrefix() string {
	return k.serializer.SerializePrefix(NamespaceAvailableCoupons)
}

func (k Keys) Category(id string) string {
	return k.serializer.SerializeKey(NamespaceCategory, id)
}

func (k Keys) CategoryList() string {
	return k.serializer.SerializeKey(NamespaceCategoryList)
}

func categorySegment(categoryID *string) string {
	if categoryID == nil {
		return "category=" + allCategories
	}
	return "category=" + *categoryID
}

func order(ascending bool) string {
	if ascending {
		return "asc"
	}
	return "desc"
}
