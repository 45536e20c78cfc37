package httptransport

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/catalogcache"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lq, err := parseListQuery(q, h.defaultPageSize)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	page, err := h.reads.ListProducts(r.Context(), catalogcache.ProductListParams{
		CategoryID: optionalParam(q, "category_id"),
		Page:       lq.page,
		PageSize:   lq.pageSize,
		SortField:  lq.sortField,
		Ascending:  lq.ascending,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	detail, err := h.reads.GetProductDetail(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("coupon_code"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) listAvailableCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.reads.ListAvailableCoupons(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"coupons": coupons})
}

func (h *Handler) listCoupons(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lq, err := parseListQuery(q, h.defaultPageSize)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	includeInactive, err := boolParam(q, "include_inactive")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	page, err := h.reads.ListCoupons(r.Context(), catalogcache.CouponListParams{
		IncludeInactive: includeInactive,
		Page:            lq.page,
		PageSize:        lq.pageSize,
		SortField:       lq.sortField,
		Ascending:       lq.ascending,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.reads.ListCategories(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

func (h *Handler) getCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.reads.GetCategory(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

// --- admin ---

type categoryRequest struct {
	Name string `json:"name"`
}

type productRequest struct {
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	Price            int64   `json:"price"`
	CategoryID       string  `json:"category_id"`
	DiscountRate     float64 `json:"discount_rate"`
	CouponApplicable bool    `json:"coupon_applicable"`
}

func (p productRequest) product(id string) catalog.Product {
	return catalog.Product{
		ID:               id,
		Name:             p.Name,
		Description:      p.Description,
		Price:            p.Price,
		CategoryID:       p.CategoryID,
		DiscountRate:     p.DiscountRate,
		CouponApplicable: p.CouponApplicable,
	}
}

type couponRequest struct {
	Code         string  `json:"code"`
	DiscountRate float64 `json:"discount_rate"`
	Active       *bool   `json:"active"`
}

func (c couponRequest) coupon(id string) catalog.Coupon {
	coupon := catalog.NewCoupon(c.Code, c.DiscountRate)
	coupon.ID = id
	if c.Active != nil {
		coupon.Active = *c.Active
	}
	return coupon
}

func decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return catalog.InvalidArgument("body", err.Error())
	}
	return nil
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	category, err := h.writes.CreateCategory(r.Context(), catalog.Category{Name: req.Name})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	category, err := h.writes.UpdateCategory(r.Context(), catalog.Category{ID: chi.URLParam(r, "id"), Name: req.Name})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.writes.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	product, err := h.writes.CreateProduct(r.Context(), req.product(""))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	product, err := h.writes.UpdateProduct(r.Context(), req.product(chi.URLParam(r, "id")))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.writes.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) linkCoupon(w http.ResponseWriter, r *http.Request) {
	if err := h.writes.LinkCoupon(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "couponID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) unlinkCoupon(w http.ResponseWriter, r *http.Request) {
	if err := h.writes.UnlinkCoupon(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "couponID")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) createCoupon(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	coupon, err := h.writes.CreateCoupon(r.Context(), req.coupon(""))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, coupon)
}

func (h *Handler) updateCoupon(w http.ResponseWriter, r *http.Request) {
	var req couponRequest
	if err := decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	coupon, err := h.writes.UpdateCoupon(r.Context(), req.coupon(chi.URLParam(r, "id")))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, coupon)
}

func (h *Handler) deleteCoupon(w http.ResponseWriter, r *http.Request) {
	if err := h.writes.DeleteCoupon(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
