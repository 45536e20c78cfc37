package memory

import (
	"context"
	"slices"
	"strings"

	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/store"
)

func (s *Store) assignID(id string) string {
	if id != "" {
		return id
	}
	return s.newID()
}

func (s *Store) CreateCategory(ctx context.Context, c catalog.Category) (catalog.Category, error) {
	if err := catalog.ValidateCategory(c); err != nil {
		return catalog.Category{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.assignID(c.ID)
	if _, exists := s.categories.Load(c.ID); exists {
		return catalog.Category{}, catalog.ValidationFailed("id", "must be unique")
	}
	if s.categoryNameTaken(c.Name, c.ID) {
		return catalog.Category{}, catalog.ValidationFailed("name", "must be unique")
	}

	s.categories.Store(c.ID, c)
	s.events.Publish(ctx, store.Event{Kind: catalog.KindCategory, ID: c.ID, Change: store.ChangeCreate, Current: c})
	return c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c catalog.Category) (catalog.Category, error) {
	if err := catalog.ValidateCategory(c); err != nil {
		return catalog.Category{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prior, ok := s.categories.Load(c.ID)
	if !ok {
		return catalog.Category{}, catalog.NotFound(catalog.KindCategory, c.ID)
	}
	if s.categoryNameTaken(c.Name, c.ID) {
		return catalog.Category{}, catalog.ValidationFailed("name", "must be unique")
	}

	s.categories.Store(c.ID, c)
	s.events.Publish(ctx, store.Event{Kind: catalog.KindCategory, ID: c.ID, Change: store.ChangeUpdate, Prior: prior, Current: c})
	return c, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior, ok := s.categories.Load(id)
	if !ok {
		return catalog.NotFound(catalog.KindCategory, id)
	}

	var doomed []catalog.Product
	s.products.Range(func(_ string, p catalog.Product) bool {
		if p.CategoryID == id {
			doomed = append(doomed, p)
		}
		return true
	})
	slices.SortFunc(doomed, func(a, b catalog.Product) int { return strings.Compare(a.ID, b.ID) })

	events := make([]store.Event, 0, len(doomed)+1)
	for _, p := range doomed {
		s.removeProduct(p)
		events = append(events, store.Event{Kind: catalog.KindProduct, ID: p.ID, Change: store.ChangeDelete, Prior: p})
	}
	s.categories.Delete(id)
	events = append(events, store.Event{Kind: catalog.KindCategory, ID: id, Change: store.ChangeDelete, Prior: prior})

	s.events.Publish(ctx, events...)
	return nil
}

func (s *Store) CreateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	if err := catalog.ValidateProduct(p); err != nil {
		return catalog.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories.Load(p.CategoryID); !ok {
		return catalog.Product{}, catalog.ValidationFailed("category_id", "must reference an existing category")
	}
	p.ID = s.assignID(p.ID)
	if _, exists := s.products.Load(p.ID); exists {
		return catalog.Product{}, catalog.ValidationFailed("id", "must be unique")
	}
	p.CreatedAt = s.clock.Now()

	s.products.Store(p.ID, p)
	s.events.Publish(ctx, store.Event{Kind: catalog.KindProduct, ID: p.ID, Change: store.ChangeCreate, Current: p})
	return p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	if err := catalog.ValidateProduct(p); err != nil {
		return catalog.Product{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prior, ok := s.products.Load(p.ID)
	if !ok {
		return catalog.Product{}, catalog.NotFound(catalog.KindProduct, p.ID)
	}
	if _, ok := s.categories.Load(p.CategoryID); !ok {
		return catalog.Product{}, catalog.ValidationFailed("category_id", "must reference an existing category")
	}
	p.CreatedAt = prior.CreatedAt

	s.products.Store(p.ID, p)
	s.events.Publish(ctx, store.Event{Kind: catalog.KindProduct, ID: p.ID, Change: store.ChangeUpdate, Prior: prior, Current: p})
	return p, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior, ok := s.products.Load(id)
	if !ok {
		return catalog.NotFound(catalog.KindProduct, id)
	}

	s.removeProduct(prior)
	s.events.Publish(ctx, store.Event{Kind: catalog.KindProduct, ID: id, Change: store.ChangeDelete, Prior: prior})
	return nil
}

func (s *Store) CreateCoupon(ctx context.Context, c catalog.Coupon) (catalog.Coupon, error) {
	if err := catalog.ValidateCoupon(c); err != nil {
		return catalog.Coupon{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c.ID = s.assignID(c.ID)
	if _, exists := s.coupons.Load(c.ID); exists {
		return catalog.Coupon{}, catalog.ValidationFailed("id", "must be unique")
	}
	if s.couponCodeTaken(c.Code, c.ID) {
		return catalog.Coupon{}, catalog.ValidationFailed("code", "must be unique")
	}
	c.UploadedAt = s.clock.Now()

	s.coupons.Store(c.ID, c)
	s.events.Publish(ctx, store.Event{Kind: catalog.KindCoupon, ID: c.ID, Change: store.ChangeCreate, Current: c})
	return c, nil
}

func (s *Store) UpdateCoupon(ctx context.Context, c catalog.Coupon) (catalog.Coupon, error) {
	if err := catalog.ValidateCoupon(c); err != nil {
		return catalog.Coupon{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prior, ok := s.coupons.Load(c.ID)
	if !ok {
		return catalog.Coupon{}, catalog.NotFound(catalog.KindCoupon, c.ID)
	}
	if s.couponCodeTaken(c.Code, c.ID) {
		return catalog.Coupon{}, catalog.ValidationFailed("code", "must be unique")
	}
	c.UploadedAt = prior.UploadedAt

	s.coupons.Store(c.ID, c)
	s.events.Publish(ctx, store.Event{Kind: catalog.KindCoupon, ID: c.ID, Change: store.ChangeUpdate, Prior: prior, Current: c})
	return c, nil
}

func (s *Store) DeleteCoupon(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prior, ok := s.coupons.Load(id)
	if !ok {
		return catalog.NotFound(catalog.KindCoupon, id)
	}

	s.links.Range(func(l catalog.ProductCoupon, _ struct{}) bool {
		if l.CouponID == id {
			s.links.Delete(l)
		}
		return true
	})
	s.coupons.Delete(id)

	s.events.Publish(ctx, store.Event{Kind: catalog.KindCoupon, ID: id, Change: store.ChangeDelete, Prior: prior})
	return nil
}

func (s *Store) LinkCoupon(ctx context.Context, productID, couponID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products.Load(productID); !ok {
		return catalog.NotFound(catalog.KindProduct, productID)
	}
	if _, ok := s.coupons.Load(couponID); !ok {
		return catalog.NotFound(catalog.KindCoupon, couponID)
	}

	link := catalog.ProductCoupon{ProductID: productID, CouponID: couponID}
	if _, loaded := s.links.LoadOrStore(link, struct{}{}); loaded {
		return catalog.ValidationFailed("coupon_id", "already linked to product")
	}

	s.events.Publish(ctx, store.Event{Kind: catalog.KindProductCoupon, ID: productID, Change: store.ChangeCreate, Current: link})
	return nil
}

func (s *Store) UnlinkCoupon(ctx context.Context, productID, couponID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	link := catalog.ProductCoupon{ProductID: productID, CouponID: couponID}
	if _, ok := s.links.LoadAndDelete(link); !ok {
		return catalog.NotFound(catalog.KindProductCoupon, productID+"/"+couponID)
	}

	s.events.Publish(ctx, store.Event{Kind: catalog.KindProductCoupon, ID: productID, Change: store.ChangeDelete, Prior: link})
	return nil
}

// removeProduct deletes p and its coupon links. Callers hold s.mu.
func (s *Store) removeProduct(p catalog.Product) {
	s.links.Range(func(l catalog.ProductCoupon, _ struct{}) bool {
		if l.ProductID == p.ID {
			s.links.Delete(l)
		}
		return true
	})
	s.products.Delete(p.ID)
}

func (s *Store) categoryNameTaken(name, exceptID string) bool {
	taken := false
	s.categories.Range(func(id string, c catalog.Category) bool {
		taken = c.Name == name && id != exceptID
		return !taken
	})
	return taken
}

func (s *Store) couponCodeTaken(code, exceptID string) bool {
	taken := false
	s.coupons.Range(func(id string, c catalog.Coupon) bool {
		taken = c.Code == code && id != exceptID
		return !taken
	})
	return taken
}
