package bunstore

import (
	"context"
	"fmt"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/store"
)

// write runs fn in a transaction while holding the write lock and publishes
// the events it returns once the transaction has committed.
func (s *Store) write(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) ([]store.Event, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var events []store.Event
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var err error
		events, err = fn(ctx, tx)
		return err
	})
	if err != nil {
		return err
	}

	s.events.Publish(ctx, events...)
	return nil
}

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
	c.ID = s.assignID(c.ID)

	err := s.write(ctx, func(ctx context.Context, tx bun.Tx) ([]store.Event, error) {
		if err := checkUnique(ctx, tx, s.repos.categories, "id", c.ID, ""); err != nil {
			return nil, err
		}
		if err := checkUnique(ctx, tx, s.repos.categories, "name", c.Name, c.ID); err != nil {
			return nil, err
		}
		if _, err := s.repos.categories.CreateTx(ctx, tx, toCategoryRow(c)); err != nil {
			return nil, fmt.Errorf("bunstore: insert category: %w", err)
		}
		return []store.Event{{Kind: catalog.KindCategory, ID: c.ID, Change: store.ChangeCreate, Current: c}}, nil
	})
	if err != nil {
		return catalog.Category{}, err
	}
	return c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, c catalog.Category) (catalog.Category, error) {
	if err := catalog.ValidateCategory(c); err != nil {
		return catalog.Category{}, err
	}

	err := s.write(ctx, func(ctx context.Context, tx bun.Tx) ([]store.Event, error) {
		prior, err := s.getCategory(ctx, tx, c.ID)
		if err != nil {
			return nil, err
		}
		if err := checkUnique(ctx, tx, s.repos.categories, "name", c.Name, c.ID); err != nil {
			return nil, err
		}
		row := toCategoryRow(c)
		if _, err := s.repos.categories.UpdateTx(ctx, tx, row, keep(row.columns())); err != nil {
			return nil, fmt.Errorf("bunstore: update category: %w", err)
		}
		return []store.Event{{Kind: catalog.KindCategory, ID: c.ID, Change: store.ChangeUpdate, Prior: prior.model(), Current: c}}, nil
	})
	if err != nil {
		return catalog.Category{}, err
	}
	return c, nil
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	return s.write(ctx, func(ctx context.Context, tx bun.Tx) ([]store.Event, error) {
		prior, err := s.getCategory(ctx, tx, id)
		if err != nil {
			return nil, err
		}

		products, _, err := s.repos.products.ListTx(ctx, tx, whereEq("category_id", id), orderBy("id", true), paged(0, 0))
		if err != nil {
			return nil, fmt.Errorf("bunstore: load category products: %w", err)
		}

		events := make([]store.Event, 0, len(products)+1)
		for _, p := range products {
			if err := s.deleteProduct(ctx, tx, p); err != nil {
				return nil, err
			}
			events = append(events, store.Event{Kind: catalog.KindProduct, ID: p.ID, Change: store.ChangeDelete, Prior: p.model()})
		}

		if err := s.repos.categories.DeleteTx(ctx, tx, prior); err != nil {
			return nil, fmt.Errorf("bunstore: delete category: %w", err)
		}
		return append(events, store.Event{Kind: catalog.KindCategory, ID: id, Change: store.ChangeDelete, Prior: prior.model()}), nil
	})
}

func (s *Store) CreateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	if err := catalog.ValidateProduct(p); err != nil {
		return catalog.Product{}, err
	}
	p.ID = s.assignID(p.ID)

	err := s.write(ctx, func(ctx context.Context, tx bun.Tx) ([]store.Event, error) {
		if err := s.checkCategory(ctx, tx, p.CategoryID); err != nil {
			return nil, err
		}
		if err := checkUnique(ctx, tx, s.repos.products, "id", p.ID, ""); err != nil {
			return nil, err
		}
		p.CreatedAt = s.clock.Now()
		if _, err := s.repos.products.CreateTx(ctx, tx, toProductRow(p)); err != nil {
			return nil, fmt.Errorf("bunstore: insert product: %w", err)
		}
		return []store.Event{{Kind: catalog.KindProduct, ID: p.ID, Change: store.ChangeCreate, Current: p}}, nil
	})
	if err != nil {
		return catalog.Product{}, err
	}
	return p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, p catalog.Product) (catalog.Product, error) {
	if err := catalog.ValidateProduct(p); err != nil {
		return catalog.Product{}, err
	}

	err := s.write(ctx, func(ctx context.Context, tx bun.Tx) ([]store.Event, error) {
		prior, err := s.getProduct(ctx, tx, p.ID)
		if err != nil {
			return nil, err
		}
		if err := s.checkCategory(ctx, tx, p.CategoryID); err != nil {
			return nil, err
		}
		p.CreatedAt = prior.CreatedAt.UTC()
		row := toProductRow(p)
		if _, err := s.repos.products.UpdateTx(ctx, tx, row, keep(row.columns())); err != nil {
			return nil, fmt.Errorf("bunstore: update product: %w", err)
		}
		return []store.Event{{Kind: catalog.KindProduct, ID: p.ID, Change: store.ChangeUpdate, Prior: prior.model(), Current: p}}, nil
	})
	if err != nil {
		return catalog.Product{}, err
	}
	return p, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	return s.write(ctx, func(ctx context.Context, tx bun.Tx) ([]store.Event, error) {
		prior, err := s.getProduct(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		if err := s.deleteProduct(ctx, tx, prior); err != nil {
			return nil, err
		}
		return []store.Event{{Kind: catalog.KindProduct, ID: id, Change: store.ChangeDelete, Prior: prior.model()}}, nil
	})
}

func (s *Store) CreateCoupon(ctx context.Context, c catalog.Coupon) (catalog.Coupon, error) {
	if err := catalog.ValidateCoupon(c); err != nil {
		return catalog.Coupon{}, err
	}
	c.ID = s.assignID(c.ID)

	err := s.write(ctx, func(ctx context.Context, tx bun.Tx) ([]store.Event, error) {
		if err := checkUnique(ctx, tx, s.repos.coupons, "id", c.ID, ""); err != nil {
			return nil, err
		}
		if err := checkUnique(ctx, tx, s.repos.coupons, "code", c.Code, c.ID); err != nil {
			return nil, err
		}
		c.UploadedAt = s.clock.Now()
		if _, err := s.repos.coupons.CreateTx(ctx, tx, toCouponRow(c)); err != nil {
			return nil, fmt.Errorf("bunstore: insert coupon: %w", err)
		}
		return []store.Event{{Kind: catalog.KindCoupon, ID: c.ID, Change: store.ChangeCreate, Current: c}}, nil
	})
	if err != nil {
		return catalog.Coupon{}, err
	}
	return c, nil
}

func (s *Store) UpdateCoupon(ctx context.Context, c catalog.Coupon) (catalog.Coupon, error) {
	if err := catalog.ValidateCoupon(c); err != nil {
		return catalog.Coupon{}, err
	}

	err := s.write(ctx, func(ctx context.Context, tx bun.Tx) ([]store.Event, error) {
		prior, err := s.getCoupon(ctx, tx, c.ID)
		if err != nil {
			return nil, err
		}
		if err := checkUnique(ctx, tx, s.repos.coupons, "code", c.Code, c.ID); err != nil {
			return nil, err
		}
		c.UploadedAt = prior.UploadedAt.UTC()
		row := toCouponRow(c)
		if _, err := s.repos.coupons.UpdateTx(ctx, tx, row, keep(row.columns())); err != nil {
			return nil, fmt.Errorf("bunstore: update coupon: %w", err)
		}
		return []store.Event{{Kind: catalog.KindCoupon, ID: c.ID, Change: store.ChangeUpdate, Prior: prior.model(), Current: c}}, nil
	})
	if err != nil {
		return catalog.Coupon{}, err
	}
	return c, nil
}

func (s *Store) DeleteCoupon(ctx context.Context, id string) error {
	return s.write(ctx, func(ctx context.Context, tx bun.Tx) ([]store.Event, error) {
		prior, err := s.getCoupon(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		if err := s.repos.links.DeleteWhereTx(ctx, tx, deleteWhereEq("coupon_id", id)); err != nil {
			return nil, fmt.Errorf("bunstore: unlink coupon: %w", err)
		}
		if err := s.repos.coupons.DeleteTx(ctx, tx, prior); err != nil {
			return nil, fmt.Errorf("bunstore: delete coupon: %w", err)
		}
		return []store.Event{{Kind: catalog.KindCoupon, ID: id, Change: store.ChangeDelete, Prior: prior.model()}}, nil
	})
}

func (s *Store) LinkCoupon(ctx context.Context, productID, couponID string) error {
	return s.write(ctx, func(ctx context.Context, tx bun.Tx) ([]store.Event, error) {
		if _, err := s.getProduct(ctx, tx, productID); err != nil {
			return nil, err
		}
		if _, err := s.getCoupon(ctx, tx, couponID); err != nil {
			return nil, err
		}
		linked, err := s.hasLink(ctx, tx, productID, couponID)
		if err != nil {
			return nil, err
		}
		if linked {
			return nil, catalog.ValidationFailed("coupon_id", "already linked to product")
		}

		link := catalog.ProductCoupon{ProductID: productID, CouponID: couponID}
		row := &productCouponRow{ProductID: productID, CouponID: couponID}
		if _, err := s.repos.links.CreateTx(ctx, tx, row); err != nil {
			return nil, fmt.Errorf("bunstore: link coupon: %w", err)
		}
		return []store.Event{{Kind: catalog.KindProductCoupon, ID: productID, Change: store.ChangeCreate, Current: link}}, nil
	})
}

func (s *Store) UnlinkCoupon(ctx context.Context, productID, couponID string) error {
	return s.write(ctx, func(ctx context.Context, tx bun.Tx) ([]store.Event, error) {
		linked, err := s.hasLink(ctx, tx, productID, couponID)
		if err != nil {
			return nil, err
		}
		if !linked {
			return nil, catalog.NotFound(catalog.KindProductCoupon, productID+"/"+couponID)
		}
		err = s.repos.links.DeleteWhereTx(ctx, tx, deleteWhereEq("product_id", productID), deleteWhereEq("coupon_id", couponID))
		if err != nil {
			return nil, fmt.Errorf("bunstore: unlink coupon: %w", err)
		}

		link := catalog.ProductCoupon{ProductID: productID, CouponID: couponID}
		return []store.Event{{Kind: catalog.KindProductCoupon, ID: productID, Change: store.ChangeDelete, Prior: link}}, nil
	})
}

func (s *Store) deleteProduct(ctx context.Context, tx bun.Tx, row *productRow) error {
	if err := s.repos.links.DeleteWhereTx(ctx, tx, deleteWhereEq("product_id", row.ID)); err != nil {
		return fmt.Errorf("bunstore: unlink product: %w", err)
	}
	if err := s.repos.products.DeleteTx(ctx, tx, row); err != nil {
		return fmt.Errorf("bunstore: delete product: %w", err)
	}
	return nil
}

func (s *Store) checkCategory(ctx context.Context, tx bun.Tx, id string) error {
	if _, err := s.getCategory(ctx, tx, id); err != nil {
		if catalog.IsNotFound(err) {
			return catalog.ValidationFailed("category_id", "must reference an existing category")
		}
		return err
	}
	return nil
}

func checkUnique[T any](ctx context.Context, tx bun.Tx, repo repository.Repository[T], column string, value any, exceptID string) error {
	dup, err := taken(ctx, tx, repo, column, value, exceptID)
	if err != nil {
		return err
	}
	if dup {
		return catalog.ValidationFailed(column, "must be unique")
	}
	return nil
}
