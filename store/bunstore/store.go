// Package bunstore is an Entity Store backed by a SQL database through bun.
// It runs on sqlite (modernc.org/sqlite) and postgres (lib/pq).
package bunstore

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"

	"github.com/goliatone/go-catalog-cache/catalog"
	"github.com/goliatone/go-catalog-cache/internal/clock"
	"github.com/goliatone/go-catalog-cache/store"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var _ store.Store = (*Store)(nil)

// Store implements store.Store on top of a bun database.
type Store struct {
	db     *bun.DB
	repos  repos
	mu     sync.Mutex
	clock  clock.Clock
	newID  func() string
	events store.Dispatcher
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for CreatedAt and UploadedAt stamps.
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithIDGenerator replaces the uuid based id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// Open connects to the database, applies the schema and returns a Store.
// For sqlite the pool is limited to one connection so ":memory:" databases
// survive between queries.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*Store, error) {
	var db *bun.DB
	switch driver {
	case DriverSQLite:
		sqldb, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("bunstore: open sqlite: %w", err)
		}
		sqldb.SetMaxOpenConns(1)
		db = bun.NewDB(sqldb, sqlitedialect.New())
	case DriverPostgres:
		sqldb, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("bunstore: open postgres: %w", err)
		}
		db = bun.NewDB(sqldb, pgdialect.New())
	default:
		return nil, fmt.Errorf("bunstore: unsupported driver %q", driver)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("bunstore: ping: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return New(db, opts...), nil
}

// New wraps an already migrated database.
func New(db *bun.DB, opts ...Option) *Store {
	s := &Store{
		db:    db,
		repos: newRepos(db),
		clock: clock.RealClock{},
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB exposes the underlying database handle.
func (s *Store) DB() *bun.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Subscribe registers a listener for mutation events.
func (s *Store) Subscribe(l store.Listener) func() {
	return s.events.Subscribe(l)
}

func (s *Store) GetCategory(ctx context.Context, id string) (catalog.Category, error) {
	row, err := s.getCategory(ctx, s.db, id)
	if err != nil {
		return catalog.Category{}, err
	}
	return row.model(), nil
}

func (s *Store) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	rows, _, err := s.repos.categories.List(ctx, orderBy("name", true), paged(0, 0))
	if err != nil {
		return nil, fmt.Errorf("bunstore: list categories: %w", err)
	}
	out := make([]catalog.Category, len(rows))
	for i, r := range rows {
		out[i] = r.model()
	}
	return out, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (catalog.Product, error) {
	row, err := s.getProduct(ctx, s.db, id)
	if err != nil {
		return catalog.Product{}, err
	}
	return row.model(), nil
}

func (s *Store) ListProducts(ctx context.Context, filter store.ProductFilter, sort store.Sort, offset, limit int) ([]catalog.Product, int, error) {
	if err := store.CheckSort(sort.Field, store.ProductSortFields); err != nil {
		return nil, 0, err
	}

	rows, total, err := s.repos.products.List(ctx, productCriteria(filter, sort, offset, limit)...)
	if err != nil {
		return nil, 0, fmt.Errorf("bunstore: list products: %w", err)
	}
	return productModels(rows), total, nil
}

func (s *Store) FindCoupon(ctx context.Context, code string, activeOnly bool) (catalog.Coupon, error) {
	criteria := []repository.SelectCriteria{whereEq("code", code)}
	if activeOnly {
		criteria = append(criteria, whereEq("active", true))
	}
	row, err := s.repos.coupons.Get(ctx, criteria...)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return catalog.Coupon{}, catalog.NotFound(catalog.KindCoupon, code)
		}
		return catalog.Coupon{}, fmt.Errorf("bunstore: find coupon: %w", err)
	}
	return row.model(), nil
}

func (s *Store) ListCoupons(ctx context.Context, filter store.CouponFilter, sort store.Sort, offset, limit int) ([]catalog.Coupon, int, error) {
	if err := store.CheckSort(sort.Field, store.CouponSortFields); err != nil {
		return nil, 0, err
	}

	rows, total, err := s.repos.coupons.List(ctx, couponCriteria(filter, sort, offset, limit)...)
	if err != nil {
		return nil, 0, fmt.Errorf("bunstore: list coupons: %w", err)
	}
	return couponModels(rows), total, nil
}

func (s *Store) ListProductCoupons(ctx context.Context, productID string, activeOnly bool) ([]catalog.Coupon, error) {
	criteria := []repository.SelectCriteria{linkedTo(productID)}
	if activeOnly {
		criteria = append(criteria, whereEq("c.active", true))
	}
	criteria = append(criteria, orderBy("c.uploaded_at", false), paged(0, 0))

	rows, _, err := s.repos.coupons.List(ctx, criteria...)
	if err != nil {
		return nil, fmt.Errorf("bunstore: list product coupons: %w", err)
	}
	return couponModels(rows), nil
}

func (s *Store) HasProductCoupon(ctx context.Context, productID, couponID string) (bool, error) {
	return s.hasLink(ctx, s.db, productID, couponID)
}

func (s *Store) getCategory(ctx context.Context, db bun.IDB, id string) (*categoryRow, error) {
	row, err := s.repos.categories.GetByIDTx(ctx, db, id)
	if err != nil {
		return nil, notFound(err, catalog.KindCategory, id, "get category")
	}
	return row, nil
}

func (s *Store) getProduct(ctx context.Context, db bun.IDB, id string) (*productRow, error) {
	row, err := s.repos.products.GetByIDTx(ctx, db, id)
	if err != nil {
		return nil, notFound(err, catalog.KindProduct, id, "get product")
	}
	return row, nil
}

func (s *Store) getCoupon(ctx context.Context, db bun.IDB, id string) (*couponRow, error) {
	row, err := s.repos.coupons.GetByIDTx(ctx, db, id)
	if err != nil {
		return nil, notFound(err, catalog.KindCoupon, id, "get coupon")
	}
	return row, nil
}

func (s *Store) hasLink(ctx context.Context, db bun.IDB, productID, couponID string) (bool, error) {
	n, err := s.repos.links.CountTx(ctx, db, whereEq("product_id", productID), whereEq("coupon_id", couponID))
	if err != nil {
		return false, fmt.Errorf("bunstore: has product coupon: %w", err)
	}
	return n > 0, nil
}

// notFound turns a missing row into a catalog not found error and wraps
// anything else.
func notFound(err error, kind catalog.EntityKind, id, op string) error {
	if repository.IsRecordNotFound(err) {
		return catalog.NotFound(kind, id)
	}
	return fmt.Errorf("bunstore: %s: %w", op, err)
}

// taken reports whether a row other than exceptID already has column equal
// to value.
func taken[T any](ctx context.Context, db bun.IDB, repo repository.Repository[T], column string, value any, exceptID string) (bool, error) {
	n, err := repo.CountTx(ctx, db, whereEq(column, value), whereNot("id", exceptID))
	if err != nil {
		return false, fmt.Errorf("bunstore: check unique %s: %w", column, err)
	}
	return n > 0, nil
}
