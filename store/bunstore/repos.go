package bunstore

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// repos holds one generic repository per table.
type repos struct {
	categories repository.Repository[*categoryRow]
	products   repository.Repository[*productRow]
	coupons    repository.Repository[*couponRow]
	links      repository.Repository[*productCouponRow]
}

func newRepos(db *bun.DB) repos {
	return repos{
		categories: repository.NewRepository(db, repository.ModelHandlers[*categoryRow]{
			NewRecord:     func() *categoryRow { return &categoryRow{} },
			GetID:         func(r *categoryRow) uuid.UUID { return recordID(r.ID) },
			SetID:         func(r *categoryRow, id uuid.UUID) { r.ID = id.String() },
			GetIdentifier: identifier,
		}),
		products: repository.NewRepository(db, repository.ModelHandlers[*productRow]{
			NewRecord:     func() *productRow { return &productRow{} },
			GetID:         func(r *productRow) uuid.UUID { return recordID(r.ID) },
			SetID:         func(r *productRow, id uuid.UUID) { r.ID = id.String() },
			GetIdentifier: identifier,
		}),
		coupons: repository.NewRepository(db, repository.ModelHandlers[*couponRow]{
			NewRecord:     func() *couponRow { return &couponRow{} },
			GetID:         func(r *couponRow) uuid.UUID { return recordID(r.ID) },
			SetID:         func(r *couponRow, id uuid.UUID) { r.ID = id.String() },
			GetIdentifier: identifier,
		}),
		links: repository.NewRepository(db, repository.ModelHandlers[*productCouponRow]{
			NewRecord: func() *productCouponRow { return &productCouponRow{} },
			GetID: func(r *productCouponRow) uuid.UUID {
				return recordID(r.ProductID + "/" + r.CouponID)
			},
			SetID:         func(*productCouponRow, uuid.UUID) {},
			GetIdentifier: func() string { return "product_id" },
		}),
	}
}

func identifier() string { return "id" }

// recordID maps a string id onto the uuid the repository expects. Ids that
// are not uuids get a stable name based uuid so they are never replaced on
// insert; only an empty id maps to uuid.Nil.
func recordID(id string) uuid.UUID {
	if id == "" {
		return uuid.Nil
	}
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(id))
}

// keep forces the listed columns into an update so zero values such as a
// 0 discount rate or a false flag are written instead of skipped.
func keep(columns map[string]any) repository.UpdateCriteria {
	return func(q *bun.UpdateQuery) *bun.UpdateQuery {
		for column, value := range columns {
			q = q.Value(column, "?", value)
		}
		return q
	}
}

func deleteWhereEq(column string, value any) repository.DeleteCriteria {
	return func(q *bun.DeleteQuery) *bun.DeleteQuery {
		return q.Where("? = ?", bun.Ident(column), value)
	}
}
