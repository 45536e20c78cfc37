package catalog

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProduct() Product {
	return Product{
		Name:         "Smartphone",
		Price:        500000,
		CategoryID:   "cat-1",
		DiscountRate: 0.1,
	}
}

func TestValidateProduct(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(p *Product)
		wantField string
	}{
		{name: "valid", mutate: func(p *Product) {}},
		{name: "lower bound inclusive", mutate: func(p *Product) { p.DiscountRate = 0 }},
		{name: "upper bound inclusive", mutate: func(p *Product) { p.DiscountRate = 1 }},
		{name: "negative rate", mutate: func(p *Product) { p.DiscountRate = -0.5 }, wantField: "discount_rate"},
		{name: "rate above one", mutate: func(p *Product) { p.DiscountRate = 1.1 }, wantField: "discount_rate"},
		{name: "NaN rate", mutate: func(p *Product) { p.DiscountRate = math.NaN() }, wantField: "discount_rate"},
		{name: "negative price", mutate: func(p *Product) { p.Price = -1 }, wantField: "price"},
		{name: "missing name", mutate: func(p *Product) { p.Name = "" }, wantField: "name"},
		{name: "missing category", mutate: func(p *Product) { p.CategoryID = "" }, wantField: "category_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProduct()
			tt.mutate(&p)

			err := ValidateProduct(p)
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, IsValidationFailed(err))

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestValidateCoupon(t *testing.T) {
	require.NoError(t, ValidateCoupon(NewCoupon("DISCOUNT10", 0.1)))

	err := ValidateCoupon(NewCoupon("OVER1.0", 1.1))
	require.Error(t, err)
	assert.True(t, IsValidationFailed(err))

	err = ValidateCoupon(NewCoupon("", 0.1))
	require.Error(t, err)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "code", verr.Field)
}

func TestValidateCategory(t *testing.T) {
	require.NoError(t, ValidateCategory(Category{Name: "Books"}))
	assert.True(t, IsValidationFailed(ValidateCategory(Category{})))
}

func TestNewCoupon_DefaultsToActive(t *testing.T) {
	assert.True(t, NewCoupon("X", 0.2).Active)
}

func TestErrorTaxonomy(t *testing.T) {
	nf := NotFound(KindProduct, "42")
	assert.True(t, IsNotFound(nf))
	assert.False(t, IsInvalidArgument(nf))
	assert.EqualError(t, nf, "product not found: 42")

	ia := InvalidArgument("sort", "unsupported field")
	assert.True(t, IsInvalidArgument(ia))
	assert.EqualError(t, ia, "invalid argument sort: unsupported field")

	wrapped := errors.Join(errors.New("context"), ValidationFailed("discount_rate", "must be no greater than 1"))
	assert.True(t, IsValidationFailed(wrapped))
}
