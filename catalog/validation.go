package catalog

import (
	"errors"
	"math"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidateCategory checks the write-time constraints of a category.
func ValidateCategory(c Category) error {
	return toValidationError(validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 100)),
	))
}

// ValidateProduct checks the write-time constraints of a product.
// Out of range values are rejected, never clamped.
func ValidateProduct(p Product) error {
	return toValidationError(validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&p.Price, validation.Min(0)),
		validation.Field(&p.CategoryID, validation.Required),
		validation.Field(&p.DiscountRate, finiteRate, validation.Min(0.0), validation.Max(MaxDiscountRate)),
	))
}

// ValidateCoupon checks the write-time constraints of a coupon.
func ValidateCoupon(c Coupon) error {
	return toValidationError(validation.ValidateStruct(&c,
		validation.Field(&c.Code, validation.Required, validation.Length(1, 255)),
		validation.Field(&c.DiscountRate, finiteRate, validation.Min(0.0), validation.Max(MaxDiscountRate)),
	))
}

// finiteRate rejects NaN and infinities, which compare false against both bounds.
var finiteRate = validation.By(func(value any) error {
	rate, _ := value.(float64)
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return errors.New("must be a finite number")
	}
	return nil
})

// toValidationError reduces ozzo field errors to the first failing field in
// name order so the reported error is stable.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return ValidationFailed("record", err.Error())
	}

	fields := make([]string, 0, len(fieldErrs))
	for field := range fieldErrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	return ValidationFailed(fields[0], fieldErrs[fields[0]].Error())
}
