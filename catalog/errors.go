package catalog

import (
	"errors"
	"fmt"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrValidationFailed = errors.New("validation failed")
)

// NotFoundError reports a missing entity, or a coupon code that cannot be used
// in the current context.
type NotFoundError struct {
	Kind EntityKind
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Key)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// NotFound builds a NotFoundError for the given entity kind and id or code.
func NotFound(kind EntityKind, key string) error {
	return &NotFoundError{Kind: kind, Key: key}
}

// InvalidArgumentError reports a bad read request parameter.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Field, e.Reason)
}

func (e *InvalidArgumentError) Is(target error) bool { return target == ErrInvalidArgument }

// InvalidArgument builds an InvalidArgumentError.
func InvalidArgument(field, reason string) error {
	return &InvalidArgumentError{Field: field, Reason: reason}
}

// ValidationError reports a write rejected by an entity constraint.
type ValidationError struct {
	Field      string
	Constraint string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Constraint)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidationFailed }

// ValidationFailed builds a ValidationError.
func ValidationFailed(field, constraint string) error {
	return &ValidationError{Field: field, Constraint: constraint}
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsInvalidArgument reports whether err is, or wraps, an InvalidArgumentError.
func IsInvalidArgument(err error) bool { return errors.Is(err, ErrInvalidArgument) }

// IsValidationFailed reports whether err is, or wraps, a ValidationError.
func IsValidationFailed(err error) bool { return errors.Is(err, ErrValidationFailed) }
