package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates the caller supplied invalid input, such as an
	// inverted date range or a missing required field.
	ErrValidation = errors.New("validation failed")

	// ErrNoCapacity indicates the requested room has no remaining units for
	// the requested window.
	ErrNoCapacity = errors.New("no remaining capacity")

	// ErrEmptyCart indicates a checkout was attempted on an empty or absent cart.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrDuplicateReference indicates a booking reference collision. Handled
	// internally by regenerating the reference; never returned to callers.
	ErrDuplicateReference = errors.New("duplicate booking reference")
)
