package finitefield

import "errors"

var (
	// ErrOutOfRange is returned when a FieldElement's value falls outside
	// [0, prime).
	ErrOutOfRange = errors.New("value not in the range [0, prime-1]")

	// ErrFieldMismatch is returned when an operation mixes elements from
	// different fields (primes differ).
	ErrFieldMismatch = errors.New("field elements are from different fields")
)
