package core

import "errors"

var (
	// ErrZeroVector is returned when an operation would construct a vector of zero length.
	ErrZeroVector = errors.New("zero vector")

	// ErrInvalidGeometry is returned when a geometry violates its construction invariants.
	ErrInvalidGeometry = errors.New("invalid geometry")

	// ErrInvalidConfig is returned for missing or inconsistent camera and render settings.
	ErrInvalidConfig = errors.New("invalid configuration")
)
