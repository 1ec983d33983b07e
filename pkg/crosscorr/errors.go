package crosscorr

import "errors"

// Sentinel errors returned by the precondition checks. All of them are
// detected before any array traversal begins, so a failed call never
// produces a partial result.
var (
	// ErrShapeMismatch indicates that the spatial extents of the inputs
	// disagree.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrInvalidRadius indicates a negative window radius.
	ErrInvalidRadius = errors.New("invalid radius")
)
