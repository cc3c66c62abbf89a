package index

import "fmt"

// ErrDimensionMismatch is a named error type for dimension mismatch.
type ErrDimensionMismatch struct {
	Expected int // Expected dimensions
	Actual   int // Actual dimensions
	Row      int // Offending row of the batch
}

// Error returns the error message for dimension mismatch.
func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch at row %d: expected %d, got %d", e.Row, e.Expected, e.Actual)
}

// ErrInvalidDimension indicates an invalid vector dimension.
type ErrInvalidDimension struct {
	Dimension int
}

func (e *ErrInvalidDimension) Error() string {
	return fmt.Sprintf("invalid dimension: %d", e.Dimension)
}

// ErrTooFewVectors is returned when an IVF index is asked to train more
// lists than it has vectors.
type ErrTooFewVectors struct {
	Have int
	Want int
}

func (e *ErrTooFewVectors) Error() string {
	return fmt.Sprintf("cannot train %d lists from %d vectors", e.Want, e.Have)
}
