package fem

import "errors"

// Error kinds reported by the evaluation and interpolation entry points.
// Precondition violations fail the whole call before any output is
// written; an unlocated point (negative cell index) is data, not an error.
var (
	// ErrDimensionMismatch reports an output buffer of the wrong shape or
	// a source/target value-size mismatch.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrNotReady reports evaluation of an Expression before its constants
	// and tabulation callback are bound.
	ErrNotReady = errors.New("not ready for evaluation")

	// ErrUnknownConstant reports a named constant that was never declared.
	ErrUnknownConstant = errors.New("unknown constant")
)
