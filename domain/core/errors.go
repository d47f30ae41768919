package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Data-shape errors
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrNonRectangular    = errors.New("matrix rows have differing lengths")
	ErrNonFinite         = errors.New("matrix entry is not finite")
	ErrInsufficientData  = errors.New("insufficient data for analysis")

	// Design errors
	ErrInvalidDesign  = errors.New("invalid group design")
	ErrEmptyGroup     = errors.New("group assignment leaves a group empty")
	ErrOddSampleCount = errors.New("sample count must be even")

	// Statistic errors
	ErrDegenerateVariance = errors.New("degenerate variance")
	ErrUnknownScore       = errors.New("unknown ranking score")
)

// NewDimensionMismatchError reports a length disagreement between a matrix
// axis and an accompanying label sequence.
func NewDimensionMismatchError(what string, got, want int) error {
	return fmt.Errorf("%w: %s has length %d, expected %d", ErrDimensionMismatch, what, got, want)
}

// NewDegenerateVarianceError reports a zero within-group sample variance.
func NewDegenerateVarianceError(group int) error {
	return fmt.Errorf("%w: group %d has zero sample variance", ErrDegenerateVariance, group)
}

// NewInvalidDesignError reports a group assignment that cannot support a
// two-sample statistic.
func NewInvalidDesignError(reason string) error {
	return fmt.Errorf("%w: %s", ErrInvalidDesign, reason)
}

// Error checking helpers
func IsDimensionError(err error) bool {
	return errors.Is(err, ErrDimensionMismatch) ||
		errors.Is(err, ErrNonRectangular) ||
		errors.Is(err, ErrNonFinite)
}

func IsDesignError(err error) bool {
	return errors.Is(err, ErrInvalidDesign) ||
		errors.Is(err, ErrEmptyGroup) ||
		errors.Is(err, ErrOddSampleCount)
}
