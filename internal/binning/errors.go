package binning

import (
	"errors"
	"fmt"
)

// InvalidBinningError represents a fatal defect in a binning configuration.
//
// Binning errors include:
//   - Non-monotonic edges: an axis whose edges are not strictly increasing
//   - Gap not bracketed: the eta axis has no edge inside a gap interval
//   - Overflow mismatch: an overflow range does not abut the momentum axis
//   - Unrepresentable bin: a canonical bin no display cell can reach
//
// These are configuration defects, surfaced eagerly and never recovered
// (a bad binning silently corrupts specific rows of the exported table).
type InvalidBinningError struct {
	// Code identifies the error category.
	Code BinningErrorCode

	// Message is a human-readable description.
	Message string

	// Axis names the offending axis ("pt", "eta", "gap_pt"), if any.
	Axis string
}

// BinningErrorCode categorizes binning errors.
type BinningErrorCode string

const (
	// ErrCodeNonMonotonic indicates axis edges that are not strictly increasing.
	ErrCodeNonMonotonic BinningErrorCode = "NON_MONOTONIC_EDGES"

	// ErrCodeGapNotBracketed indicates the eta axis has no edge strictly
	// inside a configured gap interval.
	ErrCodeGapNotBracketed BinningErrorCode = "GAP_NOT_BRACKETED"

	// ErrCodeOverflowMismatch indicates an overflow range that does not
	// join onto the momentum axis it extends.
	ErrCodeOverflowMismatch BinningErrorCode = "OVERFLOW_EDGE_MISMATCH"

	// ErrCodeBelowRange indicates a momentum value below the first gap edge.
	ErrCodeBelowRange BinningErrorCode = "VALUE_BELOW_RANGE"

	// ErrCodeUnrepresentable indicates a canonical bin that no display grid
	// cell maps to under the configured layout.
	ErrCodeUnrepresentable BinningErrorCode = "BIN_NOT_REPRESENTABLE"

	// ErrCodeOutOfRange indicates a bin or display index outside the grid.
	ErrCodeOutOfRange BinningErrorCode = "INDEX_OUT_OF_RANGE"
)

// Error implements the error interface.
func (e *InvalidBinningError) Error() string {
	if e.Axis != "" {
		return fmt.Sprintf("%s: %s (axis=%s)", e.Code, e.Message, e.Axis)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidBinning returns true if the error is an InvalidBinningError.
// Uses errors.As to handle wrapped errors.
func IsInvalidBinning(err error) bool {
	var be *InvalidBinningError
	return errors.As(err, &be)
}

// newBinningError creates an InvalidBinningError with a formatted message.
func newBinningError(code BinningErrorCode, axis, format string, args ...any) *InvalidBinningError {
	return &InvalidBinningError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Axis:    axis,
	}
}
