package correction

import (
	"errors"
	"fmt"
)

// ShapeMismatchError reports a content array whose length disagrees with
// the bin count derived from the edge arrays. It is fatal: a misshapen
// table would silently associate values with the wrong bins.
type ShapeMismatchError struct {
	// Name is the correction being built.
	Name string

	// Want is the expected content length, (len(ptEdges)-1)*(len(etaEdges)-1).
	Want int

	// Got is the supplied content length.
	Got int
}

// Error implements the error interface.
func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("SHAPE_MISMATCH: correction %q needs %d content values, got %d",
		e.Name, e.Want, e.Got)
}

// IsShapeMismatch returns true if the error is a ShapeMismatchError.
// Uses errors.As to handle wrapped errors.
func IsShapeMismatch(err error) bool {
	var se *ShapeMismatchError
	return errors.As(err, &se)
}
