package analysis

import (
	"errors"
	"fmt"

	"sfkit/internal/aggregate"
)

// ConfigError reports a configuration file that failed to load or
// validate against the schema.
type ConfigError struct {
	Code    string
	Path    string
	Message string
}

// Config error codes.
const (
	ErrCodeConfigRead    = "CONFIG_READ"
	ErrCodeConfigParse   = "CONFIG_PARSE"
	ErrCodeConfigInvalid = "CONFIG_INVALID"
)

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Path, e.Message)
}

// IsConfigError returns true if the error is a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// MeasurementError reports a missing or malformed upstream measurement.
// It is a hard precondition failure for the bin it names; the pipeline
// never interpolates around absent fit results.
type MeasurementError struct {
	Bin      int
	Category aggregate.Category
	Reason   string
}

// Error implements the error interface.
func (e *MeasurementError) Error() string {
	if e.Category != "" {
		return fmt.Sprintf("MEASUREMENT_INVALID: bin %d category %s: %s",
			e.Bin, e.Category, e.Reason)
	}
	return fmt.Sprintf("MEASUREMENT_INVALID: bin %d: %s", e.Bin, e.Reason)
}

// IsMeasurementError returns true if the error is a MeasurementError.
func IsMeasurementError(err error) bool {
	var me *MeasurementError
	return errors.As(err, &me)
}
