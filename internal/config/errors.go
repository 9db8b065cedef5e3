package config

import (
	"fmt"
	"math"
)

// ConfigError reports an invalid configuration value. It is fatal: nothing is
// generated once it is returned.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// Positive returns a ConfigError when v <= 0.
func Positive(field string, v int) error {
	if v <= 0 {
		return &ConfigError{Field: field, Reason: fmt.Sprintf("must be positive, got %d", v)}
	}
	return nil
}

// PositiveFloat returns a ConfigError when v is not a finite number > 0.
func PositiveFloat(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return &ConfigError{Field: field, Reason: fmt.Sprintf("must be a positive number, got %g", v)}
	}
	return nil
}

// Finite returns a ConfigError for NaN or infinite values.
func Finite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ConfigError{Field: field, Reason: fmt.Sprintf("must be finite, got %g", v)}
	}
	return nil
}

// FirstError returns the first non-nil error.
func FirstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
