// Package services holds the business operations behind the HTTP handlers.
package services

import (
	"errors"

	"github.com/sig-servicios/cotizador/validation"
)

// ErrNotFound is returned when a record does not exist or is not visible to the caller.
var ErrNotFound = errors.New("not_found")

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Message    string
	Violations validation.Violations
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string, v validation.Violations) error {
	if len(v) == 0 {
		v = nil
	}
	return &ValidationError{Message: msg, Violations: v}
}

// check runs the struct's validate tags plus any violations already
// collected and returns a ValidationError when something failed.
func check(in any, v validation.Violations) error {
	validation.Struct(in, v)
	if !v.Empty() {
		return invalid("validation_failed", v)
	}
	return nil
}
