// Package model defines domain entities for the application.
package model

// ValidationError carries per-field validation failures.
// It maps to a 400 response with a field-level detail payload.
type ValidationError struct {
	Fields map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	for field, msg := range e.Fields {
		return "validation failed: " + field + ": " + msg
	}
	return "validation failed"
}

// newValidationError builds a ValidationError from field/message pairs.
func newValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}
