package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrFileTooLarge       = errors.New("model file exceeds maximum size")
	ErrMissingModel       = errors.New("model file has no model")
)

// ValidationError provides detailed information about validation failures.
type ValidationError struct {
	Type    string // Type of error (e.g., "invalid_model", "non_finite")
	Field   string // Model field involved, if any
	Details string // Additional details
	Err     error  // Underlying cause, if any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Type, e.Field, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Details)
}

// Unwrap returns the underlying cause so errors.Is sees through the
// validation error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
