package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation targets an id that is not in the store.
var ErrNotFound = errors.New("todo not found")

// ValidationError reports input the store refused. Callers render Message next to
// the offending field; it is never fatal.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
