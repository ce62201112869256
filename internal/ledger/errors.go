package ledger

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a referenced user, reservation or property that does not
// exist. Store failures propagate unwrapped; callers match with errors.Is/As.
var ErrNotFound = errors.New("not found")

// ValidationError reports which field of an input was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
