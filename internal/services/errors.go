package services

import (
	"errors"
	"fmt"
)

// ErrDocumentNotFound is returned when a delete targets an id with no record.
var ErrDocumentNotFound = errors.New("document not found")

// ValidationError marks caller mistakes: bad extension, empty file, short or
// empty question, empty corpus. Handlers report these as 400s with the
// message verbatim; no partial state is created before one is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
