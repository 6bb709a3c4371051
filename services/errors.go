package services

import (
	"github.com/pkg/errors"

	"product-catalog/repositories"
)

// ErrProductNotFound is returned by every operation addressed to an id
// that does not exist.
var ErrProductNotFound = repositories.ErrProductNotFound

// ValidationError rejects a request before anything is persisted.
type ValidationError struct {
	Message string
	cause   error
}

func (e *ValidationError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.cause
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

func wrapValidation(message string, cause error) error {
	return &ValidationError{Message: message, cause: cause}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrProductNotFound)
}
