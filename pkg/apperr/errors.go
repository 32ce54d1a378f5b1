// Package apperr holds the error taxonomy shared by the lifecycle engine,
// the services and the HTTP layer. Callers wrap these sentinels with
// fmt.Errorf("%w: ...") and match them with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrAlreadyAssigned     = errors.New("request already assigned to a mechanic")
	ErrMechanicUnavailable = errors.New("mechanic is not available")
	ErrValidation          = errors.New("validation failed")
)

// Validation reports a rejected input field.
func Validation(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrValidation, field, fmt.Sprintf(format, args...))
}

// Code is the stable machine-readable name of err's category, or
// "INTERNAL" when err is outside the taxonomy.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return "UNAUTHENTICATED"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrInvalidTransition):
		return "INVALID_TRANSITION"
	case errors.Is(err, ErrAlreadyAssigned):
		return "ALREADY_ASSIGNED"
	case errors.Is(err, ErrMechanicUnavailable):
		return "MECHANIC_UNAVAILABLE"
	case errors.Is(err, ErrValidation):
		return "VALIDATION_ERROR"
	default:
		return "INTERNAL"
	}
}
