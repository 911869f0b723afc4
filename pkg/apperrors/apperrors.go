// Package apperrors defines the error taxonomy shared by every service:
// validation, not-found, conflict and transport failures. Handlers branch on
// the kind with errors.Is and surface the wrapped human-readable reason.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or disallowed input.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks a missing referenced entity.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks an invariant violation, e.g. deleting in-use reference data.
	ErrConflict = errors.New("conflict")
	// ErrTransport marks a single outbound send failure; never fatal to a batch.
	ErrTransport = errors.New("transport error")
)

func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Conflictf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

func Transportf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrTransport, fmt.Sprintf(format, args...))
}

func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
func IsNotFound(err error) bool   { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool   { return errors.Is(err, ErrConflict) }
func IsTransport(err error) bool  { return errors.Is(err, ErrTransport) }
