package apperrors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Validation failures; all match ErrBadRequest with errors.Is.
	ErrInvalidStatus   = fmt.Errorf("%w: invalid status", ErrBadRequest)
	ErrEmptyUpdate     = fmt.Errorf("%w: no fields to update", ErrBadRequest)
	ErrUnknownField    = fmt.Errorf("%w: unknown field", ErrBadRequest)
	ErrUnknownPlatform = fmt.Errorf("%w: unknown platform", ErrBadRequest)

	// ErrInvalidTransition is returned when the status policy rejects a change.
	ErrInvalidTransition = fmt.Errorf("%w: status transition not allowed", ErrConflict)
)
