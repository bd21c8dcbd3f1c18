package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrItemUnavailable    = errors.New("item unavailable")
	ErrBookingUnavailable = errors.New("booking unavailable")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
)

// NotFound reports a missing entity of the given kind.
func NotFound(entity string, id int64) error {
	return fmt.Errorf("%w: %s id=%d", ErrNotFound, entity, id)
}

func AccessDenied(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrAccessDenied, fmt.Sprintf(format, args...))
}

func ItemUnavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrItemUnavailable, fmt.Sprintf(format, args...))
}

func BookingUnavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBookingUnavailable, fmt.Sprintf(format, args...))
}

func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Invalid tags err as a validation failure, keeping its message.
func Invalid(err error) error {
	if err == nil || errors.Is(err, ErrValidation) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
