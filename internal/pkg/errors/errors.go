package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned for unknown assignment, event or progress ids.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is returned for malformed input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrExternalFailure wraps failures of persistence, cache or generative collaborators.
	ErrExternalFailure = errors.New("external failure")
)

func NotFound(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

func Invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidArgument)
}

// External wraps cause so that both errors.Is(err, ErrExternalFailure) and
// errors.Is(err, cause) hold.
func External(op string, cause error) error {
	if cause == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrExternalFailure, cause)
}

func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
func IsInvalid(err error) bool  { return errors.Is(err, ErrInvalidArgument) }
func IsExternal(err error) bool { return errors.Is(err, ErrExternalFailure) }
