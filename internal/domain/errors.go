package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrVersionConflict is returned when a compare-and-swap sees a newer version.
	ErrVersionConflict = errors.New("version conflict")
	// ErrDuplicateRule is returned when a compatibility rule for the same
	// container, wick and wax already exists.
	ErrDuplicateRule = errors.New("compatibility rule already exists for this combination")
)

// ErrValidation matches every error built by Invalid or Invalidf.
var ErrValidation = errors.New("validation failed")

type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func (e *validationError) Is(target error) bool { return target == ErrValidation }

// Invalid returns a user-facing validation error with msg as its text.
func Invalid(msg string) error {
	return &validationError{msg: msg}
}

// Invalidf is Invalid with formatting.
func Invalidf(format string, args ...interface{}) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}
