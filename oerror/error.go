package oerror

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCollaborator is wrapped by setup errors raised when a required collaborator was not bound.
	ErrMissingCollaborator = errors.New("missing collaborator")
	// ErrInvalidConfig is wrapped by setup errors raised when a profile fails validation.
	ErrInvalidConfig = errors.New("invalid config")
)

// Error is an error raised by the locomotion core. It is only ever produced at setup time,
// per-tick code degrades to "no information" instead.
type Error struct {
	msg   string
	cause error
}

// New returns a new *Error formatted with the arguments passed. A %w verb in the format wraps
// the matching argument, so errors.Is works through it.
func New(format string, args ...any) *Error {
	err := fmt.Errorf(format, args...)
	return &Error{msg: err.Error(), cause: errors.Unwrap(err)}
}

// MissingCollaborator returns an error stating that the named collaborator was not provided.
func MissingCollaborator(name string) *Error {
	return New("%s: %w", name, ErrMissingCollaborator)
}

// InvalidConfig returns an error stating that the field of a profile holds an unusable value.
func InvalidConfig(field string, format string, args ...any) *Error {
	return New("%s: %s: %w", field, fmt.Sprintf(format, args...), ErrInvalidConfig)
}

func (e *Error) Error() string {
	return e.msg
}

func (e *Error) Unwrap() error {
	return e.cause
}
