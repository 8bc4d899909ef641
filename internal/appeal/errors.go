package appeal

import (
	"errors"
	"fmt"

	"deliberate/backend/internal/storage"
)

// Error kinds. Every error returned by Service matches exactly one of them
// with errors.Is.
var (
	// ErrValidation caller-supplied data violates a field constraint.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound a referenced appeal, moderation action or moderator does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict the requested transition is illegal in the current state.
	ErrConflict = errors.New("conflict")
	// ErrOperational a collaborator (store, directory) failed.
	ErrOperational = errors.New("operational failure")
)

// Error tags a failure with its kind.
type Error struct {
	kind  error
	msg   string
	cause error
}

func newError(kind, cause error, format string, args ...any) *Error {
	return &Error{kind: kind, cause: cause, msg: fmt.Sprintf(format, args...)}
}

// Kind returns the sentinel this error matches.
func (e *Error) Kind() error { return e.kind }

func (e *Error) Error() string {
	s := e.kind.Error() + ": " + e.msg
	if e.cause != nil {
		s += ": " + e.cause.Error()
	}
	return s
}

func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

func validationError(err error) error {
	return newError(ErrValidation, err, "invalid input")
}

func operationalError(op string, err error) error {
	return newError(ErrOperational, err, "%s", op)
}

// fromStorage maps a store error onto the workflow's error kinds.
func fromStorage(op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return newError(ErrNotFound, nil, "%s", op)
	case errors.Is(err, storage.ErrConflict):
		return newError(ErrConflict, nil, "%s: state changed concurrently", op)
	case errors.Is(err, storage.ErrInvalidCursor):
		return newError(ErrValidation, nil, "cursor does not reference a known appeal")
	default:
		return operationalError(op, err)
	}
}
