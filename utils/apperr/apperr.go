package apperr

import (
	"errors"
	"fmt"
)

// NotFoundError reports that a resource (or one of its claimed ancestors) does
// not exist. Kind names the missing resource level ("university", "faculty",
// "program", "module", "document", "friend", "request", ...), and is
// constructed at the validation site rather than chosen by callers.
type NotFoundError struct {
	Kind string
}

func (e *NotFoundError) Error() string {
	return e.Kind + " not found"
}

// NotFound builds a NotFoundError for the given resource kind.
func NotFound(kind string) error {
	return &NotFoundError{Kind: kind}
}

// ConflictError reports a violated uniqueness or state invariant, such as a
// duplicate friend request or an already-used email.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason + " already exists"
}

// Conflict builds a ConflictError for the given reason.
func Conflict(reason string) error {
	return &ConflictError{Reason: reason}
}

// ValidationError reports malformed input that fails before any mutation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validation builds a ValidationError with a formatted message.
func Validation(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// NotFoundKind returns the resource kind of a wrapped NotFoundError, or ""
// when err is not one.
func NotFoundKind(err error) string {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return nf.Kind
	}
	return ""
}
