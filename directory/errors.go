package directory

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Kind categorizes directory errors.
type Kind int

const (
	// KindUnexpected covers storage and other infrastructure failures.
	KindUnexpected Kind = iota
	// KindValidation means the input was missing or malformed.
	KindValidation
	// KindConflict means a uniqueness rule would be violated.
	KindConflict
	// KindNotFound means no record matched the given id, email or course.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindConflict:
		return "Conflict"
	case KindNotFound:
		return "NotFound"
	default:
		return "Unexpected"
	}
}

// Error is returned by every directory operation that fails.
// Message is safe to show to users; Err holds the underlying cause, if any.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the kind of err. Errors that did not originate in this
// package are Unexpected.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnexpected
}

func IsValidation(err error) bool { return err != nil && KindOf(err) == KindValidation }
func IsConflict(err error) bool   { return err != nil && KindOf(err) == KindConflict }
func IsNotFound(err error) bool   { return err != nil && KindOf(err) == KindNotFound }

func validationError(messages ...string) *Error {
	return &Error{Kind: KindValidation, Message: strings.Join(messages, ", ")}
}

func conflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

func notFoundError(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// translate maps storage errors onto the taxonomy. Directory errors pass
// through untouched; a unique index violation becomes conflict.
func translate(op string, err error, conflict, notFound string) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return conflictError(conflict)
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundError(notFound)
	}
	return &Error{Kind: KindUnexpected, Message: "Server error", Err: fmt.Errorf("%s: %w", op, err)}
}
