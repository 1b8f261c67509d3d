package engine

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies engine failures. The string form is stable and is sent to
// clients as error_kind.
type Kind string

const (
	// KindInvalidParameter marks an out-of-range or malformed field.
	KindInvalidParameter Kind = "invalid_parameter"
	// KindNumericInstability marks a filter whose state diverged.
	KindNumericInstability Kind = "numeric_instability"
	// KindResourceExceeded marks a request over a size or time budget.
	KindResourceExceeded Kind = "resource_exceeded"
	// KindInternal marks an unexpected fault.
	KindInternal Kind = "internal_error"
)

// Error is the structured failure returned by every engine operation.
type Error struct {
	Kind    Kind
	Field   string // offending request field, if any
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of err. Errors that are not an *Error map to
// KindInternal, except context expiry which maps to KindResourceExceeded.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindResourceExceeded
	}

	return KindInternal
}

// IsKind reports whether err carries kind k.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

func invalidParam(field, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidParameter, Field: field, Message: fmt.Sprintf(format, args...)}
}

func resourceExceeded(field, format string, args ...any) *Error {
	return &Error{Kind: KindResourceExceeded, Field: field, Message: fmt.Sprintf(format, args...)}
}

func numericInstability(index int, value float64) *Error {
	return &Error{
		Kind:    KindNumericInstability,
		Message: fmt.Sprintf("filter output diverged at sample %d (%v)", index, value),
	}
}

func internalError(err error) *Error {
	return &Error{Kind: KindInternal, Message: "internal processing error", Err: err}
}

func cancelled(err error) *Error {
	return &Error{Kind: KindResourceExceeded, Message: "processing budget exceeded", Err: err}
}
