package types

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes failures so callers can branch on them without
// parsing messages.
type ErrorKind string

const (
	KindFormat   ErrorKind = "format"    // raw input failed validation
	KindNotFound ErrorKind = "not_found" // referenced phone or contact does not exist
	KindUsage    ErrorKind = "usage"     // wrong argument count (shell layer only)
)

// Error is the structured error returned by validators, records and the shell.
type Error struct {
	Kind    ErrorKind
	Message string
	// Value is the offending input, if any
	Value string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrFormat) works
// on wrapped values.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is checks
var (
	ErrFormat   = &Error{Kind: KindFormat, Message: "invalid format"}
	ErrNotFound = &Error{Kind: KindNotFound, Message: "not found"}
	ErrUsage    = &Error{Kind: KindUsage, Message: "usage"}
)

// FormatError reports a validation failure for value.
func FormatError(value, message string) *Error {
	return &Error{Kind: KindFormat, Message: message, Value: value}
}

// NotFoundError reports a missing phone or contact.
func NotFoundError(value, format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...), Value: value}
}

// UsageError reports a malformed command invocation.
func UsageError(synopsis string) *Error {
	return &Error{Kind: KindUsage, Message: "usage: " + synopsis}
}

// KindOf returns the kind of the first *Error in err's chain, or "" when err
// is not one of ours.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
