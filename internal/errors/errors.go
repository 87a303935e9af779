// Package errors provides error types with actionable suggestions for nps.
// Errors carry a sentinel Kind so callers can classify them with errors.Is
// while still unwrapping to the underlying cause.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Common sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates a manifest or directory was not found.
	ErrNotFound = errors.New("not found")
	// ErrRead indicates an I/O failure reading an existing file.
	ErrRead = errors.New("read error")
	// ErrParse indicates malformed JSON or a manifest of the wrong shape.
	ErrParse = errors.New("parse error")
	// ErrInvalidName indicates a dependency name that is not a safe relative path.
	ErrInvalidName = errors.New("invalid name")
	// ErrInvalidPattern indicates a filter expression that does not compile.
	ErrInvalidPattern = errors.New("invalid pattern")
	// ErrOutput indicates a failure writing to the destination stream.
	ErrOutput = errors.New("output error")
	// ErrConfig indicates a configuration error.
	ErrConfig = errors.New("configuration error")
)

// Error is the base error type for nps errors.
// It wraps an underlying error and provides additional context.
type Error struct {
	// Kind is the category of error (e.g., ErrNotFound, ErrParse).
	Kind error
	// Message is the human-readable error message.
	Message string
	// Suggestion provides actionable advice for resolving the error.
	Suggestion string
	// Cause is the underlying error that caused this error.
	Cause error
	// Details provides additional context (e.g., file path, pattern).
	Details map[string]string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return e.Kind
}

// Is reports whether the error's Kind matches the target.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// Format returns the details and suggestion of the error as a report to
// show below the error message. It is empty when the error has neither.
func (e *Error) Format() string {
	var sb strings.Builder

	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("Details:\n")
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", k, e.Details[k]))
		}
	}

	if e.Suggestion != "" {
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("Suggestion: ")
		sb.WriteString(e.Suggestion)
		sb.WriteString("\n")
	}

	return sb.String()
}

// WithDetails adds details to the error.
func (e *Error) WithDetails(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, kind error, message string) *Error {
	return &Error{
		Kind:    kind,
		Message: message,
		Cause:   err,
	}
}
