// Package errors provides structured error types for skewer.
//
// Layout code works on numeric and geometric input, so the taxonomy is
// narrow:
//   - INVALID_*: input that cannot be laid out (bad coordinates, negative
//     weights, NaN positions, broken configuration)
//   - UNMAPPED: a feature whose coordinate has no pixel position in the view
//   - NOT_FOUND: a unit key that is not part of the current batch
//   - INTERNAL_*: invariant violations detected by self-checks
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFeature, "negative weight %d", w)
//	if errors.Is(err, errors.ErrCodeInvalidFeature) {
//	    // drop the feature and count it
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidConfig, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFeature  Code = "INVALID_FEATURE"
	ErrCodeInvalidConfig   Code = "INVALID_CONFIG"
	ErrCodeInvalidStrategy Code = "INVALID_STRATEGY"
	ErrCodeInvalidViewport Code = "INVALID_VIEWPORT"

	// Mapping errors
	ErrCodeUnmapped Code = "UNMAPPED"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// DropCount summarizes how many features a layout pass discarded, for the
// "N items could not be mapped" message shown next to a track.
type DropCount struct {
	Invalid  int `json:"invalid"`  // failed validation (bad coordinate, weight, NaN position)
	Unmapped int `json:"unmapped"` // valid but outside every displayed region
}

// Total returns the number of discarded features.
func (d DropCount) Total() int { return d.Invalid + d.Unmapped }

// Message returns a user-facing summary, or "" when nothing was dropped.
func (d DropCount) Message() string {
	switch n := d.Total(); {
	case n == 0:
		return ""
	case n == 1:
		return "1 item could not be mapped"
	default:
		return fmt.Sprintf("%d items could not be mapped", n)
	}
}
