// Package errors provides structured error types for digitaug.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library, batch runner and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - RANGE_VIOLATION: a transform parameter outside its permitted interval
//   - NOT_FOUND_*: Resource not found
//   - NETWORK_*: Cache backend connectivity errors
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidImage, "image must be square, got %dx%d", w, h)
//	if errors.Is(err, errors.ErrCodeInvalidImage) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeNetwork, origErr, "redis get %s", key)
//
// # Range violations
//
// [RangeViolationError] is the one error kind raised by the augmentation core.
// It carries the parameter name, the offending value and the permitted bounds,
// and reports [ErrCodeRangeViolation] through [Is] and [GetCode].
package errors

import (
	"errors"
	"fmt"
	"strconv"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidImage  Code = "INVALID_IMAGE"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Transform parameter errors
	ErrCodeRangeViolation Code = "RANGE_VIOLATION"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// coder is implemented by error types that expose a Code without being *Error.
type coder interface {
	Code() Code
}

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
// It unwraps the error chain looking for an *Error with a matching code, or
// for any error type exposing a Code() method (such as *RangeViolationError).
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// The outermost coded error in the chain wins.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	for err != nil {
		switch e := err.(type) {
		case *Error:
			return e.Code
		case coder:
			return e.Code()
		}
		err = errors.Unwrap(err)
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For range violations, returns the violation without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	var rv *RangeViolationError
	if errors.As(err, &rv) {
		return rv.Detail()
	}
	return err.Error()
}

// RangeViolationError reports a transform parameter outside its permitted range.
type RangeViolationError struct {
	Param string  // parameter or axis name, e.g. "angle" or "width"
	Value float64 // offending value
	Min   float64 // inclusive lower bound
	Max   float64 // inclusive upper bound

	// Reason replaces "out of range [min, max]" in the message when set.
	Reason string
}

// NewRangeViolation creates a RangeViolationError.
func NewRangeViolation(param string, value, lo, hi float64) *RangeViolationError {
	return &RangeViolationError{Param: param, Value: value, Min: lo, Max: hi}
}

// NewInvertedRange reports a range whose lower bound exceeds its upper one,
// e.g. "zoom.range.min=1.1 exceeds max 0.9".
func NewInvertedRange(param string, lo, hi float64) *RangeViolationError {
	return &RangeViolationError{
		Param:  param,
		Value:  lo,
		Min:    lo,
		Max:    hi,
		Reason: "exceeds max " + formatNumber(hi),
	}
}

// Error implements the error interface.
func (e *RangeViolationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCodeRangeViolation, e.Detail())
}

// Detail returns the message without the code prefix,
// e.g. "width=5 out of range [-4, 4]".
func (e *RangeViolationError) Detail() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s=%s %s", e.Param, formatNumber(e.Value), e.Reason)
	}
	return fmt.Sprintf("%s=%s out of range [%s, %s]",
		e.Param, formatNumber(e.Value), formatNumber(e.Min), formatNumber(e.Max))
}

// Code returns the error code for this error type.
func (e *RangeViolationError) Code() Code {
	return ErrCodeRangeViolation
}

// IsRangeViolation reports whether err wraps a *RangeViolationError.
func IsRangeViolation(err error) bool {
	var rv *RangeViolationError
	return errors.As(err, &rv)
}

// formatNumber prints whole numbers without a fractional part (4, not 4.000000).
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
