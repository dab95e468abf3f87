// Package errors provides structured error types for spancal.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI, the HTTP API and the core packages
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Calibration is human-driven and not idempotent, so none of these errors are
// retried automatically. A caller that wants to retry re-runs the whole flow.
//
//   - INSUFFICIENT_MONITORS: fewer than two monitors were supplied
//   - INTERACTION_CANCELLED: the user aborted a Scale or Gap step
//   - INTERACTION_SURFACE_FAILURE: the adjustment surface could not be driven
//   - SERIALIZATION_FAILURE: an export document could not be produced
//   - NO_PPI_ANCHOR: reconstruction found no monitor with a known pixel density
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInsufficientMonitors, "need at least 2 monitors, got %d", n)
//	if errors.Is(err, errors.ErrCodeInsufficientMonitors) {
//	    // Handle the failure
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStorage, origErr, "save run %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Calibration flow errors
	ErrCodeInsufficientMonitors Code = "INSUFFICIENT_MONITORS"
	ErrCodeCancelled            Code = "INTERACTION_CANCELLED"
	ErrCodeSurfaceFailure       Code = "INTERACTION_SURFACE_FAILURE"
	ErrCodeSessionBusy          Code = "SESSION_BUSY"

	// Reconstruction and export errors
	ErrCodeNoPPIAnchor   Code = "NO_PPI_ANCHOR"
	ErrCodeSerialization Code = "SERIALIZATION_FAILURE"

	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidMonitor Code = "INVALID_MONITOR"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"

	// Resource not found errors
	ErrCodeNotFound    Code = "NOT_FOUND"
	ErrCodeRunNotFound Code = "RUN_NOT_FOUND"

	// Persistence errors
	ErrCodeStorage Code = "STORAGE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// Stage names the part of the calibration flow an error came from.
// It is used by the CLI and HTTP API to report "which stage failed".
func Stage(err error) string {
	switch GetCode(err) {
	case ErrCodeInsufficientMonitors, ErrCodeInvalidMonitor, ErrCodeSessionBusy:
		return "setup"
	case ErrCodeCancelled, ErrCodeSurfaceFailure:
		return "interaction"
	case ErrCodeNoPPIAnchor:
		return "reconstruction"
	case ErrCodeSerialization:
		return "export"
	case ErrCodeStorage, ErrCodeRunNotFound:
		return "storage"
	case "":
		return "unknown"
	default:
		return "input"
	}
}
