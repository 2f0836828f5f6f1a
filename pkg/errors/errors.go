// Package errors defines the coded error type shared by every mozart
// component. Codes are stable and meant for tests and for the CLI shell, which
// maps any propagated error to a non-zero exit status.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Required configuration missing, empty or unreadable
	ErrConfiguration ErrorCode = "CONFIGURATION"

	// Declared dependency not found on disk
	ErrResolution ErrorCode = "RESOLUTION"

	// Manifest document malformed
	ErrParse ErrorCode = "PARSE"

	// Move, copy, delete or write failure
	ErrFileOperation ErrorCode = "FILE_OPERATION"
)

// MozartError represents a structured error with code and details
type MozartError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *MozartError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *MozartError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *MozartError) Is(target error) bool {
	var targetErr *MozartError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new MozartError with the given code and message
func New(code ErrorCode, message string) *MozartError {
	return &MozartError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new MozartError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *MozartError {
	return &MozartError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a MozartError
func Wrap(err error, code ErrorCode, message string) *MozartError {
	if err == nil {
		return nil
	}
	return &MozartError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *MozartError {
	if err == nil {
		return nil
	}
	return &MozartError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *MozartError) WithDetail(key string, value interface{}) *MozartError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var mozartErr *MozartError
	if errors.As(err, &mozartErr) {
		return mozartErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a MozartError
func GetErrorCode(err error) ErrorCode {
	var mozartErr *MozartError
	if errors.As(err, &mozartErr) {
		return mozartErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a MozartError
func GetErrorDetails(err error) map[string]interface{} {
	var mozartErr *MozartError
	if errors.As(err, &mozartErr) {
		return mozartErr.Details
	}
	return nil
}

// IsFatal reports whether err aborts a compose run before the filesystem is
// touched: configuration, resolution and parse failures.
func IsFatal(err error) bool {
	switch GetErrorCode(err) {
	case ErrConfiguration, ErrResolution, ErrParse:
		return true
	}
	return false
}
