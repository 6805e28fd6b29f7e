// Package errors defines the error taxonomy shared by every stage of a run.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents application-specific error codes
type ErrorCode string

const (
	// ErrCodeConfiguration is a required setting that is missing or invalid.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	// ErrCodeTransport is a failed call to GitHub or the gist store.
	ErrCodeTransport ErrorCode = "TRANSPORT_ERROR"
	// ErrCodeParse is a collaborator response that does not have the expected shape.
	ErrCodeParse ErrorCode = "PARSE_ERROR"
)

// Exit codes reported by the process.
const (
	ExitFailure       = 1
	ExitConfiguration = 2
)

// AppError represents an application error with additional context
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new application error
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap wraps an existing error with application context
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Wrapf wraps an existing error with formatted message
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

// Configuration creates a configuration error.
func Configuration(message string) *AppError {
	return New(ErrCodeConfiguration, message)
}

// Transport wraps a failed collaborator call.
func Transport(err error, message string) *AppError {
	return Wrap(err, ErrCodeTransport, message)
}

// Parse creates a parse error for an unexpected response shape.
func Parse(format string, args ...any) *AppError {
	return New(ErrCodeParse, fmt.Sprintf(format, args...))
}

// CodeOf returns the code of the first AppError in err's chain, or "" if there is none.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Is reports whether err carries the given code anywhere in its chain.
// Joined errors are searched branch by branch.
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}
	if appErr, ok := err.(*AppError); ok && appErr.Code == code {
		return true
	}
	switch e := err.(type) {
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if Is(inner, code) {
				return true
			}
		}
		return false
	case interface{ Unwrap() error }:
		return Is(e.Unwrap(), code)
	}
	return false
}

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if Is(err, ErrCodeConfiguration) {
		return ExitConfiguration
	}
	return ExitFailure
}
