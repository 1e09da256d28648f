// Package errors provides structured error types for evotree.
//
// Every failure that reaches a user carries a [Code] so the CLI and the HTTP
// API can decide how loud to be about it:
//
//   - NOT_FOUND: resolution exhausted every fallback stage. Expected outcome,
//     shown as a hint rather than a fault.
//   - REMOTE_SERVICE: network, HTTP or decoding failure on a primary remote
//     call. Aborts the whole resolution.
//   - ENRICHMENT_LOOKUP: one candidate's alias list could not be fetched.
//     Absorbed by the resolver; only ever logged.
//   - PERSISTENCE: the tree store failed to load or save. Absorbed by the
//     workspace.
//   - INVALID_INPUT: the request itself is unusable (empty name, bad key).
//
// # Usage
//
//	err := errors.Wrap(errors.ErrCodeRemoteService, cause, "search %q", q)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // show hint
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes.
const (
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeRemoteService    Code = "REMOTE_SERVICE"
	ErrCodeEnrichmentLookup Code = "ENRICHMENT_LOOKUP"
	ErrCodePersistence      Code = "PERSISTENCE"
	ErrCodeInternal         Code = "INTERNAL_ERROR"
)

// NotFoundHint is the message shown when a name cannot be resolved.
const NotFoundHint = "Species not found. Try the scientific name (for example: Panthera leo)."

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
// Wrapping an error that already carries the same code returns it unchanged
// so stage-by-stage wrapping does not stack prefixes.
func Wrap(code Code, cause error, format string, args ...any) error {
	if cause == nil {
		return nil
	}
	var e *Error
	if errors.As(cause, &e) && e.Code == code {
		return cause
	}
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

// UserMessage returns a user-facing message for err.
// Resolution misses get the scientific-name hint and remote failures a
// generic message; other coded errors return their message without the code
// prefix.
func UserMessage(err error) string {
	switch GetCode(err) {
	case ErrCodeNotFound:
		return NotFoundHint
	case ErrCodeRemoteService:
		return "Failed to reach the taxonomy service. Please try again."
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
