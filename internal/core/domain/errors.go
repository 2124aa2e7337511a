package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business error with a structured code.
// Codes have the form AAA-{CATEGORY}-{NNNN}.
type DomainError struct {
	Code    string // Error code (e.g., "AAA-SESS-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// GetErrorCode extracts the code from err, or "" if it is not a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Session errors (SESS).
var (
	ErrSessionNotFound   = NewDomainError("AAA-SESS-4040", "session not found")
	ErrSessionExpired    = NewDomainError("AAA-SESS-4041", "session expired")
	ErrSessionInactive   = NewDomainError("AAA-SESS-4042", "session not active")
	ErrSessionValidation = NewDomainError("AAA-SESS-4001", "session validation failed")
)

// Claim errors (CLAM).
var (
	ErrClaimNotFound   = NewDomainError("AAA-CLAM-4040", "claim not found")
	ErrClaimValidation = NewDomainError("AAA-CLAM-4001", "claim validation failed")
)

// Replication errors (REPL).
var (
	// ErrReplicationFailed indicates a change was applied locally but
	// could not be sent to every peer.
	ErrReplicationFailed = NewDomainError("AAA-REPL-5030", "replication to peers failed")

	// ErrUnexpectedObject indicates a peer sent an object this node does
	// not mirror.
	ErrUnexpectedObject = NewDomainError("AAA-REPL-4000", "unexpected replicated object")
)

// System errors (SYS).
var (
	ErrInternal        = NewDomainError("AAA-SYS-5000", "internal error")
	ErrInvalidArgument = NewDomainError("AAA-SYS-4000", "invalid argument")
)
