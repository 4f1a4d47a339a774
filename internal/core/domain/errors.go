// Package domain defines the core domain types for sigtok.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain error with a structured error code.
//
// Codes follow the format SIGTOK-<AREA>-<NNNN>, where the numeric part
// mirrors the closest HTTP status so transports can map errors mechanically.
type DomainError struct {
	Code    string // Error code (e.g., "SIGTOK-TOKN-4001")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support. Two domain errors match when their
// codes match, regardless of details or cause.
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

// WithDetailsf is WithDetails with fmt.Sprintf formatting.
func (e *DomainError) WithDetailsf(format string, args ...any) *DomainError {
	return e.WithDetails(fmt.Sprintf(format, args...))
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

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Storage Errors (STOR)
// ============================================================================

var (
	// ErrStorage indicates the content store could not complete an operation.
	ErrStorage = NewDomainError("SIGTOK-STOR-5030", "storage failure")

	// ErrBlobNotFound indicates no content exists at the requested address.
	ErrBlobNotFound = NewDomainError("SIGTOK-STOR-4040", "content not found")

	// ErrContentMismatch indicates fetched content does not hash to its address.
	ErrContentMismatch = NewDomainError("SIGTOK-STOR-4220", "content does not match address")
)

// ============================================================================
// Token Errors (TOKN)
// ============================================================================

var (
	// ErrMalformedEnvelope indicates the value at an address is not a token envelope.
	ErrMalformedEnvelope = NewDomainError("SIGTOK-TOKN-4001", "value is not a token envelope")

	// ErrInvalidHash indicates a string is not a well-formed content address.
	ErrInvalidHash = NewDomainError("SIGTOK-TOKN-4002", "invalid content address")

	// ErrPayloadEncoding indicates the payload could not be encoded or decoded as JSON.
	ErrPayloadEncoding = NewDomainError("SIGTOK-TOKN-4003", "payload is not JSON-serializable")

	// ErrTokenInvalid is the uniform outcome of reading a token that cannot be trusted.
	ErrTokenInvalid = NewDomainError("SIGTOK-TOKN-4040", "invalid token")
)

// ============================================================================
// Cryptographic Errors (CRYP)
// ============================================================================

var (
	// ErrVerificationFailed indicates a signature did not verify against the key
	// or did not cover the payload's address.
	ErrVerificationFailed = NewDomainError("SIGTOK-CRYP-4010", "signature verification failed")

	// ErrNoSignatures indicates a token carries no signatures to check.
	ErrNoSignatures = NewDomainError("SIGTOK-CRYP-4011", "token has no signatures")

	// ErrSignatureNotFound indicates the signature blob a token names is absent
	// from the store.
	ErrSignatureNotFound = NewDomainError("SIGTOK-CRYP-4040", "signature not found")

	// ErrSigningFailed indicates the signing service rejected the operation.
	ErrSigningFailed = NewDomainError("SIGTOK-CRYP-5001", "signing failed")

	// ErrKeyFile indicates a private key file could not be loaded or written.
	ErrKeyFile = NewDomainError("SIGTOK-CRYP-5002", "key file error")
)

// ============================================================================
// Argument Errors (ARG)
// ============================================================================

var (
	// ErrInvalidArgument indicates an invalid argument.
	ErrInvalidArgument = NewDomainError("SIGTOK-ARG-4000", "invalid argument")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrUnauthorized indicates a write request without valid credentials.
	ErrUnauthorized = NewDomainError("SIGTOK-SYS-4010", "unauthorized")

	// ErrRateLimited indicates the caller exceeded its request budget.
	ErrRateLimited = NewDomainError("SIGTOK-SYS-4290", "too many requests")

	// ErrInternal indicates an unexpected server-side failure.
	ErrInternal = NewDomainError("SIGTOK-SYS-5000", "internal server error")
)
