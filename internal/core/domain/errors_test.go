package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		expected string
	}{
		{
			name:     "error without details",
			err:      NewDomainError("SIGTOK-TEST-1000", "test message"),
			expected: "[SIGTOK-TEST-1000] test message",
		},
		{
			name:     "error with details",
			err:      NewDomainError("SIGTOK-TEST-1001", "test message").WithDetails("extra info"),
			expected: "[SIGTOK-TEST-1001] test message: extra info",
		},
		{
			name:     "error with details and cause",
			err:      NewDomainError("SIGTOK-TEST-1002", "test message").WithDetails("extra").WithCause(fmt.Errorf("disk full")),
			expected: "[SIGTOK-TEST-1002] test message: extra: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestDomainError_Is(t *testing.T) {
	err1 := NewDomainError("SIGTOK-TEST-1000", "message 1")
	err2 := NewDomainError("SIGTOK-TEST-1000", "message 2")
	err3 := NewDomainError("SIGTOK-TEST-1001", "message 1")

	if !errors.Is(err1, err2) {
		t.Error("errors.Is should return true for same error code")
	}
	if errors.Is(err1, err3) {
		t.Error("errors.Is should return false for different error code")
	}
	if errors.Is(err1, fmt.Errorf("some error")) {
		t.Error("errors.Is should return false for non-DomainError")
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying cause")
	err := ErrStorage.WithCause(cause)

	if unwrapped := errors.Unwrap(err); unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}
	if errors.Unwrap(ErrStorage) != nil {
		t.Error("Unwrap() should return nil when no cause")
	}
}

func TestDomainError_CopiesDoNotMutate(t *testing.T) {
	withDetails := ErrMalformedEnvelope.WithDetailsf("field %q missing", "data")
	withCause := ErrMalformedEnvelope.WithCause(fmt.Errorf("boom"))

	if ErrMalformedEnvelope.Details != "" || ErrMalformedEnvelope.Cause != nil {
		t.Fatal("package-level error was mutated")
	}
	if withDetails.Details != `field "data" missing` {
		t.Errorf("Details = %q", withDetails.Details)
	}
	if withCause.Code != ErrMalformedEnvelope.Code {
		t.Errorf("Code = %q, want %q", withCause.Code, ErrMalformedEnvelope.Code)
	}
}

func TestIsDomainError(t *testing.T) {
	wrapped := fmt.Errorf("wrapped: %w", ErrVerificationFailed)

	if !IsDomainError(wrapped, "SIGTOK-CRYP-4010") {
		t.Error("IsDomainError should work with wrapped errors")
	}
	if IsDomainError(wrapped, "SIGTOK-CRYP-9999") {
		t.Error("IsDomainError should return false for non-matching code")
	}
	if !IsDomainError(wrapped, "") {
		t.Error("IsDomainError with empty code should match any domain error")
	}
	if IsDomainError(fmt.Errorf("regular error"), "") {
		t.Error("IsDomainError should return false for non-DomainError")
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"domain error", ErrBlobNotFound, "SIGTOK-STOR-4040"},
		{"wrapped domain error", fmt.Errorf("wrapped: %w", ErrNoSignatures), "SIGTOK-CRYP-4011"},
		{"regular error", fmt.Errorf("regular error"), ""},
		{"nil error", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorCode(tt.err); got != tt.expected {
				t.Errorf("GetErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		err  *DomainError
		code string
	}{
		{ErrStorage, "SIGTOK-STOR-5030"},
		{ErrBlobNotFound, "SIGTOK-STOR-4040"},
		{ErrContentMismatch, "SIGTOK-STOR-4220"},
		{ErrMalformedEnvelope, "SIGTOK-TOKN-4001"},
		{ErrInvalidHash, "SIGTOK-TOKN-4002"},
		{ErrPayloadEncoding, "SIGTOK-TOKN-4003"},
		{ErrTokenInvalid, "SIGTOK-TOKN-4040"},
		{ErrVerificationFailed, "SIGTOK-CRYP-4010"},
		{ErrNoSignatures, "SIGTOK-CRYP-4011"},
		{ErrSignatureNotFound, "SIGTOK-CRYP-4040"},
		{ErrSigningFailed, "SIGTOK-CRYP-5001"},
		{ErrKeyFile, "SIGTOK-CRYP-5002"},
		{ErrInvalidArgument, "SIGTOK-ARG-4000"},
		{ErrUnauthorized, "SIGTOK-SYS-4010"},
		{ErrRateLimited, "SIGTOK-SYS-4290"},
		{ErrInternal, "SIGTOK-SYS-5000"},
	}

	seen := make(map[string]bool)
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Error code = %q, want %q", tt.err.Code, tt.code)
			}
			if tt.err.Message == "" {
				t.Error("Error message should not be empty")
			}
			if seen[tt.code] {
				t.Errorf("duplicate error code %q", tt.code)
			}
			seen[tt.code] = true
		})
	}
}
