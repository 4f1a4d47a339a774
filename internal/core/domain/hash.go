package domain

import (
	"encoding/base64"
	"unicode/utf8"
)

// HashLen is the length of every content address produced by the store:
// a 32-byte digest in base64 RawURL encoding (32 bytes -> 43 chars).
const HashLen = 43

// Hash is a content address. The zero value is not a valid address.
type Hash string

// String returns the address as a plain string.
func (h Hash) String() string {
	return string(h)
}

// Valid reports whether h has the exact shape of a content address.
func (h Hash) Valid() bool {
	return ValidateHashFormat(string(h))
}

// ParseHash converts an untrusted string into a Hash, rejecting anything
// that is not exactly HashLen characters of base64 RawURL.
func ParseHash(s string) (Hash, error) {
	if !ValidateHashFormat(s) {
		return "", ErrInvalidHash.WithDetailsf("want %d base64url characters, got %d characters", HashLen, utf8.RuneCountInString(s))
	}
	return Hash(s), nil
}

// ValidateHashFormat checks if a string has valid content address format.
func ValidateHashFormat(s string) bool {
	if len(s) != HashLen {
		return false
	}
	decoded, err := base64.RawURLEncoding.DecodeString(s)
	return err == nil && len(decoded) == 32
}

// IsTokenString reports whether a command-line argument names an existing
// token (read path) rather than raw data to wrap and sign (create path).
//
// The decision is purely length based: an argument of exactly HashLen
// characters (not bytes) is always a token, anything else is always data.
func IsTokenString(arg string) bool {
	return utf8.RuneCountInString(arg) == HashLen
}
