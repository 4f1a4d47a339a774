package config

import "strings"

// Sanitize returns a copy of the config with secrets masked, for logging.
func Sanitize(cfg *ServerConfig) *ServerConfig {
	sanitized := *cfg
	sanitized.Storage.SealKey = maskSecret(sanitized.Storage.SealKey)
	sanitized.Storage.RemoteAuthToken = maskSecret(sanitized.Storage.RemoteAuthToken)
	sanitized.Signing.Passphrase = maskSecret(sanitized.Signing.Passphrase)
	sanitized.Security.AuthToken = maskSecret(sanitized.Security.AuthToken)
	return &sanitized
}

func maskSecret(s string) string {
	switch {
	case s == "":
		return ""
	case len(s) <= 4:
		return "****"
	default:
		return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
	}
}
