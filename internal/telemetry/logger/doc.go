// Package logger provides structured logging for sigtok.
//
// It wraps log/slog behind a small Logger interface:
//
//   - logger.go: handler construction, dynamic level, package defaults
//   - context.go: context propagation of loggers and request IDs
//   - redact.go: redaction of key material and credentials
//
// Token and content addresses are public values and are logged as-is.
// Private keys, passphrases, seal keys and bearer credentials never are.
package logger
