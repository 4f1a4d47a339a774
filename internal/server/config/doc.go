// Package config defines the sigtok-server configuration.
//
//   - spec.go: ServerConfig struct definition
//   - default.go: default values
//   - verify.go: validation
//   - sanitize.go: secret masking for logs
//
// Configuration is loaded through internal/infra/confloader from defaults,
// a YAML file and SIGTOK_* environment variables.
package config
