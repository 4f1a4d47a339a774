// Package config defines the sigtok CLI configuration.
//
// Values come from, in increasing precedence: built-in defaults, the YAML
// file at DefaultConfigPath (optional), SIGTOK_* environment variables and
// command-line flags.
package config

// CLIConfig is the configuration for the sigtok CLI.
type CLIConfig struct {
	// KeyFile is the private key used to sign and verify tokens.
	KeyFile string `koanf:"key_file" yaml:"key_file"`
	// Scheme selects the algorithm for newly generated keys.
	Scheme string `koanf:"scheme" yaml:"scheme"`
	// Passphrase encrypts the key file at rest when non-empty.
	Passphrase string `koanf:"passphrase" yaml:"passphrase"`

	// Store is badger, memory or remote.
	Store    string `koanf:"store" yaml:"store"`
	StoreDir string `koanf:"store_dir" yaml:"store_dir"`
	Remote   string `koanf:"remote" yaml:"remote"`
	// RemoteAuthToken is sent as a bearer token to the remote store.
	RemoteAuthToken string `koanf:"remote_auth_token" yaml:"remote_auth_token"`
	// RemoteCA is a PEM file of extra roots trusted for an https remote.
	RemoteCA string `koanf:"remote_ca" yaml:"remote_ca"`

	// Output is text, json or yaml.
	Output   string `koanf:"output" yaml:"output"`
	LogLevel string `koanf:"log_level" yaml:"log_level"`
}
