package config

import "time"

// ServerConfig is the root configuration for sigtok-server.
type ServerConfig struct {
	Server   ServerSection   `koanf:"server" yaml:"server"`
	Storage  StorageSection  `koanf:"storage" yaml:"storage"`
	Signing  SigningSection  `koanf:"signing" yaml:"signing"`
	Security SecuritySection `koanf:"security" yaml:"security"`
	Log      LogSection      `koanf:"log" yaml:"log"`
}

// ServerSection configures the HTTP listener.
type ServerSection struct {
	Addr            string        `koanf:"addr" yaml:"addr"`
	TLSCertFile     string        `koanf:"tls_cert_file" yaml:"tls_cert_file"`
	TLSKeyFile      string        `koanf:"tls_key_file" yaml:"tls_key_file"`
	ReadTimeout     time.Duration `koanf:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" yaml:"shutdown_timeout"`
	// MaxBodyBytes bounds token payloads and blob uploads.
	MaxBodyBytes int `koanf:"max_body_bytes" yaml:"max_body_bytes"`
}

// StorageSection selects the content store.
type StorageSection struct {
	// Backend is badger, memory or remote.
	Backend string `koanf:"backend" yaml:"backend"`
	DataDir string `koanf:"data_dir" yaml:"data_dir"`
	// Remote is the upstream sigtok-server for the remote backend.
	Remote            string        `koanf:"remote" yaml:"remote"`
	RemoteAuthToken   string        `koanf:"remote_auth_token" yaml:"remote_auth_token"`
	// RemoteCA is a PEM file of extra roots trusted for an https upstream.
	RemoteCA          string        `koanf:"remote_ca" yaml:"remote_ca"`
	CompressThreshold int           `koanf:"compress_threshold" yaml:"compress_threshold"`
	GCInterval        time.Duration `koanf:"gc_interval" yaml:"gc_interval"`
	// SealKey is a hex-encoded 32-byte key enabling at-rest sealing.
	SealKey string `koanf:"seal_key" yaml:"seal_key"`
}

// SigningSection locates the server's signing key.
type SigningSection struct {
	KeyFile    string `koanf:"key_file" yaml:"key_file"`
	Scheme     string `koanf:"scheme" yaml:"scheme"`
	Passphrase string `koanf:"passphrase" yaml:"passphrase"`
}

// SecuritySection configures request admission.
type SecuritySection struct {
	// AuthToken, when set, is required as a bearer token on write routes.
	AuthToken string `koanf:"auth_token" yaml:"auth_token"`
	// RateLimit is the sustained per-client request rate; zero disables it.
	RateLimit float64 `koanf:"rate_limit" yaml:"rate_limit"`
	RateBurst int     `koanf:"rate_burst" yaml:"rate_burst"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}
