package config

import (
	"time"

	"github.com/yndnr/sigtok-go/internal/storage/cas"
)

// Default configuration values.
const (
	DefaultHTTPAddr        = "127.0.0.1:5080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultMaxBodyBytes    = cas.MaxBlobSize

	DefaultStorageBackend = "badger"
	DefaultDataDir        = "/var/lib/sigtok-server/data"
	DefaultGCInterval     = 10 * time.Minute

	DefaultKeyFile = "/var/lib/sigtok-server/private.key"
	DefaultScheme  = "Ed25519"

	DefaultRateLimit = 50
	DefaultRateBurst = 100

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			Addr:            DefaultHTTPAddr,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    DefaultWriteTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
			MaxBodyBytes:    DefaultMaxBodyBytes,
		},
		Storage: StorageSection{
			Backend:    DefaultStorageBackend,
			DataDir:    DefaultDataDir,
			GCInterval: DefaultGCInterval,
		},
		Signing: SigningSection{
			KeyFile: DefaultKeyFile,
			Scheme:  DefaultScheme,
		},
		Security: SecuritySection{
			RateLimit: DefaultRateLimit,
			RateBurst: DefaultRateBurst,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
