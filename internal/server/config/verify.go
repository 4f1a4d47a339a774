package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/yndnr/sigtok-go/internal/crypto/signing"
	"github.com/yndnr/sigtok-go/internal/storage/cas"
	"github.com/yndnr/sigtok-go/internal/telemetry/logger"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	if err := verifySigning(&cfg.Signing); err != nil {
		return err
	}
	if err := verifySecurity(&cfg.Security); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyLog(cfg *LogSection) error {
	if _, err := logger.ParseLevel(cfg.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text":
		return nil
	default:
		return fmt.Errorf("log.format %q: want json or text", cfg.Format)
	}
}

func verifyServer(cfg *ServerSection) error {
	if _, _, err := net.SplitHostPort(cfg.Addr); err != nil {
		return fmt.Errorf("server.addr %q: %w", cfg.Addr, err)
	}
	if (cfg.TLSCertFile == "") != (cfg.TLSKeyFile == "") {
		return errors.New("server.tls_cert_file and server.tls_key_file must be set together")
	}
	if cfg.MaxBodyBytes <= 0 {
		return errors.New("server.max_body_bytes must be positive")
	}
	if cfg.MaxBodyBytes > cas.MaxBlobSize {
		return fmt.Errorf("server.max_body_bytes %d exceeds the blob limit %d", cfg.MaxBodyBytes, cas.MaxBlobSize)
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	switch strings.ToLower(cfg.Backend) {
	case cas.BackendBadger:
		if cfg.DataDir == "" {
			return errors.New("storage.data_dir is required for the badger backend")
		}
	case cas.BackendRemote:
		if cfg.Remote == "" {
			return errors.New("storage.remote is required for the remote backend")
		}
	case cas.BackendMemory:
	default:
		return fmt.Errorf("storage.backend %q: want badger, memory or remote", cfg.Backend)
	}

	if cfg.SealKey != "" {
		if _, err := SealKeyBytes(cfg.SealKey); err != nil {
			return err
		}
	}
	return nil
}

func verifySigning(cfg *SigningSection) error {
	if cfg.KeyFile == "" {
		return errors.New("signing.key_file is required")
	}
	if _, err := signing.LookupScheme(cfg.Scheme); err != nil {
		return fmt.Errorf("signing.scheme: %w", err)
	}
	return nil
}

func verifySecurity(cfg *SecuritySection) error {
	if cfg.RateLimit < 0 {
		return errors.New("security.rate_limit must not be negative")
	}
	if cfg.RateLimit > 0 && cfg.RateBurst < 1 {
		return errors.New("security.rate_burst must be at least 1 when rate limiting")
	}
	return nil
}

// SealKeyBytes decodes the hex seal key.
func SealKeyBytes(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("storage.seal_key: %w", err)
	}
	if len(key) != cas.SealKeySize {
		return nil, fmt.Errorf("storage.seal_key must be %d bytes, got %d", cas.SealKeySize, len(key))
	}
	return key, nil
}
