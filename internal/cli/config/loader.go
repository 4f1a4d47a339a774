package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/yndnr/sigtok-go/internal/infra/confloader"
	"github.com/yndnr/sigtok-go/internal/storage/cas"
	"github.com/yndnr/sigtok-go/internal/telemetry/logger"
)

// Load loads CLI configuration. A missing file yields the defaults.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	opts := []confloader.Option{confloader.WithDefaults(Default())}
	if _, err := os.Stat(path); err == nil {
		opts = append(opts, confloader.WithConfigFile(path))
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("stat config: %w", err)
	}

	cfg := Default()
	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, readable only by the owner.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Validate checks the values a command relies on.
func Validate(cfg *CLIConfig) error {
	var errs []error

	switch strings.ToLower(cfg.Store) {
	case cas.BackendBadger:
		if cfg.StoreDir == "" {
			errs = append(errs, errors.New("store_dir is required for the badger store"))
		}
	case cas.BackendRemote:
		if cfg.Remote == "" {
			errs = append(errs, errors.New("remote is required for the remote store"))
		}
	case cas.BackendMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown store %q", cfg.Store))
	}

	switch strings.ToLower(cfg.Output) {
	case "text", "json", "yaml":
	default:
		errs = append(errs, fmt.Errorf("unknown output format %q", cfg.Output))
	}

	if cfg.KeyFile == "" {
		errs = append(errs, errors.New("key_file is required"))
	}
	if _, err := logger.ParseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	return errors.Join(errs...)
}

// Sanitize returns a copy with secrets masked, for display.
func Sanitize(cfg *CLIConfig) *CLIConfig {
	out := *cfg
	if out.Passphrase != "" {
		out.Passphrase = "********"
	}
	if out.RemoteAuthToken != "" {
		out.RemoteAuthToken = "********"
	}
	return &out
}
