package config

import (
	"os"
	"path/filepath"

	"github.com/yndnr/sigtok-go/internal/crypto/signing"
	"github.com/yndnr/sigtok-go/internal/storage/cas"
)

// appDir is the per-user directory holding the CLI config, key and store.
func appDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "sigtok")
}

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	return filepath.Join(appDir(), "cli.yaml")
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		KeyFile:  filepath.Join(appDir(), "private.key"),
		Scheme:   signing.DefaultScheme,
		Store:    cas.BackendBadger,
		StoreDir: filepath.Join(appDir(), "store"),
		Output:   "text",
		LogLevel: "warn",
	}
}
