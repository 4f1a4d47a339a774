package confloader

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type testConfig struct {
	Storage struct {
		DataDir    string        `koanf:"data_dir" yaml:"data_dir"`
		GCInterval time.Duration `koanf:"gc_interval" yaml:"gc_interval"`
	} `koanf:"storage" yaml:"storage"`
	Log struct {
		Level string `koanf:"level" yaml:"level"`
	} `koanf:"log" yaml:"log"`
}

func defaults() testConfig {
	var c testConfig
	c.Storage.DataDir = "/var/lib/sigtok"
	c.Storage.GCInterval = 10 * time.Minute
	c.Log.Level = "info"
	return c
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoader_Defaults(t *testing.T) {
	var cfg testConfig
	l := NewLoader(WithDefaults(defaults()))
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.DataDir != "/var/lib/sigtok" || cfg.Storage.GCInterval != 10*time.Minute {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if !l.IsLoaded() {
		t.Error("IsLoaded() = false")
	}
}

func TestLoader_Priority(t *testing.T) {
	path := writeFile(t, "storage:\n  data_dir: /from/file\nlog:\n  level: warn\n")
	t.Setenv("SIGTOK_STORAGE_DATA_DIR", "/from/env")

	var cfg testConfig
	l := NewLoader(WithDefaults(defaults()), WithConfigFile(path))
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Storage.DataDir != "/from/env" {
		t.Errorf("data_dir = %q, env should win", cfg.Storage.DataDir)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("level = %q, file should beat defaults", cfg.Log.Level)
	}

	if err := l.LoadMap(map[string]any{"log.level": "debug"}); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}
	if err := l.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("level = %q, overrides should win", cfg.Log.Level)
	}
}

func TestLoader_EnvDuration(t *testing.T) {
	t.Setenv("APP_STORAGE_GC_INTERVAL", "90s")

	var cfg testConfig
	l := NewLoader(WithEnvPrefix("APP_"), WithDefaults(defaults()))
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Storage.GCInterval != 90*time.Second {
		t.Errorf("gc_interval = %v, want 90s", cfg.Storage.GCInterval)
	}
}

func TestLoader_MissingFile(t *testing.T) {
	var cfg testConfig
	l := NewLoader(WithConfigFile(filepath.Join(t.TempDir(), "absent.yaml")))
	if err := l.Load(&cfg); err == nil {
		t.Error("expected error for missing file")
	}
}
