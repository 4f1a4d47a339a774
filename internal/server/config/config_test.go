package config

import (
	"strings"
	"testing"

	"github.com/yndnr/sigtok-go/internal/infra/confloader"
	"github.com/yndnr/sigtok-go/internal/storage/cas"
)

func TestDefault_Verifies(t *testing.T) {
	if err := Verify(Default()); err != nil {
		t.Errorf("Verify(Default()) error = %v", err)
	}
}

func TestDefault_BodyLimitMatchesBlobLimit(t *testing.T) {
	if got := Default().Server.MaxBodyBytes; got != cas.MaxBlobSize {
		t.Errorf("default max_body_bytes = %d, want %d", got, cas.MaxBlobSize)
	}
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ServerConfig)
		wantErr string
	}{
		{"bad addr", func(c *ServerConfig) { c.Server.Addr = "nope" }, "server.addr"},
		{"half tls", func(c *ServerConfig) { c.Server.TLSCertFile = "cert.pem" }, "set together"},
		{"zero body", func(c *ServerConfig) { c.Server.MaxBodyBytes = 0 }, "max_body_bytes"},
		{"body above blob limit", func(c *ServerConfig) { c.Server.MaxBodyBytes = cas.MaxBlobSize + 1 }, "max_body_bytes"},
		{"unknown backend", func(c *ServerConfig) { c.Storage.Backend = "s3" }, "storage.backend"},
		{"badger without dir", func(c *ServerConfig) { c.Storage.DataDir = "" }, "data_dir"},
		{"remote without url", func(c *ServerConfig) { c.Storage.Backend = "remote" }, "storage.remote"},
		{"memory ok", func(c *ServerConfig) {
			c.Storage.Backend = "memory"
			c.Storage.DataDir = ""
		}, ""},
		{"short seal key", func(c *ServerConfig) { c.Storage.SealKey = "abcd" }, "seal_key"},
		{"non-hex seal key", func(c *ServerConfig) { c.Storage.SealKey = "zz" }, "seal_key"},
		{"good seal key", func(c *ServerConfig) { c.Storage.SealKey = strings.Repeat("ab", 32) }, ""},
		{"unknown scheme", func(c *ServerConfig) { c.Signing.Scheme = "rsa" }, "signing.scheme"},
		{"post-quantum scheme", func(c *ServerConfig) { c.Signing.Scheme = "ML-DSA-65" }, ""},
		{"no key file", func(c *ServerConfig) { c.Signing.KeyFile = "" }, "key_file"},
		{"negative rate", func(c *ServerConfig) { c.Security.RateLimit = -1 }, "rate_limit"},
		{"zero burst", func(c *ServerConfig) { c.Security.RateBurst = 0 }, "rate_burst"},
		{"bad log level", func(c *ServerConfig) { c.Log.Level = "loud" }, "log.level"},
		{"bad log format", func(c *ServerConfig) { c.Log.Format = "xml" }, "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := Verify(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Verify() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Verify() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestSanitize(t *testing.T) {
	cfg := Default()
	cfg.Security.AuthToken = "supersecrettoken"
	cfg.Signing.Passphrase = "pw"
	cfg.Storage.SealKey = strings.Repeat("ab", 32)

	s := Sanitize(cfg)
	if s.Security.AuthToken == cfg.Security.AuthToken || !strings.HasPrefix(s.Security.AuthToken, "su") {
		t.Errorf("AuthToken = %q", s.Security.AuthToken)
	}
	if s.Signing.Passphrase != "****" {
		t.Errorf("Passphrase = %q", s.Signing.Passphrase)
	}
	if s.Storage.RemoteAuthToken != "" {
		t.Error("empty secrets should stay empty")
	}
	if cfg.Security.AuthToken != "supersecrettoken" {
		t.Error("Sanitize modified the original")
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SIGTOK_STORAGE_BACKEND", "memory")
	t.Setenv("SIGTOK_SIGNING_KEY_FILE", "/tmp/k.key")
	t.Setenv("SIGTOK_SERVER_MAX_BODY_BYTES", "2048")
	t.Setenv("SIGTOK_SERVER_READ_TIMEOUT", "3s")

	cfg := Default()
	l := confloader.NewLoader(confloader.WithDefaults(Default()))
	if err := l.Load(cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Storage.Backend != "memory" {
		t.Errorf("Backend = %q", cfg.Storage.Backend)
	}
	if cfg.Signing.KeyFile != "/tmp/k.key" {
		t.Errorf("KeyFile = %q", cfg.Signing.KeyFile)
	}
	if cfg.Server.MaxBodyBytes != 2048 {
		t.Errorf("MaxBodyBytes = %d", cfg.Server.MaxBodyBytes)
	}
	if cfg.Server.ReadTimeout.Seconds() != 3 {
		t.Errorf("ReadTimeout = %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.Addr != DefaultHTTPAddr {
		t.Errorf("Addr = %q, default lost", cfg.Server.Addr)
	}
}
