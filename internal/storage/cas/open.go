package cas

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendBadger = "badger"
	BackendRemote = "remote"
)

// Options selects and configures a store backend.
type Options struct {
	// Backend is one of BackendMemory, BackendBadger or BackendRemote.
	Backend string

	// Dir is the Badger data directory.
	Dir string

	// Remote is the sigtok-server address for the remote backend.
	Remote string

	// AuthToken is sent as a bearer token by the remote backend.
	AuthToken string

	// TLSConfig overrides the remote backend's TLS settings.
	TLSConfig *tls.Config

	// SealKey enables at-rest sealing for the Badger backend.
	SealKey []byte

	// CompressThreshold overrides DefaultCompressThreshold when positive.
	CompressThreshold int

	// GCInterval overrides the Badger value log GC interval when positive.
	GCInterval time.Duration
}

// Open creates the store described by opts.
func Open(opts Options, logger *slog.Logger) (Store, error) {
	switch strings.ToLower(opts.Backend) {
	case BackendMemory:
		return NewMemoryStore(), nil

	case "", BackendBadger:
		cfg := DefaultBadgerConfig(opts.Dir)
		cfg.SealKey = opts.SealKey
		if opts.CompressThreshold > 0 {
			cfg.CompressThreshold = opts.CompressThreshold
		}
		if opts.GCInterval > 0 {
			cfg.GCInterval = opts.GCInterval
		}
		return NewBadgerStore(cfg, logger)

	case BackendRemote:
		if opts.Remote == "" {
			return nil, fmt.Errorf("remote store requires a server address")
		}
		var ropts []RemoteOption
		if opts.AuthToken != "" {
			ropts = append(ropts, WithAuthToken(opts.AuthToken))
		}
		if opts.TLSConfig != nil {
			ropts = append(ropts, WithTLSConfig(opts.TLSConfig))
		}
		return NewRemoteStore(opts.Remote, ropts...), nil

	default:
		return nil, fmt.Errorf("unknown store backend %q (want %s, %s or %s)",
			opts.Backend, BackendBadger, BackendMemory, BackendRemote)
	}
}
