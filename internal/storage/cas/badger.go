package cas

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/sigtok-go/internal/core/domain"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store closed")

// blobPrefix namespaces content keys inside the Badger keyspace.
var blobPrefix = []byte("blob/")

// BadgerConfig configures a BadgerStore.
type BadgerConfig struct {
	// Dir is the storage directory.
	Dir string

	// InMemory runs Badger without touching disk (tests).
	InMemory bool

	// CompressThreshold is the minimum content size compressed with zstd.
	// Zero disables compression.
	// Default: 512
	CompressThreshold int

	// SealKey enables at-rest sealing when set. Must be SealKeySize bytes.
	SealKey []byte

	// GCInterval is the interval between value log GC runs.
	// Default: 10m
	GCInterval time.Duration

	// GCThreshold is the value log GC discard ratio (0.0-1.0).
	// Default: 0.5
	GCThreshold float64

	// CacheSize is the block cache size in bytes.
	// Default: 64MB
	CacheSize int64

	// SyncWrites fsyncs after every write.
	// Default: true (tokens must survive a crash once returned)
	SyncWrites bool
}

// DefaultBadgerConfig returns the default Badger configuration.
func DefaultBadgerConfig(dir string) BadgerConfig {
	return BadgerConfig{
		Dir:               dir,
		CompressThreshold: DefaultCompressThreshold,
		GCInterval:        10 * time.Minute,
		GCThreshold:       0.5,
		CacheSize:         64 << 20,
		SyncWrites:        true,
	}
}

// BadgerStore implements Store on top of Badger v3.
type BadgerStore struct {
	db     *badger.DB
	cfg    BadgerConfig
	frame  *framer
	logger *slog.Logger

	metricsLSMSize      prometheus.Gauge
	metricsValueLogSize prometheus.Gauge

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewBadgerStore opens (or creates) a Badger-backed store.
func NewBadgerStore(cfg BadgerConfig, logger *slog.Logger) (*BadgerStore, error) {
	if cfg.Dir == "" && !cfg.InMemory {
		return nil, fmt.Errorf("badger: dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	frame, err := newFramer(cfg.CompressThreshold, cfg.SealKey)
	if err != nil {
		return nil, fmt.Errorf("badger: %w", err)
	}

	opts := badger.DefaultOptions(cfg.Dir).
		WithInMemory(cfg.InMemory).
		WithLogger(&badgerLogger{logger: logger}).
		WithSyncWrites(cfg.SyncWrites).
		WithDetectConflicts(false)
	if cfg.InMemory {
		opts = opts.WithDir("").WithValueDir("")
	}
	if cfg.CacheSize > 0 {
		opts = opts.WithBlockCacheSize(cfg.CacheSize)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}

	s := &BadgerStore{
		db:     db,
		cfg:    cfg,
		frame:  frame,
		logger: logger,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	go s.gcLoop()

	logger.Info("badger store opened",
		"dir", cfg.Dir,
		"in_memory", cfg.InMemory,
		"compress_threshold", cfg.CompressThreshold,
		"sealed", len(cfg.SealKey) > 0)

	return s, nil
}

func blobKey(hash domain.Hash) []byte {
	key := make([]byte, 0, len(blobPrefix)+len(hash))
	key = append(key, blobPrefix...)
	return append(key, hash...)
}

// Put stores content under its address. Existing content is left untouched.
func (s *BadgerStore) Put(ctx context.Context, content []byte) (domain.Hash, error) {
	if err := ctx.Err(); err != nil {
		return "", storageError("put", err)
	}

	hash := Sum(content)
	key := blobKey(hash)

	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err == nil {
			return nil
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		value, err := s.frame.encode([]byte(hash), content)
		if err != nil {
			return err
		}
		return txn.Set(key, value)
	})
	if err != nil {
		return "", storageError("put", err)
	}
	return hash, nil
}

// Get returns the content stored at hash.
func (s *BadgerStore) Get(ctx context.Context, hash domain.Hash) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, storageError("get", err)
	}

	var content []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(blobKey(hash))
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			decoded, err := s.frame.decode([]byte(hash), value)
			if err != nil {
				return err
			}
			content = decoded
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, notFound(hash)
	}
	if err != nil {
		return nil, storageError("get", err)
	}
	return content, nil
}

// Has reports whether content exists at hash.
func (s *BadgerStore) Has(ctx context.Context, hash domain.Hash) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, storageError("has", err)
	}

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(blobKey(hash))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, storageError("has", err)
	}
	return true, nil
}

// Scan calls fn for every stored address until fn returns false.
func (s *BadgerStore) Scan(ctx context.Context, fn func(hash domain.Hash) bool) error {
	return s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = blobPrefix
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := it.Item().Key()
			if !fn(domain.Hash(key[len(blobPrefix):])) {
				break
			}
		}
		return nil
	})
}

// GC runs value log garbage collection until Badger reports nothing to rewrite.
// Returns the number of rewrite cycles.
func (s *BadgerStore) GC(ctx context.Context) (int, error) {
	if s.cfg.InMemory {
		return 0, nil
	}

	startTime := time.Now()
	cycles := 0
	for ctx.Err() == nil {
		err := s.db.RunValueLogGC(s.cfg.GCThreshold)
		if err != nil {
			if errors.Is(err, badger.ErrNoRewrite) {
				break
			}
			return cycles, fmt.Errorf("gc: %w", err)
		}
		cycles++
	}

	s.logger.Debug("badger gc completed",
		"cycles", cycles,
		"elapsed", time.Since(startTime))

	return cycles, nil
}

// Size returns the LSM tree and value log sizes in bytes.
func (s *BadgerStore) Size() (lsm, vlog int64) {
	return s.db.Size()
}

// Close stops background work and closes the database.
func (s *BadgerStore) Close() error {
	select {
	case <-s.stopCh:
		return nil
	default:
	}

	close(s.stopCh)
	<-s.doneCh

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	s.logger.Info("badger store closed")
	return nil
}

// RegisterMetrics registers Badger size gauges with Prometheus and starts a
// background updater. Returns the store for method chaining.
func (s *BadgerStore) RegisterMetrics(registry prometheus.Registerer) *BadgerStore {
	s.metricsLSMSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sigtok",
		Subsystem: "badger",
		Name:      "lsm_size_bytes",
		Help:      "Badger LSM tree size in bytes",
	})
	s.metricsValueLogSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "sigtok",
		Subsystem: "badger",
		Name:      "value_log_size_bytes",
		Help:      "Badger value log size in bytes",
	})
	registry.MustRegister(s.metricsLSMSize, s.metricsValueLogSize)

	go s.metricsUpdateLoop()
	return s
}

func (s *BadgerStore) metricsUpdateLoop() {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			lsm, vlog := s.db.Size()
			s.metricsLSMSize.Set(float64(lsm))
			s.metricsValueLogSize.Set(float64(vlog))
		case <-s.stopCh:
			return
		}
	}
}

// gcLoop runs periodic garbage collection.
func (s *BadgerStore) gcLoop() {
	defer close(s.doneCh)

	interval := s.cfg.GCInterval
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			if _, err := s.GC(ctx); err != nil {
				s.logger.Error("auto gc failed", "error", err)
			}
			cancel()
		case <-s.stopCh:
			return
		}
	}
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
