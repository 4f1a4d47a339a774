package tlsroots

import (
	"crypto/tls"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/yndnr/sigtok-go/internal/telemetry/logger"
)

// DefaultDebounce coalesces the burst of events a single save produces.
const DefaultDebounce = 250 * time.Millisecond

// Reloader serves a certificate key pair and reloads it when either file
// is written. A reload that fails keeps the previous certificate.
type Reloader struct {
	certFile string
	keyFile  string
	debounce time.Duration
	log      logger.Logger

	mu   sync.RWMutex
	cert *tls.Certificate

	watcher  *fsnotify.Watcher
	timer    *time.Timer
	timerMu  sync.Mutex
	done     chan struct{}
	stopOnce sync.Once
}

// ReloaderOption configures a Reloader.
type ReloaderOption func(*Reloader)

// WithDebounce sets the delay between the last file event and the reload.
func WithDebounce(d time.Duration) ReloaderOption {
	return func(r *Reloader) {
		r.debounce = d
	}
}

// WithLogger sets the reloader's logger.
func WithLogger(log logger.Logger) ReloaderOption {
	return func(r *Reloader) {
		r.log = log
	}
}

// NewReloader loads the key pair and starts watching its directories.
func NewReloader(certFile, keyFile string, opts ...ReloaderOption) (*Reloader, error) {
	r := &Reloader{
		certFile: certFile,
		keyFile:  keyFile,
		debounce: DefaultDebounce,
		log:      logger.Nop(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := r.Reload(); err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("tlsroots: create watcher: %w", err)
	}
	dirs := map[string]bool{filepath.Dir(certFile): true, filepath.Dir(keyFile): true}
	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			w.Close()
			return nil, fmt.Errorf("tlsroots: watch %s: %w", dir, err)
		}
	}
	r.watcher = w

	go r.loop()
	return r, nil
}

// Reload reads the key pair from disk now.
func (r *Reloader) Reload() error {
	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return fmt.Errorf("tlsroots: load key pair: %w", err)
	}
	r.mu.Lock()
	r.cert = &cert
	r.mu.Unlock()
	return nil
}

// GetCertificate implements tls.Config.GetCertificate.
func (r *Reloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cert, nil
}

// ServerConfig returns a server TLS config backed by the reloader.
func (r *Reloader) ServerConfig() *tls.Config {
	return &tls.Config{
		GetCertificate: r.GetCertificate,
		MinVersion:     tls.VersionTLS12,
	}
}

// Close stops watching. It is safe to call more than once.
func (r *Reloader) Close() error {
	var err error
	r.stopOnce.Do(func() {
		close(r.done)
		r.timerMu.Lock()
		if r.timer != nil {
			r.timer.Stop()
		}
		r.timerMu.Unlock()
		err = r.watcher.Close()
	})
	return err
}

func (r *Reloader) loop() {
	certBase, keyBase := filepath.Base(r.certFile), filepath.Base(r.keyFile)
	for {
		select {
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if base := filepath.Base(event.Name); base != certBase && base != keyBase {
				continue
			}
			r.schedule()
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.log.Error("certificate watcher error", "error", err)
		case <-r.done:
			return
		}
	}
}

func (r *Reloader) schedule() {
	r.timerMu.Lock()
	defer r.timerMu.Unlock()
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.debounce, func() {
		select {
		case <-r.done:
			return
		default:
		}
		if err := r.Reload(); err != nil {
			r.log.Error("certificate reload failed", "cert_file", r.certFile, "error", err)
			return
		}
		r.log.Info("certificate reloaded", "cert_file", r.certFile)
	})
}
