package command

import (
	"fmt"
	"io"
	"os"

	"github.com/yndnr/sigtok-go/internal/cli/config"
	"github.com/yndnr/sigtok-go/internal/cli/output"
	"github.com/yndnr/sigtok-go/internal/core/token"
	"github.com/yndnr/sigtok-go/internal/crypto/keyfile"
	"github.com/yndnr/sigtok-go/internal/crypto/signing"
	"github.com/yndnr/sigtok-go/internal/infra/tlsroots"
	"github.com/yndnr/sigtok-go/internal/storage/cas"
	"github.com/yndnr/sigtok-go/internal/telemetry/logger"
)

// env holds what commands share. The store and key are opened on first
// use so that commands like pubkey never touch the store.
type env struct {
	cfg        *config.CLIConfig
	configPath string
	log        logger.Logger
	out        io.Writer
	errOut     io.Writer
	formatter  output.Formatter

	store cas.Store
	key   *signing.PrivateKey
}

func newEnv(cfg *config.CLIConfig, configPath string, log logger.Logger, out, errOut io.Writer, f output.Formatter) *env {
	return &env{
		cfg:        cfg,
		configPath: configPath,
		log:        log,
		out:        out,
		errOut:     errOut,
		formatter:  f,
	}
}

// Store opens the configured content store.
func (e *env) Store() (cas.Store, error) {
	if e.store != nil {
		return e.store, nil
	}

	opts := cas.Options{
		Backend:   e.cfg.Store,
		Dir:       e.cfg.StoreDir,
		Remote:    e.cfg.Remote,
		AuthToken: e.cfg.RemoteAuthToken,
	}
	if e.cfg.RemoteCA != "" {
		tlsCfg, err := tlsroots.ClientConfig(e.cfg.RemoteCA)
		if err != nil {
			return nil, err
		}
		opts.TLSConfig = tlsCfg
	}

	store, err := cas.Open(opts, logger.ToSlog(e.log))
	if err != nil {
		return nil, err
	}
	e.store = store
	return store, nil
}

// Key loads the signing key, generating it on first use.
func (e *env) Key() (*signing.PrivateKey, error) {
	if e.key != nil {
		return e.key, nil
	}

	var spin *output.Spinner
	if e.cfg.Passphrase != "" && isTerminal(e.errOut) {
		spin = output.NewSpinner(e.errOut, "Unlocking key file")
		spin.Start()
	}

	key, created, err := keyfile.LoadOrCreate(e.cfg.KeyFile, e.cfg.Scheme, e.cfg.Passphrase)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return nil, err
	}

	if created {
		e.log.Info("generated new signing key",
			"path", e.cfg.KeyFile,
			"scheme", key.Scheme(),
			"fingerprint", key.Public().Fingerprint())
	}
	e.key = key
	return key, nil
}

// Backend returns the token backend over the configured store.
func (e *env) Backend() (*token.Backend, error) {
	store, err := e.Store()
	if err != nil {
		return nil, err
	}
	return token.NewBackend(store, nil, e.log), nil
}

// Print formats data to stdout.
func (e *env) Print(data any) error {
	return e.formatter.Format(e.out, data)
}

// Close releases the store.
func (e *env) Close() error {
	if e.store == nil {
		return nil
	}
	err := e.store.Close()
	e.store = nil
	if err != nil {
		return fmt.Errorf("close store: %w", err)
	}
	return nil
}

// PrintError prints an error message to stderr.
func PrintError(w io.Writer, err error) {
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "error: %v\n", err)
}
