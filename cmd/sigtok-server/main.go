package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/yndnr/sigtok-go/internal/core/service"
	"github.com/yndnr/sigtok-go/internal/core/token"
	"github.com/yndnr/sigtok-go/internal/crypto/keyfile"
	"github.com/yndnr/sigtok-go/internal/crypto/signing"
	"github.com/yndnr/sigtok-go/internal/infra/buildinfo"
	"github.com/yndnr/sigtok-go/internal/infra/confloader"
	"github.com/yndnr/sigtok-go/internal/infra/shutdown"
	"github.com/yndnr/sigtok-go/internal/infra/tlsroots"
	"github.com/yndnr/sigtok-go/internal/server/config"
	"github.com/yndnr/sigtok-go/internal/server/httpserver"
	"github.com/yndnr/sigtok-go/internal/storage/cas"
	"github.com/yndnr/sigtok-go/internal/telemetry/logger"
	"github.com/yndnr/sigtok-go/internal/telemetry/metric"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("sigtok-server %s\n", buildinfo.String())
		return nil
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  os.Stdout,
		Service: "sigtok-server",
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.SetDefault(log)

	info := buildinfo.Get()
	log.Info("starting sigtok-server",
		"version", info.Version,
		"commit", info.Commit,
		"config", *configFile)
	log.Debug("effective configuration", "config", config.Sanitize(cfg))

	key, err := loadKey(cfg, log)
	if err != nil {
		return fmt.Errorf("load signing key: %w", err)
	}

	metrics := metric.NewRegistry()

	store, err := openStore(cfg, log, metrics)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}

	backend := token.NewBackend(store, signing.NewService(), log.With("component", "token"))
	routerCfg := httpserver.DefaultRouterConfig()
	routerCfg.TokenService = service.NewTokenService(backend, key, metrics)
	routerCfg.BlobService = service.NewBlobService(store, cfg.Server.MaxBodyBytes)
	routerCfg.Logger = log.With("component", "http")
	routerCfg.Metrics = metrics
	routerCfg.MetricsHandler = metrics.Handler()
	routerCfg.AuthToken = cfg.Security.AuthToken
	routerCfg.RateLimit = cfg.Security.RateLimit
	routerCfg.RateBurst = cfg.Security.RateBurst
	routerCfg.MaxBodyBytes = int64(cfg.Server.MaxBodyBytes)

	shutdownHandler := shutdown.NewHandler(cfg.Server.ShutdownTimeout, log)

	// Hooks run in reverse: HTTP first, then the watchers, then the store.
	shutdownHandler.OnClose("store", store.Close)

	serverOpts := []httpserver.Option{
		httpserver.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
	}
	useTLS := cfg.Server.TLSCertFile != ""
	if useTLS {
		certs, err := tlsroots.NewReloader(cfg.Server.TLSCertFile, cfg.Server.TLSKeyFile,
			tlsroots.WithLogger(log.With("component", "tls")))
		if err != nil {
			return fmt.Errorf("load TLS certificate: %w", err)
		}
		shutdownHandler.OnClose("certificate watcher", certs.Close)
		serverOpts = append(serverOpts, httpserver.WithTLSConfig(certs.ServerConfig()))
	}
	httpServer := httpserver.New(cfg.Server.Addr, httpserver.NewRouter(routerCfg), serverOpts...)

	if *configFile != "" {
		watcher, err := watchLogLevel(*configFile, log)
		if err != nil {
			log.Warn("config watcher disabled", "error", err)
		} else {
			shutdownHandler.OnClose("config watcher", watcher.Stop)
		}
	}

	shutdownHandler.OnShutdown("http", func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return httpServer.Shutdown(ctx)
	})

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening",
			"addr", cfg.Server.Addr,
			"tls", useTLS,
			"auth", cfg.Security.AuthToken != "")

		if useTLS {
			serveErr <- httpServer.ListenAndServeTLS("", "")
		} else {
			serveErr <- httpServer.ListenAndServe()
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := <-serveErr; err != nil {
			log.Error("HTTP server error", "error", err)
			cancel()
		}
	}()

	if err := shutdownHandler.Wait(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped")
	return nil
}

// loadConfig loads configuration from defaults, file and environment.
func loadConfig(configFile string) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{confloader.WithDefaults(config.Default())}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}
	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadKey(cfg *config.ServerConfig, log logger.Logger) (*signing.PrivateKey, error) {
	key, created, err := keyfile.LoadOrCreate(cfg.Signing.KeyFile, cfg.Signing.Scheme, cfg.Signing.Passphrase)
	if err != nil {
		return nil, err
	}
	if created {
		log.Warn("generated new signing key", "path", cfg.Signing.KeyFile, "scheme", key.Scheme())
	}
	log.Info("signing key loaded",
		"scheme", key.Scheme(),
		"fingerprint", key.Public().Fingerprint().String())
	return key, nil
}

func openStore(cfg *config.ServerConfig, log logger.Logger, metrics *metric.Registry) (cas.Store, error) {
	sealKey, err := config.SealKeyBytes(cfg.Storage.SealKey)
	if err != nil {
		return nil, err
	}

	opts := cas.Options{
		Backend:           cfg.Storage.Backend,
		Dir:               cfg.Storage.DataDir,
		Remote:            cfg.Storage.Remote,
		AuthToken:         cfg.Storage.RemoteAuthToken,
		SealKey:           sealKey,
		CompressThreshold: cfg.Storage.CompressThreshold,
		GCInterval:        cfg.Storage.GCInterval,
	}
	if cfg.Storage.RemoteCA != "" {
		if opts.TLSConfig, err = tlsroots.ClientConfig(cfg.Storage.RemoteCA); err != nil {
			return nil, err
		}
	}

	store, err := cas.Open(opts, logger.ToSlog(log.With("component", "store")))
	if err != nil {
		return nil, err
	}

	if b, ok := store.(*cas.BadgerStore); ok {
		b.RegisterMetrics(metrics.Registerer())
	}
	log.Info("content store opened", "backend", cfg.Storage.Backend)
	return cas.Instrument(store, metrics), nil
}

// watchLogLevel re-reads the config file on change and applies log.level.
// Other settings need a restart.
func watchLogLevel(path string, log logger.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(logger.ToSlog(log)))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		w.Stop()
		return nil, err
	}

	w.OnChange(func(string) {
		cfg, err := loadConfig(path)
		if err != nil {
			log.Warn("ignoring config change", "error", err)
			return
		}
		before := logger.GetLevel()
		if err := logger.SetLevel(cfg.Log.Level); err != nil {
			log.Warn("ignoring config change", "error", err)
			return
		}
		if after := logger.GetLevel(); after != before {
			log.Info("log level changed", "from", before, "to", after)
		}
	})
	w.StartAsync()
	return w, nil
}
