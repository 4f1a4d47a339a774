// Package command provides CLI command definitions for sigtok.
//
// It uses urfave/cli/v2. Invoked without a subcommand, sigtok treats each
// argument of exactly 43 characters as a token to read and anything else
// as data to sign.
package command

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/yndnr/sigtok-go/internal/cli/config"
	"github.com/yndnr/sigtok-go/internal/cli/output"
	"github.com/yndnr/sigtok-go/internal/infra/buildinfo"
	"github.com/yndnr/sigtok-go/internal/telemetry/logger"
)

const envKey = "sigtok.env"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:      "sigtok",
		Usage:     "Sign data into content-addressed tokens and read them back",
		UsageText: "sigtok [global options] [DATA | TOKEN]...\n   sigtok [global options] command [command options] [arguments...]",
		Version:   buildinfo.String(),
		Flags:     globalFlags(),
		Commands: []*cli.Command{
			CreateCommand(),
			ReadCommand(),
			KeygenCommand(),
			PubkeyCommand(),
			ConfigCommand(),
		},
		Action: defaultAction,
		Before: setup,
		After:  teardown,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "CLI config file",
			EnvVars: []string{"SIGTOK_CONFIG"},
			Value:   config.DefaultConfigPath(),
		},
		&cli.StringFlag{
			Name:    "key-file",
			Aliases: []string{"k"},
			Usage:   "Private key file, generated on first use",
			EnvVars: []string{"SIGTOK_KEY_FILE"},
		},
		&cli.StringFlag{
			Name:    "scheme",
			Usage:   "Signature scheme for new keys (Ed25519, ML-DSA-65, ...)",
			EnvVars: []string{"SIGTOK_SCHEME"},
		},
		&cli.StringFlag{
			Name:    "passphrase",
			Usage:   "Passphrase protecting the key file",
			EnvVars: []string{"SIGTOK_PASSPHRASE"},
		},
		&cli.StringFlag{
			Name:    "store",
			Aliases: []string{"s"},
			Usage:   "Content store: badger, memory or remote",
			EnvVars: []string{"SIGTOK_STORE"},
		},
		&cli.StringFlag{
			Name:    "store-dir",
			Usage:   "Badger store directory",
			EnvVars: []string{"SIGTOK_STORE_DIR"},
		},
		&cli.StringFlag{
			Name:    "remote",
			Aliases: []string{"r"},
			Usage:   "sigtok-server address for the remote store",
			EnvVars: []string{"SIGTOK_REMOTE"},
		},
		&cli.StringFlag{
			Name:    "remote-token",
			Usage:   "Bearer token for the remote store",
			EnvVars: []string{"SIGTOK_REMOTE_AUTH_TOKEN"},
		},
		&cli.StringFlag{
			Name:    "remote-ca",
			Usage:   "PEM file of extra CA certificates for an https remote",
			EnvVars: []string{"SIGTOK_REMOTE_CA"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: text, json, yaml",
			EnvVars: []string{"SIGTOK_OUTPUT"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level: debug, info, warn, error",
			EnvVars: []string{"SIGTOK_LOG_LEVEL"},
		},
	}
}

// setup loads the config, applies flag overrides and stores the command
// environment in the app metadata.
func setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	applyFlags(c, cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}

	errOut := c.App.ErrWriter
	if errOut == nil {
		errOut = os.Stderr
	}
	log, err := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  logFormat(errOut),
		Output:  errOut,
		Service: "sigtok",
	})
	if err != nil {
		return err
	}
	logger.SetDefault(log)

	out := c.App.Writer
	if out == nil {
		out = os.Stdout
	}

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[envKey] = newEnv(cfg, c.String("config"), log, out, errOut, output.NewFormatter(format))
	return nil
}

func applyFlags(c *cli.Context, cfg *config.CLIConfig) {
	overrides := []struct {
		flag   string
		target *string
	}{
		{"key-file", &cfg.KeyFile},
		{"scheme", &cfg.Scheme},
		{"passphrase", &cfg.Passphrase},
		{"store", &cfg.Store},
		{"store-dir", &cfg.StoreDir},
		{"remote", &cfg.Remote},
		{"remote-token", &cfg.RemoteAuthToken},
		{"remote-ca", &cfg.RemoteCA},
		{"output", &cfg.Output},
		{"log-level", &cfg.LogLevel},
	}
	for _, o := range overrides {
		if c.IsSet(o.flag) {
			*o.target = c.String(o.flag)
		}
	}
	cfg.Store = strings.ToLower(cfg.Store)
}

// logFormat picks human-readable logs for a terminal and JSON otherwise.
func logFormat(w io.Writer) string {
	if isTerminal(w) {
		return "text"
	}
	return "json"
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func teardown(c *cli.Context) error {
	if e, ok := c.App.Metadata[envKey].(*env); ok {
		return e.Close()
	}
	return nil
}

// getEnv retrieves the environment prepared by setup.
func getEnv(c *cli.Context) (*env, error) {
	if e, ok := c.App.Metadata[envKey].(*env); ok {
		return e, nil
	}
	return nil, fmt.Errorf("command environment not initialised")
}
