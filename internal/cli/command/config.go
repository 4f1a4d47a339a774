package command

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/sigtok-go/internal/cli/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "CLI configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration with secrets masked",
				Action: configShow,
			},
			{
				Name:  "init",
				Usage: "Write the effective configuration to the config file",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Overwrite an existing file",
					},
				},
				Action: configInit,
			},
		},
	}
}

func configShow(c *cli.Context) error {
	e, err := getEnv(c)
	if err != nil {
		return err
	}
	sanitized := config.Sanitize(e.cfg)
	return e.Print(map[string]string{
		"config_file":       e.configPath,
		"key_file":          sanitized.KeyFile,
		"scheme":            sanitized.Scheme,
		"passphrase":        sanitized.Passphrase,
		"store":             sanitized.Store,
		"store_dir":         sanitized.StoreDir,
		"remote":            sanitized.Remote,
		"remote_auth_token": sanitized.RemoteAuthToken,
		"remote_ca":         sanitized.RemoteCA,
		"output":            sanitized.Output,
		"log_level":         sanitized.LogLevel,
	})
}

func configInit(c *cli.Context) error {
	e, err := getEnv(c)
	if err != nil {
		return err
	}

	if _, err := os.Stat(e.configPath); err == nil && !c.Bool("force") {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", e.configPath)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}

	if err := config.Save(e.cfg, e.configPath); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "wrote %s\n", e.configPath)
	return nil
}
