package command

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/yndnr/sigtok-go/internal/crypto/keyfile"
	"github.com/yndnr/sigtok-go/internal/crypto/signing"
)

// KeyInfo describes a signing key for output.
type KeyInfo struct {
	Path        string `json:"path"`
	Scheme      string `json:"scheme"`
	Fingerprint string `json:"fingerprint"`
	PublicKey   string `json:"public_key"`
	Encrypted   bool   `json:"encrypted"`
}

// Lines renders the armored public key followed by its fingerprint.
func (k KeyInfo) Lines() ([]string, error) {
	return []string{k.PublicKey + "fingerprint: " + k.Fingerprint}, nil
}

func keyInfo(path string, key *signing.PrivateKey, encrypted bool) (KeyInfo, error) {
	pub, err := key.Public().MarshalText()
	if err != nil {
		return KeyInfo{}, err
	}
	return KeyInfo{
		Path:        path,
		Scheme:      key.Scheme(),
		Fingerprint: key.Public().Fingerprint().String(),
		PublicKey:   string(pub),
		Encrypted:   encrypted,
	}, nil
}

// KeygenCommand returns the keygen subcommand.
func KeygenCommand() *cli.Command {
	return &cli.Command{
		Name:  "keygen",
		Usage: "Create a new signing key file",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Replace an existing key file (tokens signed by it become unreadable)",
			},
			&cli.BoolFlag{
				Name:  "prompt",
				Usage: "Prompt for a passphrase to encrypt the key file",
			},
		},
		Action: keygen,
	}
}

func keygen(c *cli.Context) error {
	e, err := getEnv(c)
	if err != nil {
		return err
	}
	path := e.cfg.KeyFile

	if _, err := os.Stat(path); err == nil {
		if !c.Bool("force") {
			return fmt.Errorf("key file %s already exists (use --force to replace it)", path)
		}
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove old key: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat key file: %w", err)
	}

	passphrase := e.cfg.Passphrase
	if c.Bool("prompt") {
		if passphrase, err = promptPassphrase(e); err != nil {
			return err
		}
	}

	key, err := keyfile.Create(path, e.cfg.Scheme, passphrase)
	if err != nil {
		return err
	}
	e.log.Info("generated new signing key", "path", path, "scheme", key.Scheme())

	info, err := keyInfo(path, key, passphrase != "")
	if err != nil {
		return err
	}
	return e.Print(info)
}

func promptPassphrase(e *env) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("--prompt needs an interactive terminal")
	}

	fmt.Fprint(e.errOut, "Passphrase: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(e.errOut)
	if err != nil {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	fmt.Fprint(e.errOut, "Repeat passphrase: ")
	second, err := term.ReadPassword(fd)
	fmt.Fprintln(e.errOut)
	if err != nil {
		return "", fmt.Errorf("read passphrase: %w", err)
	}

	if string(first) != string(second) {
		return "", errors.New("passphrases do not match")
	}
	if len(first) == 0 {
		return "", errors.New("empty passphrase")
	}
	return string(first), nil
}

// PubkeyCommand returns the pubkey subcommand.
func PubkeyCommand() *cli.Command {
	return &cli.Command{
		Name:  "pubkey",
		Usage: "Print the public key and fingerprint, generating the key if needed",
		Action: func(c *cli.Context) error {
			e, err := getEnv(c)
			if err != nil {
				return err
			}
			key, err := e.Key()
			if err != nil {
				return err
			}
			info, err := keyInfo(e.cfg.KeyFile, key, e.cfg.Passphrase != "")
			if err != nil {
				return err
			}
			return e.Print(info)
		},
	}
}
