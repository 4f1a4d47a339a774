// Package keyfile manages the on-disk private signing key.
//
// A key file holds an armored signing.PrivateKey. When a passphrase is
// configured the armored key is encrypted to an age scrypt recipient and
// stored age-armored instead.
package keyfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"filippo.io/age"
	"filippo.io/age/armor"

	"github.com/yndnr/sigtok-go/internal/core/domain"
	"github.com/yndnr/sigtok-go/internal/crypto/signing"
)

const (
	// DirMode is applied to the directory created for a new key file.
	DirMode fs.FileMode = 0o700

	// FileMode is applied to a newly written key file.
	FileMode fs.FileMode = 0o400
)

// scryptWorkFactor is the age scrypt cost (log2 N) for new key files.
var scryptWorkFactor = 18

// DefaultPath returns ~/.config/sigtok/private.key, honouring
// os.UserConfigDir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "", fmt.Errorf("resolve config dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "sigtok", "private.key"), nil
}

// Load reads the key at path. passphrase must be set when the file is
// age-encrypted.
func Load(path, passphrase string) (*signing.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.ErrKeyFile.WithDetails(path).WithCause(err)
	}

	if bytes.HasPrefix(bytes.TrimSpace(data), []byte(armor.Header)) {
		if passphrase == "" {
			return nil, domain.ErrKeyFile.WithDetails(path).WithCause(errors.New("key file is encrypted and no passphrase was given"))
		}
		data, err = decrypt(data, passphrase)
		if err != nil {
			return nil, domain.ErrKeyFile.WithDetails(path).WithCause(err)
		}
	}

	key, err := signing.ParsePrivateKey(data)
	if err != nil {
		return nil, domain.ErrKeyFile.WithDetails(path).WithCause(err)
	}
	return key, nil
}

// Create generates a new key for scheme and writes it to path. Create
// never overwrites: an existing file is an error.
func Create(path, scheme, passphrase string) (*signing.PrivateKey, error) {
	key, err := signing.GenerateKey(scheme)
	if err != nil {
		return nil, domain.ErrKeyFile.WithCause(err)
	}
	if err := Write(path, key, passphrase); err != nil {
		return nil, err
	}
	return key, nil
}

// Write stores key at path with FileMode permissions, creating parent
// directories with DirMode. An existing file is an error.
func Write(path string, key *signing.PrivateKey, passphrase string) error {
	data, err := key.MarshalText()
	if err != nil {
		return domain.ErrKeyFile.WithCause(err)
	}
	if passphrase != "" {
		if data, err = encrypt(data, passphrase); err != nil {
			return domain.ErrKeyFile.WithDetails(path).WithCause(err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), DirMode); err != nil {
		return domain.ErrKeyFile.WithDetails(path).WithCause(err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, FileMode)
	if err != nil {
		return domain.ErrKeyFile.WithDetails(path).WithCause(err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return domain.ErrKeyFile.WithDetails(path).WithCause(err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return domain.ErrKeyFile.WithDetails(path).WithCause(err)
	}
	return nil
}

// LoadOrCreate loads the key at path, or generates and saves a new one
// when the file does not exist. Returns whether the key was newly created.
//
// A file that exists but cannot be read or parsed is an error; it is
// never replaced.
func LoadOrCreate(path, scheme, passphrase string) (*signing.PrivateKey, bool, error) {
	key, err := Load(path, passphrase)
	if err == nil {
		return key, false, nil
	}

	if _, statErr := os.Stat(path); !errors.Is(statErr, fs.ErrNotExist) {
		return nil, false, err
	}

	key, err = Create(path, scheme, passphrase)
	if err != nil {
		return nil, false, err
	}
	return key, true, nil
}

func encrypt(plaintext []byte, passphrase string) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("create scrypt recipient: %w", err)
	}
	recipient.SetWorkFactor(scryptWorkFactor)

	var buf bytes.Buffer
	armored := armor.NewWriter(&buf)
	w, err := age.Encrypt(armored, recipient)
	if err != nil {
		return nil, fmt.Errorf("encrypt key: %w", err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("encrypt key: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("encrypt key: %w", err)
	}
	if err := armored.Close(); err != nil {
		return nil, fmt.Errorf("armor key: %w", err)
	}
	return buf.Bytes(), nil
}

func decrypt(ciphertext []byte, passphrase string) ([]byte, error) {
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("create scrypt identity: %w", err)
	}

	r, err := age.Decrypt(armor.NewReader(bytes.NewReader(ciphertext)), identity)
	if err != nil {
		return nil, fmt.Errorf("decrypt key: %w", err)
	}
	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decrypt key: %w", err)
	}
	return plaintext, nil
}
