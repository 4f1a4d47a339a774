package signing

import (
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/cloudflare/circl/sign"
	"github.com/zeebo/blake3"

	"github.com/yndnr/sigtok-go/internal/core/domain"
)

// PEM block types.
const (
	PrivateKeyType = "SIGTOK PRIVATE KEY"
	PublicKeyType  = "SIGTOK PUBLIC KEY"
	SignatureType  = "SIGTOK SIGNATURE"

	schemeHeader = "Scheme"
)

// PrivateKey is a signing key together with its public half.
type PrivateKey struct {
	key    sign.PrivateKey
	public *PublicKey
}

// PublicKey is a verification key.
type PublicKey struct {
	key         sign.PublicKey
	raw         []byte
	fingerprint domain.Hash
}

// GenerateKey creates a fresh key pair for the named scheme.
func GenerateKey(scheme string) (*PrivateKey, error) {
	s, err := LookupScheme(scheme)
	if err != nil {
		return nil, err
	}
	pk, sk, err := s.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("generate %s key: %w", s.Name(), err)
	}
	public, err := newPublicKey(pk)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key: sk, public: public}, nil
}

func newPrivateKey(sk sign.PrivateKey) (*PrivateKey, error) {
	pk, ok := sk.Public().(sign.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%s private key does not expose its public key", sk.Scheme().Name())
	}
	public, err := newPublicKey(pk)
	if err != nil {
		return nil, err
	}
	return &PrivateKey{key: sk, public: public}, nil
}

func newPublicKey(pk sign.PublicKey) (*PublicKey, error) {
	raw, err := pk.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal public key: %w", err)
	}
	digest := blake3.Sum256(raw)
	return &PublicKey{
		key:         pk,
		raw:         raw,
		fingerprint: domain.Hash(base64.RawURLEncoding.EncodeToString(digest[:])),
	}, nil
}

// Public returns the verification half of k.
func (k *PrivateKey) Public() *PublicKey {
	return k.public
}

// Scheme returns the name of the key's signature scheme.
func (k *PrivateKey) Scheme() string {
	return k.key.Scheme().Name()
}

// MarshalText returns the armored private key.
func (k *PrivateKey) MarshalText() ([]byte, error) {
	raw, err := k.key.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal private key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{
		Type:    PrivateKeyType,
		Headers: map[string]string{schemeHeader: k.Scheme()},
		Bytes:   raw,
	}), nil
}

// ParsePrivateKey reads an armored private key.
func ParsePrivateKey(data []byte) (*PrivateKey, error) {
	s, raw, err := decodeArmor(data, PrivateKeyType)
	if err != nil {
		return nil, err
	}
	sk, err := s.UnmarshalBinaryPrivateKey(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s private key: %w", s.Name(), err)
	}
	return newPrivateKey(sk)
}

// Scheme returns the name of the key's signature scheme.
func (k *PublicKey) Scheme() string {
	return k.key.Scheme().Name()
}

// Fingerprint is the content address of the marshalled public key.
func (k *PublicKey) Fingerprint() domain.Hash {
	return k.fingerprint
}

// Equal reports whether k and other are the same key.
func (k *PublicKey) Equal(other *PublicKey) bool {
	if k == nil || other == nil {
		return k == other
	}
	return k.key.Equal(other.key)
}

// MarshalText returns the armored public key.
func (k *PublicKey) MarshalText() ([]byte, error) {
	return pem.EncodeToMemory(&pem.Block{
		Type:    PublicKeyType,
		Headers: map[string]string{schemeHeader: k.Scheme()},
		Bytes:   k.raw,
	}), nil
}

// ParsePublicKey reads an armored public key.
func ParsePublicKey(data []byte) (*PublicKey, error) {
	s, raw, err := decodeArmor(data, PublicKeyType)
	if err != nil {
		return nil, err
	}
	pk, err := s.UnmarshalBinaryPublicKey(raw)
	if err != nil {
		return nil, fmt.Errorf("parse %s public key: %w", s.Name(), err)
	}
	return newPublicKey(pk)
}

func decodeArmor(data []byte, blockType string) (sign.Scheme, []byte, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, nil, errors.New("no PEM block found")
	}
	if block.Type != blockType {
		return nil, nil, fmt.Errorf("unexpected PEM block %q, want %q", block.Type, blockType)
	}
	s, err := LookupScheme(block.Headers[schemeHeader])
	if err != nil {
		return nil, nil, err
	}
	return s, block.Bytes, nil
}
