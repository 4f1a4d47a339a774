package signing

import (
	"errors"
	"fmt"
)

// Verification errors.
var (
	ErrNoVerificationKey  = errors.New("no verification key supplied")
	ErrMalformedSignature = errors.New("malformed signature")
	ErrUnknownSigner      = errors.New("signature was not made by any supplied key")
	ErrBadSignature       = errors.New("bad signature")
)

// Service signs messages and verifies signature blobs.
// The zero value is ready to use.
type Service struct{}

// NewService returns a signing service.
func NewService() *Service {
	return &Service{}
}

// Sign produces an armored signature blob over message.
func (s *Service) Sign(message string, key *PrivateKey) ([]byte, error) {
	if key == nil {
		return nil, errors.New("no signing key")
	}

	m := &signedMessage{
		Scheme:  key.Scheme(),
		Signer:  key.Public().Fingerprint().String(),
		Message: message,
	}
	m.Signature = key.key.Scheme().Sign(key.key, m.toBeSigned(), nil)
	return encodeBlob(m)
}

// Verify checks blob against keys and returns the signed message.
//
// The key whose fingerprint matches the blob's signer is used. The returned
// message is only meaningful when err is nil.
func (s *Service) Verify(blob []byte, keys ...*PublicKey) (string, error) {
	if len(keys) == 0 {
		return "", ErrNoVerificationKey
	}

	m, err := decodeBlob(blob)
	if err != nil {
		return "", err
	}

	var signer *PublicKey
	for _, k := range keys {
		if k != nil && k.Fingerprint().String() == m.Signer {
			signer = k
			break
		}
	}
	if signer == nil {
		return "", fmt.Errorf("%w: signer %s", ErrUnknownSigner, m.Signer)
	}
	if signer.Scheme() != m.Scheme {
		return "", fmt.Errorf("%w: scheme %s does not match key scheme %s", ErrBadSignature, m.Scheme, signer.Scheme())
	}

	scheme := signer.key.Scheme()
	if !scheme.Verify(signer.key, m.toBeSigned(), m.Signature, nil) {
		return "", ErrBadSignature
	}
	return m.Message, nil
}
