package token

import (
	"context"
	"errors"

	"github.com/mitchellh/copystructure"

	"github.com/yndnr/sigtok-go/internal/core/domain"
	"github.com/yndnr/sigtok-go/internal/crypto/signing"
	"github.com/yndnr/sigtok-go/internal/storage/cas"
)

// Token is a payload plus the ordered addresses of signatures over it.
//
// A Token is not safe for concurrent Sign calls.
type Token[T any] struct {
	backend    *Backend
	data       T
	signatures []domain.Hash
}

// New wraps data in an unsigned token.
func New[T any](backend *Backend, data T) *Token[T] {
	return &Token[T]{
		backend:    backend,
		data:       data,
		signatures: []domain.Hash{},
	}
}

// Datahash stores the payload and returns its address.
func (t *Token[T]) Datahash(ctx context.Context) (domain.Hash, error) {
	return cas.PutJSON(ctx, t.backend.Store, t.data)
}

// Hash stores the envelope and returns its address, the token string.
// An unsigned token can be hashed but will never read back.
func (t *Token[T]) Hash(ctx context.Context) (domain.Hash, error) {
	datahash, err := t.Datahash(ctx)
	if err != nil {
		return "", err
	}
	return cas.PutJSON(ctx, t.backend.Store, Envelope{
		Data:       datahash,
		Signatures: t.Signatures(),
	})
}

// Sign signs the payload address with key, stores the signature blob,
// records its address and returns the new token string.
func (t *Token[T]) Sign(ctx context.Context, key *signing.PrivateKey) (domain.Hash, error) {
	datahash, err := t.Datahash(ctx)
	if err != nil {
		return "", err
	}

	blob, err := t.backend.signer().Sign(datahash.String(), key)
	if err != nil {
		return "", domain.ErrSigningFailed.WithCause(err)
	}

	sig, err := t.backend.Store.Put(ctx, blob)
	if err != nil {
		return "", err
	}
	t.signatures = append(t.signatures, sig)

	return t.Hash(ctx)
}

// Verify reports whether the token's first signature was made by pub over
// the current payload. Failures are logged, never returned.
func (t *Token[T]) Verify(ctx context.Context, pub *signing.PublicKey) bool {
	if err := t.verify(ctx, pub); err != nil {
		t.backend.logger().WithContext(ctx).Warn("token verification failed",
			"error", err,
			"code", domain.GetErrorCode(err))
		return false
	}
	return true
}

// verify checks the first signature entry only. Its outcome, success or
// error, decides the result; later entries are never consulted.
func (t *Token[T]) verify(ctx context.Context, pub *signing.PublicKey) error {
	datahash, err := t.Datahash(ctx)
	if err != nil {
		return err
	}

	if len(t.signatures) == 0 {
		return domain.ErrNoSignatures
	}
	sig := t.signatures[0]

	blob, err := t.backend.Store.Get(ctx, sig)
	if errors.Is(err, domain.ErrBlobNotFound) {
		return domain.ErrSignatureNotFound.WithDetailsf("signature %s", sig).WithCause(err)
	}
	if err != nil {
		return err
	}

	message, err := t.backend.signer().Verify(blob, pub)
	if err != nil {
		return domain.ErrVerificationFailed.WithDetailsf("signature %s", sig).WithCause(err)
	}
	if message != datahash.String() {
		return domain.ErrVerificationFailed.WithDetailsf("signature %s covers %s, payload is %s", sig, message, datahash)
	}
	return nil
}

// Data returns a deep copy of the payload.
func (t *Token[T]) Data() (T, error) {
	var zero T
	copied, err := copystructure.Copy(t.data)
	if err != nil {
		return zero, domain.ErrPayloadEncoding.WithDetails("copy payload").WithCause(err)
	}
	if copied == nil {
		return zero, nil
	}
	out, ok := copied.(T)
	if !ok {
		return zero, domain.ErrPayloadEncoding.WithDetailsf("copy produced %T", copied)
	}
	return out, nil
}

// Signatures returns a copy of the signature addresses in signing order.
func (t *Token[T]) Signatures() []domain.Hash {
	out := make([]domain.Hash, len(t.signatures))
	copy(out, t.signatures)
	return out
}
