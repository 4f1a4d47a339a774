package token

import (
	"context"

	"github.com/yndnr/sigtok-go/internal/core/domain"
	"github.com/yndnr/sigtok-go/internal/crypto/signing"
	"github.com/yndnr/sigtok-go/internal/storage/cas"
)

// FromHash reconstructs and verifies the token stored at hash.
//
// The envelope is validated before any signature is fetched. A token is
// returned only when verification against pub succeeds.
func FromHash[T any](ctx context.Context, backend *Backend, hash domain.Hash, pub *signing.PublicKey) (*Token[T], error) {
	raw, err := backend.Store.Get(ctx, hash)
	if err != nil {
		return nil, err
	}

	env, err := DecodeEnvelope(raw)
	if err != nil {
		return nil, err
	}

	var data T
	if err := cas.GetJSON(ctx, backend.Store, env.Data, &data); err != nil {
		return nil, err
	}

	t := &Token[T]{
		backend:    backend,
		data:       data,
		signatures: env.Signatures,
	}
	if err := t.verify(ctx, pub); err != nil {
		return nil, err
	}
	return t, nil
}

// CreateToken signs data once with key and returns the token string.
// Every failure is returned unchanged.
func CreateToken[T any](ctx context.Context, backend *Backend, data T, key *signing.PrivateKey) (domain.Hash, error) {
	return New(backend, data).Sign(ctx, key)
}

// ReadToken returns the payload of token if it verifies against key's
// public half. Any failure yields (zero, false); the cause is logged only.
func ReadToken[T any](ctx context.Context, backend *Backend, token string, key *signing.PrivateKey) (T, bool) {
	var zero T
	if key == nil {
		backend.logger().WithContext(ctx).Warn("token read without a key", "token", token)
		return zero, false
	}

	data, err := Read[T](ctx, backend, token, key.Public())
	if err != nil {
		backend.logger().WithContext(ctx).Info("token read rejected",
			"token", token,
			"error", err,
			"code", domain.GetErrorCode(err))
		return zero, false
	}
	return data, true
}

// Read is ReadToken with the failure cause preserved, for callers that
// record it (metrics, logs) before collapsing it to a single outcome.
func Read[T any](ctx context.Context, backend *Backend, token string, pub *signing.PublicKey) (T, error) {
	var zero T

	hash, err := domain.ParseHash(token)
	if err != nil {
		return zero, err
	}
	t, err := FromHash[T](ctx, backend, hash, pub)
	if err != nil {
		return zero, err
	}
	return t.Data()
}
