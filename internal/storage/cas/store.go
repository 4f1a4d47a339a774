package cas

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/yndnr/sigtok-go/internal/core/domain"
)

// Store is a content-addressed blob store.
//
// Implementations must be safe for concurrent use. Get returns
// domain.ErrBlobNotFound for unknown addresses and wraps every other
// failure in domain.ErrStorage.
type Store interface {
	// Put stores content and returns its address.
	Put(ctx context.Context, content []byte) (domain.Hash, error)

	// Get returns the content stored at hash.
	Get(ctx context.Context, hash domain.Hash) ([]byte, error)

	// Has reports whether content exists at hash.
	Has(ctx context.Context, hash domain.Hash) (bool, error)

	// Close releases backend resources.
	Close() error
}

// Sum returns the content address of content.
func Sum(content []byte) domain.Hash {
	digest := blake3.Sum256(content)
	return domain.Hash(base64.RawURLEncoding.EncodeToString(digest[:]))
}

// PutJSON stores the canonical JSON encoding of v and returns its address.
func PutJSON(ctx context.Context, s Store, v any) (domain.Hash, error) {
	content, err := CanonicalJSON(v)
	if err != nil {
		return "", err
	}
	return s.Put(ctx, content)
}

// GetJSON fetches the content at hash and decodes it into v.
//
// Numbers are decoded as json.Number wherever the target is untyped, so a
// value read back and re-encoded with CanonicalJSON reproduces the stored
// bytes exactly.
func GetJSON(ctx context.Context, s Store, hash domain.Hash, v any) error {
	content, err := s.Get(ctx, hash)
	if err != nil {
		return err
	}
	return decodeJSON(content, v)
}

// CanonicalJSON encodes v so that equal JSON values produce identical bytes
// regardless of Go type: object keys are sorted and numbers keep their
// original textual form.
func CanonicalJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, domain.ErrPayloadEncoding.WithCause(err)
	}

	var tree any
	if err := decodeJSON(raw, &tree); err != nil {
		return nil, err
	}

	canonical, err := json.Marshal(tree)
	if err != nil {
		return nil, domain.ErrPayloadEncoding.WithCause(err)
	}
	return canonical, nil
}

func decodeJSON(content []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return domain.ErrPayloadEncoding.WithCause(err)
	}
	if dec.More() {
		return domain.ErrPayloadEncoding.WithDetails("trailing data after JSON value")
	}
	return nil
}

// storageError wraps a backend failure unless it already carries a domain code.
func storageError(op string, err error) error {
	if domain.IsDomainError(err, "") {
		return err
	}
	return domain.ErrStorage.WithDetails(op).WithCause(err)
}

// notFound builds the error returned for an unknown address.
func notFound(hash domain.Hash) error {
	return domain.ErrBlobNotFound.WithDetails(fmt.Sprintf("address %s", hash))
}
