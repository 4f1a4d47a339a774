package cas

import (
	"context"
	"sync/atomic"

	"github.com/yndnr/sigtok-go/internal/core/domain"
	"github.com/yndnr/sigtok-go/pkg/cmap"
)

// MemoryStore keeps content in a sharded in-process map.
type MemoryStore struct {
	blobs  *cmap.Map[domain.Hash, []byte]
	bytes  atomic.Int64
	closed atomic.Bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs: cmap.New[domain.Hash, []byte](),
	}
}

// Put stores a private copy of content.
func (s *MemoryStore) Put(ctx context.Context, content []byte) (domain.Hash, error) {
	if err := s.check(ctx); err != nil {
		return "", err
	}

	hash := Sum(content)
	stored := make([]byte, len(content))
	copy(stored, content)
	if s.blobs.SetIfAbsent(hash, stored) {
		s.bytes.Add(int64(len(stored)))
	}
	return hash, nil
}

// Get returns a copy of the content stored at hash.
func (s *MemoryStore) Get(ctx context.Context, hash domain.Hash) ([]byte, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	content, ok := s.blobs.Get(hash)
	if !ok {
		return nil, notFound(hash)
	}
	out := make([]byte, len(content))
	copy(out, content)
	return out, nil
}

// Has reports whether content exists at hash.
func (s *MemoryStore) Has(ctx context.Context, hash domain.Hash) (bool, error) {
	if err := s.check(ctx); err != nil {
		return false, err
	}
	return s.blobs.Has(hash), nil
}

// Len returns the number of stored blobs.
func (s *MemoryStore) Len() int {
	return s.blobs.Count()
}

// Size returns the total number of stored content bytes.
func (s *MemoryStore) Size() int64 {
	return s.bytes.Load()
}

// Close marks the store closed. Subsequent operations fail.
func (s *MemoryStore) Close() error {
	s.closed.Store(true)
	return nil
}

func (s *MemoryStore) check(ctx context.Context) error {
	if s.closed.Load() {
		return domain.ErrStorage.WithCause(ErrClosed)
	}
	if err := ctx.Err(); err != nil {
		return domain.ErrStorage.WithCause(err)
	}
	return nil
}
