package service

import (
	"context"

	"github.com/yndnr/sigtok-go/internal/core/domain"
	"github.com/yndnr/sigtok-go/internal/storage/cas"
)

// BlobService exposes raw store access for remote clients.
type BlobService struct {
	store   cas.Store
	maxSize int
}

// NewBlobService creates a BlobService. maxSize bounds accepted content;
// zero means cas.MaxBlobSize.
func NewBlobService(store cas.Store, maxSize int) *BlobService {
	if maxSize <= 0 {
		maxSize = cas.MaxBlobSize
	}
	return &BlobService{store: store, maxSize: maxSize}
}

// MaxSize returns the largest accepted blob.
func (s *BlobService) MaxSize() int {
	return s.maxSize
}

// Put stores content and returns its address.
func (s *BlobService) Put(ctx context.Context, content []byte) (domain.Hash, error) {
	if len(content) > s.maxSize {
		return "", domain.ErrInvalidArgument.WithDetailsf("blob is %d bytes, limit %d", len(content), s.maxSize)
	}
	return s.store.Put(ctx, content)
}

// Get returns the content at hash.
func (s *BlobService) Get(ctx context.Context, hash string) ([]byte, error) {
	h, err := domain.ParseHash(hash)
	if err != nil {
		return nil, err
	}
	return s.store.Get(ctx, h)
}

// Has reports whether content exists at hash.
func (s *BlobService) Has(ctx context.Context, hash string) (bool, error) {
	h, err := domain.ParseHash(hash)
	if err != nil {
		return false, err
	}
	return s.store.Has(ctx, h)
}

// Ping checks the store answers.
func (s *BlobService) Ping(ctx context.Context) error {
	_, err := s.store.Has(ctx, cas.Sum(nil))
	return err
}
