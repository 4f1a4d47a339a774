package cas

import (
	"context"
	"errors"
	"time"

	"github.com/yndnr/sigtok-go/internal/core/domain"
)

// Observer receives one record per store operation.
// *metric.Registry satisfies it.
type Observer interface {
	RecordStoreOperation(op, result string, seconds float64)
}

// Operation results reported to an Observer.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultMismatch = "mismatch"
	ResultError    = "error"
)

type instrumented struct {
	Store
	observer Observer
}

// Instrument wraps s so every operation is reported to observer.
// A nil observer returns s unchanged.
func Instrument(s Store, observer Observer) Store {
	if observer == nil {
		return s
	}
	return &instrumented{Store: s, observer: observer}
}

func (s *instrumented) Put(ctx context.Context, content []byte) (domain.Hash, error) {
	start := time.Now()
	hash, err := s.Store.Put(ctx, content)
	s.observe("put", start, err)
	return hash, err
}

func (s *instrumented) Get(ctx context.Context, hash domain.Hash) ([]byte, error) {
	start := time.Now()
	content, err := s.Store.Get(ctx, hash)
	s.observe("get", start, err)
	return content, err
}

func (s *instrumented) Has(ctx context.Context, hash domain.Hash) (bool, error) {
	start := time.Now()
	ok, err := s.Store.Has(ctx, hash)
	s.observe("has", start, err)
	return ok, err
}

// Unwrap returns the wrapped store.
func (s *instrumented) Unwrap() Store {
	return s.Store
}

func (s *instrumented) observe(op string, start time.Time, err error) {
	s.observer.RecordStoreOperation(op, resultOf(err), time.Since(start).Seconds())
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, domain.ErrBlobNotFound):
		return ResultNotFound
	case errors.Is(err, domain.ErrContentMismatch):
		return ResultMismatch
	default:
		return ResultError
	}
}
