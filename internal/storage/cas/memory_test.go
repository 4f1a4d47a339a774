package cas

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/yndnr/sigtok-go/internal/core/domain"
)

func TestMemoryStore_PutGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	content := []byte("payload")
	h, err := s.Put(ctx, content)
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if h != Sum(content) {
		t.Errorf("Put() = %s, want %s", h, Sum(content))
	}

	content[0] = 'X'
	got, err := s.Get(ctx, h)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("Get() = %q, stored content was aliased", got)
	}

	got[0] = 'Y'
	again, _ := s.Get(ctx, h)
	if string(again) != "payload" {
		t.Errorf("Get() returned aliased slice")
	}

	ok, err := s.Has(ctx, h)
	if err != nil || !ok {
		t.Errorf("Has() = %v, %v", ok, err)
	}
	if s.Size() != int64(len("payload")) {
		t.Errorf("Size() = %d", s.Size())
	}
}

func TestMemoryStore_Missing(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	h := Sum([]byte("missing"))

	if _, err := s.Get(ctx, h); !errors.Is(err, domain.ErrBlobNotFound) {
		t.Errorf("Get() expected ErrBlobNotFound, got %v", err)
	}
	if ok, err := s.Has(ctx, h); err != nil || ok {
		t.Errorf("Has() = %v, %v", ok, err)
	}
}

func TestMemoryStore_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Put(ctx, []byte("same")); err != nil {
				t.Errorf("Put() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
	if s.Size() != 4 {
		t.Errorf("Size() = %d, want 4", s.Size())
	}
}

func TestMemoryStore_Closed(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.Close()

	_, err := s.Put(ctx, []byte("x"))
	if !errors.Is(err, domain.ErrStorage) || !errors.Is(err, ErrClosed) {
		t.Errorf("Put() after Close expected ErrStorage wrapping ErrClosed, got %v", err)
	}
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewMemoryStore()
	if _, err := s.Get(ctx, Sum(nil)); !errors.Is(err, domain.ErrStorage) {
		t.Errorf("expected ErrStorage, got %v", err)
	}
}
