package cas

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/yndnr/sigtok-go/internal/core/domain"
)

func TestSum(t *testing.T) {
	a := Sum([]byte("hello"))
	b := Sum([]byte("hello"))
	c := Sum([]byte("hello!"))

	if len(a) != domain.HashLen {
		t.Errorf("len(Sum) = %d, want %d", len(a), domain.HashLen)
	}
	if !a.Valid() {
		t.Errorf("Sum produced invalid address %q", a)
	}
	if a != b {
		t.Error("Sum is not deterministic")
	}
	if a == c {
		t.Error("different content produced the same address")
	}
	if got := Sum(nil); len(got) != domain.HashLen {
		t.Errorf("Sum(nil) length = %d", len(got))
	}
}

func TestCanonicalJSON(t *testing.T) {
	type payload struct {
		Zeta  int    `json:"zeta"`
		Alpha string `json:"alpha"`
	}

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", "hello", `"hello"`},
		{"null", nil, `null`},
		{"map keys sorted", map[string]any{"b": 1, "a": 2}, `{"a":2,"b":1}`},
		{"struct keys sorted", payload{Zeta: 1, Alpha: "x"}, `{"alpha":"x","zeta":1}`},
		{"large integer kept", json.Number("12345678901234567890"), `12345678901234567890`},
		{"nested", []any{map[string]any{"y": true, "x": nil}}, `[{"x":null,"y":true}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalJSON(tt.in)
			if err != nil {
				t.Fatalf("CanonicalJSON() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("CanonicalJSON() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCanonicalJSON_Unencodable(t *testing.T) {
	_, err := CanonicalJSON(make(chan int))
	if !errors.Is(err, domain.ErrPayloadEncoding) {
		t.Errorf("expected ErrPayloadEncoding, got %v", err)
	}
}

func TestPutJSON_StructAndMapShareAddress(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	type payload struct {
		Zeta  int    `json:"zeta"`
		Alpha string `json:"alpha"`
	}

	h1, err := PutJSON(ctx, s, payload{Zeta: 7, Alpha: "a"})
	if err != nil {
		t.Fatalf("PutJSON() error = %v", err)
	}
	h2, err := PutJSON(ctx, s, map[string]any{"alpha": "a", "zeta": 7})
	if err != nil {
		t.Fatalf("PutJSON() error = %v", err)
	}
	if h1 != h2 {
		t.Errorf("struct and map addresses differ: %s vs %s", h1, h2)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestGetJSON_RoundTripPreservesAddress(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	h, err := PutJSON(ctx, s, map[string]any{"n": json.Number("98765432109876543210"), "s": "x"})
	if err != nil {
		t.Fatalf("PutJSON() error = %v", err)
	}

	var v any
	if err := GetJSON(ctx, s, h, &v); err != nil {
		t.Fatalf("GetJSON() error = %v", err)
	}

	again, err := PutJSON(ctx, s, v)
	if err != nil {
		t.Fatalf("PutJSON() error = %v", err)
	}
	if again != h {
		t.Errorf("re-encoded value moved address: %s -> %s", h, again)
	}
}

func TestGetJSON_Errors(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var v any
	if err := GetJSON(ctx, s, Sum([]byte("absent")), &v); !errors.Is(err, domain.ErrBlobNotFound) {
		t.Errorf("expected ErrBlobNotFound, got %v", err)
	}

	for _, raw := range []string{"not json", `{"a":1} {"b":2}`} {
		h, _ := s.Put(ctx, []byte(raw))
		if err := GetJSON(ctx, s, h, &v); !errors.Is(err, domain.ErrPayloadEncoding) {
			t.Errorf("GetJSON(%q) expected ErrPayloadEncoding, got %v", raw, err)
		}
	}
}
