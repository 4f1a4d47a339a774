package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yndnr/sigtok-go/internal/core/domain"
	"github.com/yndnr/sigtok-go/internal/core/service"
	"github.com/yndnr/sigtok-go/internal/core/token"
	"github.com/yndnr/sigtok-go/internal/crypto/signing"
	"github.com/yndnr/sigtok-go/internal/storage/cas"
)

// failingStore answers every call with a storage error.
type failingStore struct{}

func (failingStore) Put(context.Context, []byte) (domain.Hash, error) {
	return "", domain.ErrStorage.WithCause(errors.New("disk on fire"))
}

func (failingStore) Get(context.Context, domain.Hash) ([]byte, error) {
	return nil, domain.ErrStorage.WithCause(errors.New("disk on fire"))
}

func (failingStore) Has(context.Context, domain.Hash) (bool, error) {
	return false, domain.ErrStorage.WithCause(errors.New("disk on fire"))
}

func (failingStore) Close() error { return nil }

func newTestHandler(t *testing.T, store cas.Store) *Handler {
	t.Helper()
	key, err := signing.GenerateKey(signing.DefaultScheme)
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	backend := token.NewBackend(store, nil, nil)
	return New(service.NewTokenService(backend, key, nil), service.NewBlobService(store, 1024), nil)
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return resp
}

func createToken(t *testing.T, h http.Handler, body string) string {
	t.Helper()
	rec := do(h, http.MethodPost, "/v1/tokens", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /v1/tokens status = %d, body = %s", rec.Code, rec.Body.String())
	}
	data, _ := decodeResponse(t, rec).Data.(map[string]any)
	tok, _ := data["token"].(string)
	if len(tok) != domain.HashLen {
		t.Fatalf("token = %q, want %d characters", tok, domain.HashLen)
	}
	return tok
}

func TestHandler_CreateAndReadToken(t *testing.T) {
	h := newTestHandler(t, cas.NewMemoryStore())

	tok := createToken(t, h, `{"user":"alice","n":12345678901234567890}`)

	rec := do(h, http.MethodGet, "/v1/tokens/"+tok, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"n":12345678901234567890`) {
		t.Errorf("large integer not preserved: %s", rec.Body.String())
	}

	resp := decodeResponse(t, rec)
	data, _ := resp.Data.(map[string]any)
	if data["valid"] != true {
		t.Errorf("valid = %v, want true", data["valid"])
	}
	payload, _ := data["data"].(map[string]any)
	if payload["user"] != "alice" {
		t.Errorf("data = %v", payload)
	}
}

func TestHandler_CreateToken_Deterministic(t *testing.T) {
	h := newTestHandler(t, cas.NewMemoryStore())

	a := createToken(t, h, `{"b":1,"a":2}`)
	b := createToken(t, h, `{"a":2, "b":1}`)
	if a != b {
		t.Errorf("equivalent payloads produced %q and %q", a, b)
	}
}

func TestHandler_CreateToken_BadBody(t *testing.T) {
	h := newTestHandler(t, cas.NewMemoryStore())

	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"not json", "hello"},
		{"two values", `{} {}`},
		{"truncated", `{"a":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, http.MethodPost, "/v1/tokens", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if got := decodeResponse(t, rec).Code; got != domain.ErrInvalidArgument.Code {
				t.Errorf("code = %q", got)
			}
		})
	}
}

func TestHandler_CreateToken_StorageFailure(t *testing.T) {
	h := newTestHandler(t, failingStore{})

	rec := do(h, http.MethodPost, "/v1/tokens", `"x"`)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	resp := decodeResponse(t, rec)
	if resp.Code != domain.ErrStorage.Code {
		t.Errorf("code = %q", resp.Code)
	}
	if strings.Contains(rec.Body.String(), "disk on fire") {
		t.Error("internal cause leaked to client")
	}
}

func TestHandler_ReadToken_Uniform404(t *testing.T) {
	store := cas.NewMemoryStore()
	h := newTestHandler(t, store)
	ctx := context.Background()

	unsigned, err := cas.PutJSON(ctx, store, map[string]any{
		"data":       cas.Sum([]byte(`"x"`)),
		"signatures": []string{},
	})
	if err != nil {
		t.Fatal(err)
	}
	notEnvelope, err := store.Put(ctx, []byte(`[1,2,3]`))
	if err != nil {
		t.Fatal(err)
	}

	// A token signed by a different key.
	foreign := createToken(t, newTestHandler(t, store), `"foreign"`)

	tests := []struct {
		name  string
		token string
	}{
		{"missing", cas.Sum([]byte("never stored")).String()},
		{"wrong length", "abc"},
		{"no signatures", unsigned.String()},
		{"not an envelope", notEnvelope.String()},
		{"other key", foreign},
	}

	var first string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, http.MethodGet, "/v1/tokens/"+tt.token, "")
			if rec.Code != http.StatusNotFound {
				t.Fatalf("status = %d, want 404", rec.Code)
			}
			resp := decodeResponse(t, rec)
			if resp.Code != domain.ErrTokenInvalid.Code {
				t.Errorf("code = %q", resp.Code)
			}
			data, _ := resp.Data.(map[string]any)
			if v, ok := data["valid"]; !ok || v != false {
				t.Errorf("data = %v, want valid=false", resp.Data)
			}
			if resp.Details != nil {
				t.Errorf("details = %v, want none", resp.Details)
			}
			if first == "" {
				first = resp.Message
			} else if resp.Message != first {
				t.Errorf("message %q differs from %q", resp.Message, first)
			}
		})
	}
}

func TestHandler_Blobs(t *testing.T) {
	h := newTestHandler(t, cas.NewMemoryStore())
	content := "raw bytes"
	want := cas.Sum([]byte(content)).String()

	rec := do(h, http.MethodPut, "/v1/blobs", content)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, body = %s", rec.Code, rec.Body.String())
	}
	data, _ := decodeResponse(t, rec).Data.(map[string]any)
	if data["hash"] != want {
		t.Errorf("hash = %v, want %s", data["hash"], want)
	}

	rec = do(h, http.MethodGet, "/v1/blobs/"+want, "")
	if rec.Code != http.StatusOK || rec.Body.String() != content {
		t.Errorf("GET = %d %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/octet-stream" {
		t.Errorf("Content-Type = %q", ct)
	}

	missing := cas.Sum([]byte("missing")).String()
	tests := []struct {
		name   string
		method string
		hash   string
		status int
	}{
		{"head present", http.MethodHead, want, http.StatusOK},
		{"head missing", http.MethodHead, missing, http.StatusNotFound},
		{"head invalid", http.MethodHead, "short", http.StatusBadRequest},
		{"get missing", http.MethodGet, missing, http.StatusNotFound},
		{"get invalid", http.MethodGet, "short", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, tt.method, "/v1/blobs/"+tt.hash, "")
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
		})
	}
}

func TestHandler_PutBlob_TooLarge(t *testing.T) {
	h := newTestHandler(t, cas.NewMemoryStore())

	rec := do(h, http.MethodPut, "/v1/blobs", strings.Repeat("x", 1025))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestHandler_Health(t *testing.T) {
	tests := []struct {
		name   string
		store  cas.Store
		path   string
		status int
		want   string
	}{
		{"health", cas.NewMemoryStore(), "/health", http.StatusOK, "healthy"},
		{"ready", cas.NewMemoryStore(), "/ready", http.StatusOK, "ready"},
		{"health with broken store", failingStore{}, "/health", http.StatusOK, "healthy"},
		{"ready with broken store", failingStore{}, "/ready", http.StatusServiceUnavailable, "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(newTestHandler(t, tt.store), http.MethodGet, tt.path, "")
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			data, _ := decodeResponse(t, rec).Data.(map[string]any)
			if data["status"] != tt.want {
				t.Errorf("status field = %v, want %s", data["status"], tt.want)
			}
		})
	}
}

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{domain.ErrBlobNotFound.Code, http.StatusNotFound},
		{domain.ErrTokenInvalid.Code, http.StatusNotFound},
		{domain.ErrInvalidHash.Code, http.StatusBadRequest},
		{domain.ErrInvalidArgument.Code, http.StatusBadRequest},
		{domain.ErrMalformedEnvelope.Code, http.StatusBadRequest},
		{domain.ErrContentMismatch.Code, http.StatusBadGateway},
		{domain.ErrStorage.Code, http.StatusServiceUnavailable},
		{domain.ErrSigningFailed.Code, http.StatusInternalServerError},
		{domain.ErrRateLimited.Code, http.StatusTooManyRequests},
		{"unknown", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := errorCodeToHTTPStatus(tt.code); got != tt.want {
				t.Errorf("errorCodeToHTTPStatus(%q) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}
