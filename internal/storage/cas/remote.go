package cas

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yndnr/sigtok-go/internal/core/domain"
)

// MaxBlobSize bounds the size of a single blob accepted over HTTP.
const MaxBlobSize = 16 << 20

// RemoteStore talks to the blob API of a sigtok-server.
//
// The remote side is untrusted: every fetched body is re-hashed and
// rejected with domain.ErrContentMismatch if it does not match the address
// it was requested under.
type RemoteStore struct {
	baseURL   string
	client    *http.Client
	authToken string
}

// RemoteOption configures a RemoteStore.
type RemoteOption func(*RemoteStore)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(client *http.Client) RemoteOption {
	return func(s *RemoteStore) {
		s.client = client
	}
}

// WithAuthToken sets the bearer token sent with write requests.
func WithAuthToken(token string) RemoteOption {
	return func(s *RemoteStore) {
		s.authToken = token
	}
}

// WithTLSConfig sets the TLS configuration of the default HTTP client.
func WithTLSConfig(cfg *tls.Config) RemoteOption {
	return func(s *RemoteStore) {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = cfg
		s.client = &http.Client{Timeout: s.client.Timeout, Transport: transport}
	}
}

// NewRemoteStore creates a client for the blob API at server.
func NewRemoteStore(server string, opts ...RemoteOption) *RemoteStore {
	baseURL := strings.TrimRight(server, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	s := &RemoteStore{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put uploads content and checks the server agrees on its address.
// Content the server already holds is not uploaded again, so a client
// without write credentials can still address existing content.
func (s *RemoteStore) Put(ctx context.Context, content []byte) (domain.Hash, error) {
	want := Sum(content)
	exists, err := s.Has(ctx, want)
	if err != nil {
		return "", err
	}
	if exists {
		return want, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, s.baseURL+"/v1/blobs", bytes.NewReader(content))
	if err != nil {
		return "", storageError("put", fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	s.addHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", storageError("put", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", storageError("put", responseError(resp))
	}

	var result struct {
		Data struct {
			Hash string `json:"hash"`
		} `json:"data"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&result); err != nil {
		return "", storageError("put", fmt.Errorf("parse response: %w", err))
	}

	if domain.Hash(result.Data.Hash) != want {
		return "", domain.ErrContentMismatch.WithDetailsf("server stored %q, expected %s", result.Data.Hash, want)
	}
	return want, nil
}

// Get downloads the content at hash and verifies it.
func (s *RemoteStore) Get(ctx context.Context, hash domain.Hash) ([]byte, error) {
	resp, err := s.blobRequest(ctx, http.MethodGet, hash)
	if err != nil {
		return nil, storageError("get", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, notFound(hash)
	case resp.StatusCode >= 400:
		return nil, storageError("get", responseError(resp))
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, MaxBlobSize+1))
	if err != nil {
		return nil, storageError("get", fmt.Errorf("read body: %w", err))
	}
	if len(content) > MaxBlobSize {
		return nil, storageError("get", fmt.Errorf("blob exceeds %d bytes", MaxBlobSize))
	}
	if Sum(content) != hash {
		return nil, domain.ErrContentMismatch.WithDetailsf("address %s", hash)
	}
	return content, nil
}

// Has issues a HEAD request for hash.
func (s *RemoteStore) Has(ctx context.Context, hash domain.Hash) (bool, error) {
	resp, err := s.blobRequest(ctx, http.MethodHead, hash)
	if err != nil {
		return false, storageError("has", err)
	}
	resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= 400:
		return false, storageError("has", fmt.Errorf("request failed with status %d", resp.StatusCode))
	}
	return true, nil
}

// Close releases idle connections.
func (s *RemoteStore) Close() error {
	s.client.CloseIdleConnections()
	return nil
}

// BaseURL returns the base URL of the remote store.
func (s *RemoteStore) BaseURL() string {
	return s.baseURL
}

func (s *RemoteStore) blobRequest(ctx context.Context, method string, hash domain.Hash) (*http.Response, error) {
	if !hash.Valid() {
		return nil, domain.ErrInvalidHash.WithDetailsf("%q", hash)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+"/v1/blobs/"+hash.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	s.addHeaders(req)
	return s.client.Do(req)
}

func (s *RemoteStore) addHeaders(req *http.Request) {
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}
	req.Header.Set("User-Agent", "sigtok/1.0")
}

// responseError extracts the error envelope written by sigtok-server.
func responseError(resp *http.Response) error {
	var errResp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&errResp); err == nil && errResp.Message != "" {
		return fmt.Errorf("[%s] %s", errResp.Code, errResp.Message)
	}
	return fmt.Errorf("request failed with status %d", resp.StatusCode)
}
