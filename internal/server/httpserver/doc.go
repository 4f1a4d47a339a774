// Package httpserver provides the HTTP/HTTPS server for sigtok.
//
// Routes:
//
//   - Token endpoints: POST /v1/tokens, GET /v1/tokens/{token}
//   - Blob endpoints: PUT /v1/blobs, GET|HEAD /v1/blobs/{hash}
//   - Health endpoints: /health, /ready, /metrics
//
// Every route runs behind Recover, RequestID, RateLimit and AccessLog.
// Write routes additionally pass BearerAuth when an auth token is configured.
package httpserver
