// Package main provides the entry point for sigtok-server.
//
// The server issues and reads tokens over HTTP and exposes its content
// store so sigtok clients can share it:
//
//   - POST /v1/tokens and GET /v1/tokens/{token}
//   - PUT /v1/blobs, GET and HEAD /v1/blobs/{hash}
//   - /health, /ready and /metrics
//
// Usage:
//
//	sigtok-server [flags]
//	sigtok-server --config /etc/sigtok/server.yaml
//
// Settings come from defaults, then the config file, then SIGTOK_*
// environment variables. Edits to log.level in the config file apply
// without a restart.
package main
