// Package handler provides HTTP request handlers for sigtok-server.
//
// This package contains handlers for all HTTP endpoints:
//
//   - tokens.go: token issue and read
//   - blobs.go: raw content store access for remote clients
//   - health.go: health and readiness checks
//
// All handlers follow a consistent pattern:
//
//   - Parse and validate request
//   - Call domain service
//   - Format and return response
//   - Handle errors with appropriate HTTP status codes
package handler
