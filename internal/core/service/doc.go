// Package service provides the application services behind the sigtok CLI
// and HTTP server.
//
// This package contains:
//
//   - TokenService: issue and read tokens with a single configured key,
//     recording metrics and logging rejected reads
//   - BlobService: raw content-addressed blob access for the remote store API
//
// Services hold no per-request state and are safe for concurrent use.
package service
