// Package domain defines the core domain types for sigtok.
//
// Domain types are pure values without IO dependencies. This package contains:
//
//   - Hash: the fixed-length content address used for payloads, signature
//     blobs and token envelopes
//   - Errors: the closed set of domain errors shared by every layer
//
// Everything that talks to a store or a signer lives in internal/core/token
// and builds on these types.
package domain
