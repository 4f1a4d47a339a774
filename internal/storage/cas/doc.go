// Package cas provides the content-addressed store that tokens are built on.
//
// Every piece of content is stored under the BLAKE3-256 digest of its bytes,
// encoded as base64 RawURL (always domain.HashLen characters). Writes are
// idempotent: storing identical content twice yields the same address and
// leaves a single copy.
//
// Backends:
//
//   - MemoryStore: sharded in-process map, for tests and ephemeral servers
//   - BadgerStore: embedded Badger database with zstd compression and
//     optional at-rest sealing
//   - RemoteStore: HTTP client for a sigtok-server blob API; every fetched
//     body is re-hashed before it is returned
//
// JSON values are stored in canonical form (sorted object keys, numbers
// preserved verbatim) so that equal values always share an address.
package cas
