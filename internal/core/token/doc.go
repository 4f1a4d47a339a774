// Package token implements signed, content-addressed tokens.
//
// A token wraps a JSON payload. The payload is stored in a content-addressed
// store and its address (the datahash) is signed; each signature blob is
// stored too, and the envelope {"data": datahash, "signatures": [...]} is
// stored last. The address of that envelope is the token string handed to
// callers.
//
// Reading a token reverses the process: the envelope is fetched and
// validated structurally, the payload is fetched by its address, and the
// first signature is checked against the payload's recomputed address.
//
// All store and signing capabilities are passed in through a Backend; the
// package holds no global state.
package token
