// Package signing produces and checks detached signature blobs over token
// payload addresses.
//
// Keys come from any scheme registered with circl (Ed25519 by default,
// ML-DSA-65 for post-quantum deployments). Keys and signatures have
// armored PEM text forms so they can be stored in files and in the
// content-addressed store.
//
// A signature blob records the scheme, the signer's fingerprint, the
// signed message and the raw signature, encoded as deterministic CBOR.
// Verify recovers the message only when a supplied key matches the signer
// and the signature checks out.
package signing
