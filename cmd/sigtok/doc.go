// Package main provides the entry point for sigtok.
//
// Each argument is handled in order. An argument of exactly 43
// characters is read as a token and prints its JSON payload, or false
// when it cannot be trusted. Any other argument is signed and prints
// the new token:
//
//	sigtok hello
//	sigtok TOKEN
//	sigtok create --json '{"user":"alice"}'
//	sigtok read TOKEN...
//	sigtok pubkey
//
// The private key is generated on first use. Blobs live in a local
// Badger store by default; --store remote points at a sigtok-server.
package main
