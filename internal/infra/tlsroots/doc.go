// Package tlsroots loads TLS material for sigtok.
//
//   - roots.go: trust pools for clients of a remote store (system roots
//     plus an optional CA file)
//   - reloader.go: a server certificate that is reloaded when its files
//     change on disk
package tlsroots
