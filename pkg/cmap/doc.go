// Package cmap provides a concurrent map keyed by strings.
//
// The map is split into shards selected by a murmur3 hash of the key,
// each guarded by its own RWMutex, so unrelated keys rarely contend.
// It backs the in-memory content store, where keys are content
// addresses and writes are insert-only.
//
// Usage:
//
//	m := cmap.New[domain.Hash, []byte]()
//	m.SetIfAbsent(h, content)
//	val, ok := m.Get(h)
package cmap
