// Package storage provides the local world cache.
//
// The cache lives in an embedded Badger store behind the KVEngine
// interface. ChunkStore lays the world records out on top of it:
//
//   - touched/<seq>:  touched planet ids, in first-seen order
//   - revealed/<seq>: revealed coordinates, in first-seen order
//   - chunk/<x,y,side>: mined chunks, zstd-compressed JSON
//   - meta/*: append counters
//
// Sequence suffixes are 8-byte big-endian so prefix scans return records
// in append order. Subpackage memory holds an in-process cache for tests
// and one-shot runs; subpackage snapshot persists assembled snapshots.
package storage
