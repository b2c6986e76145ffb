// Package memory provides an in-process world cache.
//
// Store satisfies the same read and append contract as the Badger-backed
// storage.ChunkStore but keeps nothing across restarts. It backs
// `--cache-backend memory` runs and the service tests.
package memory
