// Package snapshot persists reconstructed world snapshots.
//
// A snapshot file (snapshot-<timestamp>-<seq>.wsnap) is laid out as
//
//	magic "WSNAP001"
//	uint32 header length | JSON header
//	uint32 body length   | body
//	SHA-256 of everything above
//
// The body is the JSON-encoded domain.Snapshot, zstd-compressed and,
// when a passphrase is configured, sealed with an AEAD whose additional
// data is the header. The key is derived per file: argon2id over the
// passphrase and a random salt stored in the header, then HKDF.
package snapshot
