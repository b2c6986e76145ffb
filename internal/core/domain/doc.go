// Package domain defines the world model reconstructed at client startup.
//
// Records are plain values keyed by opaque string ids:
//
//   - Planet, Arrival, Artifact, Player: records fetched from the remote
//   - RevealedCoords, Chunk: location knowledge (revealed or locally mined)
//   - Snapshot: the assembled, read-only view with its derived indices
//   - Errors: coded failures shared by every layer
package domain
