// Package service reconstructs the world snapshot at client startup.
//
// The pass reads what the local cache already knows, fetches only the
// records the cache lacks, scopes each dependent fetch by the results of
// the previous ones, and assembles one consistent Snapshot:
//
//   - Cache, Remote: the collaborators, defined at their interface boundary
//   - planner: incremental fetches parametrized by cached counts
//   - Downloader: the dependency-ordered task graph of one pass
//   - Assemble: pure construction of the derived indices
//
// A pass is all-or-nothing. Any cache or remote failure aborts it and no
// partial snapshot is returned.
package service
