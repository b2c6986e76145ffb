// Package worldv1 defines the wire messages of the worldsync.v1.WorldService
// read API.
//
// The service mirrors the paginated view functions of the world contract:
// counts, index ranges of append-only lists, and bulk lookups by id. Bulk
// lookups return results aligned with the request ids; a planet the source
// has never seen comes back with IsInitialized false.
//
// Messages are plain structs serialized as JSON through Codec. Client and
// handler constructors live in worldv1connect.
package worldv1
