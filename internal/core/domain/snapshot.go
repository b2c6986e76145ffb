package domain

import (
	"encoding/binary"
	"encoding/hex"
	"sort"

	"github.com/spaolacci/murmur3"
)

// AnomalyKind classifies a data-integrity anomaly seen during assembly.
type AnomalyKind string

const (
	// AnomalyDuplicateVoyage: two fetched arrivals share one VoyageID.
	AnomalyDuplicateVoyage AnomalyKind = "duplicate_voyage"
	// AnomalyUnloadedDestination: an arrival targets a planet outside the loaded set.
	AnomalyUnloadedDestination AnomalyKind = "unloaded_destination"
	// AnomalyDuplicateReveal: two revealed records share one planet id.
	AnomalyDuplicateReveal AnomalyKind = "duplicate_reveal"
	// AnomalyMissingPlanet: the remote returned no record for a loaded planet.
	AnomalyMissingPlanet AnomalyKind = "missing_planet"
)

// Anomaly is one non-fatal inconsistency found in remote data.
type Anomaly struct {
	Kind     AnomalyKind `json:"kind" yaml:"kind"`
	PlanetID EntityID    `json:"planet_id,omitempty" yaml:"planet_id,omitempty"`
	VoyageID VoyageID    `json:"voyage_id,omitempty" yaml:"voyage_id,omitempty"`
}

// SyncStats counts what a reconstruction pass read from cache and fetched.
type SyncStats struct {
	CachedTouched   int `json:"cached_touched" yaml:"cached_touched"`
	FetchedTouched  int `json:"fetched_touched" yaml:"fetched_touched"`
	CachedRevealed  int `json:"cached_revealed" yaml:"cached_revealed"`
	FetchedRevealed int `json:"fetched_revealed" yaml:"fetched_revealed"`
	MinedPlanets    int `json:"mined_planets" yaml:"mined_planets"`
	Candidates      int `json:"candidates" yaml:"candidates"`
	LoadedPlanets   int `json:"loaded_planets" yaml:"loaded_planets"`
	Arrivals        int `json:"arrivals" yaml:"arrivals"`
	Artifacts       int `json:"artifacts" yaml:"artifacts"`
}

// Snapshot is the reconstructed world. Built once per pass and read-only afterwards.
type Snapshot struct {
	RunID       string             `json:"run_id"`
	Constants   Constants          `json:"constants"`
	WorldRadius int64              `json:"world_radius"`
	Players     map[Address]Player `json:"players"`

	// AllTouchedPlanetIDs is cached ids followed by newly fetched ids.
	AllTouchedPlanetIDs []EntityID `json:"all_touched_planet_ids"`
	// AllRevealedCoords is cached records followed by newly fetched records.
	AllRevealedCoords []RevealedCoords `json:"all_revealed_coords"`
	// NewTouchedPlanetIDs and NewRevealedCoords are what this pass fetched.
	NewTouchedPlanetIDs []EntityID       `json:"new_touched_planet_ids"`
	NewRevealedCoords   []RevealedCoords `json:"new_revealed_coords"`

	// LoadedPlanets is the deduplicated materialized set.
	LoadedPlanets []EntityID          `json:"loaded_planets"`
	Planets       map[EntityID]Planet `json:"planets"`
	PendingMoves  []Arrival           `json:"pending_moves"`

	ArtifactsOnVoyages []Artifact              `json:"artifacts_on_voyages"`
	HeldArtifacts      map[EntityID][]Artifact `json:"held_artifacts"`

	// Derived indices.
	PlanetVoyageIDs   map[EntityID][]VoyageID     `json:"planet_voyage_ids"`
	RevealedCoordsMap map[EntityID]RevealedCoords `json:"revealed_coords_map"`
	Arrivals          map[VoyageID]Arrival        `json:"arrivals"`

	Anomalies []Anomaly `json:"anomalies,omitempty"`
	Stats     SyncStats `json:"stats"`
}

// IsLoaded reports whether the planet belongs to the materialized set.
func (s *Snapshot) IsLoaded(id EntityID) bool {
	_, ok := s.PlanetVoyageIDs[id]
	return ok
}

// IncomingVoyages returns the arrivals destined for a loaded planet, in index order.
func (s *Snapshot) IncomingVoyages(id EntityID) []Arrival {
	ids := s.PlanetVoyageIDs[id]
	out := make([]Arrival, 0, len(ids))
	for _, vid := range ids {
		if arr, ok := s.Arrivals[vid]; ok {
			out = append(out, arr)
		}
	}
	return out
}

// Fingerprint digests the identity of the snapshot: loaded planets,
// voyages and revealed locations. Two passes over the same world state
// yield the same fingerprint regardless of fetch order.
func (s *Snapshot) Fingerprint() string {
	h := murmur3.New128()

	loaded := make([]string, 0, len(s.LoadedPlanets))
	for _, id := range s.LoadedPlanets {
		loaded = append(loaded, string(id))
	}
	writeSorted(h, "planets", loaded)

	voyages := make([]string, 0, len(s.Arrivals))
	for id := range s.Arrivals {
		voyages = append(voyages, string(id))
	}
	writeSorted(h, "voyages", voyages)

	revealed := make([]string, 0, len(s.RevealedCoordsMap))
	for id := range s.RevealedCoordsMap {
		revealed = append(revealed, string(id))
	}
	writeSorted(h, "revealed", revealed)

	h1, h2 := h.Sum128()
	var buf [16]byte
	binary.BigEndian.PutUint64(buf[:8], h1)
	binary.BigEndian.PutUint64(buf[8:], h2)
	return hex.EncodeToString(buf[:])
}

func writeSorted(h murmur3.Hash128, section string, values []string) {
	sort.Strings(values)
	_, _ = h.Write([]byte(section))
	_, _ = h.Write([]byte{0})
	for _, v := range values {
		_, _ = h.Write([]byte(v))
		_, _ = h.Write([]byte{0})
	}
}
