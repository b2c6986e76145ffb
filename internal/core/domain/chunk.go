package domain

import "fmt"

// Rectangle is the square footprint of a mined chunk.
type Rectangle struct {
	BottomLeft Coords `json:"bottom_left" yaml:"bottom_left"`
	SideLength int64  `json:"side_length" yaml:"side_length"`
}

// Key returns a stable string form used as the chunk's storage key.
func (r Rectangle) Key() string {
	return fmt.Sprintf("%d,%d,%d", r.BottomLeft.X, r.BottomLeft.Y, r.SideLength)
}

// PlanetLocation is a planet found by local mining inside a chunk.
type PlanetLocation struct {
	Hash      EntityID `json:"hash" yaml:"hash"`
	Coords    Coords   `json:"coords" yaml:"coords"`
	Perlin    int      `json:"perlin" yaml:"perlin"`
	Biomebase int      `json:"biomebase" yaml:"biomebase"`
}

// Chunk is a locally computed region record.
type Chunk struct {
	Footprint       Rectangle        `json:"footprint" yaml:"footprint"`
	PerlinMax       int              `json:"perlin_max,omitempty" yaml:"perlin_max,omitempty"`
	PlanetLocations []PlanetLocation `json:"planet_locations" yaml:"planet_locations"`
}

// PlanetIDs returns the ids of every planet located in the chunk, in order.
func (c Chunk) PlanetIDs() []EntityID {
	ids := make([]EntityID, 0, len(c.PlanetLocations))
	for _, loc := range c.PlanetLocations {
		ids = append(ids, loc.Hash)
	}
	return ids
}

// MinedSet returns the set of planet ids covered by the given chunks.
func MinedSet(chunks []Chunk) map[EntityID]struct{} {
	set := make(map[EntityID]struct{})
	for _, c := range chunks {
		for _, loc := range c.PlanetLocations {
			set[loc.Hash] = struct{}{}
		}
	}
	return set
}
