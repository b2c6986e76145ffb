package gatewayserver

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/worldsync/internal/core/domain"
)

// World is the fixture format served by the gateway.
type World struct {
	Constants        domain.Constants        `yaml:"constants"`
	WorldRadius      int64                   `yaml:"world_radius"`
	Players          []domain.Player         `yaml:"players"`
	TouchedPlanetIDs []domain.EntityID       `yaml:"touched_planet_ids"`
	RevealedCoords   []domain.RevealedCoords `yaml:"revealed_coords"`
	Planets          []domain.Planet         `yaml:"planets"`
	Arrivals         []domain.Arrival        `yaml:"arrivals"`
	Artifacts        []domain.Artifact       `yaml:"artifacts"`
}

// ParseWorld decodes a fixture. Unknown fields are rejected.
func ParseWorld(r io.Reader) (*World, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var w World
	if err := dec.Decode(&w); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse world: %w", err)
	}
	return &w, nil
}

// LoadWorld reads a fixture file.
func LoadWorld(path string) (*World, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open world: %w", err)
	}
	defer f.Close()
	return ParseWorld(f)
}

// worldIndex is an immutable lookup view over a World.
type worldIndex struct {
	world *World

	planets        map[domain.EntityID]domain.Planet
	revealed       map[domain.EntityID]domain.RevealedCoords
	revealedIDs    []domain.EntityID
	arrivals       map[domain.EntityID][]domain.Arrival
	artifacts      map[domain.ArtifactID]domain.Artifact
	planetArtifact map[domain.EntityID][]domain.Artifact
}

// newWorldIndex indexes w. Planets and artifacts must be unique by id.
func newWorldIndex(w *World) (*worldIndex, error) {
	idx := &worldIndex{
		world:          w,
		planets:        make(map[domain.EntityID]domain.Planet, len(w.Planets)),
		revealed:       make(map[domain.EntityID]domain.RevealedCoords, len(w.RevealedCoords)),
		revealedIDs:    make([]domain.EntityID, 0, len(w.RevealedCoords)),
		arrivals:       make(map[domain.EntityID][]domain.Arrival),
		artifacts:      make(map[domain.ArtifactID]domain.Artifact, len(w.Artifacts)),
		planetArtifact: make(map[domain.EntityID][]domain.Artifact),
	}

	for _, p := range w.Planets {
		if p.LocationID == "" {
			return nil, errors.New("world: planet without location_id")
		}
		if _, dup := idx.planets[p.LocationID]; dup {
			return nil, fmt.Errorf("world: duplicate planet %s", p.LocationID)
		}
		if p.Metadata.LocationID == "" {
			p.Metadata.LocationID = p.LocationID
		}
		idx.planets[p.LocationID] = p
	}

	// A planet revealed twice stays listed twice; lookups return the first.
	for _, rc := range w.RevealedCoords {
		if _, dup := idx.revealed[rc.Hash]; !dup {
			idx.revealed[rc.Hash] = rc
		}
		idx.revealedIDs = append(idx.revealedIDs, rc.Hash)
	}

	// Repeated voyage ids are served as given; clients must cope with them.
	for _, a := range w.Arrivals {
		idx.arrivals[a.ToPlanet] = append(idx.arrivals[a.ToPlanet], a)
	}

	for _, a := range w.Artifacts {
		if _, dup := idx.artifacts[a.ID]; dup {
			return nil, fmt.Errorf("world: duplicate artifact %s", a.ID)
		}
		idx.artifacts[a.ID] = a
		if a.OnPlanet != "" {
			idx.planetArtifact[a.OnPlanet] = append(idx.planetArtifact[a.OnPlanet], a)
		}
	}

	return idx, nil
}

// counts reports the record totals, keyed by kind.
func (idx *worldIndex) counts() map[string]int {
	return map[string]int{
		"players":            len(idx.world.Players),
		"touched_planet_ids": len(idx.world.TouchedPlanetIDs),
		"revealed_coords":    len(idx.world.RevealedCoords),
		"planets":            len(idx.planets),
		"arrivals":           len(idx.world.Arrivals),
		"artifacts":          len(idx.artifacts),
	}
}
