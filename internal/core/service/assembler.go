package service

import (
	"fmt"

	"github.com/yndnr/worldsync/internal/core/domain"
)

// AssemblyInput holds every fetched record a snapshot is built from.
type AssemblyInput struct {
	RunID       string
	Constants   domain.Constants
	WorldRadius int64
	Players     map[domain.Address]domain.Player

	AllTouched  []domain.EntityID
	AllRevealed []domain.RevealedCoords
	NewTouched  []domain.EntityID
	NewRevealed []domain.RevealedCoords

	Loaded             []domain.EntityID
	Planets            map[domain.EntityID]domain.Planet
	Arrivals           []domain.Arrival
	ArtifactsOnVoyages []domain.Artifact
	// HeldArtifacts is aligned with Loaded: one entry per loaded planet.
	HeldArtifacts [][]domain.Artifact
}

// Assemble builds the snapshot and its derived indices. It performs no IO.
// Data anomalies are recorded on the snapshot; the only error is a held
// artifact result that does not pair up with the loaded set.
func Assemble(in AssemblyInput) (*domain.Snapshot, error) {
	held, err := zipHeld(in.Loaded, in.HeldArtifacts)
	if err != nil {
		return nil, err
	}

	var anomalies []domain.Anomaly

	revealedIdx, dupReveals := indexRevealed(in.AllRevealed)
	anomalies = append(anomalies, dupReveals...)

	arrivals, voyages, voyageAnoms := indexVoyages(in.Loaded, in.Arrivals)
	anomalies = append(anomalies, voyageAnoms...)

	for _, id := range in.Loaded {
		if _, ok := in.Planets[id]; !ok {
			anomalies = append(anomalies, domain.Anomaly{Kind: domain.AnomalyMissingPlanet, PlanetID: id})
		}
	}

	planets := in.Planets
	if planets == nil {
		planets = make(map[domain.EntityID]domain.Planet)
	}
	players := in.Players
	if players == nil {
		players = make(map[domain.Address]domain.Player)
	}

	snap := &domain.Snapshot{
		RunID:               in.RunID,
		Constants:           in.Constants,
		WorldRadius:         in.WorldRadius,
		Players:             players,
		AllTouchedPlanetIDs: in.AllTouched,
		AllRevealedCoords:   in.AllRevealed,
		NewTouchedPlanetIDs: in.NewTouched,
		NewRevealedCoords:   in.NewRevealed,
		LoadedPlanets:       in.Loaded,
		Planets:             planets,
		PendingMoves:        in.Arrivals,
		ArtifactsOnVoyages:  in.ArtifactsOnVoyages,
		HeldArtifacts:       held,
		PlanetVoyageIDs:     voyages,
		RevealedCoordsMap:   revealedIdx,
		Arrivals:            arrivals,
		Anomalies:           anomalies,
		Stats: domain.SyncStats{
			LoadedPlanets: len(in.Loaded),
			Arrivals:      len(arrivals),
			Artifacts:     len(in.ArtifactsOnVoyages) + countHeld(held),
		},
	}
	return snap, nil
}

// indexRevealed keys revealed records by planet id. A repeated id keeps the
// later record and is reported.
func indexRevealed(all []domain.RevealedCoords) (map[domain.EntityID]domain.RevealedCoords, []domain.Anomaly) {
	idx := make(map[domain.EntityID]domain.RevealedCoords, len(all))
	var anomalies []domain.Anomaly
	for _, rc := range all {
		if _, ok := idx[rc.Hash]; ok {
			anomalies = append(anomalies, domain.Anomaly{Kind: domain.AnomalyDuplicateReveal, PlanetID: rc.Hash})
		}
		idx[rc.Hash] = rc
	}
	return idx, anomalies
}

// indexVoyages builds the voyage map and the destination index.
//
// The map is last-write-wins. The destination index holds one entry per
// loaded planet and lists each voyage once, under the destination of the
// record the map kept. Arrivals to planets outside the loaded set stay in
// the map but are not indexed.
func indexVoyages(loaded []domain.EntityID, arrivals []domain.Arrival) (map[domain.VoyageID]domain.Arrival, map[domain.EntityID][]domain.VoyageID, []domain.Anomaly) {
	var anomalies []domain.Anomaly

	byID := make(map[domain.VoyageID]domain.Arrival, len(arrivals))
	last := make(map[domain.VoyageID]int, len(arrivals))
	for i, a := range arrivals {
		if _, ok := byID[a.EventID]; ok {
			anomalies = append(anomalies, domain.Anomaly{Kind: domain.AnomalyDuplicateVoyage, VoyageID: a.EventID})
		}
		byID[a.EventID] = a
		last[a.EventID] = i
	}

	voyages := make(map[domain.EntityID][]domain.VoyageID, len(loaded))
	for _, id := range loaded {
		voyages[id] = []domain.VoyageID{}
	}
	for i, a := range arrivals {
		if last[a.EventID] != i {
			continue
		}
		ids, ok := voyages[a.ToPlanet]
		if !ok {
			anomalies = append(anomalies, domain.Anomaly{
				Kind:     domain.AnomalyUnloadedDestination,
				PlanetID: a.ToPlanet,
				VoyageID: a.EventID,
			})
			continue
		}
		voyages[a.ToPlanet] = append(ids, a.EventID)
	}
	return byID, voyages, anomalies
}

// zipHeld pairs each loaded planet with its artifact list.
func zipHeld(loaded []domain.EntityID, held [][]domain.Artifact) (map[domain.EntityID][]domain.Artifact, error) {
	if len(loaded) != len(held) {
		return nil, domain.ErrResultMisaligned.WithDetails(
			fmt.Sprintf("artifacts on planets: %d results for %d planets", len(held), len(loaded)))
	}
	out := make(map[domain.EntityID][]domain.Artifact, len(loaded))
	for i, id := range loaded {
		out[id] = held[i]
	}
	return out, nil
}

func countHeld(held map[domain.EntityID][]domain.Artifact) int {
	n := 0
	for _, arts := range held {
		n += len(arts)
	}
	return n
}
