package gatewayserver

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/yndnr/worldsync/internal/core/domain"
)

func loadFixture(t *testing.T) *World {
	t.Helper()
	w, err := LoadWorld(filepath.Join("testdata", "world.yaml"))
	if err != nil {
		t.Fatalf("LoadWorld() error = %v", err)
	}
	return w
}

func TestLoadWorld(t *testing.T) {
	w := loadFixture(t)

	if w.WorldRadius != 12000 || w.Constants.PlanetRarity != 16384 {
		t.Errorf("radius = %d, rarity = %d", w.WorldRadius, w.Constants.PlanetRarity)
	}
	if len(w.Players) != 2 || len(w.TouchedPlanetIDs) != 3 || len(w.RevealedCoords) != 2 {
		t.Errorf("players = %d, touched = %d, revealed = %d",
			len(w.Players), len(w.TouchedPlanetIDs), len(w.RevealedCoords))
	}
	if got := w.RevealedCoords[1].Coords; got != (domain.Coords{X: -900, Y: 310}) {
		t.Errorf("coords = %+v", got)
	}
	if w.Planets[0].Energy != 1500.5 || !w.Planets[0].Metadata.HasTriedFindingArtifact {
		t.Errorf("planet = %+v", w.Planets[0])
	}
	if w.Arrivals[0].ArtifactID != "art2" || w.Arrivals[1].ArrivalType != domain.ArrivalPhotoid {
		t.Errorf("arrivals = %+v", w.Arrivals)
	}
}

func TestParseWorld(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr string
	}{
		{"empty", "", ""},
		{"unknown field", "world_radius: 1\nplanetz: []\n", "planetz"},
		{"bad type", "world_radius: far\n", "parse world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWorld(strings.NewReader(tt.in))
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ParseWorld() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ParseWorld() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadWorld_Missing(t *testing.T) {
	if _, err := LoadWorld(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("LoadWorld() should fail for a missing file")
	}
}

func TestNewWorldIndex(t *testing.T) {
	idx, err := newWorldIndex(loadFixture(t))
	if err != nil {
		t.Fatalf("newWorldIndex() error = %v", err)
	}

	if got := idx.planets["0000b2"].Metadata.LocationID; got != "0000b2" {
		t.Errorf("metadata location should default to the planet id, got %q", got)
	}
	if got := idx.arrivals["0000b1"]; len(got) != 1 || got[0].EventID != "101" {
		t.Errorf("arrivals to 0000b1 = %+v", got)
	}
	if got := idx.planetArtifact["0000b1"]; len(got) != 1 || got[0].ID != "art1" {
		t.Errorf("artifacts on 0000b1 = %+v", got)
	}
	if _, ok := idx.planetArtifact["0000b2"]; ok {
		t.Error("artifacts on voyages should not be indexed by planet")
	}

	want := map[string]int{
		"players": 2, "touched_planet_ids": 3, "revealed_coords": 2,
		"planets": 4, "arrivals": 2, "artifacts": 2,
	}
	for k, v := range want {
		if got := idx.counts()[k]; got != v {
			t.Errorf("counts[%s] = %d, want %d", k, got, v)
		}
	}
}

func TestNewWorldIndex_Rejects(t *testing.T) {
	tests := []struct {
		name string
		w    World
	}{
		{"planet without id", World{Planets: []domain.Planet{{}}}},
		{"duplicate planet", World{Planets: []domain.Planet{{LocationID: "a"}, {LocationID: "a"}}}},
		{"duplicate artifact", World{Artifacts: []domain.Artifact{{ID: "x"}, {ID: "x"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := newWorldIndex(&tt.w); err == nil {
				t.Error("newWorldIndex() should fail")
			}
		})
	}
}

func TestNewWorldIndex_KeepsRepeats(t *testing.T) {
	w := &World{
		RevealedCoords: []domain.RevealedCoords{
			{Hash: "a", Coords: domain.Coords{X: 1}},
			{Hash: "a", Coords: domain.Coords{X: 2}},
		},
		Arrivals: []domain.Arrival{
			{EventID: "1", ToPlanet: "a"},
			{EventID: "1", ToPlanet: "a"},
		},
	}
	idx, err := newWorldIndex(w)
	if err != nil {
		t.Fatalf("newWorldIndex() error = %v", err)
	}
	if len(idx.revealedIDs) != 2 || idx.revealed["a"].Coords.X != 1 {
		t.Errorf("revealedIDs = %v, first = %+v", idx.revealedIDs, idx.revealed["a"])
	}
	if len(idx.arrivals["a"]) != 2 {
		t.Errorf("arrivals = %+v", idx.arrivals["a"])
	}
}
