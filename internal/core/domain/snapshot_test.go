package domain

import "testing"

func TestChunk_PlanetIDs(t *testing.T) {
	c := Chunk{PlanetLocations: []PlanetLocation{{Hash: "e1"}, {Hash: "e2"}}}
	ids := c.PlanetIDs()
	if len(ids) != 2 || ids[0] != "e1" || ids[1] != "e2" {
		t.Errorf("PlanetIDs() = %v", ids)
	}
}

func TestMinedSet(t *testing.T) {
	chunks := []Chunk{
		{PlanetLocations: []PlanetLocation{{Hash: "e1"}, {Hash: "e2"}}},
		{PlanetLocations: []PlanetLocation{{Hash: "e2"}, {Hash: "e3"}}},
		{},
	}
	set := MinedSet(chunks)
	if len(set) != 3 {
		t.Fatalf("len(MinedSet) = %d, want 3", len(set))
	}
	for _, id := range []EntityID{"e1", "e2", "e3"} {
		if _, ok := set[id]; !ok {
			t.Errorf("MinedSet missing %s", id)
		}
	}
}

func TestRectangle_Key(t *testing.T) {
	r := Rectangle{BottomLeft: Coords{X: -16, Y: 32}, SideLength: 16}
	if got := r.Key(); got != "-16,32,16" {
		t.Errorf("Key() = %q", got)
	}
}

func TestSnapshot_Fingerprint(t *testing.T) {
	a := &Snapshot{
		LoadedPlanets:     []EntityID{"e1", "e4", "e9"},
		Arrivals:          map[VoyageID]Arrival{"v1": {EventID: "v1"}, "v2": {EventID: "v2"}},
		RevealedCoordsMap: map[EntityID]RevealedCoords{"e4": {Hash: "e4"}},
	}
	b := &Snapshot{
		LoadedPlanets:     []EntityID{"e9", "e1", "e4"},
		Arrivals:          map[VoyageID]Arrival{"v2": {EventID: "v2"}, "v1": {EventID: "v1"}},
		RevealedCoordsMap: map[EntityID]RevealedCoords{"e4": {Hash: "e4"}},
	}
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("fingerprint should not depend on order")
	}
	if len(a.Fingerprint()) != 32 {
		t.Errorf("fingerprint length = %d, want 32", len(a.Fingerprint()))
	}

	b.LoadedPlanets = append(b.LoadedPlanets, "e10")
	if a.Fingerprint() == b.Fingerprint() {
		t.Error("fingerprint should change when loaded set changes")
	}
}

func TestSnapshot_IncomingVoyages(t *testing.T) {
	s := &Snapshot{
		PlanetVoyageIDs: map[EntityID][]VoyageID{"e1": {"v1", "v2"}, "e2": {}},
		Arrivals: map[VoyageID]Arrival{
			"v1": {EventID: "v1", ToPlanet: "e1"},
			"v2": {EventID: "v2", ToPlanet: "e1"},
		},
	}
	if !s.IsLoaded("e2") || s.IsLoaded("e3") {
		t.Error("IsLoaded mismatch")
	}
	got := s.IncomingVoyages("e1")
	if len(got) != 2 || got[0].EventID != "v1" || got[1].EventID != "v2" {
		t.Errorf("IncomingVoyages(e1) = %v", got)
	}
	if len(s.IncomingVoyages("e2")) != 0 {
		t.Error("IncomingVoyages(e2) should be empty")
	}
}

func TestArrival_CarriesArtifact(t *testing.T) {
	if (Arrival{}).CarriesArtifact() {
		t.Error("empty arrival should not carry an artifact")
	}
	if !(Arrival{ArtifactID: "a1"}).CarriesArtifact() {
		t.Error("arrival with artifact id should carry it")
	}
	if ArrivalWormhole.String() != "wormhole" || ArrivalNormal.String() != "normal" {
		t.Error("ArrivalType.String mismatch")
	}
}
