package worldv1

import (
	"reflect"
	"testing"

	"github.com/yndnr/worldsync/internal/core/domain"
)

func TestPlanet_FixedPointRoundTrip(t *testing.T) {
	in := domain.Planet{
		LocationID:      "p1",
		Owner:           "0x01",
		PlanetLevel:     4,
		PlanetType:      domain.PlanetTypeSilverMine,
		Energy:          1234.567,
		EnergyCap:       5000,
		SilverGrowth:    0.125,
		HeldArtifactIDs: []domain.ArtifactID{"a1"},
		Metadata:        domain.PlanetMetadata{LocationID: "p1", Destroyed: true},
	}

	wire := PlanetFromDomain(in)
	if !wire.IsInitialized {
		t.Error("converted planet should be initialized")
	}
	if wire.Energy != 1234567 {
		t.Errorf("Energy on wire = %d, want 1234567", wire.Energy)
	}

	got := wire.ToDomain(PlanetMetadataFromDomain(in.Metadata))
	if !reflect.DeepEqual(got, in) {
		t.Errorf("round trip:\n got %+v\nwant %+v", got, in)
	}
}

func TestArrival_CarriedArtifact(t *testing.T) {
	in := domain.Arrival{EventID: "v1", ToPlanet: "p2", EnergyArriving: 10.5, ArrivalType: domain.ArrivalWormhole, ArtifactID: "a9"}
	got := ArrivalFromDomain(in).ToDomain()
	if !reflect.DeepEqual(got, in) {
		t.Errorf("round trip = %+v", got)
	}
	if ArrivalFromDomain(domain.Arrival{EventID: "v2"}).ToDomain().CarriesArtifact() {
		t.Error("arrival without artifact should not carry one")
	}
}

func TestCodec(t *testing.T) {
	var c Codec
	b, err := c.Marshal(&RangeRequest{StartIndex: 2, EndIndex: 5})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"startIndex":2,"endIndex":5}` {
		t.Errorf("Marshal() = %s", b)
	}

	var r RangeRequest
	if err := c.Unmarshal(b, &r); err != nil || r.EndIndex != 5 {
		t.Errorf("Unmarshal() = %+v, %v", r, err)
	}
	var e Empty
	if err := c.Unmarshal(nil, &e); err != nil {
		t.Errorf("Unmarshal(empty) error = %v", err)
	}
	if c.Name() != "json" {
		t.Errorf("Name() = %s", c.Name())
	}
}
