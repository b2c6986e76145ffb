package storage

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/yndnr/worldsync/internal/core/domain"
)

func newTestChunkStore(t *testing.T) *ChunkStore {
	t.Helper()
	cfg := DefaultBadgerConfig(t.TempDir())
	cfg.GCInterval = 0
	cfg.SyncWrites = false
	cs, err := OpenCache(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { cs.Close() })
	return cs
}

func testChunk(x, y int64, ids ...domain.EntityID) domain.Chunk {
	c := domain.Chunk{Footprint: domain.Rectangle{BottomLeft: domain.Coords{X: x, Y: y}, SideLength: 16}}
	for i, id := range ids {
		c.PlanetLocations = append(c.PlanetLocations, domain.PlanetLocation{
			Hash:   id,
			Coords: domain.Coords{X: x + int64(i), Y: y},
			Perlin: 14,
		})
	}
	return c
}

func TestChunkStore_AppendPreservesOrder(t *testing.T) {
	cs := newTestChunkStore(t)
	ctx := context.Background()

	// More than 256 entries so big-endian ordering matters.
	var first []domain.EntityID
	for i := 0; i < 300; i++ {
		first = append(first, domain.EntityID(strings.Repeat("0", 60)+string(rune('a'+i%26))+string(rune('a'+i/26))))
	}
	if err := cs.AppendTouchedIDs(ctx, first[:200]); err != nil {
		t.Fatal(err)
	}
	if err := cs.AppendTouchedIDs(ctx, first[200:]); err != nil {
		t.Fatal(err)
	}

	got, err := cs.SavedTouchedIDs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(first) {
		t.Fatalf("expected %d ids, got %d", len(first), len(got))
	}
	for i := range first {
		if got[i] != first[i] {
			t.Fatalf("order differs at %d: %s != %s", i, got[i], first[i])
		}
	}
}

func TestChunkStore_RevealedCoords(t *testing.T) {
	cs := newTestChunkStore(t)
	ctx := context.Background()

	in := []domain.RevealedCoords{
		{Hash: "p1", Coords: domain.Coords{X: -5, Y: 7}, Revealer: "0xabc"},
		{Hash: "p2", Coords: domain.Coords{X: 100, Y: -100}, Revealer: "0xdef"},
	}
	if err := cs.AppendRevealedCoords(ctx, in); err != nil {
		t.Fatal(err)
	}
	got, err := cs.SavedRevealedCoords(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != in[0] || got[1] != in[1] {
		t.Errorf("SavedRevealedCoords() = %+v", got)
	}
}

func TestChunkStore_Chunks(t *testing.T) {
	cs := newTestChunkStore(t)
	ctx := context.Background()

	if err := cs.PutChunks(ctx, []domain.Chunk{
		testChunk(0, 0, "p1", "p2"),
		testChunk(16, 0, "p3"),
	}); err != nil {
		t.Fatal(err)
	}
	// Same footprint replaces.
	if err := cs.PutChunks(ctx, []domain.Chunk{testChunk(16, 0, "p3", "p4")}); err != nil {
		t.Fatal(err)
	}

	chunks, err := cs.AllChunks(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	mined := domain.MinedSet(chunks)
	for _, id := range []domain.EntityID{"p1", "p2", "p3", "p4"} {
		if _, ok := mined[id]; !ok {
			t.Errorf("mined set missing %s", id)
		}
	}
}

func TestChunkStore_CountsAndClear(t *testing.T) {
	cs := newTestChunkStore(t)
	ctx := context.Background()

	counts, err := cs.Counts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if counts != (CacheCounts{}) {
		t.Errorf("empty cache counts = %+v", counts)
	}

	_ = cs.AppendTouchedIDs(ctx, []domain.EntityID{"a", "b", "c"})
	_ = cs.AppendRevealedCoords(ctx, []domain.RevealedCoords{{Hash: "a"}})
	_ = cs.PutChunks(ctx, []domain.Chunk{testChunk(0, 0, "a", "x")})

	counts, err = cs.Counts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := CacheCounts{TouchedPlanetIDs: 3, RevealedCoords: 1, Chunks: 1, MinedPlanets: 2}
	if counts != want {
		t.Errorf("Counts() = %+v, want %+v", counts, want)
	}

	if err := cs.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	counts, _ = cs.Counts(ctx)
	if counts != (CacheCounts{}) {
		t.Errorf("counts after clear = %+v", counts)
	}

	// Appends restart from zero after a clear.
	_ = cs.AppendTouchedIDs(ctx, []domain.EntityID{"z"})
	ids, _ := cs.SavedTouchedIDs(ctx)
	if len(ids) != 1 || ids[0] != "z" {
		t.Errorf("ids after clear = %v", ids)
	}
}

func TestChunkStore_ImportExport(t *testing.T) {
	src := newTestChunkStore(t)
	ctx := context.Background()

	file, err := ReadCacheFile(strings.NewReader(`
touched_planet_ids: [p1, p2]
revealed_coords:
  - hash: p1
    coords: {x: 3, y: 4}
    revealer: "0x01"
chunks:
  - footprint:
      bottom_left: {x: 0, y: 0}
      side_length: 32
    planet_locations:
      - hash: p1
        coords: {x: 3, y: 4}
        perlin: 15
        biomebase: 2
`))
	if err != nil {
		t.Fatal(err)
	}
	if err := src.Import(ctx, file); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := src.Export(ctx, &buf); err != nil {
		t.Fatal(err)
	}

	back, err := ReadCacheFile(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(back.TouchedPlanetIDs) != 2 || len(back.RevealedCoords) != 1 || len(back.Chunks) != 1 {
		t.Fatalf("round trip lost records: %+v", back)
	}
	if back.RevealedCoords[0].Coords != (domain.Coords{X: 3, Y: 4}) {
		t.Errorf("coords = %+v", back.RevealedCoords[0].Coords)
	}
	if back.Chunks[0].PlanetLocations[0].Biomebase != 2 {
		t.Errorf("chunk = %+v", back.Chunks[0])
	}
}

func TestReadCacheFile_UnknownField(t *testing.T) {
	if _, err := ReadCacheFile(strings.NewReader("bogus: 1\n")); err == nil {
		t.Error("expected error for unknown field")
	}
}
