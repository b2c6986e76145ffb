package service

import (
	"context"
	"sync"

	"github.com/yndnr/worldsync/internal/core/domain"
	"github.com/yndnr/worldsync/internal/core/progress"
)

type fakeCache struct {
	touched  []domain.EntityID
	revealed []domain.RevealedCoords
	chunks   []domain.Chunk
	err      error
}

func (c *fakeCache) SavedTouchedIDs(context.Context) ([]domain.EntityID, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.touched, nil
}

func (c *fakeCache) SavedRevealedCoords(context.Context) ([]domain.RevealedCoords, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.revealed, nil
}

func (c *fakeCache) AllChunks(context.Context) ([]domain.Chunk, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.chunks, nil
}

func minedChunk(ids ...domain.EntityID) domain.Chunk {
	c := domain.Chunk{}
	for _, id := range ids {
		c.PlanetLocations = append(c.PlanetLocations, domain.PlanetLocation{Hash: id})
	}
	return c
}

// fakeRemote serves a fixed world. touched and revealed are the complete
// remote lists; the first startingAt entries are skipped like a real client.
type fakeRemote struct {
	touched   []domain.EntityID
	revealed  []domain.RevealedCoords
	arrivals  []domain.Arrival
	planets   map[domain.EntityID]domain.Planet
	artifacts map[domain.ArtifactID]domain.Artifact
	held      map[domain.EntityID][]domain.Artifact

	// errs fails the named method.
	errs map[string]error
	// hooks run at the start of the named method.
	hooks map[string]func(ctx context.Context)
	// heldShort drops the last entry of ArtifactsOnPlanets.
	heldShort bool

	mu            sync.Mutex
	calls         []string
	scope         map[string][]domain.EntityID
	startingAt    map[string]int
	artifactScope []domain.ArtifactID
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		planets:    make(map[domain.EntityID]domain.Planet),
		artifacts:  make(map[domain.ArtifactID]domain.Artifact),
		held:       make(map[domain.EntityID][]domain.Artifact),
		errs:       make(map[string]error),
		hooks:      make(map[string]func(ctx context.Context)),
		scope:      make(map[string][]domain.EntityID),
		startingAt: make(map[string]int),
	}
}

func (r *fakeRemote) enter(ctx context.Context, name string) error {
	r.mu.Lock()
	r.calls = append(r.calls, name)
	hook := r.hooks[name]
	err := r.errs[name]
	r.mu.Unlock()
	if hook != nil {
		hook(ctx)
	}
	if err != nil {
		return err
	}
	return ctx.Err()
}

func (r *fakeRemote) called(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.calls {
		if c == name {
			return true
		}
	}
	return false
}

func (r *fakeRemote) indexOf(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, c := range r.calls {
		if c == name {
			return i
		}
	}
	return -1
}

func (r *fakeRemote) Constants(ctx context.Context) (domain.Constants, error) {
	if err := r.enter(ctx, "Constants"); err != nil {
		return domain.Constants{}, err
	}
	return domain.Constants{PlanetRarity: 16384}, nil
}

func (r *fakeRemote) WorldRadius(ctx context.Context) (int64, error) {
	if err := r.enter(ctx, "WorldRadius"); err != nil {
		return 0, err
	}
	return 4096, nil
}

func (r *fakeRemote) Players(ctx context.Context, rep progress.Reporter) (map[domain.Address]domain.Player, error) {
	if err := r.enter(ctx, "Players"); err != nil {
		return nil, err
	}
	rep.Report(1)
	return map[domain.Address]domain.Player{"0xabc": {Address: "0xabc"}}, nil
}

func (r *fakeRemote) TouchedPlanetIDs(ctx context.Context, startingAt int, rep progress.Reporter) ([]domain.EntityID, error) {
	if err := r.enter(ctx, "TouchedPlanetIDs"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.startingAt["TouchedPlanetIDs"] = startingAt
	r.mu.Unlock()
	rep.Report(0.5)
	rep.Report(1)
	if startingAt >= len(r.touched) {
		return nil, nil
	}
	return append([]domain.EntityID(nil), r.touched[startingAt:]...), nil
}

func (r *fakeRemote) RevealedCoords(ctx context.Context, startingAt int, idsR, coordsR progress.Reporter) ([]domain.RevealedCoords, error) {
	if err := r.enter(ctx, "RevealedCoords"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.startingAt["RevealedCoords"] = startingAt
	r.mu.Unlock()
	idsR.Report(1)
	coordsR.Report(1)
	if startingAt >= len(r.revealed) {
		return nil, nil
	}
	return append([]domain.RevealedCoords(nil), r.revealed[startingAt:]...), nil
}

func (r *fakeRemote) Arrivals(ctx context.Context, planets []domain.EntityID, rep progress.Reporter) ([]domain.Arrival, error) {
	if err := r.enter(ctx, "Arrivals"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.scope["Arrivals"] = append([]domain.EntityID(nil), planets...)
	r.mu.Unlock()
	rep.Report(1)

	in := make(map[domain.EntityID]bool, len(planets))
	for _, id := range planets {
		in[id] = true
	}
	var out []domain.Arrival
	for _, a := range r.arrivals {
		if in[a.ToPlanet] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeRemote) Planets(ctx context.Context, ids []domain.EntityID, planetsR, metadataR progress.Reporter) (map[domain.EntityID]domain.Planet, error) {
	if err := r.enter(ctx, "Planets"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.scope["Planets"] = append([]domain.EntityID(nil), ids...)
	r.mu.Unlock()
	planetsR.Report(1)
	metadataR.Report(1)

	out := make(map[domain.EntityID]domain.Planet, len(ids))
	for _, id := range ids {
		if p, ok := r.planets[id]; ok {
			out[id] = p
			continue
		}
		out[id] = domain.Planet{LocationID: id, Owner: domain.EmptyAddress}
	}
	return out, nil
}

func (r *fakeRemote) Artifacts(ctx context.Context, ids []domain.ArtifactID, rep progress.Reporter) ([]domain.Artifact, error) {
	if err := r.enter(ctx, "Artifacts"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.artifactScope = append([]domain.ArtifactID(nil), ids...)
	r.mu.Unlock()
	rep.Report(1)

	out := make([]domain.Artifact, 0, len(ids))
	for _, id := range ids {
		if a, ok := r.artifacts[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeRemote) ArtifactsOnPlanets(ctx context.Context, ids []domain.EntityID, rep progress.Reporter) ([][]domain.Artifact, error) {
	if err := r.enter(ctx, "ArtifactsOnPlanets"); err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.scope["ArtifactsOnPlanets"] = append([]domain.EntityID(nil), ids...)
	r.mu.Unlock()
	rep.Report(1)

	out := make([][]domain.Artifact, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.held[id])
	}
	if r.heldShort && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

// scenarioWorld is the cache and remote of the reference scenarios:
// cache knows e1,e2; remote adds e3,e4,e5 and a reveal of e4; e1 is mined.
func scenarioWorld() (*fakeCache, *fakeRemote) {
	cache := &fakeCache{
		touched: []domain.EntityID{"e1", "e2"},
		chunks:  []domain.Chunk{minedChunk("e1")},
	}
	remote := newFakeRemote()
	remote.touched = []domain.EntityID{"e1", "e2", "e3", "e4", "e5"}
	remote.revealed = []domain.RevealedCoords{
		{Hash: "e4", Coords: domain.Coords{X: 10, Y: -4}, Revealer: "0xabc"},
	}
	return cache, remote
}

func containsID(ids []domain.EntityID, id domain.EntityID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
