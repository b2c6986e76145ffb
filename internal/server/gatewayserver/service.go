package gatewayserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"connectrpc.com/connect"

	worldv1 "github.com/yndnr/worldsync/api/worldv1"
	"github.com/yndnr/worldsync/api/worldv1/worldv1connect"
	"github.com/yndnr/worldsync/internal/core/domain"
)

var _ worldv1connect.WorldServiceHandler = (*Service)(nil)

// ErrNoWorld is returned before a world has been loaded.
var ErrNoWorld = errors.New("no world loaded")

// Service implements the WorldService handler over an in-memory world.
type Service struct {
	index       atomic.Pointer[worldIndex]
	maxPageSize int
	logger      *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithMaxPageSize caps the records a single request may ask for. 0 disables the cap.
func WithMaxPageSize(n int) ServiceOption {
	return func(s *Service) { s.maxPageSize = n }
}

// WithServiceLogger sets the logger.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) { s.logger = logger }
}

// NewService creates a service without a world; call Load before serving.
func NewService(opts ...ServiceOption) *Service {
	s := &Service{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load indexes w and makes it the served world.
func (s *Service) Load(w *World) error {
	idx, err := newWorldIndex(w)
	if err != nil {
		return err
	}
	s.index.Store(idx)
	s.logger.Info("world loaded", "counts", idx.counts())
	return nil
}

// Reload reads the fixture at path and swaps it in. On failure the
// previous world keeps being served.
func (s *Service) Reload(path string) error {
	w, err := LoadWorld(path)
	if err != nil {
		return err
	}
	return s.Load(w)
}

// Ready reports whether a world is loaded.
func (s *Service) Ready() error {
	if s.index.Load() == nil {
		return ErrNoWorld
	}
	return nil
}

// Counts reports the size of the served world by kind.
func (s *Service) Counts() map[string]int {
	idx := s.index.Load()
	if idx == nil {
		return map[string]int{}
	}
	return idx.counts()
}

func (s *Service) world() (*worldIndex, error) {
	idx := s.index.Load()
	if idx == nil {
		return nil, connect.NewError(connect.CodeUnavailable, ErrNoWorld)
	}
	return idx, nil
}

// pageRange clamps [start, end) to a list of length n.
func (s *Service) pageRange(req *worldv1.RangeRequest, n int) (int, int, error) {
	start, end := req.StartIndex, req.EndIndex
	if start < 0 || end < start {
		return 0, 0, connect.NewError(connect.CodeInvalidArgument,
			domain.ErrRangeInvalid.WithDetails(fmt.Sprintf("[%d, %d)", start, end)))
	}
	if s.maxPageSize > 0 && end-start > s.maxPageSize {
		return 0, 0, connect.NewError(connect.CodeInvalidArgument,
			domain.ErrRangeInvalid.WithDetails(fmt.Sprintf("%d records exceeds page size %d", end-start, s.maxPageSize)))
	}
	end = min(end, n)
	start = min(start, end)
	return start, end, nil
}

func (s *Service) checkIDs(ids []string) error {
	if s.maxPageSize > 0 && len(ids) > s.maxPageSize {
		return connect.NewError(connect.CodeInvalidArgument,
			domain.ErrInvalidArgument.WithDetails(fmt.Sprintf("%d ids exceeds page size %d", len(ids), s.maxPageSize)))
	}
	return nil
}

// GetConstants implements worldv1connect.WorldServiceHandler.
func (s *Service) GetConstants(_ context.Context, _ *connect.Request[worldv1.Empty]) (*connect.Response[worldv1.ConstantsResponse], error) {
	idx, err := s.world()
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&worldv1.ConstantsResponse{
		Constants: worldv1.ConstantsFromDomain(idx.world.Constants),
	}), nil
}

// GetWorldRadius implements worldv1connect.WorldServiceHandler.
func (s *Service) GetWorldRadius(_ context.Context, _ *connect.Request[worldv1.Empty]) (*connect.Response[worldv1.WorldRadiusResponse], error) {
	idx, err := s.world()
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&worldv1.WorldRadiusResponse{Radius: idx.world.WorldRadius}), nil
}

// GetPlayerCount implements worldv1connect.WorldServiceHandler.
func (s *Service) GetPlayerCount(_ context.Context, _ *connect.Request[worldv1.Empty]) (*connect.Response[worldv1.CountResponse], error) {
	idx, err := s.world()
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&worldv1.CountResponse{Count: len(idx.world.Players)}), nil
}

// GetPlayers implements worldv1connect.WorldServiceHandler.
func (s *Service) GetPlayers(_ context.Context, req *connect.Request[worldv1.RangeRequest]) (*connect.Response[worldv1.PlayersResponse], error) {
	idx, err := s.world()
	if err != nil {
		return nil, err
	}
	lo, hi, err := s.pageRange(req.Msg, len(idx.world.Players))
	if err != nil {
		return nil, err
	}
	out := make([]worldv1.Player, 0, hi-lo)
	for _, p := range idx.world.Players[lo:hi] {
		out = append(out, worldv1.PlayerFromDomain(p))
	}
	return connect.NewResponse(&worldv1.PlayersResponse{Players: out}), nil
}

// GetTouchedPlanetCount implements worldv1connect.WorldServiceHandler.
func (s *Service) GetTouchedPlanetCount(_ context.Context, _ *connect.Request[worldv1.Empty]) (*connect.Response[worldv1.CountResponse], error) {
	idx, err := s.world()
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&worldv1.CountResponse{Count: len(idx.world.TouchedPlanetIDs)}), nil
}

// GetTouchedPlanetIDs implements worldv1connect.WorldServiceHandler.
func (s *Service) GetTouchedPlanetIDs(_ context.Context, req *connect.Request[worldv1.RangeRequest]) (*connect.Response[worldv1.IDsResponse], error) {
	idx, err := s.world()
	if err != nil {
		return nil, err
	}
	lo, hi, err := s.pageRange(req.Msg, len(idx.world.TouchedPlanetIDs))
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&worldv1.IDsResponse{IDs: entityStrings(idx.world.TouchedPlanetIDs[lo:hi])}), nil
}

// GetRevealedCount implements worldv1connect.WorldServiceHandler.
func (s *Service) GetRevealedCount(_ context.Context, _ *connect.Request[worldv1.Empty]) (*connect.Response[worldv1.CountResponse], error) {
	idx, err := s.world()
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&worldv1.CountResponse{Count: len(idx.revealedIDs)}), nil
}

// GetRevealedPlanetIDs implements worldv1connect.WorldServiceHandler.
func (s *Service) GetRevealedPlanetIDs(_ context.Context, req *connect.Request[worldv1.RangeRequest]) (*connect.Response[worldv1.IDsResponse], error) {
	idx, err := s.world()
	if err != nil {
		return nil, err
	}
	lo, hi, err := s.pageRange(req.Msg, len(idx.revealedIDs))
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&worldv1.IDsResponse{IDs: entityStrings(idx.revealedIDs[lo:hi])}), nil
}

// GetRevealedCoords implements worldv1connect.WorldServiceHandler.
func (s *Service) GetRevealedCoords(_ context.Context, req *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.RevealedCoordsResponse], error) {
	idx, err := s.world()
	if err != nil {
		return nil, err
	}
	if err := s.checkIDs(req.Msg.IDs); err != nil {
		return nil, err
	}
	out := make([]worldv1.RevealedCoords, len(req.Msg.IDs))
	for i, id := range req.Msg.IDs {
		rc, ok := idx.revealed[domain.EntityID(id)]
		if !ok {
			return nil, connect.NewError(connect.CodeNotFound, domain.ErrPlanetNotFound.WithDetails("not revealed: "+id))
		}
		out[i] = worldv1.RevealedCoordsFromDomain(rc)
	}
	return connect.NewResponse(&worldv1.RevealedCoordsResponse{Coords: out}), nil
}

// GetArrivalsForPlanets implements worldv1connect.WorldServiceHandler.
func (s *Service) GetArrivalsForPlanets(_ context.Context, req *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.ArrivalsResponse], error) {
	idx, err := s.world()
	if err != nil {
		return nil, err
	}
	if err := s.checkIDs(req.Msg.IDs); err != nil {
		return nil, err
	}
	out := make([]worldv1.ArrivalList, len(req.Msg.IDs))
	for i, id := range req.Msg.IDs {
		arrivals := idx.arrivals[domain.EntityID(id)]
		list := make([]worldv1.Arrival, len(arrivals))
		for j, a := range arrivals {
			list[j] = worldv1.ArrivalFromDomain(a)
		}
		out[i] = worldv1.ArrivalList{Arrivals: list}
	}
	return connect.NewResponse(&worldv1.ArrivalsResponse{Planets: out}), nil
}

// GetPlanets implements worldv1connect.WorldServiceHandler. Unknown ids
// come back uninitialized, as an untouched location would.
func (s *Service) GetPlanets(_ context.Context, req *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.PlanetsResponse], error) {
	idx, err := s.world()
	if err != nil {
		return nil, err
	}
	if err := s.checkIDs(req.Msg.IDs); err != nil {
		return nil, err
	}
	out := make([]worldv1.Planet, len(req.Msg.IDs))
	for i, id := range req.Msg.IDs {
		p, ok := idx.planets[domain.EntityID(id)]
		if !ok {
			out[i] = worldv1.Planet{LocationID: id}
			continue
		}
		out[i] = worldv1.PlanetFromDomain(p)
	}
	return connect.NewResponse(&worldv1.PlanetsResponse{Planets: out}), nil
}

// GetPlanetMetadata implements worldv1connect.WorldServiceHandler.
func (s *Service) GetPlanetMetadata(_ context.Context, req *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.PlanetMetadataResponse], error) {
	idx, err := s.world()
	if err != nil {
		return nil, err
	}
	if err := s.checkIDs(req.Msg.IDs); err != nil {
		return nil, err
	}
	out := make([]worldv1.PlanetMetadata, len(req.Msg.IDs))
	for i, id := range req.Msg.IDs {
		p, ok := idx.planets[domain.EntityID(id)]
		if !ok {
			out[i] = worldv1.PlanetMetadata{LocationID: id}
			continue
		}
		out[i] = worldv1.PlanetMetadataFromDomain(p.Metadata)
	}
	return connect.NewResponse(&worldv1.PlanetMetadataResponse{Metadata: out}), nil
}

// GetArtifacts implements worldv1connect.WorldServiceHandler.
func (s *Service) GetArtifacts(_ context.Context, req *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.ArtifactsResponse], error) {
	idx, err := s.world()
	if err != nil {
		return nil, err
	}
	if err := s.checkIDs(req.Msg.IDs); err != nil {
		return nil, err
	}
	out := make([]worldv1.Artifact, len(req.Msg.IDs))
	for i, id := range req.Msg.IDs {
		a, ok := idx.artifacts[domain.ArtifactID(id)]
		if !ok {
			return nil, connect.NewError(connect.CodeNotFound, domain.ErrArtifactNotFound.WithDetails(id))
		}
		out[i] = worldv1.ArtifactFromDomain(a)
	}
	return connect.NewResponse(&worldv1.ArtifactsResponse{Artifacts: out}), nil
}

// GetArtifactsOnPlanets implements worldv1connect.WorldServiceHandler.
func (s *Service) GetArtifactsOnPlanets(_ context.Context, req *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.ArtifactsOnPlanetsResponse], error) {
	idx, err := s.world()
	if err != nil {
		return nil, err
	}
	if err := s.checkIDs(req.Msg.IDs); err != nil {
		return nil, err
	}
	out := make([]worldv1.ArtifactList, len(req.Msg.IDs))
	for i, id := range req.Msg.IDs {
		held := idx.planetArtifact[domain.EntityID(id)]
		list := make([]worldv1.Artifact, len(held))
		for j, a := range held {
			list[j] = worldv1.ArtifactFromDomain(a)
		}
		out[i] = worldv1.ArtifactList{Artifacts: list}
	}
	return connect.NewResponse(&worldv1.ArtifactsOnPlanetsResponse{Planets: out}), nil
}

func entityStrings(ids []domain.EntityID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
