// Package worldv1connect holds the connect client and handler of
// worldsync.v1.WorldService.
package worldv1connect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	worldv1 "github.com/yndnr/worldsync/api/worldv1"
)

// WorldServiceName is the fully-qualified name of the WorldService service.
const WorldServiceName = "worldsync.v1.WorldService"

// Procedure paths of the WorldService RPCs.
const (
	WorldServiceGetConstantsProcedure          = "/worldsync.v1.WorldService/GetConstants"
	WorldServiceGetWorldRadiusProcedure        = "/worldsync.v1.WorldService/GetWorldRadius"
	WorldServiceGetPlayerCountProcedure        = "/worldsync.v1.WorldService/GetPlayerCount"
	WorldServiceGetPlayersProcedure            = "/worldsync.v1.WorldService/GetPlayers"
	WorldServiceGetTouchedPlanetCountProcedure = "/worldsync.v1.WorldService/GetTouchedPlanetCount"
	WorldServiceGetTouchedPlanetIDsProcedure   = "/worldsync.v1.WorldService/GetTouchedPlanetIDs"
	WorldServiceGetRevealedCountProcedure      = "/worldsync.v1.WorldService/GetRevealedCount"
	WorldServiceGetRevealedPlanetIDsProcedure  = "/worldsync.v1.WorldService/GetRevealedPlanetIDs"
	WorldServiceGetRevealedCoordsProcedure     = "/worldsync.v1.WorldService/GetRevealedCoords"
	WorldServiceGetArrivalsForPlanetsProcedure = "/worldsync.v1.WorldService/GetArrivalsForPlanets"
	WorldServiceGetPlanetsProcedure            = "/worldsync.v1.WorldService/GetPlanets"
	WorldServiceGetPlanetMetadataProcedure     = "/worldsync.v1.WorldService/GetPlanetMetadata"
	WorldServiceGetArtifactsProcedure          = "/worldsync.v1.WorldService/GetArtifacts"
	WorldServiceGetArtifactsOnPlanetsProcedure = "/worldsync.v1.WorldService/GetArtifactsOnPlanets"
)

// Procedures lists every procedure path, in declaration order.
var Procedures = []string{
	WorldServiceGetConstantsProcedure,
	WorldServiceGetWorldRadiusProcedure,
	WorldServiceGetPlayerCountProcedure,
	WorldServiceGetPlayersProcedure,
	WorldServiceGetTouchedPlanetCountProcedure,
	WorldServiceGetTouchedPlanetIDsProcedure,
	WorldServiceGetRevealedCountProcedure,
	WorldServiceGetRevealedPlanetIDsProcedure,
	WorldServiceGetRevealedCoordsProcedure,
	WorldServiceGetArrivalsForPlanetsProcedure,
	WorldServiceGetPlanetsProcedure,
	WorldServiceGetPlanetMetadataProcedure,
	WorldServiceGetArtifactsProcedure,
	WorldServiceGetArtifactsOnPlanetsProcedure,
}

// WorldServiceClient is a client for the worldsync.v1.WorldService service.
type WorldServiceClient interface {
	// GetConstants returns the world-wide game parameters.
	GetConstants(context.Context, *connect.Request[worldv1.Empty]) (*connect.Response[worldv1.ConstantsResponse], error)
	// GetWorldRadius returns the current world radius.
	GetWorldRadius(context.Context, *connect.Request[worldv1.Empty]) (*connect.Response[worldv1.WorldRadiusResponse], error)
	// GetPlayerCount returns the number of registered players.
	GetPlayerCount(context.Context, *connect.Request[worldv1.Empty]) (*connect.Response[worldv1.CountResponse], error)
	// GetPlayers returns one index range of players.
	GetPlayers(context.Context, *connect.Request[worldv1.RangeRequest]) (*connect.Response[worldv1.PlayersResponse], error)
	// GetTouchedPlanetCount returns the number of touched planets.
	GetTouchedPlanetCount(context.Context, *connect.Request[worldv1.Empty]) (*connect.Response[worldv1.CountResponse], error)
	// GetTouchedPlanetIDs returns one index range of touched planet ids.
	GetTouchedPlanetIDs(context.Context, *connect.Request[worldv1.RangeRequest]) (*connect.Response[worldv1.IDsResponse], error)
	// GetRevealedCount returns the number of revealed locations.
	GetRevealedCount(context.Context, *connect.Request[worldv1.Empty]) (*connect.Response[worldv1.CountResponse], error)
	// GetRevealedPlanetIDs returns one index range of revealed planet ids.
	GetRevealedPlanetIDs(context.Context, *connect.Request[worldv1.RangeRequest]) (*connect.Response[worldv1.IDsResponse], error)
	// GetRevealedCoords returns revealed coordinates aligned with the ids.
	GetRevealedCoords(context.Context, *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.RevealedCoordsResponse], error)
	// GetArrivalsForPlanets returns the pending arrivals of each planet.
	GetArrivalsForPlanets(context.Context, *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.ArrivalsResponse], error)
	// GetPlanets returns planet state aligned with the ids.
	GetPlanets(context.Context, *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.PlanetsResponse], error)
	// GetPlanetMetadata returns planet metadata aligned with the ids.
	GetPlanetMetadata(context.Context, *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.PlanetMetadataResponse], error)
	// GetArtifacts returns artifacts aligned with the ids.
	GetArtifacts(context.Context, *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.ArtifactsResponse], error)
	// GetArtifactsOnPlanets returns the artifacts held on each planet.
	GetArtifactsOnPlanets(context.Context, *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.ArtifactsOnPlanetsResponse], error)
}

// NewWorldServiceClient constructs a client for the worldsync.v1.WorldService
// service. baseURL is the gateway root, e.g. http://localhost:8590. The JSON
// codec is always installed; opts may add interceptors and other settings.
func NewWorldServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) WorldServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(worldv1.Codec{})}, opts...)
	return &worldServiceClient{
		getConstants:          connect.NewClient[worldv1.Empty, worldv1.ConstantsResponse](httpClient, baseURL+WorldServiceGetConstantsProcedure, opts...),
		getWorldRadius:        connect.NewClient[worldv1.Empty, worldv1.WorldRadiusResponse](httpClient, baseURL+WorldServiceGetWorldRadiusProcedure, opts...),
		getPlayerCount:        connect.NewClient[worldv1.Empty, worldv1.CountResponse](httpClient, baseURL+WorldServiceGetPlayerCountProcedure, opts...),
		getPlayers:            connect.NewClient[worldv1.RangeRequest, worldv1.PlayersResponse](httpClient, baseURL+WorldServiceGetPlayersProcedure, opts...),
		getTouchedPlanetCount: connect.NewClient[worldv1.Empty, worldv1.CountResponse](httpClient, baseURL+WorldServiceGetTouchedPlanetCountProcedure, opts...),
		getTouchedPlanetIDs:   connect.NewClient[worldv1.RangeRequest, worldv1.IDsResponse](httpClient, baseURL+WorldServiceGetTouchedPlanetIDsProcedure, opts...),
		getRevealedCount:      connect.NewClient[worldv1.Empty, worldv1.CountResponse](httpClient, baseURL+WorldServiceGetRevealedCountProcedure, opts...),
		getRevealedPlanetIDs:  connect.NewClient[worldv1.RangeRequest, worldv1.IDsResponse](httpClient, baseURL+WorldServiceGetRevealedPlanetIDsProcedure, opts...),
		getRevealedCoords:     connect.NewClient[worldv1.IDsRequest, worldv1.RevealedCoordsResponse](httpClient, baseURL+WorldServiceGetRevealedCoordsProcedure, opts...),
		getArrivalsForPlanets: connect.NewClient[worldv1.IDsRequest, worldv1.ArrivalsResponse](httpClient, baseURL+WorldServiceGetArrivalsForPlanetsProcedure, opts...),
		getPlanets:            connect.NewClient[worldv1.IDsRequest, worldv1.PlanetsResponse](httpClient, baseURL+WorldServiceGetPlanetsProcedure, opts...),
		getPlanetMetadata:     connect.NewClient[worldv1.IDsRequest, worldv1.PlanetMetadataResponse](httpClient, baseURL+WorldServiceGetPlanetMetadataProcedure, opts...),
		getArtifacts:          connect.NewClient[worldv1.IDsRequest, worldv1.ArtifactsResponse](httpClient, baseURL+WorldServiceGetArtifactsProcedure, opts...),
		getArtifactsOnPlanets: connect.NewClient[worldv1.IDsRequest, worldv1.ArtifactsOnPlanetsResponse](httpClient, baseURL+WorldServiceGetArtifactsOnPlanetsProcedure, opts...),
	}
}

type worldServiceClient struct {
	getConstants          *connect.Client[worldv1.Empty, worldv1.ConstantsResponse]
	getWorldRadius        *connect.Client[worldv1.Empty, worldv1.WorldRadiusResponse]
	getPlayerCount        *connect.Client[worldv1.Empty, worldv1.CountResponse]
	getPlayers            *connect.Client[worldv1.RangeRequest, worldv1.PlayersResponse]
	getTouchedPlanetCount *connect.Client[worldv1.Empty, worldv1.CountResponse]
	getTouchedPlanetIDs   *connect.Client[worldv1.RangeRequest, worldv1.IDsResponse]
	getRevealedCount      *connect.Client[worldv1.Empty, worldv1.CountResponse]
	getRevealedPlanetIDs  *connect.Client[worldv1.RangeRequest, worldv1.IDsResponse]
	getRevealedCoords     *connect.Client[worldv1.IDsRequest, worldv1.RevealedCoordsResponse]
	getArrivalsForPlanets *connect.Client[worldv1.IDsRequest, worldv1.ArrivalsResponse]
	getPlanets            *connect.Client[worldv1.IDsRequest, worldv1.PlanetsResponse]
	getPlanetMetadata     *connect.Client[worldv1.IDsRequest, worldv1.PlanetMetadataResponse]
	getArtifacts          *connect.Client[worldv1.IDsRequest, worldv1.ArtifactsResponse]
	getArtifactsOnPlanets *connect.Client[worldv1.IDsRequest, worldv1.ArtifactsOnPlanetsResponse]
}

func (c *worldServiceClient) GetConstants(ctx context.Context, req *connect.Request[worldv1.Empty]) (*connect.Response[worldv1.ConstantsResponse], error) {
	return c.getConstants.CallUnary(ctx, req)
}

func (c *worldServiceClient) GetWorldRadius(ctx context.Context, req *connect.Request[worldv1.Empty]) (*connect.Response[worldv1.WorldRadiusResponse], error) {
	return c.getWorldRadius.CallUnary(ctx, req)
}

func (c *worldServiceClient) GetPlayerCount(ctx context.Context, req *connect.Request[worldv1.Empty]) (*connect.Response[worldv1.CountResponse], error) {
	return c.getPlayerCount.CallUnary(ctx, req)
}

func (c *worldServiceClient) GetPlayers(ctx context.Context, req *connect.Request[worldv1.RangeRequest]) (*connect.Response[worldv1.PlayersResponse], error) {
	return c.getPlayers.CallUnary(ctx, req)
}

func (c *worldServiceClient) GetTouchedPlanetCount(ctx context.Context, req *connect.Request[worldv1.Empty]) (*connect.Response[worldv1.CountResponse], error) {
	return c.getTouchedPlanetCount.CallUnary(ctx, req)
}

func (c *worldServiceClient) GetTouchedPlanetIDs(ctx context.Context, req *connect.Request[worldv1.RangeRequest]) (*connect.Response[worldv1.IDsResponse], error) {
	return c.getTouchedPlanetIDs.CallUnary(ctx, req)
}

func (c *worldServiceClient) GetRevealedCount(ctx context.Context, req *connect.Request[worldv1.Empty]) (*connect.Response[worldv1.CountResponse], error) {
	return c.getRevealedCount.CallUnary(ctx, req)
}

func (c *worldServiceClient) GetRevealedPlanetIDs(ctx context.Context, req *connect.Request[worldv1.RangeRequest]) (*connect.Response[worldv1.IDsResponse], error) {
	return c.getRevealedPlanetIDs.CallUnary(ctx, req)
}

func (c *worldServiceClient) GetRevealedCoords(ctx context.Context, req *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.RevealedCoordsResponse], error) {
	return c.getRevealedCoords.CallUnary(ctx, req)
}

func (c *worldServiceClient) GetArrivalsForPlanets(ctx context.Context, req *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.ArrivalsResponse], error) {
	return c.getArrivalsForPlanets.CallUnary(ctx, req)
}

func (c *worldServiceClient) GetPlanets(ctx context.Context, req *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.PlanetsResponse], error) {
	return c.getPlanets.CallUnary(ctx, req)
}

func (c *worldServiceClient) GetPlanetMetadata(ctx context.Context, req *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.PlanetMetadataResponse], error) {
	return c.getPlanetMetadata.CallUnary(ctx, req)
}

func (c *worldServiceClient) GetArtifacts(ctx context.Context, req *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.ArtifactsResponse], error) {
	return c.getArtifacts.CallUnary(ctx, req)
}

func (c *worldServiceClient) GetArtifactsOnPlanets(ctx context.Context, req *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.ArtifactsOnPlanetsResponse], error) {
	return c.getArtifactsOnPlanets.CallUnary(ctx, req)
}

// WorldServiceHandler is implemented by servers of worldsync.v1.WorldService.
type WorldServiceHandler interface {
	GetConstants(context.Context, *connect.Request[worldv1.Empty]) (*connect.Response[worldv1.ConstantsResponse], error)
	GetWorldRadius(context.Context, *connect.Request[worldv1.Empty]) (*connect.Response[worldv1.WorldRadiusResponse], error)
	GetPlayerCount(context.Context, *connect.Request[worldv1.Empty]) (*connect.Response[worldv1.CountResponse], error)
	GetPlayers(context.Context, *connect.Request[worldv1.RangeRequest]) (*connect.Response[worldv1.PlayersResponse], error)
	GetTouchedPlanetCount(context.Context, *connect.Request[worldv1.Empty]) (*connect.Response[worldv1.CountResponse], error)
	GetTouchedPlanetIDs(context.Context, *connect.Request[worldv1.RangeRequest]) (*connect.Response[worldv1.IDsResponse], error)
	GetRevealedCount(context.Context, *connect.Request[worldv1.Empty]) (*connect.Response[worldv1.CountResponse], error)
	GetRevealedPlanetIDs(context.Context, *connect.Request[worldv1.RangeRequest]) (*connect.Response[worldv1.IDsResponse], error)
	GetRevealedCoords(context.Context, *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.RevealedCoordsResponse], error)
	GetArrivalsForPlanets(context.Context, *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.ArrivalsResponse], error)
	GetPlanets(context.Context, *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.PlanetsResponse], error)
	GetPlanetMetadata(context.Context, *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.PlanetMetadataResponse], error)
	GetArtifacts(context.Context, *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.ArtifactsResponse], error)
	GetArtifactsOnPlanets(context.Context, *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.ArtifactsOnPlanetsResponse], error)
}

// NewWorldServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler.
func NewWorldServiceHandler(svc WorldServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(worldv1.Codec{})}, opts...)
	getConstantsHandler := connect.NewUnaryHandler(WorldServiceGetConstantsProcedure, svc.GetConstants, opts...)
	getWorldRadiusHandler := connect.NewUnaryHandler(WorldServiceGetWorldRadiusProcedure, svc.GetWorldRadius, opts...)
	getPlayerCountHandler := connect.NewUnaryHandler(WorldServiceGetPlayerCountProcedure, svc.GetPlayerCount, opts...)
	getPlayersHandler := connect.NewUnaryHandler(WorldServiceGetPlayersProcedure, svc.GetPlayers, opts...)
	getTouchedPlanetCountHandler := connect.NewUnaryHandler(WorldServiceGetTouchedPlanetCountProcedure, svc.GetTouchedPlanetCount, opts...)
	getTouchedPlanetIDsHandler := connect.NewUnaryHandler(WorldServiceGetTouchedPlanetIDsProcedure, svc.GetTouchedPlanetIDs, opts...)
	getRevealedCountHandler := connect.NewUnaryHandler(WorldServiceGetRevealedCountProcedure, svc.GetRevealedCount, opts...)
	getRevealedPlanetIDsHandler := connect.NewUnaryHandler(WorldServiceGetRevealedPlanetIDsProcedure, svc.GetRevealedPlanetIDs, opts...)
	getRevealedCoordsHandler := connect.NewUnaryHandler(WorldServiceGetRevealedCoordsProcedure, svc.GetRevealedCoords, opts...)
	getArrivalsForPlanetsHandler := connect.NewUnaryHandler(WorldServiceGetArrivalsForPlanetsProcedure, svc.GetArrivalsForPlanets, opts...)
	getPlanetsHandler := connect.NewUnaryHandler(WorldServiceGetPlanetsProcedure, svc.GetPlanets, opts...)
	getPlanetMetadataHandler := connect.NewUnaryHandler(WorldServiceGetPlanetMetadataProcedure, svc.GetPlanetMetadata, opts...)
	getArtifactsHandler := connect.NewUnaryHandler(WorldServiceGetArtifactsProcedure, svc.GetArtifacts, opts...)
	getArtifactsOnPlanetsHandler := connect.NewUnaryHandler(WorldServiceGetArtifactsOnPlanetsProcedure, svc.GetArtifactsOnPlanets, opts...)
	return "/worldsync.v1.WorldService/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case WorldServiceGetConstantsProcedure:
			getConstantsHandler.ServeHTTP(w, r)
		case WorldServiceGetWorldRadiusProcedure:
			getWorldRadiusHandler.ServeHTTP(w, r)
		case WorldServiceGetPlayerCountProcedure:
			getPlayerCountHandler.ServeHTTP(w, r)
		case WorldServiceGetPlayersProcedure:
			getPlayersHandler.ServeHTTP(w, r)
		case WorldServiceGetTouchedPlanetCountProcedure:
			getTouchedPlanetCountHandler.ServeHTTP(w, r)
		case WorldServiceGetTouchedPlanetIDsProcedure:
			getTouchedPlanetIDsHandler.ServeHTTP(w, r)
		case WorldServiceGetRevealedCountProcedure:
			getRevealedCountHandler.ServeHTTP(w, r)
		case WorldServiceGetRevealedPlanetIDsProcedure:
			getRevealedPlanetIDsHandler.ServeHTTP(w, r)
		case WorldServiceGetRevealedCoordsProcedure:
			getRevealedCoordsHandler.ServeHTTP(w, r)
		case WorldServiceGetArrivalsForPlanetsProcedure:
			getArrivalsForPlanetsHandler.ServeHTTP(w, r)
		case WorldServiceGetPlanetsProcedure:
			getPlanetsHandler.ServeHTTP(w, r)
		case WorldServiceGetPlanetMetadataProcedure:
			getPlanetMetadataHandler.ServeHTTP(w, r)
		case WorldServiceGetArtifactsProcedure:
			getArtifactsHandler.ServeHTTP(w, r)
		case WorldServiceGetArtifactsOnPlanetsProcedure:
			getArtifactsOnPlanetsHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedWorldServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedWorldServiceHandler struct{}

func (UnimplementedWorldServiceHandler) GetConstants(context.Context, *connect.Request[worldv1.Empty]) (*connect.Response[worldv1.ConstantsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("worldsync.v1.WorldService.GetConstants is not implemented"))
}

func (UnimplementedWorldServiceHandler) GetWorldRadius(context.Context, *connect.Request[worldv1.Empty]) (*connect.Response[worldv1.WorldRadiusResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("worldsync.v1.WorldService.GetWorldRadius is not implemented"))
}

func (UnimplementedWorldServiceHandler) GetPlayerCount(context.Context, *connect.Request[worldv1.Empty]) (*connect.Response[worldv1.CountResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("worldsync.v1.WorldService.GetPlayerCount is not implemented"))
}

func (UnimplementedWorldServiceHandler) GetPlayers(context.Context, *connect.Request[worldv1.RangeRequest]) (*connect.Response[worldv1.PlayersResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("worldsync.v1.WorldService.GetPlayers is not implemented"))
}

func (UnimplementedWorldServiceHandler) GetTouchedPlanetCount(context.Context, *connect.Request[worldv1.Empty]) (*connect.Response[worldv1.CountResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("worldsync.v1.WorldService.GetTouchedPlanetCount is not implemented"))
}

func (UnimplementedWorldServiceHandler) GetTouchedPlanetIDs(context.Context, *connect.Request[worldv1.RangeRequest]) (*connect.Response[worldv1.IDsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("worldsync.v1.WorldService.GetTouchedPlanetIDs is not implemented"))
}

func (UnimplementedWorldServiceHandler) GetRevealedCount(context.Context, *connect.Request[worldv1.Empty]) (*connect.Response[worldv1.CountResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("worldsync.v1.WorldService.GetRevealedCount is not implemented"))
}

func (UnimplementedWorldServiceHandler) GetRevealedPlanetIDs(context.Context, *connect.Request[worldv1.RangeRequest]) (*connect.Response[worldv1.IDsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("worldsync.v1.WorldService.GetRevealedPlanetIDs is not implemented"))
}

func (UnimplementedWorldServiceHandler) GetRevealedCoords(context.Context, *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.RevealedCoordsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("worldsync.v1.WorldService.GetRevealedCoords is not implemented"))
}

func (UnimplementedWorldServiceHandler) GetArrivalsForPlanets(context.Context, *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.ArrivalsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("worldsync.v1.WorldService.GetArrivalsForPlanets is not implemented"))
}

func (UnimplementedWorldServiceHandler) GetPlanets(context.Context, *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.PlanetsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("worldsync.v1.WorldService.GetPlanets is not implemented"))
}

func (UnimplementedWorldServiceHandler) GetPlanetMetadata(context.Context, *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.PlanetMetadataResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("worldsync.v1.WorldService.GetPlanetMetadata is not implemented"))
}

func (UnimplementedWorldServiceHandler) GetArtifacts(context.Context, *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.ArtifactsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("worldsync.v1.WorldService.GetArtifacts is not implemented"))
}

func (UnimplementedWorldServiceHandler) GetArtifactsOnPlanets(context.Context, *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.ArtifactsOnPlanetsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("worldsync.v1.WorldService.GetArtifactsOnPlanets is not implemented"))
}
