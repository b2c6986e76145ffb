package remote

import (
	"context"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	worldv1 "github.com/yndnr/worldsync/api/worldv1"
	"github.com/yndnr/worldsync/api/worldv1/worldv1connect"
	"github.com/yndnr/worldsync/internal/core/domain"
	"github.com/yndnr/worldsync/internal/core/progress"
	"github.com/yndnr/worldsync/internal/core/service"
	"github.com/yndnr/worldsync/internal/infra/tlsroots"
)

var _ service.Remote = (*Client)(nil)

// Client queries a worldsync gateway.
type Client struct {
	cfg     Config
	api     worldv1connect.WorldServiceClient
	limiter *rate.Limiter
	logger  *slog.Logger

	httpClient   connect.HTTPClient
	interceptors []connect.Interceptor
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc connect.HTTPClient) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithInterceptors adds connect interceptors after the built-in ones.
func WithInterceptors(interceptors ...connect.Interceptor) Option {
	return func(c *Client) { c.interceptors = append(c.interceptors, interceptors...) }
}

// NewClient creates a client for cfg.Endpoint.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{cfg: cfg, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		hc, err := newHTTPClient(cfg)
		if err != nil {
			return nil, err
		}
		c.httpClient = hc
	}

	limit, burst := rate.Inf, cfg.Burst
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
		if burst <= 0 {
			burst = 1
		}
	}
	c.limiter = rate.NewLimiter(limit, burst)

	interceptors := append([]connect.Interceptor{
		NewRequestIDInterceptor(),
		NewAuthInterceptor(cfg.APIKey),
		NewLoggingInterceptor(c.logger),
	}, c.interceptors...)

	c.api = worldv1connect.NewWorldServiceClient(c.httpClient, cfg.Endpoint,
		connect.WithInterceptors(interceptors...))
	return c, nil
}

func newHTTPClient(cfg Config) (*http.Client, error) {
	hc := &http.Client{Timeout: cfg.Timeout}
	if !cfg.TLS.Enabled() {
		return hc, nil
	}
	tc, err := tlsroots.NewClientTLS(cfg.TLS)
	if err != nil {
		return nil, err
	}
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.TLSClientConfig = tc
	hc.Transport = tr
	return hc, nil
}

// Constants implements service.Remote.
func (c *Client) Constants(ctx context.Context) (domain.Constants, error) {
	res, err := call(ctx, c, worldv1connect.WorldServiceGetConstantsProcedure, c.api.GetConstants, &worldv1.Empty{})
	if err != nil {
		return domain.Constants{}, err
	}
	return res.Constants.ToDomain(), nil
}

// WorldRadius implements service.Remote.
func (c *Client) WorldRadius(ctx context.Context) (int64, error) {
	res, err := call(ctx, c, worldv1connect.WorldServiceGetWorldRadiusProcedure, c.api.GetWorldRadius, &worldv1.Empty{})
	if err != nil {
		return 0, err
	}
	return res.Radius, nil
}

func (c *Client) count(ctx context.Context, procedure string, fn func(context.Context, *connect.Request[worldv1.Empty]) (*connect.Response[worldv1.CountResponse], error)) (int, error) {
	res, err := call(ctx, c, procedure, fn, &worldv1.Empty{})
	if err != nil {
		return 0, err
	}
	return res.Count, nil
}

// Players implements service.Remote.
func (c *Client) Players(ctx context.Context, r progress.Reporter) (map[domain.Address]domain.Player, error) {
	n, err := c.count(ctx, worldv1connect.WorldServiceGetPlayerCountProcedure, c.api.GetPlayerCount)
	if err != nil {
		return nil, err
	}
	players, err := aggregateRange(ctx, c, 0, n, r, func(ctx context.Context, lo, hi int) ([]worldv1.Player, error) {
		res, err := call(ctx, c, worldv1connect.WorldServiceGetPlayersProcedure, c.api.GetPlayers,
			&worldv1.RangeRequest{StartIndex: lo, EndIndex: hi})
		if err != nil {
			return nil, err
		}
		return res.Players, nil
	})
	if err != nil {
		return nil, err
	}

	out := make(map[domain.Address]domain.Player, len(players))
	for _, p := range players {
		dp := p.ToDomain()
		out[dp.Address] = dp
	}
	return out, nil
}

// TouchedPlanetIDs implements service.Remote.
func (c *Client) TouchedPlanetIDs(ctx context.Context, startingAt int, r progress.Reporter) ([]domain.EntityID, error) {
	n, err := c.count(ctx, worldv1connect.WorldServiceGetTouchedPlanetCountProcedure, c.api.GetTouchedPlanetCount)
	if err != nil {
		return nil, err
	}
	ids, err := c.idRange(ctx, worldv1connect.WorldServiceGetTouchedPlanetIDsProcedure, c.api.GetTouchedPlanetIDs, startingAt, n, r)
	if err != nil {
		return nil, err
	}
	return toEntityIDs(ids), nil
}

// RevealedCoords implements service.Remote.
func (c *Client) RevealedCoords(ctx context.Context, startingAt int, idsR, coordsR progress.Reporter) ([]domain.RevealedCoords, error) {
	n, err := c.count(ctx, worldv1connect.WorldServiceGetRevealedCountProcedure, c.api.GetRevealedCount)
	if err != nil {
		return nil, err
	}
	ids, err := c.idRange(ctx, worldv1connect.WorldServiceGetRevealedPlanetIDsProcedure, c.api.GetRevealedPlanetIDs, startingAt, n, idsR)
	if err != nil {
		return nil, err
	}

	coords, err := aggregateByIDs(ctx, c, "revealed coords", ids, coordsR, func(ctx context.Context, batch []string) ([]worldv1.RevealedCoords, error) {
		res, err := call(ctx, c, worldv1connect.WorldServiceGetRevealedCoordsProcedure, c.api.GetRevealedCoords,
			&worldv1.IDsRequest{IDs: batch})
		if err != nil {
			return nil, err
		}
		return res.Coords, nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.RevealedCoords, len(coords))
	for i, rc := range coords {
		out[i] = rc.ToDomain()
	}
	return out, nil
}

// idRange fetches ids [startingAt, total) of an append-only id list.
func (c *Client) idRange(
	ctx context.Context,
	procedure string,
	fn func(context.Context, *connect.Request[worldv1.RangeRequest]) (*connect.Response[worldv1.IDsResponse], error),
	startingAt, total int,
	r progress.Reporter,
) ([]string, error) {
	if startingAt > total {
		c.logger.Warn("local cache is ahead of the remote list",
			"procedure", procedure, "cached", startingAt, "remote", total)
		startingAt = total
	}
	return aggregateRange(ctx, c, startingAt, total, r, func(ctx context.Context, lo, hi int) ([]string, error) {
		res, err := call(ctx, c, procedure, fn, &worldv1.RangeRequest{StartIndex: lo, EndIndex: hi})
		if err != nil {
			return nil, err
		}
		return res.IDs, nil
	})
}

// Arrivals implements service.Remote.
func (c *Client) Arrivals(ctx context.Context, planets []domain.EntityID, r progress.Reporter) ([]domain.Arrival, error) {
	lists, err := aggregateByIDs(ctx, c, "arrivals", fromEntityIDs(planets), r, func(ctx context.Context, batch []string) ([]worldv1.ArrivalList, error) {
		res, err := call(ctx, c, worldv1connect.WorldServiceGetArrivalsForPlanetsProcedure, c.api.GetArrivalsForPlanets,
			&worldv1.IDsRequest{IDs: batch})
		if err != nil {
			return nil, err
		}
		return res.Planets, nil
	})
	if err != nil {
		return nil, err
	}

	var out []domain.Arrival
	for _, l := range lists {
		for _, a := range l.Arrivals {
			out = append(out, a.ToDomain())
		}
	}
	return out, nil
}

// Planets implements service.Remote. State and metadata are fetched
// concurrently; ids the remote has never initialized are left out.
func (c *Client) Planets(ctx context.Context, ids []domain.EntityID, planetsR, metadataR progress.Reporter) (map[domain.EntityID]domain.Planet, error) {
	keys := fromEntityIDs(ids)

	var (
		planets  []worldv1.Planet
		metadata []worldv1.PlanetMetadata
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		planets, err = aggregateByIDs(gctx, c, "planets", keys, planetsR, func(ctx context.Context, batch []string) ([]worldv1.Planet, error) {
			res, err := call(ctx, c, worldv1connect.WorldServiceGetPlanetsProcedure, c.api.GetPlanets,
				&worldv1.IDsRequest{IDs: batch})
			if err != nil {
				return nil, err
			}
			return res.Planets, nil
		})
		return err
	})
	g.Go(func() (err error) {
		metadata, err = aggregateByIDs(gctx, c, "planet metadata", keys, metadataR, func(ctx context.Context, batch []string) ([]worldv1.PlanetMetadata, error) {
			res, err := call(ctx, c, worldv1connect.WorldServiceGetPlanetMetadataProcedure, c.api.GetPlanetMetadata,
				&worldv1.IDsRequest{IDs: batch})
			if err != nil {
				return nil, err
			}
			return res.Metadata, nil
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[domain.EntityID]domain.Planet, len(planets))
	for i, p := range planets {
		if !p.IsInitialized {
			continue
		}
		out[ids[i]] = p.ToDomain(metadata[i])
	}
	return out, nil
}

// Artifacts implements service.Remote.
func (c *Client) Artifacts(ctx context.Context, ids []domain.ArtifactID, r progress.Reporter) ([]domain.Artifact, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = string(id)
	}
	arts, err := aggregateByIDs(ctx, c, "artifacts", keys, r, func(ctx context.Context, batch []string) ([]worldv1.Artifact, error) {
		res, err := call(ctx, c, worldv1connect.WorldServiceGetArtifactsProcedure, c.api.GetArtifacts,
			&worldv1.IDsRequest{IDs: batch})
		if err != nil {
			return nil, err
		}
		return res.Artifacts, nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]domain.Artifact, len(arts))
	for i, a := range arts {
		out[i] = a.ToDomain()
	}
	return out, nil
}

// ArtifactsOnPlanets implements service.Remote.
func (c *Client) ArtifactsOnPlanets(ctx context.Context, ids []domain.EntityID, r progress.Reporter) ([][]domain.Artifact, error) {
	lists, err := aggregateByIDs(ctx, c, "artifacts on planets", fromEntityIDs(ids), r, func(ctx context.Context, batch []string) ([]worldv1.ArtifactList, error) {
		res, err := call(ctx, c, worldv1connect.WorldServiceGetArtifactsOnPlanetsProcedure, c.api.GetArtifactsOnPlanets,
			&worldv1.IDsRequest{IDs: batch})
		if err != nil {
			return nil, err
		}
		return res.Planets, nil
	})
	if err != nil {
		return nil, err
	}

	out := make([][]domain.Artifact, len(lists))
	for i, l := range lists {
		held := make([]domain.Artifact, len(l.Artifacts))
		for j, a := range l.Artifacts {
			held[j] = a.ToDomain()
		}
		out[i] = held
	}
	return out, nil
}

func toEntityIDs(ids []string) []domain.EntityID {
	out := make([]domain.EntityID, len(ids))
	for i, id := range ids {
		out[i] = domain.EntityID(id)
	}
	return out
}

func fromEntityIDs(ids []domain.EntityID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
