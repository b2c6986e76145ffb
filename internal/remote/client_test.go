package remote

import (
	"context"
	"encoding/pem"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"connectrpc.com/connect"

	worldv1 "github.com/yndnr/worldsync/api/worldv1"
	"github.com/yndnr/worldsync/api/worldv1/worldv1connect"
	"github.com/yndnr/worldsync/internal/core/domain"
	"github.com/yndnr/worldsync/internal/core/progress"
	"github.com/yndnr/worldsync/internal/server/gatewayserver"
	"github.com/yndnr/worldsync/internal/telemetry/logger"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

const fixture = "../server/gatewayserver/testdata/world.yaml"

func newGateway(t *testing.T) *gatewayserver.Service {
	t.Helper()
	svc := gatewayserver.NewService(gatewayserver.WithServiceLogger(discard))
	if err := svc.Reload(fixture); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	return svc
}

// serve mounts h and returns a client with a small page size so every
// list spans several pages.
func serve(t *testing.T, h worldv1connect.WorldServiceHandler, mutate func(*Config), opts ...connect.HandlerOption) *Client {
	t.Helper()
	path, handler := worldv1connect.NewWorldServiceHandler(h, opts...)
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	cfg := DefaultConfig()
	cfg.Endpoint = ts.URL
	cfg.PageSize = 1
	cfg.Concurrency = 2
	cfg.Retry.InitialInterval = time.Millisecond
	cfg.Retry.MaxInterval = 5 * time.Millisecond
	if mutate != nil {
		mutate(&cfg)
	}
	c, err := NewClient(cfg, WithHTTPClient(ts.Client()), WithLogger(discard))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

type flakyGateway struct {
	*gatewayserver.Service
	failures atomic.Int32
	code     connect.Code
}

func (f *flakyGateway) GetPlayerCount(ctx context.Context, req *connect.Request[worldv1.Empty]) (*connect.Response[worldv1.CountResponse], error) {
	if f.failures.Add(-1) >= 0 {
		return nil, connect.NewError(f.code, errors.New("injected"))
	}
	return f.Service.GetPlayerCount(ctx, req)
}

type truncatingGateway struct {
	*gatewayserver.Service
}

func (g truncatingGateway) GetPlanets(ctx context.Context, req *connect.Request[worldv1.IDsRequest]) (*connect.Response[worldv1.PlanetsResponse], error) {
	return connect.NewResponse(&worldv1.PlanetsResponse{}), nil
}

type headerGateway struct {
	*gatewayserver.Service
	mu      sync.Mutex
	headers []http.Header
}

func (g *headerGateway) GetWorldRadius(ctx context.Context, req *connect.Request[worldv1.Empty]) (*connect.Response[worldv1.WorldRadiusResponse], error) {
	g.mu.Lock()
	g.headers = append(g.headers, req.Header().Clone())
	g.mu.Unlock()
	return g.Service.GetWorldRadius(ctx, req)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"empty endpoint", func(c *Config) { c.Endpoint = "" }, true},
		{"not http", func(c *Config) { c.Endpoint = "ftp://gateway" }, true},
		{"no host", func(c *Config) { c.Endpoint = "http://" }, true},
		{"zero page size", func(c *Config) { c.PageSize = 0 }, true},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }, true},
		{"negative rate", func(c *Config) { c.RateLimit = -1 }, true},
		{"https", func(c *Config) { c.Endpoint = "https://gw.example.com" }, false},
		{"tls over http", func(c *Config) { c.TLS.ServerName = "gw" }, true},
		{"half client pair", func(c *Config) {
			c.Endpoint = "https://gw.example.com"
			c.TLS.CertFile = "client.crt"
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_Scalars(t *testing.T) {
	c := serve(t, newGateway(t), nil)
	ctx := context.Background()

	consts, err := c.Constants(ctx)
	if err != nil {
		t.Fatalf("Constants() error = %v", err)
	}
	if consts.WorldRadiusMin != 1000 || consts.PlanetRarity != 16384 || !consts.SpaceJunkEnabled {
		t.Errorf("Constants() = %+v", consts)
	}
	radius, err := c.WorldRadius(ctx)
	if err != nil || radius != 12000 {
		t.Errorf("WorldRadius() = %d, %v", radius, err)
	}
}

func TestClient_PlayersPaginates(t *testing.T) {
	c := serve(t, newGateway(t), nil)
	rec := progress.NewRecorder()

	players, err := c.Players(context.Background(), rec.Stream(progress.StreamPlayers))
	if err != nil {
		t.Fatalf("Players() error = %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("len(players) = %d, want 2", len(players))
	}
	if p := players["0x00000000000000000000000000000000000000a1"]; p.Score != 1200 || p.HomePlanetID != "0000b1" {
		t.Errorf("player a1 = %+v", p)
	}
	if last, ok := rec.Last(progress.StreamPlayers); !ok || last != 1 {
		t.Errorf("players progress = %v, %v", last, ok)
	}
}

func TestClient_TouchedPlanetIDs(t *testing.T) {
	c := serve(t, newGateway(t), nil)
	ctx := context.Background()

	tests := []struct {
		name       string
		startingAt int
		want       []domain.EntityID
	}{
		{"from zero", 0, []domain.EntityID{"0000b1", "0000b2", "0000b3"}},
		{"incremental", 2, []domain.EntityID{"0000b3"}},
		{"up to date", 3, nil},
		{"cache ahead", 10, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.TouchedPlanetIDs(ctx, tt.startingAt, progress.NopReporter)
			if err != nil {
				t.Fatalf("TouchedPlanetIDs() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("got[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestClient_RevealedCoords(t *testing.T) {
	c := serve(t, newGateway(t), nil)
	rec := progress.NewRecorder()

	coords, err := c.RevealedCoords(context.Background(), 0,
		rec.Stream(progress.StreamRevealedPlanetIDs), rec.Stream(progress.StreamRevealedCoords))
	if err != nil {
		t.Fatalf("RevealedCoords() error = %v", err)
	}
	if len(coords) != 2 {
		t.Fatalf("len(coords) = %d", len(coords))
	}
	if coords[0].Hash != "0000b1" || coords[0].Coords != (domain.Coords{X: 120, Y: -45}) {
		t.Errorf("coords[0] = %+v", coords[0])
	}
	if coords[1].Hash != "0000b4" || coords[1].Revealer != "0x00000000000000000000000000000000000000a2" {
		t.Errorf("coords[1] = %+v", coords[1])
	}
	for _, s := range []string{progress.StreamRevealedPlanetIDs, progress.StreamRevealedCoords} {
		if last, _ := rec.Last(s); last != 1 {
			t.Errorf("%s progress = %v", s, last)
		}
	}
}

func TestClient_PlanetsSkipsUninitialized(t *testing.T) {
	c := serve(t, newGateway(t), nil)

	planets, err := c.Planets(context.Background(),
		[]domain.EntityID{"0000b1", "ffffff", "0000b4"}, progress.NopReporter, progress.NopReporter)
	if err != nil {
		t.Fatalf("Planets() error = %v", err)
	}
	if len(planets) != 2 {
		t.Fatalf("len(planets) = %d, want 2", len(planets))
	}
	if _, ok := planets["ffffff"]; ok {
		t.Error("uninitialized planet should be absent")
	}
	b1 := planets["0000b1"]
	if b1.Energy != 1500.5 || b1.Metadata.ProspectedBlockNumber != 1234 || len(b1.HeldArtifactIDs) != 1 {
		t.Errorf("planet b1 = %+v", b1)
	}
	if b1.Metadata.LocationID != "0000b1" {
		t.Errorf("metadata location = %q", b1.Metadata.LocationID)
	}
}

func TestClient_ArrivalsAndArtifacts(t *testing.T) {
	c := serve(t, newGateway(t), nil)
	ctx := context.Background()

	arrivals, err := c.Arrivals(ctx, []domain.EntityID{"0000b1", "0000b2", "0000b3"}, progress.NopReporter)
	if err != nil {
		t.Fatalf("Arrivals() error = %v", err)
	}
	if len(arrivals) != 2 {
		t.Fatalf("len(arrivals) = %d", len(arrivals))
	}
	if arrivals[0].EventID != "101" || arrivals[0].EnergyArriving != 120.75 || arrivals[0].ArtifactID != "art2" {
		t.Errorf("arrivals[0] = %+v", arrivals[0])
	}
	if arrivals[1].ArrivalType != domain.ArrivalPhotoid {
		t.Errorf("arrivals[1] type = %v", arrivals[1].ArrivalType)
	}

	arts, err := c.Artifacts(ctx, []domain.ArtifactID{"art2"}, progress.NopReporter)
	if err != nil || len(arts) != 1 || arts[0].OnVoyage != "101" {
		t.Errorf("Artifacts() = %+v, %v", arts, err)
	}
	if _, err := c.Artifacts(ctx, []domain.ArtifactID{"nope"}, progress.NopReporter); connect.CodeOf(err) != connect.CodeNotFound {
		t.Errorf("unknown artifact code = %v", connect.CodeOf(err))
	}

	held, err := c.ArtifactsOnPlanets(ctx, []domain.EntityID{"0000b1", "0000b2"}, progress.NopReporter)
	if err != nil {
		t.Fatalf("ArtifactsOnPlanets() error = %v", err)
	}
	if len(held) != 2 || len(held[0]) != 1 || held[0][0].ID != "art1" || len(held[1]) != 0 {
		t.Errorf("ArtifactsOnPlanets() = %+v", held)
	}
}

func TestClient_EmptyScopeReportsComplete(t *testing.T) {
	c := serve(t, newGateway(t), nil)
	rec := progress.NewRecorder()

	got, err := c.Arrivals(context.Background(), nil, rec.Stream(progress.StreamPendingMoves))
	if err != nil || len(got) != 0 {
		t.Fatalf("Arrivals(nil) = %v, %v", got, err)
	}
	if last, ok := rec.Last(progress.StreamPendingMoves); !ok || last != 1 {
		t.Errorf("progress = %v, %v", last, ok)
	}
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	gw := &flakyGateway{Service: newGateway(t), code: connect.CodeUnavailable}
	gw.failures.Store(2)
	c := serve(t, gw, nil)

	players, err := c.Players(context.Background(), progress.NopReporter)
	if err != nil {
		t.Fatalf("Players() error = %v", err)
	}
	if len(players) != 2 {
		t.Errorf("len(players) = %d", len(players))
	}
}

func TestClient_GivesUpAfterMaxRetries(t *testing.T) {
	gw := &flakyGateway{Service: newGateway(t), code: connect.CodeUnavailable}
	gw.failures.Store(100)
	c := serve(t, gw, func(cfg *Config) { cfg.Retry.MaxRetries = 2 })

	_, err := c.Players(context.Background(), progress.NopReporter)
	if connect.CodeOf(err) != connect.CodeUnavailable {
		t.Errorf("code = %v, want Unavailable", connect.CodeOf(err))
	}
	if left := gw.failures.Load(); left != 97 {
		t.Errorf("attempts = %d, want 3", 100-left)
	}
}

func TestClient_PermanentFailureNotRetried(t *testing.T) {
	gw := &flakyGateway{Service: newGateway(t), code: connect.CodePermissionDenied}
	gw.failures.Store(100)
	c := serve(t, gw, nil)

	_, err := c.Players(context.Background(), progress.NopReporter)
	if connect.CodeOf(err) != connect.CodePermissionDenied {
		t.Errorf("code = %v", connect.CodeOf(err))
	}
	if left := gw.failures.Load(); left != 99 {
		t.Errorf("attempts = %d, want 1", 100-left)
	}
}

func TestClient_MisalignedResult(t *testing.T) {
	c := serve(t, truncatingGateway{newGateway(t)}, nil)

	_, err := c.Planets(context.Background(), []domain.EntityID{"0000b1"}, progress.NopReporter, progress.NopReporter)
	if !errors.Is(err, domain.ErrResultMisaligned) {
		t.Errorf("error = %v, want ErrResultMisaligned", err)
	}
}

func TestClient_Headers(t *testing.T) {
	gw := &headerGateway{Service: newGateway(t)}
	c := serve(t, gw, func(cfg *Config) { cfg.APIKey = "wsk_secret" })

	if _, err := c.WorldRadius(context.Background()); err != nil {
		t.Fatal(err)
	}
	ctx := logger.WithRequestID(context.Background(), "run-42")
	if _, err := c.WorldRadius(ctx); err != nil {
		t.Fatal(err)
	}

	gw.mu.Lock()
	defer gw.mu.Unlock()
	if len(gw.headers) != 2 {
		t.Fatalf("calls = %d", len(gw.headers))
	}
	for _, h := range gw.headers {
		if h.Get("Authorization") != "Bearer wsk_secret" {
			t.Errorf("Authorization = %q", h.Get("Authorization"))
		}
	}
	if id := gw.headers[0].Get(HeaderRequestID); len(id) != 26 {
		t.Errorf("generated request id = %q, want a ULID", id)
	}
	if id := gw.headers[1].Get(HeaderRequestID); id != "run-42" {
		t.Errorf("request id = %q, want run-42", id)
	}
}

func TestClient_ContextCanceled(t *testing.T) {
	c := serve(t, newGateway(t), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Players(ctx, progress.NopReporter); err == nil {
		t.Error("Players() should fail on a canceled context")
	}
}

func TestClient_CustomCA(t *testing.T) {
	path, handler := worldv1connect.NewWorldServiceHandler(newGateway(t))
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	ts := httptest.NewTLSServer(mux)
	defer ts.Close()

	cfg := DefaultConfig()
	cfg.Endpoint = ts.URL
	cfg.Retry.MaxRetries = 0

	// The test server's certificate is not in the system pool.
	untrusted, err := NewClient(cfg, WithLogger(discard))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := untrusted.WorldRadius(context.Background()); err == nil {
		t.Error("untrusted certificate accepted")
	}

	ca := filepath.Join(t.TempDir(), "ca.pem")
	pemData := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: ts.Certificate().Raw})
	if err := os.WriteFile(ca, pemData, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.TLS.CAFile = ca
	trusted, err := NewClient(cfg, WithLogger(discard))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	radius, err := trusted.WorldRadius(context.Background())
	if err != nil {
		t.Fatalf("WorldRadius() error = %v", err)
	}
	if radius != 12000 {
		t.Errorf("radius = %d", radius)
	}
}
