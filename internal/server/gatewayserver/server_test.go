package gatewayserver

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"

	worldv1 "github.com/yndnr/worldsync/api/worldv1"
	"github.com/yndnr/worldsync/api/worldv1/worldv1connect"
	"github.com/yndnr/worldsync/internal/server/config"
)

func testConfig(t *testing.T) *config.GatewayConfig {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "world.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "world.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.Server.Addr = "127.0.0.1:0"
	cfg.World.Fixture = path
	cfg.World.Watch = false
	cfg.Telemetry.Audit = false
	return cfg
}

func bearer(key string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			req.Header().Set("Authorization", "Bearer "+key)
			return next(ctx, req)
		}
	}
}

func TestServer_RoundTrip(t *testing.T) {
	cfg := testConfig(t)
	cfg.Security.APIKeys = []string{"wsk_test"}

	s, err := New(cfg, discard)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	ctx := context.Background()

	anon := worldv1connect.NewWorldServiceClient(ts.Client(), ts.URL)
	_, err = anon.GetWorldRadius(ctx, connect.NewRequest(&worldv1.Empty{}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("anonymous call code = %v, want Unauthenticated", connect.CodeOf(err))
	}

	client := worldv1connect.NewWorldServiceClient(ts.Client(), ts.URL, connect.WithInterceptors(bearer("wsk_test")))
	res, err := client.GetWorldRadius(ctx, connect.NewRequest(&worldv1.Empty{}))
	if err != nil {
		t.Fatalf("GetWorldRadius() error = %v", err)
	}
	if res.Msg.Radius != 12000 {
		t.Errorf("radius = %d", res.Msg.Radius)
	}

	planets, err := client.GetPlanets(ctx, connect.NewRequest(&worldv1.IDsRequest{IDs: []string{"0000b1"}}))
	if err != nil {
		t.Fatalf("GetPlanets() error = %v", err)
	}
	if p := planets.Msg.Planets; len(p) != 1 || p[0].Owner != "0x00000000000000000000000000000000000000a1" {
		t.Errorf("planets = %+v", p)
	}

	_, err = client.GetTouchedPlanetIDs(ctx, connect.NewRequest(&worldv1.RangeRequest{StartIndex: 3, EndIndex: 1}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("inverted range code = %v", connect.CodeOf(err))
	}

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	for _, want := range []string{
		`worldsync_gateway_requests_total{code="ok",procedure="/worldsync.v1.WorldService/GetWorldRadius"} 1`,
		`worldsync_gateway_requests_total{code="unauthenticated"`,
		`worldsync_gateway_world_records{kind="planets"} 4`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("/metrics missing %q", want)
		}
	}

	resp, err = http.Get(ts.URL + "/ready")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("/ready = %d", resp.StatusCode)
	}
}

func TestServer_MetricsDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Telemetry.Metrics = false

	s, err := New(cfg, discard)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s.Metrics() != nil {
		t.Error("Metrics() should be nil when disabled")
	}

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("/metrics = %d, want 404", rec.Code)
	}
}

func TestServer_BadFixture(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(cfg.World.Fixture, []byte("nonsense_field: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(cfg, discard); err == nil {
		t.Error("New() should fail on an invalid fixture")
	}
}

func TestServer_ServeReloadShutdown(t *testing.T) {
	cfg := testConfig(t)
	cfg.World.Watch = true

	s, err := New(cfg, discard)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ln) }()

	client := worldv1connect.NewWorldServiceClient(http.DefaultClient, "http://"+ln.Addr().String())
	ctx := context.Background()

	deadline := time.Now().Add(3 * time.Second)
	for {
		_, err := client.GetWorldRadius(ctx, connect.NewRequest(&worldv1.Empty{}))
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never answered: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	if err := os.WriteFile(cfg.World.Fixture, []byte("world_radius: 777\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline = time.Now().Add(3 * time.Second)
	for {
		res, err := client.GetWorldRadius(ctx, connect.NewRequest(&worldv1.Empty{}))
		if err == nil && res.Msg.Radius == 777 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("fixture change was not picked up")
		}
		time.Sleep(20 * time.Millisecond)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Error("Serve did not return after Shutdown")
	}
}
