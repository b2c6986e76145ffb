package command

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/worldsync/internal/server/config"
	"github.com/yndnr/worldsync/internal/server/gatewayserver"
)

// gateway serves the shared world fixture.
func gateway(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "server", "gatewayserver", "testdata", "world.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "world.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	cfg.World.Fixture = path
	cfg.World.Watch = false
	cfg.Telemetry.Audit = false
	s, err := gatewayserver.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("gatewayserver.New() error = %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

type env struct {
	t        *testing.T
	gateway  string
	cacheDir string
}

func newEnv(t *testing.T) *env {
	t.Setenv("HOME", t.TempDir())
	return &env{t: t, gateway: gateway(t), cacheDir: filepath.Join(t.TempDir(), "cache")}
}

// run executes the CLI and returns stdout.
func (e *env) run(args ...string) (string, error) {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	app := App()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	app.Reader = strings.NewReader("")
	app.ExitErrHandler = func(*cli.Context, error) {}

	argv := append([]string{"worldsync", "--gateway", e.gateway, "--cache-dir", e.cacheDir}, args...)
	err := app.RunContext(context.Background(), argv)
	if err != nil {
		e.t.Logf("stderr: %s", stderr.String())
	}
	return stdout.String(), err
}

func (e *env) runJSON(v any, args ...string) {
	e.t.Helper()
	out, err := e.run(append([]string{"-o", "json"}, args...)...)
	if err != nil {
		e.t.Fatalf("%v: %v", args, err)
	}
	if err := json.Unmarshal([]byte(out), v); err != nil {
		e.t.Fatalf("%v: decode %q: %v", args, out, err)
	}
}

func TestSync_FreshCache(t *testing.T) {
	e := newEnv(t)

	var s syncSummary
	e.runJSON(&s, "sync", "--cache-backend", "memory")

	if s.RunID == "" || s.Fingerprint == "" {
		t.Errorf("summary missing ids: %+v", s)
	}
	if s.WorldRadius != 12000 || s.Players != 2 {
		t.Errorf("radius = %d, players = %d", s.WorldRadius, s.Players)
	}
	if s.CachedTouched != 0 || s.FetchedTouched != 3 || s.FetchedRevealed != 2 {
		t.Errorf("stats = %+v", s)
	}
	// 0000b1 is revealed; 0000b2 is the origin of a voyage into it.
	if s.LoadedPlanets != 2 || s.PendingMoves != 1 {
		t.Errorf("loaded = %d, moves = %d", s.LoadedPlanets, s.PendingMoves)
	}
	if s.ArtifactsOnVoyages != 1 || s.HeldArtifacts != 1 {
		t.Errorf("voyage artifacts = %d, held = %d", s.ArtifactsOnVoyages, s.HeldArtifacts)
	}
	if s.Persisted {
		t.Error("memory sync without --persist reported persisted")
	}
}

func TestSync_PersistThenIncremental(t *testing.T) {
	e := newEnv(t)

	var first syncSummary
	e.runJSON(&first, "sync", "--persist")
	if !first.Persisted {
		t.Fatal("first pass not persisted")
	}

	var counts struct {
		TouchedPlanetIDs int `json:"touched_planet_ids"`
		RevealedCoords   int `json:"revealed_coords"`
	}
	e.runJSON(&counts, "cache", "stats")
	if counts.TouchedPlanetIDs != 3 || counts.RevealedCoords != 2 {
		t.Errorf("cache stats = %+v", counts)
	}

	var second syncSummary
	e.runJSON(&second, "sync")
	if second.CachedTouched != 3 || second.FetchedTouched != 0 {
		t.Errorf("touched cached/fetched = %d/%d", second.CachedTouched, second.FetchedTouched)
	}
	if second.CachedRevealed != 2 || second.FetchedRevealed != 0 {
		t.Errorf("revealed cached/fetched = %d/%d", second.CachedRevealed, second.FetchedRevealed)
	}
	if second.Fingerprint != first.Fingerprint {
		t.Error("unchanged world produced a different fingerprint")
	}
}

func TestSync_SaveSnapshotAndShow(t *testing.T) {
	e := newEnv(t)

	var s syncSummary
	e.runJSON(&s, "sync", "--cache-backend", "memory", "-s")
	if s.Snapshot == "" {
		t.Fatal("no snapshot id in summary")
	}

	var list []struct {
		ID            string `json:"id"`
		LoadedPlanets int    `json:"loaded_planets"`
	}
	e.runJSON(&list, "snapshot", "list")
	if len(list) != 1 || list[0].ID != s.Snapshot || list[0].LoadedPlanets != 2 {
		t.Fatalf("snapshot list = %+v", list)
	}

	var shown syncSummary
	e.runJSON(&shown, "snapshot", "show", s.Snapshot)
	if shown.Fingerprint != s.Fingerprint || shown.Snapshot != s.Snapshot {
		t.Errorf("show = %+v", shown)
	}

	var planets []planetRow
	e.runJSON(&planets, "snapshot", "show", "--show", "planets")
	if len(planets) != 2 || planets[0].LocationID != "0000b1" || !planets[0].Revealed || planets[0].Incoming != 1 {
		t.Errorf("planets = %+v", planets)
	}
}

func TestSync_Errors(t *testing.T) {
	e := newEnv(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown section", []string{"sync", "--show", "moons"}, "unknown section"},
		{"unknown backend", []string{"sync", "--cache-backend", "etcd"}, "cache backend"},
		{"bad output", []string{"-o", "xml", "version"}, "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.run(tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestSync_UnreachableGateway(t *testing.T) {
	e := newEnv(t)
	e.gateway = "http://127.0.0.1:1"
	t.Setenv("WORLDSYNC_GATEWAY__RETRY__MAX_RETRIES", "0")

	if _, err := e.run("sync", "--cache-backend", "memory", "--progress", "none"); err == nil {
		t.Error("sync against a closed port should fail")
	}
}

func TestCache_ImportExportClear(t *testing.T) {
	e := newEnv(t)
	in := filepath.Join(t.TempDir(), "cache.yaml")
	err := os.WriteFile(in, []byte(`
touched_planet_ids: ["0000b1", "0000b2"]
revealed_coords:
  - hash: "0000b1"
    coords: {x: 120, y: -45}
    revealer: "0x00000000000000000000000000000000000000a1"
chunks: []
`), 0o644)
	if err != nil {
		t.Fatal(err)
	}

	var counts struct {
		TouchedPlanetIDs int `json:"touched_planet_ids"`
		RevealedCoords   int `json:"revealed_coords"`
	}
	e.runJSON(&counts, "cache", "import", in)
	if counts.TouchedPlanetIDs != 2 || counts.RevealedCoords != 1 {
		t.Fatalf("after import = %+v", counts)
	}

	out := filepath.Join(t.TempDir(), "export.yaml")
	if _, err := e.run("cache", "export", out); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "0000b2") {
		t.Errorf("export missing ids:\n%s", data)
	}

	if _, err := e.run("cache", "clear"); err != nil {
		t.Fatalf("clear without confirmation: %v", err)
	}
	e.runJSON(&counts, "cache", "stats")
	if counts.TouchedPlanetIDs != 2 {
		t.Error("clear without confirmation should keep the cache")
	}

	if _, err := e.run("cache", "clear", "--force"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	e.runJSON(&counts, "cache", "stats")
	if counts.TouchedPlanetIDs != 0 || counts.RevealedCoords != 0 {
		t.Errorf("after clear = %+v", counts)
	}
}

func TestCache_ImportRejectsUnknownFields(t *testing.T) {
	e := newEnv(t)
	in := filepath.Join(t.TempDir(), "cache.yaml")
	if err := os.WriteFile(in, []byte("planets: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := e.run("cache", "import", in); err == nil {
		t.Error("import should reject unknown fields")
	}
	if _, err := e.run("cache", "import"); err == nil {
		t.Error("import without a path should fail")
	}
}

func TestConfigShow_MasksSecrets(t *testing.T) {
	e := newEnv(t)
	out, err := e.run("--api-key", "wsk_0123456789abcdef", "-o", "yaml", "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "0123456789abcdef") {
		t.Errorf("api key leaked:\n%s", out)
	}
	if !strings.Contains(out, e.cacheDir) {
		t.Errorf("cache dir override missing:\n%s", out)
	}
}

func TestVersion(t *testing.T) {
	e := newEnv(t)
	var info struct {
		Version   string `json:"version"`
		GoVersion string `json:"go_version"`
	}
	e.runJSON(&info, "version")
	if info.Version == "" || !strings.HasPrefix(info.GoVersion, "go") {
		t.Errorf("version = %+v", info)
	}
}

func TestShowSection_Players(t *testing.T) {
	e := newEnv(t)
	out, err := e.run("sync", "--cache-backend", "memory", "--progress", "plain", "--show", "players")
	if err != nil {
		t.Fatal(err)
	}
	a1 := strings.Index(out, "0x00000000000000000000000000000000000000a1")
	a2 := strings.Index(out, "0x00000000000000000000000000000000000000a2")
	if a1 < 0 || a2 < 0 || a1 > a2 {
		t.Errorf("players not listed in address order:\n%s", out)
	}
}
