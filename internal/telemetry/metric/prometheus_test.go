package metric

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/yndnr/worldsync/internal/core/domain"
	"github.com/yndnr/worldsync/internal/core/progress"
)

func TestProgressSink(t *testing.T) {
	r := NewRegistry()
	rep := r.ProgressSink().Stream(progress.StreamPlanets)

	rep.Report(0.4)
	if got := testutil.ToFloat64(r.StreamProgress.WithLabelValues(progress.StreamPlanets)); got != 0.4 {
		t.Errorf("progress = %v, want 0.4", got)
	}
	rep.Report(7)
	if got := testutil.ToFloat64(r.StreamProgress.WithLabelValues(progress.StreamPlanets)); got != 1 {
		t.Errorf("progress = %v, want clamped 1", got)
	}
}

func TestObservePass(t *testing.T) {
	r := NewRegistry()
	snap := &domain.Snapshot{
		Stats: domain.SyncStats{CachedTouched: 2, FetchedTouched: 3, LoadedPlanets: 3, Arrivals: 1},
		Anomalies: []domain.Anomaly{
			{Kind: domain.AnomalyDuplicateVoyage},
			{Kind: domain.AnomalyDuplicateVoyage},
		},
	}

	r.ObservePass(snap, time.Second, nil)
	r.ObservePass(nil, time.Second, domain.ErrRemoteFetch.WithCause(errors.New("x")))
	r.ObservePass(nil, time.Second, errors.New("plain"))

	if got := testutil.ToFloat64(r.SyncsTotal.WithLabelValues("ok")); got != 1 {
		t.Errorf("ok passes = %v", got)
	}
	if got := testutil.ToFloat64(r.SyncsTotal.WithLabelValues("WS-RMTE-5020")); got != 1 {
		t.Errorf("remote failures = %v", got)
	}
	if got := testutil.ToFloat64(r.SyncsTotal.WithLabelValues("unknown")); got != 1 {
		t.Errorf("unknown failures = %v", got)
	}
	if got := testutil.ToFloat64(r.RecordsFetched.WithLabelValues("touched_planet_ids", "remote")); got != 3 {
		t.Errorf("fetched touched = %v", got)
	}
	if got := testutil.ToFloat64(r.Anomalies.WithLabelValues("duplicate_voyage")); got != 2 {
		t.Errorf("anomalies = %v", got)
	}
	if got := testutil.ToFloat64(r.LoadedPlanets); got != 3 {
		t.Errorf("loaded planets = %v", got)
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.ObserveRPC("/worldsync.v1.WorldService/GetPlanets", "ok", 10*time.Millisecond)
	r.Prometheus().MustRegister(NewWorldCollector(func() map[string]int {
		return map[string]int{"planets": 12}
	}))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`worldsync_gateway_requests_total{code="ok",procedure="/worldsync.v1.WorldService/GetPlanets"} 1`,
		`worldsync_gateway_world_records{kind="planets"} 12`,
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
