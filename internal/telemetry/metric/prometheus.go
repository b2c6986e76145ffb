package metric

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yndnr/worldsync/internal/core/domain"
	"github.com/yndnr/worldsync/internal/core/progress"
)

const namespace = "worldsync"

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	// Reconstruction metrics
	StreamProgress *prometheus.GaugeVec
	SyncDuration   prometheus.Histogram
	SyncsTotal     *prometheus.CounterVec
	RecordsFetched *prometheus.CounterVec
	Anomalies      *prometheus.CounterVec
	LoadedPlanets  prometheus.Gauge

	// Gateway metrics
	RPCRequests *prometheus.CounterVec
	RPCDuration *prometheus.HistogramVec
}

// NewRegistry creates the metrics and registers them, plus the Go runtime
// and process collectors, on a fresh registry.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		StreamProgress: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "stream_progress_ratio",
			Help:      "Completion fraction of each fetch stream in the current pass.",
		}, []string{"stream"}),
		SyncDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "duration_seconds",
			Help:      "Wall-clock duration of reconstruction passes.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		SyncsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "passes_total",
			Help:      "Reconstruction passes by result code.",
		}, []string{"result"}),
		RecordsFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "records_total",
			Help:      "Records obtained per category and source.",
		}, []string{"category", "source"}),
		Anomalies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "anomalies_total",
			Help:      "Data integrity anomalies seen during assembly.",
		}, []string{"kind"}),
		LoadedPlanets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "loaded_planets",
			Help:      "Planets materialized by the last successful pass.",
		}),
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Gateway RPCs by procedure and status code.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "gateway",
			Name:      "request_duration_seconds",
			Help:      "Gateway RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.StreamProgress,
		r.SyncDuration,
		r.SyncsTotal,
		r.RecordsFetched,
		r.Anomalies,
		r.LoadedPlanets,
		r.RPCRequests,
		r.RPCDuration,
	)
	return r
}

// Prometheus returns the underlying registry for extra collectors.
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.reg
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// ProgressSink exposes stream progress as the stream_progress_ratio gauge.
func (r *Registry) ProgressSink() progress.Sink {
	return progress.SinkFunc(func(name string) progress.Reporter {
		g := r.StreamProgress.WithLabelValues(name)
		return progress.ReporterFunc(func(f float64) {
			g.Set(progress.Clamp(f))
		})
	})
}

// ObservePass records the outcome of one reconstruction pass.
func (r *Registry) ObservePass(snap *domain.Snapshot, elapsed time.Duration, err error) {
	r.SyncDuration.Observe(elapsed.Seconds())
	if err != nil {
		r.SyncsTotal.WithLabelValues(resultCode(err)).Inc()
		return
	}
	r.SyncsTotal.WithLabelValues("ok").Inc()

	s := snap.Stats
	r.RecordsFetched.WithLabelValues("touched_planet_ids", "cache").Add(float64(s.CachedTouched))
	r.RecordsFetched.WithLabelValues("touched_planet_ids", "remote").Add(float64(s.FetchedTouched))
	r.RecordsFetched.WithLabelValues("revealed_coords", "cache").Add(float64(s.CachedRevealed))
	r.RecordsFetched.WithLabelValues("revealed_coords", "remote").Add(float64(s.FetchedRevealed))
	r.RecordsFetched.WithLabelValues("arrivals", "remote").Add(float64(s.Arrivals))
	r.RecordsFetched.WithLabelValues("artifacts", "remote").Add(float64(s.Artifacts))
	r.LoadedPlanets.Set(float64(s.LoadedPlanets))

	for _, a := range snap.Anomalies {
		r.Anomalies.WithLabelValues(string(a.Kind)).Inc()
	}
}

// ObserveRPC records one gateway RPC.
func (r *Registry) ObserveRPC(procedure, code string, elapsed time.Duration) {
	r.RPCRequests.WithLabelValues(procedure, code).Inc()
	r.RPCDuration.WithLabelValues(procedure).Observe(elapsed.Seconds())
}

func resultCode(err error) string {
	var de *domain.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return "unknown"
}
