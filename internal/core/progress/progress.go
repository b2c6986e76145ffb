package progress

import "sync"

// Reporter receives the completion fraction of one stream.
type Reporter interface {
	Report(fraction float64)
}

// Sink binds stream names to reporters.
type Sink interface {
	Stream(name string) Reporter
}

// Stream names used by a reconstruction pass.
const (
	StreamPlanetIDs          = "planet_ids"
	StreamPlayers            = "players"
	StreamRevealedPlanetIDs  = "revealed_planet_ids"
	StreamRevealedCoords     = "revealed_coords"
	StreamPendingMoves       = "pending_moves"
	StreamPlanets            = "planets"
	StreamPlanetMetadata     = "planet_metadata"
	StreamArtifactsOnPlanets = "artifacts_on_planets"
	StreamArtifactsOnMoves   = "artifacts_on_moves"
)

// Streams lists every stream in display order.
var Streams = []string{
	StreamPlanetIDs,
	StreamPlayers,
	StreamRevealedPlanetIDs,
	StreamRevealedCoords,
	StreamPendingMoves,
	StreamPlanets,
	StreamPlanetMetadata,
	StreamArtifactsOnPlanets,
	StreamArtifactsOnMoves,
}

var labels = map[string]string{
	StreamPlanetIDs:          "Planet IDs",
	StreamPlayers:            "Players",
	StreamRevealedPlanetIDs:  "Revealed Planet IDs",
	StreamRevealedCoords:     "Revealed Planet Coordinates",
	StreamPendingMoves:       "Pending Moves",
	StreamPlanets:            "Planets",
	StreamPlanetMetadata:     "Planet Metadatas",
	StreamArtifactsOnPlanets: "Artifacts On Planets",
	StreamArtifactsOnMoves:   "Artifacts On Moves",
}

// Label returns the human-readable label of a stream.
func Label(name string) string {
	if l, ok := labels[name]; ok {
		return l
	}
	return name
}

// Clamp bounds a fraction to [0, 1]. NaN maps to 0.
func Clamp(fraction float64) float64 {
	if fraction != fraction || fraction < 0 {
		return 0
	}
	if fraction > 1 {
		return 1
	}
	return fraction
}

// Fraction returns done/total clamped, treating an empty total as complete.
func Fraction(done, total int) float64 {
	if total <= 0 {
		return 1
	}
	return Clamp(float64(done) / float64(total))
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(fraction float64)

// Report calls f.
func (f ReporterFunc) Report(fraction float64) { f(fraction) }

// SinkFunc adapts a function to Sink.
type SinkFunc func(name string) Reporter

// Stream calls f.
func (f SinkFunc) Stream(name string) Reporter { return f(name) }

type nopReporter struct{}

func (nopReporter) Report(float64) {}

type nopSink struct{}

func (nopSink) Stream(string) Reporter { return nopReporter{} }

// Nop is a Sink that discards every report.
var Nop Sink = nopSink{}

// NopReporter discards every report.
var NopReporter Reporter = nopReporter{}

// Multi fans out each stream to every given sink.
func Multi(sinks ...Sink) Sink {
	return SinkFunc(func(name string) Reporter {
		reps := make([]Reporter, 0, len(sinks))
		for _, s := range sinks {
			if s != nil {
				reps = append(reps, s.Stream(name))
			}
		}
		return ReporterFunc(func(f float64) {
			for _, r := range reps {
				r.Report(f)
			}
		})
	})
}

// Recorder is a Sink that keeps the last fraction and call count of every stream.
type Recorder struct {
	mu    sync.Mutex
	last  map[string]float64
	calls map[string]int
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		last:  make(map[string]float64),
		calls: make(map[string]int),
	}
}

// Stream implements Sink.
func (r *Recorder) Stream(name string) Reporter {
	return ReporterFunc(func(f float64) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.last[name] = Clamp(f)
		r.calls[name]++
	})
}

// Last returns the last reported fraction of a stream.
func (r *Recorder) Last(name string) (float64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.last[name]
	return f, ok
}

// Calls returns how many reports a stream received.
func (r *Recorder) Calls(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[name]
}
