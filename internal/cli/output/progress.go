package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/yndnr/worldsync/internal/core/progress"
)

const barWidth = 30

// Board renders one progress bar per sync stream.
//
// Board is a progress.Sink. Reports only record the latest fraction;
// drawing happens on a ticker so fetch goroutines never block on the
// terminal. On a terminal the bars redraw in place; otherwise (Plain) a
// line is printed only when a stream first reaches completion.
type Board struct {
	w       io.Writer
	streams []string
	plain   bool

	mu       sync.Mutex
	fraction map[string]float64
	done     map[string]bool
	drawn    bool

	stop     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

// BoardOption configures a Board.
type BoardOption func(*Board)

// Plain disables in-place redrawing.
func Plain() BoardOption {
	return func(b *Board) { b.plain = true }
}

// NewBoard creates a board for the given streams, or for every sync
// stream when none are given.
func NewBoard(w io.Writer, streams []string, opts ...BoardOption) *Board {
	if len(streams) == 0 {
		streams = progress.Streams
	}
	b := &Board{
		w:        w,
		streams:  streams,
		fraction: make(map[string]float64, len(streams)),
		done:     make(map[string]bool, len(streams)),
		stop:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Stream implements progress.Sink.
func (b *Board) Stream(name string) progress.Reporter {
	return progress.ReporterFunc(func(f float64) {
		b.mu.Lock()
		defer b.mu.Unlock()
		// Streams report from concurrent pages; keep the furthest value.
		if f = progress.Clamp(f); f > b.fraction[name] {
			b.fraction[name] = f
		}
	})
}

// Start redraws every interval until Stop.
func (b *Board) Start(interval time.Duration) {
	go func() {
		defer close(b.stopped)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				b.Render()
			case <-b.stop:
				return
			}
		}
	}()
}

// Stop stops redrawing and draws the final state. Safe to call more than once.
func (b *Board) Stop() {
	b.stopOnce.Do(func() {
		close(b.stop)
		<-b.stopped
		b.Render()
	})
}

// Render draws the current state once.
func (b *Board) Render() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.plain {
		for _, s := range b.streams {
			if b.fraction[s] >= 1 && !b.done[s] {
				b.done[s] = true
				fmt.Fprintf(b.w, "%s: done\n", progress.Label(s))
			}
		}
		return
	}

	var sb strings.Builder
	if b.drawn {
		// Move the cursor back to the first bar.
		fmt.Fprintf(&sb, "\033[%dA", len(b.streams))
	}
	for _, s := range b.streams {
		sb.WriteString("\r\033[K")
		sb.WriteString(renderBar(progress.Label(s), b.fraction[s]))
		sb.WriteByte('\n')
	}
	b.drawn = true
	io.WriteString(b.w, sb.String())
}

func renderBar(label string, fraction float64) string {
	filled := int(float64(barWidth) * fraction)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	return fmt.Sprintf("%-28s [%s] %3.0f%%", label, bar, fraction*100)
}
