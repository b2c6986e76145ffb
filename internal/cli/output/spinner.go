package output

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Spinner animates a message while a slow step runs, such as deriving
// the snapshot encryption key.
type Spinner struct {
	w       io.Writer
	message string
	frames  []string

	mu       sync.Mutex
	started  bool
	done     chan struct{}
	exited   chan struct{}
	stopOnce sync.Once
}

// NewSpinner creates a spinner. Nothing is drawn until Start.
func NewSpinner(w io.Writer, message string) *Spinner {
	return &Spinner{
		w:       w,
		message: message,
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		done:    make(chan struct{}),
		exited:  make(chan struct{}),
	}
}

// Start runs the animation in a goroutine.
func (s *Spinner) Start() {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()
	go func() {
		defer close(s.exited)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r%s %s", s.frames[i%len(s.frames)], s.message)
			s.mu.Unlock()
			select {
			case <-s.done:
				return
			case <-ticker.C:
			}
		}
	}()
}

// Stop stops the spinner and clears the line.
func (s *Spinner) Stop() {
	s.finish("\r\033[K")
}

// Success stops the spinner with a success message.
func (s *Spinner) Success(message string) {
	s.finish(fmt.Sprintf("\r\033[K✓ %s\n", message))
}

// Fail stops the spinner with a failure message.
func (s *Spinner) Fail(message string) {
	s.finish(fmt.Sprintf("\r\033[K✗ %s\n", message))
}

func (s *Spinner) finish(final string) {
	s.stopOnce.Do(func() {
		close(s.done)
		s.mu.Lock()
		started := s.started
		s.mu.Unlock()
		if started {
			<-s.exited
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		io.WriteString(s.w, final)
	})
}
