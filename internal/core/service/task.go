package service

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// task is the pending result of one node in the fetch graph. Each task
// writes only its own slot; readers join through wait.
type task[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// spawn starts fn on the group and returns its result slot.
func spawn[T any](g *errgroup.Group, fn func() (T, error)) *task[T] {
	t := &task[T]{done: make(chan struct{})}
	g.Go(func() error {
		defer close(t.done)
		t.val, t.err = fn()
		return t.err
	})
	return t
}

// wait blocks until the task finishes or ctx is done.
func (t *task[T]) wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.val, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
