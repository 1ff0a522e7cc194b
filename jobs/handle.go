package jobs

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Handle tracks the completion of a scheduled task. The zero Handle is
// already complete with no error, so it can be passed wherever "no
// dependency" is meant.
//
// Handles are values; copies observe the same task.
type Handle struct {
	t *task
}

type task struct {
	done chan struct{}
	err  error
}

func newTask() *task {
	return &task{done: make(chan struct{})}
}

// finish records err and releases waiters. It must be called once.
func (t *task) finish(err error) {
	t.err = err
	close(t.done)
}

var closedCh = func() chan struct{} {
	c := make(chan struct{})
	close(c)
	return c
}()

// Completed returns a Handle that is already complete.
func Completed() Handle { return Handle{} }

// Failed returns a Handle that is already complete with err.
func Failed(err error) Handle {
	t := newTask()
	t.finish(err)
	return Handle{t: t}
}

// Done returns a channel closed when the task completes.
func (h Handle) Done() <-chan struct{} {
	if h.t == nil {
		return closedCh
	}
	return h.t.done
}

// IsCompleted reports whether the task has completed.
func (h Handle) IsCompleted() bool {
	select {
	case <-h.Done():
		return true
	default:
		return false
	}
}

// Err returns the task's error. It is nil until the task completes.
func (h Handle) Err() error {
	if h.t == nil || !h.IsCompleted() {
		return nil
	}
	return h.t.err
}

// Wait blocks until the task completes or ctx is done. A canceled wait does
// not cancel the task.
func (h Handle) Wait(ctx context.Context) error {
	select {
	case <-h.Done():
		return h.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Then runs fn on its own goroutine once dep has completed, passing dep's
// error, and returns a Handle for fn's result. fn runs whether or not dep
// failed.
func Then(dep Handle, fn func(depErr error) error) Handle {
	t := newTask()
	go func() {
		<-dep.Done()
		t.finish(fn(dep.Err()))
	}()
	return Handle{t: t}
}

// Combine returns a Handle that completes when every handle in hs has
// completed. Its error is the first non-nil error among them.
func Combine(hs ...Handle) Handle {
	pending := hs[:0:0]
	for _, h := range hs {
		if !h.IsCompleted() || h.Err() != nil {
			pending = append(pending, h)
		}
	}
	switch len(pending) {
	case 0:
		return Completed()
	case 1:
		return pending[0]
	}

	t := newTask()
	go func() {
		var g errgroup.Group
		for _, h := range pending {
			g.Go(func() error {
				<-h.Done()
				return h.Err()
			})
		}
		t.finish(g.Wait())
	}()
	return Handle{t: t}
}
