// Package jobs is the partitioned parallel scheduler used to run passes over
// texel buffers.
//
// A pass splits [0,N) into fixed-size chunks and runs each chunk on a worker.
// Passes are chained by threading Handles: a pass scheduled with a dependency
// starts only after the dependency completes, and is skipped entirely if the
// dependency failed. Once started, a pass always runs every chunk.
package jobs

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"

	"github.com/gogpu/texel/internal/logging"
)

// ErrClosed is returned by handles of work scheduled on a closed Pool.
var ErrClosed = errors.New("jobs: pool closed")

var logger logging.Holder

// SetLogger sets the logger used by this package. Pass nil to silence it.
func SetLogger(l *slog.Logger) { logger.Set(l) }

// Pool runs chunks of partitioned passes on a fixed set of goroutines.
// Each worker owns a bounded queue; an idle worker takes chunks from its
// neighbours before blocking on its own queue. A Pool is safe for
// concurrent use.
type Pool struct {
	queues []chan func()
	stop   chan struct{}
	exited sync.WaitGroup
	open   atomic.Bool

	// submit is held for reading while chunks are queued and for writing
	// by Close, so nothing lands in a queue after the workers drained it.
	submit sync.RWMutex
}

// NewPool starts a pool of workers goroutines, or GOMAXPROCS when workers
// is not positive.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	depth := max(8, 4*workers)

	p := &Pool{
		queues: make([]chan func(), workers),
		stop:   make(chan struct{}),
	}
	for i := range p.queues {
		p.queues[i] = make(chan func(), depth)
	}
	p.open.Store(true)
	p.exited.Add(workers)
	for i := range p.queues {
		go p.loop(i)
	}
	return p
}

func (p *Pool) loop(id int) {
	defer p.exited.Done()
	own := p.queues[id]
	for {
		if fn := p.take(id); fn != nil {
			fn()
			continue
		}
		select {
		case fn := <-own:
			fn()
		case <-p.stop:
			for {
				select {
				case fn := <-own:
					fn()
				default:
					return
				}
			}
		}
	}
}

// take returns a queued chunk without blocking, preferring the worker's own
// queue, or nil when every queue is empty.
func (p *Pool) take(id int) func() {
	n := len(p.queues)
	for k := range n {
		select {
		case fn := <-p.queues[(id+k)%n]:
			return fn
		default:
		}
	}
	return nil
}

// runAll queues every item round-robin and blocks until all have run.
// Items that arrive after Close run on the caller so a started pass never
// drops chunks.
func (p *Pool) runAll(items []func()) {
	var pending sync.WaitGroup
	pending.Add(len(items))

	p.submit.RLock()
	inline := !p.open.Load()
	for i, fn := range items {
		item := func() {
			defer pending.Done()
			fn()
		}
		if inline {
			item()
		} else {
			p.queues[i%len(p.queues)] <- item
		}
	}
	p.submit.RUnlock()

	pending.Wait()
}

// afterDeps runs fn once every dependency has completed successfully. A
// failed dependency skips fn and is reported instead.
func afterDeps(deps []Handle, fn func() error) Handle {
	return Then(Combine(deps...), func(depErr error) error {
		if depErr != nil {
			return errors.Wrap(depErr, "jobs: dependency failed")
		}
		return fn()
	})
}

// Schedule runs fn on a worker after every dependency has completed.
func (p *Pool) Schedule(fn func() error, deps ...Handle) Handle {
	if !p.open.Load() {
		return Failed(ErrClosed)
	}
	return afterDeps(deps, func() error {
		var err error
		p.runAll([]func(){func() { err = fn() }})
		return err
	})
}

// ParallelFor splits [0,length) into chunks of chunk elements and calls
// body(lo, hi) for each half-open chunk on the pool's workers. The pass
// starts after every dependency has completed.
//
// Chunks run in no particular order. All chunks run even if some fail; the
// returned Handle reports every chunk error combined.
func (p *Pool) ParallelFor(length, chunk int, body func(lo, hi int) error, deps ...Handle) Handle {
	if chunk <= 0 {
		return Failed(errors.Newf("jobs: invalid chunk size %d", chunk))
	}
	if length < 0 {
		return Failed(errors.Newf("jobs: invalid length %d", length))
	}
	if !p.open.Load() {
		return Failed(ErrClosed)
	}

	return afterDeps(deps, func() error {
		start := hrtime.Now()
		n := (length + chunk - 1) / chunk

		var mu sync.Mutex
		var errs error
		work := make([]func(), n)
		for i := range n {
			lo := i * chunk
			hi := min(lo+chunk, length)
			work[i] = func() {
				if err := body(lo, hi); err != nil {
					mu.Lock()
					errs = errors.CombineErrors(errs, err)
					mu.Unlock()
				}
			}
		}
		p.runAll(work)

		logger.Get().Debug("jobs: pass complete",
			"length", length, "chunks", n, "elapsed", hrtime.Since(start))
		return errs
	})
}

// Run is the synchronous path: it calls body for each chunk of [0,length)
// in order on the calling goroutine and returns the combined chunk errors.
func Run(length, chunk int, body func(lo, hi int) error) error {
	if chunk <= 0 {
		return errors.Newf("jobs: invalid chunk size %d", chunk)
	}
	var errs error
	for lo := 0; lo < length; lo += chunk {
		if err := body(lo, min(lo+chunk, length)); err != nil {
			errs = errors.CombineErrors(errs, err)
		}
	}
	return errs
}

// Close stops accepting work, runs what is already queued and waits for
// the workers to exit. Calling it again does nothing.
func (p *Pool) Close() {
	if !p.open.CompareAndSwap(true, false) {
		return
	}
	p.submit.Lock()
	close(p.stop)
	p.submit.Unlock()
	p.exited.Wait()
}

// Workers returns the number of worker goroutines.
func (p *Pool) Workers() int { return len(p.queues) }

// IsRunning reports whether the pool still accepts work.
func (p *Pool) IsRunning() bool { return p.open.Load() }
