package texel

import (
	"github.com/cockroachdb/errors"

	"github.com/gogpu/texel/jobs"
)

// Window is a zero-copy view of a buffer restricted to the inclusive flat
// index range [lo, hi]. Windows are what scheduled work receives: a
// partitioned pass gives each chunk a Window over that chunk only, so
// chunks cannot step on each other.
//
// A Window is valid until its buffer is disposed or aliased again.
type Window[T Texel] struct {
	data  []T
	shape Shape
	st    *state
	gen   uint64
	lo    int
	hi    int
}

// AsAliasedSlice returns a Window over the whole buffer for use by a
// scheduled task. Each call invalidates the Windows returned before it.
func (b *Buffer[T]) AsAliasedSlice() (Window[T], error) {
	if err := b.checkLive(); err != nil {
		return Window[T]{}, err
	}
	return b.target().open()
}

// passTarget captures what a scheduled pass needs from a buffer, so the pass
// can open its alias when it starts rather than when it is scheduled.
type passTarget[T Texel] struct {
	data  []T
	shape Shape
	st    *state
	label string
}

func (b *Buffer[T]) target() passTarget[T] {
	return passTarget[T]{data: b.data, shape: b.shape, st: b.st, label: b.label}
}

// open bumps the generation and returns a Window over the whole target.
func (p passTarget[T]) open() (Window[T], error) {
	if !p.st.live.Load() {
		return Window[T]{}, invalidOp("buffer %q used after dispose", p.label)
	}
	return Window[T]{
		data:  p.data,
		shape: p.shape,
		st:    p.st,
		gen:   p.st.gen.Add(1),
		lo:    0,
		hi:    len(p.data) - 1,
	}, nil
}

// Range returns the inclusive index window.
func (w Window[T]) Range() (lo, hi int) { return w.lo, w.hi }

// Len returns the number of texels in the underlying buffer.
func (w Window[T]) Len() int { return len(w.data) }

// Shape returns a copy of the buffer's resolution.
func (w Window[T]) Shape() Shape { return w.shape.Clone() }

func (w Window[T]) checkValid() error {
	if w.st == nil || !w.st.live.Load() {
		return invalidOp("window used after dispose")
	}
	if g := w.st.gen.Load(); g != w.gen {
		return invalidOp("stale window: generation %d, buffer re-aliased at %d", w.gen, g)
	}
	return nil
}

func (w Window[T]) check(i int) error {
	if err := w.checkValid(); err != nil {
		return err
	}
	if i < 0 || i >= len(w.data) {
		return outOfRange(i, len(w.data))
	}
	if i < w.lo || i > w.hi {
		return rangeViolation(i, w.lo, w.hi)
	}
	return nil
}

// Get returns the texel at flat index i.
func (w Window[T]) Get(i int) (T, error) {
	if err := w.check(i); err != nil {
		var zero T
		return zero, err
	}
	return w.data[i], nil
}

// Set stores v at flat index i.
func (w Window[T]) Set(i int, v T) error {
	if err := w.check(i); err != nil {
		return err
	}
	w.data[i] = v
	return nil
}

// Slice returns the texels inside the window without copying.
func (w Window[T]) Slice() ([]T, error) {
	if err := w.checkValid(); err != nil {
		return nil, err
	}
	return w.data[w.lo : w.hi+1], nil
}

// Restrict returns a narrower window over [lo, hi], which must lie inside
// w's own range.
func (w Window[T]) Restrict(lo, hi int) (Window[T], error) {
	if err := w.checkValid(); err != nil {
		return Window[T]{}, err
	}
	if lo > hi || lo < w.lo || hi > w.hi {
		return Window[T]{}, misuse(errors.Wrapf(ErrRangeViolation,
			"window [%d,%d] outside [%d,%d]", lo, hi, w.lo, w.hi))
	}
	w.lo, w.hi = lo, hi
	return w, nil
}

// chunk narrows w to the half-open range [lo, hi) without checks.
func (w Window[T]) chunk(lo, hi int) Window[T] {
	w.lo, w.hi = lo, hi-1
	return w
}

// Partition runs body over b in chunks of chunk texels on pool, after dep
// completes. Each call receives a Window restricted to its chunk. While the
// pass is scheduled or running, direct access to b and its read-only views
// fails with ErrRangeViolation.
//
// The returned handle completes after the last chunk; chain the next pass
// or DisposeAfter on it.
func Partition[T Texel](pool *jobs.Pool, b *Buffer[T], chunk int, body func(w Window[T]) error, dep jobs.Handle) jobs.Handle {
	return partition(pool, b, len(b.data), chunk, body, dep)
}

// partition is Partition over the flat range [0, length) only. The whole
// buffer is still held by the pass.
func partition[T Texel](pool *jobs.Pool, b *Buffer[T], length, chunk int, body func(w Window[T]) error, dep jobs.Handle) jobs.Handle {
	if err := b.checkLive(); err != nil {
		return jobs.Failed(err)
	}
	target := b.target()
	target.st.passes.Add(1)
	Logger().Debug("texel: pass scheduled", "label", target.label, "length", length, "chunk", chunk)

	// The alias is opened when dep completes, so passes chained on one
	// buffer each see a current generation.
	var alias Window[T]
	opened := jobs.Then(dep, func(err error) error {
		if err != nil {
			return err
		}
		alias, err = target.open()
		return err
	})
	h := pool.ParallelFor(length, chunk, func(lo, hi int) error {
		return body(alias.chunk(lo, hi))
	}, opened)

	return jobs.Then(h, func(err error) error {
		target.st.passes.Add(-1)
		return err
	})
}

// RunPartitioned is the synchronous form of Partition: it calls body for
// each chunk in order on the calling goroutine.
func RunPartitioned[T Texel](b *Buffer[T], chunk int, body func(w Window[T]) error) error {
	return runPartitioned(b, len(b.data), chunk, body)
}

func runPartitioned[T Texel](b *Buffer[T], length, chunk int, body func(w Window[T]) error) error {
	alias, err := b.AsAliasedSlice()
	if err != nil {
		return err
	}
	b.st.passes.Add(1)
	defer b.st.passes.Add(-1)

	return jobs.Run(length, chunk, func(lo, hi int) error {
		return body(alias.chunk(lo, hi))
	})
}
