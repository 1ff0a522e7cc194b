package texel

import "github.com/cockroachdb/errors"

// ReadOnly is an immutable view of a buffer's texels. Any number of
// goroutines may read through ReadOnly views at once, provided no
// partitioned pass is writing the buffer. A view is valid only while its
// buffer is.
type ReadOnly[T Texel] struct {
	data  []T
	shape Shape
	st    *state
	label string
}

// AsReadOnly returns a read-only view of b.
func (b *Buffer[T]) AsReadOnly() ReadOnly[T] {
	return ReadOnly[T]{data: b.data, shape: b.shape, st: b.st, label: b.label}
}

// Len returns the number of texels.
func (r ReadOnly[T]) Len() int { return len(r.data) }

// Shape returns a copy of the view's resolution.
func (r ReadOnly[T]) Shape() Shape { return r.shape.Clone() }

// Size returns the first two axes, the width and height.
func (r ReadOnly[T]) Size() (w, h int) {
	if len(r.shape) < 2 {
		return 0, 0
	}
	return r.shape[0], r.shape[1]
}

func (r ReadOnly[T]) check(i int) error {
	if r.st == nil || !r.st.live.Load() || r.data == nil {
		return invalidOp("read-only view of %q used after dispose", r.label)
	}
	if i < 0 || i >= len(r.data) {
		return outOfRange(i, len(r.data))
	}
	if n := r.st.passes.Load(); n > 0 {
		return misuse(errors.Wrapf(ErrRangeViolation,
			"read-only view of %q read while %d partitioned pass(es) are running", r.label, n))
	}
	return nil
}

// Get returns the texel at flat index i.
func (r ReadOnly[T]) Get(i int) (T, error) {
	if err := r.check(i); err != nil {
		var zero T
		return zero, err
	}
	return r.data[i], nil
}

// At returns the texel at coord.
func (r ReadOnly[T]) At(coord ...int) (T, error) {
	if !r.shape.Contains(coord) {
		var zero T
		return zero, misuse(errors.Wrapf(ErrOutOfRange, "coordinate %v outside %v", coord, r.shape))
	}
	return r.Get(r.shape.ToIndex(coord))
}

// Fetch returns the texel at (x, y) of the first 2-D slice.
func (r ReadOnly[T]) Fetch(x, y int) (T, error) {
	w, h := r.Size()
	if x < 0 || x >= w || y < 0 || y >= h {
		var zero T
		return zero, misuse(errors.Wrapf(ErrOutOfRange, "coordinate (%d,%d) outside %dx%d", x, y, w, h))
	}
	return r.Get(Index2(x, y, w))
}

// Set always fails with ErrInvalidOperation.
func (r ReadOnly[T]) Set(i int, _ T) error {
	return invalidOp("write to read-only view of %q at index %d", r.label, i)
}

// CopyTo copies the view's texels into dst, which must be at least Len()
// long.
func (r ReadOnly[T]) CopyTo(dst []T) error {
	if len(r.data) == 0 {
		return nil
	}
	if err := r.check(0); err != nil {
		return err
	}
	if len(dst) < len(r.data) {
		return invalidOp("copy: destination holds %d texels, need %d", len(dst), len(r.data))
	}
	copy(dst, r.data)
	return nil
}
