package texel

// Unchecked2D is a lightweight 2-D accessor for hot loops. It skips window
// and pass checks; it only verifies that the source is still alive and the
// coordinate is in bounds.
type Unchecked2D[T Texel] struct {
	data []T
	w, h int
	st   *state
}

// Unchecked returns an Unchecked2D over t.
func (t *Texture2D[T]) Unchecked() Unchecked2D[T] {
	return Unchecked2D[T]{data: t.data, w: t.shape[0], h: t.shape[1], st: t.st}
}

// IsCreated reports whether the source memory is still alive.
func (u Unchecked2D[T]) IsCreated() bool {
	return uncheckedLive(u.data, u.st)
}

// Size returns the width and height.
func (u Unchecked2D[T]) Size() (w, h int) { return u.w, u.h }

// TryRead returns the texel at (x, y) and true, or false when the source is
// gone or the coordinate is outside the texture.
func (u Unchecked2D[T]) TryRead(x, y int) (T, bool) {
	if !u.IsCreated() || x < 0 || x >= u.w || y < 0 || y >= u.h {
		var zero T
		return zero, false
	}
	return u.data[x+y*u.w], true
}

// TryWrite stores v at (x, y) and reports whether it did.
func (u Unchecked2D[T]) TryWrite(x, y int, v T) bool {
	if !u.IsCreated() || x < 0 || x >= u.w || y < 0 || y >= u.h {
		return false
	}
	u.data[x+y*u.w] = v
	return true
}

func uncheckedLive[T Texel](data []T, st *state) bool {
	return st != nil && st.live.Load() && data != nil
}

// Unchecked3D is Unchecked2D for volumes.
type Unchecked3D[T Texel] struct {
	data    []T
	w, h, d int
	st      *state
}

// Unchecked returns an Unchecked3D over t.
func (t *Texture3D[T]) Unchecked() Unchecked3D[T] {
	return Unchecked3D[T]{data: t.data, w: t.shape[0], h: t.shape[1], d: t.shape[2], st: t.st}
}

// IsCreated reports whether the source memory is still alive.
func (u Unchecked3D[T]) IsCreated() bool { return uncheckedLive(u.data, u.st) }

// Resolution returns width, height and depth.
func (u Unchecked3D[T]) Resolution() [3]int { return [3]int{u.w, u.h, u.d} }

func (u Unchecked3D[T]) index(x, y, z int) (int, bool) {
	if !u.IsCreated() || x < 0 || x >= u.w || y < 0 || y >= u.h || z < 0 || z >= u.d {
		return 0, false
	}
	return Index3(x, y, z, u.w, u.h), true
}

// TryRead returns the texel at (x, y, z) and true, or false when the source
// is gone or the coordinate is outside the volume.
func (u Unchecked3D[T]) TryRead(x, y, z int) (T, bool) {
	i, ok := u.index(x, y, z)
	if !ok {
		var zero T
		return zero, false
	}
	return u.data[i], true
}

// TryWrite stores v at (x, y, z) and reports whether it did.
func (u Unchecked3D[T]) TryWrite(x, y, z int, v T) bool {
	i, ok := u.index(x, y, z)
	if ok {
		u.data[i] = v
	}
	return ok
}

// Unchecked4D is Unchecked2D for sequences of volumes.
type Unchecked4D[T Texel] struct {
	data       []T
	w, h, d, n int
	st         *state
}

// Unchecked returns an Unchecked4D over t.
func (t *Texture4D[T]) Unchecked() Unchecked4D[T] {
	return Unchecked4D[T]{data: t.data, w: t.shape[0], h: t.shape[1], d: t.shape[2], n: t.shape[3], st: t.st}
}

// IsCreated reports whether the source memory is still alive.
func (u Unchecked4D[T]) IsCreated() bool { return uncheckedLive(u.data, u.st) }

// Resolution returns width, height, depth and frame count.
func (u Unchecked4D[T]) Resolution() [4]int { return [4]int{u.w, u.h, u.d, u.n} }

func (u Unchecked4D[T]) index(x, y, z, f int) (int, bool) {
	if !u.IsCreated() || x < 0 || x >= u.w || y < 0 || y >= u.h ||
		z < 0 || z >= u.d || f < 0 || f >= u.n {
		return 0, false
	}
	return Index4(x, y, z, f, u.w, u.h, u.d), true
}

// TryRead returns the texel at (x, y, z, f) and true, or false when the
// source is gone or the coordinate is outside the texture.
func (u Unchecked4D[T]) TryRead(x, y, z, f int) (T, bool) {
	i, ok := u.index(x, y, z, f)
	if !ok {
		var zero T
		return zero, false
	}
	return u.data[i], true
}

// TryWrite stores v at (x, y, z, f) and reports whether it did.
func (u Unchecked4D[T]) TryWrite(x, y, z, f int, v T) bool {
	i, ok := u.index(x, y, z, f)
	if ok {
		u.data[i] = v
	}
	return ok
}
