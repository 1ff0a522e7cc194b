package texel

import (
	"math"
	"sync/atomic"
	"unsafe"

	"github.com/cockroachdb/errors"

	"github.com/gogpu/texel/alloc"
	"github.com/gogpu/texel/codec"
)

// Texel is the element constraint of every buffer: a packed texel the
// codec understands.
type Texel = codec.Texel

// state is shared by a buffer and every view derived from it.
type state struct {
	// live is false once the memory has been released.
	live atomic.Bool

	// gen is bumped by each AsAliasedSlice; older aliases become stale.
	gen atomic.Uint64

	// passes counts partitioned passes currently holding the buffer.
	passes atomic.Int32
}

// Buffer is a dense, flat block of texels with a 2-, 3- or 4-axis shape,
// optionally followed by its mip chain.
//
// A Buffer either owns its memory, obtained from an alloc.Allocator, or
// borrows memory owned by someone else. It must be disposed exactly once.
//
// Methods are not safe for concurrent mutation; use Partition to write from
// several goroutines.
type Buffer[T Texel] struct {
	data  []T
	n     int
	shape Shape
	mips  int
	label string

	// owner is nil for borrowed memory.
	owner alloc.Allocator
	block alloc.Block

	st *state

	// root is set on the buffer that created st; disposing it ends st.
	root bool

	// live is this handle's own flag, cleared by Dispose and DisposeAfter.
	live atomic.Bool
}

// Allocate returns a zeroed buffer of the given shape whose memory is owned
// by a. WithUninitialized skips the zeroing.
func Allocate[T Texel](shape Shape, a alloc.Allocator, opts ...AllocOption) (*Buffer[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, misuse(err)
	}
	o, err := resolveOptions(shape, opts)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, errors.Wrap(ErrAllocator, "texel: nil allocator")
	}

	n := TotalLength(shape, o.mipCount)
	var zero T
	elem := int(unsafe.Sizeof(zero))
	if n > math.MaxInt/elem {
		return nil, errors.Wrapf(ErrAllocator, "texel: allocate %v %s: %d texels overflow the byte size",
			shape, codec.FormatOf[T](), n)
	}
	size := n * elem
	var block alloc.Block
	if u, ok := a.(alloc.UninitAllocator); ok && o.uninit {
		block, err = u.AllocUninit(size, int(unsafe.Alignof(zero)))
	} else {
		block, err = a.Alloc(size, int(unsafe.Alignof(zero)))
	}
	if err != nil {
		// Custom allocators may return unmarked errors.
		return nil, errors.Mark(errors.Wrapf(err, "texel: allocate %v %s", shape, codec.FormatOf[T]()), ErrAllocator)
	}
	if block.Len() < size {
		_ = a.Free(block)
		return nil, errors.Wrapf(ErrAllocator, "texel: allocator returned %d bytes, want %d", block.Len(), size)
	}

	b := newBuffer(bytesAs[T](block.Bytes(), n), shape, o)
	b.owner, b.block = a, block

	Logger().Debug("texel: buffer allocated",
		"label", o.label, "shape", shape.String(), "mips", o.mipCount,
		"lifetime", a.Lifetime().String(), "bytes", size)
	return b, nil
}

// Wrap returns a buffer over data, which must hold at least the shape's
// texel count (including mips). The buffer borrows data: disposing it
// never frees anything.
func Wrap[T Texel](data []T, shape Shape, opts ...AllocOption) (*Buffer[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, misuse(err)
	}
	o, err := resolveOptions(shape, opts)
	if err != nil {
		return nil, err
	}
	n := TotalLength(shape, o.mipCount)
	if len(data) < n {
		return nil, invalidOp("wrap: %d texels, shape %v with %d mips needs %d", len(data), shape, o.mipCount, n)
	}
	return newBuffer(data[:n:n], shape, o), nil
}

// WrapBytes returns a buffer that reinterprets p as texels. p must be
// aligned for T. The buffer borrows p.
func WrapBytes[T Texel](p []byte, shape Shape, opts ...AllocOption) (*Buffer[T], error) {
	if err := shape.Validate(); err != nil {
		return nil, misuse(err)
	}
	o, err := resolveOptions(shape, opts)
	if err != nil {
		return nil, err
	}
	var zero T
	n := TotalLength(shape, o.mipCount)
	if len(p) < n*int(unsafe.Sizeof(zero)) {
		return nil, invalidOp("wrap: %d bytes, shape %v needs %d", len(p), shape, n*int(unsafe.Sizeof(zero)))
	}
	if uintptr(unsafe.Pointer(unsafe.SliceData(p)))%unsafe.Alignof(zero) != 0 {
		return nil, invalidOp("wrap: memory not aligned to %d bytes", unsafe.Alignof(zero))
	}
	return newBuffer(bytesAs[T](p, n), shape, o), nil
}

// WrapOwned returns a buffer over block and takes ownership of it: the
// buffer frees block through a when disposed.
func WrapOwned[T Texel](block alloc.Block, a alloc.Allocator, shape Shape, opts ...AllocOption) (*Buffer[T], error) {
	if a == nil {
		return nil, errors.Wrap(ErrAllocator, "texel: nil allocator")
	}
	b, err := WrapBytes[T](block.Bytes(), shape, opts...)
	if err != nil {
		return nil, err
	}
	b.owner, b.block = a, block
	return b, nil
}

func newBuffer[T Texel](data []T, shape Shape, o allocOptions) *Buffer[T] {
	b := &Buffer[T]{
		data:  data,
		n:     len(data),
		shape: shape.Clone(),
		mips:  o.mipCount,
		label: o.label,
		st:    &state{},
		root:  true,
	}
	b.st.live.Store(true)
	b.live.Store(true)
	return b
}

func bytesAs[T Texel](p []byte, n int) []T {
	if n == 0 {
		return []T{}
	}
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(p))), n)
}

func asBytes[T Texel](s []T) []byte {
	if len(s) == 0 {
		return []byte{}
	}
	var zero T
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(s))), len(s)*int(unsafe.Sizeof(zero)))
}

// Len returns the number of texels, including mip levels.
func (b *Buffer[T]) Len() int { return b.n }

// Shape returns a copy of the base-level resolution.
func (b *Buffer[T]) Shape() Shape { return b.shape.Clone() }

// MipCount returns the number of stored mip levels.
func (b *Buffer[T]) MipCount() int { return b.mips }

// Label returns the name given with WithLabel.
func (b *Buffer[T]) Label() string { return b.label }

// Format returns the packed format of T.
func (b *Buffer[T]) Format() codec.Format { return codec.FormatOf[T]() }

// IsCreated reports whether the buffer can still be accessed.
func (b *Buffer[T]) IsCreated() bool {
	return b != nil && b.live.Load() && b.st.live.Load()
}

// Owned reports whether the buffer frees its memory on dispose.
func (b *Buffer[T]) Owned() bool { return b.owner != nil }

// Lifetime returns the owning allocator's lifetime, or alloc.None for
// borrowed memory.
func (b *Buffer[T]) Lifetime() alloc.Lifetime {
	if b.owner == nil {
		return alloc.None
	}
	return b.owner.Lifetime()
}

// Contains reports whether coord lies inside the base level.
func (b *Buffer[T]) Contains(coord ...int) bool { return b.shape.Contains(coord) }

func (b *Buffer[T]) checkLive() error {
	if !b.IsCreated() {
		return invalidOp("buffer %q used after dispose", b.label)
	}
	return nil
}

// checkExclusive fails while a partitioned pass holds the buffer.
func (b *Buffer[T]) checkExclusive() error {
	if n := b.st.passes.Load(); n > 0 {
		return misuse(errors.Wrapf(ErrRangeViolation,
			"buffer %q accessed directly while %d partitioned pass(es) are running", b.label, n))
	}
	return nil
}

func (b *Buffer[T]) check(i int) error {
	if err := b.checkLive(); err != nil {
		return err
	}
	if i < 0 || i >= len(b.data) {
		return outOfRange(i, len(b.data))
	}
	return b.checkExclusive()
}

// Get returns the texel at flat index i.
func (b *Buffer[T]) Get(i int) (T, error) {
	if err := b.check(i); err != nil {
		var zero T
		return zero, err
	}
	return b.data[i], nil
}

// Set stores v at flat index i.
func (b *Buffer[T]) Set(i int, v T) error {
	if err := b.check(i); err != nil {
		return err
	}
	b.data[i] = v
	return nil
}

// Swap exchanges the texels at flat indices i and j.
func (b *Buffer[T]) Swap(i, j int) error {
	if err := b.check(i); err != nil {
		return err
	}
	if err := b.check(j); err != nil {
		return err
	}
	b.data[i], b.data[j] = b.data[j], b.data[i]
	return nil
}

// Fill stores v in every texel, mips included.
func (b *Buffer[T]) Fill(v T) error {
	if err := b.checkLive(); err != nil {
		return err
	}
	if err := b.checkExclusive(); err != nil {
		return err
	}
	for i := range b.data {
		b.data[i] = v
	}
	return nil
}

// CopyFrom copies every texel of src into b. Both must have the same length.
func (b *Buffer[T]) CopyFrom(src *Buffer[T]) error {
	if err := b.checkLive(); err != nil {
		return err
	}
	if err := src.checkLive(); err != nil {
		return err
	}
	if err := b.checkExclusive(); err != nil {
		return err
	}
	if src.n != b.n {
		return invalidOp("copy: length %d into %d", src.n, b.n)
	}
	copy(b.data, src.data)
	return nil
}

// Slice returns the buffer's texels without copying. The slice aliases the
// buffer and must not be used after it is disposed.
func (b *Buffer[T]) Slice() ([]T, error) {
	if err := b.checkLive(); err != nil {
		return nil, err
	}
	if err := b.checkExclusive(); err != nil {
		return nil, err
	}
	return b.data, nil
}

// RawBytes returns the buffer's memory as bytes without copying.
func (b *Buffer[T]) RawBytes() ([]byte, error) {
	data, err := b.Slice()
	if err != nil {
		return nil, err
	}
	return asBytes(data), nil
}

// RawPointer returns the address of the first texel, or nil once the
// buffer is disposed.
func (b *Buffer[T]) RawPointer() unsafe.Pointer {
	if !b.IsCreated() || len(b.data) == 0 {
		return nil
	}
	return unsafe.Pointer(unsafe.SliceData(b.data))
}
