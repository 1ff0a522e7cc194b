package texel

import (
	"github.com/cockroachdb/errors"

	"github.com/gogpu/texel/alloc"
)

// Texture2D is a Buffer addressed by (x, y).
type Texture2D[T Texel] struct {
	*Buffer[T]
}

// Texture3D is a Buffer addressed by (x, y, z).
type Texture3D[T Texel] struct {
	*Buffer[T]
}

// Texture4D is a Buffer addressed by (x, y, z, t).
type Texture4D[T Texel] struct {
	*Buffer[T]
}

func coordError(coord []int, s Shape) error {
	return misuse(errors.Wrapf(ErrOutOfRange, "coordinate %v outside %v", coord, s))
}

// NewTexture2D allocates a w×h texture owned by a.
func NewTexture2D[T Texel](w, h int, a alloc.Allocator, opts ...AllocOption) (*Texture2D[T], error) {
	b, err := Allocate[T](Shape{w, h}, a, opts...)
	if err != nil {
		return nil, err
	}
	return &Texture2D[T]{b}, nil
}

// WrapTexture2D returns a w×h texture borrowing data.
func WrapTexture2D[T Texel](data []T, w, h int, opts ...AllocOption) (*Texture2D[T], error) {
	b, err := Wrap(data, Shape{w, h}, opts...)
	if err != nil {
		return nil, err
	}
	return &Texture2D[T]{b}, nil
}

// AsTexture2D views a rank-2 buffer as a texture.
func AsTexture2D[T Texel](b *Buffer[T]) (*Texture2D[T], error) {
	if len(b.shape) != 2 {
		return nil, invalidOp("shape %v is not 2-D", b.shape)
	}
	return &Texture2D[T]{b}, nil
}

// Width returns the width in texels.
func (t *Texture2D[T]) Width() int { return t.shape[0] }

// Height returns the height in texels.
func (t *Texture2D[T]) Height() int { return t.shape[1] }

// Size returns the width and height.
func (t *Texture2D[T]) Size() (w, h int) { return t.shape[0], t.shape[1] }

// Resolution returns (width, height).
func (t *Texture2D[T]) Resolution() [2]int { return [2]int{t.shape[0], t.shape[1]} }

func (t *Texture2D[T]) index(x, y int) (int, error) {
	if x < 0 || x >= t.shape[0] || y < 0 || y >= t.shape[1] {
		return 0, coordError([]int{x, y}, t.shape)
	}
	return Index2(x, y, t.shape[0]), nil
}

// At returns the texel at (x, y).
func (t *Texture2D[T]) At(x, y int) (T, error) {
	i, err := t.index(x, y)
	if err != nil {
		var zero T
		return zero, err
	}
	return t.Get(i)
}

// Fetch is At; it lets a texture serve as a sampling source.
func (t *Texture2D[T]) Fetch(x, y int) (T, error) { return t.At(x, y) }

// SetAt stores v at (x, y).
func (t *Texture2D[T]) SetAt(x, y int, v T) error {
	i, err := t.index(x, y)
	if err != nil {
		return err
	}
	return t.Set(i, v)
}

// SwapAt exchanges the texels at a and b.
func (t *Texture2D[T]) SwapAt(a, b [2]int) error {
	i, err := t.index(a[0], a[1])
	if err != nil {
		return err
	}
	j, err := t.index(b[0], b[1])
	if err != nil {
		return err
	}
	return t.Swap(i, j)
}

// SliceMip returns the given mip level as a texture.
func (t *Texture2D[T]) SliceMip(level int) (*Texture2D[T], error) {
	b, err := t.Buffer.SliceMip(level)
	if err != nil {
		return nil, err
	}
	return &Texture2D[T]{b}, nil
}

// NewTexture3D allocates a w×h×d volume owned by a.
func NewTexture3D[T Texel](w, h, d int, a alloc.Allocator, opts ...AllocOption) (*Texture3D[T], error) {
	b, err := Allocate[T](Shape{w, h, d}, a, opts...)
	if err != nil {
		return nil, err
	}
	return &Texture3D[T]{b}, nil
}

// WrapTexture3D returns a w×h×d volume borrowing data.
func WrapTexture3D[T Texel](data []T, w, h, d int, opts ...AllocOption) (*Texture3D[T], error) {
	b, err := Wrap(data, Shape{w, h, d}, opts...)
	if err != nil {
		return nil, err
	}
	return &Texture3D[T]{b}, nil
}

// Width returns the length of the first axis.
func (t *Texture3D[T]) Width() int { return t.shape[0] }

// Height returns the length of the second axis.
func (t *Texture3D[T]) Height() int { return t.shape[1] }

// Depth returns the length of the third axis.
func (t *Texture3D[T]) Depth() int { return t.shape[2] }

// Resolution returns (width, height, depth).
func (t *Texture3D[T]) Resolution() [3]int {
	return [3]int{t.shape[0], t.shape[1], t.shape[2]}
}

func (t *Texture3D[T]) index(x, y, z int) (int, error) {
	s := t.shape
	if x < 0 || x >= s[0] || y < 0 || y >= s[1] || z < 0 || z >= s[2] {
		return 0, coordError([]int{x, y, z}, s)
	}
	return Index3(x, y, z, s[0], s[1]), nil
}

// At returns the texel at (x, y, z).
func (t *Texture3D[T]) At(x, y, z int) (T, error) {
	i, err := t.index(x, y, z)
	if err != nil {
		var zero T
		return zero, err
	}
	return t.Get(i)
}

// SetAt stores v at (x, y, z).
func (t *Texture3D[T]) SetAt(x, y, z int, v T) error {
	i, err := t.index(x, y, z)
	if err != nil {
		return err
	}
	return t.Set(i, v)
}

// SliceMip returns the given mip level as a volume.
func (t *Texture3D[T]) SliceMip(level int) (*Texture3D[T], error) {
	b, err := t.Buffer.SliceMip(level)
	if err != nil {
		return nil, err
	}
	return &Texture3D[T]{b}, nil
}

// NewTexture4D allocates a w×h×d×n buffer owned by a.
func NewTexture4D[T Texel](w, h, d, n int, a alloc.Allocator, opts ...AllocOption) (*Texture4D[T], error) {
	b, err := Allocate[T](Shape{w, h, d, n}, a, opts...)
	if err != nil {
		return nil, err
	}
	return &Texture4D[T]{b}, nil
}

// WrapTexture4D returns a w×h×d×n buffer borrowing data.
func WrapTexture4D[T Texel](data []T, w, h, d, n int, opts ...AllocOption) (*Texture4D[T], error) {
	b, err := Wrap(data, Shape{w, h, d, n}, opts...)
	if err != nil {
		return nil, err
	}
	return &Texture4D[T]{b}, nil
}

// Width returns the length of the first axis.
func (t *Texture4D[T]) Width() int { return t.shape[0] }

// Height returns the length of the second axis.
func (t *Texture4D[T]) Height() int { return t.shape[1] }

// Depth returns the length of the third axis.
func (t *Texture4D[T]) Depth() int { return t.shape[2] }

// Frames returns the length of the fourth axis.
func (t *Texture4D[T]) Frames() int { return t.shape[3] }

// Time is Frames, for textures whose fourth axis is animation time.
func (t *Texture4D[T]) Time() int { return t.shape[3] }

// Resolution returns (width, height, depth, frames).
func (t *Texture4D[T]) Resolution() [4]int {
	return [4]int{t.shape[0], t.shape[1], t.shape[2], t.shape[3]}
}

func (t *Texture4D[T]) index(x, y, z, f int) (int, error) {
	s := t.shape
	if x < 0 || x >= s[0] || y < 0 || y >= s[1] || z < 0 || z >= s[2] || f < 0 || f >= s[3] {
		return 0, coordError([]int{x, y, z, f}, s)
	}
	return Index4(x, y, z, f, s[0], s[1], s[2]), nil
}

// At returns the texel at (x, y, z, f).
func (t *Texture4D[T]) At(x, y, z, f int) (T, error) {
	i, err := t.index(x, y, z, f)
	if err != nil {
		var zero T
		return zero, err
	}
	return t.Get(i)
}

// SetAt stores v at (x, y, z, f).
func (t *Texture4D[T]) SetAt(x, y, z, f int, v T) error {
	i, err := t.index(x, y, z, f)
	if err != nil {
		return err
	}
	return t.Set(i, v)
}
