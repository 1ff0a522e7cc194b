// Package sample reads texels out of 2-D sources at continuous coordinates.
//
// Every supported packed format is decoded through the codec package into an
// mgl32.Vec4 before blending, so an RG8 texture and an RG32Float texture
// holding the same values sample to the same result. Coordinates are
// normalized to [0,1] and clamped to the edge; there is no wrapping.
//
//	tex, _ := texel.NewTexture2D[codec.Vec4[uint8]](256, 256, arena)
//	c, err := sample.Bilinear[codec.Vec4[uint8]](tex, mgl32.Vec2{0.25, 0.75})
package sample

import (
	"github.com/cockroachdb/errors"

	"github.com/gogpu/texel"
	"github.com/gogpu/texel/codec"
)

// Source is a 2-D grid of texels. *texel.Texture2D and texel.ReadOnly
// satisfy it.
type Source[T codec.Texel] interface {
	Size() (w, h int)
	Fetch(x, y int) (T, error)
}

// Grid is a Source over a plain row-major slice.
type Grid[T codec.Texel] struct {
	Data []T
	W, H int
}

// Size returns the grid's width and height.
func (g Grid[T]) Size() (w, h int) { return g.W, g.H }

// Fetch returns the texel at (x, y).
func (g Grid[T]) Fetch(x, y int) (T, error) {
	if x < 0 || x >= g.W || y < 0 || y >= g.H || x+y*g.W >= len(g.Data) {
		var zero T
		return zero, errors.Wrapf(texel.ErrOutOfRange, "coordinate (%d,%d) outside %dx%d grid", x, y, g.W, g.H)
	}
	return g.Data[x+y*g.W], nil
}

func size[T codec.Texel](src Source[T]) (w, h int, err error) {
	if src == nil {
		return 0, 0, errors.Wrap(texel.ErrInvalidOperation, "sample: nil source")
	}
	w, h = src.Size()
	if w <= 0 || h <= 0 {
		return 0, 0, errors.Wrapf(texel.ErrInvalidOperation, "sample: empty source %dx%d", w, h)
	}
	return w, h, nil
}
