package texel

import (
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// Shape is the resolution of a buffer: 2, 3 or 4 axis lengths, x first.
// Texels are stored row-major with x varying fastest.
type Shape []int

// POTResolution is a power-of-two texture edge length.
type POTResolution int

// Common power-of-two resolutions.
const (
	R32    POTResolution = 1 << 5
	R64    POTResolution = 1 << 6
	R128   POTResolution = 1 << 7
	R256   POTResolution = 1 << 8
	R512   POTResolution = 1 << 9
	R1024  POTResolution = 1 << 10
	R2048  POTResolution = 1 << 11
	R4096  POTResolution = 1 << 12
	R8192  POTResolution = 1 << 13
	R16384 POTResolution = 1 << 14
)

// Validate reports ErrInvalidOperation unless s has 2 to 4 positive axes
// whose product fits in an int.
func (s Shape) Validate() error {
	if len(s) < 2 || len(s) > 4 {
		return errors.Wrapf(ErrInvalidOperation, "shape %v: rank %d, want 2 to 4", s, len(s))
	}
	n := 1
	for i, d := range s {
		if d <= 0 {
			return errors.Wrapf(ErrInvalidOperation, "shape %v: axis %d has length %d", s, i, d)
		}
		if n > math.MaxInt/d {
			return errors.Wrapf(ErrInvalidOperation, "shape %v: too many texels", s)
		}
		n *= d
	}
	return nil
}

// Rank returns the number of axes.
func (s Shape) Rank() int { return len(s) }

// Len returns the number of texels, the product of all axes.
func (s Shape) Len() int {
	n := 1
	for _, d := range s {
		n *= d
	}
	return n
}

// Strides returns the flat-index step of each axis:
// stride[0] = 1, stride[i] = stride[i-1] * s[i-1].
func (s Shape) Strides() []int {
	st := make([]int, len(s))
	step := 1
	for i, d := range s {
		st[i] = step
		step *= d
	}
	return st
}

// ToIndex returns the flat index of coord. It does not check bounds.
func (s Shape) ToIndex(coord []int) int {
	idx := 0
	step := 1
	for i, d := range s {
		idx += coord[i] * step
		step *= d
	}
	return idx
}

// ToCoord returns the coordinate of a flat index. It does not check bounds.
func (s Shape) ToCoord(index int) []int {
	c := make([]int, len(s))
	for i, d := range s {
		c[i] = index % d
		index /= d
	}
	return c
}

// Contains reports whether every component of coord lies in [0, s[i]).
func (s Shape) Contains(coord []int) bool {
	if len(coord) != len(s) {
		return false
	}
	for i, d := range s {
		if coord[i] < 0 || coord[i] >= d {
			return false
		}
	}
	return true
}

// Max returns the longest axis.
func (s Shape) Max() int {
	m := 0
	for _, d := range s {
		m = max(m, d)
	}
	return m
}

// Equal reports whether s and o have the same axes.
func (s Shape) Equal(o Shape) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of s.
func (s Shape) Clone() Shape {
	return append(Shape(nil), s...)
}

// String formats s as "WxHxD".
func (s Shape) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, "x")
}

// Index2 returns the flat index of (x, y) in a texture of width w.
func Index2(x, y, w int) int { return x + y*w }

// Coord2 returns the coordinate of flat index i in a texture of width w.
func Coord2(i, w int) (x, y int) { return i % w, i / w }

// Index3 returns the flat index of (x, y, z) in a w×h×d volume.
func Index3(x, y, z, w, h int) int { return x + y*w + z*w*h }

// Coord3 returns the coordinate of flat index i in a w×h×d volume.
func Coord3(i, w, h int) (x, y, z int) {
	return i % w, (i / w) % h, i / (w * h)
}

// Index4 returns the flat index of (x, y, z, t) in a w×h×d×n buffer.
func Index4(x, y, z, t, w, h, d int) int { return x + y*w + z*w*h + t*w*h*d }

// Coord4 returns the coordinate of flat index i in a w×h×d×n buffer.
func Coord4(i, w, h, d int) (x, y, z, t int) {
	return i % w, (i / w) % h, (i / (w * h)) % d, i / (w * h * d)
}
