package texel

import (
	"math/bits"

	"github.com/cockroachdb/errors"
)

// MipLevel describes one level of a mip chain stored in a flat buffer.
type MipLevel struct {
	// Level is the level index; 0 is full resolution.
	Level int

	// Shape is the resolution at this level.
	Shape Shape

	// Offset is the flat index of the level's first texel.
	Offset int

	// Len is the number of texels in the level.
	Len int
}

// MipCount returns the length of a full mip chain for s:
// 1 + floor(log2(max axis)).
func MipCount(s Shape) int {
	m := s.Max()
	if m <= 0 {
		return 0
	}
	return bits.Len(uint(m))
}

// LevelShape returns s halved level times, each axis floored and at least 1.
func LevelShape(s Shape, level int) Shape {
	out := make(Shape, len(s))
	for i, d := range s {
		out[i] = max(1, d>>level)
	}
	return out
}

// LevelLength returns the texel count of one mip level.
func LevelLength(s Shape, level int) int {
	n := 1
	for _, d := range s {
		n *= max(1, d>>level)
	}
	return n
}

// TotalLength returns the texel count of the first mipCount levels.
func TotalLength(s Shape, mipCount int) int {
	n := 0
	for l := range mipCount {
		n += LevelLength(s, l)
	}
	return n
}

// MipLevels returns descriptors for the first mipCount levels.
func MipLevels(s Shape, mipCount int) []MipLevel {
	levels := make([]MipLevel, mipCount)
	off := 0
	for l := range mipCount {
		n := LevelLength(s, l)
		levels[l] = MipLevel{Level: l, Shape: LevelShape(s, l), Offset: off, Len: n}
		off += n
	}
	return levels
}

// SliceMip returns a zero-copy view of one mip level. The view borrows b's
// memory: disposing it never frees, and it becomes invalid when b is
// disposed. Levels outside [0, MipCount()) fail with ErrOutOfRange.
func (b *Buffer[T]) SliceMip(level int) (*Buffer[T], error) {
	if err := b.checkLive(); err != nil {
		return nil, err
	}
	if level < 0 || level >= b.mips {
		return nil, misuse(errors.Wrapf(ErrOutOfRange, "mip level %d, want 0 <= level < %d", level, b.mips))
	}
	off := 0
	for l := range level {
		off += LevelLength(b.shape, l)
	}
	n := LevelLength(b.shape, level)

	view := &Buffer[T]{
		data:  b.data[off : off+n : off+n],
		n:     n,
		shape: LevelShape(b.shape, level),
		mips:  1,
		label: b.label,
		st:    b.st,
	}
	view.live.Store(true)
	return view, nil
}
