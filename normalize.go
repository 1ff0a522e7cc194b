package texel

import (
	"math"

	"github.com/ajroetker/go-highway/hwy/contrib/vec"

	"github.com/gogpu/texel/jobs"
)

// DefaultChunk is the chunk size of whole-buffer passes.
const DefaultChunk = 64

// ValueBounds is an observed value range, as reported by fill providers and
// consumed by Normalize.
type ValueBounds struct {
	Min float32
	Max float32
}

// EmptyBounds returns bounds that any Update will replace: Min at the
// largest float, Max at the smallest.
func EmptyBounds() ValueBounds {
	return ValueBounds{Min: math.MaxFloat32, Max: -math.MaxFloat32}
}

// Reset returns b to EmptyBounds.
func (b *ValueBounds) Reset() { *b = EmptyBounds() }

// Update widens b to include v.
func (b *ValueBounds) Update(v float32) {
	b.Min = min(b.Min, v)
	b.Max = max(b.Max, v)
}

// Merge widens b to include o.
func (b *ValueBounds) Merge(o ValueBounds) {
	b.Min = min(b.Min, o.Min)
	b.Max = max(b.Max, o.Max)
}

// Scale returns 1/(Max-Min), or 0 when Max <= Min. A zero scale maps every
// value to 0.
func (b ValueBounds) Scale() float32 {
	if b.Max > b.Min {
		return 1 / (b.Max - b.Min)
	}
	return 0
}

// Normalize maps v from [Min,Max] to [0,1].
func (b ValueBounds) Normalize(v float32) float32 {
	return (v - b.Min) * b.Scale()
}

// ComputeBounds returns the minimum and maximum of data. Empty data yields
// EmptyBounds.
func ComputeBounds(data []float32) ValueBounds {
	if len(data) == 0 {
		return EmptyBounds()
	}
	lo, hi := vec.MinMax(data)
	return ValueBounds{Min: lo, Max: hi}
}

// NormalizeSlice rescales data in place: v' = (v - Min) * Scale().
func NormalizeSlice(data []float32, b ValueBounds) {
	if len(data) == 0 {
		return
	}
	vec.AddConst(-b.Min, data)
	vec.Scale(b.Scale(), data)
}

// Normalize schedules a partitioned pass over buf's base level that maps
// bounds to [0,1], after dep completes. Mip levels are left untouched.
func Normalize(pool *jobs.Pool, buf *Buffer[float32], bounds ValueBounds, dep jobs.Handle) jobs.Handle {
	return NormalizeChunked(pool, buf, bounds, DefaultChunk, dep)
}

// NormalizeChunked is Normalize with an explicit chunk size.
func NormalizeChunked(pool *jobs.Pool, buf *Buffer[float32], bounds ValueBounds, chunk int, dep jobs.Handle) jobs.Handle {
	return partition(pool, buf, LevelLength(buf.shape, 0), chunk, func(w Window[float32]) error {
		s, err := w.Slice()
		if err != nil {
			return err
		}
		NormalizeSlice(s, bounds)
		return nil
	}, dep)
}

// NormalizeInPlace is the synchronous form of Normalize.
func NormalizeInPlace(buf *Buffer[float32], bounds ValueBounds) error {
	return runPartitioned(buf, LevelLength(buf.shape, 0), DefaultChunk, func(w Window[float32]) error {
		s, err := w.Slice()
		if err != nil {
			return err
		}
		NormalizeSlice(s, bounds)
		return nil
	})
}

// Bounds returns the value range of buf's base level.
func Bounds(buf *Buffer[float32]) (ValueBounds, error) {
	data, err := buf.Slice()
	if err != nil {
		return ValueBounds{}, err
	}
	return ComputeBounds(data[:LevelLength(buf.shape, 0)]), nil
}
