// Package noise provides deterministic value-noise fill providers.
//
// Each generator implements texel.FillProvider: it writes one value per
// texel of the base level and reports the observed range, which
// texel.FillAndNormalize then maps to [0,1]. Output depends only on the
// generator's fields and the shape, never on scheduling.
package noise

import (
	"math"

	"github.com/cockroachdb/errors"

	"github.com/gogpu/texel"
	"github.com/gogpu/texel/sample"
)

// Lattice hashing primes.
const (
	primeX = 501125321
	primeY = 1136930381
	primeZ = 1720413743
)

// Fractal configures fractional Brownian motion layering. The zero value is
// a single octave.
type Fractal struct {
	// Octaves is the number of layers; 0 means 1.
	Octaves int

	// Gain scales each successive octave's amplitude; 0 means 0.5.
	Gain float32

	// Lacunarity scales each successive octave's frequency; 0 means 2.
	Lacunarity float32
}

func (f Fractal) resolve() (octaves int, gain, lacunarity float32) {
	octaves, gain, lacunarity = f.Octaves, f.Gain, f.Lacunarity
	if octaves <= 0 {
		octaves = 1
	}
	if gain == 0 {
		gain = 0.5
	}
	if lacunarity == 0 {
		lacunarity = 2
	}
	return octaves, gain, lacunarity
}

func hash2(seed, x, y int32) uint32 {
	h := uint32(seed) ^ uint32(x)*primeX ^ uint32(y)*primeY
	h *= 0x27d4eb2d
	return h ^ h>>15
}

func hash3(seed, x, y, z int32) uint32 {
	h := uint32(seed) ^ uint32(x)*primeX ^ uint32(y)*primeY ^ uint32(z)*primeZ
	h *= 0x27d4eb2d
	return h ^ h>>15
}

// unit maps a hash to [-1, 1].
func unit(h uint32) float32 {
	return float32(h)/float32(math.MaxUint32)*2 - 1
}

// quintic is the 6t⁵-15t⁴+10t³ fade curve.
func quintic(t float32) float32 {
	return t * t * t * (t*(t*6-15) + 10)
}

func floorInt(v float32) (int32, float32) {
	f := float32(math.Floor(float64(v)))
	return int32(f), v - f
}

// value2 returns value noise at (x, y). When period > 0 the lattice wraps
// every period cells on both axes.
func value2(seed int32, x, y float32, period int32) float32 {
	x0, fx := floorInt(x)
	y0, fy := floorInt(y)
	x1, y1 := x0+1, y0+1
	if period > 0 {
		x0, x1 = wrap(x0, period), wrap(x1, period)
		y0, y1 = wrap(y0, period), wrap(y1, period)
	}
	tx, ty := quintic(fx), quintic(fy)

	top := sample.LerpScalar(unit(hash2(seed, x0, y0)), unit(hash2(seed, x1, y0)), tx)
	bottom := sample.LerpScalar(unit(hash2(seed, x0, y1)), unit(hash2(seed, x1, y1)), tx)
	return sample.LerpScalar(top, bottom, ty)
}

func value3(seed int32, x, y, z float32) float32 {
	x0, fx := floorInt(x)
	y0, fy := floorInt(y)
	z0, fz := floorInt(z)
	tx, ty, tz := quintic(fx), quintic(fy), quintic(fz)

	plane := func(z int32) float32 {
		top := sample.LerpScalar(unit(hash3(seed, x0, y0, z)), unit(hash3(seed, x0+1, y0, z)), tx)
		bottom := sample.LerpScalar(unit(hash3(seed, x0, y0+1, z)), unit(hash3(seed, x0+1, y0+1, z)), tx)
		return sample.LerpScalar(top, bottom, ty)
	}
	return sample.LerpScalar(plane(z0), plane(z0+1), tz)
}

func wrap(v, n int32) int32 {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

func checkDst(dst []float32, shape texel.Shape, rank int) error {
	if len(shape) != rank {
		return errors.Wrapf(texel.ErrInvalidOperation, "noise: shape %v, want rank %d", shape, rank)
	}
	if len(dst) < shape.Len() {
		return errors.Wrapf(texel.ErrInvalidOperation, "noise: %d values for shape %v", len(dst), shape)
	}
	return nil
}
