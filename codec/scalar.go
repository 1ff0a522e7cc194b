// Package codec converts between continuous channel values and the packed
// integer storage used by texel buffers.
//
// Every packed texel, whether a single channel or a Vec2/Vec3/Vec4, goes
// through the same scalar codec component-wise, so two formats always agree
// on how a value is quantized.
//
// Three decode policies exist:
//
//   - Unorm: unsigned storage in [0,max] maps to [0,1].
//   - Snorm: values in [-1,1]. Unsigned storage is offset and doubled
//     ("normal-map" encoding); signed storage maps value/max directly.
//   - Float: float32 storage passes through unchanged.
//
// Encoding truncates toward zero after scaling. Inputs are clamped to the
// policy's domain first, so out-of-range values saturate instead of wrapping.
package codec

import (
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Scalar is the storage type of a single channel.
type Scalar interface {
	uint8 | int8 | uint16 | int16 | float32
}

// Policy selects how stored values map to continuous values.
type Policy uint8

const (
	// Unorm maps unsigned storage to [0,1].
	Unorm Policy = iota

	// Snorm maps storage to [-1,1].
	Snorm

	// Float passes float32 storage through.
	Float
)

// String returns the policy name.
func (p Policy) String() string {
	switch p {
	case Unorm:
		return "Unorm"
	case Snorm:
		return "Snorm"
	case Float:
		return "Float"
	default:
		return "Unknown"
	}
}

// MaxValue returns the largest stored value of S as a float32.
// It returns 1 for float32 storage.
func MaxValue[S Scalar]() float32 {
	var z S
	switch any(z).(type) {
	case uint8:
		return math.MaxUint8
	case int8:
		return math.MaxInt8
	case uint16:
		return math.MaxUint16
	case int16:
		return math.MaxInt16
	default:
		return 1
	}
}

// Step returns one quantization step of S under p, in decoded units.
// Float storage reports 0.
func Step[S Scalar](p Policy) float32 {
	var z S
	switch any(z).(type) {
	case float32:
		return 0
	case uint8, uint16:
		if p == Snorm {
			return 2 / MaxValue[S]()
		}
	}
	return 1 / MaxValue[S]()
}

// DefaultPolicy returns the natural policy for S: Unorm for unsigned
// storage, Snorm for signed storage and Float for float32.
func DefaultPolicy[S Scalar]() Policy {
	var z S
	switch any(z).(type) {
	case uint8, uint16:
		return Unorm
	case int8, int16:
		return Snorm
	default:
		return Float
	}
}

// DecodeScalar converts a stored value to its continuous value under p.
func DecodeScalar[S Scalar](v S, p Policy) float32 {
	return decodeAt(unsafe.Pointer(&v), storageOf[S](), 0, p)
}

// EncodeScalar converts a continuous value to storage under p.
// The scaled value is truncated, not rounded.
func EncodeScalar[S Scalar](f float32, p Policy) S {
	var out S
	encodeAt(unsafe.Pointer(&out), storageOf[S](), 0, f, p)
	return out
}

func decodeUnsigned(v, maxV float32, p Policy) float32 {
	if p == Snorm {
		return v/maxV*2 - 1
	}
	return v / maxV
}

func encodeUnsigned(f, maxV float32, p Policy) float32 {
	if f != f {
		return 0
	}
	if p == Snorm {
		f = mgl32.Clamp(f, -1, 1)
		return trunc((f*0.5 + 0.5) * maxV)
	}
	return trunc(mgl32.Clamp(f, 0, 1) * maxV)
}

func encodeSigned(f, maxV float32, p Policy) float32 {
	if f != f {
		return 0
	}
	lo := float32(-1)
	if p == Unorm {
		lo = 0
	}
	return trunc(mgl32.Clamp(f, lo, 1) * maxV)
}

func trunc(f float32) float32 {
	return float32(math.Trunc(float64(f)))
}
