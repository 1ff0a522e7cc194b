package codec

import (
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Texel is any packed texel the codec understands: a bare scalar or a
// Vec2/Vec3/Vec4 of one.
type Texel interface {
	Scalar |
		Vec2[uint8] | Vec2[int8] | Vec2[uint16] | Vec2[int16] | Vec2[float32] |
		Vec3[uint8] | Vec3[int8] | Vec3[uint16] | Vec3[int16] | Vec3[float32] |
		Vec4[uint8] | Vec4[int8] | Vec4[uint16] | Vec4[int16] | Vec4[float32]
}

// Decode converts a texel to continuous values, one per channel.
// Channels the texel does not have are zero.
func Decode[T Texel](t T, p Policy) mgl32.Vec4 {
	s, n := layoutOf[T]()
	ptr := unsafe.Pointer(&t)
	var out mgl32.Vec4
	for i := range n {
		out[i] = decodeAt(ptr, s, i, p)
	}
	return out
}

// Encode converts continuous values to a texel. Extra channels in f are
// ignored.
func Encode[T Texel](f mgl32.Vec4, p Policy) T {
	var out T
	s, n := layoutOf[T]()
	ptr := unsafe.Pointer(&out)
	for i := range n {
		encodeAt(ptr, s, i, f[i], p)
	}
	return out
}

// Convert re-encodes a texel into another packed format by decoding it
// under from and encoding the result under to.
func Convert[Dst, Src Texel](v Src, from, to Policy) Dst {
	return Encode[Dst](Decode(v, from), to)
}

// Channels returns the channel count of T.
func Channels[T Texel]() int {
	_, n := layoutOf[T]()
	return n
}

// StorageOf returns the channel storage of T.
func StorageOf[T Texel]() Storage {
	s, _ := layoutOf[T]()
	return s
}

// PolicyOf returns the natural decode policy of T.
func PolicyOf[T Texel]() Policy {
	switch StorageOf[T]() {
	case StorageU8, StorageU16:
		return Unorm
	case StorageI8, StorageI16:
		return Snorm
	default:
		return Float
	}
}

// FormatOf returns the packed format describing T.
func FormatOf[T Texel]() Format {
	return Lookup(Channels[T](), StorageOf[T]())
}

// layoutOf returns the channel storage and count of T. The switch is on a
// nil pointer so no texel value is converted to an interface.
func layoutOf[T Texel]() (Storage, int) {
	var s Storage
	switch any((*T)(nil)).(type) {
	case *uint8, *Vec2[uint8], *Vec3[uint8], *Vec4[uint8]:
		s = StorageU8
	case *int8, *Vec2[int8], *Vec3[int8], *Vec4[int8]:
		s = StorageI8
	case *uint16, *Vec2[uint16], *Vec3[uint16], *Vec4[uint16]:
		s = StorageU16
	case *int16, *Vec2[int16], *Vec3[int16], *Vec4[int16]:
		s = StorageI16
	default:
		s = StorageF32
	}
	var z T
	return s, int(unsafe.Sizeof(z)) * 8 / s.Bits()
}

// decodeAt decodes channel i of the texel at ptr, stored as s.
func decodeAt(ptr unsafe.Pointer, s Storage, i int, p Policy) float32 {
	switch s {
	case StorageU8:
		return decodeUnsigned(float32(*(*uint8)(unsafe.Add(ptr, i))), math.MaxUint8, p)
	case StorageU16:
		return decodeUnsigned(float32(*(*uint16)(unsafe.Add(ptr, 2*i))), math.MaxUint16, p)
	case StorageI8:
		// -128 and -32768 decode to -1, as GPU snorm formats do.
		return max(-1, float32(*(*int8)(unsafe.Add(ptr, i)))/math.MaxInt8)
	case StorageI16:
		return max(-1, float32(*(*int16)(unsafe.Add(ptr, 2*i)))/math.MaxInt16)
	default:
		return *(*float32)(unsafe.Add(ptr, 4*i))
	}
}

func encodeAt(ptr unsafe.Pointer, s Storage, i int, f float32, p Policy) {
	switch s {
	case StorageU8:
		*(*uint8)(unsafe.Add(ptr, i)) = uint8(encodeUnsigned(f, math.MaxUint8, p))
	case StorageU16:
		*(*uint16)(unsafe.Add(ptr, 2*i)) = uint16(encodeUnsigned(f, math.MaxUint16, p))
	case StorageI8:
		*(*int8)(unsafe.Add(ptr, i)) = int8(encodeSigned(f, math.MaxInt8, p))
	case StorageI16:
		*(*int16)(unsafe.Add(ptr, 2*i)) = int16(encodeSigned(f, math.MaxInt16, p))
	default:
		*(*float32)(unsafe.Add(ptr, 4*i)) = f
	}
}
