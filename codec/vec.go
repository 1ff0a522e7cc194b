package codec

// Vec2 is a two-channel packed texel.
type Vec2[S Scalar] [2]S

// Vec3 is a three-channel packed texel.
type Vec3[S Scalar] [3]S

// Vec4 is a four-channel packed texel.
type Vec4[S Scalar] [4]S

// Channels returns 2.
func (Vec2[S]) Channels() int { return 2 }

// Channels returns 3.
func (Vec3[S]) Channels() int { return 3 }

// Channels returns 4.
func (Vec4[S]) Channels() int { return 4 }

// Storage identifies the scalar storage type of a channel.
type Storage uint8

const (
	StorageU8 Storage = iota
	StorageI8
	StorageU16
	StorageI16
	StorageF32
)

// Bits returns the storage width in bits.
func (s Storage) Bits() int {
	switch s {
	case StorageU8, StorageI8:
		return 8
	case StorageU16, StorageI16:
		return 16
	default:
		return 32
	}
}

// Signed reports whether the storage is a signed integer.
func (s Storage) Signed() bool {
	return s == StorageI8 || s == StorageI16
}

func storageOf[S Scalar]() Storage {
	switch any((*S)(nil)).(type) {
	case *uint8:
		return StorageU8
	case *int8:
		return StorageI8
	case *uint16:
		return StorageU16
	case *int16:
		return StorageI16
	default:
		return StorageF32
	}
}
