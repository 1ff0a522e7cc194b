package codec

import "github.com/gogpu/gputypes"

// Format identifies a packed texel layout: channel count plus channel storage.
type Format uint8

const (
	// FormatUndefined is the zero Format.
	FormatUndefined Format = iota

	FormatR8Unorm
	FormatR8Snorm
	FormatR16Unorm
	FormatR16Snorm
	FormatR32Float

	FormatRG8Unorm
	FormatRG8Snorm
	FormatRG16Unorm
	FormatRG16Snorm
	FormatRG32Float

	// RGB formats have no GPU equivalent; they exist for CPU-side storage.
	FormatRGB8Unorm
	FormatRGB8Snorm
	FormatRGB16Unorm
	FormatRGB16Snorm
	FormatRGB32Float

	FormatRGBA8Unorm
	FormatRGBA8Snorm
	FormatRGBA16Unorm
	FormatRGBA16Snorm
	FormatRGBA32Float

	// formatCount is the number of formats (for internal use).
	formatCount
)

// FormatInfo contains metadata about a packed format.
type FormatInfo struct {
	// Name is the short format name.
	Name string

	// Channels is the number of channels per texel.
	Channels int

	// Storage is the scalar type of each channel.
	Storage Storage

	// Policy is the natural decode policy.
	Policy Policy

	// GPU is the matching WebGPU texture format, or
	// gputypes.TextureFormatUndefined when there is none.
	GPU gputypes.TextureFormat
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatUndefined: {Name: "Undefined"},

	FormatR8Unorm:  {"R8Unorm", 1, StorageU8, Unorm, gputypes.TextureFormatR8Unorm},
	FormatR8Snorm:  {"R8Snorm", 1, StorageI8, Snorm, gputypes.TextureFormatR8Snorm},
	FormatR16Unorm: {"R16Unorm", 1, StorageU16, Unorm, gputypes.TextureFormatR16Unorm},
	FormatR16Snorm: {"R16Snorm", 1, StorageI16, Snorm, gputypes.TextureFormatR16Snorm},
	FormatR32Float: {"R32Float", 1, StorageF32, Float, gputypes.TextureFormatR32Float},

	FormatRG8Unorm:  {"RG8Unorm", 2, StorageU8, Unorm, gputypes.TextureFormatRG8Unorm},
	FormatRG8Snorm:  {"RG8Snorm", 2, StorageI8, Snorm, gputypes.TextureFormatRG8Snorm},
	FormatRG16Unorm: {"RG16Unorm", 2, StorageU16, Unorm, gputypes.TextureFormatRG16Unorm},
	FormatRG16Snorm: {"RG16Snorm", 2, StorageI16, Snorm, gputypes.TextureFormatRG16Snorm},
	FormatRG32Float: {"RG32Float", 2, StorageF32, Float, gputypes.TextureFormatRG32Float},

	FormatRGB8Unorm:  {"RGB8Unorm", 3, StorageU8, Unorm, gputypes.TextureFormatUndefined},
	FormatRGB8Snorm:  {"RGB8Snorm", 3, StorageI8, Snorm, gputypes.TextureFormatUndefined},
	FormatRGB16Unorm: {"RGB16Unorm", 3, StorageU16, Unorm, gputypes.TextureFormatUndefined},
	FormatRGB16Snorm: {"RGB16Snorm", 3, StorageI16, Snorm, gputypes.TextureFormatUndefined},
	FormatRGB32Float: {"RGB32Float", 3, StorageF32, Float, gputypes.TextureFormatUndefined},

	FormatRGBA8Unorm:  {"RGBA8Unorm", 4, StorageU8, Unorm, gputypes.TextureFormatRGBA8Unorm},
	FormatRGBA8Snorm:  {"RGBA8Snorm", 4, StorageI8, Snorm, gputypes.TextureFormatRGBA8Snorm},
	FormatRGBA16Unorm: {"RGBA16Unorm", 4, StorageU16, Unorm, gputypes.TextureFormatRGBA16Unorm},
	FormatRGBA16Snorm: {"RGBA16Snorm", 4, StorageI16, Snorm, gputypes.TextureFormatRGBA16Snorm},
	FormatRGBA32Float: {"RGBA32Float", 4, StorageF32, Float, gputypes.TextureFormatRGBA32Float},
}

// Lookup returns the format with the given channel count and storage, or
// FormatUndefined.
func Lookup(channels int, s Storage) Format {
	for f := FormatR8Unorm; f < formatCount; f++ {
		info := formatInfoTable[f]
		if info.Channels == channels && info.Storage == s {
			return f
		}
	}
	return FormatUndefined
}

// Info returns the FormatInfo for this format.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// Channels returns the number of channels.
func (f Format) Channels() int {
	return f.Info().Channels
}

// BytesPerTexel returns the packed size of one texel.
func (f Format) BytesPerTexel() int {
	info := f.Info()
	return info.Channels * info.Storage.Bits() / 8
}

// Policy returns the natural decode policy.
func (f Format) Policy() Policy {
	return f.Info().Policy
}

// TextureFormat returns the matching WebGPU format.
func (f Format) TextureFormat() gputypes.TextureFormat {
	return f.Info().GPU
}

// IsValid reports whether f names a defined format.
func (f Format) IsValid() bool {
	return f > FormatUndefined && f < formatCount
}

// String returns the format name.
func (f Format) String() string {
	if f >= formatCount {
		return "Unknown"
	}
	return formatInfoTable[f].Name
}
