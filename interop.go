package texel

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/texel/alloc"
	"github.com/gogpu/texel/codec"
)

// RawMemory is implemented by engine textures that expose their CPU-side
// pixel storage. ApplyTo skips the upload when the storage is the buffer's
// own memory.
type RawMemory interface {
	RawPointer() unsafe.Pointer
}

// Descriptor returns a WebGPU texture descriptor matching b: size, mip
// count, dimension and format. Formats with no GPU equivalent (the RGB
// family) report TextureFormatUndefined. 4-D buffers are described as 3-D
// textures with depth*frames layers.
func (b *Buffer[T]) Descriptor() gputypes.TextureDescriptor {
	s := b.shape
	d := gputypes.TextureDescriptor{
		Label:         b.label,
		MipLevelCount: uint32(b.mips),
		SampleCount:   1,
		Format:        codec.FormatOf[T]().TextureFormat(),
		Usage: gputypes.TextureUsageCopyDst | gputypes.TextureUsageCopySrc |
			gputypes.TextureUsageTextureBinding,
	}
	switch len(s) {
	case 2:
		d.Dimension = gputypes.TextureDimension2D
		d.Size = gputypes.NewExtent2D(uint32(s[0]), uint32(s[1]))
	case 3:
		d.Dimension = gputypes.TextureDimension3D
		d.Size = gputypes.NewExtent3D(uint32(s[0]), uint32(s[1]), uint32(s[2]))
	case 4:
		d.Dimension = gputypes.TextureDimension3D
		d.Size = gputypes.NewExtent3D(uint32(s[0]), uint32(s[1]), uint32(s[2]*s[3]))
	}
	return d
}

// ApplyTo uploads the base level of b to dst. If dst also exposes its size
// through gpucontext.Texture, the size must match.
func ApplyTo[T Texel](b *Buffer[T], dst gpucontext.TextureUpdater) error {
	if dst == nil {
		return invalidOp("apply %q: nil texture", b.label)
	}
	data, err := b.RawBytes()
	if err != nil {
		return err
	}
	if tex, ok := dst.(gpucontext.Texture); ok && len(b.shape) == 2 {
		if tex.Width() != b.shape[0] || tex.Height() != b.shape[1] {
			return invalidOp("apply %q: texture is %dx%d, buffer is %v",
				b.label, tex.Width(), tex.Height(), b.shape)
		}
	}
	if raw, ok := dst.(RawMemory); ok && raw.RawPointer() == b.RawPointer() {
		Logger().Debug("texel: upload skipped, texture aliases buffer", "label", b.label)
		return nil
	}

	var zero T
	n := LevelLength(b.shape, 0) * int(unsafe.Sizeof(zero))
	return errors.Wrapf(dst.UpdateData(data[:n]), "texel: apply %q", b.label)
}

// UploadRows uploads rows [y, y+rows) of t's base level to the same rows of
// dst.
func UploadRows[T Texel](t *Texture2D[T], dst gpucontext.TextureRegionUpdater, y, rows int) error {
	if dst == nil {
		return invalidOp("upload %q: nil texture", t.label)
	}
	w, h := t.Size()
	if rows <= 0 || y < 0 || y+rows > h {
		return misuse(errors.Wrapf(ErrOutOfRange, "rows [%d,%d) outside height %d", y, y+rows, h))
	}
	data, err := t.RawBytes()
	if err != nil {
		return err
	}
	var zero T
	stride := w * int(unsafe.Sizeof(zero))
	region := data[y*stride : (y+rows)*stride]
	return errors.Wrapf(dst.UpdateRegion(0, y, w, rows, region), "texel: upload %q rows %d..%d", t.label, y, y+rows)
}

// NewTexture2DFor allocates a texture sized to match an engine texture.
func NewTexture2DFor[T Texel](tex gpucontext.Texture, a alloc.Allocator, opts ...AllocOption) (*Texture2D[T], error) {
	if tex == nil {
		return nil, invalidOp("nil engine texture")
	}
	return NewTexture2D[T](tex.Width(), tex.Height(), a, opts...)
}
