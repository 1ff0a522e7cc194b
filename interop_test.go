package texel

import (
	"bytes"
	"testing"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/texel/alloc"
	"github.com/gogpu/texel/codec"
)

// fakeTexture records uploads the way an engine texture would receive them.
type fakeTexture struct {
	w, h    int
	data    []byte
	uploads int
	regions [][4]int
	raw     unsafe.Pointer
}

func (f *fakeTexture) Width() int  { return f.w }
func (f *fakeTexture) Height() int { return f.h }

func (f *fakeTexture) UpdateData(p []byte) error {
	f.uploads++
	f.data = append(f.data[:0], p...)
	return nil
}

func (f *fakeTexture) UpdateRegion(x, y, w, h int, p []byte) error {
	f.uploads++
	f.regions = append(f.regions, [4]int{x, y, w, h})
	f.data = append(f.data[:0], p...)
	return nil
}

func (f *fakeTexture) RawPointer() unsafe.Pointer { return f.raw }

func TestApplyTo(t *testing.T) {
	tex, _ := WrapTexture2D([]codec.Vec4[uint8]{
		{1, 2, 3, 4}, {5, 6, 7, 8},
	}, 2, 1)

	dst := &fakeTexture{w: 2, h: 1}
	if err := ApplyTo(tex.Buffer, dst); err != nil {
		t.Fatalf("ApplyTo: %v", err)
	}
	if !bytes.Equal(dst.data, []byte{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Errorf("uploaded %v", dst.data)
	}
}

func TestApplyTo_BaseLevelOnly(t *testing.T) {
	a := alloc.MustNew(alloc.Persistent)
	tex, _ := NewTexture2D[uint16](4, 4, a, WithMips())
	defer tex.Dispose()

	dst := &fakeTexture{w: 4, h: 4}
	if err := ApplyTo(tex.Buffer, dst); err != nil {
		t.Fatalf("ApplyTo: %v", err)
	}
	if len(dst.data) != 4*4*2 {
		t.Errorf("uploaded %d bytes, want %d", len(dst.data), 4*4*2)
	}
}

func TestApplyTo_SkipsAliasedMemory(t *testing.T) {
	tex, _ := WrapTexture2D(make([]float32, 4), 2, 2)
	dst := &fakeTexture{w: 2, h: 2, raw: tex.RawPointer()}

	if err := ApplyTo(tex.Buffer, dst); err != nil {
		t.Fatalf("ApplyTo: %v", err)
	}
	if dst.uploads != 0 {
		t.Errorf("uploads = %d, want 0 for aliased memory", dst.uploads)
	}
}

func TestApplyTo_Errors(t *testing.T) {
	tex, _ := WrapTexture2D(make([]uint8, 4), 2, 2)

	if err := ApplyTo(tex.Buffer, &fakeTexture{w: 3, h: 2}); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("size mismatch = %v, want ErrInvalidOperation", err)
	}
	if err := ApplyTo(tex.Buffer, nil); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("nil target = %v, want ErrInvalidOperation", err)
	}
	_ = tex.Dispose()
	if err := ApplyTo(tex.Buffer, &fakeTexture{w: 2, h: 2}); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("after dispose = %v, want ErrInvalidOperation", err)
	}
}

func TestUploadRows(t *testing.T) {
	data := make([]uint8, 12)
	for i := range data {
		data[i] = uint8(i)
	}
	tex, _ := WrapTexture2D(data, 4, 3)

	dst := &fakeTexture{w: 4, h: 3}
	if err := UploadRows(tex, dst, 1, 2); err != nil {
		t.Fatalf("UploadRows: %v", err)
	}
	if len(dst.regions) != 1 || dst.regions[0] != [4]int{0, 1, 4, 2} {
		t.Errorf("regions = %v, want [[0 1 4 2]]", dst.regions)
	}
	if !bytes.Equal(dst.data, data[4:12]) {
		t.Errorf("uploaded %v, want %v", dst.data, data[4:12])
	}

	if err := UploadRows(tex, dst, 2, 2); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("rows past height = %v, want ErrOutOfRange", err)
	}
}

func TestNewTexture2DFor(t *testing.T) {
	a := alloc.MustNew(alloc.Persistent)
	tex, err := NewTexture2DFor[codec.Vec4[uint8]](&fakeTexture{w: 64, h: 32}, a)
	if err != nil {
		t.Fatalf("NewTexture2DFor: %v", err)
	}
	defer tex.Dispose()
	if tex.Width() != 64 || tex.Height() != 32 {
		t.Errorf("size = %dx%d, want 64x32", tex.Width(), tex.Height())
	}
}

func TestDescriptor(t *testing.T) {
	a := alloc.MustNew(alloc.Persistent)

	tex, _ := NewTexture2D[codec.Vec4[uint8]](256, 128, a, WithMips(), WithLabel("albedo"))
	defer tex.Dispose()
	d := tex.Descriptor()
	if d.Format != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("Format = %v, want RGBA8Unorm", d.Format)
	}
	if d.Dimension != gputypes.TextureDimension2D {
		t.Errorf("Dimension = %v, want 2D", d.Dimension)
	}
	if d.Size != gputypes.NewExtent2D(256, 128) {
		t.Errorf("Size = %+v", d.Size)
	}
	if d.MipLevelCount != 9 || d.SampleCount != 1 {
		t.Errorf("MipLevelCount = %d, SampleCount = %d", d.MipLevelCount, d.SampleCount)
	}

	vol, _ := NewTexture3D[float32](8, 8, 4, a)
	defer vol.Dispose()
	if d := vol.Descriptor(); d.Dimension != gputypes.TextureDimension3D || d.Size.DepthOrArrayLayers != 4 {
		t.Errorf("3-D descriptor = %+v", d)
	}
	if d := vol.Descriptor(); d.Format != gputypes.TextureFormatR32Float {
		t.Errorf("Format = %v, want R32Float", d.Format)
	}

	rgb, _ := NewTexture2D[codec.Vec3[uint8]](4, 4, a)
	defer rgb.Dispose()
	if d := rgb.Descriptor(); d.Format != gputypes.TextureFormatUndefined {
		t.Errorf("RGB Format = %v, want Undefined", d.Format)
	}
}
