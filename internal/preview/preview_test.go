package preview

import (
	"bytes"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/gogpu/texel/codec"
	"github.com/gogpu/texel/sample"
)

func TestImage_Gray(t *testing.T) {
	g := sample.Grid[float32]{Data: []float32{0, 1, 0.5, 2}, W: 2, H: 2}
	img, err := Image[float32](g)
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	tests := []struct {
		x, y int
		want uint8
	}{
		{0, 0, 0},
		{1, 0, 255},
		{0, 1, 128},
		{1, 1, 255}, // clamped
	}
	for _, tt := range tests {
		c := img.NRGBAAt(tt.x, tt.y)
		if c.R != tt.want || c.G != tt.want || c.B != tt.want || c.A != 255 {
			t.Errorf("(%d,%d) = %v, want gray %d", tt.x, tt.y, c, tt.want)
		}
	}
}

func TestImage_RGBA8(t *testing.T) {
	g := sample.Grid[codec.Vec4[uint8]]{Data: []codec.Vec4[uint8]{{10, 20, 30, 40}}, W: 1, H: 1}
	img, err := Image[codec.Vec4[uint8]](g)
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	want := color.NRGBA{R: 10, G: 20, B: 30, A: 40}
	if got := img.NRGBAAt(0, 0); got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}
}

func TestImage_Empty(t *testing.T) {
	if _, err := Image[uint8](sample.Grid[uint8]{}); err == nil {
		t.Error("empty source accepted")
	}
}

func TestScale(t *testing.T) {
	g := sample.Grid[uint8]{Data: []uint8{0, 255, 255, 0}, W: 2, H: 2}
	img, _ := Image[uint8](g)

	up := Scale(img, 8, 8, Nearest)
	if b := up.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
		t.Fatalf("bounds = %v, want 8x8", b)
	}
	if c := up.NRGBAAt(0, 0); c.R != 0 {
		t.Errorf("nearest (0,0) = %v, want black", c)
	}
	if c := up.NRGBAAt(7, 0); c.R != 255 {
		t.Errorf("nearest (7,0) = %v, want white", c)
	}

	smooth := Scale(img, 8, 8, Smooth)
	if c := smooth.NRGBAAt(4, 4); c.R == 0 || c.R == 255 {
		t.Errorf("bilinear center = %v, want a blend", c)
	}
}

func TestSavePNG(t *testing.T) {
	g := sample.Grid[uint8]{Data: []uint8{1, 2, 3, 4, 5, 6}, W: 3, H: 2}
	img, _ := Image[uint8](g)

	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("decoded bounds = %v", b)
	}

	path := filepath.Join(t.TempDir(), "preview.png")
	if err := SavePNG(path, img); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	if err := SavePNG(filepath.Join(t.TempDir(), "missing", "x.png"), img); err == nil {
		t.Error("SavePNG into a missing directory succeeded")
	}
}
