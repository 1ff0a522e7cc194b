// Package preview renders textures to PNG for inspection.
package preview

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/draw"

	"github.com/gogpu/texel/codec"
	"github.com/gogpu/texel/sample"
)

// Filter selects the scaler used when resizing a preview.
type Filter uint8

const (
	// Nearest keeps texel edges sharp.
	Nearest Filter = iota
	// Smooth uses bilinear filtering.
	Smooth
)

func (f Filter) scaler() draw.Scaler {
	if f == Smooth {
		return draw.BiLinear
	}
	return draw.NearestNeighbor
}

// Image decodes src into an NRGBA image. Single-channel textures render as
// gray, two-channel ones as red and green. Alpha is opaque unless the
// format has four channels. Values are clamped to [0,1].
func Image[T codec.Texel](src sample.Source[T]) (*image.NRGBA, error) {
	w, h := src.Size()
	if w <= 0 || h <= 0 {
		return nil, errors.Newf("preview: empty source %dx%d", w, h)
	}
	channels := codec.Channels[T]()
	p := codec.PolicyOf[T]()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			t, err := src.Fetch(x, y)
			if err != nil {
				return nil, errors.Wrapf(err, "preview: texel (%d,%d)", x, y)
			}
			img.SetNRGBA(x, y, toColor(codec.Decode(t, p), channels))
		}
	}
	return img, nil
}

func toColor(v mgl32.Vec4, channels int) color.NRGBA {
	b := func(f float32) uint8 { return uint8(mgl32.Clamp(f, 0, 1)*255 + 0.5) }
	switch channels {
	case 1:
		g := b(v[0])
		return color.NRGBA{R: g, G: g, B: g, A: 255}
	case 4:
		return color.NRGBA{R: b(v[0]), G: b(v[1]), B: b(v[2]), A: b(v[3])}
	default:
		return color.NRGBA{R: b(v[0]), G: b(v[1]), B: b(v[2]), A: 255}
	}
}

// Scale resizes img to w×h with the given filter.
func Scale(img image.Image, w, h int, f Filter) *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	f.scaler().Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return errors.Wrap(err, "preview: encode PNG")
	}
	return nil
}

// SavePNG writes img to path as PNG.
func SavePNG(path string, img image.Image) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return errors.Wrap(err, "preview: create file")
	}
	if err := EncodePNG(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
