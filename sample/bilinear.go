package sample

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gogpu/texel/codec"
)

// Footprint is where a coordinate lands in pixel space: the four corners a
// bilinear fetch reads and the blend weights between them.
type Footprint struct {
	X0, Y0 int // floor
	X1, Y1 int // ceil
	RX, RY float32
}

// PixelOf maps uv in [0,1]² to pixel space: uv*size, clamped to
// [0, size-1] on each axis. NaN maps to 0.
func PixelOf(uv mgl32.Vec2, w, h int) mgl32.Vec2 {
	return mgl32.Vec2{
		clampAxis(uv[0]*float32(w), w),
		clampAxis(uv[1]*float32(h), h),
	}
}

func clampAxis(p float32, n int) float32 {
	if !(p > 0) {
		return 0
	}
	return min(p, float32(n-1))
}

// FootprintOf returns the bilinear footprint of uv on a w×h grid. An axis of
// length 1 collapses to floor == ceil == 0 with a zero weight.
func FootprintOf(uv mgl32.Vec2, w, h int) Footprint {
	p := PixelOf(uv, w, h)
	fx := float32(math.Floor(float64(p[0])))
	fy := float32(math.Floor(float64(p[1])))
	return Footprint{
		X0: int(fx),
		Y0: int(fy),
		X1: int(math.Ceil(float64(p[0]))),
		Y1: int(math.Ceil(float64(p[1]))),
		RX: p[0] - fx,
		RY: p[1] - fy,
	}
}

// LerpScalar blends a toward b by r. The result stays within [a, b] for r in
// [0, 1], and r == 0 returns a exactly.
func LerpScalar(a, b, r float32) float32 {
	return mgl32.Clamp(a+(b-a)*r, min(a, b), max(a, b))
}

// Lerp blends each channel of a toward b by r.
func Lerp(a, b mgl32.Vec4, r float32) mgl32.Vec4 {
	return mgl32.Vec4{
		LerpScalar(a[0], b[0], r),
		LerpScalar(a[1], b[1], r),
		LerpScalar(a[2], b[2], r),
		LerpScalar(a[3], b[3], r),
	}
}

// Bilinear samples src at uv, decoding each corner with T's default policy.
func Bilinear[T codec.Texel](src Source[T], uv mgl32.Vec2) (mgl32.Vec4, error) {
	return BilinearAs(src, uv, codec.PolicyOf[T]())
}

// BilinearAs is Bilinear with an explicit decode policy, for instance Snorm
// for normal maps stored in unsigned formats.
func BilinearAs[T codec.Texel](src Source[T], uv mgl32.Vec2, p codec.Policy) (mgl32.Vec4, error) {
	w, h, err := size(src)
	if err != nil {
		return mgl32.Vec4{}, err
	}
	f := FootprintOf(uv, w, h)

	var c [4]mgl32.Vec4
	corners := [4][2]int{{f.X0, f.Y0}, {f.X1, f.Y0}, {f.X0, f.Y1}, {f.X1, f.Y1}}
	for i, xy := range corners {
		t, err := src.Fetch(xy[0], xy[1])
		if err != nil {
			return mgl32.Vec4{}, err
		}
		c[i] = codec.Decode(t, p)
	}

	top := Lerp(c[0], c[1], f.RX)
	bottom := Lerp(c[2], c[3], f.RX)
	return Lerp(top, bottom, f.RY), nil
}

// Nearest returns the decoded texel under uv without blending.
func Nearest[T codec.Texel](src Source[T], uv mgl32.Vec2) (mgl32.Vec4, error) {
	w, h, err := size(src)
	if err != nil {
		return mgl32.Vec4{}, err
	}
	f := FootprintOf(uv, w, h)
	t, err := src.Fetch(f.X0, f.Y0)
	if err != nil {
		return mgl32.Vec4{}, err
	}
	return codec.Decode(t, codec.PolicyOf[T]()), nil
}

// BilinearFloat samples a single-channel float source.
func BilinearFloat(src Source[float32], uv mgl32.Vec2) (float32, error) {
	w, h, err := size(src)
	if err != nil {
		return 0, err
	}
	f := FootprintOf(uv, w, h)

	var c [4]float32
	corners := [4][2]int{{f.X0, f.Y0}, {f.X1, f.Y0}, {f.X0, f.Y1}, {f.X1, f.Y1}}
	for i, xy := range corners {
		if c[i], err = src.Fetch(xy[0], xy[1]); err != nil {
			return 0, err
		}
	}
	top := LerpScalar(c[0], c[1], f.RX)
	bottom := LerpScalar(c[2], c[3], f.RX)
	return LerpScalar(top, bottom, f.RY), nil
}
