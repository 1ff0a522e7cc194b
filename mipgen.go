package texel

import "github.com/gogpu/texel/codec"

// GenerateMips fills levels 1..MipCount()-1 of a 2-D buffer from the base
// level with a 2×2 box filter. Each level averages the decoded texels of
// the level above it, so repeated quantization compounds. Odd edges repeat
// their last row or column.
//
// Buffers without a mip chain are left unchanged.
func GenerateMips[T Texel](b *Buffer[T]) error {
	if err := b.checkLive(); err != nil {
		return err
	}
	if err := b.checkExclusive(); err != nil {
		return err
	}
	if b.shape.Rank() != 2 {
		return invalidOp("mip generation needs a 2-D buffer, got %v", b.shape)
	}

	p := codec.PolicyOf[T]()
	levels := MipLevels(b.shape, b.mips)
	for l := 1; l < len(levels); l++ {
		src, dst := levels[l-1], levels[l]
		downsample(b.data[src.Offset:src.Offset+src.Len], src.Shape,
			b.data[dst.Offset:dst.Offset+dst.Len], dst.Shape, p)
	}
	Logger().Debug("texel: mips generated", "label", b.label, "levels", len(levels))
	return nil
}

func downsample[T Texel](src []T, ss Shape, dst []T, ds Shape, p codec.Policy) {
	sw, sh := ss[0], ss[1]
	for y := range ds[1] {
		y0, y1 := 2*y, min(2*y+1, sh-1)
		for x := range ds[0] {
			x0, x1 := 2*x, min(2*x+1, sw-1)
			sum := codec.Decode(src[x0+y0*sw], p).
				Add(codec.Decode(src[x1+y0*sw], p)).
				Add(codec.Decode(src[x0+y1*sw], p)).
				Add(codec.Decode(src[x1+y1*sw], p))
			dst[x+y*ds[0]] = codec.Encode[T](sum.Mul(0.25), p)
		}
	}
}
