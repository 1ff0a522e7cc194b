package noise

import "github.com/gogpu/texel"

// GenUniformGrid2D samples 2-D value noise on a uniform grid: texel (x, y)
// reads the noise at ((x+OffsetX)*Frequency, (y+OffsetY)*Frequency).
type GenUniformGrid2D struct {
	Seed      int32
	Frequency float32
	OffsetX   float32
	OffsetY   float32
	Fractal   Fractal
}

// Fill writes one value per texel of a 2-D shape.
func (g GenUniformGrid2D) Fill(dst []float32, shape texel.Shape) (texel.ValueBounds, error) {
	if err := checkDst(dst, shape, 2); err != nil {
		return texel.ValueBounds{}, err
	}
	octaves, gain, lacunarity := g.Fractal.resolve()
	w, h := shape[0], shape[1]

	b := texel.EmptyBounds()
	for y := range h {
		row := dst[y*w : (y+1)*w]
		for x := range row {
			freq, amp := g.Frequency, float32(1)
			var v float32
			for o := range octaves {
				v += amp * value2(g.Seed+int32(o),
					(float32(x)+g.OffsetX)*freq, (float32(y)+g.OffsetY)*freq, 0)
				freq *= lacunarity
				amp *= gain
			}
			row[x] = v
			b.Update(v)
		}
	}
	return b, nil
}

// GenUniformGrid3D is GenUniformGrid2D over a volume.
type GenUniformGrid3D struct {
	Seed      int32
	Frequency float32
	Offset    [3]float32
	Fractal   Fractal
}

// Fill writes one value per texel of a 3-D shape.
func (g GenUniformGrid3D) Fill(dst []float32, shape texel.Shape) (texel.ValueBounds, error) {
	if err := checkDst(dst, shape, 3); err != nil {
		return texel.ValueBounds{}, err
	}
	octaves, gain, lacunarity := g.Fractal.resolve()
	w, h, d := shape[0], shape[1], shape[2]

	b := texel.EmptyBounds()
	i := 0
	for z := range d {
		for y := range h {
			for x := range w {
				freq, amp := g.Frequency, float32(1)
				var v float32
				for o := range octaves {
					v += amp * value3(g.Seed+int32(o),
						(float32(x)+g.Offset[0])*freq,
						(float32(y)+g.Offset[1])*freq,
						(float32(z)+g.Offset[2])*freq)
					freq *= lacunarity
					amp *= gain
				}
				dst[i] = v
				b.Update(v)
				i++
			}
		}
	}
	return b, nil
}

// GenTileable2D samples 2-D value noise that wraps seamlessly: the right
// edge continues into the left and the bottom into the top. Cells is the
// number of lattice cells across each axis at the first octave.
type GenTileable2D struct {
	Seed    int32
	Cells   int
	Fractal Fractal
}

// Fill writes one value per texel of a 2-D shape.
func (g GenTileable2D) Fill(dst []float32, shape texel.Shape) (texel.ValueBounds, error) {
	if err := checkDst(dst, shape, 2); err != nil {
		return texel.ValueBounds{}, err
	}
	octaves, gain, _ := g.Fractal.resolve()
	cells := max(1, g.Cells)
	w, h := shape[0], shape[1]

	b := texel.EmptyBounds()
	for y := range h {
		for x := range w {
			period, amp := int32(cells), float32(1)
			var v float32
			for o := range octaves {
				u := float32(x) / float32(w) * float32(period)
				t := float32(y) / float32(h) * float32(period)
				v += amp * value2(g.Seed+int32(o), u, t, period)
				// Integer lacunarity keeps every octave tileable.
				period *= 2
				amp *= gain
			}
			dst[x+y*w] = v
			b.Update(v)
		}
	}
	return b, nil
}
