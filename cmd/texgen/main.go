// Command texgen generates a procedural noise texture, normalizes it,
// quantizes it to a packed format and optionally writes a PNG preview.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/loov/hrtime"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/texel"
	"github.com/gogpu/texel/alloc"
	"github.com/gogpu/texel/codec"
	"github.com/gogpu/texel/internal/preview"
	"github.com/gogpu/texel/jobs"
	"github.com/gogpu/texel/noise"
	"github.com/gogpu/texel/sample"
)

func main() {
	var (
		size    = flag.Int("size", 256, "texture edge length in texels")
		mode    = flag.String("mode", "tileable", "noise generator: uniform or tileable")
		seed    = flag.Int("seed", 1337, "noise seed")
		freq    = flag.Float64("freq", 0.02, "uniform grid frequency")
		cells   = flag.Int("cells", 8, "tileable lattice cells per axis")
		octaves = flag.Int("octaves", 4, "fractal octaves")
		workers = flag.Int("workers", 0, "worker goroutines (0 = GOMAXPROCS)")
		mips    = flag.Bool("mips", false, "allocate the full mip chain")
		output  = flag.String("output", "", "PNG preview path (empty to skip)")
		scale   = flag.Int("scale", 1, "preview upscale factor")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		texel.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	var provider texel.FillProvider
	fractal := noise.Fractal{Octaves: *octaves}
	switch *mode {
	case "uniform":
		provider = noise.GenUniformGrid2D{Seed: int32(*seed), Frequency: float32(*freq), Fractal: fractal}
	case "tileable":
		provider = noise.GenTileable2D{Seed: int32(*seed), Cells: *cells, Fractal: fractal}
	default:
		log.Fatalf("unknown mode %q", *mode)
	}

	pool := jobs.NewPool(*workers)
	defer pool.Close()
	arena := alloc.MustNew(alloc.TempJob)

	var opts []texel.AllocOption
	if *mips {
		opts = append(opts, texel.WithMips())
	}
	opts = append(opts, texel.WithLabel("noise"))

	start := hrtime.Now()
	height, err := texel.NewTexture2D[float32](*size, *size, arena, opts...)
	if err != nil {
		log.Fatalf("allocate: %v", err)
	}
	if err := texel.FillAndNormalize(pool, height.Buffer, provider, jobs.Completed()).Wait(context.Background()); err != nil {
		log.Fatalf("fill: %v", err)
	}
	if err := texel.GenerateMips(height.Buffer); err != nil {
		log.Fatalf("mips: %v", err)
	}
	filled := hrtime.Since(start)

	packed, err := quantize(pool, arena, height)
	if err != nil {
		log.Fatalf("quantize: %v", err)
	}
	quantized := hrtime.Since(start) - filled

	p := message.NewPrinter(language.English)
	p.Printf("texture  %dx%d, %d mip level(s), %d texels\n", *size, *size, height.MipCount(), height.Len())
	p.Printf("float    %d bytes\n", height.Len()*4)
	p.Printf("packed   %d bytes as %v\n", packed.Len()*packed.Format().BytesPerTexel(), packed.Format())
	p.Printf("fill     %v\n", filled)
	p.Printf("quantize %v\n", quantized)

	ro := packed.AsReadOnly()
	for _, uv := range []mgl32.Vec2{{0, 0}, {0.25, 0.75}, {0.5, 0.5}, {1, 1}} {
		v, err := sample.Bilinear[uint8](ro, uv)
		if err != nil {
			log.Fatalf("sample: %v", err)
		}
		p.Printf("sample   (%.2f, %.2f) = %.4f\n", uv[0], uv[1], v[0])
	}

	if *output != "" {
		img, err := preview.Image[uint8](ro)
		if err != nil {
			log.Fatalf("preview: %v", err)
		}
		out := img
		if *scale > 1 {
			out = preview.Scale(img, *size**scale, *size**scale, preview.Nearest)
		}
		if err := preview.SavePNG(*output, out); err != nil {
			log.Fatalf("preview: %v", err)
		}
		log.Printf("preview saved to %s\n", *output)
	}

	freed := jobs.Combine(height.DisposeAfter(jobs.Completed()), packed.DisposeAfter(jobs.Completed()))
	if err := freed.Wait(context.Background()); err != nil {
		log.Fatalf("dispose: %v", err)
	}
	if leaks := arena.Leaks(); len(leaks) > 0 {
		log.Fatalf("%d block(s) leaked", len(leaks))
	}
}

// quantize encodes the base level of src into a new R8 texture with a
// partitioned pass.
func quantize(pool *jobs.Pool, a alloc.Allocator, src *texel.Texture2D[float32]) (*texel.Texture2D[uint8], error) {
	w, h := src.Size()
	dst, err := texel.NewTexture2D[uint8](w, h, a, texel.WithLabel("noise-r8"), texel.WithUninitialized())
	if err != nil {
		return nil, err
	}
	in := src.AsReadOnly()
	pass := texel.Partition(pool, dst.Buffer, texel.DefaultChunk, func(win texel.Window[uint8]) error {
		lo, hi := win.Range()
		for i := lo; i <= hi; i++ {
			f, err := in.Get(i)
			if err != nil {
				return err
			}
			if err := win.Set(i, codec.EncodeScalar[uint8](f, codec.Unorm)); err != nil {
				return err
			}
		}
		return nil
	}, jobs.Completed())
	if err := pass.Wait(context.Background()); err != nil {
		_ = dst.Dispose()
		return nil, err
	}
	return dst, nil
}
