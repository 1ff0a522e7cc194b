// Package texel provides dense, multi-dimensional texel buffers for
// procedural texture generation.
//
// # Overview
//
// A Buffer holds a flat, row-major block of texels with a 2-, 3- or 4-axis
// Shape, optionally followed by its mip chain. Texture2D, Texture3D and
// Texture4D wrap a Buffer with coordinate accessors.
//
// Buffers either own their memory (Allocate, backed by an alloc.Allocator)
// or borrow it (Wrap). Disposal frees owned memory exactly once, either
// immediately (Dispose) or after a scheduled task finishes (DisposeAfter).
//
// # Quick Start
//
//	arena := alloc.MustNew(alloc.Persistent)
//	tex, err := texel.NewTexture2D[float32](256, 256, arena)
//	if err != nil {
//	    return err
//	}
//	defer tex.Dispose()
//
//	_ = tex.SetAt(10, 20, 0.5)
//	v, _ := tex.At(10, 20)
//
// # Concurrency
//
// Whole-buffer passes run on a jobs.Pool. Partition hands each chunk of the
// buffer to a worker as a Window restricted to that chunk; accessing an
// index outside the window fails with ErrRangeViolation, as does touching
// the buffer directly while the pass is running. Passes are chained by
// passing the previous pass's jobs.Handle as the dependency.
//
// # Errors
//
// Errors match one of ErrOutOfRange, ErrRangeViolation, ErrInvalidOperation
// or ErrAllocator under errors.Is. Building with the texeldebug tag turns
// the first three into panics.
//
// # Related packages
//
//   - codec: packed texel formats and the fixed-point codec
//   - sample: bilinear and nearest sampling
//   - noise: procedural fill providers
//   - jobs: the partitioned scheduler
//   - alloc: allocators
package texel
