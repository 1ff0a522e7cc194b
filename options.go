package texel

// AllocOption configures a buffer during Allocate or Wrap.
//
// Example:
//
//	// A 256x256 texture with its full mip chain
//	tex, err := texel.NewTexture2D[uint8](256, 256, arena, texel.WithMips())
type AllocOption func(*allocOptions)

// allocOptions holds optional configuration for buffer creation.
type allocOptions struct {
	mipCount  int
	fullChain bool
	label     string
	uninit    bool
}

// defaultAllocOptions returns the default buffer options.
func defaultAllocOptions() allocOptions {
	return allocOptions{
		mipCount: 1,
	}
}

// WithMipCount stores n mip levels after the base level's texels.
// n must lie in [1, MipCount(shape)].
func WithMipCount(n int) AllocOption {
	return func(o *allocOptions) {
		o.mipCount = n
		o.fullChain = false
	}
}

// WithMips stores the full mip chain, MipCount(shape) levels.
func WithMips() AllocOption {
	return func(o *allocOptions) {
		o.fullChain = true
	}
}

// WithUninitialized skips zeroing the memory of Allocate. Allocators that
// do not implement alloc.UninitAllocator still return zeroed memory. Use it
// when every texel is about to be overwritten, e.g. by a fill provider.
func WithUninitialized() AllocOption {
	return func(o *allocOptions) {
		o.uninit = true
	}
}

// WithLabel names the buffer in log output and GPU descriptors.
func WithLabel(label string) AllocOption {
	return func(o *allocOptions) {
		o.label = label
	}
}

func resolveOptions(shape Shape, opts []AllocOption) (allocOptions, error) {
	o := defaultAllocOptions()
	for _, opt := range opts {
		opt(&o)
	}
	maxMips := MipCount(shape)
	if o.fullChain {
		o.mipCount = maxMips
	}
	if o.mipCount < 1 || o.mipCount > maxMips {
		return o, invalidOp("mip count %d outside [1,%d] for shape %v", o.mipCount, maxMips, shape)
	}
	return o, nil
}
