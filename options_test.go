package texel

import (
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/gogpu/texel/alloc"
)

func TestResolveOptions_Default(t *testing.T) {
	o, err := resolveOptions(Shape{8, 8}, nil)
	if err != nil {
		t.Fatalf("resolveOptions: %v", err)
	}
	if o.mipCount != 1 {
		t.Errorf("default mipCount = %d, want 1", o.mipCount)
	}
	if o.label != "" {
		t.Errorf("default label = %q, want empty", o.label)
	}
}

func TestResolveOptions(t *testing.T) {
	tests := []struct {
		name    string
		opts    []AllocOption
		want    int
		wantErr bool
	}{
		{"full chain", []AllocOption{WithMips()}, 4, false},
		{"explicit", []AllocOption{WithMipCount(2)}, 2, false},
		{"explicit max", []AllocOption{WithMipCount(4)}, 4, false},
		{"last wins", []AllocOption{WithMips(), WithMipCount(2)}, 2, false},
		{"zero", []AllocOption{WithMipCount(0)}, 0, true},
		{"too many", []AllocOption{WithMipCount(5)}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := resolveOptions(Shape{8, 8}, tt.opts)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidOperation) {
					t.Errorf("err = %v, want ErrInvalidOperation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveOptions: %v", err)
			}
			if o.mipCount != tt.want {
				t.Errorf("mipCount = %d, want %d", o.mipCount, tt.want)
			}
		})
	}
}

func TestWithLabel(t *testing.T) {
	b, err := Wrap(make([]uint8, 4), Shape{2, 2}, WithLabel("albedo"))
	if err != nil {
		t.Fatalf("Wrap: %v", err)
	}
	if b.Label() != "albedo" {
		t.Errorf("Label() = %q, want %q", b.Label(), "albedo")
	}
	if d := b.Descriptor(); d.Label != "albedo" {
		t.Errorf("Descriptor().Label = %q, want %q", d.Label, "albedo")
	}
}

func TestWithUninitialized(t *testing.T) {
	a := alloc.MustNew(alloc.Persistent)

	first, err := Allocate[uint8](Shape{4, 4}, a)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	_ = first.Fill(9)
	if err := first.Dispose(); err != nil {
		t.Fatalf("Dispose: %v", err)
	}

	// Same size, so the arena hands back the block just released.
	raw, err := Allocate[uint8](Shape{4, 4}, a, WithUninitialized())
	if err != nil {
		t.Fatalf("Allocate uninitialized: %v", err)
	}
	if v, _ := raw.Get(15); v != 9 {
		t.Errorf("uninitialized texel = %d, want 9 left over", v)
	}
	_ = raw.Dispose()

	// Allocators without AllocUninit still zero.
	zeroed, err := Allocate[uint8](Shape{4, 4}, zeroingOnly{a}, WithUninitialized())
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	defer zeroed.Dispose()
	if v, _ := zeroed.Get(15); v != 0 {
		t.Errorf("texel from plain allocator = %d, want 0", v)
	}
}

// zeroingOnly hides every method but the Allocator interface.
type zeroingOnly struct{ alloc.Allocator }
