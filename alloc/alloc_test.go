package alloc

import (
	"math"
	"sync"
	"testing"
	"unsafe"

	"github.com/cockroachdb/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		lifetime Lifetime
		wantErr  bool
	}{
		{None, true},
		{Temp, false},
		{TempJob, false},
		{Persistent, false},
		{Lifetime(42), true},
	}

	for _, tt := range tests {
		t.Run(tt.lifetime.String(), func(t *testing.T) {
			a, err := New(tt.lifetime)
			if tt.wantErr {
				if !errors.Is(err, ErrAllocator) {
					t.Fatalf("New(%v) error = %v, want ErrAllocator", tt.lifetime, err)
				}
				if len(errors.GetAllHints(err)) == 0 {
					t.Error("lifetime error carries no hint")
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%v) failed: %v", tt.lifetime, err)
			}
			if a.Lifetime() != tt.lifetime {
				t.Errorf("Lifetime() = %v, want %v", a.Lifetime(), tt.lifetime)
			}
		})
	}
}

func TestArena_AllocFree(t *testing.T) {
	a := MustNew(Persistent)

	b, err := a.Alloc(100, 4)
	if err != nil {
		t.Fatalf("Alloc failed: %v", err)
	}
	if b.Len() != 100 {
		t.Errorf("Len() = %d, want 100", b.Len())
	}
	if b.IsZero() {
		t.Error("allocated block IsZero() = true")
	}
	if uintptr(unsafe.Pointer(&b.Bytes()[0]))%MaxAlign != 0 {
		t.Error("block is not 8-byte aligned")
	}
	if a.Live() != 1 || !a.Owns(b) {
		t.Errorf("Live() = %d, Owns = %v, want 1, true", a.Live(), a.Owns(b))
	}

	if err := a.Free(b); err != nil {
		t.Fatalf("Free failed: %v", err)
	}
	if a.Live() != 0 {
		t.Errorf("Live() after Free = %d, want 0", a.Live())
	}
}

func TestArena_DoubleFree(t *testing.T) {
	a := MustNew(TempJob)
	b, _ := a.Alloc(16, 4)
	if err := a.Free(b); err != nil {
		t.Fatalf("first Free failed: %v", err)
	}
	if err := a.Free(b); !errors.Is(err, ErrAllocator) {
		t.Errorf("second Free error = %v, want ErrAllocator", err)
	}
	if err := a.Free(Block{}); !errors.Is(err, ErrAllocator) {
		t.Errorf("Free(zero) error = %v, want ErrAllocator", err)
	}
}

// A recycled block must not alias a block that is still live.
func TestArena_RecycleIsZeroedAndDisjoint(t *testing.T) {
	a := MustNew(Persistent)
	b1, _ := a.Alloc(32, 4)
	for i := range b1.Bytes() {
		b1.Bytes()[i] = 0xFF
	}
	keep, _ := a.Alloc(32, 4)
	keep.Bytes()[0] = 7

	if err := a.Free(b1); err != nil {
		t.Fatal(err)
	}
	b2, _ := a.Alloc(32, 4)
	for i, v := range b2.Bytes() {
		if v != 0 {
			t.Fatalf("recycled byte %d = %#x, want 0", i, v)
		}
	}
	if &b2.Bytes()[0] == &keep.Bytes()[0] {
		t.Error("recycled block aliases a live block")
	}
	if keep.Bytes()[0] != 7 {
		t.Error("live block was modified by recycling")
	}
}

func TestArena_AllocInvalid(t *testing.T) {
	a := MustNew(Persistent)
	tests := []struct {
		name        string
		size, align int
	}{
		{"negative size", -1, 4},
		{"zero align", 8, 0},
		{"non power of two", 8, 3},
		{"too large", 8, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := a.Alloc(tt.size, tt.align); !errors.Is(err, ErrAllocator) {
				t.Errorf("Alloc(%d, %d) error = %v, want ErrAllocator", tt.size, tt.align, err)
			}
		})
	}
}

func TestArena_AllocUninit(t *testing.T) {
	a := MustNew(Persistent)
	var _ UninitAllocator = a

	b, _ := a.Alloc(16, 8)
	for i := range b.Bytes() {
		b.Bytes()[i] = 0xAB
	}
	if err := a.Free(b); err != nil {
		t.Fatalf("Free: %v", err)
	}

	// The freed block is the only one in its bucket, so it comes back.
	u, err := a.AllocUninit(16, 8)
	if err != nil {
		t.Fatalf("AllocUninit: %v", err)
	}
	if u.Bytes()[15] != 0xAB {
		t.Errorf("recycled byte = %#x, want 0xab kept", u.Bytes()[15])
	}
	_ = a.Free(u)

	z, _ := a.Alloc(16, 8)
	if z.Bytes()[15] != 0 {
		t.Errorf("Alloc recycled byte = %#x, want 0", z.Bytes()[15])
	}
}

func TestArena_AllocOversized(t *testing.T) {
	if uint64(math.MaxInt) <= MaxSize {
		t.Skip("int cannot exceed MaxSize on this platform")
	}
	a := MustNew(Temp)
	if _, err := a.Alloc(math.MaxInt, 8); !errors.Is(err, ErrAllocator) {
		t.Errorf("Alloc(MaxInt) error = %v, want ErrAllocator", err)
	}
	limit := MaxSize
	if _, err := a.Alloc(int(limit)+1, 8); !errors.Is(err, ErrAllocator) {
		t.Errorf("Alloc(MaxSize+1) error = %v, want ErrAllocator", err)
	}
	if a.Live() != 0 {
		t.Errorf("Live() = %d, want 0", a.Live())
	}
}

func TestArena_ZeroSize(t *testing.T) {
	a := MustNew(Persistent)
	b, err := a.Alloc(0, 1)
	if err != nil {
		t.Fatalf("Alloc(0) failed: %v", err)
	}
	if b.Bytes() == nil || b.Len() != 0 {
		t.Errorf("Alloc(0) = %v, want empty non-nil slice", b.Bytes())
	}
	if err := a.Free(b); err != nil {
		t.Errorf("Free failed: %v", err)
	}
}

func TestArena_ResetAndLeaks(t *testing.T) {
	tmp := MustNew(Temp)
	b, _ := tmp.Alloc(8, 4)
	if got := tmp.Leaks(); len(got) != 1 || got[0] != b.ID() {
		t.Errorf("Leaks() = %v, want [%v]", got, b.ID())
	}
	if err := tmp.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if tmp.Live() != 0 {
		t.Errorf("Live() after Reset = %d, want 0", tmp.Live())
	}
	if err := tmp.Free(b); err != nil {
		t.Errorf("Free after Reset error = %v, want nil", err)
	}

	// Blocks of the new frame still report double frees.
	c, _ := tmp.Alloc(8, 4)
	if err := tmp.Free(c); err != nil {
		t.Fatalf("Free: %v", err)
	}
	if err := tmp.Free(c); !errors.Is(err, ErrAllocator) {
		t.Errorf("double free in new frame = %v, want ErrAllocator", err)
	}

	if err := MustNew(Persistent).Reset(); !errors.Is(err, ErrAllocator) {
		t.Errorf("Persistent Reset error = %v, want ErrAllocator", err)
	}
}

func TestArena_Concurrent(t *testing.T) {
	a := MustNew(TempJob)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				b, err := a.Alloc(64, 8)
				if err != nil {
					t.Error(err)
					return
				}
				if err := a.Free(b); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()
	if a.Live() != 0 {
		t.Errorf("Live() = %d, want 0", a.Live())
	}
}
