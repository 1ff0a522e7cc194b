// Package alloc provides the memory allocators behind owned texel buffers.
//
// An Allocator hands out aligned byte blocks and takes them back exactly
// once. Three lifetimes are supported, mirroring how an engine host scopes
// scratch memory:
//
//   - Temp: valid for one frame; Reset releases everything at once.
//   - TempJob: valid for the span of a scheduled task.
//   - Persistent: valid until freed explicitly.
//
// Every live block is tracked by ID, so freeing a block twice or freeing a
// block the allocator never issued is reported as an error rather than
// corrupting memory.
package alloc

import (
	"log/slog"
	"sync"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/gogpu/texel/internal/logging"
)

// ErrAllocator marks every error returned by this package.
var ErrAllocator = errors.New("alloc: allocator error")

// MaxSize is the largest block Arena.Alloc hands out, in bytes.
const MaxSize uint64 = 1 << 40

// MaxAlign is the largest supported alignment in bytes.
const MaxAlign = 8

var logger logging.Holder

// SetLogger sets the logger used by this package. Pass nil to silence it.
func SetLogger(l *slog.Logger) { logger.Set(l) }

// Lifetime is the scope an allocation is valid for.
type Lifetime uint8

const (
	// None marks memory that no allocator owns.
	None Lifetime = iota

	// Temp memory lives for one frame.
	Temp

	// TempJob memory lives for the span of a scheduled task.
	TempJob

	// Persistent memory lives until freed.
	Persistent
)

// String returns the lifetime name.
func (l Lifetime) String() string {
	switch l {
	case None:
		return "None"
	case Temp:
		return "Temp"
	case TempJob:
		return "TempJob"
	case Persistent:
		return "Persistent"
	default:
		return "Unknown"
	}
}

// Block is a contiguous, aligned memory block issued by an Allocator.
type Block struct {
	id    uuid.UUID
	bytes []byte
	words []uint64
	frame uint64
}

// ID returns the allocation ID.
func (b Block) ID() uuid.UUID { return b.id }

// Bytes returns the block's memory.
func (b Block) Bytes() []byte { return b.bytes }

// Len returns the block size in bytes.
func (b Block) Len() int { return len(b.bytes) }

// IsZero reports whether b is the zero Block.
func (b Block) IsZero() bool { return b.id == uuid.Nil }

// Allocator issues and reclaims memory blocks.
type Allocator interface {
	// Alloc returns a zeroed block of size bytes aligned to align.
	Alloc(size, align int) (Block, error)

	// Free returns b to the allocator. Freeing a block twice is an error.
	Free(b Block) error

	// Lifetime returns the scope of blocks from this allocator.
	Lifetime() Lifetime
}

// Arena is the reference Allocator. Freed blocks are kept in per-size
// buckets and reused by later allocations of the same size.
//
// Thread safety: All methods are safe for concurrent use.
type Arena struct {
	lifetime Lifetime

	mu      sync.Mutex
	live    map[uuid.UUID]int // id -> size
	buckets map[int][][]uint64
	maxSize int    // max recycled blocks per bucket
	frame   uint64 // bumped by Reset
}

// New creates an arena for the given lifetime.
// Unknown lifetimes and None return an error marked with ErrAllocator.
func New(l Lifetime) (*Arena, error) {
	switch l {
	case Temp, TempJob, Persistent:
	default:
		return nil, errors.WithHint(
			errors.Wrapf(ErrAllocator, "unsupported lifetime %s", l),
			"use Temp, TempJob or Persistent",
		)
	}
	return &Arena{
		lifetime: l,
		live:     make(map[uuid.UUID]int),
		buckets:  make(map[int][][]uint64),
		maxSize:  8,
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(l Lifetime) *Arena {
	a, err := New(l)
	if err != nil {
		panic(err)
	}
	return a
}

// Lifetime returns the arena's lifetime.
func (a *Arena) Lifetime() Lifetime { return a.lifetime }

// UninitAllocator is an Allocator that can also hand out blocks without
// zeroing them first.
type UninitAllocator interface {
	Allocator
	AllocUninit(size, align int) (Block, error)
}

// Alloc returns a zeroed block of size bytes.
func (a *Arena) Alloc(size, align int) (Block, error) {
	return a.alloc(size, align, true)
}

// AllocUninit is Alloc without zeroing: a recycled block keeps whatever its
// previous owner wrote. Fresh blocks are still zero.
func (a *Arena) AllocUninit(size, align int) (Block, error) {
	return a.alloc(size, align, false)
}

func (a *Arena) alloc(size, align int, zero bool) (Block, error) {
	if size < 0 {
		return Block{}, errors.Wrapf(ErrAllocator, "negative size %d", size)
	}
	if uint64(size) > MaxSize {
		return Block{}, errors.Wrapf(ErrAllocator, "size %d exceeds %d", size, MaxSize)
	}
	if align <= 0 || align&(align-1) != 0 || align > MaxAlign {
		return Block{}, errors.Wrapf(ErrAllocator, "unsupported alignment %d (max %d)", align, MaxAlign)
	}

	n := (size + 7) / 8
	id := uuid.New()

	a.mu.Lock()
	words := a.take(n)
	a.live[id] = size
	frame := a.frame
	a.mu.Unlock()

	if words == nil {
		words = make([]uint64, n)
	} else if zero {
		clear(words)
	}

	b := Block{id: id, words: words, frame: frame}
	if size > 0 {
		b.bytes = unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(words))), size)
	} else {
		b.bytes = []byte{}
	}

	logger.Get().Debug("alloc: block allocated",
		"lifetime", a.lifetime.String(), "id", id.String(), "size", size)
	return b, nil
}

// take pops a recycled backing array of n words. Caller holds a.mu.
func (a *Arena) take(n int) []uint64 {
	bucket := a.buckets[n]
	if len(bucket) == 0 {
		return nil
	}
	words := bucket[len(bucket)-1]
	a.buckets[n] = bucket[:len(bucket)-1]
	return words
}

// Free returns b to the arena.
func (a *Arena) Free(b Block) error {
	if b.IsZero() {
		return errors.Wrap(ErrAllocator, "free of zero block")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.live[b.id]; !ok {
		if b.frame < a.frame {
			// Released by Reset; the memory is not recycled.
			return nil
		}
		return errors.Wrapf(ErrAllocator, "block %s is not live in %s arena (double free?)", b.id, a.lifetime)
	}
	delete(a.live, b.id)

	n := len(b.words)
	bucket := a.buckets[n]
	if a.maxSize > 0 && len(bucket) >= a.maxSize {
		return nil
	}
	a.buckets[n] = append(bucket, b.words)
	return nil
}

// Owns reports whether b is live in this arena.
func (a *Arena) Owns(b Block) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.live[b.id]
	return ok
}

// Live returns the number of outstanding blocks.
func (a *Arena) Live() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.live)
}

// Leaks returns the IDs of outstanding blocks and logs each at warn level.
func (a *Arena) Leaks() []uuid.UUID {
	a.mu.Lock()
	ids := make([]uuid.UUID, 0, len(a.live))
	for id := range a.live {
		ids = append(ids, id)
	}
	a.mu.Unlock()

	for _, id := range ids {
		logger.Get().Warn("alloc: leaked block", "lifetime", a.lifetime.String(), "id", id.String())
	}
	return ids
}

// Reset ends a frame: every outstanding block is released. Only Temp
// arenas can be reset.
//
// Memory of blocks released this way is never handed out again, so buffers
// still holding it stay readable, but their contents belong to a finished
// frame. Freeing such a block later succeeds and does nothing.
func (a *Arena) Reset() error {
	if a.lifetime != Temp {
		return errors.Wrapf(ErrAllocator, "reset of %s arena", a.lifetime)
	}
	a.mu.Lock()
	n := len(a.live)
	clear(a.live)
	a.frame++
	a.mu.Unlock()

	logger.Get().Debug("alloc: frame reset", "released", n)
	return nil
}
