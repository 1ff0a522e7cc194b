package texel

import (
	"github.com/cockroachdb/errors"

	"github.com/gogpu/texel/alloc"
)

// Sentinel errors. Every error returned by this package matches exactly one
// of them under errors.Is.
var (
	// ErrOutOfRange reports an index or coordinate outside the buffer.
	ErrOutOfRange = errors.New("texel: index out of range")

	// ErrRangeViolation reports an access outside the current partition
	// window, or direct access while a partitioned pass is active. It
	// usually means two writers are racing on the same buffer.
	ErrRangeViolation = errors.New("texel: access outside partition window")

	// ErrInvalidOperation reports a write through a read-only view, use of
	// a disposed buffer or a stale alias, a double dispose, or a malformed
	// shape.
	ErrInvalidOperation = errors.New("texel: invalid operation")

	// ErrAllocator reports an allocator failure or unsupported lifetime.
	// Unlike the other sentinels it is recoverable: callers may retry with
	// another allocator.
	ErrAllocator = alloc.ErrAllocator
)

// misuse returns err, or panics with it when built with the texeldebug tag.
// It is used for the programmer errors: ErrOutOfRange, ErrRangeViolation
// and ErrInvalidOperation.
func misuse(err error) error {
	if debugChecks {
		panic(errors.WithAssertionFailure(err))
	}
	return err
}

func outOfRange(i, n int) error {
	return misuse(errors.Wrapf(ErrOutOfRange, "index %d, length %d", i, n))
}

func rangeViolation(i, lo, hi int) error {
	return misuse(errors.Wrapf(ErrRangeViolation, "index %d outside window [%d,%d]", i, lo, hi))
}

func invalidOp(format string, args ...any) error {
	return misuse(errors.Wrapf(ErrInvalidOperation, format, args...))
}
