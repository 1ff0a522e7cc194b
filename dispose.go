package texel

import (
	"github.com/cockroachdb/errors"

	"github.com/gogpu/texel/alloc"
	"github.com/gogpu/texel/jobs"
)

// Dispose releases the buffer. Owned memory is returned to its allocator;
// borrowed memory is left alone. Views derived from a root buffer become
// invalid.
//
// Disposing twice logs a warning and does nothing else; built with the
// texeldebug tag it panics with ErrInvalidOperation instead. Disposing
// while a partitioned pass holds the buffer is refused; use DisposeAfter
// with the pass's handle instead.
func (b *Buffer[T]) Dispose() error {
	if b.live.Load() && b.st.passes.Load() > 0 {
		return invalidOp("dispose of %q while a partitioned pass is running", b.label)
	}
	if !b.live.CompareAndSwap(true, false) {
		b.doubleDispose()
		return nil
	}
	if b.root {
		b.st.live.Store(false)
	}
	b.data = nil

	owner, block := b.release()
	if owner == nil {
		return nil
	}
	if err := owner.Free(block); err != nil {
		return errors.Wrapf(err, "texel: dispose %q", b.label)
	}
	return nil
}

// DisposeAfter releases the buffer once dep has completed and returns a
// handle for the release. The buffer handle is cleared immediately so it
// cannot be reused meanwhile; aliases already handed to the dependency stay
// valid until it finishes.
//
// The memory is freed even if dep failed; the returned handle then carries
// dep's error.
func (b *Buffer[T]) DisposeAfter(dep jobs.Handle) jobs.Handle {
	if !b.live.CompareAndSwap(true, false) {
		b.doubleDispose()
		return jobs.Completed()
	}
	b.data = nil

	st, root, label := b.st, b.root, b.label
	owner, block := b.release()
	return jobs.Then(dep, func(depErr error) error {
		if root {
			st.live.Store(false)
		}
		if owner == nil {
			return depErr
		}
		if err := owner.Free(block); err != nil {
			Logger().Warn("texel: deferred free failed", "label", label, "err", err)
			return errors.CombineErrors(depErr, errors.Wrapf(err, "texel: dispose %q", label))
		}
		return depErr
	})
}

// release detaches the owning allocator so no later call can free again.
func (b *Buffer[T]) release() (alloc.Allocator, alloc.Block) {
	owner, block := b.owner, b.block
	b.owner, b.block = nil, alloc.Block{}
	return owner, block
}

func (b *Buffer[T]) doubleDispose() {
	Logger().Warn("texel: buffer disposed twice", "label", b.label)
	_ = invalidOp("buffer %q disposed twice", b.label)
}
