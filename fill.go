package texel

import (
	"github.com/cockroachdb/errors"

	"github.com/gogpu/texel/jobs"
)

// FillProvider writes generated values into the base level of a float
// buffer and reports the range it produced.
type FillProvider interface {
	Fill(dst []float32, shape Shape) (ValueBounds, error)
}

// FillFunc adapts a function to FillProvider.
type FillFunc func(dst []float32, shape Shape) (ValueBounds, error)

// Fill calls f.
func (f FillFunc) Fill(dst []float32, shape Shape) (ValueBounds, error) { return f(dst, shape) }

// FillAndNormalize schedules p to fill buf's base level after dep, then a
// partitioned pass that maps the reported bounds to [0,1]. buf counts as
// held by a pass from the call until the returned handle completes.
func FillAndNormalize(pool *jobs.Pool, buf *Buffer[float32], p FillProvider, dep jobs.Handle) jobs.Handle {
	if p == nil {
		return jobs.Failed(invalidOp("fill %q: nil provider", buf.label))
	}
	if err := buf.checkLive(); err != nil {
		return jobs.Failed(err)
	}
	target := buf.target()
	shape := buf.Shape()
	base := LevelLength(shape, 0)
	label := buf.label

	st := target.st
	st.passes.Add(1)

	var (
		alias  Window[float32]
		bounds ValueBounds
	)
	filled := pool.Schedule(func() error {
		var err error
		if alias, err = target.open(); err != nil {
			return err
		}
		dst, err := alias.Slice()
		if err != nil {
			return err
		}
		bounds, err = p.Fill(dst[:base], shape)
		if err != nil {
			return errors.Wrapf(err, "texel: fill %q", label)
		}
		Logger().Debug("texel: filled", "label", label, "min", bounds.Min, "max", bounds.Max)
		return nil
	}, dep)

	normalized := pool.ParallelFor(base, DefaultChunk, func(lo, hi int) error {
		s, err := alias.chunk(lo, hi).Slice()
		if err != nil {
			return err
		}
		NormalizeSlice(s, bounds)
		return nil
	}, filled)

	return jobs.Then(normalized, func(err error) error {
		st.passes.Add(-1)
		return err
	})
}
