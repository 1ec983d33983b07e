// Package crosscorr implements the local (windowed) normalized
// cross-correlation similarity metric used inside a symmetric-normalization
// style deformable registration loop.
//
// The package has two halves. PrecomputeFactors2D/3D turn a static and a
// moving image into per-voxel sufficient statistics using an incrementally
// maintained ring buffer of window sums, so that the metric and its gradient
// can later be evaluated in O(1) per voxel. EvaluateStep2D/3D consume those
// statistics together with an externally computed image gradient and produce
// the per-voxel displacement-field gradient contribution plus the aggregate
// energy driving the optimizer.
//
// ReferenceFactors2D/3D recompute every window from scratch. They exist only
// as a correctness oracle for the incremental implementation and are not on
// the optimizer's hot path.
package crosscorr

import "localncc/internal/models"

// windowSums holds the running aggregates of one sliding-window slot: the
// sums of the static values, their squares, the moving values, their
// squares, the cross products, and the number of voxels summed.
type windowSums struct {
	s, s2 float64
	m, m2 float64
	sm    float64
	n     int
}

// add folds another slot into the totals.
func (t *windowSums) add(o windowSums) {
	t.s += o.s
	t.s2 += o.s2
	t.m += o.m
	t.m2 += o.m2
	t.sm += o.sm
	t.n += o.n
}

// sub evicts a stale slot from the totals.
func (t *windowSums) sub(o windowSums) {
	t.s -= o.s
	t.s2 -= o.s2
	t.m -= o.m
	t.m2 -= o.m2
	t.sm -= o.sm
	t.n -= o.n
}

// finalize derives the five per-voxel factors from the window totals and
// the voxel's own static and moving values.
//
// The accumulation is kept in the uncentered form (sums of raw values,
// squares and cross products), matching the original metric. This is faster
// than a centered (Welford-style) pass but numerically less stable for very
// large windows or intensity ranges; the trade-off is deliberate.
func (t *windowSums) finalize(sval, mval float64) models.Factors {
	n := float64(t.n)
	meanS := t.s / n
	meanM := t.m / n
	return models.Factors{
		CenteredStatic: sval - meanS,
		CenteredMoving: mval - meanM,
		Cross:          t.sm - meanM*t.s - meanS*t.m + n*meanS*meanM,
		StaticVar:      t.s2 - 2*meanS*t.s + n*meanS*meanS,
		MovingVar:      t.m2 - 2*meanM*t.m + n*meanM*meanM,
	}
}

// lineSums accumulates the aggregates of one row segment [firstX, lastX]
// starting at flat index base.
func lineSums(static, moving []float64, base, firstX, lastX int) windowSums {
	var w windowSums
	for x := firstX; x <= lastX; x++ {
		sv := static[base+x]
		mv := moving[base+x]
		w.s += sv
		w.s2 += sv * sv
		w.m += mv
		w.m2 += mv * mv
		w.sm += sv * mv
		w.n++
	}
	return w
}
