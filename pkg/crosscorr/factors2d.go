package crosscorr

import (
	"fmt"

	"localncc/internal/models"
)

// PrecomputeFactors2D computes the per-pixel sufficient statistics of the
// local cross-correlation metric for a 2D image pair.
//
// The window is an axis-aligned box of side 2*radius+1 centered on each
// pixel and truncated (not padded) at the image boundary. For every column
// the row axis is swept once with a ring buffer of window slots: each slot
// holds the aggregates of one row segment of the boundary-truncated column
// box. Advancing to row k evicts the slot that left the window, rebuilds it
// from row k, and emits the factors for row k-radius. The trailing radius
// rows are emitted by draining the buffer without refilling it.
//
// This amortizes the swept axis to O(1) buffer maintenance per step, for an
// overall cost of O(W*H*(2*radius+1)) rather than O(W*H*(2*radius+1)^2).
func PrecomputeFactors2D(static, moving *models.Plane, radius int) (*models.FactorField2D, error) {
	if radius < 0 {
		return nil, fmt.Errorf("%w: radius %d", ErrInvalidRadius, radius)
	}
	if !static.SameShape(moving) {
		return nil, fmt.Errorf("%w: static %dx%d, moving %dx%d",
			ErrShapeMismatch, static.Width, static.Height, moving.Width, moving.Height)
	}

	width, height := static.Width, static.Height
	side := 2*radius + 1
	out := models.NewFactorField2D(width, height)
	slots := make([]windowSums, side)

	for x := 0; x < width; x++ {
		firstX := max(0, x-radius)
		lastX := min(width-1, x+radius)

		var total windowSums
		for i := range slots {
			slots[i] = windowSums{}
		}

		for k := 0; k < height+radius; k++ {
			q := k % side
			total.sub(slots[q])
			slots[q] = windowSums{}
			if k < height {
				slots[q] = lineSums(static.Data, moving.Data, k*width, firstX, lastX)
				total.add(slots[q])
			}
			if k >= radius {
				y := k - radius
				idx := out.Idx(x, y)
				out.Factors[idx] = total.finalize(static.Data[idx], moving.Data[idx])
			}
		}
	}
	return out, nil
}
