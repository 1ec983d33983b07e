package crosscorr

import (
	"fmt"

	"localncc/internal/models"
)

// PrecomputeFactors3D computes the per-voxel sufficient statistics of the
// local cross-correlation metric for a 3D volume pair.
//
// Same scheme as PrecomputeFactors2D with one more axis: for every (x, y)
// column the slice axis is swept once with a ring buffer of 2*radius+1
// slots, each holding the aggregates of the boundary-truncated in-plane box
// at exactly one slice. Advancing to slice k evicts the stale slot, rebuilds
// it from slice k at a cost proportional to the truncated box area, and
// emits the factors for slice k-radius; the trailing radius slices drain the
// buffer without refilling. Total cost is O(W*H*D*(2*radius+1)^2) instead of
// the brute-force O(W*H*D*(2*radius+1)^3).
//
// Independent (x, y) columns share no ring-buffer state, so callers that
// want parallelism can partition the in-plane domain; a single call is
// deliberately single-threaded.
func PrecomputeFactors3D(static, moving *models.Volume, radius int) (*models.FactorField3D, error) {
	if radius < 0 {
		return nil, fmt.Errorf("%w: radius %d", ErrInvalidRadius, radius)
	}
	if !static.SameShape(moving) {
		return nil, fmt.Errorf("%w: static %dx%dx%d, moving %dx%dx%d",
			ErrShapeMismatch,
			static.Width, static.Height, static.Depth,
			moving.Width, moving.Height, moving.Depth)
	}

	width, height, depth := static.Width, static.Height, static.Depth
	side := 2*radius + 1
	out := models.NewFactorField3D(width, height, depth)
	slots := make([]windowSums, side)

	for y := 0; y < height; y++ {
		firstY := max(0, y-radius)
		lastY := min(height-1, y+radius)

		for x := 0; x < width; x++ {
			firstX := max(0, x-radius)
			lastX := min(width-1, x+radius)

			var total windowSums
			for i := range slots {
				slots[i] = windowSums{}
			}

			for k := 0; k < depth+radius; k++ {
				q := k % side
				total.sub(slots[q])
				slots[q] = windowSums{}
				if k < depth {
					slots[q] = boxSums3D(static, moving, k, firstX, lastX, firstY, lastY)
					total.add(slots[q])
				}
				if k >= radius {
					z := k - radius
					idx := out.Idx(x, y, z)
					out.Factors[idx] = total.finalize(static.Data[idx], moving.Data[idx])
				}
			}
		}
	}
	return out, nil
}

// boxSums3D accumulates the aggregates of the in-plane box
// [firstX, lastX] x [firstY, lastY] at slice z.
func boxSums3D(static, moving *models.Volume, z, firstX, lastX, firstY, lastY int) windowSums {
	var w windowSums
	for y := firstY; y <= lastY; y++ {
		base := (z*static.Height + y) * static.Width
		w.add(lineSums(static.Data, moving.Data, base, firstX, lastX))
	}
	return w
}
