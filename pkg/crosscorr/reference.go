package crosscorr

import (
	"fmt"

	"localncc/internal/models"
)

// ReferenceFactors2D is the brute-force oracle for PrecomputeFactors2D. It
// recomputes every pixel's window sums from scratch with no incremental
// state and must agree with the incremental implementation within floating
// tolerance for every valid input. It carries no performance contract and
// is intended for tests only.
func ReferenceFactors2D(static, moving *models.Plane, radius int) (*models.FactorField2D, error) {
	if radius < 0 {
		return nil, fmt.Errorf("%w: radius %d", ErrInvalidRadius, radius)
	}
	if !static.SameShape(moving) {
		return nil, fmt.Errorf("%w: static %dx%d, moving %dx%d",
			ErrShapeMismatch, static.Width, static.Height, moving.Width, moving.Height)
	}

	width, height := static.Width, static.Height
	out := models.NewFactorField2D(width, height)

	for y := 0; y < height; y++ {
		firstY := max(0, y-radius)
		lastY := min(height-1, y+radius)
		for x := 0; x < width; x++ {
			firstX := max(0, x-radius)
			lastX := min(width-1, x+radius)

			var total windowSums
			for wy := firstY; wy <= lastY; wy++ {
				total.add(lineSums(static.Data, moving.Data, wy*width, firstX, lastX))
			}

			idx := out.Idx(x, y)
			out.Factors[idx] = total.finalize(static.Data[idx], moving.Data[idx])
		}
	}
	return out, nil
}

// ReferenceFactors3D is the brute-force oracle for PrecomputeFactors3D.
func ReferenceFactors3D(static, moving *models.Volume, radius int) (*models.FactorField3D, error) {
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
	out := models.NewFactorField3D(width, height, depth)

	for z := 0; z < depth; z++ {
		firstZ := max(0, z-radius)
		lastZ := min(depth-1, z+radius)
		for y := 0; y < height; y++ {
			firstY := max(0, y-radius)
			lastY := min(height-1, y+radius)
			for x := 0; x < width; x++ {
				firstX := max(0, x-radius)
				lastX := min(width-1, x+radius)

				var total windowSums
				for wz := firstZ; wz <= lastZ; wz++ {
					total.add(boxSums3D(static, moving, wz, firstX, lastX, firstY, lastY))
				}

				idx := out.Idx(x, y, z)
				out.Factors[idx] = total.finalize(static.Data[idx], moving.Data[idx])
			}
		}
	}
	return out, nil
}
