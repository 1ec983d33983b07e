package crosscorr

import (
	"fmt"

	"localncc/internal/models"
)

// Direction selects which side of the registration the metric gradient is
// taken with respect to.
type Direction int

const (
	// Forward differentiates with respect to the moving-side displacement.
	Forward Direction = iota
	// Backward differentiates with respect to the static-side displacement.
	Backward
)

// String returns the direction name for diagnostics.
func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// varianceGuard is the threshold on the product of the two variance terms
// below which the local correlation is treated as unmeasurable and zeroed.
// The gradient term intentionally keeps using the raw variances without
// this guard.
const varianceGuard = 1e-5

// EvaluateStep2D produces the per-pixel displacement-field gradient
// contribution and the aggregate energy for a 2D image pair, given the
// precomputed factors and the spatial gradients of both images.
//
// In the Forward direction the output is the metric gradient with respect
// to the moving-side displacement and only gradMoving is read; Backward
// uses gradStatic. The opposite gradient image is accepted for interface
// symmetry (a future symmetrized metric will consume both) but is unused.
//
// Energy accumulates -sfm^2/(sff*smm) over all pixels whose windows have
// nonzero variance in both channels, so lower is better. Local correlations
// at or above 1 can only arise from floating round-off and are excluded
// from the energy sum, though not from the gradient.
func EvaluateStep2D(gradStatic, gradMoving *models.VectorField2D, factors *models.FactorField2D, dir Direction) (*models.VectorField2D, float64, error) {
	if dir != Forward && dir != Backward {
		return nil, 0, fmt.Errorf("unknown direction %d", int(dir))
	}
	if !gradStatic.SameShape(gradMoving) {
		return nil, 0, fmt.Errorf("%w: gradStatic %dx%d, gradMoving %dx%d",
			ErrShapeMismatch,
			gradStatic.Width, gradStatic.Height, gradMoving.Width, gradMoving.Height)
	}
	if gradStatic.Width != factors.Width || gradStatic.Height != factors.Height {
		return nil, 0, fmt.Errorf("%w: gradients %dx%d, factors %dx%d",
			ErrShapeMismatch,
			gradStatic.Width, gradStatic.Height, factors.Width, factors.Height)
	}

	out := models.NewVectorField2D(factors.Width, factors.Height)
	energy := 0.0

	for i := range factors.Factors {
		temp, ok := stepTemp(&factors.Factors[i], dir, &energy)
		if !ok {
			continue
		}
		var g models.Vector2
		if dir == Forward {
			g = gradMoving.Vectors[i]
		} else {
			g = gradStatic.Vectors[i]
		}
		out.Vectors[i] = models.Vector2{X: temp * g.X, Y: temp * g.Y}
	}
	return out, energy, nil
}

// EvaluateStep3D is the 3D counterpart of EvaluateStep2D.
func EvaluateStep3D(gradStatic, gradMoving *models.VectorField3D, factors *models.FactorField3D, dir Direction) (*models.VectorField3D, float64, error) {
	if dir != Forward && dir != Backward {
		return nil, 0, fmt.Errorf("unknown direction %d", int(dir))
	}
	if !gradStatic.SameShape(gradMoving) {
		return nil, 0, fmt.Errorf("%w: gradStatic %dx%dx%d, gradMoving %dx%dx%d",
			ErrShapeMismatch,
			gradStatic.Width, gradStatic.Height, gradStatic.Depth,
			gradMoving.Width, gradMoving.Height, gradMoving.Depth)
	}
	if gradStatic.Width != factors.Width || gradStatic.Height != factors.Height || gradStatic.Depth != factors.Depth {
		return nil, 0, fmt.Errorf("%w: gradients %dx%dx%d, factors %dx%dx%d",
			ErrShapeMismatch,
			gradStatic.Width, gradStatic.Height, gradStatic.Depth,
			factors.Width, factors.Height, factors.Depth)
	}

	out := models.NewVectorField3D(factors.Width, factors.Height, factors.Depth)
	energy := 0.0

	for i := range factors.Factors {
		temp, ok := stepTemp(&factors.Factors[i], dir, &energy)
		if !ok {
			continue
		}
		var g models.Vector3
		if dir == Forward {
			g = gradMoving.Vectors[i]
		} else {
			g = gradStatic.Vectors[i]
		}
		out.Vectors[i] = models.Vector3{X: temp * g.X, Y: temp * g.Y, Z: temp * g.Z}
	}
	return out, energy, nil
}

// stepTemp evaluates the scalar gradient factor for one voxel and folds its
// local correlation into the energy sum. It reports false for voxels whose
// window is flat in either channel; those contribute neither gradient nor
// energy.
func stepTemp(f *models.Factors, dir Direction, energy *float64) (float64, bool) {
	sfm := f.Cross
	sff := f.StaticVar
	smm := f.MovingVar
	if sff == 0 || smm == 0 {
		return 0, false
	}

	prod := sff * smm
	localCorr := 0.0
	if prod > varianceGuard {
		localCorr = sfm * sfm / prod
	}
	if localCorr < 1 {
		*energy -= localCorr
	}

	if dir == Forward {
		return 2 * sfm / prod * (f.CenteredStatic - sfm/smm*f.CenteredMoving), true
	}
	return 2 * sfm / prod * (f.CenteredMoving - sfm/sff*f.CenteredStatic), true
}
