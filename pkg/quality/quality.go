// Package quality derives summary similarity diagnostics from the
// precomputed cross-correlation factors. The outer optimization loop uses
// these to report convergence; none of this is on the per-iteration hot
// path.
package quality

import (
	"gonum.org/v1/gonum/stat"

	"localncc/internal/models"
)

// correlationGuard mirrors the variance-product threshold of the step
// evaluator so the reported local correlation map matches what the energy
// accumulation actually saw.
const correlationGuard = 1e-5

// SimilarityMetrics summarizes how well the moving image matches the static
// image at the current iteration.
type SimilarityMetrics struct {
	// GlobalNCC is the Pearson correlation of the two raw images over the
	// whole domain, ignoring windows. Values near 1 indicate close global
	// agreement.
	GlobalNCC float64

	// MeanLocalCC is the mean of the per-voxel local correlation map.
	MeanLocalCC float64

	// CCStdDev is the standard deviation of the local correlation map,
	// a rough measure of how unevenly the images agree across the domain.
	CCStdDev float64

	// FlatFraction is the share of voxels whose window had zero variance
	// in either channel. Those voxels carry no correlation information.
	FlatFraction float64

	// EnergyPerVoxel is the step evaluator's energy divided by the voxel
	// count; -1 corresponds to perfect local correlation everywhere.
	EnergyPerVoxel float64
}

// LocalCorrelation2D returns the per-pixel local correlation map
// sfm^2/(sff*smm), with flat or near-singular windows reported as zero.
func LocalCorrelation2D(factors *models.FactorField2D) []float64 {
	return localCorrelation(factors.Factors)
}

// LocalCorrelation3D is the 3D counterpart of LocalCorrelation2D.
func LocalCorrelation3D(factors *models.FactorField3D) []float64 {
	return localCorrelation(factors.Factors)
}

func localCorrelation(factors []models.Factors) []float64 {
	cc := make([]float64, len(factors))
	for i := range factors {
		f := &factors[i]
		prod := f.StaticVar * f.MovingVar
		if prod > correlationGuard {
			cc[i] = f.Cross * f.Cross / prod
		}
	}
	return cc
}

// Evaluate2D computes the similarity summary for a 2D image pair from its
// factor field and the energy returned by the step evaluator.
func Evaluate2D(static, moving *models.Plane, factors *models.FactorField2D, energy float64) SimilarityMetrics {
	return evaluate(static.Data, moving.Data, factors.Factors, energy)
}

// Evaluate3D is the 3D counterpart of Evaluate2D.
func Evaluate3D(static, moving *models.Volume, factors *models.FactorField3D, energy float64) SimilarityMetrics {
	return evaluate(static.Data, moving.Data, factors.Factors, energy)
}

func evaluate(static, moving []float64, factors []models.Factors, energy float64) SimilarityMetrics {
	cc := localCorrelation(factors)

	flat := 0
	for i := range factors {
		if factors[i].StaticVar == 0 || factors[i].MovingVar == 0 {
			flat++
		}
	}

	n := float64(len(factors))
	return SimilarityMetrics{
		GlobalNCC:      stat.Correlation(static, moving, nil),
		MeanLocalCC:    stat.Mean(cc, nil),
		CCStdDev:       stat.StdDev(cc, nil),
		FlatFraction:   float64(flat) / n,
		EnergyPerVoxel: energy / n,
	}
}
