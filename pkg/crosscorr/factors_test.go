package crosscorr

import (
	"errors"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"localncc/internal/models"
)

const (
	factorTolAbs = 1e-9
	factorTolRel = 1e-9
)

// randPlane fills a plane with deterministic pseudo-random intensities
func randPlane(width, height int, seed int64) *models.Plane {
	rng := rand.New(rand.NewSource(seed))
	p := models.NewPlane(width, height)
	for i := range p.Data {
		p.Data[i] = rng.Float64()
	}
	return p
}

// randVolume fills a volume with deterministic pseudo-random intensities
func randVolume(width, height, depth int, seed int64) *models.Volume {
	rng := rand.New(rand.NewSource(seed))
	v := models.NewVolume(width, height, depth)
	for i := range v.Data {
		v.Data[i] = rng.Float64()
	}
	return v
}

func factorsEq(t *testing.T, label string, idx int, got, want models.Factors) {
	t.Helper()
	pairs := []struct {
		name      string
		got, want float64
	}{
		{"centeredStatic", got.CenteredStatic, want.CenteredStatic},
		{"centeredMoving", got.CenteredMoving, want.CenteredMoving},
		{"cross", got.Cross, want.Cross},
		{"staticVar", got.StaticVar, want.StaticVar},
		{"movingVar", got.MovingVar, want.MovingVar},
	}
	for _, p := range pairs {
		if !scalar.EqualWithinAbsOrRel(p.got, p.want, factorTolAbs, factorTolRel) {
			t.Errorf("%s: voxel %d %s: got %.12g, want %.12g", label, idx, p.name, p.got, p.want)
		}
	}
}

// TestPrecomputeFactors2D_MatchesReference checks the incremental sweep
// against the brute-force oracle across sizes and radii, including windows
// wider than the image
func TestPrecomputeFactors2D_MatchesReference(t *testing.T) {
	cases := []struct {
		width, height int
		radius        int
	}{
		{7, 6, 0},
		{7, 6, 1},
		{17, 13, 2},
		{17, 13, 4},
		{31, 29, 5},
		{5, 4, 6}, // window larger than the whole image
	}
	for _, tc := range cases {
		static := randPlane(tc.width, tc.height, 11)
		moving := randPlane(tc.width, tc.height, 29)

		fast, err := PrecomputeFactors2D(static, moving, tc.radius)
		if err != nil {
			t.Fatalf("PrecomputeFactors2D(%dx%d, r=%d): %v", tc.width, tc.height, tc.radius, err)
		}
		naive, err := ReferenceFactors2D(static, moving, tc.radius)
		if err != nil {
			t.Fatalf("ReferenceFactors2D(%dx%d, r=%d): %v", tc.width, tc.height, tc.radius, err)
		}

		for i := range fast.Factors {
			factorsEq(t, "2D", i, fast.Factors[i], naive.Factors[i])
		}
	}
}

// TestPrecomputeFactors3D_MatchesReference is the 3D counterpart, with a
// case whose ring buffer is longer than the slice axis to exercise the
// drain path wrapping past the buffer end
func TestPrecomputeFactors3D_MatchesReference(t *testing.T) {
	cases := []struct {
		width, height, depth int
		radius               int
	}{
		{5, 4, 6, 0},
		{9, 8, 7, 1},
		{9, 8, 7, 2},
		{12, 11, 10, 3},
		{6, 5, 4, 5}, // window larger than the whole volume
	}
	for _, tc := range cases {
		static := randVolume(tc.width, tc.height, tc.depth, 7)
		moving := randVolume(tc.width, tc.height, tc.depth, 31)

		fast, err := PrecomputeFactors3D(static, moving, tc.radius)
		if err != nil {
			t.Fatalf("PrecomputeFactors3D(r=%d): %v", tc.radius, err)
		}
		naive, err := ReferenceFactors3D(static, moving, tc.radius)
		if err != nil {
			t.Fatalf("ReferenceFactors3D(r=%d): %v", tc.radius, err)
		}

		for i := range fast.Factors {
			factorsEq(t, "3D", i, fast.Factors[i], naive.Factors[i])
		}
	}
}

// TestPrecomputeFactors_ZeroRadius verifies that a single-voxel window
// makes every factor vanish identically
func TestPrecomputeFactors_ZeroRadius(t *testing.T) {
	static := randPlane(9, 7, 3)
	moving := randPlane(9, 7, 5)
	f2, err := PrecomputeFactors2D(static, moving, 0)
	if err != nil {
		t.Fatalf("PrecomputeFactors2D: %v", err)
	}
	for i, f := range f2.Factors {
		if f != (models.Factors{}) {
			t.Errorf("2D pixel %d: expected all-zero factors at radius 0, got %+v", i, f)
		}
	}

	vs := randVolume(5, 6, 4, 3)
	vm := randVolume(5, 6, 4, 5)
	f3, err := PrecomputeFactors3D(vs, vm, 0)
	if err != nil {
		t.Fatalf("PrecomputeFactors3D: %v", err)
	}
	for i, f := range f3.Factors {
		if f != (models.Factors{}) {
			t.Errorf("3D voxel %d: expected all-zero factors at radius 0, got %+v", i, f)
		}
	}
}

// TestPrecomputeFactors2D_CornerTruncation recomputes the corner pixel's
// window by hand with clamped bounds: the window must shrink to
// min(radius+1, extent) elements per axis with no padding
func TestPrecomputeFactors2D_CornerTruncation(t *testing.T) {
	width, height, radius := 8, 6, 2
	static := models.NewPlane(width, height)
	moving := models.NewPlane(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			static.Data[static.Idx(x, y)] = float64(x + y)
			moving.Data[moving.Idx(x, y)] = float64(x*y) / 4
		}
	}

	got, err := PrecomputeFactors2D(static, moving, radius)
	if err != nil {
		t.Fatalf("PrecomputeFactors2D: %v", err)
	}

	// Hand-rolled window at the (0, 0) corner: only [0, radius] survives
	// clamping on each axis.
	lastX := min(radius, width-1)
	lastY := min(radius, height-1)
	n := 0
	var sumS, sumS2, sumM, sumM2, sumSM float64
	for y := 0; y <= lastY; y++ {
		for x := 0; x <= lastX; x++ {
			sv := static.Data[static.Idx(x, y)]
			mv := moving.Data[moving.Idx(x, y)]
			sumS += sv
			sumS2 += sv * sv
			sumM += mv
			sumM2 += mv * mv
			sumSM += sv * mv
			n++
		}
	}
	if wantN := (radius + 1) * (radius + 1); n != wantN {
		t.Fatalf("corner window count: got %d, want %d", n, wantN)
	}

	meanS := sumS / float64(n)
	meanM := sumM / float64(n)
	want := models.Factors{
		CenteredStatic: static.Data[0] - meanS,
		CenteredMoving: moving.Data[0] - meanM,
		Cross:          sumSM - meanM*sumS - meanS*sumM + float64(n)*meanS*meanM,
		StaticVar:      sumS2 - 2*meanS*sumS + float64(n)*meanS*meanS,
		MovingVar:      sumM2 - 2*meanM*sumM + float64(n)*meanM*meanM,
	}
	factorsEq(t, "corner", 0, got.Factors[0], want)
}

// TestPrecomputeFactors_FlatRegion checks that windows fully inside a
// constant band report exactly zero variance in both channels
func TestPrecomputeFactors_FlatRegion(t *testing.T) {
	width, height, radius := 16, 9, 2
	static := randPlane(width, height, 17)
	moving := randPlane(width, height, 19)
	// Constant band in columns [4, 12); 0.5 and 0.25 stay exact in binary
	// so the variance cancellation is bit-exact.
	for y := 0; y < height; y++ {
		for x := 4; x < 12; x++ {
			static.Data[static.Idx(x, y)] = 0.5
			moving.Data[moving.Idx(x, y)] = 0.25
		}
	}

	factors, err := PrecomputeFactors2D(static, moving, radius)
	if err != nil {
		t.Fatalf("PrecomputeFactors2D: %v", err)
	}

	// Pixels whose whole window lies inside the band.
	for y := 0; y < height; y++ {
		for x := 4 + radius; x < 12-radius; x++ {
			f := factors.Factors[factors.Idx(x, y)]
			if f.StaticVar != 0 {
				t.Errorf("pixel (%d,%d): StaticVar = %g, want exactly 0", x, y, f.StaticVar)
			}
			if f.MovingVar != 0 {
				t.Errorf("pixel (%d,%d): MovingVar = %g, want exactly 0", x, y, f.MovingVar)
			}
		}
	}
}

// TestPrecomputeFactors_ShapeMismatch verifies the fail-fast precondition
func TestPrecomputeFactors_ShapeMismatch(t *testing.T) {
	static := models.NewVolume(4, 4, 4)
	moving := models.NewVolume(4, 4, 5)
	if _, err := PrecomputeFactors3D(static, moving, 1); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("PrecomputeFactors3D: got %v, want ErrShapeMismatch", err)
	}
	if _, err := ReferenceFactors3D(static, moving, 1); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("ReferenceFactors3D: got %v, want ErrShapeMismatch", err)
	}

	p := models.NewPlane(4, 4)
	q := models.NewPlane(5, 4)
	if _, err := PrecomputeFactors2D(p, q, 1); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("PrecomputeFactors2D: got %v, want ErrShapeMismatch", err)
	}
	if _, err := ReferenceFactors2D(p, q, 1); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("ReferenceFactors2D: got %v, want ErrShapeMismatch", err)
	}
}

// TestPrecomputeFactors_InvalidRadius verifies negative radii are rejected
func TestPrecomputeFactors_InvalidRadius(t *testing.T) {
	p := models.NewPlane(4, 4)
	if _, err := PrecomputeFactors2D(p, p, -1); !errors.Is(err, ErrInvalidRadius) {
		t.Errorf("PrecomputeFactors2D: got %v, want ErrInvalidRadius", err)
	}
	v := models.NewVolume(4, 4, 4)
	if _, err := PrecomputeFactors3D(v, v, -2); !errors.Is(err, ErrInvalidRadius) {
		t.Errorf("PrecomputeFactors3D: got %v, want ErrInvalidRadius", err)
	}
	if _, err := ReferenceFactors2D(p, p, -1); !errors.Is(err, ErrInvalidRadius) {
		t.Errorf("ReferenceFactors2D: got %v, want ErrInvalidRadius", err)
	}
	if _, err := ReferenceFactors3D(v, v, -1); !errors.Is(err, ErrInvalidRadius) {
		t.Errorf("ReferenceFactors3D: got %v, want ErrInvalidRadius", err)
	}
}
