package models

// Plane represents a 2D scalar image as a 1D array in row-major order
type Plane struct {
	// Data is the image data, indexed as Data[y*Width+x]
	Data []float64

	// Width is the number of columns in the image
	Width int

	// Height is the number of rows in the image
	Height int
}

// NewPlane allocates a zero-filled plane with the given dimensions
func NewPlane(width, height int) *Plane {
	return &Plane{
		Data:   make([]float64, width*height),
		Width:  width,
		Height: height,
	}
}

// Idx returns the flat index of pixel (x, y)
func (p *Plane) Idx(x, y int) int {
	return y*p.Width + x
}

// SameShape reports whether both planes have identical dimensions
func (p *Plane) SameShape(q *Plane) bool {
	return p.Width == q.Width && p.Height == q.Height
}

// Volume represents a 3D scalar image as a 1D array in row-major order
type Volume struct {
	// Data is the volume data, indexed as Data[z*Width*Height+y*Width+x]
	Data []float64

	// Width is the width of the volume in voxels
	Width int

	// Height is the height of the volume in voxels
	Height int

	// Depth is the depth of the volume in voxels (the slice axis)
	Depth int
}

// NewVolume allocates a zero-filled volume with the given dimensions
func NewVolume(width, height, depth int) *Volume {
	return &Volume{
		Data:   make([]float64, width*height*depth),
		Width:  width,
		Height: height,
		Depth:  depth,
	}
}

// Idx returns the flat index of voxel (x, y, z)
func (v *Volume) Idx(x, y, z int) int {
	return (z*v.Height+y)*v.Width + x
}

// SameShape reports whether both volumes have identical dimensions
func (v *Volume) SameShape(w *Volume) bool {
	return v.Width == w.Width && v.Height == w.Height && v.Depth == w.Depth
}

// Vector2 is a per-pixel 2D vector, used for image gradients and
// displacement-field gradient contributions
type Vector2 struct {
	X, Y float64
}

// Vector3 is the 3D counterpart of Vector2
type Vector3 struct {
	X, Y, Z float64
}

// VectorField2D holds one Vector2 per pixel of a 2D image
type VectorField2D struct {
	Vectors []Vector2
	Width   int
	Height  int
}

// NewVectorField2D allocates a zero-filled 2D vector field
func NewVectorField2D(width, height int) *VectorField2D {
	return &VectorField2D{
		Vectors: make([]Vector2, width*height),
		Width:   width,
		Height:  height,
	}
}

// Idx returns the flat index of pixel (x, y)
func (f *VectorField2D) Idx(x, y int) int {
	return y*f.Width + x
}

// SameShape reports whether both fields have identical dimensions
func (f *VectorField2D) SameShape(g *VectorField2D) bool {
	return f.Width == g.Width && f.Height == g.Height
}

// VectorField3D holds one Vector3 per voxel of a 3D volume
type VectorField3D struct {
	Vectors []Vector3
	Width   int
	Height  int
	Depth   int
}

// NewVectorField3D allocates a zero-filled 3D vector field
func NewVectorField3D(width, height, depth int) *VectorField3D {
	return &VectorField3D{
		Vectors: make([]Vector3, width*height*depth),
		Width:   width,
		Height:  height,
		Depth:   depth,
	}
}

// Idx returns the flat index of voxel (x, y, z)
func (f *VectorField3D) Idx(x, y, z int) int {
	return (z*f.Height+y)*f.Width + x
}

// SameShape reports whether both fields have identical dimensions
func (f *VectorField3D) SameShape(g *VectorField3D) bool {
	return f.Width == g.Width && f.Height == g.Height && f.Depth == g.Depth
}

// Factors holds the five per-voxel sufficient statistics from which the
// local normalized cross-correlation and its gradient are derived without
// revisiting the raw image data:
//
//	CenteredStatic = I - mean(I) over the window
//	CenteredMoving = J - mean(J) over the window
//	Cross          = sum(I*J) - N*mean(I)*mean(J)
//	StaticVar      = sum(I^2) - N*mean(I)^2
//	MovingVar      = sum(J^2) - N*mean(J)^2
//
// where the sums run over the (possibly boundary-truncated) window centered
// on the voxel and N counts the voxels actually summed.
type Factors struct {
	CenteredStatic float64
	CenteredMoving float64
	Cross          float64
	StaticVar      float64
	MovingVar      float64
}

// FactorField2D holds one Factors record per pixel of a 2D image
type FactorField2D struct {
	Factors []Factors
	Width   int
	Height  int
}

// NewFactorField2D allocates a zero-filled 2D factor field
func NewFactorField2D(width, height int) *FactorField2D {
	return &FactorField2D{
		Factors: make([]Factors, width*height),
		Width:   width,
		Height:  height,
	}
}

// Idx returns the flat index of pixel (x, y)
func (f *FactorField2D) Idx(x, y int) int {
	return y*f.Width + x
}

// FactorField3D holds one Factors record per voxel of a 3D volume
type FactorField3D struct {
	Factors []Factors
	Width   int
	Height  int
	Depth   int
}

// NewFactorField3D allocates a zero-filled 3D factor field
func NewFactorField3D(width, height, depth int) *FactorField3D {
	return &FactorField3D{
		Factors: make([]Factors, width*height*depth),
		Width:   width,
		Height:  height,
		Depth:   depth,
	}
}

// Idx returns the flat index of voxel (x, y, z)
func (f *FactorField3D) Idx(x, y, z int) int {
	return (z*f.Height+y)*f.Width + x
}
