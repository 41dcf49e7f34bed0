// Package spatialmath defines spatial mathematical operations.
package spatialmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// homogeneousWeightEpsilon is the smallest absolute homogeneous weight
// that ApplyToPoint will normalize by. Below this the weight is treated
// as degenerate and the components are returned unnormalized.
const homogeneousWeightEpsilon = 1e-6

// Transform is a 4x4 homogeneous transformation matrix mapping point
// coordinates from one reference frame to another. A Transform named a2b
// maps points measured in frame a to the same points measured in frame b.
//
// Transforms are exclusively owned by their holder; composition and
// application never mutate their operands.
type Transform struct {
	m *mat.Dense
}

// NewTransform constructs a Transform from 16 row-major elements.
// Any other element count fails with a ShapeError.
func NewTransform(flat []float64) (*Transform, error) {
	if len(flat) != 16 {
		return nil, &ShapeError{Rows: len(flat) / 4, Cols: len(flat) % 4}
	}
	data := make([]float64, 16)
	copy(data, flat)
	return &Transform{m: mat.NewDense(4, 4, data)}, nil
}

// NewTransformFromDense constructs a Transform from an existing dense
// matrix, failing with a ShapeError unless it is 4x4. The matrix is
// copied; the caller keeps ownership of its argument.
func NewTransformFromDense(m *mat.Dense) (*Transform, error) {
	r, c := m.Dims()
	if r != 4 || c != 4 {
		return nil, &ShapeError{Rows: r, Cols: c}
	}
	var out mat.Dense
	out.CloneFrom(m)
	return &Transform{m: &out}, nil
}

// Identity returns the multiplicative identity Transform.
func Identity() *Transform {
	m := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		m.Set(i, i, 1)
	}
	return &Transform{m: m}
}

// NewZeroTransform returns the Transform that maps every point to itself.
// It is the same as Identity and exists for symmetry with constructors
// that take parameters.
func NewZeroTransform() *Transform {
	return Identity()
}

// NewTranslation returns the Transform that translates points by the
// given offsets.
func NewTranslation(x, y, z float64) *Transform {
	t := Identity()
	t.m.Set(0, 3, x)
	t.m.Set(1, 3, y)
	t.m.Set(2, 3, z)
	return t
}

// NewRotation returns the Transform rotating points by angle radians
// about the given axis, following the right-hand rule. The axis need not
// be normalized.
func NewRotation(axis r3.Vector, angle float64) *Transform {
	h := mgl64.HomogRotate3D(angle, mgl64.Vec3{axis.X, axis.Y, axis.Z}.Normalize())
	m := mat.NewDense(4, 4, nil)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m.Set(r, c, h.At(r, c))
		}
	}
	return &Transform{m: m}
}

// Compose returns the Transform equivalent to applying the receiver
// first and other second: if the receiver maps frame a to frame b and
// other maps frame b to frame c, the result maps a to c. In matrix form
// the result is other.m * receiver.m. Neither operand is mutated.
func (t *Transform) Compose(other *Transform) *Transform {
	var out mat.Dense
	out.Mul(other.m, t.m)
	return &Transform{m: &out}
}

// ApplyToPoint maps the coordinate (x, y, z) through the Transform by
// lifting it to the homogeneous form [x y z 1], left-multiplying by the
// matrix, and dividing the first three components by the homogeneous
// weight. When the weight's magnitude is at or below 1e-6 the division
// is skipped and the unnormalized components are returned as-is; this is
// a documented policy for degenerate projective rows, not an error.
func (t *Transform) ApplyToPoint(x, y, z float64) (float64, float64, float64) {
	var out mat.VecDense
	out.MulVec(t.m, mat.NewVecDense(4, []float64{x, y, z, 1}))
	w := out.AtVec(3)
	if math.Abs(w) > homogeneousWeightEpsilon {
		return out.AtVec(0) / w, out.AtVec(1) / w, out.AtVec(2) / w
	}
	return out.AtVec(0), out.AtVec(1), out.AtVec(2)
}

// Apply maps a vector through the Transform. See ApplyToPoint.
func (t *Transform) Apply(v r3.Vector) r3.Vector {
	x, y, z := t.ApplyToPoint(v.X, v.Y, v.Z)
	return r3.Vector{X: x, Y: y, Z: z}
}

// Mat returns a read-only view of the underlying 4x4 matrix.
func (t *Transform) Mat() mat.Matrix {
	return t.m
}
