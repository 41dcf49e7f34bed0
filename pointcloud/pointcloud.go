// Package pointcloud defines a point cloud and provides row- and
// column-oriented implementations of it.
//
// A point cloud is a sequence of points sharing a layout-defined
// attribute schema. The PointCloud interface is the capability contract
// every physical layout implements; callers must not depend on a
// layout's internal record or column representation.
package pointcloud

import "go.viam.com/pcl/spatialmath"

// PointCloud is a general purpose container of points. Implementations
// assume a single writer; callers needing concurrent mutation must
// serialize externally.
//
// Dimensionality and attribute presence can grow as points are added but
// never shrink: Clear empties a container while preserving its schema.
type PointCloud interface {
	// NumPoints returns the number of points in the cloud.
	NumPoints() int

	// IsEmpty reports whether the cloud holds no points.
	IsEmpty() bool

	// Is3D reports whether the cloud carries z data. The answer is
	// layout-defined: the row layout scans for any point with a z
	// coordinate, while the column layout reports whether a z column has
	// been materialized. The two diverge after Clear, which preserves the
	// column layout's schema; see the interface tests.
	Is3D() bool

	// HasColor reports whether the cloud carries color data.
	HasColor() bool

	// HasIntensity reports whether the cloud carries intensity data.
	HasIntensity() bool

	// HasClassification reports whether the cloud carries classification
	// data.
	HasClassification() bool

	// HasAttribute reports whether the cloud carries the named attribute,
	// canonical or extension.
	HasAttribute(name string) bool

	// AttributeNames returns the cloud's attribute schema in canonical
	// order (extension attributes sorted last).
	AttributeNames() []string

	// AddPoint appends one point. A layout that stores attributes in
	// columns materializes a column the first time a point carries that
	// attribute, backfilling earlier rows with the zero default.
	AddPoint(p Point)

	// At returns the point at the given index, or an IndexError when the
	// index is out of range.
	At(i int) (Point, error)

	// Set replaces the point at the given index, or returns an IndexError
	// when the index is out of range.
	Set(i int, p Point) error

	// Clear removes all points while preserving the attribute schema.
	Clear()

	// Reserve guarantees that the next additional appends will not grow
	// storage before capacity is exhausted again.
	Reserve(additional int)

	// Iterate calls fn for every point until fn returns false. numBatches
	// lets you divide up the work: 0 means don't divide, otherwise
	// myBatch selects which batch of indices to visit. Concurrent batches
	// must not mutate the cloud.
	Iterate(numBatches, myBatch int, fn func(i int, p Point) bool)

	// Transform returns a new cloud of the same layout with coordinates
	// mapped through t; all other attributes are copied unchanged. Points
	// without a z coordinate are mapped in the XY plane (homogeneous z of
	// zero) and stay 2D.
	Transform(t *spatialmath.Transform) PointCloud

	// TransformInPlace maps coordinates through t in place, leaving
	// attribute storage untouched.
	TransformInPlace(t *spatialmath.Transform)
}

// transformPoint maps a point's coordinates through t, preserving its
// dimensionality and all attribute fields.
func transformPoint(p Point, t *spatialmath.Transform) Point {
	out := p.clone()
	x, y, z := t.ApplyToPoint(p.x, p.y, p.z)
	out.x, out.y = x, y
	if p.hasZ {
		out.z = z
	}
	return out
}

// iterateRange computes the index range a batch visits. A numBatches of
// zero (or one) means the whole cloud.
func iterateRange(size, numBatches, myBatch int) (int, int) {
	if numBatches <= 0 {
		return 0, size
	}
	batchSize := (size + numBatches - 1) / numBatches
	lower := batchSize * myBatch
	upper := lower + batchSize
	if lower > size {
		lower = size
	}
	if upper > size {
		upper = size
	}
	return lower, upper
}
