package pointcloud

import "go.viam.com/pcl/spatialmath"

func init() {
	Register(TypeConfig{
		StructureType: RowStructure,
		NewWithParams: func(size int) PointCloud { return NewRowPointCloudWithCapacity(size) },
	})
}

// RowPointCloud stores one point record per element. It is the baseline
// layout: appends are O(1) amortized, but the schema is implicit in the
// data, so schema queries such as Is3D and HasColor scan every point.
type RowPointCloud struct {
	points []Point
}

// NewRowPointCloud returns an empty row-oriented point cloud.
func NewRowPointCloud() *RowPointCloud {
	return &RowPointCloud{}
}

// NewRowPointCloudWithCapacity returns an empty row-oriented point cloud
// preallocated for size points.
func NewRowPointCloudWithCapacity(size int) *RowPointCloud {
	return &RowPointCloud{points: make([]Point, 0, size)}
}

// NewRowPointCloudFromPoints returns a row-oriented point cloud holding
// copies of the given points, in order.
func NewRowPointCloudFromPoints(points []Point) *RowPointCloud {
	cloud := NewRowPointCloudWithCapacity(len(points))
	for _, p := range points {
		cloud.AddPoint(p)
	}
	return cloud
}

// NumPoints returns the number of points in the cloud.
func (cloud *RowPointCloud) NumPoints() int {
	return len(cloud.points)
}

// IsEmpty reports whether the cloud holds no points.
func (cloud *RowPointCloud) IsEmpty() bool {
	return len(cloud.points) == 0
}

// Is3D reports whether any stored point carries a z coordinate.
func (cloud *RowPointCloud) Is3D() bool {
	for _, p := range cloud.points {
		if p.hasZ {
			return true
		}
	}
	return false
}

// HasColor reports whether any stored point carries a color triple.
func (cloud *RowPointCloud) HasColor() bool {
	for _, p := range cloud.points {
		if p.hasColor {
			return true
		}
	}
	return false
}

// HasIntensity reports whether any stored point carries intensity.
func (cloud *RowPointCloud) HasIntensity() bool {
	for _, p := range cloud.points {
		if p.hasIntensity {
			return true
		}
	}
	return false
}

// HasClassification reports whether any stored point carries a
// classification code.
func (cloud *RowPointCloud) HasClassification() bool {
	for _, p := range cloud.points {
		if p.hasClassification {
			return true
		}
	}
	return false
}

// HasAttribute reports whether any stored point carries the named
// attribute.
func (cloud *RowPointCloud) HasAttribute(name string) bool {
	switch name {
	case FieldX, FieldY:
		return true
	case FieldZ:
		return cloud.Is3D()
	case FieldR, FieldG, FieldB:
		return cloud.HasColor()
	case FieldA:
		for _, p := range cloud.points {
			if p.hasAlpha {
				return true
			}
		}
		return false
	case FieldIntensity:
		return cloud.HasIntensity()
	case FieldClassification:
		return cloud.HasClassification()
	case FieldRingID:
		for _, p := range cloud.points {
			if p.hasRingID {
				return true
			}
		}
		return false
	case FieldTimeOffset:
		for _, p := range cloud.points {
			if p.hasTimeOffset {
				return true
			}
		}
		return false
	default:
		for _, p := range cloud.points {
			if _, ok := p.extra[name]; ok {
				return true
			}
		}
		return false
	}
}

// AttributeNames returns the union of attribute names across all stored
// points, in canonical order.
func (cloud *RowPointCloud) AttributeNames() []string {
	union := NewPoint2D(0, 0)
	for _, p := range cloud.points {
		if p.hasZ {
			union.hasZ = true
		}
		if p.hasColor {
			union.hasColor = true
		}
		if p.hasAlpha {
			union.hasAlpha = true
		}
		if p.hasIntensity {
			union.hasIntensity = true
		}
		if p.hasClassification {
			union.hasClassification = true
		}
		if p.hasRingID {
			union.hasRingID = true
		}
		if p.hasTimeOffset {
			union.hasTimeOffset = true
		}
		for k := range p.extra {
			if union.extra == nil {
				union.extra = map[string]float64{}
			}
			union.extra[k] = 0
		}
	}
	return union.Fields()
}

// AddPoint appends one point.
func (cloud *RowPointCloud) AddPoint(p Point) {
	cloud.points = append(cloud.points, p.clone())
}

// At returns the point at the given index.
func (cloud *RowPointCloud) At(i int) (Point, error) {
	if i < 0 || i >= len(cloud.points) {
		return Point{}, &IndexError{Index: i, Size: len(cloud.points)}
	}
	return cloud.points[i].clone(), nil
}

// Set replaces the point at the given index.
func (cloud *RowPointCloud) Set(i int, p Point) error {
	if i < 0 || i >= len(cloud.points) {
		return &IndexError{Index: i, Size: len(cloud.points)}
	}
	cloud.points[i] = p.clone()
	return nil
}

// Clear removes all points. The row layout keeps no schema apart from
// its data, so after Clear the cloud reports the 2D x/y schema again.
func (cloud *RowPointCloud) Clear() {
	cloud.points = cloud.points[:0]
}

// Reserve guarantees capacity for additional appends.
func (cloud *RowPointCloud) Reserve(additional int) {
	if cap(cloud.points)-len(cloud.points) >= additional {
		return
	}
	points := make([]Point, len(cloud.points), len(cloud.points)+additional)
	copy(points, cloud.points)
	cloud.points = points
}

// Iterate calls fn for every point in the selected batch until fn
// returns false.
func (cloud *RowPointCloud) Iterate(numBatches, myBatch int, fn func(i int, p Point) bool) {
	lower, upper := iterateRange(len(cloud.points), numBatches, myBatch)
	for i := lower; i < upper; i++ {
		if !fn(i, cloud.points[i].clone()) {
			return
		}
	}
}

// Transform returns a new row cloud with coordinates mapped through t.
// Each output point is a rebuilt record, one copy per point.
func (cloud *RowPointCloud) Transform(t *spatialmath.Transform) PointCloud {
	out := NewRowPointCloudWithCapacity(len(cloud.points))
	for _, p := range cloud.points {
		out.points = append(out.points, transformPoint(p, t))
	}
	return out
}

// TransformInPlace maps coordinates through t in place.
func (cloud *RowPointCloud) TransformInPlace(t *spatialmath.Transform) {
	for i, p := range cloud.points {
		cloud.points[i] = transformPoint(p, t)
	}
}

// Points returns copies of the stored points, in order.
func (cloud *RowPointCloud) Points() []Point {
	out := make([]Point, 0, len(cloud.points))
	for _, p := range cloud.points {
		out = append(out, p.clone())
	}
	return out
}
