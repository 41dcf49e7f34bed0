package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// CloudCentroid returns the centroid of all points in the cloud, or the
// zero vector for an empty cloud.
func CloudCentroid(pc PointCloud) r3.Vector {
	if pc.NumPoints() == 0 {
		return r3.Vector{}
	}
	var sum r3.Vector
	pc.Iterate(0, 0, func(i int, p Point) bool {
		sum = sum.Add(p.Position())
		return true
	})
	return sum.Mul(1.0 / float64(pc.NumPoints()))
}

// CloudContains reports whether the cloud holds a point at exactly the
// given position. It scans the whole cloud.
func CloudContains(pc PointCloud, x, y, z float64) bool {
	found := false
	pc.Iterate(0, 0, func(i int, p Point) bool {
		v := p.Position()
		if v.X == x && v.Y == y && v.Z == z {
			found = true
			return false
		}
		return true
	})
	return found
}

// MetaData is a computed summary of what a cloud stores: attribute
// presence plus the axis-aligned bounds of its points.
type MetaData struct {
	HasColor          bool
	HasIntensity      bool
	HasClassification bool

	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64
}

// NewMetaData returns MetaData ready to merge points into.
func NewMetaData() MetaData {
	return MetaData{
		MinX: math.MaxFloat64,
		MinY: math.MaxFloat64,
		MinZ: math.MaxFloat64,
		MaxX: -math.MaxFloat64,
		MaxY: -math.MaxFloat64,
		MaxZ: -math.MaxFloat64,
	}
}

// Merge folds one point into the summary.
func (meta *MetaData) Merge(p Point) {
	if p.HasColor() {
		meta.HasColor = true
	}
	if _, ok := p.Intensity(); ok {
		meta.HasIntensity = true
	}
	if _, ok := p.Classification(); ok {
		meta.HasClassification = true
	}
	v := p.Position()
	meta.MaxX = math.Max(meta.MaxX, v.X)
	meta.MaxY = math.Max(meta.MaxY, v.Y)
	meta.MaxZ = math.Max(meta.MaxZ, v.Z)
	meta.MinX = math.Min(meta.MinX, v.X)
	meta.MinY = math.Min(meta.MinY, v.Y)
	meta.MinZ = math.Min(meta.MinZ, v.Z)
}

// CloudMetaData scans the cloud and returns its summary.
func CloudMetaData(pc PointCloud) MetaData {
	meta := NewMetaData()
	pc.Iterate(0, 0, func(i int, p Point) bool {
		meta.Merge(p)
		return true
	})
	return meta
}

// CloudMatrixCol labels a column of a matrix export.
type CloudMatrixCol int

// The possible columns of a matrix export, in output order.
const (
	CloudMatrixColX CloudMatrixCol = iota
	CloudMatrixColY
	CloudMatrixColZ
	CloudMatrixColR
	CloudMatrixColG
	CloudMatrixColB
	CloudMatrixColA
	CloudMatrixColIntensity
	CloudMatrixColClassification
	CloudMatrixColRingID
	CloudMatrixColTimeOffset
)

var cloudMatrixFields = []struct {
	name string
	col  CloudMatrixCol
}{
	{FieldX, CloudMatrixColX},
	{FieldY, CloudMatrixColY},
	{FieldZ, CloudMatrixColZ},
	{FieldR, CloudMatrixColR},
	{FieldG, CloudMatrixColG},
	{FieldB, CloudMatrixColB},
	{FieldA, CloudMatrixColA},
	{FieldIntensity, CloudMatrixColIntensity},
	{FieldClassification, CloudMatrixColClassification},
	{FieldRingID, CloudMatrixColRingID},
	{FieldTimeOffset, CloudMatrixColTimeOffset},
}

// CloudMatrix exports the cloud as a dense matrix with one row per point
// plus a header describing the columns. Extension attributes are not
// exported. An empty cloud returns nil, nil.
func CloudMatrix(pc PointCloud) (*mat.Dense, []CloudMatrixCol) {
	size := pc.NumPoints()
	if size == 0 {
		return nil, nil
	}
	header := make([]CloudMatrixCol, 0, len(cloudMatrixFields))
	for _, f := range cloudMatrixFields {
		if pc.HasAttribute(f.name) {
			header = append(header, f.col)
		}
	}
	data := make([]float64, 0, size*len(header))
	pc.Iterate(0, 0, func(i int, p Point) bool {
		for _, col := range header {
			data = append(data, matrixValue(p, col))
		}
		return true
	})
	return mat.NewDense(size, len(header), data), header
}

func matrixValue(p Point, col CloudMatrixCol) float64 {
	switch col {
	case CloudMatrixColX:
		return p.X()
	case CloudMatrixColY:
		return p.Y()
	case CloudMatrixColZ:
		z, _ := p.Z()
		return z
	case CloudMatrixColR, CloudMatrixColG, CloudMatrixColB:
		r, g, b := p.RGB255()
		switch col {
		case CloudMatrixColR:
			return float64(r)
		case CloudMatrixColG:
			return float64(g)
		default:
			return float64(b)
		}
	case CloudMatrixColA:
		a, _ := p.Alpha()
		return float64(a)
	case CloudMatrixColIntensity:
		v, _ := p.Intensity()
		return v
	case CloudMatrixColClassification:
		v, _ := p.Classification()
		return v
	case CloudMatrixColRingID:
		id, _ := p.RingID()
		return float64(id)
	case CloudMatrixColTimeOffset:
		v, _ := p.TimeOffset()
		return v
	default:
		return 0
	}
}

// ToRowLayout copies a cloud of any layout into a row-oriented one
// through the capability contract.
func ToRowLayout(pc PointCloud) *RowPointCloud {
	out := NewRowPointCloudWithCapacity(pc.NumPoints())
	pc.Iterate(0, 0, func(i int, p Point) bool {
		out.AddPoint(p)
		return true
	})
	return out
}

// ToColumnLayout copies a cloud of any layout into a column-oriented one
// through the capability contract.
func ToColumnLayout(pc PointCloud) *ColumnPointCloud {
	out := NewColumnPointCloudWithCapacity(pc.NumPoints())
	pc.Iterate(0, 0, func(i int, p Point) bool {
		out.AddPoint(p)
		return true
	})
	return out
}
