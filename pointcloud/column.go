package pointcloud

import (
	"sort"

	"github.com/pkg/errors"

	"go.viam.com/pcl/spatialmath"
)

func init() {
	Register(TypeConfig{
		StructureType: ColumnStructure,
		NewWithParams: func(size int) PointCloud { return NewColumnPointCloudWithCapacity(size) },
	})
}

// bootstrapCapacity is the capacity an auto-growing column cloud jumps to
// on its first append; afterwards capacity doubles whenever exhausted.
const bootstrapCapacity = 16

// column is one lazily materialized optional attribute column. Every
// optional attribute goes through this single implementation so the
// backfill policy cannot diverge between attributes: on first use the
// column is allocated with prior rows backfilled by the zero value.
type column[T any] struct {
	present bool
	values  []T
}

// materialize allocates the column with prior zero-backfilled rows.
func (c *column[T]) materialize(prior, capacity int) {
	if capacity < prior {
		capacity = prior
	}
	c.values = make([]T, prior, capacity)
	c.present = true
}

// push appends v when the point carries the attribute, materializing the
// column on first use; otherwise it appends the zero default to keep the
// column length-synchronized.
func (c *column[T]) push(prior, capacity int, v T, ok bool) {
	if ok && !c.present {
		c.materialize(prior, capacity)
	}
	if !c.present {
		return
	}
	var value T
	if ok {
		value = v
	}
	c.values = append(c.values, value)
}

// setAt replaces row i, materializing the column first when the new
// point carries the attribute. Absent attributes reset the row to the
// zero default.
func (c *column[T]) setAt(i, size, capacity int, v T, ok bool) {
	if ok && !c.present {
		c.materialize(size, capacity)
	}
	if !c.present {
		return
	}
	var value T
	if ok {
		value = v
	}
	c.values[i] = value
}

// clear empties the column while keeping it materialized.
func (c *column[T]) clear() {
	if c.present {
		c.values = c.values[:0]
	}
}

// grow reallocates the column to the given capacity if needed.
func (c *column[T]) grow(capacity int) {
	if c.present {
		c.values = growSlice(c.values, capacity)
	}
}

func (c *column[T]) clone() column[T] {
	if !c.present {
		return column[T]{}
	}
	values := make([]T, len(c.values), cap(c.values))
	copy(values, c.values)
	return column[T]{present: true, values: values}
}

func growSlice[T any](s []T, capacity int) []T {
	if cap(s) >= capacity {
		return s
	}
	out := make([]T, len(s), capacity)
	copy(out, s)
	return out
}

// ColumnPointCloud stores one array per attribute, values aligned by
// index across arrays. Optional columns are materialized only when a
// point first carries the attribute, with earlier rows backfilled by the
// zero default. Schema queries are O(1); Transform touches only the
// coordinate columns.
//
// Capacity is tracked separately from length and is applied uniformly to
// every materialized column: growth bootstraps to 16 and then doubles
// whenever length reaches capacity.
type ColumnPointCloud struct {
	xs, ys []float64
	zs     column[float64]

	rs, gs, bs column[uint8]
	as         column[uint8]

	intensities     column[float64]
	classifications column[float64]
	rings           column[uint32]
	timeOffsets     column[float64]

	extras map[string]*column[float64]

	capacity int
	autoGrow bool
}

// NewColumnPointCloud returns an empty column-oriented point cloud.
func NewColumnPointCloud() *ColumnPointCloud {
	return &ColumnPointCloud{autoGrow: true}
}

// NewColumnPointCloudWithCapacity returns an empty column-oriented point
// cloud preallocated for size points.
func NewColumnPointCloudWithCapacity(size int) *ColumnPointCloud {
	cloud := NewColumnPointCloud()
	cloud.Reserve(size)
	return cloud
}

// NumPoints returns the number of points in the cloud.
func (cloud *ColumnPointCloud) NumPoints() int {
	return len(cloud.xs)
}

// IsEmpty reports whether the cloud holds no points.
func (cloud *ColumnPointCloud) IsEmpty() bool {
	return len(cloud.xs) == 0
}

// Cap returns the cloud's current capacity.
func (cloud *ColumnPointCloud) Cap() int {
	return cloud.capacity
}

// Is3D reports whether a z column has been materialized.
func (cloud *ColumnPointCloud) Is3D() bool {
	return cloud.zs.present
}

// HasColor reports whether color columns have been materialized.
func (cloud *ColumnPointCloud) HasColor() bool {
	return cloud.rs.present
}

// HasIntensity reports whether an intensity column has been materialized.
func (cloud *ColumnPointCloud) HasIntensity() bool {
	return cloud.intensities.present
}

// HasClassification reports whether a classification column has been
// materialized.
func (cloud *ColumnPointCloud) HasClassification() bool {
	return cloud.classifications.present
}

// HasAttribute reports whether the named attribute column exists.
func (cloud *ColumnPointCloud) HasAttribute(name string) bool {
	switch name {
	case FieldX, FieldY:
		return true
	case FieldZ:
		return cloud.zs.present
	case FieldR, FieldG, FieldB:
		return cloud.rs.present
	case FieldA:
		return cloud.as.present
	case FieldIntensity:
		return cloud.intensities.present
	case FieldClassification:
		return cloud.classifications.present
	case FieldRingID:
		return cloud.rings.present
	case FieldTimeOffset:
		return cloud.timeOffsets.present
	default:
		_, ok := cloud.extras[name]
		return ok
	}
}

// AttributeNames returns the materialized column names in canonical
// order, with extension attributes sorted last.
func (cloud *ColumnPointCloud) AttributeNames() []string {
	names := make([]string, 0, 8+len(cloud.extras))
	names = append(names, FieldX, FieldY)
	if cloud.zs.present {
		names = append(names, FieldZ)
	}
	if cloud.rs.present {
		names = append(names, FieldR, FieldG, FieldB)
		if cloud.as.present {
			names = append(names, FieldA)
		}
	}
	if cloud.intensities.present {
		names = append(names, FieldIntensity)
	}
	if cloud.classifications.present {
		names = append(names, FieldClassification)
	}
	if cloud.rings.present {
		names = append(names, FieldRingID)
	}
	if cloud.timeOffsets.present {
		names = append(names, FieldTimeOffset)
	}
	extras := make([]string, 0, len(cloud.extras))
	for name := range cloud.extras {
		extras = append(extras, name)
	}
	sort.Strings(extras)
	return append(names, extras...)
}

// ensureCapacity grows storage ahead of one append: bootstrap to a fixed
// minimum on first use, then double whenever length reaches capacity.
func (cloud *ColumnPointCloud) ensureCapacity() {
	if !cloud.autoGrow {
		return
	}
	if cloud.capacity == 0 {
		cloud.Reserve(bootstrapCapacity)
	} else if len(cloud.xs) >= cloud.capacity {
		cloud.Reserve(cloud.capacity)
	}
}

// AddPoint appends one point, pushing a value (or the zero default) to
// every materialized column and materializing any column the point
// carries for the first time.
func (cloud *ColumnPointCloud) AddPoint(p Point) {
	cloud.ensureCapacity()
	prior := len(cloud.xs)

	cloud.xs = append(cloud.xs, p.x)
	cloud.ys = append(cloud.ys, p.y)
	cloud.zs.push(prior, cloud.capacity, p.z, p.hasZ)

	cloud.rs.push(prior, cloud.capacity, p.c.R, p.hasColor)
	cloud.gs.push(prior, cloud.capacity, p.c.G, p.hasColor)
	cloud.bs.push(prior, cloud.capacity, p.c.B, p.hasColor)
	cloud.as.push(prior, cloud.capacity, p.c.A, p.hasAlpha)

	cloud.intensities.push(prior, cloud.capacity, p.intensity, p.hasIntensity)
	cloud.classifications.push(prior, cloud.capacity, p.classification, p.hasClassification)
	cloud.rings.push(prior, cloud.capacity, p.ringID, p.hasRingID)
	cloud.timeOffsets.push(prior, cloud.capacity, p.timeOffset, p.hasTimeOffset)

	for name, col := range cloud.extras {
		v, ok := p.extra[name]
		col.push(prior, cloud.capacity, v, ok)
	}
	for name, v := range p.extra {
		if _, ok := cloud.extras[name]; ok {
			continue
		}
		col := &column[float64]{}
		col.push(prior, cloud.capacity, v, true)
		if cloud.extras == nil {
			cloud.extras = map[string]*column[float64]{}
		}
		cloud.extras[name] = col
	}
}

// at rebuilds the point at index i from the materialized columns. The
// caller must have bounds-checked i.
func (cloud *ColumnPointCloud) at(i int) Point {
	var p Point
	if cloud.zs.present {
		p = NewPoint3D(cloud.xs[i], cloud.ys[i], cloud.zs.values[i])
	} else {
		p = NewPoint2D(cloud.xs[i], cloud.ys[i])
	}
	if cloud.rs.present {
		p = p.WithColor(cloud.rs.values[i], cloud.gs.values[i], cloud.bs.values[i])
	}
	if cloud.as.present {
		p = p.WithAlpha(cloud.as.values[i])
	}
	if cloud.intensities.present {
		p = p.WithIntensity(cloud.intensities.values[i])
	}
	if cloud.classifications.present {
		p = p.WithClassification(cloud.classifications.values[i])
	}
	if cloud.rings.present {
		p = p.WithRingID(cloud.rings.values[i])
	}
	if cloud.timeOffsets.present {
		p = p.WithTimeOffset(cloud.timeOffsets.values[i])
	}
	for name, col := range cloud.extras {
		p = p.WithAttribute(name, col.values[i])
	}
	return p
}

// At returns the point at the given index, rebuilt from the columns.
func (cloud *ColumnPointCloud) At(i int) (Point, error) {
	if i < 0 || i >= len(cloud.xs) {
		return Point{}, &IndexError{Index: i, Size: len(cloud.xs)}
	}
	return cloud.at(i), nil
}

// Set replaces the point at the given index across every column,
// materializing columns the new point carries for the first time and
// resetting the row to the zero default in columns it does not.
func (cloud *ColumnPointCloud) Set(i int, p Point) error {
	size := len(cloud.xs)
	if i < 0 || i >= size {
		return &IndexError{Index: i, Size: size}
	}
	cloud.xs[i] = p.x
	cloud.ys[i] = p.y
	cloud.zs.setAt(i, size, cloud.capacity, p.z, p.hasZ)

	cloud.rs.setAt(i, size, cloud.capacity, p.c.R, p.hasColor)
	cloud.gs.setAt(i, size, cloud.capacity, p.c.G, p.hasColor)
	cloud.bs.setAt(i, size, cloud.capacity, p.c.B, p.hasColor)
	cloud.as.setAt(i, size, cloud.capacity, p.c.A, p.hasAlpha)

	cloud.intensities.setAt(i, size, cloud.capacity, p.intensity, p.hasIntensity)
	cloud.classifications.setAt(i, size, cloud.capacity, p.classification, p.hasClassification)
	cloud.rings.setAt(i, size, cloud.capacity, p.ringID, p.hasRingID)
	cloud.timeOffsets.setAt(i, size, cloud.capacity, p.timeOffset, p.hasTimeOffset)

	for name, col := range cloud.extras {
		v, ok := p.extra[name]
		col.setAt(i, size, cloud.capacity, v, ok)
	}
	for name, v := range p.extra {
		if _, ok := cloud.extras[name]; ok {
			continue
		}
		col := &column[float64]{}
		col.setAt(i, size, cloud.capacity, v, true)
		if cloud.extras == nil {
			cloud.extras = map[string]*column[float64]{}
		}
		cloud.extras[name] = col
	}
	return nil
}

// Clear removes all points while keeping every materialized column, so
// the attribute schema survives. Capacity is unchanged.
func (cloud *ColumnPointCloud) Clear() {
	cloud.xs = cloud.xs[:0]
	cloud.ys = cloud.ys[:0]
	cloud.zs.clear()
	cloud.rs.clear()
	cloud.gs.clear()
	cloud.bs.clear()
	cloud.as.clear()
	cloud.intensities.clear()
	cloud.classifications.clear()
	cloud.rings.clear()
	cloud.timeOffsets.clear()
	for _, col := range cloud.extras {
		col.clear()
	}
}

// Reserve guarantees capacity for additional appends, growing every
// materialized column in lockstep.
func (cloud *ColumnPointCloud) Reserve(additional int) {
	target := len(cloud.xs) + additional
	if target <= cloud.capacity {
		return
	}
	cloud.capacity = target
	cloud.xs = growSlice(cloud.xs, target)
	cloud.ys = growSlice(cloud.ys, target)
	cloud.zs.grow(target)
	cloud.rs.grow(target)
	cloud.gs.grow(target)
	cloud.bs.grow(target)
	cloud.as.grow(target)
	cloud.intensities.grow(target)
	cloud.classifications.grow(target)
	cloud.rings.grow(target)
	cloud.timeOffsets.grow(target)
	for _, col := range cloud.extras {
		col.grow(target)
	}
}

// Iterate calls fn for every point in the selected batch until fn
// returns false.
func (cloud *ColumnPointCloud) Iterate(numBatches, myBatch int, fn func(i int, p Point) bool) {
	lower, upper := iterateRange(len(cloud.xs), numBatches, myBatch)
	for i := lower; i < upper; i++ {
		if !fn(i, cloud.at(i)) {
			return
		}
	}
}

// clone deep-copies the cloud, columns and all.
func (cloud *ColumnPointCloud) clone() *ColumnPointCloud {
	out := &ColumnPointCloud{
		xs:              growSlice(append([]float64(nil), cloud.xs...), cloud.capacity),
		ys:              growSlice(append([]float64(nil), cloud.ys...), cloud.capacity),
		zs:              cloud.zs.clone(),
		rs:              cloud.rs.clone(),
		gs:              cloud.gs.clone(),
		bs:              cloud.bs.clone(),
		as:              cloud.as.clone(),
		intensities:     cloud.intensities.clone(),
		classifications: cloud.classifications.clone(),
		rings:           cloud.rings.clone(),
		timeOffsets:     cloud.timeOffsets.clone(),
		capacity:        cloud.capacity,
		autoGrow:        cloud.autoGrow,
	}
	if cloud.extras != nil {
		out.extras = make(map[string]*column[float64], len(cloud.extras))
		for name, col := range cloud.extras {
			c := col.clone()
			out.extras[name] = &c
		}
	}
	return out
}

// Transform returns a new column cloud with the coordinate columns
// mapped through t; all other columns are copied unchanged. 2D clouds
// are mapped in the XY plane and stay 2D.
func (cloud *ColumnPointCloud) Transform(t *spatialmath.Transform) PointCloud {
	out := cloud.clone()
	out.TransformInPlace(t)
	return out
}

// TransformInPlace maps the coordinate columns through t in place,
// leaving attribute columns untouched.
func (cloud *ColumnPointCloud) TransformInPlace(t *spatialmath.Transform) {
	for i := range cloud.xs {
		var zin float64
		if cloud.zs.present {
			zin = cloud.zs.values[i]
		}
		x, y, z := t.ApplyToPoint(cloud.xs[i], cloud.ys[i], zin)
		cloud.xs[i] = x
		cloud.ys[i] = y
		if cloud.zs.present {
			cloud.zs.values[i] = z
		}
	}
}

// Column returns a copy of the named column's values as float64s, or an
// error if no such column is materialized.
func (cloud *ColumnPointCloud) Column(name string) ([]float64, error) {
	switch name {
	case FieldX:
		return append([]float64(nil), cloud.xs...), nil
	case FieldY:
		return append([]float64(nil), cloud.ys...), nil
	case FieldZ:
		if cloud.zs.present {
			return append([]float64(nil), cloud.zs.values...), nil
		}
	case FieldR:
		if cloud.rs.present {
			return toFloat64Column(cloud.rs.values), nil
		}
	case FieldG:
		if cloud.gs.present {
			return toFloat64Column(cloud.gs.values), nil
		}
	case FieldB:
		if cloud.bs.present {
			return toFloat64Column(cloud.bs.values), nil
		}
	case FieldA:
		if cloud.as.present {
			return toFloat64Column(cloud.as.values), nil
		}
	case FieldIntensity:
		if cloud.intensities.present {
			return append([]float64(nil), cloud.intensities.values...), nil
		}
	case FieldClassification:
		if cloud.classifications.present {
			return append([]float64(nil), cloud.classifications.values...), nil
		}
	case FieldRingID:
		if cloud.rings.present {
			return toFloat64Column(cloud.rings.values), nil
		}
	case FieldTimeOffset:
		if cloud.timeOffsets.present {
			return append([]float64(nil), cloud.timeOffsets.values...), nil
		}
	default:
		if col, ok := cloud.extras[name]; ok {
			return append([]float64(nil), col.values...), nil
		}
	}
	return nil, errors.Errorf("point cloud does not carry attribute %q", name)
}

// SetColumn installs the named column in bulk. The supplied values must
// match the cloud's current length or the install fails with a
// SchemaMismatchError; mismatched inputs are never truncated or padded.
// Installing any single color channel materializes the whole r/g/b
// triple so color stays a complete triple.
func (cloud *ColumnPointCloud) SetColumn(name string, values []float64) error {
	size := len(cloud.xs)
	if len(values) != size {
		return &SchemaMismatchError{Attribute: name, Expected: size, Got: len(values)}
	}
	switch name {
	case FieldX:
		copy(cloud.xs, values)
	case FieldY:
		copy(cloud.ys, values)
	case FieldZ:
		setFloat64Column(&cloud.zs, values, size, cloud.capacity)
	case FieldR, FieldG, FieldB, FieldA:
		for _, c := range []*column[uint8]{&cloud.rs, &cloud.gs, &cloud.bs} {
			if !c.present {
				c.materialize(size, cloud.capacity)
			}
		}
		switch name {
		case FieldR:
			setUint8Column(&cloud.rs, values)
		case FieldG:
			setUint8Column(&cloud.gs, values)
		case FieldB:
			setUint8Column(&cloud.bs, values)
		case FieldA:
			if !cloud.as.present {
				cloud.as.materialize(size, cloud.capacity)
			}
			setUint8Column(&cloud.as, values)
		}
	case FieldIntensity:
		setFloat64Column(&cloud.intensities, values, size, cloud.capacity)
	case FieldClassification:
		setFloat64Column(&cloud.classifications, values, size, cloud.capacity)
	case FieldRingID:
		if !cloud.rings.present {
			cloud.rings.materialize(size, cloud.capacity)
		}
		for i, v := range values {
			cloud.rings.values[i] = uint32(v)
		}
	case FieldTimeOffset:
		setFloat64Column(&cloud.timeOffsets, values, size, cloud.capacity)
	default:
		col := &column[float64]{}
		col.materialize(size, cloud.capacity)
		copy(col.values, values)
		if cloud.extras == nil {
			cloud.extras = map[string]*column[float64]{}
		}
		cloud.extras[name] = col
	}
	return nil
}

// Validate checks that every materialized column is length-synchronized
// with the coordinate columns.
func (cloud *ColumnPointCloud) Validate() error {
	size := len(cloud.xs)
	check := func(name string, n int, present bool) error {
		if present && n != size {
			return &SchemaMismatchError{Attribute: name, Expected: size, Got: n}
		}
		return nil
	}
	if err := check(FieldY, len(cloud.ys), true); err != nil {
		return err
	}
	if err := check(FieldZ, len(cloud.zs.values), cloud.zs.present); err != nil {
		return err
	}
	for _, c := range []struct {
		name string
		n    int
		ok   bool
	}{
		{FieldR, len(cloud.rs.values), cloud.rs.present},
		{FieldG, len(cloud.gs.values), cloud.gs.present},
		{FieldB, len(cloud.bs.values), cloud.bs.present},
		{FieldA, len(cloud.as.values), cloud.as.present},
		{FieldIntensity, len(cloud.intensities.values), cloud.intensities.present},
		{FieldClassification, len(cloud.classifications.values), cloud.classifications.present},
		{FieldRingID, len(cloud.rings.values), cloud.rings.present},
		{FieldTimeOffset, len(cloud.timeOffsets.values), cloud.timeOffsets.present},
	} {
		if err := check(c.name, c.n, c.ok); err != nil {
			return err
		}
	}
	for name, col := range cloud.extras {
		if err := check(name, len(col.values), col.present); err != nil {
			return err
		}
	}
	return nil
}

func setFloat64Column(c *column[float64], values []float64, size, capacity int) {
	if !c.present {
		c.materialize(size, capacity)
	}
	copy(c.values, values)
}

func setUint8Column(c *column[uint8], values []float64) {
	for i, v := range values {
		c.values[i] = uint8(v)
	}
}

func toFloat64Column[T uint8 | uint32](values []T) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v)
	}
	return out
}
