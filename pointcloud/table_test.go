package pointcloud

import (
	"testing"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.viam.com/test"
)

// memTable is an in-memory stand-in for an external tabular engine,
// implementing only the boundary contract the core depends on.
type memTable struct {
	length int
	cols   map[string][]float64
}

func newMemTable(length int) *memTable {
	return &memTable{length: length, cols: map[string][]float64{}}
}

func (tbl *memTable) Len() int {
	return tbl.length
}

func (tbl *memTable) Column(name string) ([]float64, error) {
	values, ok := tbl.cols[name]
	if !ok {
		return nil, errors.Errorf("no column %q", name)
	}
	return append([]float64(nil), values...), nil
}

func (tbl *memTable) SetColumn(name string, values []float64) error {
	if len(values) != tbl.length {
		return &SchemaMismatchError{Attribute: name, Expected: tbl.length, Got: len(values)}
	}
	tbl.cols[name] = append([]float64(nil), values...)
	return nil
}

func (tbl *memTable) Row(i int) (Point, error) {
	if i < 0 || i >= tbl.length {
		return Point{}, &IndexError{Index: i, Size: tbl.length}
	}
	p := NewPoint2D(tbl.cols[FieldX][i], tbl.cols[FieldY][i])
	if zs, ok := tbl.cols[FieldZ]; ok {
		p = NewPoint3D(p.X(), p.Y(), zs[i])
	}
	if vs, ok := tbl.cols[FieldIntensity]; ok {
		p = p.WithIntensity(vs[i])
	}
	return p, nil
}

func TestNewFromTable(t *testing.T) {
	logger := golog.NewTestLogger(t)

	tbl := newMemTable(3)
	test.That(t, tbl.SetColumn("x", []float64{1, 2, 3}), test.ShouldBeNil)
	test.That(t, tbl.SetColumn("y", []float64{4, 5, 6}), test.ShouldBeNil)
	test.That(t, tbl.SetColumn("z", []float64{7, 8, 9}), test.ShouldBeNil)
	test.That(t, tbl.SetColumn("intensity", []float64{0.1, 0.2, 0.3}), test.ShouldBeNil)

	pc, err := NewFromTable(tbl, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, pc.NumPoints(), test.ShouldEqual, 3)
	test.That(t, pc.Is3D(), test.ShouldBeTrue)
	test.That(t, pc.HasIntensity(), test.ShouldBeTrue)
	test.That(t, pc.HasColor(), test.ShouldBeFalse)
	test.That(t, pc.Validate(), test.ShouldBeNil)

	p, err := pc.At(2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.X(), test.ShouldEqual, 3)
	test.That(t, p.Y(), test.ShouldEqual, 6)
	z, ok := p.Z()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, z, test.ShouldEqual, 9)

	// a table without coordinates is rejected
	_, err = NewFromTable(newMemTable(2), logger)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "x column")
}

func TestCloudToTable(t *testing.T) {
	pc := NewColumnPointCloud()
	pc.AddPoint(NewPoint3D(1, 2, 3).WithColor(10, 20, 30))
	pc.AddPoint(NewPoint3D(4, 5, 6))

	tbl := newMemTable(2)
	test.That(t, CloudToTable(pc, tbl), test.ShouldBeNil)

	xs, err := tbl.Column("x")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, xs, test.ShouldResemble, []float64{1, 4})
	rs, err := tbl.Column("r")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rs, test.ShouldResemble, []float64{10, 0})

	// the row layout writes through the same contract
	row := ToRowLayout(pc)
	tbl2 := newMemTable(2)
	test.That(t, CloudToTable(row, tbl2), test.ShouldBeNil)
	ys, err := tbl2.Column("y")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, ys, test.ShouldResemble, []float64{2, 5})

	// a mismatched table is a reported error, nothing is truncated
	err = CloudToTable(pc, newMemTable(5))
	var schemaErr *SchemaMismatchError
	test.That(t, errors.As(err, &schemaErr), test.ShouldBeTrue)
}

func TestTableRowBounds(t *testing.T) {
	tbl := newMemTable(1)
	test.That(t, tbl.SetColumn("x", []float64{1}), test.ShouldBeNil)
	test.That(t, tbl.SetColumn("y", []float64{2}), test.ShouldBeNil)

	p, err := tbl.Row(0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.X(), test.ShouldEqual, 1)

	_, err = tbl.Row(1)
	var indexErr *IndexError
	test.That(t, errors.As(err, &indexErr), test.ShouldBeTrue)
}
