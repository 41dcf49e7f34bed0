package pointcloud

import (
	"sync"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"
	"go.viam.com/utils"

	"go.viam.com/pcl/spatialmath"
)

var layouts = map[string]func(size int) PointCloud{
	"row":    func(size int) PointCloud { return NewRowPointCloudWithCapacity(size) },
	"column": func(size int) PointCloud { return NewColumnPointCloudWithCapacity(size) },
}

func TestPointCloudContract(t *testing.T) {
	for name, newCloud := range layouts {
		t.Run(name, func(t *testing.T) {
			testPointCloudContract(t, newCloud)
		})
	}
}

func testPointCloudContract(t *testing.T, newCloud func(size int) PointCloud) {
	t.Helper()
	pc := newCloud(0)

	// empty cloud
	test.That(t, pc.NumPoints(), test.ShouldEqual, 0)
	test.That(t, pc.IsEmpty(), test.ShouldBeTrue)
	test.That(t, pc.Is3D(), test.ShouldBeFalse)
	test.That(t, pc.HasColor(), test.ShouldBeFalse)
	test.That(t, pc.AttributeNames(), test.ShouldResemble, []string{"x", "y"})

	// out-of-range access is a reported error, never a crash
	_, err := pc.At(0)
	var indexErr *IndexError
	test.That(t, errors.As(err, &indexErr), test.ShouldBeTrue)
	test.That(t, indexErr.Index, test.ShouldEqual, 0)
	err = pc.Set(0, NewPoint2D(0, 0))
	test.That(t, errors.As(err, &indexErr), test.ShouldBeTrue)
	_, err = pc.At(-1)
	test.That(t, errors.As(err, &indexErr), test.ShouldBeTrue)

	// a planar point does not make the cloud 3D
	pc.AddPoint(NewPoint2D(1, 2))
	test.That(t, pc.NumPoints(), test.ShouldEqual, 1)
	test.That(t, pc.IsEmpty(), test.ShouldBeFalse)
	test.That(t, pc.Is3D(), test.ShouldBeFalse)

	// attributes appear as points carrying them arrive
	p := NewPoint3D(3, 4, 5).WithColor(10, 20, 30).WithIntensity(0.5)
	pc.AddPoint(p)
	test.That(t, pc.NumPoints(), test.ShouldEqual, 2)
	test.That(t, pc.Is3D(), test.ShouldBeTrue)
	test.That(t, pc.HasColor(), test.ShouldBeTrue)
	test.That(t, pc.HasIntensity(), test.ShouldBeTrue)
	test.That(t, pc.HasClassification(), test.ShouldBeFalse)
	test.That(t, pc.HasAttribute("x"), test.ShouldBeTrue)
	test.That(t, pc.HasAttribute("intensity"), test.ShouldBeTrue)
	test.That(t, pc.HasAttribute("ring_id"), test.ShouldBeFalse)
	test.That(t, pc.HasAttribute("nope"), test.ShouldBeFalse)
	test.That(t, pc.AttributeNames(), test.ShouldResemble,
		[]string{"x", "y", "z", "r", "g", "b", "intensity"})

	got, err := pc.At(1)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.Equal(p), test.ShouldBeTrue)

	// replace a point and read it back
	test.That(t, pc.Set(0, NewPoint3D(9, 8, 7)), test.ShouldBeNil)
	got, err = pc.At(0)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got.X(), test.ShouldEqual, 9)
	test.That(t, got.Y(), test.ShouldEqual, 8)
	z, ok := got.Z()
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, z, test.ShouldEqual, 7)

	_, err = pc.At(pc.NumPoints())
	test.That(t, errors.As(err, &indexErr), test.ShouldBeTrue)
	test.That(t, indexErr.Size, test.ShouldEqual, pc.NumPoints())

	// iteration visits every point, and stops when fn says so
	count := 0
	pc.Iterate(0, 0, func(i int, p Point) bool {
		count++
		return true
	})
	test.That(t, count, test.ShouldEqual, 2)
	count = 0
	pc.Iterate(0, 0, func(i int, p Point) bool {
		count++
		return false
	})
	test.That(t, count, test.ShouldEqual, 1)

	// reserve then append
	pc.Reserve(100)
	for i := 0; i < 100; i++ {
		pc.AddPoint(NewPoint3D(float64(i), 0, 0))
	}
	test.That(t, pc.NumPoints(), test.ShouldEqual, 102)

	// clear empties without dropping to an unusable state
	pc.Clear()
	test.That(t, pc.NumPoints(), test.ShouldEqual, 0)
	test.That(t, pc.IsEmpty(), test.ShouldBeTrue)
	pc.AddPoint(NewPoint3D(1, 1, 1))
	test.That(t, pc.NumPoints(), test.ShouldEqual, 1)
}

func TestPointCloudTransform(t *testing.T) {
	translate := spatialmath.NewTranslation(10, 20, 30)
	for name, newCloud := range layouts {
		t.Run(name, func(t *testing.T) {
			pc := newCloud(1)
			pc.AddPoint(NewPoint3D(1, 2, 3).WithIntensity(0.25))

			out := pc.Transform(translate)
			got, err := out.At(0)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, got.X(), test.ShouldEqual, 11)
			test.That(t, got.Y(), test.ShouldEqual, 22)
			z, ok := got.Z()
			test.That(t, ok, test.ShouldBeTrue)
			test.That(t, z, test.ShouldEqual, 33)

			// attributes ride along unchanged
			intensity, ok := got.Intensity()
			test.That(t, ok, test.ShouldBeTrue)
			test.That(t, intensity, test.ShouldEqual, 0.25)

			// the source is untouched and the output is the same layout
			orig, err := pc.At(0)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, orig.X(), test.ShouldEqual, 1)
			switch pc.(type) {
			case *RowPointCloud:
				_, ok := out.(*RowPointCloud)
				test.That(t, ok, test.ShouldBeTrue)
			case *ColumnPointCloud:
				_, ok := out.(*ColumnPointCloud)
				test.That(t, ok, test.ShouldBeTrue)
			}

			pc.TransformInPlace(translate)
			got, err = pc.At(0)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, got.X(), test.ShouldEqual, 11)
			z, _ = got.Z()
			test.That(t, z, test.ShouldEqual, 33)
		})
	}
}

// A 2D cloud transforms in the XY plane and stays 2D.
func TestPointCloudTransform2D(t *testing.T) {
	translate := spatialmath.NewTranslation(10, 20, 30)
	for name, newCloud := range layouts {
		t.Run(name, func(t *testing.T) {
			pc := newCloud(1)
			pc.AddPoint(NewPoint2D(1, 2))
			out := pc.Transform(translate)
			test.That(t, out.Is3D(), test.ShouldBeFalse)
			got, err := out.At(0)
			test.That(t, err, test.ShouldBeNil)
			test.That(t, got.X(), test.ShouldEqual, 11)
			test.That(t, got.Y(), test.ShouldEqual, 22)
			_, ok := got.Z()
			test.That(t, ok, test.ShouldBeFalse)
		})
	}
}

// Is3D is layout-defined: the row layout scans its data, the column
// layout reports column presence. They diverge after Clear.
func TestIs3DLayoutDivergence(t *testing.T) {
	row := NewRowPointCloud()
	col := NewColumnPointCloud()
	for _, pc := range []PointCloud{row, col} {
		pc.AddPoint(NewPoint3D(1, 2, 3))
		test.That(t, pc.Is3D(), test.ShouldBeTrue)
		pc.Clear()
	}
	test.That(t, row.Is3D(), test.ShouldBeFalse)
	test.That(t, col.Is3D(), test.ShouldBeTrue)
}

func TestPointCloudIterateBatches(t *testing.T) {
	for name, newCloud := range layouts {
		t.Run(name, func(t *testing.T) {
			pc := newCloud(0)
			const size = 37
			var want float64
			for i := 0; i < size; i++ {
				pc.AddPoint(NewPoint3D(float64(i), 0, 0))
				want += float64(i)
			}
			for _, numBatches := range []int{1, 4, size, size * 2} {
				totals := make(chan float64, numBatches)
				counts := make(chan int, numBatches)
				var wg sync.WaitGroup
				wg.Add(numBatches)
				for batch := 0; batch < numBatches; batch++ {
					myBatch := batch
					utils.PanicCapturingGo(func() {
						defer wg.Done()
						var total float64
						var count int
						pc.Iterate(numBatches, myBatch, func(i int, p Point) bool {
							total += p.X()
							count++
							return true
						})
						totals <- total
						counts <- count
					})
				}
				wg.Wait()
				close(totals)
				close(counts)
				var total float64
				var count int
				for v := range totals {
					total += v
				}
				for c := range counts {
					count += c
				}
				test.That(t, count, test.ShouldEqual, size)
				test.That(t, total, test.ShouldEqual, want)
			}
		})
	}
}

func TestNewWithStructureType(t *testing.T) {
	pc, err := NewWithStructureType(RowStructure, 4)
	test.That(t, err, test.ShouldBeNil)
	_, ok := pc.(*RowPointCloud)
	test.That(t, ok, test.ShouldBeTrue)

	pc, err = NewWithStructureType(ColumnStructure, 4)
	test.That(t, err, test.ShouldBeNil)
	colCloud, ok := pc.(*ColumnPointCloud)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, colCloud.Cap(), test.ShouldEqual, 4)

	_, err = NewWithStructureType("octree", 4)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unknown point cloud structure type")

	_, err = Find(RowStructure)
	test.That(t, err, test.ShouldBeNil)
}
