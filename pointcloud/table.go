package pointcloud

import (
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
)

// Table is the boundary to an externally stored point table, such as a
// dataframe engine. It is the only surface the core needs to
// interoperate with external tabular storage; implementations live
// outside this module. A Table must reject SetColumn inputs whose length
// differs from Len and must report out-of-range Row indices as errors.
type Table interface {
	// Len returns the number of rows.
	Len() int

	// Column returns the named column as float64 values, or an error when
	// the column is absent or not numeric.
	Column(name string) ([]float64, error)

	// SetColumn installs the named column. It fails when len(values)
	// differs from Len.
	SetColumn(name string, values []float64) error

	// Row returns the point at the given row, or an error when the index
	// is out of range.
	Row(i int) (Point, error)
}

// tableFields are the canonical optional columns NewFromTable probes
// for. A Table exposes no column listing, so extension attributes do not
// cross this boundary.
var tableFields = []string{
	FieldZ,
	FieldR, FieldG, FieldB, FieldA,
	FieldIntensity,
	FieldClassification,
	FieldRingID,
	FieldTimeOffset,
}

// NewFromTable builds a column-oriented point cloud from an external
// table. The table must carry x and y columns of the table's full
// length; every canonical optional column found is installed, and absent
// ones are logged at debug level and skipped.
func NewFromTable(tbl Table, logger golog.Logger) (*ColumnPointCloud, error) {
	size := tbl.Len()
	xs, err := tbl.Column(FieldX)
	if err != nil {
		return nil, errors.Wrap(err, "point table must carry an x column")
	}
	ys, err := tbl.Column(FieldY)
	if err != nil {
		return nil, errors.Wrap(err, "point table must carry a y column")
	}
	if len(xs) != size {
		return nil, &SchemaMismatchError{Attribute: FieldX, Expected: size, Got: len(xs)}
	}
	if len(ys) != size {
		return nil, &SchemaMismatchError{Attribute: FieldY, Expected: size, Got: len(ys)}
	}

	cloud := NewColumnPointCloudWithCapacity(size)
	for i := 0; i < size; i++ {
		cloud.AddPoint(NewPoint2D(xs[i], ys[i]))
	}
	for _, name := range tableFields {
		values, err := tbl.Column(name)
		if err != nil {
			logger.Debugw("column not present in table, skipping", "column", name, "error", err)
			continue
		}
		if err := cloud.SetColumn(name, values); err != nil {
			return nil, errors.Wrapf(err, "installing column %q", name)
		}
	}
	return cloud, nil
}

// CloudToTable writes every attribute column of the cloud into the
// table through its SetColumn contract. The table's length must already
// match the cloud's; the core never truncates or pads either side.
func CloudToTable(pc PointCloud, tbl Table) error {
	cloud, ok := pc.(*ColumnPointCloud)
	if !ok {
		cloud = ToColumnLayout(pc)
	}
	for _, name := range cloud.AttributeNames() {
		values, err := cloud.Column(name)
		if err != nil {
			return err
		}
		if err := tbl.SetColumn(name, values); err != nil {
			return errors.Wrapf(err, "writing column %q", name)
		}
	}
	return nil
}
