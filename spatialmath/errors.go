package spatialmath

import "fmt"

// ShapeError is returned when a Transform is constructed from data that
// does not describe a 4x4 matrix.
type ShapeError struct {
	Rows, Cols int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("transform must be 4x4, got %dx%d", e.Rows, e.Cols)
}
