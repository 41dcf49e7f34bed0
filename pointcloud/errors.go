package pointcloud

import "fmt"

// IndexError is returned by indexed access with an out-of-range index.
type IndexError struct {
	Index, Size int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of bounds for point cloud of size %d", e.Index, e.Size)
}

// SchemaMismatchError is returned when a bulk attribute column does not
// match the container's current length, or when a container's column
// lengths have diverged from each other.
type SchemaMismatchError struct {
	Attribute     string
	Expected, Got int
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("attribute %q has %d values, want %d", e.Attribute, e.Got, e.Expected)
}
