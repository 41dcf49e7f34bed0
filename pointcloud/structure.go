package pointcloud

import "github.com/pkg/errors"

// StructureType names a physical point-cloud layout.
type StructureType string

// The built-in layouts.
const (
	RowStructure    StructureType = "row"
	ColumnStructure StructureType = "column"
)

// TypeConfig describes how to construct a point cloud of a given
// structure type.
type TypeConfig struct {
	StructureType StructureType
	NewWithParams func(size int) PointCloud
}

var structureRegistry = map[StructureType]TypeConfig{}

// Register makes a structure type constructable by name. It panics when
// a type is registered twice; registration happens in init functions.
func Register(cfg TypeConfig) {
	if _, ok := structureRegistry[cfg.StructureType]; ok {
		panic(errors.Errorf("structure type %q registered twice", cfg.StructureType))
	}
	structureRegistry[cfg.StructureType] = cfg
}

// Find returns the configuration registered for a structure type.
func Find(structureType StructureType) (TypeConfig, error) {
	cfg, ok := structureRegistry[structureType]
	if !ok {
		return TypeConfig{}, errors.Errorf("unknown point cloud structure type %q", structureType)
	}
	return cfg, nil
}

// NewWithStructureType returns an empty point cloud of the named layout,
// preallocated for size points.
func NewWithStructureType(structureType StructureType, size int) (PointCloud, error) {
	cfg, err := Find(structureType)
	if err != nil {
		return nil, err
	}
	return cfg.NewWithParams(size), nil
}
