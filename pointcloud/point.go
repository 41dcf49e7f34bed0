package pointcloud

import (
	"image/color"
	"math"
	"sort"

	"github.com/golang/geo/r3"
)

// Canonical attribute names shared by every layout and by the external
// table boundary.
const (
	FieldX              = "x"
	FieldY              = "y"
	FieldZ              = "z"
	FieldR              = "r"
	FieldG              = "g"
	FieldB              = "b"
	FieldA              = "a"
	FieldIntensity      = "intensity"
	FieldClassification = "classification"
	FieldRingID         = "ring_id"
	FieldTimeOffset     = "time_offset"
)

// Point is one spatial sample: required 2D coordinates, an optional
// third coordinate, and a fixed set of optional typed attributes plus an
// open-ended named-attribute map. It is a value type; the With* builders
// return modified copies and never mutate the receiver.
//
// Color is present as a complete r/g/b triple or not at all; the alpha
// channel is optional on top of the triple.
type Point struct {
	x, y float64
	z    float64
	hasZ bool

	c        color.NRGBA
	hasColor bool
	hasAlpha bool

	intensity    float64
	hasIntensity bool

	classification    float64
	hasClassification bool

	ringID    uint32
	hasRingID bool

	timeOffset    float64
	hasTimeOffset bool

	extra map[string]float64
}

// NewPoint2D returns a planar point with the given coordinates.
func NewPoint2D(x, y float64) Point {
	return Point{x: x, y: y}
}

// NewPoint3D returns a point with the given 3D coordinates.
func NewPoint3D(x, y, z float64) Point {
	return Point{x: x, y: y, z: z, hasZ: true}
}

// clone returns a copy whose extension map is independent of the
// receiver's. Containers use it so points are never shared by reference.
func (p Point) clone() Point {
	out := p
	if p.extra != nil {
		out.extra = make(map[string]float64, len(p.extra))
		for k, v := range p.extra {
			out.extra[k] = v
		}
	}
	return out
}

// WithColor returns a copy of the point carrying the given color triple.
func (p Point) WithColor(r, g, b uint8) Point {
	out := p.clone()
	out.c.R, out.c.G, out.c.B = r, g, b
	if !out.hasAlpha {
		out.c.A = math.MaxUint8
	}
	out.hasColor = true
	return out
}

// WithAlpha returns a copy of the point with an alpha channel set. The
// point must already carry a color triple for the alpha to be reported
// by Fields; setting alpha alone does not create a partial color.
func (p Point) WithAlpha(a uint8) Point {
	out := p.clone()
	out.c.A = a
	out.hasAlpha = true
	return out
}

// WithIntensity returns a copy of the point with an intensity value.
func (p Point) WithIntensity(v float64) Point {
	out := p.clone()
	out.intensity = v
	out.hasIntensity = true
	return out
}

// WithClassification returns a copy of the point with a classification
// code.
func (p Point) WithClassification(v float64) Point {
	out := p.clone()
	out.classification = v
	out.hasClassification = true
	return out
}

// WithRingID returns a copy of the point tagged with a sensor ring id.
func (p Point) WithRingID(id uint32) Point {
	out := p.clone()
	out.ringID = id
	out.hasRingID = true
	return out
}

// WithTimeOffset returns a copy of the point with a capture time offset.
func (p Point) WithTimeOffset(v float64) Point {
	out := p.clone()
	out.timeOffset = v
	out.hasTimeOffset = true
	return out
}

// WithAttribute returns a copy of the point with a named extension
// attribute set. Reserved attribute names (x, y, z, r, g, b, a,
// intensity, classification, ring_id, time_offset) keep their typed
// storage and should be set through the dedicated builders instead.
func (p Point) WithAttribute(name string, v float64) Point {
	out := p.clone()
	if out.extra == nil {
		out.extra = map[string]float64{}
	}
	out.extra[name] = v
	return out
}

// X returns the x coordinate.
func (p Point) X() float64 { return p.x }

// Y returns the y coordinate.
func (p Point) Y() float64 { return p.y }

// Z returns the z coordinate and whether the point is 3D.
func (p Point) Z() (float64, bool) { return p.z, p.hasZ }

// Is3D reports whether the point carries a z coordinate.
func (p Point) Is3D() bool { return p.hasZ }

// HasColor reports whether the point carries a complete r/g/b triple.
func (p Point) HasColor() bool { return p.hasColor }

// RGB255 returns the color components. Only meaningful when HasColor.
func (p Point) RGB255() (uint8, uint8, uint8) { return p.c.R, p.c.G, p.c.B }

// Alpha returns the alpha channel and whether one was set.
func (p Point) Alpha() (uint8, bool) { return p.c.A, p.hasAlpha }

// Color returns the native color of the point.
func (p Point) Color() color.Color { return p.c }

// Intensity returns the intensity value and whether one was set.
func (p Point) Intensity() (float64, bool) { return p.intensity, p.hasIntensity }

// Classification returns the classification code and whether one was set.
func (p Point) Classification() (float64, bool) { return p.classification, p.hasClassification }

// RingID returns the sensor ring id and whether one was set.
func (p Point) RingID() (uint32, bool) { return p.ringID, p.hasRingID }

// TimeOffset returns the capture time offset and whether one was set.
func (p Point) TimeOffset() (float64, bool) { return p.timeOffset, p.hasTimeOffset }

// Attribute returns a named extension attribute and whether it is set.
func (p Point) Attribute(name string) (float64, bool) {
	v, ok := p.extra[name]
	return v, ok
}

// Position returns the point's coordinates as a vector, with z equal to
// zero for 2D points.
func (p Point) Position() r3.Vector {
	return r3.Vector{X: p.x, Y: p.y, Z: p.z}
}

// Fields returns the ordered names of the attributes the point carries:
// x and y always first, z when present, the color channels together,
// then intensity, classification, ring_id, time_offset, and finally the
// extension attributes in sorted order.
func (p Point) Fields() []string {
	fields := make([]string, 0, 8+len(p.extra))
	fields = append(fields, FieldX, FieldY)
	if p.hasZ {
		fields = append(fields, FieldZ)
	}
	if p.hasColor {
		fields = append(fields, FieldR, FieldG, FieldB)
		if p.hasAlpha {
			fields = append(fields, FieldA)
		}
	}
	if p.hasIntensity {
		fields = append(fields, FieldIntensity)
	}
	if p.hasClassification {
		fields = append(fields, FieldClassification)
	}
	if p.hasRingID {
		fields = append(fields, FieldRingID)
	}
	if p.hasTimeOffset {
		fields = append(fields, FieldTimeOffset)
	}
	extras := make([]string, 0, len(p.extra))
	for k := range p.extra {
		extras = append(extras, k)
	}
	sort.Strings(extras)
	return append(fields, extras...)
}

// Distance2D returns the Euclidean distance between two points in the
// XY plane, ignoring z on either operand.
func (p Point) Distance2D(other Point) float64 {
	return math.Hypot(other.x-p.x, other.y-p.y)
}

// Distance3D returns the Euclidean distance between two 3D points. When
// either operand is 2D there is no 3D distance and the second return is
// false; this is absence, not an error.
func (p Point) Distance3D(other Point) (float64, bool) {
	if !p.hasZ || !other.hasZ {
		return 0, false
	}
	dx, dy, dz := other.x-p.x, other.y-p.y, other.z-p.z
	return math.Sqrt(dx*dx + dy*dy + dz*dz), true
}

// Equal reports structural equality across all coordinates and
// attributes.
func (p Point) Equal(other Point) bool {
	if p.x != other.x || p.y != other.y {
		return false
	}
	if p.hasZ != other.hasZ || (p.hasZ && p.z != other.z) {
		return false
	}
	if p.hasColor != other.hasColor || p.hasAlpha != other.hasAlpha {
		return false
	}
	if p.hasColor && (p.c.R != other.c.R || p.c.G != other.c.G || p.c.B != other.c.B) {
		return false
	}
	if p.hasAlpha && p.c.A != other.c.A {
		return false
	}
	if p.hasIntensity != other.hasIntensity || (p.hasIntensity && p.intensity != other.intensity) {
		return false
	}
	if p.hasClassification != other.hasClassification ||
		(p.hasClassification && p.classification != other.classification) {
		return false
	}
	if p.hasRingID != other.hasRingID || (p.hasRingID && p.ringID != other.ringID) {
		return false
	}
	if p.hasTimeOffset != other.hasTimeOffset || (p.hasTimeOffset && p.timeOffset != other.timeOffset) {
		return false
	}
	if len(p.extra) != len(other.extra) {
		return false
	}
	for k, v := range p.extra {
		if ov, ok := other.extra[k]; !ok || ov != v {
			return false
		}
	}
	return true
}
