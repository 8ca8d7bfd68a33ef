// Package sketch contains the primitive and constraint model for 2D
// parametric sketches.
package sketch

// Kind identifies the concrete type of a Primitive.
type Kind int

const (
	KindPoint Kind = iota
	KindLine
	KindCircle
	KindArc
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindLine:
		return "line"
	case KindCircle:
		return "circle"
	case KindArc:
		return "arc"
	default:
		return "unknown"
	}
}

// Plane identifies which canonical construction plane a sketch lives on.
// Coordinates are always 2D plane-local; the plane only records the
// orientation a host application should embed the sketch in.
type Plane int

const (
	PlaneXY Plane = iota
	PlaneXZ
	PlaneYZ
)

// String returns the string representation of a Plane.
func (p Plane) String() string {
	switch p {
	case PlaneXY:
		return "XY"
	case PlaneXZ:
		return "XZ"
	case PlaneYZ:
		return "YZ"
	default:
		return "unknown"
	}
}

// ParsePlane converts a string name back to a Plane.
func ParsePlane(s string) (Plane, bool) {
	switch s {
	case "XY":
		return PlaneXY, true
	case "XZ":
		return PlaneXZ, true
	case "YZ":
		return PlaneYZ, true
	default:
		return 0, false
	}
}

// Status summarises the constraint state of a sketch.
type Status int

const (
	StatusUnderConstrained Status = iota
	StatusFullyConstrained
	StatusOverConstrained
)

// String returns the string representation of a Status.
func (s Status) String() string {
	switch s {
	case StatusUnderConstrained:
		return "under constrained"
	case StatusFullyConstrained:
		return "fully constrained"
	case StatusOverConstrained:
		return "over constrained"
	default:
		return "unknown"
	}
}

// Primitive is the closed set of sketch geometry types. Only Point,
// Line, Circle and Arc implement it; consumers switch exhaustively on
// the concrete type or on Kind().
type Primitive interface {
	// PrimID returns the primitive's sketch-local identifier.
	PrimID() int
	// Kind returns the concrete kind without a type switch.
	Kind() Kind

	isPrimitive()
}

// Point is a located point. Fixed points are anchors: the solver never
// moves them. The flag is set permanently for reference geometry and
// temporarily while a drag is in flight.
type Point struct {
	ID    int     `json:"id"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Fixed bool    `json:"fixed,omitempty"`
}

func (p Point) PrimID() int  { return p.ID }
func (p Point) Kind() Kind   { return KindPoint }
func (p Point) isPrimitive() {}

// Line is a segment between two point primitives.
type Line struct {
	ID int `json:"id"`
	P1 int `json:"p1"` // Start point ID
	P2 int `json:"p2"` // End point ID
}

func (l Line) PrimID() int  { return l.ID }
func (l Line) Kind() Kind   { return KindLine }
func (l Line) isPrimitive() {}

// Circle is a full circle around a center point primitive. The radius
// is a plain scalar, not a solver parameter; dimensional constraints
// write it directly.
type Circle struct {
	ID     int     `json:"id"`
	Center int     `json:"center"` // Center point ID
	Radius float64 `json:"radius"`
}

func (c Circle) PrimID() int  { return c.ID }
func (c Circle) Kind() Kind   { return KindCircle }
func (c Circle) isPrimitive() {}

// Arc is a circular arc from Start to End around Center, traversed
// counter-clockwise. The radius is derived from the center and start
// points rather than stored.
type Arc struct {
	ID     int `json:"id"`
	Center int `json:"center"` // Center point ID
	Start  int `json:"start"`  // Start point ID
	End    int `json:"end"`    // End point ID
}

func (a Arc) PrimID() int  { return a.ID }
func (a Arc) Kind() Kind   { return KindArc }
func (a Arc) isPrimitive() {}

// ConstraintType enumerates the supported constraint kinds.
type ConstraintType int

const (
	Horizontal ConstraintType = iota
	Vertical
	Distance
	Radius
	Diameter
	Coincident
	Parallel
	Perpendicular
	Equal
	Tangent
	Concentric
	Midpoint
	PointOnLine
	PointOnCircle
)

// String returns the string representation of a ConstraintType.
func (t ConstraintType) String() string {
	switch t {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	case Distance:
		return "distance"
	case Radius:
		return "radius"
	case Diameter:
		return "diameter"
	case Coincident:
		return "coincident"
	case Parallel:
		return "parallel"
	case Perpendicular:
		return "perpendicular"
	case Equal:
		return "equal"
	case Tangent:
		return "tangent"
	case Concentric:
		return "concentric"
	case Midpoint:
		return "midpoint"
	case PointOnLine:
		return "pointOnLine"
	case PointOnCircle:
		return "pointOnCircle"
	default:
		return "unknown"
	}
}

// ParseConstraintType converts a string name back to a ConstraintType.
func ParseConstraintType(s string) (ConstraintType, bool) {
	for t := Horizontal; t <= PointOnCircle; t++ {
		if t.String() == s {
			return t, true
		}
	}
	return 0, false
}

// HasValue reports whether the constraint type carries a dimension
// value (distance, radius, diameter).
func (t ConstraintType) HasValue() bool {
	switch t {
	case Distance, Radius, Diameter:
		return true
	default:
		return false
	}
}

// DOFRemoved returns how many degrees of freedom one driving constraint
// of this type removes from a sketch, per constrained pair.
func (t ConstraintType) DOFRemoved() int {
	switch t {
	case Coincident, Concentric, Midpoint:
		return 2
	default:
		return 1
	}
}

// Constraint relates one or more primitives. Targets hold primitive IDs
// in the canonical operand order for the type (resolved at creation, so
// click order never matters downstream). Constraints drive the solver
// and the DOF count unless marked Reference, in which case they are
// annotations only.
type Constraint struct {
	ID        int            `json:"id"`
	Type      ConstraintType `json:"type"`
	Targets   []int          `json:"targets"`
	Value     float64        `json:"value,omitempty"`
	Reference bool           `json:"reference,omitempty"`
}

// Driving reports whether the constraint feeds the solver.
func (c Constraint) Driving() bool {
	return !c.Reference
}

// DOFRemoved returns the degrees of freedom this constraint removes. An
// equal constraint over k targets chains k-1 pairings; every other type
// costs its per-pair figure.
func (c Constraint) DOFRemoved() int {
	if c.Type == Equal && len(c.Targets) > 2 {
		return len(c.Targets) - 1
	}
	return c.Type.DOFRemoved()
}
