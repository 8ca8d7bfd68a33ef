package sketch

import (
	"fmt"

	"drafter/geometry"

	"github.com/google/uuid"
)

// Sketch is a complete 2D parametric sketch: primitives, constraints
// and derived bookkeeping. All operations are value-pure: they return a
// new Sketch and never mutate the receiver, so callers can hold on to
// earlier values and compare revisions to discard stale solver results.
type Sketch struct {
	ID          uuid.UUID    `json:"id"`
	Plane       Plane        `json:"plane"`
	Revision    uint64       `json:"revision"`
	Primitives  []Primitive  `json:"primitives"`
	Constraints []Constraint `json:"constraints"`

	// DOF and Status are refreshed by every mutating operation. They
	// are advisory; the solver outcome is authoritative.
	DOF    int    `json:"dof"`
	Status Status `json:"status"`

	nextID int
}

// New creates an empty sketch on the given plane.
func New(plane Plane) *Sketch {
	s := &Sketch{
		ID:     uuid.New(),
		Plane:  plane,
		nextID: 1,
	}
	s.refreshDOF()
	return s
}

// Clone creates a deep copy of the sketch. Primitive values contain
// only scalars, so copying the slice copies them fully; constraint
// target slices need their own copies.
func (s *Sketch) Clone() *Sketch {
	if s == nil {
		return nil
	}

	clone := &Sketch{
		ID:          s.ID,
		Plane:       s.Plane,
		Revision:    s.Revision,
		Primitives:  make([]Primitive, len(s.Primitives)),
		Constraints: make([]Constraint, len(s.Constraints)),
		DOF:         s.DOF,
		Status:      s.Status,
		nextID:      s.nextID,
	}
	copy(clone.Primitives, s.Primitives)
	for i, c := range s.Constraints {
		targets := make([]int, len(c.Targets))
		copy(targets, c.Targets)
		clone.Constraints[i] = Constraint{
			ID:        c.ID,
			Type:      c.Type,
			Targets:   targets,
			Value:     c.Value,
			Reference: c.Reference,
		}
	}
	return clone
}

// mutate clones the sketch and bumps its revision; every mutating
// operation goes through it.
func (s *Sketch) mutate() *Sketch {
	next := s.Clone()
	next.Revision++
	return next
}

// allocID hands out the next primitive/constraint id.
func (s *Sketch) allocID() int {
	id := s.nextID
	s.nextID++
	return id
}

// Primitive returns the primitive with the given id.
func (s *Sketch) Primitive(id int) (Primitive, bool) {
	for _, p := range s.Primitives {
		if p.PrimID() == id {
			return p, true
		}
	}
	return nil, false
}

// Point returns the point primitive with the given id.
func (s *Sketch) Point(id int) (Point, bool) {
	if p, ok := s.Primitive(id); ok {
		if pt, ok := p.(Point); ok {
			return pt, true
		}
	}
	return Point{}, false
}

// Line returns the line primitive with the given id.
func (s *Sketch) Line(id int) (Line, bool) {
	if p, ok := s.Primitive(id); ok {
		if l, ok := p.(Line); ok {
			return l, true
		}
	}
	return Line{}, false
}

// Circle returns the circle primitive with the given id.
func (s *Sketch) Circle(id int) (Circle, bool) {
	if p, ok := s.Primitive(id); ok {
		if c, ok := p.(Circle); ok {
			return c, true
		}
	}
	return Circle{}, false
}

// Arc returns the arc primitive with the given id.
func (s *Sketch) Arc(id int) (Arc, bool) {
	if p, ok := s.Primitive(id); ok {
		if a, ok := p.(Arc); ok {
			return a, true
		}
	}
	return Arc{}, false
}

// Constraint returns the constraint with the given id.
func (s *Sketch) Constraint(id int) (Constraint, bool) {
	for _, c := range s.Constraints {
		if c.ID == id {
			return c, true
		}
	}
	return Constraint{}, false
}

// Pos returns the position of the point with the given id.
func (s *Sketch) Pos(id int) (geometry.Vec, bool) {
	pt, ok := s.Point(id)
	if !ok {
		return geometry.Vec{}, false
	}
	return geometry.V(pt.X, pt.Y), true
}

// ArcRadius returns the radius of an arc, derived from its center and
// start points. Unknown references yield zero.
func (s *Sketch) ArcRadius(a Arc) float64 {
	c, ok1 := s.Pos(a.Center)
	st, ok2 := s.Pos(a.Start)
	if !ok1 || !ok2 {
		return 0
	}
	return c.Dist(st)
}

// AddPoint appends a new free point and returns its id.
func (s *Sketch) AddPoint(x, y float64) (*Sketch, int) {
	next := s.mutate()
	id := next.allocID()
	next.Primitives = append(next.Primitives, Point{ID: id, X: x, Y: y})
	next.refreshDOF()
	return next, id
}

// AddFixedPoint appends an anchored point the solver will never move.
func (s *Sketch) AddFixedPoint(x, y float64) (*Sketch, int) {
	next := s.mutate()
	id := next.allocID()
	next.Primitives = append(next.Primitives, Point{ID: id, X: x, Y: y, Fixed: true})
	next.refreshDOF()
	return next, id
}

// GetOrCreatePoint returns the id of an existing point within eps of
// the given position, or creates a new point there. The sketch is
// returned unchanged when an existing point is reused; insertion order
// decides ties.
func (s *Sketch) GetOrCreatePoint(x, y, eps float64) (*Sketch, int) {
	target := geometry.V(x, y)
	for _, p := range s.Primitives {
		if pt, ok := p.(Point); ok {
			if geometry.V(pt.X, pt.Y).Dist(target) <= eps {
				return s, pt.ID
			}
		}
	}
	return s.AddPoint(x, y)
}

// AddLine appends a line between two existing points.
func (s *Sketch) AddLine(p1, p2 int) (*Sketch, int, error) {
	if err := s.requirePoints(p1, p2); err != nil {
		return s, 0, err
	}
	next := s.mutate()
	id := next.allocID()
	next.Primitives = append(next.Primitives, Line{ID: id, P1: p1, P2: p2})
	next.refreshDOF()
	return next, id, nil
}

// AddCircle appends a circle around an existing center point. Negative
// radii are rejected.
func (s *Sketch) AddCircle(center int, radius float64) (*Sketch, int, error) {
	if err := s.requirePoints(center); err != nil {
		return s, 0, err
	}
	if radius < 0 {
		return s, 0, fmt.Errorf("circle radius must not be negative, got %g", radius)
	}
	next := s.mutate()
	id := next.allocID()
	next.Primitives = append(next.Primitives, Circle{ID: id, Center: center, Radius: radius})
	next.refreshDOF()
	return next, id, nil
}

// AddArc appends an arc over three existing points (center, start,
// end).
func (s *Sketch) AddArc(center, start, end int) (*Sketch, int, error) {
	if err := s.requirePoints(center, start, end); err != nil {
		return s, 0, err
	}
	next := s.mutate()
	id := next.allocID()
	next.Primitives = append(next.Primitives, Arc{ID: id, Center: center, Start: start, End: end})
	next.refreshDOF()
	return next, id, nil
}

// requirePoints verifies that every id resolves to a point primitive.
func (s *Sketch) requirePoints(ids ...int) error {
	for _, id := range ids {
		if _, ok := s.Point(id); !ok {
			return fmt.Errorf("%w: %d is not a point", ErrUnknownPrimitive, id)
		}
	}
	return nil
}

// RemovePrimitive removes a primitive and every constraint that
// references it. Removing a point still used by a line, circle or arc
// fails with ErrPrimitiveInUse; remove the owning geometry first.
func (s *Sketch) RemovePrimitive(id int) (*Sketch, error) {
	if _, ok := s.Primitive(id); !ok {
		return s, ErrUnknownPrimitive
	}
	for _, p := range s.Primitives {
		for _, ref := range pointRefs(p) {
			if ref == id {
				return s, fmt.Errorf("%w: point %d is used by %s %d", ErrPrimitiveInUse, id, p.Kind(), p.PrimID())
			}
		}
	}

	next := s.mutate()
	kept := next.Primitives[:0]
	for _, p := range next.Primitives {
		if p.PrimID() != id {
			kept = append(kept, p)
		}
	}
	next.Primitives = kept

	keptC := next.Constraints[:0]
	for _, c := range next.Constraints {
		if !containsInt(c.Targets, id) {
			keptC = append(keptC, c)
		}
	}
	next.Constraints = keptC
	next.refreshDOF()
	return next, nil
}

// pointRefs returns the point ids a primitive references.
func pointRefs(p Primitive) []int {
	switch v := p.(type) {
	case Point:
		return nil
	case Line:
		return []int{v.P1, v.P2}
	case Circle:
		return []int{v.Center}
	case Arc:
		return []int{v.Center, v.Start, v.End}
	default:
		return nil
	}
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

// UpdatePoint writes new coordinates for a point.
func (s *Sketch) UpdatePoint(id int, x, y float64) (*Sketch, error) {
	if _, ok := s.Point(id); !ok {
		return s, ErrUnknownPrimitive
	}
	next := s.mutate()
	next.setPointPos(id, x, y)
	return next, nil
}

// UpdatePoints writes new coordinates for a batch of points in one
// revision step; drags use it to move whole components atomically.
func (s *Sketch) UpdatePoints(moves map[int]geometry.Vec) (*Sketch, error) {
	for id := range moves {
		if _, ok := s.Point(id); !ok {
			return s, fmt.Errorf("%w: %d", ErrUnknownPrimitive, id)
		}
	}
	next := s.mutate()
	for id, pos := range moves {
		next.setPointPos(id, pos.X, pos.Y)
	}
	return next, nil
}

// SetFixed sets or clears the anchored flag on a point.
func (s *Sketch) SetFixed(id int, fixed bool) (*Sketch, error) {
	idx := -1
	for i, p := range s.Primitives {
		if pt, ok := p.(Point); ok && pt.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, ErrUnknownPrimitive
	}
	next := s.mutate()
	pt := next.Primitives[idx].(Point)
	pt.Fixed = fixed
	next.Primitives[idx] = pt
	next.refreshDOF()
	return next, nil
}

// SetCircleRadius writes a new radius for a circle. Negative radii are
// rejected.
func (s *Sketch) SetCircleRadius(id int, radius float64) (*Sketch, error) {
	if radius < 0 {
		return s, fmt.Errorf("circle radius must not be negative, got %g", radius)
	}
	idx := -1
	for i, p := range s.Primitives {
		if c, ok := p.(Circle); ok && c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s, ErrUnknownPrimitive
	}
	next := s.mutate()
	c := next.Primitives[idx].(Circle)
	c.Radius = radius
	next.Primitives[idx] = c
	return next, nil
}

// setPointPos updates a point in place on an already-cloned sketch.
func (s *Sketch) setPointPos(id int, x, y float64) {
	for i, p := range s.Primitives {
		if pt, ok := p.(Point); ok && pt.ID == id {
			pt.X = x
			pt.Y = y
			s.Primitives[i] = pt
			return
		}
	}
}

// Points returns all point primitives in insertion order.
func (s *Sketch) Points() []Point {
	var pts []Point
	for _, p := range s.Primitives {
		if pt, ok := p.(Point); ok {
			pts = append(pts, pt)
		}
	}
	return pts
}

// FreePointCount returns the number of points the solver may move.
func (s *Sketch) FreePointCount() int {
	n := 0
	for _, p := range s.Primitives {
		if pt, ok := p.(Point); ok && !pt.Fixed {
			n++
		}
	}
	return n
}
