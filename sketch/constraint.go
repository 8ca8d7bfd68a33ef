package sketch

import (
	"fmt"

	"drafter/geometry"
)

// AddConstraint validates a constraint against the applicability rules
// and appends it. Targets may be given in any order; they are stored in
// canonical operand order (entity before line, line before circle). The
// sketch is unchanged when an error is returned.
func (s *Sketch) AddConstraint(c Constraint) (*Sketch, int, error) {
	for _, id := range c.Targets {
		if _, ok := s.Primitive(id); !ok {
			return s, 0, &ConstraintError{Type: c.Type, Reason: UnknownTarget, Detail: fmt.Sprintf("id %d", id)}
		}
	}
	if c.Type.HasValue() && c.Value < 0 {
		return s, 0, &ConstraintError{Type: c.Type, Reason: NegativeValue, Detail: fmt.Sprintf("%g", c.Value)}
	}

	canonical, err := s.canonicalTargets(c.Type, c.Targets)
	if err != nil {
		return s, 0, err
	}

	next := s.mutate()
	id := next.allocID()
	next.Constraints = append(next.Constraints, Constraint{
		ID:        id,
		Type:      c.Type,
		Targets:   canonical,
		Value:     c.Value,
		Reference: c.Reference,
	})
	next.refreshDOF()
	return next, id, nil
}

// RemoveConstraint removes the constraint with the given id.
func (s *Sketch) RemoveConstraint(id int) (*Sketch, error) {
	if _, ok := s.Constraint(id); !ok {
		return s, fmt.Errorf("unknown constraint id %d", id)
	}
	next := s.mutate()
	kept := next.Constraints[:0]
	for _, c := range next.Constraints {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	next.Constraints = kept
	next.refreshDOF()
	return next, nil
}

// canonicalTargets checks arity and kinds for a constraint type and
// returns the targets reordered into canonical operand order.
func (s *Sketch) canonicalTargets(t ConstraintType, targets []int) ([]int, error) {
	fail := func(format string, args ...interface{}) error {
		return &ConstraintError{Type: t, Reason: InapplicableSelection, Detail: fmt.Sprintf(format, args...)}
	}
	kind := func(id int) Kind {
		p, _ := s.Primitive(id)
		return p.Kind()
	}

	switch t {
	case Horizontal, Vertical:
		if len(targets) != 1 || kind(targets[0]) != KindLine {
			return nil, fail("needs one line")
		}
		return []int{targets[0]}, nil

	case Distance:
		if len(targets) == 1 && kind(targets[0]) == KindLine {
			return []int{targets[0]}, nil
		}
		if len(targets) == 2 && kind(targets[0]) == KindPoint && kind(targets[1]) == KindPoint && targets[0] != targets[1] {
			return []int{targets[0], targets[1]}, nil
		}
		return nil, fail("needs one line or two points")

	case Radius, Diameter:
		if len(targets) != 1 {
			return nil, fail("needs one circle or arc")
		}
		if k := kind(targets[0]); k != KindCircle && k != KindArc {
			return nil, fail("needs one circle or arc, got %s", k)
		}
		return []int{targets[0]}, nil

	case Coincident:
		if len(targets) != 2 || kind(targets[0]) != KindPoint || kind(targets[1]) != KindPoint || targets[0] == targets[1] {
			return nil, fail("needs two distinct points")
		}
		return []int{targets[0], targets[1]}, nil

	case Midpoint:
		pt, ln, ok := splitPair(targets, func(id int) bool { return kind(id) == KindPoint }, func(id int) bool { return kind(id) == KindLine })
		if !ok {
			return nil, fail("needs one point and one line")
		}
		return []int{pt, ln}, nil

	case Parallel, Perpendicular:
		if len(targets) != 2 || kind(targets[0]) != KindLine || kind(targets[1]) != KindLine || targets[0] == targets[1] {
			return nil, fail("needs two distinct lines")
		}
		return []int{targets[0], targets[1]}, nil

	case Equal:
		if len(targets) < 2 {
			return nil, fail("needs at least two primitives of the same kind")
		}
		k1 := kind(targets[0])
		if k1 == KindPoint {
			return nil, fail("needs lines, circles or arcs, got %s", k1)
		}
		seen := make(map[int]bool, len(targets))
		for _, id := range targets {
			if seen[id] {
				return nil, fail("primitive %d selected twice", id)
			}
			seen[id] = true
			if k := kind(id); k != k1 {
				return nil, fail("needs a same-kind set, got %s and %s", k1, k)
			}
		}
		return append([]int(nil), targets...), nil

	case Tangent:
		if len(targets) != 2 {
			return nil, fail("needs a line and a circle or arc, or two circles")
		}
		if ln, curve, ok := splitPair(targets,
			func(id int) bool { return kind(id) == KindLine },
			func(id int) bool { k := kind(id); return k == KindCircle || k == KindArc }); ok {
			return []int{ln, curve}, nil
		}
		if kind(targets[0]) == KindCircle && kind(targets[1]) == KindCircle && targets[0] != targets[1] {
			return []int{targets[0], targets[1]}, nil
		}
		return nil, fail("needs a line and a circle or arc, or two circles")

	case Concentric:
		if len(targets) != 2 || targets[0] == targets[1] {
			return nil, fail("needs two distinct circles or arcs")
		}
		for _, id := range targets {
			if k := kind(id); k != KindCircle && k != KindArc {
				return nil, fail("needs circles or arcs, got %s", k)
			}
		}
		return []int{targets[0], targets[1]}, nil

	case PointOnLine:
		ent, ln, ok := splitPair(targets,
			func(id int) bool { k := kind(id); return k == KindPoint || k == KindCircle },
			func(id int) bool { return kind(id) == KindLine })
		if !ok {
			return nil, fail("needs a point or circle and a line")
		}
		return []int{ent, ln}, nil

	case PointOnCircle:
		pt, curve, ok := splitPair(targets,
			func(id int) bool { return kind(id) == KindPoint },
			func(id int) bool { k := kind(id); return k == KindCircle || k == KindArc })
		if !ok {
			return nil, fail("needs a point and a circle or arc")
		}
		return []int{pt, curve}, nil

	default:
		return nil, fail("unknown constraint type")
	}
}

// PerPrimitive expands a multi-selection into one single-target
// constraint per primitive. Horizontal, vertical, radius and diameter
// over several primitives mean one constraint each, never a merged one;
// this builds that list for the caller to validate and add one by one.
func PerPrimitive(t ConstraintType, ids []int, value float64) []Constraint {
	out := make([]Constraint, 0, len(ids))
	for _, id := range ids {
		out = append(out, Constraint{Type: t, Targets: []int{id}, Value: value})
	}
	return out
}

// splitPair matches a two-element selection against two predicates in
// either order and returns the operands in (first, second) order.
func splitPair(targets []int, first, second func(int) bool) (int, int, bool) {
	if len(targets) != 2 {
		return 0, 0, false
	}
	a, b := targets[0], targets[1]
	if first(a) && second(b) {
		return a, b, true
	}
	if first(b) && second(a) {
		return b, a, true
	}
	return 0, 0, false
}

// ResolvePointOnLine builds a pointOnLine constraint from a selection
// holding one point (or circle) and any number of candidate lines. The
// chosen line is the one geometrically nearest the entity, measured by
// clamped point-to-segment distance, so selection order never matters.
func (s *Sketch) ResolvePointOnLine(ids []int) (Constraint, error) {
	fail := func(format string, args ...interface{}) (Constraint, error) {
		return Constraint{}, &ConstraintError{Type: PointOnLine, Reason: InapplicableSelection, Detail: fmt.Sprintf(format, args...)}
	}

	entity := 0
	var entityPos geometry.Vec
	var lines []int
	for _, id := range ids {
		p, ok := s.Primitive(id)
		if !ok {
			return Constraint{}, &ConstraintError{Type: PointOnLine, Reason: UnknownTarget, Detail: fmt.Sprintf("id %d", id)}
		}
		switch v := p.(type) {
		case Point:
			if entity != 0 {
				return fail("more than one point selected")
			}
			entity = v.ID
			entityPos = geometry.V(v.X, v.Y)
		case Circle:
			if entity != 0 {
				return fail("more than one point selected")
			}
			entity = v.ID
			entityPos, _ = s.Pos(v.Center)
		case Line:
			lines = append(lines, v.ID)
		default:
			return fail("%s not usable here", p.Kind())
		}
	}
	if entity == 0 || len(lines) == 0 {
		return fail("needs a point or circle plus at least one line")
	}

	best := lines[0]
	bestDist := s.segmentDistance(entityPos, lines[0])
	for _, id := range lines[1:] {
		if d := s.segmentDistance(entityPos, id); d < bestDist {
			best, bestDist = id, d
		}
	}
	return Constraint{Type: PointOnLine, Targets: []int{entity, best}}, nil
}

// segmentDistance returns the clamped point-to-segment distance from a
// position to a line primitive.
func (s *Sketch) segmentDistance(pos geometry.Vec, lineID int) float64 {
	l, ok := s.Line(lineID)
	if !ok {
		return 0
	}
	a, _ := s.Pos(l.P1)
	b, _ := s.Pos(l.P2)
	return geometry.PointSegmentDistance(pos, a, b)
}

// MeasuredValue returns the current dimension a value-carrying
// constraint on the primitive would read: segment length, point
// separation, radius or diameter.
func (s *Sketch) MeasuredValue(t ConstraintType, ids ...int) (float64, error) {
	switch t {
	case Distance:
		if len(ids) == 1 {
			l, ok := s.Line(ids[0])
			if !ok {
				return 0, ErrUnknownPrimitive
			}
			a, _ := s.Pos(l.P1)
			b, _ := s.Pos(l.P2)
			return a.Dist(b), nil
		}
		if len(ids) == 2 {
			a, ok1 := s.Pos(ids[0])
			b, ok2 := s.Pos(ids[1])
			if !ok1 || !ok2 {
				return 0, ErrUnknownPrimitive
			}
			return a.Dist(b), nil
		}
		return 0, fmt.Errorf("distance needs one line or two points")
	case Radius, Diameter:
		if len(ids) != 1 {
			return 0, fmt.Errorf("%s needs one circle or arc", t)
		}
		var r float64
		if c, ok := s.Circle(ids[0]); ok {
			r = c.Radius
		} else if a, ok := s.Arc(ids[0]); ok {
			r = s.ArcRadius(a)
		} else {
			return 0, ErrUnknownPrimitive
		}
		if t == Diameter {
			return 2 * r, nil
		}
		return r, nil
	default:
		return 0, fmt.Errorf("%s carries no value", t)
	}
}
