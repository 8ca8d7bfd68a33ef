package editor

import (
	"math"

	"drafter/geometry"
	"drafter/sketch"
)

// Measured passed as the value of a dimensional constraint takes the
// current measurement of each target instead of a typed-in number.
var Measured = math.NaN()

// ApplyConstraint authors a constraint over the current selection.
// Horizontal, vertical, radius and diameter fan out one constraint per
// applicable primitive; pointOnLine resolves the nearest line;
// pointOnCircle and tangent type-match their operands independent of
// selection order. On any rejection the sketch is unchanged and the
// error describes the first offending part.
func (e *Editor) ApplyConstraint(t sketch.ConstraintType, value float64) error {
	ids := e.selection
	if len(ids) == 0 {
		return &sketch.ConstraintError{Type: t, Reason: sketch.InapplicableSelection, Detail: "empty selection"}
	}

	switch t {
	case sketch.Horizontal, sketch.Vertical, sketch.Radius, sketch.Diameter:
		return e.fanOut(t, value, ids)

	case sketch.PointOnLine:
		if len(ids) > 2 {
			c, err := e.sk.ResolvePointOnLine(ids)
			if err != nil {
				return err
			}
			return e.addAndSolve(c)
		}
		return e.applySingle(t, value, ids)

	case sketch.PointOnCircle, sketch.Tangent:
		if len(ids) > 2 {
			targets, err := e.resolveCurvePair(t, ids)
			if err != nil {
				return err
			}
			return e.applySingle(t, value, targets)
		}
		return e.applySingle(t, value, ids)

	default:
		return e.applySingle(t, value, ids)
	}
}

// applySingle authors one constraint over explicit targets, measuring
// the value when asked to.
func (e *Editor) applySingle(t sketch.ConstraintType, value float64, targets []int) error {
	if t.HasValue() && math.IsNaN(value) {
		measured, err := e.sk.MeasuredValue(t, targets...)
		if err != nil {
			return &sketch.ConstraintError{Type: t, Reason: sketch.InapplicableSelection, Detail: err.Error()}
		}
		value = measured
	}
	return e.addAndSolve(sketch.Constraint{Type: t, Targets: append([]int(nil), targets...), Value: value})
}

func (e *Editor) addAndSolve(c sketch.Constraint) error {
	next, _, err := e.sk.AddConstraint(c)
	if err != nil {
		return err
	}
	e.sk = next
	e.requestSolve()
	return nil
}

// fanOut emits one single-target constraint per applicable selected
// primitive. Inapplicable members are skipped; if nothing applies the
// first rejection is returned and the sketch is unchanged.
func (e *Editor) fanOut(t sketch.ConstraintType, value float64, ids []int) error {
	next := e.sk
	applied := 0
	var firstErr error
	fail := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	for _, c := range sketch.PerPrimitive(t, ids, value) {
		if t.HasValue() && math.IsNaN(c.Value) {
			measured, err := next.MeasuredValue(t, c.Targets...)
			if err != nil {
				fail(&sketch.ConstraintError{Type: t, Reason: sketch.InapplicableSelection, Detail: err.Error()})
				continue
			}
			c.Value = measured
		}
		out, _, err := next.AddConstraint(c)
		if err != nil {
			fail(err)
			continue
		}
		next = out
		applied++
	}

	if applied == 0 {
		if firstErr != nil {
			return firstErr
		}
		return &sketch.ConstraintError{Type: t, Reason: sketch.InapplicableSelection, Detail: "nothing applicable selected"}
	}
	e.sk = next
	e.requestSolve()
	return nil
}

// resolveCurvePair reduces a larger selection to the two operands of a
// pointOnCircle or tangent constraint: the single point or line plus
// the geometrically nearest circle or arc, independent of selection
// order. Two curves and nothing else resolve to a curve-curve tangent.
func (e *Editor) resolveCurvePair(t sketch.ConstraintType, ids []int) ([]int, error) {
	fail := func(detail string) ([]int, error) {
		return nil, &sketch.ConstraintError{Type: t, Reason: sketch.InapplicableSelection, Detail: detail}
	}

	anchor := 0
	var curves []int
	for _, id := range ids {
		p, ok := e.sk.Primitive(id)
		if !ok {
			return nil, &sketch.ConstraintError{Type: t, Reason: sketch.UnknownTarget}
		}
		switch p.(type) {
		case sketch.Point:
			if t != sketch.PointOnCircle {
				return fail("a point is not usable here")
			}
			if anchor != 0 {
				return fail("more than one point selected")
			}
			anchor = id
		case sketch.Line:
			if t != sketch.Tangent {
				return fail("a line is not usable here")
			}
			if anchor != 0 {
				return fail("more than one line selected")
			}
			anchor = id
		case sketch.Circle, sketch.Arc:
			curves = append(curves, id)
		}
	}

	if anchor == 0 {
		if t == sketch.Tangent && len(curves) == 2 {
			return curves, nil
		}
		return fail("no usable anchor selected")
	}
	if len(curves) == 0 {
		return fail("no circle or arc selected")
	}

	best := curves[0]
	bestDist := math.Inf(1)
	for _, id := range curves {
		d := e.curveDistance(anchor, id)
		if d < bestDist {
			best = id
			bestDist = d
		}
	}
	return []int{anchor, best}, nil
}

// curveDistance measures how far the anchor primitive currently is
// from lying on or tangent to a curve.
func (e *Editor) curveDistance(anchorID, curveID int) float64 {
	center, radius, ok := e.curveGeometry(curveID)
	if !ok {
		return math.Inf(1)
	}

	if p, ok := e.sk.Point(anchorID); ok {
		return math.Abs(geometry.V(p.X, p.Y).Dist(center) - radius)
	}
	if l, ok := e.sk.Line(anchorID); ok {
		a, _ := e.sk.Pos(l.P1)
		b, _ := e.sk.Pos(l.P2)
		return math.Abs(math.Abs(geometry.PointLineDistance(center, a, b)) - radius)
	}
	return math.Inf(1)
}

func (e *Editor) curveGeometry(id int) (geometry.Vec, float64, bool) {
	if c, ok := e.sk.Circle(id); ok {
		center, _ := e.sk.Pos(c.Center)
		return center, c.Radius, true
	}
	if a, ok := e.sk.Arc(id); ok {
		center, _ := e.sk.Pos(a.Center)
		return center, e.sk.ArcRadius(a), true
	}
	return geometry.Vec{}, 0, false
}

// RemoveConstraint deletes a constraint and re-solves, the recovery
// path after a redundant or conflicting authoring step.
func (e *Editor) RemoveConstraint(id int) error {
	next, err := e.sk.RemoveConstraint(id)
	if err != nil {
		return err
	}
	e.sk = next
	e.requestSolve()
	return nil
}

// DeleteSelection removes the selected primitives where possible.
// Points still referenced by other primitives survive.
func (e *Editor) DeleteSelection() {
	next := e.sk
	removed := false
	for _, id := range e.selection {
		out, err := next.RemovePrimitive(id)
		if err != nil {
			continue
		}
		next = out
		removed = true
	}
	if !removed {
		return
	}
	e.sk = next
	e.selection = nil
	e.requestSolve()
}
