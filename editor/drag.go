package editor

import (
	"math"

	"drafter/geometry"
	"drafter/sketch"
)

// selectDown either picks a primitive or, when the press lands on an
// already-selected one, begins dragging its connected component.
func (e *Editor) selectDown(pos geometry.Vec) {
	id, ok := e.hitTest(pos)
	if !ok {
		e.selection = nil
		return
	}
	if e.isSelected(id) {
		e.startDrag(id, pos)
		return
	}
	e.selection = []int{id}
}

// ToggleSelect adds the primitive under the cursor to the selection or
// removes it, for building multi-primitive selections.
func (e *Editor) ToggleSelect(pos geometry.Vec) {
	id, ok := e.hitTest(pos)
	if !ok {
		return
	}
	for i, sel := range e.selection {
		if sel == id {
			e.selection = append(e.selection[:i], e.selection[i+1:]...)
			return
		}
	}
	e.selection = append(e.selection, id)
}

func (e *Editor) isSelected(id int) bool {
	for _, sel := range e.selection {
		if sel == id {
			return true
		}
	}
	return false
}

// hitTest returns the primitive nearest the position within the pick
// radius. Exact ties keep the earliest primitive, so a point wins over
// the line drawn through it.
func (e *Editor) hitTest(pos geometry.Vec) (int, bool) {
	bestID := 0
	bestDist := math.Inf(1)
	found := false
	for _, p := range e.sk.Primitives {
		d := e.distanceTo(pos, p)
		if d <= e.opts.PickRadius && d < bestDist {
			bestID = p.PrimID()
			bestDist = d
			found = true
		}
	}
	return bestID, found
}

// distanceTo measures how far the position is from a primitive's
// visible geometry.
func (e *Editor) distanceTo(pos geometry.Vec, p sketch.Primitive) float64 {
	switch v := p.(type) {
	case sketch.Point:
		return pos.Dist(geometry.V(v.X, v.Y))
	case sketch.Line:
		a, _ := e.sk.Pos(v.P1)
		b, _ := e.sk.Pos(v.P2)
		return geometry.PointSegmentDistance(pos, a, b)
	case sketch.Circle:
		c, _ := e.sk.Pos(v.Center)
		return math.Abs(pos.Dist(c) - v.Radius)
	case sketch.Arc:
		c, _ := e.sk.Pos(v.Center)
		s, _ := e.sk.Pos(v.Start)
		en, _ := e.sk.Pos(v.End)
		from, sweep := geometry.ArcSweep(c, s, en)
		if geometry.AngleOnSweep(from, sweep, pos.Sub(c).Angle()) {
			return math.Abs(pos.Dist(c) - s.Dist(c))
		}
		return math.Min(pos.Dist(s), pos.Dist(en))
	}
	return math.Inf(1)
}

// startDrag captures the moving set: every free point of the clicked
// primitive's connected component moves with the cursor, and every
// outside point tied in by a constraint is temporarily fixed so the
// solver adjusts the dragged geometry rather than hauling in the rest.
func (e *Editor) startDrag(id int, pos geometry.Vec) {
	adj := e.sk.Adjacency()
	component := adj.ConnectedComponent(id)

	e.dragPoints = e.dragPoints[:0]
	e.dragOrig = make(map[int]geometry.Vec)
	for _, pid := range adj.PointsOf(component) {
		p, ok := e.sk.Point(pid)
		if !ok || p.Fixed {
			continue // permanent anchors stay put
		}
		e.dragPoints = append(e.dragPoints, pid)
		e.dragOrig[pid] = geometry.V(p.X, p.Y)
	}
	if len(e.dragPoints) == 0 {
		return
	}

	e.tempFixed = e.tempFixed[:0]
	next := e.sk
	for _, pid := range e.sk.ConstraintAttachedPoints(component) {
		p, ok := next.Point(pid)
		if !ok || p.Fixed {
			continue // already an anchor; must stay one after release
		}
		fixed, err := next.SetFixed(pid, true)
		if err != nil {
			continue
		}
		next = fixed
		e.tempFixed = append(e.tempFixed, pid)
	}

	e.sk = next
	e.dragActive = true
	e.dragStart = pos
}

// dragMove applies the cursor delta to the gesture-start coordinates in
// one batch and requests a coalesced solve.
func (e *Editor) dragMove(pos geometry.Vec) {
	delta := pos.Sub(e.dragStart)
	moves := make(map[int]geometry.Vec, len(e.dragPoints))
	for _, pid := range e.dragPoints {
		moves[pid] = e.dragOrig[pid].Add(delta)
	}
	next, err := e.sk.UpdatePoints(moves)
	if err != nil {
		return
	}
	e.sk = next
	e.requestSolve()
}

// dragUp releases the drag: temporary anchors are cleared and a final
// solve settles the geometry.
func (e *Editor) dragUp() {
	next := e.sk
	for _, pid := range e.tempFixed {
		if cleared, err := next.SetFixed(pid, false); err == nil {
			next = cleared
		}
	}
	e.sk = next
	e.clearDrag()
	e.requestSolve()
}

// cancelDrag restores the gesture-start coordinates before releasing,
// so Escape aborts the move instead of committing it.
func (e *Editor) cancelDrag() {
	moves := make(map[int]geometry.Vec, len(e.dragPoints))
	for _, pid := range e.dragPoints {
		moves[pid] = e.dragOrig[pid]
	}
	if next, err := e.sk.UpdatePoints(moves); err == nil {
		e.sk = next
	}
	e.dragUp()
}

func (e *Editor) clearDrag() {
	e.dragActive = false
	e.dragPoints = nil
	e.dragOrig = nil
	e.tempFixed = nil
}
