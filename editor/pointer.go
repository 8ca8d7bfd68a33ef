package editor

import (
	"time"

	"drafter/geometry"
	"drafter/infer"
	"drafter/sketch"
)

// minCircleRadius rejects release-without-drag circles; anything this
// small is pointer noise, not an intentional circle.
const minCircleRadius = 0.1

// PointerDown feeds a press in plane coordinates to the active tool.
func (e *Editor) PointerDown(pos geometry.Vec, at time.Time) {
	e.cursor = pos
	switch e.tool {
	case ToolSelect:
		e.selectDown(pos)
	case ToolPoint:
		e.pointDown(pos)
	case ToolLine:
		e.lineDown(pos, at)
	case ToolCircle:
		e.circleDown(pos)
	case ToolArc:
		e.arcDown(pos)
	}
}

// PointerMove tracks the cursor for previews, grows the circle being
// dragged and moves an active drag.
func (e *Editor) PointerMove(pos geometry.Vec) {
	e.cursor = pos
	if e.circleActive {
		e.circleRadius = pos.Dist(e.circleCenter)
	}
	if e.dragActive {
		e.dragMove(pos)
	}
}

// PointerUp completes press-drag gestures: circle commit and drag
// release.
func (e *Editor) PointerUp(pos geometry.Vec) {
	e.cursor = pos
	if e.circleActive {
		e.circleUp()
	}
	if e.dragActive {
		e.dragUp()
	}
}

// pointDown commits a point at the snapped position. Clicking an
// existing point changes nothing.
func (e *Editor) pointDown(pos geometry.Vec) {
	snapped := e.snap(pos)
	next, _ := e.sk.GetOrCreatePoint(snapped.X, snapped.Y, coincidentEps)
	if next == e.sk {
		return
	}
	e.sk = next
	e.requestSolve()
}

// lineDown advances the chaining automaton: first click anchors,
// later clicks commit segments and re-anchor, a quick second click
// ends the chain.
func (e *Editor) lineDown(pos geometry.Vec, at time.Time) {
	if e.chainActive && at.Sub(e.lastClick) <= e.opts.DoubleClick {
		e.lastClick = at
		e.chainActive = false
		e.chainPoint = 0
		return
	}
	e.lastClick = at

	snapped := e.snap(pos)
	if !e.chainActive {
		e.chainActive = true
		e.chainPoint = 0
		e.chainAnchor = snapped
		return
	}
	if snapped.Dist(e.chainAnchor) <= coincidentEps {
		return // zero-length segment; stay anchored
	}
	e.commitChainSegment(snapped)
}

// commitChainSegment creates the line from the anchor to end, attaches
// an automatic horizontal/vertical constraint when the segment is
// near-axis, and re-anchors the chain at the new endpoint.
func (e *Editor) commitChainSegment(end geometry.Vec) {
	next := e.sk
	p1 := e.chainPoint
	if p1 == 0 {
		next, p1 = next.GetOrCreatePoint(e.chainAnchor.X, e.chainAnchor.Y, coincidentEps)
	}
	var p2 int
	next, p2 = next.GetOrCreatePoint(end.X, end.Y, coincidentEps)
	if p1 == p2 {
		return
	}

	next, lineID, err := next.AddLine(p1, p2)
	if err != nil {
		return
	}
	start, _ := next.Pos(p1)
	if typ, ok := infer.AxisAlignment(start, end, e.opts.AngleTolerance); ok {
		if constrained, _, err := next.AddConstraint(sketch.Constraint{Type: typ, Targets: []int{lineID}}); err == nil {
			next = constrained
		}
	}

	e.sk = next
	e.chainPoint = p2
	e.chainAnchor = end
	e.requestSolve()
}

// circleDown fixes the center and starts the radius drag.
func (e *Editor) circleDown(pos geometry.Vec) {
	e.circleActive = true
	e.circleCenter = e.snap(pos)
	e.circleRadius = 0
}

// circleUp commits the dragged circle when it grew past the minimum
// radius, otherwise drops it silently.
func (e *Editor) circleUp() {
	e.circleActive = false
	if e.circleRadius <= minCircleRadius {
		return
	}
	next, center := e.sk.GetOrCreatePoint(e.circleCenter.X, e.circleCenter.Y, coincidentEps)
	next, _, err := next.AddCircle(center, e.circleRadius)
	if err != nil {
		return
	}
	e.sk = next
	e.requestSolve()
}

// arcDown collects the start, end and bulge clicks; the third click
// commits through the circumcenter. Collinear clicks keep the automaton
// waiting for a usable bulge.
func (e *Editor) arcDown(pos geometry.Vec) {
	snapped := e.snap(pos)
	if len(e.arcClicks) < 2 {
		e.arcClicks = append(e.arcClicks, snapped)
		return
	}

	start, end, bulge := e.arcClicks[0], e.arcClicks[1], snapped
	center, ok := geometry.Circumcenter(start, end, bulge)
	if !ok {
		return
	}

	// Orient the arc so it passes through the bulge click
	from, sweep := geometry.ArcSweep(center, start, end)
	if !geometry.AngleOnSweep(from, sweep, bulge.Sub(center).Angle()) {
		start, end = end, start
	}

	next, c := e.sk.GetOrCreatePoint(center.X, center.Y, coincidentEps)
	next, s := next.GetOrCreatePoint(start.X, start.Y, coincidentEps)
	next, en := next.GetOrCreatePoint(end.X, end.Y, coincidentEps)
	if c == s || c == en || s == en {
		return
	}
	next, _, err := next.AddArc(c, s, en)
	if err != nil {
		return
	}

	e.sk = next
	e.arcClicks = nil
	e.requestSolve()
}
