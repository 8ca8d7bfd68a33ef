// Package infer proposes snap candidates and alignment guidelines for
// interactive authoring. It is read-only over a sketch and independent
// of solving: candidates are rebuilt per sketch revision, then queried
// cheaply against every pointer move.
package infer

import (
	"math"

	"drafter/geometry"
	"drafter/sketch"
)

// SnapKind classifies what feature of a primitive a candidate marks.
type SnapKind int

const (
	SnapEndpoint SnapKind = iota
	SnapMidpoint
	SnapCenter
	SnapQuadrant
	SnapIntersection
)

// String returns a human-readable snap kind name.
func (k SnapKind) String() string {
	switch k {
	case SnapEndpoint:
		return "endpoint"
	case SnapMidpoint:
		return "midpoint"
	case SnapCenter:
		return "center"
	case SnapQuadrant:
		return "quadrant"
	case SnapIntersection:
		return "intersection"
	default:
		return "unknown"
	}
}

// Candidate is one snappable position. Owner is the id of the primitive
// the feature belongs to; intersection candidates carry the first of
// the two primitives involved.
type Candidate struct {
	Pos   geometry.Vec
	Kind  SnapKind
	Owner int
}

// DefaultSnapRadius is the pick distance for snapping, in plane units.
const DefaultSnapRadius = 0.4

var quadrantDirs = []geometry.Vec{{X: 1}, {Y: 1}, {X: -1}, {Y: -1}}

// Candidates builds the snap candidates for a sketch: feature points of
// every primitive in insertion order, then pairwise intersections. The
// order is stable for a given sketch, which makes snap tie-breaking
// deterministic.
func Candidates(sk *sketch.Sketch) []Candidate {
	referenced := referencedPoints(sk)

	var out []Candidate
	add := func(pos geometry.Vec, kind SnapKind, owner int) {
		out = append(out, Candidate{Pos: pos, Kind: kind, Owner: owner})
	}

	for _, p := range sk.Primitives {
		switch v := p.(type) {
		case sketch.Point:
			// Points owned by a line, circle or arc are reachable
			// through that primitive's own candidates
			if !referenced[v.ID] {
				add(geometry.V(v.X, v.Y), SnapEndpoint, v.ID)
			}

		case sketch.Line:
			a, _ := sk.Pos(v.P1)
			b, _ := sk.Pos(v.P2)
			add(a, SnapEndpoint, v.ID)
			add(b, SnapEndpoint, v.ID)
			add(a.Mid(b), SnapMidpoint, v.ID)

		case sketch.Circle:
			c, _ := sk.Pos(v.Center)
			add(c, SnapCenter, v.ID)
			for _, q := range quadrantDirs {
				add(c.Add(q.Scale(v.Radius)), SnapQuadrant, v.ID)
			}

		case sketch.Arc:
			c, _ := sk.Pos(v.Center)
			s, _ := sk.Pos(v.Start)
			e, _ := sk.Pos(v.End)
			r := s.Dist(c)
			add(c, SnapCenter, v.ID)
			add(s, SnapEndpoint, v.ID)
			add(e, SnapEndpoint, v.ID)
			from, sweep := geometry.ArcSweep(c, s, e)
			add(c.Add(geometry.Dir(from+sweep/2).Scale(r)), SnapMidpoint, v.ID)
			for i, q := range quadrantDirs {
				if geometry.AngleOnSweep(from, sweep, float64(i)*math.Pi/2) {
					add(c.Add(q.Scale(r)), SnapQuadrant, v.ID)
				}
			}
		}
	}

	addIntersections(sk, add)
	return out
}

// referencedPoints collects the ids of points owned by a line, circle
// or arc.
func referencedPoints(sk *sketch.Sketch) map[int]bool {
	referenced := make(map[int]bool)
	for _, p := range sk.Primitives {
		switch v := p.(type) {
		case sketch.Line:
			referenced[v.P1] = true
			referenced[v.P2] = true
		case sketch.Circle:
			referenced[v.Center] = true
		case sketch.Arc:
			referenced[v.Center] = true
			referenced[v.Start] = true
			referenced[v.End] = true
		}
	}
	return referenced
}

// addIntersections emits a candidate for every line/line, line/circle
// and circle/circle crossing, walking primitive pairs in insertion
// order.
func addIntersections(sk *sketch.Sketch, add func(geometry.Vec, SnapKind, int)) {
	prims := sk.Primitives
	for i := 0; i < len(prims); i++ {
		for j := i + 1; j < len(prims); j++ {
			if sharedJoint(prims[i], prims[j]) {
				// A shared endpoint is already an endpoint candidate
				continue
			}
			for _, pos := range crossings(sk, prims[i], prims[j]) {
				add(pos, SnapIntersection, prims[i].PrimID())
			}
		}
	}
}

// sharedJoint reports whether two lines are joined at a common point
// id.
func sharedJoint(p, q sketch.Primitive) bool {
	l1, ok1 := p.(sketch.Line)
	l2, ok2 := q.(sketch.Line)
	if !ok1 || !ok2 {
		return false
	}
	return l1.P1 == l2.P1 || l1.P1 == l2.P2 || l1.P2 == l2.P1 || l1.P2 == l2.P2
}

// crossings returns the intersection points of two primitives. Points
// and arcs contribute no intersection candidates.
func crossings(sk *sketch.Sketch, p, q sketch.Primitive) []geometry.Vec {
	switch a := p.(type) {
	case sketch.Line:
		a1, _ := sk.Pos(a.P1)
		a2, _ := sk.Pos(a.P2)
		switch b := q.(type) {
		case sketch.Line:
			b1, _ := sk.Pos(b.P1)
			b2, _ := sk.Pos(b.P2)
			if hit, ok := geometry.SegmentIntersection(a1, a2, b1, b2); ok {
				return []geometry.Vec{hit}
			}
		case sketch.Circle:
			c, _ := sk.Pos(b.Center)
			return geometry.SegmentCircleIntersections(a1, a2, c, b.Radius)
		}
	case sketch.Circle:
		ca, _ := sk.Pos(a.Center)
		switch b := q.(type) {
		case sketch.Line:
			b1, _ := sk.Pos(b.P1)
			b2, _ := sk.Pos(b.P2)
			return geometry.SegmentCircleIntersections(b1, b2, ca, a.Radius)
		case sketch.Circle:
			cb, _ := sk.Pos(b.Center)
			return geometry.CircleCircleIntersections(ca, a.Radius, cb, b.Radius)
		}
	}
	return nil
}

// NearestSnap returns the candidate closest to the cursor within
// radius. Ties keep the earliest candidate in list order.
func NearestSnap(cursor geometry.Vec, cands []Candidate, radius float64) (Candidate, bool) {
	if radius <= 0 {
		radius = DefaultSnapRadius
	}
	var best Candidate
	bestDist := math.Inf(1)
	found := false
	for _, c := range cands {
		d := c.Pos.Dist(cursor)
		if d <= radius && d < bestDist {
			best = c
			bestDist = d
			found = true
		}
	}
	return best, found
}
