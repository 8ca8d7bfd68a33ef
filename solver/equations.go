package solver

import (
	"math"

	"drafter/geometry"
	"drafter/sketch"
)

// tiny floors divisors so zero-length geometry cannot produce Inf or
// NaN in a gradient.
const tiny = 1e-12

// equation is one scalar residual with its analytic gradient. The
// gradient accumulates into a dense row of the Jacobian; entries for
// fixed points are never written.
type equation struct {
	constraint int
	eval       func(x []float64) float64
	grad       func(x []float64, row []float64)
}

// system is a sketch compiled to solver form: the free-parameter layout
// plus one equation per scalar residual of every driving constraint.
type system struct {
	sk    *sketch.Sketch
	order []int       // free point ids in insertion order
	slot  map[int]int // point id -> base index into the parameter vector
	eqs   []equation
}

// compile applies the direct-write dimensions and builds the equation
// system for everything else. The returned system references its own
// private clone of the sketch.
func compile(sk *sketch.Sketch) *system {
	working := applyDimensions(sk)

	sys := &system{
		sk:   working,
		slot: make(map[int]int),
	}
	for _, p := range working.Primitives {
		if pt, ok := p.(sketch.Point); ok && !pt.Fixed {
			sys.slot[pt.ID] = 2 * len(sys.order)
			sys.order = append(sys.order, pt.ID)
		}
	}
	for _, c := range working.Constraints {
		if c.Driving() {
			sys.addConstraint(c)
		}
	}
	return sys
}

// applyDimensions writes circle radii demanded by radius, diameter and
// equal constraints straight into the model. Circle radii are not
// solver parameters, so these constraints act at compile time and
// contribute no equations; their arc counterparts stay in the equation
// system because arc radii derive from solvable points. The pass
// repeats until stable so equal chains pick up a dimension regardless
// of constraint order.
func applyDimensions(sk *sketch.Sketch) *sketch.Sketch {
	working := sk
	for pass := 0; pass <= len(sk.Constraints); pass++ {
		changed := false
		set := func(id int, r float64) {
			if c, ok := working.Circle(id); ok && c.Radius != r && r >= 0 {
				working, _ = working.SetCircleRadius(id, r)
				changed = true
			}
		}
		for _, c := range working.Constraints {
			if !c.Driving() {
				continue
			}
			switch c.Type {
			case sketch.Radius:
				set(c.Targets[0], c.Value)
			case sketch.Diameter:
				set(c.Targets[0], c.Value/2)
			case sketch.Equal:
				if c1, ok := working.Circle(c.Targets[0]); ok {
					for _, id := range c.Targets[1:] {
						if _, ok := working.Circle(id); ok {
							set(id, c1.Radius)
						}
					}
				}
			}
		}
		if !changed {
			break
		}
	}
	return working
}

// params returns the initial parameter vector from the sketch's current
// coordinates.
func (s *system) params() []float64 {
	x := make([]float64, 2*len(s.order))
	for i, id := range s.order {
		pos, _ := s.sk.Pos(id)
		x[2*i] = pos.X
		x[2*i+1] = pos.Y
	}
	return x
}

// pos reads a point's position from the parameter vector, falling back
// to the stored coordinates for fixed points.
func (s *system) pos(x []float64, id int) geometry.Vec {
	if base, ok := s.slot[id]; ok {
		return geometry.V(x[base], x[base+1])
	}
	pos, _ := s.sk.Pos(id)
	return pos
}

// addGrad accumulates a gradient contribution for a point, ignoring
// fixed points.
func (s *system) addGrad(row []float64, id int, gx, gy float64) {
	if base, ok := s.slot[id]; ok {
		row[base] += gx
		row[base+1] += gy
	}
}

// addConstraint translates one driving constraint into scalar
// equations. The switch is exhaustive over the constraint types; types
// that were applied at compile time add nothing.
func (s *system) addConstraint(c sketch.Constraint) {
	switch c.Type {
	case sketch.Horizontal:
		l, _ := s.sk.Line(c.Targets[0])
		s.axisDiff(c.ID, l.P1, l.P2, false)

	case sketch.Vertical:
		l, _ := s.sk.Line(c.Targets[0])
		s.axisDiff(c.ID, l.P1, l.P2, true)

	case sketch.Distance:
		if len(c.Targets) == 1 {
			l, _ := s.sk.Line(c.Targets[0])
			s.pointDistance(c.ID, l.P1, l.P2, c.Value)
		} else {
			s.pointDistance(c.ID, c.Targets[0], c.Targets[1], c.Value)
		}

	case sketch.Radius:
		if a, ok := s.sk.Arc(c.Targets[0]); ok {
			s.pointDistance(c.ID, a.Center, a.Start, c.Value)
		}

	case sketch.Diameter:
		if a, ok := s.sk.Arc(c.Targets[0]); ok {
			s.pointDistance(c.ID, a.Center, a.Start, c.Value/2)
		}

	case sketch.Coincident:
		s.coincident(c.ID, c.Targets[0], c.Targets[1])

	case sketch.Parallel:
		l1, _ := s.sk.Line(c.Targets[0])
		l2, _ := s.sk.Line(c.Targets[1])
		s.directionCross(c.ID, l1, l2)

	case sketch.Perpendicular:
		l1, _ := s.sk.Line(c.Targets[0])
		l2, _ := s.sk.Line(c.Targets[1])
		s.directionDot(c.ID, l1, l2)

	case sketch.Equal:
		for _, id := range c.Targets[1:] {
			s.equalLengths(c.ID, c.Targets[0], id)
		}

	case sketch.Tangent:
		if l, ok := s.sk.Line(c.Targets[0]); ok {
			s.lineCurveTangent(c.ID, l, c.Targets[1])
		} else {
			c1, _ := s.sk.Circle(c.Targets[0])
			c2, _ := s.sk.Circle(c.Targets[1])
			s.circleCircleTangent(c.ID, c1, c2)
		}

	case sketch.Concentric:
		s.coincident(c.ID, s.centerOf(c.Targets[0]), s.centerOf(c.Targets[1]))

	case sketch.Midpoint:
		l, _ := s.sk.Line(c.Targets[1])
		s.midpoint(c.ID, c.Targets[0], l)

	case sketch.PointOnLine:
		l, _ := s.sk.Line(c.Targets[1])
		entity := c.Targets[0]
		if circ, ok := s.sk.Circle(entity); ok {
			entity = circ.Center
		}
		s.pointLine(c.ID, entity, l)

	case sketch.PointOnCircle:
		s.pointOnCurve(c.ID, c.Targets[0], c.Targets[1])
	}
}

// centerOf resolves the center point id of a circle or arc primitive.
func (s *system) centerOf(id int) int {
	if c, ok := s.sk.Circle(id); ok {
		return c.Center
	}
	if a, ok := s.sk.Arc(id); ok {
		return a.Center
	}
	return 0
}

// axisDiff constrains two points to share a coordinate: y for
// horizontal lines, x for vertical ones.
func (s *system) axisDiff(cID, p1, p2 int, vertical bool) {
	s.eqs = append(s.eqs, equation{
		constraint: cID,
		eval: func(x []float64) float64 {
			a := s.pos(x, p1)
			b := s.pos(x, p2)
			if vertical {
				return b.X - a.X
			}
			return b.Y - a.Y
		},
		grad: func(x []float64, row []float64) {
			if vertical {
				s.addGrad(row, p2, 1, 0)
				s.addGrad(row, p1, -1, 0)
			} else {
				s.addGrad(row, p2, 0, 1)
				s.addGrad(row, p1, 0, -1)
			}
		},
	})
}

// pointDistance constrains the separation of two points to a value.
func (s *system) pointDistance(cID, pA, pB int, value float64) {
	s.eqs = append(s.eqs, equation{
		constraint: cID,
		eval: func(x []float64) float64 {
			return s.pos(x, pB).Dist(s.pos(x, pA)) - value
		},
		grad: func(x []float64, row []float64) {
			a := s.pos(x, pA)
			b := s.pos(x, pB)
			d := math.Max(a.Dist(b), tiny)
			dir := b.Sub(a).Scale(1 / d)
			s.addGrad(row, pB, dir.X, dir.Y)
			s.addGrad(row, pA, -dir.X, -dir.Y)
		},
	})
}

// coincident pins two points together with one equation per axis.
func (s *system) coincident(cID, pA, pB int) {
	for axis := 0; axis < 2; axis++ {
		vertical := axis == 0
		s.eqs = append(s.eqs, equation{
			constraint: cID,
			eval: func(x []float64) float64 {
				a := s.pos(x, pA)
				b := s.pos(x, pB)
				if vertical {
					return a.X - b.X
				}
				return a.Y - b.Y
			},
			grad: func(x []float64, row []float64) {
				if vertical {
					s.addGrad(row, pA, 1, 0)
					s.addGrad(row, pB, -1, 0)
				} else {
					s.addGrad(row, pA, 0, 1)
					s.addGrad(row, pB, 0, -1)
				}
			},
		})
	}
}

// directionCross zeroes the cross product of two line directions
// (parallel).
func (s *system) directionCross(cID int, l1, l2 sketch.Line) {
	s.eqs = append(s.eqs, equation{
		constraint: cID,
		eval: func(x []float64) float64 {
			u := s.pos(x, l1.P2).Sub(s.pos(x, l1.P1))
			w := s.pos(x, l2.P2).Sub(s.pos(x, l2.P1))
			return u.Cross(w)
		},
		grad: func(x []float64, row []float64) {
			u := s.pos(x, l1.P2).Sub(s.pos(x, l1.P1))
			w := s.pos(x, l2.P2).Sub(s.pos(x, l2.P1))
			// d(u x w)/du = (wy, -wx), d(u x w)/dw = (-uy, ux)
			s.addGrad(row, l1.P2, w.Y, -w.X)
			s.addGrad(row, l1.P1, -w.Y, w.X)
			s.addGrad(row, l2.P2, -u.Y, u.X)
			s.addGrad(row, l2.P1, u.Y, -u.X)
		},
	})
}

// directionDot zeroes the dot product of two line directions
// (perpendicular).
func (s *system) directionDot(cID int, l1, l2 sketch.Line) {
	s.eqs = append(s.eqs, equation{
		constraint: cID,
		eval: func(x []float64) float64 {
			u := s.pos(x, l1.P2).Sub(s.pos(x, l1.P1))
			w := s.pos(x, l2.P2).Sub(s.pos(x, l2.P1))
			return u.Dot(w)
		},
		grad: func(x []float64, row []float64) {
			u := s.pos(x, l1.P2).Sub(s.pos(x, l1.P1))
			w := s.pos(x, l2.P2).Sub(s.pos(x, l2.P1))
			s.addGrad(row, l1.P2, w.X, w.Y)
			s.addGrad(row, l1.P1, -w.X, -w.Y)
			s.addGrad(row, l2.P2, u.X, u.Y)
			s.addGrad(row, l2.P1, -u.X, -u.Y)
		},
	})
}

// equalLengths equates two line lengths or two arc radii. Equal circles
// never reach here; they are applied at compile time.
func (s *system) equalLengths(cID, t1, t2 int) {
	a1, b1, ok1 := s.lengthPoints(t1)
	a2, b2, ok2 := s.lengthPoints(t2)
	if !ok1 || !ok2 {
		return
	}
	s.eqs = append(s.eqs, equation{
		constraint: cID,
		eval: func(x []float64) float64 {
			return s.pos(x, b1).Dist(s.pos(x, a1)) - s.pos(x, b2).Dist(s.pos(x, a2))
		},
		grad: func(x []float64, row []float64) {
			pa1, pb1 := s.pos(x, a1), s.pos(x, b1)
			d1 := math.Max(pa1.Dist(pb1), tiny)
			dir1 := pb1.Sub(pa1).Scale(1 / d1)
			s.addGrad(row, b1, dir1.X, dir1.Y)
			s.addGrad(row, a1, -dir1.X, -dir1.Y)

			pa2, pb2 := s.pos(x, a2), s.pos(x, b2)
			d2 := math.Max(pa2.Dist(pb2), tiny)
			dir2 := pb2.Sub(pa2).Scale(1 / d2)
			s.addGrad(row, b2, -dir2.X, -dir2.Y)
			s.addGrad(row, a2, dir2.X, dir2.Y)
		},
	})
}

// lengthPoints returns the two points whose separation defines a
// primitive's length: endpoints for a line, center and start for an
// arc.
func (s *system) lengthPoints(id int) (int, int, bool) {
	if l, ok := s.sk.Line(id); ok {
		return l.P1, l.P2, true
	}
	if a, ok := s.sk.Arc(id); ok {
		return a.Center, a.Start, true
	}
	return 0, 0, false
}

// midpoint pins a point to the middle of a line.
func (s *system) midpoint(cID, p int, l sketch.Line) {
	for axis := 0; axis < 2; axis++ {
		vertical := axis == 0
		s.eqs = append(s.eqs, equation{
			constraint: cID,
			eval: func(x []float64) float64 {
				pt := s.pos(x, p)
				mid := s.pos(x, l.P1).Mid(s.pos(x, l.P2))
				if vertical {
					return pt.X - mid.X
				}
				return pt.Y - mid.Y
			},
			grad: func(x []float64, row []float64) {
				if vertical {
					s.addGrad(row, p, 1, 0)
					s.addGrad(row, l.P1, -0.5, 0)
					s.addGrad(row, l.P2, -0.5, 0)
				} else {
					s.addGrad(row, p, 0, 1)
					s.addGrad(row, l.P1, 0, -0.5)
					s.addGrad(row, l.P2, 0, -0.5)
				}
			},
		})
	}
}

// lineGeom bundles the recurring pieces of the point-to-line distance
// derivative: c = u x (e-a), its partials, and the segment length.
type lineGeom struct {
	a, b, e    geometry.Vec
	u          geometry.Vec
	c, d       float64
	dcAx, dcAy float64
	dcBx, dcBy float64
	dcEx, dcEy float64
}

func (s *system) lineGeomAt(x []float64, l sketch.Line, eID int) lineGeom {
	g := lineGeom{
		a: s.pos(x, l.P1),
		b: s.pos(x, l.P2),
		e: s.pos(x, eID),
	}
	g.u = g.b.Sub(g.a)
	g.c = g.u.Cross(g.e.Sub(g.a))
	g.d = math.Max(g.u.Len(), tiny)
	g.dcAx = g.b.Y - g.e.Y
	g.dcAy = g.e.X - g.b.X
	g.dcBx = g.e.Y - g.a.Y
	g.dcBy = g.a.X - g.e.X
	g.dcEx = g.a.Y - g.b.Y
	g.dcEy = g.b.X - g.a.X
	return g
}

// ratioGrad applies d(c/d)/dq = (dc*d - c*dd)/d^2 for every involved
// point, scaled by k.
func (s *system) ratioGrad(row []float64, l sketch.Line, eID int, g lineGeom, k float64) {
	d2 := g.d * g.d
	ddAx := -g.u.X / g.d
	ddAy := -g.u.Y / g.d
	s.addGrad(row, l.P1,
		k*(g.dcAx*g.d-g.c*ddAx)/d2,
		k*(g.dcAy*g.d-g.c*ddAy)/d2)
	s.addGrad(row, l.P2,
		k*(g.dcBx*g.d-g.c*(g.u.X/g.d))/d2,
		k*(g.dcBy*g.d-g.c*(g.u.Y/g.d))/d2)
	s.addGrad(row, eID, k*g.dcEx/g.d, k*g.dcEy/g.d)
}

// pointLine constrains a point onto the infinite line through a
// segment, as a signed perpendicular distance.
func (s *system) pointLine(cID, p int, l sketch.Line) {
	s.eqs = append(s.eqs, equation{
		constraint: cID,
		eval: func(x []float64) float64 {
			g := s.lineGeomAt(x, l, p)
			return g.c / g.d
		},
		grad: func(x []float64, row []float64) {
			g := s.lineGeomAt(x, l, p)
			s.ratioGrad(row, l, p, g, 1)
		},
	})
}

// lineCurveTangent keeps the perpendicular distance from a circle or
// arc center to a line equal to the radius. Circle radii are constants
// here; arc radii derive from the center and start points.
func (s *system) lineCurveTangent(cID int, l sketch.Line, curveID int) {
	var center int
	var radius func(x []float64) float64
	var radiusGrad func(x []float64, row []float64, k float64)

	if circ, ok := s.sk.Circle(curveID); ok {
		center = circ.Center
		radius = func([]float64) float64 { return circ.Radius }
		radiusGrad = func([]float64, []float64, float64) {}
	} else if arc, ok := s.sk.Arc(curveID); ok {
		center = arc.Center
		radius = func(x []float64) float64 {
			return s.pos(x, arc.Start).Dist(s.pos(x, arc.Center))
		}
		radiusGrad = func(x []float64, row []float64, k float64) {
			c := s.pos(x, arc.Center)
			st := s.pos(x, arc.Start)
			d := math.Max(c.Dist(st), tiny)
			dir := st.Sub(c).Scale(1 / d)
			s.addGrad(row, arc.Start, k*dir.X, k*dir.Y)
			s.addGrad(row, arc.Center, -k*dir.X, -k*dir.Y)
		}
	} else {
		return
	}

	s.eqs = append(s.eqs, equation{
		constraint: cID,
		eval: func(x []float64) float64 {
			g := s.lineGeomAt(x, l, center)
			return math.Abs(g.c)/g.d - radius(x)
		},
		grad: func(x []float64, row []float64) {
			g := s.lineGeomAt(x, l, center)
			sign := 1.0
			if g.c < 0 {
				sign = -1
			}
			s.ratioGrad(row, l, center, g, sign)
			radiusGrad(x, row, -1)
		},
	})
}

// circleCircleTangent keeps two circles touching. Both external and
// internal tangency satisfy the constraint; each evaluation keeps the
// branch the current geometry is nearer to, so the solver pulls toward
// the closest valid contact.
func (s *system) circleCircleTangent(cID int, c1, c2 sketch.Circle) {
	branch := func(x []float64) float64 {
		d := s.pos(x, c1.Center).Dist(s.pos(x, c2.Center))
		outer := d - (c1.Radius + c2.Radius)
		inner := d - math.Abs(c1.Radius-c2.Radius)
		if math.Abs(outer) <= math.Abs(inner) {
			return outer
		}
		return inner
	}
	s.eqs = append(s.eqs, equation{
		constraint: cID,
		eval:       branch,
		grad: func(x []float64, row []float64) {
			a := s.pos(x, c1.Center)
			b := s.pos(x, c2.Center)
			d := math.Max(a.Dist(b), tiny)
			dir := b.Sub(a).Scale(1 / d)
			s.addGrad(row, c2.Center, dir.X, dir.Y)
			s.addGrad(row, c1.Center, -dir.X, -dir.Y)
		},
	})
}

// pointOnCurve pins a point onto a circle or arc.
func (s *system) pointOnCurve(cID, p, curveID int) {
	if circ, ok := s.sk.Circle(curveID); ok {
		s.pointDistance(cID, circ.Center, p, circ.Radius)
		return
	}
	arc, ok := s.sk.Arc(curveID)
	if !ok {
		return
	}
	// |p - center| must match |start - center|
	s.eqs = append(s.eqs, equation{
		constraint: cID,
		eval: func(x []float64) float64 {
			c := s.pos(x, arc.Center)
			return s.pos(x, p).Dist(c) - s.pos(x, arc.Start).Dist(c)
		},
		grad: func(x []float64, row []float64) {
			c := s.pos(x, arc.Center)
			pt := s.pos(x, p)
			st := s.pos(x, arc.Start)
			d1 := math.Max(pt.Dist(c), tiny)
			d2 := math.Max(st.Dist(c), tiny)
			dir1 := pt.Sub(c).Scale(1 / d1)
			dir2 := st.Sub(c).Scale(1 / d2)
			s.addGrad(row, p, dir1.X, dir1.Y)
			s.addGrad(row, arc.Start, -dir2.X, -dir2.Y)
			s.addGrad(row, arc.Center, dir2.X-dir1.X, dir2.Y-dir1.Y)
		},
	})
}
