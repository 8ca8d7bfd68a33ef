package canvas

import (
	"math"

	"drafter/geometry"
	"drafter/sketch"
)

// Point markers: free points draw as a small cross, fixed anchors as a
// filled square.
const (
	FreePointMark  = '+'
	FixedPointMark = '■'
)

// Render draws every primitive of a sketch onto the grid. Primitives in
// selected go on the selection layer so callers can style them; a nil
// map selects nothing.
func Render(g *Grid, sk *sketch.Sketch, selected map[int]bool) {
	layer := func(id int) Layer {
		if selected[id] {
			return LayerSelected
		}
		return LayerSketch
	}

	for _, p := range sk.Primitives {
		switch p := p.(type) {
		case sketch.Line:
			a, ok1 := sk.Pos(p.P1)
			b, ok2 := sk.Pos(p.P2)
			if ok1 && ok2 {
				g.Line(a, b, layer(p.ID))
			}
		case sketch.Circle:
			if c, ok := sk.Pos(p.Center); ok {
				g.Circle(c, p.Radius, layer(p.ID))
			}
		case sketch.Arc:
			c, ok1 := sk.Pos(p.Center)
			st, ok2 := sk.Pos(p.Start)
			if ok1 && ok2 {
				if en, ok := sk.Pos(p.End); ok {
					from, sweep := geometry.ArcSweep(c, st, en)
					g.Arc(c, c.Dist(st), from, sweep, layer(p.ID))
				}
			}
		}
	}

	// Markers go last so they sit on top of strokes through the same cell
	for _, pt := range sk.Points() {
		r := FreePointMark
		if pt.Fixed {
			r = FixedPointMark
		}
		g.Marker(geometry.V(pt.X, pt.Y), r, layer(pt.ID))
	}
}

// Bounds returns the plane box covering every primitive, false when the
// sketch has no points.
func Bounds(sk *sketch.Sketch) (min, max geometry.Vec, ok bool) {
	min = geometry.V(math.Inf(1), math.Inf(1))
	max = geometry.V(math.Inf(-1), math.Inf(-1))
	grow := func(p geometry.Vec, r float64) {
		min.X = math.Min(min.X, p.X-r)
		min.Y = math.Min(min.Y, p.Y-r)
		max.X = math.Max(max.X, p.X+r)
		max.Y = math.Max(max.Y, p.Y+r)
		ok = true
	}

	for _, p := range sk.Primitives {
		switch p := p.(type) {
		case sketch.Point:
			grow(geometry.V(p.X, p.Y), 0)
		case sketch.Circle:
			if c, found := sk.Pos(p.Center); found {
				grow(c, p.Radius)
			}
		case sketch.Arc:
			if c, found := sk.Pos(p.Center); found {
				grow(c, sk.ArcRadius(p))
			}
		}
	}
	return min, max, ok
}
