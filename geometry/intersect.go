package geometry

import "math"

// SegmentIntersection returns the crossing point of segments a1-a2 and
// b1-b2. ok is false for parallel, collinear or non-crossing segments.
func SegmentIntersection(a1, a2, b1, b2 Vec) (Vec, bool) {
	r := a2.Sub(a1)
	s := b2.Sub(b1)
	denom := r.Cross(s)
	if math.Abs(denom) < Epsilon {
		return Vec{}, false
	}
	q := b1.Sub(a1)
	t := q.Cross(s) / denom
	u := q.Cross(r) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Vec{}, false
	}
	return a1.Add(r.Scale(t)), true
}

// SegmentCircleIntersections returns the points where segment a-b
// crosses the circle at center with radius r, in order of the segment
// parameter. Tangent contact yields a single point.
func SegmentCircleIntersections(a, b, center Vec, r float64) []Vec {
	d := b.Sub(a)
	f := a.Sub(center)
	qa := d.LenSq()
	if qa < Epsilon {
		return nil
	}
	qb := 2 * f.Dot(d)
	qc := f.LenSq() - r*r
	disc := qb*qb - 4*qa*qc
	if disc < -Epsilon {
		return nil
	}
	if disc < 0 {
		disc = 0
	}
	sq := math.Sqrt(disc)
	t1 := (-qb - sq) / (2 * qa)
	t2 := (-qb + sq) / (2 * qa)
	var hits []Vec
	if t1 >= 0 && t1 <= 1 {
		hits = append(hits, a.Add(d.Scale(t1)))
	}
	if t2 >= 0 && t2 <= 1 && sq > Epsilon {
		hits = append(hits, a.Add(d.Scale(t2)))
	}
	return hits
}

// CircleCircleIntersections returns the points common to two circles.
// Concentric or separated circles yield no points; tangent circles
// yield one.
func CircleCircleIntersections(c1 Vec, r1 float64, c2 Vec, r2 float64) []Vec {
	d := c1.Dist(c2)
	if d < Epsilon || d > r1+r2+Epsilon || d < math.Abs(r1-r2)-Epsilon {
		return nil
	}
	a := (d*d + r1*r1 - r2*r2) / (2 * d)
	hSq := r1*r1 - a*a
	if hSq < 0 {
		hSq = 0
	}
	h := math.Sqrt(hSq)
	dir := c2.Sub(c1).Scale(1 / d)
	mid := c1.Add(dir.Scale(a))
	if h < Epsilon {
		return []Vec{mid}
	}
	perp := Vec{-dir.Y, dir.X}
	return []Vec{mid.Add(perp.Scale(h)), mid.Sub(perp.Scale(h))}
}
