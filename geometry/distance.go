package geometry

import "math"

// ClosestPointOnSegment returns the point on segment ab nearest to p.
// The projection parameter is clamped to [0, 1] so the result always
// lies on the segment; a zero-length segment collapses to a.
func ClosestPointOnSegment(p, a, b Vec) Vec {
	ab := b.Sub(a)
	lenSq := ab.LenSq()
	if lenSq < Epsilon {
		return a
	}
	t := Clamp(p.Sub(a).Dot(ab)/lenSq, 0, 1)
	return a.Add(ab.Scale(t))
}

// PointSegmentDistance returns the distance from p to the nearest point
// on segment ab.
func PointSegmentDistance(p, a, b Vec) float64 {
	return p.Dist(ClosestPointOnSegment(p, a, b))
}

// PointLineDistance returns the signed perpendicular distance from p to
// the infinite line through a and b. The sign follows the cross product
// convention: positive when p is to the left of a->b. A zero-length
// segment degenerates to the plain point distance.
func PointLineDistance(p, a, b Vec) float64 {
	ab := b.Sub(a)
	l := ab.Len()
	if l < Epsilon {
		return p.Dist(a)
	}
	return ab.Cross(p.Sub(a)) / l
}

// Circumcenter returns the center of the circle through a, b and c.
// ok is false when the three points are collinear (or coincident) and
// no finite circumcenter exists.
func Circumcenter(a, b, c Vec) (center Vec, ok bool) {
	d := 2 * (a.X*(b.Y-c.Y) + b.X*(c.Y-a.Y) + c.X*(a.Y-b.Y))
	if math.Abs(d) < Epsilon {
		return Vec{}, false
	}
	aSq := a.LenSq()
	bSq := b.LenSq()
	cSq := c.LenSq()
	ux := (aSq*(b.Y-c.Y) + bSq*(c.Y-a.Y) + cSq*(a.Y-b.Y)) / d
	uy := (aSq*(c.X-b.X) + bSq*(a.X-c.X) + cSq*(b.X-a.X)) / d
	return Vec{ux, uy}, true
}
