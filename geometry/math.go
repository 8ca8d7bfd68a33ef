package geometry

import "math"

// Epsilon is the tolerance used when comparing coordinates or testing
// for degenerate geometry (zero-length segments, collinear triples).
const Epsilon = 1e-9

// Vec is a 2D point or direction in sketch-plane coordinates.
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// V is shorthand for constructing a Vec.
func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{v.X + o.X, v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{v.X - o.X, v.Y - o.Y}
}

// Scale returns v scaled by s.
func (v Vec) Scale(s float64) Vec {
	return Vec{v.X * s, v.Y * s}
}

// Dot returns the dot product of v and o.
func (v Vec) Dot(o Vec) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the z component of the cross product of v and o.
func (v Vec) Cross(o Vec) float64 {
	return v.X*o.Y - v.Y*o.X
}

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// LenSq returns the squared length of v.
func (v Vec) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Dist returns the distance between v and o.
func (v Vec) Dist(o Vec) float64 {
	return v.Sub(o).Len()
}

// DistSq returns the squared distance between v and o.
func (v Vec) DistSq(o Vec) float64 {
	return v.Sub(o).LenSq()
}

// Normalize returns v scaled to unit length. The zero vector is
// returned unchanged.
func (v Vec) Normalize() Vec {
	l := v.Len()
	if l < Epsilon {
		return v
	}
	return v.Scale(1 / l)
}

// Mid returns the midpoint of v and o.
func (v Vec) Mid(o Vec) Vec {
	return Vec{(v.X + o.X) / 2, (v.Y + o.Y) / 2}
}

// Lerp returns the point a fraction t of the way from v to o.
func (v Vec) Lerp(o Vec, t float64) Vec {
	return Vec{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t}
}

// Angle returns the angle of v in radians, in (-pi, pi].
func (v Vec) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NearZero reports whether v is within eps of zero.
func NearZero(v, eps float64) bool {
	return math.Abs(v) < eps
}

// AngleDiff returns the difference between angles a and b wrapped to
// (-pi, pi].
func AngleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

// Dir returns the unit vector at the given angle.
func Dir(angle float64) Vec {
	return Vec{math.Cos(angle), math.Sin(angle)}
}

// ArcSweep returns the angle of start about center and the
// counterclockwise sweep from there to end. The sweep is in (0, 2*pi],
// so coincident start and end angles read as a full turn.
func ArcSweep(center, start, end Vec) (from, sweep float64) {
	from = start.Sub(center).Angle()
	sweep = end.Sub(center).Angle() - from
	if sweep <= 0 {
		sweep += 2 * math.Pi
	}
	return from, sweep
}

// AngleOnSweep reports whether the angle lies on the counterclockwise
// sweep starting at from, endpoints included.
func AngleOnSweep(from, sweep, angle float64) bool {
	delta := math.Mod(angle-from, 2*math.Pi)
	if delta < 0 {
		delta += 2 * math.Pi
	}
	return delta <= sweep+Epsilon
}
