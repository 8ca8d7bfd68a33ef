package geometry

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func vecsClose(a, b Vec) bool {
	return almostEqual(a.X, b.X) && almostEqual(a.Y, b.Y)
}

func TestVecBasics(t *testing.T) {
	a := V(3, 4)
	b := V(1, -2)

	if got := a.Add(b); !vecsClose(got, V(4, 2)) {
		t.Errorf("Expected Add to give (4,2), got %v", got)
	}
	if got := a.Sub(b); !vecsClose(got, V(2, 6)) {
		t.Errorf("Expected Sub to give (2,6), got %v", got)
	}
	if got := a.Len(); !almostEqual(got, 5) {
		t.Errorf("Expected length 5, got %f", got)
	}
	if got := a.Dot(b); !almostEqual(got, -5) {
		t.Errorf("Expected dot -5, got %f", got)
	}
	if got := a.Cross(b); !almostEqual(got, -10) {
		t.Errorf("Expected cross -10, got %f", got)
	}
	if got := a.Mid(b); !vecsClose(got, V(2, 1)) {
		t.Errorf("Expected midpoint (2,1), got %v", got)
	}
}

func TestNormalizeZeroVector(t *testing.T) {
	// The zero vector has no direction; Normalize must not divide by zero
	z := Vec{}
	if got := z.Normalize(); !vecsClose(got, z) {
		t.Errorf("Expected zero vector to normalize to itself, got %v", got)
	}
}

func TestClosestPointOnSegment(t *testing.T) {
	a := V(0, 0)
	b := V(10, 0)

	tests := []struct {
		name string
		p    Vec
		want Vec
	}{
		{"projects onto interior", V(3, 5), V(3, 0)},
		{"clamps before start", V(-4, 2), V(0, 0)},
		{"clamps past end", V(15, -3), V(10, 0)},
		{"on the segment", V(7, 0), V(7, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClosestPointOnSegment(tt.p, a, b)
			if !vecsClose(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestClosestPointOnZeroLengthSegment(t *testing.T) {
	a := V(2, 2)
	got := ClosestPointOnSegment(V(5, 6), a, a)
	if !vecsClose(got, a) {
		t.Errorf("Expected degenerate segment to collapse to its endpoint, got %v", got)
	}
	if d := PointSegmentDistance(V(5, 6), a, a); !almostEqual(d, 5) {
		t.Errorf("Expected distance 5 to degenerate segment, got %f", d)
	}
}

func TestPointLineDistanceSign(t *testing.T) {
	a := V(0, 0)
	b := V(10, 0)

	if d := PointLineDistance(V(5, 3), a, b); !almostEqual(d, 3) {
		t.Errorf("Expected +3 for point left of a->b, got %f", d)
	}
	if d := PointLineDistance(V(5, -3), a, b); !almostEqual(d, -3) {
		t.Errorf("Expected -3 for point right of a->b, got %f", d)
	}
	// Beyond the segment ends the infinite line still applies
	if d := PointLineDistance(V(100, 4), a, b); !almostEqual(d, 4) {
		t.Errorf("Expected infinite-line distance 4, got %f", d)
	}
}

func TestCircumcenter(t *testing.T) {
	// Three points on the unit circle centered at (2, 1)
	a := V(3, 1)
	b := V(2, 2)
	c := V(1, 1)

	center, ok := Circumcenter(a, b, c)
	if !ok {
		t.Fatal("Expected a circumcenter for non-collinear points")
	}
	if !vecsClose(center, V(2, 1)) {
		t.Errorf("Expected center (2,1), got %v", center)
	}
}

func TestCircumcenterCollinear(t *testing.T) {
	if _, ok := Circumcenter(V(0, 0), V(1, 1), V(5, 5)); ok {
		t.Error("Expected collinear points to have no circumcenter")
	}
	if _, ok := Circumcenter(V(1, 2), V(1, 2), V(3, 4)); ok {
		t.Error("Expected coincident points to have no circumcenter")
	}
}

func TestSegmentIntersection(t *testing.T) {
	tests := []struct {
		name           string
		a1, a2, b1, b2 Vec
		want           Vec
		ok             bool
	}{
		{"crossing at origin", V(-1, -1), V(1, 1), V(-1, 1), V(1, -1), V(0, 0), true},
		{"parallel", V(0, 0), V(4, 0), V(0, 1), V(4, 1), Vec{}, false},
		{"would cross beyond ends", V(0, 0), V(1, 0), V(5, -1), V(5, 1), Vec{}, false},
		{"touching at endpoint", V(0, 0), V(2, 2), V(2, 2), V(4, 0), V(2, 2), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SegmentIntersection(tt.a1, tt.a2, tt.b1, tt.b2)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && !vecsClose(got, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSegmentCircleIntersections(t *testing.T) {
	center := V(0, 0)

	// Secant through the middle hits twice
	hits := SegmentCircleIntersections(V(-5, 0), V(5, 0), center, 2)
	if len(hits) != 2 {
		t.Fatalf("Expected 2 intersections, got %d", len(hits))
	}
	if !vecsClose(hits[0], V(-2, 0)) || !vecsClose(hits[1], V(2, 0)) {
		t.Errorf("Expected (-2,0) and (2,0), got %v", hits)
	}

	// Tangent line touches once
	hits = SegmentCircleIntersections(V(-5, 2), V(5, 2), center, 2)
	if len(hits) != 1 {
		t.Fatalf("Expected 1 tangent intersection, got %d", len(hits))
	}
	if !vecsClose(hits[0], V(0, 2)) {
		t.Errorf("Expected tangent point (0,2), got %v", hits[0])
	}

	// Segment stops short of the circle
	hits = SegmentCircleIntersections(V(-5, 0), V(-3, 0), center, 2)
	if len(hits) != 0 {
		t.Errorf("Expected no intersections, got %v", hits)
	}
}

func TestCircleCircleIntersections(t *testing.T) {
	// Overlapping circles meet twice
	hits := CircleCircleIntersections(V(0, 0), 2, V(2, 0), 2)
	if len(hits) != 2 {
		t.Fatalf("Expected 2 intersections, got %d", len(hits))
	}
	for _, h := range hits {
		if !almostEqual(h.X, 1) {
			t.Errorf("Expected intersections on x=1, got %v", h)
		}
		if !almostEqual(math.Abs(h.Y), math.Sqrt(3)) {
			t.Errorf("Expected |y|=sqrt(3), got %v", h)
		}
	}

	// Externally tangent circles meet once
	hits = CircleCircleIntersections(V(0, 0), 1, V(3, 0), 2)
	if len(hits) != 1 {
		t.Fatalf("Expected 1 tangent intersection, got %d", len(hits))
	}
	if !vecsClose(hits[0], V(1, 0)) {
		t.Errorf("Expected tangent point (1,0), got %v", hits[0])
	}

	// Separated and concentric circles meet never
	if hits = CircleCircleIntersections(V(0, 0), 1, V(10, 0), 1); len(hits) != 0 {
		t.Errorf("Expected no intersections for separated circles, got %v", hits)
	}
	if hits = CircleCircleIntersections(V(0, 0), 1, V(0, 0), 2); len(hits) != 0 {
		t.Errorf("Expected no intersections for concentric circles, got %v", hits)
	}
}

func TestAngleDiff(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		want float64
	}{
		{"simple", math.Pi / 2, math.Pi / 4, math.Pi / 4},
		{"wraps positive", -3 * math.Pi / 4, 3 * math.Pi / 4, math.Pi / 2},
		{"wraps negative", 3 * math.Pi / 4, -3 * math.Pi / 4, -math.Pi / 2},
		{"identical", 1.3, 1.3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AngleDiff(tt.a, tt.b); !almostEqual(got, tt.want) {
				t.Errorf("Expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 1); got != 1 {
		t.Errorf("Expected clamp to 1, got %f", got)
	}
	if got := Clamp(-5, 0, 1); got != 0 {
		t.Errorf("Expected clamp to 0, got %f", got)
	}
	if got := Clamp(0.5, 0, 1); got != 0.5 {
		t.Errorf("Expected 0.5 to pass through, got %f", got)
	}
}

func TestDir(t *testing.T) {
	if !vecsClose(Dir(0), V(1, 0)) {
		t.Errorf("Expected unit x at angle 0, got %v", Dir(0))
	}
	if !vecsClose(Dir(math.Pi/2), V(0, 1)) {
		t.Errorf("Expected unit y at angle pi/2, got %v", Dir(math.Pi/2))
	}
}

func TestArcSweep(t *testing.T) {
	tests := []struct {
		name         string
		center, s, e Vec
		wantFrom     float64
		wantSweep    float64
	}{
		{"quarter ccw", V(0, 0), V(1, 0), V(0, 1), 0, math.Pi / 2},
		{"three quarters", V(0, 0), V(0, 1), V(1, 0), math.Pi / 2, 3 * math.Pi / 2},
		{"half from below", V(0, 0), V(0, -1), V(0, 1), -math.Pi / 2, math.Pi},
		{"offset center", V(1, 1), V(2, 1), V(1, 2), 0, math.Pi / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, sweep := ArcSweep(tt.center, tt.s, tt.e)
			if !almostEqual(from, tt.wantFrom) {
				t.Errorf("Expected start angle %f, got %f", tt.wantFrom, from)
			}
			if !almostEqual(sweep, tt.wantSweep) {
				t.Errorf("Expected sweep %f, got %f", tt.wantSweep, sweep)
			}
		})
	}
}

func TestAngleOnSweep(t *testing.T) {
	quarter := math.Pi / 2
	if !AngleOnSweep(0, quarter, math.Pi/4) {
		t.Error("Expected pi/4 on a quarter sweep from 0")
	}
	if !AngleOnSweep(0, quarter, 0) || !AngleOnSweep(0, quarter, quarter) {
		t.Error("Expected the sweep endpoints to count")
	}
	if AngleOnSweep(0, quarter, math.Pi) {
		t.Error("Expected pi off a quarter sweep from 0")
	}
	// Sweeps that cross the wrap-around
	if !AngleOnSweep(3*math.Pi/4, math.Pi, -3*math.Pi/4) {
		t.Error("Expected an angle inside a sweep crossing pi")
	}
}
