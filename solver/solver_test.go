package solver

import (
	"testing"

	"drafter/geometry"
	"drafter/sketch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// anchoredLine builds a sketch with a fixed anchor at the origin and a
// free endpoint, joined by a line.
func anchoredLine(tb testing.TB, bx, by float64) (*sketch.Sketch, int, int, int) {
	tb.Helper()
	sk := sketch.New(sketch.PlaneXY)
	sk, a := sk.AddFixedPoint(0, 0)
	sk, b := sk.AddPoint(bx, by)
	sk, ln, err := sk.AddLine(a, b)
	require.NoError(tb, err)
	return sk, a, b, ln
}

func mustConstrain(tb testing.TB, sk *sketch.Sketch, c sketch.Constraint) *sketch.Sketch {
	tb.Helper()
	next, _, err := sk.AddConstraint(c)
	require.NoError(tb, err)
	return next
}

// rectangleFixture builds four lines constrained into an axis-aligned
// 4x3 rectangle, starting from a sloppy quadrilateral.
func rectangleFixture(tb testing.TB) (sk *sketch.Sketch, b, c, d int) {
	tb.Helper()
	sk = sketch.New(sketch.PlaneXY)
	sk, a := sk.AddFixedPoint(0, 0)
	sk, b = sk.AddPoint(4.2, 0.3)
	sk, c = sk.AddPoint(4.1, 2.8)
	sk, d = sk.AddPoint(-0.2, 3.1)
	sk, bottom, err := sk.AddLine(a, b)
	require.NoError(tb, err)
	sk, right, err := sk.AddLine(b, c)
	require.NoError(tb, err)
	sk, top, err := sk.AddLine(c, d)
	require.NoError(tb, err)
	sk, left, err := sk.AddLine(d, a)
	require.NoError(tb, err)

	sk = mustConstrain(tb, sk, sketch.Constraint{Type: sketch.Horizontal, Targets: []int{bottom}})
	sk = mustConstrain(tb, sk, sketch.Constraint{Type: sketch.Horizontal, Targets: []int{top}})
	sk = mustConstrain(tb, sk, sketch.Constraint{Type: sketch.Vertical, Targets: []int{left}})
	sk = mustConstrain(tb, sk, sketch.Constraint{Type: sketch.Vertical, Targets: []int{right}})
	sk = mustConstrain(tb, sk, sketch.Constraint{Type: sketch.Distance, Targets: []int{bottom}, Value: 4})
	sk = mustConstrain(tb, sk, sketch.Constraint{Type: sketch.Distance, Targets: []int{left}, Value: 3})
	return sk, b, c, d
}

func TestHorizontalPlusDistanceDrivesEndpoint(t *testing.T) {
	// Anchor at the origin, free endpoint at (3,0); horizontal plus a
	// length of 5 leaves exactly one valid spot
	sk, _, b, ln := anchoredLine(t, 3, 0)
	sk = mustConstrain(t, sk, sketch.Constraint{Type: sketch.Horizontal, Targets: []int{ln}})
	sk = mustConstrain(t, sk, sketch.Constraint{Type: sketch.Distance, Targets: []int{ln}, Value: 5})

	res, err := Solve(sk)
	require.NoError(t, err)

	pos, ok := res.Sketch.Pos(b)
	require.True(t, ok)
	assert.InDelta(t, 5, pos.X, 1e-6)
	assert.InDelta(t, 0, pos.Y, 1e-6)
	assert.Equal(t, 0, res.DOF)
	assert.Equal(t, sketch.StatusFullyConstrained, res.Status)
}

func TestSolveIsIdempotentOnConvergedSketch(t *testing.T) {
	sk, _, b, ln := anchoredLine(t, 3, 0)
	sk = mustConstrain(t, sk, sketch.Constraint{Type: sketch.Horizontal, Targets: []int{ln}})
	sk = mustConstrain(t, sk, sketch.Constraint{Type: sketch.Distance, Targets: []int{ln}, Value: 5})

	first, err := Solve(sk)
	require.NoError(t, err)
	second, err := Solve(first.Sketch)
	require.NoError(t, err)

	p1, _ := first.Sketch.Pos(b)
	p2, _ := second.Sketch.Pos(b)
	assert.InDelta(t, p1.X, p2.X, 1e-9, "re-solving must not move converged geometry")
	assert.InDelta(t, p1.Y, p2.Y, 1e-9)
	assert.Equal(t, 0, second.Iterations, "a converged sketch needs no iterations")
}

func TestSolveIsDeterministic(t *testing.T) {
	build := func() *sketch.Sketch {
		sk, _, _, ln := anchoredLine(t, 2.7, 1.9)
		sk = mustConstrain(t, sk, sketch.Constraint{Type: sketch.Horizontal, Targets: []int{ln}})
		sk = mustConstrain(t, sk, sketch.Constraint{Type: sketch.Distance, Targets: []int{ln}, Value: 4})
		return sk
	}

	r1, err1 := New(DefaultOptions()).Solve(build())
	r2, err2 := New(DefaultOptions()).Solve(build())
	require.NoError(t, err1)
	require.NoError(t, err2)

	for _, p := range r1.Sketch.Points() {
		q, ok := r2.Sketch.Point(p.ID)
		require.True(t, ok)
		assert.Equal(t, p.X, q.X, "identical inputs must solve identically")
		assert.Equal(t, p.Y, q.Y)
	}
	assert.Equal(t, r1.Iterations, r2.Iterations)
}

func TestTangentPullsCircleToLine(t *testing.T) {
	// A fixed horizontal line and a circle of radius 3 floating ten
	// units above it: tangency drags the center to height 3
	sk := sketch.New(sketch.PlaneXY)
	sk, a := sk.AddFixedPoint(0, 0)
	sk, b := sk.AddFixedPoint(10, 0)
	sk, ln, err := sk.AddLine(a, b)
	require.NoError(t, err)
	sk, center := sk.AddPoint(5, 10)
	sk, circ, err := sk.AddCircle(center, 3)
	require.NoError(t, err)
	sk = mustConstrain(t, sk, sketch.Constraint{Type: sketch.Tangent, Targets: []int{ln, circ}})

	res, err := Solve(sk)
	require.NoError(t, err)

	pos, _ := res.Sketch.Pos(center)
	assert.InDelta(t, 3, pos.Y, 1e-6, "perpendicular distance must equal the radius")
}

func TestTangentCircleCircleChoosesNearestBranch(t *testing.T) {
	// Radii 5 and 2 with centers 4 apart: internal tangency (distance
	// 3) is nearer than external (distance 7)
	sk := sketch.New(sketch.PlaneXY)
	sk, c1 := sk.AddFixedPoint(0, 0)
	sk, circ1, err := sk.AddCircle(c1, 5)
	require.NoError(t, err)
	sk, c2 := sk.AddPoint(4, 0)
	sk, circ2, err := sk.AddCircle(c2, 2)
	require.NoError(t, err)
	sk = mustConstrain(t, sk, sketch.Constraint{Type: sketch.Tangent, Targets: []int{circ1, circ2}})

	res, err := Solve(sk)
	require.NoError(t, err)

	pos, _ := res.Sketch.Pos(c2)
	assert.InDelta(t, 3, pos.Dist(geometry.Vec{}), 1e-6)
}

func TestRadiusConstraintWritesCircle(t *testing.T) {
	sk := sketch.New(sketch.PlaneXY)
	sk, center := sk.AddPoint(1, 1)
	sk, circ, err := sk.AddCircle(center, 2)
	require.NoError(t, err)
	sk = mustConstrain(t, sk, sketch.Constraint{Type: sketch.Radius, Targets: []int{circ}, Value: 7})

	res, err := Solve(sk)
	require.NoError(t, err)

	c, ok := res.Sketch.Circle(circ)
	require.True(t, ok)
	assert.Equal(t, 7.0, c.Radius, "radius dimensions write the model directly")
	assert.Equal(t, 0, res.Iterations)
}

func TestDiameterAndEqualPropagateRadii(t *testing.T) {
	sk := sketch.New(sketch.PlaneXY)
	sk, p1 := sk.AddPoint(0, 0)
	sk, circ1, err := sk.AddCircle(p1, 1)
	require.NoError(t, err)
	sk, p2 := sk.AddPoint(10, 0)
	sk, circ2, err := sk.AddCircle(p2, 9)
	require.NoError(t, err)

	// Order is deliberately awkward: equal first, then the dimension
	// it should propagate
	sk = mustConstrain(t, sk, sketch.Constraint{Type: sketch.Equal, Targets: []int{circ1, circ2}})
	sk = mustConstrain(t, sk, sketch.Constraint{Type: sketch.Diameter, Targets: []int{circ1}, Value: 8})

	res, err := Solve(sk)
	require.NoError(t, err)

	c1, _ := res.Sketch.Circle(circ1)
	c2, _ := res.Sketch.Circle(circ2)
	assert.Equal(t, 4.0, c1.Radius)
	assert.Equal(t, 4.0, c2.Radius, "equal must pick up a radius applied after it")
}

func TestArcRadiusConstraintMovesPoints(t *testing.T) {
	// Arc radii derive from points, so a radius dimension on an arc is
	// solved rather than written
	sk := sketch.New(sketch.PlaneXY)
	sk, center := sk.AddFixedPoint(0, 0)
	sk, start := sk.AddPoint(2, 0)
	sk, end := sk.AddPoint(0, 2)
	sk, arc, err := sk.AddArc(center, start, end)
	require.NoError(t, err)
	sk = mustConstrain(t, sk, sketch.Constraint{Type: sketch.Radius, Targets: []int{arc}, Value: 5})

	res, err := Solve(sk)
	require.NoError(t, err)

	a, _ := res.Sketch.Arc(arc)
	assert.InDelta(t, 5, res.Sketch.ArcRadius(a), 1e-6)
}

func TestMidpointCentersPoint(t *testing.T) {
	sk := sketch.New(sketch.PlaneXY)
	sk, a := sk.AddFixedPoint(0, 0)
	sk, b := sk.AddFixedPoint(6, 2)
	sk, ln, err := sk.AddLine(a, b)
	require.NoError(t, err)
	sk, p := sk.AddPoint(9, 9)
	sk = mustConstrain(t, sk, sketch.Constraint{Type: sketch.Midpoint, Targets: []int{p, ln}})

	res, err := Solve(sk)
	require.NoError(t, err)

	pos, _ := res.Sketch.Pos(p)
	assert.InDelta(t, 3, pos.X, 1e-6)
	assert.InDelta(t, 1, pos.Y, 1e-6)
}

func TestPointOnLineWithCircleUsesCenter(t *testing.T) {
	sk := sketch.New(sketch.PlaneXY)
	sk, a := sk.AddFixedPoint(0, 0)
	sk, b := sk.AddFixedPoint(10, 0)
	sk, ln, err := sk.AddLine(a, b)
	require.NoError(t, err)
	sk, center := sk.AddPoint(4, 6)
	sk, circ, err := sk.AddCircle(center, 1.5)
	require.NoError(t, err)
	sk = mustConstrain(t, sk, sketch.Constraint{Type: sketch.PointOnLine, Targets: []int{circ, ln}})

	res, err := Solve(sk)
	require.NoError(t, err)

	pos, _ := res.Sketch.Pos(center)
	assert.InDelta(t, 0, pos.Y, 1e-6, "circle center must land on the line")
}

func TestConcentricMergesCenters(t *testing.T) {
	sk := sketch.New(sketch.PlaneXY)
	sk, p1 := sk.AddFixedPoint(2, 3)
	sk, circ1, err := sk.AddCircle(p1, 4)
	require.NoError(t, err)
	sk, p2 := sk.AddPoint(8, -1)
	sk, circ2, err := sk.AddCircle(p2, 1)
	require.NoError(t, err)
	sk = mustConstrain(t, sk, sketch.Constraint{Type: sketch.Concentric, Targets: []int{circ1, circ2}})

	res, err := Solve(sk)
	require.NoError(t, err)

	pos, _ := res.Sketch.Pos(p2)
	assert.InDelta(t, 2, pos.X, 1e-6)
	assert.InDelta(t, 3, pos.Y, 1e-6)
}

func TestRectangleSolvesSquare(t *testing.T) {
	sk, b, c, d := rectangleFixture(t)

	res, err := Solve(sk)
	require.NoError(t, err)

	pb, _ := res.Sketch.Pos(b)
	pc, _ := res.Sketch.Pos(c)
	pd, _ := res.Sketch.Pos(d)
	assert.InDelta(t, 4, pb.X, 1e-6)
	assert.InDelta(t, 0, pb.Y, 1e-6)
	assert.InDelta(t, 4, pc.X, 1e-6)
	assert.InDelta(t, 3, pc.Y, 1e-6)
	assert.InDelta(t, 0, pd.X, 1e-6)
	assert.InDelta(t, 3, pd.Y, 1e-6)
	assert.Equal(t, 0, res.DOF)
}

func TestNoEquationsSucceedsImmediately(t *testing.T) {
	sk := sketch.New(sketch.PlaneXY)
	sk, _ = sk.AddPoint(1, 2)
	sk, _ = sk.AddPoint(3, 4)

	res, err := Solve(sk)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Iterations)
	assert.Equal(t, 4, res.DOF)
}

func TestConflictingCoincidenceIsRedundant(t *testing.T) {
	// One free point asked to coincide with two different anchors
	sk := sketch.New(sketch.PlaneXY)
	sk, a := sk.AddFixedPoint(0, 0)
	sk, b := sk.AddFixedPoint(10, 0)
	sk, p := sk.AddPoint(5, 5)
	sk = mustConstrain(t, sk, sketch.Constraint{Type: sketch.Coincident, Targets: []int{p, a}})
	sk = mustConstrain(t, sk, sketch.Constraint{Type: sketch.Coincident, Targets: []int{p, b}})

	_, err := Solve(sk)
	require.Error(t, err)
	assert.True(t, IsRedundant(err), "conflicting constraints must classify as redundant, got %v", err)
}

func TestImmovableConflictIsRedundant(t *testing.T) {
	// Both endpoints fixed: no parameters at all, residual cannot drop
	sk := sketch.New(sketch.PlaneXY)
	sk, a := sk.AddFixedPoint(0, 0)
	sk, b := sk.AddFixedPoint(3, 0)
	sk = mustConstrain(t, sk, sketch.Constraint{Type: sketch.Distance, Targets: []int{a, b}, Value: 5})

	_, err := Solve(sk)
	require.Error(t, err)
	assert.True(t, IsRedundant(err))
}

func TestDuplicateConstraintStillConverges(t *testing.T) {
	// The same horizontal twice is consistent; convergence wins over
	// the rank check
	sk, _, b, ln := anchoredLine(t, 3, 2)
	sk = mustConstrain(t, sk, sketch.Constraint{Type: sketch.Horizontal, Targets: []int{ln}})
	sk = mustConstrain(t, sk, sketch.Constraint{Type: sketch.Horizontal, Targets: []int{ln}})

	res, err := Solve(sk)
	require.NoError(t, err)
	pos, _ := res.Sketch.Pos(b)
	assert.InDelta(t, 0, pos.Y, 1e-6)
}

func TestIterationCapReportsDidNotConverge(t *testing.T) {
	// Nonlinear system solvable in a few steps; a cap of one iteration
	// must fail with the convergence reason, not the redundancy one
	sk, _, _, ln := anchoredLine(t, 1, 7)
	sk = mustConstrain(t, sk, sketch.Constraint{Type: sketch.Horizontal, Targets: []int{ln}})
	sk = mustConstrain(t, sk, sketch.Constraint{Type: sketch.Distance, Targets: []int{ln}, Value: 5})

	_, err := New(Options{MaxIterations: 1}).Solve(sk)
	require.Error(t, err)
	assert.True(t, IsDidNotConverge(err), "expected DidNotConverge, got %v", err)

	// With the default iteration cap the same sketch solves
	_, err = Solve(sk)
	assert.NoError(t, err)
}

func TestSolveLeavesInputUntouched(t *testing.T) {
	sk, _, b, ln := anchoredLine(t, 3, 2)
	sk = mustConstrain(t, sk, sketch.Constraint{Type: sketch.Horizontal, Targets: []int{ln}})

	before, _ := sk.Pos(b)
	res, err := Solve(sk)
	require.NoError(t, err)

	after, _ := sk.Pos(b)
	assert.Equal(t, before, after, "input sketch must never be mutated")
	moved, _ := res.Sketch.Pos(b)
	assert.InDelta(t, 0, moved.Y, 1e-6)
}

func TestReferenceConstraintIsIgnored(t *testing.T) {
	sk, _, b, ln := anchoredLine(t, 3, 2)
	sk = mustConstrain(t, sk, sketch.Constraint{Type: sketch.Horizontal, Targets: []int{ln}, Reference: true})

	res, err := Solve(sk)
	require.NoError(t, err)
	pos, _ := res.Sketch.Pos(b)
	assert.Equal(t, 2.0, pos.Y, "reference constraints must not move geometry")
}

func BenchmarkSolveLine(b *testing.B) {
	sk, _, _, ln := anchoredLine(b, 3, 0.4)
	sk = mustConstrain(b, sk, sketch.Constraint{Type: sketch.Horizontal, Targets: []int{ln}})
	sk = mustConstrain(b, sk, sketch.Constraint{Type: sketch.Distance, Targets: []int{ln}, Value: 5})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Solve(sk); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSolveRectangle(b *testing.B) {
	sk, _, _, _ := rectangleFixture(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Solve(sk); err != nil {
			b.Fatal(err)
		}
	}
}
