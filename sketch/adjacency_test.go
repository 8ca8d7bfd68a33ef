package sketch

import (
	"reflect"
	"testing"
)

// chainFixture builds two joined lines, a detached circle and a tangent
// constraint between the first line and the circle.
func chainFixture(t *testing.T) (sk *Sketch, a, b, c, l1, l2, center, circ int) {
	t.Helper()
	sk = New(PlaneXY)
	sk, a = sk.AddPoint(0, 0)
	sk, b = sk.AddPoint(4, 0)
	sk, c = sk.AddPoint(8, 0)
	var err error
	sk, l1, err = sk.AddLine(a, b)
	if err != nil {
		t.Fatalf("Failed to add line: %v", err)
	}
	sk, l2, err = sk.AddLine(b, c)
	if err != nil {
		t.Fatalf("Failed to add line: %v", err)
	}
	sk, center = sk.AddPoint(2, 5)
	sk, circ, err = sk.AddCircle(center, 2)
	if err != nil {
		t.Fatalf("Failed to add circle: %v", err)
	}
	sk, _, err = sk.AddConstraint(Constraint{Type: Tangent, Targets: []int{l1, circ}})
	if err != nil {
		t.Fatalf("Failed to add tangent: %v", err)
	}
	return sk, a, b, c, l1, l2, center, circ
}

func TestConnectedComponentFollowsSharedPoints(t *testing.T) {
	sk, a, b, c, l1, l2, center, circ := chainFixture(t)

	// Starting from the first line, the walk crosses the shared point
	// into the second line but never reaches the circle: the tangent
	// constraint is not a point-sharing link
	got := sk.Adjacency().ConnectedComponent(l1)
	want := []int{a, b, c, l1, l2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected component %v, got %v", want, got)
	}

	got = sk.Adjacency().ConnectedComponent(circ)
	want = []int{center, circ}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected component %v, got %v", want, got)
	}
}

func TestConnectedComponentOfBarePoint(t *testing.T) {
	sk := New(PlaneXY)
	sk, p := sk.AddPoint(1, 1)

	got := sk.Adjacency().ConnectedComponent(p)
	if !reflect.DeepEqual(got, []int{p}) {
		t.Errorf("Expected lone point component, got %v", got)
	}
	if comp := sk.Adjacency().ConnectedComponent(99); comp != nil {
		t.Errorf("Expected nil for unknown start, got %v", comp)
	}
}

func TestPointsOf(t *testing.T) {
	sk, a, b, c, l1, l2, _, _ := chainFixture(t)

	got := sk.Adjacency().PointsOf([]int{l1, l2})
	want := []int{a, b, c}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Expected points %v, got %v", want, got)
	}
}

func TestConstraintAttachedPoints(t *testing.T) {
	sk, a, b, _, l1, _, center, _ := chainFixture(t)

	// Dragging the chain moves a, b and c; the tangent constraint ties
	// the circle's center to the moving set, so it must be held still
	component := sk.Adjacency().ConnectedComponent(l1)
	got := sk.ConstraintAttachedPoints(component)
	if !reflect.DeepEqual(got, []int{center}) {
		t.Errorf("Expected attached points [%d], got %v", center, got)
	}

	// Dragging the circle instead holds the line's endpoints
	cComp := sk.Adjacency().ConnectedComponent(center)
	got = sk.ConstraintAttachedPoints(cComp)
	if !reflect.DeepEqual(got, []int{a, b}) {
		t.Errorf("Expected attached points [%d %d], got %v", a, b, got)
	}
}
