package sketch

import "testing"

func TestDOFEmptySketch(t *testing.T) {
	sk := New(PlaneXY)
	dof, status := sk.ComputeDOF()
	if dof != 0 || status != StatusFullyConstrained {
		t.Errorf("Expected (0, fully constrained), got (%d, %s)", dof, status)
	}
}

func TestDOFFreeAndFixedPoints(t *testing.T) {
	sk := New(PlaneXY)
	sk, _ = sk.AddPoint(0, 0)
	if dof, status := sk.ComputeDOF(); dof != 2 || status != StatusUnderConstrained {
		t.Errorf("Expected (2, under constrained), got (%d, %s)", dof, status)
	}

	sk, _ = sk.AddFixedPoint(1, 1)
	if dof, _ := sk.ComputeDOF(); dof != 2 {
		t.Errorf("Expected fixed point to contribute nothing, got %d", dof)
	}
}

func TestDOFTriangle(t *testing.T) {
	// Three free points joined by three lines: lines themselves carry
	// no degrees of freedom
	sk := New(PlaneXY)
	sk, a := sk.AddPoint(0, 0)
	sk, b := sk.AddPoint(4, 0)
	sk, c := sk.AddPoint(2, 3)
	sk, _, _ = sk.AddLine(a, b)
	sk, _, _ = sk.AddLine(b, c)
	sk, _, _ = sk.AddLine(c, a)

	if dof, status := sk.ComputeDOF(); dof != 6 || status != StatusUnderConstrained {
		t.Errorf("Expected (6, under constrained), got (%d, %s)", dof, status)
	}
}

func TestDOFConstraintCosts(t *testing.T) {
	tests := []struct {
		typ  ConstraintType
		cost int
	}{
		{Horizontal, 1},
		{Vertical, 1},
		{Distance, 1},
		{Radius, 1},
		{Diameter, 1},
		{Parallel, 1},
		{Perpendicular, 1},
		{Tangent, 1},
		{Equal, 1},
		{PointOnLine, 1},
		{PointOnCircle, 1},
		{Coincident, 2},
		{Concentric, 2},
		{Midpoint, 2},
	}
	for _, tt := range tests {
		if got := tt.typ.DOFRemoved(); got != tt.cost {
			t.Errorf("Expected %s to remove %d, got %d", tt.typ, tt.cost, got)
		}
	}
}

func TestDOFFullyConstrainedExample(t *testing.T) {
	// A fixed anchor, one free point, a line between them, horizontal
	// plus a length dimension: nothing left to move
	sk := New(PlaneXY)
	sk, a := sk.AddFixedPoint(0, 0)
	sk, b := sk.AddPoint(3, 0)
	sk, ln, _ := sk.AddLine(a, b)
	sk, _, err := sk.AddConstraint(Constraint{Type: Horizontal, Targets: []int{ln}})
	if err != nil {
		t.Fatalf("Failed to add horizontal: %v", err)
	}
	sk, _, err = sk.AddConstraint(Constraint{Type: Distance, Targets: []int{ln}, Value: 5})
	if err != nil {
		t.Fatalf("Failed to add distance: %v", err)
	}

	if sk.DOF != 0 || sk.Status != StatusFullyConstrained {
		t.Errorf("Expected (0, fully constrained), got (%d, %s)", sk.DOF, sk.Status)
	}

	// One more constraint tips it over
	sk, _, err = sk.AddConstraint(Constraint{Type: Distance, Targets: []int{a, b}, Value: 5})
	if err != nil {
		t.Fatalf("Failed to add second distance: %v", err)
	}
	if sk.DOF != -1 || sk.Status != StatusOverConstrained {
		t.Errorf("Expected (-1, over constrained), got (%d, %s)", sk.DOF, sk.Status)
	}
}

func TestDOFOrderIndependence(t *testing.T) {
	build := func(constraintsFirst bool) int {
		sk := New(PlaneXY)
		sk, a := sk.AddPoint(0, 0)
		sk, b := sk.AddPoint(4, 0)
		sk, c := sk.AddPoint(4, 3)
		sk, l1, _ := sk.AddLine(a, b)
		sk, l2, _ := sk.AddLine(b, c)

		cs := []Constraint{
			{Type: Horizontal, Targets: []int{l1}},
			{Type: Vertical, Targets: []int{l2}},
			{Type: Coincident, Targets: []int{a, c}},
		}
		if constraintsFirst {
			for i := len(cs) - 1; i >= 0; i-- {
				var err error
				sk, _, err = sk.AddConstraint(cs[i])
				if err != nil {
					t.Fatalf("Failed to add %s: %v", cs[i].Type, err)
				}
			}
		} else {
			for _, c := range cs {
				var err error
				sk, _, err = sk.AddConstraint(c)
				if err != nil {
					t.Fatalf("Failed to add %s: %v", c.Type, err)
				}
			}
		}
		dof, _ := sk.ComputeDOF()
		return dof
	}

	if a, b := build(true), build(false); a != b {
		t.Errorf("Expected insertion order not to matter, got %d vs %d", a, b)
	}
}

func TestDOFEqualChain(t *testing.T) {
	// Equal over k primitives chains k-1 pairings
	sk := New(PlaneXY)
	var lines []int
	for i := 0; i < 4; i++ {
		var a, b int
		sk, a = sk.AddPoint(float64(i)*3, 0)
		sk, b = sk.AddPoint(float64(i)*3+1, 2)
		var ln int
		var err error
		sk, ln, err = sk.AddLine(a, b)
		if err != nil {
			t.Fatalf("Failed to add line: %v", err)
		}
		lines = append(lines, ln)
	}

	before, _ := sk.ComputeDOF()
	sk, _, err := sk.AddConstraint(Constraint{Type: Equal, Targets: lines})
	if err != nil {
		t.Fatalf("Failed to add equal: %v", err)
	}
	after, _ := sk.ComputeDOF()

	if before-after != 3 {
		t.Errorf("Expected equal over 4 lines to remove 3, got %d", before-after)
	}
}

func TestDOFMultiSelectFanOut(t *testing.T) {
	// One horizontal per selected line: three lines cost three degrees
	sk := New(PlaneXY)
	var lines []int
	for i := 0; i < 3; i++ {
		var a, b int
		sk, a = sk.AddPoint(float64(i), 0)
		sk, b = sk.AddPoint(float64(i)+1, 1)
		var ln int
		var err error
		sk, ln, err = sk.AddLine(a, b)
		if err != nil {
			t.Fatalf("Failed to add line: %v", err)
		}
		lines = append(lines, ln)
	}

	before, _ := sk.ComputeDOF()
	for _, ln := range lines {
		var err error
		sk, _, err = sk.AddConstraint(Constraint{Type: Horizontal, Targets: []int{ln}})
		if err != nil {
			t.Fatalf("Failed to add horizontal: %v", err)
		}
	}
	after, _ := sk.ComputeDOF()

	if before-after != 3 {
		t.Errorf("Expected 3 degrees removed, got %d", before-after)
	}
}
