package sketch

// ComputeDOF returns the sketch's remaining degrees of freedom and the
// status bucket it falls into. Every non-fixed point contributes two
// degrees; each driving constraint removes its type's cost. The count
// is an accounting approximation: it can go negative on conflicting
// constraints, and a zero count does not guarantee the solver converges.
func (s *Sketch) ComputeDOF() (int, Status) {
	dof := 2 * s.FreePointCount()
	for _, c := range s.Constraints {
		if !c.Driving() {
			continue
		}
		dof -= c.DOFRemoved()
	}

	switch {
	case dof > 0:
		return dof, StatusUnderConstrained
	case dof == 0:
		return dof, StatusFullyConstrained
	default:
		return dof, StatusOverConstrained
	}
}

// refreshDOF recomputes the derived DOF and Status fields in place on
// an already-cloned sketch.
func (s *Sketch) refreshDOF() {
	s.DOF, s.Status = s.ComputeDOF()
}
