package sketch

import (
	"fmt"
	"math"
)

// Issue is a single integrity problem found by Validate.
type Issue struct {
	ID      int // Offending primitive or constraint id
	Message string
}

// String formats the issue for diagnostics.
func (i Issue) String() string {
	return fmt.Sprintf("[%d] %s", i.ID, i.Message)
}

// Validate checks referential integrity and value ranges and
// returns every problem found. A healthy sketch returns nil. Sketches
// built through the public operations stay valid; this exists for
// diagnostics and for guarding externally assembled values.
func (s *Sketch) Validate() []Issue {
	var issues []Issue
	report := func(id int, format string, args ...interface{}) {
		issues = append(issues, Issue{ID: id, Message: fmt.Sprintf(format, args...)})
	}

	seen := make(map[int]bool)
	for _, p := range s.Primitives {
		if seen[p.PrimID()] {
			report(p.PrimID(), "duplicate primitive id")
		}
		seen[p.PrimID()] = true

		switch v := p.(type) {
		case Point:
			if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) {
				report(v.ID, "point has non-finite coordinates")
			}
		case Line:
			s.checkPointRef(&issues, v.ID, "line", v.P1)
			s.checkPointRef(&issues, v.ID, "line", v.P2)
			if v.P1 == v.P2 {
				report(v.ID, "line has identical endpoints")
			}
		case Circle:
			s.checkPointRef(&issues, v.ID, "circle", v.Center)
			if v.Radius < 0 {
				report(v.ID, "circle has negative radius %g", v.Radius)
			}
		case Arc:
			s.checkPointRef(&issues, v.ID, "arc", v.Center)
			s.checkPointRef(&issues, v.ID, "arc", v.Start)
			s.checkPointRef(&issues, v.ID, "arc", v.End)
			if v.Start == v.End || v.Center == v.Start || v.Center == v.End {
				report(v.ID, "arc points must be distinct")
			}
		}
	}

	for _, c := range s.Constraints {
		if seen[c.ID] {
			report(c.ID, "constraint id collides with another id")
		}
		seen[c.ID] = true

		missing := false
		for _, t := range c.Targets {
			if _, ok := s.Primitive(t); !ok {
				report(c.ID, "%s constraint references unknown primitive %d", c.Type, t)
				missing = true
			}
		}
		if !missing {
			if _, err := s.canonicalTargets(c.Type, c.Targets); err != nil {
				report(c.ID, "%s constraint has inapplicable targets %v", c.Type, c.Targets)
			}
		}
		if c.Type.HasValue() && c.Value < 0 {
			report(c.ID, "%s constraint has negative value %g", c.Type, c.Value)
		}
	}

	return issues
}

// checkPointRef reports a reference that does not resolve to a point.
func (s *Sketch) checkPointRef(issues *[]Issue, owner int, kind string, ref int) {
	if _, ok := s.Point(ref); !ok {
		*issues = append(*issues, Issue{ID: owner, Message: fmt.Sprintf("%s references non-point %d", kind, ref)})
	}
}
