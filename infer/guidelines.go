package infer

import (
	"math"

	"drafter/geometry"
	"drafter/sketch"
)

// Axis tags a guideline's orientation.
type Axis int

const (
	AxisHorizontal Axis = iota
	AxisVertical
)

// String returns a human-readable axis name.
func (a Axis) String() string {
	switch a {
	case AxisHorizontal:
		return "horizontal"
	case AxisVertical:
		return "vertical"
	default:
		return "unknown"
	}
}

// DefaultAngleTolerance is the alignment tolerance in radians, also
// used as the coordinate-delta band when no chain is active.
const DefaultAngleTolerance = 0.15

// Fixed per-axis colors so the two orientations render distinctly.
const (
	horizontalColor = "#56b6c2"
	verticalColor   = "#e06c75"
)

// Guideline is a transient alignment hint from an existing point
// through the cursor.
type Guideline struct {
	Start geometry.Vec
	End   geometry.Vec
	Axis  Axis
	Color string
}

// Guidelines returns an alignment hint for every sketch point the
// cursor lines up with. While a line chain is active (chainOrigin
// non-nil) alignment is angular, so the band widens with distance the
// same way the automatic horizontal/vertical detection does; otherwise
// it is a plain coordinate delta.
func Guidelines(cursor geometry.Vec, sk *sketch.Sketch, chainOrigin *geometry.Vec, tol float64) []Guideline {
	if tol <= 0 {
		tol = DefaultAngleTolerance
	}
	var out []Guideline
	for _, p := range sk.Points() {
		pos := geometry.V(p.X, p.Y)
		d := cursor.Sub(pos)
		if geometry.NearZero(d.Len(), geometry.Epsilon) {
			continue
		}

		var alignedH, alignedV bool
		if chainOrigin != nil {
			alignedH = math.Atan2(math.Abs(d.Y), math.Abs(d.X)) <= tol
			alignedV = math.Atan2(math.Abs(d.X), math.Abs(d.Y)) <= tol
		} else {
			alignedH = math.Abs(d.Y) <= tol
			alignedV = math.Abs(d.X) <= tol
		}

		if alignedH {
			out = append(out, Guideline{
				Start: pos,
				End:   geometry.V(cursor.X, pos.Y),
				Axis:  AxisHorizontal,
				Color: horizontalColor,
			})
		}
		if alignedV {
			out = append(out, Guideline{
				Start: pos,
				End:   geometry.V(pos.X, cursor.Y),
				Axis:  AxisVertical,
				Color: verticalColor,
			})
		}
	}
	return out
}

// SnapToGuidelines pins the cursor to the exact coordinate of the first
// guideline per axis, so a subsequent point lands truly aligned rather
// than within tolerance.
func SnapToGuidelines(cursor geometry.Vec, gls []Guideline) geometry.Vec {
	snapped := cursor
	doneH, doneV := false, false
	for _, g := range gls {
		switch g.Axis {
		case AxisHorizontal:
			if !doneH {
				snapped.Y = g.Start.Y
				doneH = true
			}
		case AxisVertical:
			if !doneV {
				snapped.X = g.Start.X
				doneV = true
			}
		}
	}
	return snapped
}

// AxisAlignment reports whether the segment a-b is close enough to an
// axis to deserve an automatic constraint. When both axes are within
// tolerance the smaller deviation wins.
func AxisAlignment(a, b geometry.Vec, tol float64) (sketch.ConstraintType, bool) {
	if tol <= 0 {
		tol = DefaultAngleTolerance
	}
	d := b.Sub(a)
	if geometry.NearZero(d.Len(), geometry.Epsilon) {
		return 0, false
	}
	devH := math.Atan2(math.Abs(d.Y), math.Abs(d.X))
	devV := math.Atan2(math.Abs(d.X), math.Abs(d.Y))
	if devH > tol && devV > tol {
		return 0, false
	}
	if devH <= devV {
		return sketch.Horizontal, true
	}
	return sketch.Vertical, true
}
