package editor

import "drafter/geometry"

// Segment is a straight preview stroke.
type Segment struct {
	A, B geometry.Vec
}

// CirclePreview is an uncommitted circle outline.
type CirclePreview struct {
	Center geometry.Vec
	Radius float64
}

// ArcPreview is an uncommitted arc, as a counterclockwise sweep.
type ArcPreview struct {
	Center geometry.Vec
	Radius float64
	From   float64
	Sweep  float64
}

// Preview is the uncommitted construction geometry for the active
// tool, for a front-end to render over the sketch.
type Preview struct {
	Segments []Segment
	Circles  []CirclePreview
	Arcs     []ArcPreview
	Marks    []geometry.Vec // clicked-but-uncommitted positions
}

// Preview reports what the active gesture would create at the current
// cursor position. Collinear arc clicks degrade to a straight stroke.
func (e *Editor) Preview() Preview {
	var pv Preview
	switch e.tool {
	case ToolLine:
		if e.chainActive {
			pv.Segments = append(pv.Segments, Segment{A: e.chainAnchor, B: e.cursor})
			pv.Marks = append(pv.Marks, e.chainAnchor)
		}

	case ToolCircle:
		if e.circleActive {
			pv.Circles = append(pv.Circles, CirclePreview{Center: e.circleCenter, Radius: e.circleRadius})
			pv.Marks = append(pv.Marks, e.circleCenter)
		}

	case ToolArc:
		pv.Marks = append(pv.Marks, e.arcClicks...)
		switch len(e.arcClicks) {
		case 1:
			pv.Segments = append(pv.Segments, Segment{A: e.arcClicks[0], B: e.cursor})
		case 2:
			start, end := e.arcClicks[0], e.arcClicks[1]
			center, ok := geometry.Circumcenter(start, end, e.cursor)
			if !ok {
				pv.Segments = append(pv.Segments, Segment{A: start, B: end})
				break
			}
			from, sweep := geometry.ArcSweep(center, start, end)
			if !geometry.AngleOnSweep(from, sweep, e.cursor.Sub(center).Angle()) {
				start, end = end, start
				from, sweep = geometry.ArcSweep(center, start, end)
			}
			pv.Arcs = append(pv.Arcs, ArcPreview{
				Center: center,
				Radius: start.Dist(center),
				From:   from,
				Sweep:  sweep,
			})
		}
	}
	return pv
}
