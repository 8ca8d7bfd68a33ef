package export

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"drafter/canvas"
	"drafter/geometry"
	"drafter/sketch"
)

// SVGExporter exports sketches to SVG format. The plane maps onto the
// SVG viewport with Y negated, since SVG's axis points down.
type SVGExporter struct{}

// NewSVGExporter creates a new SVG exporter
func NewSVGExporter() *SVGExporter {
	return &SVGExporter{}
}

// Export converts a sketch to an SVG document
func (e *SVGExporter) Export(sk *sketch.Sketch) (string, error) {
	if sk == nil {
		return "", fmt.Errorf("cannot export nil sketch")
	}

	min, max, ok := canvas.Bounds(sk)
	if !ok {
		min, max = geometry.V(-1, -1), geometry.V(1, 1)
	}
	span := math.Max(max.X-min.X, max.Y-min.Y)
	if span < geometry.Epsilon {
		span = 2
	}
	pad := span * 0.05
	sw := span / 200
	pr := sw * 2.5

	var sb strings.Builder
	fmt.Fprintf(&sb, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s">`+"\n",
		f(min.X-pad), f(-(max.Y+pad)), f(max.X-min.X+2*pad), f(max.Y-min.Y+2*pad))

	for _, p := range sk.Primitives {
		switch p := p.(type) {
		case sketch.Line:
			a, ok1 := sk.Pos(p.P1)
			b, ok2 := sk.Pos(p.P2)
			if !ok1 || !ok2 {
				continue
			}
			fmt.Fprintf(&sb, `  <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="black" stroke-width="%s" stroke-linecap="round"/>`+"\n",
				f(a.X), f(-a.Y), f(b.X), f(-b.Y), f(sw))

		case sketch.Circle:
			c, ok := sk.Pos(p.Center)
			if !ok {
				continue
			}
			fmt.Fprintf(&sb, `  <circle cx="%s" cy="%s" r="%s" fill="none" stroke="black" stroke-width="%s"/>`+"\n",
				f(c.X), f(-c.Y), f(p.Radius), f(sw))

		case sketch.Arc:
			c, ok1 := sk.Pos(p.Center)
			st, ok2 := sk.Pos(p.Start)
			en, ok3 := sk.Pos(p.End)
			if !ok1 || !ok2 || !ok3 {
				continue
			}
			r := c.Dist(st)
			_, sweep := geometry.ArcSweep(c, st, en)
			if sweep >= 2*math.Pi-geometry.Epsilon {
				// Coincident endpoints read as a full turn
				fmt.Fprintf(&sb, `  <circle cx="%s" cy="%s" r="%s" fill="none" stroke="black" stroke-width="%s"/>`+"\n",
					f(c.X), f(-c.Y), f(r), f(sw))
				continue
			}
			// Counterclockwise on the plane is sweep-flag 0 once Y flips
			largeArc := 0
			if sweep > math.Pi {
				largeArc = 1
			}
			fmt.Fprintf(&sb, `  <path d="M %s %s A %s %s 0 %d 0 %s %s" fill="none" stroke="black" stroke-width="%s"/>`+"\n",
				f(st.X), f(-st.Y), f(r), f(r), largeArc, f(en.X), f(-en.Y), f(sw))
		}
	}

	// Point markers overlay the curves they anchor
	for _, pt := range sk.Points() {
		if pt.Fixed {
			fmt.Fprintf(&sb, `  <rect x="%s" y="%s" width="%s" height="%s" fill="black"/>`+"\n",
				f(pt.X-pr), f(-pt.Y-pr), f(2*pr), f(2*pr))
		} else {
			fmt.Fprintf(&sb, `  <circle cx="%s" cy="%s" r="%s" fill="black"/>`+"\n",
				f(pt.X), f(-pt.Y), f(pr))
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String(), nil
}

// GetFileExtension returns the file extension for SVG
func (e *SVGExporter) GetFileExtension() string {
	return ".svg"
}

// GetFormatName returns the format name
func (e *SVGExporter) GetFormatName() string {
	return "SVG"
}

// f formats a coordinate compactly; six significant digits keeps files
// tidy without visible rounding.
func f(v float64) string {
	if v == 0 {
		v = 0 // never emit negative zero
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}
