// Package canvas rasterizes plane geometry onto a character grid for
// terminal display and plain-text export.
package canvas

import (
	"math"
	"strings"

	"drafter/geometry"
)

// Layer records what produced a cell so callers can style sketch ink,
// selection and overlays differently. Higher layers win overdraw.
type Layer uint8

const (
	LayerNone Layer = iota
	LayerGuide
	LayerSketch
	LayerPreview
	LayerSelected
	LayerSnap
)

// Grid is a rune raster addressed in character cells, origin top-left.
// Drawing operations take plane coordinates and go through the grid's
// viewport; Set and Text address cells directly.
//
// Grid is not safe for concurrent writes.
type Grid struct {
	cells  []rune
	layers []Layer
	width  int
	height int
	view   Viewport
}

// NewGrid creates a cleared grid. Zero or negative dimensions return nil.
func NewGrid(width, height int, view Viewport) *Grid {
	if width <= 0 || height <= 0 {
		return nil
	}
	g := &Grid{
		cells:  make([]rune, width*height),
		layers: make([]Layer, width*height),
		width:  width,
		height: height,
		view:   view,
	}
	g.Clear()
	return g
}

// Size returns the grid dimensions in cells.
func (g *Grid) Size() (width, height int) {
	return g.width, g.height
}

// View returns the active viewport.
func (g *Grid) View() Viewport {
	return g.view
}

// Rune returns the character at a cell, space when out of bounds.
func (g *Grid) Rune(x, y int) rune {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return ' '
	}
	return g.cells[y*g.width+x]
}

// LayerAt returns the layer that drew a cell.
func (g *Grid) LayerAt(x, y int) Layer {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return LayerNone
	}
	return g.layers[y*g.width+x]
}

// Set places a character, clipping silently and keeping whichever of
// the existing and new layers ranks higher.
func (g *Grid) Set(x, y int, r rune, l Layer) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return
	}
	i := y*g.width + x
	if g.layers[i] > l {
		return
	}
	g.cells[i] = r
	g.layers[i] = l
}

// Clear resets every cell to a space on the empty layer.
func (g *Grid) Clear() {
	for i := range g.cells {
		g.cells[i] = ' '
		g.layers[i] = LayerNone
	}
}

// String renders the grid as newline-joined rows.
func (g *Grid) String() string {
	var sb strings.Builder
	sb.Grow(g.height * (g.width + 1))
	for y := 0; y < g.height; y++ {
		sb.WriteString(string(g.cells[y*g.width : (y+1)*g.width]))
		if y < g.height-1 {
			sb.WriteRune('\n')
		}
	}
	return sb.String()
}

// Each visits every cell in row order.
func (g *Grid) Each(fn func(x, y int, r rune, l Layer)) {
	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			i := y*g.width + x
			fn(x, y, g.cells[i], g.layers[i])
		}
	}
}

// Text writes a string left to right from a cell, clipped at the edge.
func (g *Grid) Text(x, y int, text string, l Layer) {
	for _, r := range text {
		g.Set(x, y, r, l)
		x++
	}
}

// Marker plots a single character at a plane point.
func (g *Grid) Marker(p geometry.Vec, r rune, l Layer) {
	x, y := g.view.ToCell(p)
	g.Set(x, y, r, l)
}

// Line draws a plane segment with Bresenham stepping, choosing the
// stroke character from the segment's slope in cell space.
func (g *Grid) Line(a, b geometry.Vec, l Layer) {
	x1, y1 := g.view.ToCell(a)
	x2, y2 := g.view.ToCell(b)
	r := strokeRune(float64(x2-x1), float64(y2-y1))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	x, y := x1, y1

	xInc := 1
	if x1 > x2 {
		xInc = -1
	}
	yInc := 1
	if y1 > y2 {
		yInc = -1
	}

	if dx > dy {
		err := dx / 2
		for x != x2 {
			g.Set(x, y, r, l)
			err -= dy
			if err < 0 {
				y += yInc
				err += dx
			}
			x += xInc
		}
	} else {
		err := dy / 2
		for y != y2 {
			g.Set(x, y, r, l)
			err -= dx
			if err < 0 {
				x += xInc
				err += dy
			}
			y += yInc
		}
	}
	g.Set(x2, y2, r, l)
}

// Circle draws a full circle by sampling the perimeter densely enough
// that adjacent samples land on adjacent cells.
func (g *Grid) Circle(center geometry.Vec, radius float64, l Layer) {
	g.arcSamples(center, radius, 0, 2*math.Pi, l)
}

// Arc draws a partial circle from the start angle over a signed sweep,
// counterclockwise positive.
func (g *Grid) Arc(center geometry.Vec, radius, start, sweep float64, l Layer) {
	g.arcSamples(center, radius, start, sweep, l)
}

func (g *Grid) arcSamples(center geometry.Vec, radius, start, sweep float64, l Layer) {
	if radius <= 0 {
		g.Marker(center, '+', l)
		return
	}
	// Perimeter length in cells bounds the sample count
	cellsAcross := radius / g.view.Scale * cellAspect
	steps := int(math.Abs(sweep)*cellsAcross) + 8
	if steps > 4096 {
		steps = 4096
	}

	for i := 0; i <= steps; i++ {
		theta := start + sweep*float64(i)/float64(steps)
		p := geometry.V(center.X+radius*math.Cos(theta), center.Y+radius*math.Sin(theta))
		x, y := g.view.ToCell(p)
		// Tangent direction in cell space picks the stroke
		g.Set(x, y, strokeRune(-math.Sin(theta)*cellAspect, -math.Cos(theta)), l)
	}
}

// strokeRune picks a box-drawing character for a cell-space direction,
// y pointing down.
func strokeRune(dx, dy float64) rune {
	if dx == 0 && dy == 0 {
		return '·'
	}
	a := math.Atan2(dy, dx)
	if a < 0 {
		a += math.Pi
	}
	switch {
	case a < math.Pi/8:
		return '─'
	case a < 3*math.Pi/8:
		return '╲'
	case a < 5*math.Pi/8:
		return '│'
	case a < 7*math.Pi/8:
		return '╱'
	default:
		return '─'
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
