package canvas

import (
	"math"

	"drafter/geometry"
)

// cellAspect is how much taller a terminal cell is than it is wide. One
// plane unit spans cellAspect columns for every row, so circles come out
// round instead of squashed.
const cellAspect = 2.0

// Viewport maps plane coordinates onto grid cells. Origin is the plane
// point at the centre of cell (0,0); Scale is plane units per row. The
// plane's Y axis points up, the grid's points down.
type Viewport struct {
	Origin geometry.Vec
	Scale  float64
}

// FitViewport frames the box [min, max] inside a width by height grid
// with a one-cell margin, centred. A degenerate or empty box gets unit
// scale around its centre.
func FitViewport(min, max geometry.Vec, width, height int) Viewport {
	usableW := float64(width - 2)
	usableH := float64(height - 2)
	if usableW < 1 {
		usableW = 1
	}
	if usableH < 1 {
		usableH = 1
	}

	spanX := max.X - min.X
	spanY := max.Y - min.Y
	scale := math.Max(spanX*cellAspect/usableW, spanY/usableH)
	if scale <= 0 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		scale = 1
	}

	center := geometry.V((min.X+max.X)/2, (min.Y+max.Y)/2)
	return Viewport{
		Origin: geometry.V(
			center.X-float64(width)/2*scale/cellAspect,
			center.Y+float64(height)/2*scale,
		),
		Scale: scale,
	}
}

// ToCell converts a plane point to grid coordinates.
func (v Viewport) ToCell(p geometry.Vec) (x, y int) {
	x = int(math.Round((p.X - v.Origin.X) / v.Scale * cellAspect))
	y = int(math.Round((v.Origin.Y - p.Y) / v.Scale))
	return x, y
}

// ToPlane converts grid coordinates back to the plane point at the
// cell's centre.
func (v Viewport) ToPlane(x, y int) geometry.Vec {
	return geometry.V(
		v.Origin.X+float64(x)*v.Scale/cellAspect,
		v.Origin.Y-float64(y)*v.Scale,
	)
}

// Pan shifts the viewport by whole cells, positive dx rightward and
// positive dy downward.
func (v Viewport) Pan(dx, dy int) Viewport {
	v.Origin.X += float64(dx) * v.Scale / cellAspect
	v.Origin.Y -= float64(dy) * v.Scale
	return v
}

// Zoom rescales around a fixed plane point, keeping it on the same
// cell. Factors above one zoom in.
func (v Viewport) Zoom(factor float64, about geometry.Vec) Viewport {
	if factor <= 0 {
		return v
	}
	scale := v.Scale / factor
	v.Origin = geometry.V(
		about.X-(about.X-v.Origin.X)*scale/v.Scale,
		about.Y-(about.Y-v.Origin.Y)*scale/v.Scale,
	)
	v.Scale = scale
	return v
}
