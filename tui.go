package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"drafter/canvas"
	"drafter/editor"
	"drafter/geometry"
	"drafter/infer"
	"drafter/sketch"
	"drafter/solver"
)

// zoomStep is the magnification per wheel notch or zoom keypress.
const zoomStep = 1.25

// panStep is how many columns an arrow keypress shifts the view.
const panStep = 4

const helpLine = "tools: s select, p point, l line, c circle, a arc | constraints: h v d r D x L X e t n m o O | f fit, w write, q quit"

// constraintKeys maps hotkeys to the constraint they author over the
// selection. Dimensional ones take the current measurement.
var constraintKeys = map[rune]sketch.ConstraintType{
	'h': sketch.Horizontal,
	'v': sketch.Vertical,
	'd': sketch.Distance,
	'r': sketch.Radius,
	'D': sketch.Diameter,
	'x': sketch.Coincident,
	'L': sketch.Parallel,
	'X': sketch.Perpendicular,
	'e': sketch.Equal,
	't': sketch.Tangent,
	'n': sketch.Concentric,
	'm': sketch.Midpoint,
	'o': sketch.PointOnLine,
	'O': sketch.PointOnCircle,
}

// runInteractive launches the TUI editor.
func runInteractive(filename string, plane sketch.Plane, opts editor.Options) error {
	ed := editor.New(plane, opts)

	// Load sketch if filename provided
	if filename != "" {
		sk, err := loadSketch(filename)
		if err != nil {
			return fmt.Errorf("failed to load sketch: %w", err)
		}
		ed.SetSketch(sk)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.SetStyle(tcell.StyleDefault)

	// Solves run on the runner's goroutine; outcomes come back through
	// the select loop below so the editor itself stays single-threaded.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runner := solver.NewRunner(solver.New(opts.Solver))
	runner.Start(ctx)
	defer runner.Close()
	ed.AttachRunner(runner)

	t := &tui{
		screen:   screen,
		ed:       ed,
		runner:   runner,
		filename: filename,
		msg:      helpLine,
	}
	t.fitView()
	return t.run()
}

// tui owns the screen, the view transform and the transient message
// line; everything about the sketch itself lives in the editor.
type tui struct {
	screen   tcell.Screen
	ed       *editor.Editor
	runner   *solver.Runner
	view     canvas.Viewport
	filename string

	cursor   geometry.Vec
	dragging bool
	msg      string
}

// run is the main event loop: one goroutine polls the screen, the loop
// itself interleaves input with solve outcomes and redraws after each.
func (t *tui) run() error {
	events := make(chan tcell.Event, 16)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	for {
		t.draw()

		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventResize:
				t.screen.Sync()
			case *tcell.EventKey:
				if t.handleKey(ev) {
					return nil
				}
			case *tcell.EventMouse:
				t.handleMouse(ev)
			}

		case out := <-t.runner.Results():
			t.ed.HandleOutcome(out)
		}
	}
}

// handleKey dispatches one keypress; true means quit.
func (t *tui) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		t.msg = ""
		t.ed.Cancel()
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		t.ed.DeleteSelection()
	case tcell.KeyLeft:
		t.view = t.view.Pan(-panStep, 0)
	case tcell.KeyRight:
		t.view = t.view.Pan(panStep, 0)
	case tcell.KeyUp:
		t.view = t.view.Pan(0, -panStep/2)
	case tcell.KeyDown:
		t.view = t.view.Pan(0, panStep/2)
	case tcell.KeyRune:
		return t.handleRune(ev.Rune())
	}
	return false
}

func (t *tui) handleRune(r rune) bool {
	switch r {
	case 'q':
		return true

	// Tools
	case 's':
		t.ed.SetTool(editor.ToolSelect)
	case 'p':
		t.ed.SetTool(editor.ToolPoint)
	case 'l':
		t.ed.SetTool(editor.ToolLine)
	case 'c':
		t.ed.SetTool(editor.ToolCircle)
	case 'a':
		t.ed.SetTool(editor.ToolArc)

	// View
	case '+', '=':
		t.view = t.view.Zoom(zoomStep, t.center())
	case '-':
		t.view = t.view.Zoom(1/zoomStep, t.center())
	case 'f':
		t.fitView()

	case 'w':
		t.save()
	case '?':
		t.msg = helpLine

	default:
		if ct, ok := constraintKeys[r]; ok {
			t.applyConstraint(ct)
		}
	}
	return false
}

// handleMouse turns tcell button transitions into pointer events. The
// editor only sees plane coordinates.
func (t *tui) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	pos := t.view.ToPlane(x, y)
	t.cursor = pos
	btns := ev.Buttons()

	switch {
	case btns&tcell.WheelUp != 0:
		t.view = t.view.Zoom(zoomStep, pos)
	case btns&tcell.WheelDown != 0:
		t.view = t.view.Zoom(1/zoomStep, pos)
	case btns&tcell.Button1 != 0:
		if t.dragging {
			t.ed.PointerMove(pos)
		} else {
			t.dragging = true
			t.ed.PointerDown(pos, time.Now())
		}
	case t.dragging:
		t.dragging = false
		t.ed.PointerUp(pos)
	default:
		// Hover still moves the cursor so previews and snaps follow
		t.ed.PointerMove(pos)
	}
}

func (t *tui) applyConstraint(ct sketch.ConstraintType) {
	value := 0.0
	if ct.HasValue() {
		value = editor.Measured
	}
	if err := t.ed.ApplyConstraint(ct, value); err != nil {
		t.msg = err.Error()
		return
	}
	t.msg = ""
}

// center returns the plane point in the middle of the drawing area.
func (t *tui) center() geometry.Vec {
	w, h := t.screen.Size()
	return t.view.ToPlane(w/2, (h-1)/2)
}

// fitView frames the whole sketch, or a default box when it is empty.
func (t *tui) fitView() {
	w, h := t.screen.Size()
	min, max, ok := canvas.Bounds(t.ed.Sketch())
	if !ok {
		min, max = geometry.V(-8, -5), geometry.V(8, 5)
	}
	t.view = canvas.FitViewport(min, max, w, h-1)
}

// draw rasterizes the sketch, preview and overlays into a grid and
// blits it, leaving the bottom row for the status bar.
func (t *tui) draw() {
	w, h := t.screen.Size()
	if w < 2 || h < 2 {
		return
	}

	g := canvas.NewGrid(w, h-1, t.view)
	if g == nil {
		return
	}

	selected := make(map[int]bool)
	for _, id := range t.ed.Selection() {
		selected[id] = true
	}
	canvas.Render(g, t.ed.Sketch(), selected)

	// Uncommitted construction geometry
	pv := t.ed.Preview()
	for _, s := range pv.Segments {
		g.Line(s.A, s.B, canvas.LayerPreview)
	}
	for _, c := range pv.Circles {
		g.Circle(c.Center, c.Radius, canvas.LayerPreview)
	}
	for _, a := range pv.Arcs {
		g.Arc(a.Center, a.Radius, a.From, a.Sweep, canvas.LayerPreview)
	}
	for _, m := range pv.Marks {
		g.Marker(m, '+', canvas.LayerPreview)
	}

	// Alignment guidelines under everything, styled per axis
	guideStyle := map[rune]tcell.Style{}
	for _, gl := range t.ed.GuidelinesFor(t.cursor) {
		g.Line(gl.Start, gl.End, canvas.LayerGuide)
		r := '─'
		if gl.Axis == infer.AxisVertical {
			r = '│'
		}
		guideStyle[r] = tcell.StyleDefault.Foreground(tcell.GetColor(gl.Color))
	}

	if hit, ok := t.ed.SnapFor(t.cursor); ok {
		g.Marker(hit.Pos, '◎', canvas.LayerSnap)
	}

	g.Each(func(x, y int, r rune, l canvas.Layer) {
		t.screen.SetContent(x, y, r, nil, t.style(l, r, guideStyle))
	})
	t.drawStatus(w, h-1)
	t.screen.Show()
}

func (t *tui) style(l canvas.Layer, r rune, guides map[rune]tcell.Style) tcell.Style {
	switch l {
	case canvas.LayerGuide:
		if st, ok := guides[r]; ok {
			return st
		}
		return tcell.StyleDefault.Foreground(tcell.ColorTeal)
	case canvas.LayerPreview:
		return tcell.StyleDefault.Foreground(tcell.ColorBlue)
	case canvas.LayerSelected:
		return tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	case canvas.LayerSnap:
		return tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	default:
		return tcell.StyleDefault
	}
}

// drawStatus renders the bottom bar: tool, DOF accounting, solver state
// and the transient message or last solve failure.
func (t *tui) drawStatus(w, y int) {
	st := t.ed.Status()
	line := fmt.Sprintf(" %s | dof %d | %s", st.Tool, st.DOF, st.State)
	if st.Solving {
		line += " | solving"
	}
	if n := len(t.ed.Selection()); n > 0 {
		line += fmt.Sprintf(" | %d selected", n)
	}
	switch {
	case st.Err != nil:
		line += " | " + st.Err.Error()
	case t.msg != "":
		line += " | " + t.msg
	}

	style := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, r := range line {
		if x >= w {
			break
		}
		t.screen.SetContent(x, y, r, nil, style)
		x++
	}
	for ; x < w; x++ {
		t.screen.SetContent(x, y, ' ', nil, style)
	}
}

func (t *tui) save() {
	if t.filename == "" {
		t.msg = "no file to write to (start as: drafter -i sketch.json)"
		return
	}
	if err := saveSketch(t.filename, t.ed.Sketch()); err != nil {
		t.msg = fmt.Sprintf("write failed: %v", err)
		return
	}
	t.msg = fmt.Sprintf("wrote %s", t.filename)
}

func saveSketch(filename string, sk *sketch.Sketch) error {
	data, err := json.MarshalIndent(sk, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}
