// Package editor is the authoring state machine: it owns the
// authoritative sketch value, routes pointer events through per-tool
// automata, snaps input via the inference engine and keeps the solver
// fed after every edit. One goroutine drives an Editor; solve outcomes
// are handed back to that same goroutine through HandleOutcome.
package editor

import (
	"time"

	"drafter/geometry"
	"drafter/infer"
	"drafter/sketch"
	"drafter/solver"
)

// coincidentEps is the reuse distance for point creation. Snapping has
// already aligned intentional coincident clicks to exact coordinates,
// so this only needs to absorb float noise.
const coincidentEps = 1e-6

// Options tune the interactive behavior. Zero values fall back to the
// defaults.
type Options struct {
	// SnapRadius is the candidate pick distance in plane units.
	SnapRadius float64
	// AngleTolerance governs guidelines and the automatic
	// horizontal/vertical constraint, in radians.
	AngleTolerance float64
	// PickRadius is the hit-test distance for selection, in plane
	// units.
	PickRadius float64
	// DoubleClick is the window in which a second click ends a line
	// chain.
	DoubleClick time.Duration
	// Solver tunes the constraint solves issued after edits.
	Solver solver.Options
}

// DefaultOptions returns the standard interactive tuning.
func DefaultOptions() Options {
	return Options{
		SnapRadius:     infer.DefaultSnapRadius,
		AngleTolerance: infer.DefaultAngleTolerance,
		PickRadius:     0.3,
		DoubleClick:    300 * time.Millisecond,
		Solver:         solver.DefaultOptions(),
	}
}

// Editor drives one sketch through tool interactions.
type Editor struct {
	sk     *sketch.Sketch
	opts   Options
	solver solver.Solver
	runner *solver.Runner
	cache  *infer.Cache

	tool      Tool
	selection []int
	cursor    geometry.Vec

	solving bool
	pending uint64
	lastErr error

	// Line chain state. chainPoint is 0 until the first segment
	// commits; the anchor is a bare position before that so Cancel
	// leaves nothing behind.
	chainActive bool
	chainPoint  int
	chainAnchor geometry.Vec
	lastClick   time.Time

	// Circle press-drag state
	circleActive bool
	circleCenter geometry.Vec
	circleRadius float64

	// Arc click collection; the third click commits
	arcClicks []geometry.Vec

	// Drag state. dragOrig keeps the gesture-start coordinates so
	// every move applies an absolute delta rather than accumulating.
	dragActive bool
	dragStart  geometry.Vec
	dragPoints []int
	dragOrig   map[int]geometry.Vec
	tempFixed  []int
}

// New starts a sketch on the given plane and returns its editor.
// Without an attached runner, solves run synchronously inside the
// mutating call.
func New(plane sketch.Plane, opts Options) *Editor {
	def := DefaultOptions()
	if opts.SnapRadius <= 0 {
		opts.SnapRadius = def.SnapRadius
	}
	if opts.AngleTolerance <= 0 {
		opts.AngleTolerance = def.AngleTolerance
	}
	if opts.PickRadius <= 0 {
		opts.PickRadius = def.PickRadius
	}
	if opts.DoubleClick <= 0 {
		opts.DoubleClick = def.DoubleClick
	}

	return &Editor{
		sk:     sketch.New(plane),
		opts:   opts,
		solver: solver.New(opts.Solver),
		cache:  infer.NewCache(),
		tool:   ToolSelect,
	}
}

// AttachRunner switches the editor to asynchronous solving: edits
// submit to the runner and the caller feeds outcomes back through
// HandleOutcome.
func (e *Editor) AttachRunner(r *solver.Runner) {
	e.runner = r
}

// Sketch returns the current authoritative sketch value.
func (e *Editor) Sketch() *sketch.Sketch {
	return e.sk
}

// SetSketch replaces the sketch being edited, the path for loading a
// saved snapshot. Selection and any gesture in progress are discarded.
func (e *Editor) SetSketch(sk *sketch.Sketch) {
	if sk == nil {
		return
	}
	e.Cancel()
	e.sk = sk
	e.selection = nil
	e.solving = false
	e.pending = 0
	e.lastErr = nil
}

// Tool returns the active tool.
func (e *Editor) Tool() Tool {
	return e.tool
}

// SetTool switches tools, aborting any construction in progress.
func (e *Editor) SetTool(t Tool) {
	if t != e.tool {
		e.Cancel()
	}
	e.tool = t
}

// Selection returns the selected primitive ids in selection order.
func (e *Editor) Selection() []int {
	return append([]int(nil), e.selection...)
}

// Select replaces the selection with the given primitive ids; unknown
// ids are dropped.
func (e *Editor) Select(ids ...int) {
	e.selection = e.selection[:0]
	for _, id := range ids {
		if _, ok := e.sk.Primitive(id); ok {
			e.selection = append(e.selection, id)
		}
	}
}

// ClearSelection empties the selection.
func (e *Editor) ClearSelection() {
	e.selection = nil
}

// Cancel aborts the in-progress construction or drag without
// committing anything, matching the Escape key.
func (e *Editor) Cancel() {
	if e.dragActive {
		e.cancelDrag()
	}
	e.chainActive = false
	e.chainPoint = 0
	e.circleActive = false
	e.circleRadius = 0
	e.arcClicks = nil
}

// Status summarizes the editor for a status line.
type Status struct {
	Tool    Tool
	DOF     int
	State   sketch.Status
	Solving bool
	Err     error // last solve failure, nil after a clean solve
}

// Status reports the current tool, DOF accounting and solver state.
// After a failed solve the DOF and state are the last known good
// values alongside the failure.
func (e *Editor) Status() Status {
	return Status{
		Tool:    e.tool,
		DOF:     e.sk.DOF,
		State:   e.sk.Status,
		Solving: e.solving,
		Err:     e.lastErr,
	}
}

// SnapFor returns the snap candidate the cursor would take, for
// rendering a marker.
func (e *Editor) SnapFor(cursor geometry.Vec) (infer.Candidate, bool) {
	return infer.NearestSnap(cursor, e.cache.Candidates(e.sk), e.opts.SnapRadius)
}

// GuidelinesFor returns the alignment guidelines for a cursor
// position.
func (e *Editor) GuidelinesFor(cursor geometry.Vec) []infer.Guideline {
	return infer.Guidelines(cursor, e.sk, e.chainOrigin(), e.opts.AngleTolerance)
}

// chainOrigin returns the active chain anchor, or nil when no chain is
// being drawn.
func (e *Editor) chainOrigin() *geometry.Vec {
	if e.tool == ToolLine && e.chainActive {
		origin := e.chainAnchor
		return &origin
	}
	return nil
}

// snap resolves a raw cursor position: entity candidates win, then
// guideline alignment, then the raw position.
func (e *Editor) snap(pos geometry.Vec) geometry.Vec {
	if hit, ok := infer.NearestSnap(pos, e.cache.Candidates(e.sk), e.opts.SnapRadius); ok {
		return hit.Pos
	}
	return infer.SnapToGuidelines(pos, e.GuidelinesFor(pos))
}
