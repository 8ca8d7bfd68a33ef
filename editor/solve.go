package editor

import "drafter/solver"

// requestSolve issues a solve for the current sketch. With a runner
// attached the request is asynchronous and coalesces under rapid edits;
// otherwise it completes before returning.
func (e *Editor) requestSolve() {
	e.lastErr = nil
	if e.runner != nil {
		e.solving = true
		e.pending = e.sk.Revision
		e.runner.Submit(e.sk)
		return
	}
	res, err := e.solver.Solve(e.sk)
	e.adopt(res, err)
}

// HandleOutcome consumes one runner outcome. Outcomes for superseded
// revisions are dropped; the matching one is adopted or, on failure,
// recorded while the last good sketch stays in place.
func (e *Editor) HandleOutcome(out solver.Outcome) {
	if out.Revision != e.pending || out.Revision != e.sk.Revision {
		return
	}
	e.solving = false
	e.adopt(out.Result, out.Err)
}

// adopt applies a solve result to the editor.
func (e *Editor) adopt(res solver.Result, err error) {
	if err != nil {
		e.lastErr = err
		return
	}
	e.sk = res.Sketch

	// A solve can move the chain's re-anchor point
	if e.chainActive && e.chainPoint != 0 {
		if pos, ok := e.sk.Pos(e.chainPoint); ok {
			e.chainAnchor = pos
		}
	}
}
