package solver

import (
	"context"
	"sync"

	"drafter/sketch"
)

// Outcome is one finished solve delivered by a Runner. Revision echoes
// the submitted sketch's revision so consumers can drop results that
// arrived after further edits.
type Outcome struct {
	Revision uint64
	Result   Result
	Err      error
}

// Runner executes solves one at a time on a single worker goroutine.
// Submissions made while a solve is in flight coalesce: only the most
// recent sketch is kept, so a burst of drag updates costs one solve,
// and results are never interleaved.
type Runner struct {
	solver  Solver
	results chan Outcome
	wake    chan struct{}

	mu     sync.Mutex
	queued *sketch.Sketch

	cancel context.CancelFunc
	done   chan struct{}
}

// NewRunner creates a runner around the given solver.
func NewRunner(s Solver) *Runner {
	return &Runner{
		solver:  s,
		results: make(chan Outcome, 16),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Start launches the worker. It returns immediately; results arrive on
// Results until the context is cancelled or Close is called.
func (r *Runner) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	go r.loop(ctx)
}

// Submit queues a sketch for solving, replacing any sketch still
// waiting. It never blocks.
func (r *Runner) Submit(sk *sketch.Sketch) {
	r.mu.Lock()
	r.queued = sk
	r.mu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Results delivers solve outcomes in submission-completion order.
func (r *Runner) Results() <-chan Outcome {
	return r.results
}

// Close stops the worker and waits for it to exit. Pending submissions
// are dropped. Closing a runner that was never started is a no-op.
func (r *Runner) Close() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
}

// loop drains the queued slot, solving the latest sketch each time it
// wakes.
func (r *Runner) loop(ctx context.Context) {
	defer close(r.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.wake:
		}

		for {
			r.mu.Lock()
			sk := r.queued
			r.queued = nil
			r.mu.Unlock()
			if sk == nil {
				break
			}

			result, err := r.solver.Solve(sk)
			out := Outcome{Revision: sk.Revision, Result: result, Err: err}
			select {
			case r.results <- out:
			case <-ctx.Done():
				return
			}
		}
	}
}
