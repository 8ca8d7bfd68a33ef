package solver

import (
	"math"

	"drafter/geometry"
	"drafter/sketch"

	"gonum.org/v1/gonum/mat"
)

// Options tune the iteration. Zero values fall back to the defaults.
type Options struct {
	// Epsilon is the convergence tolerance: the solve succeeds when
	// every residual magnitude is at or below it.
	Epsilon float64
	// MaxIterations caps the Gauss-Newton iterations before the solve
	// reports failure.
	MaxIterations int
	// MaxStep bounds the largest single-parameter move per iteration,
	// keeping early steps from overshooting on bad initial geometry.
	MaxStep float64
}

// DefaultOptions returns the standard solver tuning.
func DefaultOptions() Options {
	return Options{
		Epsilon:       1e-6,
		MaxIterations: 50,
		MaxStep:       100,
	}
}

// Solver runs constraint solves with a fixed set of options. The zero
// value uses defaults.
type Solver struct {
	opts Options
}

// New creates a Solver with the given options.
func New(opts Options) Solver {
	def := DefaultOptions()
	if opts.Epsilon <= 0 {
		opts.Epsilon = def.Epsilon
	}
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = def.MaxIterations
	}
	if opts.MaxStep <= 0 {
		opts.MaxStep = def.MaxStep
	}
	return Solver{opts: opts}
}

// Result is a successful solve: a new sketch value with satisfied
// constraints plus the accounting a caller may want to surface.
type Result struct {
	Sketch     *sketch.Sketch
	DOF        int
	Status     sketch.Status
	Iterations int
	Residual   float64 // Largest residual magnitude at acceptance
}

// Solve adjusts the sketch's free points until every driving constraint
// is satisfied to within Epsilon, or fails with a SolveError. The input
// sketch is never modified; identical inputs produce identical outputs.
func Solve(sk *sketch.Sketch) (Result, error) {
	return New(DefaultOptions()).Solve(sk)
}

// Solve runs the damped Gauss-Newton iteration for one sketch.
func (s Solver) Solve(sk *sketch.Sketch) (Result, error) {
	opts := New(s.opts).opts // normalise zero values
	sys := compile(sk)
	x := sys.params()
	m := len(sys.eqs)
	n := len(x)

	res := make([]float64, m)
	worst := evalResiduals(sys, x, res)
	if m == 0 || worst <= opts.Epsilon {
		return finish(sys, x, 0, worst), nil
	}
	if n == 0 {
		// Unsatisfied equations with nothing to move
		return Result{}, &SolveError{Reason: Redundant, Iterations: 0, Residual: worst}
	}

	jac := mat.NewDense(m, n, nil)
	row := make([]float64, n)
	delta := make([]float64, n)
	cand := make([]float64, n)
	candRes := make([]float64, m)
	rank := 0

	for iter := 1; iter <= opts.MaxIterations; iter++ {
		for i, eq := range sys.eqs {
			for j := range row {
				row[j] = 0
			}
			eq.grad(x, row)
			jac.SetRow(i, row)
		}

		var ok bool
		rank, ok = leastSquaresStep(jac, res, delta)
		if !ok {
			return Result{}, &SolveError{Reason: Redundant, Iterations: iter, Residual: worst}
		}

		// Bound the step so a bad Jacobian cannot throw geometry away
		scale := 1.0
		if inf := maxAbs(delta); inf > opts.MaxStep {
			scale = opts.MaxStep / inf
		}

		// Backtrack when a full step makes things worse
		improved := false
		alpha := scale
		for try := 0; try < 8; try++ {
			for j := range cand {
				cand[j] = x[j] + alpha*delta[j]
			}
			if w := evalResiduals(sys, cand, candRes); w < worst {
				copy(x, cand)
				copy(res, candRes)
				worst = w
				improved = true
				break
			}
			alpha /= 2
		}

		if worst <= opts.Epsilon {
			return finish(sys, x, iter, worst), nil
		}
		if !improved {
			return Result{}, classify(rank, m, n, iter, worst)
		}
	}

	return Result{}, classify(rank, m, n, opts.MaxIterations, worst)
}

// evalResiduals fills res and returns the largest magnitude.
func evalResiduals(sys *system, x []float64, res []float64) float64 {
	worst := 0.0
	for i, eq := range sys.eqs {
		res[i] = eq.eval(x)
		if a := math.Abs(res[i]); a > worst {
			worst = a
		}
	}
	return worst
}

// leastSquaresStep solves J*delta = -res in the minimum-norm
// least-squares sense through a rank-truncated SVD, which copes with
// under- and over-determined systems alike. It reports the numerical
// rank and whether the factorization succeeded.
func leastSquaresStep(jac *mat.Dense, res []float64, delta []float64) (int, bool) {
	m, n := jac.Dims()

	var svd mat.SVD
	if ok := svd.Factorize(jac, mat.SVDThin); !ok {
		return 0, false
	}
	sv := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	tol := float64(max(m, n)) * 2.220446049250313e-16 * sv[0]
	rank := 0
	for _, s := range sv {
		if s > tol {
			rank++
		}
	}

	// delta = V * diag(1/sv) * U^T * (-res), truncated at rank
	k := len(sv)
	w := make([]float64, k)
	for j := 0; j < rank; j++ {
		sum := 0.0
		for i := 0; i < m; i++ {
			sum -= u.At(i, j) * res[i]
		}
		w[j] = sum / sv[j]
	}
	for i := 0; i < n; i++ {
		sum := 0.0
		for j := 0; j < rank; j++ {
			sum += v.At(i, j) * w[j]
		}
		delta[i] = sum
	}
	return rank, true
}

// classify decides the failure taxonomy: a rank-deficient system means
// constraints are redundant or in conflict, anything else ran out of
// iterations.
func classify(rank, m, n, iterations int, worst float64) error {
	if rank < m {
		return &SolveError{Reason: Redundant, Iterations: iterations, Residual: worst}
	}
	return &SolveError{Reason: DidNotConverge, Iterations: iterations, Residual: worst}
}

// finish writes the accepted parameters back into a new sketch value.
func finish(sys *system, x []float64, iterations int, worst float64) Result {
	out := sys.sk
	moves := make(map[int]geometry.Vec)
	for i, id := range sys.order {
		pos, _ := out.Pos(id)
		next := geometry.V(x[2*i], x[2*i+1])
		if pos != next {
			moves[id] = next
		}
	}
	if len(moves) > 0 {
		out, _ = out.UpdatePoints(moves)
	}
	return Result{
		Sketch:     out,
		DOF:        out.DOF,
		Status:     out.Status,
		Iterations: iterations,
		Residual:   worst,
	}
}

// maxAbs returns the infinity norm of a vector.
func maxAbs(v []float64) float64 {
	worst := 0.0
	for _, x := range v {
		if a := math.Abs(x); a > worst {
			worst = a
		}
	}
	return worst
}
