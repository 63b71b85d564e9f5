package chain

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/willow/internal/problem"
	"github.com/san-kum/willow/internal/solver"
)

// escalator drives the solve-retry loop for a single time step. Every step
// gets a fresh escalator, so tolerance always restarts from the initial
// value; escalation never carries over between steps.
type escalator struct {
	solver  solver.Solver
	tol     float64
	ceiling float64
	budget  time.Duration
	capped  bool
}

type stepOutcome struct {
	status   StepStatus
	matrix   *mat.Dense
	attempts int
	finalTol float64
}

// run attempts the step at the initial tolerance and relaxes it by one order
// of magnitude per rejection, until the validator accepts or either the
// tolerance ceiling or the wall-clock budget is exhausted. Infeasible solves
// are retried like any other rejection: tolerance affects the oracle's
// feasibility checks too.
func (e escalator) run(set *problem.Set, step problem.Step) stepOutcome {
	start := time.Now()
	tol := e.tol
	attempts := 1
	res := e.solver.Solve(set, step, tol, e.capped)

	for !Acceptable(res, set.N) {
		// The ceiling check carries a relative slack so repeated decimal
		// scaling cannot land one ulp short and sneak in an extra attempt.
		if tol >= e.ceiling*(1-1e-12) || time.Since(start) >= e.budget {
			return stepOutcome{status: StepExhausted, attempts: attempts, finalTol: tol}
		}
		tol *= 10
		attempts++
		res = e.solver.Solve(set, step, tol, e.capped)
	}

	n := set.N
	m := mat.NewDense(n, n, append([]float64(nil), res.X...))
	return stepOutcome{status: StepAccepted, matrix: m, attempts: attempts, finalTol: tol}
}
