// Package solver adapts an external linear-programming oracle for the chain
// builder. The oracle solves min c'x subject to Aeq*x = beq, x >= 0 at a
// given tolerance; the adapter normalizes its outcome into an explicit
// status so callers never infer failure from the shape of the solution.
package solver

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/san-kum/willow/internal/problem"
)

// Status classifies one solve attempt.
type Status int

const (
	// StatusOK means the oracle reports an optimal solution.
	StatusOK Status = iota
	// StatusInfeasible means no feasible starting point exists.
	StatusInfeasible
	// StatusIterationLimit means the oracle stalled before converging
	// (pivot cycling or a failed linear solve mid-iteration).
	StatusIterationLimit
	// StatusFailed covers every other oracle failure.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusInfeasible:
		return "infeasible"
	case StatusIterationLimit:
		return "iteration-limit"
	default:
		return "failed"
	}
}

// Result is the outcome of one solve attempt. X is nil when the problem was
// infeasible from the start; Objective is NaN in that case.
type Result struct {
	Status    Status
	Objective float64
	X         []float64
}

// Solver executes one linear-program solve. Capped adds an upper bound of 1
// on every variable; otherwise only the x >= 0 bound applies.
type Solver interface {
	Solve(set *problem.Set, step problem.Step, tol float64, capped bool) Result
}

// Simplex solves the programs with gonum's Danzig simplex implementation.
// The zero value is ready to use.
type Simplex struct{}

var infeasible = Result{Status: StatusInfeasible, Objective: math.NaN()}

// Solve runs one attempt at the given tolerance.
//
// Two normalizations are applied before handing the program to the oracle:
// the last three marginal rows are dropped (they are linearly implied by the
// other row blocks, and the oracle requires full row rank), and capped
// problems are rewritten in standard form by adjoining slack variables s
// with x + s = 1.
func (Simplex) Solve(set *problem.Set, step problem.Step, tol float64, capped bool) (res Result) {
	n := set.N
	if 4*n-3 > n*n {
		// Fewer variables than independent constraints; the system is
		// overdetermined and no transition matrix can satisfy it.
		return infeasible
	}

	c, a, b := dropDependentRows(step.C, set.Eq, step.B)
	if capped {
		c, a, b = capVariables(c, a, b)
	}

	// The oracle panics on degenerate inputs it cannot classify; treat
	// that the same as any other failed attempt.
	defer func() {
		if r := recover(); r != nil {
			res = Result{Status: StatusFailed, Objective: math.NaN()}
		}
	}()

	obj, x, err := lp.Simplex(c, a, b, tol, nil)
	if capped && x != nil {
		x = x[:len(step.C)]
	}

	switch err {
	case nil:
		return Result{Status: StatusOK, Objective: obj, X: x}
	case lp.ErrInfeasible:
		return infeasible
	case lp.ErrBland, lp.ErrLinSolve:
		// The oracle may still hand back its best feasible point.
		return Result{Status: StatusIterationLimit, Objective: obj, X: x}
	default:
		return Result{Status: StatusFailed, Objective: obj, X: x}
	}
}

// dropDependentRows removes the last three marginal-consistency rows. The
// marginal block carries three dependencies: weighting its rows by 1, z, and
// z² reproduces the q-weighted combination of the mass, first-moment, and
// second-moment blocks, on both sides. For distinct nodes the Vandermonde
// structure of those weightings admits no further dependency, so trimming
// three rows restores full row rank.
func dropDependentRows(c []float64, a *mat.Dense, b []float64) ([]float64, *mat.Dense, []float64) {
	rows, cols := a.Dims()
	trimmed := mat.DenseCopyOf(a.Slice(0, rows-3, 0, cols))
	return c, trimmed, b[:rows-3]
}

// capVariables converts bounds 0 <= x <= 1 to standard form:
//
//	[A 0] [x]   [b]
//	[I I] [s] = [1] ,  x, s >= 0.
func capVariables(c []float64, a *mat.Dense, b []float64) ([]float64, *mat.Dense, []float64) {
	rows, cols := a.Dims()

	cc := make([]float64, 2*cols)
	copy(cc, c)

	aa := mat.NewDense(rows+cols, 2*cols, nil)
	aa.Slice(0, rows, 0, cols).(*mat.Dense).Copy(a)
	for j := 0; j < cols; j++ {
		aa.Set(rows+j, j, 1)
		aa.Set(rows+j, cols+j, 1)
	}

	bb := make([]float64, rows+cols)
	copy(bb, b)
	for j := 0; j < cols; j++ {
		bb[rows+j] = 1
	}
	return cc, aa, bb
}
