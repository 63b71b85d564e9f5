package chain

import (
	"math"
	"testing"

	"github.com/san-kum/willow/internal/solver"
)

func goodSolution(n int) []float64 {
	x := make([]float64, n*n)
	for i := range x {
		x[i] = 1.0 / float64(n)
	}
	return x
}

func TestAcceptable(t *testing.T) {
	n := 3

	tests := []struct {
		name string
		res  solver.Result
		want bool
	}{
		{
			"uniform stochastic matrix",
			solver.Result{Status: solver.StatusOK, Objective: 0.5, X: goodSolution(n)},
			true,
		},
		{
			"objective at lower boundary",
			solver.Result{Status: solver.StatusOK, Objective: 0, X: goodSolution(n)},
			true,
		},
		{
			"objective at upper boundary",
			solver.Result{Status: solver.StatusOK, Objective: 1, X: goodSolution(n)},
			true,
		},
		{
			"infeasible status",
			solver.Result{Status: solver.StatusInfeasible, Objective: math.NaN()},
			false,
		},
		{
			"iteration limit with plausible solution",
			solver.Result{Status: solver.StatusIterationLimit, Objective: 0.5, X: goodSolution(n)},
			false,
		},
		{
			"negative objective",
			solver.Result{Status: solver.StatusOK, Objective: -0.1, X: goodSolution(n)},
			false,
		},
		{
			"objective above one",
			solver.Result{Status: solver.StatusOK, Objective: 1.1, X: goodSolution(n)},
			false,
		},
		{
			"NaN objective",
			solver.Result{Status: solver.StatusOK, Objective: math.NaN(), X: goodSolution(n)},
			false,
		},
		{
			"nil solution",
			solver.Result{Status: solver.StatusOK, Objective: 0.5},
			false,
		},
		{
			"wrong length solution",
			solver.Result{Status: solver.StatusOK, Objective: 0.5, X: make([]float64, n*n-1)},
			false,
		},
		{
			"negative probability",
			solver.Result{Status: solver.StatusOK, Objective: 0.5,
				X: func() []float64 { x := goodSolution(n); x[0] = -0.01; return x }()},
			false,
		},
		{
			"probability above one",
			solver.Result{Status: solver.StatusOK, Objective: 0.5,
				X: func() []float64 { x := goodSolution(n); x[4] = 1.01; return x }()},
			false,
		},
		{
			"NaN probability",
			solver.Result{Status: solver.StatusOK, Objective: 0.5,
				X: func() []float64 { x := goodSolution(n); x[2] = math.NaN(); return x }()},
			false,
		},
		{
			"row sum off by more than tolerance",
			solver.Result{Status: solver.StatusOK, Objective: 0.5,
				X: func() []float64 { x := goodSolution(n); x[0] += 1e-4; return x }()},
			false,
		},
		{
			"row sum off within tolerance",
			solver.Result{Status: solver.StatusOK, Objective: 0.5,
				X: func() []float64 { x := goodSolution(n); x[0] += 1e-8; return x }()},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Acceptable(tt.res, n); got != tt.want {
				t.Errorf("Acceptable() = %v, want %v", got, tt.want)
			}
		})
	}
}
