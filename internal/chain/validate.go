package chain

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/san-kum/willow/internal/solver"
)

// RowSumTol is how far a row sum may sit from 1, absolutely or relatively,
// before the candidate matrix is rejected.
const RowSumTol = 1e-6

// Acceptable decides whether one solve produced a valid transition matrix:
// the oracle reported success, the objective landed in [0,1], every
// probability lies in [0,1], and every row of the reshaped n×n matrix sums
// to 1 within RowSumTol. Degenerate solutions (wrong length, NaN) reject.
func Acceptable(res solver.Result, n int) bool {
	if res.Status != solver.StatusOK {
		return false
	}
	if math.IsNaN(res.Objective) || res.Objective < 0 || res.Objective > 1 {
		return false
	}
	if len(res.X) != n*n {
		return false
	}
	for _, v := range res.X {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return false
		}
	}
	for i := 0; i < n; i++ {
		sum := floats.Sum(res.X[i*n : (i+1)*n])
		if !scalar.EqualWithinAbsOrRel(sum, 1, RowSumTol, RowSumTol) {
			return false
		}
	}
	return true
}
