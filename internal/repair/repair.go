// Package repair reconstructs failed steps of a willow-tree Markov chain.
// A failed step flanked by valid steps on both sides is replaced by Curran's
// three-point interpolation of its nearest valid neighbors; a failed step
// with a valid neighbor on only one side cannot be reconstructed and is
// trimmed from the chain, together with everything beyond it. The surviving
// steps always form one contiguous run, and the time grid is recomputed to
// match it.
package repair

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Input carries the per-step flags and matrices of one build, the per-step
// mixing coefficients, and the original time grid.
type Input struct {
	Valid    []bool
	Matrices []*mat.Dense // nil where Valid[i] is false
	Alpha    []float64
	Grid     []float64 // len(Valid)+2 points
}

// Output is the repaired chain: contiguous matrices, the matching grid, and
// diagnostic notices. Interpolated and Dropped report original step indices.
type Output struct {
	Matrices     []*mat.Dense
	Grid         []float64
	Notices      []string
	Interpolated []int
	Dropped      []int
}

// neighbors is the nearest valid step strictly below and above one failed
// step. A missing side is marked absent rather than encoded as a sentinel
// index.
type neighbors struct {
	below, above int
	hasBelow     bool
	hasAbove     bool
}

// Repair rebuilds the chain from per-step outcomes. It never fails: when
// nothing survives, the result degenerates to an empty matrix sequence over
// the first two grid points.
func Repair(in Input) Output {
	validIdx := make([]int, 0, len(in.Valid))
	failedIdx := make([]int, 0)
	for i, ok := range in.Valid {
		if ok {
			validIdx = append(validIdx, i)
		} else {
			failedIdx = append(failedIdx, i)
		}
	}

	if len(validIdx) == 0 {
		grid := append([]float64(nil), in.Grid[:2]...)
		return Output{
			Grid:    grid,
			Dropped: failedIdx,
			Notices: []string{fmt.Sprintf("warning: t has been shortened. T = %.2f", grid[len(grid)-1])},
		}
	}

	// The surviving run is [first..last] over the valid extremes: every
	// failure strictly inside has neighbors on both sides, every failure
	// outside is unrepairable and trimmed along with anything beyond it.
	first := validIdx[0]
	last := validIdx[len(validIdx)-1]

	out := Output{}
	matrices := make([]*mat.Dense, 0, last-first+1)
	for i := first; i <= last; i++ {
		if in.Valid[i] {
			matrices = append(matrices, in.Matrices[i])
			continue
		}
		nb := findNeighbors(validIdx, i)
		m := Interpolate(in.Matrices[nb.below], in.Matrices[nb.above],
			in.Alpha[nb.below], in.Alpha[nb.above], in.Alpha[i])
		matrices = append(matrices, m)
		out.Interpolated = append(out.Interpolated, i)
		out.Notices = append(out.Notices, fmt.Sprintf("interpolation of P[%d] successful.", i))
	}
	for _, f := range failedIdx {
		if f < first || f > last {
			out.Dropped = append(out.Dropped, f)
		}
	}

	out.Matrices = matrices
	out.Grid = regrid(in.Grid, first, last)

	if out.Grid[1] != in.Grid[1] {
		out.Notices = append(out.Notices,
			fmt.Sprintf("warning: t has been increased. t[1] = %.2f", out.Grid[1]))
	}
	if out.Grid[len(out.Grid)-1] != in.Grid[len(in.Grid)-1] {
		out.Notices = append(out.Notices,
			fmt.Sprintf("warning: t has been shortened. T = %.2f", out.Grid[len(out.Grid)-1]))
	}
	return out
}

// findNeighbors locates the nearest valid indices strictly below and above
// i by binary search over the sorted valid-index set.
func findNeighbors(validIdx []int, i int) neighbors {
	pos := sort.SearchInts(validIdx, i)
	nb := neighbors{}
	if pos > 0 {
		nb.below = validIdx[pos-1]
		nb.hasBelow = true
	}
	if pos < len(validIdx) {
		// validIdx never contains i itself (i failed), so validIdx[pos] > i.
		nb.above = validIdx[pos]
		nb.hasAbove = true
	}
	return nb
}

// Interpolate blends two transition matrices with Curran's three-point
// rational weights. With x = 1/sqrt(1+alpha), the replacement for a step at
// alphaAt between neighbors at alphaLow and alphaHigh is
//
//	wLow*low + wHigh*high,  wLow = (x3-x2)/(x1-x2), wHigh = (x1-x3)/(x1-x2)
//
// where x1, x2, x3 derive from alphaLow, alphaHigh, alphaAt. When alphaAt
// coincides with a neighbor's coefficient the blend reduces to that
// neighbor's matrix exactly.
func Interpolate(low, high *mat.Dense, alphaLow, alphaHigh, alphaAt float64) *mat.Dense {
	x1 := 1 / math.Sqrt(1+alphaLow)
	x2 := 1 / math.Sqrt(1+alphaHigh)
	x3 := 1 / math.Sqrt(1+alphaAt)

	wLow := (x3 - x2) / (x1 - x2)
	wHigh := (x1 - x3) / (x1 - x2)

	var out, tmp mat.Dense
	out.Scale(wLow, low)
	tmp.Scale(wHigh, high)
	out.Add(&out, &tmp)
	return &out
}

// regrid recomputes the time grid for the surviving run [first..last]. A run
// that keeps step 0 keeps the leading grid points; otherwise the chain is
// re-anchored at 0 ahead of the surviving interval.
func regrid(grid []float64, first, last int) []float64 {
	if first == 0 {
		return append([]float64(nil), grid[:last+3]...)
	}
	out := make([]float64, 0, last-first+3)
	out = append(out, 0)
	out = append(out, grid[first+1:last+3]...)
	return out
}
