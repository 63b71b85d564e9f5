// Package problem formulates the per-step linear programs whose solutions
// are willow-tree transition matrices.
//
// For n density pairs {z(i), q(i)} and k time steps there are k-1 programs,
// one per transition matrix. Each program minimizes c'x subject to
// Aeq*x = beq and x >= 0, where x is the row-major flattening of the n×n
// matrix. The equality matrix encodes total probability mass, the first and
// second conditional moments, and marginal consistency with q, laid out as
// four Kronecker-structured row blocks. Aeq is shared by every step; c and
// beq carry the step-specific mixing coefficient.
package problem

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/willow/internal/density"
)

// Step is the per-step part of one linear program.
type Step struct {
	Index int
	C     []float64 // objective coefficients, length n²
	B     []float64 // equality right-hand side, length 4n
}

// Set is the full family of programs for one chain build.
type Set struct {
	N     int
	Grid  []float64 // k+1 time nodes spanning [0,1]
	Alpha []float64 // per-step mixing coefficients, length k-1
	Eq    *mat.Dense
	Steps []Step
}

// Build derives the time grid and every step's program from the density.
// Pure: no side effects, same inputs give same outputs.
func Build(pairs density.Pairs, k int) (*Set, error) {
	if err := pairs.Validate(); err != nil {
		return nil, err
	}
	if k < 2 {
		return nil, fmt.Errorf("problem: need at least 2 time steps, got %d", k)
	}

	n := len(pairs)
	z := pairs.Values()
	q := pairs.Weights()

	grid := Linspace(0, 1, k+1)

	// alpha[i] = h[i] / t[i+1] with h[i] = t[i+2] - t[i+1], one per matrix.
	alpha := make([]float64, k-1)
	for i := range alpha {
		alpha[i] = (grid[i+2] - grid[i+1]) / grid[i+1]
	}

	s := &Set{
		N:     n,
		Grid:  grid,
		Alpha: alpha,
		Eq:    equalityMatrix(z, q),
		Steps: make([]Step, k-1),
	}
	for i, a := range alpha {
		beta := 1 / math.Sqrt(1+a)
		s.Steps[i] = Step{
			Index: i,
			C:     objective(z, q, beta),
			B:     equalityVector(z, q, beta),
		}
	}
	return s, nil
}

// Linspace returns num evenly spaced points from lo to hi inclusive.
func Linspace(lo, hi float64, num int) []float64 {
	pts := make([]float64, num)
	step := (hi - lo) / float64(num-1)
	for i := range pts {
		pts[i] = lo + float64(i)*step
	}
	pts[num-1] = hi
	return pts
}

// objective builds c with c[i*n+j] = q[i] * |z[j] - beta*z[i]|³: transitions
// are penalized by cubed node distance, weighted by the source node's mass.
func objective(z, q []float64, beta float64) []float64 {
	n := len(z)
	c := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			d := math.Abs(z[j] - beta*z[i])
			c[i*n+j] = q[i] * d * d * d
		}
	}
	return c
}

// equalityMatrix assembles the shared 4n×n² constraint matrix:
//
//	kron(Iₙ, 1ₙ)   row sums
//	kron(Iₙ, z)    first moment per row
//	kron(Iₙ, z²)   second moment per row
//	kron(q,  Iₙ)   column marginals
func equalityMatrix(z, q []float64) *mat.Dense {
	n := len(z)
	eq := mat.NewDense(4*n, n*n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			eq.Set(i, i*n+j, 1)
			eq.Set(n+i, i*n+j, z[j])
			eq.Set(2*n+i, i*n+j, z[j]*z[j])
			eq.Set(3*n+j, i*n+j, q[i])
		}
	}
	return eq
}

// equalityVector builds beq = [1ₙ, beta·z, beta²·z² + (1-beta²)·1ₙ, q].
func equalityVector(z, q []float64, beta float64) []float64 {
	n := len(z)
	b := make([]float64, 4*n)
	for i := 0; i < n; i++ {
		b[i] = 1
		b[n+i] = beta * z[i]
		b[2*n+i] = beta*beta*z[i]*z[i] + (1 - beta*beta)
		b[3*n+i] = q[i]
	}
	return b
}
