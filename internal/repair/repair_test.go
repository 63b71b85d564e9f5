package repair

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"
)

// uniform returns the n×n matrix with every entry v; rows sum to n*v.
func uniform(n int, v float64) *mat.Dense {
	data := make([]float64, n*n)
	for i := range data {
		data[i] = v
	}
	return mat.NewDense(n, n, data)
}

func matsEqual(a, b *mat.Dense, tol float64) bool {
	return mat.EqualApprox(a, b, tol)
}

var _ = Describe("Repair", func() {
	// Four steps over [0,1]: the grid and coefficients of a k=5 build.
	grid := []float64{0, 0.2, 0.4, 0.6, 0.8, 1}
	alpha := []float64{1, 0.5, 1.0 / 3.0, 0.25}
	n := 3

	newInput := func(valid []bool) Input {
		in := Input{
			Valid:    valid,
			Matrices: make([]*mat.Dense, len(valid)),
			Alpha:    alpha,
			Grid:     grid,
		}
		for i, ok := range valid {
			if ok {
				in.Matrices[i] = uniform(n, 1.0/float64(n))
			}
		}
		return in
	}

	Context("with every step valid", func() {
		It("is a no-op: same matrices, same grid, no notices", func() {
			in := newInput([]bool{true, true, true, true})
			out := Repair(in)

			Expect(out.Matrices).To(HaveLen(4))
			for i := range out.Matrices {
				Expect(out.Matrices[i]).To(BeIdenticalTo(in.Matrices[i]))
			}
			Expect(out.Grid).To(Equal(grid))
			Expect(out.Notices).To(BeEmpty())
			Expect(out.Interpolated).To(BeEmpty())
			Expect(out.Dropped).To(BeEmpty())
		})
	})

	Context("with one interior failure", func() {
		It("interpolates it and keeps the full grid", func() {
			in := newInput([]bool{true, false, true, true})
			out := Repair(in)

			Expect(out.Matrices).To(HaveLen(4))
			Expect(out.Grid).To(Equal(grid))
			Expect(out.Interpolated).To(Equal([]int{1}))
			Expect(out.Dropped).To(BeEmpty())
			Expect(out.Notices).To(ContainElement("interpolation of P[1] successful."))

			// A blend of identical row-stochastic matrices stays row-stochastic.
			rows, _ := out.Matrices[1].Dims()
			for i := 0; i < rows; i++ {
				Expect(mat.Sum(out.Matrices[1].RowView(i))).To(BeNumerically("~", 1, 1e-12))
			}
		})
	})

	Context("with a trailing failure", func() {
		It("drops the step and shortens the grid", func() {
			in := newInput([]bool{true, true, true, false})
			out := Repair(in)

			Expect(out.Matrices).To(HaveLen(3))
			Expect(out.Grid).To(Equal([]float64{0, 0.2, 0.4, 0.6, 0.8}))
			Expect(out.Dropped).To(Equal([]int{3}))
			Expect(out.Interpolated).To(BeEmpty())
			Expect(out.Notices).To(ContainElement("warning: t has been shortened. T = 0.80"))
		})
	})

	Context("with a leading failure", func() {
		It("drops the step and re-anchors the grid at zero", func() {
			in := newInput([]bool{false, true, true, true})
			out := Repair(in)

			Expect(out.Matrices).To(HaveLen(3))
			Expect(out.Grid).To(Equal([]float64{0, 0.4, 0.6, 0.8, 1}))
			Expect(out.Dropped).To(Equal([]int{0}))
			Expect(out.Notices).To(ContainElement("warning: t has been increased. t[1] = 0.40"))
		})
	})

	Context("with a run of consecutive interior failures", func() {
		It("interpolates each from the nearest valid steps outside the run", func() {
			in := newInput([]bool{true, false, false, true})
			low := uniform(n, 1.0/float64(n))
			high := uniform(n, 1.0/float64(n))
			in.Matrices[0] = low
			in.Matrices[3] = high

			out := Repair(in)

			Expect(out.Matrices).To(HaveLen(4))
			Expect(out.Interpolated).To(Equal([]int{1, 2}))
			Expect(out.Grid).To(Equal(grid))

			for _, i := range out.Interpolated {
				want := Interpolate(low, high, alpha[0], alpha[3], alpha[i])
				Expect(matsEqual(out.Matrices[i], want, 1e-12)).To(BeTrue(),
					fmt.Sprintf("step %d", i))
			}
		})
	})

	Context("with alternating failures touching both ends", func() {
		It("keeps one contiguous run between the valid extremes", func() {
			in := newInput([]bool{false, true, false, true})
			out := Repair(in)

			// Surviving run is [1..3]: step 2 interpolated, step 0 trimmed.
			Expect(out.Matrices).To(HaveLen(3))
			Expect(out.Interpolated).To(Equal([]int{2}))
			Expect(out.Dropped).To(Equal([]int{0}))
			Expect(out.Grid).To(Equal([]float64{0, 0.4, 0.6, 0.8, 1}))
			Expect(len(out.Grid)).To(Equal(len(out.Matrices) + 2))
		})
	})

	Context("with no valid steps at all", func() {
		It("degenerates to two grid points and no matrices", func() {
			in := newInput([]bool{false, false, false, false})
			out := Repair(in)

			Expect(out.Matrices).To(BeEmpty())
			Expect(out.Grid).To(Equal([]float64{0, 0.2}))
			Expect(out.Dropped).To(Equal([]int{0, 1, 2, 3}))
			Expect(out.Notices).To(ContainElement("warning: t has been shortened. T = 0.20"))
		})
	})

	Context("grid and chain lengths", func() {
		It("always returns len(grid) == len(matrices)+2 when anything survives", func() {
			patterns := [][]bool{
				{true, true, true, true},
				{false, true, true, true},
				{true, true, true, false},
				{false, true, false, true},
				{true, false, false, true},
				{false, false, true, false},
			}
			for _, p := range patterns {
				out := Repair(newInput(p))
				Expect(len(out.Grid)).To(Equal(len(out.Matrices)+2),
					fmt.Sprintf("pattern %v", p))
			}
		})
	})
})

var _ = Describe("Interpolate", func() {
	n := 2
	low := mat.NewDense(n, n, []float64{0.7, 0.3, 0.2, 0.8})
	high := mat.NewDense(n, n, []float64{0.5, 0.5, 0.4, 0.6})

	It("returns the below neighbor exactly at its coefficient", func() {
		got := Interpolate(low, high, 1.0, 0.25, 1.0)
		Expect(matsEqual(got, low, 1e-12)).To(BeTrue())
	})

	It("returns the above neighbor exactly at its coefficient", func() {
		got := Interpolate(low, high, 1.0, 0.25, 0.25)
		Expect(matsEqual(got, high, 1e-12)).To(BeTrue())
	})

	It("preserves row sums for any intermediate coefficient", func() {
		got := Interpolate(low, high, 1.0, 0.25, 0.5)
		for i := 0; i < n; i++ {
			Expect(mat.Sum(got.RowView(i))).To(BeNumerically("~", 1, 1e-12))
		}
	})
})

var _ = Describe("findNeighbors", func() {
	valid := []int{1, 4, 7}

	It("finds both neighbors for an interior failure", func() {
		nb := findNeighbors(valid, 5)
		Expect(nb.hasBelow).To(BeTrue())
		Expect(nb.below).To(Equal(4))
		Expect(nb.hasAbove).To(BeTrue())
		Expect(nb.above).To(Equal(7))
	})

	It("reports a missing below neighbor before the first valid step", func() {
		nb := findNeighbors(valid, 0)
		Expect(nb.hasBelow).To(BeFalse())
		Expect(nb.hasAbove).To(BeTrue())
		Expect(nb.above).To(Equal(1))
	})

	It("reports a missing above neighbor after the last valid step", func() {
		nb := findNeighbors(valid, 8)
		Expect(nb.hasBelow).To(BeTrue())
		Expect(nb.below).To(Equal(7))
		Expect(nb.hasAbove).To(BeFalse())
	})
})
