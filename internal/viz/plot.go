// Package viz renders chain builds in the terminal: ascii charts of per-step
// diagnostics and a live monitor for long builds.
package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/willow/internal/chain"
)

const (
	plotWidth  = 60
	plotHeight = 8
)

// AttemptsPlot charts how many solver attempts each step needed. Flat at 1
// means every step validated at the initial tolerance.
func AttemptsPlot(reports []chain.StepReport) string {
	if len(reports) < 2 {
		return ""
	}
	data := make([]float64, len(reports))
	for i, r := range reports {
		data[i] = float64(r.Attempts)
	}
	return asciigraph.Plot(data,
		asciigraph.Height(plotHeight), asciigraph.Width(plotWidth),
		asciigraph.Caption("solver attempts per step"))
}

// TolerancePlot charts log10 of the tolerance each step was finally solved
// (or abandoned) at.
func TolerancePlot(reports []chain.StepReport) string {
	if len(reports) < 2 {
		return ""
	}
	data := make([]float64, len(reports))
	for i, r := range reports {
		data[i] = math.Log10(r.FinalTol)
	}
	return asciigraph.Plot(data,
		asciigraph.Height(plotHeight), asciigraph.Width(plotWidth),
		asciigraph.Caption("log10 final tolerance per step"))
}

// RowDeviationPlot charts the worst row-sum deviation from 1 in each
// transition matrix of the finished chain.
func RowDeviationPlot(matrices []*mat.Dense) string {
	if len(matrices) < 2 {
		return ""
	}
	data := make([]float64, len(matrices))
	for i, m := range matrices {
		rows, cols := m.Dims()
		worst := 0.0
		for r := 0; r < rows; r++ {
			dev := math.Abs(floats.Sum(m.RawRowView(r)[:cols]) - 1)
			if dev > worst {
				worst = dev
			}
		}
		data[i] = worst
	}
	return asciigraph.Plot(data,
		asciigraph.Height(plotHeight), asciigraph.Width(plotWidth),
		asciigraph.Caption("max row-sum deviation per matrix"))
}

// Summary renders the finished build: counts, timing, charts, and notices.
func Summary(res *chain.Result) string {
	var s strings.Builder
	s.WriteString(headerStyle.Render("WILLOW CHAIN") + "\n")
	s.WriteString(labelStyle.Render("Matrices") + valueStyle.Render(fmt.Sprintf("%d", len(res.Matrices))) + "\n")
	s.WriteString(labelStyle.Render("Grid points") + valueStyle.Render(fmt.Sprintf("%d", len(res.Grid))) + "\n")
	s.WriteString(labelStyle.Render("Horizon") + valueStyle.Render(fmt.Sprintf("%.2f", res.Grid[len(res.Grid)-1])) + "\n")
	s.WriteString(labelStyle.Render("Elapsed") + valueStyle.Render(res.Elapsed.Round(1e6).String()) + "\n")

	if chart := AttemptsPlot(res.Reports); chart != "" {
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if chart := RowDeviationPlot(res.Matrices); chart != "" {
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	for _, n := range res.Notices {
		if strings.HasPrefix(n, "warning:") {
			s.WriteString(noticeStyle.Render(n) + "\n")
		}
	}
	return s.String()
}

// Matrix renders one transition matrix with fixed-width cells.
func Matrix(m *mat.Dense) string {
	rows, cols := m.Dims()
	var s strings.Builder
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			fmt.Fprintf(&s, "%9.6f ", m.At(i, j))
		}
		s.WriteByte('\n')
	}
	return s.String()
}
