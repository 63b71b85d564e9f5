package chain

import (
	"time"

	"gonum.org/v1/gonum/mat"
)

// StepStatus tracks one time step through the solve-retry state machine.
type StepStatus int

const (
	StepUnattempted StepStatus = iota
	StepAttempting
	StepAccepted
	StepExhausted
)

func (s StepStatus) String() string {
	switch s {
	case StepUnattempted:
		return "unattempted"
	case StepAttempting:
		return "attempting"
	case StepAccepted:
		return "accepted"
	case StepExhausted:
		return "exhausted"
	}
	return "unknown"
}

// Config controls one chain build.
type Config struct {
	// Steps is k, the number of time steps; k-1 transition matrices are
	// generated.
	Steps int
	// Tol is the initial solver tolerance for every step.
	Tol float64
	// TolCeiling caps escalation; no attempt ever uses a tolerance above it.
	TolCeiling float64
	// StepBudget is the wall-clock allowance for one step's retries.
	StepBudget time.Duration
	// CapProbabilities bounds every transition probability above by 1
	// inside the solver, instead of relying on row sums alone.
	CapProbabilities bool
	// Workers > 1 solves steps concurrently. Results and notices are
	// identical to a sequential build.
	Workers int
}

// DefaultConfig mirrors the reference tuning: tolerance 1e-9 escalating no
// further than 1e-3, one minute per step.
func DefaultConfig() Config {
	return Config{
		Tol:        1e-9,
		TolCeiling: 1e-3,
		StepBudget: 60 * time.Second,
		Workers:    1,
	}
}

// StepReport describes how one step's solve ended. Diagnostic only.
type StepReport struct {
	Index    int
	Status   StepStatus
	Attempts int
	FinalTol float64
}

// Observer receives a report as each step finishes. Builds with Workers > 1
// may deliver reports out of index order; delivery is never concurrent.
type Observer interface {
	OnStep(r StepReport)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(r StepReport)

func (f ObserverFunc) OnStep(r StepReport) { f(r) }

// Result is the finished chain: the surviving transition matrices, the time
// grid they apply to, and advisory diagnostics. Matrices may be shorter than
// Steps-1 when repair trimmed the chain; Grid always has len(Matrices)+2
// points, except for the degenerate no-survivor case (no matrices, 2 points).
type Result struct {
	Matrices []*mat.Dense
	Grid     []float64
	Notices  []string
	Reports  []StepReport
	Elapsed  time.Duration
}
