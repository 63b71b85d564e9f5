// Package chain builds time-inhomogeneous Markov chains for willow-tree
// lattices. For each time step it formulates a linear program, submits it to
// the solver at an escalating tolerance, validates the returned matrix, and
// finally repairs or trims the chain where no acceptable matrix was found.
package chain

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/willow/internal/density"
	"github.com/san-kum/willow/internal/problem"
	"github.com/san-kum/willow/internal/repair"
	"github.com/san-kum/willow/internal/solver"
)

// Builder runs the full construction pipeline against one Solver.
type Builder struct {
	solver    solver.Solver
	mu        sync.Mutex
	observers []Observer
}

// New returns a Builder backed by the given solver. A nil solver selects the
// gonum simplex implementation.
func New(s solver.Solver) *Builder {
	if s == nil {
		s = solver.Simplex{}
	}
	return &Builder{solver: s}
}

// AddObserver registers an observer for per-step reports.
func (b *Builder) AddObserver(o Observer) {
	b.observers = append(b.observers, o)
}

// Run builds the chain. Only malformed input yields an error; solver
// failures degrade the result (shorter chain, interpolated matrices,
// notices) without failing the call.
func (b *Builder) Run(ctx context.Context, pairs density.Pairs, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	set, err := problem.Build(pairs, cfg.Steps)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	outcomes, err := b.solveAll(ctx, set, cfg)
	if err != nil {
		return nil, err
	}

	m := len(set.Steps)
	matrices := make([]*mat.Dense, m)
	valid := make([]bool, m)
	reports := make([]StepReport, m)
	notices := make([]string, 0, m)

	for i, out := range outcomes {
		matrices[i] = out.matrix
		valid[i] = out.status == StepAccepted
		reports[i] = StepReport{Index: i, Status: out.status, Attempts: out.attempts, FinalTol: out.finalTol}
		if valid[i] {
			notices = append(notices, fmt.Sprintf("P[%d] successfully generated.", i))
		} else {
			notices = append(notices,
				fmt.Sprintf("warning: P[%d] wrongly specified, replacing with interpolated matrix if possible.", i))
		}
	}

	rep := repair.Repair(repair.Input{
		Valid:    valid,
		Matrices: matrices,
		Alpha:    set.Alpha,
		Grid:     set.Grid,
	})
	notices = append(notices, rep.Notices...)

	return &Result{
		Matrices: rep.Matrices,
		Grid:     rep.Grid,
		Notices:  notices,
		Reports:  reports,
		Elapsed:  time.Since(start),
	}, nil
}

// solveAll populates one outcome per step. Steps are mutually independent;
// each index is written exactly once, so the parallel path needs no
// coordination beyond the worker semaphore.
func (b *Builder) solveAll(ctx context.Context, set *problem.Set, cfg Config) ([]stepOutcome, error) {
	esc := escalator{
		solver:  b.solver,
		tol:     cfg.Tol,
		ceiling: cfg.TolCeiling,
		budget:  cfg.StepBudget,
		capped:  cfg.CapProbabilities,
	}
	outcomes := make([]stepOutcome, len(set.Steps))

	if cfg.Workers <= 1 {
		for i, step := range set.Steps {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			outcomes[i] = esc.run(set, step)
			b.notify(i, outcomes[i])
		}
		return outcomes, nil
	}

	sem := make(chan struct{}, cfg.Workers)
	var wg sync.WaitGroup
	for i, step := range set.Steps {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(i int, step problem.Step) {
			defer wg.Done()
			defer func() { <-sem }()
			outcomes[i] = esc.run(set, step)
			b.notify(i, outcomes[i])
		}(i, step)
	}
	wg.Wait()
	return outcomes, nil
}

func (b *Builder) notify(i int, out stepOutcome) {
	if len(b.observers) == 0 {
		return
	}
	r := StepReport{Index: i, Status: out.status, Attempts: out.attempts, FinalTol: out.finalTol}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, o := range b.observers {
		o.OnStep(r)
	}
}

func validateConfig(cfg Config) error {
	if cfg.Steps < 2 {
		return ErrTooFewSteps
	}
	if cfg.Tol <= 0 {
		return ErrBadTolerance
	}
	if cfg.TolCeiling < cfg.Tol {
		return ErrBadCeiling
	}
	if cfg.StepBudget <= 0 {
		return ErrBadBudget
	}
	return nil
}
