package chain

import "errors"

// Caller-input errors, rejected before any solving begins. Solver failures
// are never errors; they are absorbed by escalation and repair.
var (
	// ErrTooFewSteps indicates k < 2; no transition matrix can exist.
	ErrTooFewSteps = errors.New("chain: need at least 2 time steps")

	// ErrBadTolerance indicates a non-positive initial tolerance.
	ErrBadTolerance = errors.New("chain: initial tolerance must be positive")

	// ErrBadCeiling indicates a tolerance ceiling below the initial value.
	ErrBadCeiling = errors.New("chain: tolerance ceiling below initial tolerance")

	// ErrBadBudget indicates a non-positive per-step time budget.
	ErrBadBudget = errors.New("chain: step budget must be positive")
)
