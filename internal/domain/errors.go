package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors for preference graph operations.
var (
	// ErrNegativeWeight indicates an edge weight below zero was supplied.
	ErrNegativeWeight = errors.New("edge weight must be non-negative")

	// ErrNonPositiveWeight indicates a strict preference was declared with
	// a weight that carries no evidentiary strength.
	ErrNonPositiveWeight = errors.New("strict preference weight must be positive")

	// ErrNonPositiveEps indicates a Laplace smoothing parameter that would
	// produce degenerate 0/1 probabilities.
	ErrNonPositiveEps = errors.New("smoothing parameter must be positive")

	// ErrNoStrictPrefs indicates an order query on a graph whose strict
	// subgraph is empty.
	ErrNoStrictPrefs = errors.New("no strict preferences to order")
)

// CoherenceError reports a mutation that would break the acyclicity
// invariant of the strict preference relation. The offending edge or
// batch has already been rolled back when this error is returned.
type CoherenceError struct {
	// Cycle is the discovered cycle as an ordered node sequence
	// n0, n1, ..., nk where each node strictly dominates the next and
	// nk strictly dominates n0. It is never empty.
	Cycle []string
}

// Error implements the error interface, rendering the cycle for
// diagnostic display.
func (e *CoherenceError) Error() string {
	if len(e.Cycle) == 0 {
		return "strict preferences would form a cycle"
	}
	return fmt.Sprintf("strict preferences would form a cycle: %s -> %s",
		strings.Join(e.Cycle, " -> "), e.Cycle[0])
}

// ConvergenceError reports that the reward solver failed to meet its
// tolerance within its internal iteration budget. No reward attributes
// have been written when this error is returned.
type ConvergenceError struct {
	// Status is the solver's human-readable diagnostic message.
	Status string
}

// Error implements the error interface.
func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("reward estimation failed to converge: %s", e.Status)
}
