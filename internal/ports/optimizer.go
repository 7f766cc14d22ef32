// Package ports defines the interfaces between the preference core and
// its external collaborators: the numerical optimizer, prior
// distributions, and observability infrastructure.
package ports

import "context"

// Objective is a joint objective-and-gradient callback evaluated at a
// point. Implementations must return the loss value and a gradient slice
// of the same length as x; the optimizer owns neither slice.
type Objective func(x []float64) (loss float64, grad []float64)

// Bounds holds optional per-coordinate box constraints for minimization.
// Either side may be negative or positive infinity for a one-sided or
// absent constraint on that coordinate.
type Bounds struct {
	// Lower holds per-coordinate lower bounds.
	Lower []float64
	// Upper holds per-coordinate upper bounds.
	Upper []float64
}

// Problem describes one bounded multivariate minimization.
type Problem struct {
	// Objective is the joint loss-and-gradient callback.
	Objective Objective
	// Init is the starting point; its length fixes the dimension.
	Init []float64
	// Bounds optionally constrains each coordinate. Nil means the
	// problem is unconstrained.
	Bounds *Bounds
	// Tol is the convergence tolerance handed to the solver.
	Tol float64
}

// Result carries the outcome of a minimization.
type Result struct {
	// X is the best point found, in the problem's original coordinates.
	X []float64
	// Converged reports whether the solver met its tolerance within its
	// internal iteration budget.
	Converged bool
	// Status is the solver's human-readable diagnostic, populated on
	// both success and failure.
	Status string
}

// Minimizer is the contract for a bounded quasi-Newton minimizer.
// The call is a single blocking synchronous invocation bounded only by
// the supplied tolerance; implementations should honor context
// cancellation between their internal iterations where feasible.
type Minimizer interface {
	// Minimize runs the solver to completion. A non-nil error reports a
	// malformed problem or solver invocation failure; an unconverged run
	// is reported through Result.Converged with the diagnostic in
	// Result.Status, not through the error.
	Minimize(ctx context.Context, p Problem) (Result, error)
}
