// Package optimize adapts gonum's quasi-Newton solvers to the bounded
// minimizer contract the reward estimator depends on.
package optimize

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	goopt "gonum.org/v1/gonum/optimize"

	"github.com/ahrav/go-condorcet/internal/ports"
)

var _ ports.Minimizer = (*LBFGS)(nil)

// ErrNilObjective is returned when a problem carries no objective.
var ErrNilObjective = errors.New("minimization problem has no objective")

// LBFGS is a bounded quasi-Newton minimizer backed by gonum's L-BFGS
// implementation. Box constraints, which gonum's method does not support
// natively, are realized by optimizing in an unconstrained auxiliary
// space connected to the original coordinates through smooth monotone
// transforms, with the gradient corrected by the chain rule.
//
// LBFGS is stateless and safe for concurrent use.
type LBFGS struct {
	// MaxIterations caps the solver's major iterations.
	// Zero selects a default budget of 1000.
	MaxIterations int
}

// NewLBFGS creates a minimizer with the default iteration budget.
func NewLBFGS() *LBFGS { return &LBFGS{} }

// Minimize implements ports.Minimizer. The call blocks until the solver
// terminates; per the core's concurrency model the invocation has no
// mid-run cancellation hook, so the context is consulted only before
// the solver starts.
//
// A solver run that terminates without meeting its tolerance is reported
// through Result.Converged and Result.Status, not through the error.
func (l *LBFGS) Minimize(ctx context.Context, p ports.Problem) (ports.Result, error) {
	if p.Objective == nil {
		return ports.Result{}, ErrNilObjective
	}
	n := len(p.Init)
	if n == 0 {
		return ports.Result{}, errors.New("minimization problem has dimension zero")
	}
	if p.Bounds != nil && (len(p.Bounds.Lower) != n || len(p.Bounds.Upper) != n) {
		return ports.Result{}, fmt.Errorf("bounds dimension %d/%d does not match problem dimension %d",
			len(p.Bounds.Lower), len(p.Bounds.Upper), n)
	}
	if err := ctx.Err(); err != nil {
		return ports.Result{}, err
	}

	tf := newTransform(p.Bounds, n)

	// gonum splits the objective into Func and Grad, while the port
	// supplies a joint callback; a last-point cache avoids paying for
	// the objective twice per solver step.
	var (
		cachedU    []float64
		cachedLoss float64
		cachedGrad []float64
	)
	evaluate := func(u []float64) (float64, []float64) {
		if cachedU != nil && floats.Equal(cachedU, u) {
			return cachedLoss, cachedGrad
		}
		loss, grad := p.Objective(tf.toX(u))
		cachedU = append(cachedU[:0], u...)
		cachedLoss = loss
		cachedGrad = tf.chain(u, grad)
		return cachedLoss, cachedGrad
	}

	problem := goopt.Problem{
		Func: func(u []float64) float64 {
			loss, _ := evaluate(u)
			return loss
		},
		Grad: func(dst, u []float64) {
			_, grad := evaluate(u)
			copy(dst, grad)
		},
	}

	maxIter := l.MaxIterations
	if maxIter <= 0 {
		maxIter = 1000
	}
	settings := &goopt.Settings{
		GradientThreshold: p.Tol,
		MajorIterations:   maxIter,
		Converger: &goopt.FunctionConverge{
			Absolute:   p.Tol,
			Iterations: 50,
		},
	}

	res, err := goopt.Minimize(problem, tf.toU(p.Init), settings, &goopt.LBFGS{})
	if err != nil {
		// The solver ran and gave up; surface its diagnostic rather
		// than failing the invocation.
		status := err.Error()
		out := ports.Result{Converged: false, Status: status}
		if res != nil {
			out.X = tf.toX(res.X)
		}
		return out, nil
	}

	return ports.Result{
		X:         tf.toX(res.X),
		Converged: statusConverged(res.Status),
		Status:    res.Status.String(),
	}, nil
}

// statusConverged maps gonum termination statuses onto the port's
// converged flag.
func statusConverged(s goopt.Status) bool {
	switch s {
	case goopt.Success,
		goopt.FunctionThreshold,
		goopt.FunctionConvergence,
		goopt.GradientThreshold,
		goopt.StepConvergence,
		goopt.MethodConverge:
		return true
	default:
		return false
	}
}

// boundKind classifies a coordinate's box constraint.
type boundKind int

const (
	kindFree boundKind = iota
	kindLower
	kindUpper
	kindBoth
)

// interiorMargin keeps transformed starting points strictly inside
// their bounds so the inverse transforms stay finite.
const interiorMargin = 1e-10

// transform maps between the solver's unconstrained auxiliary space and
// the problem's (possibly bounded) coordinates:
//
//	free            x = u
//	lower bound     x = lo + exp(u)
//	upper bound     x = hi - exp(-u)
//	two-sided       x = lo + (hi-lo) * sigmoid(u)
//
// Each map is smooth and strictly increasing, so minimizing over u
// minimizes over the original box.
type transform struct {
	kinds  []boundKind
	lo, hi []float64
}

func newTransform(b *ports.Bounds, n int) *transform {
	tf := &transform{
		kinds: make([]boundKind, n),
		lo:    make([]float64, n),
		hi:    make([]float64, n),
	}
	for i := 0; i < n; i++ {
		lo, hi := math.Inf(-1), math.Inf(1)
		if b != nil {
			lo, hi = b.Lower[i], b.Upper[i]
		}
		tf.lo[i], tf.hi[i] = lo, hi
		switch {
		case math.IsInf(lo, -1) && math.IsInf(hi, 1):
			tf.kinds[i] = kindFree
		case math.IsInf(hi, 1):
			tf.kinds[i] = kindLower
		case math.IsInf(lo, -1):
			tf.kinds[i] = kindUpper
		default:
			tf.kinds[i] = kindBoth
		}
	}
	return tf
}

// toX maps an auxiliary point into the problem's coordinates.
func (tf *transform) toX(u []float64) []float64 {
	x := make([]float64, len(u))
	for i, ui := range u {
		switch tf.kinds[i] {
		case kindFree:
			x[i] = ui
		case kindLower:
			x[i] = tf.lo[i] + math.Exp(ui)
		case kindUpper:
			x[i] = tf.hi[i] - math.Exp(-ui)
		case kindBoth:
			x[i] = tf.lo[i] + (tf.hi[i]-tf.lo[i])*sigmoid(ui)
		}
	}
	return x
}

// toU maps a problem-space point into the auxiliary space, nudging it
// strictly inside any bound first.
func (tf *transform) toU(x []float64) []float64 {
	u := make([]float64, len(x))
	for i, xi := range x {
		switch tf.kinds[i] {
		case kindFree:
			u[i] = xi
		case kindLower:
			u[i] = math.Log(math.Max(xi-tf.lo[i], interiorMargin))
		case kindUpper:
			u[i] = -math.Log(math.Max(tf.hi[i]-xi, interiorMargin))
		case kindBoth:
			width := tf.hi[i] - tf.lo[i]
			if width <= 0 {
				u[i] = 0
				continue
			}
			t := (xi - tf.lo[i]) / width
			t = math.Min(math.Max(t, interiorMargin), 1-interiorMargin)
			u[i] = math.Log(t / (1 - t))
		}
	}
	return u
}

// chain converts a problem-space gradient into the auxiliary space by
// multiplying each coordinate with its transform derivative dx/du.
func (tf *transform) chain(u, gradX []float64) []float64 {
	gradU := make([]float64, len(u))
	for i, ui := range u {
		var dxdu float64
		switch tf.kinds[i] {
		case kindFree:
			dxdu = 1
		case kindLower:
			dxdu = math.Exp(ui)
		case kindUpper:
			dxdu = math.Exp(-ui)
		case kindBoth:
			s := sigmoid(ui)
			dxdu = (tf.hi[i] - tf.lo[i]) * s * (1 - s)
		}
		gradU[i] = gradX[i] * dxdu
	}
	return gradU
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
