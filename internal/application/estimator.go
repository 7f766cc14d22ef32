// Package application implements the operations built on preference
// graphs: maximum a posteriori reward estimation and ranked-pairs
// aggregation of many voters' preference DAGs.
package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gonum.org/v1/gonum/mat"

	"github.com/ahrav/go-condorcet/internal/domain"
	"github.com/ahrav/go-condorcet/internal/graphkit"
	"github.com/ahrav/go-condorcet/internal/ports"
)

// Family selects the paired comparison model used for reward estimation.
type Family string

// Supported paired comparison families.
const (
	// FamilyBradleyTerry assumes reward differences follow a logistic
	// distribution.
	FamilyBradleyTerry Family = "bradley-terry"

	// FamilyThurstone assumes reward differences follow a Gaussian
	// distribution.
	FamilyThurstone Family = "thurstone"
)

// ErrUnknownFamily is returned when an unrecognized model family is
// requested. It is raised before any state mutation or solver work.
var ErrUnknownFamily = errors.New("unknown model family")

// Default estimation parameters, applied when an option is left zero.
const (
	// DefaultEps is the default Laplace smoothing parameter.
	DefaultEps = 0.125
	// DefaultTol is the default solver convergence tolerance.
	DefaultTol = 1e-5
)

// priorGradStep is the forward finite-difference step used to
// approximate the gradient of a prior's log-density.
const priorGradStep = 1.5e-8

// EstimateOptions configures one reward estimation run.
type EstimateOptions struct {
	// Family selects the link function; FamilyBradleyTerry by default.
	Family Family
	// Eps is the Laplace smoothing parameter and must be positive.
	// It guarantees every node has a nonzero probability of being
	// preferred to every other, keeping the log-likelihood finite.
	Eps float64
	// Prior, when non-nil, turns the maximum likelihood fit into a MAP
	// fit: its log-density joins the objective and its support bounds
	// the solver.
	Prior ports.Prior
	// Tol is the solver convergence tolerance.
	Tol float64
}

// RewardEstimator fits latent per-node rewards to a preference graph by
// maximum a posteriori estimation, writing the fitted values back to the
// graph's reward attributes.
type RewardEstimator struct {
	minimizer ports.Minimizer
	// metrics is optional; nil disables instrumentation.
	metrics ports.MetricsCollector
}

// NewRewardEstimator creates an estimator backed by the given bounded
// minimizer. The metrics collector may be nil.
func NewRewardEstimator(minimizer ports.Minimizer, metrics ports.MetricsCollector) *RewardEstimator {
	return &RewardEstimator{minimizer: minimizer, metrics: metrics}
}

// UpdateRewards computes maximum a posteriori estimates of the latent
// rewards of the non-isolated nodes of prefs and writes them back as
// reward attributes. Existing reward attributes warm-start the solver
// and are then overwritten. Isolated nodes are left untouched; their
// reward is implicitly zero.
//
// Without a prior the objective is shift-invariant: only pairwise reward
// differences are identified, and no absolute anchor is imposed.
//
// UpdateRewards returns an invalid-argument error before any work when
// eps is not positive or the family is unknown, and a
// *domain.ConvergenceError, with nothing written, when the solver fails
// to meet its tolerance.
func (re *RewardEstimator) UpdateRewards(ctx context.Context, prefs domain.Preferences, opts EstimateOptions) (err error) {
	if opts.Family == "" {
		opts.Family = FamilyBradleyTerry
	}
	if opts.Eps == 0 {
		opts.Eps = DefaultEps
	}
	if opts.Tol == 0 {
		opts.Tol = DefaultTol
	}
	if opts.Eps <= 0 {
		return fmt.Errorf("%w: got %v", domain.ErrNonPositiveEps, opts.Eps)
	}

	var lnk link
	switch opts.Family {
	case FamilyBradleyTerry:
		lnk = logisticLink
	case FamilyThurstone:
		lnk = probitLink
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFamily, opts.Family)
	}

	tracer := otel.Tracer("reward-estimator")
	ctx, span := tracer.Start(ctx, "RewardEstimator.UpdateRewards")
	defer span.End()
	span.SetAttributes(
		attribute.String("family", string(opts.Family)),
		attribute.Float64("eps", opts.Eps),
		attribute.Bool("prior", opts.Prior != nil),
	)

	start := time.Now()
	defer func() {
		re.recordRun(time.Since(start), err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	// Only non-isolated nodes get explicit rewards. In the common case
	// where most nodes are isolated this saves most of the work.
	var nonisolated []string
	for _, n := range prefs.Nodes() {
		if prefs.Degree(n) > 0 {
			nonisolated = append(nonisolated, n)
		}
	}
	if len(nonisolated) == 0 {
		return nil
	}

	edges := prefs.Edges()
	span.SetAttributes(
		attribute.Int("nodes", len(nonisolated)),
		attribute.Int("edges", len(edges)),
	)

	// The latent rewards are coefficients of a generalized linear model
	// whose design matrix is the negative transpose of the oriented
	// incidence matrix: row e of X@b is reward(source) - reward(target)
	// for edge e.
	x := graphkit.SignedIncidence(nonisolated, edges)
	y := make([]float64, len(edges))
	for i, e := range edges {
		p, perr := prefs.PrefProb(e.From, e.To, opts.Eps)
		if perr != nil {
			return perr
		}
		y[i] = p
	}

	// Warm-start from previously fitted rewards where available,
	// stopping at the first node without one.
	b0 := make([]float64, len(nonisolated))
	for i, n := range nonisolated {
		r, ok := prefs.Reward(n)
		if !ok {
			break
		}
		b0[i] = r
	}

	problem := ports.Problem{
		Objective: re.objective(x, y, lnk, opts.Prior),
		Init:      b0,
		Tol:       opts.Tol,
	}
	if opts.Prior != nil {
		lo, hi := opts.Prior.Support()
		lower := make([]float64, len(nonisolated))
		upper := make([]float64, len(nonisolated))
		for i := range lower {
			lower[i], upper[i] = lo, hi
		}
		problem.Bounds = &ports.Bounds{Lower: lower, Upper: upper}
	}

	result, err := re.minimizer.Minimize(ctx, problem)
	if err != nil {
		return fmt.Errorf("reward estimation: %w", err)
	}
	if !result.Converged {
		return &domain.ConvergenceError{Status: result.Status}
	}

	for i, n := range nonisolated {
		prefs.SetReward(n, result.X[i])
	}
	return nil
}

// objective builds the joint negative-log-posterior and gradient
// callback handed to the minimizer.
//
// The loss is the cross-entropy between the smoothed target preference
// probabilities and the link-modeled probabilities,
//
//	L(b) = -sum y*logCDF(Xb) + (1-y)*log1p(-CDF(Xb))
//
// with gradient X'(CDF(Xb) - y), the reduced form shared by both link
// families. A prior subtracts its log-density from the loss and a
// forward finite-difference approximation of its log-density gradient
// from the gradient.
func (re *RewardEstimator) objective(x *mat.Dense, y []float64, lnk link, prior ports.Prior) ports.Objective {
	rows, _ := x.Dims()

	return func(b []float64) (float64, []float64) {
		bVec := mat.NewVecDense(len(b), b)

		z := mat.NewVecDense(rows, nil)
		z.MulVec(x, bVec)

		var loss float64
		resid := mat.NewVecDense(rows, nil)
		for i := 0; i < rows; i++ {
			zi := z.AtVec(i)
			p := lnk.cdf(zi)
			loss += -y[i]*lnk.logCDF(zi) - (1-y[i])*math.Log1p(-p)
			resid.SetVec(i, p-y[i])
		}

		gradVec := mat.NewVecDense(len(b), nil)
		gradVec.MulVec(x.T(), resid)
		grad := make([]float64, len(b))
		copy(grad, gradVec.RawVector().Data)

		if prior != nil {
			for i, bi := range b {
				ld := prior.LogDensity(bi)
				loss -= ld
				grad[i] -= (prior.LogDensity(bi+priorGradStep) - ld) / priorGradStep
			}
		}
		return loss, grad
	}
}

// recordRun emits latency and status metrics for one estimation run.
func (re *RewardEstimator) recordRun(elapsed time.Duration, err error) {
	if re.metrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
		var convErr *domain.ConvergenceError
		if errors.As(err, &convErr) {
			status = "no_convergence"
		}
	}
	labels := map[string]string{"status": status}
	re.metrics.RecordLatency("update_rewards", elapsed, labels)
	re.metrics.RecordCounter("reward_estimations_total", 1, labels)
}
