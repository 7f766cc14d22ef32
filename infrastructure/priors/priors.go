// Package priors adapts gonum's continuous distributions to the prior
// contract used for maximum a posteriori reward estimation.
package priors

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ahrav/go-condorcet/internal/ports"
)

var (
	_ ports.Prior = Gaussian{}
	_ ports.Prior = Uniform{}
)

// Gaussian is a normal prior over latent rewards. Its support is the
// whole real line, so it regularizes the fit without bounding the
// solver.
type Gaussian struct {
	dist distuv.Normal
}

// NewGaussian creates a normal prior with the given mean and standard
// deviation. Sigma must be positive.
func NewGaussian(mu, sigma float64) Gaussian {
	return Gaussian{dist: distuv.Normal{Mu: mu, Sigma: sigma}}
}

// LogDensity returns the log of the normal density at x.
func (g Gaussian) LogDensity(x float64) float64 { return g.dist.LogProb(x) }

// Support returns the unbounded real line.
func (Gaussian) Support() (lo, hi float64) {
	return math.Inf(-1), math.Inf(1)
}

// Uniform is a flat prior on a finite interval. Its finite support
// bounds every solver coordinate, exercising the constrained path of
// the minimizer.
type Uniform struct {
	dist distuv.Uniform
}

// NewUniform creates a uniform prior on [min, max]. Max must exceed min.
func NewUniform(min, max float64) Uniform {
	return Uniform{dist: distuv.Uniform{Min: min, Max: max}}
}

// LogDensity returns the log of the uniform density at x, negative
// infinity outside the interval.
func (u Uniform) LogDensity(x float64) float64 { return u.dist.LogProb(x) }

// Support returns the prior's interval.
func (u Uniform) Support() (lo, hi float64) {
	return u.dist.Min, u.dist.Max
}
