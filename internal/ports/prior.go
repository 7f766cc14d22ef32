package ports

// Prior is a continuous univariate distribution used as the prior over
// latent rewards, applied independently per coordinate. Implementations
// wrap a probability-distribution library; the core needs only
// log-density evaluation and, when the solver is bounded, the support
// interval.
type Prior interface {
	// LogDensity returns the natural log of the density at x. It may be
	// negative infinity outside the support.
	LogDensity(x float64) float64

	// Support returns the interval on which the density is positive.
	// Either side may be infinite.
	Support() (lo, hi float64)
}
