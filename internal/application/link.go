package application

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// link bundles the cumulative distribution function of a paired
// comparison family with its log form. The CDF maps a reward difference
// to the modeled probability that the higher-reward alternative wins.
type link struct {
	cdf    func(z float64) float64
	logCDF func(z float64) float64
}

// logisticLink is the Bradley-Terry family: reward differences follow a
// logistic distribution (logit link).
var logisticLink = link{
	cdf:    logisticCDF,
	logCDF: logisticLogCDF,
}

// probitLink is the Thurstone family: reward differences follow a
// standard normal distribution (probit link).
var probitLink = link{
	cdf:    distuv.UnitNormal.CDF,
	logCDF: normalLogCDF,
}

// logisticCDF evaluates 1/(1+exp(-z)) without overflow on either tail.
func logisticCDF(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}

// logisticLogCDF evaluates log(logisticCDF(z)) stably: the naive form
// loses all precision once the CDF rounds to 0 or 1.
func logisticLogCDF(z float64) float64 {
	if z >= 0 {
		return -math.Log1p(math.Exp(-z))
	}
	return z - math.Log1p(math.Exp(z))
}

// normalLogCDF evaluates log(Phi(z)) through the complementary error
// function, which keeps precision on the left tail where Phi underflows.
func normalLogCDF(z float64) float64 {
	return math.Log(0.5) + math.Log(math.Erfc(-z/math.Sqrt2))
}
