package application

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogisticCDF(t *testing.T) {
	t.Run("matches the naive form at moderate arguments", func(t *testing.T) {
		for _, z := range []float64{-5, -1, -0.25, 0, 0.25, 1, 5} {
			assert.InDelta(t, 1/(1+math.Exp(-z)), logisticCDF(z), 1e-15, "z=%v", z)
		}
	})

	t.Run("saturates without overflow on either tail", func(t *testing.T) {
		assert.Equal(t, 0.0, logisticCDF(-800))
		assert.Equal(t, 1.0, logisticCDF(800))
	})

	t.Run("complementary around zero", func(t *testing.T) {
		for _, z := range []float64{0.1, 1.5, 7} {
			assert.InDelta(t, 1.0, logisticCDF(z)+logisticCDF(-z), 1e-15)
		}
	})
}

func TestLogisticLogCDF(t *testing.T) {
	t.Run("agrees with log of the CDF at moderate arguments", func(t *testing.T) {
		for _, z := range []float64{-10, -1, 0, 1, 10} {
			assert.InDelta(t, math.Log(logisticCDF(z)), logisticLogCDF(z), 1e-12, "z=%v", z)
		}
	})

	t.Run("stays finite deep in the left tail", func(t *testing.T) {
		// The naive log(CDF) is -Inf here; the stable form is linear in z.
		got := logisticLogCDF(-800)
		assert.False(t, math.IsInf(got, -1))
		assert.InDelta(t, -800.0, got, 1e-9)
	})
}

func TestNormalLogCDF(t *testing.T) {
	t.Run("agrees with log of the CDF at moderate arguments", func(t *testing.T) {
		for _, z := range []float64{-8, -2, 0, 2, 8} {
			assert.InDelta(t, math.Log(probitLink.cdf(z)), normalLogCDF(z), 1e-9, "z=%v", z)
		}
	})

	t.Run("stays finite deep in the left tail", func(t *testing.T) {
		got := normalLogCDF(-35)
		assert.False(t, math.IsInf(got, -1))
		assert.Less(t, got, -500.0)
	})
}

func TestProbitLink(t *testing.T) {
	t.Run("symmetric CDF", func(t *testing.T) {
		for _, z := range []float64{0.5, 1.2816, 3} {
			assert.InDelta(t, 1.0, probitLink.cdf(z)+probitLink.cdf(-z), 1e-12)
		}
	})

	t.Run("standard quantiles", func(t *testing.T) {
		assert.InDelta(t, 0.5, probitLink.cdf(0), 1e-12)
		assert.InDelta(t, 0.9, probitLink.cdf(1.2815515655446004), 1e-9)
	})
}
