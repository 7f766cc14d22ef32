package optimize

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-condorcet/internal/ports"
)

// shiftedQuadratic is (x-3)^2 + (y+1)^2 with its gradient.
func shiftedQuadratic(b []float64) (float64, []float64) {
	dx, dy := b[0]-3, b[1]+1
	return dx*dx + dy*dy, []float64{2 * dx, 2 * dy}
}

// rosenbrock is the classic banana-valley function, slow enough to
// exhaust a tiny iteration budget.
func rosenbrock(b []float64) (float64, []float64) {
	x, y := b[0], b[1]
	loss := 100*(y-x*x)*(y-x*x) + (1-x)*(1-x)
	grad := []float64{
		-400*x*(y-x*x) - 2*(1-x),
		200 * (y - x*x),
	}
	return loss, grad
}

func TestLBFGSMinimize(t *testing.T) {
	t.Run("unconstrained quadratic", func(t *testing.T) {
		res, err := NewLBFGS().Minimize(context.Background(), ports.Problem{
			Objective: shiftedQuadratic,
			Init:      []float64{0, 0},
			Tol:       1e-8,
		})

		require.NoError(t, err)
		assert.True(t, res.Converged, "status: %s", res.Status)
		assert.InDelta(t, 3.0, res.X[0], 1e-4)
		assert.InDelta(t, -1.0, res.X[1], 1e-4)
	})

	t.Run("box constraints clamp the minimizer to the boundary", func(t *testing.T) {
		// The free optimum (3, -1) lies outside x <= 1, y >= 0.
		res, err := NewLBFGS().Minimize(context.Background(), ports.Problem{
			Objective: shiftedQuadratic,
			Init:      []float64{0, 1},
			Tol:       1e-8,
			Bounds: &ports.Bounds{
				Lower: []float64{-1, 0},
				Upper: []float64{1, math.Inf(1)},
			},
		})

		require.NoError(t, err)
		assert.True(t, res.Converged, "status: %s", res.Status)
		assert.InDelta(t, 1.0, res.X[0], 1e-2)
		assert.InDelta(t, 0.0, res.X[1], 1e-2)
		assert.LessOrEqual(t, res.X[0], 1.0, "the bound is never crossed")
		assert.GreaterOrEqual(t, res.X[1], 0.0)
	})

	t.Run("exhausted iteration budget reports non-convergence, not an error", func(t *testing.T) {
		solver := &LBFGS{MaxIterations: 1}
		res, err := solver.Minimize(context.Background(), ports.Problem{
			Objective: rosenbrock,
			Init:      []float64{-1.2, 1},
			Tol:       1e-12,
		})

		require.NoError(t, err)
		assert.False(t, res.Converged)
		assert.NotEmpty(t, res.Status)
	})

	t.Run("nil objective", func(t *testing.T) {
		_, err := NewLBFGS().Minimize(context.Background(), ports.Problem{Init: []float64{0}})
		assert.ErrorIs(t, err, ErrNilObjective)
	})

	t.Run("zero dimension", func(t *testing.T) {
		_, err := NewLBFGS().Minimize(context.Background(), ports.Problem{Objective: shiftedQuadratic})
		assert.Error(t, err)
	})

	t.Run("mismatched bounds dimension", func(t *testing.T) {
		_, err := NewLBFGS().Minimize(context.Background(), ports.Problem{
			Objective: shiftedQuadratic,
			Init:      []float64{0, 0},
			Bounds:    &ports.Bounds{Lower: []float64{0}, Upper: []float64{1}},
		})
		assert.ErrorContains(t, err, "does not match problem dimension")
	})

	t.Run("cancelled context short-circuits", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewLBFGS().Minimize(ctx, ports.Problem{
			Objective: shiftedQuadratic,
			Init:      []float64{0, 0},
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestTransform(t *testing.T) {
	bounds := &ports.Bounds{
		Lower: []float64{math.Inf(-1), 2, math.Inf(-1), -1},
		Upper: []float64{math.Inf(1), math.Inf(1), 5, 1},
	}
	tf := newTransform(bounds, 4)

	t.Run("classifies each coordinate", func(t *testing.T) {
		assert.Equal(t, []boundKind{kindFree, kindLower, kindUpper, kindBoth}, tf.kinds)
	})

	t.Run("round-trips interior points", func(t *testing.T) {
		x := []float64{-7, 2.5, 4, 0.25}
		got := tf.toX(tf.toU(x))
		for i := range x {
			assert.InDelta(t, x[i], got[i], 1e-9, "coordinate %d", i)
		}
	})

	t.Run("maps any auxiliary point inside the box", func(t *testing.T) {
		for _, u := range [][]float64{
			{0, 0, 0, 0},
			{50, 50, 50, 50},
			{-50, -50, -50, -50},
		} {
			x := tf.toX(u)
			assert.Greater(t, x[1], 2.0)
			assert.Less(t, x[2], 5.0)
			assert.GreaterOrEqual(t, x[3], -1.0)
			assert.LessOrEqual(t, x[3], 1.0)
		}
	})

	t.Run("nudges boundary starts strictly inside", func(t *testing.T) {
		u := tf.toU([]float64{0, 2, 5, 1})
		for i, ui := range u {
			assert.False(t, math.IsInf(ui, 0), "coordinate %d must stay finite", i)
		}
		x := tf.toX(u)
		assert.Greater(t, x[1], 2.0)
		assert.Less(t, x[2], 5.0)
		assert.Less(t, x[3], 1.0)
	})

	t.Run("chain rule derivative matches a finite difference", func(t *testing.T) {
		const h = 1e-6
		u := []float64{0.3, -0.7, 1.1, 0.4}
		ones := []float64{1, 1, 1, 1}

		dxdu := tf.chain(u, ones)
		for i := range u {
			up := append([]float64(nil), u...)
			up[i] += h
			num := (tf.toX(up)[i] - tf.toX(u)[i]) / h
			assert.InDelta(t, num, dxdu[i], 1e-5, "coordinate %d", i)
		}
	})

	t.Run("no bounds means the identity", func(t *testing.T) {
		free := newTransform(nil, 2)
		x := []float64{1.5, -2.5}
		assert.Equal(t, x, free.toU(x))
		assert.Equal(t, x, free.toX(x))
		assert.Equal(t, []float64{3, 4}, free.chain(x, []float64{3, 4}))
	})
}
