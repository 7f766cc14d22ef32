package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefProb(t *testing.T) {
	tests := []struct {
		name     string
		wab, wba float64
		eps      float64
		want     float64
	}{
		{name: "no votes is even odds", wab: 0, wba: 0, eps: 0.125, want: 0.5},
		{name: "unanimous single vote", wab: 1, wba: 0, eps: 0.125, want: 1.125 / 1.25},
		{name: "weighted split", wab: 3, wba: 1, eps: 0.5, want: 0.7},
		{name: "large eps washes out evidence", wab: 1, wba: 0, eps: 1000, want: 1001.0 / 2001.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewPrefGraph()
			if tt.wab > 0 {
				require.NoError(t, g.AddGreater("a", "b", tt.wab))
			}
			if tt.wba > 0 {
				require.NoError(t, g.AddGreater("b", "a", tt.wba))
			}

			pab, err := g.PrefProb("a", "b", tt.eps)
			require.NoError(t, err)
			pba, err := g.PrefProb("b", "a", tt.eps)
			require.NoError(t, err)

			assert.InDelta(t, tt.want, pab, 1e-12)
			assert.InDelta(t, 1.0, pab+pba, 1e-12, "complementary probabilities must sum to one")
			assert.Greater(t, pab, 0.0, "probability must be strictly positive")
			assert.Less(t, pab, 1.0, "probability must be strictly below one")
		})
	}

	t.Run("unknown pair is even odds", func(t *testing.T) {
		g := NewPrefGraph()
		p, err := g.PrefProb("x", "y", 0.125)
		require.NoError(t, err)
		assert.InDelta(t, 0.5, p, 1e-12)
	})

	t.Run("non-positive eps is rejected", func(t *testing.T) {
		g := NewPrefGraph()
		for _, eps := range []float64{0, -0.5} {
			_, err := g.PrefProb("a", "b", eps)
			assert.ErrorIs(t, err, ErrNonPositiveEps)
		}
	})

	t.Run("parallel edges accumulate weight", func(t *testing.T) {
		g := NewPrefGraph()
		require.NoError(t, g.AddGreater("a", "b", 1))
		require.NoError(t, g.AddGreater("a", "b", 2))

		p, err := g.PrefProb("a", "b", 0.5)
		require.NoError(t, err)
		assert.InDelta(t, 3.5/4.0, p, 1e-12)
	})
}

func TestPrefGraphAddEdge(t *testing.T) {
	t.Run("negative weight is rejected before mutation", func(t *testing.T) {
		g := NewPrefGraph()
		err := g.AddEdge("a", "b", -1)

		assert.ErrorIs(t, err, ErrNegativeWeight)
		assert.Zero(t, g.NodeCount(), "no nodes may be created")
		assert.Zero(t, g.EdgeCount())
	})

	t.Run("opposite strict edges are the caller's problem", func(t *testing.T) {
		// The base graph does not police semantic consistency.
		g := NewPrefGraph()
		require.NoError(t, g.AddGreater("a", "b", 1))
		require.NoError(t, g.AddGreater("b", "a", 1))
		assert.Equal(t, 2, g.EdgeCount())
	})

	t.Run("add greater requires positive weight", func(t *testing.T) {
		g := NewPrefGraph()
		assert.ErrorIs(t, g.AddGreater("a", "b", 0), ErrNonPositiveWeight)
		assert.ErrorIs(t, g.AddGreater("a", "b", -2), ErrNonPositiveWeight)
	})

	t.Run("nodes can exist without edges", func(t *testing.T) {
		g := NewPrefGraph()
		assert.True(t, g.AddNode("island"))
		assert.False(t, g.AddNode("island"), "second registration is a no-op")
		assert.True(t, g.HasNode("island"))
		assert.Zero(t, g.Degree("island"))
	})

	t.Run("indifference is a zero-weight edge", func(t *testing.T) {
		g := NewPrefGraph()
		require.NoError(t, g.AddIndiff("a", "b"))

		edges := g.Edges()
		require.Len(t, edges, 1)
		assert.Zero(t, edges[0].Weight)
	})
}

func TestPrefGraphRewards(t *testing.T) {
	g := NewPrefGraph()
	require.NoError(t, g.AddGreater("a", "b", 1))

	_, ok := g.Reward("a")
	assert.False(t, ok, "reward is absent until an estimator writes it")

	g.SetReward("a", 1.5)
	r, ok := g.Reward("a")
	assert.True(t, ok)
	assert.Equal(t, 1.5, r)

	g.SetReward("a", -0.25)
	r, _ = g.Reward("a")
	assert.Equal(t, -0.25, r, "rewards may be overwritten on later runs")

	g.ClearReward("a")
	_, ok = g.Reward("a")
	assert.False(t, ok, "a cleared reward is absent again")
}
