package graphkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopologicalOrder(t *testing.T) {
	t.Run("total order", func(t *testing.T) {
		g := New()
		g.AddEdge("b", "c", 1)
		g.AddEdge("a", "b", 1)
		g.AddEdge("c", "d", 1)

		order, err := g.TopologicalOrder(strict)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c", "d"}, order)
	})

	t.Run("excludes nodes without kept edges", func(t *testing.T) {
		g := New()
		g.AddEdge("a", "b", 1)
		g.AddEdge("c", "d", 0) // indifference only
		g.AddNode("e")

		order, err := g.TopologicalOrder(strict)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, order)
	})

	t.Run("respects all dependencies", func(t *testing.T) {
		g := New()
		g.AddEdge("a", "c", 1)
		g.AddEdge("b", "c", 1)
		g.AddEdge("c", "d", 1)

		order, err := g.TopologicalOrder(strict)
		require.NoError(t, err)
		require.Len(t, order, 4)

		pos := make(map[string]int, len(order))
		for i, n := range order {
			pos[n] = i
		}
		for _, e := range g.Edges() {
			assert.Less(t, pos[e.From], pos[e.To],
				"%s must precede %s", e.From, e.To)
		}
	})

	t.Run("cycle yields ErrCyclic", func(t *testing.T) {
		g := New()
		g.AddEdge("a", "b", 1)
		g.AddEdge("b", "a", 1)

		_, err := g.TopologicalOrder(strict)
		assert.ErrorIs(t, err, ErrCyclic)
	})

	t.Run("empty subgraph yields empty order", func(t *testing.T) {
		g := New()
		g.AddEdge("a", "b", 0)

		order, err := g.TopologicalOrder(strict)
		require.NoError(t, err)
		assert.Empty(t, order)
	})
}

func TestDescendants(t *testing.T) {
	t.Run("transitive reachability", func(t *testing.T) {
		g := New()
		g.AddEdge("a", "b", 1)
		g.AddEdge("b", "c", 1)
		g.AddEdge("c", "d", 1)

		assert.Equal(t, []string{"b", "c", "d"}, g.Descendants("a", strict))
		assert.Equal(t, []string{"d"}, g.Descendants("c", strict))
		assert.Empty(t, g.Descendants("d", strict))
	})

	t.Run("filtered edges are not followed", func(t *testing.T) {
		g := New()
		g.AddEdge("a", "b", 1)
		g.AddEdge("b", "c", 0)

		assert.Equal(t, []string{"b"}, g.Descendants("a", strict))
	})

	t.Run("diamond counts nodes once", func(t *testing.T) {
		g := New()
		g.AddEdge("a", "b", 1)
		g.AddEdge("a", "c", 1)
		g.AddEdge("b", "d", 1)
		g.AddEdge("c", "d", 1)

		assert.ElementsMatch(t, []string{"b", "c", "d"}, g.Descendants("a", strict))
	})

	t.Run("unknown source yields nil", func(t *testing.T) {
		assert.Nil(t, New().Descendants("ghost", strict))
	})
}
