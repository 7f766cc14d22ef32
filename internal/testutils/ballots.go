// Package testutils provides helpers for constructing preference DAGs
// in tests: total-order ballots, single-pair ballots, and Condorcet
// cycles.
package testutils

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-condorcet/internal/domain"
)

// TotalOrderBallot builds a ballot expressing a strict total order over
// the given nodes, most preferred first, with unit edge weights.
func TotalOrderBallot(t *testing.T, nodes ...string) *domain.PrefDAG {
	t.Helper()

	ballot := domain.NewPrefDAG()
	for i := 0; i+1 < len(nodes); i++ {
		require.NoError(t, ballot.AddGreater(nodes[i], nodes[i+1], 1))
	}
	return ballot
}

// PairBallot builds a ballot with the single strict preference
// winner over loser at unit weight.
func PairBallot(t *testing.T, winner, loser string) *domain.PrefDAG {
	t.Helper()

	ballot := domain.NewPrefDAG()
	require.NoError(t, ballot.AddGreater(winner, loser, 1))
	return ballot
}

// CondorcetCycleBallots builds three single-vote ballots forming the
// classic Condorcet cycle a>b, b>c, c>a. Each ballot alone is acyclic;
// only their aggregate cycles.
func CondorcetCycleBallots(t *testing.T, a, b, c string) []*domain.PrefDAG {
	t.Helper()

	return []*domain.PrefDAG{
		PairBallot(t, a, b),
		PairBallot(t, b, c),
		PairBallot(t, c, a),
	}
}
