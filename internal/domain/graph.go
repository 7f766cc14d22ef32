// Package domain contains the preference-graph models: weighted directed
// preference relations, the acyclic strict-preference DAG built on top of
// them, and the errors their operations return.
package domain

import (
	"fmt"

	"github.com/ahrav/go-condorcet/internal/graphkit"
)

// Preferences is the read/write surface shared by PrefGraph and PrefDAG
// that reward estimation consumes: node and edge iteration, degree
// lookup, smoothed pairwise probabilities, and reward attributes.
type Preferences interface {
	// Nodes returns every node in first-insertion order.
	Nodes() []string
	// Edges returns every edge in insertion order.
	Edges() []graphkit.Edge
	// Degree returns the count of edges incident to the node.
	Degree(node string) int
	// PrefProb returns the Laplace-smoothed probability that a is
	// preferred to b.
	PrefProb(a, b string, eps float64) (float64, error)
	// Reward returns the node's fitted latent reward, if one has been
	// materialized.
	Reward(node string) (float64, bool)
	// SetReward materializes or overwrites the node's latent reward.
	SetReward(node string, reward float64)
}

// StrictEdges selects the strict-preference subgraph: edges whose weight
// is positive. Indifference edges (weight zero) are excluded.
func StrictEdges(e graphkit.Edge) bool { return e.Weight > 0 }

// PrefGraph is a weighted directed graph of preferences between opaque
// string-identified alternatives. An edge (a, b) with positive weight
// records the strict preference a over b, with the weight measuring
// evidentiary strength; a zero-weight edge records indifference.
//
// PrefGraph places no structural constraint on its edges; semantic
// consistency between opposite-direction strict edges is the caller's
// responsibility. Use PrefDAG when strict preferences must stay acyclic.
//
// PrefGraph owns a generic directed-multigraph value by composition,
// so callers cannot reach an unconstrained base type.
type PrefGraph struct {
	g *graphkit.Graph
	// rewards holds fitted latent rewards keyed by node. A node absent
	// from the map has no materialized reward and is implicitly zero.
	rewards map[string]float64
}

var _ Preferences = (*PrefGraph)(nil)

// NewPrefGraph creates an empty preference graph.
func NewPrefGraph() *PrefGraph {
	return &PrefGraph{
		g:       graphkit.New(),
		rewards: make(map[string]float64),
	}
}

// AddNode registers a node with no incident edges, returning true when
// it was newly created. Isolated nodes participate in iteration but are
// excluded from reward estimation and order queries.
func (pg *PrefGraph) AddNode(id string) bool { return pg.g.AddNode(id) }

// AddEdge inserts a preference edge from a to b. A positive weight
// records the strict preference a over b; a zero weight records
// indifference. Negative weights are rejected before any mutation.
func (pg *PrefGraph) AddEdge(a, b string, weight float64) error {
	if weight < 0 {
		return fmt.Errorf("%w: got %v", ErrNegativeWeight, weight)
	}
	pg.g.AddEdge(a, b, weight)
	return nil
}

// AddGreater records the strict preference a over b with the given
// evidentiary weight, which must be positive.
func (pg *PrefGraph) AddGreater(a, b string, weight float64) error {
	if weight <= 0 {
		return fmt.Errorf("%w: got %v", ErrNonPositiveWeight, weight)
	}
	return pg.AddEdge(a, b, weight)
}

// AddIndiff records indifference between a and b as a zero-weight edge.
func (pg *PrefGraph) AddIndiff(a, b string) error {
	return pg.AddEdge(a, b, 0)
}

// PrefProb returns the Laplace-smoothed empirical probability that a is
// preferred to b:
//
//	(w(a,b) + eps) / (w(a,b) + w(b,a) + 2*eps)
//
// where w sums the weights of all parallel edges in each direction.
// The result is strictly inside (0, 1) and complementary: for any pair,
// PrefProb(a, b, eps) + PrefProb(b, a, eps) == 1 even with zero observed
// votes, which keeps downstream log-likelihood terms finite.
func (pg *PrefGraph) PrefProb(a, b string, eps float64) (float64, error) {
	if eps <= 0 {
		return 0, fmt.Errorf("%w: got %v", ErrNonPositiveEps, eps)
	}
	wab := pg.g.WeightSum(a, b)
	wba := pg.g.WeightSum(b, a)
	return (wab + eps) / (wab + wba + 2*eps), nil
}

// Nodes returns every node in first-insertion order.
func (pg *PrefGraph) Nodes() []string { return pg.g.Nodes() }

// Edges returns every edge in insertion order.
func (pg *PrefGraph) Edges() []graphkit.Edge { return pg.g.Edges() }

// NodeCount returns the number of nodes.
func (pg *PrefGraph) NodeCount() int { return pg.g.NodeCount() }

// EdgeCount returns the number of edges.
func (pg *PrefGraph) EdgeCount() int { return pg.g.EdgeCount() }

// HasNode reports whether the node is present.
func (pg *PrefGraph) HasNode(node string) bool { return pg.g.HasNode(node) }

// Degree returns the number of edges incident to the node in either
// direction. Unknown nodes have degree zero.
func (pg *PrefGraph) Degree(node string) int { return pg.g.Degree(node) }

// Reward returns the node's fitted latent reward and true when one has
// been materialized by an estimator run. Isolated nodes never carry a
// materialized reward; they are implicitly zero.
func (pg *PrefGraph) Reward(node string) (float64, bool) {
	r, ok := pg.rewards[node]
	return r, ok
}

// SetReward materializes or overwrites the node's latent reward.
func (pg *PrefGraph) SetReward(node string, reward float64) {
	pg.rewards[node] = reward
}

// ClearReward removes the node's materialized reward, if any, returning
// it to the implicit-zero state.
func (pg *PrefGraph) ClearReward(node string) {
	delete(pg.rewards, node)
}
