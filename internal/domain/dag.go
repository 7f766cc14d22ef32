package domain

import (
	"fmt"

	"github.com/ahrav/go-condorcet/internal/graphkit"
)

// PrefDAG is a preference graph that enforces transitivity of strict
// preferences: the subgraph induced by positive-weight edges must stay
// acyclic at all times. Indifference edges are exempt, since small
// stepwise indifferences can legitimately compose into a large strict
// preference (the Sorites paradox), so indifference is not assumed
// transitive.
//
// Every mutating operation is atomic with respect to the invariant:
// either the whole insertion commits, or it is rolled back completely
// before a CoherenceError is returned. No intermediate state is ever
// observable.
//
// PrefDAG owns its PrefGraph by composition, so the invariant cannot be
// bypassed through a base-type reference.
type PrefDAG struct {
	pg *PrefGraph
}

var _ Preferences = (*PrefDAG)(nil)

// NewPrefDAG creates an empty preference DAG.
func NewPrefDAG() *PrefDAG {
	return &PrefDAG{pg: NewPrefGraph()}
}

// AddNode registers a node with no incident edges, returning true when
// it was newly created. Isolated nodes can never violate the invariant.
func (d *PrefDAG) AddNode(id string) bool { return d.pg.AddNode(id) }

// AddEdge inserts a preference edge from a to b. Positive-weight edges
// trigger a cycle search of the strict subgraph seeded at a; if the
// insertion would close a cycle, the edge (and any node the call
// created) is removed and a *CoherenceError carrying the discovered
// cycle is returned. Zero-weight indifference edges bypass the check.
// Negative weights are rejected before any mutation.
func (d *PrefDAG) AddEdge(a, b string, weight float64) error {
	if weight < 0 {
		return fmt.Errorf("%w: got %v", ErrNegativeWeight, weight)
	}

	createdA := !d.pg.g.HasNode(a)
	createdB := a != b && !d.pg.g.HasNode(b)
	d.pg.g.AddEdge(a, b, weight)

	if weight > 0 {
		if cycle := d.pg.g.FindCycleFrom(a, StrictEdges); cycle != nil {
			d.pg.g.PopEdges(1)
			if createdB {
				d.pg.g.RemoveNodeIfIsolated(b)
			}
			if createdA {
				d.pg.g.RemoveNodeIfIsolated(a)
			}
			return &CoherenceError{Cycle: cycle}
		}
	}
	return nil
}

// AddEdgesFrom inserts a batch of edges, then performs a single global
// acyclicity check over the strict subgraph, amortizing the cost of the
// check across the batch. On violation the entire batch, along with any
// node it created, is removed and a *CoherenceError is returned.
// A negative weight anywhere in the batch is rejected before any
// mutation.
func (d *PrefDAG) AddEdgesFrom(edges []graphkit.Edge) error {
	for _, e := range edges {
		if e.Weight < 0 {
			return fmt.Errorf("%w: edge %s -> %s has weight %v",
				ErrNegativeWeight, e.From, e.To, e.Weight)
		}
	}

	var created []string
	for _, e := range edges {
		if !d.pg.g.HasNode(e.From) {
			created = append(created, e.From)
		}
		if e.From != e.To && !d.pg.g.HasNode(e.To) {
			created = append(created, e.To)
		}
		d.pg.g.AddEdge(e.From, e.To, e.Weight)
	}

	if cycle := d.pg.g.FindCycle(StrictEdges); cycle != nil {
		d.pg.g.PopEdges(len(edges))
		for i := len(created) - 1; i >= 0; i-- {
			d.pg.g.RemoveNodeIfIsolated(created[i])
		}
		return &CoherenceError{Cycle: cycle}
	}
	return nil
}

// AddGreater records the strict preference a over b with the given
// positive evidentiary weight, subject to the acyclicity check.
func (d *PrefDAG) AddGreater(a, b string, weight float64) error {
	if weight <= 0 {
		return fmt.Errorf("%w: got %v", ErrNonPositiveWeight, weight)
	}
	return d.AddEdge(a, b, weight)
}

// AddIndiff records indifference between a and b. Indifference edges
// never trigger the acyclicity check.
func (d *PrefDAG) AddIndiff(a, b string) error {
	return d.AddEdge(a, b, 0)
}

// Median returns the node at position n/2 of a topological ordering of
// the strict subgraph, where n counts the nodes incident to at least one
// strict edge. Ties among incomparable nodes are broken by the
// ordering's own first-discovery order. Returns ErrNoStrictPrefs when
// the strict subgraph is empty.
func (d *PrefDAG) Median() (string, error) {
	order, err := d.pg.g.TopologicalOrder(StrictEdges)
	if err != nil {
		// Unreachable while the invariant holds.
		return "", err
	}
	if len(order) == 0 {
		return "", ErrNoStrictPrefs
	}
	return order[len(order)/2], nil
}

// SearchSorted starts a stepped binary search over a topological
// ordering of the strict subgraph. The returned Search exposes one probe
// node at a time; the driver answers whether its query belongs after the
// probe in the ordering and resumes the search. Abandoning the search at
// any point requires no cleanup.
func (d *PrefDAG) SearchSorted() (*Search, error) {
	order, err := d.pg.g.TopologicalOrder(StrictEdges)
	if err != nil {
		return nil, err
	}
	return &Search{ordering: order, hi: len(order)}, nil
}

// StrictDescendants returns every node transitively reachable from the
// given node through strict edges, excluding the node itself, in
// discovery order. Indifference edges are never followed.
func (d *PrefDAG) StrictDescendants(node string) []string {
	return d.pg.g.Descendants(node, StrictEdges)
}

// PrefProb returns the Laplace-smoothed probability that a is preferred
// to b. See PrefGraph.PrefProb.
func (d *PrefDAG) PrefProb(a, b string, eps float64) (float64, error) {
	return d.pg.PrefProb(a, b, eps)
}

// Nodes returns every node in first-insertion order.
func (d *PrefDAG) Nodes() []string { return d.pg.Nodes() }

// Edges returns every edge in insertion order.
func (d *PrefDAG) Edges() []graphkit.Edge { return d.pg.Edges() }

// NodeCount returns the number of nodes.
func (d *PrefDAG) NodeCount() int { return d.pg.NodeCount() }

// EdgeCount returns the number of edges.
func (d *PrefDAG) EdgeCount() int { return d.pg.EdgeCount() }

// HasNode reports whether the node is present.
func (d *PrefDAG) HasNode(node string) bool { return d.pg.HasNode(node) }

// Degree returns the number of edges incident to the node.
func (d *PrefDAG) Degree(node string) int { return d.pg.Degree(node) }

// Reward returns the node's fitted latent reward, if materialized.
func (d *PrefDAG) Reward(node string) (float64, bool) { return d.pg.Reward(node) }

// SetReward materializes or overwrites the node's latent reward.
func (d *PrefDAG) SetReward(node string, reward float64) { d.pg.SetReward(node, reward) }

// ClearReward removes the node's materialized reward, if any.
func (d *PrefDAG) ClearReward(node string) { d.pg.ClearReward(node) }
