// Package graphkit provides the generic directed-multigraph capability
// that the preference types are composed from: insertion-ordered node and
// edge storage, degree queries, edge-subset-restricted cycle search,
// topological ordering, reachability, and signed incidence construction.
package graphkit

// Edge is a directed, weighted edge between two nodes.
// Parallel edges and opposite-direction edges between the same pair are
// allowed; graphkit never deduplicates.
type Edge struct {
	// From is the source node identifier.
	From string
	// To is the target node identifier.
	To string
	// Weight is the non-negative edge weight.
	Weight float64
}

// EdgeFilter selects a subset of edges for subgraph-restricted algorithms
// such as cycle search, topological ordering, and reachability.
// A nil filter means every edge is included.
type EdgeFilter func(Edge) bool

// Graph is a directed multigraph over string node identifiers.
// Nodes and edges iterate in first-insertion order, which makes every
// traversal in this package deterministic for a given mutation history.
//
// Graph is not safe for concurrent mutation; callers own synchronization.
type Graph struct {
	// nodeSet provides O(1) membership checks.
	nodeSet map[string]struct{}
	// nodeOrder preserves first-insertion order for deterministic iteration.
	nodeOrder []string
	// out and in map a node to the indices of its incident edges,
	// in ascending (insertion) order.
	out map[string][]int
	in  map[string][]int
	// edges holds every edge in insertion order. Edge indices are stable
	// until PopEdges removes a suffix.
	edges []Edge
}

// New creates an empty directed multigraph.
func New() *Graph {
	return &Graph{
		nodeSet: make(map[string]struct{}),
		out:     make(map[string][]int),
		in:      make(map[string][]int),
	}
}

// AddNode registers a node, returning true if the node was newly created
// and false if it already existed.
func (g *Graph) AddNode(id string) bool {
	if _, exists := g.nodeSet[id]; exists {
		return false
	}
	g.nodeSet[id] = struct{}{}
	g.nodeOrder = append(g.nodeOrder, id)
	return true
}

// HasNode reports whether the node exists in the graph.
func (g *Graph) HasNode(id string) bool {
	_, exists := g.nodeSet[id]
	return exists
}

// AddEdge appends a directed edge, creating endpoint nodes as needed.
// The returned index identifies the edge until a later PopEdges call
// removes it.
func (g *Graph) AddEdge(from, to string, weight float64) int {
	g.AddNode(from)
	g.AddNode(to)

	idx := len(g.edges)
	g.edges = append(g.edges, Edge{From: from, To: to, Weight: weight})
	g.out[from] = append(g.out[from], idx)
	g.in[to] = append(g.in[to], idx)
	return idx
}

// PopEdges removes the k most recently added edges.
// Because incidence lists hold indices in ascending order, each popped
// edge is the last entry of its endpoint lists, so removal is O(k).
// PopEdges is the primitive that makes caller-level rollback exact.
func (g *Graph) PopEdges(k int) {
	for ; k > 0 && len(g.edges) > 0; k-- {
		last := len(g.edges) - 1
		e := g.edges[last]
		g.edges = g.edges[:last]
		g.out[e.From] = g.out[e.From][:len(g.out[e.From])-1]
		g.in[e.To] = g.in[e.To][:len(g.in[e.To])-1]
	}
}

// RemoveNodeIfIsolated deletes a node that has no incident edges,
// returning true on removal. Nodes with incident edges are left alone.
func (g *Graph) RemoveNodeIfIsolated(id string) bool {
	if _, exists := g.nodeSet[id]; !exists {
		return false
	}
	if len(g.out[id]) > 0 || len(g.in[id]) > 0 {
		return false
	}
	delete(g.nodeSet, id)
	delete(g.out, id)
	delete(g.in, id)
	for i, n := range g.nodeOrder {
		if n == id {
			g.nodeOrder = append(g.nodeOrder[:i], g.nodeOrder[i+1:]...)
			break
		}
	}
	return true
}

// Nodes returns the node identifiers in first-insertion order.
// The returned slice is a copy and safe to modify.
func (g *Graph) Nodes() []string {
	out := make([]string, len(g.nodeOrder))
	copy(out, g.nodeOrder)
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodeOrder) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Edges returns every edge in insertion order.
// The returned slice is a copy and safe to modify.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Degree returns the number of edges incident to the node, counting both
// directions. Unknown nodes have degree zero.
func (g *Graph) Degree(id string) int {
	return len(g.out[id]) + len(g.in[id])
}

// WeightSum returns the total weight of all parallel edges from one node
// to another. Missing edges contribute zero.
func (g *Graph) WeightSum(from, to string) float64 {
	var sum float64
	for _, idx := range g.out[from] {
		if e := g.edges[idx]; e.To == to {
			sum += e.Weight
		}
	}
	return sum
}
