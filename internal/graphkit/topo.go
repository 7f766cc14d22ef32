package graphkit

import "errors"

// ErrCyclic is returned by TopologicalOrder when the selected subgraph
// contains a directed cycle and therefore admits no topological order.
var ErrCyclic = errors.New("graph contains a cycle")

// TopologicalOrder computes a topological ordering of the subgraph induced
// by the kept edges, using Kahn's algorithm. Only nodes incident to at
// least one kept edge participate; fully isolated nodes are excluded.
//
// The ordering is deterministic: the initial queue is seeded in node
// insertion order and successors are released in edge insertion order.
// Ties among incomparable nodes are broken by that discovery order.
func (g *Graph) TopologicalOrder(keep EdgeFilter) ([]string, error) {
	inDegree := make(map[string]int)
	member := make(map[string]struct{})
	for _, e := range g.edges {
		if keep != nil && !keep(e) {
			continue
		}
		member[e.From] = struct{}{}
		member[e.To] = struct{}{}
		inDegree[e.To]++
	}

	queue := make([]string, 0, len(member))
	for _, id := range g.nodeOrder {
		if _, ok := member[id]; ok && inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	order := make([]string, 0, len(member))
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		for _, idx := range g.out[node] {
			e := g.edges[idx]
			if keep != nil && !keep(e) {
				continue
			}
			inDegree[e.To]--
			if inDegree[e.To] == 0 {
				queue = append(queue, e.To)
			}
		}
	}

	if len(order) != len(member) {
		return nil, ErrCyclic
	}
	return order, nil
}

// Descendants returns every node transitively reachable from source via
// kept edges, excluding source itself, in breadth-first discovery order.
// An unknown source yields nil.
func (g *Graph) Descendants(source string, keep EdgeFilter) []string {
	if !g.HasNode(source) {
		return nil
	}

	visited := map[string]struct{}{source: {}}
	var found []string
	queue := []string{source}

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for _, idx := range g.out[node] {
			e := g.edges[idx]
			if keep != nil && !keep(e) {
				continue
			}
			if _, seen := visited[e.To]; seen {
				continue
			}
			visited[e.To] = struct{}{}
			found = append(found, e.To)
			queue = append(queue, e.To)
		}
	}
	return found
}
