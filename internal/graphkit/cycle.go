package graphkit

// Node coloring for depth-first cycle search.
// White (0): unvisited, gray (1): on the current path, black (2): done.
const (
	colorWhite = iota
	colorGray
	colorBlack
)

// FindCycleFrom searches for a directed cycle reachable from source,
// considering only edges accepted by keep. It returns the cycle as an
// ordered node sequence n0, n1, ..., nk where each ni has a kept edge to
// n(i+1) and nk has a kept edge back to n0, or nil when no cycle is
// reachable. An unknown source yields nil.
func (g *Graph) FindCycleFrom(source string, keep EdgeFilter) []string {
	if !g.HasNode(source) {
		return nil
	}
	return g.findCycle([]string{source}, keep)
}

// FindCycle searches the entire edge-induced subgraph for a directed
// cycle, visiting roots in node insertion order so the discovered cycle
// is deterministic for a given mutation history. It returns the same
// ordered node sequence shape as FindCycleFrom, or nil when acyclic.
func (g *Graph) FindCycle(keep EdgeFilter) []string {
	return g.findCycle(g.nodeOrder, keep)
}

// findCycle runs depth-first search with three-color marking from each
// root in turn, tracking the current path so a back edge can be expanded
// into the full offending cycle.
func (g *Graph) findCycle(roots []string, keep EdgeFilter) []string {
	colors := make(map[string]int, len(g.nodeOrder))
	var path []string
	var cycle []string

	var dfs func(node string) bool
	dfs = func(node string) bool {
		colors[node] = colorGray
		path = append(path, node)

		for _, idx := range g.out[node] {
			e := g.edges[idx]
			if keep != nil && !keep(e) {
				continue
			}
			switch colors[e.To] {
			case colorGray:
				// Back edge: the cycle is the path suffix starting at e.To.
				for i := len(path) - 1; i >= 0; i-- {
					if path[i] == e.To {
						cycle = append([]string(nil), path[i:]...)
						break
					}
				}
				return true
			case colorWhite:
				if dfs(e.To) {
					return true
				}
			}
		}

		path = path[:len(path)-1]
		colors[node] = colorBlack
		return false
	}

	for _, root := range roots {
		if colors[root] == colorWhite && dfs(root) {
			return cycle
		}
	}
	return nil
}
