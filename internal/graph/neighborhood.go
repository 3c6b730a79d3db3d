package graph

// HopDistances walks the undirected view breadth-first from id and returns
// the hop count of every node reached within maxHops, id included at 0.
func (g *Graph) HopDistances(id string, maxHops int) map[string]int {
	if !g.Has(id) {
		return map[string]int{}
	}
	if maxHops < 0 {
		maxHops = 0
	}

	adj := g.adjacency()
	visitedDepth := map[string]int{id: 0}
	queue := []hopItem{{id: id, depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.depth >= maxHops {
			continue
		}
		for _, next := range adj[cur.id] {
			nextDepth := cur.depth + 1
			prevDepth, seen := visitedDepth[next.to]
			if !seen || nextDepth < prevDepth {
				visitedDepth[next.to] = nextDepth
				queue = append(queue, hopItem{id: next.to, depth: nextDepth})
			}
		}
	}
	return visitedDepth
}

// EdgeIndex returns the position of the first edge equal to e, or -1.
func (g *Graph) EdgeIndex(e Edge) int {
	for i := range g.Edges {
		if g.Edges[i] == e {
			return i
		}
	}
	return -1
}

type hopItem struct {
	id    string
	depth int
}
