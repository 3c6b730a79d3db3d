package graph

import "container/heap"

type queueItem struct {
	id   string
	path []string
}

// FindPath searches the undirected view breadth-first from source to target.
// Each traversed edge contributes 1/weight to the reported cost, but the
// path itself is the first one reached in BFS order, so the hop count is
// minimal while the cost is not necessarily. Returns nil when either node is
// unknown or target is unreachable.
func (g *Graph) FindPath(sourceID, targetID string) *Path {
	if !g.Has(sourceID) || !g.Has(targetID) {
		return nil
	}
	if sourceID == targetID {
		return &Path{Nodes: []string{sourceID}}
	}

	adj := g.adjacency()
	visited := map[string]bool{sourceID: true}
	queue := []queueItem{{id: sourceID, path: []string{sourceID}}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, next := range adj[cur.id] {
			if visited[next.to] {
				continue
			}
			visited[next.to] = true

			path := append(append([]string(nil), cur.path...), next.to)
			if next.to == targetID {
				// the first edge recorded for a pair decides its cost
				return g.newPath(path, g.firstEdge)
			}
			queue = append(queue, queueItem{id: next.to, path: path})
		}
	}
	return nil
}

// FindWeightedPath returns the path minimising the sum of 1/weight, so
// strong relations are preferred over short chains of weak ones. Ties are
// broken by hop count, then by discovery order.
func (g *Graph) FindWeightedPath(sourceID, targetID string) *Path {
	if !g.Has(sourceID) || !g.Has(targetID) {
		return nil
	}
	if sourceID == targetID {
		return &Path{Nodes: []string{sourceID}}
	}

	adj := g.adjacency()
	best := map[string]float64{sourceID: 0}
	done := make(map[string]bool)

	pq := &pathQueue{}
	heap.Push(pq, &pathEntry{id: sourceID, path: []string{sourceID}})
	seq := 1

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(*pathEntry)
		if done[cur.id] {
			continue
		}
		done[cur.id] = true
		if cur.id == targetID {
			return g.newPath(cur.path, g.strongestEdge)
		}

		for _, next := range adj[cur.id] {
			if done[next.to] {
				continue
			}
			cost := cur.cost + 1/float64(next.edge.Weight())
			if prev, seen := best[next.to]; seen && cost > prev {
				continue
			}
			best[next.to] = cost
			heap.Push(pq, &pathEntry{
				id:   next.to,
				path: append(append([]string(nil), cur.path...), next.to),
				cost: cost,
				seq:  seq,
			})
			seq++
		}
	}
	return nil
}

// newPath resolves the connecting edges of a node sequence with pick and
// sums their costs.
func (g *Graph) newPath(nodes []string, pick func(a, b string) (Edge, bool)) *Path {
	p := &Path{Nodes: nodes}
	for i := 0; i+1 < len(nodes); i++ {
		e, ok := pick(nodes[i], nodes[i+1])
		if !ok {
			continue
		}
		p.Edges = append(p.Edges, e)
		p.Cost += 1 / float64(e.Weight())
	}
	return p
}

func (g *Graph) firstEdge(a, b string) (Edge, bool) {
	for _, e := range g.Edges {
		if (e.Source == a && e.Target == b) || (e.Source == b && e.Target == a) {
			return e, true
		}
	}
	return Edge{}, false
}

func (g *Graph) strongestEdge(a, b string) (Edge, bool) {
	var best Edge
	found := false
	for _, e := range g.EdgesBetween(a, b) {
		if !found || e.Weight() > best.Weight() {
			best = e
			found = true
		}
	}
	return best, found
}

type pathEntry struct {
	id   string
	path []string
	cost float64
	seq  int
}

type pathQueue []*pathEntry

func (q pathQueue) Len() int { return len(q) }

func (q pathQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	if len(q[i].path) != len(q[j].path) {
		return len(q[i].path) < len(q[j].path)
	}
	return q[i].seq < q[j].seq
}

func (q pathQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *pathQueue) Push(x any) { *q = append(*q, x.(*pathEntry)) }

func (q *pathQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}
