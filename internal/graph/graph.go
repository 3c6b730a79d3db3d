package graph

// Graph holds nodes in insertion order and the edges between them.
type Graph struct {
	Nodes []*Node
	Edges []Edge

	// Index for faster lookup: ID -> position in Nodes
	index map[string]int
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes: []*Node{},
		Edges: []Edge{},
		index: make(map[string]int),
	}
}

// Build creates a graph from node and edge slices. On duplicate ids the
// first node seen is kept.
func Build(nodes []Node, edges []Edge) *Graph {
	g := NewGraph()
	for i := range nodes {
		n := nodes[i]
		g.AddNode(&n)
	}
	g.Edges = append(g.Edges, edges...)
	return g
}

// AddNode appends a node unless its id is already present.
func (g *Graph) AddNode(n *Node) bool {
	if n == nil {
		return false
	}
	if _, exists := g.index[n.ID]; exists {
		return false
	}
	g.index[n.ID] = len(g.Nodes)
	g.Nodes = append(g.Nodes, n)
	return true
}

// AddEdge appends an edge when both endpoints are known.
func (g *Graph) AddEdge(e Edge) bool {
	if !g.Has(e.Source) || !g.Has(e.Target) {
		return false
	}
	g.Edges = append(g.Edges, e)
	return true
}

// RebuildIndices recomputes lookup tables after Nodes was replaced directly.
func (g *Graph) RebuildIndices() {
	g.index = make(map[string]int, len(g.Nodes))
	for i, n := range g.Nodes {
		if _, exists := g.index[n.ID]; !exists {
			g.index[n.ID] = i
		}
	}
}

// Has reports whether a node with id exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Node returns the node with id, or nil.
func (g *Graph) Node(id string) *Node {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	return g.Nodes[i]
}

// IDs returns the set of known node ids.
func (g *Graph) IDs() map[string]bool {
	ids := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[n.ID] = true
	}
	return ids
}

// EdgesOf returns every edge touching id, in edge order.
func (g *Graph) EdgesOf(id string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Touches(id) {
			out = append(out, e)
		}
	}
	return out
}

// EdgesBetween returns the edges joining a and b in either direction.
func (g *Graph) EdgesBetween(a, b string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if (e.Source == a && e.Target == b) || (e.Source == b && e.Target == a) {
			out = append(out, e)
		}
	}
	return out
}

// Neighbors returns the distinct nodes adjacent to id in the undirected
// view, ordered by first connecting edge.
func (g *Graph) Neighbors(id string) []*Node {
	seen := make(map[string]bool)
	var out []*Node
	for _, e := range g.Edges {
		if !e.Touches(id) {
			continue
		}
		other := e.Other(id)
		if other == id || seen[other] {
			continue
		}
		seen[other] = true
		if n := g.Node(other); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// adjacency builds the undirected neighbour lists used by traversals.
func (g *Graph) adjacency() map[string][]edgeHop {
	adj := make(map[string][]edgeHop)
	for _, e := range g.Edges {
		adj[e.Source] = append(adj[e.Source], edgeHop{to: e.Target, edge: e})
		adj[e.Target] = append(adj[e.Target], edgeHop{to: e.Source, edge: e})
	}
	return adj
}

type edgeHop struct {
	to   string
	edge Edge
}
