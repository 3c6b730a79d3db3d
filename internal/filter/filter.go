package filter

import (
	"sort"

	"hrgraph/internal/graph"
	"hrgraph/internal/schema"
)

const (
	// MinVisibleWeight is the lowest weight kept when low-weight edges are hidden.
	MinVisibleWeight = 2

	OpacityVisible  = 1.0
	OpacityFiltered = 0.1
)

// Set is an allow-list. An empty set does not restrict anything.
type Set map[string]bool

// NewSet builds a set from values, skipping blanks.
func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		if v != "" {
			s[v] = true
		}
	}
	return s
}

// Values returns the members sorted.
func (s Set) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (s Set) allows(v string) bool {
	return len(s) == 0 || s[v]
}

// allowsRelation also accepts a relation whose canonical name is listed, so
// "affiliation" admits "소속" and the other way round.
func (s Set) allowsRelation(rel string) bool {
	if s.allows(rel) {
		return true
	}
	c := schema.Canonical(rel)
	for v := range s {
		if schema.Canonical(v) == c {
			return true
		}
	}
	return false
}

// State holds the user's filter choices.
type State struct {
	Companies        Set
	Departments      Set
	Relations        Set
	SensitiveVisible bool
	HideLowWeight    bool
	// EdgeLimit caps the visible edge count; zero or less disables the cap.
	EdgeLimit        int
}

// Visibility is the per-element outcome of Apply.
type Visibility struct {
	Nodes   map[string]bool
	// Edges is aligned with the edge slice given to Apply.
	Edges   []bool
	// Evicted counts edges hidden only by the edge limit.
	Evicted int
}

// NodeVisible reports whether the node passed every filter.
func (v Visibility) NodeVisible(id string) bool {
	return v.Nodes[id]
}

// NodeOpacity returns the opacity instruction for a node.
func (v Visibility) NodeOpacity(id string) float64 {
	if v.Nodes[id] {
		return OpacityVisible
	}
	return OpacityFiltered
}

// EdgeOpacity returns the opacity instruction for the edge at position i.
func (v Visibility) EdgeOpacity(i int) float64 {
	if i >= 0 && i < len(v.Edges) && v.Edges[i] {
		return OpacityVisible
	}
	return OpacityFiltered
}

// VisibleEdges returns the number of edges left visible.
func (v Visibility) VisibleEdges() int {
	n := 0
	for _, ok := range v.Edges {
		if ok {
			n++
		}
	}
	return n
}

// Apply evaluates every node and edge against the state. Edge constraints
// are combined with AND; afterwards, when more edges remain than EdgeLimit,
// the remaining edges are ordered by descending weight (input order on
// ties) and everything past the limit is hidden.
func Apply(nodes []*graph.Node, edges []graph.Edge, st State) Visibility {
	vis := Visibility{
		Nodes: make(map[string]bool, len(nodes)),
		Edges: make([]bool, len(edges)),
	}

	for _, n := range nodes {
		vis.Nodes[n.ID] = st.Companies.allows(n.Company) && st.Departments.allows(n.Department)
	}

	var visible []int
	for i, e := range edges {
		show := st.Relations.allowsRelation(e.Relation)
		if !st.SensitiveVisible && schema.IsSensitive(e.Relation) {
			show = false
		}
		if st.HideLowWeight && e.Weight() < MinVisibleWeight {
			show = false
		}
		vis.Edges[i] = show
		if show {
			visible = append(visible, i)
		}
	}

	if st.EdgeLimit > 0 && len(visible) > st.EdgeLimit {
		sort.SliceStable(visible, func(a, b int) bool {
			return edges[visible[a]].Weight() > edges[visible[b]].Weight()
		})
		for _, i := range visible[st.EdgeLimit:] {
			vis.Edges[i] = false
			vis.Evicted++
		}
	}
	return vis
}

// Options lists the distinct values a user can filter on.
type Options struct {
	Companies   []string `json:"companies"`
	Departments []string `json:"departments"`
	Relations   []string `json:"relations"`
}

// CollectOptions gathers sorted distinct companies, departments and relations.
func CollectOptions(nodes []*graph.Node, edges []graph.Edge) Options {
	companies, departments, relations := NewSet(), NewSet(), NewSet()
	for _, n := range nodes {
		if n.Company != "" {
			companies[n.Company] = true
		}
		if n.Department != "" {
			departments[n.Department] = true
		}
	}
	for _, e := range edges {
		if e.Relation != "" {
			relations[e.Relation] = true
		}
	}
	return Options{
		Companies:   companies.Values(),
		Departments: departments.Values(),
		Relations:   relations.Values(),
	}
}
