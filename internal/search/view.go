package search

import "hrgraph/internal/graph"

// Mode is the kind of view a query resolved to.
type Mode string

const (
	ModeCleared    Mode = "cleared"
	ModeCompany    Mode = "company"
	ModePerson     Mode = "person"
	ModeCandidates Mode = "candidates"
	ModeNoResult   Mode = "no_result"
)

// UnassignedLabel groups employees without a department or title.
const UnassignedLabel = "미지정"

// Opacity levels used by search highlights.
const (
	OpacityFocus     = 1.0
	OpacitySecond    = 0.7
	OpacityDimmed    = 0.1
	OpacityUnchanged = 1.0
)

// View is the outcome of a search or selection.
type View struct {
	Mode  Mode        `json:"mode"`
	Query string      `json:"query,omitempty"`
	Focus *graph.Node `json:"focus,omitempty"`

	// Candidate matches in node order.
	Companies []*graph.Node `json:"companies,omitempty"`
	Persons   []*graph.Node `json:"persons,omitempty"`

	Company *CompanyStats  `json:"company,omitempty"`
	Person  *PersonDetails `json:"person,omitempty"`

	Highlight *Highlight `json:"highlight,omitempty"`
}

// CompanyStats summarises the employees of a focused company.
type CompanyStats struct {
	Employees    []*graph.Node `json:"employees"`
	SpouseLinked []string      `json:"spouse_linked,omitempty"`
	Departments  []Count       `json:"departments"`
	Titles       []Count       `json:"titles"`
}

// Count is one bucket of a distribution, kept in first-seen order.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// PersonDetails describes a focused person.
type PersonDetails struct {
	Company    string `json:"company,omitempty"`
	Department string `json:"department,omitempty"`
	Title      string `json:"title,omitempty"`

	// RelativeCompanies lists companies of spouse or kinship neighbours.
	RelativeCompanies []string `json:"relative_companies,omitempty"`
}

// Highlight is a per-element opacity instruction. Elements not listed take
// Base.
type Highlight struct {
	Base  float64            `json:"base"`
	Nodes map[string]float64 `json:"nodes"`
	// Edges is keyed by position in Graph.Edges.
	Edges map[int]float64    `json:"edges"`
}

func newHighlight(base float64) *Highlight {
	return &Highlight{Base: base, Nodes: make(map[string]float64), Edges: make(map[int]float64)}
}

// Node returns the opacity for a node id. A nil highlight leaves every
// element unchanged.
func (h *Highlight) Node(id string) float64 {
	if h == nil {
		return OpacityUnchanged
	}
	if v, ok := h.Nodes[id]; ok {
		return v
	}
	return h.Base
}

// Edge returns the opacity for the edge at position i.
func (h *Highlight) Edge(i int) float64 {
	if h == nil {
		return OpacityUnchanged
	}
	if v, ok := h.Edges[i]; ok {
		return v
	}
	return h.Base
}

func (h *Highlight) setNode(id string, v float64) {
	if _, ok := h.Nodes[id]; !ok {
		h.Nodes[id] = v
	}
}

func (h *Highlight) setEdge(i int, v float64) {
	if _, ok := h.Edges[i]; !ok {
		h.Edges[i] = v
	}
}

func countInto(counts []Count, name string) []Count {
	for i := range counts {
		if counts[i].Name == name {
			counts[i].Count++
			return counts
		}
	}
	return append(counts, Count{Name: name, Count: 1})
}
