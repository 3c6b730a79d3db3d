package graph

import "hrgraph/internal/schema"

// Node is a person, company or external party.
type Node struct {
	ID          string          `json:"id"`
	Label       string          `json:"label"`
	Type        schema.NodeType `json:"type"`
	Company     string          `json:"company,omitempty"`
	Department  string          `json:"department,omitempty"`
	Title       string          `json:"title,omitempty"`
	Birthdate   string          `json:"birthdate,omitempty"`
	LastUpdated string          `json:"last_updated,omitempty"`
}

// Edge is a relationship record between two node ids.
type Edge struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Relation string `json:"relation"`
	Since    string `json:"since,omitempty"`
	Note     string `json:"note,omitempty"`
	Evidence string `json:"evidence,omitempty"`
}

// Weight is the relation importance used for styling, filtering and path cost.
func (e Edge) Weight() int {
	return schema.Weight(e.Relation)
}

// Key identifies the edge for rendering; a node pair may carry several relations.
func (e Edge) Key() string {
	return e.Source + "->" + e.Target + ":" + e.Relation
}

// Touches reports whether id is one of the edge endpoints.
func (e Edge) Touches(id string) bool {
	return e.Source == id || e.Target == id
}

// Other returns the endpoint opposite to id.
func (e Edge) Other(id string) string {
	if e.Source == id {
		return e.Target
	}
	return e.Source
}

// Path is the result of a path search.
type Path struct {
	Nodes []string `json:"path"`
	Edges []Edge   `json:"edges"`
	// Cost is the sum of 1/weight over the traversed edges.
	Cost  float64  `json:"cost"`
}

// Hops returns the number of steps in the path.
func (p *Path) Hops() int {
	if p == nil || len(p.Nodes) == 0 {
		return 0
	}
	return len(p.Nodes) - 1
}
