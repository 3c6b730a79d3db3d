package search

import (
	"errors"
	"strings"

	"hrgraph/internal/graph"
	"hrgraph/internal/schema"
)

var (
	ErrNodeNotFound    = errors.New("node not found")
	ErrCompanyNotFound = errors.New("no company matches the query")
	ErrNoPath          = errors.New("no path between the nodes")
)

// Search classifies query against node labels and builds the matching view.
// Only company matches focus the first company, only person matches focus
// the first person, both kinds produce a candidate list.
func Search(g *graph.Graph, query string) View {
	query = strings.TrimSpace(query)
	if query == "" || g == nil {
		return View{Mode: ModeCleared}
	}

	var companies, persons []*graph.Node
	for _, n := range g.Nodes {
		if !Matches(n.Label, query) {
			continue
		}
		switch {
		case n.Type == schema.NodeCompany:
			companies = append(companies, n)
		case n.Type.IsPerson():
			persons = append(persons, n)
		}
	}

	switch {
	case len(companies) > 0 && len(persons) == 0:
		return companyView(g, companies[0], query)
	case len(persons) > 0 && len(companies) == 0:
		return personView(g, persons[0], query)
	case len(companies) > 0 || len(persons) > 0:
		return View{Mode: ModeCandidates, Query: query, Companies: companies, Persons: persons}
	default:
		return View{Mode: ModeNoResult, Query: query}
	}
}

// Select focuses a single node, typically one picked from a candidate list.
// Persons get the person view, every other type the company view.
func Select(g *graph.Graph, id, query string) (View, error) {
	n := g.Node(id)
	if n == nil {
		return View{}, ErrNodeNotFound
	}
	if n.Type.IsPerson() {
		return personView(g, n, query), nil
	}
	return companyView(g, n, query), nil
}

func companyView(g *graph.Graph, company *graph.Node, query string) View {
	depth := g.HopDistances(company.ID, 2)

	h := newHighlight(OpacityDimmed)
	for id, d := range depth {
		if d <= 1 {
			h.setNode(id, OpacityFocus)
		} else {
			h.setNode(id, OpacitySecond)
		}
	}
	for i, e := range g.Edges {
		if e.Touches(company.ID) {
			h.setEdge(i, OpacityFocus)
		}
	}
	// edges leaving the first ring reach at most the second one
	for i, e := range g.Edges {
		if depth[e.Source] == 1 || depth[e.Target] == 1 {
			h.setEdge(i, OpacitySecond)
		}
	}

	stats := &CompanyStats{}
	for _, n := range g.Neighbors(company.ID) {
		if !n.Type.IsPerson() || !hasRelation(g.EdgesBetween(n.ID, company.ID), schema.RelationAffiliation) {
			continue
		}
		stats.Employees = append(stats.Employees, n)
		if hasRelation(g.EdgesOf(n.ID), schema.RelationSpouse) {
			stats.SpouseLinked = append(stats.SpouseLinked, n.Label)
		}
		stats.Departments = countInto(stats.Departments, orUnassigned(n.Department))
		stats.Titles = countInto(stats.Titles, orUnassigned(n.Title))
	}

	return View{Mode: ModeCompany, Query: query, Focus: company, Company: stats, Highlight: h}
}

func personView(g *graph.Graph, person *graph.Node, query string) View {
	h := newHighlight(OpacityDimmed)
	h.setNode(person.ID, OpacityFocus)

	details := &PersonDetails{
		Company:    person.Company,
		Department: person.Department,
		Title:      person.Title,
	}
	seen := make(map[string]bool)
	for _, n := range g.Neighbors(person.ID) {
		h.setNode(n.ID, OpacityFocus)

		// only the first recorded edge of the pair decides the relation
		first := g.EdgesBetween(person.ID, n.ID)[0]
		if !schema.Is(first.Relation, schema.RelationSpouse) && !schema.Is(first.Relation, schema.RelationKinship) {
			continue
		}
		if n.Company != "" && !seen[n.Company] {
			seen[n.Company] = true
			details.RelativeCompanies = append(details.RelativeCompanies, n.Company)
		}
	}
	for i, e := range g.Edges {
		if e.Touches(person.ID) {
			h.setEdge(i, OpacityFocus)
		}
	}

	return View{Mode: ModePerson, Query: query, Focus: person, Person: details, Highlight: h}
}

// SpouseResult lists the companies reachable through a person's spouses.
type SpouseResult struct {
	Spouses   []*graph.Node `json:"spouses"`
	Companies []string      `json:"companies"`
	Highlight *Highlight    `json:"highlight"`
}

// SpouseCompanies collects the company attribute of every spouse neighbour
// plus the labels of company nodes adjacent to those spouses.
func SpouseCompanies(g *graph.Graph, personID string) (*SpouseResult, error) {
	if !g.Has(personID) {
		return nil, ErrNodeNotFound
	}

	res := &SpouseResult{Highlight: newHighlight(OpacityDimmed)}
	res.Highlight.setNode(personID, OpacityFocus)
	seen := make(map[string]bool)
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			res.Companies = append(res.Companies, name)
		}
	}

	for _, n := range g.Neighbors(personID) {
		first := g.EdgesBetween(personID, n.ID)[0]
		if !schema.Is(first.Relation, schema.RelationSpouse) {
			continue
		}
		res.Spouses = append(res.Spouses, n)
		res.Highlight.setNode(n.ID, OpacityFocus)
		add(n.Company)

		for _, c := range g.Neighbors(n.ID) {
			if c.Type != schema.NodeCompany {
				continue
			}
			add(c.Label)
			res.Highlight.setNode(c.ID, OpacityFocus)
		}
	}
	return res, nil
}

// PathResult is a highlighted path from a person to a company.
type PathResult struct {
	Company   *graph.Node `json:"company"`
	Path      *graph.Path `json:"path"`
	Highlight *Highlight  `json:"highlight"`
}

// PathToCompany finds the first company whose label matches companyQuery and
// searches a path to it. Weighted selects the minimum 1/weight search over
// the breadth-first default.
func PathToCompany(g *graph.Graph, sourceID, companyQuery string, weighted bool) (*PathResult, error) {
	if !g.Has(sourceID) {
		return nil, ErrNodeNotFound
	}
	companyQuery = strings.TrimSpace(companyQuery)

	var target *graph.Node
	for _, n := range g.Nodes {
		if n.Type == schema.NodeCompany && Matches(n.Label, companyQuery) {
			target = n
			break
		}
	}
	if target == nil {
		return nil, ErrCompanyNotFound
	}

	var p *graph.Path
	if weighted {
		p = g.FindWeightedPath(sourceID, target.ID)
	} else {
		p = g.FindPath(sourceID, target.ID)
	}
	if p == nil {
		return nil, ErrNoPath
	}

	return &PathResult{Company: target, Path: p, Highlight: PathHighlight(g, p)}, nil
}

// PathHighlight dims everything except the nodes and edges of p.
func PathHighlight(g *graph.Graph, p *graph.Path) *Highlight {
	h := newHighlight(OpacityDimmed)
	for _, id := range p.Nodes {
		h.setNode(id, OpacityFocus)
	}
	for _, e := range p.Edges {
		if i := g.EdgeIndex(e); i >= 0 {
			h.setEdge(i, OpacityFocus)
		}
	}
	return h
}

func hasRelation(edges []graph.Edge, r schema.Relation) bool {
	for _, e := range edges {
		if schema.Is(e.Relation, r) {
			return true
		}
	}
	return false
}

func orUnassigned(s string) string {
	if s == "" {
		return UnassignedLabel
	}
	return s
}
