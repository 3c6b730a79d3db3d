package graph

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"hrgraph/internal/schema"
)

var mermaidUnsafe = regexp.MustCompile(`[^A-Za-z0-9_]`)

// ExportMermaid writes every node and edge as a Mermaid flowchart. Companies
// are drawn as boxes and people as rounded nodes; sensitive relations use
// dotted links.
func (g *Graph) ExportMermaid(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("graph LR\n")

	ids := mermaidIDs(g.Nodes)
	for _, n := range g.Nodes {
		l, r := "(", ")"
		if !n.Type.IsPerson() {
			l, r = "[", "]"
		}
		fmt.Fprintf(bw, "    %s%s\"%s\"%s\n", ids[n.ID], l, mermaidLabel(n.Label), r)
	}
	for _, e := range g.Edges {
		from, to := ids[e.Source], ids[e.Target]
		if from == "" || to == "" {
			continue
		}
		link := "---"
		if schema.IsSensitive(e.Relation) {
			link = "-.-"
		}
		fmt.Fprintf(bw, "    %s %s|\"%s\"| %s\n", from, link, mermaidLabel(e.Relation), to)
	}
	return bw.Flush()
}

// CompanySize is a company with the number of people working there.
type CompanySize struct {
	Name      string
	Employees int
}

// CompanyLink counts the relations between employees of two companies.
type CompanyLink struct {
	From  string
	To    string
	Count int
}

// CompanyOverview returns the companies ranked by employee count (at most
// limit of them, all when limit <= 0) and the links between them, strongest
// first.
func (g *Graph) CompanyOverview(limit int) ([]CompanySize, []CompanyLink) {
	employees := map[string]int{}
	for _, n := range g.Nodes {
		if name := companyOf(n); name != "" {
			if n.Type.IsPerson() {
				employees[name]++
			} else if _, ok := employees[name]; !ok {
				employees[name] = 0
			}
		}
	}

	companies := make([]CompanySize, 0, len(employees))
	for name, cnt := range employees {
		companies = append(companies, CompanySize{Name: name, Employees: cnt})
	}
	sort.Slice(companies, func(i, j int) bool {
		if companies[i].Employees == companies[j].Employees {
			return companies[i].Name < companies[j].Name
		}
		return companies[i].Employees > companies[j].Employees
	})
	if limit > 0 && len(companies) > limit {
		companies = companies[:limit]
	}
	selected := make(map[string]bool, len(companies))
	for _, c := range companies {
		selected[c.Name] = true
	}

	type pair struct{ from, to string }
	weights := map[pair]int{}
	for _, e := range g.Edges {
		a, b := companyOf(g.Node(e.Source)), companyOf(g.Node(e.Target))
		if a == "" || b == "" || a == b || !selected[a] || !selected[b] {
			continue
		}
		if b < a {
			a, b = b, a
		}
		weights[pair{a, b}]++
	}

	links := make([]CompanyLink, 0, len(weights))
	for p, cnt := range weights {
		links = append(links, CompanyLink{From: p.from, To: p.to, Count: cnt})
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].Count == links[j].Count {
			if links[i].From == links[j].From {
				return links[i].To < links[j].To
			}
			return links[i].From < links[j].From
		}
		return links[i].Count > links[j].Count
	})
	return companies, links
}

// ExportCompanyMermaid writes the company overview as a Mermaid flowchart.
func (g *Graph) ExportCompanyMermaid(w io.Writer, limit int) error {
	companies, links := g.CompanyOverview(limit)

	nodes := make([]*Node, 0, len(companies))
	for _, c := range companies {
		nodes = append(nodes, &Node{ID: c.Name})
	}
	ids := mermaidIDs(nodes)

	bw := bufio.NewWriter(w)
	bw.WriteString("graph LR\n")
	for _, c := range companies {
		fmt.Fprintf(bw, "    %s[\"%s (%d)\"]\n", ids[c.Name], mermaidLabel(c.Name), c.Employees)
	}
	for _, l := range links {
		fmt.Fprintf(bw, "    %s ---|%d| %s\n", ids[l.From], l.Count, ids[l.To])
	}
	return bw.Flush()
}

func companyOf(n *Node) string {
	if n == nil {
		return ""
	}
	if n.Type.IsPerson() {
		return strings.TrimSpace(n.Company)
	}
	return strings.TrimSpace(n.Label)
}

// mermaidIDs maps node ids to unique identifiers Mermaid accepts.
func mermaidIDs(nodes []*Node) map[string]string {
	out := make(map[string]string, len(nodes))
	used := make(map[string]bool, len(nodes))
	for i, n := range nodes {
		if _, ok := out[n.ID]; ok {
			continue
		}
		id := mermaidUnsafe.ReplaceAllString(strings.TrimSpace(n.ID), "_")
		if strings.Trim(id, "_") == "" {
			id = fmt.Sprintf("n%d", i)
		}
		if id[0] >= '0' && id[0] <= '9' {
			id = "n_" + id
		}
		base := id
		for k := 2; used[id]; k++ {
			id = fmt.Sprintf("%s_%d", base, k)
		}
		used[id] = true
		out[n.ID] = id
	}
	return out
}

func mermaidLabel(s string) string {
	s = strings.ReplaceAll(s, `"`, "#quot;")
	return strings.ReplaceAll(s, "\n", " ")
}
