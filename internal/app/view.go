package app

import (
	"go.uber.org/zap"

	"hrgraph/internal/filter"
	"hrgraph/internal/graph"
	"hrgraph/internal/search"
	"hrgraph/internal/style"
)

// Scene is everything a renderer needs to draw the current state.
type Scene struct {
	Nodes        []SceneNode `json:"nodes"`
	Edges        []SceneEdge `json:"edges"`
	View         search.View `json:"view"`
	VisibleEdges int         `json:"visibleEdges"`
	Evicted      int         `json:"evicted"`
}

// SceneNode is a node with its computed style.
type SceneNode struct {
	Data    *graph.Node      `json:"data"`
	Style   style.Attributes `json:"style"`
	Visible bool             `json:"visible"`
}

// SceneEdge is an edge with its computed style.
type SceneEdge struct {
	Data    graph.Edge       `json:"data"`
	Style   style.Attributes `json:"style"`
	Visible bool             `json:"visible"`
}

// Search runs a query and makes its result the current view.
func (s *State) Search(query string) search.View {
	v := search.Search(s.graph, query)
	s.setView(v)
	s.log.Debug("search", zap.String("query", query), zap.String("mode", string(v.Mode)))
	return v
}

// Select focuses a node, keeping the current query.
func (s *State) Select(id string) (search.View, error) {
	v, err := search.Select(s.graph, id, s.view.Query)
	if err != nil {
		return search.View{}, err
	}
	s.setView(v)
	return v, nil
}

// ClearSearch drops the current view and any highlight.
func (s *State) ClearSearch() {
	s.view = search.View{Mode: search.ModeCleared}
	s.highlight = nil
	s.selected = ""
}

// View returns the current search view.
func (s *State) View() search.View {
	return s.view
}

// FindPath searches a path between two nodes and highlights it.
func (s *State) FindPath(sourceID, targetID string, weighted bool) (*graph.Path, error) {
	if !s.graph.Has(sourceID) || !s.graph.Has(targetID) {
		return nil, search.ErrNodeNotFound
	}
	var p *graph.Path
	if weighted {
		p = s.graph.FindWeightedPath(sourceID, targetID)
	} else {
		p = s.graph.FindPath(sourceID, targetID)
	}
	if p == nil {
		return nil, search.ErrNoPath
	}
	s.highlight = search.PathHighlight(s.graph, p)
	s.selected = sourceID
	return p, nil
}

// PathToCompany searches a path from a node to the first company matching
// companyQuery and highlights it.
func (s *State) PathToCompany(sourceID, companyQuery string, weighted bool) (*search.PathResult, error) {
	res, err := search.PathToCompany(s.graph, sourceID, companyQuery, weighted)
	if err != nil {
		return nil, err
	}
	s.highlight = res.Highlight
	s.selected = sourceID
	return res, nil
}

// SpouseCompanies lists and highlights the companies linked through spouses.
func (s *State) SpouseCompanies(personID string) (*search.SpouseResult, error) {
	res, err := search.SpouseCompanies(s.graph, personID)
	if err != nil {
		return nil, err
	}
	s.highlight = res.Highlight
	s.selected = personID
	return res, nil
}

// Visibility evaluates the current filters.
func (s *State) Visibility() filter.Visibility {
	vis := filter.Apply(s.graph.Nodes, s.graph.Edges, s.settings.FilterState())
	if vis.Evicted > 0 {
		s.log.Debug("edge limit reached", zap.Int("evicted", vis.Evicted), zap.Int("limit", s.settings.Settings.EdgeLimit))
	}
	return vis
}

// Scene styles every element at the given zoom. Filtered elements take the
// filtered opacity; otherwise an active highlight decides the opacity.
func (s *State) Scene(zoom float64) Scene {
	ctx := s.StyleContext(zoom)
	vis := s.Visibility()

	sc := Scene{
		Nodes:        make([]SceneNode, 0, len(s.graph.Nodes)),
		Edges:        make([]SceneEdge, 0, len(s.graph.Edges)),
		View:         s.view,
		VisibleEdges: vis.VisibleEdges(),
		Evicted:      vis.Evicted,
	}

	for _, n := range s.graph.Nodes {
		a := style.Compute(style.Element{Node: n, Selected: n.ID == s.selected}, ctx)
		visible := vis.NodeVisible(n.ID)
		switch {
		case !visible:
			a.Opacity = filter.OpacityFiltered
		case s.highlight != nil:
			a.Opacity = s.highlight.Node(n.ID)
		}
		sc.Nodes = append(sc.Nodes, SceneNode{Data: n, Style: a, Visible: visible})
	}

	for i := range s.graph.Edges {
		e := s.graph.Edges[i]
		a := style.Compute(style.Element{Edge: &e, Selected: s.selected != "" && e.Touches(s.selected)}, ctx)
		visible := vis.Edges[i]
		switch {
		case !visible:
			a.Opacity = filter.OpacityFiltered
		case s.highlight != nil:
			a.Opacity = s.highlight.Edge(i)
		}
		sc.Edges = append(sc.Edges, SceneEdge{Data: e, Style: a, Visible: visible})
	}
	return sc
}

func (s *State) setView(v search.View) {
	s.view = v
	s.highlight = v.Highlight
	s.selected = ""
	if v.Focus != nil {
		s.selected = v.Focus.ID
	}
}
