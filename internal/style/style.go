package style

import (
	"math"

	"hrgraph/internal/graph"
	"hrgraph/internal/schema"
	"hrgraph/internal/settings"
)

const (
	FallbackColor   = "#95a5a6"
	FallbackOpacity = 0.6
	FallbackWidth   = 2

	borderColor         = "#fff"
	selectedBorderColor = "#f39c12"

	// labels are dropped below this zoom level when label LOD is auto
	lodZoomThreshold = 0.5
)

var typeColors = map[schema.NodeType][2]string{
	schema.NodePerson:          {"#3498db", "#4a90e2"},
	schema.NodeCompany:         {"#e74c3c", "#e67e22"},
	schema.NodeExternalPerson:  {"#2ecc71", "#27ae60"},
	schema.NodeExternalCompany: {"#9b59b6", "#9b59b6"},
}

// Context carries the graph-wide inputs of a style computation.
type Context struct {
	Settings         settings.Blob
	Centrality       map[string]int
	MaxCentrality    int
	DepartmentColors map[string]string
	// Zoom is the viewer zoom level; zero means unzoomed.
	Zoom             float64
}

// NewContext derives centrality and department colours from g.
func NewContext(g *graph.Graph, b settings.Blob) Context {
	c := g.Centrality()
	return Context{
		Settings:         b,
		Centrality:       c,
		MaxCentrality:    graph.MaxCentrality(c),
		DepartmentColors: g.DepartmentColors(),
		Zoom:             1,
	}
}

// Element is one node or one edge to style.
type Element struct {
	Node     *graph.Node
	Edge     *graph.Edge
	Selected bool
}

// Attributes are the presentation values for a single element.
type Attributes struct {
	Width       float64 `json:"width"`
	Height      float64 `json:"height,omitempty"`
	BorderWidth float64 `json:"borderWidth,omitempty"`
	BorderColor string  `json:"borderColor,omitempty"`
	Color       string  `json:"color"`
	LineStyle   string  `json:"lineStyle,omitempty"`
	CurveStyle  string  `json:"curveStyle,omitempty"`
	Opacity     float64 `json:"opacity"`
	Label       string  `json:"label"`
	FontSize    int     `json:"fontSize,omitempty"`
	Shadow      bool    `json:"shadow,omitempty"`
	Glow        bool    `json:"glow,omitempty"`
	Blur        bool    `json:"blur,omitempty"`
}

// Compute styles a node or an edge. It reads nothing but its arguments.
func Compute(el Element, ctx Context) Attributes {
	if el.Edge != nil {
		return edgeAttributes(*el.Edge, el.Selected, ctx)
	}
	if el.Node != nil {
		return nodeAttributes(el.Node, el.Selected, ctx)
	}
	return Attributes{}
}

func nodeAttributes(n *graph.Node, selected bool, ctx Context) Attributes {
	s := ctx.Settings
	a := Attributes{
		Color:       nodeColor(n, ctx),
		BorderColor: borderColor,
		Opacity:     1,
		Label:       n.Label,
		FontSize:    s.GlobalVisualSettings.NodeLabelSize,
		Shadow:      s.GlobalVisualSettings.NodeShadow,
	}

	if s.Settings.CentralityBasedSize {
		peak := ctx.MaxCentrality
		if peak == 0 {
			peak = 1
		}
		ratio := float64(ctx.Centrality[n.ID]) / float64(peak)
		size := 30 + ratio*50
		a.Width = clamp(size, 30, 80)
		a.BorderWidth = clamp(2+ratio*3, 2, 5)
		if selected {
			a.Width = clamp(size+10, 40, 90)
		}
	} else {
		a.Width = 30
		a.BorderWidth = 2
		if selected {
			a.Width = 40
		}
	}
	a.Height = a.Width

	if selected {
		a.BorderWidth = 4
		a.BorderColor = selectedBorderColor
		a.Glow = s.GlobalVisualSettings.HighlightGlow
	}

	if s.Settings.LabelLOD == settings.LabelLODAuto && ctx.Zoom > 0 && ctx.Zoom < lodZoomThreshold {
		a.Label = ""
	}
	return a
}

func nodeColor(n *graph.Node, ctx Context) string {
	s := ctx.Settings.Settings
	if s.DepartmentColors && n.Department != "" {
		if c, ok := ctx.DepartmentColors[n.Department]; ok {
			return c
		}
		return graph.UnknownDepartmentColor
	}
	pair, ok := typeColors[n.Type]
	if !ok {
		return FallbackColor
	}
	if s.ColorBlindMode {
		return pair[1]
	}
	return pair[0]
}

func edgeAttributes(e graph.Edge, selected bool, ctx Context) Attributes {
	s := ctx.Settings
	vs, ok := s.VisualFor(e.Relation)

	base := float64(FallbackWidth)
	if ok {
		base = float64(vs.LineWidth)
	}
	if s.Settings.AutoScaleEdgeThickness {
		scale := 1 + float64(e.Weight())*0.3
		base = math.Min(base*scale, base*3)
	}

	a := Attributes{
		Width:      roundHalfUp(base),
		Color:      FallbackColor,
		LineStyle:  "solid",
		CurveStyle: s.GlobalVisualSettings.EdgeCurveStyle,
		Opacity:    FallbackOpacity,
		Label:      edgeLabel(e, vs, ok, s.GlobalVisualSettings),
	}
	if a.CurveStyle == "" {
		a.CurveStyle = "bezier"
	}
	if ok {
		if vs.LineStyle != "" {
			a.LineStyle = vs.LineStyle
		}
		if vs.Color != "" {
			a.Color = vs.Color
		}
		a.Opacity = float64(vs.Opacity) / 100
		a.Blur = vs.Blur
	}

	if selected {
		a.Opacity = 1
		a.Width = 4
		if ok {
			a.Width = math.Max(float64(vs.LineWidth+2), 4)
		}
	}
	return a
}

func edgeLabel(e graph.Edge, vs settings.VisualSetting, ok bool, g settings.Global) string {
	if !g.ShowEdgeLabel {
		return ""
	}
	icon := ""
	if ok && vs.ShowIcon && vs.Icon != "" {
		icon = vs.Icon
	}
	if g.HideCommonRelationLabels && isCommon(e.Relation) {
		return icon
	}
	if icon != "" {
		return icon
	}
	return e.Relation
}

func isCommon(relation string) bool {
	return schema.Is(relation, schema.RelationColleague) || schema.Is(relation, schema.RelationProject)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
