package settings

import (
	"hrgraph/internal/filter"
	"hrgraph/internal/schema"
)

// DefaultEdgeLimit is the visible edge cap applied to fresh and reset settings.
const DefaultEdgeLimit = 10000

// LabelLODAuto hides node labels when zoomed far out.
const LabelLODAuto = "auto"

// Blob is the persisted settings document.
type Blob struct {
	Filters              Filters                  `json:"filters"`
	Settings             Display                  `json:"settings"`
	VisualSettings       map[string]VisualSetting `json:"visualSettings"`
	GlobalVisualSettings Global                   `json:"globalVisualSettings"`
}

// Filters mirrors the filter allow-sets.
type Filters struct {
	Companies          []string `json:"companies"`
	Departments        []string `json:"departments"`
	Relations          []string `json:"relations"`
	SensitiveRelations bool     `json:"sensitiveRelations"`
}

// Display holds the view toggles.
type Display struct {
	HideLowWeightEdges     bool   `json:"hideLowWeightEdges"`
	EdgeLimit              int    `json:"edgeLimit"`
	LabelLOD               string `json:"labelLOD"`
	ColorBlindMode         bool   `json:"colorBlindMode"`
	CentralityBasedSize    bool   `json:"centralityBasedSize"`
	DepartmentColors       bool   `json:"departmentColors"`
	AutoScaleEdgeThickness bool   `json:"autoScaleEdgeThickness"`
	DeveloperMode          bool   `json:"developerMode"`
}

// VisualSetting styles the edges of one relation. Opacity is a percentage.
type VisualSetting struct {
	LineStyle string `json:"lineStyle"`
	LineWidth int    `json:"lineWidth"`
	Color     string `json:"color"`
	Icon      string `json:"icon"`
	ShowIcon  bool   `json:"showIcon"`
	Opacity   int    `json:"opacity"`
	Blur      bool   `json:"blur"`
	Animation bool   `json:"animation"`
}

// Global holds effects that apply to the whole graph.
type Global struct {
	NodeShadow               bool    `json:"nodeShadow"`
	EdgeCurveStyle           string  `json:"edgeCurveStyle"`
	HighlightGlow            bool    `json:"highlightGlow"`
	UnselectedBlur           int     `json:"unselectedBlur"`
	AnimationSpeed           float64 `json:"animationSpeed"`
	ShowEdgeLabel            bool    `json:"showEdgeLabel"`
	HideCommonRelationLabels bool    `json:"hideCommonRelationLabels"`
	NodeLabelSize            int     `json:"nodeLabelSize"`
	EdgeLabelPosition        string  `json:"edgeLabelPosition"`
}

// DefaultVisualSettings returns the stock per-relation styles, keyed by the
// relation names used in source data.
func DefaultVisualSettings() map[string]VisualSetting {
	return map[string]VisualSetting{
		"배우자":  {LineStyle: "solid", LineWidth: 4, Color: "#e74c3c", Icon: "❤", ShowIcon: true, Opacity: 80},
		"소속":   {LineStyle: "solid", LineWidth: 2, Color: "#3498db", Icon: "⭕", ShowIcon: true, Opacity: 60},
		"친인척":  {LineStyle: "dotted", LineWidth: 2, Color: "#e67e22", Icon: "⭐", ShowIcon: true, Opacity: 70, Blur: true},
		"동료":   {LineStyle: "solid", LineWidth: 1, Color: "#95a5a6", Opacity: 50},
		"상사":   {LineStyle: "solid", LineWidth: 2, Color: "#2ecc71", Opacity: 60},
		"부하":   {LineStyle: "solid", LineWidth: 2, Color: "#2ecc71", Opacity: 60},
		"프로젝트": {LineStyle: "dashed", LineWidth: 1, Color: "#9b59b6", Opacity: 50},
	}
}

func defaultGlobal() Global {
	return Global{
		NodeShadow:        true,
		EdgeCurveStyle:    "bezier",
		HighlightGlow:     true,
		AnimationSpeed:    1.0,
		ShowEdgeLabel:     true,
		NodeLabelSize:     12,
		EdgeLabelPosition: "middle",
	}
}

// Default returns the settings a fresh session starts with. Sensitive
// relations stay hidden until the user confirms showing them.
func Default() Blob {
	return Blob{
		Filters: Filters{
			Companies:   []string{},
			Departments: []string{},
			Relations:   []string{},
		},
		Settings: Display{
			HideLowWeightEdges:     true,
			EdgeLimit:              DefaultEdgeLimit,
			LabelLOD:               LabelLODAuto,
			ColorBlindMode:         true,
			CentralityBasedSize:    true,
			DepartmentColors:       true,
			AutoScaleEdgeThickness: true,
		},
		VisualSettings:       DefaultVisualSettings(),
		GlobalVisualSettings: defaultGlobal(),
	}
}

// Reset returns the values used when the user resets everything: all
// toggles off, sensitive relations hidden and the default preset applied.
func Reset() Blob {
	b := Blob{
		Filters: Filters{
			Companies:   []string{},
			Departments: []string{},
			Relations:   []string{},
		},
		Settings: Display{
			EdgeLimit: DefaultEdgeLimit,
			LabelLOD:  LabelLODAuto,
		},
	}
	_ = b.ApplyPreset(PresetDefault)
	return b
}

// VisualFor looks up the style of a relation, first by exact name and then
// by canonical relation, so "spouse" finds the "배우자" entry.
func (b Blob) VisualFor(relation string) (VisualSetting, bool) {
	if v, ok := b.VisualSettings[relation]; ok {
		return v, true
	}
	c := schema.Canonical(relation)
	for name, v := range b.VisualSettings {
		if schema.Canonical(name) == c {
			return v, true
		}
	}
	return VisualSetting{}, false
}

// FilterState converts the persisted filters and toggles to a filter state.
func (b Blob) FilterState() filter.State {
	return filter.State{
		Companies:        filter.NewSet(b.Filters.Companies...),
		Departments:      filter.NewSet(b.Filters.Departments...),
		Relations:        filter.NewSet(b.Filters.Relations...),
		SensitiveVisible: b.Filters.SensitiveRelations,
		HideLowWeight:    b.Settings.HideLowWeightEdges,
		EdgeLimit:        b.Settings.EdgeLimit,
	}
}

// SetFilterState stores the allow-sets and toggles of st.
func (b *Blob) SetFilterState(st filter.State) {
	b.Filters = Filters{
		Companies:          st.Companies.Values(),
		Departments:        st.Departments.Values(),
		Relations:          st.Relations.Values(),
		SensitiveRelations: st.SensitiveVisible,
	}
	b.Settings.HideLowWeightEdges = st.HideLowWeight
	b.Settings.EdgeLimit = st.EdgeLimit
}

// Clone returns a copy that shares no maps or slices with b.
func (b Blob) Clone() Blob {
	out := b
	out.Filters.Companies = append([]string{}, b.Filters.Companies...)
	out.Filters.Departments = append([]string{}, b.Filters.Departments...)
	out.Filters.Relations = append([]string{}, b.Filters.Relations...)
	out.VisualSettings = make(map[string]VisualSetting, len(b.VisualSettings))
	for k, v := range b.VisualSettings {
		out.VisualSettings[k] = v
	}
	return out
}
