package app

import (
	"errors"

	"go.uber.org/zap"

	"hrgraph/internal/filter"
	"hrgraph/internal/graph"
	"hrgraph/internal/mapping"
	"hrgraph/internal/search"
	"hrgraph/internal/settings"
	"hrgraph/internal/storage"
	"hrgraph/internal/style"
)

var (
	ErrUserCancelledMapping  = errors.New("mapping cancelled by user")
	ErrNodesNotLoaded        = errors.New("nodes must be loaded before edges")
	ErrSensitiveNotConfirmed = errors.New("showing sensitive relations was not confirmed")
	ErrNoStore               = errors.New("no store configured")
	ErrNoSavedSettings       = errors.New("no saved settings")
)

// Keys of the documents kept in the blob store.
const (
	SettingsKey     = "hrNetworkSettings"
	CustomPresetKey = "hrNetworkCustomPreset"
)

// Options configures a new State. Zero values select defaults.
type Options struct {
	Logger    *zap.Logger
	Confirmer Confirmer
	// Store enables settings, mapping cache, snapshot and import log persistence.
	Store     storage.Store
	Settings  *settings.Blob
}

// State is the application state shared by every operation. It is not safe
// for concurrent use.
type State struct {
	log       *zap.Logger
	confirmer Confirmer
	store     storage.Store

	graph       *graph.Graph
	nodeMapping mapping.Mapping
	edgeMapping mapping.Mapping
	settings    settings.Blob

	// metrics holds the graph-derived style inputs; Settings and Zoom are
	// filled in per call.
	metrics style.Context

	view      search.View
	highlight *search.Highlight
	selected  string
}

// New builds an empty state.
func New(opts Options) *State {
	s := &State{
		log:       opts.Logger,
		confirmer: opts.Confirmer,
		store:     opts.Store,
		graph:     graph.NewGraph(),
		settings:  settings.Default(),
		view:      search.View{Mode: search.ModeCleared},
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.confirmer == nil {
		s.confirmer = AutoConfirmer{}
	}
	if opts.Settings != nil {
		s.settings = opts.Settings.Clone()
	}
	s.recompute()
	return s
}

// Graph returns the loaded graph. Callers must not modify it.
func (s *State) Graph() *graph.Graph {
	return s.graph
}

// NodeMapping returns the mapping confirmed for the current nodes.
func (s *State) NodeMapping() mapping.Mapping {
	return s.nodeMapping.Clone()
}

// EdgeMapping returns the mapping confirmed for the current edges.
func (s *State) EdgeMapping() mapping.Mapping {
	return s.edgeMapping.Clone()
}

// Settings returns a copy of the current settings.
func (s *State) Settings() settings.Blob {
	return s.settings.Clone()
}

// SetSettings replaces the settings wholesale.
func (s *State) SetSettings(b settings.Blob) {
	s.settings = b.Clone()
}

// ApplyPreset applies a named visual preset.
func (s *State) ApplyPreset(name string) error {
	return s.settings.ApplyPreset(name)
}

// Filter returns the current filter choices.
func (s *State) Filter() filter.State {
	return s.settings.FilterState()
}

// SetFilter replaces the filter choices. Turning sensitive relations on
// requires confirmation; when declined the state is left unchanged.
func (s *State) SetFilter(st filter.State) error {
	if st.SensitiveVisible && !s.settings.Filters.SensitiveRelations && !s.confirmer.ConfirmSensitive() {
		return ErrSensitiveNotConfirmed
	}
	s.settings.SetFilterState(st)
	s.log.Debug("filters updated",
		zap.Strings("companies", st.Companies.Values()),
		zap.Strings("departments", st.Departments.Values()),
		zap.Strings("relations", st.Relations.Values()),
		zap.Bool("sensitive", st.SensitiveVisible),
		zap.Bool("hideLowWeight", st.HideLowWeight),
		zap.Int("edgeLimit", st.EdgeLimit))
	return nil
}

// SetSensitiveVisible toggles sensitive relations only.
func (s *State) SetSensitiveVisible(visible bool) error {
	st := s.Filter()
	st.SensitiveVisible = visible
	return s.SetFilter(st)
}

// FilterOptions lists the values available to each filter.
func (s *State) FilterOptions() filter.Options {
	return filter.CollectOptions(s.graph.Nodes, s.graph.Edges)
}

// StyleContext returns the inputs for style.Compute at the given zoom.
func (s *State) StyleContext(zoom float64) style.Context {
	ctx := s.metrics
	ctx.Settings = s.settings
	ctx.Zoom = zoom
	return ctx
}

// recompute refreshes the graph-derived metrics after the graph changed.
func (s *State) recompute() {
	s.metrics = style.NewContext(s.graph, s.settings)
	s.ClearSearch()
}
