package app

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"hrgraph/internal/graph"
	"hrgraph/internal/settings"
	"hrgraph/internal/storage"
)

// SaveSettings stores the current filters and visual settings.
func (s *State) SaveSettings(ctx context.Context) error {
	if s.store == nil {
		return ErrNoStore
	}
	data, err := settings.Marshal(s.settings)
	if err != nil {
		return err
	}
	if err := s.store.Put(ctx, SettingsKey, data); err != nil {
		return err
	}
	s.log.Debug("settings saved", zap.Int("bytes", len(data)))
	return nil
}

// LoadSettings replaces the current settings with the stored ones, merged
// onto the defaults.
func (s *State) LoadSettings(ctx context.Context) error {
	b, err := s.readSettings(ctx, SettingsKey)
	if err != nil {
		return err
	}
	s.settings = b
	return nil
}

// ResetSettings restores the reset values and removes every stored settings
// document.
func (s *State) ResetSettings(ctx context.Context) error {
	s.settings = settings.Reset()
	if s.store == nil {
		return nil
	}
	for _, key := range []string{SettingsKey, CustomPresetKey} {
		if err := s.store.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// SaveCustomPreset stores the current visual and display settings as the
// user preset. Filters are not part of a preset.
func (s *State) SaveCustomPreset(ctx context.Context) error {
	if s.store == nil {
		return ErrNoStore
	}
	preset := s.settings.Clone()
	preset.Filters = settings.Filters{}
	data, err := settings.Marshal(preset)
	if err != nil {
		return err
	}
	return s.store.Put(ctx, CustomPresetKey, data)
}

// ApplyCustomPreset restores the stored user preset, keeping the filters.
func (s *State) ApplyCustomPreset(ctx context.Context) error {
	preset, err := s.readSettings(ctx, CustomPresetKey)
	if err != nil {
		return err
	}
	s.settings.Settings = preset.Settings
	s.settings.VisualSettings = preset.VisualSettings
	s.settings.GlobalVisualSettings = preset.GlobalVisualSettings
	return nil
}

func (s *State) readSettings(ctx context.Context, key string) (settings.Blob, error) {
	if s.store == nil {
		return settings.Blob{}, ErrNoStore
	}
	data, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return settings.Blob{}, err
	}
	if !ok {
		return settings.Blob{}, ErrNoSavedSettings
	}
	b, err := settings.Unmarshal(data)
	if err != nil {
		return settings.Blob{}, fmt.Errorf("stored %s is invalid: %w", key, err)
	}
	return b, nil
}

// Imports lists the import log, newest first.
func (s *State) Imports(ctx context.Context) ([]storage.Import, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	return s.store.Imports(ctx)
}

// ExportNodesCSV writes the given nodes, or every node when ids is empty.
func (s *State) ExportNodesCSV(w io.Writer, ids ...string) error {
	return graph.WriteNodesCSV(w, s.selectNodes(ids))
}

// ExportEdgesCSV writes the edges between the given nodes, or every edge
// when ids is empty.
func (s *State) ExportEdgesCSV(w io.Writer, ids ...string) error {
	if len(ids) == 0 {
		return graph.WriteEdgesCSV(w, s.graph.Edges)
	}
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}
	var edges []graph.Edge
	for _, e := range s.graph.Edges {
		if keep[e.Source] && keep[e.Target] {
			edges = append(edges, e)
		}
	}
	return graph.WriteEdgesCSV(w, edges)
}

// ExportDOT writes the graph in Graphviz format.
func (s *State) ExportDOT(w io.Writer) error {
	return s.graph.ExportDOT(w)
}

// ExportMermaid writes the nodes and edges that pass the current filters as
// a Mermaid flowchart.
func (s *State) ExportMermaid(w io.Writer) error {
	vis := s.Visibility()
	sub := &graph.Graph{}
	for _, n := range s.graph.Nodes {
		if vis.NodeVisible(n.ID) {
			sub.Nodes = append(sub.Nodes, n)
		}
	}
	for i, e := range s.graph.Edges {
		if vis.Edges[i] {
			sub.Edges = append(sub.Edges, e)
		}
	}
	sub.RebuildIndices()
	return sub.ExportMermaid(w)
}

// ExportCompanyMermaid writes the company overview of the whole graph.
func (s *State) ExportCompanyMermaid(w io.Writer, limit int) error {
	return s.graph.ExportCompanyMermaid(w, limit)
}

func (s *State) selectNodes(ids []string) []*graph.Node {
	if len(ids) == 0 {
		return s.graph.Nodes
	}
	var nodes []*graph.Node
	for _, id := range ids {
		if n := s.graph.Node(id); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}
