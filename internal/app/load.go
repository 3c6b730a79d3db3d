package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"hrgraph/internal/graph"
	"hrgraph/internal/ingest"
	"hrgraph/internal/loader"
	"hrgraph/internal/mapping"
	"hrgraph/internal/schema"
)

// SampleSource names the bundled demo dataset in the import log.
const SampleSource = "sample"

// LoadSummary reports how many records each phase accepted.
type LoadSummary struct {
	Nodes int
	Edges int
}

// LoadNodes maps, validates and installs a node table. Existing edges whose
// endpoints survive are kept. On error the state is left untouched.
func (s *State) LoadNodes(ctx context.Context, t mapping.Table, source string) (int, error) {
	m, err := s.resolveMapping(ctx, schema.KindNodes, t.Headers)
	if err != nil {
		return 0, err
	}

	records := ingest.MapRecords(mapping.ExpandRelations(t, m), m, schema.KindNodes)
	errs := ingest.Validate(records, schema.KindNodes)
	errs = append(errs, ingest.DuplicateIDs(records)...)
	if err := errs.Err(); err != nil {
		s.log.Warn("node validation failed", zap.String("source", source), zap.Int("errors", len(errs)))
		return 0, err
	}

	g := graph.Build(ingest.ToNodes(records), nil)
	for _, e := range s.graph.Edges {
		if !g.AddEdge(e) {
			s.log.Debug("dropping edge with removed endpoint", zap.String("edge", e.Key()))
		}
	}

	if err := s.persist(ctx, g, schema.KindNodes, source, len(records)); err != nil {
		return 0, err
	}

	s.graph = g
	s.nodeMapping = m
	s.recompute()
	s.log.Info("nodes loaded", zap.String("source", source), zap.Int("count", len(records)), zap.Int("edgesKept", len(g.Edges)))
	return len(records), nil
}

// LoadEdges maps, validates and installs an edge table, replacing the
// current edges. Any edge pointing at an unknown node rejects the batch.
func (s *State) LoadEdges(ctx context.Context, t mapping.Table, source string) (int, error) {
	if len(s.graph.Nodes) == 0 {
		return 0, ErrNodesNotLoaded
	}

	m, err := s.resolveMapping(ctx, schema.KindEdges, t.Headers)
	if err != nil {
		return 0, err
	}

	records := ingest.MapRecords(mapping.ExpandRelations(t, m), m, schema.KindEdges)
	if err := ingest.Validate(records, schema.KindEdges).Err(); err != nil {
		s.log.Warn("edge validation failed", zap.String("source", source))
		return 0, err
	}
	if err := ingest.CrossValidate(records, s.graph.IDs()).Err(); err != nil {
		s.log.Warn("edge references unknown nodes", zap.String("source", source))
		return 0, err
	}

	g := &graph.Graph{Nodes: s.graph.Nodes, Edges: ingest.ToEdges(records)}
	g.RebuildIndices()

	if err := s.persist(ctx, g, schema.KindEdges, source, len(records)); err != nil {
		return 0, err
	}

	s.graph = g
	s.edgeMapping = m
	s.recompute()
	s.log.Info("edges loaded", zap.String("source", source), zap.Int("count", len(records)))
	return len(records), nil
}

// LoadDataset loads the node table and then the edge table of ds. A unified
// dataset feeds the same table to both phases. The edge phase is skipped
// when the node phase fails.
func (s *State) LoadDataset(ctx context.Context, ds *loader.Dataset) (LoadSummary, error) {
	var sum LoadSummary
	if ds.Nodes != nil && ds.Nodes.Len() > 0 {
		n, err := s.LoadNodes(ctx, *ds.Nodes, ds.Source)
		if err != nil {
			return sum, fmt.Errorf("nodes: %w", err)
		}
		sum.Nodes = n
	}
	if ds.Edges != nil && ds.Edges.Len() > 0 {
		n, err := s.LoadEdges(ctx, *ds.Edges, ds.Source)
		if err != nil {
			return sum, fmt.Errorf("edges: %w", err)
		}
		sum.Edges = n
	}
	return sum, nil
}

// LoadFile decodes a .csv or .xlsx file and loads it, telling node and edge
// tables apart by their headers.
func (s *State) LoadFile(ctx context.Context, path string) (LoadSummary, error) {
	ds, err := loader.Load(path)
	if err != nil {
		return LoadSummary{}, err
	}
	return s.LoadDataset(ctx, ds)
}

// LoadFileAs loads path as kind whatever its headers look like.
func (s *State) LoadFileAs(ctx context.Context, path string, kind schema.Kind) (LoadSummary, error) {
	ds, err := loader.Load(path)
	if err != nil {
		return LoadSummary{}, err
	}
	narrowed := ds.As(kind)
	if narrowed == nil {
		return LoadSummary{}, fmt.Errorf("%w: no %s table in %s", loader.ErrEmptyDataset, kind, ds.Source)
	}
	return s.LoadDataset(ctx, narrowed)
}

// LoadDir loads every .csv and .xlsx file below dir, node files first. Each
// file replaces the nodes or edges it carries, so when several files hold
// the same kind the last one in path order wins.
func (s *State) LoadDir(ctx context.Context, dir string) (LoadSummary, error) {
	var total LoadSummary
	err := loader.ScanDir(dir, func(ds *loader.Dataset) error {
		sum, err := s.LoadDataset(ctx, ds)
		if err != nil {
			return fmt.Errorf("%s: %w", ds.Source, err)
		}
		if sum.Nodes > 0 {
			total.Nodes = sum.Nodes
		}
		if sum.Edges > 0 {
			total.Edges = sum.Edges
		}
		return nil
	})
	return total, err
}

// LoadSample loads the bundled demo nodes followed by the demo edges.
func (s *State) LoadSample(ctx context.Context) (LoadSummary, error) {
	nodes := loader.SampleNodes()
	edges := loader.SampleEdges()
	return s.LoadDataset(ctx, &loader.Dataset{Source: SampleSource, Nodes: &nodes, Edges: &edges})
}

// Restore replaces the graph with the snapshot kept in the store.
func (s *State) Restore(ctx context.Context) error {
	if s.store == nil {
		return ErrNoStore
	}
	g, err := s.store.LoadGraph(ctx)
	if err != nil {
		return fmt.Errorf("failed to restore graph: %w", err)
	}
	s.graph = g
	s.recompute()
	s.log.Debug("graph restored", zap.Int("nodes", len(g.Nodes)), zap.Int("edges", len(g.Edges)))
	return nil
}

// resolveMapping proposes a mapping, preferring one confirmed earlier for
// the same header layout, and has the confirmer accept it.
func (s *State) resolveMapping(ctx context.Context, kind schema.Kind, headers []string) (mapping.Mapping, error) {
	required := schema.RequiredFields(kind)
	proposed := mapping.Propose(headers, required, schema.OptionalFields(kind))

	sig := mapping.Signature(headers)
	if s.store != nil {
		cached, ok, err := s.store.LoadMapping(ctx, kind, sig)
		if err != nil {
			return nil, err
		}
		if ok {
			proposed = mergeCached(proposed, cached, headers)
		}
	}

	edits, err := s.confirmer.ConfirmMapping(kind, headers, proposed)
	if err != nil {
		return nil, err
	}
	m, err := mapping.Confirm(edits, required)
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		if err := s.store.SaveMapping(ctx, kind, sig, m); err != nil {
			return nil, fmt.Errorf("failed to cache mapping: %w", err)
		}
	}
	s.log.Debug("mapping confirmed", zap.String("kind", string(kind)), zap.Any("mapping", m))
	return m, nil
}

// mergeCached overlays cached bindings whose header exists in headers.
func mergeCached(proposed, cached mapping.Mapping, headers []string) mapping.Mapping {
	out := proposed.Clone()
	for field, header := range cached {
		for _, h := range headers {
			if h == header {
				out[field] = header
				break
			}
		}
	}
	return out
}

func (s *State) persist(ctx context.Context, g *graph.Graph, kind schema.Kind, source string, rows int) error {
	if s.store == nil {
		return nil
	}
	imp, err := s.store.ImportGraph(ctx, g, kind, source, rows)
	if err != nil {
		return fmt.Errorf("failed to save graph snapshot: %w", err)
	}
	s.log.Debug("import recorded", zap.String("id", imp.ID), zap.String("kind", string(kind)))
	return nil
}
