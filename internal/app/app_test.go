package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"hrgraph/internal/filter"
	"hrgraph/internal/ingest"
	"hrgraph/internal/loader"
	"hrgraph/internal/mapping"
	"hrgraph/internal/schema"
	"hrgraph/internal/search"
	"hrgraph/internal/settings"
	"hrgraph/internal/storage"
)

func table(headers []string, rows ...[]string) mapping.Table {
	t := mapping.Table{Headers: headers}
	for _, r := range rows {
		row := make(mapping.Row, len(headers))
		for i, h := range headers {
			if i < len(r) {
				row[h] = r[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func fixtureNodes() mapping.Table {
	return table([]string{"id", "label", "type", "company", "department"},
		[]string{"P1", "홍길동", "person", "A사", "개발팀"},
		[]string{"P2", "김영희", "person", "A사", "영업팀"},
		[]string{"P3", "이철수", "", "", ""},
		[]string{"C1", "A사", "company", "", ""},
	)
}

func fixtureEdges() mapping.Table {
	return table([]string{"source", "target", "relation"},
		[]string{"P1", "C1", "소속"},
		[]string{"P2", "C1", "소속"},
		[]string{"P1", "P3", "배우자"},
		[]string{"P2", "P3", "동료"},
	)
}

func newStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func loaded(t *testing.T, opts Options) *State {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = zaptest.NewLogger(t)
	}
	if opts.Settings == nil {
		// sensitive relations hidden, low-weight edges shown
		reset := settings.Reset()
		opts.Settings = &reset
	}
	s := New(opts)
	ctx := context.Background()
	_, err := s.LoadNodes(ctx, fixtureNodes(), "nodes.csv")
	require.NoError(t, err)
	_, err = s.LoadEdges(ctx, fixtureEdges(), "edges.csv")
	require.NoError(t, err)
	return s
}

type cancelConfirmer struct{}

func (cancelConfirmer) ConfirmMapping(schema.Kind, []string, mapping.Mapping) (mapping.Mapping, error) {
	return nil, ErrUserCancelledMapping
}

func (cancelConfirmer) ConfirmSensitive() bool { return false }

func TestNew_Defaults(t *testing.T) {
	s := New(Options{})
	assert.Empty(t, s.Graph().Nodes)
	assert.Equal(t, search.ModeCleared, s.View().Mode)
	assert.Equal(t, settings.Default(), s.Settings())
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("Nodes then edges", func(t *testing.T) {
		s := loaded(t, Options{})
		assert.Len(t, s.Graph().Nodes, 4)
		assert.Len(t, s.Graph().Edges, 4)
		assert.Equal(t, schema.NodePerson, s.Graph().Node("P3").Type)
		assert.Equal(t, "source", s.EdgeMapping()[schema.FieldSource])
	})

	t.Run("Edges require nodes", func(t *testing.T) {
		s := New(Options{})
		_, err := s.LoadEdges(ctx, fixtureEdges(), "edges.csv")
		assert.ErrorIs(t, err, ErrNodesNotLoaded)
	})

	t.Run("Cancelled mapping leaves state untouched", func(t *testing.T) {
		s := New(Options{Confirmer: cancelConfirmer{}})
		_, err := s.LoadNodes(ctx, fixtureNodes(), "nodes.csv")
		assert.ErrorIs(t, err, ErrUserCancelledMapping)
		assert.Empty(t, s.Graph().Nodes)
	})

	t.Run("Missing required mapping", func(t *testing.T) {
		s := New(Options{})
		_, err := s.LoadNodes(ctx, table([]string{"사번", "이름", "타입"}, []string{"1", "홍길동", "person"}), "k.csv")
		var missing *mapping.MissingFieldsError
		require.ErrorAs(t, err, &missing)
		assert.Equal(t, []string{schema.FieldID, schema.FieldLabel, schema.FieldType}, missing.Fields)
	})

	t.Run("Configured overrides", func(t *testing.T) {
		s := New(Options{Confirmer: AutoConfirmer{Overrides: map[schema.Kind]mapping.Mapping{
			schema.KindNodes: {schema.FieldID: "사번", schema.FieldLabel: "이름", schema.FieldType: "타입"},
		}}})
		n, err := s.LoadNodes(ctx, table([]string{"사번", "이름", "타입"}, []string{"1", "홍길동", ""}), "k.csv")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, "홍길동", s.Graph().Node("1").Label)
	})

	t.Run("Duplicate ids are rejected", func(t *testing.T) {
		s := New(Options{})
		_, err := s.LoadNodes(ctx, table([]string{"id", "label", "type"},
			[]string{"P1", "홍길동", "person"},
			[]string{"P1", "김영희", "person"},
		), "dup.csv")
		var dup *ingest.DuplicateNodeID
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, 2, dup.Row)
		assert.Empty(t, s.Graph().Nodes)
	})

	t.Run("Dangling edges reject the whole batch", func(t *testing.T) {
		s := loaded(t, Options{})
		_, err := s.LoadEdges(ctx, table([]string{"source", "target", "relation"},
			[]string{"P1", "P2", "동료"},
			[]string{"P1", "P9", "동료"},
		), "bad.csv")
		var dangling *ingest.DanglingReference
		require.ErrorAs(t, err, &dangling)
		assert.Equal(t, []string{"P9"}, dangling.Missing)
		assert.Len(t, s.Graph().Edges, 4)
	})

	t.Run("Self loops", func(t *testing.T) {
		s := loaded(t, Options{})
		_, err := s.LoadEdges(ctx, table([]string{"source", "target", "relation"},
			[]string{"P1", "P1", "동료"},
		), "loop.csv")
		var loop *ingest.SelfLoopEdge
		assert.ErrorAs(t, err, &loop)
	})

	t.Run("Reloading nodes keeps edges whose endpoints survive", func(t *testing.T) {
		s := loaded(t, Options{})
		_, err := s.LoadNodes(ctx, table([]string{"id", "label", "type"},
			[]string{"P1", "홍길동", "person"},
			[]string{"C1", "A사", "company"},
		), "nodes2.csv")
		require.NoError(t, err)
		require.Len(t, s.Graph().Edges, 1)
		assert.Equal(t, "P1", s.Graph().Edges[0].Source)
	})

	t.Run("Multi relation columns are expanded", func(t *testing.T) {
		s := New(Options{})
		_, err := s.LoadNodes(ctx, fixtureNodes(), "nodes.csv")
		require.NoError(t, err)
		n, err := s.LoadEdges(ctx, table([]string{"source", "target", "relation", "relation2"},
			[]string{"P1", "P2", "동료", "프로젝트/상사"},
		), "wide.csv")
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("Sample", func(t *testing.T) {
		s := New(Options{})
		sum, err := s.LoadSample(ctx)
		require.NoError(t, err)
		assert.Equal(t, LoadSummary{Nodes: 45, Edges: 112}, sum)
		// default settings hide the 65 weight-1 edges and the 12 spouse or kinship edges
		assert.Equal(t, 35, s.Visibility().VisibleEdges())
	})
}

func TestSearchAndScene(t *testing.T) {
	s := loaded(t, Options{})

	v := s.Search("A사")
	require.Equal(t, search.ModeCompany, v.Mode)
	assert.Equal(t, "C1", v.Focus.ID)

	sc := s.Scene(1)
	require.Len(t, sc.Nodes, 4)
	byID := make(map[string]SceneNode)
	for _, n := range sc.Nodes {
		byID[n.Data.ID] = n
	}
	assert.Equal(t, 1.0, byID["C1"].Style.Opacity)
	assert.Equal(t, 1.0, byID["P1"].Style.Opacity)
	assert.Equal(t, search.OpacitySecond, byID["P3"].Style.Opacity)
	assert.Equal(t, "#f39c12", byID["C1"].Style.BorderColor)

	// P1-P3 is a hidden spouse edge, P2-P3 leaves the first ring.
	assert.Equal(t, 1.0, sc.Edges[0].Style.Opacity)
	assert.False(t, sc.Edges[2].Visible)
	assert.Equal(t, filter.OpacityFiltered, sc.Edges[2].Style.Opacity)
	assert.Equal(t, search.OpacitySecond, sc.Edges[3].Style.Opacity)
	assert.Equal(t, 3, sc.VisibleEdges)

	s.ClearSearch()
	sc = s.Scene(1)
	assert.Equal(t, 1.0, sc.Nodes[3].Style.Opacity)
	assert.InDelta(t, 0.6, sc.Edges[0].Style.Opacity, 0.0001)
}

func TestSelectKeepsQuery(t *testing.T) {
	s := loaded(t, Options{})

	s.Search("홍")
	v, err := s.Select("P2")
	require.NoError(t, err)
	assert.Equal(t, search.ModePerson, v.Mode)
	assert.Equal(t, "홍", v.Query)

	_, err = s.Select("missing")
	assert.ErrorIs(t, err, search.ErrNodeNotFound)
}

func TestFindPath(t *testing.T) {
	s := loaded(t, Options{})

	p, err := s.FindPath("P3", "C1", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"P3", "P1", "C1"}, p.Nodes)

	_, err = s.FindPath("P3", "nobody", false)
	assert.ErrorIs(t, err, search.ErrNodeNotFound)

	res, err := s.PathToCompany("P3", "a사", true)
	require.NoError(t, err)
	assert.Equal(t, "C1", res.Company.ID)
	assert.Equal(t, 2, res.Path.Hops())

	spouses, err := s.SpouseCompanies("P1")
	require.NoError(t, err)
	require.Len(t, spouses.Spouses, 1)
	assert.Equal(t, "P3", spouses.Spouses[0].ID)
}

func TestSensitiveConfirmation(t *testing.T) {
	t.Run("Hidden in a fresh session", func(t *testing.T) {
		ctx := context.Background()
		s := New(Options{Logger: zaptest.NewLogger(t)})
		_, err := s.LoadNodes(ctx, fixtureNodes(), "nodes.csv")
		require.NoError(t, err)
		_, err = s.LoadEdges(ctx, fixtureEdges(), "edges.csv")
		require.NoError(t, err)

		vis := s.Visibility()
		require.Len(t, vis.Edges, 4)
		assert.Equal(t, "배우자", s.Graph().Edges[2].Relation)
		assert.False(t, vis.Edges[2])
		assert.True(t, vis.Edges[0])

		assert.ErrorIs(t, s.SetSensitiveVisible(true), ErrSensitiveNotConfirmed)
		assert.False(t, s.Visibility().Edges[2])
	})

	t.Run("Declined", func(t *testing.T) {
		s := loaded(t, Options{})
		err := s.SetSensitiveVisible(true)
		assert.ErrorIs(t, err, ErrSensitiveNotConfirmed)
		assert.False(t, s.Filter().SensitiveVisible)
	})

	t.Run("Accepted", func(t *testing.T) {
		s := loaded(t, Options{Confirmer: AutoConfirmer{AllowSensitive: true}})
		require.NoError(t, s.SetSensitiveVisible(true))
		assert.Equal(t, 4, s.Visibility().VisibleEdges())
		require.NoError(t, s.SetSensitiveVisible(false))
		assert.Equal(t, 3, s.Visibility().VisibleEdges())
	})

	t.Run("Other filters need no confirmation", func(t *testing.T) {
		s := loaded(t, Options{})
		st := s.Filter()
		st.Departments = filter.NewSet("개발팀")
		require.NoError(t, s.SetFilter(st))
		vis := s.Visibility()
		assert.True(t, vis.NodeVisible("P1"))
		assert.False(t, vis.NodeVisible("P2"))
		assert.Equal(t, []string{"A사"}, s.FilterOptions().Companies)
	})
}

func TestSettingsPersistence(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	s := New(Options{Store: store})

	assert.ErrorIs(t, s.LoadSettings(ctx), ErrNoSavedSettings)

	require.NoError(t, s.ApplyPreset(settings.PresetMinimal))
	st := s.Filter()
	st.Companies = filter.NewSet("A사")
	require.NoError(t, s.SetFilter(st))
	require.NoError(t, s.SaveSettings(ctx))
	saved := s.Settings()

	s.SetSettings(settings.Default())
	require.NoError(t, s.LoadSettings(ctx))
	assert.Equal(t, saved, s.Settings())

	t.Run("Custom preset keeps filters", func(t *testing.T) {
		require.NoError(t, s.SaveCustomPreset(ctx))
		require.NoError(t, s.ApplyPreset(settings.PresetHighlight))
		require.NoError(t, s.ApplyCustomPreset(ctx))
		assert.Equal(t, saved.VisualSettings, s.Settings().VisualSettings)
		assert.Equal(t, []string{"A사"}, s.Settings().Filters.Companies)
	})

	t.Run("Reset clears stored documents", func(t *testing.T) {
		require.NoError(t, s.ResetSettings(ctx))
		assert.Equal(t, settings.Reset(), s.Settings())
		assert.ErrorIs(t, s.LoadSettings(ctx), ErrNoSavedSettings)
		assert.ErrorIs(t, s.ApplyCustomPreset(ctx), ErrNoSavedSettings)
	})

	t.Run("Without a store", func(t *testing.T) {
		bare := New(Options{})
		assert.ErrorIs(t, bare.SaveSettings(ctx), ErrNoStore)
		assert.NoError(t, bare.ResetSettings(ctx))
	})
}

func TestSnapshotAndMappingCache(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	korean := table([]string{"사번", "이름", "타입"}, []string{"1", "홍길동", "person"}, []string{"2", "김영희", "person"})
	first := New(Options{Store: store, Confirmer: AutoConfirmer{Overrides: map[schema.Kind]mapping.Mapping{
		schema.KindNodes: {schema.FieldID: "사번", schema.FieldLabel: "이름", schema.FieldType: "타입"},
	}}})
	_, err := first.LoadNodes(ctx, korean, "k.csv")
	require.NoError(t, err)

	second := New(Options{Store: store})
	require.NoError(t, second.Restore(ctx))
	assert.Len(t, second.Graph().Nodes, 2)

	// Same header layout, no overrides: the cached mapping is proposed.
	_, err = second.LoadNodes(ctx, korean, "k2.csv")
	require.NoError(t, err)
	assert.Equal(t, "사번", second.NodeMapping()[schema.FieldID])

	imports, err := second.Imports(ctx)
	require.NoError(t, err)
	assert.Len(t, imports, 2)
}

func TestExport(t *testing.T) {
	s := loaded(t, Options{})

	var buf bytes.Buffer
	require.NoError(t, s.ExportNodesCSV(&buf, "P1", "C1", "missing"))
	assert.Equal(t, "id,label,type,company,department,title\n"+
		`"P1","홍길동","person","A사","개발팀",""`+"\n"+
		`"C1","A사","company","","",""`+"\n", buf.String())

	buf.Reset()
	require.NoError(t, s.ExportEdgesCSV(&buf, "P1", "C1"))
	assert.Equal(t, "source,target,relation,since,note\n"+
		`"P1","C1","소속","",""`+"\n", buf.String())

	buf.Reset()
	require.NoError(t, s.ExportDOT(&buf))
	assert.Contains(t, buf.String(), `"P1" -- "C1"`)

	buf.Reset()
	require.NoError(t, s.ExportMermaid(&buf))
	assert.Contains(t, buf.String(), `P1 ---|"소속"| C1`)
	assert.NotContains(t, buf.String(), "배우자")

	buf.Reset()
	require.NoError(t, s.ExportCompanyMermaid(&buf, 5))
	assert.Equal(t, "graph LR\n    A_[\"A사 (2)\"]\n", buf.String())
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "edges.csv"), []byte("source,target,relation\nP1,P2,동료\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nodes.csv"), []byte("id,label,type\nP1,홍길동,person\nP2,김영희,person\n"), 0644))

	s := New(Options{Logger: zaptest.NewLogger(t)})
	sum, err := s.LoadDir(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, LoadSummary{Nodes: 2, Edges: 1}, sum)
	assert.Len(t, s.Graph().Edges, 1)
}

func TestLoadDataset_StopsAfterNodeFailure(t *testing.T) {
	s := New(Options{})
	nodes := table([]string{"id", "label", "type"}, []string{"", "이름없음", "person"})
	edges := fixtureEdges()
	_, err := s.LoadDataset(context.Background(), &loader.Dataset{Source: "bad.xlsx", Nodes: &nodes, Edges: &edges})
	var missing *ingest.MissingRequiredField
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, schema.FieldID, missing.Field)
	assert.Empty(t, s.Graph().Nodes)
	assert.Empty(t, s.Graph().Edges)
}

func TestLoadFile_EdgeColumns(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	nodesPath := filepath.Join(dir, "nodes.csv")
	edgesPath := filepath.Join(dir, "edges.csv")
	require.NoError(t, os.WriteFile(nodesPath, []byte("id,label,type\nP1,홍길동,person\nP2,김영희,person\n"), 0644))
	require.NoError(t, os.WriteFile(edgesPath, []byte("source,target,relation,since,note,evidence\nP1,P2,동료,2021,,메신저 기록\n"), 0644))

	t.Run("Evidence column loads as edges", func(t *testing.T) {
		s := New(Options{Logger: zaptest.NewLogger(t)})
		_, err := s.LoadFile(ctx, nodesPath)
		require.NoError(t, err)

		sum, err := s.LoadFile(ctx, edgesPath)
		require.NoError(t, err)
		assert.Equal(t, LoadSummary{Edges: 1}, sum)
		require.Len(t, s.Graph().Edges, 1)
		assert.Equal(t, "메신저 기록", s.Graph().Edges[0].Evidence)
		assert.Len(t, s.Graph().Nodes, 2)
	})

	t.Run("Kind overrides the headers", func(t *testing.T) {
		ambiguous := filepath.Join(dir, "links.csv")
		require.NoError(t, os.WriteFile(ambiguous, []byte("source,target,relation,type\nP1,P2,동료,internal\n"), 0644))

		s := New(Options{Logger: zaptest.NewLogger(t)})
		_, err := s.LoadFileAs(ctx, nodesPath, schema.KindNodes)
		require.NoError(t, err)

		sum, err := s.LoadFileAs(ctx, ambiguous, schema.KindEdges)
		require.NoError(t, err)
		assert.Equal(t, LoadSummary{Edges: 1}, sum)
		assert.Len(t, s.Graph().Nodes, 2)
		require.Len(t, s.Graph().Edges, 1)
		assert.Equal(t, "동료", s.Graph().Edges[0].Relation)
	})
}

func TestExportRoundTrip(t *testing.T) {
	ctx := context.Background()
	nodes := table([]string{"id", "label", "type", "company", "department", "title"},
		[]string{"P1", `Kim "KC", Jr.`, "person", "Acme, Inc.", `R&D, "Core"`, "Lead, Platform"},
		[]string{"P2", "홍길동", "person", "Acme, Inc.", "", ""},
		[]string{"C1", "Acme, Inc.", "company", "", "", ""},
	)
	edges := table([]string{"source", "target", "relation", "since", "note"},
		[]string{"P1", "C1", "소속", "2020", `joined "early", then promoted`},
		[]string{"P1", "P2", "동료", "", ""},
	)

	src := New(Options{Logger: zaptest.NewLogger(t)})
	_, err := src.LoadNodes(ctx, nodes, "nodes.csv")
	require.NoError(t, err)
	_, err = src.LoadEdges(ctx, edges, "edges.csv")
	require.NoError(t, err)

	var nodesOut, edgesOut bytes.Buffer
	require.NoError(t, src.ExportNodesCSV(&nodesOut))
	require.NoError(t, src.ExportEdgesCSV(&edgesOut))

	nodeSet, err := loader.Decode("nodes.csv", nodesOut.Bytes())
	require.NoError(t, err)
	require.NotNil(t, nodeSet.Nodes)
	require.Nil(t, nodeSet.Edges)
	edgeSet, err := loader.Decode("edges.csv", edgesOut.Bytes())
	require.NoError(t, err)
	require.NotNil(t, edgeSet.Edges)
	require.Nil(t, edgeSet.Nodes)

	dst := New(Options{Logger: zaptest.NewLogger(t)})
	n, err := dst.LoadNodes(ctx, *nodeSet.Nodes, nodeSet.Source)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	n, err = dst.LoadEdges(ctx, *edgeSet.Edges, edgeSet.Source)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, dst.Graph().Nodes, len(src.Graph().Nodes))
	for i, want := range src.Graph().Nodes {
		assert.Equal(t, *want, *dst.Graph().Nodes[i])
	}
	assert.Equal(t, src.Graph().Edges, dst.Graph().Edges)
	assert.Equal(t, `Kim "KC", Jr.`, dst.Graph().Node("P1").Label)
}

func TestStyleContext(t *testing.T) {
	s := loaded(t, Options{})
	ctx := s.StyleContext(2)
	assert.Equal(t, 2.0, ctx.Zoom)
	assert.Equal(t, s.Settings().Settings, ctx.Settings.Settings)
	assert.Equal(t, 2, ctx.Centrality["P1"])
	assert.Equal(t, 2, ctx.MaxCentrality)
	assert.Len(t, ctx.DepartmentColors, 2)
}
