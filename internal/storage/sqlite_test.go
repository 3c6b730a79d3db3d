package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"hrgraph/internal/graph"
	"hrgraph/internal/mapping"
	"hrgraph/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_Blobs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "settings")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, "settings", []byte(`{"a":1}`)))
	require.NoError(t, store.Put(ctx, "settings", []byte(`{"a":2}`)))

	value, ok, err := store.Get(ctx, "settings")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"a":2}`, string(value))

	require.NoError(t, store.Delete(ctx, "settings"))
	require.NoError(t, store.Delete(ctx, "settings"))
	_, ok, err = store.Get(ctx, "settings")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_Mappings(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sig := mapping.Signature([]string{"사번", "이름"})
	m := mapping.Mapping{"id": "사번", "label": "이름"}

	require.NoError(t, store.SaveMapping(ctx, schema.KindNodes, sig, m))

	loaded, ok, err := store.LoadMapping(ctx, schema.KindNodes, sig)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, m, loaded)

	t.Run("Kind is part of the key", func(t *testing.T) {
		_, ok, err := store.LoadMapping(ctx, schema.KindEdges, sig)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.SaveMapping(ctx, schema.KindNodes, sig, mapping.Mapping{"id": "이름", "label": "사번"}))
		loaded, _, err := store.LoadMapping(ctx, schema.KindNodes, sig)
		require.NoError(t, err)
		assert.Equal(t, "이름", loaded["id"])
	})
}

func TestSQLiteStore_SaveGraph_SnapshotSync(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	// Initial snapshot: A, B and edge A-B
	g1 := graph.Build([]graph.Node{
		{ID: "A", Label: "홍길동", Type: schema.NodePerson, Department: "개발팀"},
		{ID: "B", Label: "A사", Type: schema.NodeCompany},
	}, []graph.Edge{{Source: "A", Target: "B", Relation: "소속", Since: "2020-01-01"}})
	require.NoError(t, store.SaveGraph(ctx, g1))

	// New snapshot: remove A, add C, and replace edge with C-B.
	g2 := graph.Build([]graph.Node{
		{ID: "C", Label: "김철수", Type: schema.NodePerson},
		{ID: "B", Label: "A사", Type: schema.NodeCompany},
	}, []graph.Edge{{Source: "C", Target: "B", Relation: "affiliation", Note: "계약직"}})
	require.NoError(t, store.SaveGraph(ctx, g2))

	loaded, err := store.LoadGraph(ctx)
	require.NoError(t, err)

	// Node snapshot should match exactly, in insertion order.
	require.Len(t, loaded.Nodes, 2)
	assert.Equal(t, "C", loaded.Nodes[0].ID)
	assert.Equal(t, "B", loaded.Nodes[1].ID)
	assert.False(t, loaded.Has("A"))
	assert.Equal(t, schema.NodeCompany, loaded.Node("B").Type)

	// Edge snapshot should match exactly (old edge removed).
	require.Len(t, loaded.Edges, 1)
	assert.Equal(t, g2.Edges[0], loaded.Edges[0])
}

func TestSQLiteStore_SaveGraph_EmptySnapshotClearsData(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	g := graph.Build([]graph.Node{{ID: "X", Label: "X", Type: schema.NodePerson}}, nil)
	require.NoError(t, store.SaveGraph(ctx, g))
	require.NoError(t, store.SaveGraph(ctx, graph.NewGraph()))

	loaded, err := store.LoadGraph(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.Nodes)
	assert.Empty(t, loaded.Edges)
}

func TestSQLiteStore_Imports(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	calls := 0
	store.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}

	first, err := store.RecordImport(ctx, schema.KindNodes, "nodes.csv", 45)
	require.NoError(t, err)
	second, err := store.RecordImport(ctx, schema.KindEdges, "edges.csv", 112)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	imports, err := store.Imports(ctx)
	require.NoError(t, err)
	require.Len(t, imports, 2)
	assert.Equal(t, second, imports[0])
	assert.Equal(t, first, imports[1])
	assert.Equal(t, base.Add(time.Minute), imports[1].ImportedAt)
}

func TestSQLiteStore_ImportGraph(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	g1 := graph.Build([]graph.Node{{ID: "A", Label: "홍길동", Type: schema.NodePerson}}, nil)
	imp, err := store.ImportGraph(ctx, g1, schema.KindNodes, "nodes.csv", 1)
	require.NoError(t, err)
	assert.Equal(t, "nodes.csv", imp.Source)

	t.Run("Failed log write keeps the previous snapshot", func(t *testing.T) {
		_, err := store.db.ExecContext(ctx, `
			CREATE TRIGGER reject_imports BEFORE INSERT ON imports
			BEGIN SELECT RAISE(ABORT, 'import log unavailable'); END;
		`)
		require.NoError(t, err)
		t.Cleanup(func() { store.db.ExecContext(ctx, "DROP TRIGGER reject_imports") })

		g2 := graph.Build([]graph.Node{{ID: "B", Label: "김철수", Type: schema.NodePerson}}, nil)
		_, err = store.ImportGraph(ctx, g2, schema.KindNodes, "other.csv", 1)
		require.Error(t, err)

		loaded, err := store.LoadGraph(ctx)
		require.NoError(t, err)
		require.Len(t, loaded.Nodes, 1)
		assert.Equal(t, "A", loaded.Nodes[0].ID)

		imports, err := store.Imports(ctx)
		require.NoError(t, err)
		assert.Len(t, imports, 1)
	})
}
