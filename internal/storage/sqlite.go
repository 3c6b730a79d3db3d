package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hrgraph/internal/graph"
	"hrgraph/internal/mapping"
	"hrgraph/internal/schema"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS blobs (
			key TEXT PRIMARY KEY,
			value BLOB,
			updated_at TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS mappings (
			kind TEXT,
			signature TEXT,
			mapping JSON,
			PRIMARY KEY (kind, signature)
		);`,
		`CREATE TABLE IF NOT EXISTS nodes (
			position INTEGER,
			id TEXT PRIMARY KEY,
			label TEXT,
			type TEXT,
			company TEXT,
			department TEXT,
			title TEXT,
			birthdate TEXT,
			last_updated TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS edges (
			position INTEGER PRIMARY KEY,
			source TEXT,
			target TEXT,
			relation TEXT,
			since TEXT,
			note TEXT,
			evidence TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS imports (
			id TEXT PRIMARY KEY,
			kind TEXT,
			source TEXT,
			rows INTEGER,
			imported_at TEXT
		);`,
		`CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source);`,
		`CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// --- BlobStore Implementation ---

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM blobs WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read blob %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at
	`, key, value, s.timestamp())
	if err != nil {
		return fmt.Errorf("failed to write blob %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM blobs WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete blob %q: %w", key, err)
	}
	return nil
}

// --- MappingStore Implementation ---

func (s *SQLiteStore) SaveMapping(ctx context.Context, kind schema.Kind, signature string, m mapping.Mapping) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO mappings (kind, signature, mapping) VALUES (?, ?, ?)
		ON CONFLICT(kind, signature) DO UPDATE SET mapping=excluded.mapping
	`, string(kind), signature, data)
	return err
}

func (s *SQLiteStore) LoadMapping(ctx context.Context, kind schema.Kind, signature string) (mapping.Mapping, bool, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT mapping FROM mappings WHERE kind = ? AND signature = ?", string(kind), signature).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query mapping: %w", err)
	}

	var m mapping.Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, false, fmt.Errorf("failed to decode mapping: %w", err)
	}
	return m, true, nil
}

// --- GraphStore Implementation ---

func (s *SQLiteStore) SaveGraph(ctx context.Context, g *graph.Graph) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := writeGraph(ctx, tx, g); err != nil {
		return err
	}
	return tx.Commit()
}

// ImportGraph replaces the snapshot and appends the import log entry in a
// single transaction.
func (s *SQLiteStore) ImportGraph(ctx context.Context, g *graph.Graph, kind schema.Kind, source string, rows int) (Import, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Import{}, err
	}
	defer tx.Rollback()

	if err := writeGraph(ctx, tx, g); err != nil {
		return Import{}, err
	}
	imp, err := s.insertImport(ctx, tx, kind, source, rows)
	if err != nil {
		return Import{}, err
	}
	if err := tx.Commit(); err != nil {
		return Import{}, err
	}
	return imp, nil
}

func writeGraph(ctx context.Context, tx *sql.Tx, g *graph.Graph) error {
	// The stored snapshot always mirrors g exactly.
	if _, err := tx.ExecContext(ctx, "DELETE FROM edges"); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM nodes"); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO nodes (position, id, label, type, company, department, title, birthdate, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, n := range g.Nodes {
		if _, err := stmt.ExecContext(ctx, i, n.ID, n.Label, string(n.Type), n.Company, n.Department, n.Title, n.Birthdate, n.LastUpdated); err != nil {
			return fmt.Errorf("failed to save node %s: %w", n.ID, err)
		}
	}

	edgeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO edges (position, source, target, relation, since, note, evidence)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer edgeStmt.Close()

	for i, e := range g.Edges {
		if _, err := edgeStmt.ExecContext(ctx, i, e.Source, e.Target, e.Relation, e.Since, e.Note, e.Evidence); err != nil {
			return fmt.Errorf("failed to save edge %s: %w", e.Key(), err)
		}
	}
	return nil
}

func (s *SQLiteStore) LoadGraph(ctx context.Context) (*graph.Graph, error) {
	g := graph.NewGraph()

	rows, err := s.db.QueryContext(ctx, "SELECT id, label, type, company, department, title, birthdate, last_updated FROM nodes ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var n graph.Node
		var nodeType string
		if err := rows.Scan(&n.ID, &n.Label, &nodeType, &n.Company, &n.Department, &n.Title, &n.Birthdate, &n.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan node: %w", err)
		}
		n.Type = schema.NodeType(nodeType)
		g.AddNode(&n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	edgeRows, err := s.db.QueryContext(ctx, "SELECT source, target, relation, since, note, evidence FROM edges ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer edgeRows.Close()

	for edgeRows.Next() {
		var e graph.Edge
		if err := edgeRows.Scan(&e.Source, &e.Target, &e.Relation, &e.Since, &e.Note, &e.Evidence); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		g.Edges = append(g.Edges, e)
	}

	return g, edgeRows.Err()
}

// --- ImportLog Implementation ---

func (s *SQLiteStore) RecordImport(ctx context.Context, kind schema.Kind, source string, rows int) (Import, error) {
	return s.insertImport(ctx, s.db, kind, source, rows)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLiteStore) insertImport(ctx context.Context, db execer, kind schema.Kind, source string, rows int) (Import, error) {
	imp := Import{
		ID:         uuid.NewString(),
		Kind:       kind,
		Source:     source,
		Rows:       rows,
		ImportedAt: s.now().UTC().Truncate(time.Second),
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO imports (id, kind, source, rows, imported_at) VALUES (?, ?, ?, ?, ?)
	`, imp.ID, string(imp.Kind), imp.Source, imp.Rows, imp.ImportedAt.Format(time.RFC3339))
	if err != nil {
		return Import{}, fmt.Errorf("failed to record import: %w", err)
	}
	return imp, nil
}

func (s *SQLiteStore) Imports(ctx context.Context) ([]Import, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, kind, source, rows, imported_at FROM imports ORDER BY imported_at DESC, rowid DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query imports: %w", err)
	}
	defer rows.Close()

	var imports []Import
	for rows.Next() {
		var imp Import
		var kind, at string
		if err := rows.Scan(&imp.ID, &kind, &imp.Source, &imp.Rows, &at); err != nil {
			return nil, fmt.Errorf("failed to scan import: %w", err)
		}
		imp.Kind = schema.Kind(kind)
		if imp.ImportedAt, err = time.Parse(time.RFC3339, at); err != nil {
			return nil, fmt.Errorf("invalid import timestamp %q: %w", at, err)
		}
		imports = append(imports, imp)
	}
	return imports, rows.Err()
}

func (s *SQLiteStore) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}
