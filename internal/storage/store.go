package storage

import (
	"context"
	"time"

	"hrgraph/internal/graph"
	"hrgraph/internal/mapping"
	"hrgraph/internal/schema"
)

// Store combines every persistence capability the application uses.
type Store interface {
	BlobStore
	MappingStore
	GraphStore
	ImportLog
	Close() error
}

// BlobStore is a key-value store for opaque documents such as settings.
type BlobStore interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Put upserts the value under key.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// MappingStore caches confirmed column mappings per header layout.
type MappingStore interface {
	SaveMapping(ctx context.Context, kind schema.Kind, signature string, m mapping.Mapping) error

	// LoadMapping returns the mapping confirmed earlier for the same headers.
	LoadMapping(ctx context.Context, kind schema.Kind, signature string) (mapping.Mapping, bool, error)
}

// GraphStore persists the loaded graph as a snapshot.
type GraphStore interface {
	// SaveGraph replaces the stored snapshot with g.
	SaveGraph(ctx context.Context, g *graph.Graph) error

	LoadGraph(ctx context.Context) (*graph.Graph, error)
}

// Import is one entry of the import log.
type Import struct {
	ID         string
	Kind       schema.Kind
	Source     string
	Rows       int
	ImportedAt time.Time
}

// ImportLog records every accepted dataset load.
type ImportLog interface {
	RecordImport(ctx context.Context, kind schema.Kind, source string, rows int) (Import, error)

	// ImportGraph stores g as the snapshot and records the import together;
	// on failure neither is written.
	ImportGraph(ctx context.Context, g *graph.Graph, kind schema.Kind, source string, rows int) (Import, error)

	// Imports lists entries newest first.
	Imports(ctx context.Context) ([]Import, error)
}
