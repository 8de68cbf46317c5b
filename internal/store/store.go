// Package store defines the document-store collaborator interface the
// engine depends on (SPEC_FULL.md §6) and a deterministic in-memory
// implementation used by tests and by cmd/schemascope's --demo mode.
//
// Grounded on the teacher's services/unifiedmodel/internal/adapters
// SchemaIngester interface shape: a single-purpose collaborator interface
// the core depends on without knowing which concrete backend implements it.
package store

import "context"

// DocumentStoreClient is the external collaborator described in
// SPEC_FULL.md §6. Every operation may return an error; the engine converts
// collaborator-boundary failures into typed records rather than letting
// them escape into the inference core.
type DocumentStoreClient interface {
	ListDatabases(ctx context.Context) ([]string, error)
	ListContainers(ctx context.Context, database string) ([]string, error)
	SampleDocuments(ctx context.Context, database, container string, n int) ([]map[string]interface{}, error)
	GetDistinctValues(ctx context.Context, database, container, path string, max int) ([]interface{}, error)
	CheckIDsExist(ctx context.Context, database, container string, ids []interface{}) ([]interface{}, error)
}
