package store

import (
	"context"
	"fmt"
	"sort"
)

// Memory is a deterministic, in-process DocumentStoreClient backed by
// plain Go data structures. It is used by the engine's own tests, by
// cmd/schemascope's --demo mode, and as the fixture collaborator for the
// confidence calculator's integration tests.
type Memory struct {
	// documents maps database -> container -> documents.
	documents map[string]map[string][]map[string]interface{}
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{documents: make(map[string]map[string][]map[string]interface{})}
}

// Seed registers documents for a (database, container) pair, replacing any
// previously seeded documents for that pair.
func (m *Memory) Seed(database, container string, docs []map[string]interface{}) {
	if _, ok := m.documents[database]; !ok {
		m.documents[database] = make(map[string][]map[string]interface{})
	}
	m.documents[database][container] = docs
}

func (m *Memory) ListDatabases(ctx context.Context) ([]string, error) {
	out := make([]string, 0, len(m.documents))
	for db := range m.documents {
		out = append(out, db)
	}
	sort.Strings(out)
	return out, nil
}

func (m *Memory) ListContainers(ctx context.Context, database string) ([]string, error) {
	containers, ok := m.documents[database]
	if !ok {
		return nil, fmt.Errorf("unknown database %q", database)
	}
	out := make([]string, 0, len(containers))
	for c := range containers {
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

func (m *Memory) SampleDocuments(ctx context.Context, database, container string, n int) ([]map[string]interface{}, error) {
	docs, ok := m.documents[database][container]
	if !ok {
		return nil, fmt.Errorf("unknown container %s.%s", database, container)
	}
	if n >= len(docs) {
		return docs, nil
	}
	return docs[:n], nil
}

func (m *Memory) GetDistinctValues(ctx context.Context, database, container, path string, max int) ([]interface{}, error) {
	docs, ok := m.documents[database][container]
	if !ok {
		return nil, fmt.Errorf("unknown container %s.%s", database, container)
	}
	seen := make(map[interface{}]struct{})
	var out []interface{}
	for _, doc := range docs {
		v, ok := doc[path]
		if !ok || v == nil {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
		if len(out) >= max {
			break
		}
	}
	return out, nil
}

func (m *Memory) CheckIDsExist(ctx context.Context, database, container string, ids []interface{}) ([]interface{}, error) {
	docs, ok := m.documents[database][container]
	if !ok {
		return nil, fmt.Errorf("unknown container %s.%s", database, container)
	}
	existing := make(map[interface{}]struct{}, len(docs))
	for _, doc := range docs {
		if id, ok := doc["id"]; ok {
			existing[id] = struct{}{}
		}
	}
	var out []interface{}
	for _, id := range ids {
		if _, ok := existing[id]; ok {
			out = append(out, id)
		}
	}
	return out, nil
}
