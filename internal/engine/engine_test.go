package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
	"github.com/afrugalpenguin/cosmos-mapper/internal/store"
)

func TestRunBasicReferenceDetection(t *testing.T) {
	mem := store.NewMemory()
	mem.Seed("db", "stores", []map[string]interface{}{
		{"id": "s1", "name": "Acme"},
	})
	mem.Seed("db", "orders", []map[string]interface{}{
		{"id": "o1", "StoreId": "550e8400-e29b-41d4-a716-446655440000"},
	})

	eng := New(mem, Options{SampleSize: 10, Parallelism: 2, Validate: false}, nil)
	result, err := eng.Run(context.Background())
	require.NoError(t, err)

	var found *model.Relationship
	for _, r := range result.Relationships {
		if r.FromContainer == "orders" && r.ToContainer == "stores" && r.Cardinality == model.CardinalityManyToOne {
			found = r
		}
	}
	require.NotNil(t, found, "expected orders.StoreId -> stores relationship")
	require.False(t, found.IsOrphan)
	require.False(t, found.IsCrossDatabase)
	require.Equal(t, "id", found.ToProperty)
}

func TestRunOrphanRelationship(t *testing.T) {
	mem := store.NewMemory()
	mem.Seed("db", "orders", []map[string]interface{}{
		{"id": "o1", "UnknownId": "550e8400-e29b-41d4-a716-446655440000"},
	})

	eng := New(mem, Options{SampleSize: 10, Parallelism: 2}, nil)
	result, err := eng.Run(context.Background())
	require.NoError(t, err)

	var found *model.Relationship
	for _, r := range result.Relationships {
		if r.FromProperty == "UnknownId" {
			found = r
		}
	}
	require.NotNil(t, found)
	require.True(t, found.IsOrphan)
	require.Equal(t, float64(15), found.Confidence.Score)
	require.Equal(t, model.LevelVeryLow, found.Confidence.Level)
}

func TestRunAmbiguousCrossDatabase(t *testing.T) {
	mem := store.NewMemory()
	mem.Seed("platform", "processing", []map[string]interface{}{
		{"id": "p1", "EventId": "550e8400-e29b-41d4-a716-446655440000"},
	})
	mem.Seed("a", "events", []map[string]interface{}{{"id": "e1"}})
	mem.Seed("b", "events", []map[string]interface{}{{"id": "e2"}})
	mem.Seed("c", "events", []map[string]interface{}{{"id": "e3"}})

	eng := New(mem, Options{SampleSize: 10, Parallelism: 2}, nil)
	result, err := eng.Run(context.Background())
	require.NoError(t, err)

	var found *model.Relationship
	for _, r := range result.Relationships {
		if r.FromContainer == "processing" && r.FromProperty == "EventId" {
			found = r
		}
	}
	require.NotNil(t, found)
	require.True(t, found.IsAmbiguous)
	require.True(t, found.IsCrossDatabase)
	require.ElementsMatch(t, []string{"a", "b", "c"}, found.PossibleDatabases)
}

func TestRunContainerRestriction(t *testing.T) {
	mem := store.NewMemory()
	mem.Seed("db", "ok", []map[string]interface{}{{"id": "1"}})
	mem.Seed("db", "skipped", []map[string]interface{}{{"id": "2"}})

	eng := New(mem, Options{SampleSize: 10, Parallelism: 2, Containers: []string{"ok"}}, nil)
	result, err := eng.Run(context.Background())
	require.NoError(t, err)
	require.Contains(t, result.Schemas, model.ContainerIdentity{Database: "db", Name: "ok"})
	require.NotContains(t, result.Schemas, model.ContainerIdentity{Database: "db", Name: "skipped"})
}
