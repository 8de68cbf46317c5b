package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
)

func sampleResult() *model.AnalysisResult {
	schema := model.NewContainerSchema()
	schema.DocumentCount = 3
	rec := schema.Ensure("id", "id", "")
	rec.Types.Add(model.TagString)
	rec.Occurrences = 3
	rec.Frequency = 1.0
	rec.IsRequired = true

	rel := &model.Relationship{
		FromContainer: "orders",
		FromDatabase:  "db",
		FromProperty:  "StoreId",
		ToContainer:   "stores",
		ToDatabase:    "db",
		ToProperty:    "id",
		Cardinality:   model.CardinalityManyToOne,
	}

	return &model.AnalysisResult{
		Databases: []string{"db"},
		Schemas: map[model.ContainerIdentity]*model.ContainerSchema{
			{Database: "db", Name: "orders"}: schema,
		},
		Relationships: []*model.Relationship{rel},
		SampleSize:    100,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	result := sampleResult()
	createdAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	md, err := Save(dir, "", result, createdAt)
	require.NoError(t, err)
	require.NotEmpty(t, md.Checksum)
	require.Equal(t, 1, md.ContainerCount)
	require.Equal(t, 1, md.RelationshipCount)

	loaded, err := Load(dir, md.ID)
	require.NoError(t, err)
	require.Equal(t, result.Databases, loaded.Databases)
	require.Len(t, loaded.Schemas, 1)
	require.Len(t, loaded.Relationships, 1)
	require.Equal(t, "StoreId", loaded.Relationships[0].FromProperty)
}

func TestSaveWithNameUsesNameAsFilename(t *testing.T) {
	dir := t.TempDir()
	result := sampleResult()

	md, err := Save(dir, "baseline", result, time.Now().UTC())
	require.NoError(t, err)
	require.Equal(t, "baseline", md.Name)

	loaded, err := Load(dir, "baseline")
	require.NoError(t, err)
	require.Equal(t, "baseline", loaded.Metadata.Name)
}

func TestLoadDetectsChecksumCorruption(t *testing.T) {
	dir := t.TempDir()
	result := sampleResult()

	md, err := Save(dir, "corrupt", result, time.Now().UTC())
	require.NoError(t, err)

	path := filepath.Join(dir, "snapshots", "corrupt.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	bogus := strings.Repeat("f", len(md.Checksum))
	tampered := strings.Replace(string(data), md.Checksum, bogus, 1)
	require.NotEqual(t, string(data), tampered)
	require.NoError(t, os.WriteFile(path, []byte(tampered), 0o640))

	loaded, err := Load(dir, "corrupt")
	var corruptionErr *model.SnapshotCorruptionError
	require.ErrorAs(t, err, &corruptionErr)
	require.NotNil(t, loaded, "snapshot must still be returned per the corruption-is-a-warning policy")
}

func TestPruneKeepsNamedSnapshots(t *testing.T) {
	dir := t.TempDir()
	result := sampleResult()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err := Save(dir, "keepme", result, base)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := Save(dir, "", result, base.Add(time.Duration(i+1)*time.Hour))
		require.NoError(t, err)
	}

	require.NoError(t, Prune(dir, 1))

	_, err = Load(dir, "keepme")
	require.NoError(t, err, "named snapshot must survive pruning")

	entries, err := os.ReadDir(filepath.Join(dir, "snapshots"))
	require.NoError(t, err)
	require.Len(t, entries, 2, "1 named + newest 1 unnamed should remain")
}
