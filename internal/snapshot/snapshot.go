// Package snapshot persists and reloads an AnalysisResult as a versioned
// JSON document (SPEC_FULL.md §6 "Snapshot file format"), and prunes old
// unnamed snapshots from a cache directory.
//
// Grounded on the teacher's cmd/cli/internal/profile.ProfileManager
// (os.MkdirAll + encoding/json file I/O under a dotfile-style directory)
// and its cmd/cli/internal/config.Config (read-modify-write over a single
// JSON file on disk), adapted from "one mutable file" to "one immutable
// file per run, named by id or caller-supplied name".
package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
)

const defaultCacheDir = ".cosmoscache"

// file is the exact on-disk shape described in SPEC_FULL.md §6. Go maps
// keyed by ContainerIdentity don't round-trip through encoding/json
// directly, so schemas are carried as a sorted slice of entries instead;
// the "keys sorted" requirement on the checksum payload is satisfied by
// that same sort rather than by reordering a JSON object's keys.
type file struct {
	Version       string          `json:"version"`
	Metadata      metadata        `json:"metadata"`
	Databases     []string        `json:"databases"`
	Schemas       []schemaEntry   `json:"schemas"`
	Relationships []*model.Relationship `json:"relationships"`
}

type metadata struct {
	ID                string    `json:"id"`
	Name              string    `json:"name,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	SampleSize        int       `json:"sampleSize"`
	Databases         []string  `json:"databases"`
	ContainerCount    int       `json:"containerCount"`
	RelationshipCount int       `json:"relationshipCount"`
	Checksum          string    `json:"checksum"`
}

type schemaEntry struct {
	Database string                `json:"database"`
	Name     string                `json:"name"`
	Schema   *model.ContainerSchema `json:"schema"`
}

// Save writes result to {cacheDir}/snapshots/{name}.json if name is
// non-empty, or {cacheDir}/snapshots/{id}.json otherwise, and returns the
// metadata recorded alongside it.
func Save(cacheDir, name string, result *model.AnalysisResult, createdAt time.Time) (*model.SnapshotMetadata, error) {
	if cacheDir == "" {
		cacheDir = defaultCacheDir
	}
	dir := filepath.Join(cacheDir, "snapshots")
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}

	entries := schemaEntries(result.Schemas)
	checksum, err := computeChecksum(entries, result.Relationships)
	if err != nil {
		return nil, fmt.Errorf("computing snapshot checksum: %w", err)
	}

	id := idFromTimestamp(createdAt)
	f := file{
		Version: model.SnapshotVersion,
		Metadata: metadata{
			ID:                id,
			Name:              name,
			CreatedAt:         createdAt,
			SampleSize:        result.SampleSize,
			Databases:         result.Databases,
			ContainerCount:    len(entries),
			RelationshipCount: len(result.Relationships),
			Checksum:          checksum,
		},
		Databases:     result.Databases,
		Schemas:       entries,
		Relationships: result.Relationships,
	}

	filename := id + ".json"
	if name != "" {
		filename = name + ".json"
	}
	path := filepath.Join(dir, filename)

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return nil, fmt.Errorf("writing snapshot %s: %w", path, err)
	}

	md := metadataToModel(f.Metadata)
	return &md, nil
}

// Load reads a snapshot by name or id from {cacheDir}/snapshots/. A
// checksum mismatch is logged by the caller via the returned error (a
// *model.SnapshotCorruptionError), but the snapshot is still returned per
// §7's "Snapshot corruption" policy: loading must not fail on mismatch.
func Load(cacheDir, idOrName string) (*model.Snapshot, error) {
	if cacheDir == "" {
		cacheDir = defaultCacheDir
	}
	path := filepath.Join(cacheDir, "snapshots", idOrName+".json")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", path, err)
	}

	schemas := make(map[model.ContainerIdentity]*model.ContainerSchema, len(f.Schemas))
	for _, e := range f.Schemas {
		schemas[model.ContainerIdentity{Database: e.Database, Name: e.Name}] = e.Schema
	}

	snap := &model.Snapshot{
		Version:       f.Version,
		Metadata:      metadataToModel(f.Metadata),
		Databases:     f.Databases,
		Schemas:       schemas,
		Relationships: f.Relationships,
	}

	actual, err := computeChecksum(f.Schemas, f.Relationships)
	if err != nil {
		return snap, fmt.Errorf("recomputing checksum for %s: %w", path, err)
	}
	if actual != f.Metadata.Checksum {
		return snap, &model.SnapshotCorruptionError{Path: path, Expected: f.Metadata.Checksum, Actual: actual}
	}

	return snap, nil
}

// LoadLatest reads the most recently created snapshot in {cacheDir}/snapshots/,
// named or not, used by `--diff` when no explicit `--diff-from` id or name
// is given.
func LoadLatest(cacheDir string) (*model.Snapshot, error) {
	if cacheDir == "" {
		cacheDir = defaultCacheDir
	}
	dir := filepath.Join(cacheDir, "snapshots")

	infos, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot directory: %w", err)
	}

	var latestName string
	var latestAt time.Time
	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, info.Name()))
		if err != nil {
			continue
		}
		var f file
		if err := json.Unmarshal(data, &f); err != nil {
			continue
		}
		if latestName == "" || f.Metadata.CreatedAt.After(latestAt) {
			latestName = strings.TrimSuffix(info.Name(), ".json")
			latestAt = f.Metadata.CreatedAt
		}
	}
	if latestName == "" {
		return nil, fmt.Errorf("no snapshots found in %s", dir)
	}
	return Load(cacheDir, latestName)
}

// Prune deletes unnamed snapshots (those whose metadata.name is empty)
// beyond the newest keepLast, ordered by createdAt. Named snapshots are
// never deleted, per the Snapshot lifecycle invariant in §3.
func Prune(cacheDir string, keepLast int) error {
	if cacheDir == "" {
		cacheDir = defaultCacheDir
	}
	dir := filepath.Join(cacheDir, "snapshots")

	infos, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading snapshot directory: %w", err)
	}

	type candidate struct {
		path      string
		createdAt time.Time
	}
	var unnamed []candidate
	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, info.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var f file
		if err := json.Unmarshal(data, &f); err != nil {
			continue
		}
		if f.Metadata.Name != "" {
			continue
		}
		unnamed = append(unnamed, candidate{path: path, createdAt: f.Metadata.CreatedAt})
	}

	sort.Slice(unnamed, func(i, j int) bool {
		return unnamed[i].createdAt.After(unnamed[j].createdAt)
	})

	if keepLast < 0 {
		keepLast = 0
	}
	for i := keepLast; i < len(unnamed); i++ {
		if err := os.Remove(unnamed[i].path); err != nil {
			return fmt.Errorf("pruning %s: %w", unnamed[i].path, err)
		}
	}
	return nil
}

func schemaEntries(schemas map[model.ContainerIdentity]*model.ContainerSchema) []schemaEntry {
	out := make([]schemaEntry, 0, len(schemas))
	for id, s := range schemas {
		out = append(out, schemaEntry{Database: id.Database, Name: id.Name, Schema: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Database != out[j].Database {
			return out[i].Database < out[j].Database
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// computeChecksum hashes the canonical JSON encoding of {schemas,
// relationships}: schemaEntries is already sorted by (database, name) and
// relationships are taken in the order the engine produced them, which is
// itself the stable ordering guaranteed by §5.
func computeChecksum(entries []schemaEntry, relationships []*model.Relationship) (string, error) {
	payload := struct {
		Schemas       []schemaEntry          `json:"schemas"`
		Relationships []*model.Relationship `json:"relationships"`
	}{Schemas: entries, Relationships: relationships}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// idFromTimestamp derives a filesystem-safe id from an ISO-8601 timestamp
// by replacing ':' and '.' with '-', per §6.
func idFromTimestamp(t time.Time) string {
	s := t.UTC().Format(time.RFC3339Nano)
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, ".", "-")
	return s
}

func metadataToModel(m metadata) model.SnapshotMetadata {
	return model.SnapshotMetadata{
		ID:                m.ID,
		Name:              m.Name,
		CreatedAt:         m.CreatedAt,
		SampleSize:        m.SampleSize,
		Databases:         m.Databases,
		ContainerCount:    m.ContainerCount,
		RelationshipCount: m.RelationshipCount,
		Checksum:          m.Checksum,
	}
}
