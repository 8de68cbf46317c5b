// Package relate implements the relationship detector (SPEC_FULL.md §4.3):
// candidate directed references between containers derived from naming
// patterns and structural type tags, resolved against a container catalog.
//
// Grounded on the naming/type pattern tables in the teacher's
// internal/detection/detector.go (initializeNamePatterns/initializeTypePatterns)
// and on the FK-suffix-to-target-lookup shape of the Mimir schema-inference
// engine's detectRelationships, adapted to this specification's explicit
// rule table and two-pass (same-database, then cross-database) resolution.
package relate

import (
	"strings"

	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
)

// Catalog is the read-only, once-built index of every container identity in
// a run, used to resolve a derived target name to zero, one, or many
// containers.
type Catalog struct {
	identities  []model.ContainerIdentity
	byLowerName map[string][]model.ContainerIdentity
}

// NewCatalog builds a Catalog from identities, preserving their given order
// (the spec requires containers to be processed "in the order the catalog
// enumerates them").
func NewCatalog(identities []model.ContainerIdentity) *Catalog {
	c := &Catalog{
		identities:  append([]model.ContainerIdentity(nil), identities...),
		byLowerName: make(map[string][]model.ContainerIdentity),
	}
	for _, id := range identities {
		key := strings.ToLower(id.Name)
		c.byLowerName[key] = append(c.byLowerName[key], id)
	}
	return c
}

// Identities returns the catalog in enumeration order.
func (c *Catalog) Identities() []model.ContainerIdentity { return c.identities }

// Exists reports whether any container's lower-cased name matches
// lowerName.
func (c *Catalog) Exists(lowerName string) bool {
	_, ok := c.byLowerName[lowerName]
	return ok
}

// resolution is the outcome of resolving a derived target base name.
type resolution struct {
	Identity          model.ContainerIdentity
	Found             bool
	IsOrphan          bool
	IsAmbiguous       bool
	IsCrossDatabase   bool
	PossibleDatabases []string
}

// resolve implements the two-pass target resolution in SPEC_FULL.md §4.3:
// same-database first, then cross-database collecting every matching
// database and picking deterministically when more than one matches.
func (c *Catalog) resolve(base string, source model.ContainerIdentity) resolution {
	variants := nameVariants(base)

	for _, v := range variants {
		for _, cand := range c.byLowerName[v] {
			if strings.EqualFold(cand.Database, source.Database) {
				return resolution{Identity: cand, Found: true}
			}
		}
	}

	var matchedDBs []string
	seen := make(map[string]model.ContainerIdentity)
	for _, v := range variants {
		for _, cand := range c.byLowerName[v] {
			if identityEqual(cand, source) {
				continue
			}
			key := strings.ToLower(cand.Database)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = cand
			matchedDBs = append(matchedDBs, key)
		}
	}

	if len(matchedDBs) == 0 {
		return resolution{IsOrphan: true}
	}
	first := seen[matchedDBs[0]]
	if len(matchedDBs) == 1 {
		return resolution{Identity: first, Found: true, IsCrossDatabase: true}
	}

	possible := make([]string, len(matchedDBs))
	for i, key := range matchedDBs {
		possible[i] = seen[key].Database
	}
	return resolution{
		Identity:          first,
		Found:             true,
		IsCrossDatabase:   true,
		IsAmbiguous:       true,
		PossibleDatabases: possible,
	}
}

func identityEqual(a, b model.ContainerIdentity) bool {
	return strings.EqualFold(a.Name, b.Name) && strings.EqualFold(a.Database, b.Database)
}

// nameVariants generates the candidate spellings for a derived target base
// name: the base itself, its naive plural, its naive singular, and the
// "ies"-to-"y" singularization when applicable. Degenerate or duplicate
// variants collapse naturally since resolve looks them up by exact key.
func nameVariants(base string) []string {
	variants := []string{base, base + "s"}
	if trimmed := strings.TrimSuffix(base, "s"); trimmed != base {
		variants = append(variants, trimmed)
	}
	if strings.HasSuffix(base, "ies") {
		variants = append(variants, strings.TrimSuffix(base, "ies")+"y")
	}

	seen := make(map[string]struct{}, len(variants))
	out := make([]string, 0, len(variants))
	for _, v := range variants {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
