package engine

import (
	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
	"github.com/afrugalpenguin/cosmos-mapper/internal/relate"
)

// detectRelationships runs relationship detection as a single-threaded
// reduction over the assembled schemas, in catalog order, then appends the
// inverse one-to-many edges, per SPEC_FULL.md §4.3/§5 ("Relationship
// detection runs after all schemas are assembled; it is a pure reduction
// and may be single-threaded").
func (e *Engine) detectRelationships(identities []model.ContainerIdentity, schemas map[model.ContainerIdentity]*model.ContainerSchema, catalog *relate.Catalog) []*model.Relationship {
	var forward []*model.Relationship
	for _, id := range identities {
		s, ok := schemas[id]
		if !ok {
			continue // sampling failed for this container; no schema, no relationships
		}
		forward = append(forward, relate.DetectForContainer(s, id, catalog)...)
	}

	inverted := relate.Invert(forward)
	return append(forward, inverted...)
}
