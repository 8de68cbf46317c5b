package relate

import (
	"strings"

	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
)

// DetectForContainer runs rules P1-P5 over every property in schema and
// resolves each resulting candidate against catalog, returning the
// container's forward (many-to-one) relationships in deterministic order.
//
// Self-references (a candidate that resolves back to the source container
// itself) are discarded entirely. Bare name-match candidates (P5) that fail
// to resolve to any container are discarded rather than reported as
// orphans, since a name coincidence with no catalog match is not evidence
// of anything; P1-P4 candidates are reported as orphans because the
// property shape itself is the evidence, independent of whether the target
// container exists.
func DetectForContainer(schema *model.ContainerSchema, source model.ContainerIdentity, catalog *Catalog) []*model.Relationship {
	var out []*model.Relationship
	seen := make(map[string]struct{})

	for _, path := range schema.PropertyOrder {
		rec := schema.Properties[path]
		for _, cand := range candidatesForRecord(rec, source.Name) {
			res := catalog.resolve(cand.targetBase, source)

			if res.Found && identityEqual(res.Identity, source) {
				continue
			}
			if cand.rule == ruleP5BareNameMatch && res.IsOrphan {
				continue
			}

			rel := &model.Relationship{
				FromContainer: source.Name,
				FromDatabase:  source.Database,
				FromProperty:  cand.fromProperty,
				ToProperty:    "id",
				Cardinality:   model.CardinalityManyToOne,
				IsOrphan:      res.IsOrphan,
				IsAmbiguous:   res.IsAmbiguous,
			}
			if res.Found {
				rel.ToContainer = res.Identity.Name
				rel.ToDatabase = res.Identity.Database
				rel.IsCrossDatabase = res.IsCrossDatabase
				rel.PossibleDatabases = res.PossibleDatabases
			} else {
				rel.ToContainer = cand.targetBase
			}

			key := strings.ToLower(rel.FromContainer) + "|" + strings.ToLower(rel.ToContainer) + "|" + rel.FromProperty
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, rel)
		}
	}

	return out
}
