package diff

import (
	"fmt"
	"sort"

	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
)

// compareRelationships implements the relationship diff in SPEC_FULL.md
// §4.5, keying each relationship by
// "fromDb.fromContainer.fromProperty -> toDb.toContainer".
func compareRelationships(baseline, current *model.AnalysisResult, result *Result) {
	baseByKey := indexRelationships(baseline.Relationships)
	currByKey := indexRelationships(current.Relationships)

	var changes []RelationshipChange

	for key, curr := range currByKey {
		base, ok := baseByKey[key]
		if !ok {
			changes = append(changes, RelationshipChange{Key: key, Kind: RelationshipAdded, Impact: ImpactInfo})
			continue
		}
		changes = append(changes, compareRelationshipPair(key, base, curr)...)
	}
	for key := range baseByKey {
		if _, ok := currByKey[key]; !ok {
			changes = append(changes, RelationshipChange{Key: key, Kind: RelationshipRemoved, Breaking: true, Impact: ImpactCritical})
		}
	}

	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Key != changes[j].Key {
			return changes[i].Key < changes[j].Key
		}
		return changes[i].Kind < changes[j].Kind
	})
	result.RelationshipChanges = changes
}

func compareRelationshipPair(key string, base, curr *model.Relationship) []RelationshipChange {
	var changes []RelationshipChange

	if base.Cardinality != curr.Cardinality {
		breaking := base.Cardinality == model.CardinalityManyToOne && curr.Cardinality != model.CardinalityManyToOne
		changes = append(changes, RelationshipChange{
			Key: key, Kind: CardinalityChanged, Breaking: breaking,
			Impact: impactFor(breaking, false), Detail: fmt.Sprintf("%s -> %s", base.Cardinality, curr.Cardinality),
		})
	}

	baseScore, currScore := scoreOf(base), scoreOf(curr)
	if diffAbs(currScore, baseScore) > 20 {
		breaking := currScore < baseScore-40
		changes = append(changes, RelationshipChange{
			Key: key, Kind: ConfidenceChanged, Breaking: breaking,
			Impact: impactFor(breaking, false), Detail: fmt.Sprintf("%.0f -> %.0f", baseScore, currScore),
		})
	}

	return changes
}

func scoreOf(r *model.Relationship) float64 {
	if r.Confidence == nil {
		return 0
	}
	return r.Confidence.Score
}

func indexRelationships(rels []*model.Relationship) map[string]*model.Relationship {
	out := make(map[string]*model.Relationship, len(rels))
	for _, r := range rels {
		key := fmt.Sprintf("%s.%s.%s -> %s.%s", r.FromDatabase, r.FromContainer, r.FromProperty, r.ToDatabase, r.ToContainer)
		out[key] = r
	}
	return out
}
