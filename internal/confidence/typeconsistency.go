package confidence

import "github.com/afrugalpenguin/cosmos-mapper/internal/model"

// typeConsistency compares the source property's observed types against
// the target container's id property types, per SPEC_FULL.md §4.4.
func (c *Calculator) typeConsistency(fromRec *model.PropertyRecord, toSchema *model.ContainerSchema) factorResult {
	if fromRec == nil || toSchema == nil {
		return factorResult{FactorScore: model.FactorScore{Score: 30, Reason: "source or target schema unavailable"}}
	}
	idRec, ok := toSchema.Properties["id"]
	if !ok {
		return factorResult{FactorScore: model.FactorScore{Score: 30, Reason: "target has no id property"}}
	}

	overlap := 0
	for _, t := range fromRec.Types.Slice() {
		if idRec.Types.Has(t) {
			overlap++
		}
	}

	switch {
	case overlap == 0:
		return factorResult{FactorScore: model.FactorScore{Score: 20, Reason: "no overlapping types with target id"}}
	case fromRec.Types.Len() == 1 && idRec.Types.Len() == 1 && overlap == 1:
		return factorResult{FactorScore: model.FactorScore{Score: 90, Reason: "exact single-type match with target id"}}
	default:
		return factorResult{FactorScore: model.FactorScore{Score: 65, Reason: "partial type overlap with target id"}}
	}
}
