package confidence

import "github.com/afrugalpenguin/cosmos-mapper/internal/model"

// frequency scores the source property's populated frequency, per
// SPEC_FULL.md §4.4.
func (c *Calculator) frequency(fromRec *model.PropertyRecord) factorResult {
	if fromRec == nil {
		return factorResult{FactorScore: model.FactorScore{Score: 20, Reason: "source property unavailable"}}
	}
	f := fromRec.Frequency
	switch {
	case f >= 0.95:
		return factorResult{FactorScore: model.FactorScore{Score: 90, Reason: "populated in nearly all documents"}}
	case f >= 0.70:
		return factorResult{FactorScore: model.FactorScore{Score: 70, Reason: "populated in most documents"}}
	case f >= 0.30:
		return factorResult{FactorScore: model.FactorScore{Score: 45, Reason: "populated in a minority of documents"}}
	default:
		return factorResult{FactorScore: model.FactorScore{Score: 20, Reason: "rarely populated"}}
	}
}
