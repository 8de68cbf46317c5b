package confidence

import (
	"context"

	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
)

// referentialIntegrity implements SPEC_FULL.md §4.4's referential-integrity
// factor: drawing distinct values of the source property and asking the
// collaborator which subset exist as "id" in the target container.
func (c *Calculator) referentialIntegrity(ctx context.Context, rel *model.Relationship) factorResult {
	if c.collaborator == nil {
		return factorResult{FactorScore: model.FactorScore{Score: 50, Reason: "not validated"}}
	}

	values, err := c.collaborator.GetDistinctValues(ctx, rel.FromDatabase, rel.FromContainer, rel.FromProperty, c.sampleSize)
	if err != nil {
		c.logger.Warn("referential integrity sampling failed for %s.%s: %v", rel.FromContainer, rel.FromProperty, err)
		return factorResult{FactorScore: model.FactorScore{Score: 0, Reason: err.Error()}}
	}

	nonNull := make([]interface{}, 0, len(values))
	for _, v := range values {
		if v != nil {
			nonNull = append(nonNull, v)
		}
	}

	if len(values) == 0 {
		return factorResult{FactorScore: model.FactorScore{Score: 0, Reason: "no values"}}
	}
	if len(nonNull) == 0 {
		return factorResult{FactorScore: model.FactorScore{Score: 10, Reason: "all sampled values were null"}, validated: true, matchRate: 0}
	}

	matched, err := c.collaborator.CheckIDsExist(ctx, rel.ToDatabase, rel.ToContainer, nonNull)
	if err != nil {
		c.logger.Warn("referential integrity existence check failed for %s -> %s: %v", rel.FromContainer, rel.ToContainer, err)
		return factorResult{FactorScore: model.FactorScore{Score: 0, Reason: err.Error()}}
	}

	r := float64(len(matched)) / float64(len(nonNull))
	return factorResult{
		FactorScore: model.FactorScore{Score: riScoreForRate(r), Reason: riReason(r)},
		validated:   true,
		matchRate:   r,
	}
}

// riScoreForRate maps a match rate to the confidence table in SPEC_FULL.md
// §4.4.
func riScoreForRate(r float64) float64 {
	switch {
	case r >= 0.95:
		return 95
	case r >= 0.85:
		return 85
	case r >= 0.70:
		return 70
	case r >= 0.50:
		return 50
	case r >= 0.30:
		return 30
	default:
		return 15
	}
}

func riReason(r float64) string {
	if r >= 0.95 {
		return "nearly all sampled values resolved to existing targets"
	}
	if r < 0.5 {
		return "most sampled values did not resolve to existing targets"
	}
	return "some sampled values did not resolve to existing targets"
}
