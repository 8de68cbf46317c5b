// Package confidence implements the confidence calculator (SPEC_FULL.md
// §4.4): for each candidate relationship it computes four factor
// sub-scores — referential integrity, type consistency, frequency, and
// naming pattern — and combines them into a weighted composite score.
//
// Grounded on the teacher's internal/classifier/scoring.ScoringEngine
// (weighted Σ w·v / Σ w composite, clamped to a bounded range) and its
// internal/detection/detector.go calculateRiskScore (clamped weighted
// average idiom), adapted from that engine's multi-category table
// classification to this specification's single composite score per
// relationship.
package confidence

import (
	"context"
	"math"

	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
	"github.com/afrugalpenguin/cosmos-mapper/internal/store"
	"github.com/afrugalpenguin/cosmos-mapper/pkg/syslog"
)

// Weights are the per-factor weights used to combine factor sub-scores into
// a composite. The calculator normalises by the sum of weights actually
// used, so a caller supplying a reduced weight set (e.g. zeroing a factor
// out) never inflates the remaining factors.
type Weights struct {
	ReferentialIntegrity float64
	TypeConsistency      float64
	Frequency            float64
	NamingPattern        float64
}

// DefaultWeights returns the documented default weighting.
func DefaultWeights() Weights {
	return Weights{ReferentialIntegrity: 0.45, TypeConsistency: 0.20, Frequency: 0.15, NamingPattern: 0.20}
}

// Calculator computes ConfidenceAnalysis values for relationships. The
// validating collaborator is optional: a nil store.DocumentStoreClient
// disables referential-integrity sampling and cardinality analysis,
// degrading gracefully to the documented "not validated" neutral score.
type Calculator struct {
	weights      Weights
	sampleSize   int
	collaborator store.DocumentStoreClient
	logger       syslog.FieldLogger
}

// New returns a Calculator. logger may be nil, in which case a discarding
// logger is used.
func New(collaborator store.DocumentStoreClient, weights Weights, sampleSize int, logger *syslog.Logger) *Calculator {
	if logger == nil {
		logger = syslog.Noop()
	}
	return &Calculator{
		weights:      weights,
		sampleSize:   sampleSize,
		collaborator: collaborator,
		logger:       logger.WithFields(nil),
	}
}

// Compute assigns a ConfidenceAnalysis to rel, given the source container's
// schema (to read the source property's types and frequency) and the
// target container's schema, if resolved (to read its id property's
// types). toSchema is nil for orphan relationships.
func (c *Calculator) Compute(ctx context.Context, rel *model.Relationship, fromSchema, toSchema *model.ContainerSchema) *model.ConfidenceAnalysis {
	if rel.IsOrphan {
		return &model.ConfidenceAnalysis{
			Score:   15,
			Level:   model.LevelVeryLow,
			Summary: "Orphan relationship: no matching container found",
		}
	}

	fromRec := fromSchema.Properties[rel.FromProperty]

	ri := c.referentialIntegrity(ctx, rel)
	tc := c.typeConsistency(fromRec, toSchema)
	freq := c.frequency(fromRec)
	naming := c.namingPattern(rel)

	weighted := []struct {
		weight float64
		score  float64
	}{
		{c.weights.ReferentialIntegrity, ri.Score},
		{c.weights.TypeConsistency, tc.Score},
		{c.weights.Frequency, freq.Score},
		{c.weights.NamingPattern, naming.Score},
	}
	composite := weightedAverage(weighted)

	analysis := &model.ConfidenceAnalysis{
		Score:                composite,
		Level:                model.LevelForScore(composite),
		ReferentialIntegrity: ri.FactorScore,
		TypeConsistency:      tc.FactorScore,
		Frequency:            freq.FactorScore,
		NamingPattern:        naming.FactorScore,
		Validated:            c.collaborator != nil && ri.validated,
	}
	analysis.Denormalization = c.denormalization(fromRec, rel, fromSchema)
	analysis.Cardinality = c.cardinality(ctx, rel)
	analysis.Summary = buildSummary(rel, analysis, ri.matchRate)

	return analysis
}

// weightedAverage computes round(Σ w_i·c_i / Σ w_i), clamped to [0,100].
func weightedAverage(pairs []struct {
	weight float64
	score  float64
}) float64 {
	var num, den float64
	for _, p := range pairs {
		num += p.weight * p.score
		den += p.weight
	}
	if den == 0 {
		return 0
	}
	v := num / den
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return math.Round(v)
}

// factorResult carries a factor's score/reason plus the internal detail
// only this package needs to build the human summary (whether the factor
// was actually validated against the collaborator, and its raw match rate).
type factorResult struct {
	model.FactorScore
	validated bool
	matchRate float64
}
