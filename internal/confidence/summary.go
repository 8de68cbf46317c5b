package confidence

import (
	"fmt"

	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
)

// buildSummary concatenates the human-readable summary described in
// SPEC_FULL.md §4.4: a headline, an optional integrity modifier, an
// optional denormalisation flag, an optional cardinality tag, and the
// cross-database/ambiguous flags.
func buildSummary(rel *model.Relationship, analysis *model.ConfidenceAnalysis, matchRate float64) string {
	s := headline(analysis.Level)

	if analysis.Validated {
		if matchRate >= 0.9 {
			s += "; referential integrity strongly confirmed"
		} else if matchRate < 0.5 {
			s += "; referential integrity weakly confirmed"
		}
	}

	if analysis.Denormalization != nil && analysis.Denormalization.State == model.DenormalizationTrue {
		s += "; denormalized copy detected"
	}

	if analysis.Cardinality != nil && analysis.Cardinality.Observed {
		if analysis.Cardinality.OneToOne {
			s += " [1:1]"
		} else {
			s += " [N:1]"
		}
	}

	if rel.IsCrossDatabase {
		s += " [cross-database]"
	}
	if rel.IsAmbiguous {
		s += " [ambiguous target]"
	}

	return s
}

func headline(level model.ConfidenceLevel) string {
	switch level {
	case model.LevelHigh:
		return "High confidence relationship"
	case model.LevelMedium:
		return fmt.Sprintf("Likely relationship (%s confidence)", level)
	case model.LevelLow:
		return fmt.Sprintf("Possible relationship (%s confidence)", level)
	default:
		return "Uncertain relationship"
	}
}
