package confidence

import (
	"context"
	"strings"

	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
)

// cardinality is the informational cardinality observation described in
// SPEC_FULL.md §4.4. It is omitted entirely (nil) when there is no
// validating collaborator, per §9's resolution that this data is optional
// and simply absent from the summary when it cannot be computed.
//
// It samples raw (non-deduplicated) documents rather than calling
// GetDistinctValues, since the point is to count how often the same
// foreign-key value repeats across documents — distinct values alone
// cannot distinguish one-to-one from many-to-one.
func (c *Calculator) cardinality(ctx context.Context, rel *model.Relationship) *model.CardinalityObservation {
	if c.collaborator == nil {
		return nil
	}

	docs, err := c.collaborator.SampleDocuments(ctx, rel.FromDatabase, rel.FromContainer, c.sampleSize)
	if err != nil || len(docs) == 0 {
		return nil
	}

	counts := make(map[interface{}]int)
	for _, doc := range docs {
		v := extractPath(doc, rel.FromProperty)
		if v == nil {
			continue
		}
		counts[v]++
	}
	if len(counts) == 0 {
		return nil
	}

	maxRepeat := 0
	for _, n := range counts {
		if n > maxRepeat {
			maxRepeat = n
		}
	}

	return &model.CardinalityObservation{
		Observed:      true,
		OneToOne:      maxRepeat <= 1,
		DistinctCount: len(counts),
		MaxRepeat:     maxRepeat,
	}
}

// extractPath resolves a dotted property path (array markers stripped)
// against a decoded document tree, returning nil if any segment is
// missing or not an object.
func extractPath(doc map[string]interface{}, path string) interface{} {
	segments := strings.Split(path, ".")
	var cur interface{} = doc
	for _, seg := range segments {
		seg = strings.TrimSuffix(seg, "[]")
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil
		}
		cur, ok = m[seg]
		if !ok {
			return nil
		}
	}
	return cur
}
