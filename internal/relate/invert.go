package relate

import (
	"strings"

	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
)

// Invert returns the one-to-many inverse of every non-orphan relationship in
// forward. Orphan relationships have no real target container to invert
// from, so they are skipped.
func Invert(forward []*model.Relationship) []*model.Relationship {
	var out []*model.Relationship
	for _, r := range forward {
		if r.IsOrphan {
			continue
		}
		out = append(out, InvertOne(r))
	}
	return out
}

// InvertOne returns the single inverse of r: endpoints swapped, cardinality
// flipped. For the many-to-one forward edges this package detects (whose
// toProperty is always "id"), this reads exactly as the spec describes it —
// fromProperty becomes "id" and toProperty becomes the original fromProperty
// — but swapping the endpoints directly, rather than hardcoding "id", is
// what makes invert(invert(r)) == r hold for the one-to-many result too.
func InvertOne(r *model.Relationship) *model.Relationship {
	inverse := model.CardinalityOneToMany
	if r.Cardinality == model.CardinalityOneToMany {
		inverse = model.CardinalityManyToOne
	}
	return &model.Relationship{
		FromContainer: r.ToContainer,
		FromDatabase:  r.ToDatabase,
		FromProperty:  r.ToProperty,

		ToContainer: r.FromContainer,
		ToDatabase:  r.FromDatabase,
		ToProperty:  r.FromProperty,

		Cardinality: inverse,

		IsCrossDatabase:   r.IsCrossDatabase,
		IsAmbiguous:       r.IsAmbiguous,
		PossibleDatabases: r.PossibleDatabases,

		Confidence: r.Confidence,
	}
}

// UniqueForERD drops orphan relationships and collapses duplicate edges
// (same pair of containers and source property, regardless of direction's
// bookkeeping) to the edge set an ERD renderer should draw once.
func UniqueForERD(all []*model.Relationship) []*model.Relationship {
	var out []*model.Relationship
	seen := make(map[string]struct{})
	for _, r := range all {
		if r.IsOrphan {
			continue
		}
		a, b := strings.ToLower(r.FromContainer), strings.ToLower(r.ToContainer)
		if a > b {
			a, b = b, a
		}
		key := a + "|" + b + "|" + r.FromProperty
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}
