package confidence

import (
	"strings"

	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
)

// namingPattern scores how strongly the source property's name and the
// target container's name agree, per SPEC_FULL.md §4.4. This mirrors the
// shape of the relationship detector's own rules (internal/relate/rules.go)
// but is deliberately independent: the detector decides *whether* a
// relationship exists, this scores *how well-named* one already found it
// is, and the two modules evolve separately.
func (c *Calculator) namingPattern(rel *model.Relationship) factorResult {
	prop := strings.ToLower(lastPathSegment(rel.FromProperty))
	container := strings.ToLower(rel.ToContainer)
	parent := strings.ToLower(parentSegment(rel.FromProperty))

	switch {
	case strings.HasSuffix(prop, "id") && matchesContainerOrPlural(prop, "id", container):
		return factorResult{FactorScore: model.FactorScore{Score: 95, Reason: "property name exactly matches {container}Id"}}
	case strings.HasSuffix(prop, "_id") && matchesContainerOrPlural(prop, "_id", container):
		return factorResult{FactorScore: model.FactorScore{Score: 90, Reason: "property name exactly matches {container}_id"}}
	case prop == "id" && parent != "" && parent == container:
		return factorResult{FactorScore: model.FactorScore{Score: 85, Reason: "nested id field under a parent matching the target container"}}
	case prop == container || prop == strings.TrimSuffix(container, "s"):
		return factorResult{FactorScore: model.FactorScore{Score: 60, Reason: "property name equals the target container name"}}
	case sharesPrefix(prop, container):
		return factorResult{FactorScore: model.FactorScore{Score: 70, Reason: "partial prefix overlap between property and container names"}}
	default:
		return factorResult{FactorScore: model.FactorScore{Score: 40, Reason: "no recognised naming pattern"}}
	}
}

// matchesContainerOrPlural reports whether prop, after stripping the given
// suffix, equals container or its naive plural.
func matchesContainerOrPlural(prop, suffix, container string) bool {
	base := strings.TrimSuffix(prop, suffix)
	return base == container || base+"s" == container || base == strings.TrimSuffix(container, "s")
}

func sharesPrefix(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	shorter, longer := a, b
	if len(longer) < len(shorter) {
		shorter, longer = longer, shorter
	}
	if len(shorter) < 3 {
		return false
	}
	return strings.HasPrefix(longer, shorter[:3])
}

func lastPathSegment(path string) string {
	path = strings.TrimSuffix(path, "[]")
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i+1:]
	}
	return path
}

func parentSegment(path string) string {
	path = strings.TrimSuffix(path, "[]")
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return ""
	}
	return lastPathSegment(path[:i])
}
