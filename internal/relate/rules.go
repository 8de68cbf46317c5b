package relate

import (
	"strings"

	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
)

// ruleName identifies which pattern produced a candidate, used only to
// decide whether rule P5 is suppressed for a property that an earlier rule
// already matched.
type ruleName int

const (
	ruleNone ruleName = iota
	ruleP1PascalIDSuffix
	ruleP2SnakeIDSuffix
	ruleP3NestedID
	ruleP4StructuralReference
	ruleP5BareNameMatch
)

// candidate is a not-yet-resolved relationship target derived from one
// property by one rule.
type candidate struct {
	rule         ruleName
	fromProperty string
	targetBase   string
}

// candidatesForRecord applies rules P1 through P5 to a single property
// record and returns every candidate it produces. A property can yield more
// than one candidate (for example a property typed as a structural
// reference object whose name also ends in "Id").
func candidatesForRecord(rec *model.PropertyRecord, sourceName string) []candidate {
	if rec.Name == "id" {
		return nil
	}

	var out []candidate
	fired := false

	// P1: PascalCase "...Id" suffix, e.g. "StoreId" -> "store".
	if rec.Name != "Id" && strings.HasSuffix(rec.Name, "Id") {
		base := strings.TrimSuffix(rec.Name, "Id")
		if base != "" {
			out = append(out, candidate{rule: ruleP1PascalIDSuffix, fromProperty: rec.Path, targetBase: strings.ToLower(base)})
			fired = true
		}
	}

	// P2: snake_case "..._id" suffix, e.g. "store_id" -> "store".
	if strings.HasSuffix(rec.Name, "_id") {
		base := strings.TrimSuffix(rec.Name, "_id")
		if base != "" {
			out = append(out, candidate{rule: ruleP2SnakeIDSuffix, fromProperty: rec.Path, targetBase: strings.ToLower(base)})
			fired = true
		}
	}

	// P3: a nested "Id" field names its parent object's container, e.g.
	// "shippingAddress.Id" -> "shippingaddress".
	if rec.Name == "Id" && rec.ParentPath != "" {
		parentName := lastSegment(rec.ParentPath)
		target := strings.ToLower(parentName)
		if !strings.EqualFold(target, sourceName) {
			out = append(out, candidate{rule: ruleP3NestedID, fromProperty: rec.ParentPath, targetBase: target})
			fired = true
		}
	}

	// P4: the value itself was classified as a structural reference shape.
	if rec.Types.Has(model.TagReferenceObject) || rec.Types.Has(model.TagSimpleReference) {
		target := strings.ToLower(rec.Name)
		if !strings.EqualFold(target, sourceName) {
			out = append(out, candidate{rule: ruleP4StructuralReference, fromProperty: rec.Path, targetBase: target})
			fired = true
		}
	}

	// P5: the bare property name happens to match a known container name.
	// Suppressed once any earlier rule has already produced a candidate for
	// this same property, since that candidate is the more specific signal.
	if !fired {
		out = append(out, candidate{rule: ruleP5BareNameMatch, fromProperty: rec.Path, targetBase: strings.ToLower(rec.Name)})
	}

	return out
}

// lastSegment returns the final dotted segment of a property path, with any
// trailing array marker stripped.
func lastSegment(path string) string {
	path = strings.TrimSuffix(path, "[]")
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i+1:]
	}
	return path
}
