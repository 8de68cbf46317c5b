// Package classify implements the type classifier (SPEC_FULL.md §4.1): a
// pure, total function from a decoded JSON value to a closed value-type tag.
package classify

import (
	"math"

	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
)

// Classify resolves value to a tag. It never panics and never returns an
// error: every input, including a nil interface or an unrecognised
// concrete type, resolves to some tag (unrecognised concrete types fall
// back to "string" without inspecting the value, since documents are
// expected to arrive as the tree produced by encoding/json: nil,
// bool, float64, string, []interface{}, map[string]interface{}).
func Classify(value interface{}, custom []CustomPattern) model.Tag {
	switch v := value.(type) {
	case nil:
		return model.TagNull
	case bool:
		return model.TagBoolean
	case float64:
		return classifyNumber(v)
	case float32:
		return classifyNumber(float64(v))
	case int:
		return model.TagInteger
	case int32:
		return model.TagInteger
	case int64:
		return model.TagInteger
	case string:
		return classifyString(v, custom)
	case []interface{}:
		return model.TagArray
	case map[string]interface{}:
		return classifyObject(v)
	default:
		return model.TagString
	}
}

func classifyNumber(v float64) model.Tag {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return model.TagNumber
	}
	if v == math.Trunc(v) {
		return model.TagInteger
	}
	return model.TagNumber
}

func classifyString(v string, custom []CustomPattern) model.Tag {
	switch {
	case guidPattern.MatchString(v):
		return model.TagGUID
	case datePattern.MatchString(v):
		return model.TagDateTime
	case emailPattern.MatchString(v):
		return model.TagEmail
	case urlPattern.MatchString(v):
		return model.TagURL
	}
	for _, p := range phonePatterns {
		if p.MatchString(v) {
			return model.TagPhone
		}
	}
	for _, c := range custom {
		if c.Pattern.MatchString(v) {
			return model.Tag(c.Tag)
		}
	}
	return model.TagString
}

func classifyObject(v map[string]interface{}) model.Tag {
	switch {
	case isDateTimeObject(v):
		return model.TagDateTimeObject
	case isReferenceObject(v):
		return model.TagReferenceObject
	case isLookupObject(v):
		return model.TagLookupObject
	case isCaseInsensitiveString(v):
		return model.TagCaseInsensitiveString
	case isSimpleReference(v):
		return model.TagSimpleReference
	default:
		return model.TagObject
	}
}

func isDateTimeObject(v map[string]interface{}) bool {
	if !exactKeys(v, "Value", "Epoch") {
		return false
	}
	_, isString := v["Value"].(string)
	return isString && Classify(v["Epoch"], nil) == model.TagInteger
}

func isReferenceObject(v map[string]interface{}) bool {
	if !supersetKeys(v, "Id", "Name", "Code") {
		return false
	}
	return Classify(v["Id"], nil) == model.TagGUID &&
		Classify(v["Name"], nil) == model.TagString &&
		Classify(v["Code"], nil) == model.TagString
}

func isLookupObject(v map[string]interface{}) bool {
	if !supersetKeys(v, "Id", "Name", "Code") {
		return false
	}
	return Classify(v["Id"], nil) == model.TagInteger &&
		Classify(v["Name"], nil) == model.TagString &&
		Classify(v["Code"], nil) == model.TagString
}

func isCaseInsensitiveString(v map[string]interface{}) bool {
	if !exactKeys(v, "Value", "Lower") {
		return false
	}
	return Classify(v["Value"], nil) == model.TagString && Classify(v["Lower"], nil) == model.TagString
}

func isSimpleReference(v map[string]interface{}) bool {
	if !exactKeys(v, "Id", "Reference") {
		return false
	}
	return Classify(v["Id"], nil) == model.TagGUID
}

// exactKeys reports whether v's key set is precisely names.
func exactKeys(v map[string]interface{}, names ...string) bool {
	if len(v) != len(names) {
		return false
	}
	return supersetKeys(v, names...)
}

// supersetKeys reports whether v contains at least every key in names.
func supersetKeys(v map[string]interface{}, names ...string) bool {
	for _, n := range names {
		if _, ok := v[n]; !ok {
			return false
		}
	}
	return true
}
