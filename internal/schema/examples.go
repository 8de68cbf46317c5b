package schema

import (
	"fmt"
	"sort"
	"strings"

	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
)

const maxExamples = 5

// recordExample appends a formatted example to rec if it is distinct from
// the examples already recorded and the cap has not been reached, per the
// formatting rules in SPEC_FULL.md §4.2.
func (p *pass) recordExample(rec *model.PropertyRecord, value interface{}, tag model.Tag) {
	if len(rec.Examples) >= maxExamples {
		return
	}
	formatted := formatExample(value, tag)
	for _, existing := range rec.Examples {
		if existing == formatted {
			return
		}
	}
	rec.Examples = append(rec.Examples, formatted)
}

var structuralObjectTags = map[model.Tag]struct{}{
	model.TagObject:                {},
	model.TagDateTimeObject:        {},
	model.TagReferenceObject:       {},
	model.TagLookupObject:          {},
	model.TagCaseInsensitiveString: {},
	model.TagSimpleReference:       {},
}

func formatExample(value interface{}, tag model.Tag) string {
	switch tag {
	case model.TagArray:
		arr, _ := value.([]interface{})
		return fmt.Sprintf("[%d items]", len(arr))
	case model.TagNull:
		return "null"
	}
	if _, isStructural := structuralObjectTags[tag]; isStructural {
		if obj, ok := value.(map[string]interface{}); ok {
			return formatObjectExample(obj)
		}
	}
	return formatPrimitiveExample(value)
}

func formatObjectExample(obj map[string]interface{}) string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	const shown = 3
	if len(keys) <= shown {
		return "{" + strings.Join(keys, ", ") + "}"
	}
	return "{" + strings.Join(keys[:shown], ", ") + ", …}"
}

func formatPrimitiveExample(value interface{}) string {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case bool:
		if v {
			s = "true"
		} else {
			s = "false"
		}
	default:
		s = fmt.Sprint(v)
	}
	if len(s) > 50 {
		return s[:50] + "…"
	}
	return s
}
