package confidence

import (
	"strings"

	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
)

// snapshotFieldNames are the field names (lower-cased) that, if present
// under a foreign key's base name, suggest the source document carries a
// denormalised copy of the referenced row, per SPEC_FULL.md §4.4.
var snapshotFieldNames = map[string]struct{}{
	"name": {}, "code": {}, "title": {}, "description": {},
	"status": {}, "email": {}, "displayname": {},
}

// denormalization implements the informational denormalisation detector:
// it looks for a nested object under the foreign key's base name and
// checks whether its fields look like a cached copy of the referenced row.
func (c *Calculator) denormalization(fromRec *model.PropertyRecord, rel *model.Relationship, fromSchema *model.ContainerSchema) *model.Denormalization {
	if fromRec == nil {
		return nil
	}
	base := foreignKeyBase(fromRec.Name)
	if base == "" {
		return nil
	}

	basePath := base
	if fromRec.ParentPath != "" {
		basePath = fromRec.ParentPath + "." + base
	}

	var nestedFields []string
	for _, path := range fromSchema.PropertyOrder {
		rec := fromSchema.Properties[path]
		if rec.ParentPath == basePath {
			nestedFields = append(nestedFields, strings.ToLower(rec.Name))
		}
	}

	if len(nestedFields) == 0 {
		return &model.Denormalization{State: model.DenormalizationFalse, Confidence: 80}
	}

	for _, f := range nestedFields {
		if _, ok := snapshotFieldNames[f]; ok {
			return &model.Denormalization{State: model.DenormalizationTrue, Confidence: 85}
		}
	}
	return &model.Denormalization{State: model.DenormalizationPossible, Confidence: 50}
}

// foreignKeyBase strips a recognised Id/_id suffix from a property name,
// returning "" if name does not look like a foreign key field.
func foreignKeyBase(name string) string {
	switch {
	case strings.HasSuffix(name, "Id") && name != "Id":
		return strings.TrimSuffix(name, "Id")
	case strings.HasSuffix(name, "_id"):
		return strings.TrimSuffix(name, "_id")
	default:
		return ""
	}
}
