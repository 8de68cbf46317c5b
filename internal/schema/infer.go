// Package schema implements the schema inferrer (SPEC_FULL.md §4.2): it
// walks a container's sampled documents and accumulates a per-path property
// catalog with observed types, frequency, optionality, examples, and
// array-item types.
//
// Grounded on the traversal shape of the Mimir schema-inference engine
// (pipelines/Ontology/schema_inference/engine.go in the retrieved corpus),
// adapted to this repository's closed tag set and property-record shape
// instead of that engine's column/AI-fallback model.
package schema

import (
	"sort"

	"github.com/afrugalpenguin/cosmos-mapper/internal/classify"
	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
)

// pass holds the mutable state accumulated across one call to Infer. Go's
// encoding/json decodes objects into map[string]interface{}, which carries
// no memory of source key order, so this implementation visits each
// object's keys in sorted order to make the resulting PropertyOrder (and
// therefore downstream relationship emission order) deterministic given the
// same document set, rather than depending on incidental map iteration.
type pass struct {
	schema   *model.ContainerSchema
	opts     Options
	distinct map[string]map[string]struct{} // path -> distinct string values seen (enum candidates)
	enumOrd  map[string][]string             // path -> distinct string values in first-seen order
	nulls    map[string]int                  // path -> count of documents where the value was null
}

// Infer walks documents and returns the resulting container schema.
func Infer(documents []map[string]interface{}, opts Options) *model.ContainerSchema {
	p := &pass{
		schema:   model.NewContainerSchema(),
		opts:     opts,
		distinct: make(map[string]map[string]struct{}),
		enumOrd:  make(map[string][]string),
		nulls:    make(map[string]int),
	}
	for _, doc := range documents {
		p.walk(doc, "")
	}
	p.schema.DocumentCount = len(documents)
	p.finalize()
	return p.schema
}

func (p *pass) walk(obj map[string]interface{}, parentPath string) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		if isMetadataKey(k) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		val := obj[key]
		path := joinPath(parentPath, key)
		rec := p.schema.Ensure(path, key, parentPath)
		rec.Occurrences++

		tag := classify.Classify(val, p.opts.CustomPatterns)
		rec.Types.Add(tag)
		p.recordExample(rec, val, tag)
		p.trackEnumCandidate(path, val, tag)
		if tag == model.TagNull {
			p.nulls[path]++
		}

		switch tag {
		case model.TagArray:
			rec.IsArray = true
			if rec.ArrayItemTypes == nil {
				rec.ArrayItemTypes = model.NewTagSet()
			}
			p.walkArray(rec, val.([]interface{}), path)
		case model.TagObject:
			if nested, ok := val.(map[string]interface{}); ok {
				p.walk(nested, path)
			}
		}
	}
}

func (p *pass) walkArray(parent *model.PropertyRecord, items []interface{}, path string) {
	itemPath := path + "[]"
	itemRec := p.schema.Ensure(itemPath, "[]", path)

	for _, item := range items {
		itemRec.Occurrences++
		itemTag := classify.Classify(item, p.opts.CustomPatterns)
		itemRec.Types.Add(itemTag)
		parent.ArrayItemTypes.Add(itemTag)
		p.recordExample(itemRec, item, itemTag)

		if itemTag == model.TagObject {
			if nested, ok := item.(map[string]interface{}); ok {
				p.walk(nested, itemPath)
			}
		}
	}
}

func (p *pass) finalize() {
	documentCount := p.schema.DocumentCount
	for path, rec := range p.schema.Properties {
		if documentCount > 0 {
			rec.Frequency = float64(rec.Occurrences) / float64(documentCount)
		}
		rec.IsRequired = rec.Frequency >= 0.95
		rec.Optionality = p.classifyOptionality(path, rec)
		p.finalizeEnum(path, rec)
	}
}

func (p *pass) classifyOptionality(path string, rec *model.PropertyRecord) model.Optionality {
	switch {
	case rec.Frequency >= 0.95:
		return model.OptionalityRequired
	case rec.Occurrences > 0 && float64(p.nulls[path])/float64(rec.Occurrences) >= 0.5:
		return model.OptionalityNullable
	case rec.Frequency >= 0.3 && p.nulls[path] == 0:
		return model.OptionalityOptional
	default:
		return model.OptionalitySparse
	}
}

func (p *pass) trackEnumCandidate(path string, val interface{}, tag model.Tag) {
	if !p.opts.Enum.Enabled || tag != model.TagString {
		return
	}
	s := val.(string)
	set, ok := p.distinct[path]
	if !ok {
		set = make(map[string]struct{})
		p.distinct[path] = set
	}
	if _, seen := set[s]; !seen {
		set[s] = struct{}{}
		p.enumOrd[path] = append(p.enumOrd[path], s)
	}
}

func (p *pass) finalizeEnum(path string, rec *model.PropertyRecord) {
	if !p.opts.Enum.Enabled {
		return
	}
	if rec.Types.Len() != 1 || !rec.Types.Has(model.TagString) {
		return
	}
	distinct := p.distinct[path]
	if len(distinct) == 0 || len(distinct) > p.opts.Enum.MaxUniqueValues {
		return
	}
	if rec.Frequency < p.opts.Enum.MinFrequency {
		return
	}
	rec.IsEnum = true
	rec.EnumValues = append([]string(nil), p.enumOrd[path]...)
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}
