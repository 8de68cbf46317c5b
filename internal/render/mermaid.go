package render

import (
	"fmt"
	"strings"

	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
	"github.com/afrugalpenguin/cosmos-mapper/internal/relate"
)

// Mermaid renders an entity-relationship diagram in Mermaid's erDiagram
// syntax. Relationships are deduplicated with relate.UniqueForERD (§4.3),
// which drops orphans and repeated edges with the same container pair and
// source property; a forward edge and its inverse have different source
// properties, so both are drawn.
func Mermaid(in Input) string {
	result := in.Result
	var sb strings.Builder
	sb.WriteString("erDiagram\n")

	for _, id := range orderedContainers(result) {
		schema := result.Schemas[id]
		fmt.Fprintf(&sb, "    %s {\n", mermaidEntity(id))
		for _, path := range orderedProperties(schema) {
			rec := schema.Properties[path]
			fmt.Fprintf(&sb, "        %s %s\n", mermaidType(rec), mermaidField(path))
		}
		sb.WriteString("    }\n")
	}

	for _, r := range relate.UniqueForERD(orderedRelationships(result.Relationships)) {
		if r.IsOrphan {
			continue // nothing to draw an edge to
		}
		crow := mermaidCardinality(r.Cardinality)
		fmt.Fprintf(&sb, "    %s %s %s : %q\n", mermaidEntity(model.ContainerIdentity{Database: r.FromDatabase, Name: r.FromContainer}), crow, mermaidEntity(model.ContainerIdentity{Database: r.ToDatabase, Name: r.ToContainer}), r.FromProperty)
	}

	return sb.String()
}

// mermaidEntity produces a diagram-safe entity name. Mermaid entity names
// can't contain '.', so cross-database containers are joined with '_'.
func mermaidEntity(id model.ContainerIdentity) string {
	return sanitizeMermaid(id.Database) + "_" + sanitizeMermaid(id.Name)
}

func mermaidField(path string) string {
	return sanitizeMermaid(path)
}

func sanitizeMermaid(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

func mermaidType(rec *model.PropertyRecord) string {
	tags := rec.Types.Sorted()
	if len(tags) == 0 {
		return "unknown"
	}
	return sanitizeMermaid(tags[0])
}

// mermaidCardinality maps a Cardinality to Mermaid's crow's-foot notation.
// many-to-one is drawn from the "many" side looking up to exactly "one".
func mermaidCardinality(c model.Cardinality) string {
	if c == model.CardinalityManyToOne {
		return "}o--||"
	}
	return "||--o{"
}
