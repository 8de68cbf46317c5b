package render

import (
	"fmt"
	"strings"

	"github.com/afrugalpenguin/cosmos-mapper/internal/diff"
)

// Markdown renders a human-readable report: one section per container with
// its property table, followed by a relationship table, and (when present)
// a change-summary section from a prior comparison.
func Markdown(in Input) string {
	result := in.Result
	var sb strings.Builder

	sb.WriteString("# Schema analysis\n\n")
	fmt.Fprintf(&sb, "- Databases: %s\n", strings.Join(result.Databases, ", "))
	fmt.Fprintf(&sb, "- Sample size: %d\n", result.SampleSize)
	fmt.Fprintf(&sb, "- Generated: %s\n\n", result.Timestamp.UTC().Format("2006-01-02T15:04:05Z07:00"))

	for _, id := range orderedContainers(result) {
		schema := result.Schemas[id]
		fmt.Fprintf(&sb, "## %s.%s\n\n", id.Database, id.Name)
		fmt.Fprintf(&sb, "%d documents sampled.\n\n", schema.DocumentCount)
		sb.WriteString("| Property | Types | Frequency | Optionality |\n")
		sb.WriteString("|---|---|---|---|\n")
		for _, path := range orderedProperties(schema) {
			rec := schema.Properties[path]
			fmt.Fprintf(&sb, "| %s | %s | %.2f | %s |\n", path, strings.Join(rec.Types.Sorted(), ", "), rec.Frequency, rec.Optionality)
		}
		sb.WriteString("\n")
	}

	rels := orderedRelationships(result.Relationships)
	if len(rels) > 0 {
		sb.WriteString("## Relationships\n\n")
		sb.WriteString("| From | Property | To | Cardinality | Confidence |\n")
		sb.WriteString("|---|---|---|---|---|\n")
		for _, r := range rels {
			confidence := "n/a"
			if r.Confidence != nil {
				confidence = fmt.Sprintf("%.0f (%s)", r.Confidence.Score, r.Confidence.Level)
			}
			target := r.ToContainer
			if r.IsOrphan {
				target = "(unresolved)"
			}
			fmt.Fprintf(&sb, "| %s.%s | %s | %s | %s | %s |\n", r.FromDatabase, r.FromContainer, r.FromProperty, target, r.Cardinality, confidence)
		}
		sb.WriteString("\n")
	}

	if in.Comparison != nil {
		writeComparisonSection(&sb, in.Comparison)
	}

	return sb.String()
}

func writeComparisonSection(sb *strings.Builder, cmp *diff.Result) {
	s := cmp.Summary
	fmt.Fprintf(sb, "## Changes\n\n%d total (%d added, %d removed, %d changed, %d breaking)\n\n", s.TotalChanges, s.Added, s.Removed, s.Changed, s.BreakingChanges)

	if len(cmp.ContainerChanges) > 0 {
		sb.WriteString("| Container | Kind | Impact |\n|---|---|---|\n")
		for _, c := range cmp.ContainerChanges {
			fmt.Fprintf(sb, "| %s.%s | %s | %s |\n", c.Container.Database, c.Container.Name, c.Kind, c.Impact)
		}
		sb.WriteString("\n")
	}
	if len(cmp.PropertyChanges) > 0 {
		sb.WriteString("| Container | Property | Kind | Impact | Detail |\n|---|---|---|---|---|\n")
		for _, c := range cmp.PropertyChanges {
			fmt.Fprintf(sb, "| %s.%s | %s | %s | %s | %s |\n", c.Container.Database, c.Container.Name, c.Path, c.Kind, c.Impact, c.Detail)
		}
		sb.WriteString("\n")
	}
	if len(cmp.RelationshipChanges) > 0 {
		sb.WriteString("| Relationship | Kind | Impact | Detail |\n|---|---|---|---|\n")
		for _, c := range cmp.RelationshipChanges {
			fmt.Fprintf(sb, "| %s | %s | %s | %s |\n", c.Key, c.Kind, c.Impact, c.Detail)
		}
		sb.WriteString("\n")
	}
}
