// Package render emits an AnalysisResult in the three output formats the
// command surface supports: JSON, Markdown, and a Mermaid ERD. Per
// SPEC_FULL.md §1/§12 this is deliberately simple plumbing — no new
// analytical semantics, only presentation of the ordering rules already
// established by the engine.
//
// Grounded on the teacher's services/unifiedmodel/internal/generators
// package (one Generate* method per target, strings.Builder + fmt.Sprintf
// assembly, BaseGenerator default-value helpers), narrowed from SQL/Cypher
// generation to report rendering.
package render

import (
	"sort"

	"github.com/afrugalpenguin/cosmos-mapper/internal/diff"
	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
)

// Format names the supported output formats, matching the --format flag.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMarkdown Format = "markdown"
	FormatMermaid Format = "mermaid"
)

// Input is what a renderer consumes: the analysis result plus an optional
// comparison against a prior snapshot (§6 "Renderer collaborators").
type Input struct {
	Result     *model.AnalysisResult
	Comparison *diff.Result // nil when rendering a bare analysis
}

// orderedContainers returns the result's containers in catalog order,
// falling back to a sorted walk of Schemas if ContainerOrder is empty (as
// when rendering a loaded snapshot rather than a fresh engine run).
func orderedContainers(result *model.AnalysisResult) []model.ContainerIdentity {
	if len(result.ContainerOrder) > 0 {
		return result.ContainerOrder
	}
	out := make([]model.ContainerIdentity, 0, len(result.Schemas))
	for id := range result.Schemas {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Database != out[j].Database {
			return out[i].Database < out[j].Database
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// orderedProperties sorts a schema's property paths per §6: id first, then
// required properties, then alphabetic.
func orderedProperties(s *model.ContainerSchema) []string {
	paths := append([]string(nil), s.PropertyOrder...)
	sort.Slice(paths, func(i, j int) bool {
		a, b := paths[i], paths[j]
		ra, rb := s.Properties[a], s.Properties[b]
		if idRank(a) != idRank(b) {
			return idRank(a) < idRank(b)
		}
		if ra.IsRequired != rb.IsRequired {
			return ra.IsRequired
		}
		return a < b
	})
	return paths
}

func idRank(path string) int {
	if path == "id" {
		return 0
	}
	return 1
}

// orderedRelationships sorts relationships by (fromContainer, fromProperty,
// toContainer), per §6.
func orderedRelationships(rels []*model.Relationship) []*model.Relationship {
	out := append([]*model.Relationship(nil), rels...)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.FromContainer != b.FromContainer {
			return a.FromContainer < b.FromContainer
		}
		if a.FromProperty != b.FromProperty {
			return a.FromProperty < b.FromProperty
		}
		return a.ToContainer < b.ToContainer
	})
	return out
}
