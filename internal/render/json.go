package render

import (
	"encoding/json"

	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
)

// jsonContainer mirrors one container's rendered shape: name, database, and
// its properties in the §6 stable order (json.Marshal on a map would sort
// keys alphabetically regardless, so the slice form is what actually
// carries the ordering guarantee through to the output bytes).
type jsonContainer struct {
	Database      string                  `json:"database"`
	Name          string                  `json:"name"`
	DocumentCount int                     `json:"documentCount"`
	Properties    []*model.PropertyRecord `json:"properties"`
}

type jsonDocument struct {
	Databases     []string               `json:"databases"`
	SampleSize    int                    `json:"sampleSize"`
	Timestamp     string                 `json:"timestamp"`
	Containers    []jsonContainer        `json:"containers"`
	Relationships []*model.Relationship  `json:"relationships"`
	Comparison    interface{}            `json:"comparison,omitempty"`
}

// JSON renders the analysis (plus optional comparison) as indented JSON.
func JSON(in Input) ([]byte, error) {
	result := in.Result
	doc := jsonDocument{
		Databases:     result.Databases,
		SampleSize:    result.SampleSize,
		Timestamp:     result.Timestamp.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Relationships: orderedRelationships(result.Relationships),
	}

	for _, id := range orderedContainers(result) {
		schema := result.Schemas[id]
		props := make([]*model.PropertyRecord, 0, len(schema.Properties))
		for _, path := range orderedProperties(schema) {
			props = append(props, schema.Properties[path])
		}
		doc.Containers = append(doc.Containers, jsonContainer{
			Database:      id.Database,
			Name:          id.Name,
			DocumentCount: schema.DocumentCount,
			Properties:    props,
		})
	}

	if in.Comparison != nil {
		doc.Comparison = in.Comparison
	}

	return json.MarshalIndent(doc, "", "  ")
}
