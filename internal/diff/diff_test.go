package diff

import (
	"testing"
	"time"

	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
)

func schemaWithFields(fields ...string) *model.ContainerSchema {
	s := model.NewContainerSchema()
	idRec := s.Ensure("id", "id", "")
	idRec.Occurrences = 10
	idRec.Frequency = 1
	idRec.IsRequired = true
	for _, f := range fields {
		rec := s.Ensure(f, f, "")
		rec.Occurrences = 10
		rec.Frequency = 1
		rec.IsRequired = true
	}
	s.DocumentCount = 10
	return s
}

func analysisWith(schemas map[model.ContainerIdentity]*model.ContainerSchema) *model.AnalysisResult {
	return &model.AnalysisResult{Schemas: schemas, Timestamp: time.Unix(0, 0)}
}

func TestDiffIdentity(t *testing.T) {
	id := model.ContainerIdentity{Database: "db", Name: "products"}
	a := analysisWith(map[model.ContainerIdentity]*model.ContainerSchema{id: schemaWithFields("name")})

	result := Compare(a, a)
	if result.Summary.TotalChanges != 0 {
		t.Fatalf("compare(A, A) should have zero changes, got %d", result.Summary.TotalChanges)
	}
}

func TestDiffAddsAndRemoves(t *testing.T) {
	id := model.ContainerIdentity{Database: "db", Name: "products"}
	baseline := analysisWith(map[model.ContainerIdentity]*model.ContainerSchema{id: schemaWithFields("oldField")})
	current := analysisWith(map[model.ContainerIdentity]*model.ContainerSchema{id: schemaWithFields("newField")})

	result := Compare(baseline, current)

	if result.Summary.Added != 1 || result.Summary.Removed != 1 {
		t.Fatalf("expected 1 added and 1 removed, got added=%d removed=%d", result.Summary.Added, result.Summary.Removed)
	}
	if result.Summary.BreakingChanges != 1 {
		t.Fatalf("expected exactly 1 breaking change (the removal), got %d", result.Summary.BreakingChanges)
	}
	if result.Summary.TotalChanges != 2 {
		t.Fatalf("expected 2 total changes, got %d", result.Summary.TotalChanges)
	}
}

func TestDiffAntisymmetryForPureAddsRemoves(t *testing.T) {
	id := model.ContainerIdentity{Database: "db", Name: "products"}
	a := analysisWith(map[model.ContainerIdentity]*model.ContainerSchema{id: schemaWithFields("x")})
	b := analysisWith(map[model.ContainerIdentity]*model.ContainerSchema{id: schemaWithFields("x", "y")})

	ab := Compare(a, b)
	ba := Compare(b, a)

	if ab.Summary.Added != ba.Summary.Removed {
		t.Fatalf("compare(a,b).Added=%d should equal compare(b,a).Removed=%d", ab.Summary.Added, ba.Summary.Removed)
	}
}

func TestContainerRemovedIsBreaking(t *testing.T) {
	idA := model.ContainerIdentity{Database: "db", Name: "a"}
	idB := model.ContainerIdentity{Database: "db", Name: "b"}
	baseline := analysisWith(map[model.ContainerIdentity]*model.ContainerSchema{
		idA: schemaWithFields(), idB: schemaWithFields(),
	})
	current := analysisWith(map[model.ContainerIdentity]*model.ContainerSchema{idA: schemaWithFields()})

	result := Compare(baseline, current)
	if len(result.ContainerChanges) != 1 || result.ContainerChanges[0].Kind != ContainerRemoved {
		t.Fatalf("expected one CONTAINER_REMOVED change, got %+v", result.ContainerChanges)
	}
	if !result.ContainerChanges[0].Breaking {
		t.Fatal("container removal should be breaking")
	}
}

func TestTypeNarrowingIsBreaking(t *testing.T) {
	id := model.ContainerIdentity{Database: "db", Name: "widgets"}
	base := schemaWithFields("value")
	base.Properties["value"].Types.Add(model.TagString)
	base.Properties["value"].Types.Add(model.TagInteger)

	curr := schemaWithFields("value")
	curr.Properties["value"].Types.Add(model.TagString)

	baseline := analysisWith(map[model.ContainerIdentity]*model.ContainerSchema{id: base})
	current := analysisWith(map[model.ContainerIdentity]*model.ContainerSchema{id: curr})

	result := Compare(baseline, current)
	found := false
	for _, c := range result.PropertyChanges {
		if c.Path == "value" && c.Kind == TypeChanged {
			found = true
			if !c.Breaking {
				t.Error("narrowing the type set should be breaking")
			}
		}
	}
	if !found {
		t.Fatal("expected a TYPE_CHANGED entry for value")
	}
}
