package relate

import (
	"testing"

	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
)

func schemaWithStoreID(propName string) *model.ContainerSchema {
	s := model.NewContainerSchema()
	rec := s.Ensure(propName, propName, "")
	rec.Occurrences = 10
	rec.Frequency = 1
	s.DocumentCount = 10
	return s
}

func TestDetect_SameDatabaseResolution(t *testing.T) {
	source := model.ContainerIdentity{Database: "shop", Name: "orders"}
	target := model.ContainerIdentity{Database: "shop", Name: "stores"}
	catalog := NewCatalog([]model.ContainerIdentity{source, target})

	rels := DetectForContainer(schemaWithStoreID("StoreId"), source, catalog)
	if len(rels) != 1 {
		t.Fatalf("expected exactly one relationship, got %d: %+v", len(rels), rels)
	}
	r := rels[0]
	if r.ToContainer != "stores" || r.ToDatabase != "shop" || r.IsOrphan || r.IsAmbiguous || r.IsCrossDatabase {
		t.Fatalf("expected a resolved same-database relationship to stores, got %+v", r)
	}
}

func TestDetect_SelfReferenceSkipped(t *testing.T) {
	source := model.ContainerIdentity{Database: "shop", Name: "customers"}
	catalog := NewCatalog([]model.ContainerIdentity{source})

	rels := DetectForContainer(schemaWithStoreID("CustomerId"), source, catalog)
	if len(rels) != 0 {
		t.Fatalf("a candidate resolving back to its own source container must be dropped, got %+v", rels)
	}
}

func TestDetect_OrphanReportedForShapeRules(t *testing.T) {
	source := model.ContainerIdentity{Database: "shop", Name: "orders"}
	catalog := NewCatalog([]model.ContainerIdentity{source})

	rels := DetectForContainer(schemaWithStoreID("WarehouseId"), source, catalog)
	if len(rels) != 1 {
		t.Fatalf("expected one orphan relationship from a P1 candidate, got %d: %+v", len(rels), rels)
	}
	if !rels[0].IsOrphan {
		t.Fatalf("a P1 candidate with no catalog match must be reported as an orphan, got %+v", rels[0])
	}
}

func TestDetect_BareNameOrphanDiscarded(t *testing.T) {
	source := model.ContainerIdentity{Database: "shop", Name: "products"}
	catalog := NewCatalog([]model.ContainerIdentity{source})

	rels := DetectForContainer(schemaWithStoreID("category"), source, catalog)
	if len(rels) != 0 {
		t.Fatalf("a P5 bare-name candidate with no catalog match must be discarded, not reported as an orphan, got %+v", rels)
	}
}

func TestDetect_CrossDatabaseSingleMatch(t *testing.T) {
	source := model.ContainerIdentity{Database: "shop", Name: "orders"}
	target := model.ContainerIdentity{Database: "inventory", Name: "stores"}
	catalog := NewCatalog([]model.ContainerIdentity{source, target})

	rels := DetectForContainer(schemaWithStoreID("StoreId"), source, catalog)
	if len(rels) != 1 {
		t.Fatalf("expected one relationship, got %d: %+v", len(rels), rels)
	}
	r := rels[0]
	if !r.IsCrossDatabase || r.IsAmbiguous || r.ToDatabase != "inventory" {
		t.Fatalf("expected an unambiguous cross-database match to inventory, got %+v", r)
	}
}

func TestDetect_CrossDatabaseAmbiguousMatch(t *testing.T) {
	source := model.ContainerIdentity{Database: "shop", Name: "orders"}
	targetA := model.ContainerIdentity{Database: "inventory", Name: "stores"}
	targetB := model.ContainerIdentity{Database: "archive", Name: "stores"}
	catalog := NewCatalog([]model.ContainerIdentity{source, targetA, targetB})

	rels := DetectForContainer(schemaWithStoreID("StoreId"), source, catalog)
	if len(rels) != 1 {
		t.Fatalf("expected one relationship, got %d: %+v", len(rels), rels)
	}
	r := rels[0]
	if !r.IsAmbiguous || !r.IsCrossDatabase {
		t.Fatalf("a target name matching two other databases must be reported ambiguous, got %+v", r)
	}
	if len(r.PossibleDatabases) != 2 {
		t.Fatalf("expected both candidate databases listed, got %+v", r.PossibleDatabases)
	}
}

func TestDetect_PluralVariantResolves(t *testing.T) {
	source := model.ContainerIdentity{Database: "shop", Name: "orders"}
	target := model.ContainerIdentity{Database: "shop", Name: "stores"}
	catalog := NewCatalog([]model.ContainerIdentity{source, target})

	rels := DetectForContainer(schemaWithStoreID("store_id"), source, catalog)
	if len(rels) != 1 || rels[0].ToContainer != "stores" || rels[0].IsOrphan {
		t.Fatalf("store_id should resolve to the plural container stores, got %+v", rels)
	}
}
