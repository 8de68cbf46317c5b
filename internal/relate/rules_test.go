package relate

import (
	"testing"

	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
)

func propRecord(path, name, parentPath string) *model.PropertyRecord {
	return model.NewPropertyRecord(path, name, parentPath)
}

func TestCandidatesP1PascalIDSuffix(t *testing.T) {
	rec := propRecord("StoreId", "StoreId", "")
	cands := candidatesForRecord(rec, "orders")
	if len(cands) != 1 || cands[0].rule != ruleP1PascalIDSuffix || cands[0].targetBase != "store" {
		t.Fatalf("expected a single P1 candidate targeting %q, got %+v", "store", cands)
	}
}

func TestCandidatesP1ExcludesBareId(t *testing.T) {
	rec := propRecord("Id", "Id", "")
	cands := candidatesForRecord(rec, "orders")
	for _, c := range cands {
		if c.rule == ruleP1PascalIDSuffix {
			t.Fatalf("bare %q must not fire P1, got %+v", "Id", cands)
		}
	}
}

func TestCandidatesP2SnakeIDSuffix(t *testing.T) {
	rec := propRecord("store_id", "store_id", "")
	cands := candidatesForRecord(rec, "orders")
	if len(cands) != 1 || cands[0].rule != ruleP2SnakeIDSuffix || cands[0].targetBase != "store" {
		t.Fatalf("expected a single P2 candidate targeting %q, got %+v", "store", cands)
	}
}

func TestCandidatesP3NestedID(t *testing.T) {
	rec := propRecord("shippingAddress.Id", "Id", "shippingAddress")
	cands := candidatesForRecord(rec, "orders")
	if len(cands) != 1 || cands[0].rule != ruleP3NestedID || cands[0].targetBase != "shippingaddress" {
		t.Fatalf("expected a single P3 candidate targeting %q, got %+v", "shippingaddress", cands)
	}
	if cands[0].fromProperty != "shippingAddress" {
		t.Fatalf("P3 candidate should report the parent path, got %q", cands[0].fromProperty)
	}
}

func TestCandidatesP3SuppressedOnSelfReference(t *testing.T) {
	rec := propRecord("category.Id", "Id", "category")
	cands := candidatesForRecord(rec, "category")
	for _, c := range cands {
		if c.rule == ruleP3NestedID {
			t.Fatalf("P3 must not fire when the parent name matches the source container, got %+v", cands)
		}
	}
}

func TestCandidatesP4StructuralReference(t *testing.T) {
	rec := propRecord("customer", "customer", "")
	rec.Types.Add(model.TagReferenceObject)
	cands := candidatesForRecord(rec, "orders")

	found := false
	for _, c := range cands {
		if c.rule == ruleP4StructuralReference {
			found = true
			if c.targetBase != "customer" {
				t.Fatalf("expected P4 candidate targeting %q, got %q", "customer", c.targetBase)
			}
		}
	}
	if !found {
		t.Fatalf("expected a P4 candidate, got %+v", cands)
	}
}

func TestCandidatesP4SuppressedOnSelfReference(t *testing.T) {
	rec := propRecord("parent", "parent", "")
	rec.Types.Add(model.TagSimpleReference)
	cands := candidatesForRecord(rec, "parent")
	for _, c := range cands {
		if c.rule == ruleP4StructuralReference {
			t.Fatalf("P4 must not fire when the property name matches the source container, got %+v", cands)
		}
	}
}

func TestCandidatesP5BareNameMatch(t *testing.T) {
	rec := propRecord("category", "category", "")
	cands := candidatesForRecord(rec, "products")
	if len(cands) != 1 || cands[0].rule != ruleP5BareNameMatch || cands[0].targetBase != "category" {
		t.Fatalf("expected a single P5 candidate targeting %q, got %+v", "category", cands)
	}
}

func TestCandidatesP5SuppressedWhenEarlierRuleFired(t *testing.T) {
	rec := propRecord("StoreId", "StoreId", "")
	cands := candidatesForRecord(rec, "orders")
	for _, c := range cands {
		if c.rule == ruleP5BareNameMatch {
			t.Fatalf("P5 must be suppressed once an earlier rule already fired, got %+v", cands)
		}
	}
}

func TestCandidatesBareIDNeverFires(t *testing.T) {
	rec := propRecord("id", "id", "")
	cands := candidatesForRecord(rec, "orders")
	if cands != nil {
		t.Fatalf("a top-level %q property should never produce a candidate, got %+v", "id", cands)
	}
}
