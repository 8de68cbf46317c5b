package schema

import (
	"testing"

	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
)

func doc(m map[string]interface{}) map[string]interface{} { return m }

func TestInferBasicFrequencyAndRequired(t *testing.T) {
	docs := []map[string]interface{}{
		doc(map[string]interface{}{"id": "1", "name": "Alice"}),
		doc(map[string]interface{}{"id": "2", "name": "Bob"}),
		doc(map[string]interface{}{"id": "3"}), // name missing
	}
	s := Infer(docs, Options{})

	idRec, ok := s.Properties["id"]
	if !ok {
		t.Fatal("expected id property")
	}
	if idRec.Occurrences != 3 || idRec.Frequency != 1.0 || !idRec.IsRequired {
		t.Errorf("id: occurrences=%d frequency=%v required=%v", idRec.Occurrences, idRec.Frequency, idRec.IsRequired)
	}

	nameRec := s.Properties["name"]
	if nameRec.Occurrences != 2 {
		t.Errorf("name occurrences = %d, want 2", nameRec.Occurrences)
	}
	wantFreq := 2.0 / 3.0
	if nameRec.Frequency != wantFreq {
		t.Errorf("name frequency = %v, want %v", nameRec.Frequency, wantFreq)
	}
	if nameRec.IsRequired {
		t.Error("name should not be required at 2/3 frequency")
	}
}

func TestInferNestedPathsHaveParents(t *testing.T) {
	docs := []map[string]interface{}{
		doc(map[string]interface{}{
			"id": "1",
			"customer": map[string]interface{}{
				"address": map[string]interface{}{"city": "Seattle"},
			},
		}),
	}
	s := Infer(docs, Options{})

	for path, rec := range s.Properties {
		if rec.ParentPath == "" {
			continue
		}
		if _, ok := s.Properties[rec.ParentPath]; !ok {
			t.Errorf("path %s has parent %s not present in schema", path, rec.ParentPath)
		}
	}
	if _, ok := s.Properties["customer.address.city"]; !ok {
		t.Fatal("expected nested path customer.address.city")
	}
}

func TestInferArrayItemTypes(t *testing.T) {
	docs := []map[string]interface{}{
		doc(map[string]interface{}{
			"id": "1",
			"items": []interface{}{
				map[string]interface{}{"productId": "p1"},
				map[string]interface{}{"productId": "p2"},
			},
		}),
	}
	s := Infer(docs, Options{})

	itemsRec, ok := s.Properties["items"]
	if !ok {
		t.Fatal("expected items property")
	}
	if !itemsRec.IsArray {
		t.Error("items should be marked as array")
	}
	if !itemsRec.ArrayItemTypes.Has(model.TagObject) {
		t.Error("items array item types should include object")
	}

	itemRec, ok := s.Properties["items[]"]
	if !ok {
		t.Fatal("expected synthetic items[] record")
	}
	if itemRec.Occurrences != 2 {
		t.Errorf("items[] occurrences = %d, want 2", itemRec.Occurrences)
	}

	if _, ok := s.Properties["items[].productId"]; !ok {
		t.Fatal("expected recursion into array object items at items[].productId")
	}
}

func TestInferExamplesCapAtFiveDistinct(t *testing.T) {
	var docs []map[string]interface{}
	for i := 0; i < 10; i++ {
		docs = append(docs, doc(map[string]interface{}{"tag": "same-value"}))
	}
	for i := 0; i < 10; i++ {
		docs = append(docs, doc(map[string]interface{}{"tag": "value-" + string(rune('a'+i))}))
	}
	s := Infer(docs, Options{})
	rec := s.Properties["tag"]
	if len(rec.Examples) != 5 {
		t.Errorf("examples = %d, want 5", len(rec.Examples))
	}
}

func TestInferLongStringTruncated(t *testing.T) {
	long := ""
	for i := 0; i < 60; i++ {
		long += "a"
	}
	docs := []map[string]interface{}{doc(map[string]interface{}{"notes": long})}
	s := Infer(docs, Options{})
	rec := s.Properties["notes"]
	if len(rec.Examples) != 1 {
		t.Fatalf("expected one example, got %d", len(rec.Examples))
	}
	got := []rune(rec.Examples[0])
	if len(got) != 51 || got[50] != '…' {
		t.Errorf("example = %q, want 50 chars plus ellipsis", rec.Examples[0])
	}
}

func TestInferEnumDetection(t *testing.T) {
	var docs []map[string]interface{}
	statuses := []string{"active", "active", "active", "inactive", "inactive"}
	for _, st := range statuses {
		docs = append(docs, doc(map[string]interface{}{"status": st}))
	}
	cfg := DefaultEnumConfig()
	cfg.Enabled = true
	s := Infer(docs, Options{Enum: cfg})

	rec := s.Properties["status"]
	if !rec.IsEnum {
		t.Fatal("expected status to be detected as enum")
	}
	if len(rec.EnumValues) != 2 {
		t.Errorf("enum values = %v, want 2 distinct values", rec.EnumValues)
	}
}

func TestInferEnumNotDetectedWhenTooManyDistinctValues(t *testing.T) {
	var docs []map[string]interface{}
	for i := 0; i < 20; i++ {
		docs = append(docs, doc(map[string]interface{}{"code": string(rune('a' + i))}))
	}
	cfg := DefaultEnumConfig()
	cfg.Enabled = true
	s := Infer(docs, Options{Enum: cfg})
	if s.Properties["code"].IsEnum {
		t.Error("expected code not to be detected as enum with 20 distinct values")
	}
}

func TestInferMetadataKeysSkipped(t *testing.T) {
	docs := []map[string]interface{}{
		doc(map[string]interface{}{"id": "1", "_rid": "abc", "_etag": "xyz", "_ts": float64(123)}),
	}
	s := Infer(docs, Options{})
	for _, key := range []string{"_rid", "_etag", "_ts", "_self", "_attachments"} {
		if _, ok := s.Properties[key]; ok {
			t.Errorf("metadata key %s should have been skipped", key)
		}
	}
}
