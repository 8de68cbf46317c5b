package classify

import (
	"testing"

	"github.com/afrugalpenguin/cosmos-mapper/internal/model"
)

func TestClassifyPrimitives(t *testing.T) {
	cases := []struct {
		name  string
		value interface{}
		want  model.Tag
	}{
		{"nil", nil, model.TagNull},
		{"bool true", true, model.TagBoolean},
		{"bool false", false, model.TagBoolean},
		{"integral float64", float64(42), model.TagInteger},
		{"fractional float64", float64(4.5), model.TagNumber},
		{"array", []interface{}{1, 2}, model.TagArray},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.value, nil); got != tc.want {
				t.Errorf("Classify(%v) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}

func TestClassifyStrings(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  model.Tag
	}{
		{"guid", "550e8400-e29b-41d4-a716-446655440000", model.TagGUID},
		{"uppercase guid", "550E8400-E29B-41D4-A716-446655440000", model.TagGUID},
		{"date only", "2024-01-15", model.TagDateTime},
		{"datetime with offset", "2024-01-15T10:30:00+02:00", model.TagDateTime},
		{"datetime with fraction and Z", "2024-01-15T10:30:00.123Z", model.TagDateTime},
		{"email", "jane.doe@example.com", model.TagEmail},
		{"url", "https://example.com/path?q=1", model.TagURL},
		{"international phone", "+1 415-555-0100", model.TagPhone},
		{"parenthesised phone", "(415) 555-0100", model.TagPhone},
		{"dashed phone", "415-555-0100", model.TagPhone},
		{"uk phone", "020 7946 0958", model.TagPhone},
		{"plain string", "hello world", model.TagString},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.value, nil); got != tc.want {
				t.Errorf("Classify(%q) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}

func TestClassifyCustomPatterns(t *testing.T) {
	custom := CompileCustomPatterns(map[string]string{
		"productCode": `^SKU-\d{6}$`,
		"broken":      `(unterminated`,
	}, []string{"productCode", "broken"})

	if len(custom) != 1 {
		t.Fatalf("expected invalid pattern to be skipped silently, got %d patterns", len(custom))
	}

	if got := Classify("SKU-123456", custom); got != model.Tag("productCode") {
		t.Errorf("Classify(SKU-123456) = %v, want productCode", got)
	}
	if got := Classify("not-a-sku", custom); got != model.TagString {
		t.Errorf("Classify(not-a-sku) = %v, want string", got)
	}
}

func TestClassifyStructuralObjects(t *testing.T) {
	cases := []struct {
		name  string
		value map[string]interface{}
		want  model.Tag
	}{
		{
			"datetime object",
			map[string]interface{}{"Value": "2024-01-15", "Epoch": float64(1705276800)},
			model.TagDateTimeObject,
		},
		{
			"reference object",
			map[string]interface{}{"Id": "550e8400-e29b-41d4-a716-446655440000", "Name": "Acme", "Code": "ACM"},
			model.TagReferenceObject,
		},
		{
			"reference object with extra keys",
			map[string]interface{}{"Id": "550e8400-e29b-41d4-a716-446655440000", "Name": "Acme", "Code": "ACM", "Extra": "x"},
			model.TagReferenceObject,
		},
		{
			"lookup object",
			map[string]interface{}{"Id": float64(7), "Name": "Active", "Code": "ACT"},
			model.TagLookupObject,
		},
		{
			"case insensitive string",
			map[string]interface{}{"Value": "Example", "Lower": "example"},
			model.TagCaseInsensitiveString,
		},
		{
			"simple reference",
			map[string]interface{}{"Id": "550e8400-e29b-41d4-a716-446655440000", "Reference": "anything"},
			model.TagSimpleReference,
		},
		{
			"plain object",
			map[string]interface{}{"foo": "bar"},
			model.TagObject,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.value, nil); got != tc.want {
				t.Errorf("Classify(%v) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	values := []interface{}{
		nil, true, float64(10), float64(10.5), "hello",
		"550e8400-e29b-41d4-a716-446655440000",
		map[string]interface{}{"Id": float64(1), "Name": "x", "Code": "y"},
	}
	for _, v := range values {
		first := Classify(v, nil)
		for i := 0; i < 5; i++ {
			if got := Classify(v, nil); got != first {
				t.Fatalf("Classify(%v) not deterministic: got %v then %v", v, first, got)
			}
		}
	}
}
