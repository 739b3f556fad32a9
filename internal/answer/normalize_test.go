package answer

import (
	"encoding/json"
	"testing"

	"gradehub/internal/question"
)

func TestNormalize(t *testing.T) {
	q := question.Question{
		ID:      "q1",
		Type:    question.TypeMultipleChoice,
		Options: []string{"Paris", "London", "42"},
	}

	tests := []struct {
		name      string
		raw       any
		wantIndex *int
		wantText  *string
	}{
		{name: "int index in range", raw: 1, wantIndex: intPtr(1), wantText: strPtr("London")},
		{name: "float index in range", raw: float64(0), wantIndex: intPtr(0), wantText: strPtr("Paris")},
		{name: "int index out of range", raw: 7, wantIndex: intPtr(7), wantText: nil},
		{name: "negative index", raw: -1, wantIndex: intPtr(-1), wantText: nil},
		{name: "json number", raw: json.Number("2"), wantIndex: intPtr(2), wantText: strPtr("42")},
		{name: "non-integer json number", raw: json.Number("1.5"), wantIndex: nil, wantText: nil},
		{name: "option text", raw: "London", wantIndex: intPtr(1), wantText: strPtr("London")},
		{name: "option text case and space", raw: "  paris ", wantIndex: intPtr(0), wantText: strPtr("  paris ")},
		{name: "stringified index", raw: "1", wantIndex: intPtr(1), wantText: strPtr("1")},
		{name: "free text no option", raw: "Madrid", wantIndex: nil, wantText: strPtr("Madrid")},
		{name: "nil answer", raw: nil, wantIndex: nil, wantText: nil},
		{name: "unsupported type", raw: []string{"A"}, wantIndex: nil, wantText: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(q, tc.raw)
			assertIntPtr(t, "index", got.Index, tc.wantIndex)
			assertStrPtr(t, "text", got.Text, tc.wantText)
		})
	}
}

// A numeric option label must resolve to its option index, not be read as a
// positional index.
func TestNormalize_NumericOptionLabelWinsOverIndex(t *testing.T) {
	q := question.Question{ID: "q1", Options: []string{"42", "43"}}

	got := Normalize(q, "42")
	if got.Index == nil || *got.Index != 0 {
		t.Fatalf("index = %v, want 0 (option match must override parsed integer)", got.Index)
	}
}

func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }
func floatPtr(v float64) *float64 { return &v }

func assertIntPtr(t *testing.T, label string, got, want *int) {
	t.Helper()
	if (got == nil) != (want == nil) {
		t.Fatalf("%s = %v, want %v", label, got, want)
	}
	if got != nil && *got != *want {
		t.Fatalf("%s = %d, want %d", label, *got, *want)
	}
}

func assertStrPtr(t *testing.T, label string, got, want *string) {
	t.Helper()
	if (got == nil) != (want == nil) {
		t.Fatalf("%s = %v, want %v", label, got, want)
	}
	if got != nil && *got != *want {
		t.Fatalf("%s = %q, want %q", label, *got, *want)
	}
}
