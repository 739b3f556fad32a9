package question

import "testing"

func TestParseType(t *testing.T) {
	tests := []struct {
		raw  string
		want Type
	}{
		{raw: "multiple_choice", want: TypeMultipleChoice},
		{raw: "Multiple-Choice", want: TypeMultipleChoice},
		{raw: "mcq", want: TypeMultipleChoice},
		{raw: "coding", want: TypeCoding},
		{raw: " CODE ", want: TypeCoding},
		{raw: "open_ended", want: TypeOpenEnded},
		{raw: "essay", want: TypeOpenEnded},
		{raw: "voice", want: TypeOpenEnded},
		{raw: "something_else", want: TypeMultipleChoice},
		{raw: "", want: TypeMultipleChoice},
	}

	for _, tc := range tests {
		if got := ParseType(tc.raw); got != tc.want {
			t.Fatalf("ParseType(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}
