package answer

import (
	"strings"
	"testing"

	"gradehub/internal/question"
)

func TestCodingScore(t *testing.T) {
	q := question.Question{ID: "q1", Type: question.TypeCoding, Points: 20}

	tests := []struct {
		name string
		code string
		want int
	}{
		{name: "empty", code: "", want: 0},
		{name: "whitespace only", code: "   \n\t ", want: 0},
		// Balanced (20) only: too short, no keywords, no constructs.
		{name: "trivial snippet", code: "x = 1", want: 20},
		// Unbalanced parens lose the balance bonus; len 30 earns the short
		// length bonus.
		{name: "unbalanced long-ish", code: "print((((((((((((((( hello world", want: 15},
		// Balanced 20 + short length 15 + keywords if/return 10 + construct 15.
		{name: "small function", code: "func add(a, b int) int { if a > 0 { return a + b }\nreturn b }", want: 60},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := CodingScore(q, tc.code); got != tc.want {
				t.Fatalf("CodingScore(%q) = %d, want %d", tc.code, got, tc.want)
			}
		})
	}
}

func TestCodingScore_FullMarks(t *testing.T) {
	q := question.Question{ID: "q1", Type: question.TypeCoding, Points: 20, ExpectedOutput: "fizzbuzz"}

	// Balanced 20, both length bonuses 30, five distinct keywords 25,
	// construct 15, expected output 10.
	code := strings.Join([]string{
		`func fizz(n int) string {`,
		`	for i := 0; i < n; i++ {`,
		`		if i%15 == 0 {`,
		`			return "fizzbuzz"`,
		`		} else {`,
		`			switch i % 3 {`,
		`			case 0:`,
		`				continue`,
		`			}`,
		`		}`,
		`	}`,
		`	return ""`,
		`}`,
	}, "\n")

	if got := CodingScore(q, code); got != 100 {
		t.Fatalf("CodingScore = %d, want 100", got)
	}
}

func TestCodingScore_KeywordNeedsWordBoundary(t *testing.T) {
	q := question.Question{ID: "q1", Type: question.TypeCoding}

	// "for" inside "performance" must not count as a keyword; the only
	// signals left are balance and length.
	code := "the performance counters informed platforms"
	if got := CodingScore(q, code); got != 20+15 {
		t.Fatalf("CodingScore(%q) = %d, want %d", code, got, 20+15)
	}
}
