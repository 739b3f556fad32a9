package answer

import (
	"strings"

	"gradehub/internal/question"
)

// Bonus weights of the coding effort heuristic. The sum of all maximums is
// exactly 100, so the clamp only matters defensively.
const (
	bonusBalanced   = 20
	bonusLenShort   = 15
	bonusLenLong    = 15
	bonusPerKeyword = 5
	bonusKeywordCap = 25
	bonusConstruct  = 15
	bonusExpected   = 10

	lenShortThreshold = 30
	lenLongThreshold  = 120
)

var codeKeywords = []string{
	"if", "else", "for", "while", "return", "switch", "case",
	"break", "continue", "import", "var", "const", "try", "catch",
}

var codeConstructs = []string{
	"func", "function", "def ", "lambda", "=>", "class ",
}

// CodingScore estimates how much meaningful work a coding answer shows, on a
// 0-100 scale. This is an effort proxy, not a correctness check: there is no
// ground truth to compare against, so the score rewards structural signals
// (balanced delimiters, length, common keywords, function/class constructs,
// and the question's expected output appearing in the code). Callers must not
// present it as a verdict.
func CodingScore(q question.Question, code string) int {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return 0
	}

	score := 0

	if balancedDelimiters(trimmed) {
		score += bonusBalanced
	}

	if len(trimmed) >= lenShortThreshold {
		score += bonusLenShort
	}
	if len(trimmed) >= lenLongThreshold {
		score += bonusLenLong
	}

	lower := strings.ToLower(trimmed)

	keywordBonus := 0
	for _, kw := range codeKeywords {
		if containsToken(lower, kw) {
			keywordBonus += bonusPerKeyword
		}
	}
	if keywordBonus > bonusKeywordCap {
		keywordBonus = bonusKeywordCap
	}
	score += keywordBonus

	for _, c := range codeConstructs {
		if strings.Contains(lower, c) {
			score += bonusConstruct
			break
		}
	}

	if expected := strings.TrimSpace(q.ExpectedOutput); expected != "" {
		if strings.Contains(lower, strings.ToLower(expected)) {
			score += bonusExpected
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func balancedDelimiters(code string) bool {
	pairs := [][2]rune{{'(', ')'}, {'[', ']'}, {'{', '}'}}
	for _, p := range pairs {
		if strings.Count(code, string(p[0])) != strings.Count(code, string(p[1])) {
			return false
		}
	}
	return true
}

// containsToken reports whether kw appears in code delimited by non-letter
// characters, so "for" does not match inside "performance".
func containsToken(code, kw string) bool {
	idx := 0
	for {
		i := strings.Index(code[idx:], kw)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(kw)
		beforeOK := start == 0 || !isWordChar(code[start-1])
		afterOK := end == len(code) || !isWordChar(code[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
