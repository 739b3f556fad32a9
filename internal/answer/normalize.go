package answer

import (
	"encoding/json"
	"strconv"
	"strings"

	"gradehub/internal/question"
)

// Normalized is the canonical form of a raw answer value: a resolved option
// index, a resolved text, both, or neither. A nil field means that channel
// could not be resolved.
type Normalized struct {
	Index *int
	Text  *string
}

func (n Normalized) HasIndex() bool { return n.Index != nil }
func (n Normalized) HasText() bool  { return n.Text != nil }

// Normalize resolves a raw candidate answer against a question definition.
//
// Upstream data is inconsistently authored: some assessments store choices as
// indices, others as literal option text, and submitted answers arrive in
// either shape (including stringified numbers) depending on which UI rendered
// them. Both channels are resolved independently so the evaluator can pick
// the strongest comparison available.
func Normalize(q question.Question, raw any) Normalized {
	switch v := raw.(type) {
	case int:
		return fromIndex(q, v)
	case int64:
		return fromIndex(q, int(v))
	case float64:
		return fromIndex(q, int(v))
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return fromIndex(q, int(i))
		}
		return Normalized{}
	case string:
		return fromText(q, v)
	default:
		return Normalized{}
	}
}

func fromIndex(q question.Question, idx int) Normalized {
	n := Normalized{Index: &idx}
	if idx >= 0 && idx < len(q.Options) {
		text := q.Options[idx]
		n.Text = &text
	}
	return n
}

func fromText(q question.Question, raw string) Normalized {
	text := raw
	n := Normalized{Text: &text}

	if i, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		n.Index = &i
	}

	// An exact option match wins over a parsed integer: a numeric-looking
	// option label ("42") must not be mistaken for an index.
	for i, opt := range q.Options {
		if strings.EqualFold(strings.TrimSpace(opt), strings.TrimSpace(raw)) {
			idx := i
			n.Index = &idx
			break
		}
	}
	return n
}
