package answer

import (
	"fmt"
	"strings"

	"gradehub/internal/question"
)

// Evaluation is the automatic outcome for a single question. Exactly one of
// the three channels applies depending on the question type:
//
//   - multiple choice: Gradable=true and IsCorrect carries the verdict
//   - coding: Gradable=true and Heuristic carries a 0-100 effort score
//   - open ended: Gradable=false, verdict deferred to manual review or the
//     semantic grader
type Evaluation struct {
	QuestionID string `json:"question_id"`
	Gradable   bool   `json:"gradable"`
	IsCorrect  bool   `json:"is_correct"`
	Heuristic  int    `json:"heuristic,omitempty"`
}

// Evaluate produces the automatic evaluation for one (question, raw answer)
// pair. Malformed answers never fail: they normalize to nothing and score as
// incorrect.
func Evaluate(q question.Question, raw any) Evaluation {
	switch q.Type {
	case question.TypeCoding:
		code, _ := raw.(string)
		return Evaluation{QuestionID: q.ID, Gradable: true, Heuristic: CodingScore(q, code)}
	case question.TypeOpenEnded:
		return Evaluation{QuestionID: q.ID, Gradable: false}
	default:
		return Evaluation{QuestionID: q.ID, Gradable: true, IsCorrect: EvaluateChoice(q, raw)}
	}
}

// EvaluateChoice decides whether a raw answer matches a multiple-choice
// question's expected answer. The expected answer goes through the same
// dual-channel normalization as the submission, then comparison runs in
// strength order: index against index when both resolved (unambiguous), text
// against text otherwise, and as a last resort a loose untyped comparison of
// the two raw values.
func EvaluateChoice(q question.Question, raw any) bool {
	if raw == nil || q.CorrectAnswer == nil {
		return false
	}

	selected := Normalize(q, raw)
	expected := Normalize(q, q.CorrectAnswer)

	if expected.HasIndex() && selected.HasIndex() {
		return *expected.Index == *selected.Index
	}
	if expected.HasText() && selected.HasText() {
		return strings.EqualFold(strings.TrimSpace(*expected.Text), strings.TrimSpace(*selected.Text))
	}
	return looseEqual(q.CorrectAnswer, raw)
}

// looseEqual compares two untyped values by their trimmed string rendering,
// so 1, 1.0 and "1" all agree. Intentionally forgiving; only reached when
// neither channel resolved on one side.
func looseEqual(a, b any) bool {
	return strings.EqualFold(renderLoose(a), renderLoose(b))
}

func renderLoose(v any) string {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}
