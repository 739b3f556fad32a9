package scoring

import (
	"math"

	"gradehub/internal/answer"
	"gradehub/internal/question"
)

// Verdict is one question's contribution to the automatic score.
type Verdict struct {
	QuestionID    string  `json:"question_id"`
	Gradable      bool    `json:"gradable"`
	IsCorrect     bool    `json:"is_correct"`
	Heuristic     int     `json:"heuristic,omitempty"`
	AwardedPoints float64 `json:"awarded_points"`
}

// Totals is the aggregate of all verdicts for one attempt.
type Totals struct {
	EarnedPoints float64 `json:"earned_points"`
	TotalPoints  float64 `json:"total_points"`
	Percentage   int     `json:"percentage"`
}

// EvaluateAll runs the automatic evaluation over every question and converts
// the outcomes into point-bearing verdicts. Missing answers evaluate like
// malformed ones: zero points, not an error.
func EvaluateAll(questions []question.Question, answers map[string]any) []Verdict {
	out := make([]Verdict, 0, len(questions))
	for _, q := range questions {
		ev := answer.Evaluate(q, answers[q.ID])
		out = append(out, verdictFrom(q, ev))
	}
	return out
}

func verdictFrom(q question.Question, ev answer.Evaluation) Verdict {
	v := Verdict{
		QuestionID: q.ID,
		Gradable:   ev.Gradable,
		IsCorrect:  ev.IsCorrect,
		Heuristic:  ev.Heuristic,
	}
	switch q.Type {
	case question.TypeCoding:
		v.AwardedPoints = math.Round(float64(q.Points) * float64(ev.Heuristic) / 100)
	case question.TypeOpenEnded:
		// Stays zero until a manual correction or the semantic grader
		// contributes a score.
		v.AwardedPoints = 0
	default:
		if ev.IsCorrect {
			v.AwardedPoints = float64(q.Points)
		}
	}
	return v
}

// Aggregate folds verdicts into earned/total points and a rounded
// percentage. A question set with zero total points yields percentage 0
// rather than dividing by zero.
func Aggregate(questions []question.Question, verdicts []Verdict) Totals {
	t := Totals{}
	for _, q := range questions {
		if q.Points > 0 {
			t.TotalPoints += float64(q.Points)
		}
	}
	for _, v := range verdicts {
		t.EarnedPoints += v.AwardedPoints
	}
	if t.TotalPoints > 0 {
		t.Percentage = int(math.Round(100 * t.EarnedPoints / t.TotalPoints))
	}
	return t
}
