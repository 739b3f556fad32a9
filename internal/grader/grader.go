package grader

import (
	"fmt"
	"strings"

	"gradehub/internal/question"
)

// Payload is what the semantic grader sees: the questions that need human-like
// judgment (open-ended and coding) paired with the candidate's raw answers.
type Payload struct {
	TotalPoints float64
	Items       []PayloadItem
}

type PayloadItem struct {
	QuestionID string
	Prompt     string
	Points     int
	Answer     string
}

// Evaluation is the grader's opaque output. Score is on the result's point
// scale; Criteria carries optional per-dimension sub-scores.
type Evaluation struct {
	Score    float64            `json:"score"`
	Criteria map[string]float64 `json:"criteria,omitempty"`
	Feedback string             `json:"feedback,omitempty"`
}

// BuildPayload selects the questions worth sending to the grader. Multiple
// choice stays out: it already has a deterministic verdict.
func BuildPayload(questions []question.Question, answers map[string]any, totalPoints float64) Payload {
	p := Payload{TotalPoints: totalPoints}
	for _, q := range questions {
		if q.Type == question.TypeMultipleChoice {
			continue
		}
		text, _ := answers[q.ID].(string)
		p.Items = append(p.Items, PayloadItem{
			QuestionID: q.ID,
			Prompt:     q.Prompt,
			Points:     q.Points,
			Answer:     text,
		})
	}
	return p
}

func (p Payload) render() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "The assessment is worth %.0f points in total.\n\n", p.TotalPoints)
	for i, item := range p.Items {
		fmt.Fprintf(&sb, "Question %d (%d points): %s\n", i+1, item.Points, item.Prompt)
		answer := strings.TrimSpace(item.Answer)
		if answer == "" {
			answer = "(no answer)"
		}
		fmt.Fprintf(&sb, "Candidate answer:\n%s\n\n", answer)
	}
	return sb.String()
}
