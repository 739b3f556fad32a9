package question

import "strings"

// Type discriminates how a question is scored.
type Type string

const (
	TypeMultipleChoice Type = "multiple_choice"
	TypeCoding         Type = "coding"
	TypeOpenEnded      Type = "open_ended"
)

// Question is the scoring-relevant view of one assessment question. It is
// immutable once the assessment is published.
//
// CorrectAnswer is either a zero-based index into Options or a literal option
// text. The two channels are not guaranteed consistent upstream: some
// assessments were authored with indices, others with the option text itself.
// Reconciling them is the evaluator's job, not the store's.
type Question struct {
	ID             string   `json:"id"`
	AssessmentID   string   `json:"assessment_id"`
	Type           Type     `json:"type"`
	Prompt         string   `json:"prompt"`
	Points         int      `json:"points"`
	Options        []string `json:"options,omitempty"`
	CorrectAnswer  any      `json:"correct_answer,omitempty"`
	ExpectedOutput string   `json:"expected_output,omitempty"`
}

// ParseType maps loosely-authored type labels onto the three scoring types.
func ParseType(raw string) Type {
	switch strings.TrimSpace(strings.ToLower(raw)) {
	case "multiple_choice", "multiple-choice", "mcq", "choice":
		return TypeMultipleChoice
	case "coding", "code":
		return TypeCoding
	case "open_ended", "open-ended", "essay", "voice":
		return TypeOpenEnded
	default:
		return TypeMultipleChoice
	}
}
