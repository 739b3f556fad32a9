package review

import (
	"fmt"
	"time"
)

// ReleaseOrigin records which path made feedback visible.
type ReleaseOrigin string

const (
	ReleaseOriginManual ReleaseOrigin = "manual"
	ReleaseOriginAuto   ReleaseOrigin = "auto"
)

// ManualCorrection is a reviewer-authored override for one question. A
// correction exists only for questions the reviewer explicitly touched;
// absence means "defer to the automatic verdict".
type ManualCorrection struct {
	QuestionID string  `json:"question_id"`
	IsValid    bool    `json:"is_valid"`
	Points     float64 `json:"points"`
	Note       string  `json:"note,omitempty"`
}

// ScoreResult is the persisted outcome of one assessment attempt. It is
// created at submission time with the automatic score, mutated when a
// reviewer saves corrections or shares feedback, and never deleted.
//
// Version is the optimistic-concurrency token: every save must present the
// version it loaded, and a stale save is rejected instead of overwriting.
type ScoreResult struct {
	ResultID     string `json:"result_id"`
	AssessmentID string `json:"assessment_id"`
	CandidateID  string `json:"candidate_id"`

	InitialScore float64  `json:"initial_score"`
	ReviewScore  *float64 `json:"review_score,omitempty"`
	GraderScore  *float64 `json:"grader_score,omitempty"`
	FinalScore   float64  `json:"final_score"`
	TotalPoints  float64  `json:"total_points"`

	ManualCorrections map[string]ManualCorrection `json:"manual_corrections,omitempty"`
	ReviewerNotes     string                      `json:"reviewer_notes,omitempty"`

	Feedback                   string        `json:"feedback,omitempty"`
	FeedbackVisibleToCandidate bool          `json:"feedback_visible_to_candidate"`
	FeedbackReleasedAt         *time.Time    `json:"feedback_released_at,omitempty"`
	FeedbackReleaseOrigin      ReleaseOrigin `json:"feedback_release_origin,omitempty"`

	CompletedAt time.Time `json:"completed_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int64     `json:"version"`
}

// Validate checks the structural invariants every stored result must hold.
func (r *ScoreResult) Validate() error {
	if r.ResultID == "" {
		return fmt.Errorf("result has no id")
	}
	if r.FinalScore < 0 || (r.TotalPoints > 0 && r.FinalScore > r.TotalPoints) {
		return fmt.Errorf("final score %.2f outside [0, %.2f]", r.FinalScore, r.TotalPoints)
	}
	if r.FeedbackVisibleToCandidate && r.FeedbackReleasedAt == nil {
		return fmt.Errorf("feedback visible without a release timestamp")
	}
	for id, c := range r.ManualCorrections {
		if c.Points < 0 {
			return fmt.Errorf("correction for question %s has negative points", id)
		}
	}
	return nil
}

// Clone returns a deep copy, so in-memory stores never hand out aliased
// correction maps.
func (r *ScoreResult) Clone() *ScoreResult {
	cp := *r
	if r.ReviewScore != nil {
		v := *r.ReviewScore
		cp.ReviewScore = &v
	}
	if r.GraderScore != nil {
		v := *r.GraderScore
		cp.GraderScore = &v
	}
	if r.FeedbackReleasedAt != nil {
		v := *r.FeedbackReleasedAt
		cp.FeedbackReleasedAt = &v
	}
	if r.ManualCorrections != nil {
		cp.ManualCorrections = make(map[string]ManualCorrection, len(r.ManualCorrections))
		for k, v := range r.ManualCorrections {
			cp.ManualCorrections[k] = v
		}
	}
	return &cp
}
