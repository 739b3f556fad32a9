package report

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"gradehub/internal/review"

	"github.com/xuri/excelize/v2"
)

// ResultSource is the slice of the result store the reporting side needs.
type ResultSource interface {
	ListByAssessment(ctx context.Context, assessmentID string) ([]review.ScoreResult, error)
}

type Service struct {
	results ResultSource
}

func NewService(results ResultSource) *Service {
	return &Service{results: results}
}

// AssessmentSummary aggregates final scores across one assessment's results.
type AssessmentSummary struct {
	AssessmentID string  `json:"assessment_id"`
	Results      int     `json:"results"`
	Reviewed     int     `json:"reviewed"`
	Released     int     `json:"released"`
	AverageFinal float64 `json:"average_final"`
	HighestFinal float64 `json:"highest_final"`
	LowestFinal  float64 `json:"lowest_final"`
}

func (s *Service) Summary(ctx context.Context, assessmentID string) (*AssessmentSummary, error) {
	results, err := s.results.ListByAssessment(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	summary := &AssessmentSummary{AssessmentID: assessmentID, Results: len(results)}
	if len(results) == 0 {
		return summary, nil
	}

	sum := 0.0
	summary.LowestFinal = results[0].FinalScore
	for _, res := range results {
		sum += res.FinalScore
		if res.FinalScore > summary.HighestFinal {
			summary.HighestFinal = res.FinalScore
		}
		if res.FinalScore < summary.LowestFinal {
			summary.LowestFinal = res.FinalScore
		}
		if res.ReviewScore != nil {
			summary.Reviewed++
		}
		if res.FeedbackVisibleToCandidate {
			summary.Released++
		}
	}
	summary.AverageFinal = sum / float64(len(results))
	return summary, nil
}

// ExportExcel renders one row per result with the full score breakdown. This
// is a reviewer-facing artifact; candidate exports go through the gated view.
func (s *Service) ExportExcel(ctx context.Context, assessmentID string) ([]byte, error) {
	results, err := s.results.ListByAssessment(ctx, assessmentID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	headers := []string{
		"result_id", "candidate_id", "initial_score", "review_score",
		"grader_score", "final_score", "total_points", "corrections",
		"feedback_visible", "released_at", "completed_at", "reviewer_notes",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, res := range results {
		row := i + 2
		reviewScore := ""
		if res.ReviewScore != nil {
			reviewScore = fmt.Sprintf("%.2f", *res.ReviewScore)
		}
		graderScore := ""
		if res.GraderScore != nil {
			graderScore = fmt.Sprintf("%.2f", *res.GraderScore)
		}
		releasedAt := ""
		if res.FeedbackReleasedAt != nil {
			releasedAt = res.FeedbackReleasedAt.Format(time.RFC3339)
		}
		values := []any{
			res.ResultID,
			res.CandidateID,
			res.InitialScore,
			reviewScore,
			graderScore,
			res.FinalScore,
			res.TotalPoints,
			len(res.ManualCorrections),
			res.FeedbackVisibleToCandidate,
			releasedAt,
			res.CompletedAt.Format(time.RFC3339),
			res.ReviewerNotes,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}
	_ = f.SetColWidth(sheet, "A", "L", 22)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}
