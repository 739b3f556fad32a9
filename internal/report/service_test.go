package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"gradehub/internal/review"

	"github.com/xuri/excelize/v2"
)

type staticResults []review.ScoreResult

func (s staticResults) ListByAssessment(_ context.Context, _ string) ([]review.ScoreResult, error) {
	return s, nil
}

func sampleResults() staticResults {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	review1 := 35.0
	return staticResults{
		{ResultID: "r1", CandidateID: "c1", InitialScore: 10, ReviewScore: &review1, FinalScore: 22.5, TotalPoints: 40, CompletedAt: now, FeedbackVisibleToCandidate: true, FeedbackReleasedAt: &now},
		{ResultID: "r2", CandidateID: "c2", InitialScore: 30, FinalScore: 30, TotalPoints: 40, CompletedAt: now},
		{ResultID: "r3", CandidateID: "c3", InitialScore: 12, FinalScore: 12, TotalPoints: 40, CompletedAt: now},
	}
}

func TestSummary(t *testing.T) {
	svc := NewService(sampleResults())

	got, err := svc.Summary(context.Background(), "a1")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if got.Results != 3 || got.Reviewed != 1 || got.Released != 1 {
		t.Fatalf("counts = %d/%d/%d, want 3/1/1", got.Results, got.Reviewed, got.Released)
	}
	if got.HighestFinal != 30 || got.LowestFinal != 12 {
		t.Fatalf("range = %.2f..%.2f, want 12..30", got.LowestFinal, got.HighestFinal)
	}
	if got.AverageFinal != 21.5 {
		t.Fatalf("average = %.2f, want 21.5", got.AverageFinal)
	}
}

func TestSummary_Empty(t *testing.T) {
	svc := NewService(staticResults{})
	got, err := svc.Summary(context.Background(), "a1")
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if got.Results != 0 || got.AverageFinal != 0 {
		t.Fatalf("got %+v, want zero summary", got)
	}
}

func TestExportExcel(t *testing.T) {
	svc := NewService(sampleResults())

	data, err := svc.ExportExcel(context.Background(), "a1")
	if err != nil {
		t.Fatalf("ExportExcel: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open exported workbook: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if v, _ := f.GetCellValue(sheet, "A1"); v != "result_id" {
		t.Fatalf("A1 = %q, want header result_id", v)
	}
	if v, _ := f.GetCellValue(sheet, "A2"); v != "r1" {
		t.Fatalf("A2 = %q, want r1", v)
	}
	if v, _ := f.GetCellValue(sheet, "B3"); v != "c2" {
		t.Fatalf("B3 = %q, want c2", v)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want header plus 3 results", len(rows))
	}
}
