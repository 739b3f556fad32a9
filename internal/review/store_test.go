package review

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStore_CreateAndLoad(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	res := &ScoreResult{ResultID: "r1", AssessmentID: "a1", FinalScore: 5, TotalPoints: 10}
	if err := store.Create(ctx, res); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if res.Version != 1 {
		t.Fatalf("version = %d, want 1 after create", res.Version)
	}
	if err := store.Create(ctx, res); !errors.Is(err, ErrResultExists) {
		t.Fatalf("duplicate create err = %v, want ErrResultExists", err)
	}
	if _, err := store.Load(ctx, "missing"); !errors.Is(err, ErrResultNotFound) {
		t.Fatalf("missing load err = %v, want ErrResultNotFound", err)
	}

	// Loaded copies must not alias the stored result.
	loaded, err := store.Load(ctx, "r1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	loaded.FinalScore = 999
	again, _ := store.Load(ctx, "r1")
	if again.FinalScore != 5 {
		t.Fatalf("stored result mutated through loaded copy: %.2f", again.FinalScore)
	}
}

func TestMemoryStore_OptimisticSave(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	res := &ScoreResult{ResultID: "r1", FinalScore: 5, TotalPoints: 10}
	if err := store.Create(ctx, res); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Two sessions load version 1.
	a, _ := store.Load(ctx, "r1")
	b, _ := store.Load(ctx, "r1")

	a.FinalScore = 7
	if err := store.Save(ctx, a, a.Version); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if a.Version != 2 {
		t.Fatalf("version = %d, want 2 after save", a.Version)
	}

	b.FinalScore = 3
	if err := store.Save(ctx, b, b.Version); !errors.Is(err, ErrConcurrentModification) {
		t.Fatalf("stale save err = %v, want ErrConcurrentModification", err)
	}

	got, _ := store.Load(ctx, "r1")
	if got.FinalScore != 7 {
		t.Fatalf("final score = %.2f, want the first writer's 7", got.FinalScore)
	}

	if err := store.Save(ctx, &ScoreResult{ResultID: "missing"}, 1); !errors.Is(err, ErrResultNotFound) {
		t.Fatalf("missing save err = %v, want ErrResultNotFound", err)
	}
}

func TestMemoryStore_ListHiddenBefore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	ts := now

	seed := []*ScoreResult{
		{ResultID: "old-hidden", CompletedAt: now.Add(-48 * time.Hour)},
		{ResultID: "old-visible", CompletedAt: now.Add(-48 * time.Hour), Feedback: "fb", FeedbackVisibleToCandidate: true, FeedbackReleasedAt: &ts},
		{ResultID: "recent-hidden", CompletedAt: now.Add(-time.Hour)},
	}
	for _, res := range seed {
		if err := store.Create(ctx, res); err != nil {
			t.Fatalf("Create %s: %v", res.ResultID, err)
		}
	}

	ids, err := store.ListHiddenBefore(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("ListHiddenBefore: %v", err)
	}
	if len(ids) != 1 || ids[0] != "old-hidden" {
		t.Fatalf("ids = %v, want [old-hidden]", ids)
	}
}

func TestMemoryStore_ListByAssessment(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	for _, res := range []*ScoreResult{
		{ResultID: "r1", AssessmentID: "a1"},
		{ResultID: "r2", AssessmentID: "a2"},
		{ResultID: "r3", AssessmentID: "a1"},
	} {
		if err := store.Create(ctx, res); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	results, err := store.ListByAssessment(ctx, "a1")
	if err != nil {
		t.Fatalf("ListByAssessment: %v", err)
	}
	if len(results) != 2 || results[0].ResultID != "r1" || results[1].ResultID != "r3" {
		t.Fatalf("results = %v, want r1 and r3 in order", results)
	}
}
