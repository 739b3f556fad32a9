package review

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var (
	ErrResultNotFound         = errors.New("result not found")
	ErrResultExists           = errors.New("result already exists")
	ErrConcurrentModification = errors.New("result was modified by someone else")
)

// Store persists score results with optimistic concurrency: Save must be
// given the version the caller loaded and fails with
// ErrConcurrentModification when the stored version has moved on.
type Store interface {
	Load(ctx context.Context, resultID string) (*ScoreResult, error)
	Create(ctx context.Context, res *ScoreResult) error
	Save(ctx context.Context, res *ScoreResult, expectedVersion int64) error
	ListByAssessment(ctx context.Context, assessmentID string) ([]ScoreResult, error)
	// ListHiddenBefore returns IDs of results still hidden whose completion
	// predates the cutoff; the auto-release sweep walks these.
	ListHiddenBefore(ctx context.Context, cutoff time.Time) ([]string, error)
}

// MemoryStore is the in-process Store used by tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	results map[string]*ScoreResult
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{results: make(map[string]*ScoreResult)}
}

func (s *MemoryStore) Load(_ context.Context, resultID string) (*ScoreResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.results[resultID]
	if !ok {
		return nil, ErrResultNotFound
	}
	return res.Clone(), nil
}

func (s *MemoryStore) Create(_ context.Context, res *ScoreResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.results[res.ResultID]; ok {
		return ErrResultExists
	}
	cp := res.Clone()
	cp.Version = 1
	s.results[res.ResultID] = cp
	res.Version = 1
	return nil
}

func (s *MemoryStore) Save(_ context.Context, res *ScoreResult, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.results[res.ResultID]
	if !ok {
		return ErrResultNotFound
	}
	if stored.Version != expectedVersion {
		return ErrConcurrentModification
	}
	cp := res.Clone()
	cp.Version = expectedVersion + 1
	cp.UpdatedAt = time.Now().UTC()
	s.results[res.ResultID] = cp
	res.Version = cp.Version
	res.UpdatedAt = cp.UpdatedAt
	return nil
}

func (s *MemoryStore) ListByAssessment(_ context.Context, assessmentID string) ([]ScoreResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ScoreResult, 0)
	for _, res := range s.results {
		if res.AssessmentID == assessmentID {
			out = append(out, *res.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ResultID < out[j].ResultID })
	return out, nil
}

func (s *MemoryStore) ListHiddenBefore(_ context.Context, cutoff time.Time) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0)
	for id, res := range s.results {
		if !res.FeedbackVisibleToCandidate && res.CompletedAt.Before(cutoff) {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out, nil
}
