package review

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PostgresStore persists results in the score_results table. The version
// column carries the optimistic-concurrency token: updates are conditional on
// the expected version and bump it by one.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Load(ctx context.Context, resultID string) (*ScoreResult, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT
			id,
			assessment_id,
			candidate_id,
			initial_score,
			review_score,
			grader_score,
			final_score,
			total_points,
			manual_corrections,
			reviewer_notes,
			feedback,
			feedback_visible,
			feedback_released_at,
			feedback_release_origin,
			completed_at,
			updated_at,
			version
		FROM score_results
		WHERE id = $1
	`, resultID)
	return scanResult(row)
}

func (s *PostgresStore) Create(ctx context.Context, res *ScoreResult) error {
	corrections, err := encodeCorrections(res.ManualCorrections)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO score_results (
			id,
			assessment_id,
			candidate_id,
			initial_score,
			review_score,
			grader_score,
			final_score,
			total_points,
			manual_corrections,
			reviewer_notes,
			feedback,
			feedback_visible,
			feedback_released_at,
			feedback_release_origin,
			completed_at,
			updated_at,
			version
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9::jsonb,$10,$11,$12,$13,$14,$15,now(),1)
	`,
		res.ResultID,
		res.AssessmentID,
		res.CandidateID,
		res.InitialScore,
		res.ReviewScore,
		res.GraderScore,
		res.FinalScore,
		res.TotalPoints,
		corrections,
		res.ReviewerNotes,
		res.Feedback,
		res.FeedbackVisibleToCandidate,
		res.FeedbackReleasedAt,
		string(res.FeedbackReleaseOrigin),
		res.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	res.Version = 1
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, res *ScoreResult, expectedVersion int64) error {
	corrections, err := encodeCorrections(res.ManualCorrections)
	if err != nil {
		return err
	}
	out, err := s.db.ExecContext(ctx, `
		UPDATE score_results
		SET
			initial_score = $3,
			review_score = $4,
			grader_score = $5,
			final_score = $6,
			total_points = $7,
			manual_corrections = $8::jsonb,
			reviewer_notes = $9,
			feedback = $10,
			feedback_visible = $11,
			feedback_released_at = $12,
			feedback_release_origin = $13,
			updated_at = now(),
			version = version + 1
		WHERE id = $1 AND version = $2
	`,
		res.ResultID,
		expectedVersion,
		res.InitialScore,
		res.ReviewScore,
		res.GraderScore,
		res.FinalScore,
		res.TotalPoints,
		corrections,
		res.ReviewerNotes,
		res.Feedback,
		res.FeedbackVisibleToCandidate,
		res.FeedbackReleasedAt,
		string(res.FeedbackReleaseOrigin),
	)
	if err != nil {
		return fmt.Errorf("update result: %w", err)
	}
	affected, err := out.RowsAffected()
	if err != nil {
		return fmt.Errorf("update result rows affected: %w", err)
	}
	if affected == 0 {
		// Either the row is gone or the version moved. Disambiguate so the
		// caller can distinguish "reload and retry" from "gone".
		var exists bool
		if err := s.db.QueryRowContext(ctx, `
			SELECT EXISTS (SELECT 1 FROM score_results WHERE id = $1)
		`, res.ResultID).Scan(&exists); err != nil {
			return fmt.Errorf("check result after stale save: %w", err)
		}
		if !exists {
			return ErrResultNotFound
		}
		return ErrConcurrentModification
	}
	res.Version = expectedVersion + 1
	return nil
}

func (s *PostgresStore) ListByAssessment(ctx context.Context, assessmentID string) ([]ScoreResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			id,
			assessment_id,
			candidate_id,
			initial_score,
			review_score,
			grader_score,
			final_score,
			total_points,
			manual_corrections,
			reviewer_notes,
			feedback,
			feedback_visible,
			feedback_released_at,
			feedback_release_origin,
			completed_at,
			updated_at,
			version
		FROM score_results
		WHERE assessment_id = $1
		ORDER BY completed_at, id
	`, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("query results by assessment: %w", err)
	}
	defer rows.Close()

	out := make([]ScoreResult, 0)
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ListHiddenBefore(ctx context.Context, cutoff time.Time) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id
		FROM score_results
		WHERE feedback_visible = FALSE AND completed_at < $1
		ORDER BY completed_at
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query hidden results: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan hidden result id: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hidden results: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*ScoreResult, error) {
	var (
		res            ScoreResult
		reviewScore    sql.NullFloat64
		graderScore    sql.NullFloat64
		correctionsRaw []byte
		releasedAt     sql.NullTime
		releaseOrigin  sql.NullString
	)
	err := row.Scan(
		&res.ResultID,
		&res.AssessmentID,
		&res.CandidateID,
		&res.InitialScore,
		&reviewScore,
		&graderScore,
		&res.FinalScore,
		&res.TotalPoints,
		&correctionsRaw,
		&res.ReviewerNotes,
		&res.Feedback,
		&res.FeedbackVisibleToCandidate,
		&releasedAt,
		&releaseOrigin,
		&res.CompletedAt,
		&res.UpdatedAt,
		&res.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("load result: %w", err)
	}
	if reviewScore.Valid {
		res.ReviewScore = &reviewScore.Float64
	}
	if graderScore.Valid {
		res.GraderScore = &graderScore.Float64
	}
	if releasedAt.Valid {
		res.FeedbackReleasedAt = &releasedAt.Time
	}
	if releaseOrigin.Valid {
		res.FeedbackReleaseOrigin = ReleaseOrigin(releaseOrigin.String)
	}
	if len(correctionsRaw) > 0 {
		if err := json.Unmarshal(correctionsRaw, &res.ManualCorrections); err != nil {
			return nil, fmt.Errorf("decode corrections: %w", err)
		}
	}
	return &res, nil
}

func encodeCorrections(m map[string]ManualCorrection) ([]byte, error) {
	if m == nil {
		m = map[string]ManualCorrection{}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode corrections: %w", err)
	}
	return b, nil
}
