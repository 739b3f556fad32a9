package question

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrAssessmentNotFound = errors.New("assessment not found")

// Store reads published questions and submitted answers. Authoring and
// candidate submission UIs live outside this service; the store is
// deliberately read-only.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetQuestions(ctx context.Context, assessmentID string) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			id,
			assessment_id,
			question_type,
			prompt,
			points,
			COALESCE(options, '[]'::jsonb),
			correct_answer,
			COALESCE(expected_output, '')
		FROM questions
		WHERE assessment_id = $1
		ORDER BY seq_no
	`, assessmentID)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	out := make([]Question, 0)
	for rows.Next() {
		var (
			q          Question
			qType      string
			optionsRaw []byte
			answerRaw  []byte
			points     sql.NullInt64
		)
		if err := rows.Scan(&q.ID, &q.AssessmentID, &qType, &q.Prompt, &points, &optionsRaw, &answerRaw, &q.ExpectedOutput); err != nil {
			return nil, fmt.Errorf("scan question row: %w", err)
		}
		q.Type = ParseType(qType)
		if points.Valid && points.Int64 > 0 {
			q.Points = int(points.Int64)
		}
		if len(optionsRaw) > 0 {
			if err := json.Unmarshal(optionsRaw, &q.Options); err != nil {
				return nil, fmt.Errorf("decode options for question %s: %w", q.ID, err)
			}
		}
		if len(answerRaw) > 0 {
			// Decoded as untyped JSON on purpose: the correct answer may be a
			// number (index) or a string (option text) depending on how the
			// assessment was authored.
			if err := json.Unmarshal(answerRaw, &q.CorrectAnswer); err != nil {
				return nil, fmt.Errorf("decode correct answer for question %s: %w", q.ID, err)
			}
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	if len(out) == 0 {
		var exists bool
		if err := s.db.QueryRowContext(ctx, `
			SELECT EXISTS (SELECT 1 FROM assessments WHERE id = $1)
		`, assessmentID).Scan(&exists); err != nil {
			return nil, fmt.Errorf("check assessment: %w", err)
		}
		if !exists {
			return nil, ErrAssessmentNotFound
		}
	}
	return out, nil
}

// GetAnswers returns the raw candidate answers keyed by question ID. Values
// keep whatever JSON shape the submitting UI produced (number, string, or
// anything else); normalization happens at evaluation time.
func (s *Store) GetAnswers(ctx context.Context, resultID string) (map[string]any, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT question_id, answer
		FROM result_answers
		WHERE result_id = $1
	`, resultID)
	if err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	out := make(map[string]any)
	for rows.Next() {
		var (
			questionID string
			raw        []byte
		)
		if err := rows.Scan(&questionID, &raw); err != nil {
			return nil, fmt.Errorf("scan answer row: %w", err)
		}
		var v any
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &v); err != nil {
				// A malformed stored answer degrades to "no answer" rather
				// than failing the whole evaluation.
				v = nil
			}
		}
		out[questionID] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate answers: %w", err)
	}
	return out, nil
}

// SaveAnswers persists a submission's raw answers for later re-evaluation
// during review.
func (s *Store) SaveAnswers(ctx context.Context, resultID string, answers map[string]any) error {
	for questionID, v := range answers {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode answer for question %s: %w", questionID, err)
		}
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO result_answers (result_id, question_id, answer)
			VALUES ($1, $2, $3::jsonb)
			ON CONFLICT (result_id, question_id)
			DO UPDATE SET answer = EXCLUDED.answer
		`, resultID, questionID, raw); err != nil {
			return fmt.Errorf("upsert answer: %w", err)
		}
	}
	return nil
}
