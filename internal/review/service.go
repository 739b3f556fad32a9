package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gradehub/internal/grader"
	"gradehub/internal/question"
	"gradehub/internal/scoring"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrFeedbackHidden      = errors.New("feedback is not visible to the candidate")
	ErrGraderUnavailable   = errors.New("semantic grader unavailable, retry later")
	ErrGraderNotConfigured = errors.New("semantic grader is not configured")
)

// QuestionSource provides the published questions of an assessment and the
// raw answers of a submission. Question authoring and answer capture are
// external collaborators.
type QuestionSource interface {
	GetQuestions(ctx context.Context, assessmentID string) ([]question.Question, error)
	GetAnswers(ctx context.Context, resultID string) (map[string]any, error)
	SaveAnswers(ctx context.Context, resultID string, answers map[string]any) error
}

// Grader is the opaque semantic scoring oracle. It may fail or time out;
// its output enriches a result but is never ground truth.
type Grader interface {
	Evaluate(ctx context.Context, p grader.Payload) (*grader.Evaluation, error)
}

// Service owns the scoring and review-reconciliation workflows around
// persisted results. All mutations go through the store's version token, so
// two reviewer sessions editing the same result cannot silently overwrite
// each other.
type Service struct {
	store     Store
	questions QuestionSource
	grader    Grader
	log       *zap.Logger
	now       func() time.Time
}

func NewService(store Store, questions QuestionSource, g Grader, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:     store,
		questions: questions,
		grader:    g,
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type SubmitInput struct {
	AssessmentID string
	CandidateID  string
	Answers      map[string]any
	CompletedAt  time.Time
}

// SubmitResult evaluates a submission and persists the automatic result:
// initial score populated, review score absent, feedback hidden.
func (s *Service) SubmitResult(ctx context.Context, in SubmitInput) (*ScoreResult, error) {
	questions, err := s.questions.GetQuestions(ctx, in.AssessmentID)
	if err != nil {
		return nil, err
	}

	verdicts := scoring.EvaluateAll(questions, in.Answers)
	totals := scoring.Aggregate(questions, verdicts)

	completedAt := in.CompletedAt
	if completedAt.IsZero() {
		completedAt = s.now()
	}

	res := &ScoreResult{
		ResultID:          uuid.NewString(),
		AssessmentID:      in.AssessmentID,
		CandidateID:       in.CandidateID,
		InitialScore:      totals.EarnedPoints,
		FinalScore:        scoring.ClampScore(scoring.Reconcile(scoring.ReconcileInput{Initial: &totals.EarnedPoints}), totals.TotalPoints),
		TotalPoints:       totals.TotalPoints,
		ManualCorrections: map[string]ManualCorrection{},
		Feedback:          automaticFeedback(totals, verdicts),
		CompletedAt:       completedAt,
		UpdatedAt:         s.now(),
	}

	if err := s.store.Create(ctx, res); err != nil {
		return nil, err
	}
	if err := s.questions.SaveAnswers(ctx, res.ResultID, in.Answers); err != nil {
		return nil, err
	}

	s.log.Info("result submitted",
		zap.String("result_id", res.ResultID),
		zap.String("assessment_id", in.AssessmentID),
		zap.Float64("initial_score", res.InitialScore),
		zap.Float64("total_points", res.TotalPoints),
	)
	return res, nil
}

// ReviewView is what a reviewer sees when opening a result: the automatic
// verdicts next to any saved corrections, plus the version token the
// subsequent save must present.
type ReviewView struct {
	Result    *ScoreResult                `json:"result"`
	Questions []question.Question         `json:"questions"`
	Verdicts  []scoring.Verdict           `json:"verdicts"`
	Overlay   map[string]ManualCorrection `json:"overlay"`
}

// OpenReview loads everything a correction session needs. The automatic
// verdicts are recomputed from the stored answers, never trusted from the
// client.
func (s *Service) OpenReview(ctx context.Context, resultID string) (*ReviewView, error) {
	res, err := s.store.Load(ctx, resultID)
	if err != nil {
		return nil, err
	}
	questions, verdicts, err := s.reevaluate(ctx, res)
	if err != nil {
		return nil, err
	}
	return &ReviewView{
		Result:    res,
		Questions: questions,
		Verdicts:  verdicts,
		Overlay:   res.ManualCorrections,
	}, nil
}

type CorrectionInput struct {
	QuestionID string   `json:"question_id"`
	IsValid    *bool    `json:"is_valid,omitempty"`
	Points     *float64 `json:"points,omitempty"`
	Note       string   `json:"note,omitempty"`
}

type SaveReviewInput struct {
	ResultID      string
	Version       int64
	Corrections   []CorrectionInput
	ReviewerNotes string
}

// SaveReview applies reviewer corrections on top of the automatic verdicts,
// recomputes the reviewed score, reconciles it with the initial score and
// saves the result against the version the reviewer loaded. A stale version
// surfaces ErrConcurrentModification; the caller reloads and retries.
func (s *Service) SaveReview(ctx context.Context, in SaveReviewInput) (*ScoreResult, error) {
	res, err := s.store.Load(ctx, in.ResultID)
	if err != nil {
		return nil, err
	}

	questions, verdicts, err := s.reevaluate(ctx, res)
	if err != nil {
		return nil, err
	}

	overlay := NewOverlay(questions, verdicts, res.ManualCorrections)
	for _, c := range in.Corrections {
		if c.IsValid != nil {
			if err := s.applyValidity(overlay, c.QuestionID, *c.IsValid); err != nil {
				return nil, err
			}
		}
		if c.Points != nil {
			if err := overlay.SetPoints(c.QuestionID, *c.Points); err != nil {
				return nil, err
			}
		}
		if c.Note != "" {
			if err := overlay.SetNote(c.QuestionID, c.Note); err != nil {
				return nil, err
			}
		}
	}

	reviewed := overlay.ReviewedScore()
	res.ManualCorrections = overlay.Corrections()
	res.ReviewScore = &reviewed
	res.ReviewerNotes = in.ReviewerNotes
	res.FinalScore = scoring.ClampScore(scoring.Reconcile(scoring.ReconcileInput{
		Explicit: res.GraderScore,
		Initial:  &res.InitialScore,
		Review:   res.ReviewScore,
	}), res.TotalPoints)

	if err := s.store.Save(ctx, res, in.Version); err != nil {
		return nil, err
	}

	s.log.Info("review saved",
		zap.String("result_id", res.ResultID),
		zap.Float64("review_score", reviewed),
		zap.Float64("final_score", res.FinalScore),
		zap.Int("corrections", len(res.ManualCorrections)),
	)
	return res, nil
}

// applyValidity sets an absolute validity flag through the toggle primitive,
// so seeding and point derivation stay in one place.
func (s *Service) applyValidity(overlay *Overlay, questionID string, isValid bool) error {
	c, exists := overlay.Corrections()[questionID]
	if !exists {
		if err := overlay.ToggleValidity(questionID); err != nil {
			return err
		}
		c = overlay.Corrections()[questionID]
	}
	if c.IsValid != isValid {
		return overlay.ToggleValidity(questionID)
	}
	return nil
}

// GradeWithOracle asks the semantic grader to score the submission and
// stores its score as the explicit final-score source. A grader failure
// leaves the stored result untouched and surfaces a retryable error.
func (s *Service) GradeWithOracle(ctx context.Context, resultID string) (*ScoreResult, error) {
	if s.grader == nil {
		return nil, ErrGraderNotConfigured
	}
	res, err := s.store.Load(ctx, resultID)
	if err != nil {
		return nil, err
	}
	questions, err := s.questions.GetQuestions(ctx, res.AssessmentID)
	if err != nil {
		return nil, err
	}
	answers, err := s.questions.GetAnswers(ctx, resultID)
	if err != nil {
		return nil, err
	}

	eval, err := s.grader.Evaluate(ctx, grader.BuildPayload(questions, answers, res.TotalPoints))
	if err != nil {
		s.log.Warn("semantic grader call failed",
			zap.String("result_id", resultID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrGraderUnavailable, err)
	}

	score := scoring.ClampScore(scoring.Round2(eval.Score), res.TotalPoints)
	res.GraderScore = &score
	res.FinalScore = scoring.ClampScore(scoring.Reconcile(scoring.ReconcileInput{
		Explicit: res.GraderScore,
		Initial:  &res.InitialScore,
		Review:   res.ReviewScore,
	}), res.TotalPoints)
	if eval.Feedback != "" {
		res.Feedback = eval.Feedback
	}

	if err := s.store.Save(ctx, res, res.Version); err != nil {
		return nil, err
	}

	s.log.Info("result enriched by semantic grader",
		zap.String("result_id", resultID),
		zap.Float64("grader_score", score),
	)
	return res, nil
}

// ShareFeedback is the explicit reviewer release.
func (s *Service) ShareFeedback(ctx context.Context, resultID string) (*ScoreResult, error) {
	res, err := s.store.Load(ctx, resultID)
	if err != nil {
		return nil, err
	}
	if err := Share(res, s.now(), ReleaseOriginManual); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, res, res.Version); err != nil {
		return nil, err
	}
	s.log.Info("feedback shared", zap.String("result_id", resultID))
	return res, nil
}

// RevokeFeedback hides feedback again without erasing the release history.
func (s *Service) RevokeFeedback(ctx context.Context, resultID string) (*ScoreResult, error) {
	res, err := s.store.Load(ctx, resultID)
	if err != nil {
		return nil, err
	}
	Revoke(res)
	if err := s.store.Save(ctx, res, res.Version); err != nil {
		return nil, err
	}
	s.log.Info("feedback revoked", zap.String("result_id", resultID))
	return res, nil
}

// CandidateView is the gated, candidate-facing projection of a result. It
// deliberately omits the initial/review score breakdown.
type CandidateView struct {
	ResultID    string    `json:"result_id"`
	FinalScore  float64   `json:"final_score"`
	TotalPoints float64   `json:"total_points"`
	Feedback    string    `json:"feedback"`
	ReleasedAt  time.Time `json:"released_at"`
}

// GetCandidateView returns the candidate projection when feedback is
// visible. The lazy auto-release check runs first, so a read past the
// 20-day threshold flips the gate on the spot; the transition is persisted
// best-effort and retried once on a concurrent bump, which is safe because
// the transition is idempotent.
func (s *Service) GetCandidateView(ctx context.Context, resultID string) (*CandidateView, error) {
	res, err := s.store.Load(ctx, resultID)
	if err != nil {
		return nil, err
	}

	if CheckAutoRelease(res, s.now()) {
		if err := s.store.Save(ctx, res, res.Version); err != nil {
			if !errors.Is(err, ErrConcurrentModification) {
				return nil, err
			}
			res, err = s.store.Load(ctx, resultID)
			if err != nil {
				return nil, err
			}
			if CheckAutoRelease(res, s.now()) {
				if err := s.store.Save(ctx, res, res.Version); err != nil {
					return nil, err
				}
			}
		}
		s.log.Info("feedback auto-released on read", zap.String("result_id", resultID))
	}

	if !res.FeedbackVisibleToCandidate {
		return nil, ErrFeedbackHidden
	}
	view := &CandidateView{
		ResultID:    res.ResultID,
		FinalScore:  res.FinalScore,
		TotalPoints: res.TotalPoints,
		Feedback:    res.Feedback,
	}
	if res.FeedbackReleasedAt != nil {
		view.ReleasedAt = *res.FeedbackReleasedAt
	}
	return view, nil
}

// GetResult returns the full reviewer-facing result.
func (s *Service) GetResult(ctx context.Context, resultID string) (*ScoreResult, error) {
	return s.store.Load(ctx, resultID)
}

func (s *Service) reevaluate(ctx context.Context, res *ScoreResult) ([]question.Question, []scoring.Verdict, error) {
	questions, err := s.questions.GetQuestions(ctx, res.AssessmentID)
	if err != nil {
		return nil, nil, err
	}
	answers, err := s.questions.GetAnswers(ctx, res.ResultID)
	if err != nil {
		return nil, nil, err
	}
	return questions, scoring.EvaluateAll(questions, answers), nil
}

func automaticFeedback(totals scoring.Totals, verdicts []scoring.Verdict) string {
	correct := 0
	gradable := 0
	for _, v := range verdicts {
		if !v.Gradable {
			continue
		}
		gradable++
		if v.IsCorrect {
			correct++
		}
	}
	return fmt.Sprintf(
		"You scored %.0f of %.0f points (%d%%). %d of %d machine-graded questions were answered correctly.",
		totals.EarnedPoints, totals.TotalPoints, totals.Percentage, correct, gradable,
	)
}
