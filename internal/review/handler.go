package review

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"gradehub/internal/app/apiresp"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	svc reviewService
}

type reviewService interface {
	SubmitResult(ctx context.Context, in SubmitInput) (*ScoreResult, error)
	GetResult(ctx context.Context, resultID string) (*ScoreResult, error)
	GetCandidateView(ctx context.Context, resultID string) (*CandidateView, error)
	OpenReview(ctx context.Context, resultID string) (*ReviewView, error)
	SaveReview(ctx context.Context, in SaveReviewInput) (*ScoreResult, error)
	GradeWithOracle(ctx context.Context, resultID string) (*ScoreResult, error)
	ShareFeedback(ctx context.Context, resultID string) (*ScoreResult, error)
	RevokeFeedback(ctx context.Context, resultID string) (*ScoreResult, error)
}

func NewHandler(svc reviewService) *Handler {
	return &Handler{svc: svc}
}

type submitRequest struct {
	AssessmentID string         `json:"assessment_id"`
	CandidateID  string         `json:"candidate_id"`
	Answers      map[string]any `json:"answers"`
	CompletedAt  string         `json:"completed_at"`
}

type saveReviewRequest struct {
	Version       int64             `json:"version"`
	Corrections   []CorrectionInput `json:"corrections"`
	ReviewerNotes string            `json:"reviewer_notes"`
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.AssessmentID) == "" {
		apiresp.WriteError(w, r, http.StatusBadRequest, "assessment_id is required")
		return
	}

	var completedAt time.Time
	if v := strings.TrimSpace(req.CompletedAt); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			apiresp.WriteError(w, r, http.StatusBadRequest, "completed_at must be RFC3339")
			return
		}
		completedAt = parsed
	}

	res, err := h.svc.SubmitResult(r.Context(), SubmitInput{
		AssessmentID: req.AssessmentID,
		CandidateID:  req.CandidateID,
		Answers:      req.Answers,
		CompletedAt:  completedAt,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusCreated, res)
}

func (h *Handler) GetResult(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GetResult(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, res)
}

func (h *Handler) GetCandidateView(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.GetCandidateView(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, view)
}

func (h *Handler) OpenReview(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.OpenReview(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, view)
}

func (h *Handler) SaveReview(w http.ResponseWriter, r *http.Request) {
	var req saveReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apiresp.WriteError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Version <= 0 {
		apiresp.WriteError(w, r, http.StatusBadRequest, "version is required")
		return
	}

	res, err := h.svc.SaveReview(r.Context(), SaveReviewInput{
		ResultID:      chi.URLParam(r, "id"),
		Version:       req.Version,
		Corrections:   req.Corrections,
		ReviewerNotes: req.ReviewerNotes,
	})
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, res)
}

func (h *Handler) Grade(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.GradeWithOracle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, res)
}

func (h *Handler) Share(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ShareFeedback(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, res)
}

func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.RevokeFeedback(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	apiresp.WriteOK(w, r, http.StatusOK, res)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrResultNotFound):
		apiresp.WriteError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrFeedbackHidden):
		apiresp.WriteError(w, r, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrNoFeedbackAvailable):
		apiresp.WriteError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ErrConcurrentModification):
		apiresp.WriteError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, ErrUnknownQuestion):
		apiresp.WriteError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrGraderUnavailable):
		apiresp.WriteError(w, r, http.StatusBadGateway, err.Error())
	case errors.Is(err, ErrGraderNotConfigured):
		apiresp.WriteError(w, r, http.StatusNotImplemented, err.Error())
	default:
		apiresp.WriteError(w, r, http.StatusInternalServerError, "internal error")
	}
}
