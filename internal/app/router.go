package app

import (
	"database/sql"
	"net/http"

	"gradehub/internal/app/observability"
	"gradehub/internal/grader"
	"gradehub/internal/question"
	"gradehub/internal/report"
	"gradehub/internal/review"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func NewRouter(cfg *Config, dbConn *sql.DB, log *zap.Logger) (http.Handler, *review.Service) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	collector := observability.NewCollector()
	r.Use(collector.Middleware)
	r.Use(RateLimitMiddleware(NewIPRateLimiter(cfg.Security.RatePerSecond, cfg.Security.RateBurst)))

	questionStore := question.NewStore(dbConn)
	resultStore := review.NewPostgresStore(dbConn)

	var oracle review.Grader
	if cfg.Grader.APIKey != "" {
		oracle = grader.NewClient(grader.Config{
			BaseURL: cfg.Grader.BaseURL,
			APIKey:  cfg.Grader.APIKey,
			Model:   cfg.Grader.Model,
			Timeout: cfg.Grader.Timeout(),
		})
	}

	reviewSvc := review.NewService(resultStore, questionStore, oracle, log)
	reviewHandler := review.NewHandler(reviewSvc)

	reportSvc := report.NewService(resultStore)
	reportHandler := report.NewHandler(reportSvc)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	r.Handle("/metrics", collector.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Post("/results", reviewHandler.Submit)
		api.Get("/results/{id}/candidate", reviewHandler.GetCandidateView)

		api.Group(func(reviewer chi.Router) {
			reviewer.Use(RequireReviewer(cfg.Security.ReviewerKeyHash))
			reviewer.Get("/results/{id}", reviewHandler.GetResult)
			reviewer.Get("/results/{id}/review", reviewHandler.OpenReview)
			reviewer.Put("/results/{id}/review", reviewHandler.SaveReview)
			reviewer.Post("/results/{id}/review/grade", reviewHandler.Grade)
			reviewer.Post("/results/{id}/feedback/share", reviewHandler.Share)
			reviewer.Post("/results/{id}/feedback/revoke", reviewHandler.Revoke)
			reviewer.Get("/assessments/{id}/report", reportHandler.Summary)
			reviewer.Get("/assessments/{id}/report/export", reportHandler.Export)
		})
	})

	return r, reviewSvc
}
