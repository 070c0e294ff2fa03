package interview

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers interview routes. r is expected to carry the auth middleware.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Route("/api/interview", func(r chi.Router) {
		r.Get("/start", h.StartInterview)
		r.Post("/start", h.StartInterview)
		r.Post("/answer", h.SubmitAnswer)
		r.Get("/analysis", h.AnalyzeSession)
		r.Get("/analysis/report", h.AnalysisReport)
		r.Get("/sessions", h.ListSessions)
		r.Get("/sessions/{session_id}", h.GetSession)
	})
	r.Get("/api/analysis/info", h.LegacyAnalysis)
}
