package routers

import (
	"peerprep/interview/internal/handlers"
	"peerprep/interview/internal/middleware"
	"peerprep/interview/internal/models"

	"github.com/go-chi/chi/v5"
)

func InterviewRoutes(router *chi.Mux, interviewHandler *handlers.InterviewHandler, historyHandler *handlers.HistoryHandler) {
	router.Route("/api/v1/interviews", func(r chi.Router) {
		r.With(middleware.ValidateRequest[*models.StartInterviewRequest](middleware.DefaultMaxBodyBytes)).Post("/", interviewHandler.StartHandler)

		r.Get("/history", historyHandler.ListHandler)
		r.Get("/history/stats", historyHandler.StatsHandler)
		r.Get("/history/{session_id}", historyHandler.GetHandler)

		r.Route("/{session_id}", func(r chi.Router) {
			r.With(middleware.ValidateRequest[*models.SubmitAnswerRequest](middleware.DefaultMaxBodyBytes)).Post("/answers", interviewHandler.SubmitAnswerHandler)
			r.Get("/", interviewHandler.StatusHandler)
			r.Get("/report", interviewHandler.ReportHandler)
			r.Delete("/", interviewHandler.EndHandler)
		})
	})
}
