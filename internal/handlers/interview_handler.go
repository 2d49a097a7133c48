package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"peerprep/interview/internal/interview"
	"peerprep/interview/internal/middleware"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/utils"
)

type InterviewHandler struct {
	controller      *interview.Controller
	resumeNameCheck bool
	logger          *zap.Logger
}

func NewInterviewHandler(controller *interview.Controller, resumeNameCheck bool, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{
		controller:      controller,
		resumeNameCheck: resumeNameCheck,
		logger:          logger,
	}
}

func (h *InterviewHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.StartInterviewRequest](r)

	if h.resumeNameCheck && req.ResumeText != "" && !utils.ResumeMentionsName(req.Name, req.ResumeText) {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "resume_name_mismatch",
			Message: "The resume does not appear to belong to " + req.Name,
		})
		return
	}

	res, err := h.controller.Start(r.Context(), interview.StartInput{
		Candidate: interview.Candidate{Name: req.Name, Role: req.Role, Resume: req.ResumeText},
		Pacing:    interview.Pacing{Mode: interview.PacingMode(req.Mode), Limit: req.Limit},
		Channel:   interview.Channel(req.Channel),
	})
	if err != nil {
		h.writeError(w, "", err)
		return
	}

	h.logger.Info("Interview started",
		zap.String("session_id", res.SessionID),
		zap.String("mode", req.Mode),
		zap.Int("limit", req.Limit),
		zap.Bool("resume", req.ResumeText != ""))

	utils.JSON(w, http.StatusCreated, models.StartInterviewResponse{
		SessionID:   res.SessionID,
		Message:     res.Message,
		QuestionSeq: res.Question.Seq,
		IsEnd:       false,
		Mode:        string(res.Pacing.Mode),
		Limit:       res.Pacing.Limit,
	})
}

func (h *InterviewHandler) SubmitAnswerHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "session_id")
	req := middleware.GetValidatedRequest[*models.SubmitAnswerRequest](r)

	res, err := h.controller.SubmitAnswer(r.Context(), id, interview.AnswerInput{
		Answer:  req.Answer,
		Silence: req.IsSilence,
		Seq:     req.QuestionSeq,
	})
	if err != nil {
		h.writeError(w, id, err)
		return
	}

	resp := models.SubmitAnswerResponse{
		IsEnd:            res.Ended,
		Filler:           res.Filler,
		Message:          res.Message,
		RemainingSeconds: res.RemainingSeconds,
	}
	if res.Question != nil {
		resp.QuestionSeq = res.Question.Seq
		resp.Phase = string(res.Question.Phase)
	}
	if res.Report != nil {
		resp.ReportData = &models.ReportData{
			Details:    res.Report,
			Transcript: res.Report.Transcript,
			Scores:     res.Report.Scores,
		}
	}
	utils.JSON(w, http.StatusOK, resp)
}

func (h *InterviewHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "session_id")
	status, err := h.controller.Status(r.Context(), id)
	if err != nil {
		h.writeError(w, id, err)
		return
	}
	utils.JSON(w, http.StatusOK, status)
}

func (h *InterviewHandler) ReportHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "session_id")
	report, err := h.controller.Report(r.Context(), id)
	if err != nil {
		h.writeError(w, id, err)
		return
	}
	utils.JSON(w, http.StatusOK, report)
}

func (h *InterviewHandler) EndHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "session_id")
	if err := h.controller.End(r.Context(), id); err != nil {
		h.writeError(w, id, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeError maps controller errors onto HTTP responses
func (h *InterviewHandler) writeError(w http.ResponseWriter, id string, err error) {
	status, resp := errorResponse(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("Interview request failed", zap.String("session_id", id), zap.Error(err))
	}
	utils.JSON(w, status, resp)
}

func errorResponse(err error) (int, models.ErrorResponse) {
	switch {
	case errors.Is(err, interview.ErrSessionNotFound):
		return http.StatusNotFound, models.ErrorResponse{Code: "session_not_found", Message: "Interview session not found or expired"}
	case errors.Is(err, interview.ErrSubmissionInProgress):
		return http.StatusConflict, models.ErrorResponse{Code: "submission_in_progress", Message: err.Error()}
	case errors.Is(err, interview.ErrOutOfOrder):
		return http.StatusConflict, models.ErrorResponse{Code: "out_of_order", Message: err.Error()}
	case errors.Is(err, interview.ErrNoPendingQuestion):
		return http.StatusConflict, models.ErrorResponse{Code: "no_pending_question", Message: err.Error()}
	case errors.Is(err, interview.ErrInvalidPacing):
		return http.StatusBadRequest, models.ErrorResponse{Code: "invalid_limit", Message: err.Error()}
	}
	return http.StatusInternalServerError, models.ErrorResponse{Code: "internal_error", Message: "Internal server error"}
}
