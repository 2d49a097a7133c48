package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"peerprep/interview/internal/history"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/utils"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// HistoryReader is the read side of the interview archive
type HistoryReader interface {
	List(ctx context.Context, candidate string, limit int) ([]models.InterviewRecord, error)
	Get(ctx context.Context, sessionID string) (*models.InterviewRecord, error)
	Stats(ctx context.Context) (map[string]interface{}, error)
}

type HistoryHandler struct {
	archive HistoryReader
	logger  *zap.Logger
}

// NewHistoryHandler accepts a nil archive; requests then get 503
func NewHistoryHandler(archive HistoryReader, logger *zap.Logger) *HistoryHandler {
	return &HistoryHandler{archive: archive, logger: logger}
}

func (h *HistoryHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
				Code:    "invalid_limit",
				Message: "limit must be a positive integer",
			})
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	records, err := h.archive.List(r.Context(), r.URL.Query().Get("candidate"), limit)
	if err != nil {
		h.logger.Error("Failed to list interview history", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to load interview history",
		})
		return
	}

	resp := models.HistoryResponse{Interviews: make([]models.HistoryEntry, 0, len(records))}
	for _, rec := range records {
		resp.Interviews = append(resp.Interviews, history.Entry(rec))
	}
	resp.Count = len(resp.Interviews)
	utils.JSON(w, http.StatusOK, resp)
}

func (h *HistoryHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	id := chi.URLParam(r, "session_id")
	rec, err := h.archive.Get(r.Context(), id)
	if errors.Is(err, history.ErrNotFound) {
		utils.JSON(w, http.StatusNotFound, models.ErrorResponse{
			Code:    "interview_not_found",
			Message: "No archived interview with that id",
		})
		return
	}
	if err != nil {
		h.logger.Error("Failed to load archived interview", zap.String("session_id", id), zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to load archived interview",
		})
		return
	}
	utils.JSON(w, http.StatusOK, rec)
}

func (h *HistoryHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	stats, err := h.archive.Stats(r.Context())
	if err != nil {
		h.logger.Error("Failed to load interview stats", zap.Error(err))
		utils.JSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Code:    "internal_error",
			Message: "Failed to load interview stats",
		})
		return
	}
	utils.JSON(w, http.StatusOK, stats)
}

func (h *HistoryHandler) available(w http.ResponseWriter) bool {
	if h.archive == nil {
		utils.JSON(w, http.StatusServiceUnavailable, models.ErrorResponse{
			Code:    "history_disabled",
			Message: "Interview history is not enabled",
		})
		return false
	}
	return true
}
