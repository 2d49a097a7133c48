package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"peerprep/interview/internal/interview"
	"peerprep/interview/internal/middleware"
	"peerprep/interview/internal/models"
	"peerprep/interview/internal/store"
	"peerprep/interview/internal/testhelpers"
)

// ============================================================================
// Test Helpers
// ============================================================================

func newInterviewRouter(t *testing.T, resumeCheck bool) http.Handler {
	t.Helper()
	ctrl := testhelpers.NewController(store.NewMemoryStore(0))
	h := NewInterviewHandler(ctrl, resumeCheck, zap.NewNop())

	r := chi.NewRouter()
	r.With(middleware.ValidateRequest[*models.StartInterviewRequest](middleware.DefaultMaxBodyBytes)).Post("/interviews", h.StartHandler)
	r.Route("/interviews/{session_id}", func(r chi.Router) {
		r.With(middleware.ValidateRequest[*models.SubmitAnswerRequest](middleware.DefaultMaxBodyBytes)).Post("/answers", h.SubmitAnswerHandler)
		r.Get("/", h.StatusHandler)
		r.Get("/report", h.ReportHandler)
		r.Delete("/", h.EndHandler)
	})
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
}

func startInterview(t *testing.T, router http.Handler, limit int) models.StartInterviewResponse {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/interviews", map[string]interface{}{
		"name": "Alice Tan", "role": "Backend Engineer", "mode": "turns", "limit": limit,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp models.StartInterviewResponse
	decodeInto(t, rec, &resp)
	return resp
}

func submit(t *testing.T, router http.Handler, id string, answer string, seq int) *httptest.ResponseRecorder {
	t.Helper()
	return doJSON(t, router, http.MethodPost, fmt.Sprintf("/interviews/%s/answers", id), map[string]interface{}{
		"answer": answer, "question_seq": seq,
	})
}

// ============================================================================
// StartHandler Tests
// ============================================================================

func TestStartHandler_CreatesSession(t *testing.T) {
	router := newInterviewRouter(t, false)

	resp := startInterview(t, router, 2)

	if resp.SessionID == "" {
		t.Fatal("expected a session id")
	}
	if resp.QuestionSeq != 1 {
		t.Errorf("expected question_seq 1, got %d", resp.QuestionSeq)
	}
	if resp.IsEnd {
		t.Error("new interview should not be ended")
	}
	if resp.Mode != "turns" || resp.Limit != 2 {
		t.Errorf("unexpected pacing %s/%d", resp.Mode, resp.Limit)
	}
	if !strings.HasPrefix(resp.Message, "Hello Alice Tan.") || !strings.HasSuffix(resp.Message, interview.IntroQuestion) {
		t.Errorf("unexpected opening message %q", resp.Message)
	}
}

func TestStartHandler_LimitOutOfBounds(t *testing.T) {
	router := newInterviewRouter(t, false)

	rec := doJSON(t, router, http.MethodPost, "/interviews", map[string]interface{}{
		"name": "Alice", "role": "SRE", "mode": "time", "limit": 1,
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	var resp models.ErrorResponse
	decodeInto(t, rec, &resp)
	if resp.Code != "invalid_limit" {
		t.Errorf("expected code invalid_limit, got %s", resp.Code)
	}
}

func TestStartHandler_ResumeNameMismatch(t *testing.T) {
	router := newInterviewRouter(t, true)

	rec := doJSON(t, router, http.MethodPost, "/interviews", map[string]interface{}{
		"name": "Alice Tan", "role": "SRE", "mode": "turns", "limit": 2,
		"resume_text": "Bob Lee. Five years of Go.",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
	var resp models.ErrorResponse
	decodeInto(t, rec, &resp)
	if resp.Code != "resume_name_mismatch" {
		t.Errorf("expected code resume_name_mismatch, got %s", resp.Code)
	}
}

func TestStartHandler_ResumeCheckDisabled(t *testing.T) {
	router := newInterviewRouter(t, false)

	rec := doJSON(t, router, http.MethodPost, "/interviews", map[string]interface{}{
		"name": "Alice Tan", "role": "SRE", "mode": "turns", "limit": 2,
		"resume_text": "Bob Lee. Five years of Go.",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", rec.Code)
	}
}

// ============================================================================
// SubmitAnswerHandler Tests
// ============================================================================

func TestSubmitAnswerHandler_RunsToCompletion(t *testing.T) {
	router := newInterviewRouter(t, false)
	started := startInterview(t, router, 1)

	rec := submit(t, router, started.SessionID, "I build APIs.", started.QuestionSeq)
	if rec.Code != http.StatusOK {
		t.Fatalf("intro: expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var first models.SubmitAnswerResponse
	decodeInto(t, rec, &first)
	if first.IsEnd {
		t.Fatal("interview ended after the introduction")
	}
	if first.Phase != string(interview.PhaseMain) {
		t.Errorf("expected main phase, got %s", first.Phase)
	}
	if first.QuestionSeq != 2 {
		t.Errorf("expected question_seq 2, got %d", first.QuestionSeq)
	}

	rec = submit(t, router, started.SessionID, "A hash map buckets keys by hash.", first.QuestionSeq)
	if rec.Code != http.StatusOK {
		t.Fatalf("answer: expected status 200, got %d", rec.Code)
	}
	var last models.SubmitAnswerResponse
	decodeInto(t, rec, &last)
	if !last.IsEnd {
		t.Fatal("expected the interview to end at the turn limit")
	}
	if last.ReportData == nil || last.ReportData.Details == nil {
		t.Fatal("expected report data on the final response")
	}
	if len(last.ReportData.Scores) != 1 || last.ReportData.Scores[0] != 60 {
		t.Errorf("unexpected scores %v", last.ReportData.Scores)
	}
	if len(last.ReportData.Transcript) != 1 {
		t.Errorf("expected one transcript entry, got %d", len(last.ReportData.Transcript))
	}
}

func TestSubmitAnswerHandler_OutOfOrder(t *testing.T) {
	router := newInterviewRouter(t, false)
	started := startInterview(t, router, 2)

	rec := submit(t, router, started.SessionID, "hello", 7)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", rec.Code)
	}
	var resp models.ErrorResponse
	decodeInto(t, rec, &resp)
	if resp.Code != "out_of_order" {
		t.Errorf("expected code out_of_order, got %s", resp.Code)
	}
}

func TestSubmitAnswerHandler_UnknownSession(t *testing.T) {
	router := newInterviewRouter(t, false)

	rec := submit(t, router, "missing", "hello", 0)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestSubmitAnswerHandler_InvalidJSON(t *testing.T) {
	router := newInterviewRouter(t, false)
	started := startInterview(t, router, 2)

	req := httptest.NewRequest(http.MethodPost, "/interviews/"+started.SessionID+"/answers", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}

// ============================================================================
// Status / Report / End Tests
// ============================================================================

func TestStatusHandler_ReportsPendingQuestion(t *testing.T) {
	router := newInterviewRouter(t, false)
	started := startInterview(t, router, 2)

	rec := doJSON(t, router, http.MethodGet, "/interviews/"+started.SessionID+"/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var status interview.Status
	decodeInto(t, rec, &status)
	if status.Pending == nil || status.Pending.Phase != interview.PhaseIntro {
		t.Errorf("expected the introduction to be pending, got %+v", status.Pending)
	}
	if status.Candidate.Name != "Alice Tan" {
		t.Errorf("unexpected candidate %q", status.Candidate.Name)
	}
}

func TestReportHandler_ReturnsPartialReport(t *testing.T) {
	router := newInterviewRouter(t, false)
	started := startInterview(t, router, 2)

	rec := doJSON(t, router, http.MethodGet, "/interviews/"+started.SessionID+"/report", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var report interview.Report
	decodeInto(t, rec, &report)
	if report.SessionID != started.SessionID {
		t.Errorf("expected report for %s, got %s", started.SessionID, report.SessionID)
	}
	if len(report.Transcript) != 0 {
		t.Errorf("expected empty transcript, got %d turns", len(report.Transcript))
	}
}

func TestEndHandler_RemovesSession(t *testing.T) {
	router := newInterviewRouter(t, false)
	started := startInterview(t, router, 2)

	rec := doJSON(t, router, http.MethodDelete, "/interviews/"+started.SessionID+"/", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/interviews/"+started.SessionID+"/", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 after end, got %d", rec.Code)
	}
}

func TestErrorResponseMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{interview.ErrSessionNotFound, http.StatusNotFound, "session_not_found"},
		{interview.ErrSubmissionInProgress, http.StatusConflict, "submission_in_progress"},
		{fmt.Errorf("wrapped: %w", interview.ErrOutOfOrder), http.StatusConflict, "out_of_order"},
		{interview.ErrNoPendingQuestion, http.StatusConflict, "no_pending_question"},
		{interview.ErrInvalidPacing, http.StatusBadRequest, "invalid_limit"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		status, resp := errorResponse(tt.err)
		if status != tt.status || resp.Code != tt.code {
			t.Errorf("%v: expected %d/%s, got %d/%s", tt.err, tt.status, tt.code, status, resp.Code)
		}
	}
}
