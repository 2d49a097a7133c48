package models

import (
	"time"

	"peerprep/interview/internal/interview"
)

// uniform error responses
type ErrorResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Details []ValidationErrorDetail `json:"details,omitempty"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

// single field validation error
type ValidationErrorDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

type StartInterviewResponse struct {
	SessionID   string `json:"session_id"`
	Message     string `json:"message"`
	QuestionSeq int    `json:"question_seq"`
	IsEnd       bool   `json:"is_end"`
	Mode        string `json:"mode"`
	Limit       int    `json:"limit"`
}

type SubmitAnswerResponse struct {
	IsEnd            bool        `json:"is_end"`
	Filler           string      `json:"filler"`
	Message          string      `json:"message"`
	QuestionSeq      int         `json:"question_seq,omitempty"`
	Phase            string      `json:"phase,omitempty"`
	RemainingSeconds *int        `json:"remaining_seconds,omitempty"`
	ReportData       *ReportData `json:"report_data,omitempty"`
}

// ReportData is attached to the final answer response. Details carries the
// full report; transcript and scores are repeated at the top level for clients
// that only render those.
type ReportData struct {
	Details    *interview.Report      `json:"details"`
	Transcript []interview.TurnRecord `json:"transcript"`
	Scores     []int                  `json:"scores"`
}

// one row of the interview history listing
type HistoryEntry struct {
	SessionID    string    `json:"session_id"`
	Candidate    string    `json:"candidate"`
	Role         string    `json:"role"`
	Mode         string    `json:"mode"`
	EndReason    string    `json:"end_reason"`
	TurnsAsked   int       `json:"turns_asked"`
	Answered     int       `json:"answered"`
	AverageScore float64   `json:"average_score"`
	StartedAt    time.Time `json:"started_at"`
	EndedAt      time.Time `json:"ended_at"`
}

type HistoryResponse struct {
	Interviews []HistoryEntry `json:"interviews"`
	Count      int            `json:"count"`
}
