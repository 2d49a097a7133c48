package models

import (
	"time"

	"gorm.io/gorm"
)

// InterviewRecord archives an ended interview together with its transcript
type InterviewRecord struct {
	gorm.Model
	SessionID     string         `gorm:"uniqueIndex;not null" json:"session_id"`
	CandidateName string         `gorm:"index;not null" json:"candidate_name"`
	Role          string         `gorm:"not null" json:"role"`
	Mode          string         `gorm:"not null" json:"mode"` // "turns" or "time"
	PacingLimit   int            `gorm:"not null" json:"limit"`
	Channel       string         `json:"channel"`
	StartedAt     time.Time      `gorm:"not null" json:"started_at"`
	EndedAt       time.Time      `gorm:"not null;index" json:"ended_at"`
	EndReason     string         `gorm:"not null" json:"end_reason"`
	TurnsAsked    int            `json:"turns_asked"`
	AverageScore  float64        `json:"average_score"`
	Turns         []ArchivedTurn `gorm:"constraint:OnDelete:CASCADE" json:"turns"`
	Exported      bool           `gorm:"not null;default:false;index" json:"exported"`
	ExportedAt    *time.Time     `json:"exported_at"`
}

// ArchivedTurn is one transcript entry of an archived interview
type ArchivedTurn struct {
	gorm.Model
	InterviewRecordID uint   `gorm:"index;not null" json:"-"`
	Position          int    `gorm:"not null" json:"position"`
	Question          string `gorm:"type:text;not null" json:"question"`
	Answer            string `gorm:"type:text" json:"answer"`
	Score             int    `json:"score"`
	Feedback          string `gorm:"type:text" json:"feedback"`
	Difficulty        string `json:"difficulty"`
	Area              string `json:"area"`
	FollowUp          bool   `json:"follow_up"`
}

// TranscriptExport is one JSONL line written by the transcript exporter
type TranscriptExport struct {
	SessionID    string         `json:"session_id"`
	Candidate    string         `json:"candidate"`
	Role         string         `json:"role"`
	Mode         string         `json:"mode"`
	EndReason    string         `json:"end_reason"`
	EndedAt      time.Time      `json:"ended_at"`
	AverageScore float64        `json:"average_score"`
	Turns        []ExportedTurn `json:"turns"`
}

type ExportedTurn struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Score      int    `json:"score"`
	Feedback   string `json:"feedback"`
	Difficulty string `json:"difficulty"`
}
