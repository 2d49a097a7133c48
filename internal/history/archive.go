// Package history archives ended interviews and exports their transcripts.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"peerprep/interview/internal/interview"
	"peerprep/interview/internal/models"
)

var (
	ErrNotFound = errors.New("interview record not found")
	errNotEnded = errors.New("session has not ended")
)

// Archive stores ended sessions in a relational database
type Archive struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

func NewArchive(db *gorm.DB, logger *zap.Logger) *Archive {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archive{db: db, logger: logger, now: time.Now}
}

// Migrate creates or updates the archive tables
func (a *Archive) Migrate() error {
	return a.db.AutoMigrate(&models.InterviewRecord{}, &models.ArchivedTurn{})
}

// Archive writes an ended session. Archiving the same session twice is a no-op.
func (a *Archive) Archive(ctx context.Context, s *interview.Session) error {
	if !s.IsEnded() {
		return fmt.Errorf("archive session %s: %w", s.ID(), errNotEnded)
	}

	var existing int64
	if err := a.db.WithContext(ctx).Model(&models.InterviewRecord{}).
		Where("session_id = ?", s.ID()).Count(&existing).Error; err != nil {
		return fmt.Errorf("failed to check archive for %s: %w", s.ID(), err)
	}
	if existing > 0 {
		return nil
	}

	record := recordFromSession(s)
	if err := a.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("failed to archive interview %s: %w", s.ID(), err)
	}

	a.logger.Info("Archived interview",
		zap.String("session_id", record.SessionID),
		zap.String("end_reason", record.EndReason),
		zap.Int("turns", len(record.Turns)))
	return nil
}

func recordFromSession(s *interview.Session) models.InterviewRecord {
	cand := s.Candidate()
	record := models.InterviewRecord{
		SessionID:     s.ID(),
		CandidateName: cand.Name,
		Role:          cand.Role,
		Mode:          string(s.Pacing().Mode),
		PacingLimit:   s.Pacing().Limit,
		Channel:       string(s.Channel()),
		StartedAt:     s.StartedAt(),
		EndedAt:       s.EndedAt(),
		EndReason:     string(s.EndReason()),
		TurnsAsked:    s.TurnsAsked(),
		AverageScore:  s.AverageScore(),
	}
	for i, t := range s.Transcript() {
		record.Turns = append(record.Turns, models.ArchivedTurn{
			Position:   i + 1,
			Question:   t.Question,
			Answer:     t.Answer,
			Score:      t.Score,
			Feedback:   t.Feedback,
			Difficulty: string(t.Difficulty),
			Area:       t.Area,
			FollowUp:   t.FollowUp,
		})
	}
	return record
}

func orderedTurns(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// List returns archived interviews, newest first. An empty candidate lists everyone.
func (a *Archive) List(ctx context.Context, candidate string, limit int) ([]models.InterviewRecord, error) {
	var records []models.InterviewRecord

	query := a.db.WithContext(ctx).Preload("Turns", orderedTurns).Order("ended_at DESC")
	if name := strings.TrimSpace(candidate); name != "" {
		query = query.Where("LOWER(candidate_name) = ?", strings.ToLower(name))
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	return records, nil
}

// Get returns one archived interview with its turns
func (a *Archive) Get(ctx context.Context, sessionID string) (*models.InterviewRecord, error) {
	var record models.InterviewRecord
	err := a.db.WithContext(ctx).Preload("Turns", orderedTurns).
		Where("session_id = ?", sessionID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load interview %s: %w", sessionID, err)
	}
	return &record, nil
}

// GetUnexported returns interviews that have not been exported yet, oldest first
func (a *Archive) GetUnexported(ctx context.Context, limit int) ([]models.InterviewRecord, error) {
	var records []models.InterviewRecord

	query := a.db.WithContext(ctx).Preload("Turns", orderedTurns).
		Where("exported = ?", false).Order("ended_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get unexported interviews: %w", err)
	}
	return records, nil
}

// MarkAsExported flags the given records as exported
func (a *Archive) MarkAsExported(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	result := a.db.WithContext(ctx).Model(&models.InterviewRecord{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{
			"exported":    true,
			"exported_at": a.now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark interviews as exported: %w", result.Error)
	}

	a.logger.Info("Marked interviews as exported", zap.Int64("count", result.RowsAffected))
	return nil
}

// ExportToJSONL renders one TranscriptExport per line. Interviews without
// turns are skipped.
func ExportToJSONL(records []models.InterviewRecord) ([]byte, error) {
	var lines []string
	for _, rec := range records {
		if len(rec.Turns) == 0 {
			continue
		}

		export := models.TranscriptExport{
			SessionID:    rec.SessionID,
			Candidate:    rec.CandidateName,
			Role:         rec.Role,
			Mode:         rec.Mode,
			EndReason:    rec.EndReason,
			EndedAt:      rec.EndedAt,
			AverageScore: rec.AverageScore,
		}
		for _, t := range rec.Turns {
			export.Turns = append(export.Turns, models.ExportedTurn{
				Question:   t.Question,
				Answer:     t.Answer,
				Score:      t.Score,
				Feedback:   t.Feedback,
				Difficulty: t.Difficulty,
			})
		}

		line, err := json.Marshal(export)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal transcript export: %w", err)
		}
		lines = append(lines, string(line))
	}
	return []byte(strings.Join(lines, "\n")), nil
}

// Stats summarises the archive
func (a *Archive) Stats(ctx context.Context) (map[string]interface{}, error) {
	stats := make(map[string]interface{})
	db := a.db.WithContext(ctx)

	var total int64
	if err := db.Model(&models.InterviewRecord{}).Count(&total).Error; err != nil {
		return nil, err
	}
	stats["total_count"] = total

	var unexported int64
	if err := db.Model(&models.InterviewRecord{}).Where("exported = ?", false).Count(&unexported).Error; err != nil {
		return nil, err
	}
	stats["unexported_count"] = unexported

	var avg float64
	if err := db.Model(&models.InterviewRecord{}).Select("COALESCE(AVG(average_score), 0)").Scan(&avg).Error; err != nil {
		return nil, err
	}
	stats["average_score"] = avg

	return stats, nil
}

// Entry converts a record into its list view
func Entry(rec models.InterviewRecord) models.HistoryEntry {
	answered := 0
	for _, t := range rec.Turns {
		if !interview.IsNoResponse(t.Answer) {
			answered++
		}
	}
	return models.HistoryEntry{
		SessionID:    rec.SessionID,
		Candidate:    rec.CandidateName,
		Role:         rec.Role,
		Mode:         rec.Mode,
		EndReason:    rec.EndReason,
		TurnsAsked:   rec.TurnsAsked,
		Answered:     answered,
		AverageScore: rec.AverageScore,
		StartedAt:    rec.StartedAt,
		EndedAt:      rec.EndedAt,
	}
}
