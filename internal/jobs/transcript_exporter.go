package jobs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"peerprep/interview/internal/history"
)

// TranscriptExporterJob periodically writes unexported interviews to JSONL files
type TranscriptExporterJob struct {
	archive *history.Archive
	config  *ExporterConfig
	cron    *cron.Cron
	logger  *zap.Logger
	now     func() time.Time
}

// ExporterConfig contains configuration for the exporter job
type ExporterConfig struct {
	Schedule      string // cron schedule, e.g. "0 3 * * *"
	ExportDir     string
	ExportEnabled bool
	BatchSize     int // 0 exports everything pending
}

func NewTranscriptExporterJob(archive *history.Archive, config *ExporterConfig, logger *zap.Logger) *TranscriptExporterJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranscriptExporterJob{
		archive: archive,
		config:  config,
		cron:    cron.New(),
		logger:  logger,
		now:     time.Now,
	}
}

// Start schedules the export. A disabled exporter is not an error.
func (j *TranscriptExporterJob) Start() error {
	if !j.config.ExportEnabled {
		j.logger.Info("Transcript export is disabled, skipping scheduler")
		return nil
	}

	_, err := j.cron.AddFunc(j.config.Schedule, func() {
		if _, err := j.RunExport(context.Background()); err != nil {
			j.logger.Error("Transcript export failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule export job: %w", err)
	}

	j.cron.Start()
	j.logger.Info("Transcript exporter started", zap.String("schedule", j.config.Schedule))
	return nil
}

func (j *TranscriptExporterJob) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
		j.logger.Info("Transcript exporter stopped")
	}
}

// RunExport performs a single export run and returns the written file path,
// or "" when nothing was pending
func (j *TranscriptExporterJob) RunExport(ctx context.Context) (string, error) {
	records, err := j.archive.GetUnexported(ctx, j.config.BatchSize)
	if err != nil {
		return "", fmt.Errorf("failed to get unexported interviews: %w", err)
	}
	if len(records) == 0 {
		j.logger.Debug("No unexported interviews found")
		return "", nil
	}

	ids := make([]uint, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}

	data, err := history.ExportToJSONL(records)
	if err != nil {
		return "", fmt.Errorf("failed to export to JSONL: %w", err)
	}
	if len(data) == 0 {
		// only empty transcripts; mark them so they are not picked up again
		return "", j.archive.MarkAsExported(ctx, ids)
	}

	if err := os.MkdirAll(j.config.ExportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	filename := fmt.Sprintf("transcripts_%s.jsonl", j.now().Format("20060102_150405"))
	path := filepath.Join(j.config.ExportDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	if err := j.archive.MarkAsExported(ctx, ids); err != nil {
		return "", fmt.Errorf("failed to mark as exported: %w", err)
	}

	j.logger.Info("Exported interview transcripts", zap.Int("interviews", len(records)), zap.String("path", path))
	return path, nil
}
