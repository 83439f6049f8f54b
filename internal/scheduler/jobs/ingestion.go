package jobs

import (
	"context"
	"fmt"

	"github.com/daily-movers/backend/internal/ingest"
	"github.com/daily-movers/backend/pkg/config"
	"github.com/daily-movers/backend/pkg/logger"
)

// Runner is the ingestion pipeline as seen by the job.
type Runner interface {
	Run(ctx context.Context) (*ingest.Report, error)
}

// IngestionJob runs the daily ingestion pipeline on the configured cron
// schedule. It stands in for the external daily trigger when the service
// is self-hosted.
type IngestionJob struct {
	pipeline Runner
	schedule string
	logger   *logger.Logger
}

// NewIngestionJob creates the daily ingestion job.
func NewIngestionJob(pipeline Runner, cfg *config.Config, log *logger.Logger) *IngestionJob {
	return &IngestionJob{
		pipeline: pipeline,
		schedule: cfg.Scheduler.CronSpec,
		logger:   log,
	}
}

// Name returns the job name.
func (j *IngestionJob) Name() string {
	return "daily_ingestion"
}

// Schedule returns the cron schedule expression.
func (j *IngestionJob) Schedule() string {
	return j.schedule
}

// Run executes one ingestion pass.
func (j *IngestionJob) Run(ctx context.Context) error {
	report, err := j.pipeline.Run(ctx)
	if err != nil {
		return fmt.Errorf("ingestion run: %w", err)
	}

	if report.NoData() {
		j.logger.WithField("date", report.Date).Warn("Scheduled ingestion found no data")
		return nil
	}

	j.logger.WithFields(map[string]interface{}{
		"date":   report.Date,
		"winner": report.Winner,
		"change": report.PercentChange,
	}).Info("Scheduled ingestion wrote daily mover")

	return nil
}
