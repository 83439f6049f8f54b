package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/daily-movers/backend/internal/ingest"
	"github.com/daily-movers/backend/pkg/config"
	"github.com/daily-movers/backend/pkg/logger"
)

type fakeRunner struct {
	report *ingest.Report
	err    error
}

func (f *fakeRunner) Run(ctx context.Context) (*ingest.Report, error) {
	return f.report, f.err
}

func newTestJob(runner Runner) *IngestionJob {
	cfg := &config.Config{
		Scheduler: config.SchedulerConfig{CronSpec: "0 30 16 * * 1-5"},
	}
	return NewIngestionJob(runner, cfg, logger.NewNop())
}

func TestIngestionJobSchedule(t *testing.T) {
	j := newTestJob(&fakeRunner{})

	if j.Name() != "daily_ingestion" {
		t.Errorf("Name() = %s", j.Name())
	}
	if j.Schedule() != "0 30 16 * * 1-5" {
		t.Errorf("Schedule() = %s, want configured cron spec", j.Schedule())
	}
}

func TestIngestionJobRun(t *testing.T) {
	tests := []struct {
		name    string
		runner  *fakeRunner
		wantErr bool
	}{
		{
			name: "successful run",
			runner: &fakeRunner{report: &ingest.Report{
				Date: "2026-08-28", Winner: "NVDA", PercentChange: 3.2,
			}},
			wantErr: false,
		},
		{
			name: "no data is not a job failure",
			runner: &fakeRunner{report: &ingest.Report{
				Date: "2026-08-28", Message: "No data",
			}},
			wantErr: false,
		},
		{
			name:    "fatal pipeline error fails the job",
			runner:  &fakeRunner{err: errors.New("storage write failed")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := newTestJob(tt.runner)
			err := j.Run(context.Background())
			if (err != nil) != tt.wantErr {
				t.Errorf("Run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
