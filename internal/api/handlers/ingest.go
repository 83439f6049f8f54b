package handlers

import (
	"context"
	"net/http"

	"github.com/daily-movers/backend/internal/ingest"
	"github.com/daily-movers/backend/pkg/logger"
)

// IngestRunner is the ingestion pipeline as seen by the handler.
type IngestRunner interface {
	Run(ctx context.Context) (*ingest.Report, error)
}

// IngestHandler serves the ingestion trigger.
type IngestHandler struct {
	pipeline IngestRunner
	logger   *logger.Logger
}

// NewIngestHandler creates a new ingest handler.
func NewIngestHandler(pipeline IngestRunner, log *logger.Logger) *IngestHandler {
	return &IngestHandler{
		pipeline: pipeline,
		logger:   log,
	}
}

// Trigger runs one ingestion pass and returns the run report. A no-data
// outcome is a 200 with a message; only fatal errors (credential or
// storage write failures) produce a 500.
// POST /ingest
func (h *IngestHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	report, err := h.pipeline.Run(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Ingestion run failed")
		respondError(w, http.StatusInternalServerError, "Ingestion run failed")
		return
	}

	respondJSON(w, http.StatusOK, report)
}
