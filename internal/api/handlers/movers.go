package handlers

import (
	"context"
	"net/http"

	"github.com/daily-movers/backend/internal/query"
	"github.com/daily-movers/backend/pkg/logger"
)

// MoversProvider is the query service as seen by the handler.
type MoversProvider interface {
	GetRecentMovers(ctx context.Context) (*query.RecentMovers, error)
}

// MoversHandler serves GET /movers and its CORS preflight.
type MoversHandler struct {
	service MoversProvider
	logger  *logger.Logger
}

// NewMoversHandler creates a new movers handler.
func NewMoversHandler(svc MoversProvider, log *logger.Logger) *MoversHandler {
	return &MoversHandler{
		service: svc,
		logger:  log,
	}
}

// setCORSHeaders attaches the header set required by the static frontend.
// Every /movers response carries it, including errors.
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "GET,OPTIONS")
}

// GetMovers returns the last seven days of movers.
// GET /movers, OPTIONS /movers
func (h *MoversHandler) GetMovers(w http.ResponseWriter, r *http.Request) {
	setCORSHeaders(w)

	// Preflight: 200, empty body, no storage access.
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	result, err := h.service.GetRecentMovers(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get recent movers")
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "Internal server error",
			"message": err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, result)
}
