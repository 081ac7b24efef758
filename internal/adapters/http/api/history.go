// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/SamueleCorsalini/outfit-chart/internal/domain/scoring"
)

// HistoryDependencies defines the interface for history reads.
type HistoryDependencies interface {
	History(ctx context.Context) (map[string][]scoring.SeriesPoint, error)
	GoalScore() int
}

// HistoryHandler handles cumulative-score history requests.
type HistoryHandler struct {
	deps HistoryDependencies
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps HistoryDependencies) *HistoryHandler {
	return &HistoryHandler{deps: deps}
}

type historyResponse struct {
	Goal   int                              `json:"goal"`
	Series map[string][]scoring.SeriesPoint `json:"series"`
}

// HandleGetHistory handles GET /history requests. The series are cumulative
// per-participant running totals, ready for progress charting against the
// goal.
func (h *HistoryHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	series, err := h.deps.History(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, historyResponse{Goal: h.deps.GoalScore(), Series: series})
}
