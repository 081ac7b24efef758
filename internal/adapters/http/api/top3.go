// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/SamueleCorsalini/outfit-chart/internal/domain/scoring"
)

// Top3Dependencies defines the interface for daily podium operations.
type Top3Dependencies interface {
	Top3(ctx context.Context, date string) ([3]scoring.Placement, bool, error)
	Top3Dates(ctx context.Context) ([]string, error)
	RecordTop3(ctx context.Context, date string, names [3]string) error
	RemoveTop3(ctx context.Context, date string) error
}

// Top3Handler handles daily top-3 requests.
type Top3Handler struct {
	deps Top3Dependencies
}

// NewTop3Handler creates a new top-3 handler.
func NewTop3Handler(deps Top3Dependencies) *Top3Handler {
	return &Top3Handler{deps: deps}
}

type top3Response struct {
	Date     string              `json:"date"`
	Recorded bool                `json:"recorded"`
	Podium   []scoring.Placement `json:"podium,omitempty"`
}

type top3Request struct {
	Names []string `json:"names"`
}

type top3DatesResponse struct {
	Dates []string `json:"dates"`
}

// pathDate resolves the {date} path segment. "yesterday" is accepted as a
// shortcut for the most common lookup.
func pathDate(r *http.Request) string {
	date := r.PathValue("date")
	if date == "yesterday" {
		return time.Now().AddDate(0, 0, -1).Format(time.DateOnly)
	}
	return date
}

// HandleListDates handles GET /top3 requests, listing the dates that have a
// recorded podium in ascending order so clients can browse the archive.
func (h *Top3Handler) HandleListDates(w http.ResponseWriter, r *http.Request) {
	dates, err := h.deps.Top3Dates(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	if dates == nil {
		dates = []string{}
	}
	writeJSON(w, http.StatusOK, top3DatesResponse{Dates: dates})
}

// HandleGetTop3 handles GET /top3/{date} requests. A date with no record is
// not an error: the response carries recorded=false and no podium.
func (h *Top3Handler) HandleGetTop3(w http.ResponseWriter, r *http.Request) {
	date := pathDate(r)
	podium, ok, err := h.deps.Top3(r.Context(), date)
	if err != nil {
		translateError(w, err)
		return
	}
	resp := top3Response{Date: date, Recorded: ok}
	if ok {
		resp.Podium = podium[:]
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandlePutTop3 handles PUT /top3/{date} requests.
func (h *Top3Handler) HandlePutTop3(w http.ResponseWriter, r *http.Request) {
	var req top3Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if len(req.Names) != 3 {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("exactly three names are required"))
		return
	}
	names := [3]string{req.Names[0], req.Names[1], req.Names[2]}
	if err := h.deps.RecordTop3(r.Context(), pathDate(r), names); err != nil {
		translateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "saved"})
}

// HandleDeleteTop3 handles DELETE /top3/{date} requests. Legacy duplicate
// rows take one call each; callers repeat until not found.
func (h *Top3Handler) HandleDeleteTop3(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.RemoveTop3(r.Context(), pathDate(r)); err != nil {
		translateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "deleted"})
}
