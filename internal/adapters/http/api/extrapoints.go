// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/SamueleCorsalini/outfit-chart/internal/ledger"
)

// ExtraPointsDependencies defines the interface for grant operations.
type ExtraPointsDependencies interface {
	GrantExtraPoints(ctx context.Context, grant ledger.ExtraPoints) error
	RevokeExtraPoints(ctx context.Context, grant ledger.ExtraPoints) error
}

// ExtraPointsHandler handles extra-point grant requests.
type ExtraPointsHandler struct {
	deps ExtraPointsDependencies
}

// NewExtraPointsHandler creates a new extra-points handler.
func NewExtraPointsHandler(deps ExtraPointsDependencies) *ExtraPointsHandler {
	return &ExtraPointsHandler{deps: deps}
}

// grantRequest mirrors the extra_points table tuple. Deletion matches the
// full tuple; with duplicate grants the first match is removed.
type grantRequest struct {
	Date   string `json:"date"`
	Name   string `json:"name"`
	Points int    `json:"points"`
	Reason string `json:"reason"`
}

func (g grantRequest) record() ledger.ExtraPoints {
	return ledger.ExtraPoints{Date: g.Date, Name: g.Name, Points: g.Points, Reason: g.Reason}
}

// HandlePostGrant handles POST /extra-points requests.
func (h *ExtraPointsHandler) HandlePostGrant(w http.ResponseWriter, r *http.Request) {
	var req grantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := h.deps.GrantExtraPoints(r.Context(), req.record()); err != nil {
		translateError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, statusResponse{Status: "granted"})
}

// HandleDeleteGrant handles DELETE /extra-points requests.
func (h *ExtraPointsHandler) HandleDeleteGrant(w http.ResponseWriter, r *http.Request) {
	var req grantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := h.deps.RevokeExtraPoints(r.Context(), req.record()); err != nil {
		translateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "deleted"})
}
