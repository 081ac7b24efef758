// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/SamueleCorsalini/outfit-chart/internal/ledger"
)

// ThemesDependencies defines the interface for theme-of-the-day operations.
type ThemesDependencies interface {
	ThemeOf(ctx context.Context, date string) (ledger.Theme, bool, error)
	ScheduleTheme(ctx context.Context, date, theme string) error
}

// ThemesHandler handles theme requests.
type ThemesHandler struct {
	deps ThemesDependencies
}

// NewThemesHandler creates a new themes handler.
func NewThemesHandler(deps ThemesDependencies) *ThemesHandler {
	return &ThemesHandler{deps: deps}
}

type themeResponse struct {
	Date      string `json:"date"`
	Scheduled bool   `json:"scheduled"`
	Theme     string `json:"theme,omitempty"`
}

type themeRequest struct {
	Theme string `json:"theme"`
}

// HandleGetTheme handles GET /themes/{date} requests. A date with no theme
// is not an error: the response carries scheduled=false.
func (h *ThemesHandler) HandleGetTheme(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	theme, ok, err := h.deps.ThemeOf(r.Context(), date)
	if err != nil {
		translateError(w, err)
		return
	}
	resp := themeResponse{Date: date, Scheduled: ok}
	if ok {
		resp.Theme = theme.Theme
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandlePutTheme handles PUT /themes/{date} requests, replacing any theme
// already scheduled for the date.
func (h *ThemesHandler) HandlePutTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := h.deps.ScheduleTheme(r.Context(), r.PathValue("date"), req.Theme); err != nil {
		translateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "saved"})
}
