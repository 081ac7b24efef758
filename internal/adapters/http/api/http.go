// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SamueleCorsalini/outfit-chart/internal/domain/scoring"
	"github.com/SamueleCorsalini/outfit-chart/internal/domain/types"
	"github.com/SamueleCorsalini/outfit-chart/internal/ledger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Read operations expose the scoring views.
	Leaderboard(ctx context.Context) ([]types.Entry, error)
	Top3(ctx context.Context, date string) ([3]scoring.Placement, bool, error)
	Top3Dates(ctx context.Context) ([]string, error)
	History(ctx context.Context) (map[string][]scoring.SeriesPoint, error)
	ThemeOf(ctx context.Context, date string) (ledger.Theme, bool, error)
	GoalScore() int

	// Admin mutations forwarded to the ledger repository.
	RecordTop3(ctx context.Context, date string, names [3]string) error
	RemoveTop3(ctx context.Context, date string) error
	GrantExtraPoints(ctx context.Context, grant ledger.ExtraPoints) error
	RevokeExtraPoints(ctx context.Context, grant ledger.ExtraPoints) error
	ScheduleTheme(ctx context.Context, date, theme string) error
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	leaderboardHandler *LeaderboardHandler
	top3Handler        *Top3Handler
	historyHandler     *HistoryHandler
	themesHandler      *ThemesHandler
	extraPointsHandler *ExtraPointsHandler
	adminToken         string
}

// NewServer creates a new API server with all handlers. An empty adminToken
// disables the mutation gate (development only).
func NewServer(deps Dependencies, adminToken string) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		leaderboardHandler: NewLeaderboardHandler(deps),
		top3Handler:        NewTop3Handler(deps),
		historyHandler:     NewHistoryHandler(deps),
		themesHandler:      NewThemesHandler(deps),
		extraPointsHandler: NewExtraPointsHandler(deps),
		adminToken:         adminToken,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return AdminTokenMiddleware(next, s.adminToken)
	}

	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("GET /history", MetricsMiddleware(s.historyHandler.HandleGetHistory, "history"))
	mux.HandleFunc("GET /top3", MetricsMiddleware(s.top3Handler.HandleListDates, "top3"))
	mux.HandleFunc("GET /top3/{date}", MetricsMiddleware(s.top3Handler.HandleGetTop3, "top3"))
	mux.HandleFunc("PUT /top3/{date}", MetricsMiddleware(admin(s.top3Handler.HandlePutTop3), "top3"))
	mux.HandleFunc("DELETE /top3/{date}", MetricsMiddleware(admin(s.top3Handler.HandleDeleteTop3), "top3"))
	mux.HandleFunc("GET /themes/{date}", MetricsMiddleware(s.themesHandler.HandleGetTheme, "themes"))
	mux.HandleFunc("PUT /themes/{date}", MetricsMiddleware(admin(s.themesHandler.HandlePutTheme), "themes"))
	mux.HandleFunc("POST /extra-points", MetricsMiddleware(admin(s.extraPointsHandler.HandlePostGrant), "extra_points"))
	mux.HandleFunc("DELETE /extra-points", MetricsMiddleware(admin(s.extraPointsHandler.HandleDeleteGrant), "extra_points"))
}

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// translateError maps ledger error kinds onto HTTP statuses so every
// handler reports mutations the same way.
func translateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrValidation):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, ledger.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
