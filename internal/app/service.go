// Package service provides the core business service that implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/SamueleCorsalini/outfit-chart/internal/adapters/rowstore"
	"github.com/SamueleCorsalini/outfit-chart/internal/domain/scoring"
	"github.com/SamueleCorsalini/outfit-chart/internal/domain/types"
	"github.com/SamueleCorsalini/outfit-chart/internal/ledger"
	"github.com/SamueleCorsalini/outfit-chart/pkg/logger"
	"github.com/SamueleCorsalini/outfit-chart/pkg/metrics"
)

// Service wires the row store, ledger repository, and scoring engine into
// the read/mutate cycle the HTTP layer drives. Each interaction is one full
// load → compute (→ mutate) pass; the service caches nothing between calls.
type Service struct {
	mu sync.Mutex

	store rowstore.Store
	repo  *ledger.Repository
	goal  int

	started bool
	log     logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the row store backend.
func WithStore(store rowstore.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithGoalScore sets the score the progress view is charted against.
func WithGoalScore(goal int) Option {
	return func(s *Service) {
		if goal > 0 {
			s.goal = goal
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		goal: scoring.GoalScore,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service and probes the store with one full load.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.log == nil {
		s.log = logger.Get()
	}
	if s.store == nil {
		s.store = rowstore.NewMemoryStore()
		s.log.Warn(ctx, "no store configured; falling back to in-memory")
	}
	s.repo = ledger.New(s.store, ledger.WithLogger(s.log.Named("ledger")))

	snap, err := s.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("initial ledger load: %w", err)
	}
	s.log.Info(ctx, "outfit chart service started",
		logger.Int("ranked_days", len(snap.DailyTop3)),
		logger.Int("extra_grants", len(snap.ExtraPoints)),
		logger.Int("skipped_rows", snap.Skipped),
		logger.Int("goal_score", s.goal),
	)
	s.started = true
	return nil
}

// Stop releases the store if it holds resources.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if closer, ok := s.store.(io.Closer); ok {
		_ = closer.Close()
	}
	s.started = false
}

// GoalScore returns the configured goal threshold.
func (s *Service) GoalScore() int {
	return s.goal
}

// Leaderboard returns the current global ranking, best dressed first.
func (s *Service) Leaderboard(ctx context.Context) ([]types.Entry, error) {
	snap, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	totals := scoring.ComputeTotals(snap.DailyTop3, snap.ExtraPoints)
	metrics.UpdateParticipants(len(totals))

	ranked := make([]types.Entry, len(totals))
	for i, total := range totals {
		ranked[i] = types.Entry{
			Rank:     i + 1,
			Name:     total.Name,
			Score:    total.Score,
			Progress: scoring.ComputeProgress(total.Score, s.goal),
		}
	}
	return ranked, nil
}

// Top3Dates returns every date with a recorded podium in ascending order.
func (s *Service) Top3Dates(ctx context.Context) ([]string, error) {
	snap, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return scoring.RecordedDates(snap.DailyTop3), nil
}

// Top3 returns the podium for a date; ok=false means no record exists.
func (s *Service) Top3(ctx context.Context, date string) ([3]scoring.Placement, bool, error) {
	snap, err := s.repo.LoadAll(ctx)
	if err != nil {
		return [3]scoring.Placement{}, false, err
	}
	podium, ok := scoring.LookupTop3(date, snap.DailyTop3)
	return podium, ok, nil
}

// History returns each participant's cumulative score series.
func (s *Service) History(ctx context.Context) (map[string][]scoring.SeriesPoint, error) {
	snap, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	return scoring.CumulativeSeries(scoring.ComputeHistory(snap.DailyTop3, snap.ExtraPoints)), nil
}

// ThemeOf returns the theme for a date; ok=false means none is scheduled.
func (s *Service) ThemeOf(ctx context.Context, date string) (ledger.Theme, bool, error) {
	normalized, err := ledger.NormalizeDate(date)
	if err != nil {
		return ledger.Theme{}, false, fmt.Errorf("%w: %w", ledger.ErrValidation, err)
	}
	snap, err := s.repo.LoadAll(ctx)
	if err != nil {
		return ledger.Theme{}, false, err
	}
	theme, ok := snap.Themes[normalized]
	return theme, ok, nil
}

// RecordTop3 stores the podium for a date, replacing any previous one.
func (s *Service) RecordTop3(ctx context.Context, date string, names [3]string) error {
	return s.repo.UpsertDailyTop3(ctx, date, names)
}

// RemoveTop3 deletes one stored podium row for a date.
func (s *Service) RemoveTop3(ctx context.Context, date string) error {
	return s.repo.DeleteDailyTop3(ctx, date)
}

// GrantExtraPoints appends an ad-hoc point grant.
func (s *Service) GrantExtraPoints(ctx context.Context, grant ledger.ExtraPoints) error {
	return s.repo.AddExtraPoints(ctx, grant)
}

// RevokeExtraPoints deletes the first grant matching the full tuple.
func (s *Service) RevokeExtraPoints(ctx context.Context, grant ledger.ExtraPoints) error {
	return s.repo.DeleteExtraPoints(ctx, grant)
}

// ScheduleTheme sets the theme of the day for a date.
func (s *Service) ScheduleTheme(ctx context.Context, date, theme string) error {
	return s.repo.SetTheme(ctx, date, theme)
}
