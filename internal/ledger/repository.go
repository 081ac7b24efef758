package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SamueleCorsalini/outfit-chart/internal/adapters/rowstore"
	"github.com/SamueleCorsalini/outfit-chart/pkg/logger"
	"github.com/SamueleCorsalini/outfit-chart/pkg/metrics"
)

// Repository provides a consistent, typed view over the three ledger tables
// and the mutations that keep them well-formed. It holds no cached state:
// every read goes back to the row store, so callers reload after a failed
// mutation rather than trusting a stale view.
type Repository struct {
	store rowstore.Store
	log   logger.Logger
}

// Option applies a configuration option to the Repository.
type Option func(*Repository)

// WithLogger sets a custom logger for the repository.
func WithLogger(log logger.Logger) Option {
	return func(r *Repository) {
		if log != nil {
			r.log = log
		}
	}
}

// New constructs a Repository over the given row store.
func New(store rowstore.Store, opts ...Option) *Repository {
	r := &Repository{store: store}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repository) logger() logger.Logger {
	if r.log != nil {
		return r.log
	}
	return logger.Named("ledger")
}

// LoadAll reads and parses the whole ledger. Malformed rows are skipped and
// counted, never fatal. Duplicate keyed rows resolve last-write-wins so
// legacy append-only writes stay readable. A themes table that was never
// created degrades to empty.
func (r *Repository) LoadAll(ctx context.Context) (*Snapshot, error) {
	start := time.Now()
	snap := &Snapshot{
		DailyTop3: make(map[string]DailyTop3),
		Themes:    make(map[string]Theme),
	}

	rows, err := r.store.ReadTable(ctx, rowstore.TableDailyTop3)
	if err != nil {
		metrics.RecordStoreError(rowstore.TableDailyTop3)
		return nil, fmt.Errorf("load daily_top3: %w", err)
	}
	for _, row := range rows {
		rec, err := parseDailyTop3(row)
		if err != nil {
			r.skip(ctx, snap, err)
			continue
		}
		snap.DailyTop3[rec.Date] = rec
	}

	rows, err = r.store.ReadTable(ctx, rowstore.TableExtraPoints)
	if err != nil {
		metrics.RecordStoreError(rowstore.TableExtraPoints)
		return nil, fmt.Errorf("load extra_points: %w", err)
	}
	for _, row := range rows {
		rec, err := parseExtraPoints(row)
		if err != nil {
			r.skip(ctx, snap, err)
			continue
		}
		snap.ExtraPoints = append(snap.ExtraPoints, rec)
	}

	rows, err = r.store.ReadTable(ctx, rowstore.TableThemes)
	switch {
	case errors.Is(err, rowstore.ErrTableNotFound):
		// optional table, never written yet
	case err != nil:
		metrics.RecordStoreError(rowstore.TableThemes)
		return nil, fmt.Errorf("load themes: %w", err)
	default:
		for _, row := range rows {
			rec, err := parseTheme(row)
			if err != nil {
				r.skip(ctx, snap, err)
				continue
			}
			snap.Themes[rec.Date] = rec
		}
	}

	metrics.RecordLedgerLoad()
	metrics.RecordLedgerLoadLatency(float64(time.Since(start).Milliseconds()))
	metrics.UpdateRankedDays(len(snap.DailyTop3))
	return snap, nil
}

func (r *Repository) skip(ctx context.Context, snap *Snapshot, err error) {
	snap.Skipped++
	metrics.RecordMalformedRow()
	r.logger().Warn(ctx, "skipping malformed row", logger.Error(err))
}

// UpsertDailyTop3 records the podium for a date, replacing any existing
// record for that date. The replace is delete-then-append and not atomic: a
// failed append after a successful delete leaves the date empty, which the
// caller learns from the returned error.
func (r *Repository) UpsertDailyTop3(ctx context.Context, date string, names [3]string) error {
	date, err := NormalizeDate(date)
	if err != nil {
		metrics.RecordMutation("upsert_daily_top3", "error")
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	for i, name := range names {
		names[i] = strings.TrimSpace(name)
		if names[i] == "" {
			metrics.RecordMutation("upsert_daily_top3", "error")
			return fmt.Errorf("%w: all three names are required", ErrValidation)
		}
	}

	if err := r.deleteByDate(ctx, rowstore.TableDailyTop3, date, false); err != nil && !errors.Is(err, ErrNotFound) {
		metrics.RecordMutation("upsert_daily_top3", "error")
		return err
	}

	rec := DailyTop3{Date: date, Names: names}
	if err := r.store.AppendRow(ctx, rowstore.TableDailyTop3, rec.values()); err != nil {
		metrics.RecordStoreError(rowstore.TableDailyTop3)
		metrics.RecordMutation("upsert_daily_top3", "error")
		r.logger().Error(ctx, "append failed after delete; date may have no top-3 row",
			logger.Date(date), logger.Error(err))
		return fmt.Errorf("append daily_top3: %w", err)
	}
	metrics.RecordMutation("upsert_daily_top3", "ok")
	return nil
}

// DeleteDailyTop3 removes one stored top-3 row for the date. When legacy
// duplicates exist only one row is removed per call. Returns ErrNotFound
// when no row matches.
func (r *Repository) DeleteDailyTop3(ctx context.Context, date string) error {
	date, err := NormalizeDate(date)
	if err != nil {
		metrics.RecordMutation("delete_daily_top3", "error")
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	err = r.deleteByDate(ctx, rowstore.TableDailyTop3, date, false)
	switch {
	case errors.Is(err, ErrNotFound):
		metrics.RecordMutation("delete_daily_top3", "not_found")
	case err != nil:
		metrics.RecordMutation("delete_daily_top3", "error")
	default:
		metrics.RecordMutation("delete_daily_top3", "ok")
	}
	return err
}

// AddExtraPoints appends one grant. Grants are never updated in place.
func (r *Repository) AddExtraPoints(ctx context.Context, rec ExtraPoints) error {
	date, err := NormalizeDate(rec.Date)
	if err != nil {
		metrics.RecordMutation("add_extra_points", "error")
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	rec.Date = date
	rec.Name = strings.TrimSpace(rec.Name)
	rec.Reason = strings.TrimSpace(rec.Reason)
	if rec.Name == "" || rec.Reason == "" {
		metrics.RecordMutation("add_extra_points", "error")
		return fmt.Errorf("%w: name and reason are required", ErrValidation)
	}
	if rec.Points < 1 {
		metrics.RecordMutation("add_extra_points", "error")
		return fmt.Errorf("%w: points must be at least 1", ErrValidation)
	}

	if err := r.store.AppendRow(ctx, rowstore.TableExtraPoints, rec.values()); err != nil {
		metrics.RecordStoreError(rowstore.TableExtraPoints)
		metrics.RecordMutation("add_extra_points", "error")
		return fmt.Errorf("append extra_points: %w", err)
	}
	metrics.RecordMutation("add_extra_points", "ok")
	return nil
}

// DeleteExtraPoints removes the first stored row whose full tuple equals
// match. With duplicate rows the choice is ambiguous and the first one wins.
// Returns ErrNotFound when no row matches.
func (r *Repository) DeleteExtraPoints(ctx context.Context, match ExtraPoints) error {
	date, err := NormalizeDate(match.Date)
	if err != nil {
		metrics.RecordMutation("delete_extra_points", "error")
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	match.Date = date

	rows, err := r.store.ReadTable(ctx, rowstore.TableExtraPoints)
	if err != nil {
		metrics.RecordStoreError(rowstore.TableExtraPoints)
		metrics.RecordMutation("delete_extra_points", "error")
		return fmt.Errorf("load extra_points: %w", err)
	}
	for pos, row := range rows {
		rec, err := parseExtraPoints(row)
		if err != nil {
			continue
		}
		if rec == match {
			if err := r.store.DeleteRow(ctx, rowstore.TableExtraPoints, rowstore.HeaderOffset(pos)); err != nil {
				metrics.RecordStoreError(rowstore.TableExtraPoints)
				metrics.RecordMutation("delete_extra_points", "error")
				return fmt.Errorf("delete extra_points: %w", err)
			}
			metrics.RecordMutation("delete_extra_points", "ok")
			return nil
		}
	}
	metrics.RecordMutation("delete_extra_points", "not_found")
	return fmt.Errorf("%w: no grant matches", ErrNotFound)
}

// SetTheme records the theme for a date, replacing any existing rows so at
// most one active theme remains per date. Same non-atomicity caveat as
// UpsertDailyTop3.
func (r *Repository) SetTheme(ctx context.Context, date, theme string) error {
	date, err := NormalizeDate(date)
	if err != nil {
		metrics.RecordMutation("set_theme", "error")
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}
	theme = strings.TrimSpace(theme)
	if theme == "" {
		metrics.RecordMutation("set_theme", "error")
		return fmt.Errorf("%w: theme is required", ErrValidation)
	}

	if err := r.deleteByDate(ctx, rowstore.TableThemes, date, true); err != nil && !errors.Is(err, ErrNotFound) {
		metrics.RecordMutation("set_theme", "error")
		return err
	}

	rec := Theme{Date: date, Theme: theme}
	if err := r.store.AppendRow(ctx, rowstore.TableThemes, rec.values()); err != nil {
		metrics.RecordStoreError(rowstore.TableThemes)
		metrics.RecordMutation("set_theme", "error")
		r.logger().Error(ctx, "append failed after delete; date may have no theme row",
			logger.Date(date), logger.Error(err))
		return fmt.Errorf("append themes: %w", err)
	}
	metrics.RecordMutation("set_theme", "ok")
	return nil
}

// deleteByDate removes rows of table whose Date column matches date. With
// all=false only the first match goes; with all=true every match goes,
// scanning from the end so earlier indexes stay valid.
func (r *Repository) deleteByDate(ctx context.Context, table, date string, all bool) error {
	rows, err := r.store.ReadTable(ctx, table)
	if errors.Is(err, rowstore.ErrTableNotFound) && table == rowstore.TableThemes {
		return fmt.Errorf("%w: no rows for %s", ErrNotFound, date)
	}
	if err != nil {
		metrics.RecordStoreError(table)
		return fmt.Errorf("load %s: %w", table, err)
	}

	var matches []int
	for pos, row := range rows {
		rowDate, err := NormalizeDate(row["Date"])
		if err != nil {
			continue
		}
		if rowDate == date {
			matches = append(matches, pos)
			if !all {
				break
			}
		}
	}
	if len(matches) == 0 {
		return fmt.Errorf("%w: no rows for %s", ErrNotFound, date)
	}
	for i := len(matches) - 1; i >= 0; i-- {
		if err := r.store.DeleteRow(ctx, table, rowstore.HeaderOffset(matches[i])); err != nil {
			metrics.RecordStoreError(table)
			return fmt.Errorf("delete %s row: %w", table, err)
		}
	}
	return nil
}
