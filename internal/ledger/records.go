// Package ledger provides the typed repository over the contest's three
// event tables: daily top-3 rankings, extra-point grants, and themes.
package ledger

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SamueleCorsalini/outfit-chart/internal/adapters/rowstore"
)

// DailyTop3 records one day's podium. At most one logical record exists per
// date; duplicates in storage resolve last-write-wins at load time.
type DailyTop3 struct {
	Date  string    `json:"date"`
	Names [3]string `json:"names"`
}

// ExtraPoints records one ad-hoc point grant. There is no synthetic row id:
// identity is the full tuple, so two textually identical grants are
// indistinguishable.
type ExtraPoints struct {
	Date   string `json:"date"`
	Name   string `json:"name"`
	Points int    `json:"points"`
	Reason string `json:"reason"`
}

// Theme records the theme of the day. Keyed by date.
type Theme struct {
	Date  string `json:"date"`
	Theme string `json:"theme"`
}

// Snapshot is one consistent view of the whole ledger as loaded from the
// row store. Keyed tables are indexed by canonical date.
type Snapshot struct {
	DailyTop3   map[string]DailyTop3
	ExtraPoints []ExtraPoints
	Themes      map[string]Theme

	// Skipped counts malformed rows dropped during the load.
	Skipped int
}

// dateLayouts are the accepted input forms, tried in order. Canonical
// storage form is always time.DateOnly (YYYY-MM-DD).
var dateLayouts = []string{
	time.DateOnly,
	"2006-1-2",
	"2006/01/02",
	time.RFC3339,
}

// NormalizeDate parses s and returns the canonical YYYY-MM-DD form, so two
// representations of the same calendar day always compare equal.
func NormalizeDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("%w: empty date", ErrBadDate)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.DateOnly), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrBadDate, s)
}

// parseDailyTop3 builds a typed record from a raw row. All ambiguity in
// stored field naming and formatting is resolved here, once.
func parseDailyTop3(row rowstore.Row) (DailyTop3, error) {
	date, err := NormalizeDate(row["Date"])
	if err != nil {
		return DailyTop3{}, fmt.Errorf("%w: daily_top3: %w", ErrMalformedRow, err)
	}
	var names [3]string
	for i, col := range []string{"Name1", "Name2", "Name3"} {
		name := strings.TrimSpace(row[col])
		if name == "" {
			return DailyTop3{}, fmt.Errorf("%w: daily_top3 %s: missing %s", ErrMalformedRow, date, col)
		}
		names[i] = name
	}
	return DailyTop3{Date: date, Names: names}, nil
}

func parseExtraPoints(row rowstore.Row) (ExtraPoints, error) {
	date, err := NormalizeDate(row["Date"])
	if err != nil {
		return ExtraPoints{}, fmt.Errorf("%w: extra_points: %w", ErrMalformedRow, err)
	}
	name := strings.TrimSpace(row["Name"])
	reason := strings.TrimSpace(row["Reason"])
	if name == "" || reason == "" {
		return ExtraPoints{}, fmt.Errorf("%w: extra_points %s: missing name or reason", ErrMalformedRow, date)
	}
	points, err := strconv.Atoi(strings.TrimSpace(row["Points"]))
	if err != nil || points < 1 {
		return ExtraPoints{}, fmt.Errorf("%w: extra_points %s: bad points %q", ErrMalformedRow, date, row["Points"])
	}
	return ExtraPoints{Date: date, Name: name, Points: points, Reason: reason}, nil
}

func parseTheme(row rowstore.Row) (Theme, error) {
	date, err := NormalizeDate(row["Date"])
	if err != nil {
		return Theme{}, fmt.Errorf("%w: themes: %w", ErrMalformedRow, err)
	}
	theme := strings.TrimSpace(row["Theme"])
	if theme == "" {
		return Theme{}, fmt.Errorf("%w: themes %s: missing theme", ErrMalformedRow, date)
	}
	return Theme{Date: date, Theme: theme}, nil
}

// values renders a record in table column order for appending.
func (d DailyTop3) values() []string {
	return []string{d.Date, d.Names[0], d.Names[1], d.Names[2]}
}

func (e ExtraPoints) values() []string {
	return []string{e.Date, e.Name, strconv.Itoa(e.Points), e.Reason}
}

func (t Theme) values() []string {
	return []string{t.Date, t.Theme}
}
