// Package scoring turns a loaded ledger snapshot into the views the
// presentation layer renders. Every function here is pure and deterministic
// for a given snapshot; none touches the row store.
package scoring

import (
	"sort"

	"github.com/SamueleCorsalini/outfit-chart/internal/ledger"
)

// PointsByRank maps podium rank index (0, 1, 2) to awarded points. Fixed
// for every record ever written.
var PointsByRank = [3]int{25, 20, 15}

// GoalScore is the display threshold progress is charted against. Scores
// may exceed it; progress just caps at 100%.
const GoalScore = 500

// Total is one row of the global ranking.
type Total struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Placement is one row of a day's podium.
type Placement struct {
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// Event is a single scoring event in a participant's history.
type Event struct {
	Date   string `json:"date"`
	Points int    `json:"points"`
}

// SeriesPoint is one cumulative sample of a participant's progress chart.
type SeriesPoint struct {
	Date  string `json:"date"`
	Total int    `json:"total"`
}

// sortedDates returns the keyed table's dates in ascending order, giving
// every derived view a deterministic iteration order.
func sortedDates(dailyTop3 map[string]ledger.DailyTop3) []string {
	dates := make([]string, 0, len(dailyTop3))
	for date := range dailyTop3 {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// RecordedDates returns the dates that have a recorded podium, ascending.
// Clients browse the podium archive through this list.
func RecordedDates(dailyTop3 map[string]ledger.DailyTop3) []string {
	return sortedDates(dailyTop3)
}

// ComputeTotals computes the global ranking: rank points for every podium
// appearance plus all extra grants, sorted descending by score. Ties keep
// first-seen order, where "seen" walks top-3 records by ascending date and
// then grants in append order. A name placed twice in one podium is
// credited both rank points.
func ComputeTotals(dailyTop3 map[string]ledger.DailyTop3, extraPoints []ledger.ExtraPoints) []Total {
	scores := make(map[string]int)
	var order []string

	credit := func(name string, points int) {
		if _, seen := scores[name]; !seen {
			order = append(order, name)
		}
		scores[name] += points
	}

	for _, date := range sortedDates(dailyTop3) {
		for i, name := range dailyTop3[date].Names {
			credit(name, PointsByRank[i])
		}
	}
	for _, grant := range extraPoints {
		credit(grant.Name, grant.Points)
	}

	totals := make([]Total, 0, len(order))
	for _, name := range order {
		totals = append(totals, Total{Name: name, Score: scores[name]})
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Score > totals[j].Score
	})
	return totals
}

// LookupTop3 returns the podium recorded for a date, or ok=false when the
// date has no record. Callers render a placeholder in that case.
func LookupTop3(date string, dailyTop3 map[string]ledger.DailyTop3) ([3]Placement, bool) {
	normalized, err := ledger.NormalizeDate(date)
	if err != nil {
		return [3]Placement{}, false
	}
	rec, ok := dailyTop3[normalized]
	if !ok {
		return [3]Placement{}, false
	}
	var podium [3]Placement
	for i, name := range rec.Names {
		podium[i] = Placement{Rank: i + 1, Name: name, Points: PointsByRank[i]}
	}
	return podium, true
}

// ComputeHistory returns every participant's scoring events ordered by date
// ascending: one entry per podium placement and per grant. Grants for names
// that never placed still get a history.
func ComputeHistory(dailyTop3 map[string]ledger.DailyTop3, extraPoints []ledger.ExtraPoints) map[string][]Event {
	history := make(map[string][]Event)

	for _, date := range sortedDates(dailyTop3) {
		for i, name := range dailyTop3[date].Names {
			history[name] = append(history[name], Event{Date: date, Points: PointsByRank[i]})
		}
	}
	for _, grant := range extraPoints {
		history[grant.Name] = append(history[grant.Name], Event{Date: grant.Date, Points: grant.Points})
	}

	for name := range history {
		events := history[name]
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Date < events[j].Date
		})
		history[name] = events
	}
	return history
}

// CumulativeSeries folds a history into running totals for charting. One
// sample per date per participant; several events on the same day collapse
// into the day's final total.
func CumulativeSeries(history map[string][]Event) map[string][]SeriesPoint {
	series := make(map[string][]SeriesPoint, len(history))
	for name, events := range history {
		var points []SeriesPoint
		total := 0
		for _, ev := range events {
			total += ev.Points
			if n := len(points); n > 0 && points[n-1].Date == ev.Date {
				points[n-1].Total = total
				continue
			}
			points = append(points, SeriesPoint{Date: ev.Date, Total: total})
		}
		series[name] = points
	}
	return series
}

// ComputeProgress returns score/goal clamped to [0.0, 1.0].
func ComputeProgress(score, goal int) float64 {
	if goal <= 0 || score <= 0 {
		return 0.0
	}
	p := float64(score) / float64(goal)
	if p > 1.0 {
		return 1.0
	}
	return p
}
