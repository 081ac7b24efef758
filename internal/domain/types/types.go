// Package types contains common types shared across layers.
package types

// Entry represents one leaderboard row, with progress toward the goal score
// attached for charting.
type Entry struct {
	Rank     int     `json:"rank"`
	Name     string  `json:"name"`
	Score    int     `json:"score"`
	Progress float64 `json:"progress"`
}
