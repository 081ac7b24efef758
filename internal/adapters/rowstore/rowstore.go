// Package rowstore defines the row store contract and its backends.
//
// A row store is the persistence collaborator behind the ledger: an ordered
// collection of string rows per named table, supporting append, full-scan
// read, and delete-by-index. In practice it is a spreadsheet stand-in backed
// by CSV files, SQLite, or memory.
package rowstore

import "context"

// Table names used by the ledger.
const (
	TableDailyTop3   = "daily_top3"
	TableExtraPoints = "extra_points"
	TableThemes      = "themes"
)

// Columns maps each table to its header, in append order.
var Columns = map[string][]string{
	TableDailyTop3:   {"Date", "Name1", "Name2", "Name3"},
	TableExtraPoints: {"Date", "Name", "Points", "Reason"},
	TableThemes:      {"Date", "Theme"},
}

// RequiredTables are created eagerly by every backend; the ledger treats
// their absence as a store fault. themes stays lazy and optional.
var RequiredTables = []string{TableDailyTop3, TableExtraPoints}

// Row is one data row read back from a table, keyed by column name.
type Row map[string]string

// Store provides ordered row access to named tables.
//
// Row indexes are one-based and count the header row, so the first data row
// is index 2. Optional tables are created lazily on first append; reading a
// table that was never written returns ErrTableNotFound.
type Store interface {
	// ReadTable returns all data rows of a table in append order.
	ReadTable(ctx context.Context, table string) ([]Row, error)

	// AppendRow appends one row of values ordered per Columns[table].
	AppendRow(ctx context.Context, table string, values []string) error

	// DeleteRow removes the row at the given one-based index (header included).
	DeleteRow(ctx context.Context, table string, index int) error
}

// HeaderOffset converts a zero-based data row position to the one-based
// index DeleteRow expects.
func HeaderOffset(dataPos int) int {
	return dataPos + 2
}
