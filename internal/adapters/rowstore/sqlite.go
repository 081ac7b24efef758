package rowstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore keeps all tables in a single SQLite database file. Each logical
// table gets a `seq` autoincrement column so read-back preserves append
// order; the one-based row index contract maps onto `seq` ordering.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database at the given path. The
// required tables are created up front; optional ones appear on first append.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY under the low traffic this store sees.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	s := &SQLiteStore{db: db}
	for _, table := range RequiredTables {
		if err := s.ensureTable(context.Background(), table, Columns[table]); err != nil {
			db.Close()
			return nil, err
		}
	}
	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ReadTable returns all data rows of a table in append order.
func (s *SQLiteStore) ReadTable(ctx context.Context, table string) ([]Row, error) {
	header, ok := Columns[table]
	if !ok {
		return nil, ErrUnknownTable
	}

	exists, err := s.tableExists(ctx, table)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrTableNotFound
	}

	query := fmt.Sprintf("SELECT %s FROM %q ORDER BY seq", quoteColumns(header), table)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		values := make([]sql.NullString, len(header))
		dest := make([]any, len(header))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		row := make(Row, len(header))
		for i, col := range header {
			if values[i].Valid {
				row[col] = values[i].String
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return out, nil
}

// AppendRow appends one row, creating the table on first use.
func (s *SQLiteStore) AppendRow(ctx context.Context, table string, values []string) error {
	header, ok := Columns[table]
	if !ok {
		return ErrUnknownTable
	}
	if err := s.ensureTable(ctx, table, header); err != nil {
		return err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(header)), ", ")
	query := fmt.Sprintf("INSERT INTO %q (%s) VALUES (%s)", table, quoteColumns(header), placeholders)

	args := make([]any, len(header))
	for i := range header {
		if i < len(values) {
			args[i] = values[i]
		} else {
			args[i] = ""
		}
	}
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

// DeleteRow removes the row at the given one-based index (header included).
func (s *SQLiteStore) DeleteRow(ctx context.Context, table string, index int) error {
	if _, ok := Columns[table]; !ok {
		return ErrUnknownTable
	}

	exists, err := s.tableExists(ctx, table)
	if err != nil {
		return err
	}
	if !exists {
		return ErrTableNotFound
	}

	pos := index - 2 // header counts as row 1
	if pos < 0 {
		return ErrRowOutOfRange
	}

	var seq int64
	query := fmt.Sprintf("SELECT seq FROM %q ORDER BY seq LIMIT 1 OFFSET ?", table)
	err = s.db.QueryRowContext(ctx, query, pos).Scan(&seq)
	if err == sql.ErrNoRows {
		return ErrRowOutOfRange
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %q WHERE seq = ?", table), seq); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) tableExists(ctx context.Context, table string) (bool, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return true, nil
}

func (s *SQLiteStore) ensureTable(ctx context.Context, table string, header []string) error {
	cols := make([]string, 0, len(header)+1)
	cols = append(cols, "seq INTEGER PRIMARY KEY AUTOINCREMENT")
	for _, col := range header {
		cols = append(cols, fmt.Sprintf("%q TEXT NOT NULL DEFAULT ''", col))
	}
	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %q (%s)", table, strings.Join(cols, ", "))
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

func quoteColumns(header []string) string {
	quoted := make([]string, len(header))
	for i, col := range header {
		quoted[i] = fmt.Sprintf("%q", col)
	}
	return strings.Join(quoted, ", ")
}
