package rowstore

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// CSVStore keeps one CSV file per table under a data directory. The first
// line of each file is the header. Rewrites (delete) go through a temp file
// and an atomic rename so a crash never leaves a half-written table.
type CSVStore struct {
	mu  sync.Mutex
	dir string
}

// NewCSVStore creates a CSV-backed store rooted at dir, creating it and the
// required table files if needed.
func NewCSVStore(dir string) (*CSVStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	s := &CSVStore{dir: dir}
	for _, table := range RequiredTables {
		if _, err := os.Stat(s.path(table)); err == nil {
			continue
		}
		if err := s.rewrite(table, [][]string{Columns[table]}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *CSVStore) path(table string) string {
	return filepath.Join(s.dir, table+".csv")
}

// ReadTable returns all data rows of a table in append order.
func (s *CSVStore) ReadTable(_ context.Context, table string) ([]Row, error) {
	if _, ok := Columns[table]; !ok {
		return nil, ErrUnknownTable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readRecords(table)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	out := make([]Row, 0, len(records)-1)
	for _, values := range records[1:] {
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(values) {
				row[col] = values[i]
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// AppendRow appends one row, creating the table file with its header on
// first use.
func (s *CSVStore) AppendRow(_ context.Context, table string, values []string) error {
	header, ok := Columns[table]
	if !ok {
		return ErrUnknownTable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(table)
	_, statErr := os.Stat(path)
	fresh := os.IsNotExist(statErr)

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if fresh {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
	}
	if err := w.Write(values); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

// DeleteRow removes the row at the given one-based index (header included)
// by rewriting the file atomically.
func (s *CSVStore) DeleteRow(_ context.Context, table string, index int) error {
	if _, ok := Columns[table]; !ok {
		return ErrUnknownTable
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readRecords(table)
	if err != nil {
		return err
	}
	pos := index - 1 // records[0] is the header
	if pos < 1 || pos >= len(records) {
		return ErrRowOutOfRange
	}
	records = append(records[:pos], records[pos+1:]...)
	return s.rewrite(table, records)
}

// readRecords reads the raw CSV records of a table, header included.
func (s *CSVStore) readRecords(table string) ([][]string, error) {
	f, err := os.Open(s.path(table))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows; the ledger skips them
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return records, nil
}

// rewrite replaces a table file via temp file + rename.
func (s *CSVStore) rewrite(table string, records [][]string) error {
	path := s.path(table)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}
