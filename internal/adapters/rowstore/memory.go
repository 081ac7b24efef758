package rowstore

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory Store used for tests and ephemeral runs.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string][][]string
}

// NewMemoryStore creates an empty in-memory store with the required tables
// already present.
func NewMemoryStore() *MemoryStore {
	tables := make(map[string][][]string)
	for _, table := range RequiredTables {
		tables[table] = nil
	}
	return &MemoryStore{tables: tables}
}

// ReadTable returns all data rows of a table in append order.
func (m *MemoryStore) ReadTable(_ context.Context, table string) ([]Row, error) {
	header, ok := Columns[table]
	if !ok {
		return nil, ErrUnknownTable
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	rows, ok := m.tables[table]
	if !ok {
		return nil, ErrTableNotFound
	}
	out := make([]Row, 0, len(rows))
	for _, values := range rows {
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

// AppendRow appends one row, creating the table on first use.
func (m *MemoryStore) AppendRow(_ context.Context, table string, values []string) error {
	if _, ok := Columns[table]; !ok {
		return ErrUnknownTable
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]string, len(values))
	copy(copied, values)
	m.tables[table] = append(m.tables[table], copied)
	return nil
}

// DeleteRow removes the row at the given one-based index (header included).
func (m *MemoryStore) DeleteRow(_ context.Context, table string, index int) error {
	if _, ok := Columns[table]; !ok {
		return ErrUnknownTable
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rows, ok := m.tables[table]
	if !ok {
		return ErrTableNotFound
	}
	pos := index - 2 // header counts as row 1
	if pos < 0 || pos >= len(rows) {
		return ErrRowOutOfRange
	}
	m.tables[table] = append(rows[:pos], rows[pos+1:]...)
	return nil
}
