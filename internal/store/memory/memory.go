// Package memory provides an in-process TableStore used by tests and
// the "memory" backend of the server. Semantics mirror the workbook
// adapter: missing tables read as empty, rows are ragged, writes are
// last-write-wins with no transaction across calls.
package memory

import (
	"context"
	"fmt"
	"sync"
)

type Store struct {
	mu     sync.RWMutex
	tables map[string][][]string
}

func NewStore() *Store {
	return &Store{tables: make(map[string][][]string)}
}

func (s *Store) ReadAll(_ context.Context, table string) ([][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.tables[table]
	out := make([][]string, len(rows))
	for i, row := range rows {
		cp := make([]string, len(row))
		copy(cp, row)
		out[i] = cp
	}
	return out, nil
}

func (s *Store) Append(_ context.Context, table string, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := make([]string, len(row))
	copy(cp, row)
	s.tables[table] = append(s.tables[table], cp)
	return nil
}

func (s *Store) WriteCell(_ context.Context, table string, rowIdx, colIdx int, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.tables[table]
	if !ok || rowIdx < 0 || rowIdx >= len(rows) {
		return fmt.Errorf("table %s: row %d does not exist", table, rowIdx)
	}
	if colIdx < 0 {
		return fmt.Errorf("table %s: negative column %d", table, colIdx)
	}

	row := rows[rowIdx]
	for len(row) <= colIdx {
		row = append(row, "")
	}
	row[colIdx] = value
	rows[rowIdx] = row
	return nil
}

func (s *Store) DeleteRow(_ context.Context, table string, rowIdx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, ok := s.tables[table]
	if !ok || rowIdx < 0 || rowIdx >= len(rows) {
		return fmt.Errorf("table %s: row %d does not exist", table, rowIdx)
	}

	s.tables[table] = append(rows[:rowIdx], rows[rowIdx+1:]...)
	return nil
}

func (s *Store) EnsureTable(_ context.Context, table string, header []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tables[table]; ok {
		return nil
	}
	cp := make([]string, len(header))
	copy(cp, header)
	s.tables[table] = [][]string{cp}
	return nil
}
