// Package xlsx implements the TableStore port on top of an xlsx
// workbook file. Each named table is a worksheet; every mutation is
// flushed to disk before returning, which matches the attempt-once,
// no-transaction discipline of the callers.
package xlsx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"
)

type Store struct {
	mu   sync.Mutex
	file *excelize.File
	path string
}

// Open loads the workbook at path, creating an empty one (and its
// parent directory) when absent.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create store directory: %w", err)
			}
		}
		f := excelize.NewFile()
		if err := f.SaveAs(path); err != nil {
			return nil, fmt.Errorf("failed to create workbook: %w", err)
		}
		return &Store{file: f, path: path}, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	return &Store{file: f, path: path}, nil
}

// Close releases the underlying workbook handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

func (s *Store) ReadAll(_ context.Context, table string) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sheetExists(table) {
		return [][]string{}, nil
	}
	rows, err := s.file.GetRows(table)
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", table, err)
	}
	return rows, nil
}

func (s *Store) Append(_ context.Context, table string, row []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sheetExists(table) {
		if _, err := s.file.NewSheet(table); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}

	rows, err := s.file.GetRows(table)
	if err != nil {
		return fmt.Errorf("failed to read table %s: %w", table, err)
	}
	rowIdx := len(rows) + 1 // excelize rows are 1-based

	for col, value := range row {
		cell, err := excelize.CoordinatesToCellName(col+1, rowIdx)
		if err != nil {
			return err
		}
		if err := s.file.SetCellValue(table, cell, value); err != nil {
			return fmt.Errorf("failed to write %s!%s: %w", table, cell, err)
		}
	}

	return s.file.Save()
}

func (s *Store) WriteCell(_ context.Context, table string, rowIdx, colIdx int, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sheetExists(table) {
		return fmt.Errorf("table %s does not exist", table)
	}

	cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
	if err != nil {
		return err
	}
	if err := s.file.SetCellValue(table, cell, value); err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", table, cell, err)
	}

	return s.file.Save()
}

func (s *Store) DeleteRow(_ context.Context, table string, rowIdx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sheetExists(table) {
		return fmt.Errorf("table %s does not exist", table)
	}

	if err := s.file.RemoveRow(table, rowIdx+1); err != nil {
		return fmt.Errorf("failed to delete row %d of %s: %w", rowIdx, table, err)
	}

	return s.file.Save()
}

func (s *Store) EnsureTable(_ context.Context, table string, header []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sheetExists(table) {
		return nil
	}

	if _, err := s.file.NewSheet(table); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	for col, value := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := s.file.SetCellValue(table, cell, value); err != nil {
			return fmt.Errorf("failed to write header of %s: %w", table, err)
		}
	}

	return s.file.Save()
}

func (s *Store) sheetExists(table string) bool {
	idx, err := s.file.GetSheetIndex(table)
	return err == nil && idx >= 0
}
