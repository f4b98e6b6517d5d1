// Package store defines the tabular store port every service persists
// through. A store holds named tables of ordered rows; each row is an
// ordered sequence of string cells. Row and column indexes are 0-based
// and include header rows, so callers own the header-offset convention
// of each table.
package store

import (
	"context"
	"strings"
	"time"
)

// TableStore is the repository port over the sheet-like backing store.
// Implementations must treat a missing table as empty for ReadAll and
// create it implicitly on Append/WriteCell after EnsureTable has run.
type TableStore interface {
	// ReadAll returns every row of the table, header rows included.
	// A missing table yields an empty slice, not an error.
	ReadAll(ctx context.Context, table string) ([][]string, error)

	// Append adds a row at the end of the table.
	Append(ctx context.Context, table string, row []string) error

	// WriteCell overwrites a single cell. The row must exist.
	WriteCell(ctx context.Context, table string, rowIdx, colIdx int, value string) error

	// DeleteRow removes a row, shifting later rows up.
	DeleteRow(ctx context.Context, table string, rowIdx int) error

	// EnsureTable creates the table with the given header row when it
	// does not exist yet. Idempotent.
	EnsureTable(ctx context.Context, table string, header []string) error
}

// CellTimeLayout is the canonical layout new code writes timestamps with.
const CellTimeLayout = time.RFC3339

// legacy layouts tolerated in historical rows
var cellTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006 15:04:05",
	"02/01/2006",
}

// FormatCellTime renders a timestamp the way new rows store it.
func FormatCellTime(t time.Time) string {
	return t.UTC().Format(CellTimeLayout)
}

// ParseCellTime parses a date cell leniently. Historical rows carry a
// mix of ISO timestamps and dd/mm/yyyy dates; anything unparseable
// reports ok=false and must not be treated as the zero time.
func ParseCellTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range cellTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NormalizeID strips the trailing ".0" that numeric key cells pick up
// when read back from a real sheet. Every id comparison goes through it.
func NormalizeID(raw string) string {
	raw = strings.TrimSpace(raw)
	return strings.TrimSuffix(raw, ".0")
}

// Cell returns the trimmed cell at col, or "" when the row is short.
// Sheet rows are ragged: trailing blank cells are routinely absent.
func Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
