package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctrc/internal/store"
)

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "plain number", input: "42", expected: "42"},
		{name: "float suffix stripped", input: "42.0", expected: "42"},
		{name: "whitespace trimmed", input: " 42 ", expected: "42"},
		{name: "generated id untouched", input: "USER_1755_4821", expected: "USER_1755_4821"},
		{name: "real decimal untouched", input: "42.5", expected: "42.5"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, store.NormalizeID(tt.input))
		})
	}
}

func TestParseCellTime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantOK  bool
		wantDay int
	}{
		{name: "rfc3339", input: "2026-08-12T10:30:00Z", wantOK: true, wantDay: 12},
		{name: "datetime", input: "2026-08-12 10:30:00", wantOK: true, wantDay: 12},
		{name: "date only", input: "2026-08-12", wantOK: true, wantDay: 12},
		{name: "brazilian date", input: "12/08/2026", wantOK: true, wantDay: 12},
		{name: "garbage", input: "amanhã", wantOK: false},
		{name: "empty", input: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, ok := store.ParseCellTime(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantDay, parsed.Day())
			}
		})
	}
}

func TestFormatCellTimeRoundTrip(t *testing.T) {
	now := time.Date(2026, 8, 12, 10, 30, 0, 0, time.UTC)
	formatted := store.FormatCellTime(now)

	parsed, ok := store.ParseCellTime(formatted)
	require.True(t, ok)
	assert.True(t, parsed.Equal(now))
}

func TestCell(t *testing.T) {
	row := []string{"a", " b ", ""}

	assert.Equal(t, "a", store.Cell(row, 0))
	assert.Equal(t, "b", store.Cell(row, 1))
	assert.Equal(t, "", store.Cell(row, 2))
	assert.Equal(t, "", store.Cell(row, 10), "out of range reads as blank")
	assert.Equal(t, "", store.Cell(nil, 0))
}
