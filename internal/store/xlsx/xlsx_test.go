package xlsx

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCreatesWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "ctrc.xlsx")

	st, err := Open(path)
	require.NoError(t, err)
	defer st.Close()

	assert.FileExists(t, path)
}

func TestMissingTableReadsEmpty(t *testing.T) {
	st, err := Open(filepath.Join(t.TempDir(), "ctrc.xlsx"))
	require.NoError(t, err)
	defer st.Close()

	rows, err := st.ReadAll(context.Background(), "LOGIN")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ctrc.xlsx")

	st, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, st.EnsureTable(ctx, "LOGIN", []string{"ID", "LOGIN"}))
	require.NoError(t, st.Append(ctx, "LOGIN", []string{"1", "maria"}))
	require.NoError(t, st.Append(ctx, "LOGIN", []string{"2", "joao"}))
	require.NoError(t, st.WriteCell(ctx, "LOGIN", 2, 1, "joão"))
	require.NoError(t, st.Close())

	// reopen from disk to verify everything was flushed
	st, err = Open(path)
	require.NoError(t, err)
	defer st.Close()

	rows, err := st.ReadAll(ctx, "LOGIN")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "LOGIN"}, rows[0])
	assert.Equal(t, "maria", rows[1][1])
	assert.Equal(t, "joão", rows[2][1])
}

func TestEnsureTableIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st, err := Open(filepath.Join(t.TempDir(), "ctrc.xlsx"))
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.EnsureTable(ctx, "TICKETS", []string{"ID"}))
	require.NoError(t, st.Append(ctx, "TICKETS", []string{"1"}))
	require.NoError(t, st.EnsureTable(ctx, "TICKETS", []string{"ID"}))

	rows, err := st.ReadAll(ctx, "TICKETS")
	require.NoError(t, err)
	assert.Len(t, rows, 2, "existing rows survive a second ensure")
}

func TestDeleteRow(t *testing.T) {
	ctx := context.Background()
	st, err := Open(filepath.Join(t.TempDir(), "ctrc.xlsx"))
	require.NoError(t, err)
	defer st.Close()

	require.NoError(t, st.EnsureTable(ctx, "LOGIN", []string{"ID"}))
	require.NoError(t, st.Append(ctx, "LOGIN", []string{"1"}))
	require.NoError(t, st.Append(ctx, "LOGIN", []string{"2"}))

	require.NoError(t, st.DeleteRow(ctx, "LOGIN", 1))

	rows, err := st.ReadAll(ctx, "LOGIN")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2", rows[1][0], "later rows shift up")
}
