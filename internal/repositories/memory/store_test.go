package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devcatalyst/intake-service/internal/repositories"
)

func TestStore_AppendAndRead(t *testing.T) {
	ctx := context.Background()
	s := New("Responses")

	headers, err := s.HeaderRow(ctx, "Responses")
	require.NoError(t, err)
	assert.Empty(t, headers)

	require.NoError(t, s.SetHeaderRow(ctx, "Responses", []string{"Timestamp", "Roll Number"}))
	require.NoError(t, s.AppendRow(ctx, "Responses", map[string]string{"Timestamp": "t1", "Roll Number": "R1"}))
	require.NoError(t, s.AppendRow(ctx, "Responses", map[string]string{"Timestamp": "t2"}))

	rows, err := s.Rows(ctx, "Responses")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "R1", rows[0]["Roll Number"])
	assert.Equal(t, "", rows[1]["Roll Number"])

	sheets, err := s.ListSheets(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, sheets[0].RowCount)
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()
	s := New("Responses")

	_, err := s.HeaderRow(ctx, "Missing")
	assert.ErrorIs(t, err, repositories.ErrSheetNotFound)

	err = s.AppendRow(ctx, "Responses", map[string]string{"Unknown": "x"})
	assert.ErrorIs(t, err, repositories.ErrUnknownColumn)

	wide := make([]string, DefaultColumns+1)
	for i := range wide {
		wide[i] = string(rune('a' + i%26))
	}
	assert.Error(t, s.SetHeaderRow(ctx, "Responses", wide))

	require.NoError(t, s.Resize(ctx, "Responses", len(wide)+5))
	assert.NoError(t, s.SetHeaderRow(ctx, "Responses", wide))

	assert.Error(t, s.CreateSheet(ctx, "Responses"))
}
