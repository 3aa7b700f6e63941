package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devcatalyst/intake-service/internal/models"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSchemaLint_BuiltIn(t *testing.T) {
	out, err := execute(t, "schema", "lint")
	require.NoError(t, err)
	assert.Contains(t, out, ": ok (")
	assert.Contains(t, out, "4 tracks")
}

func TestSchemaLint_RejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("id: broken\ntitle: Broken\nsections: []\n"), 0o644))

	_, err := execute(t, "schema", "lint", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema has no sections")
}

func TestSchemaColumns(t *testing.T) {
	out, err := execute(t, "schema", "columns")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, models.ColumnTimestamp, lines[0])
	assert.Contains(t, lines, "Roll Number")
}

func TestReviewMarkAndOpen(t *testing.T) {
	db := filepath.Join(t.TempDir(), "review.db")

	out, err := execute(t, "review", "--statuses", db, "open", "2025-02-01T10:00:00Z")
	require.NoError(t, err)
	assert.Contains(t, out, "viewed")

	out, err = execute(t, "review", "--statuses", db, "mark", "2025-02-01T10:00:00Z", "accepted")
	require.NoError(t, err)
	assert.Contains(t, out, "accepted")

	out, err = execute(t, "review", "--statuses", db, "open", "2025-02-01T10:00:00Z")
	require.NoError(t, err)
	assert.Contains(t, out, "accepted")

	_, err = execute(t, "review", "--statuses", db, "mark", "2025-02-01T10:00:00Z", "maybe")
	assert.Error(t, err)
}

func TestTableRender(t *testing.T) {
	var buf bytes.Buffer
	tbl := &table{title: "Tracks", headers: []string{"TRACK", "COUNT"}}
	tbl.add("Technical Team", "2")
	require.NoError(t, tbl.render(&buf))

	out := buf.String()
	assert.Contains(t, out, "Tracks")
	assert.Contains(t, out, "Technical Team")

	buf.Reset()
	require.NoError(t, (&table{headers: []string{"A"}}).render(&buf))
	assert.Contains(t, buf.String(), "(no rows)")
}
