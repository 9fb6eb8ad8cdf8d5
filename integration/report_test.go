//go:build basic

// Package integration contains end-to-end tests for the cyclereport binary.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportCSV(t *testing.T) {
	srv := fakeLinear(t)
	dir := t.TempDir()

	_, stderr, err := runCommand(t, dir, reportEnv(srv.URL), "report", "--quarter", "Q12020")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Wrote CSV to cycle-report-Q12020.csv")

	content, err := os.ReadFile(filepath.Join(dir, "cycle-report-Q12020.csv"))
	require.NoError(t, err)
	assert.Equal(t, expectedCSV, string(content))
}

func TestReportPrint(t *testing.T) {
	srv := fakeLinear(t)
	dir := t.TempDir()

	stdout, _, err := runCommand(t, dir, reportEnv(srv.URL),
		"report", "--quarter", "Q12020", "--print", "--output-file", "out/report.csv")
	require.NoError(t, err)
	assert.Equal(t, expectedCSV+"\n", stdout)

	_, err = os.Stat(filepath.Join(dir, "out", "report.csv"))
	assert.NoError(t, err)
}

func TestReportJSON(t *testing.T) {
	srv := fakeLinear(t)
	dir := t.TempDir()

	_, _, err := runCommand(t, dir, reportEnv(srv.URL), "report", "--quarter", "q12020", "--output", "json")
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "cycle-report-Q12020.json"))
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(content, &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "Mobile", rows[0]["team"])
	assert.Nil(t, rows[0]["capacity_accuracy"])
	assert.InDelta(t, 88, rows[2]["capacity_accuracy"], 0)
}

func TestReportIncludesExcludedTeamWhenOverridden(t *testing.T) {
	srv := fakeLinear(t)
	dir := t.TempDir()

	stdout, _, err := runCommand(t, dir, reportEnv(srv.URL),
		"report", "--quarter", "Q12020", "--exclude-team", "", "--print")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Overhead,9,2020-01-06,2020-01-20,3,3,100,0,100")
}

func TestReportFailures(t *testing.T) {
	srv := fakeLinear(t)

	tests := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"invalid quarter", reportEnv(srv.URL), []string{"report", "--quarter", "Q52020"}},
		{"invalid output", reportEnv(srv.URL), []string{"report", "--quarter", "Q12020", "--output", "xml"}},
		{"missing api key", map[string]string{"CYCLEREPORT_ENDPOINT": srv.URL}, []string{"report", "--quarter", "Q12020"}},
		{"rejected api key", map[string]string{"CYCLEREPORT_ENDPOINT": srv.URL, "LINEAR_API_KEY": "wrong"}, []string{"report", "--quarter", "Q12020"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			_, stderr, err := runCommand(t, dir, tt.env, tt.args...)
			require.Error(t, err)
			assert.Contains(t, stderr, "Fatal")

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Empty(t, entries, "no report is written on failure")
		})
	}
}

func TestHistorySQLite(t *testing.T) {
	srv := fakeLinear(t)
	dir := t.TempDir()
	env := reportEnv(srv.URL)
	env["CYCLEREPORT_HISTORY_BACKEND"] = "sqlite"
	env["CYCLEREPORT_HISTORY_DB_CONNECT"] = filepath.Join(dir, "history.db")

	_, _, err := runCommand(t, dir, env, "history", "migrate")
	require.NoError(t, err)

	for range 2 {
		_, _, err = runCommand(t, dir, env, "report", "--quarter", "Q12020")
		require.NoError(t, err)
	}

	stdout, _, err := runCommand(t, dir, env, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Total Runs: 2")
	assert.Contains(t, stdout, "cyclereport_cycle_rows: 6 rows")

	_, _, err = runCommand(t, dir, env, "history", "export", "--output-file", "export")
	require.NoError(t, err)
	for _, name := range []string{"export.runs.parquet", "export.cycle_rows.parquet"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	_, _, err = runCommand(t, dir, env, "history", "clear")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "history.db"))
	assert.True(t, os.IsNotExist(err))
}

func TestVersion(t *testing.T) {
	stdout, stderr, err := runCommand(t, t.TempDir(), nil, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout+stderr, "cyclereport CLI")
}
