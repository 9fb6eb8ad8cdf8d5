package outwriter

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/huangsam/cyclereport/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cparquet "github.com/huangsam/cyclereport/internal/parquet"
)

func sampleRows() []schema.DerivedRow {
	return []schema.DerivedRow{
		{
			TeamName: "Mobile", CycleNumber: 4, StartDate: "2026-07-01", EndDate: "2026-07-15",
			TotalIssues: 5, CompletedIssues: 5, CompletionPercentage: 100, ScopeChange: 5,
			CapacityAccuracy: schema.NotApplicable(),
		},
		{
			TeamName: "Platform", CycleNumber: 12, StartDate: "2026-07-01", EndDate: "2026-07-15",
			TotalIssues: 10, CompletedIssues: 7, CompletionPercentage: 70, ScopeChange: 2,
			CapacityAccuracy: schema.AccuracyOf(88),
		},
	}
}

func sampleSummary() schema.ReportSummary {
	return schema.ReportSummary{Cycles: 2, Teams: 2, MeanCompletion: 85, MeanAccuracy: 88, AccuracyCycles: 1}
}

func TestFormatCSV(t *testing.T) {
	expected := "Team,Cycle,Start,End,Total Issues,Completed Issues,Completion %,Scope Change,Capacity Accuracy\n" +
		"Mobile,4,2026-07-01,2026-07-15,5,5,100,5,N/A\n" +
		"Platform,12,2026-07-01,2026-07-15,10,7,70,2,88"
	assert.Equal(t, expected, FormatCSV(sampleRows()))
}

func TestFormatCSVEdgeCases(t *testing.T) {
	t.Run("header only", func(t *testing.T) {
		assert.Equal(t, strings.Join(CSVHeader, ","), FormatCSV(nil))
	})

	t.Run("no quoting", func(t *testing.T) {
		rows := []schema.DerivedRow{{TeamName: "Web, Apps", ScopeChange: -3, CapacityAccuracy: schema.AccuracyOf(0)}}
		out := FormatCSV(rows)
		lines := strings.Split(out, "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "Web, Apps,0,,,0,0,0,-3,0", lines[1])
		assert.NotContains(t, out, `"`)
	})

	t.Run("nine columns", func(t *testing.T) {
		assert.Len(t, CSVHeader, 9)
		for _, line := range strings.Split(FormatCSV(sampleRows()), "\n") {
			assert.Len(t, strings.Split(line, ","), 9)
		}
	})
}

func TestRenderReportJSON(t *testing.T) {
	payload, err := RenderReport(sampleRows(), sampleSummary(), schema.JSONOut, false)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))
	require.Len(t, decoded, 2)

	assert.Equal(t, "Mobile", decoded[0]["team"])
	assert.Nil(t, decoded[0]["capacity_accuracy"])
	assert.Equal(t, "N/A", decoded[0]["accuracy_label"])

	assert.InDelta(t, 88, decoded[1]["capacity_accuracy"], 0)
	assert.InDelta(t, 12, decoded[1]["cycle"], 0)
	assert.Equal(t, "Moderate", decoded[1]["accuracy_label"])
	assert.Equal(t, "2026-07-15", decoded[1]["end_date"])
}

func TestRenderReportJSONEmpty(t *testing.T) {
	payload, err := RenderReport(nil, schema.ReportSummary{}, schema.JSONOut, false)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(payload))
}

func TestRenderReportText(t *testing.T) {
	payload, err := RenderReport(sampleRows(), sampleSummary(), schema.TextOut, false)
	require.NoError(t, err)
	out := string(payload)

	for _, want := range []string{"TEAM", "Mobile", "Platform", "+5", "88%", "N/A", "Moderate"} {
		assert.Contains(t, strings.ToUpper(out), strings.ToUpper(want))
	}
	assert.Contains(t, out, "Reported 2 cycles across 2 teams (mean completion: 85.0%, mean capacity accuracy: 88.0%)")
	assert.NotContains(t, out, "\x1b[", "plain tables carry no escape codes")
}

func TestRenderReportParquet(t *testing.T) {
	payload, err := RenderReport(sampleRows(), sampleSummary(), schema.ParquetOut, false)
	require.NoError(t, err)

	reader := parquet.NewGenericReader[cparquet.ReportRow](bytes.NewReader(payload))
	defer func() { _ = reader.Close() }()
	assert.Equal(t, int64(2), reader.NumRows())
}

func TestRenderReportDefaultsToCSV(t *testing.T) {
	payload, err := RenderReport(sampleRows(), sampleSummary(), schema.OutputMode(""), false)
	require.NoError(t, err)
	assert.Equal(t, FormatCSV(sampleRows()), string(payload))
}

func TestFormatSummary(t *testing.T) {
	assert.Equal(t,
		"Reported 0 cycles across 0 teams (mean completion: 0.0%, mean capacity accuracy: N/A)",
		formatSummary(schema.ReportSummary{}))
	assert.Equal(t,
		"Reported 3 cycles across 1 teams (mean completion: 66.7%, mean capacity accuracy: 91.5%)",
		formatSummary(schema.ReportSummary{Cycles: 3, Teams: 1, MeanCompletion: 200.0 / 3, MeanAccuracy: 91.5, AccuracyCycles: 2}))
}

func TestFormatScopeChange(t *testing.T) {
	assert.Equal(t, "+2", formatScopeChange(2))
	assert.Equal(t, "0", formatScopeChange(0))
	assert.Equal(t, "-4", formatScopeChange(-4))
}
