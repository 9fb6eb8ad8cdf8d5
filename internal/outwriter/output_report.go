package outwriter

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/huangsam/cyclereport/internal/contract"
	"github.com/huangsam/cyclereport/internal/parquet"
	"github.com/huangsam/cyclereport/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// CSVHeader is the fixed first line of the CSV report.
var CSVHeader = []string{
	"Team",
	"Cycle",
	"Start",
	"End",
	"Total Issues",
	"Completed Issues",
	"Completion %",
	"Scope Change",
	"Capacity Accuracy",
}

// summaryPrecision is the number of decimals in summary means.
const summaryPrecision = 1

// FormatCSV renders the header and one comma-joined line per row.
// Fields are not quoted, and there is no trailing newline.
func FormatCSV(rows []schema.DerivedRow) string {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(CSVHeader, ","))
	for _, r := range rows {
		lines = append(lines, strings.Join(csvFields(r), ","))
	}
	return strings.Join(lines, "\n")
}

// csvFields returns the nine report fields of a row in column order.
func csvFields(r schema.DerivedRow) []string {
	return []string{
		r.TeamName,
		strconv.Itoa(r.CycleNumber),
		r.StartDate,
		r.EndDate,
		strconv.Itoa(r.TotalIssues),
		strconv.Itoa(r.CompletedIssues),
		strconv.Itoa(r.CompletionPercentage),
		strconv.Itoa(r.ScopeChange),
		r.CapacityAccuracy.String(),
	}
}

// RenderReport renders the full payload for an output mode.
// colored only affects the text table.
func RenderReport(rows []schema.DerivedRow, summary schema.ReportSummary, mode schema.OutputMode, colored bool) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch mode {
	case schema.JSONOut:
		err = writeJSONReport(&buf, rows)
	case schema.TextOut:
		err = writeReportTable(&buf, rows, summary, colored)
	case schema.ParquetOut:
		err = parquet.WriteReportRows(&buf, rows)
	default:
		_, err = buf.WriteString(FormatCSV(rows))
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeJSONReport writes the rows as an indented JSON array.
func writeJSONReport(w io.Writer, rows []schema.DerivedRow) error {
	type JSONCycleRow struct {
		schema.DerivedRow
		Label string `json:"accuracy_label"`
	}

	output := make([]JSONCycleRow, len(rows))
	for i, r := range rows {
		output[i] = JSONCycleRow{
			DerivedRow: r,
			Label:      contract.GetPlainLabel(r.CapacityAccuracy),
		}
	}
	return writeJSON(w, output)
}

// writeReportTable generates and writes the human-readable table.
func writeReportTable(w io.Writer, rows []schema.DerivedRow, summary schema.ReportSummary, colored bool) error {
	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	table.Header([]string{"Team", "Cycle", "Start", "End", "Total", "Done", "Completion", "Scope", "Accuracy", "Label"})

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	label := contract.GetPlainLabel
	if colored {
		label = contract.GetColorLabel
	}

	// 3. Populate Rows
	var data [][]string
	for _, r := range rows {
		data = append(data, []string{
			r.TeamName,
			strconv.Itoa(r.CycleNumber),
			r.StartDate,
			r.EndDate,
			strconv.Itoa(r.TotalIssues),
			strconv.Itoa(r.CompletedIssues),
			strconv.Itoa(r.CompletionPercentage) + "%",
			formatScopeChange(r.ScopeChange),
			formatAccuracy(r.CapacityAccuracy),
			label(r.CapacityAccuracy),
		})
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, formatSummary(summary))
	return err
}

// formatSummary renders the footer line under the table.
func formatSummary(s schema.ReportSummary) string {
	fmtFloat := createFormatters(summaryPrecision)
	accuracy := schema.NotApplicableText
	if s.AccuracyCycles > 0 {
		accuracy = fmtFloat(s.MeanAccuracy) + "%"
	}
	return fmt.Sprintf("Reported %d cycles across %d teams (mean completion: %s%%, mean capacity accuracy: %s)",
		s.Cycles, s.Teams, fmtFloat(s.MeanCompletion), accuracy)
}

// formatScopeChange always shows the sign of a non-zero change.
func formatScopeChange(change int) string {
	if change > 0 {
		return "+" + strconv.Itoa(change)
	}
	return strconv.Itoa(change)
}

func formatAccuracy(acc schema.CapacityAccuracy) string {
	if acc.IsNotApplicable() {
		return acc.String()
	}
	return acc.String() + "%"
}
