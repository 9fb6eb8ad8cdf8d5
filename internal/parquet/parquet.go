// Package parquet provides data structures and functions for exporting cycle
// reports and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/cyclereport/schema"
	"github.com/parquet-go/parquet-go"
)

// ReportRow is one cycle of a report in the Parquet output mode.
type ReportRow struct {
	// TeamName is the display name of the owning team
	TeamName string `parquet:"team,snappy"`

	// CycleNumber is the per-team cycle sequence number
	CycleNumber int32 `parquet:"cycle,snappy"`

	// StartDate and EndDate are YYYY-MM-DD calendar days in UTC
	StartDate string `parquet:"start_date,snappy"`
	EndDate   string `parquet:"end_date,snappy"`

	TotalIssues          int32 `parquet:"total_issues,snappy"`
	CompletedIssues      int32 `parquet:"completed_issues,snappy"`
	CompletionPercentage int32 `parquet:"completion_pct,snappy"`
	ScopeChange          int32 `parquet:"scope_change,snappy"`

	// CapacityAccuracy is null when the planned work was zero
	CapacityAccuracy *int32 `parquet:"capacity_accuracy,optional,snappy"`
}

// ReportRun represents a single report run with metadata.
// This struct maps to the cyclereport_runs database table.
type ReportRun struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// Quarter is the reported quarter, e.g. Q32026
	Quarter string `parquet:"quarter,snappy"`

	// StartedAt is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartedAt time.Time `parquet:"started_at,snappy"`

	// FinishedAt is when the run completed (nullable)
	FinishedAt *time.Time `parquet:"finished_at,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalRows is the number of cycle rows reported in this run
	TotalRows int32 `parquet:"total_rows,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// CycleRow is a stored report row.
// This struct maps to the cyclereport_cycle_rows database table.
type CycleRow struct {
	// RunID references the parent run
	RunID int64 `parquet:"run_id,snappy"`

	TeamName             string `parquet:"team_name,snappy"`
	CycleNumber          int32  `parquet:"cycle_number,snappy"`
	StartDate            string `parquet:"start_date,snappy"`
	EndDate              string `parquet:"end_date,snappy"`
	TotalIssues          int32  `parquet:"total_issues,snappy"`
	CompletedIssues      int32  `parquet:"completed_issues,snappy"`
	CompletionPercentage int32  `parquet:"completion_pct,snappy"`
	ScopeChange          int32  `parquet:"scope_change,snappy"`
	CapacityAccuracy     *int32 `parquet:"capacity_accuracy,optional,snappy"`
}

// writeRows streams rows through a generic Parquet writer and closes it.
func writeRows[T any](w io.Writer, data []T) error {
	// The schema is automatically derived from the struct tags
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeRowsToFile creates outputPath and writes data to it.
func writeRowsToFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeRows(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteReportRows writes derived report rows as a Parquet file to w.
func WriteReportRows(w io.Writer, rows []schema.DerivedRow) error {
	return writeRows(w, ConvertDerivedRows(rows))
}

// WriteReportRunsParquet writes a slice of ReportRun structs to a Parquet file.
func WriteReportRunsParquet(data []ReportRun, outputPath string) error {
	return writeRowsToFile(data, outputPath)
}

// WriteCycleRowsParquet writes a slice of CycleRow structs to a Parquet file.
func WriteCycleRowsParquet(data []CycleRow, outputPath string) error {
	return writeRowsToFile(data, outputPath)
}

// ConvertDerivedRows converts report rows to ReportRow for Parquet output.
func ConvertDerivedRows(rows []schema.DerivedRow) []ReportRow {
	result := make([]ReportRow, len(rows))
	for i, r := range rows {
		result[i] = ReportRow{
			TeamName:             r.TeamName,
			CycleNumber:          int32(r.CycleNumber),
			StartDate:            r.StartDate,
			EndDate:              r.EndDate,
			TotalIssues:          int32(r.TotalIssues),
			CompletedIssues:      int32(r.CompletedIssues),
			CompletionPercentage: int32(r.CompletionPercentage),
			ScopeChange:          int32(r.ScopeChange),
			CapacityAccuracy:     int32Pointer(r.CapacityAccuracy.Pointer()),
		}
	}
	return result
}

// ConvertReportRunRecords converts schema.ReportRunRecord to ReportRun for Parquet export.
func ConvertReportRunRecords(records []schema.ReportRunRecord) []ReportRun {
	result := make([]ReportRun, len(records))
	for i, record := range records {
		result[i] = ReportRun{
			RunID:         record.RunID,
			Quarter:       record.Quarter,
			StartedAt:     record.StartedAt,
			FinishedAt:    record.FinishedAt,
			RunDurationMs: record.RunDurationMs,
			TotalRows:     record.TotalRows,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertCycleRowRecords converts schema.CycleRowRecord to CycleRow for Parquet export.
func ConvertCycleRowRecords(records []schema.CycleRowRecord) []CycleRow {
	result := make([]CycleRow, len(records))
	for i, record := range records {
		result[i] = CycleRow{
			RunID:                record.RunID,
			TeamName:             record.TeamName,
			CycleNumber:          record.CycleNumber,
			StartDate:            record.StartDate,
			EndDate:              record.EndDate,
			TotalIssues:          record.TotalIssues,
			CompletedIssues:      record.CompletedIssues,
			CompletionPercentage: record.CompletionPct,
			ScopeChange:          record.ScopeChange,
			CapacityAccuracy:     record.CapacityAccuracy,
		}
	}
	return result
}

func int32Pointer(v *int) *int32 {
	if v == nil {
		return nil
	}
	n := int32(*v)
	return &n
}
