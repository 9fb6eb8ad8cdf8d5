package schema

import "time"

// ReportRunRecord represents a row from the cyclereport_runs table.
type ReportRunRecord struct {
	RunID         int64
	Quarter       string
	StartedAt     time.Time
	FinishedAt    *time.Time
	RunDurationMs *int32
	TotalRows     int32
	ConfigParams  *string
}

// CycleRowRecord represents a row from the cyclereport_cycle_rows table.
type CycleRowRecord struct {
	RunID            int64
	TeamName         string
	CycleNumber      int32
	StartDate        string
	EndDate          string
	TotalIssues      int32
	CompletedIssues  int32
	CompletionPct    int32
	ScopeChange      int32
	CapacityAccuracy *int32
}

// HistoryStatus represents the status of the history store.
type HistoryStatus struct {
	Backend     string           `json:"backend"`
	Connected   bool             `json:"connected"`
	TotalRuns   int              `json:"total_runs"`
	LastRunID   int64            `json:"last_run_id"`
	LastRunTime time.Time        `json:"last_run_time"`
	OldestRun   time.Time        `json:"oldest_run_time"`
	TotalRows   int              `json:"total_rows"`
	TableSizes  map[string]int64 `json:"table_sizes"`
}
