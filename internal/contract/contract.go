// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/cyclereport/schema"
)

// GraphQLClient sends a single query and decodes its data payload into out.
// This allows the report pipeline to be tested without a live API.
type GraphQLClient interface {
	Do(ctx context.Context, req schema.GraphQLRequest, out any) error
}

// ReportWriter renders and persists a finished report.
type ReportWriter interface {
	WriteReport(rows []schema.DerivedRow, summary schema.ReportSummary, cfg *Config) error
}

// HistoryManager defines the interface for reaching the history store.
// This allows the persistence layer to be mocked for testing.
type HistoryManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore defines the interface for tracking report runs and their rows.
type HistoryStore interface {
	// BeginRun creates a new report run and returns its unique ID
	BeginRun(quarter string, startedAt time.Time, configParams map[string]any) (int64, error)

	// RecordRows stores every derived row of a run
	RecordRows(runID int64, rows []schema.DerivedRow) error

	// EndRun updates the run with completion data
	EndRun(runID int64, finishedAt time.Time, totalRows int) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns retrieves all report runs
	GetAllRuns() ([]schema.ReportRunRecord, error)

	// GetAllRows retrieves all stored cycle rows
	GetAllRows() ([]schema.CycleRowRecord, error)

	// Close closes the underlying connection
	Close() error
}
