// Package schema has models and constants for all parts of cyclereport.
package schema

import "time"

// GraphQLRequest is a single query sent to the project-management API.
type GraphQLRequest struct {
	Name      string         `json:"-"` // Short label used in logs and errors
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// Connection is the nodes wrapper used by every list field of the API.
// A nil Nodes slice means the field was absent or null in the payload.
type Connection[T any] struct {
	Nodes []T `json:"nodes"`
}

// IssueCountResponse is the data payload of the issue-count query.
type IssueCountResponse struct {
	Teams *Connection[IssueCountTeam] `json:"teams"`
}

// IssueCountTeam is a team with the issue-count time-series of its cycles.
type IssueCountTeam struct {
	ID     string                  `json:"id"`
	Name   string                  `json:"name"`
	Cycles *Connection[CycleCount] `json:"cycles"`
}

// CycleCount is one cycle with its cumulative issue-count time-series.
type CycleCount struct {
	ID                         string    `json:"id"`
	Number                     int       `json:"number"`
	StartsAt                   time.Time `json:"startsAt"`
	EndsAt                     time.Time `json:"endsAt"`
	IssueCountHistory          Series    `json:"issueCountHistory"`
	CompletedIssueCountHistory Series    `json:"completedIssueCountHistory"`
}

// ScopeHistoryResponse is the data payload of the scope-history query.
type ScopeHistoryResponse struct {
	Teams *Connection[ScopeTeam] `json:"teams"`
}

// ScopeTeam is a team with the scope time-series of its cycles.
type ScopeTeam struct {
	ID     string                  `json:"id"`
	Name   string                  `json:"name"`
	Cycles *Connection[CycleScope] `json:"cycles"`
}

// CycleScope is one cycle with its cumulative scope time-series.
type CycleScope struct {
	ID           string `json:"id"`
	ScopeHistory Series `json:"scopeHistory"`
}

// DerivedRow is one reported cycle. It is built once and never mutated.
type DerivedRow struct {
	TeamName             string           `json:"team"`
	CycleNumber          int              `json:"cycle"`
	StartDate            string           `json:"start_date"`
	EndDate              string           `json:"end_date"`
	TotalIssues          int              `json:"total_issues"`
	CompletedIssues      int              `json:"completed_issues"`
	CompletionPercentage int              `json:"completion_pct"`
	ScopeChange          int              `json:"scope_change"`
	CapacityAccuracy     CapacityAccuracy `json:"capacity_accuracy"`
}

// ReportSummary aggregates a set of derived rows for footers and logs.
type ReportSummary struct {
	Cycles         int     `json:"cycles"`
	Teams          int     `json:"teams"`
	MeanCompletion float64 `json:"mean_completion_pct"`
	MeanAccuracy   float64 `json:"mean_capacity_accuracy"`
	AccuracyCycles int     `json:"accuracy_cycles"` // Cycles with a numeric capacity accuracy
}
