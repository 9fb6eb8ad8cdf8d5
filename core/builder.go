package core

import (
	"github.com/huangsam/cyclereport/schema"
)

// CycleRowBuilder builds a report row from one fetched cycle.
type CycleRowBuilder struct {
	team   string
	cycle  schema.CycleCount
	index  ScopeChangeIndex
	result *schema.DerivedRow
}

// NewCycleRowBuilder is the starting point for building a cycle row.
func NewCycleRowBuilder(teamName string, cycle schema.CycleCount, index ScopeChangeIndex) *CycleRowBuilder {
	return &CycleRowBuilder{
		team:  teamName,
		cycle: cycle,
		index: index,
		result: &schema.DerivedRow{
			TeamName:    teamName,
			CycleNumber: cycle.Number,
		},
	}
}

// FormatDates truncates the cycle boundaries to UTC calendar days.
func (b *CycleRowBuilder) FormatDates() *CycleRowBuilder {
	b.result.StartDate = b.cycle.StartsAt.UTC().Format(schema.DateLayout)
	b.result.EndDate = b.cycle.EndsAt.UTC().Format(schema.DateLayout)
	return b
}

// CountIssues reads the latest total and completed counts.
func (b *CycleRowBuilder) CountIssues() *CycleRowBuilder {
	b.result.TotalIssues = seriesCount(b.cycle.IssueCountHistory.LastOrZero())
	b.result.CompletedIssues = seriesCount(b.cycle.CompletedIssueCountHistory.LastOrZero())
	return b
}

// ApplyScopeChange looks the cycle up in the scope-change index.
func (b *CycleRowBuilder) ApplyScopeChange() *CycleRowBuilder {
	b.result.ScopeChange = b.index.Lookup(b.cycle.ID)
	return b
}

// CalculatePercentages derives completion and capacity accuracy.
// It must run after CountIssues and ApplyScopeChange.
func (b *CycleRowBuilder) CalculatePercentages() *CycleRowBuilder {
	r := b.result
	r.CompletionPercentage = completionPercentage(r.TotalIssues, r.CompletedIssues)
	r.CapacityAccuracy = capacityAccuracy(r.TotalIssues, r.CompletedIssues, r.ScopeChange)
	return b
}

// Build finalizes the construction and returns the completed row.
func (b *CycleRowBuilder) Build() schema.DerivedRow {
	return *b.result
}
