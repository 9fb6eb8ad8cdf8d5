package core

import (
	"time"

	"github.com/huangsam/cyclereport/schema"
)

// DeriveRows builds one row per finished cycle, skipping the excluded team.
// Rows come out in payload order; see SortRows.
func DeriveRows(resp schema.IssueCountResponse, index ScopeChangeIndex, excludeTeam string, now time.Time) []schema.DerivedRow {
	rows := make([]schema.DerivedRow, 0)
	if resp.Teams == nil {
		return rows
	}
	for _, team := range resp.Teams.Nodes {
		if team.Name == excludeTeam {
			continue
		}
		if team.Cycles == nil {
			continue
		}
		for _, cycle := range team.Cycles.Nodes {
			if cycle.EndsAt.After(now) {
				continue
			}
			row := NewCycleRowBuilder(team.Name, cycle, index).
				FormatDates().
				CountIssues().
				ApplyScopeChange().
				CalculatePercentages().
				Build()
			rows = append(rows, row)
		}
	}
	return rows
}
