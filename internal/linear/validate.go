package linear

import (
	"fmt"

	"github.com/huangsam/cyclereport/internal/contract"
	"github.com/huangsam/cyclereport/schema"
)

// ValidateIssueCounts checks the issue-count payload before it reaches the deriver.
// Empty series are allowed; missing connections, ids and timestamps are not.
func ValidateIssueCounts(resp schema.IssueCountResponse) error {
	if resp.Teams == nil || resp.Teams.Nodes == nil {
		return fmt.Errorf("%w: teams.nodes is missing", contract.ErrShape)
	}
	for i, team := range resp.Teams.Nodes {
		if team.ID == "" {
			return fmt.Errorf("%w: team %d has no id", contract.ErrShape, i)
		}
		if team.Cycles == nil || team.Cycles.Nodes == nil {
			return fmt.Errorf("%w: team %q has no cycles connection", contract.ErrShape, team.Name)
		}
		for j, cycle := range team.Cycles.Nodes {
			if cycle.ID == "" {
				return fmt.Errorf("%w: cycle %d of team %q has no id", contract.ErrShape, j, team.Name)
			}
			if cycle.StartsAt.IsZero() || cycle.EndsAt.IsZero() {
				return fmt.Errorf("%w: cycle %s of team %q has no start or end timestamp", contract.ErrShape, cycle.ID, team.Name)
			}
		}
	}
	return nil
}

// ValidateScopeHistory checks the scope-history payload.
func ValidateScopeHistory(resp schema.ScopeHistoryResponse) error {
	if resp.Teams == nil || resp.Teams.Nodes == nil {
		return fmt.Errorf("%w: teams.nodes is missing", contract.ErrShape)
	}
	for i, team := range resp.Teams.Nodes {
		if team.ID == "" {
			return fmt.Errorf("%w: team %d has no id", contract.ErrShape, i)
		}
		if team.Cycles == nil || team.Cycles.Nodes == nil {
			return fmt.Errorf("%w: team %q has no cycles connection", contract.ErrShape, team.Name)
		}
		for j, cycle := range team.Cycles.Nodes {
			if cycle.ID == "" {
				return fmt.Errorf("%w: cycle %d of team %q has no id", contract.ErrShape, j, team.Name)
			}
		}
	}
	return nil
}
