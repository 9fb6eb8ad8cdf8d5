package core

import "github.com/huangsam/cyclereport/schema"

// ScopeChangeIndex maps a cycle id to its net scope change.
type ScopeChangeIndex map[string]int

// BuildScopeChangeIndex computes last minus first of every scope history,
// across all teams. An empty history contributes zero.
func BuildScopeChangeIndex(resp schema.ScopeHistoryResponse) ScopeChangeIndex {
	index := make(ScopeChangeIndex)
	if resp.Teams == nil {
		return index
	}
	for _, team := range resp.Teams.Nodes {
		if team.Cycles == nil {
			continue
		}
		for _, cycle := range team.Cycles.Nodes {
			h := cycle.ScopeHistory
			index[cycle.ID] = seriesCount(h.LastOrZero() - h.FirstOrZero())
		}
	}
	return index
}

// Lookup returns the scope change of a cycle, zero when unknown.
func (idx ScopeChangeIndex) Lookup(cycleID string) int {
	if change, ok := idx[cycleID]; ok {
		return change
	}
	return 0
}
