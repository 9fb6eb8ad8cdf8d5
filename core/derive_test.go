package core

import (
	"testing"
	"time"

	"github.com/huangsam/cyclereport/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var deriveNow = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func issueResponse(teams ...schema.IssueCountTeam) schema.IssueCountResponse {
	return schema.IssueCountResponse{Teams: &schema.Connection[schema.IssueCountTeam]{Nodes: teams}}
}

func issueTeam(name string, cycles ...schema.CycleCount) schema.IssueCountTeam {
	return schema.IssueCountTeam{ID: "team-" + name, Name: name, Cycles: &schema.Connection[schema.CycleCount]{Nodes: cycles}}
}

func finishedCycle(id string, number int, total, completed schema.Series) schema.CycleCount {
	return schema.CycleCount{
		ID:                         id,
		Number:                     number,
		StartsAt:                   time.Date(2026, 7, 1, 9, 30, 0, 0, time.UTC),
		EndsAt:                     time.Date(2026, 7, 15, 9, 30, 0, 0, time.UTC),
		IssueCountHistory:          total,
		CompletedIssueCountHistory: completed,
	}
}

func TestDeriveRowsExamples(t *testing.T) {
	resp := issueResponse(issueTeam("Platform",
		finishedCycle("c1", 1, schema.Series{8, 9, 10}, schema.Series{0, 4, 7}),
		finishedCycle("c2", 2, schema.Series{5}, schema.Series{5}),
	))
	index := ScopeChangeIndex{"c1": 2, "c2": 5}

	rows := DeriveRows(resp, index, "Overhead", deriveNow)
	require.Len(t, rows, 2)

	assert.Equal(t, schema.DerivedRow{
		TeamName:             "Platform",
		CycleNumber:          1,
		StartDate:            "2026-07-01",
		EndDate:              "2026-07-15",
		TotalIssues:          10,
		CompletedIssues:      7,
		CompletionPercentage: 70,
		ScopeChange:          2,
		CapacityAccuracy:     schema.AccuracyOf(88),
	}, rows[0])

	assert.Equal(t, 100, rows[1].CompletionPercentage)
	assert.Equal(t, 5, rows[1].ScopeChange)
	assert.True(t, rows[1].CapacityAccuracy.IsNotApplicable())
}

func TestDeriveRowsFiltering(t *testing.T) {
	future := finishedCycle("future", 9, schema.Series{3}, schema.Series{1})
	future.EndsAt = deriveNow.Add(time.Minute)
	endsNow := finishedCycle("now", 8, schema.Series{3}, schema.Series{3})
	endsNow.EndsAt = deriveNow

	resp := issueResponse(
		issueTeam("Overhead", finishedCycle("o1", 1, schema.Series{4}, schema.Series{4})),
		issueTeam("overhead", finishedCycle("o2", 1, schema.Series{4}, schema.Series{2})),
		issueTeam("Platform", future, endsNow),
		schema.IssueCountTeam{ID: "t-nil", Name: "NoCycles"},
	)

	rows := DeriveRows(resp, ScopeChangeIndex{}, "Overhead", deriveNow)
	require.Len(t, rows, 2)

	assert.Equal(t, "overhead", rows[0].TeamName, "exclusion is an exact match")
	assert.Equal(t, "Platform", rows[1].TeamName)
	assert.Equal(t, 8, rows[1].CycleNumber, "a cycle ending exactly now is reported")
}

func TestDeriveRowsDefaults(t *testing.T) {
	resp := issueResponse(issueTeam("Platform",
		finishedCycle("empty", 1, nil, schema.Series{}),
		finishedCycle("unindexed", 2, schema.Series{4}, schema.Series{1}),
	))

	rows := DeriveRows(resp, ScopeChangeIndex{}, "", deriveNow)
	require.Len(t, rows, 2)

	empty := rows[0]
	assert.Equal(t, 0, empty.TotalIssues)
	assert.Equal(t, 0, empty.CompletedIssues)
	assert.Equal(t, 0, empty.CompletionPercentage)
	assert.Equal(t, 0, empty.ScopeChange)
	assert.True(t, empty.CapacityAccuracy.IsNotApplicable())

	unindexed := rows[1]
	assert.Equal(t, 0, unindexed.ScopeChange)
	assert.Equal(t, 25, unindexed.CompletionPercentage)
	assert.Equal(t, schema.AccuracyOf(25), unindexed.CapacityAccuracy)
}

func TestDeriveRowsDatesAreUTCDays(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	cycle := finishedCycle("c1", 4, schema.Series{1}, schema.Series{1})
	cycle.StartsAt = time.Date(2026, 6, 30, 21, 0, 0, 0, est)
	cycle.EndsAt = time.Date(2026, 7, 14, 18, 0, 0, 0, est)

	rows := DeriveRows(issueResponse(issueTeam("Platform", cycle)), nil, "", deriveNow)
	require.Len(t, rows, 1)
	assert.Equal(t, "2026-07-01", rows[0].StartDate)
	assert.Equal(t, "2026-07-14", rows[0].EndDate)
}

func TestDeriveRowsEmpty(t *testing.T) {
	rows := DeriveRows(schema.IssueCountResponse{}, nil, "Overhead", deriveNow)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}
