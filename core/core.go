// Package core has core logic for deriving, ranking and reporting cycle metrics.
package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/huangsam/cyclereport/internal/contract"
	"github.com/huangsam/cyclereport/internal/linear"
	"github.com/huangsam/cyclereport/schema"
)

// ExecuteCycleReport runs one report: fetch, derive, sort, write, then record history.
// Nothing is written unless every row was derived.
func ExecuteCycleReport(ctx context.Context, cfg *contract.Config, client contract.GraphQLClient, writer contract.ReportWriter, mgr contract.HistoryManager) error {
	start := time.Now()
	now := cfg.Now
	if now.IsZero() {
		now = start
	}

	issuesReq, scopeReq := linear.BuildQueries(cfg.Quarter, cfg.TeamPrefix, cfg.PageSize)
	slog.Info("fetching cycles",
		"quarter", cfg.Quarter.String(),
		"from", cfg.Quarter.Start().Format(schema.DateLayout),
		"to", cfg.Quarter.End().Format(schema.DateLayout),
		"team_prefix", cfg.TeamPrefix)

	issues, scope, err := linear.FetchCycleData(ctx, client, issuesReq, scopeReq)
	if err != nil {
		return err
	}

	index := BuildScopeChangeIndex(scope)
	rows := DeriveRows(issues, index, cfg.ExcludeTeam, now)
	SortRows(rows)
	summary := Summarize(rows)
	slog.Info("derived cycle rows",
		"cycles", summary.Cycles,
		"teams", summary.Teams,
		"scope_entries", len(index),
		"mean_completion_pct", summary.MeanCompletion)

	if err := writer.WriteReport(rows, summary, cfg); err != nil {
		return err
	}

	recordHistory(cfg, mgr, rows, start)
	return nil
}

// recordHistory stores the run when a history backend is configured.
// Failures are reported as warnings and never fail the run.
func recordHistory(cfg *contract.Config, mgr contract.HistoryManager, rows []schema.DerivedRow, startedAt time.Time) {
	if mgr == nil {
		return
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return
	}

	configParams := map[string]any{
		"quarter":      cfg.Quarter.String(),
		"team_prefix":  cfg.TeamPrefix,
		"exclude_team": cfg.ExcludeTeam,
		"page_size":    cfg.PageSize,
		"output":       string(cfg.Output),
	}
	runID, err := store.BeginRun(cfg.Quarter.String(), startedAt, configParams)
	if err != nil {
		contract.LogWarn("Run history initialization failed", err)
		return
	}
	if err := store.RecordRows(runID, rows); err != nil {
		contract.LogWarn("Failed to record cycle rows", err)
	}
	if err := store.EndRun(runID, time.Now(), len(rows)); err != nil {
		contract.LogWarn("Failed to finalize run history", err)
	}
}
