package linear

import (
	"context"
	"log/slog"

	"github.com/huangsam/cyclereport/internal/contract"
	"github.com/huangsam/cyclereport/schema"
	"golang.org/x/sync/errgroup"
)

// FetchCycleData runs both queries concurrently and waits for both.
// The first failure cancels the other request and is returned as is.
func FetchCycleData(ctx context.Context, client contract.GraphQLClient, issuesReq, scopeReq schema.GraphQLRequest) (schema.IssueCountResponse, schema.ScopeHistoryResponse, error) {
	var (
		issues schema.IssueCountResponse
		scope  schema.ScopeHistoryResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := client.Do(gctx, issuesReq, &issues); err != nil {
			return err
		}
		if err := ValidateIssueCounts(issues); err != nil {
			return &contract.FetchError{Query: issuesReq.Name, Err: err}
		}
		return nil
	})
	g.Go(func() error {
		if err := client.Do(gctx, scopeReq, &scope); err != nil {
			return err
		}
		if err := ValidateScopeHistory(scope); err != nil {
			return &contract.FetchError{Query: scopeReq.Name, Err: err}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return schema.IssueCountResponse{}, schema.ScopeHistoryResponse{}, err
	}

	slog.Info("fetched cycle data",
		"teams", len(issues.Teams.Nodes),
		"scope_teams", len(scope.Teams.Nodes))
	return issues, scope, nil
}
