// Package linear talks to the Linear GraphQL API.
package linear

import (
	"time"

	"github.com/huangsam/cyclereport/internal/contract"
	"github.com/huangsam/cyclereport/schema"
)

// Query names used in logs and fetch errors.
const (
	IssueCountsQueryName  = "issue counts"
	ScopeHistoryQueryName = "scope history"
)

// The cycle metrics are split into two queries to stay under the API complexity limit.
// TODO: follow pageInfo.endCursor when a workspace exceeds page-size teams or cycles.
const issueCountsQuery = `query IssueCounts($teamPrefix: String!, $start: DateTimeOrDuration!, $end: DateTimeOrDuration!, $first: Int!) {
  teams(first: $first, filter: { name: { startsWith: $teamPrefix } }) {
    nodes {
      id
      name
      cycles(first: $first, filter: { endsAt: { gte: $start, lt: $end } }) {
        nodes {
          id
          number
          startsAt
          endsAt
          issueCountHistory
          completedIssueCountHistory
        }
      }
    }
  }
}`

const scopeHistoryQuery = `query ScopeHistory($teamPrefix: String!, $start: DateTimeOrDuration!, $end: DateTimeOrDuration!, $first: Int!) {
  teams(first: $first, filter: { name: { startsWith: $teamPrefix } }) {
    nodes {
      id
      name
      cycles(first: $first, filter: { endsAt: { gte: $start, lt: $end } }) {
        nodes {
          id
          scopeHistory
        }
      }
    }
  }
}`

// BuildQueries returns the issue-count and scope-history requests for one quarter.
// Both share the same team and cycle filters.
func BuildQueries(q contract.Quarter, teamPrefix string, pageSize int) (issues, scope schema.GraphQLRequest) {
	vars := func() map[string]any {
		return map[string]any{
			"teamPrefix": teamPrefix,
			"start":      q.Start().Format(time.RFC3339),
			"end":        q.End().Format(time.RFC3339),
			"first":      pageSize,
		}
	}
	issues = schema.GraphQLRequest{Name: IssueCountsQueryName, Query: issueCountsQuery, Variables: vars()}
	scope = schema.GraphQLRequest{Name: ScopeHistoryQueryName, Query: scopeHistoryQuery, Variables: vars()}
	return issues, scope
}
