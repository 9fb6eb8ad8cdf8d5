package linear

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/huangsam/cyclereport/internal/contract"
	"github.com/huangsam/cyclereport/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const issuePayload = `{"data":{"teams":{"nodes":[{"id":"t1","name":"Platform","cycles":{"nodes":[
{"id":"c1","number":12,"startsAt":"2026-07-01T00:00:00.000Z","endsAt":"2026-07-15T00:00:00.000Z",
"issueCountHistory":[8,9,10],"completedIssueCountHistory":[0,3,7]}]}}]}}}`

func newTestServer(t *testing.T, status int, body string, capture func(*http.Request, []byte)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		if capture != nil {
			capture(r, raw)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClientDo(t *testing.T) {
	var gotAuth, gotMethod string
	var gotBody map[string]any
	srv := newTestServer(t, http.StatusOK, issuePayload, func(r *http.Request, raw []byte) {
		gotAuth = r.Header.Get("Authorization")
		gotMethod = r.Method
		_ = json.Unmarshal(raw, &gotBody)
	})

	client := NewClient(context.Background(), srv.URL, "lin_api_secret", time.Second)
	req := schema.GraphQLRequest{Name: "issue counts", Query: "query X { teams { nodes { id } } }", Variables: map[string]any{"first": 5}}

	var out schema.IssueCountResponse
	require.NoError(t, client.Do(context.Background(), req, &out))

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "Bearer lin_api_secret", gotAuth)
	assert.Equal(t, req.Query, gotBody["query"])
	assert.NotContains(t, gotBody, "Name")

	require.NotNil(t, out.Teams)
	require.Len(t, out.Teams.Nodes, 1)
	cycle := out.Teams.Nodes[0].Cycles.Nodes[0]
	assert.Equal(t, 12, cycle.Number)
	assert.Equal(t, schema.Series{0, 3, 7}, cycle.CompletedIssueCountHistory)
	assert.Equal(t, time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC), cycle.EndsAt.UTC())
}

func TestClientDoErrors(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		wantMessages []string
		wantShape    bool
	}{
		{
			name:         "graphql errors are surfaced individually",
			status:       http.StatusOK,
			body:         `{"data":null,"errors":[{"message":"rate limited"},{"message":"query too complex"}]}`,
			wantMessages: []string{"rate limited", "query too complex"},
		},
		{
			name:         "error body with bad status",
			status:       http.StatusBadRequest,
			body:         `{"errors":[{"message":"authentication required"}]}`,
			wantMessages: []string{"authentication required"},
		},
		{
			name:   "bad status without errors",
			status: http.StatusBadGateway,
			body:   `<html>bad gateway</html>`,
		},
		{
			name:      "missing data",
			status:    http.StatusOK,
			body:      `{}`,
			wantShape: true,
		},
		{
			name:      "null data",
			status:    http.StatusOK,
			body:      `{"data":null}`,
			wantShape: true,
		},
		{
			name:      "invalid json",
			status:    http.StatusOK,
			body:      `{"data":`,
			wantShape: true,
		},
		{
			name:      "wrong field type",
			status:    http.StatusOK,
			body:      `{"data":{"teams":{"nodes":[{"id":"t1","cycles":{"nodes":[{"id":"c1","endsAt":"yesterday"}]}}]}}}`,
			wantShape: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, tt.status, tt.body, nil)
			client := NewClient(context.Background(), srv.URL, "key", time.Second)

			var out schema.IssueCountResponse
			err := client.Do(context.Background(), schema.GraphQLRequest{Name: "issue counts", Query: "q"}, &out)
			require.Error(t, err)
			assert.ErrorIs(t, err, contract.ErrFetch)

			var fe *contract.FetchError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, "issue counts", fe.Query)
			if tt.wantMessages != nil {
				assert.Equal(t, tt.wantMessages, fe.Messages)
			}
			if tt.wantShape {
				assert.ErrorIs(t, err, contract.ErrShape)
			}
		})
	}
}

func TestClientDoTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(context.Background(), srv.URL, "key", 50*time.Millisecond)

	start := time.Now()
	var out schema.IssueCountResponse
	err := client.Do(context.Background(), schema.GraphQLRequest{Name: "issue counts", Query: "q"}, &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, contract.ErrFetch)
	assert.Less(t, time.Since(start), time.Second)
}

func TestClientDoUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient(context.Background(), url, "key", time.Second)
	var out schema.IssueCountResponse
	err := client.Do(context.Background(), schema.GraphQLRequest{Name: "scope history", Query: "q"}, &out)
	require.Error(t, err)
	assert.ErrorIs(t, err, contract.ErrFetch)
	assert.Contains(t, err.Error(), "failed to fetch scope history")
}
