package linear

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/fortify/timeout"
	"github.com/huangsam/cyclereport/internal/contract"
	"github.com/huangsam/cyclereport/schema"
	"golang.org/x/oauth2"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 32 << 20

// Client sends GraphQL requests with a static bearer token.
type Client struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a client for the endpoint. The transport comes from
// the oauth2 package, so an *http.Client stored in ctx under oauth2.HTTPClient
// is used as the base.
func NewClient(ctx context.Context, endpoint, apiKey string, requestTimeout time.Duration) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey, TokenType: "Bearer"})
	if requestTimeout <= 0 {
		requestTimeout = contract.DefaultTimeout
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: oauth2.NewClient(ctx, ts),
		timeout:    requestTimeout,
	}
}

// graphQLError is one entry of the errors array.
type graphQLError struct {
	Message string `json:"message"`
}

// envelope is the top-level GraphQL response.
type envelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// messages returns the non-empty error messages of the envelope.
func (e envelope) messages() []string {
	var msgs []string
	for _, ge := range e.Errors {
		if ge.Message != "" {
			msgs = append(msgs, ge.Message)
		}
	}
	return msgs
}

// Do sends req and decodes the data payload into out.
// Every failure is a *contract.FetchError.
func (c *Client) Do(ctx context.Context, req schema.GraphQLRequest, out any) error {
	start := time.Now()
	t := timeout.New[struct{}](timeout.Config{DefaultTimeout: c.timeout})
	_, err := t.Execute(ctx, c.timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.send(ctx, req, out)
	})
	if err != nil {
		var fe *contract.FetchError
		if !errors.As(err, &fe) {
			err = &contract.FetchError{Query: req.Name, Err: err}
		}
		slog.Debug("graphql request failed", "query", req.Name, "error", err)
		return err
	}
	slog.Debug("graphql request done", "query", req.Name, "duration", time.Since(start))
	return nil
}

func (c *Client) send(ctx context.Context, req schema.GraphQLRequest, out any) error {
	body, err := json.Marshal(req)
	if err != nil {
		return &contract.FetchError{Query: req.Name, Err: fmt.Errorf("encode request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return &contract.FetchError{Query: req.Name, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &contract.FetchError{Query: req.Name, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &contract.FetchError{Query: req.Name, Err: fmt.Errorf("read response: %w", err)}
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if decodeErr == nil {
			if msgs := env.messages(); len(msgs) > 0 {
				return &contract.FetchError{Query: req.Name, Messages: msgs}
			}
		}
		return &contract.FetchError{Query: req.Name, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	if decodeErr != nil {
		return &contract.FetchError{Query: req.Name, Err: fmt.Errorf("%w: invalid JSON envelope: %w", contract.ErrShape, decodeErr)}
	}
	if len(env.Errors) > 0 {
		return &contract.FetchError{Query: req.Name, Messages: env.messages()}
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return &contract.FetchError{Query: req.Name, Err: fmt.Errorf("%w: response has no data", contract.ErrShape)}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &contract.FetchError{Query: req.Name, Err: fmt.Errorf("%w: %w", contract.ErrShape, err)}
	}
	return nil
}
