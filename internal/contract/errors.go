package contract

import (
	"errors"
	"strings"
)

// Error kinds. Callers match them with errors.Is.
var (
	// ErrConfig marks missing or malformed configuration.
	ErrConfig = errors.New("configuration error")

	// ErrFetch marks a failed upstream query.
	ErrFetch = errors.New("fetch error")

	// ErrShape marks a response payload that does not match the expected records.
	ErrShape = errors.New("unexpected response shape")
)

// FetchError reports a failed upstream query with the individual messages
// returned by the API, when there were any.
type FetchError struct {
	Query    string   // Name of the query that failed
	Messages []string // Individual GraphQL error messages
	Err      error    // Underlying transport or shape error
}

// Error joins the individual messages, or falls back to a generic message.
func (e *FetchError) Error() string {
	var b strings.Builder
	b.WriteString("failed to fetch")
	if e.Query != "" {
		b.WriteString(" ")
		b.WriteString(e.Query)
	}
	switch {
	case len(e.Messages) > 0:
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Messages, "; "))
	case e.Err != nil:
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	default:
		b.WriteString(": unknown upstream error")
	}
	return b.String()
}

// Is makes every FetchError match ErrFetch.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// Unwrap exposes the underlying error, e.g. ErrShape.
func (e *FetchError) Unwrap() error {
	return e.Err
}
