package graphqlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const maxErrorBodySnippet = 256

// ClientError is a transport level failure: the request never produced a
// GraphQL envelope.
type ClientError struct {
	StatusCode int
	Cause      error
}

func (e *ClientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("graphql transport: status %d: %v", e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("graphql transport: %v", e.Cause)
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

type request struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// Execute posts a document and returns the decoded envelope. Top-level
// GraphQL errors are returned inside the Response, not as an error; the
// error is always a *ClientError. Execute never retries.
func (c *Client) Execute(ctx context.Context, document string, variables map[string]interface{}) (*Response, error) {
	payload, err := json.Marshal(request{Query: document, Variables: variables})
	if err != nil {
		return nil, &ClientError{Cause: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, &ClientError{Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ClientError{Cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ClientError{StatusCode: resp.StatusCode, Cause: fmt.Errorf("read body: %w", err)}
	}

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300

	var out Response
	if err := json.Unmarshal(body, &out); err != nil {
		if !ok {
			return nil, &ClientError{StatusCode: resp.StatusCode, Cause: fmt.Errorf("%s", snippet(body))}
		}
		return nil, &ClientError{StatusCode: resp.StatusCode, Cause: fmt.Errorf("decode response: %w", err)}
	}

	if !ok && !out.HasData() && len(out.Errors) == 0 {
		return nil, &ClientError{StatusCode: resp.StatusCode, Cause: fmt.Errorf("%s", snippet(body))}
	}

	return &out, nil
}

func snippet(body []byte) string {
	if len(body) == 0 {
		return "empty body"
	}
	if len(body) > maxErrorBodySnippet {
		return string(body[:maxErrorBodySnippet]) + "..."
	}
	return string(body)
}
