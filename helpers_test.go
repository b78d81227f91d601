package shopify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	graphqlclient "github.com/carterdea/populate-shopify/graphql"
)

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// newTestClient serves every request with handler, which gets the decoded
// GraphQL request and returns the raw response body.
func newTestClient(t *testing.T, handler func(t *testing.T, req graphQLRequest) string) *Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(handler(t, req)))
	}))
	t.Cleanup(server.Close)

	return NewClientWithToken("shpat_test", "dev-store", graphqlclient.WithEndpoint(server.URL))
}
