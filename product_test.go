package shopify

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/r0busta/go-shopify-graphql-model/v4/graph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	graphqlclient "github.com/carterdea/populate-shopify/graphql"
)

func drafts(n int) []ProductDraft {
	out := make([]ProductDraft, n)
	for i := range out {
		out[i] = ProductDraft{
			Title:  "Product " + string(rune('A'+i)),
			Tags:   []string{"New", "Sale"},
			Status: model.ProductStatusActive,
		}
	}
	return out
}

func TestBatchCreateDocument(t *testing.T) {
	doc := BatchCreateDocument(3)

	assert.Equal(t, []string{"product0", "product1", "product2"}, doc.Aliases())
	require.Len(t, doc.Variables, 3)
	assert.Equal(t, graphqlclient.Variable{Name: "input2", Type: "ProductInput!"}, doc.Variables[2])

	s := doc.String()
	assert.True(t, strings.HasPrefix(s, "mutation BatchProductCreate($input0: ProductInput!, $input1: ProductInput!, $input2: ProductInput!) {"))
	assert.Contains(t, s, "product1: productCreate(input: $input1) { product { id title } userErrors { field message } }")
}

func TestCreateBatch_Reconciles(t *testing.T) {
	client := newTestClient(t, func(t *testing.T, req graphQLRequest) string {
		assert.Contains(t, req.Query, "product0: productCreate(input: $input0)")
		assert.Contains(t, req.Query, "product2: productCreate(input: $input2)")
		require.Len(t, req.Variables, 3)

		input1, ok := req.Variables["input1"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "Product B", input1["title"])
		assert.Equal(t, "ACTIVE", input1["status"])
		assert.NotContains(t, input1, "productPublications")
		assert.NotContains(t, input1, "Image")

		return `{"data":{
			"product0":{"product":{"id":"gid://shopify/Product/1","title":"Product A"},"userErrors":[]},
			"product1":{"product":null,"userErrors":[{"field":["title"],"message":"Title can't be blank"}]},
			"product2":{"product":{"id":"gid://shopify/Product/3","title":"Product C"},"userErrors":[]}
		},"extensions":{"cost":{"requestedQueryCost":30,"actualQueryCost":30,"throttleStatus":{"maximumAvailable":1000,"currentlyAvailable":970,"restoreRate":50}}}}`
	})

	outcome, err := client.Product.CreateBatch(context.Background(), drafts(3))
	require.NoError(t, err)
	require.Len(t, outcome.Results, 3)

	assert.True(t, outcome.Results[0].Succeeded())
	assert.Equal(t, "gid://shopify/Product/1", outcome.Results[0].ID)
	assert.Equal(t, "Product A", outcome.Results[0].Title)

	assert.False(t, outcome.Results[1].Succeeded())
	assert.Equal(t, "title: Title can't be blank", FormatUserErrors(outcome.Results[1].UserErrors))

	assert.True(t, outcome.Results[2].Succeeded())
	assert.Equal(t, 970.0, outcome.Cost.ThrottleStatus.CurrentlyAvailable)
	assert.Equal(t, 970.0, client.Throttle().Snapshot().CurrentlyAvailable)
}

func TestCreateBatch_MissingAliasFails(t *testing.T) {
	client := newTestClient(t, func(t *testing.T, req graphQLRequest) string {
		return `{"data":{"product0":{"product":{"id":"gid://shopify/Product/1","title":"A"},"userErrors":[]}}}`
	})

	outcome, err := client.Product.CreateBatch(context.Background(), drafts(2))
	require.NoError(t, err)
	require.Len(t, outcome.Results, 2)
	assert.True(t, outcome.Results[0].Succeeded())
	assert.False(t, outcome.Results[1].Succeeded())
	assert.Contains(t, FormatUserErrors(outcome.Results[1].UserErrors), "product1")
}

func TestCreateBatch_TopLevelErrorsFailBatch(t *testing.T) {
	client := newTestClient(t, func(t *testing.T, req graphQLRequest) string {
		return `{"errors":[{"message":"Throttled","extensions":{"code":"THROTTLED"}}],"extensions":{"cost":{"requestedQueryCost":100,"throttleStatus":{"maximumAvailable":1000,"currentlyAvailable":20,"restoreRate":50}}}}`
	})

	outcome, err := client.Product.CreateBatch(context.Background(), drafts(10))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTopLevel))

	var gqlErrs graphqlclient.Errors
	require.ErrorAs(t, err, &gqlErrs)
	assert.True(t, gqlErrs.Throttled())

	require.NotNil(t, outcome)
	assert.Empty(t, outcome.Results)
	assert.Equal(t, 20.0, outcome.Cost.ThrottleStatus.CurrentlyAvailable)
}

func TestCreateBatch_TransportError(t *testing.T) {
	server := httptest.NewServer(nil)
	url := server.URL
	server.Close()

	client := NewClientWithToken("shpat_test", "dev-store", graphqlclient.WithEndpoint(url))
	outcome, err := client.Product.CreateBatch(context.Background(), drafts(1))

	var ce *graphqlclient.ClientError
	require.ErrorAs(t, err, &ce)
	require.NotNil(t, outcome)
	assert.False(t, outcome.Cost.Reported())
}

func TestCreateBatch_Empty(t *testing.T) {
	client := NewClientWithToken("shpat_test", "dev-store")

	outcome, err := client.Product.CreateBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, outcome.Results)
}

func TestFormatUserErrors(t *testing.T) {
	errs := []model.UserError{
		{Field: []string{"media", "0", "originalSource"}, Message: "Image URL is invalid"},
		{Message: "Something else"},
	}
	assert.Equal(t, "media.0.originalSource: Image URL is invalid; Something else", FormatUserErrors(errs))
}
