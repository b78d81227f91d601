package shopify

import (
	graphqlclient "github.com/carterdea/populate-shopify/graphql"
)

// Client groups the Admin API services used to seed a store.
type Client struct {
	gql *graphqlclient.Client

	Product     ProductService
	Media       MediaService
	Publication PublicationService
}

type Option func(c *Client)

// WithGraphQLClient sets the GraphQL client every service talks through.
func WithGraphQLClient(gql *graphqlclient.Client) Option {
	return func(c *Client) {
		c.gql = gql
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}

	c.Product = &ProductServiceOp{client: c}
	c.Media = &MediaServiceOp{client: c}
	c.Publication = &PublicationServiceOp{client: c}

	return c
}

// NewClientWithToken creates a client for storeName authenticated with an
// Admin API access token.
func NewClientWithToken(accessToken string, storeName string, opts ...graphqlclient.Option) *Client {
	opts = append([]graphqlclient.Option{graphqlclient.WithToken(accessToken)}, opts...)
	return NewClient(WithGraphQLClient(graphqlclient.NewClient(storeName, opts...)))
}

// Throttle returns the gauge fed by every response of this client.
func (c *Client) Throttle() *graphqlclient.ThrottleGauge {
	return c.gql.Gauge()
}
