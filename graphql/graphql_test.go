package graphqlclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildAPIEndpoint(t *testing.T) {
	tests := []struct {
		name  string
		store string
		path  string
		want  string
	}{
		{"shop name", "my-shop", defaultAPIBasePath, "https://my-shop.myshopify.com/admin/api/graphql.json"},
		{"full domain", "my-shop.myshopify.com", defaultAPIBasePath, "https://my-shop.myshopify.com/admin/api/graphql.json"},
		{"scheme and slash", "https://my-shop.myshopify.com/", "admin/api/2024-01", "https://my-shop.myshopify.com/admin/api/2024-01/graphql.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildAPIEndpoint(tt.store, tt.path))
		})
	}
}

func TestNewClient_Options(t *testing.T) {
	c := NewClient("my-shop", WithVersion("2024-01"))
	assert.Equal(t, "https://my-shop.myshopify.com/admin/api/2024-01/graphql.json", c.URL())
	assert.NotNil(t, c.Gauge())

	g := NewThrottleGauge()
	c = NewClient("ignored", WithEndpoint("http://localhost:1/graphql"), WithGauge(g))
	assert.Equal(t, "http://localhost:1/graphql", c.URL())
	assert.Same(t, g, c.Gauge())
}
