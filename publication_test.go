package shopify

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPublicationID_PrefersOnlineStore(t *testing.T) {
	client := newTestClient(t, func(t *testing.T, req graphQLRequest) string {
		assert.Contains(t, req.Query, "publications(first: 25)")
		return `{"data":{"publications":{"edges":[
			{"node":{"id":"gid://shopify/Publication/1","name":"Point of Sale"}},
			{"node":{"id":"gid://shopify/Publication/2","name":"Online Store"}}
		]}}}`
	})

	id, err := client.Publication.DefaultPublicationID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Publication/2", id)
}

func TestDefaultPublicationID_FallsBackToFirst(t *testing.T) {
	client := newTestClient(t, func(t *testing.T, req graphQLRequest) string {
		return `{"data":{"publications":{"edges":[{"node":{"id":"gid://shopify/Publication/7","name":"Shop"}}]}}}`
	})

	id, err := client.Publication.DefaultPublicationID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Publication/7", id)
}

func TestDefaultPublicationID_None(t *testing.T) {
	client := newTestClient(t, func(t *testing.T, req graphQLRequest) string {
		return `{"data":{"publications":{"edges":[]}}}`
	})

	_, err := client.Publication.DefaultPublicationID(context.Background())
	assert.ErrorIs(t, err, ErrNoPublication)
}

type countingLookup struct {
	mu    sync.Mutex
	calls int
	id    string
	err   error
}

func (c *countingLookup) DefaultPublicationID(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	return c.id, c.err
}

func TestPublicationResolver_Memoizes(t *testing.T) {
	lookup := &countingLookup{id: "gid://shopify/Publication/2"}
	r := NewPublicationResolver(lookup)
	assert.False(t, r.Resolved())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := r.Resolve(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, "gid://shopify/Publication/2", id)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, lookup.calls)
	assert.True(t, r.Resolved())
}

func TestPublicationResolver_MemoizesFailure(t *testing.T) {
	lookup := &countingLookup{err: errors.New("boom")}
	r := NewPublicationResolver(lookup)

	for i := 0; i < 3; i++ {
		_, err := r.Resolve(context.Background())
		assert.EqualError(t, err, "boom")
	}
	assert.Equal(t, 1, lookup.calls)
}

func TestStaticPublication(t *testing.T) {
	id, err := StaticPublication("gid://shopify/Publication/9").Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Publication/9", id)

	_, err = NewPublicationResolver(nil).Resolve(context.Background())
	assert.ErrorIs(t, err, ErrNoPublication)
}
