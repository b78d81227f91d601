package shopify

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

const onlineStorePublicationName = "Online Store"

// ErrNoPublication is returned when the store has no sales channel.
var ErrNoPublication = errors.New("store has no publications")

type PublicationService interface {
	// DefaultPublicationID returns the Online Store channel, or the first
	// channel when the store has none by that name.
	DefaultPublicationID(ctx context.Context) (string, error)
}

type PublicationServiceOp struct {
	client *Client
}

var _ PublicationService = &PublicationServiceOp{}

type queryPublications struct {
	Publications struct {
		Edges []struct {
			Node struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"node"`
		} `json:"edges"`
	} `graphql:"publications(first: 25)" json:"publications"`
}

func (s *PublicationServiceOp) DefaultPublicationID(ctx context.Context) (string, error) {
	q := queryPublications{}

	err := s.client.gql.Query(ctx, &q, nil)
	if err != nil {
		return "", fmt.Errorf("query: %w", err)
	}

	edges := q.Publications.Edges
	if len(edges) == 0 {
		return "", ErrNoPublication
	}

	for _, e := range edges {
		if e.Node.Name == onlineStorePublicationName {
			return e.Node.ID, nil
		}
	}

	return edges[0].Node.ID, nil
}

// PublicationResolver looks the publication id up once and hands the same
// answer to every later caller. A failed lookup is remembered too, so a run
// never queries twice.
type PublicationResolver struct {
	lookup PublicationService

	mu       sync.Mutex
	resolved bool
	id       string
	err      error
}

func NewPublicationResolver(lookup PublicationService) *PublicationResolver {
	return &PublicationResolver{lookup: lookup}
}

// StaticPublication returns a resolver that is already resolved to id.
func StaticPublication(id string) *PublicationResolver {
	return &PublicationResolver{resolved: true, id: id}
}

func (r *PublicationResolver) Resolve(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.resolved {
		return r.id, r.err
	}

	if r.lookup == nil {
		r.resolved = true
		r.err = ErrNoPublication
		return "", r.err
	}

	r.id, r.err = r.lookup.DefaultPublicationID(ctx)
	r.resolved = true
	return r.id, r.err
}

// Resolved reports whether Resolve has run.
func (r *PublicationResolver) Resolved() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolved
}
