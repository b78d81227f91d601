// Package fake builds synthetic product drafts.
package fake

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/r0busta/go-shopify-graphql-model/v4/graph/model"

	shopify "github.com/carterdea/populate-shopify"
)

// MarkerTag identifies seeded products so they can be bulk deleted later.
const MarkerTag = "populate-shopify-test"

const (
	imageURLFormat = "https://picsum.photos/seed/%s/800/800"
	randomTagCount = 2
)

// TagVocabulary is the pool the random tags are drawn from.
var TagVocabulary = []string{"New", "Featured", "Limited", "Sale"}

// Generator is not safe for concurrent use; the faker it wraps is not.
type Generator struct {
	faker *gofakeit.Faker
	now   func() time.Time
	token func() string
}

type Option func(g *Generator)

// WithClock fixes the publish timestamp source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// WithTokenSource replaces the image seed source.
func WithTokenSource(token func() string) Option {
	return func(g *Generator) {
		g.token = token
	}
}

// New returns a generator drawing from faker, or from a randomly seeded one
// when faker is nil.
func New(faker *gofakeit.Faker, opts ...Option) *Generator {
	if faker == nil {
		faker = gofakeit.New(0)
	}

	g := &Generator{
		faker: faker,
		now:   time.Now,
		token: ImageSeed,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ImageSeed returns a random alphanumeric token.
func ImageSeed() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Draft builds the product for the given 1-based index. publicationID may be
// empty, in which case the product is created unpublished.
func (g *Generator) Draft(index int, includeTestTag bool, publicationID string) shopify.ProductDraft {
	title := fmt.Sprintf("%s #%d", g.faker.ProductName(), index)
	seed := g.token()

	draft := shopify.ProductDraft{
		Title:           title,
		DescriptionHTML: fmt.Sprintf("<p>%s</p>", html.EscapeString(g.faker.ProductDescription())),
		Vendor:          g.faker.Company(),
		ProductType:     g.faker.ProductCategory(),
		Tags:            g.tags(includeTestTag),
		Status:          model.ProductStatusActive,
		Image: shopify.ImageRef{
			URL:  fmt.Sprintf(imageURLFormat, seed),
			Alt:  title,
			Seed: seed,
		},
	}

	if publicationID != "" {
		draft.Publications = []shopify.ProductPublication{{
			PublicationID: publicationID,
			PublishDate:   g.now().UTC(),
		}}
	}

	return draft
}

// tags picks two distinct vocabulary entries and appends the marker tag when asked.
func (g *Generator) tags(includeTestTag bool) []string {
	pool := append([]string(nil), TagVocabulary...)
	tags := make([]string, 0, randomTagCount+1)

	for i := 0; i < randomTagCount; i++ {
		j := g.faker.Number(0, len(pool)-1)
		tags = append(tags, pool[j])
		pool = append(pool[:j], pool[j+1:]...)
	}

	if includeTestTag {
		tags = append(tags, MarkerTag)
	}
	return tags
}
