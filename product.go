package shopify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/r0busta/go-shopify-graphql-model/v4/graph/model"

	graphqlclient "github.com/carterdea/populate-shopify/graphql"
)

// ErrTopLevel marks a batch rejected as a whole by top-level GraphQL errors.
var ErrTopLevel = errors.New("top-level graphql errors")

const (
	productCreateOperation = "BatchProductCreate"
	productAliasPrefix     = "product"
	productInputPrefix     = "input"
	productInputType       = "ProductInput!"

	productCreateSelection = `
		product {
			id
			title
		}
		userErrors {
			field
			message
		}
	`
)

// ProductDraft is the input of one productCreate call.
type ProductDraft struct {
	Title           string               `json:"title"`
	DescriptionHTML string               `json:"descriptionHtml"`
	Vendor          string               `json:"vendor"`
	ProductType     string               `json:"productType"`
	Tags            []string             `json:"tags"`
	Status          model.ProductStatus  `json:"status"`
	Publications    []ProductPublication `json:"productPublications,omitempty"`

	// Image is attached after the product exists and is not sent with the create call.
	Image ImageRef `json:"-"`
}

type ProductPublication struct {
	PublicationID string    `json:"publicationId"`
	PublishDate   time.Time `json:"publishDate"`
}

// ImageRef points at a placeholder image. Seed is unique per draft.
type ImageRef struct {
	URL  string
	Alt  string
	Seed string
}

// CreateResult is the server's answer for one aliased productCreate.
type CreateResult struct {
	Alias      string
	ID         string
	Title      string
	UserErrors []model.UserError
}

func (r CreateResult) Succeeded() bool {
	return len(r.UserErrors) == 0 && r.ID != ""
}

// BatchOutcome holds one result per submitted draft, in submission order.
type BatchOutcome struct {
	Results []CreateResult
	Cost    graphqlclient.Cost
}

type ProductService interface {
	// CreateBatch submits all drafts as aliased mutations of one document.
	// A transport failure or top-level errors fail the whole batch; the
	// returned outcome then still carries whatever cost was reported.
	CreateBatch(ctx context.Context, drafts []ProductDraft) (*BatchOutcome, error)
}

type ProductServiceOp struct {
	client *Client
}

var _ ProductService = &ProductServiceOp{}

type productCreatePayload struct {
	Product *struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	} `json:"product"`

	UserErrors []model.UserError `json:"userErrors"`
}

func productAlias(i int) string {
	return fmt.Sprintf("%s%d", productAliasPrefix, i)
}

func productInputVar(i int) string {
	return fmt.Sprintf("%s%d", productInputPrefix, i)
}

// BatchCreateDocument builds a mutation with k aliased productCreate fields,
// product0..product{k-1}, bound to $input0..$input{k-1}.
func BatchCreateDocument(k int) *graphqlclient.Document {
	doc := graphqlclient.Mutation(productCreateOperation)
	for i := 0; i < k; i++ {
		doc.Var(productInputVar(i), productInputType)
		doc.Add(graphqlclient.Field{
			Alias:     productAlias(i),
			Name:      "productCreate",
			Arguments: []graphqlclient.Argument{{Name: "input", Variable: productInputVar(i)}},
			Selection: compactSelection(productCreateSelection),
		})
	}
	return doc
}

func compactSelection(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func (s *ProductServiceOp) CreateBatch(ctx context.Context, drafts []ProductDraft) (*BatchOutcome, error) {
	if len(drafts) == 0 {
		return &BatchOutcome{}, nil
	}

	doc := BatchCreateDocument(len(drafts))
	vars := make(map[string]interface{}, len(drafts))
	for i := range drafts {
		vars[productInputVar(i)] = drafts[i]
	}

	resp, err := s.client.gql.Execute(ctx, doc.String(), vars)
	outcome := &BatchOutcome{Cost: resp.Cost()}
	if err != nil {
		return outcome, fmt.Errorf("product create batch: %w", err)
	}

	if len(resp.Errors) > 0 {
		return outcome, fmt.Errorf("product create batch: %w: %w", ErrTopLevel, resp.Errors)
	}

	payloads := map[string]*productCreatePayload{}
	if err := resp.Decode(&payloads); err != nil {
		return outcome, fmt.Errorf("product create batch: decode: %w", err)
	}

	outcome.Results = make([]CreateResult, len(drafts))
	for i, alias := range doc.Aliases() {
		res := CreateResult{Alias: alias}
		p := payloads[alias]

		switch {
		case p == nil:
			res.UserErrors = []model.UserError{{Message: "no result returned for " + alias}}
		case len(p.UserErrors) > 0:
			res.UserErrors = p.UserErrors
		case p.Product == nil || p.Product.ID == "":
			res.UserErrors = []model.UserError{{Message: "no product returned for " + alias}}
		default:
			res.ID = p.Product.ID
			res.Title = p.Product.Title
		}

		outcome.Results[i] = res
	}

	return outcome, nil
}

// FormatUserErrors renders user errors as "field: message" pairs.
func FormatUserErrors(errs []model.UserError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		if len(e.Field) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", strings.Join(e.Field, "."), e.Message))
			continue
		}
		parts = append(parts, e.Message)
	}
	return strings.Join(parts, "; ")
}
