package shopify

import (
	"context"
	"fmt"

	"github.com/r0busta/go-shopify-graphql-model/v4/graph/model"

	graphqlclient "github.com/carterdea/populate-shopify/graphql"
)

// CreateMediaInput mirrors the Admin API input type of the same name. The Go
// type name is what the client declares as the variable type.
type CreateMediaInput struct {
	Alt              string                 `json:"alt,omitempty"`
	MediaContentType model.MediaContentType `json:"mediaContentType"`
	OriginalSource   string                 `json:"originalSource"`
}

// AttachResult is the outcome of one productCreateMedia call. Cost is zero
// when the response did not report one.
type AttachResult struct {
	ProductID  string
	Success    bool
	Cost       float64
	UserErrors []model.UserError
}

type MediaService interface {
	Attach(ctx context.Context, productID string, imageURL string, altText string) (*AttachResult, error)
}

type MediaServiceOp struct {
	client *Client
}

var _ MediaService = &MediaServiceOp{}

type mutationProductCreateMedia struct {
	ProductCreateMediaResult struct {
		MediaUserErrors []model.UserError `json:"mediaUserErrors,omitempty"`
	} `graphql:"productCreateMedia(productId: $productId, media: $media)" json:"productCreateMedia"`
}

// Attach adds one image to a product. The returned result is never nil, so
// the cost of a failed call can still be counted.
func (s *MediaServiceOp) Attach(ctx context.Context, productID string, imageURL string, altText string) (*AttachResult, error) {
	m := mutationProductCreateMedia{}

	vars := map[string]interface{}{
		"productId": productID,
		"media": []CreateMediaInput{{
			Alt:              altText,
			MediaContentType: model.MediaContentTypeImage,
			OriginalSource:   imageURL,
		}},
	}

	ctx, rec := graphqlclient.WithCostRecorder(ctx)
	err := s.client.gql.Mutate(ctx, &m, vars)

	res := &AttachResult{ProductID: productID, Cost: rec.Cost().Spent()}
	if err != nil {
		if errs := rec.Errors(); len(errs) > 0 {
			return res, fmt.Errorf("mutation: %w", errs)
		}
		return res, fmt.Errorf("mutation: %w", err)
	}

	if len(m.ProductCreateMediaResult.MediaUserErrors) > 0 {
		res.UserErrors = m.ProductCreateMediaResult.MediaUserErrors
		return res, fmt.Errorf("%s", FormatUserErrors(res.UserErrors))
	}

	res.Success = true
	return res, nil
}
