package seed

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	shopify "github.com/carterdea/populate-shopify"
	graphqlclient "github.com/carterdea/populate-shopify/graphql"
)

type createdProduct struct {
	Index int
	ID    string
	Title string
	Image shopify.ImageRef
}

// ImageReport aggregates one round of image attachments.
type ImageReport struct {
	Total     int
	Succeeded int
	Cost      float64
}

type imageOutcome struct {
	ok   bool
	cost float64
}

// attachImages issues every attachment of a round at once and returns when
// all of them have settled. A failed call never cancels its siblings.
func (s *Seeder) attachImages(ctx context.Context, logger log.FieldLogger, products []createdProduct) ImageReport {
	outcomes := make([]imageOutcome, len(products))

	var g errgroup.Group
	for i, p := range products {
		g.Go(func() error {
			res, err := s.images.Attach(ctx, p.ID, p.Image.URL, p.Image.Alt)
			if res != nil {
				outcomes[i].cost = res.Cost
			}

			if err != nil {
				entry := logger.WithFields(log.Fields{
					"index":      p.Index,
					"product_id": p.ID,
				})
				var gqlErrs graphqlclient.Errors
				if errors.As(err, &gqlErrs) && gqlErrs.Throttled() {
					entry.WithError(err).Warn("Image attach throttled by Shopify (no retry)")
				} else {
					entry.WithError(err).Warn("Image attach failed")
				}
				return nil
			}

			outcomes[i].ok = res != nil && res.Success
			return nil
		})
	}
	_ = g.Wait()

	report := ImageReport{Total: len(products)}
	for _, o := range outcomes {
		if o.ok {
			report.Succeeded++
		}
		report.Cost += o.cost
	}
	return report
}
