// Package seed drives product creation in rounds against the Admin API.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	shopify "github.com/carterdea/populate-shopify"
	graphqlclient "github.com/carterdea/populate-shopify/graphql"
)

// SequentialDelay spaces width-1 rounds. One round costs a 10 point
// productCreate plus a productCreateMedia; at half a second per round the run
// stays well inside a 1000 point bucket restoring 50 points per second.
const SequentialDelay = 500 * time.Millisecond

type ProductCreator interface {
	CreateBatch(ctx context.Context, drafts []shopify.ProductDraft) (*shopify.BatchOutcome, error)
}

type ImageAttacher interface {
	Attach(ctx context.Context, productID string, imageURL string, altText string) (*shopify.AttachResult, error)
}

type DraftFactory interface {
	Draft(index int, includeTestTag bool, publicationID string) shopify.ProductDraft
}

type PublicationSource interface {
	Resolve(ctx context.Context) (string, error)
}

type Seeder struct {
	products    ProductCreator
	images      ImageAttacher
	drafts      DraftFactory
	publication PublicationSource

	log   log.FieldLogger
	delay time.Duration
	sleep func(ctx context.Context, d time.Duration) error
	now   func() time.Time
}

type Option func(s *Seeder)

func WithLogger(l log.FieldLogger) Option {
	return func(s *Seeder) {
		s.log = l
	}
}

// WithDelay overrides SequentialDelay.
func WithDelay(d time.Duration) Option {
	return func(s *Seeder) {
		s.delay = d
	}
}

// WithSleep replaces the context aware sleep used for pacing.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Seeder) {
		s.sleep = sleep
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Seeder) {
		s.now = now
	}
}

func New(products ProductCreator, images ImageAttacher, drafts DraftFactory, publication PublicationSource, opts ...Option) *Seeder {
	s := &Seeder{
		products:    products,
		images:      images,
		drafts:      drafts,
		publication: publication,
		log:         log.StandardLogger(),
		delay:       SequentialDelay,
		sleep:       sleepContext,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes plan round by round. Failed products only show up in the
// tally; the error is reserved for an invalid plan. A cancelled ctx stops the
// run before the next round and the partial tally is returned.
func (s *Seeder) Run(ctx context.Context, plan Plan) (*Tally, error) {
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	tally := NewTally(s.now())
	publicationID := s.resolvePublication(ctx)
	rounds := plan.Rounds()
	produced := 0

	for round := 0; round < rounds; round++ {
		if err := ctx.Err(); err != nil {
			s.log.WithError(err).Warnf("Run interrupted after %d of %d rounds", round, rounds)
			break
		}

		size := plan.RoundSize(round)
		s.runRound(ctx, plan, round, produced, size, publicationID, tally)
		produced += size

		if plan.Sequential() && round < rounds-1 {
			if err := s.sleep(ctx, s.delay); err != nil {
				s.log.WithError(err).Warnf("Run interrupted after %d of %d rounds", round+1, rounds)
				break
			}
		}
	}

	return tally, nil
}

func (s *Seeder) resolvePublication(ctx context.Context) string {
	if s.publication == nil {
		return ""
	}

	id, err := s.publication.Resolve(ctx)
	if err != nil {
		s.log.WithError(err).Warn("Could not resolve the Online Store publication, products will be created unpublished")
		return ""
	}

	s.log.WithField("publication_id", id).Debug("Resolved publication")
	return id
}

func (s *Seeder) runRound(ctx context.Context, plan Plan, round int, offset int, size int, publicationID string, tally *Tally) {
	tally.Rounds++

	first, last := offset+1, offset+size
	logger := s.log.WithFields(log.Fields{
		"round":    fmt.Sprintf("%d/%d", round+1, plan.Rounds()),
		"products": fmt.Sprintf("%d-%d", first, last),
	})

	drafts := make([]shopify.ProductDraft, size)
	for i := range drafts {
		drafts[i] = s.drafts.Draft(offset+i+1, plan.MarkerTag, publicationID)
	}

	outcome, err := s.products.CreateBatch(ctx, drafts)
	var cost graphqlclient.Cost
	if outcome != nil {
		cost = outcome.Cost
	}

	if err != nil {
		s.reportRoundError(logger, err, cost, size)
		tally.fail(size)
		s.reportThrottle(logger, cost)
		return
	}

	created := s.reconcile(logger, outcome, drafts, offset, tally)
	logger.Infof("Created %d/%d products", len(created), size)
	s.reportThrottle(logger, cost)

	if len(created) == 0 {
		return
	}

	report := s.attachImages(ctx, logger, created)
	tally.addImages(report)
	logger.Infof("Attached %d/%d images (cost %.0f)", report.Succeeded, report.Total, report.Cost)
}

// reconcile matches results to drafts by position and returns the products
// that now exist.
func (s *Seeder) reconcile(logger log.FieldLogger, outcome *shopify.BatchOutcome, drafts []shopify.ProductDraft, offset int, tally *Tally) []createdProduct {
	created := make([]createdProduct, 0, len(drafts))

	for i, draft := range drafts {
		index := offset + i + 1

		if i >= len(outcome.Results) {
			logger.WithField("index", index).Error("No result returned for product")
			tally.fail(1)
			continue
		}

		res := outcome.Results[i]
		if !res.Succeeded() {
			logger.WithFields(log.Fields{
				"index": index,
				"title": draft.Title,
			}).Errorf("Product create failed: %s", shopify.FormatUserErrors(res.UserErrors))
			tally.fail(1)
			continue
		}

		tally.succeed()
		created = append(created, createdProduct{
			Index: index,
			ID:    res.ID,
			Title: res.Title,
			Image: draft.Image,
		})
		logger.WithFields(log.Fields{
			"index":      index,
			"product_id": res.ID,
		}).Debugf("Created %q", res.Title)
	}

	return created
}

func (s *Seeder) reportRoundError(logger log.FieldLogger, err error, cost graphqlclient.Cost, size int) {
	var gqlErrs graphqlclient.Errors
	var transportErr *graphqlclient.ClientError

	switch {
	case errors.As(err, &gqlErrs) && gqlErrs.Throttled():
		logger.WithFields(throttleFields(cost)).WithField("retry_after", cost.RetryAfter().Round(time.Millisecond)).
			Warnf("Throttled by Shopify, %d products not created (no retry)", size)
	case errors.As(err, &transportErr):
		logger.WithError(err).Errorf("Transport error, %d products not created", size)
	default:
		logger.WithError(err).Errorf("Round rejected, %d products not created", size)
	}
}

// reportThrottle surfaces the bucket after every round. Nothing waits on it.
func (s *Seeder) reportThrottle(logger log.FieldLogger, cost graphqlclient.Cost) {
	if !cost.Reported() {
		logger.Debug("No throttle status reported")
		return
	}

	entry := logger.WithFields(throttleFields(cost))
	if cost.ThrottleStatus.Low() {
		entry.Warn("Throttle budget running low")
		return
	}
	entry.Info("Throttle budget")
}

func throttleFields(cost graphqlclient.Cost) log.Fields {
	return log.Fields{
		"available":    cost.ThrottleStatus.CurrentlyAvailable,
		"maximum":      cost.ThrottleStatus.MaximumAvailable,
		"restore_rate": cost.ThrottleStatus.RestoreRate,
		"cost":         cost.Spent(),
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
