// Command populate-shopify seeds a development store with synthetic products.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	shopify "github.com/carterdea/populate-shopify"
	graphqlclient "github.com/carterdea/populate-shopify/graphql"
	"github.com/carterdea/populate-shopify/internal/cli"
	"github.com/carterdea/populate-shopify/internal/config"
	"github.com/carterdea/populate-shopify/internal/fake"
	"github.com/carterdea/populate-shopify/internal/obs"
	"github.com/carterdea/populate-shopify/internal/seed"
)

const (
	exitOK     = 0
	exitConfig = 1
	exitUsage  = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, argv []string, stdout, stderr io.Writer, envFiles ...string) int {
	args, err := cli.Parse(argv)
	if errors.Is(err, cli.ErrHelp) {
		cli.Usage(stdout)
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n\n", err)
		cli.Usage(stderr)
		return exitUsage
	}

	cfg, err := config.Load(envFiles...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitConfig
	}

	logger := obs.NewLogger(cfg.LogLevel, stderr)

	gql := graphqlclient.NewClient(cfg.StoreDomain,
		graphqlclient.WithToken(cfg.AccessToken),
		graphqlclient.WithVersion(cfg.APIVersion),
		graphqlclient.WithTimeout(cfg.HTTPTimeout),
	)
	client := shopify.NewClient(shopify.WithGraphQLClient(gql))

	seeder := seed.New(
		client.Product,
		client.Media,
		fake.New(nil),
		shopify.NewPublicationResolver(client.Publication),
		seed.WithLogger(logger),
	)

	plan := seed.Plan{
		Total:     args.Count,
		Width:     args.Width(),
		MarkerTag: args.MarkerTag,
	}

	logger.WithFields(log.Fields{
		"store":    gql.URL(),
		"count":    plan.Total,
		"batch":    args.Batch,
		"width":    plan.Width,
		"test_tag": plan.MarkerTag,
	}).Infof("Creating %d products in %d rounds", plan.Total, plan.Rounds())

	tally, err := seeder.Run(ctx, plan)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}

	_ = tally.WriteSummary(stdout, time.Now())

	if gauge := client.Throttle(); gauge.Observed() > 0 {
		last := gauge.Snapshot()
		fmt.Fprintf(stdout, "  budget:   %.0f/%.0f available at end, lowest %.0f, restore %.0f/s\n",
			last.CurrentlyAvailable, last.MaximumAvailable, gauge.Lowest(), last.RestoreRate)
	}

	return exitOK
}
