// Package cli parses the command line.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
)

const (
	DefaultCount     = 100
	DefaultBatchSize = 10
	MinBatchSize     = 1
	MaxBatchSize     = 100
)

var (
	// ErrHelp is returned when usage was requested.
	ErrHelp = flag.ErrHelp

	ErrInvalidCount     = errors.New("product count must be a positive integer")
	ErrInvalidBatchSize = fmt.Errorf("batch size must be an integer between %d and %d", MinBatchSize, MaxBatchSize)
	ErrTooManyArgs      = errors.New("expected at most one positional argument")
)

type Args struct {
	Count     int
	MarkerTag bool
	Batch     bool
	BatchSize int
}

// Width is the number of products per round: BatchSize when batching, else 1.
func (a Args) Width() int {
	if !a.Batch {
		return 1
	}
	return a.BatchSize
}

func newFlagSet(name string) (*flag.FlagSet, *bool, *bool, *int, *bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	noTestTag := fs.Bool("no-test-tag", false, "do not add the marker tag to created products")
	batch := fs.Bool("batch", false, "create products in batches of aliased mutations")
	batchSize := fs.Int("batch-size", DefaultBatchSize, fmt.Sprintf("products per batch, %d-%d (used with --batch)", MinBatchSize, MaxBatchSize))
	help := fs.Bool("help", false, "show this help")
	fs.BoolVar(help, "h", false, "show this help")

	return fs, noTestTag, batch, batchSize, help
}

// Parse reads args (without the program name). Flags may appear on either
// side of the count.
func Parse(args []string) (Args, error) {
	fs, noTestTag, batch, batchSize, help := newFlagSet("populate-shopify")

	var positional []string
	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return Args{}, ErrHelp
			}
			return Args{}, err
		}
		rest = fs.Args()
		if len(rest) == 0 {
			break
		}
		positional = append(positional, rest[0])
		rest = rest[1:]
	}

	if *help {
		return Args{}, ErrHelp
	}

	out := Args{
		Count:     DefaultCount,
		MarkerTag: !*noTestTag,
		Batch:     *batch,
		BatchSize: *batchSize,
	}

	switch len(positional) {
	case 0:
	case 1:
		n, err := strconv.Atoi(positional[0])
		if err != nil || n < 1 {
			return Args{}, fmt.Errorf("%w: %q", ErrInvalidCount, positional[0])
		}
		out.Count = n
	default:
		return Args{}, fmt.Errorf("%w: %q", ErrTooManyArgs, positional)
	}

	if out.BatchSize < MinBatchSize || out.BatchSize > MaxBatchSize {
		return Args{}, fmt.Errorf("%w: %d", ErrInvalidBatchSize, out.BatchSize)
	}

	return out, nil
}

// Usage writes the help text.
func Usage(w io.Writer) {
	fmt.Fprintf(w, `Usage: populate-shopify [flags] [count]

Creates count synthetic products (default %d) in the Shopify store named by
SHOPIFY_STORE_DOMAIN, using SHOPIFY_ACCESS_TOKEN. Both may be set in a .env file.

Flags:
`, DefaultCount)

	fs, _, _, _, _ := newFlagSet("populate-shopify")
	fs.SetOutput(w)
	fs.PrintDefaults()

	fmt.Fprint(w, `
Examples:
  populate-shopify 25
  populate-shopify --batch --batch-size 50 500
  populate-shopify --no-test-tag 10
`)
}
