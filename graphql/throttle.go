package graphqlclient

import (
	"context"
	"sync"
)

type contextKey string

const costRecorderContextKey contextKey = "shopify_graphql_cost"

// CostRecorder captures the cost extension and top-level errors of the
// response to a single request. Struct based operations decode only data, so
// this is how their callers see cost and error codes.
type CostRecorder struct {
	mu sync.Mutex

	cost   Cost
	errors Errors
	seen   bool
}

// WithCostRecorder attaches a fresh recorder to ctx. The transport fills it
// when the response arrives.
func WithCostRecorder(ctx context.Context) (context.Context, *CostRecorder) {
	rec := &CostRecorder{}
	return context.WithValue(ctx, costRecorderContextKey, rec), rec
}

func costRecorderFromContext(ctx context.Context) *CostRecorder {
	if ctx == nil {
		return nil
	}
	rec, _ := ctx.Value(costRecorderContextKey).(*CostRecorder)
	return rec
}

func (r *CostRecorder) record(c Cost, errs Errors) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cost = c
	r.errors = errs
	r.seen = true
}

func (r *CostRecorder) Cost() Cost {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cost
}

func (r *CostRecorder) Errors() Errors {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errors
}

// Seen is false when no JSON response was observed.
func (r *CostRecorder) Seen() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seen
}

// ThrottleGauge keeps the most recent bucket state reported by the server.
// It only observes; nothing waits on it.
type ThrottleGauge struct {
	mu sync.Mutex

	last     ThrottleStatus
	lowest   float64
	observed int
	spent    float64
}

func NewThrottleGauge() *ThrottleGauge {
	return &ThrottleGauge{lowest: -1}
}

// Update records c. Responses without a throttle status are ignored.
func (g *ThrottleGauge) Update(c Cost) {
	if !c.Reported() {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.last = c.ThrottleStatus
	g.observed++
	g.spent += c.Spent()
	if g.lowest < 0 || c.ThrottleStatus.CurrentlyAvailable < g.lowest {
		g.lowest = c.ThrottleStatus.CurrentlyAvailable
	}
}

// Snapshot returns the last reported status.
func (g *ThrottleGauge) Snapshot() ThrottleStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.last
}

// Lowest returns the smallest currentlyAvailable seen, or 0 before any update.
func (g *ThrottleGauge) Lowest() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lowest < 0 {
		return 0
	}
	return g.lowest
}

// Observed is the number of responses that carried a throttle status.
func (g *ThrottleGauge) Observed() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.observed
}

// Spent is the summed cost of all observed responses.
func (g *ThrottleGauge) Spent() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.spent
}
