package seed

import (
	"fmt"
	"io"
	"time"
)

// Tally counts outcomes for a run. It is only touched by the loop goroutine.
type Tally struct {
	Success int
	Failure int

	ImageSuccess int
	ImageFailure int
	ImageCost    float64

	Rounds    int
	StartedAt time.Time
}

func NewTally(startedAt time.Time) *Tally {
	return &Tally{StartedAt: startedAt}
}

func (t *Tally) succeed() {
	t.Success++
}

func (t *Tally) fail(n int) {
	t.Failure += n
}

func (t *Tally) addImages(r ImageReport) {
	t.ImageSuccess += r.Succeeded
	t.ImageFailure += r.Total - r.Succeeded
	t.ImageCost += r.Cost
}

func (t *Tally) Elapsed(now time.Time) time.Duration {
	return now.Sub(t.StartedAt)
}

// WriteSummary prints the end of run report.
func (t *Tally) WriteSummary(w io.Writer, now time.Time) error {
	elapsed := t.Elapsed(now).Round(100 * time.Millisecond)
	total := t.Success + t.Failure

	_, err := fmt.Fprintf(w,
		"\nDone in %s (%d rounds)\n  products: %d created, %d failed, %d total\n  images:   %d attached, %d failed, cost %.0f\n",
		elapsed, t.Rounds, t.Success, t.Failure, total, t.ImageSuccess, t.ImageFailure, t.ImageCost)
	return err
}
