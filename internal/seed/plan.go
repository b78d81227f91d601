package seed

import (
	"errors"
	"fmt"
)

const (
	MinWidth = 1
	MaxWidth = 100
)

var ErrInvalidPlan = errors.New("invalid plan")

// Plan is what a run will create. Width 1 is the sequential mode.
type Plan struct {
	Total     int
	Width     int
	MarkerTag bool
}

func (p Plan) Validate() error {
	if p.Total < 1 {
		return fmt.Errorf("%w: total must be positive, got %d", ErrInvalidPlan, p.Total)
	}
	if p.Width < MinWidth || p.Width > MaxWidth {
		return fmt.Errorf("%w: width must be between %d and %d, got %d", ErrInvalidPlan, MinWidth, MaxWidth, p.Width)
	}
	return nil
}

// Rounds is ceil(Total/Width).
func (p Plan) Rounds() int {
	if p.Width < 1 || p.Total < 1 {
		return 0
	}
	return (p.Total + p.Width - 1) / p.Width
}

// RoundSize is the number of drafts in the given 0-based round; only the
// last round can be narrower than Width.
func (p Plan) RoundSize(round int) int {
	if round < 0 || round >= p.Rounds() {
		return 0
	}
	return min(p.Width, p.Total-round*p.Width)
}

// Sequential reports whether the run paces with a fixed delay.
func (p Plan) Sequential() bool {
	return p.Width == 1
}
