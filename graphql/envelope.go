package graphqlclient

import (
	"encoding/json"
	"strings"
	"time"
)

// LowHeadroomRatio marks a bucket as nearly drained once less than this share
// of maximumAvailable is left.
const LowHeadroomRatio = 0.35

// ThrottleStatus is the leaky bucket state Shopify reports with each response.
type ThrottleStatus struct {
	MaximumAvailable   float64 `json:"maximumAvailable"`
	CurrentlyAvailable float64 `json:"currentlyAvailable"`
	RestoreRate        float64 `json:"restoreRate"`
}

// Headroom returns the available share of the bucket, or 1 when unknown.
func (s ThrottleStatus) Headroom() float64 {
	if s.MaximumAvailable <= 0 {
		return 1
	}
	return s.CurrentlyAvailable / s.MaximumAvailable
}

// Low reports whether the bucket is below LowHeadroomRatio.
func (s ThrottleStatus) Low() bool {
	return s.Headroom() < LowHeadroomRatio
}

// Cost is the extensions.cost object of a GraphQL response. Fields the server
// leaves out stay zero.
type Cost struct {
	RequestedQueryCost float64        `json:"requestedQueryCost"`
	ActualQueryCost    float64        `json:"actualQueryCost"`
	ThrottleStatus     ThrottleStatus `json:"throttleStatus"`
}

// Reported is false when the response carried no throttle status at all.
func (c Cost) Reported() bool {
	return c.ThrottleStatus.MaximumAvailable > 0 || c.ThrottleStatus.RestoreRate > 0
}

// Spent prefers the actual cost and falls back to the requested one, which is
// all Shopify reports for throttled calls.
func (c Cost) Spent() float64 {
	if c.ActualQueryCost > 0 {
		return c.ActualQueryCost
	}
	return c.RequestedQueryCost
}

func (c Cost) RetryAfterSeconds() float64 {
	if c.ThrottleStatus.RestoreRate <= 0 {
		return 0
	}

	diff := c.ThrottleStatus.CurrentlyAvailable - c.RequestedQueryCost
	if diff < 0 {
		return -diff / c.ThrottleStatus.RestoreRate
	}

	return 0
}

// RetryAfter is RetryAfterSeconds as a duration.
func (c Cost) RetryAfter() time.Duration {
	return time.Duration(c.RetryAfterSeconds() * float64(time.Second))
}

// Error is one entry of the top-level errors list.
type Error struct {
	Message    string `json:"message"`
	Path       []any  `json:"path,omitempty"`
	Extensions struct {
		Code string `json:"code,omitempty"`
	} `json:"extensions"`
}

func (e Error) IsThrottled() bool {
	return e.Extensions.Code == graphQLErrorCodeThrottled
}

// Errors is a non-empty top-level errors list.
type Errors []Error

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		if err.Extensions.Code != "" {
			msgs = append(msgs, err.Extensions.Code+": "+err.Message)
			continue
		}
		msgs = append(msgs, err.Message)
	}
	return "graphql: " + strings.Join(msgs, "; ")
}

// Throttled reports whether any entry carries the THROTTLED code.
func (e Errors) Throttled() bool {
	for _, err := range e {
		if err.IsThrottled() {
			return true
		}
	}
	return false
}

// Response is the GraphQL response envelope.
type Response struct {
	Data       json.RawMessage `json:"data,omitempty"`
	Errors     Errors          `json:"errors,omitempty"`
	Extensions struct {
		Cost Cost `json:"cost"`
	} `json:"extensions,omitempty"`
}

// Cost is safe to call on a nil response and then returns zero values.
func (r *Response) Cost() Cost {
	if r == nil {
		return Cost{}
	}
	return r.Extensions.Cost
}

// HasData reports whether data is present and not JSON null.
func (r *Response) HasData() bool {
	return r != nil && len(r.Data) > 0 && string(r.Data) != "null"
}

// Decode unmarshals data into v.
func (r *Response) Decode(v any) error {
	if !r.HasData() {
		return nil
	}
	return json.Unmarshal(r.Data, v)
}
