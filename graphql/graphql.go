package graphqlclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/r0busta/graphql"
)

const (
	shopifyBaseDomain        = "myshopify.com"
	shopifyAccessTokenHeader = "X-Shopify-Access-Token"

	defaultAPIProtocol = "https"
	defaultAPIEndpoint = "graphql.json"
	defaultAPIBasePath = "admin/api"

	graphQLErrorCodeThrottled = "THROTTLED"
)

// Option is used to configure options.
type Option func(t *transport)

// WithVersion optionally sets the API version if the passed string is valid.
func WithVersion(apiVersion string) Option {
	return func(t *transport) {
		if apiVersion != "" {
			t.apiBasePath = fmt.Sprintf("%s/%s", defaultAPIBasePath, apiVersion)
		}
	}
}

// WithToken optionally sets access token.
func WithToken(token string) Option {
	return func(t *transport) {
		t.accessToken = token
	}
}

// WithPrivateAppAuth optionally sets private app credentials (API key and access token).
func WithPrivateAppAuth(apiKey string, accessToken string) Option {
	return func(t *transport) {
		t.apiKey = apiKey
		t.accessToken = accessToken
	}
}

// WithEndpoint overrides the URL built from the store name.
func WithEndpoint(url string) Option {
	return func(t *transport) {
		t.endpoint = url
	}
}

// WithTimeout sets the per-request timeout of the underlying http.Client.
func WithTimeout(d time.Duration) Option {
	return func(t *transport) {
		t.timeout = d
	}
}

// WithGauge shares a throttle gauge between clients.
func WithGauge(g *ThrottleGauge) Option {
	return func(t *transport) {
		t.gauge = g
	}
}

// WithRoundTripper replaces http.DefaultTransport as the base transport.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(t *transport) {
		t.base = rt
	}
}

type transport struct {
	accessToken string
	apiKey      string
	apiBasePath string
	endpoint    string
	timeout     time.Duration
	gauge       *ThrottleGauge
	base        http.RoundTripper
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	isAccessTokenSet := t.accessToken != ""
	areBasicAuthCredentialsSet := t.apiKey != "" && isAccessTokenSet

	if areBasicAuthCredentialsSet {
		req.SetBasicAuth(t.apiKey, t.accessToken)
	} else if isAccessTokenSet {
		req.Header.Set(shopifyAccessTokenHeader, t.accessToken)
	}
	if req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if err := t.observeCost(req.Context(), resp); err != nil {
		return nil, err
	}

	return resp, nil
}

// Client wraps a graphql.Client for struct based operations and adds Execute
// for hand built documents. Both share one transport.
type Client struct {
	*graphql.Client

	httpClient *http.Client
	url        string
	gauge      *ThrottleGauge
}

// NewClient creates a new client for the given store. The store may be a bare
// shop name ("my-shop") or a full domain ("my-shop.myshopify.com").
func NewClient(store string, opts ...Option) *Client {
	transport := &transport{
		apiBasePath: defaultAPIBasePath,
	}

	for _, opt := range opts {
		opt(transport)
	}

	if transport.gauge == nil {
		transport.gauge = NewThrottleGauge()
	}

	httpClient := &http.Client{
		Transport: transport,
		Timeout:   transport.timeout,
	}

	url := transport.endpoint
	if url == "" {
		url = buildAPIEndpoint(store, transport.apiBasePath)
	}

	return &Client{
		Client:     graphql.NewClient(url, httpClient),
		httpClient: httpClient,
		url:        url,
		gauge:      transport.gauge,
	}
}

// URL returns the GraphQL endpoint the client posts to.
func (c *Client) URL() string {
	return c.url
}

// Gauge returns the throttle gauge updated by every response.
func (c *Client) Gauge() *ThrottleGauge {
	return c.gauge
}

func buildAPIEndpoint(store string, apiPathPrefix string) string {
	host := strings.TrimSpace(store)
	host = strings.TrimPrefix(host, "https://")
	host = strings.TrimPrefix(host, "http://")
	host = strings.TrimRight(host, "/")
	if !strings.Contains(host, ".") {
		host = fmt.Sprintf("%s.%s", host, shopifyBaseDomain)
	}

	return fmt.Sprintf("%s://%s/%s/%s", defaultAPIProtocol, host, apiPathPrefix, defaultAPIEndpoint)
}

// observeCost reads the cost extension of a JSON response, feeds it to the
// gauge and to any recorder in ctx, and tags throttled error messages with a
// retry_after hint. The body is always restored for the downstream decoder.
func (t *transport) observeCost(ctx context.Context, resp *http.Response) error {
	if resp == nil || resp.Body == nil {
		return nil
	}

	// Skip non-JSON payloads. Most GraphQL responses include this header.
	if contentType := resp.Header.Get("Content-Type"); contentType != "" && !strings.Contains(contentType, "json") {
		return nil
	}

	originalBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if err := resp.Body.Close(); err != nil {
		return err
	}

	restoreBody := func(payload []byte) {
		resp.Body = io.NopCloser(bytes.NewReader(payload))
		resp.ContentLength = int64(len(payload))
		resp.Header.Set("Content-Length", fmt.Sprintf("%d", len(payload)))
	}
	restoreBody(originalBody)

	if len(originalBody) == 0 {
		return nil
	}

	var envelope Response
	if err := json.Unmarshal(originalBody, &envelope); err != nil {
		return nil
	}

	cost := envelope.Cost()
	if t.gauge != nil {
		t.gauge.Update(cost)
	}
	if rec := costRecorderFromContext(ctx); rec != nil {
		rec.record(cost, envelope.Errors)
	}

	if len(envelope.Errors) == 0 {
		return nil
	}

	retryAfterSeconds := cost.RetryAfterSeconds()
	if retryAfterSeconds <= 0 {
		return nil
	}

	retryAfterSeconds = math.Round(retryAfterSeconds*1000) / 1000

	updated := false
	for i := range envelope.Errors {
		if !envelope.Errors[i].IsThrottled() {
			continue
		}
		if strings.Contains(envelope.Errors[i].Message, "retry_after=") {
			continue
		}

		envelope.Errors[i].Message = fmt.Sprintf("%s (retry_after=%.3fs)", strings.TrimSpace(envelope.Errors[i].Message), retryAfterSeconds)
		updated = true
	}

	if !updated {
		return nil
	}

	patchedBody, err := json.Marshal(envelope)
	if err != nil {
		return nil
	}
	restoreBody(patchedBody)
	return nil
}
