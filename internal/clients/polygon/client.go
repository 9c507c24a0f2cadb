// Package polygon provides a client for the Polygon.io aggregates API
package polygon

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/trendmap/internal/clients/transport"
	"github.com/bobmcallan/trendmap/internal/common"
	"github.com/bobmcallan/trendmap/internal/interfaces"
	"github.com/bobmcallan/trendmap/internal/models"
)

const (
	DefaultBaseURL   = "https://api.polygon.io"
	DefaultTimeout   = 15 * time.Second
	DefaultRateLimit = 5 // requests per second
	DefaultFrom      = "2020-01-01"
	DefaultTo        = "2025-12-31"
)

// Client implements PriceProvider using Polygon monthly aggregates
type Client struct {
	baseURL    string
	apiKey     string
	from       string
	to         string
	retries    int
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRetries sets how many extra attempts a transient failure gets
func WithRetries(retries int) ClientOption {
	return func(c *Client) {
		c.retries = retries
	}
}

// WithDateRange sets the requested aggregate window (YYYY-MM-DD)
func WithDateRange(from, to string) ClientOption {
	return func(c *Client) {
		if from != "" {
			c.from = from
		}
		if to != "" {
			c.to = to
		}
	}
}

// NewClient creates a new Polygon.io client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		from:    DefaultFrom,
		to:      DefaultTo,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name returns the source label
func (c *Client) Name() string {
	return models.SourcePolygon
}

// aggregateBar is one entry of the aggregates "results" array.
// t is the bar start as epoch milliseconds.
type aggregateBar struct {
	Timestamp int64   `json:"t"`
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    float64 `json:"v"`
}

// aggregatesResponse is the /v2/aggs response envelope
type aggregatesResponse struct {
	Ticker       string         `json:"ticker"`
	Status       string         `json:"status"`
	ResultsCount int            `json:"resultsCount"`
	Results      []aggregateBar `json:"results"`
	RequestID    string         `json:"request_id"`
	Error        string         `json:"error"`
}

// get performs a GET against the API with the key attached
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apiKey", c.apiKey)

	getter := &transport.Getter{
		Provider:   "Polygon",
		HTTPClient: c.httpClient,
		Limiter:    c.limiter,
		Logger:     c.logger,
		Retries:    c.retries,
	}
	return getter.GetJSON(ctx, path, fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode()), result)
}

// FetchMonthly retrieves monthly aggregates over the configured window
func (c *Client) FetchMonthly(ctx context.Context, symbol string) ([]models.OHLCBar, error) {
	path := fmt.Sprintf("/v2/aggs/ticker/%s/range/1/month/%s/%s", url.PathEscape(symbol), c.from, c.to)

	var resp aggregatesResponse
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, err
	}

	if resp.Status == "ERROR" || resp.Status == "NOT_AUTHORIZED" {
		return nil, fmt.Errorf("%w: polygon status %s: %s", models.ErrProviderUnavailable, resp.Status, resp.Error)
	}

	bars := normalizeAggregates(resp.Results)
	c.logger.Info().Str("symbol", symbol).Int("results", len(resp.Results)).Int("bars", len(bars)).Msg("Polygon aggregates fetched")
	return bars, nil
}

// normalizeAggregates converts aggregate results into ascending daily bars
func normalizeAggregates(results []aggregateBar) []models.OHLCBar {
	bars := make([]models.OHLCBar, 0, len(results))
	for _, r := range results {
		bars = append(bars, models.OHLCBar{
			Date:  models.TruncateDay(time.UnixMilli(r.Timestamp)),
			Open:  r.Open,
			High:  r.High,
			Low:   r.Low,
			Close: r.Close,
		})
	}
	return models.NormalizeBars(bars)
}

// Ensure Client implements PriceProvider
var _ interfaces.PriceProvider = (*Client)(nil)
