// Package alphavantage provides a client for the Alpha Vantage time series API
package alphavantage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/trendmap/internal/clients/transport"
	"github.com/bobmcallan/trendmap/internal/common"
	"github.com/bobmcallan/trendmap/internal/interfaces"
	"github.com/bobmcallan/trendmap/internal/models"
)

const (
	DefaultBaseURL   = "https://www.alphavantage.co"
	DefaultTimeout   = 15 * time.Second
	DefaultRateLimit = 1 // requests per second; the free tier is far stricter per day
)

// Client implements PriceProvider using TIME_SERIES_MONTHLY
type Client struct {
	baseURL    string
	apiKey     string
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

// NewClient creates a new Alpha Vantage client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
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
	return models.SourceAlphaVantage
}

// monthlyEntry holds the numbered string fields of one month
type monthlyEntry struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

// monthlyResponse is the TIME_SERIES_MONTHLY payload. Failures arrive with
// HTTP 200 and one of the message fields set instead of the series.
type monthlyResponse struct {
	Series       map[string]monthlyEntry `json:"Monthly Time Series"`
	ErrorMessage string                  `json:"Error Message"`
	Note         string                  `json:"Note"`
	Information  string                  `json:"Information"`
}

// get performs a GET against /query with the key attached
func (c *Client) get(ctx context.Context, params url.Values, result interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.apiKey)

	getter := &transport.Getter{
		Provider:   "Alpha Vantage",
		HTTPClient: c.httpClient,
		Limiter:    c.limiter,
		Logger:     c.logger,
		Retries:    c.retries,
	}
	endpoint := "/query?function=" + params.Get("function")
	return getter.GetJSON(ctx, endpoint, fmt.Sprintf("%s/query?%s", c.baseURL, params.Encode()), result)
}

// FetchMonthly retrieves the full monthly series
func (c *Client) FetchMonthly(ctx context.Context, symbol string) ([]models.OHLCBar, error) {
	params := url.Values{}
	params.Set("function", "TIME_SERIES_MONTHLY")
	params.Set("symbol", symbol)

	var resp monthlyResponse
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}

	switch {
	case resp.Note != "":
		return nil, fmt.Errorf("%w: %s", models.ErrRateLimited, resp.Note)
	case resp.Information != "" && len(resp.Series) == 0:
		return nil, fmt.Errorf("%w: %s", models.ErrRateLimited, resp.Information)
	case resp.ErrorMessage != "":
		return nil, fmt.Errorf("%w: %s", models.ErrNoData, resp.ErrorMessage)
	}

	bars, skipped := normalizeMonthlySeries(resp.Series)
	if skipped > 0 {
		c.logger.Warn().Str("symbol", symbol).Int("skipped", skipped).Msg("Alpha Vantage entries skipped")
	}
	c.logger.Info().Str("symbol", symbol).Int("entries", len(resp.Series)).Int("bars", len(bars)).Msg("Alpha Vantage monthly series fetched")
	return bars, nil
}

// normalizeMonthlySeries parses the date-keyed map into ascending bars.
// Entries whose date or prices fail to parse are skipped and counted.
func normalizeMonthlySeries(series map[string]monthlyEntry) ([]models.OHLCBar, int) {
	bars := make([]models.OHLCBar, 0, len(series))
	skipped := 0
	for date, e := range series {
		d, err := models.ParseDay(date)
		if err != nil {
			skipped++
			continue
		}
		prices, ok := parsePrices(e.Open, e.High, e.Low, e.Close)
		if !ok {
			skipped++
			continue
		}
		bars = append(bars, models.OHLCBar{Date: d, Open: prices[0], High: prices[1], Low: prices[2], Close: prices[3]})
	}
	normalized := models.NormalizeBars(bars)
	return normalized, skipped + len(bars) - len(normalized)
}

func parsePrices(fields ...string) ([]float64, bool) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// Ensure Client implements PriceProvider
var _ interfaces.PriceProvider = (*Client)(nil)
