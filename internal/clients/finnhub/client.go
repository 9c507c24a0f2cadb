// Package finnhub provides a client for the Finnhub candle API
package finnhub

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
	DefaultBaseURL       = "https://finnhub.io/api/v1"
	DefaultTimeout       = 15 * time.Second
	DefaultRateLimit     = 30 // requests per second
	DefaultLookbackYears = 10
)

// Client implements PriceProvider using monthly candles
type Client struct {
	baseURL       string
	apiKey        string
	lookbackYears int
	retries       int
	httpClient    *http.Client
	logger        *common.Logger
	limiter       *rate.Limiter
	now           func() time.Time
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

// WithLookbackYears sets the trailing window requested
func WithLookbackYears(years int) ClientOption {
	return func(c *Client) {
		if years > 0 {
			c.lookbackYears = years
		}
	}
}

// WithClock overrides the clock used to compute the request window
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a new Finnhub client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:       DefaultBaseURL,
		apiKey:        apiKey,
		lookbackYears: DefaultLookbackYears,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name returns the source label
func (c *Client) Name() string {
	return models.SourceFinnhub
}

// candleResponse holds parallel arrays indexed by bar. s is "ok" or "no_data".
type candleResponse struct {
	Close     []float64 `json:"c"`
	High      []float64 `json:"h"`
	Low       []float64 `json:"l"`
	Open      []float64 `json:"o"`
	Timestamp []int64   `json:"t"`
	Volume    []float64 `json:"v"`
	Status    string    `json:"s"`
	Error     string    `json:"error"`
}

// get performs a GET against the API with the token attached
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("token", c.apiKey)

	getter := &transport.Getter{
		Provider:   "Finnhub",
		HTTPClient: c.httpClient,
		Limiter:    c.limiter,
		Logger:     c.logger,
		Retries:    c.retries,
	}
	return getter.GetJSON(ctx, path, fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode()), result)
}

// FetchMonthly retrieves monthly candles for the trailing lookback window
func (c *Client) FetchMonthly(ctx context.Context, symbol string) ([]models.OHLCBar, error) {
	to := c.now()
	from := to.AddDate(-c.lookbackYears, 0, 0)

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("resolution", "M")
	params.Set("from", strconv.FormatInt(from.Unix(), 10))
	params.Set("to", strconv.FormatInt(to.Unix(), 10))

	var resp candleResponse
	if err := c.get(ctx, "/stock/candle", params, &resp); err != nil {
		return nil, err
	}

	if resp.Error != "" {
		return nil, fmt.Errorf("%w: finnhub: %s", models.ErrProviderUnavailable, resp.Error)
	}
	if resp.Status == "no_data" {
		return nil, fmt.Errorf("%w: finnhub status no_data", models.ErrNoData)
	}

	bars := normalizeCandles(resp)
	c.logger.Info().Str("symbol", symbol).Int("candles", len(resp.Timestamp)).Int("bars", len(bars)).Msg("Finnhub candles fetched")
	return bars, nil
}

// normalizeCandles zips the parallel arrays index-wise, up to the shortest.
func normalizeCandles(resp candleResponse) []models.OHLCBar {
	n := len(resp.Timestamp)
	for _, l := range []int{len(resp.Open), len(resp.High), len(resp.Low), len(resp.Close)} {
		if l < n {
			n = l
		}
	}

	bars := make([]models.OHLCBar, 0, n)
	for i := 0; i < n; i++ {
		bars = append(bars, models.OHLCBar{
			Date:  models.TruncateDay(time.Unix(resp.Timestamp[i], 0)),
			Open:  resp.Open[i],
			High:  resp.High[i],
			Low:   resp.Low[i],
			Close: resp.Close[i],
		})
	}
	return models.NormalizeBars(bars)
}

// Ensure Client implements PriceProvider
var _ interfaces.PriceProvider = (*Client)(nil)
