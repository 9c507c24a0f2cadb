// Package series retrieves a normalized monthly price series, falling back
// across providers in a fixed priority order.
package series

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/trendmap/internal/common"
	"github.com/bobmcallan/trendmap/internal/interfaces"
	"github.com/bobmcallan/trendmap/internal/models"
)

const (
	// DefaultMinMonths is the Polygon history depth accepted without fallback.
	DefaultMinMonths = 60
	// DefaultTimeout bounds a single provider attempt.
	DefaultTimeout = 20 * time.Second
)

// step pairs a provider with the rules deciding whether it is tried and
// whether its result ends the chain.
type step struct {
	provider interfaces.PriceProvider
	timeout  time.Duration
	eligible func(symbol string) bool
	accept   func(bars []models.OHLCBar) (bool, string)
}

// Service implements SeriesService
type Service struct {
	steps  []step
	hint   string
	logger *common.Logger
}

// Option configures the service
type Option func(*options)

type options struct {
	minMonths int
	timeouts  map[string]time.Duration
	hint      string
}

// WithMinMonths sets the Polygon coverage threshold
func WithMinMonths(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.minMonths = n
		}
	}
}

// WithProviderTimeout bounds each attempt of the provider with the given source label
func WithProviderTimeout(source string, d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeouts[source] = d
		}
	}
}

// WithHint sets the example-symbol hint attached to not-found errors
func WithHint(hint string) Option {
	return func(o *options) {
		if hint != "" {
			o.hint = hint
		}
	}
}

// NewService creates the fallback fetcher. Any provider may be nil, meaning
// its credential is not configured and its step is skipped.
func NewService(polygon, alphaVantage, finnhub interfaces.PriceProvider, logger *common.Logger, opts ...Option) *Service {
	o := &options{
		minMonths: DefaultMinMonths,
		timeouts:  map[string]time.Duration{},
		hint:      models.NotFoundHint,
	}
	for _, opt := range opts {
		opt(o)
	}
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	timeoutFor := func(source string) time.Duration {
		if d, ok := o.timeouts[source]; ok {
			return d
		}
		return DefaultTimeout
	}

	return &Service{
		steps: []step{
			{provider: polygon, timeout: timeoutFor(models.SourcePolygon), eligible: anySymbol, accept: hasDeepCoverage(o.minMonths)},
			{provider: alphaVantage, timeout: timeoutFor(models.SourceAlphaVantage), eligible: anySymbol, accept: hasAnyBars},
			{provider: finnhub, timeout: timeoutFor(models.SourceFinnhub), eligible: looksLikeCryptoPair, accept: hasAnyBars},
		},
		hint:   o.hint,
		logger: logger,
	}
}

// NormalizeSymbol trims and uppercases a ticker.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Fetch tries each configured, eligible provider in order and returns the
// first accepted series. Provider failures are logged and never returned.
func (s *Service) Fetch(ctx context.Context, symbol string) (*models.RawSeries, error) {
	normalized := NormalizeSymbol(symbol)
	if normalized == "" {
		return nil, fmt.Errorf("%w: symbol is required", models.ErrInvalidRequest)
	}

	configured := 0
	for _, st := range s.steps {
		if st.provider == nil {
			continue
		}
		configured++

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		source := st.provider.Name()
		if !st.eligible(normalized) {
			s.logger.Debug().Str("provider", source).Str("symbol", normalized).Msg("Provider not eligible for symbol, skipping")
			continue
		}

		start := time.Now()
		bars, err := s.attempt(ctx, st, normalized)
		elapsed := time.Since(start)
		if err != nil {
			s.logger.Warn().
				Err(err).
				Str("provider", source).
				Str("symbol", normalized).
				Str("reason", failureReason(err)).
				Dur("elapsed", elapsed).
				Msg("Provider failed, falling through")
			continue
		}

		if ok, reason := st.accept(bars); !ok {
			s.logger.Info().
				Str("provider", source).
				Str("symbol", normalized).
				Int("bars", len(bars)).
				Str("reason", reason).
				Dur("elapsed", elapsed).
				Msg("Provider result not accepted, falling through")
			continue
		}

		s.logger.Info().
			Str("provider", source).
			Str("symbol", normalized).
			Int("bars", len(bars)).
			Dur("elapsed", elapsed).
			Msg("Price series accepted")
		return models.NewRawSeries(normalized, source, bars), nil
	}

	if configured == 0 {
		s.logger.Error().Str("symbol", normalized).Msg("No price provider credentials configured")
	} else {
		s.logger.Info().Str("symbol", normalized).Msg("No provider returned data")
	}
	return nil, &models.NotFoundError{
		Symbol:        symbol,
		Hint:          s.hint,
		Misconfigured: configured == 0,
	}
}

// attempt runs one provider call under its own deadline
func (s *Service) attempt(ctx context.Context, st step, symbol string) ([]models.OHLCBar, error) {
	callCtx := ctx
	if st.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, st.timeout)
		defer cancel()
	}
	return st.provider.FetchMonthly(callCtx, symbol)
}

// hasDeepCoverage accepts a series of at least minMonths bars. Shorter
// non-empty results are rejected so a deeper source gets a chance.
func hasDeepCoverage(minMonths int) func([]models.OHLCBar) (bool, string) {
	return func(bars []models.OHLCBar) (bool, string) {
		switch {
		case len(bars) == 0:
			return false, "no_data"
		case len(bars) < minMonths:
			return false, "insufficient_coverage"
		}
		return true, ""
	}
}

// hasAnyBars accepts any non-empty series
func hasAnyBars(bars []models.OHLCBar) (bool, string) {
	if len(bars) == 0 {
		return false, "no_data"
	}
	return true, ""
}

func anySymbol(string) bool { return true }

// looksLikeCryptoPair is a loose detector for pairs such as BTCUSD or ETH-USD.
func looksLikeCryptoPair(symbol string) bool {
	return strings.Contains(symbol, "USD") ||
		strings.Contains(symbol, "BTC") ||
		strings.Contains(symbol, "ETH")
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, models.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, models.ErrNoData):
		return "not_found"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}

// Ensure Service implements SeriesService
var _ interfaces.SeriesService = (*Service)(nil)
