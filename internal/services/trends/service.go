// Package trends turns a price series into calendar-period analytics:
// aggregation, range filtering, insights, heatmaps, charts and exports.
package trends

import (
	"context"
	"io"
	"time"

	"github.com/bobmcallan/trendmap/internal/common"
	"github.com/bobmcallan/trendmap/internal/interfaces"
	"github.com/bobmcallan/trendmap/internal/models"
)

// Service implements TrendService
type Service struct {
	series  interfaces.SeriesService
	filter  *RangeFilter
	heatmap *HeatmapBuilder
	logger  *common.Logger
}

// Option configures the service
type Option func(*Service)

// WithStrictPeriodKeys drops unparseable period keys in the range filter
func WithStrictPeriodKeys(strict bool) Option {
	return func(s *Service) {
		s.filter.strict = strict
	}
}

// WithThresholds sets the heatmap cell and year-total threshold tables
func WithThresholds(cell, total models.Thresholds) Option {
	return func(s *Service) {
		s.heatmap.cell = cell
		s.heatmap.total = total
	}
}

// WithClock overrides the clock used for range cutoffs
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.filter.now = now
	}
}

// NewService creates a trend service over a series fetcher
func NewService(series interfaces.SeriesService, logger *common.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	s := &Service{
		series:  series,
		filter:  NewRangeFilter(false, logger),
		heatmap: NewHeatmapBuilder(models.DefaultThresholds(), models.DefaultThresholds(), logger),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze fetches symbol and derives the full report. Insights and heatmap
// are nil when the range leaves no periods.
func (s *Service) Analyze(ctx context.Context, symbol string, g models.Granularity, r models.Range) (*models.TrendReport, error) {
	series, err := s.series.Fetch(ctx, symbol)
	if err != nil {
		return nil, err
	}

	periods := Aggregate(series.Data, g)
	filtered := s.filter.Filter(periods, r)

	report := &models.TrendReport{
		Symbol:    series.Symbol,
		Source:    series.Source,
		Timeframe: g,
		Range:     r,
		Ticker:    TickerSummary(series),
		Periods:   PeriodRows(filtered),
	}

	if len(filtered) > 0 {
		insights, err := Summarize(filtered)
		if err != nil {
			return nil, err
		}
		report.Insights = insights
		report.Heatmap = s.heatmap.Build(filtered)
	}

	s.logger.Debug().
		Str("symbol", series.Symbol).
		Str("timeframe", g.String()).
		Str("range", string(r)).
		Int("periods", len(periods)).
		Int("filtered", len(filtered)).
		Msg("Trend report built")

	return report, nil
}

// Chart fetches symbol and renders its close series
func (s *Service) Chart(ctx context.Context, symbol string, kind string, w io.Writer) error {
	k, err := ParseChartKind(kind)
	if err != nil {
		return err
	}
	series, err := s.series.Fetch(ctx, symbol)
	if err != nil {
		return err
	}
	return RenderPriceChart(series, k, w)
}

// Ensure Service implements TrendService
var _ interfaces.TrendService = (*Service)(nil)
