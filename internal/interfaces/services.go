package interfaces

import (
	"context"
	"io"

	"github.com/bobmcallan/trendmap/internal/models"
)

// SeriesService retrieves a normalized price series with provider fallback.
type SeriesService interface {
	// Fetch returns the first acceptable series. It fails with a
	// *models.NotFoundError when no provider produced one.
	Fetch(ctx context.Context, symbol string) (*models.RawSeries, error)
}

// TrendService turns a price series into period analytics.
type TrendService interface {
	// Analyze fetches symbol and runs aggregation, range filtering,
	// insights and heatmap construction.
	Analyze(ctx context.Context, symbol string, g models.Granularity, r models.Range) (*models.TrendReport, error)

	// Chart renders the raw closing price series as a PNG.
	Chart(ctx context.Context, symbol string, kind string, w io.Writer) error
}

// SymbolLookup is a read-only catalog of known tickers.
type SymbolLookup interface {
	// Search matches query against symbols and names, returning at most limit entries.
	Search(query string, limit int) []models.SymbolInfo

	// Examples returns example tickers per asset class.
	Examples() models.AssetClassExamples
}

// PeriodExporter writes aggregated periods in one file format.
type PeriodExporter interface {
	// Format is the short name used in requests (e.g. "csv").
	Format() string

	// ContentType is the MIME type of the output.
	ContentType() string

	// Export writes rows to w.
	Export(w io.Writer, rows []models.PeriodRow) error
}
