// Package interfaces defines service contracts for Trendmap
package interfaces

import (
	"context"

	"github.com/bobmcallan/trendmap/internal/models"
)

// PriceProvider fetches monthly OHLC bars for a symbol from one upstream API.
type PriceProvider interface {
	// Name returns the source label reported to callers (e.g. "Polygon.io").
	Name() string

	// FetchMonthly returns normalized bars in ascending date order.
	// An empty result with a nil error means the provider had no data.
	FetchMonthly(ctx context.Context, symbol string) ([]models.OHLCBar, error)
}
