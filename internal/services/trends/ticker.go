package trends

import (
	"github.com/bobmcallan/trendmap/internal/models"
)

// TickerSummary derives the headline quote from a raw series: the latest
// close against the previous close, or against the first open when the
// series holds a single bar, plus the high and low over every bar.
func TickerSummary(series *models.RawSeries) *models.TickerSummary {
	if series == nil || len(series.Data) == 0 {
		return nil
	}

	bars := series.Data
	latest := bars[len(bars)-1]
	previous := bars[0].Open
	if len(bars) > 1 {
		previous = bars[len(bars)-2].Close
	}

	high, low := bars[0].High, bars[0].Low
	for _, b := range bars[1:] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}

	summary := &models.TickerSummary{
		Symbol:        series.Symbol,
		Date:          latest.Date.Format(models.DateLayout),
		Close:         latest.Close,
		PreviousClose: previous,
		Change:        latest.Close - previous,
		High:          high,
		Low:           low,
		Range:         high - low,
	}
	if previous != 0 {
		summary.ChangePercent = models.Round2(summary.Change / previous * 100)
	}
	return summary
}
