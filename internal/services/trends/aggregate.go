package trends

import (
	"github.com/bobmcallan/trendmap/internal/models"
)

// Aggregate buckets bars into calendar periods. Bars are scanned in input
// order: a bucket's open is its first scanned bar's open and its close the
// last scanned bar's close. Periods are returned in the order their bucket
// was first seen, which is chronological for ascending input.
func Aggregate(bars []models.OHLCBar, g models.Granularity) []models.AggregatedPeriod {
	type bucket struct {
		key   string
		open  float64
		close float64
	}

	index := make(map[string]int)
	buckets := make([]bucket, 0)
	for _, bar := range bars {
		key := models.KeyFor(bar.Date, g).String()
		i, ok := index[key]
		if !ok {
			index[key] = len(buckets)
			buckets = append(buckets, bucket{key: key, open: bar.Open, close: bar.Close})
			continue
		}
		buckets[i].close = bar.Close
	}

	periods := make([]models.AggregatedPeriod, len(buckets))
	for i, b := range buckets {
		periods[i] = newPeriod(b.key, b.open, b.close)
	}
	return periods
}

func newPeriod(key string, open, close float64) models.AggregatedPeriod {
	change := close - open
	pct := 0.0
	if open != 0 {
		pct = models.Round2(change / open * 100)
	}
	return models.AggregatedPeriod{
		Period:        key,
		Open:          open,
		Close:         close,
		Change:        change,
		ChangePercent: pct,
	}
}
