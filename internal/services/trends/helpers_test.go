package trends

import (
	"time"

	"github.com/bobmcallan/trendmap/internal/models"
)

func bar(date string, open, close float64) models.OHLCBar {
	d, err := models.ParseDay(date)
	if err != nil {
		panic(err)
	}
	high, low := open, close
	if close > open {
		high, low = close, open
	}
	return models.OHLCBar{Date: d, Open: open, High: high * 1.01, Low: low * 0.99, Close: close}
}

func period(key string, open, close float64) models.AggregatedPeriod {
	return newPeriod(key, open, close)
}

func fixedClock(date string) func() time.Time {
	d, err := models.ParseDay(date)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return d.Add(15 * time.Hour) }
}

func mustDay(s string) time.Time {
	d, err := models.ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func monthlySeries(symbol string, n int) *models.RawSeries {
	start := mustDay("2019-01-01")
	bars := make([]models.OHLCBar, n)
	for i := range bars {
		open := 100 + float64(i)
		bars[i] = models.OHLCBar{Date: start.AddDate(0, i, 0), Open: open, High: open + 3, Low: open - 2, Close: open + 1}
	}
	return models.NewRawSeries(symbol, models.SourcePolygon, bars)
}
