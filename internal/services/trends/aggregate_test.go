package trends

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/trendmap/internal/models"
)

func TestAggregate_ChangePercentRounding(t *testing.T) {
	periods := Aggregate([]models.OHLCBar{bar("2023-01-31", 100, 105)}, models.GranularityMonthly)

	require.Len(t, periods, 1)
	assert.Equal(t, "2023-01", periods[0].Period)
	assert.Equal(t, 5.0, periods[0].Change)
	assert.Equal(t, 5.00, periods[0].ChangePercent)
}

func TestAggregate_FirstOpenLastClose(t *testing.T) {
	bars := []models.OHLCBar{
		bar("2023-01-31", 100, 110),
		bar("2023-02-28", 110, 99),
		bar("2023-03-31", 99, 120),
		bar("2023-04-30", 120, 118),
		bar("2023-05-31", 118, 130),
		bar("2024-01-31", 130, 125),
	}

	tests := []struct {
		g    models.Granularity
		want []models.AggregatedPeriod
	}{
		{models.GranularityMonthly, []models.AggregatedPeriod{
			period("2023-01", 100, 110), period("2023-02", 110, 99), period("2023-03", 99, 120),
			period("2023-04", 120, 118), period("2023-05", 118, 130), period("2024-01", 130, 125),
		}},
		{models.GranularityQuarterly, []models.AggregatedPeriod{
			period("2023-Q1", 100, 120), period("2023-Q2", 120, 130), period("2024-Q1", 130, 125),
		}},
		{models.GranularityYearly, []models.AggregatedPeriod{
			period("2023", 100, 130), period("2024", 130, 125),
		}},
		{models.GranularityWeekly, []models.AggregatedPeriod{
			// weekly buckets span the whole year, so W5 collects Jan, Mar, Apr and May
			period("2023-W5", 100, 130), period("2023-W4", 110, 99), period("2024-W5", 130, 125),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.g.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Aggregate(bars, tt.g))
		})
	}
}

func TestAggregate_SingleBarBucket(t *testing.T) {
	periods := Aggregate([]models.OHLCBar{bar("2023-06-15", 50, 50)}, models.GranularityQuarterly)

	require.Len(t, periods, 1)
	assert.Equal(t, 50.0, periods[0].Open)
	assert.Equal(t, 50.0, periods[0].Close)
	assert.Equal(t, 0.0, periods[0].ChangePercent)
}

func TestAggregate_NegativeChange(t *testing.T) {
	periods := Aggregate([]models.OHLCBar{bar("2023-06-15", 300, 200)}, models.GranularityMonthly)

	require.Len(t, periods, 1)
	assert.Equal(t, -100.0, periods[0].Change)
	assert.Equal(t, -33.33, periods[0].ChangePercent)
}

func TestAggregate_NonMonotonicInputKeepsScanOrder(t *testing.T) {
	bars := []models.OHLCBar{
		bar("2023-03-31", 30, 31),
		bar("2023-01-31", 10, 11),
		bar("2023-03-15", 32, 33),
	}

	periods := Aggregate(bars, models.GranularityMonthly)

	require.Len(t, periods, 2)
	assert.Equal(t, "2023-03", periods[0].Period, "first-seen bucket comes first")
	assert.Equal(t, "2023-01", periods[1].Period)
	assert.Equal(t, 30.0, periods[0].Open, "open comes from first scanned bar")
	assert.Equal(t, 33.0, periods[0].Close, "close comes from last scanned bar")
}

func TestAggregate_Empty(t *testing.T) {
	assert.Empty(t, Aggregate(nil, models.GranularityMonthly))
}

func TestAggregate_PropertyFirstAndLastBar(t *testing.T) {
	var bars []models.OHLCBar
	d, _ := models.ParseDay("2018-01-01")
	for i := 0; i < 900; i++ {
		date := d.AddDate(0, 0, i*3)
		open := 100 + float64(i%17)
		bars = append(bars, models.OHLCBar{Date: date, Open: open, High: open + 5, Low: open - 5, Close: open + float64(i%5) - 2})
	}

	for _, g := range []models.Granularity{models.GranularityWeekly, models.GranularityMonthly, models.GranularityQuarterly, models.GranularityYearly} {
		first := map[string]models.OHLCBar{}
		last := map[string]models.OHLCBar{}
		for _, b := range bars {
			k := models.KeyFor(b.Date, g).String()
			if _, ok := first[k]; !ok {
				first[k] = b
			}
			last[k] = b
		}

		periods := Aggregate(bars, g)
		assert.Len(t, periods, len(first), g.String())
		for _, p := range periods {
			assert.Equal(t, first[p.Period].Open, p.Open, "%s %s open", g, p.Period)
			assert.Equal(t, last[p.Period].Close, p.Close, "%s %s close", g, p.Period)
		}
	}
}
