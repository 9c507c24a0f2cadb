package models

import (
	"github.com/shopspring/decimal"
)

// Round2 rounds to two decimal places, half away from zero.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Trend labels for a single period.
const (
	TrendBullish = "BULLISH"
	TrendBearish = "BEARISH"
)

// AggregatedPeriod summarizes all bars in one calendar bucket.
type AggregatedPeriod struct {
	Period        string  `json:"period"`
	Open          float64 `json:"open"`
	Close         float64 `json:"close"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

// Key decodes the period tag.
func (p AggregatedPeriod) Key() (PeriodKey, error) {
	return ParsePeriodKey(p.Period)
}

// Trend is BULLISH for a non-negative change, BEARISH otherwise.
func (p AggregatedPeriod) Trend() string {
	if p.ChangePercent >= 0 {
		return TrendBullish
	}
	return TrendBearish
}

// Insights are summary statistics over a period list.
type Insights struct {
	BullishCount int              `json:"bullishCount"`
	BearishCount int              `json:"bearishCount"`
	AvgReturn    float64          `json:"avgReturn"`
	TotalReturn  float64          `json:"totalReturn"`
	Best         AggregatedPeriod `json:"best"`
	Worst        AggregatedPeriod `json:"worst"`
}

// PeriodRow is an AggregatedPeriod with its trend label, for tables and exports.
type PeriodRow struct {
	AggregatedPeriod
	Trend string `json:"trend"`
}

// TrendReport is the full analysis of one symbol for a timeframe and range.
type TrendReport struct {
	Symbol    string         `json:"symbol"`
	Source    string         `json:"source"`
	Timeframe Granularity    `json:"timeframe"`
	Range     Range          `json:"range"`
	Ticker    *TickerSummary `json:"ticker"`
	Periods   []PeriodRow    `json:"periods"`
	Insights  *Insights      `json:"insights"`
	Heatmap   *Heatmap       `json:"heatmap"`
}
