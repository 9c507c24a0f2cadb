// Package models defines data structures for Trendmap
package models

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"
)

// Provider source labels reported in RawSeries.Source.
const (
	SourcePolygon      = "Polygon.io"
	SourceAlphaVantage = "Alpha Vantage"
	SourceFinnhub      = "Finnhub"
)

// DateLayout is the calendar-day form used on the wire.
const DateLayout = "2006-01-02"

// OHLCBar is one price record for a single calendar day. Date is always
// midnight UTC.
type OHLCBar struct {
	Date  time.Time `json:"date"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}

type ohlcBarJSON struct {
	Date  string  `json:"date"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// MarshalJSON renders Date as YYYY-MM-DD.
func (b OHLCBar) MarshalJSON() ([]byte, error) {
	return json.Marshal(ohlcBarJSON{
		Date:  b.Date.Format(DateLayout),
		Open:  b.Open,
		High:  b.High,
		Low:   b.Low,
		Close: b.Close,
	})
}

// UnmarshalJSON accepts YYYY-MM-DD dates.
func (b *OHLCBar) UnmarshalJSON(data []byte) error {
	var raw ohlcBarJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d, err := ParseDay(raw.Date)
	if err != nil {
		return err
	}
	*b = OHLCBar{Date: d, Open: raw.Open, High: raw.High, Low: raw.Low, Close: raw.Close}
	return nil
}

// Valid reports whether every price is positive and finite and the bar's
// range contains its open and close.
func (b OHLCBar) Valid() bool {
	for _, v := range []float64{b.Open, b.High, b.Low, b.Close} {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return b.Low <= b.High &&
		b.Low <= b.Open && b.Open <= b.High &&
		b.Low <= b.Close && b.Close <= b.High
}

// ParseDay parses a YYYY-MM-DD string into midnight UTC.
func ParseDay(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// TruncateDay returns t's calendar day at midnight UTC.
func TruncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// RawSeries is a normalized ascending bar sequence plus provenance.
type RawSeries struct {
	Symbol string    `json:"symbol"`
	Data   []OHLCBar `json:"data"`
	Source string    `json:"source"`
	Count  int       `json:"count"`
}

// NewRawSeries builds a RawSeries, keeping Count in step with Data.
func NewRawSeries(symbol, source string, bars []OHLCBar) *RawSeries {
	if bars == nil {
		bars = []OHLCBar{}
	}
	return &RawSeries{
		Symbol: symbol,
		Data:   bars,
		Source: source,
		Count:  len(bars),
	}
}

// TickerSummary is the headline quote derived from a raw series.
type TickerSummary struct {
	Symbol        string  `json:"symbol"`
	Date          string  `json:"date"`
	Close         float64 `json:"close"`
	PreviousClose float64 `json:"previousClose"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Range         float64 `json:"range"`
}

// NormalizeBars drops invalid bars, sorts ascending by date and keeps the
// last occurrence of any duplicated date. The input slice is not modified.
func NormalizeBars(bars []OHLCBar) []OHLCBar {
	out := make([]OHLCBar, 0, len(bars))
	for _, b := range bars {
		if !b.Valid() {
			continue
		}
		b.Date = TruncateDay(b.Date)
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })

	deduped := out[:0]
	for i, b := range out {
		if i+1 < len(out) && out[i+1].Date.Equal(b.Date) {
			continue
		}
		deduped = append(deduped, b)
	}
	return deduped
}
