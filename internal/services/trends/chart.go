package trends

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/bobmcallan/trendmap/internal/models"
)

// ChartKind selects how the close series is drawn.
type ChartKind string

const (
	ChartLine ChartKind = "line"
	ChartArea ChartKind = "area"
	ChartBar  ChartKind = "bar"
)

// ParseChartKind parses a chart type. Empty input means line.
func ParseChartKind(s string) (ChartKind, error) {
	switch k := ChartKind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return ChartLine, nil
	case ChartLine, ChartArea, ChartBar:
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown chart type %q", models.ErrInvalidRequest, s)
}

// RenderPriceChart draws the closing prices of series as a PNG. The y axis
// spans 95% of the lowest close to 105% of the highest.
func RenderPriceChart(series *models.RawSeries, kind ChartKind, w io.Writer) error {
	if series == nil || len(series.Data) < 2 {
		return fmt.Errorf("%w: need at least 2 bars to chart", models.ErrEmptyInput)
	}

	xValues := make([]time.Time, len(series.Data))
	closes := make([]float64, len(series.Data))
	minClose, maxClose := math.Inf(1), math.Inf(-1)
	for i, b := range series.Data {
		xValues[i] = b.Date
		closes[i] = b.Close
		minClose = math.Min(minClose, b.Close)
		maxClose = math.Max(maxClose, b.Close)
	}
	yRange := &chart.ContinuousRange{Min: minClose * 0.95, Max: maxClose * 1.05}
	title := fmt.Sprintf("%s Close (%s)", series.Symbol, series.Source)

	if kind == ChartBar {
		return renderBarChart(title, series.Data, yRange, w)
	}

	style := chart.Style{
		StrokeColor: drawing.ColorFromHex("2563eb"), // blue-600
		StrokeWidth: 2,
	}
	if kind == ChartArea {
		style.FillColor = drawing.ColorFromHex("2563eb").WithAlpha(64)
	}

	graph := chart.Chart{
		Title:  title,
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		YAxis: chart.YAxis{
			Range:          yRange,
			ValueFormatter: priceFormatter,
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    "Close",
				Style:   style,
				XValues: xValues,
				YValues: closes,
			},
		},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}

func renderBarChart(title string, bars []models.OHLCBar, yRange *chart.ContinuousRange, w io.Writer) error {
	const barWidth, barSpacing = 8, 2

	values := make([]chart.Value, len(bars))
	for i, b := range bars {
		label := ""
		if i == 0 || b.Date.Year() != bars[i-1].Date.Year() {
			label = b.Date.Format("2006")
		}
		values[i] = chart.Value{
			Value: b.Close,
			Label: label,
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex("2563eb"),
				StrokeColor: drawing.ColorFromHex("2563eb"),
			},
		}
	}

	width := len(bars)*(barWidth+barSpacing) + 120
	if width < 900 {
		width = 900
	}

	graph := chart.BarChart{
		Title:  title,
		Width:  width,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		YAxis: chart.YAxis{
			Range:          yRange,
			ValueFormatter: priceFormatter,
		},
		Bars: values,
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}
	return nil
}

func priceFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("$%.2f", f)
	}
	return ""
}
