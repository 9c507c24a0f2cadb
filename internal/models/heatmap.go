package models

// ColorBucket classifies a percentage change for display.
type ColorBucket string

const (
	BucketStrongGain ColorBucket = "strong-gain"
	BucketGain       ColorBucket = "gain"
	BucketSlightGain ColorBucket = "slight-gain"
	BucketSlightLoss ColorBucket = "slight-loss"
	BucketLoss       ColorBucket = "loss"
	BucketStrongLoss ColorBucket = "strong-loss"
	BucketNoData     ColorBucket = "no-data"
)

// Thresholds holds the inclusive lower bound of each bucket, in percent.
// Anything below Loss is a strong loss.
type Thresholds struct {
	StrongGain float64 `json:"strongGain"`
	Gain       float64 `json:"gain"`
	SlightGain float64 `json:"slightGain"`
	SlightLoss float64 `json:"slightLoss"`
	Loss       float64 `json:"loss"`
}

// DefaultThresholds is {>=10, >=5, >=0, >=-5, >=-10, else}.
func DefaultThresholds() Thresholds {
	return Thresholds{StrongGain: 10, Gain: 5, SlightGain: 0, SlightLoss: -5, Loss: -10}
}

// Classify maps a percentage to its bucket.
func (t Thresholds) Classify(pct float64) ColorBucket {
	switch {
	case pct >= t.StrongGain:
		return BucketStrongGain
	case pct >= t.Gain:
		return BucketGain
	case pct >= t.SlightGain:
		return BucketSlightGain
	case pct >= t.SlightLoss:
		return BucketSlightLoss
	case pct >= t.Loss:
		return BucketLoss
	}
	return BucketStrongLoss
}

// Palette maps each bucket to a hex color.
type Palette map[ColorBucket]string

// CellPalette is the saturated diverging scale used for period cells.
var CellPalette = Palette{
	BucketStrongGain: "#15803d",
	BucketGain:       "#16a34a",
	BucketSlightGain: "#4ade80",
	BucketSlightLoss: "#f87171",
	BucketLoss:       "#dc2626",
	BucketStrongLoss: "#b91c1c",
	BucketNoData:     "#f3f4f6",
}

// TotalPalette is the paler scale used for per-year totals.
var TotalPalette = Palette{
	BucketStrongGain: "#bbf7d0",
	BucketGain:       "#dcfce7",
	BucketSlightGain: "#f0fdf4",
	BucketSlightLoss: "#fef2f2",
	BucketLoss:       "#fee2e2",
	BucketStrongLoss: "#fecaca",
	BucketNoData:     "#fef9c3",
}

// HeatmapCell is one (year, period index) intersection. Period is nil when
// no bucket exists there, which is distinct from a 0% change.
type HeatmapCell struct {
	Year        int               `json:"year"`
	PeriodIndex int               `json:"periodIndex"`
	Period      *AggregatedPeriod `json:"period"`
	Bucket      ColorBucket       `json:"bucket"`
	Color       string            `json:"color"`
}

// HeatmapRow holds one period index across every year, in year order.
type HeatmapRow struct {
	PeriodIndex int           `json:"periodIndex"`
	Label       string        `json:"label"`
	Cells       []HeatmapCell `json:"cells"`
}

// YearTotal aggregates the present buckets of one year.
type YearTotal struct {
	Year        int         `json:"year"`
	AvgPercent  float64     `json:"avgPercent"`
	TotalDollar float64     `json:"totalDollar"`
	Count       int         `json:"count"`
	Bucket      ColorBucket `json:"bucket"`
	Color       string      `json:"color"`
}

// LegendEntry describes one color bucket.
type LegendEntry struct {
	Bucket ColorBucket `json:"bucket"`
	Label  string      `json:"label"`
	Color  string      `json:"color"`
}

// Heatmap is a year by period-index grid over aggregated periods.
type Heatmap struct {
	Timeframe     Granularity   `json:"timeframe"`
	RowLabel      string        `json:"rowLabel"`
	Years         []int         `json:"years"`
	PeriodIndices []int         `json:"periodIndices"`
	Rows          []HeatmapRow  `json:"rows"`
	Totals        []YearTotal   `json:"totals"`
	Legend        []LegendEntry `json:"legend"`

	cells map[int]map[int]AggregatedPeriod
}

// SetCells installs the lookup table used by Cell.
func (h *Heatmap) SetCells(cells map[int]map[int]AggregatedPeriod) {
	h.cells = cells
}

// Cell returns the period at (year, index), if present.
func (h *Heatmap) Cell(year, index int) (AggregatedPeriod, bool) {
	byIndex, ok := h.cells[year]
	if !ok {
		return AggregatedPeriod{}, false
	}
	p, ok := byIndex[index]
	return p, ok
}

// Total returns the year total for year, if present.
func (h *Heatmap) Total(year int) (YearTotal, bool) {
	for _, t := range h.Totals {
		if t.Year == year {
			return t, true
		}
	}
	return YearTotal{}, false
}
