package trends

import (
	"fmt"
	"sort"

	"github.com/bobmcallan/trendmap/internal/common"
	"github.com/bobmcallan/trendmap/internal/models"
)

// HeatmapBuilder reshapes periods into a year by period-index grid.
type HeatmapBuilder struct {
	cell   models.Thresholds
	total  models.Thresholds
	logger *common.Logger
}

// NewHeatmapBuilder creates a builder with separate threshold tables for
// cells and year totals.
func NewHeatmapBuilder(cell, total models.Thresholds, logger *common.Logger) *HeatmapBuilder {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &HeatmapBuilder{cell: cell, total: total, logger: logger}
}

// Build lays out periods by (year, index). Periods with unparseable keys are
// skipped. If two periods share a cell the later one wins. The timeframe is
// taken from the first parseable period.
func (b *HeatmapBuilder) Build(periods []models.AggregatedPeriod) *models.Heatmap {
	cells := make(map[int]map[int]models.AggregatedPeriod)
	yearSet := make(map[int]struct{})
	indexSet := make(map[int]struct{})
	timeframe := models.Granularity(0)

	for _, p := range periods {
		key, err := p.Key()
		if err != nil {
			b.logger.Warn().Str("period", p.Period).Msg("Skipping unparseable period in heatmap")
			continue
		}
		if timeframe == 0 {
			timeframe = key.Granularity
		}
		if cells[key.Year] == nil {
			cells[key.Year] = make(map[int]models.AggregatedPeriod)
		}
		cells[key.Year][key.Index] = p
		yearSet[key.Year] = struct{}{}
		indexSet[key.Index] = struct{}{}
	}
	if timeframe == 0 {
		timeframe = models.GranularityMonthly
	}

	hm := &models.Heatmap{
		Timeframe:     timeframe,
		RowLabel:      timeframe.RowLabel(),
		Years:         sortedKeys(yearSet),
		PeriodIndices: sortedKeys(indexSet),
		Legend:        b.Legend(),
	}
	hm.SetCells(cells)

	hm.Rows = make([]models.HeatmapRow, 0, len(hm.PeriodIndices))
	for _, idx := range hm.PeriodIndices {
		row := models.HeatmapRow{
			PeriodIndex: idx,
			Label:       models.IndexLabel(timeframe, idx),
			Cells:       make([]models.HeatmapCell, 0, len(hm.Years)),
		}
		for _, year := range hm.Years {
			cell := models.HeatmapCell{Year: year, PeriodIndex: idx, Bucket: models.BucketNoData}
			if p, ok := hm.Cell(year, idx); ok {
				p := p
				cell.Period = &p
				cell.Bucket = b.cell.Classify(p.ChangePercent)
			}
			cell.Color = models.CellPalette[cell.Bucket]
			row.Cells = append(row.Cells, cell)
		}
		hm.Rows = append(hm.Rows, row)
	}

	hm.Totals = make([]models.YearTotal, 0, len(hm.Years))
	for _, year := range hm.Years {
		hm.Totals = append(hm.Totals, b.yearTotal(year, cells[year]))
	}

	return hm
}

// yearTotal averages changePercent over the buckets present in the year only
// and sums their dollar change.
func (b *HeatmapBuilder) yearTotal(year int, present map[int]models.AggregatedPeriod) models.YearTotal {
	total := models.YearTotal{Year: year, Bucket: models.BucketNoData}
	sumPct, sumDollar := 0.0, 0.0
	for _, p := range present {
		sumPct += p.ChangePercent
		sumDollar += p.Change
		total.Count++
	}
	if total.Count > 0 {
		total.AvgPercent = models.Round2(sumPct / float64(total.Count))
		total.TotalDollar = models.Round2(sumDollar)
		total.Bucket = b.total.Classify(total.AvgPercent)
	}
	total.Color = models.TotalPalette[total.Bucket]
	return total
}

// Legend describes the cell buckets using the configured thresholds.
func (b *HeatmapBuilder) Legend() []models.LegendEntry {
	t := b.cell
	entries := []models.LegendEntry{
		{Bucket: models.BucketStrongGain, Label: fmt.Sprintf("≥%s%% (Strong Gain)", pct(t.StrongGain))},
		{Bucket: models.BucketGain, Label: fmt.Sprintf("%s-%s%% (Gain)", pct(t.Gain), pct(t.StrongGain))},
		{Bucket: models.BucketSlightGain, Label: fmt.Sprintf("%s-%s%% (Slight Gain)", pct(t.SlightGain), pct(t.Gain))},
		{Bucket: models.BucketSlightLoss, Label: fmt.Sprintf("%s-%s%% (Slight Loss)", pct(t.SlightLoss), pct(t.SlightGain))},
		{Bucket: models.BucketLoss, Label: fmt.Sprintf("%s-%s%% (Loss)", pct(t.Loss), pct(t.SlightLoss))},
		{Bucket: models.BucketStrongLoss, Label: fmt.Sprintf("≤%s%% (Strong Loss)", pct(t.Loss))},
	}
	for i := range entries {
		entries[i].Color = models.CellPalette[entries[i].Bucket]
	}
	return entries
}

func pct(v float64) string {
	return fmt.Sprintf("%g", v)
}

func sortedKeys(set map[int]struct{}) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
