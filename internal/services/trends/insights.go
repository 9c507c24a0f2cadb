package trends

import (
	"fmt"

	"github.com/bobmcallan/trendmap/internal/models"
)

// Summarize computes insights over a chronologically ordered period list.
// It fails with ErrEmptyInput rather than inventing defaults.
func Summarize(periods []models.AggregatedPeriod) (*models.Insights, error) {
	if len(periods) == 0 {
		return nil, fmt.Errorf("%w: no periods to summarize", models.ErrEmptyInput)
	}

	ins := &models.Insights{
		Best:  periods[0],
		Worst: periods[0],
	}

	sum := 0.0
	for _, p := range periods {
		switch {
		case p.ChangePercent > 0:
			ins.BullishCount++
		case p.ChangePercent < 0:
			ins.BearishCount++
		}
		sum += p.ChangePercent

		// strict comparisons keep the first occurrence on ties
		if p.ChangePercent > ins.Best.ChangePercent {
			ins.Best = p
		}
		if p.ChangePercent < ins.Worst.ChangePercent {
			ins.Worst = p
		}
	}

	ins.AvgReturn = models.Round2(sum / float64(len(periods)))

	first, last := periods[0], periods[len(periods)-1]
	if first.Open != 0 {
		ins.TotalReturn = models.Round2((last.Close - first.Open) / first.Open * 100)
	}

	return ins, nil
}
