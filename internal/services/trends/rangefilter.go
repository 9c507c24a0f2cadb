package trends

import (
	"time"

	"github.com/bobmcallan/trendmap/internal/common"
	"github.com/bobmcallan/trendmap/internal/models"
)

// RangeFilter keeps periods that start within a trailing window.
type RangeFilter struct {
	now    func() time.Time
	strict bool
	logger *common.Logger
}

// NewRangeFilter creates a filter. With strict false, a period whose key
// cannot be parsed is kept; with strict true it is dropped.
func NewRangeFilter(strict bool, logger *common.Logger) *RangeFilter {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &RangeFilter{now: time.Now, strict: strict, logger: logger}
}

// Cutoff is today (UTC) minus the range's years.
func (f *RangeFilter) Cutoff(r models.Range) time.Time {
	return models.TruncateDay(f.now()).AddDate(-r.Years(), 0, 0)
}

// Filter returns the periods whose start date is on or after the cutoff, in
// their original order. RangeAll returns every period.
func (f *RangeFilter) Filter(periods []models.AggregatedPeriod, r models.Range) []models.AggregatedPeriod {
	if r == models.RangeAll || r.Years() == 0 {
		return append([]models.AggregatedPeriod(nil), periods...)
	}

	cutoff := f.Cutoff(r)
	kept := make([]models.AggregatedPeriod, 0, len(periods))
	for _, p := range periods {
		key, err := p.Key()
		if err != nil {
			f.logger.Warn().Str("period", p.Period).Bool("strict", f.strict).Msg("Unparseable period key in range filter")
			if !f.strict {
				kept = append(kept, p)
			}
			continue
		}
		if !key.StartDate().Before(cutoff) {
			kept = append(kept, p)
		}
	}
	return kept
}
