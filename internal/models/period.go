package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Granularity is the calendar bucket size used to group bars.
type Granularity int

const (
	GranularityWeekly Granularity = iota + 1
	GranularityMonthly
	GranularityQuarterly
	GranularityYearly
)

var granularityNames = map[Granularity]string{
	GranularityWeekly:    "weekly",
	GranularityMonthly:   "monthly",
	GranularityQuarterly: "quarterly",
	GranularityYearly:    "yearly",
}

func (g Granularity) String() string {
	if name, ok := granularityNames[g]; ok {
		return name
	}
	return fmt.Sprintf("granularity(%d)", int(g))
}

// MarshalText renders the granularity name.
func (g Granularity) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// ParseGranularity parses a timeframe name. Empty input means monthly.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "monthly", "month":
		return GranularityMonthly, nil
	case "weekly", "week":
		return GranularityWeekly, nil
	case "quarterly", "quarter":
		return GranularityQuarterly, nil
	case "yearly", "year", "annual":
		return GranularityYearly, nil
	}
	return 0, fmt.Errorf("%w: unknown timeframe %q", ErrInvalidRequest, s)
}

// RowLabel names the heatmap row header for this granularity.
func (g Granularity) RowLabel() string {
	switch g {
	case GranularityWeekly:
		return "Week"
	case GranularityQuarterly:
		return "Quarter"
	case GranularityYearly:
		return "Year"
	default:
		return "Month"
	}
}

// PeriodKey identifies one calendar bucket. Index is 0 for yearly keys,
// the month (1..12), quarter (1..4) or week-of-month (1..5) otherwise.
type PeriodKey struct {
	Year        int
	Granularity Granularity
	Index       int
}

// KeyFor returns the bucket that date falls into. Weeks are
// ceil(day-of-month/7), not ISO weeks.
func KeyFor(date time.Time, g Granularity) PeriodKey {
	d := date.UTC()
	k := PeriodKey{Year: d.Year(), Granularity: g}
	switch g {
	case GranularityWeekly:
		k.Index = (d.Day() + 6) / 7
	case GranularityQuarterly:
		k.Index = (int(d.Month())-1)/3 + 1
	case GranularityYearly:
		k.Index = 0
	default:
		k.Granularity = GranularityMonthly
		k.Index = int(d.Month())
	}
	return k
}

// String encodes the key as YYYY, YYYY-MM, YYYY-Qn or YYYY-Wn.
func (k PeriodKey) String() string {
	switch k.Granularity {
	case GranularityYearly:
		return fmt.Sprintf("%04d", k.Year)
	case GranularityQuarterly:
		return fmt.Sprintf("%04d-Q%d", k.Year, k.Index)
	case GranularityWeekly:
		return fmt.Sprintf("%04d-W%d", k.Year, k.Index)
	default:
		return fmt.Sprintf("%04d-%02d", k.Year, k.Index)
	}
}

// ParsePeriodKey decodes a key produced by PeriodKey.String. A missing second
// component means yearly; a Q or W prefix means quarterly or weekly;
// otherwise the component is a month number.
func ParsePeriodKey(s string) (PeriodKey, error) {
	yearPart, rest, hasRest := strings.Cut(strings.TrimSpace(s), "-")

	year, err := strconv.Atoi(yearPart)
	if err != nil || year <= 0 || len(yearPart) != 4 {
		return PeriodKey{}, fmt.Errorf("%w: %q", ErrInvalidPeriodKey, s)
	}
	if !hasRest {
		return PeriodKey{Year: year, Granularity: GranularityYearly}, nil
	}

	k := PeriodKey{Year: year}
	digits := rest
	maxIndex := 12
	switch {
	case strings.HasPrefix(rest, "Q"):
		k.Granularity = GranularityQuarterly
		digits = rest[1:]
		maxIndex = 4
	case strings.HasPrefix(rest, "W"):
		k.Granularity = GranularityWeekly
		digits = rest[1:]
		maxIndex = 5
	default:
		k.Granularity = GranularityMonthly
	}

	idx, err := strconv.Atoi(digits)
	if err != nil || idx < 1 || idx > maxIndex {
		return PeriodKey{}, fmt.Errorf("%w: %q", ErrInvalidPeriodKey, s)
	}
	k.Index = idx
	return k, nil
}

// StartDate is the first day of the bucket at midnight UTC. Weekly keys carry
// no month, so a week bucket starts on January 1 of its year.
func (k PeriodKey) StartDate() time.Time {
	month := time.January
	switch k.Granularity {
	case GranularityMonthly:
		month = time.Month(k.Index)
	case GranularityQuarterly:
		month = time.Month((k.Index-1)*3 + 1)
	}
	return time.Date(k.Year, month, 1, 0, 0, 0, 0, time.UTC)
}

var monthAbbrev = [...]string{"", "Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// IndexLabel is the display name of a period index for a granularity.
func IndexLabel(g Granularity, index int) string {
	switch g {
	case GranularityYearly:
		return "Year"
	case GranularityQuarterly:
		return fmt.Sprintf("Q%d", index)
	case GranularityWeekly:
		return fmt.Sprintf("W%d", index)
	}
	if index >= 1 && index <= 12 {
		return monthAbbrev[index]
	}
	return strconv.Itoa(index)
}

// Range is a trailing window applied to aggregated periods.
type Range string

const (
	Range1Y  Range = "1y"
	Range3Y  Range = "3y"
	Range5Y  Range = "5y"
	Range10Y Range = "10y"
	RangeAll Range = "all"
)

// ParseRange parses a range token. Empty input means 5y.
func ParseRange(s string) (Range, error) {
	switch r := Range(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return Range5Y, nil
	case Range1Y, Range3Y, Range5Y, Range10Y, RangeAll:
		return r, nil
	}
	return "", fmt.Errorf("%w: unknown range %q", ErrInvalidRequest, s)
}

// Years returns the window length in years, or 0 for all.
func (r Range) Years() int {
	switch r {
	case Range1Y:
		return 1
	case Range3Y:
		return 3
	case Range5Y:
		return 5
	case Range10Y:
		return 10
	}
	return 0
}
