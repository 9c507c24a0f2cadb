package models

import (
	"errors"
	"testing"
	"time"
)

func day(s string) time.Time {
	d, err := ParseDay(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestKeyFor(t *testing.T) {
	tests := []struct {
		date string
		g    Granularity
		want string
	}{
		{"2023-07-15", GranularityMonthly, "2023-07"},
		{"2023-01-01", GranularityMonthly, "2023-01"},
		{"2023-12-31", GranularityMonthly, "2023-12"},
		{"2023-01-31", GranularityQuarterly, "2023-Q1"},
		{"2023-03-31", GranularityQuarterly, "2023-Q1"},
		{"2023-04-01", GranularityQuarterly, "2023-Q2"},
		{"2023-09-30", GranularityQuarterly, "2023-Q3"},
		{"2023-12-01", GranularityQuarterly, "2023-Q4"},
		{"2023-07-01", GranularityWeekly, "2023-W1"},
		{"2023-07-07", GranularityWeekly, "2023-W1"},
		{"2023-07-08", GranularityWeekly, "2023-W2"},
		{"2023-07-29", GranularityWeekly, "2023-W5"},
		{"2023-07-31", GranularityWeekly, "2023-W5"},
		{"2023-07-15", GranularityYearly, "2023"},
	}
	for _, tt := range tests {
		got := KeyFor(day(tt.date), tt.g).String()
		if got != tt.want {
			t.Errorf("KeyFor(%s, %s) = %q, want %q", tt.date, tt.g, got, tt.want)
		}
	}
}

func TestParsePeriodKey(t *testing.T) {
	tests := []struct {
		input string
		g     Granularity
		year  int
		index int
	}{
		{"2023", GranularityYearly, 2023, 0},
		{"2023-Q2", GranularityQuarterly, 2023, 2},
		{"2023-W3", GranularityWeekly, 2023, 3},
		{"2023-07", GranularityMonthly, 2023, 7},
		{"2023-12", GranularityMonthly, 2023, 12},
		{"2023-7", GranularityMonthly, 2023, 7},
	}
	for _, tt := range tests {
		k, err := ParsePeriodKey(tt.input)
		if err != nil {
			t.Errorf("ParsePeriodKey(%q) error: %v", tt.input, err)
			continue
		}
		if k.Granularity != tt.g || k.Year != tt.year || k.Index != tt.index {
			t.Errorf("ParsePeriodKey(%q) = %+v, want {%d %s %d}", tt.input, k, tt.year, tt.g, tt.index)
		}
	}
}

func TestParsePeriodKey_Invalid(t *testing.T) {
	for _, input := range []string{"", "abcd", "23", "2023-13", "2023-00", "2023-Q5", "2023-Q", "2023-W6", "2023-W0", "2023-X1", "2023-Qx"} {
		if _, err := ParsePeriodKey(input); !errors.Is(err, ErrInvalidPeriodKey) {
			t.Errorf("ParsePeriodKey(%q) error = %v, want ErrInvalidPeriodKey", input, err)
		}
	}
}

func TestPeriodKey_RoundTrip(t *testing.T) {
	start := day("2019-01-01")
	for _, g := range []Granularity{GranularityWeekly, GranularityMonthly, GranularityQuarterly, GranularityYearly} {
		for d := start; d.Year() < 2021; d = d.AddDate(0, 0, 1) {
			k := KeyFor(d, g)
			back, err := ParsePeriodKey(k.String())
			if err != nil {
				t.Fatalf("ParsePeriodKey(%q): %v", k.String(), err)
			}
			if back != k {
				t.Fatalf("round trip %s: got %+v, want %+v", k.String(), back, k)
			}
		}
	}
}

func TestPeriodKey_StartDate(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"2023", "2023-01-01"},
		{"2023-07", "2023-07-01"},
		{"2023-Q1", "2023-01-01"},
		{"2023-Q2", "2023-04-01"},
		{"2023-Q4", "2023-10-01"},
		{"2023-W4", "2023-01-01"},
	}
	for _, tt := range tests {
		k, err := ParsePeriodKey(tt.key)
		if err != nil {
			t.Fatalf("ParsePeriodKey(%q): %v", tt.key, err)
		}
		if got := k.StartDate().Format(DateLayout); got != tt.want {
			t.Errorf("StartDate(%s) = %s, want %s", tt.key, got, tt.want)
		}
	}
}

func TestParseGranularity(t *testing.T) {
	tests := []struct {
		input string
		want  Granularity
	}{
		{"", GranularityMonthly},
		{"monthly", GranularityMonthly},
		{"Weekly", GranularityWeekly},
		{" quarterly ", GranularityQuarterly},
		{"YEARLY", GranularityYearly},
	}
	for _, tt := range tests {
		got, err := ParseGranularity(tt.input)
		if err != nil || got != tt.want {
			t.Errorf("ParseGranularity(%q) = %v, %v; want %v", tt.input, got, err, tt.want)
		}
	}

	if _, err := ParseGranularity("daily"); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("ParseGranularity(daily) error = %v, want ErrInvalidRequest", err)
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		input string
		want  Range
		years int
	}{
		{"", Range5Y, 5},
		{"1y", Range1Y, 1},
		{"3Y", Range3Y, 3},
		{"10y", Range10Y, 10},
		{"all", RangeAll, 0},
	}
	for _, tt := range tests {
		got, err := ParseRange(tt.input)
		if err != nil || got != tt.want || got.Years() != tt.years {
			t.Errorf("ParseRange(%q) = %v (%d years), %v; want %v", tt.input, got, got.Years(), err, tt.want)
		}
	}

	if _, err := ParseRange("2y"); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("ParseRange(2y) error = %v, want ErrInvalidRequest", err)
	}
}

func TestIndexLabel(t *testing.T) {
	tests := []struct {
		g     Granularity
		index int
		want  string
	}{
		{GranularityMonthly, 1, "Jan"},
		{GranularityMonthly, 12, "Dec"},
		{GranularityQuarterly, 3, "Q3"},
		{GranularityWeekly, 5, "W5"},
		{GranularityYearly, 0, "Year"},
	}
	for _, tt := range tests {
		if got := IndexLabel(tt.g, tt.index); got != tt.want {
			t.Errorf("IndexLabel(%s, %d) = %q, want %q", tt.g, tt.index, got, tt.want)
		}
	}
}
