package alphavantage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bobmcallan/trendmap/internal/models"
)

const monthlyFixture = `{
  "Meta Data": {"1. Information": "Monthly Prices", "2. Symbol": "IBM"},
  "Monthly Time Series": {
    "2024-03-28": {"1. open": "185.4900", "2. high": "199.1800", "3. low": "185.1800", "4. close": "190.9600", "5. volume": "99"},
    "2024-01-31": {"1. open": "162.8300", "2. high": "196.9000", "3. low": "157.8850", "4. close": "183.6600", "5. volume": "99"},
    "2024-02-29": {"1. open": "183.6300", "2. high": "188.9500", "3. low": "178.7500", "4. close": "185.0300", "5. volume": "99"}
  }
}`

func TestFetchMonthly_ParsesAndSortsAscending(t *testing.T) {
	var capturedQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/query" {
			t.Errorf("expected path /query, got %s", r.URL.Path)
		}
		q := r.URL.Query()
		capturedQuery = map[string]string{
			"function": q.Get("function"),
			"symbol":   q.Get("symbol"),
			"apikey":   q.Get("apikey"),
		}
		w.Write([]byte(monthlyFixture))
	}))
	defer srv.Close()

	client := NewClient("av-key", WithBaseURL(srv.URL))
	bars, err := client.FetchMonthly(context.Background(), "IBM")
	if err != nil {
		t.Fatalf("FetchMonthly failed: %v", err)
	}

	if capturedQuery["function"] != "TIME_SERIES_MONTHLY" || capturedQuery["symbol"] != "IBM" || capturedQuery["apikey"] != "av-key" {
		t.Errorf("unexpected query %v", capturedQuery)
	}
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}
	want := []string{"2024-01-31", "2024-02-29", "2024-03-28"}
	for i, w := range want {
		if got := bars[i].Date.Format(models.DateLayout); got != w {
			t.Errorf("bar %d date = %s, want %s", i, got, w)
		}
	}
	if bars[0].Open != 162.83 || bars[0].Close != 183.66 {
		t.Errorf("unexpected first bar %+v", bars[0])
	}
	if client.Name() != "Alpha Vantage" {
		t.Errorf("expected name Alpha Vantage, got %s", client.Name())
	}
}

func TestFetchMonthly_Signals(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"error message", `{"Error Message": "Invalid API call."}`, models.ErrNoData},
		{"note", `{"Note": "Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`, models.ErrRateLimited},
		{"information", `{"Information": "You have reached the daily rate limit."}`, models.ErrRateLimited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient("k", WithBaseURL(srv.URL))
			bars, err := client.FetchMonthly(context.Background(), "ZZZZ")
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if bars != nil {
				t.Errorf("expected nil bars, got %d", len(bars))
			}
		})
	}
}

func TestFetchMonthly_EmptySeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Monthly Time Series": {}}`))
	}))
	defer srv.Close()

	client := NewClient("k", WithBaseURL(srv.URL))
	bars, err := client.FetchMonthly(context.Background(), "ZZZZ")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(bars) != 0 {
		t.Errorf("expected 0 bars, got %d", len(bars))
	}
}

func TestNormalizeMonthlySeries_SkipsUnparseable(t *testing.T) {
	bars, skipped := normalizeMonthlySeries(map[string]monthlyEntry{
		"2024-01-31": {Open: "10", High: "12", Low: "9", Close: "11"},
		"not-a-date": {Open: "10", High: "12", Low: "9", Close: "11"},
		"2024-02-29": {Open: "ten", High: "12", Low: "9", Close: "11"},
		"2024-03-28": {Open: "10", High: "12", Low: "9", Close: "0"},
	})

	if len(bars) != 1 {
		t.Fatalf("expected 1 bar, got %d", len(bars))
	}
	if skipped != 3 {
		t.Errorf("expected 3 skipped, got %d", skipped)
	}
}
