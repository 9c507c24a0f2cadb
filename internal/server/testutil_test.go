package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bobmcallan/trendmap/internal/app"
	"github.com/bobmcallan/trendmap/internal/common"
)

// fakeUpstream serves Polygon, Alpha Vantage and Finnhub responses from a
// single test server. Maps hold the number of monthly bars per symbol.
type fakeUpstream struct {
	polygon      map[string]int
	alphaVantage map[string]int
	finnhub      map[string]int
	calls        map[string]int
}

func (f *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	start := time.Date(2019, time.January, 1, 0, 0, 0, 0, time.UTC)

	switch {
	case strings.HasPrefix(r.URL.Path, "/v2/aggs/ticker/"):
		f.calls["polygon"]++
		symbol, _, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/v2/aggs/ticker/"), "/")
		n := f.polygon[symbol]
		results := make([]map[string]interface{}, n)
		for i := range results {
			open := 100 + float64(i)
			results[i] = map[string]interface{}{
				"t": start.AddDate(0, i, 0).UnixMilli(), "o": open, "h": open + 5, "l": open - 5, "c": open + 2, "v": 1000,
			}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"status": "OK", "resultsCount": n, "results": results})

	case r.URL.Path == "/query":
		f.calls["alphavantage"]++
		n := f.alphaVantage[r.URL.Query().Get("symbol")]
		if n == 0 {
			json.NewEncoder(w).Encode(map[string]string{"Error Message": "Invalid API call."})
			return
		}
		series := map[string]map[string]string{}
		for i := 0; i < n; i++ {
			d := start.AddDate(0, i+1, -1)
			series[d.Format("2006-01-02")] = map[string]string{
				"1. open": "50.00", "2. high": "55.00", "3. low": "45.00", "4. close": "52.00", "5. volume": "1000",
			}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"Monthly Time Series": series})

	case r.URL.Path == "/stock/candle":
		f.calls["finnhub"]++
		n := f.finnhub[r.URL.Query().Get("symbol")]
		if n == 0 {
			json.NewEncoder(w).Encode(map[string]string{"s": "no_data"})
			return
		}
		resp := map[string][]float64{}
		ts := make([]int64, n)
		for i := 0; i < n; i++ {
			ts[i] = start.AddDate(0, i, 0).Unix()
			resp["o"] = append(resp["o"], 30000)
			resp["h"] = append(resp["h"], 32000)
			resp["l"] = append(resp["l"], 29000)
			resp["c"] = append(resp["c"], 31000)
			resp["v"] = append(resp["v"], 10)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"s": "ok", "t": ts, "o": resp["o"], "h": resp["h"], "l": resp["l"], "c": resp["c"], "v": resp["v"],
		})

	default:
		http.NotFound(w, r)
	}
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{
		polygon:      map[string]int{},
		alphaVantage: map[string]int{},
		finnhub:      map[string]int{},
		calls:        map[string]int{},
	}
}

// newTestServer builds a server whose providers all point at upstream.
// With withKeys false no provider is configured.
func newTestServer(t *testing.T, upstream *fakeUpstream, withKeys bool) http.Handler {
	t.Helper()

	ts := httptest.NewServer(upstream)
	t.Cleanup(ts.Close)

	cfg := common.NewDefaultConfig()
	cfg.Providers.Polygon.BaseURL = ts.URL
	cfg.Providers.AlphaVantage.BaseURL = ts.URL
	cfg.Providers.AlphaVantage.RateLimit = 100
	cfg.Providers.Finnhub.BaseURL = ts.URL
	if withKeys {
		cfg.Providers.Polygon.APIKey = "poly"
		cfg.Providers.AlphaVantage.APIKey = "av"
		cfg.Providers.Finnhub.APIKey = "fh"
	}

	a, err := app.NewAppWithConfig(cfg, common.NewSilentLogger())
	if err != nil {
		t.Fatalf("NewAppWithConfig failed: %v", err)
	}
	return NewServer(a).Handler()
}

func doGet(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(rr.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
}
