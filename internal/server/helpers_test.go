package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequireMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodHead, "/api/health", nil)
	rr := httptest.NewRecorder()
	if !RequireMethod(rr, req, http.MethodGet, http.MethodHead) {
		t.Error("HEAD should be allowed")
	}

	req = httptest.NewRequest(http.MethodDelete, "/api/health", nil)
	rr = httptest.NewRecorder()
	if RequireMethod(rr, req, http.MethodGet, http.MethodHead) {
		t.Error("DELETE should be rejected")
	}
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", rr.Code)
	}
}

func TestQueryInt(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 7},
		{"limit=3", 3},
		{"limit=abc", 7},
		{"limit=%20%205%20", 5},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/symbols?"+tt.query, nil)
		if got := QueryInt(req, "limit", 7); got != tt.want {
			t.Errorf("QueryInt(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}

func TestWriteErrorWithHint_OmitsEmptyHint(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, http.StatusBadRequest, "Symbol is required")

	if got := rr.Body.String(); got != "{\"error\":\"Symbol is required\"}\n" {
		t.Errorf("Unexpected body %q", got)
	}

	rr = httptest.NewRecorder()
	WriteErrorWithHint(rr, http.StatusNotFound, "No data", "Try AAPL")
	if got := rr.Body.String(); got != "{\"error\":\"No data\",\"hint\":\"Try AAPL\"}\n" {
		t.Errorf("Unexpected body %q", got)
	}
}
