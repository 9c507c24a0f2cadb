package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bobmcallan/trendmap/internal/models"
	"github.com/bobmcallan/trendmap/internal/services/trends"
)

// --- Price data handlers ---

func (s *Server) handleStockData(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	symbol, ok := requireSymbol(w, r)
	if !ok {
		return
	}

	series, err := s.app.SeriesService.Fetch(r.Context(), symbol)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, series)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	symbol, ok := requireSymbol(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := s.app.TrendService.Chart(r.Context(), symbol, QueryParam(r, "type"), &buf); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// --- Analytics handlers ---

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	report, ok := s.analyze(w, r)
	if !ok {
		return
	}

	WriteJSON(w, http.StatusOK, report)
}

func (s *Server) handleTrendsExport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	exporter, err := trends.NewExporter(QueryParam(r, "format"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, ok := s.analyze(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := exporter.Export(&buf, report.Periods); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	filename := fmt.Sprintf("%s-%s-%s.%s", report.Symbol, report.Timeframe, report.Range, exporter.Format())
	w.Header().Set("Content-Type", exporter.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// analyze parses the shared symbol/timeframe/range parameters and runs the
// trend service. On failure the error response is already written.
func (s *Server) analyze(w http.ResponseWriter, r *http.Request) (*models.TrendReport, bool) {
	symbol, ok := requireSymbol(w, r)
	if !ok {
		return nil, false
	}

	g, err := models.ParseGranularity(QueryParam(r, "timeframe"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	rng, err := models.ParseRange(QueryParam(r, "range"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	report, err := s.app.TrendService.Analyze(r.Context(), symbol, g, rng)
	if err != nil {
		s.writeServiceError(w, r, err)
		return nil, false
	}
	return report, true
}

// --- Lookup handlers ---

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}

	results := s.app.Symbols.Search(QueryParam(r, "q"), QueryInt(r, "limit", 0))

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"results":  results,
		"examples": s.app.Symbols.Examples(),
	})
}

// --- Shared ---

func requireSymbol(w http.ResponseWriter, r *http.Request) (string, bool) {
	symbol := QueryParam(r, "symbol")
	if symbol == "" {
		WriteError(w, http.StatusBadRequest, "Symbol is required")
		return "", false
	}
	return symbol, true
}

// writeServiceError maps service errors onto HTTP responses.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound *models.NotFoundError
	switch {
	case errors.As(err, &notFound):
		hint := notFound.Hint
		if hint == "" {
			hint = models.NotFoundHint
		}
		WriteErrorWithHint(w, http.StatusNotFound, capitalize(notFound.Error()), hint)
	case errors.Is(err, models.ErrInvalidRequest):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrEmptyInput):
		WriteError(w, http.StatusUnprocessableEntity, "Not enough data: "+err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		WriteError(w, http.StatusGatewayTimeout, "Request timed out")
	default:
		s.logger.Error().
			Err(err).
			Str("path", r.URL.Path).
			Str("query", r.URL.RawQuery).
			Msg("Request failed")
		WriteError(w, http.StatusInternalServerError, err.Error())
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
