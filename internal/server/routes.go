package server

import (
	"net/http"
	"time"

	"github.com/bobmcallan/trendmap/internal/common"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Price data
	mux.HandleFunc("/api/stock-data", s.handleStockData)
	mux.HandleFunc("/api/chart", s.handleChart)

	// Analytics
	mux.HandleFunc("/api/trends", s.handleTrends)
	mux.HandleFunc("/api/trends/export", s.handleTrendsExport)

	// Lookup
	mux.HandleFunc("/api/symbols", s.handleSymbols)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"providers": append([]string{}, s.app.Config.ConfiguredProviders()...),
		"uptime":    time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}
