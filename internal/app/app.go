// Package app wires configuration, provider clients and services into the
// shared core used by cmd/trendmap-server.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/trendmap/internal/clients/alphavantage"
	"github.com/bobmcallan/trendmap/internal/clients/finnhub"
	"github.com/bobmcallan/trendmap/internal/clients/polygon"
	"github.com/bobmcallan/trendmap/internal/common"
	"github.com/bobmcallan/trendmap/internal/interfaces"
	"github.com/bobmcallan/trendmap/internal/models"
	"github.com/bobmcallan/trendmap/internal/services/series"
	"github.com/bobmcallan/trendmap/internal/services/symbols"
	"github.com/bobmcallan/trendmap/internal/services/trends"
)

// App holds all initialized clients and services.
type App struct {
	Config        *common.Config
	Logger        *common.Logger
	Polygon       interfaces.PriceProvider
	AlphaVantage  interfaces.PriceProvider
	Finnhub       interfaces.PriceProvider
	SeriesService interfaces.SeriesService
	TrendService  interfaces.TrendService
	Symbols       interfaces.SymbolLookup
	StartupTime   time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// ResolveConfigPath picks the config file: the explicit path, then
// TRENDMAP_CONFIG, then trendmap.toml next to the binary, then
// config/trendmap.toml for development.
func ResolveConfigPath(configPath string) string {
	if configPath == "" {
		configPath = os.Getenv("TRENDMAP_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "trendmap.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/trendmap.toml"
		}
	}
	return configPath
}

// NewApp loads configuration and initializes all clients and services.
// configPath may be empty, in which case ResolveConfigPath decides.
func NewApp(configPath string) (*App, error) {
	common.LoadVersionFromFile()

	config, err := common.LoadConfig(ResolveConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative log file path to binary directory
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(getBinaryDir(), config.Logging.FilePath)
	}

	return NewAppWithConfig(config, common.NewLoggerFromConfig(config.Logging))
}

// NewAppWithConfig initializes clients and services from an already loaded config.
func NewAppWithConfig(config *common.Config, logger *common.Logger) (*App, error) {
	startupStart := time.Now()
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	a := &App{
		Config:      config,
		Logger:      logger,
		StartupTime: startupStart,
	}

	// A provider without a key stays a nil interface so the fetcher skips it.
	pc := config.Providers
	if pc.Polygon.APIKey != "" {
		a.Polygon = polygon.NewClient(pc.Polygon.APIKey,
			polygon.WithBaseURL(pc.Polygon.BaseURL),
			polygon.WithLogger(logger),
			polygon.WithRateLimit(pc.Polygon.RateLimit),
			polygon.WithTimeout(pc.Polygon.GetTimeout()),
			polygon.WithRetries(pc.Polygon.Retries),
			polygon.WithDateRange(pc.Polygon.From, pc.Polygon.To),
		)
	} else {
		logger.Warn().Msg("Polygon.io API key not configured - deep history lookups unavailable")
	}

	if pc.AlphaVantage.APIKey != "" {
		a.AlphaVantage = alphavantage.NewClient(pc.AlphaVantage.APIKey,
			alphavantage.WithBaseURL(pc.AlphaVantage.BaseURL),
			alphavantage.WithLogger(logger),
			alphavantage.WithRateLimit(pc.AlphaVantage.RateLimit),
			alphavantage.WithTimeout(pc.AlphaVantage.GetTimeout()),
			alphavantage.WithRetries(pc.AlphaVantage.Retries),
		)
	} else {
		logger.Warn().Msg("Alpha Vantage API key not configured - fallback provider unavailable")
	}

	if pc.Finnhub.APIKey != "" {
		a.Finnhub = finnhub.NewClient(pc.Finnhub.APIKey,
			finnhub.WithBaseURL(pc.Finnhub.BaseURL),
			finnhub.WithLogger(logger),
			finnhub.WithRateLimit(pc.Finnhub.RateLimit),
			finnhub.WithTimeout(pc.Finnhub.GetTimeout()),
			finnhub.WithRetries(pc.Finnhub.Retries),
			finnhub.WithLookbackYears(pc.Finnhub.LookbackYears),
		)
	} else {
		logger.Warn().Msg("Finnhub API key not configured - crypto pairs unavailable")
	}

	symbolService, err := symbols.NewService(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load symbol catalog: %w", err)
	}
	a.Symbols = symbolService

	// Initialize services
	seriesService := series.NewService(a.Polygon, a.AlphaVantage, a.Finnhub, logger,
		series.WithMinMonths(pc.Polygon.MinMonths),
		series.WithProviderTimeout(models.SourcePolygon, pc.Polygon.GetTimeout()),
		series.WithProviderTimeout(models.SourceAlphaVantage, pc.AlphaVantage.GetTimeout()),
		series.WithProviderTimeout(models.SourceFinnhub, pc.Finnhub.GetTimeout()),
		series.WithHint(symbolService.Hint()),
	)
	a.SeriesService = seriesService

	an := config.Analytics
	a.TrendService = trends.NewService(seriesService, logger,
		trends.WithStrictPeriodKeys(an.StrictPeriodKeys),
		trends.WithThresholds(toThresholds(an.CellThresholds), toThresholds(an.TotalThresholds)),
	)

	logger.Info().
		Strs("providers", config.ConfiguredProviders()).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

func toThresholds(c common.ThresholdsConfig) models.Thresholds {
	return models.Thresholds{
		StrongGain: c.StrongGain,
		Gain:       c.Gain,
		SlightGain: c.SlightGain,
		SlightLoss: c.SlightLoss,
		Loss:       c.Loss,
	}
}
