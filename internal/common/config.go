// Package common provides shared utilities for Trendmap
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Trendmap
type Config struct {
	Environment string          `toml:"environment"`
	Server      ServerConfig    `toml:"server"`
	Providers   ProvidersConfig `toml:"providers"`
	Analytics   AnalyticsConfig `toml:"analytics"`
	Logging     LoggingConfig   `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ProvidersConfig holds the upstream price providers, in fallback order.
type ProvidersConfig struct {
	Polygon      PolygonConfig      `toml:"polygon"`
	AlphaVantage AlphaVantageConfig `toml:"alphavantage"`
	Finnhub      FinnhubConfig      `toml:"finnhub"`
}

// ProviderConfig holds the settings shared by every provider client.
type ProviderConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
	Retries   int    `toml:"retries"` // extra attempts on 5xx/network errors; 0 = single call
}

// GetTimeout parses and returns the timeout duration
func (c *ProviderConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// PolygonConfig holds Polygon.io configuration
type PolygonConfig struct {
	ProviderConfig
	From      string `toml:"from"`
	To        string `toml:"to"`
	MinMonths int    `toml:"min_months"`
}

// AlphaVantageConfig holds Alpha Vantage configuration
type AlphaVantageConfig struct {
	ProviderConfig
}

// FinnhubConfig holds Finnhub configuration
type FinnhubConfig struct {
	ProviderConfig
	LookbackYears int `toml:"lookback_years"`
}

// AnalyticsConfig controls period filtering and heatmap classification.
type AnalyticsConfig struct {
	StrictPeriodKeys bool             `toml:"strict_period_keys"`
	CellThresholds   ThresholdsConfig `toml:"cell_thresholds"`
	TotalThresholds  ThresholdsConfig `toml:"total_thresholds"`
}

// ThresholdsConfig holds the lower bound (inclusive, in percent) of each color bucket.
type ThresholdsConfig struct {
	StrongGain float64 `toml:"strong_gain"`
	Gain       float64 `toml:"gain"`
	SlightGain float64 `toml:"slight_gain"`
	SlightLoss float64 `toml:"slight_loss"`
	Loss       float64 `toml:"loss"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Format     string   `toml:"format"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

func defaultThresholds() ThresholdsConfig {
	return ThresholdsConfig{StrongGain: 10, Gain: 5, SlightGain: 0, SlightLoss: -5, Loss: -10}
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Providers: ProvidersConfig{
			Polygon: PolygonConfig{
				ProviderConfig: ProviderConfig{
					BaseURL:   "https://api.polygon.io",
					RateLimit: 5,
					Timeout:   "15s",
				},
				From:      "2020-01-01",
				To:        "2025-12-31",
				MinMonths: 60,
			},
			AlphaVantage: AlphaVantageConfig{
				ProviderConfig: ProviderConfig{
					BaseURL:   "https://www.alphavantage.co",
					RateLimit: 1,
					Timeout:   "15s",
				},
			},
			Finnhub: FinnhubConfig{
				ProviderConfig: ProviderConfig{
					BaseURL:   "https://finnhub.io/api/v1",
					RateLimit: 30,
					Timeout:   "15s",
				},
				LookbackYears: 10,
			},
		},
		Analytics: AnalyticsConfig{
			CellThresholds:  defaultThresholds(),
			TotalThresholds: defaultThresholds(),
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			Outputs:    []string{"console"},
			FilePath:   "./logs/trendmap.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// A .env file in the working directory, when present, is loaded before the
// environment overrides are applied. Variables already set are not replaced.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	loadDotEnv(".env")
	applyEnvOverrides(config)

	return config, nil
}

// loadDotEnv loads a dotenv file if it exists. A missing file is not an error.
func loadDotEnv(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = godotenv.Load(path)
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("TRENDMAP_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("TRENDMAP_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("TRENDMAP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("TRENDMAP_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if v := os.Getenv("TRENDMAP_STRICT_PERIOD_KEYS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Analytics.StrictPeriodKeys = b
		}
	}

	config.Providers.Polygon.APIKey = ResolveAPIKey("polygon_api_key", config.Providers.Polygon.APIKey)
	config.Providers.AlphaVantage.APIKey = ResolveAPIKey("alphavantage_api_key", config.Providers.AlphaVantage.APIKey)
	config.Providers.Finnhub.APIKey = ResolveAPIKey("finnhub_api_key", config.Providers.Finnhub.APIKey)
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ConfiguredProviders returns the names of providers that have a credential.
func (c *Config) ConfiguredProviders() []string {
	var names []string
	if c.Providers.Polygon.APIKey != "" {
		names = append(names, "polygon")
	}
	if c.Providers.AlphaVantage.APIKey != "" {
		names = append(names, "alphavantage")
	}
	if c.Providers.Finnhub.APIKey != "" {
		names = append(names, "finnhub")
	}
	return names
}

// ResolveAPIKey resolves an API key from the environment, falling back to the
// configured value. An empty result means the provider is not configured.
func ResolveAPIKey(name string, fallback string) string {
	keyToEnvMapping := map[string][]string{
		"polygon_api_key":      {"POLYGON_API_KEY", "TRENDMAP_POLYGON_API_KEY"},
		"alphavantage_api_key": {"ALPHA_VANTAGE_API_KEY", "TRENDMAP_ALPHA_VANTAGE_API_KEY", "NEXT_PUBLIC_ALPHA_VANTAGE_API_KEY"},
		"finnhub_api_key":      {"FINNHUB_API_KEY", "TRENDMAP_FINNHUB_API_KEY"},
	}

	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := strings.TrimSpace(os.Getenv(envVarName)); envValue != "" {
				return envValue
			}
		}
	}

	return strings.TrimSpace(fallback)
}
