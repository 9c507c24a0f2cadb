// Package symbols serves the static ticker catalog used for search
// suggestions and not-found hints.
package symbols

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/bobmcallan/trendmap/internal/common"
	"github.com/bobmcallan/trendmap/internal/interfaces"
	"github.com/bobmcallan/trendmap/internal/models"
)

// DefaultLimit caps search results when the caller gives no limit.
const DefaultLimit = 10

//go:embed catalog.yaml
var embeddedCatalog []byte

type catalogFile struct {
	Symbols  []models.SymbolInfo       `yaml:"symbols"`
	Examples models.AssetClassExamples `yaml:"examples"`
}

// Service implements SymbolLookup over an in-memory catalog
type Service struct {
	entries  []models.SymbolInfo
	examples models.AssetClassExamples
	logger   *common.Logger
}

// NewService loads the embedded catalog
func NewService(logger *common.Logger) (*Service, error) {
	return NewServiceFromYAML(embeddedCatalog, logger)
}

// NewServiceFromYAML loads a catalog from raw YAML
func NewServiceFromYAML(data []byte, logger *common.Logger) (*Service, error) {
	if logger == nil {
		logger = common.NewSilentLogger()
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse symbol catalog: %w", err)
	}

	entries := make([]models.SymbolInfo, 0, len(file.Symbols))
	for _, e := range file.Symbols {
		e.Symbol = strings.ToUpper(strings.TrimSpace(e.Symbol))
		if e.Symbol == "" {
			continue
		}
		entries = append(entries, e)
	}

	logger.Debug().Int("symbols", len(entries)).Msg("Symbol catalog loaded")

	return &Service{entries: entries, examples: file.Examples, logger: logger}, nil
}

// Search returns catalog entries whose symbol or upper-cased name contains
// the upper-cased query, in catalog order. An empty query matches nothing.
func (s *Service) Search(query string, limit int) []models.SymbolInfo {
	q := strings.ToUpper(strings.TrimSpace(query))
	results := []models.SymbolInfo{}
	if q == "" {
		return results
	}
	if limit <= 0 || limit > DefaultLimit {
		limit = DefaultLimit
	}

	for _, e := range s.entries {
		if strings.Contains(e.Symbol, q) || strings.Contains(strings.ToUpper(e.Name), q) {
			results = append(results, e)
			if len(results) == limit {
				break
			}
		}
	}
	return results
}

// Examples returns example tickers per asset class
func (s *Service) Examples() models.AssetClassExamples {
	return s.examples
}

// Hint renders the example lists as a not-found hint. Falls back to the
// built-in hint when the catalog has no examples.
func (s *Service) Hint() string {
	ex := s.examples
	if len(ex.Stocks) == 0 && len(ex.ETFs) == 0 && len(ex.Forex) == 0 && len(ex.Crypto) == 0 {
		return models.NotFoundHint
	}

	var parts []string
	add := func(label string, symbols []string) {
		if len(symbols) == 0 {
			return
		}
		if len(symbols) > 3 {
			symbols = symbols[:3]
		}
		parts = append(parts, label+" like "+strings.Join(symbols, ", "))
	}
	add("stock symbols", ex.Stocks)
	add("ETFs", ex.ETFs)
	add("forex pairs", ex.Forex)
	add("crypto pairs", ex.Crypto)

	return "Try " + strings.Join(parts, "; ") + "."
}

// Ensure Service implements SymbolLookup
var _ interfaces.SymbolLookup = (*Service)(nil)
