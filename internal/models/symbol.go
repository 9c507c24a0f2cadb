package models

// SymbolInfo is one entry of the symbol lookup catalog.
type SymbolInfo struct {
	Symbol   string `json:"symbol" yaml:"symbol"`
	Name     string `json:"name" yaml:"name"`
	Exchange string `json:"exchange" yaml:"exchange"`
	Country  string `json:"country" yaml:"country"`
}

// AssetClassExamples groups example tickers by asset class.
type AssetClassExamples struct {
	Stocks []string `json:"stocks" yaml:"stocks"`
	ETFs   []string `json:"etfs" yaml:"etfs"`
	Forex  []string `json:"forex" yaml:"forex"`
	Crypto []string `json:"crypto" yaml:"crypto"`
}
