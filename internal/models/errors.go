package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRequest marks caller input that cannot be served.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotFound means every reachable provider was exhausted without data.
	ErrNotFound = errors.New("no data found")
	// ErrMisconfiguredProvider means no provider credential is configured.
	ErrMisconfiguredProvider = errors.New("no price provider configured")
	// ErrEmptyInput is returned by calculators handed an empty period list.
	ErrEmptyInput = errors.New("empty input")
	// ErrInvalidPeriodKey is returned when a period tag cannot be decoded.
	ErrInvalidPeriodKey = errors.New("invalid period key")

	// ErrProviderUnavailable wraps a single provider's transport or decode failure.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrNoData means a provider answered but had nothing for the symbol.
	ErrNoData = errors.New("provider returned no data")
	// ErrRateLimited means a provider refused the call due to quota.
	ErrRateLimited = errors.New("provider rate limited")
)

// NotFoundHint lists example tickers per asset class.
const NotFoundHint = "Try stock symbols like AAPL, MSFT or NVDA; ETFs like SPY or QQQ; " +
	"forex pairs like EURUSD; or crypto pairs like BTCUSD and ETHUSD."

// NotFoundError reports that no provider produced an acceptable series.
// Symbol is the text as the caller sent it.
type NotFoundError struct {
	Symbol        string
	Hint          string
	Misconfigured bool
}

func (e *NotFoundError) Error() string {
	if e.Misconfigured {
		return fmt.Sprintf("no data found for symbol %q: no price provider is configured", e.Symbol)
	}
	return fmt.Sprintf("no data found for symbol %q", e.Symbol)
}

// Unwrap lets errors.Is match ErrNotFound or ErrMisconfiguredProvider.
func (e *NotFoundError) Unwrap() error {
	if e.Misconfigured {
		return ErrMisconfiguredProvider
	}
	return ErrNotFound
}

// Is lets a misconfiguration also satisfy errors.Is(err, ErrNotFound).
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
