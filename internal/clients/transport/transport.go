// Package transport provides the rate-limited, retrying JSON GET shared by
// the price provider clients.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/bobmcallan/trendmap/internal/common"
	"github.com/bobmcallan/trendmap/internal/models"
)

// maxErrorBody caps how much of a failed response body is kept in APIError.
const maxErrorBody = 512

// APIError represents a non-2xx provider response
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API error: %s (status: %d, endpoint: %s)", e.Provider, e.Message, e.StatusCode, e.Endpoint)
}

// Unwrap classifies the status into a provider sentinel.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusTooManyRequests:
		return models.ErrRateLimited
	case e.StatusCode == http.StatusNotFound:
		return models.ErrNoData
	default:
		return models.ErrProviderUnavailable
	}
}

// Retryable reports whether a later attempt could succeed.
func (e *APIError) Retryable() bool {
	return e.StatusCode >= 500
}

// Getter performs GET requests for one provider.
type Getter struct {
	Provider   string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	Logger     *common.Logger
	Retries    int
	// InitialBackoff is the first retry delay; zero uses 250ms.
	InitialBackoff time.Duration
}

// GetJSON fetches reqURL and decodes the body into result. endpoint is the
// credential-free path used in logs and errors. Network failures and 5xx
// responses are retried up to Retries extra times; everything else fails at
// once.
func (g *Getter) GetJSON(ctx context.Context, endpoint, reqURL string, result interface{}) error {
	attempt := 0
	operation := func() error {
		attempt++
		err := g.getOnce(ctx, endpoint, reqURL, result)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Retryable() {
			return backoff.Permanent(err)
		}
		if errors.Is(err, errDecode) {
			return backoff.Permanent(err)
		}
		if attempt <= g.Retries {
			g.Logger.Debug().Err(err).Str("provider", g.Provider).Str("endpoint", endpoint).Int("attempt", attempt).Msg("Retrying provider request")
		}
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = g.InitialBackoff
	if b.InitialInterval <= 0 {
		b.InitialInterval = 250 * time.Millisecond
	}
	retries := g.Retries
	if retries < 0 {
		retries = 0
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)

	return backoff.Retry(operation, policy)
}

var errDecode = errors.New("decode response")

func (g *Getter) getOnce(ctx context.Context, endpoint, reqURL string, result interface{}) error {
	if g.Limiter != nil {
		if err := g.Limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit wait: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	g.Logger.Debug().Str("provider", g.Provider).Str("endpoint", endpoint).Msg("Provider API request")

	start := time.Now()
	resp, err := g.HTTPClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		g.Logger.Warn().Err(err).Str("provider", g.Provider).Str("endpoint", endpoint).Dur("elapsed", elapsed).Msg("Provider API request failed")
		return fmt.Errorf("%w: %w", models.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		g.Logger.Warn().Str("provider", g.Provider).Str("endpoint", endpoint).Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("Provider API non-OK response")
		return &APIError{
			Provider:   g.Provider,
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   endpoint,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: %w: %w", models.ErrProviderUnavailable, errDecode, err)
	}

	g.Logger.Debug().Str("provider", g.Provider).Str("endpoint", endpoint).Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("Provider API call")
	return nil
}
