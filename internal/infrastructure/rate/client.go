package rate

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/ferrepos/backend/internal/domain/sale"
	"github.com/ferrepos/backend/internal/domain/shared"
	"github.com/ferrepos/backend/internal/infrastructure/config"
)

// quoteResponse mirrors the provider's JSON payload
type quoteResponse struct {
	ExchangeRate float64 `json:"exchangeRate"`
	Date         string  `json:"date"`
}

// Client fetches the official VES-per-USD rate from the upstream
// provider. Every sale freezes the rate this client returns, so a
// non-positive or unparseable quote is reported as an error, never
// silently substituted.
type Client struct {
	http *resty.Client
	url  string
}

// NewClient creates a provider client from configuration
func NewClient(cfg config.RateConfig) *Client {
	httpClient := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(2).
		SetRetryWaitTime(200 * time.Millisecond).
		SetHeader("Accept", "application/json")

	return &Client{
		http: httpClient,
		url:  cfg.ProviderURL,
	}
}

// CurrentRate fetches the current exchange rate from the provider
func (c *Client) CurrentRate(ctx context.Context) (sale.ExchangeRate, error) {
	var quote quoteResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&quote).
		Get(c.url)
	if err != nil {
		return sale.ExchangeRate{}, fmt.Errorf("rate provider request failed: %w", err)
	}
	if resp.IsError() {
		return sale.ExchangeRate{}, fmt.Errorf("rate provider returned status %d", resp.StatusCode())
	}

	rate := decimal.NewFromFloat(quote.ExchangeRate)
	if !rate.IsPositive() {
		return sale.ExchangeRate{}, shared.ErrUpstreamUnavailable
	}

	return sale.ExchangeRate{
		Rate:      rate,
		Source:    sale.RateSourceProvider,
		FetchedAt: time.Now(),
	}, nil
}

// Ensure Client implements RateProvider
var _ sale.RateProvider = (*Client)(nil)
