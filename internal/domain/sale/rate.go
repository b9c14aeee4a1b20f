package sale

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Rate sources
const (
	RateSourceProvider = "provider"
	RateSourceCache    = "cache"
	RateSourceFallback = "fallback"
)

// ExchangeRate is a VES-per-USD quote frozen at fetch time
type ExchangeRate struct {
	Rate      decimal.Decimal `json:"rate"`
	Source    string          `json:"source"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// IsUsable returns true when the quote can price a sale
func (r ExchangeRate) IsUsable() bool {
	return r.Rate.IsPositive()
}

// RateProvider serves the current VES-per-USD exchange rate.
// Implementations must never return a non-positive rate without an error.
type RateProvider interface {
	CurrentRate(ctx context.Context) (ExchangeRate, error)
}
