package rate

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ferrepos/backend/internal/domain/sale"
)

// RateResponse represents the current exchange rate in API responses
type RateResponse struct {
	Rate      decimal.Decimal `json:"rate"`
	Source    string          `json:"source"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// RateService serves the informational exchange rate endpoint. The
// provider handed in here may fall back to a configured rate; the sale
// path uses its own provider without that net.
type RateService struct {
	provider sale.RateProvider
	logger   *zap.Logger
}

// NewRateService creates a new RateService
func NewRateService(provider sale.RateProvider, logger *zap.Logger) *RateService {
	return &RateService{
		provider: provider,
		logger:   logger,
	}
}

// CurrentRate returns the current VES-per-USD quote
func (s *RateService) CurrentRate(ctx context.Context) (*RateResponse, error) {
	quote, err := s.provider.CurrentRate(ctx)
	if err != nil {
		return nil, err
	}

	return &RateResponse{
		Rate:      quote.Rate,
		Source:    quote.Source,
		FetchedAt: quote.FetchedAt,
	}, nil
}
