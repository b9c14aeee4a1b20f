package rate

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ferrepos/backend/internal/domain/sale"
)

// FallbackProvider returns a configured reference rate when the inner
// provider fails. It backs the informational rate endpoint only; the
// sale path uses the undecorated provider because charging customers
// against a stale constant is worse than refusing the sale.
type FallbackProvider struct {
	inner    sale.RateProvider
	fallback decimal.Decimal
	logger   *zap.Logger
}

// NewFallbackProvider creates a fallback decorator around inner
func NewFallbackProvider(inner sale.RateProvider, fallback decimal.Decimal, logger *zap.Logger) *FallbackProvider {
	return &FallbackProvider{
		inner:    inner,
		fallback: fallback,
		logger:   logger,
	}
}

// CurrentRate returns the inner provider's quote, or the configured
// fallback when the provider is unreachable.
func (p *FallbackProvider) CurrentRate(ctx context.Context) (sale.ExchangeRate, error) {
	quote, err := p.inner.CurrentRate(ctx)
	if err == nil {
		return quote, nil
	}

	p.logger.Warn("rate provider unavailable, serving fallback rate",
		zap.Error(err),
		zap.String("fallback_rate", p.fallback.String()))

	return sale.ExchangeRate{
		Rate:      p.fallback,
		Source:    sale.RateSourceFallback,
		FetchedAt: time.Now(),
	}, nil
}

// Ensure FallbackProvider implements RateProvider
var _ sale.RateProvider = (*FallbackProvider)(nil)
