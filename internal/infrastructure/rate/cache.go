package rate

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ferrepos/backend/internal/domain/sale"
)

const cacheKey = "ferrepos:rate:current"

// CachedProvider decorates a RateProvider with a Redis cache so a burst
// of sales does not hammer the upstream. Cache entries keep the original
// fetch timestamp; only the source is rewritten to mark the hit.
type CachedProvider struct {
	inner  sale.RateProvider
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedProvider creates a caching decorator around inner
func NewCachedProvider(inner sale.RateProvider, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedProvider {
	return &CachedProvider{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// CurrentRate returns the cached quote when fresh, otherwise fetches
// from the inner provider and refills the cache.
func (p *CachedProvider) CurrentRate(ctx context.Context) (sale.ExchangeRate, error) {
	payload, err := p.client.Get(ctx, cacheKey).Bytes()
	if err == nil {
		var cached sale.ExchangeRate
		if jsonErr := json.Unmarshal(payload, &cached); jsonErr == nil && cached.IsUsable() {
			cached.Source = sale.RateSourceCache
			return cached, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		p.logger.Warn("rate cache read failed", zap.Error(err))
	}

	fresh, err := p.inner.CurrentRate(ctx)
	if err != nil {
		return sale.ExchangeRate{}, err
	}

	if payload, err := json.Marshal(fresh); err == nil {
		if err := p.client.Set(ctx, cacheKey, payload, p.ttl).Err(); err != nil {
			p.logger.Warn("rate cache write failed", zap.Error(err))
		}
	}

	return fresh, nil
}

// Ensure CachedProvider implements RateProvider
var _ sale.RateProvider = (*CachedProvider)(nil)
