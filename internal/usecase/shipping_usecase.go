package usecase

import (
	"context"
	"time"

	"bottega-backend/internal/domain"
	"bottega-backend/internal/pricing"
	"bottega-backend/pkg/cache"
	"bottega-backend/pkg/logger"
)

// activeConfigCacheKey caches the active configuration for the session
// window; the configuration changes rarely and re-fetching it per quote
// would put a DB round trip on every pricing computation.
const activeConfigCacheKey = "pricing:shipping-config:active"

type ShippingUsecase struct {
	configRepo domain.ShippingConfigRepository
	cache      cache.CacheService
	configTTL  time.Duration
}

func NewShippingUsecase(configRepo domain.ShippingConfigRepository, cache cache.CacheService, configTTL time.Duration) *ShippingUsecase {
	return &ShippingUsecase{
		configRepo: configRepo,
		cache:      cache,
		configTTL:  configTTL,
	}
}

// ActiveConfiguration returns the cached active configuration, fetching it
// on a cache miss. Returns (nil, nil) when none has been published.
func (u *ShippingUsecase) ActiveConfiguration(ctx context.Context) (*domain.ShippingConfiguration, error) {
	if val, found := u.cache.Get(activeConfigCacheKey); found {
		if cfg, ok := val.(*domain.ShippingConfiguration); ok {
			return cfg, nil
		}
	}

	cfg, err := u.configRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		u.cache.Set(activeConfigCacheKey, cfg, u.configTTL)
	}
	return cfg, nil
}

// Quote resolves a shipping cost for the cart facts in. A failed or absent
// configuration fetch surfaces as the config_unavailable outcome rather
// than an error: the storefront shows it as "retry shortly", never a price.
func (u *ShippingUsecase) Quote(ctx context.Context, in pricing.QuoteInput) pricing.CostOutcome {
	cfg, err := u.ActiveConfiguration(ctx)
	if err != nil {
		logger.WithContext(ctx).Warn().Err(err).Msg("Shipping configuration fetch failed")
		cfg = nil
	}
	return pricing.ResolveShippingCost(in, cfg)
}

// Zones returns the static zone registry in display order.
func (u *ShippingUsecase) Zones() []domain.Zone {
	return domain.ZoneList()
}

// InvalidateConfigCache drops the cached configuration. Called by the admin
// write path after a replace.
func (u *ShippingUsecase) InvalidateConfigCache() {
	u.cache.Delete(activeConfigCacheKey)
}
