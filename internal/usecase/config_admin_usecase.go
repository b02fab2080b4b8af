package usecase

import (
	"context"

	"bottega-backend/internal/domain"
	"bottega-backend/internal/pricing"
	"bottega-backend/pkg/logger"
)

// ConfigArchiver stores retired configuration snapshots out of band.
type ConfigArchiver interface {
	ArchiveConfiguration(ctx context.Context, cfg *domain.ShippingConfiguration) (key string, err error)
}

// ConfigAdminUsecase is the administrative write path for the shipping
// configuration. The storefront read path never goes through here.
type ConfigAdminUsecase struct {
	configRepo domain.ShippingConfigRepository
	shipping   *ShippingUsecase
	archive    ConfigArchiver // optional
}

func NewConfigAdminUsecase(configRepo domain.ShippingConfigRepository, shipping *ShippingUsecase, archive ConfigArchiver) *ConfigAdminUsecase {
	return &ConfigAdminUsecase{
		configRepo: configRepo,
		shipping:   shipping,
		archive:    archive,
	}
}

// ReplaceConfiguration validates candidate and, when every rule holds,
// atomically replaces the active configuration. On validation failure the
// full violations list comes back and the active configuration stays in
// force untouched. Field-level patches deliberately do not exist: a partial
// write could pair new tiers with stale costs.
func (u *ConfigAdminUsecase) ReplaceConfiguration(ctx context.Context, candidate *domain.ShippingConfiguration) (*domain.ShippingConfiguration, []pricing.Violation, error) {
	if violations := pricing.ValidateConfiguration(candidate); len(violations) > 0 {
		return nil, violations, nil
	}

	previous, err := u.configRepo.GetActive(ctx)
	if err != nil {
		return nil, nil, err
	}

	stored, err := u.configRepo.Replace(ctx, candidate)
	if err != nil {
		return nil, nil, err
	}

	u.shipping.InvalidateConfigCache()

	// Archive the retired version for audit. Failures are logged only;
	// the replace has already committed.
	if previous != nil && u.archive != nil {
		if key, err := u.archive.ArchiveConfiguration(ctx, previous); err != nil {
			logger.WithContext(ctx).Error().Err(err).Str("config_id", previous.ID).Msg("Failed to archive retired configuration")
		} else {
			logger.WithContext(ctx).Info().Str("config_id", previous.ID).Str("key", key).Msg("Archived retired configuration")
		}
	}

	return stored, nil, nil
}

// ActiveConfiguration returns the active configuration without caching;
// admins always see the stored truth.
func (u *ConfigAdminUsecase) ActiveConfiguration(ctx context.Context) (*domain.ShippingConfiguration, error) {
	return u.configRepo.GetActive(ctx)
}

// History lists retired configurations, newest first.
func (u *ConfigAdminUsecase) History(ctx context.Context, limit int) ([]domain.ShippingConfiguration, error) {
	return u.configRepo.ListRetired(ctx, limit)
}
