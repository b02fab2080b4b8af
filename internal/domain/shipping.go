package domain

import (
	"context"
	"time"
)

// All monetary amounts are integer minor units (euro cents). Floats never
// touch money in this package.

// WeightTier is a half-open gram range [LowerGrams, UpperGrams).
// UpperGrams == 0 on the last tier means the tier is unbounded above.
type WeightTier struct {
	Index      int    `json:"index"`
	LowerGrams int64  `json:"lowerGrams"`
	UpperGrams int64  `json:"upperGrams"`
	Label      string `json:"label"`
}

// Unbounded reports whether the tier has no upper bound.
func (t WeightTier) Unbounded() bool {
	return t.UpperGrams == 0
}

// Contains reports whether w falls inside the tier's half-open range.
func (t WeightTier) Contains(w int64) bool {
	if w < t.LowerGrams {
		return false
	}
	return t.Unbounded() || w < t.UpperGrams
}

// DomesticShippingConfig prices the domestic zone: a flat standard cost,
// waived entirely once the cart subtotal reaches the threshold.
type DomesticShippingConfig struct {
	StandardCost  int64 `json:"standardCost"`
	FreeThreshold int64 `json:"freeThreshold"`
}

// ShippingConfiguration is the aggregate the admin surface replaces
// wholesale. WeightCosts maps zone key -> tier index -> cost; the domestic
// zone never appears in it. Exactly one configuration is active at a time.
type ShippingConfiguration struct {
	ID          string                   `json:"id"`
	Tiers       []WeightTier             `json:"tiers"`
	WeightCosts map[string]map[int]int64 `json:"weightCosts"`
	Domestic    DomesticShippingConfig   `json:"domestic"`
	IsActive    bool                     `json:"isActive"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
}

// TierCost looks up the cost for a (zone, tier index) pair.
func (c *ShippingConfiguration) TierCost(zoneKey string, tierIndex int) (int64, bool) {
	byTier, ok := c.WeightCosts[zoneKey]
	if !ok {
		return 0, false
	}
	cost, ok := byTier[tierIndex]
	return cost, ok
}

type ShippingConfigRepository interface {
	// GetActive returns the active configuration, or (nil, nil) when none
	// has been published yet.
	GetActive(ctx context.Context) (*ShippingConfiguration, error)

	// Replace retires the active configuration and installs cfg as the new
	// active one in a single transaction, returning the stored version.
	// Retired rows are kept (soft-retire), never deleted.
	Replace(ctx context.Context, cfg *ShippingConfiguration) (*ShippingConfiguration, error)

	// ListRetired returns previously active configurations, newest first.
	ListRetired(ctx context.Context, limit int) ([]ShippingConfiguration, error)
}
