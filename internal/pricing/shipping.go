// Package pricing holds the pure pricing resolution core: shipping cost
// resolution, recurring billing-plan resolution, and configuration
// validation. Nothing here does I/O or mutates shared state; every function
// is safe to call from any number of concurrent sessions.
package pricing

import "bottega-backend/internal/domain"

// QuoteStatus tags a CostOutcome. Exactly one of the three families applies:
// a usable cost (StatusPriced), a neutral not-yet-applicable state
// (StatusNoZone), or an explicit reason why no cost exists. Callers must
// never read a cost of 0 as "free shipping" without checking the status.
type QuoteStatus string

const (
	// StatusNoZone: no destination chosen yet. Not an error; the UI is
	// waiting for input.
	StatusNoZone QuoteStatus = "no_zone"

	// StatusPriced: Cost and Label are usable.
	StatusPriced QuoteStatus = "priced"

	// StatusConfigUnavailable: the active configuration has not been
	// loaded. Recoverable upstream; never defaulted to a price.
	StatusConfigUnavailable QuoteStatus = "config_unavailable"

	// StatusUnknownZone: the zone key is not a member of the closed set.
	StatusUnknownZone QuoteStatus = "unknown_zone"

	// StatusWeightUnknown: at least one cart item has no weight, so a
	// weight-tiered zone cannot be priced. Surfaced as "contact us for a
	// quote" - under-pricing is a direct cost to the business.
	StatusWeightUnknown QuoteStatus = "weight_unknown"

	// StatusWeightOutOfRange: no configured tier contains the weight.
	StatusWeightOutOfRange QuoteStatus = "weight_out_of_range"

	// StatusNotConfigured: the matched (zone, tier) pair has no cost entry.
	// A configuration defect, surfaced rather than defaulted.
	StatusNotConfigured QuoteStatus = "not_configured"
)

// Quotable reports whether the outcome carries a usable cost.
func (s QuoteStatus) Quotable() bool { return s == StatusPriced }

// CostOutcome is the result of a shipping cost resolution.
type CostOutcome struct {
	Status QuoteStatus `json:"status"`
	Cost   int64       `json:"cost"`
	Free   bool        `json:"free"`
	Label  string      `json:"label,omitempty"`
}

// Labels for the domestic flat-rate path. Tiered zones label the outcome
// with the matched tier's own label instead.
const (
	LabelFree     = "Free"
	LabelStandard = "Standard"
)

// QuoteInput carries the cart facts the resolver prices against.
type QuoteInput struct {
	// ZoneKey is the destination zone; empty means not selected yet.
	ZoneKey string `json:"zone"`
	// TotalWeightGrams is only consulted for weight-tiered zones.
	TotalWeightGrams int64 `json:"totalWeightGrams"`
	// Subtotal (minor units) is only consulted for the domestic zone.
	Subtotal int64 `json:"subtotal"`
	// AllWeightsKnown is true only if every cart line has a known
	// per-unit weight.
	AllWeightsKnown bool `json:"allWeightsKnown"`
}

// ResolveShippingCost deterministically prices a cart for a destination
// zone against cfg. Pure: identical inputs always yield identical outcomes.
func ResolveShippingCost(in QuoteInput, cfg *domain.ShippingConfiguration) CostOutcome {
	if in.ZoneKey == "" {
		return CostOutcome{Status: StatusNoZone}
	}
	if cfg == nil {
		return CostOutcome{Status: StatusConfigUnavailable}
	}
	if !domain.IsZone(in.ZoneKey) {
		return CostOutcome{Status: StatusUnknownZone}
	}

	if in.ZoneKey == domain.DomesticZone {
		return resolveDomestic(in.Subtotal, cfg.Domestic)
	}
	return resolveTiered(in, cfg)
}

// resolveDomestic applies the flat-rate rule: a step function of subtotal,
// never of weight.
func resolveDomestic(subtotal int64, dc domain.DomesticShippingConfig) CostOutcome {
	if subtotal >= dc.FreeThreshold {
		return CostOutcome{Status: StatusPriced, Cost: 0, Free: true, Label: LabelFree}
	}
	return CostOutcome{Status: StatusPriced, Cost: dc.StandardCost, Label: LabelStandard}
}

func resolveTiered(in QuoteInput, cfg *domain.ShippingConfiguration) CostOutcome {
	if !in.AllWeightsKnown {
		return CostOutcome{Status: StatusWeightUnknown}
	}

	tier, ok := matchTier(cfg.Tiers, in.TotalWeightGrams)
	if !ok {
		return CostOutcome{Status: StatusWeightOutOfRange}
	}

	cost, ok := cfg.TierCost(in.ZoneKey, tier.Index)
	if !ok {
		return CostOutcome{Status: StatusNotConfigured}
	}

	return CostOutcome{Status: StatusPriced, Cost: cost, Label: tier.Label}
}

// matchTier scans tiers in ascending order of lower bound and returns the
// unique tier whose half-open range contains w. Validation guarantees
// contiguous, non-overlapping tiers, so at most one can match.
func matchTier(tiers []domain.WeightTier, w int64) (domain.WeightTier, bool) {
	for _, t := range sortedTiers(tiers) {
		if t.Contains(w) {
			return t, true
		}
	}
	return domain.WeightTier{}, false
}
