package pricing

import (
	"fmt"
	"sort"

	"bottega-backend/internal/domain"
)

// Violation codes. Stable strings: admin tooling matches on them.
const (
	CodeNoTiers            = "no_tiers"
	CodeFirstLowerNonzero  = "first_lower_nonzero"
	CodeBoundsInverted     = "tier_bounds_inverted"
	CodeNonContiguous      = "non_contiguous_tiers"
	CodeUnboundedNotLast   = "unbounded_tier_not_last"
	CodeDuplicateLabel     = "duplicate_tier_label"
	CodeMissingCostEntry   = "missing_cost_entry"
	CodeDomesticInTable    = "domestic_zone_in_cost_table"
	CodeUnknownZoneInTable = "unknown_zone_in_cost_table"
	CodeNegativeCost       = "negative_cost"
	CodeNegativeAmount     = "negative_domestic_amount"
	CodeStaleTierIndex     = "stale_tier_index"
)

// Violation is one specific rule the candidate configuration breaks.
type Violation struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func violation(code, format string, args ...any) Violation {
	return Violation{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ValidateConfiguration checks every rule and returns all violations at
// once, so an administrator sees every problem in a single round trip. An
// empty slice means the candidate may replace the active configuration.
//
// Rules:
//   - at least one tier; tiers sorted by lower bound are contiguous
//     (tier[i].upper == tier[i+1].lower) with the first lower bound at 0
//   - lower < upper for every bounded tier; only the last tier may be
//     unbounded (UpperGrams == 0)
//   - tier labels are unique
//   - every non-domestic zone has a cost entry for every tier, costs are
//     non-negative, and no entry targets the domestic zone, an unknown
//     zone, or a tier index that no longer exists
//   - domestic standard cost and free threshold are non-negative
func ValidateConfiguration(cfg *domain.ShippingConfiguration) []Violation {
	var vs []Violation

	tiers := sortedTiers(cfg.Tiers)
	vs = append(vs, validateTiers(tiers)...)
	vs = append(vs, validateCostTable(cfg, tiers)...)

	if cfg.Domestic.StandardCost < 0 {
		vs = append(vs, violation(CodeNegativeAmount, "domestic standard cost must be >= 0, got %d", cfg.Domestic.StandardCost))
	}
	if cfg.Domestic.FreeThreshold < 0 {
		vs = append(vs, violation(CodeNegativeAmount, "domestic free-shipping threshold must be >= 0, got %d", cfg.Domestic.FreeThreshold))
	}

	return vs
}

func validateTiers(tiers []domain.WeightTier) []Violation {
	var vs []Violation

	if len(tiers) == 0 {
		return append(vs, violation(CodeNoTiers, "configuration must declare at least one weight tier"))
	}

	if tiers[0].LowerGrams != 0 {
		vs = append(vs, violation(CodeFirstLowerNonzero, "first tier must start at 0g, got %dg", tiers[0].LowerGrams))
	}

	seen := map[string]bool{}
	for i, t := range tiers {
		if !t.Unbounded() && t.UpperGrams <= t.LowerGrams {
			vs = append(vs, violation(CodeBoundsInverted, "tier %q: upper bound %dg must exceed lower bound %dg", t.Label, t.UpperGrams, t.LowerGrams))
		}
		if t.Unbounded() && i != len(tiers)-1 {
			vs = append(vs, violation(CodeUnboundedNotLast, "tier %q is unbounded but is not the last tier", t.Label))
		}
		if seen[t.Label] {
			vs = append(vs, violation(CodeDuplicateLabel, "tier label %q is used more than once", t.Label))
		}
		seen[t.Label] = true

		if i > 0 {
			prev := tiers[i-1]
			if !prev.Unbounded() && prev.UpperGrams != t.LowerGrams {
				vs = append(vs, violation(CodeNonContiguous, "gap or overlap between tier %q (upper %dg) and tier %q (lower %dg)", prev.Label, prev.UpperGrams, t.Label, t.LowerGrams))
			}
		}
	}

	return vs
}

func validateCostTable(cfg *domain.ShippingConfiguration, tiers []domain.WeightTier) []Violation {
	var vs []Violation

	// Every weight-tiered zone must cover every tier. Missing combinations
	// would otherwise surface as runtime not_configured outcomes.
	for _, zoneKey := range domain.ZoneOrder {
		if zoneKey == domain.DomesticZone {
			continue
		}
		for _, t := range tiers {
			cost, ok := cfg.TierCost(zoneKey, t.Index)
			if !ok {
				vs = append(vs, violation(CodeMissingCostEntry, "zone %q has no cost for tier %q (index %d)", zoneKey, t.Label, t.Index))
				continue
			}
			if cost < 0 {
				vs = append(vs, violation(CodeNegativeCost, "zone %q tier %q: cost must be >= 0, got %d", zoneKey, t.Label, cost))
			}
		}
	}

	tierIndexes := map[int]bool{}
	for _, t := range tiers {
		tierIndexes[t.Index] = true
	}

	for zoneKey, byTier := range cfg.WeightCosts {
		if zoneKey == domain.DomesticZone {
			vs = append(vs, violation(CodeDomesticInTable, "domestic zone %q must not appear in the weight cost table", zoneKey))
			continue
		}
		if !domain.IsZone(zoneKey) {
			vs = append(vs, violation(CodeUnknownZoneInTable, "cost table references unknown zone %q", zoneKey))
			continue
		}
		for idx := range byTier {
			if !tierIndexes[idx] {
				vs = append(vs, violation(CodeStaleTierIndex, "zone %q has a cost for tier index %d, which no declared tier carries", zoneKey, idx))
			}
		}
	}

	return vs
}

// sortedTiers returns a copy of tiers ordered by lower bound. The input is
// never mutated; resolvers and validation share this ordering.
func sortedTiers(tiers []domain.WeightTier) []domain.WeightTier {
	out := make([]domain.WeightTier, len(tiers))
	copy(out, tiers)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LowerGrams < out[j].LowerGrams
	})
	return out
}
