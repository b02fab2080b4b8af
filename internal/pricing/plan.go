package pricing

import (
	"errors"
	"fmt"
	"strconv"

	"bottega-backend/internal/domain"
)

// Sentinel errors for billing-plan resolution. Callers branch with
// errors.Is; messages are safe to surface to the storefront.
var (
	ErrInvalidQuantity = errors.New("quantity must be a positive integer")
	ErrUnknownZone     = errors.New("zone is not a recognized destination zone")
	ErrUnknownCadence  = errors.New("cadence is not a recognized billing cadence")
	ErrPlanNotFound    = errors.New("no plan configured for this quantity/zone/cadence combination")
)

// ResolveBillingPlan resolves the payment provider's plan identifier for a
// product/quantity/zone/cadence combination.
//
// The lookup chain is deliberately explicit and ordered:
//
//  1. Nested map (quantity -> zone -> cadence). Authoritative; supports
//     arbitrary quantities.
//  2. Legacy map (zone -> cadence), attempted only when quantity == 1. The
//     legacy map has no quantity dimension, so reusing its quantity-1 price
//     for a larger quantity would under-charge; quantities above 1 with no
//     nested entry are a missing-configuration error, never a fallback.
func ResolveBillingPlan(m domain.RecurringPriceMap, quantity int, zoneKey, cadence string) (string, error) {
	if quantity < 1 {
		return "", fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}
	if !domain.IsZone(zoneKey) {
		return "", fmt.Errorf("%w: %q", ErrUnknownZone, zoneKey)
	}
	if !domain.IsCadence(cadence) {
		return "", fmt.Errorf("%w: %q", ErrUnknownCadence, cadence)
	}

	if planID, ok := nestedPlan(m, quantity, zoneKey, cadence); ok {
		return planID, nil
	}
	if quantity == 1 {
		if planID, ok := legacyPlan(m, zoneKey, cadence); ok {
			return planID, nil
		}
	}
	return "", ErrPlanNotFound
}

// nestedPlan is lookup step 1. Quantities key the map as decimal strings.
func nestedPlan(m domain.RecurringPriceMap, quantity int, zoneKey, cadence string) (string, bool) {
	byZone, ok := m.Nested[strconv.Itoa(quantity)]
	if !ok {
		return "", false
	}
	byCadence, ok := byZone[zoneKey]
	if !ok {
		return "", false
	}
	planID, ok := byCadence[cadence]
	return planID, ok && planID != ""
}

// legacyPlan is lookup step 2, the implicit quantity-1 map.
func legacyPlan(m domain.RecurringPriceMap, zoneKey, cadence string) (string, bool) {
	byCadence, ok := m.Legacy[zoneKey]
	if !ok {
		return "", false
	}
	planID, ok := byCadence[cadence]
	return planID, ok && planID != ""
}
