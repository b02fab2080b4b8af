package usecase

import (
	"context"
	"fmt"
	"strconv"

	"bottega-backend/internal/domain"
	"bottega-backend/internal/pricing"
)

type SubscriptionUsecase struct {
	productRepo domain.ProductRepository
}

func NewSubscriptionUsecase(productRepo domain.ProductRepository) *SubscriptionUsecase {
	return &SubscriptionUsecase{productRepo: productRepo}
}

// ResolvePlan resolves the billing-plan identifier to hand to the payment
// provider for a product/quantity/zone/cadence combination. Resolution
// errors from the pricing core pass through unwrapped so callers can branch
// with errors.Is.
func (u *SubscriptionUsecase) ResolvePlan(ctx context.Context, productID string, quantity int, zone, cadence string) (string, error) {
	product, err := u.productRepo.GetByID(ctx, productID)
	if err != nil {
		return "", fmt.Errorf("product %s not found: %w", productID, err)
	}
	if !product.IsActive {
		return "", fmt.Errorf("product %s is not available", productID)
	}

	return pricing.ResolveBillingPlan(product.PriceMap, quantity, zone, cadence)
}

// ReplacePriceMap is the admin write path for a product's recurring price
// map. Like the shipping configuration, the map is replaced wholesale; all
// structural problems are reported at once.
func (u *SubscriptionUsecase) ReplacePriceMap(ctx context.Context, productID string, m domain.RecurringPriceMap) ([]string, error) {
	if problems := validatePriceMap(m); len(problems) > 0 {
		return problems, nil
	}
	if err := u.productRepo.UpdatePriceMap(ctx, productID, m); err != nil {
		return nil, err
	}
	return nil, nil
}

func validatePriceMap(m domain.RecurringPriceMap) []string {
	var problems []string

	for qty, byZone := range m.Nested {
		if n, err := strconv.Atoi(qty); err != nil || n < 1 {
			problems = append(problems, fmt.Sprintf("nested quantity key %q is not a positive integer", qty))
		}
		for zone, byCadence := range byZone {
			problems = append(problems, validatePlanEntries(fmt.Sprintf("nested[%s]", qty), zone, byCadence)...)
		}
	}
	for zone, byCadence := range m.Legacy {
		problems = append(problems, validatePlanEntries("legacy", zone, byCadence)...)
	}

	return problems
}

func validatePlanEntries(prefix, zone string, byCadence map[string]string) []string {
	var problems []string
	if !domain.IsZone(zone) {
		problems = append(problems, fmt.Sprintf("%s references unknown zone %q", prefix, zone))
	}
	for cadence, planID := range byCadence {
		if !domain.IsCadence(cadence) {
			problems = append(problems, fmt.Sprintf("%s[%s] references unknown cadence %q", prefix, zone, cadence))
		}
		if planID == "" {
			problems = append(problems, fmt.Sprintf("%s[%s][%s] has an empty plan identifier", prefix, zone, cadence))
		}
	}
	return problems
}
