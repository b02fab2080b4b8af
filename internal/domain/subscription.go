package domain

import (
	"context"
	"time"
)

// Cadence is the recurrence period of a subscription.
const (
	CadenceMonthly    = "monthly"
	CadenceBimonthly  = "bimonthly"
	CadenceQuarterly  = "quarterly"
	CadenceSemiannual = "semiannual"
)

var Cadences = []string{
	CadenceMonthly,
	CadenceBimonthly,
	CadenceQuarterly,
	CadenceSemiannual,
}

// IsCadence reports whether s names a member of the closed cadence set.
func IsCadence(s string) bool {
	for _, c := range Cadences {
		if c == s {
			return true
		}
	}
	return false
}

// RecurringPriceMap holds a product's billing-plan identifiers. Identifiers
// are opaque strings owned by the payment provider; we only check presence.
//
// Nested is the authoritative map: quantity -> zone -> cadence -> plan ID.
// Legacy predates multi-quantity pricing and is implicitly quantity = 1:
// zone -> cadence -> plan ID. Products are migrated to Nested incrementally.
type RecurringPriceMap struct {
	Nested map[string]map[string]map[string]string `json:"nested,omitempty"`
	Legacy map[string]map[string]string            `json:"legacy,omitempty"`
}

// Product is the slice of the catalog record the pricing engine reads:
// unit weight feeds the cart weight total, PriceMap feeds plan resolution.
// The catalog itself is owned elsewhere.
type Product struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Slug            string            `json:"slug"`
	BasePrice       int64             `json:"basePrice"`
	UnitWeightGrams *int64            `json:"unitWeightGrams"` // nil = weight unknown
	IsActive        bool              `json:"isActive"`
	PriceMap        RecurringPriceMap `json:"priceMap"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	// UpdatePriceMap replaces a product's recurring price map wholesale.
	UpdatePriceMap(ctx context.Context, productID string, m RecurringPriceMap) error
}
