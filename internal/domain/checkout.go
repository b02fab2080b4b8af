package domain

import (
	"context"
	"time"
)

// Currency is fixed: the store prices everything in euro minor units.
const Currency = "EUR"

// ShippingLine is what the payment collaborator expects for a one-time order.
type ShippingLine struct {
	Cost     int64  `json:"cost"`
	Currency string `json:"currency"`
}

// RecurringLine is what the payment collaborator expects for a subscription.
type RecurringLine struct {
	Zone     string `json:"zone"`
	Cadence  string `json:"cadence"`
	Quantity int    `json:"quantity"`
	PlanID   string `json:"planId"`
}

// PaymentProvider builds the actual payment session from a resolved price.
// Implementations live outside this service; tests use fakes.
type PaymentProvider interface {
	CreateShippingCheckout(ctx context.Context, line ShippingLine) (sessionID string, err error)
	CreateRecurringCheckout(ctx context.Context, line RecurringLine) (sessionID string, err error)
}

// Checkout kinds.
const (
	CheckoutKindOneTime   = "one_time"
	CheckoutKindRecurring = "recurring"
)

// CheckoutOrder records an accepted checkout handoff. It is the durable
// source of truth behind the idempotency key set.
type CheckoutOrder struct {
	ID             string         `json:"id"`
	UserID         string         `json:"userId"`
	Kind           string         `json:"kind"`
	IdempotencyKey string         `json:"idempotencyKey"`
	SessionID      string         `json:"sessionId"`
	Shipping       *ShippingLine  `json:"shipping,omitempty"`
	Recurring      *RecurringLine `json:"recurring,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}

type CheckoutOrderRepository interface {
	Create(ctx context.Context, order *CheckoutOrder) error
	// GetByIdempotencyKey returns (nil, nil) when the key has not been seen.
	GetByIdempotencyKey(ctx context.Context, userID, key string) (*CheckoutOrder, error)
	GetByUserID(ctx context.Context, userID string) ([]CheckoutOrder, error)
}

type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
