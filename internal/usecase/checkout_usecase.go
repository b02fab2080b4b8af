package usecase

import (
	"context"
	"fmt"

	"bottega-backend/internal/domain"
	"bottega-backend/internal/infrastructure/idempotency"
	"bottega-backend/internal/pricing"
	"bottega-backend/pkg/logger"
	"bottega-backend/pkg/utils"
)

// CheckoutUsecase sits at the payment-provider boundary: it consumes the
// two resolvers' results, builds the line the provider expects, and records
// the handoff. Pricing itself stays in the pure core.
type CheckoutUsecase struct {
	shipping      *ShippingUsecase
	subscriptions *SubscriptionUsecase
	orders        domain.CheckoutOrderRepository
	provider      domain.PaymentProvider
	seenKeys      *idempotency.KeySet
	txManager     domain.TransactionManager
}

func NewCheckoutUsecase(
	shipping *ShippingUsecase,
	subscriptions *SubscriptionUsecase,
	orders domain.CheckoutOrderRepository,
	provider domain.PaymentProvider,
	seenKeys *idempotency.KeySet,
	txManager domain.TransactionManager,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		shipping:      shipping,
		subscriptions: subscriptions,
		orders:        orders,
		provider:      provider,
		seenKeys:      seenKeys,
		txManager:     txManager,
	}
}

type CheckoutReq struct {
	Kind           string `json:"kind"`
	IdempotencyKey string `json:"idempotencyKey"`

	// One-time: the cart facts the shipping resolver prices against.
	Zone             string `json:"zone"`
	TotalWeightGrams int64  `json:"totalWeightGrams"`
	Subtotal         int64  `json:"subtotal"`
	AllWeightsKnown  bool   `json:"allWeightsKnown"`

	// Recurring.
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Cadence   string `json:"cadence"`
}

// Checkout resolves the price, creates the payment session, and records the
// handoff. Duplicate submissions with the same idempotency key return the
// already-recorded order instead of a second provider call: the in-memory
// key set absorbs rapid retries, the checkout_orders row is the durable
// guard.
func (u *CheckoutUsecase) Checkout(ctx context.Context, userID string, req CheckoutReq) (*domain.CheckoutOrder, error) {
	if req.IdempotencyKey == "" {
		return nil, fmt.Errorf("idempotency key is required")
	}

	dedupeKey := userID + ":" + req.IdempotencyKey

	if existing, err := u.orders.GetByIdempotencyKey(ctx, userID, req.IdempotencyKey); err != nil {
		return nil, err
	} else if existing != nil {
		u.seenKeys.Mark(dedupeKey)
		return existing, nil
	}

	if u.seenKeys.Seen(dedupeKey) {
		// A concurrent submission holds the key but has not committed yet.
		return nil, fmt.Errorf("checkout already in progress for this request")
	}
	u.seenKeys.Mark(dedupeKey)

	order, err := u.performCheckout(ctx, userID, req)
	if err != nil {
		// Allow a clean retry; nothing durable was recorded.
		u.seenKeys.Forget(dedupeKey)
		return nil, err
	}
	return order, nil
}

func (u *CheckoutUsecase) performCheckout(ctx context.Context, userID string, req CheckoutReq) (*domain.CheckoutOrder, error) {
	order := &domain.CheckoutOrder{
		ID:             utils.NewID(),
		UserID:         userID,
		Kind:           req.Kind,
		IdempotencyKey: req.IdempotencyKey,
	}

	switch req.Kind {
	case domain.CheckoutKindOneTime:
		outcome := u.shipping.Quote(ctx, pricing.QuoteInput{
			ZoneKey:          req.Zone,
			TotalWeightGrams: req.TotalWeightGrams,
			Subtotal:         req.Subtotal,
			AllWeightsKnown:  req.AllWeightsKnown,
		})
		if !outcome.Status.Quotable() {
			return nil, fmt.Errorf("shipping cannot be priced: %s", outcome.Status)
		}

		line := domain.ShippingLine{Cost: outcome.Cost, Currency: domain.Currency}
		sessionID, err := u.provider.CreateShippingCheckout(ctx, line)
		if err != nil {
			return nil, fmt.Errorf("payment provider rejected checkout: %w", err)
		}
		order.Shipping = &line
		order.SessionID = sessionID

	case domain.CheckoutKindRecurring:
		planID, err := u.subscriptions.ResolvePlan(ctx, req.ProductID, req.Quantity, req.Zone, req.Cadence)
		if err != nil {
			return nil, err
		}

		line := domain.RecurringLine{
			Zone:     req.Zone,
			Cadence:  req.Cadence,
			Quantity: req.Quantity,
			PlanID:   planID,
		}
		sessionID, err := u.provider.CreateRecurringCheckout(ctx, line)
		if err != nil {
			return nil, fmt.Errorf("payment provider rejected checkout: %w", err)
		}
		order.Recurring = &line
		order.SessionID = sessionID

	default:
		return nil, fmt.Errorf("unknown checkout kind %q", req.Kind)
	}

	err := u.txManager.Do(ctx, func(txCtx context.Context) error {
		return u.orders.Create(txCtx, order)
	})
	if err != nil {
		// The provider session exists but the record failed; log loudly so
		// reconciliation can pick it up from the provider side.
		logger.WithContext(ctx).Error().Err(err).Str("session_id", order.SessionID).Msg("Checkout recorded at provider but not persisted")
		return nil, err
	}

	return order, nil
}

// GetMyOrders lists the caller's recorded checkouts.
func (u *CheckoutUsecase) GetMyOrders(ctx context.Context, userID string) ([]domain.CheckoutOrder, error) {
	return u.orders.GetByUserID(ctx, userID)
}
