package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bottega-backend/internal/domain"
	"bottega-backend/internal/infrastructure/idempotency"
)

type checkoutFixture struct {
	uc       *CheckoutUsecase
	orders   *fakeOrderRepo
	provider *fakeProvider
	products *fakeProductRepo
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	products := &fakeProductRepo{products: map[string]*domain.Product{
		"prod-1": {
			ID:       "prod-1",
			Name:     "Miscela Casa",
			Slug:     "miscela-casa",
			IsActive: true,
			PriceMap: domain.RecurringPriceMap{
				Nested: map[string]map[string]map[string]string{
					"1": {domain.ZoneEurope: {domain.CadenceMonthly: "plan_eu_m_1"}},
				},
			},
		},
	}}

	orders := &fakeOrderRepo{}
	provider := &fakeProvider{}

	uc := NewCheckoutUsecase(
		newShippingUC(&fakeConfigRepo{active: validConfig()}),
		NewSubscriptionUsecase(products),
		orders,
		provider,
		idempotency.NewKeySet(time.Minute, time.Minute),
		passThroughTx{},
	)

	return &checkoutFixture{uc: uc, orders: orders, provider: provider, products: products}
}

func TestCheckout_OneTime(t *testing.T) {
	f := newCheckoutFixture(t)

	order, err := f.uc.Checkout(context.Background(), "user-1", CheckoutReq{
		Kind:             domain.CheckoutKindOneTime,
		IdempotencyKey:   "key-1",
		Zone:             domain.ZoneEurope,
		TotalWeightGrams: 2500,
		AllWeightsKnown:  true,
	})
	require.NoError(t, err)

	require.NotNil(t, order.Shipping)
	assert.Nil(t, order.Recurring)
	assert.Equal(t, int64(900), order.Shipping.Cost)
	assert.Equal(t, domain.Currency, order.Shipping.Currency)
	assert.Equal(t, "sess_ship_1", order.SessionID)
	assert.Len(t, f.orders.orders, 1)
}

func TestCheckout_Recurring(t *testing.T) {
	f := newCheckoutFixture(t)

	order, err := f.uc.Checkout(context.Background(), "user-1", CheckoutReq{
		Kind:           domain.CheckoutKindRecurring,
		IdempotencyKey: "key-1",
		Zone:           domain.ZoneEurope,
		ProductID:      "prod-1",
		Quantity:       1,
		Cadence:        domain.CadenceMonthly,
	})
	require.NoError(t, err)

	require.NotNil(t, order.Recurring)
	assert.Nil(t, order.Shipping)
	assert.Equal(t, domain.RecurringLine{
		Zone:     domain.ZoneEurope,
		Cadence:  domain.CadenceMonthly,
		Quantity: 1,
		PlanID:   "plan_eu_m_1",
	}, *order.Recurring)
	assert.Equal(t, "sess_rec_1", order.SessionID)
}

func TestCheckout_DuplicateKeyReturnsRecordedOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	req := CheckoutReq{
		Kind:             domain.CheckoutKindOneTime,
		IdempotencyKey:   "key-dup",
		Zone:             domain.ZoneEurope,
		TotalWeightGrams: 500,
		AllWeightsKnown:  true,
	}

	first, err := f.uc.Checkout(context.Background(), "user-1", req)
	require.NoError(t, err)

	second, err := f.uc.Checkout(context.Background(), "user-1", req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.provider.shippingCalls, "the provider must be called exactly once")
	assert.Len(t, f.orders.orders, 1)
}

func TestCheckout_SameKeyDifferentUsersAreIndependent(t *testing.T) {
	f := newCheckoutFixture(t)
	req := CheckoutReq{
		Kind:             domain.CheckoutKindOneTime,
		IdempotencyKey:   "shared-key",
		Zone:             domain.ZoneEurope,
		TotalWeightGrams: 500,
		AllWeightsKnown:  true,
	}

	_, err := f.uc.Checkout(context.Background(), "user-1", req)
	require.NoError(t, err)
	_, err = f.uc.Checkout(context.Background(), "user-2", req)
	require.NoError(t, err)

	assert.Equal(t, 2, f.provider.shippingCalls)
}

func TestCheckout_MissingIdempotencyKey(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.uc.Checkout(context.Background(), "user-1", CheckoutReq{
		Kind: domain.CheckoutKindOneTime,
		Zone: domain.ZoneEurope,
	})
	require.Error(t, err)
	assert.Zero(t, f.provider.shippingCalls)
}

func TestCheckout_UnpriceableShippingBlocksCheckout(t *testing.T) {
	f := newCheckoutFixture(t)

	tests := []struct {
		name string
		req  CheckoutReq
	}{
		{"weight unknown", CheckoutReq{
			Kind: domain.CheckoutKindOneTime, IdempotencyKey: "k1",
			Zone: domain.ZoneEurope, AllWeightsKnown: false,
		}},
		{"no zone", CheckoutReq{
			Kind: domain.CheckoutKindOneTime, IdempotencyKey: "k2",
			AllWeightsKnown: true,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.uc.Checkout(context.Background(), "user-1", tt.req)
			require.Error(t, err)
		})
	}
	assert.Zero(t, f.provider.shippingCalls, "an unpriced cart must never reach the provider")
}

func TestCheckout_ProviderFailureAllowsRetry(t *testing.T) {
	f := newCheckoutFixture(t)
	f.provider.err = assert.AnError

	req := CheckoutReq{
		Kind:             domain.CheckoutKindOneTime,
		IdempotencyKey:   "key-retry",
		Zone:             domain.ZoneEurope,
		TotalWeightGrams: 500,
		AllWeightsKnown:  true,
	}

	_, err := f.uc.Checkout(context.Background(), "user-1", req)
	require.Error(t, err)
	assert.Empty(t, f.orders.orders)

	// The key was released; the retry goes through.
	f.provider.err = nil
	order, err := f.uc.Checkout(context.Background(), "user-1", req)
	require.NoError(t, err)
	assert.NotNil(t, order)
}

func TestCheckout_RecurringPlanNotFoundBlocksPurchase(t *testing.T) {
	f := newCheckoutFixture(t)

	// Quantity 2 has no nested entry and the legacy fallback must not fire.
	_, err := f.uc.Checkout(context.Background(), "user-1", CheckoutReq{
		Kind:           domain.CheckoutKindRecurring,
		IdempotencyKey: "key-q2",
		Zone:           domain.ZoneEurope,
		ProductID:      "prod-1",
		Quantity:       2,
		Cadence:        domain.CadenceMonthly,
	})
	require.Error(t, err)
	assert.Zero(t, f.provider.recurringCalls)
}

func TestCheckout_UnknownKind(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.uc.Checkout(context.Background(), "user-1", CheckoutReq{
		Kind:           "gift_card",
		IdempotencyKey: "key-x",
	})
	require.Error(t, err)
}

func TestCheckout_GetMyOrders(t *testing.T) {
	f := newCheckoutFixture(t)

	for i, key := range []string{"a", "b"} {
		_, err := f.uc.Checkout(context.Background(), "user-1", CheckoutReq{
			Kind:             domain.CheckoutKindOneTime,
			IdempotencyKey:   key,
			Zone:             domain.ZoneEurope,
			TotalWeightGrams: int64(100 * (i + 1)),
			AllWeightsKnown:  true,
		})
		require.NoError(t, err)
	}

	orders, err := f.uc.GetMyOrders(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}
