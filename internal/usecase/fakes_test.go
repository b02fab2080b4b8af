package usecase

import (
	"context"
	"errors"
	"fmt"

	"bottega-backend/internal/domain"
)

// --- Test doubles shared across usecase tests ---

type fakeConfigRepo struct {
	active     *domain.ShippingConfiguration
	retired    []domain.ShippingConfiguration
	getErr     error
	getCalls   int
	replaceErr error
}

func (f *fakeConfigRepo) GetActive(ctx context.Context) (*domain.ShippingConfiguration, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.active, nil
}

func (f *fakeConfigRepo) Replace(ctx context.Context, cfg *domain.ShippingConfiguration) (*domain.ShippingConfiguration, error) {
	if f.replaceErr != nil {
		return nil, f.replaceErr
	}
	if f.active != nil {
		old := *f.active
		old.IsActive = false
		f.retired = append([]domain.ShippingConfiguration{old}, f.retired...)
	}
	stored := *cfg
	stored.IsActive = true
	if stored.ID == "" {
		stored.ID = fmt.Sprintf("cfg-%d", len(f.retired)+1)
	}
	f.active = &stored
	return &stored, nil
}

func (f *fakeConfigRepo) ListRetired(ctx context.Context, limit int) ([]domain.ShippingConfiguration, error) {
	if limit > len(f.retired) {
		limit = len(f.retired)
	}
	return f.retired[:limit], nil
}

type fakeProductRepo struct {
	products map[string]*domain.Product
}

func (f *fakeProductRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, errors.New("no rows in result set")
	}
	return p, nil
}

func (f *fakeProductRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	for _, p := range f.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, errors.New("no rows in result set")
}

func (f *fakeProductRepo) UpdatePriceMap(ctx context.Context, productID string, m domain.RecurringPriceMap) error {
	p, ok := f.products[productID]
	if !ok {
		return fmt.Errorf("product %s not found", productID)
	}
	p.PriceMap = m
	return nil
}

type fakeOrderRepo struct {
	orders    []*domain.CheckoutOrder
	createErr error
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *domain.CheckoutOrder) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.orders = append(f.orders, order)
	return nil
}

func (f *fakeOrderRepo) GetByIdempotencyKey(ctx context.Context, userID, key string) (*domain.CheckoutOrder, error) {
	for _, o := range f.orders {
		if o.UserID == userID && o.IdempotencyKey == key {
			return o, nil
		}
	}
	return nil, nil
}

func (f *fakeOrderRepo) GetByUserID(ctx context.Context, userID string) ([]domain.CheckoutOrder, error) {
	var out []domain.CheckoutOrder
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

type fakeProvider struct {
	shippingCalls  int
	recurringCalls int
	lastShipping   domain.ShippingLine
	lastRecurring  domain.RecurringLine
	err            error
}

func (f *fakeProvider) CreateShippingCheckout(ctx context.Context, line domain.ShippingLine) (string, error) {
	f.shippingCalls++
	f.lastShipping = line
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("sess_ship_%d", f.shippingCalls), nil
}

func (f *fakeProvider) CreateRecurringCheckout(ctx context.Context, line domain.RecurringLine) (string, error) {
	f.recurringCalls++
	f.lastRecurring = line
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("sess_rec_%d", f.recurringCalls), nil
}

type passThroughTx struct{}

func (passThroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeArchiver struct {
	archived []string
	err      error
}

func (f *fakeArchiver) ArchiveConfiguration(ctx context.Context, cfg *domain.ShippingConfiguration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	key := "configs/" + cfg.ID + ".json"
	f.archived = append(f.archived, key)
	return key, nil
}
