package postgresrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bottega-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type checkoutOrderRepository struct {
	db *pgxpool.Pool
}

func NewCheckoutOrderRepository(db *pgxpool.Pool) domain.CheckoutOrderRepository {
	return &checkoutOrderRepository{db: db}
}

func (r *checkoutOrderRepository) Create(ctx context.Context, order *domain.CheckoutOrder) error {
	var shipping, recurring []byte
	var err error
	if order.Shipping != nil {
		if shipping, err = json.Marshal(order.Shipping); err != nil {
			return fmt.Errorf("encode shipping line: %w", err)
		}
	}
	if order.Recurring != nil {
		if recurring, err = json.Marshal(order.Recurring); err != nil {
			return fmt.Errorf("encode recurring line: %w", err)
		}
	}

	// The unique (user_id, idempotency_key) index is the durable duplicate
	// guard behind the in-memory key set.
	_, err = querierFrom(ctx, r.db).Exec(ctx,
		`INSERT INTO checkout_orders (id, user_id, kind, idempotency_key, session_id, shipping, recurring, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, now())`,
		order.ID, order.UserID, order.Kind, order.IdempotencyKey, order.SessionID, shipping, recurring)
	if err != nil {
		return fmt.Errorf("create checkout order: %w", err)
	}
	return nil
}

func (r *checkoutOrderRepository) GetByIdempotencyKey(ctx context.Context, userID, key string) (*domain.CheckoutOrder, error) {
	row := querierFrom(ctx, r.db).QueryRow(ctx,
		`SELECT id, user_id, kind, idempotency_key, session_id, shipping, recurring, created_at
		 FROM checkout_orders
		 WHERE user_id = $1 AND idempotency_key = $2`,
		userID, key)

	order, err := scanCheckoutOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get checkout order by idempotency key: %w", err)
	}
	return order, nil
}

func (r *checkoutOrderRepository) GetByUserID(ctx context.Context, userID string) ([]domain.CheckoutOrder, error) {
	rows, err := querierFrom(ctx, r.db).Query(ctx,
		`SELECT id, user_id, kind, idempotency_key, session_id, shipping, recurring, created_at
		 FROM checkout_orders
		 WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list checkout orders: %w", err)
	}
	defer rows.Close()

	var out []domain.CheckoutOrder
	for rows.Next() {
		order, err := scanCheckoutOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan checkout order: %w", err)
		}
		out = append(out, *order)
	}
	return out, rows.Err()
}

func scanCheckoutOrder(row pgx.Row) (*domain.CheckoutOrder, error) {
	var (
		order     domain.CheckoutOrder
		shipping  []byte
		recurring []byte
		createdAt time.Time
	)
	if err := row.Scan(&order.ID, &order.UserID, &order.Kind, &order.IdempotencyKey, &order.SessionID, &shipping, &recurring, &createdAt); err != nil {
		return nil, err
	}

	if len(shipping) > 0 {
		order.Shipping = &domain.ShippingLine{}
		if err := json.Unmarshal(shipping, order.Shipping); err != nil {
			return nil, fmt.Errorf("decode shipping line: %w", err)
		}
	}
	if len(recurring) > 0 {
		order.Recurring = &domain.RecurringLine{}
		if err := json.Unmarshal(recurring, order.Recurring); err != nil {
			return nil, fmt.Errorf("decode recurring line: %w", err)
		}
	}

	order.CreatedAt = createdAt
	return &order, nil
}
