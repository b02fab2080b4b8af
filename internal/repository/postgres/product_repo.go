package postgresrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bottega-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type productRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) domain.ProductRepository {
	return &productRepository{db: db}
}

const productColumns = `id, name, slug, base_price, unit_weight_grams, is_active, price_maps, created_at, updated_at`

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	row := querierFrom(ctx, r.db).QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	row := querierFrom(ctx, r.db).QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE slug = $1`, slug)
	return scanProduct(row)
}

func (r *productRepository) UpdatePriceMap(ctx context.Context, productID string, m domain.RecurringPriceMap) error {
	maps, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode price map: %w", err)
	}

	tag, err := querierFrom(ctx, r.db).Exec(ctx,
		`UPDATE products SET price_maps = $2, updated_at = now() WHERE id = $1`,
		productID, maps)
	if err != nil {
		return fmt.Errorf("update price map for product %s: %w", productID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("product %s not found", productID)
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p         domain.Product
		mapsBytes []byte
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.BasePrice, &p.UnitWeightGrams, &p.IsActive, &mapsBytes, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if len(mapsBytes) > 0 {
		if err := json.Unmarshal(mapsBytes, &p.PriceMap); err != nil {
			return nil, fmt.Errorf("decode price maps for product %s: %w", p.ID, err)
		}
	}

	p.CreatedAt = createdAt
	p.UpdatedAt = updatedAt
	return &p, nil
}
