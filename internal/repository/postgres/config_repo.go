package postgresrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bottega-backend/internal/domain"
	"bottega-backend/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// The whole pricing document (tiers, cost table, domestic config) lives in
// one JSONB column. Replacing a configuration is a single-row insert plus a
// retire update inside one transaction, so a concurrent reader sees either
// the fully-old or fully-new document, never a mixture.
type configDocument struct {
	Tiers       []domain.WeightTier           `json:"tiers"`
	WeightCosts map[string]map[int]int64      `json:"weightCosts"`
	Domestic    domain.DomesticShippingConfig `json:"domestic"`
}

type shippingConfigRepository struct {
	db *pgxpool.Pool
}

func NewShippingConfigRepository(db *pgxpool.Pool) domain.ShippingConfigRepository {
	return &shippingConfigRepository{db: db}
}

func (r *shippingConfigRepository) GetActive(ctx context.Context) (*domain.ShippingConfiguration, error) {
	row := querierFrom(ctx, r.db).QueryRow(ctx,
		`SELECT id, document, is_active, created_at, updated_at
		 FROM shipping_configurations
		 WHERE is_active
		 LIMIT 1`)

	cfg, err := scanConfiguration(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active shipping configuration: %w", err)
	}
	return cfg, nil
}

func (r *shippingConfigRepository) Replace(ctx context.Context, cfg *domain.ShippingConfiguration) (*domain.ShippingConfiguration, error) {
	doc, err := json.Marshal(configDocument{
		Tiers:       cfg.Tiers,
		WeightCosts: cfg.WeightCosts,
		Domestic:    cfg.Domestic,
	})
	if err != nil {
		return nil, fmt.Errorf("encode shipping configuration: %w", err)
	}

	id := cfg.ID
	if id == "" {
		id = utils.NewID()
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE shipping_configurations
		 SET is_active = false, updated_at = now()
		 WHERE is_active`); err != nil {
		return nil, fmt.Errorf("retire active configuration: %w", err)
	}

	row := tx.QueryRow(ctx,
		`INSERT INTO shipping_configurations (id, document, is_active, created_at, updated_at)
		 VALUES ($1, $2, true, now(), now())
		 RETURNING id, document, is_active, created_at, updated_at`,
		id, doc)

	stored, err := scanConfiguration(row)
	if err != nil {
		return nil, fmt.Errorf("insert shipping configuration: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit replace: %w", err)
	}
	return stored, nil
}

func (r *shippingConfigRepository) ListRetired(ctx context.Context, limit int) ([]domain.ShippingConfiguration, error) {
	rows, err := querierFrom(ctx, r.db).Query(ctx,
		`SELECT id, document, is_active, created_at, updated_at
		 FROM shipping_configurations
		 WHERE NOT is_active
		 ORDER BY updated_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list retired configurations: %w", err)
	}
	defer rows.Close()

	var out []domain.ShippingConfiguration
	for rows.Next() {
		cfg, err := scanConfiguration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan retired configuration: %w", err)
		}
		out = append(out, *cfg)
	}
	return out, rows.Err()
}

func scanConfiguration(row pgx.Row) (*domain.ShippingConfiguration, error) {
	var (
		id        string
		docBytes  []byte
		isActive  bool
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&id, &docBytes, &isActive, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var doc configDocument
	if err := json.Unmarshal(docBytes, &doc); err != nil {
		return nil, fmt.Errorf("decode configuration document %s: %w", id, err)
	}

	return &domain.ShippingConfiguration{
		ID:          id,
		Tiers:       doc.Tiers,
		WeightCosts: doc.WeightCosts,
		Domestic:    doc.Domestic,
		IsActive:    isActive,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, nil
}
