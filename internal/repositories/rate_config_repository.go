package repositories

import (
	"context"
	"errors"

	"fabric-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RateConfigRepository stores the single rate_config row (id = 1)
type RateConfigRepository struct {
	DB *pgxpool.Pool
}

func NewRateConfigRepository(db *pgxpool.Pool) *RateConfigRepository {
	return &RateConfigRepository{DB: db}
}

func (r *RateConfigRepository) Get(ctx context.Context) (*models.RateConfig, error) {
	cfg := &models.RateConfig{}
	err := r.DB.QueryRow(ctx,
		`SELECT coating_rate::float8, washing_rate::float8, updated_at FROM rate_config WHERE id = 1`,
	).Scan(&cfg.CoatingRate, &cfg.WashingRate, &cfg.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (r *RateConfigRepository) Upsert(ctx context.Context, coatingRate, washingRate float64) (*models.RateConfig, error) {
	query := `
		INSERT INTO rate_config (id, coating_rate, washing_rate, updated_at)
		VALUES (1, $1, $2, NOW())
		ON CONFLICT (id) DO UPDATE
		SET coating_rate = EXCLUDED.coating_rate,
		    washing_rate = EXCLUDED.washing_rate,
		    updated_at = EXCLUDED.updated_at
		RETURNING coating_rate::float8, washing_rate::float8, updated_at
	`
	cfg := &models.RateConfig{}
	if err := r.DB.QueryRow(ctx, query, coatingRate, washingRate).Scan(&cfg.CoatingRate, &cfg.WashingRate, &cfg.UpdatedAt); err != nil {
		return nil, err
	}
	return cfg, nil
}
