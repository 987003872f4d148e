package dynamo

import (
	"context"
	"time"

	"fabric-backend/internal/models"
	"fabric-backend/internal/repositories"
)

const rateItemID = "current"

type rateItem struct {
	ID          string  `dynamodbav:"id"`
	CoatingRate float64 `dynamodbav:"coating_rate"`
	WashingRate float64 `dynamodbav:"washing_rate"`
	UpdatedAt   string  `dynamodbav:"updated_at"`
}

// RateStore keeps the single rate configuration item
type RateStore struct {
	ddb   API
	table string
}

func NewRateStore(ddb API, table string) *RateStore {
	return &RateStore{ddb: ddb, table: table}
}

func (s *RateStore) Get(ctx context.Context) (*models.RateConfig, error) {
	var it rateItem
	ok, err := get(ctx, s.ddb, s.table, "id", rateItemID, &it)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &models.RateConfig{
		CoatingRate: it.CoatingRate,
		WashingRate: it.WashingRate,
		UpdatedAt:   parseTime(it.UpdatedAt),
	}, nil
}

// Upsert replaces the configuration unconditionally
func (s *RateStore) Upsert(ctx context.Context, coatingRate, washingRate float64) (*models.RateConfig, error) {
	now := time.Now()
	it := rateItem{
		ID:          rateItemID,
		CoatingRate: coatingRate,
		WashingRate: washingRate,
		UpdatedAt:   formatTime(now),
	}
	if err := put(ctx, s.ddb, s.table, "id", it, ""); err != nil {
		return nil, err
	}
	return &models.RateConfig{CoatingRate: coatingRate, WashingRate: washingRate, UpdatedAt: now}, nil
}
