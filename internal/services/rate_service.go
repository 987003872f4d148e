package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"fabric-backend/internal/models"
	"fabric-backend/internal/repositories"
)

// RateService owns the singleton rate configuration. The record is loaded once
// and kept in memory; every successful write replaces the cached copy.
type RateService struct {
	RateRepo RateStore

	mu     sync.RWMutex
	loaded bool
	cached *models.RateConfig
}

var _ RateProvider = (*RateService)(nil)

func NewRateService(rateRepo RateStore) *RateService {
	return &RateService{RateRepo: rateRepo}
}

// SetRates creates the configuration on first use and overwrites it afterwards
func (s *RateService) SetRates(ctx context.Context, req *models.SetRatesRequest) (*models.RateConfig, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: both rates required", ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := s.RateRepo.Upsert(ctx, *req.CoatingRate, *req.WashingRate)
	if err != nil {
		return nil, storageError("save rates", err)
	}
	s.cached = cfg
	s.loaded = true
	return copyRates(cfg), nil
}

// GetRates returns the current configuration or ErrNotFound if rates were never set
func (s *RateService) GetRates(ctx context.Context) (*models.RateConfig, error) {
	return s.Current(ctx)
}

// Current implements RateProvider
func (s *RateService) Current(ctx context.Context) (*models.RateConfig, error) {
	s.mu.RLock()
	if s.loaded {
		cfg := s.cached
		s.mu.RUnlock()
		if cfg == nil {
			return nil, fmt.Errorf("%w: rates not set", ErrNotFound)
		}
		return copyRates(cfg), nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		cfg, err := s.RateRepo.Get(ctx)
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			cfg = nil
		case err != nil:
			return nil, storageError("load rates", err)
		}
		s.cached = cfg
		s.loaded = true
	}
	if s.cached == nil {
		return nil, fmt.Errorf("%w: rates not set", ErrNotFound)
	}
	return copyRates(s.cached), nil
}

func copyRates(cfg *models.RateConfig) *models.RateConfig {
	c := *cfg
	return &c
}
