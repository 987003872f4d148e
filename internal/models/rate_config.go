package models

import "time"

// RateConfig holds the current per-unit coating and washing charges
type RateConfig struct {
	CoatingRate float64   `json:"coatingRate"`
	WashingRate float64   `json:"washingRate"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RateFor returns the per-unit rate charged when a job reaches stage
func (c *RateConfig) RateFor(stage Stage) (float64, bool) {
	switch stage {
	case StageCoated:
		return c.CoatingRate, true
	case StageWashed:
		return c.WashingRate, true
	}
	return 0, false
}

// SetRatesRequest carries both rates; either missing is rejected
type SetRatesRequest struct {
	CoatingRate *float64 `json:"coatingRate" validate:"required"`
	WashingRate *float64 `json:"washingRate" validate:"required"`
}
