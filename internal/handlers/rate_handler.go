package handlers

import (
	"encoding/json"
	"net/http"

	"fabric-backend/internal/models"
	"fabric-backend/internal/services"
	"fabric-backend/pkg/utils"
)

type RateHandler struct {
	Service *services.RateService
}

func NewRateHandler(s *services.RateService) *RateHandler {
	return &RateHandler{Service: s}
}

func (h *RateHandler) SetRates(w http.ResponseWriter, r *http.Request) {
	var req models.SetRatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cfg, err := h.Service.SetRates(r.Context(), &req)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Rates updated",
		"config":  cfg,
	})
}

func (h *RateHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.Service.GetRates(r.Context())
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, cfg)
}
