package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"fabric-backend/internal/cache"
	"fabric-backend/internal/services"
	"fabric-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type DashboardHandler struct {
	Service *services.DashboardService
}

func NewDashboardHandler(s *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{Service: s}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	h.cached(w, r, cache.DashboardStatsKey, func() (interface{}, error) {
		return h.Service.Stats(r.Context())
	})
}

func (h *DashboardHandler) ChartData(w http.ResponseWriter, r *http.Request) {
	h.cached(w, r, cache.DashboardChartKey, func() (interface{}, error) {
		return h.Service.ChartData(r.Context())
	})
}

// JobSummary shows party, stage and the coating and washing charges booked against a job
func (h *DashboardHandler) JobSummary(w http.ResponseWriter, r *http.Request) {
	jobID := mux.Vars(r)["jobId"]
	h.cached(w, r, fmt.Sprintf(cache.JobSummaryKeyFmt, jobID), func() (interface{}, error) {
		return h.Service.JobSummary(r.Context(), jobID)
	})
}

// cached serves key from Redis when present, otherwise computes and stores it
func (h *DashboardHandler) cached(w http.ResponseWriter, r *http.Request, key string, load func() (interface{}, error)) {
	if data, ok := cache.GetCached(r.Context(), key); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "HIT")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return
	}

	result, err := load()
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	cache.SetCached(r.Context(), key, data, cache.DashboardTTL)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
