package handlers

import (
	"encoding/json"
	"net/http"

	"fabric-backend/internal/cache"
	"fabric-backend/internal/models"
	"fabric-backend/internal/services"
	"fabric-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type JobHandler struct {
	Jobs   *services.JobService
	Stages *services.StageService
}

func NewJobHandler(jobs *services.JobService, stages *services.StageService) *JobHandler {
	return &JobHandler{Jobs: jobs, Stages: stages}
}

// CreateJob registers a job at the raw stage
func (h *JobHandler) CreateJob(w http.ResponseWriter, r *http.Request) {
	var req models.CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	job, err := h.Jobs.CreateJob(r.Context(), &req)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	cache.InvalidateDashboardCaches(r.Context())
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Job created successfully",
		"job":     job,
	})
}

func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.Jobs.GetJob(r.Context(), mux.Vars(r)["jobId"])
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, job)
}

// Scan is called by the floor scanner with the id printed on the job tag
func (h *JobHandler) Scan(w http.ResponseWriter, r *http.Request) {
	var req models.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.Jobs.Scan(r.Context(), req.JobID)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

// UpdateStage responds as soon as the stage is stored; side effects run in the background
func (h *JobHandler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	job, err := h.Stages.AdvanceStage(r.Context(), req.JobID, req.Stage)
	if err != nil {
		utils.ServiceError(w, err)
		return
	}

	cache.InvalidateDashboardCaches(r.Context())
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Stage updated to " + string(job.Stage),
		"job":     job,
	})
}

// SearchJobs matches ?partyName= anywhere in the party name, ignoring case
func (h *JobHandler) SearchJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.Jobs.SearchByPartyName(r.Context(), r.URL.Query().Get("partyName"))
	if err != nil {
		utils.ServiceError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, jobs)
}
