package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"fabric-backend/internal/models"
	"fabric-backend/internal/repositories"
)

// lastJobMillis keeps generated job ids strictly increasing within the process
var lastJobMillis atomic.Int64

// nextJobID returns FAB followed by a millisecond timestamp, bumped when two jobs share a millisecond
func nextJobID(now time.Time) string {
	ms := now.UnixMilli()
	for {
		last := lastJobMillis.Load()
		if ms <= last {
			ms = last + 1
		}
		if lastJobMillis.CompareAndSwap(last, ms) {
			return fmt.Sprintf("FAB%d", ms)
		}
	}
}

type JobService struct {
	JobRepo JobStore
}

func NewJobService(jobRepo JobStore) *JobService {
	return &JobService{JobRepo: jobRepo}
}

// CreateJob registers a new job at the raw stage
func (s *JobService) CreateJob(ctx context.Context, req *models.CreateJobRequest) (*models.Job, error) {
	req.PartyName = strings.TrimSpace(req.PartyName)
	req.FabricType = strings.TrimSpace(req.FabricType)
	req.MobileNumber = strings.TrimSpace(req.MobileNumber)
	if err := validate.Struct(req); err != nil {
		return nil, validationError(err)
	}

	now := time.Now()
	job := &models.Job{
		JobID:        nextJobID(now),
		PartyName:    req.PartyName,
		FabricType:   req.FabricType,
		Quantity:     req.Quantity,
		Rate:         req.Rate,
		MobileNumber: req.MobileNumber,
		Stage:        models.StageRaw,
		DeliveryDate: nil, // set when the job is delivered
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.JobRepo.Create(ctx, job); err != nil {
		return nil, storageError("create job", err)
	}
	return job, nil
}

// GetJob looks a job up by its public id
func (s *JobService) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return nil, fmt.Errorf("%w: jobId is required", ErrValidation)
	}

	job, err := s.JobRepo.GetByJobID(ctx, jobID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: job %s", ErrNotFound, jobID)
		}
		return nil, storageError("get job", err)
	}
	return job, nil
}

// SearchByPartyName returns jobs whose party name contains pattern, ignoring case
func (s *JobService) SearchByPartyName(ctx context.Context, pattern string) ([]*models.Job, error) {
	jobs, err := s.JobRepo.SearchByPartyName(ctx, strings.TrimSpace(pattern))
	if err != nil {
		return nil, storageError("search jobs", err)
	}
	if jobs == nil {
		jobs = []*models.Job{}
	}
	return jobs, nil
}

// Scan returns the job as seen by the floor scanner along with the stage it moves to next
func (s *JobService) Scan(ctx context.Context, jobID string) (*models.ScanResult, error) {
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	result := &models.ScanResult{
		JobID:        job.JobID,
		PartyName:    job.PartyName,
		FabricType:   job.FabricType,
		Quantity:     job.Quantity,
		Stage:        job.Stage,
		MobileNumber: job.MobileNumber,
	}
	if next, ok := job.Stage.Next(); ok {
		result.NextStage = &next
	}
	return result, nil
}
